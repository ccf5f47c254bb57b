package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MrPunder/grouppicker/internal/catalog"
	"github.com/MrPunder/grouppicker/internal/groups"
	"github.com/MrPunder/grouppicker/internal/logger"
	"github.com/MrPunder/grouppicker/internal/models"
	"github.com/MrPunder/grouppicker/internal/picker"
	"github.com/MrPunder/grouppicker/internal/qrcode"
	"github.com/MrPunder/grouppicker/internal/settings"
	"github.com/go-chi/chi/v5"
)

type Handler struct {
	logger  logger.Logger
	catalog *catalog.Catalog
	storage settings.Storage
	sorter  groups.Sorter
	botName string
}

func NewHandler(logger logger.Logger, catalog *catalog.Catalog, storage settings.Storage, sorter groups.Sorter, botName string) *Handler {
	return &Handler{
		logger:  logger,
		catalog: catalog,
		storage: storage,
		sorter:  sorter,
		botName: botName,
	}
}

func NewRouter(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/ping", h.PingHandler)

	r.Route("/api", func(r chi.Router) {
		r.Get("/groups", h.ListGroupsHandler)
		r.Post("/groups/refresh", h.RefreshGroupsHandler)
		r.Get("/groups/{id}/qr", h.GroupQRHandler)

		r.Route("/users/{owner}", func(r chi.Router) {
			r.Get("/groups", h.UserGroupsHandler)
			r.Get("/group", h.GetSelectionHandler)
			r.Put("/group", h.SelectGroupHandler)
			r.Delete("/group", h.ClearSelectionHandler)
		})
	})

	r.NotFound(h.DefaultHandler)

	return r
}

func (h *Handler) PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		h.logger.Errorf("Error writing response %v", err)
	}
}

// DefaultHandler for incorrect requests
func (h *Handler) DefaultHandler(w http.ResponseWriter, r *http.Request) {
	h.logger.Infof("Unknown route %s %s", r.Method, r.URL.Path)
	http.Error(w, "wrong request", http.StatusNotFound)
}

// ListGroupsHandler упорядоченный список групп, ?q= фильтрует
func (h *Handler) ListGroupsHandler(w http.ResponseWriter, r *http.Request) {
	if !h.requireCatalog(w) {
		return
	}
	h.writeJSON(w, http.StatusOK, h.catalog.Search(r.URL.Query().Get("q")))
}

func (h *Handler) RefreshGroupsHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Refresh(r.Context()); err != nil {
		http.Error(w, "failed to refresh group list", http.StatusBadGateway)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]int{"count": len(h.catalog.Groups())})
}

// GroupQRHandler PNG с QR-кодом ссылки на бота, выбирающей группу
func (h *Handler) GroupQRHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := h.catalog.Find(id); !ok {
		http.Error(w, "group not found", http.StatusNotFound)
		return
	}

	png, err := qrcode.GroupQRCode(h.botName, id)
	switch {
	case errors.Is(err, qrcode.ErrNoBotName):
		http.Error(w, "bot name is not configured", http.StatusNotImplemented)
		return
	case errors.Is(err, qrcode.ErrInvalidPayload):
		http.Error(w, "group id cannot be shared", http.StatusUnprocessableEntity)
		return
	case err != nil:
		h.logger.Errorf("Failed to generate QR code for %s: %v", id, err)
		http.Error(w, "failed to generate QR code", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(png); err != nil {
		h.logger.Errorf("Error writing response %v", err)
	}
}

// UserGroupsHandler строки экрана выбора для владельца: с галочкой у выбранной группы
func (h *Handler) UserGroupsHandler(w http.ResponseWriter, r *http.Request) {
	if !h.requireCatalog(w) {
		return
	}

	p := h.newPicker(chi.URLParam(r, "owner"))
	if q := r.URL.Query().Get("q"); q != "" {
		p.OnQueryChanged(q)
	}
	h.writeJSON(w, http.StatusOK, p.Rows())
}

func (h *Handler) GetSelectionHandler(w http.ResponseWriter, r *http.Request) {
	owner := chi.URLParam(r, "owner")

	sel, ok, err := settings.LoadSelection(settings.Bind(h.storage, owner))
	if err != nil {
		h.logger.Errorf("Failed to load selection of %s: %v", owner, err)
		http.Error(w, "failed to load selection", http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "group is not selected", http.StatusNotFound)
		return
	}

	sel.Owner = owner
	h.writeJSON(w, http.StatusOK, sel)
}

type selectRequest struct {
	ID string `json:"id"`
}

func (h *Handler) SelectGroupHandler(w http.ResponseWriter, r *http.Request) {
	if !h.requireCatalog(w) {
		return
	}
	owner := chi.URLParam(r, "owner")

	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		http.Error(w, "body must be {\"id\": \"...\"}", http.StatusBadRequest)
		return
	}

	group, err := h.newPicker(owner).SelectByID(req.ID)
	if errors.Is(err, picker.ErrNoSuchGroup) {
		http.Error(w, "group not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Errorf("Failed to save selection of %s: %v", owner, err)
		http.Error(w, "failed to save selection", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, models.Selection{
		Owner:     owner,
		Group:     group,
		UpdatedAt: models.GetCurrentTime().UTC(),
	})
}

func (h *Handler) ClearSelectionHandler(w http.ResponseWriter, r *http.Request) {
	owner := chi.URLParam(r, "owner")

	if err := settings.Bind(h.storage, owner).Clear(); err != nil {
		h.logger.Errorf("Failed to clear selection of %s: %v", owner, err)
		http.Error(w, "failed to clear selection", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) newPicker(owner string) *picker.Picker {
	p := picker.New(settings.Bind(h.storage, owner), nil, h.sorter, h.logger)
	p.Show(h.catalog.Groups())
	return p
}

func (h *Handler) requireCatalog(w http.ResponseWriter) bool {
	if loaded, _ := h.catalog.Loaded(); !loaded {
		http.Error(w, catalog.ErrNotLoaded.Error(), http.StatusServiceUnavailable)
		return false
	}
	return true
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Errorf("Error encoding response: %v", err)
	}
}
