package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MrPunder/grouppicker/internal/catalog"
	"github.com/MrPunder/grouppicker/internal/groups"
	"github.com/MrPunder/grouppicker/internal/models"
	"github.com/MrPunder/grouppicker/internal/picker"
	"github.com/MrPunder/grouppicker/internal/settings"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockLogger реализует интерфейс logger.Logger для тестирования
type MockLogger struct{}

func (m *MockLogger) Info(msg string)                           {}
func (m *MockLogger) Infof(format string, args ...interface{})  {}
func (m *MockLogger) Error(msg string)                          {}
func (m *MockLogger) Errorf(format string, args ...interface{}) {}
func (m *MockLogger) Debug(msg string)                          {}
func (m *MockLogger) Debugf(format string, args ...interface{}) {}

var testGroups = []models.Group{
	{ID: "i1", Name: "Інформатика", Faculty: "ФІОТ"},
	{ID: "z1", Name: "Захист", Faculty: "ФТІ"},
	{ID: "v1", Name: "Вступ", Faculty: "ФЛ"},
	{ID: "i2", Name: "Іноземна", Faculty: "ФЛ"},
}

type downFetcher struct{}

func (downFetcher) FetchGroups(ctx context.Context) ([]models.Group, error) {
	return nil, errors.New("upstream is down")
}

func setupTest(t *testing.T) (chi.Router, settings.Storage) {
	c := catalog.New(catalog.StaticFetcher(testGroups), groups.Sorter{}, &MockLogger{})
	require.NoError(t, c.Refresh(context.Background()))

	store := settings.NewMemstorage()
	handler := NewHandler(&MockLogger{}, c, store, groups.Sorter{}, "kpi_group_bot")
	return NewRouter(handler), store
}

func doRequest(t *testing.T, router http.Handler, method, path string, body []byte) *httptest.ResponseRecorder {
	req, err := http.NewRequest(method, path, bytes.NewReader(body))
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestPingHandler(t *testing.T) {
	router, _ := setupTest(t)

	rr := doRequest(t, router, http.MethodGet, "/ping", nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "pong", rr.Body.String())
}

func TestUnknownRoute(t *testing.T) {
	router, _ := setupTest(t)

	rr := doRequest(t, router, http.MethodGet, "/nowhere", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestListGroupsHandler(t *testing.T) {
	router, _ := setupTest(t)

	tests := []struct {
		name     string
		path     string
		expected []string
	}{
		{"All", "/api/groups", []string{"Вступ", "Захист", "Іноземна", "Інформатика"}},
		{"LatinQuery", "/api/groups?q=in", []string{"Іноземна", "Інформатика"}},
		{"NoMatch", "/api/groups?q=qq", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doRequest(t, router, http.MethodGet, tt.path, nil)
			require.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

			var response []models.Group
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))

			names := make([]string, 0, len(response))
			for _, g := range response {
				names = append(names, g.Name)
			}
			assert.Equal(t, tt.expected, names)
		})
	}
}

func TestCatalogNotLoaded(t *testing.T) {
	c := catalog.New(downFetcher{}, groups.Sorter{}, &MockLogger{})
	router := NewRouter(NewHandler(&MockLogger{}, c, settings.NewMemstorage(), groups.Sorter{}, ""))

	rr := doRequest(t, router, http.MethodGet, "/api/groups", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	rr = doRequest(t, router, http.MethodPost, "/api/groups/refresh", nil)
	assert.Equal(t, http.StatusBadGateway, rr.Code)

	rr = doRequest(t, router, http.MethodPut, "/api/users/42/group", []byte(`{"id":"i1"}`))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestRefreshGroupsHandler(t *testing.T) {
	router, _ := setupTest(t)

	rr := doRequest(t, router, http.MethodPost, "/api/groups/refresh", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"count": 4}`, rr.Body.String())
}

func TestSelectionFlow(t *testing.T) {
	router, store := setupTest(t)

	// Выбора ещё нет
	rr := doRequest(t, router, http.MethodGet, "/api/users/42/group", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	// Выбираем группу
	rr = doRequest(t, router, http.MethodPut, "/api/users/42/group", []byte(`{"id":"i2"}`))
	require.Equal(t, http.StatusOK, rr.Code)

	var selection models.Selection
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &selection))
	assert.Equal(t, "42", selection.Owner)
	assert.Equal(t, "Іноземна", selection.Group.Name)

	name, err := store.Get("42", models.KeySelectedGroupName)
	require.NoError(t, err)
	assert.Equal(t, "Іноземна", name)

	// Читаем выбор
	rr = doRequest(t, router, http.MethodGet, "/api/users/42/group", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &selection))
	assert.Equal(t, models.Group{ID: "i2", Name: "Іноземна", Faculty: "ФЛ"}, selection.Group)

	// Галочка только у выбранной группы и только у этого владельца
	rr = doRequest(t, router, http.MethodGet, "/api/users/42/groups?q=i", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var rows []picker.Row
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rows))
	require.Len(t, rows, 2)
	assert.True(t, rows[0].Checked)
	assert.False(t, rows[1].Checked)

	rr = doRequest(t, router, http.MethodGet, "/api/users/7/groups", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rows))
	require.Len(t, rows, 4)
	for _, row := range rows {
		assert.False(t, row.Checked)
	}

	// Сбрасываем выбор
	rr = doRequest(t, router, http.MethodDelete, "/api/users/42/group", nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	rr = doRequest(t, router, http.MethodGet, "/api/users/42/group", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestSelectGroupHandlerErrors(t *testing.T) {
	router, _ := setupTest(t)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"UnknownGroup", `{"id":"missing"}`, http.StatusNotFound},
		{"EmptyID", `{"id":""}`, http.StatusBadRequest},
		{"BrokenJSON", `{"id":`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doRequest(t, router, http.MethodPut, "/api/users/42/group", []byte(tt.body))
			assert.Equal(t, tt.status, rr.Code)
		})
	}
}

func TestGroupQRHandler(t *testing.T) {
	router, _ := setupTest(t)

	rr := doRequest(t, router, http.MethodGet, "/api/groups/z1/qr", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/png", rr.Header().Get("Content-Type"))
	_, err := png.Decode(bytes.NewReader(rr.Body.Bytes()))
	assert.NoError(t, err)

	rr = doRequest(t, router, http.MethodGet, "/api/groups/missing/qr", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGroupQRHandlerWithoutBot(t *testing.T) {
	c := catalog.New(catalog.StaticFetcher(testGroups), groups.Sorter{}, &MockLogger{})
	require.NoError(t, c.Refresh(context.Background()))
	router := NewRouter(NewHandler(&MockLogger{}, c, settings.NewMemstorage(), groups.Sorter{}, ""))

	rr := doRequest(t, router, http.MethodGet, "/api/groups/z1/qr", nil)
	assert.Equal(t, http.StatusNotImplemented, rr.Code)
}
