package groupserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/MrPunder/grouppicker/internal/logger"
)

type middlewareFunc func(next http.Handler) http.Handler

type GroupServer struct {
	Log         logger.Logger
	middlewares []middlewareFunc
	mux         http.Handler
	address     string
	server      *http.Server
}

// NewGroupServer создает сервер сразу, чтобы Shutdown работал и до RunServer
func NewGroupServer(address string, mux http.Handler, log logger.Logger) *GroupServer {
	return &GroupServer{
		address: address,
		mux:     mux,
		Log:     log,
		server: &http.Server{
			Addr:              address,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// AddMiddleware добавляет обёртки; последняя добавленная выполняется первой.
// Вызывать до RunServer
func (gs *GroupServer) AddMiddleware(funcs ...middlewareFunc) {
	gs.middlewares = append(gs.middlewares, funcs...)
	gs.server.Handler = gs.Handler()
}

// Handler собранная цепочка middleware вокруг роутера
func (gs *GroupServer) Handler() http.Handler {
	handler := gs.mux
	for _, f := range gs.middlewares {
		handler = f(handler)
	}
	return handler
}

// RunServer блокируется до Shutdown или ошибки запуска. После Shutdown сразу возвращает nil
func (gs *GroupServer) RunServer() error {
	gs.Log.Infof("Starting server on %s", gs.address)
	if err := gs.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		gs.Log.Errorf("starting server on %s error: %s", gs.address, err)
		return err
	}
	return nil
}

func (gs *GroupServer) Shutdown(ctx context.Context) error {
	return gs.server.Shutdown(ctx)
}
