package groupserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type mockLogger struct{}

func (m *mockLogger) Info(msg string)                   {}
func (m *mockLogger) Infof(format string, args ...any)  {}
func (m *mockLogger) Error(msg string)                  {}
func (m *mockLogger) Errorf(format string, args ...any) {}
func (m *mockLogger) Debug(msg string)                  {}
func (m *mockLogger) Debugf(format string, args ...any) {}

func tag(name string, order *[]string) middlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			*order = append(*order, name)
			next.ServeHTTP(w, r)
		})
	}
}

func TestMiddlewareOrder(t *testing.T) {
	var order []string
	mux := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "router")
		w.WriteHeader(http.StatusOK)
	})

	gs := NewGroupServer(":0", mux, &mockLogger{})
	gs.AddMiddleware(tag("auth", &order), tag("log", &order))

	rr := httptest.NewRecorder()
	gs.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []string{"log", "auth", "router"}, order)
}

func TestShutdownBeforeRun(t *testing.T) {
	gs := NewGroupServer("127.0.0.1:0", http.NotFoundHandler(), &mockLogger{})
	assert.NoError(t, gs.Shutdown(context.Background()))

	// Сервер уже остановлен: запуск не должен занять порт
	done := make(chan error, 1)
	go func() { done <- gs.RunServer() }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("server still running after Shutdown")
	}
}

func TestShutdownRacingRun(t *testing.T) {
	gs := NewGroupServer("127.0.0.1:0", http.NotFoundHandler(), &mockLogger{})
	gs.AddMiddleware(func(next http.Handler) http.Handler { return next })

	done := make(chan error, 1)
	go func() { done <- gs.RunServer() }()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, gs.Shutdown(ctx))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server still running after Shutdown returned")
	}
}

func TestAddMiddlewareWrapsServerHandler(t *testing.T) {
	var order []string
	gs := NewGroupServer(":0", http.NotFoundHandler(), &mockLogger{})
	gs.AddMiddleware(tag("log", &order))

	rr := httptest.NewRecorder()
	gs.server.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"log"}, order)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
