package middleware

import (
	"net/http"
	"strings"

	"github.com/MrPunder/grouppicker/internal/logger"
)

// TokenAuthConfig содержит конфигурацию для TokenAuth
type TokenAuthConfig struct {
	APIToken string
	Logger   logger.Logger
}

// TokenAuth проверяет bearer-токен на маршрутах /api/
type TokenAuth struct {
	config TokenAuthConfig
}

// NewTokenAuth создает новый экземпляр TokenAuth. Пустой токен отключает проверку
func NewTokenAuth(config TokenAuthConfig) *TokenAuth {
	return &TokenAuth{
		config: config,
	}
}

// Middleware создает middleware для проверки токена API
func (ta *TokenAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ta.config.APIToken == "" || !strings.HasPrefix(r.URL.Path, "/api/") {
			next.ServeHTTP(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			ta.config.Logger.Errorf("Request without token: %s %s", r.Method, r.URL.Path)
			http.Error(w, "Unauthorized: Token required", http.StatusUnauthorized)
			return
		}

		// Проверяем формат токена (Bearer Token)
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			ta.config.Logger.Errorf("Invalid token format: %s %s", r.Method, r.URL.Path)
			http.Error(w, "Unauthorized: Invalid token format", http.StatusUnauthorized)
			return
		}

		if parts[1] != ta.config.APIToken {
			ta.config.Logger.Errorf("Invalid token: %s %s", r.Method, r.URL.Path)
			http.Error(w, "Unauthorized: Invalid token", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}
