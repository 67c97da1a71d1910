package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/aidar/task-tracker/internal/domain"
	"github.com/aidar/task-tracker/internal/service"
)

// ContextKey это кастомный тип для ключей контекста
type ContextKey string

const (
	// CallerKey ключ контекста для личности вызывающего пользователя
	CallerKey ContextKey = "caller"
	// ClaimsKey ключ контекста для claims JWT токена
	ClaimsKey ContextKey = "claims"
)

// AuthMiddleware создает middleware для валидации JWT токенов
func AuthMiddleware(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Получаем токен из заголовка Authorization
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				unauthorized(w, "missing authorization header")
				return
			}

			// Проверяем формат Bearer
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				unauthorized(w, "invalid authorization header format")
				return
			}

			// Валидируем токен (включая проверку отзыва)
			claims, err := authService.ValidateToken(r.Context(), parts[1])
			if err != nil {
				unauthorized(w, "invalid or expired token")
				return
			}

			// Добавляем личность и claims в контекст
			ctx := context.WithValue(r.Context(), CallerKey, claims.Caller())
			ctx = context.WithValue(ctx, ClaimsKey, claims)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":{"code":"` + string(domain.CodeUnauthenticated) + `","message":"` + message + `"}}`))
}

// GetCallerFromContext извлекает вызывающего пользователя из контекста.
// Без аутентификации возвращается нулевой Caller.
func GetCallerFromContext(ctx context.Context) domain.Caller {
	caller, ok := ctx.Value(CallerKey).(domain.Caller)
	if !ok {
		return domain.Caller{}
	}
	return caller
}

// GetClaimsFromContext извлекает claims токена из контекста
func GetClaimsFromContext(ctx context.Context) *service.Claims {
	claims, ok := ctx.Value(ClaimsKey).(*service.Claims)
	if !ok {
		return nil
	}
	return claims
}
