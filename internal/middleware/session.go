package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"book-tracker/internal/models"
	"book-tracker/internal/session"
)

// Klucze do przechowywania wartości w context
type contextKey string

const (
	sessionContextKey contextKey = "session"
	userContextKey    contextKey = "user"
)

// Session dodaje sesję i użytkownika do kontekstu, jeśli cookie wskazuje ważną sesję
func Session(m *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if sess, ok := m.FromRequest(r); ok {
				ctx := context.WithValue(r.Context(), sessionContextKey, sess)
				ctx = WithUser(ctx, sess.User)
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireUser wymaga zalogowanego użytkownika (sesja albo token)
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserFromContext(r.Context()) == nil {
			unauthorized(w, "Wymagane logowanie")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithUser zapisuje użytkownika w kontekście
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext pobiera użytkownika z kontekstu
func UserFromContext(ctx context.Context) *models.User {
	user, ok := ctx.Value(userContextKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}

// SessionFromContext pobiera sesję z kontekstu
func SessionFromContext(ctx context.Context) *session.Session {
	sess, ok := ctx.Value(sessionContextKey).(*session.Session)
	if !ok {
		return nil
	}
	return sess
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
