package middleware

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"book-tracker/internal/models"
)

// TokenVerifier weryfikuje token ID Firebase
type TokenVerifier interface {
	SignInWithIDToken(ctx context.Context, idToken string) (*models.User, error)
}

// BearerAuth weryfikuje nagłówek "Authorization: Bearer <token>" i dodaje użytkownika do kontekstu.
// Żądanie bez nagłówka przechodzi dalej bez zmian.
func BearerAuth(verifier TokenVerifier, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || verifier == nil {
				next.ServeHTTP(w, r)
				return
			}

			// Sprawdź format: "Bearer <token>"
			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				unauthorized(w, "Nieprawidłowy format Authorization")
				return
			}

			user, err := verifier.SignInWithIDToken(r.Context(), parts[1])
			if err != nil {
				logger.Info("odrzucono token", zap.Error(err))
				unauthorized(w, "Nieprawidłowy token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}
