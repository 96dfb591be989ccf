package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"book-tracker/internal/models"
	"book-tracker/internal/session"
)

type fakeVerifier map[string]*models.User

func (f fakeVerifier) SignInWithIDToken(_ context.Context, token string) (*models.User, error) {
	if u, ok := f[token]; ok {
		return u, nil
	}
	return nil, errors.New("invalid token")
}

func whoAmI(w http.ResponseWriter, r *http.Request) {
	if u := UserFromContext(r.Context()); u != nil {
		w.Write([]byte(u.UID))
		return
	}
	w.Write([]byte("anonymous"))
}

func TestBearerAuth(t *testing.T) {
	h := BearerAuth(fakeVerifier{"good": {UID: "u1"}}, zap.NewNop())(http.HandlerFunc(whoAmI))

	tests := []struct {
		name   string
		header string
		code   int
		body   string
	}{
		{"no_header", "", http.StatusOK, "anonymous"},
		{"valid", "Bearer good", http.StatusOK, "u1"},
		{"invalid_token", "Bearer bad", http.StatusUnauthorized, ""},
		{"bad_format", "Token good", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.code, rec.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, rec.Body.String())
			}
		})
	}
}

func TestSessionAndRequireUser(t *testing.T) {
	m := session.NewManager(0)
	sess, err := m.CreateSession(&models.User{UID: "u2"})
	require.NoError(t, err)

	h := Session(m)(RequireUser(http.HandlerFunc(whoAmI)))

	req := httptest.NewRequest(http.MethodPost, "/books", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Wymagane logowanie"}`, rec.Body.String())

	req = httptest.NewRequest(http.MethodPost, "/books", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: sess.ID})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u2", rec.Body.String())
}
