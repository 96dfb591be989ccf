package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"book-tracker/internal/firebase"
	"book-tracker/internal/middleware"
	"book-tracker/internal/models"
	"book-tracker/internal/session"
)

// Identity to dostawca tożsamości (Firebase Auth)
type Identity interface {
	SignInWithIDToken(ctx context.Context, idToken string) (*models.User, error)
	SignInWithPassword(ctx context.Context, email, password string) (*models.User, error)
	SignOut(ctx context.Context, uid string) error
	CreateAccount(ctx context.Context, email, password, displayName string) (*models.User, error)
}

const minPasswordLength = 6

// AuthHandler obsługuje logowanie i rejestrację
type AuthHandler struct {
	identity Identity
	sessions *session.Manager
	logger   *zap.Logger
}

// NewAuthHandler tworzy nowy handler autoryzacji
func NewAuthHandler(identity Identity, sessions *session.Manager, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{identity: identity, sessions: sessions, logger: logger}
}

// Login loguje tokenem ID ({idToken}) albo emailem i hasłem ({email, password}) (POST /login)
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h.identity == nil {
		writeError(w, fmt.Errorf("%w: system autoryzacji nie jest dostępny", errUnavailable))
		return
	}

	var req struct {
		IDToken  string `json:"idToken"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	var (
		user *models.User
		err  error
	)
	switch {
	case req.IDToken != "":
		user, err = h.identity.SignInWithIDToken(r.Context(), req.IDToken)
	case req.Email != "" && req.Password != "":
		user, err = h.identity.SignInWithPassword(r.Context(), strings.TrimSpace(req.Email), req.Password)
	default:
		writeError(w, fmt.Errorf("%w: email i hasło albo token są wymagane", errBadRequest))
		return
	}
	if err != nil {
		h.logger.Info("nieudane logowanie", zap.Error(err))
		writeError(w, err)
		return
	}

	h.startSession(w, user)
}

// Register zakłada konto i od razu loguje (POST /register)
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if h.identity == nil {
		writeError(w, fmt.Errorf("%w: system autoryzacji nie jest dostępny", errUnavailable))
		return
	}

	var req struct {
		Email       string `json:"email"`
		Password    string `json:"password"`
		DisplayName string `json:"displayName"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		writeError(w, fmt.Errorf("%w: email i hasło są wymagane", errBadRequest))
		return
	}
	if len(req.Password) < minPasswordLength {
		writeError(w, fmt.Errorf("%w: hasło musi mieć minimum %d znaków", errBadRequest, minPasswordLength))
		return
	}

	user, err := h.identity.CreateAccount(r.Context(), strings.TrimSpace(req.Email), req.Password, strings.TrimSpace(req.DisplayName))
	if err != nil {
		h.logger.Warn("błąd tworzenia konta", zap.Error(err))
		if !errors.Is(err, firebase.ErrEmailExists) {
			err = fmt.Errorf("%w: %v", errUpstream, err)
		}
		writeError(w, err)
		return
	}

	h.logger.Info("nowy użytkownik zarejestrowany", zap.String("uid", user.UID))
	h.startSession(w, user)
}

// Logout kończy sesję i unieważnia tokeny (POST /logout)
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if sess := middleware.SessionFromContext(r.Context()); sess != nil {
		h.sessions.DeleteSession(sess.ID)
	}

	if user := middleware.UserFromContext(r.Context()); user != nil && h.identity != nil {
		if err := h.identity.SignOut(r.Context(), user.UID); err != nil {
			h.logger.Warn("błąd unieważniania tokenów", zap.String("uid", user.UID), zap.Error(err))
		}
		h.logger.Info("użytkownik wylogowany", zap.String("uid", user.UID))
	}

	session.ClearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// Me zwraca zalogowanego użytkownika (GET /me)
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Nie zalogowano"})
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) startSession(w http.ResponseWriter, user *models.User) {
	sess, err := h.sessions.CreateSession(user)
	if err != nil {
		h.logger.Error("błąd tworzenia sesji", zap.Error(err))
		writeError(w, err)
		return
	}

	session.SetSessionCookie(w, sess.ID)
	h.logger.Info("użytkownik zalogowany", zap.String("uid", user.UID))
	writeJSON(w, http.StatusOK, user)
}
