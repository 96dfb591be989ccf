package firebase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"firebase.google.com/go/v4/auth"

	"book-tracker/internal/models"
)

var (
	// ErrInvalidCredentials oznacza zły email, hasło albo token
	ErrInvalidCredentials = errors.New("nieprawidłowy email lub hasło")
	// ErrUserDisabled oznacza zablokowane konto
	ErrUserDisabled = errors.New("konto zostało zablokowane")
	// ErrEmailExists oznacza, że konto z tym adresem już istnieje
	ErrEmailExists = errors.New("konto z tym adresem email już istnieje")
)

// SignInWithIDToken weryfikuje token ID wydany klientowi przez Firebase (np. logowanie Google)
func (c *Client) SignInWithIDToken(ctx context.Context, idToken string) (*models.User, error) {
	if idToken == "" {
		return nil, ErrInvalidCredentials
	}

	token, err := c.Auth.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}

	rec, err := c.Auth.GetUser(ctx, token.UID)
	if err != nil {
		return nil, fmt.Errorf("błąd pobierania użytkownika: %w", err)
	}
	if rec.Disabled {
		return nil, ErrUserDisabled
	}

	return userFromRecord(rec), nil
}

// SignInWithPassword weryfikuje email i hasło przez Firebase Authentication REST API
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*models.User, error) {
	if c.webAPIKey == "" {
		return nil, fmt.Errorf("brak FIREBASE_WEB_API_KEY w konfiguracji")
	}

	url := fmt.Sprintf("%s/accounts:signInWithPassword?key=%s", c.identityURL, c.webAPIKey)

	requestBody := map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return nil, fmt.Errorf("błąd tworzenia żądania: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("błąd tworzenia żądania: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("błąd połączenia z Firebase Auth: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("błąd odczytu odpowiedzi: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, passwordError(resp.StatusCode, body)
	}

	var authResp struct {
		LocalID     string `json:"localId"` // Firebase UID
		Email       string `json:"email"`
		DisplayName string `json:"displayName"`
	}
	if err := json.Unmarshal(body, &authResp); err != nil {
		return nil, fmt.Errorf("błąd parsowania odpowiedzi: %w", err)
	}

	return &models.User{
		UID:         authResp.LocalID,
		Email:       authResp.Email,
		DisplayName: authResp.DisplayName,
	}, nil
}

func passwordError(statusCode int, body []byte) error {
	var errorResp struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &errorResp); err != nil || errorResp.Error.Message == "" {
		return fmt.Errorf("błąd weryfikacji hasła (status: %d)", statusCode)
	}

	// Typowe błędy Firebase Auth
	switch errorResp.Error.Message {
	case "EMAIL_NOT_FOUND", "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS", "INVALID_EMAIL":
		return ErrInvalidCredentials
	case "USER_DISABLED":
		return ErrUserDisabled
	default:
		return fmt.Errorf("błąd autoryzacji: %s", errorResp.Error.Message)
	}
}

// SignOut unieważnia tokeny odświeżania użytkownika
func (c *Client) SignOut(ctx context.Context, uid string) error {
	if uid == "" {
		return nil
	}
	if err := c.Auth.RevokeRefreshTokens(ctx, uid); err != nil {
		return fmt.Errorf("błąd wylogowania: %w", err)
	}
	return nil
}

// CreateAccount zakłada konto z hasłem w Firebase Auth
func (c *Client) CreateAccount(ctx context.Context, email, password, displayName string) (*models.User, error) {
	params := (&auth.UserToCreate{}).
		Email(email).
		Password(password).
		DisplayName(displayName)

	rec, err := c.Auth.CreateUser(ctx, params)
	if err != nil {
		if auth.IsEmailAlreadyExists(err) {
			return nil, fmt.Errorf("%w: %s", ErrEmailExists, email)
		}
		return nil, fmt.Errorf("błąd tworzenia konta: %w", err)
	}
	return userFromRecord(rec), nil
}

func userFromRecord(rec *auth.UserRecord) *models.User {
	return &models.User{
		UID:         rec.UID,
		DisplayName: rec.DisplayName,
		Email:       rec.Email,
		PhotoURL:    rec.PhotoURL,
	}
}
