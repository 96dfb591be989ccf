// Package firebase zawiera adaptery bazy (Realtime Database, Firestore) i tożsamości (Firebase Auth).
package firebase

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"firebase.google.com/go/v4/db"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"book-tracker/internal/config"
)

const identityToolkitURL = "https://identitytoolkit.googleapis.com/v1"

// Client zawiera klientów Firebase
type Client struct {
	App       *firebase.App
	Auth      *auth.Client
	Database  *db.Client
	Firestore *firestore.Client

	webAPIKey   string
	identityURL string
	httpClient  *http.Client
	logger      *zap.Logger
}

// InitFirebase inicjalizuje klienta Firebase; Firestore tworzony jest tylko dla backendu "firestore"
func InitFirebase(ctx context.Context, cfg config.Firebase, backend string, logger *zap.Logger) (*Client, error) {
	var opt option.ClientOption

	// Sprawdź czy jest plik credentials (rozwój lokalny)
	if cfg.CredentialsPath != "" {
		if _, err := os.Stat(cfg.CredentialsPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("plik credentials nie istnieje: %s", cfg.CredentialsPath)
		}
		opt = option.WithCredentialsFile(cfg.CredentialsPath)
	} else {
		// Tryb produkcyjny - JSON ze zmiennej środowiskowej
		if cfg.CredentialsJSON == "" {
			return nil, fmt.Errorf("brak zmiennej środowiskowej FIREBASE_CREDENTIALS_PATH lub FIREBASE_CREDENTIALS_JSON")
		}
		opt = option.WithCredentialsJSON([]byte(cfg.CredentialsJSON))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{
		DatabaseURL: cfg.DatabaseURL,
		ProjectID:   cfg.ProjectID,
	}, opt)
	if err != nil {
		return nil, fmt.Errorf("błąd inicjalizacji Firebase App: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("błąd inicjalizacji Firebase Auth: %w", err)
	}

	client := &Client{
		App:         app,
		Auth:        authClient,
		webAPIKey:   cfg.WebAPIKey,
		identityURL: identityToolkitURL,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		logger:      logger,
	}

	switch backend {
	case config.StoreFirestore:
		client.Firestore, err = app.Firestore(ctx)
		if err != nil {
			return nil, fmt.Errorf("błąd inicjalizacji Firestore: %w", err)
		}
	default:
		client.Database, err = app.Database(ctx)
		if err != nil {
			return nil, fmt.Errorf("błąd inicjalizacji Realtime Database: %w", err)
		}
	}

	logger.Info("Firebase zainicjalizowany pomyślnie", zap.String("backend", backend))
	return client, nil
}

// Close zamyka połączenia z Firebase
func (c *Client) Close() error {
	if c.Firestore != nil {
		return c.Firestore.Close()
	}
	return nil
}

// Books zwraca magazyn książek dla wybranego backendu
func (c *Client) Books() *Store {
	if c.Firestore != nil {
		return &Store{backend: &firestoreBackend{fs: c.Firestore}, logger: c.logger}
	}
	return &Store{backend: &realtimeBackend{db: c.Database}, logger: c.logger}
}
