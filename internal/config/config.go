// Package config wczytuje konfigurację z pliku .env i zmiennych środowiskowych.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Dostępne backendy bazy
const (
	StoreRealtime  = "rtdb"
	StoreFirestore = "firestore"
)

// Dostępni dostawcy katalogu
const (
	CatalogGoogle      = "google"
	CatalogOpenLibrary = "openlibrary"
)

// Firebase zawiera ustawienia połączenia z Firebase
type Firebase struct {
	CredentialsPath string
	CredentialsJSON string
	DatabaseURL     string
	ProjectID       string
	WebAPIKey       string
}

// Config to pełna konfiguracja aplikacji
type Config struct {
	Port              string
	Firebase          Firebase
	StoreBackend      string
	CatalogProvider   string
	GoogleBooksAPIKey string
	UserAgent         string
	LogLevel          string
	RequireAuth       bool
	AllowRegistration bool // Domyślnie tylko gdy logowanie nie jest wymagane
	EnvFileLoaded     bool
}

// Load wczytuje plik .env (jeśli istnieje), a potem zmienne środowiskowe
func Load(files ...string) (*Config, error) {
	loaded := true
	if err := godotenv.Load(files...); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("błąd wczytywania pliku .env: %w", err)
		}
		loaded = false
	}

	cfg, err := FromEnv()
	if err != nil {
		return nil, err
	}
	cfg.EnvFileLoaded = loaded
	return cfg, nil
}

// FromEnv buduje konfigurację ze zmiennych środowiskowych
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port: getenv("PORT", "8080"),
		Firebase: Firebase{
			CredentialsPath: os.Getenv("FIREBASE_CREDENTIALS_PATH"),
			CredentialsJSON: os.Getenv("FIREBASE_CREDENTIALS_JSON"),
			DatabaseURL:     os.Getenv("FIREBASE_DATABASE_URL"),
			ProjectID:       os.Getenv("FIREBASE_PROJECT_ID"),
			WebAPIKey:       os.Getenv("FIREBASE_WEB_API_KEY"),
		},
		StoreBackend:      strings.ToLower(getenv("STORE_BACKEND", StoreRealtime)),
		CatalogProvider:   strings.ToLower(getenv("CATALOG_PROVIDER", CatalogGoogle)),
		GoogleBooksAPIKey: os.Getenv("GOOGLE_BOOKS_API_KEY"),
		UserAgent:         getenv("CATALOG_USER_AGENT", "book-tracker/1.0"),
		LogLevel:          getenv("LOG_LEVEL", "info"),
	}

	if v := os.Getenv("REQUIRE_AUTH"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("nieprawidłowa wartość REQUIRE_AUTH %q: %w", v, err)
		}
		cfg.RequireAuth = b
	}

	cfg.AllowRegistration = !cfg.RequireAuth
	if v := os.Getenv("ALLOW_REGISTRATION"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("nieprawidłowa wartość ALLOW_REGISTRATION %q: %w", v, err)
		}
		cfg.AllowRegistration = b
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate sprawdza wartości wyliczeniowe
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case StoreRealtime:
		if c.Firebase.DatabaseURL == "" {
			return fmt.Errorf("brak FIREBASE_DATABASE_URL dla backendu %s", StoreRealtime)
		}
	case StoreFirestore:
	default:
		return fmt.Errorf("nieznany STORE_BACKEND: %q", c.StoreBackend)
	}

	switch c.CatalogProvider {
	case CatalogGoogle, CatalogOpenLibrary:
	default:
		return fmt.Errorf("nieznany CATALOG_PROVIDER: %q", c.CatalogProvider)
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
