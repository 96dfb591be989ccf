// Package app składa zależności aplikacji na podstawie konfiguracji.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"book-tracker/internal/catalog"
	"book-tracker/internal/config"
	"book-tracker/internal/firebase"
	"book-tracker/internal/library"
)

// openLibraryRPS to limit żądań do Open Library na sekundę
const openLibraryRPS = 1

// App to gotowe do użycia zależności
type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	Firebase *firebase.Client
	Store    *firebase.Store
	Library  *library.Library
}

// New inicjalizuje Firebase, katalog i bibliotekę, po czym wczytuje bibliotekę z bazy
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	fb, err := firebase.InitFirebase(ctx, cfg.Firebase, cfg.StoreBackend, logger)
	if err != nil {
		return nil, err
	}

	searcher, err := NewSearcher(ctx, cfg)
	if err != nil {
		fb.Close()
		return nil, err
	}

	store := fb.Books()
	lib := library.New(store, searcher, logger)
	if err := lib.Refresh(ctx); err != nil {
		fb.Close()
		return nil, err
	}

	return &App{
		Config:   cfg,
		Logger:   logger,
		Firebase: fb,
		Store:    store,
		Library:  lib,
	}, nil
}

// NewSearcher tworzy klienta katalogu wybranego w konfiguracji
func NewSearcher(ctx context.Context, cfg *config.Config) (catalog.Searcher, error) {
	switch cfg.CatalogProvider {
	case config.CatalogOpenLibrary:
		return catalog.NewOpenLibrary(cfg.UserAgent, openLibraryRPS, 3), nil
	case config.CatalogGoogle:
		gb, err := catalog.NewGoogleBooks(ctx, cfg.GoogleBooksAPIKey)
		if err != nil {
			return nil, err
		}
		return gb, nil
	default:
		return nil, fmt.Errorf("nieznany dostawca katalogu: %q", cfg.CatalogProvider)
	}
}

// Close zamyka połączenia i opróżnia bufor loggera
func (a *App) Close() error {
	a.Logger.Sync()
	return a.Firebase.Close()
}
