package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"book-tracker/internal/app"
	"book-tracker/internal/config"
	"book-tracker/internal/handlers"
	"book-tracker/internal/logging"
	"book-tracker/internal/session"
)

func main() {
	// Wczytaj .env i zmienne środowiskowe
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Błąd konfiguracji: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Błąd loggera: %v", err)
	}
	if !cfg.EnvFileLoaded {
		logger.Info("Brak pliku .env - używam zmiennych systemowych")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Nie można zainicjalizować aplikacji", zap.Error(err))
	}
	defer a.Close()

	// Inicjalizacja systemu sesji
	sessions := session.Init()
	defer sessions.Close()

	r := handlers.NewRouter(handlers.Deps{
		Library:     a.Library,
		Identity:    a.Firebase,
		Sessions:    sessions,
		Logger:      logger,
		RequireAuth: cfg.RequireAuth,

		AllowRegistration: cfg.AllowRegistration,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Info("Serwer uruchomiony",
		zap.String("port", cfg.Port),
		zap.String("store", cfg.StoreBackend),
		zap.String("catalog", cfg.CatalogProvider),
		zap.Bool("requireAuth", cfg.RequireAuth),
		zap.Bool("allowRegistration", cfg.AllowRegistration),
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("Nie można uruchomić serwera", zap.Error(err))
	}
	logger.Info("Serwer zatrzymany")
}
