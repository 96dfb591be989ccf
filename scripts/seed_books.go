package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"book-tracker/internal/app"
	"book-tracker/internal/catalog"
	"book-tracker/internal/config"
	"book-tracker/internal/library"
	"book-tracker/internal/lifecycle"
	"book-tracker/internal/logging"
	"book-tracker/internal/models"
)

// seedFile to zawartość pliku YAML z danymi startowymi
type seedFile struct {
	Books    []seedBook            `yaml:"books"`
	Upcoming []models.UpcomingBook `yaml:"upcoming"`
}

// seedBook to fraza do wyszukania w katalogu i wybory użytkownika
type seedBook struct {
	Query  string `yaml:"query"`
	Author bool   `yaml:"author"`
	Genre  string `yaml:"genre"`
	Format string `yaml:"format"`
	Status string `yaml:"status"`
}

func loadSeed(r io.Reader) (*seedFile, error) {
	var seed seedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&seed); err != nil {
		return nil, fmt.Errorf("błąd parsowania pliku seed: %w", err)
	}
	return &seed, nil
}

// seed dodaje brakujące książki i zapowiedzi; zwraca liczbę dodanych pozycji
func seed(ctx context.Context, lib *library.Library, s *seedFile, logger *zap.Logger) (int, error) {
	known := make(map[string]bool)
	for _, b := range lib.Books() {
		known[b.VolumeID] = true
	}

	added := 0
	for _, sb := range s.Books {
		mode := catalog.ModeTitle
		if sb.Author {
			mode = catalog.ModeAuthor
		}

		res, err := lib.Search(ctx, sb.Query, mode)
		if err != nil {
			return added, fmt.Errorf("wyszukiwanie %q: %w", sb.Query, err)
		}
		if len(res.Items) == 0 {
			logger.Warn("brak wyników", zap.String("query", sb.Query))
			continue
		}

		item := res.Items[0]
		if known[item.ID] {
			logger.Info("książka już istnieje", zap.String("title", item.Title))
			continue
		}

		book, err := lib.Add(ctx, item, lifecycle.AddChoice{
			Genre:  sb.Genre,
			Format: sb.Format,
			Status: models.ParseStatus(sb.Status),
		})
		if err != nil {
			return added, fmt.Errorf("dodawanie %q: %w", item.Title, err)
		}
		known[item.ID] = true
		added++
		logger.Info("dodano książkę", zap.String("id", book.ID), zap.String("title", book.Title))
	}

	existing := make(map[string]bool)
	for _, u := range lib.Upcoming() {
		existing[u.Title] = true
	}
	for _, u := range s.Upcoming {
		if existing[u.Title] {
			continue
		}
		if _, err := lib.AddUpcoming(ctx, u); err != nil {
			return added, fmt.Errorf("dodawanie zapowiedzi %q: %w", u.Title, err)
		}
		added++
	}

	return added, nil
}

func main() {
	path := flag.String("file", "scripts/seed.yml", "plik YAML z danymi startowymi")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Błąd konfiguracji: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Błąd loggera: %v", err)
	}

	f, err := os.Open(*path)
	if err != nil {
		logger.Fatal("Nie można otworzyć pliku seed", zap.Error(err))
	}
	defer f.Close()

	s, err := loadSeed(f)
	if err != nil {
		logger.Fatal("Błędny plik seed", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Błąd inicjalizacji", zap.Error(err))
	}
	defer a.Close()

	logger.Info("Dodawanie przykładowych książek do bazy danych...")
	added, err := seed(ctx, a.Library, s, logger)
	if err != nil {
		logger.Error("Seed przerwany", zap.Int("added", added), zap.Error(err))
		return
	}
	logger.Info("Zakończono", zap.Int("added", added))
}
