// Package catalog wyszukuje książki w publicznych katalogach (Google Books, Open Library).
package catalog

import (
	"context"
	"strings"

	"book-tracker/internal/models"
)

// Mode określa po czym szukamy
type Mode string

const (
	ModeTitle  Mode = "title"
	ModeAuthor Mode = "author"
)

// MinQueryLength to minimalna długość zapytania, od której wysyłamy żądanie
const MinQueryLength = 3

// ParseMode zamienia tekst na tryb wyszukiwania (domyślnie po tytule)
func ParseMode(s string) Mode {
	if strings.EqualFold(strings.TrimSpace(s), string(ModeAuthor)) {
		return ModeAuthor
	}
	return ModeTitle
}

// Searcher zwraca jedną, skończoną stronę wyników dla zapytania
type Searcher interface {
	Search(ctx context.Context, term string, mode Mode) ([]models.CatalogItem, error)
}
