// Package lifecycle zawiera czystą logikę cyklu życia książki: normalizację
// wyników z katalogu, reguły przejść między stanami oraz scalanie i sortowanie listy.
package lifecycle

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"book-tracker/internal/models"
)

// ErrValidation oznacza brak wymaganego pola w formularzu
var ErrValidation = errors.New("błąd walidacji")

const (
	timestampLayout = "2006-01-02T15:04:05.000Z"
	dayLayout       = "2006-01-02"
)

// Timestamp formatuje czas w ISO-8601 (UTC, milisekundy)
func Timestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// Today formatuje samą datę (UTC), używaną w notatkach o wypożyczeniach
func Today(t time.Time) string {
	return t.UTC().Format(dayLayout)
}

// AddChoice to wybory użytkownika przy dodawaniu książki do biblioteki
type AddChoice struct {
	Genre  string        `json:"genre"`
	Format string        `json:"format"`
	Status models.Status `json:"status"`
}

// ValidateChoice sprawdza wymagane pola formularza dodawania
func ValidateChoice(choice AddChoice) error {
	if strings.TrimSpace(choice.Genre) == "" {
		return fmt.Errorf("%w: gatunek jest wymagany", ErrValidation)
	}
	if strings.TrimSpace(choice.Format) == "" {
		return fmt.Errorf("%w: format jest wymagany", ErrValidation)
	}
	return nil
}

// Normalize zamienia wynik z katalogu na książkę gotową do zapisu.
// Każde brakujące pole dostaje wartość domyślną; ID nadaje dopiero baza.
func Normalize(item models.CatalogItem, choice AddChoice, now time.Time) *models.Book {
	status := choice.Status
	if !status.Valid() {
		status = models.ParseStatus(string(status))
	}

	book := &models.Book{
		VolumeID:      item.ID,
		Title:         strings.TrimSpace(item.Title),
		Authors:       models.CleanAuthors(item.Authors),
		PublishedDate: item.PublishedDate,
		Pages:         models.Count(max(item.PageCount, 0)),
		Genre:         strings.TrimSpace(choice.Genre),
		Format:        strings.TrimSpace(choice.Format),
		Status:        status,
		Read:          models.ReadNo,
		Loaned:        models.LoanedNo,
		DateAdded:     Timestamp(now),
		Description:   item.Description,
	}

	if item.ImageLinks != nil {
		book.SmCover = item.ImageLinks.SmallThumbnail
		book.LgCover = item.ImageLinks.Thumbnail
	}

	if status == models.StatusInProgress {
		book.DateStarted = Timestamp(now)
	}

	return book
}
