package lifecycle

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"book-tracker/internal/models"
)

// ErrInvalidRating oznacza ocenę spoza zakresu 1-5
var ErrInvalidRating = errors.New("ocena musi być w zakresie 1-5")

func ptr[T any](v T) *T {
	return &v
}

// ToggleRead oznacza książkę jako przeczytaną albo cofa to oznaczenie.
// Data zakończenia jest zawsze stemplowana na nowo, nie jest przywracana.
func ToggleRead(book *models.Book, now time.Time) models.Patch {
	if book.Read != models.ReadYes {
		return models.Patch{
			Read:         ptr(models.ReadYes),
			DateFinished: ptr(Timestamp(now)),
		}
	}
	return models.Patch{
		Read:         ptr(models.ReadNo),
		DateFinished: ptr(""),
	}
}

// StartReading przenosi książkę do "w trakcie" i ustawia datę rozpoczęcia
func StartReading(book *models.Book, now time.Time) models.Patch {
	return models.Patch{
		Status:      ptr(models.StatusInProgress),
		DateStarted: ptr(Timestamp(now)),
	}
}

// ToggleLoan rejestruje pożyczenie albo zwrot książki.
// Gdy książka nie jest pożyczona, a nie podano imienia, nic się nie dzieje (ok == false).
// Imię musi mieścić się w jednej linii notatki.
func ToggleLoan(book *models.Book, borrower string, now time.Time) (models.Patch, bool, error) {
	log := book.LoanLog()

	if book.Loaned == models.LoanedYes {
		note := log.Append(models.Returned(Today(now))).String()
		return models.Patch{
			Loaned: ptr(models.LoanedNo),
			Note:   &note,
		}, true, nil
	}

	borrower = strings.TrimSpace(borrower)
	if borrower == "" {
		return models.Patch{}, false, nil
	}
	if strings.ContainsAny(borrower, "\r\n") {
		return models.Patch{}, false, fmt.Errorf("%w: imię pożyczającego nie może zawierać nowej linii", ErrValidation)
	}

	note := log.Append(models.Loaned(borrower, Today(now))).String()
	return models.Patch{
		Loaned: ptr(models.LoanedYes),
		Note:   &note,
	}, true, nil
}

// Rate ustawia ocenę i recenzję, nie zmieniając innych pól
func Rate(book *models.Book, stars int, review string) (models.Patch, error) {
	if stars < 1 || stars > 5 {
		return models.Patch{}, fmt.Errorf("%w: %d", ErrInvalidRating, stars)
	}
	return models.Patch{
		Stars:  ptr(models.Count(stars)),
		Review: &review,
	}, nil
}

// AdvanceToTbr przenosi książkę na listę "do przeczytania"
func AdvanceToTbr(book *models.Book) models.Patch {
	return models.Patch{Status: ptr(models.StatusTBR)}
}

// SetStatus ustawia dowolny status (oś statusu nie ma zabronionych przejść)
func SetStatus(book *models.Book, status models.Status) (models.Patch, error) {
	if !status.Valid() {
		return models.Patch{}, fmt.Errorf("%w: nieznany status %q", ErrValidation, status)
	}
	return models.Patch{Status: &status}, nil
}

// EditForm to dane z formularza edycji książki.
// Pola szczegółów (data wydania, strony, okładki) są opcjonalne: nil zostawia je bez zmian.
type EditForm struct {
	Title   string `json:"title"`
	Authors string `json:"authors"` // Autorzy oddzieleni przecinkami
	Genre   string `json:"genre"`
	Format  string `json:"format"`
	Status  string `json:"status"`

	PublishedDate *string `json:"publishedDate,omitempty"`
	Pages         *int    `json:"pages,omitempty"`
	SmCover       *string `json:"smCover,omitempty"`
	LgCover       *string `json:"lgCover,omitempty"`
}

// Edit zamienia formularz edycji na patch; tytuł i autorzy są wymagani, pusty status to "none"
func Edit(book *models.Book, form EditForm) (models.Patch, error) {
	title := strings.TrimSpace(form.Title)
	if title == "" {
		return models.Patch{}, fmt.Errorf("%w: tytuł jest wymagany", ErrValidation)
	}

	authors := models.ParseAuthors(form.Authors)
	if len(authors) == 0 {
		return models.Patch{}, fmt.Errorf("%w: autor jest wymagany", ErrValidation)
	}

	status := models.StatusNone
	if strings.TrimSpace(form.Status) != "" {
		var ok bool
		if status, ok = models.LookupStatus(form.Status); !ok {
			return models.Patch{}, fmt.Errorf("%w: nieznany status %q", ErrValidation, form.Status)
		}
	}

	patch := models.Patch{
		Title:   &title,
		Authors: &authors,
		Genre:   ptr(strings.TrimSpace(form.Genre)),
		Format:  ptr(strings.TrimSpace(form.Format)),
		Status:  &status,
	}

	if form.Pages != nil {
		if *form.Pages < 0 {
			return models.Patch{}, fmt.Errorf("%w: liczba stron nie może być ujemna", ErrValidation)
		}
		patch.Pages = ptr(models.Count(*form.Pages))
	}
	if form.PublishedDate != nil {
		patch.PublishedDate = ptr(strings.TrimSpace(*form.PublishedDate))
	}
	if form.SmCover != nil {
		patch.SmCover = ptr(strings.TrimSpace(*form.SmCover))
	}
	if form.LgCover != nil {
		patch.LgCover = ptr(strings.TrimSpace(*form.LgCover))
	}

	return patch, nil
}
