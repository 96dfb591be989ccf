package lifecycle

import (
	"sort"
	"strings"

	"book-tracker/internal/models"
)

// ApplyPatch zwraca nową listę, w której książka o danym ID jest scalona z patchem.
// Pozostałe elementy są tymi samymi wskaźnikami, kolejność się nie zmienia.
func ApplyPatch(list []*models.Book, id string, patch models.Patch) []*models.Book {
	out := make([]*models.Book, len(list))
	for i, book := range list {
		if book.ID == id {
			out[i] = patch.Apply(book)
			continue
		}
		out[i] = book
	}
	return out
}

// Insert dodaje książkę na koniec nowej listy
func Insert(list []*models.Book, book *models.Book) []*models.Book {
	out := make([]*models.Book, 0, len(list)+1)
	out = append(out, list...)
	return append(out, book)
}

// Remove zwraca nową listę bez książki o danym ID
func Remove(list []*models.Book, id string) []*models.Book {
	out := make([]*models.Book, 0, len(list))
	for _, book := range list {
		if book.ID != id {
			out = append(out, book)
		}
	}
	return out
}

// Find szuka książki po ID
func Find(list []*models.Book, id string) (*models.Book, bool) {
	for _, book := range list {
		if book.ID == id {
			return book, true
		}
	}
	return nil, false
}

// SortForDisplay sortuje stabilnie po tytule, a przy remisie po autorach (bez rozróżniania wielkości liter)
func SortForDisplay(list []*models.Book) []*models.Book {
	out := make([]*models.Book, len(list))
	copy(out, list)

	sort.SliceStable(out, func(i, j int) bool {
		ti, tj := strings.ToLower(out[i].Title), strings.ToLower(out[j].Title)
		if ti != tj {
			return ti < tj
		}
		return strings.ToLower(out[i].AuthorsLine()) < strings.ToLower(out[j].AuthorsLine())
	})

	return out
}
