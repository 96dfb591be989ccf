package lifecycle

import (
	"sort"
	"time"

	"book-tracker/internal/models"
)

// Predicate to filtr widoku listy
type Predicate func(*models.Book) bool

// Widoki listy książek
var (
	InProgress Predicate = func(b *models.Book) bool { return b.Status == models.StatusInProgress }
	Loaned     Predicate = func(b *models.Book) bool { return b.Loaned == models.LoanedYes }
	Read       Predicate = func(b *models.Book) bool { return b.Read == models.ReadYes }
	WishList   Predicate = func(b *models.Book) bool { return b.Status == models.StatusWish }
	TBR        Predicate = func(b *models.Book) bool { return b.Status == models.StatusTBR }
)

// Nazwy widoków używane w API i CLI
const (
	ViewAll        = "all"
	ViewInProgress = "ip"
	ViewLoaned     = "loaned"
	ViewRead       = "read"
	ViewWishList   = "wish"
	ViewTBR        = "tbr"
)

// ViewByName zwraca filtr dla nazwy widoku; pusta nazwa i "all" to cała lista
func ViewByName(name string) (Predicate, bool) {
	switch name {
	case "", ViewAll:
		return func(*models.Book) bool { return true }, true
	case ViewInProgress:
		return InProgress, true
	case ViewLoaned:
		return Loaned, true
	case ViewRead:
		return Read, true
	case ViewWishList:
		return WishList, true
	case ViewTBR:
		return TBR, true
	}
	return nil, false
}

// Filter zwraca książki spełniające warunek, w oryginalnej kolejności
func Filter(list []*models.Book, pred Predicate) []*models.Book {
	out := make([]*models.Book, 0)
	for _, book := range list {
		if pred(book) {
			out = append(out, book)
		}
	}
	return out
}

// Upcoming zwraca zapowiedzi z datą premiery w przyszłości, od najbliższej
func Upcoming(list []*models.UpcomingBook, now time.Time) []*models.UpcomingBook {
	out := make([]*models.UpcomingBook, 0)
	for _, u := range list {
		if u.ReleaseDate.After(now) {
			out = append(out, u)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ReleaseDate.Before(out[j].ReleaseDate)
	})

	return out
}

// Stats to podsumowanie biblioteki na stronie głównej
type Stats struct {
	TotalBooks int `json:"totalBooks"`
	TotalPages int `json:"totalPages"`
}

// ComputeStats liczy książki i sumę stron
func ComputeStats(list []*models.Book) Stats {
	stats := Stats{TotalBooks: len(list)}
	for _, book := range list {
		stats.TotalPages += int(book.Pages)
	}
	return stats
}

// RecentlyCompleted zwraca n ostatnio przeczytanych książek (najnowsze pierwsze)
func RecentlyCompleted(list []*models.Book, n int) []*models.Book {
	read := Filter(list, Read)

	// Znaczniki ISO-8601 w UTC można porównywać jak tekst
	sort.SliceStable(read, func(i, j int) bool {
		return read[i].DateFinished > read[j].DateFinished
	})

	if len(read) > n {
		read = read[:n]
	}
	return read
}
