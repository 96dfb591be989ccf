package library

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"book-tracker/internal/lifecycle"
	"book-tracker/internal/models"
)

// UpcomingEntry to zapowiedź z wyliczonym odliczaniem
type UpcomingEntry struct {
	*models.UpcomingBook
	DaysRemaining int    `json:"daysRemaining"`
	Countdown     string `json:"countdown"`
}

// Upcoming zwraca przyszłe premiery od najbliższej
func (l *Library) Upcoming() []UpcomingEntry {
	now := l.now()

	l.mu.RLock()
	list := lifecycle.Upcoming(l.upcoming, now)
	l.mu.RUnlock()

	out := make([]UpcomingEntry, 0, len(list))
	for _, u := range list {
		out = append(out, UpcomingEntry{
			UpcomingBook:  u,
			DaysRemaining: u.DaysRemaining(now),
			Countdown:     u.Countdown(now),
		})
	}
	return out
}

// AddUpcoming zapisuje nową zapowiedź; tytuł i data premiery są wymagane
func (l *Library) AddUpcoming(ctx context.Context, u models.UpcomingBook) (*models.UpcomingBook, error) {
	u.Title = strings.TrimSpace(u.Title)
	u.Author = strings.TrimSpace(u.Author)
	u.Series = strings.TrimSpace(u.Series)

	if u.Title == "" {
		return nil, fmt.Errorf("%w: tytuł jest wymagany", lifecycle.ErrValidation)
	}
	if u.ReleaseDate.IsZero() {
		return nil, fmt.Errorf("%w: data premiery jest wymagana", lifecycle.ErrValidation)
	}

	id, err := l.store.CreateUpcoming(ctx, &u)
	if err != nil {
		l.logger.Error("błąd zapisu zapowiedzi", zap.String("title", u.Title), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrStore, err)
	}
	u.ID = id

	l.mu.Lock()
	l.upcoming = append(append([]*models.UpcomingBook{}, l.upcoming...), &u)
	l.mu.Unlock()

	return &u, nil
}

// Home to podsumowanie na stronę główną
type Home struct {
	Stats             lifecycle.Stats `json:"stats"`
	InProgress        []*models.Book  `json:"inProgress"`
	RecentlyCompleted []*models.Book  `json:"recentlyCompleted"`
	Upcoming          []UpcomingEntry `json:"upcoming"`
	Failures          []Failure       `json:"failures,omitempty"`
}

const (
	homeRecentLimit   = 3
	homeUpcomingLimit = 4
)

// Home buduje podsumowanie: statystyki, czytane teraz, ostatnio przeczytane i najbliższe premiery
func (l *Library) Home() Home {
	books := l.Books()

	upcoming := l.Upcoming()
	if len(upcoming) > homeUpcomingLimit {
		upcoming = upcoming[:homeUpcomingLimit]
	}

	return Home{
		Stats:             lifecycle.ComputeStats(books),
		InProgress:        lifecycle.Filter(books, lifecycle.InProgress),
		RecentlyCompleted: lifecycle.RecentlyCompleted(books, homeRecentLimit),
		Upcoming:          upcoming,
		Failures:          l.Failures(),
	}
}
