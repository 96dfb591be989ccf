package models

import (
	"fmt"
	"math"
	"time"
)

// UpcomingBook reprezentuje zapowiedź książki, na którą czeka użytkownik
type UpcomingBook struct {
	ID          string    `json:"id,omitempty" firestore:"-" yaml:"-"`
	Title       string    `json:"title" firestore:"title" yaml:"title"`
	Author      string    `json:"author" firestore:"author" yaml:"author"`
	Series      string    `json:"series" firestore:"series" yaml:"series,omitempty"`
	ReleaseDate time.Time `json:"releaseDate" firestore:"releaseDate" yaml:"release_date"`
}

// IsReleased sprawdza czy data premiery już minęła
func (u *UpcomingBook) IsReleased(now time.Time) bool {
	return !u.ReleaseDate.After(now)
}

// DaysRemaining zwraca liczbę pełnych dni do premiery (zaokrąglenie w dół)
func (u *UpcomingBook) DaysRemaining(now time.Time) int {
	return int(math.Floor(u.ReleaseDate.Sub(now).Hours() / 24))
}

// Countdown zwraca etykietę odliczania do premiery
func (u *UpcomingBook) Countdown(now time.Time) string {
	days := u.DaysRemaining(now)
	switch {
	case days <= 0:
		return "Released!"
	case days == 1:
		return "1 day"
	default:
		return fmt.Sprintf("%d days", days)
	}
}
