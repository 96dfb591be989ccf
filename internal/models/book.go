package models

import (
	"errors"
	"strings"
)

// ErrNotFound oznacza brak rekordu o podanym ID
var ErrNotFound = errors.New("nie znaleziono rekordu")

// Status określa etap książki w kolejce czytelniczej (niezależny od pola Read)
type Status string

const (
	StatusNone       Status = "none"
	StatusWish       Status = "wish" // Lista życzeń
	StatusTBR        Status = "tbr"  // Do przeczytania
	StatusInProgress Status = "ip"   // W trakcie czytania
)

// ParseStatus zamienia tekst na status, akceptując stare zapisy ("Wish", "in progress").
// Nieznana wartość to StatusNone.
func ParseStatus(s string) Status {
	if status, ok := LookupStatus(s); ok {
		return status
	}
	return StatusNone
}

// LookupStatus rozpoznaje status także w starym zapisie; ok == false dla nieznanej wartości
func LookupStatus(s string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none":
		return StatusNone, true
	case "wish", "wishlist", "wish list":
		return StatusWish, true
	case "tbr", "to be read":
		return StatusTBR, true
	case "ip", "in progress", "in-progress":
		return StatusInProgress, true
	default:
		return "", false
	}
}

// Valid sprawdza czy status jest jedną ze znanych wartości
func (s Status) Valid() bool {
	switch s {
	case StatusNone, StatusWish, StatusTBR, StatusInProgress:
		return true
	}
	return false
}

// ReadState określa czy książka została przeczytana
type ReadState string

const (
	ReadNo         ReadState = "n"
	ReadInProgress ReadState = "ip"
	ReadYes        ReadState = "y"
)

// LoanFlag określa czy książka jest pożyczona ("y") czy nie ("n")
type LoanFlag string

const (
	LoanedNo  LoanFlag = "n"
	LoanedYes LoanFlag = "y"
)

// Book reprezentuje książkę w prywatnej bibliotece
type Book struct {
	ID            string    `json:"id,omitempty" firestore:"-"`
	VolumeID      string    `json:"volumeId" firestore:"volumeId"` // ID rekordu w katalogu źródłowym
	Title         string    `json:"title" firestore:"title"`
	Authors       Authors   `json:"authors" firestore:"authors"`
	PublishedDate string    `json:"publishedDate" firestore:"publishedDate"`
	Pages         Count     `json:"pages" firestore:"pages"`
	SmCover       string    `json:"smCover" firestore:"smCover"`
	LgCover       string    `json:"lgCover" firestore:"lgCover"`
	Genre         string    `json:"genre" firestore:"genre"`
	Format        string    `json:"format" firestore:"format"`
	Status        Status    `json:"status" firestore:"status"`
	Read          ReadState `json:"read" firestore:"read"`
	Loaned        LoanFlag  `json:"loaned" firestore:"loaned"`
	Note          string    `json:"note" firestore:"note"` // Log wypożyczeń, linie oddzielone \n
	Review        string    `json:"review" firestore:"review"`
	Stars         Count     `json:"stars" firestore:"stars"`
	DateAdded     string    `json:"dateAdded" firestore:"dateAdded"`
	DateStarted   string    `json:"dateStarted" firestore:"dateStarted"`
	DateFinished  string    `json:"dateFinished" firestore:"dateFinished"`
	Description   string    `json:"description" firestore:"description"`
}

// IsRead sprawdza czy książka jest przeczytana
func (b *Book) IsRead() bool {
	return b.Read == ReadYes
}

// IsLoaned sprawdza czy książka jest komuś pożyczona
func (b *Book) IsLoaned() bool {
	return b.Loaned == LoanedYes
}

// IsInProgress sprawdza czy książka jest w trakcie czytania
func (b *Book) IsInProgress() bool {
	return b.Status == StatusInProgress
}

// AuthorsLine zwraca autorów połączonych przecinkami (tylko do wyświetlania)
func (b *Book) AuthorsLine() string {
	return b.Authors.String()
}

// LoanLog zwraca notatkę jako uporządkowaną listę wpisów
func (b *Book) LoanLog() LoanLog {
	return ParseLoanLog(b.Note)
}

// Clone zwraca głęboką kopię książki
func (b *Book) Clone() *Book {
	c := *b
	if b.Authors != nil {
		c.Authors = append(Authors{}, b.Authors...)
	}
	return &c
}

// Defaults uzupełnia puste pola stanu wartościami domyślnymi
func (b *Book) Defaults() {
	if b.Authors == nil {
		b.Authors = Authors{}
	}
	if !b.Status.Valid() {
		b.Status = ParseStatus(string(b.Status))
	}
	if b.Read == "" {
		b.Read = ReadNo
	}
	if b.Loaned == "" {
		b.Loaned = LoanedNo
	}
}
