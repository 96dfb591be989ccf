package models

import (
	"regexp"
	"strings"
)

// LoanEventKind określa rodzaj wpisu w logu wypożyczeń
type LoanEventKind string

const (
	LoanEventLoaned   LoanEventKind = "loaned"   // "Loaned to X (data)"
	LoanEventReturned LoanEventKind = "returned" // "Returned (data)"
	LoanEventText     LoanEventKind = "text"     // Dowolny tekst wpisany ręcznie
)

var (
	loanedLine   = regexp.MustCompile(`^Loaned to (.+) \(([^()]*)\)$`)
	returnedLine = regexp.MustCompile(`^Returned \(([^()]*)\)$`)
)

// LoanEvent to pojedyncza linia notatki
type LoanEvent struct {
	Kind     LoanEventKind `json:"kind"`
	Borrower string        `json:"borrower,omitempty"`
	Date     string        `json:"date,omitempty"`
	Text     string        `json:"text,omitempty"`
}

// Loaned tworzy wpis o pożyczeniu książki
func Loaned(borrower, date string) LoanEvent {
	return LoanEvent{Kind: LoanEventLoaned, Borrower: borrower, Date: date}
}

// Returned tworzy wpis o zwrocie książki
func Returned(date string) LoanEvent {
	return LoanEvent{Kind: LoanEventReturned, Date: date}
}

// String zwraca wpis w formacie zapisywanym w bazie
func (e LoanEvent) String() string {
	switch e.Kind {
	case LoanEventLoaned:
		return "Loaned to " + e.Borrower + " (" + e.Date + ")"
	case LoanEventReturned:
		return "Returned (" + e.Date + ")"
	default:
		return e.Text
	}
}

// LoanLog to notatka rozbita na kolejne wpisy. Wpisy są tylko dopisywane.
type LoanLog []LoanEvent

// ParseLoanLog dzieli notatkę na wpisy; nierozpoznane linie zostają jako tekst
func ParseLoanLog(note string) LoanLog {
	if note == "" {
		return nil
	}

	lines := strings.Split(note, "\n")
	log := make(LoanLog, 0, len(lines))
	for _, line := range lines {
		if m := loanedLine.FindStringSubmatch(line); m != nil {
			log = append(log, Loaned(m[1], m[2]))
			continue
		}
		if m := returnedLine.FindStringSubmatch(line); m != nil {
			log = append(log, Returned(m[1]))
			continue
		}
		log = append(log, LoanEvent{Kind: LoanEventText, Text: line})
	}
	return log
}

// String składa wpisy z powrotem w notatkę
func (l LoanLog) String() string {
	lines := make([]string, len(l))
	for i, e := range l {
		lines[i] = e.String()
	}
	return strings.Join(lines, "\n")
}

// Append zwraca nowy log z dopisanym wpisem, bez modyfikacji oryginału
func (l LoanLog) Append(e LoanEvent) LoanLog {
	out := make(LoanLog, 0, len(l)+1)
	out = append(out, l...)
	return append(out, e)
}

// OpenLoan zwraca pożyczającego, jeśli ostatnie wypożyczenie nie zostało zwrócone
func (l LoanLog) OpenLoan() (string, bool) {
	for i := len(l) - 1; i >= 0; i-- {
		switch l[i].Kind {
		case LoanEventLoaned:
			return l[i].Borrower, true
		case LoanEventReturned:
			return "", false
		}
	}
	return "", false
}
