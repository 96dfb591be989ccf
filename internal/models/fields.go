package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Authors to uporządkowana lista autorów.
// W bazie bywa zapisana jako tablica albo jako tekst oddzielony przecinkami.
type Authors []string

// ParseAuthors dzieli tekst po przecinkach, przycina spacje i pomija puste wpisy
func ParseAuthors(s string) Authors {
	authors := Authors{}
	for _, part := range strings.Split(s, ",") {
		if name := strings.TrimSpace(part); name != "" {
			authors = append(authors, name)
		}
	}
	return authors
}

// CleanAuthors przycina nazwiska i usuwa puste pozycje z listy
func CleanAuthors(names []string) Authors {
	authors := Authors{}
	for _, name := range names {
		authors = append(authors, ParseAuthors(name)...)
	}
	return authors
}

// String łączy autorów do wyświetlenia
func (a Authors) String() string {
	return strings.Join(a, ", ")
}

// UnmarshalJSON akceptuje tablicę, tekst lub null
func (a *Authors) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = Authors{}
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("błąd parsowania autorów: %w", err)
		}
		*a = ParseAuthors(s)
		return nil
	}

	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return fmt.Errorf("błąd parsowania autorów: %w", err)
	}
	*a = CleanAuthors(names)
	return nil
}

// Count to liczba całkowita zapisywana czasem jako tekst (np. z formularza)
type Count int

// UnmarshalJSON akceptuje liczbę, tekst z liczbą, pusty tekst lub null
func (c *Count) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*c = 0
		return nil
	}

	raw := string(data)
	if data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("błąd parsowania liczby: %w", err)
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			*c = 0
			return nil
		}
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("nieprawidłowa liczba %q: %w", raw, err)
	}
	*c = Count(int(f))
	return nil
}

// UnmarshalJSON akceptuje znane statusy i stare zapisy
func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("błąd parsowania statusu: %w", err)
	}
	*s = ParseStatus(raw)
	return nil
}

// UnmarshalJSON akceptuje "n", "ip", "y" oraz wartości logiczne
func (r *ReadState) UnmarshalJSON(data []byte) error {
	switch strings.ToLower(strings.Trim(string(bytes.TrimSpace(data)), `"`)) {
	case "y", "yes", "true":
		*r = ReadYes
	case "ip":
		*r = ReadInProgress
	default:
		*r = ReadNo
	}
	return nil
}

// UnmarshalJSON akceptuje "y"/"n" oraz wartości logiczne
func (l *LoanFlag) UnmarshalJSON(data []byte) error {
	switch strings.ToLower(strings.Trim(string(bytes.TrimSpace(data)), `"`)) {
	case "y", "yes", "true":
		*l = LoanedYes
	default:
		*l = LoanedNo
	}
	return nil
}
