package firebase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"book-tracker/internal/models"
)

const (
	// BooksCollection to nazwa kolekcji książek
	BooksCollection = "books"
	// UpcomingCollection to nazwa kolekcji zapowiedzi
	UpcomingCollection = "upcoming"
)

// backend to surowe operacje na kolekcji dokumentów JSON
type backend interface {
	getAll(ctx context.Context, collection string) (map[string]json.RawMessage, error)
	get(ctx context.Context, collection, id string) (json.RawMessage, error)
	push(ctx context.Context, collection string, v interface{}) (string, error)
	update(ctx context.Context, collection, id string, fields map[string]interface{}) error
	remove(ctx context.Context, collection, id string) error
}

// Store przechowuje książki i zapowiedzi w Realtime Database albo Firestore
type Store struct {
	backend backend
	logger  *zap.Logger
}

// ListBooks pobiera całą kolekcję książek
func (s *Store) ListBooks(ctx context.Context) ([]*models.Book, error) {
	raw, err := s.backend.getAll(ctx, BooksCollection)
	if err != nil {
		return nil, fmt.Errorf("błąd pobierania listy książek: %w", err)
	}

	books, skipped := decodeBooks(raw)
	for key, err := range skipped {
		s.logger.Warn("pominięto nieczytelny rekord książki", zap.String("id", key), zap.Error(err))
	}
	return books, nil
}

// GetBook pobiera książkę po ID
func (s *Store) GetBook(ctx context.Context, id string) (*models.Book, error) {
	if id == "" {
		return nil, fmt.Errorf("ID książki nie może być puste")
	}

	data, err := s.backend.get(ctx, BooksCollection, id)
	if err != nil {
		return nil, fmt.Errorf("błąd pobierania książki: %w", err)
	}

	book, err := decodeBook(id, data)
	if err != nil {
		return nil, fmt.Errorf("błąd parsowania danych książki: %w", err)
	}
	return book, nil
}

// CreateBook zapisuje nową książkę i zwraca klucz nadany przez bazę
func (s *Store) CreateBook(ctx context.Context, book *models.Book) (string, error) {
	if book == nil {
		return "", fmt.Errorf("książka nie może być nil")
	}

	// ID nadaje baza, nie zapisujemy go w dokumencie
	doc := book.Clone()
	doc.ID = ""

	id, err := s.backend.push(ctx, BooksCollection, doc)
	if err != nil {
		return "", fmt.Errorf("błąd zapisywania książki: %w", err)
	}
	return id, nil
}

// PatchBook nadpisuje wybrane pola najwyższego poziomu
func (s *Store) PatchBook(ctx context.Context, id string, patch models.Patch) error {
	if id == "" {
		return fmt.Errorf("ID książki nie może być puste")
	}

	fields := patch.Fields()
	if len(fields) == 0 {
		return nil
	}

	if err := s.backend.update(ctx, BooksCollection, id, fields); err != nil {
		return fmt.Errorf("błąd aktualizacji książki: %w", err)
	}
	return nil
}

// DeleteBook usuwa książkę
func (s *Store) DeleteBook(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("ID książki nie może być puste")
	}

	if err := s.backend.remove(ctx, BooksCollection, id); err != nil {
		return fmt.Errorf("błąd usuwania książki: %w", err)
	}
	return nil
}

// ListUpcoming pobiera wszystkie zapowiedzi
func (s *Store) ListUpcoming(ctx context.Context) ([]*models.UpcomingBook, error) {
	raw, err := s.backend.getAll(ctx, UpcomingCollection)
	if err != nil {
		return nil, fmt.Errorf("błąd pobierania zapowiedzi: %w", err)
	}

	list := make([]*models.UpcomingBook, 0, len(raw))
	for _, key := range sortedKeys(raw) {
		if isNull(raw[key]) {
			continue
		}
		var u models.UpcomingBook
		if err := json.Unmarshal(raw[key], &u); err != nil {
			s.logger.Warn("pominięto nieczytelną zapowiedź", zap.String("id", key), zap.Error(err))
			continue
		}
		u.ID = key
		list = append(list, &u)
	}
	return list, nil
}

// CreateUpcoming zapisuje zapowiedź i zwraca jej klucz
func (s *Store) CreateUpcoming(ctx context.Context, u *models.UpcomingBook) (string, error) {
	if u == nil {
		return "", fmt.Errorf("zapowiedź nie może być nil")
	}

	doc := *u
	doc.ID = ""

	id, err := s.backend.push(ctx, UpcomingCollection, &doc)
	if err != nil {
		return "", fmt.Errorf("błąd zapisywania zapowiedzi: %w", err)
	}
	return id, nil
}

// decodeBooks dekoduje kolekcję w kolejności kluczy; nieczytelne rekordy zwraca osobno
func decodeBooks(raw map[string]json.RawMessage) ([]*models.Book, map[string]error) {
	books := make([]*models.Book, 0, len(raw))
	var skipped map[string]error

	for _, key := range sortedKeys(raw) {
		if isNull(raw[key]) {
			continue
		}
		book, err := decodeBook(key, raw[key])
		if err != nil {
			if skipped == nil {
				skipped = make(map[string]error)
			}
			skipped[key] = err
			continue
		}
		books = append(books, book)
	}
	return books, skipped
}

// decodeBook dekoduje jeden rekord; stare rekordy trzymały ID wolumenu w polu "id"
func decodeBook(key string, data json.RawMessage) (*models.Book, error) {
	if isNull(data) {
		return nil, models.ErrNotFound
	}

	var book models.Book
	if err := json.Unmarshal(data, &book); err != nil {
		return nil, err
	}

	if book.ID != "" && book.VolumeID == "" {
		book.VolumeID = book.ID
	}
	book.ID = key
	book.Defaults()

	return &book, nil
}

// sortedKeys zwraca klucze rosnąco; klucze push w RTDB rosną z czasem utworzenia
func sortedKeys(raw map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func isNull(data json.RawMessage) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
