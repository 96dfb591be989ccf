// Package library trzyma lokalną kopię biblioteki i wykonuje na niej operacje cyklu życia książki.
//
// Każda zmiana jest najpierw zapisywana w bazie, a dopiero po sukcesie nakładana na kopię lokalną.
// Nieudany zapis zostawia kopię bez zmian i zapamiętuje błąd dla danej książki (Failures).
package library

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"book-tracker/internal/catalog"
	"book-tracker/internal/lifecycle"
	"book-tracker/internal/models"
)

var (
	// ErrNotFound oznacza nieznane ID książki
	ErrNotFound = models.ErrNotFound
	// ErrStore oznacza błąd zapisu lub odczytu z bazy
	ErrStore = errors.New("błąd bazy danych")
	// ErrUnknownView oznacza nieznaną nazwę widoku
	ErrUnknownView = errors.New("nieznany widok")
)

// Store to magazyn książek i zapowiedzi
type Store interface {
	ListBooks(ctx context.Context) ([]*models.Book, error)
	CreateBook(ctx context.Context, book *models.Book) (string, error)
	PatchBook(ctx context.Context, id string, patch models.Patch) error
	DeleteBook(ctx context.Context, id string) error
	ListUpcoming(ctx context.Context) ([]*models.UpcomingBook, error)
	CreateUpcoming(ctx context.Context, u *models.UpcomingBook) (string, error)
}

// Failure to zapamiętany błąd zapisu zmiany książki
type Failure struct {
	BookID string    `json:"bookId"`
	Action string    `json:"action"`
	Error  string    `json:"error"`
	At     time.Time `json:"at"`
}

// Library to lokalna kopia biblioteki użytkownika
type Library struct {
	store  Store
	search *catalog.Latest
	logger *zap.Logger
	now    func() time.Time

	mu       sync.RWMutex
	books    []*models.Book
	upcoming []*models.UpcomingBook
	failures map[string]Failure
}

// Option konfiguruje Library
type Option func(*Library)

// WithClock podmienia zegar (testy)
func WithClock(now func() time.Time) Option {
	return func(l *Library) {
		l.now = now
	}
}

// New tworzy bibliotekę; kopia lokalna jest pusta do pierwszego Refresh
func New(store Store, searcher catalog.Searcher, logger *zap.Logger, opts ...Option) *Library {
	l := &Library{
		store:    store,
		search:   catalog.NewLatest(searcher),
		logger:   logger,
		now:      time.Now,
		failures: make(map[string]Failure),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Refresh wczytuje książki i zapowiedzi równolegle i podmienia kopię lokalną
func (l *Library) Refresh(ctx context.Context) error {
	var (
		books    []*models.Book
		upcoming []*models.UpcomingBook
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		books, err = l.store.ListBooks(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		upcoming, err = l.store.ListUpcoming(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		l.logger.Error("błąd wczytywania biblioteki", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrStore, err)
	}

	l.mu.Lock()
	l.books = books
	l.upcoming = upcoming
	l.failures = make(map[string]Failure)
	l.mu.Unlock()

	l.logger.Info("wczytano bibliotekę", zap.Int("books", len(books)), zap.Int("upcoming", len(upcoming)))
	return nil
}

// Books zwraca wszystkie książki posortowane do wyświetlenia
func (l *Library) Books() []*models.Book {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return lifecycle.SortForDisplay(l.books)
}

// View zwraca posortowane książki z widoku o danej nazwie ("" lub "all" to wszystkie)
func (l *Library) View(name string) ([]*models.Book, error) {
	pred, ok := lifecycle.ViewByName(strings.ToLower(strings.TrimSpace(name)))
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownView, name)
	}
	return lifecycle.Filter(l.Books(), pred), nil
}

// Get zwraca książkę o danym ID
func (l *Library) Get(id string) (*models.Book, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	book, ok := lifecycle.Find(l.books, id)
	if !ok {
		return nil, fmt.Errorf("%w: książka %q", ErrNotFound, id)
	}
	return book, nil
}

// Search wyszukuje w katalogu; wynik nieaktualnego zapytania ma Stale == true
func (l *Library) Search(ctx context.Context, term string, mode catalog.Mode) (catalog.Result, error) {
	return l.SearchFor(ctx, "", term, mode)
}

// SearchFor wyszukuje w imieniu klienta (np. sesji HTTP); nowsze zapytanie unieważnia tylko jego wcześniejsze
func (l *Library) SearchFor(ctx context.Context, client, term string, mode catalog.Mode) (catalog.Result, error) {
	res, err := l.search.SearchFor(ctx, client, term, mode)
	if err != nil {
		l.logger.Warn("błąd wyszukiwania w katalogu", zap.String("term", term), zap.Error(err))
		return res, err
	}
	return res, nil
}

// Add zapisuje książkę wybraną z katalogu i dodaje ją do kopii lokalnej
func (l *Library) Add(ctx context.Context, item models.CatalogItem, choice lifecycle.AddChoice) (*models.Book, error) {
	if err := lifecycle.ValidateChoice(choice); err != nil {
		return nil, err
	}

	book := lifecycle.Normalize(item, choice, l.now())

	id, err := l.store.CreateBook(ctx, book)
	if err != nil {
		l.fail("new:"+item.ID, "add", err)
		return nil, fmt.Errorf("%w: %w", ErrStore, err)
	}
	book.ID = id

	l.mu.Lock()
	l.books = lifecycle.Insert(l.books, book)
	l.mu.Unlock()

	l.logger.Info("dodano książkę", zap.String("id", id), zap.String("title", book.Title))
	return book, nil
}

// ToggleRead przełącza stan przeczytania
func (l *Library) ToggleRead(ctx context.Context, id string) (*models.Book, error) {
	book, _, err := l.mutate(ctx, id, "read", func(b *models.Book) (models.Patch, bool, error) {
		return lifecycle.ToggleRead(b, l.now()), true, nil
	})
	return book, err
}

// StartReading oznacza rozpoczęcie czytania
func (l *Library) StartReading(ctx context.Context, id string) (*models.Book, error) {
	book, _, err := l.mutate(ctx, id, "start", func(b *models.Book) (models.Patch, bool, error) {
		return lifecycle.StartReading(b, l.now()), true, nil
	})
	return book, err
}

// ToggleLoan pożycza albo odbiera książkę; applied == false gdy nic nie zmieniono (pusty pożyczający)
func (l *Library) ToggleLoan(ctx context.Context, id, borrower string) (*models.Book, bool, error) {
	return l.mutate(ctx, id, "loan", func(b *models.Book) (models.Patch, bool, error) {
		return lifecycle.ToggleLoan(b, borrower, l.now())
	})
}

// Rate zapisuje ocenę 1-5 i recenzję
func (l *Library) Rate(ctx context.Context, id string, stars int, review string) (*models.Book, error) {
	book, _, err := l.mutate(ctx, id, "rate", func(b *models.Book) (models.Patch, bool, error) {
		patch, err := lifecycle.Rate(b, stars, review)
		return patch, err == nil, err
	})
	return book, err
}

// AdvanceToTbr przenosi książkę z listy życzeń do kolejki
func (l *Library) AdvanceToTbr(ctx context.Context, id string) (*models.Book, error) {
	book, _, err := l.mutate(ctx, id, "tbr", func(b *models.Book) (models.Patch, bool, error) {
		return lifecycle.AdvanceToTbr(b), true, nil
	})
	return book, err
}

// SetStatus ustawia status książki
func (l *Library) SetStatus(ctx context.Context, id string, status models.Status) (*models.Book, error) {
	book, _, err := l.mutate(ctx, id, "status", func(b *models.Book) (models.Patch, bool, error) {
		patch, err := lifecycle.SetStatus(b, status)
		return patch, err == nil, err
	})
	return book, err
}

// Edit zapisuje formularz edycji
func (l *Library) Edit(ctx context.Context, id string, form lifecycle.EditForm) (*models.Book, error) {
	book, _, err := l.mutate(ctx, id, "edit", func(b *models.Book) (models.Patch, bool, error) {
		patch, err := lifecycle.Edit(b, form)
		return patch, err == nil, err
	})
	return book, err
}

// Delete usuwa książkę z bazy i z kopii lokalnej
func (l *Library) Delete(ctx context.Context, id string) error {
	if _, err := l.Get(id); err != nil {
		return err
	}

	if err := l.store.DeleteBook(ctx, id); err != nil {
		l.fail(id, "delete", err)
		return fmt.Errorf("%w: %w", ErrStore, err)
	}

	l.mu.Lock()
	l.books = lifecycle.Remove(l.books, id)
	delete(l.failures, id)
	l.mu.Unlock()

	l.logger.Info("usunięto książkę", zap.String("id", id))
	return nil
}

// mutate zapisuje patch w bazie i po sukcesie nakłada go na kopię lokalną
func (l *Library) mutate(ctx context.Context, id, action string, build func(*models.Book) (models.Patch, bool, error)) (*models.Book, bool, error) {
	book, err := l.Get(id)
	if err != nil {
		return nil, false, err
	}

	patch, ok, err := build(book)
	if err != nil {
		return nil, false, err
	}
	if !ok || patch.IsEmpty() {
		return book, false, nil
	}

	if err := l.store.PatchBook(ctx, id, patch); err != nil {
		l.fail(id, action, err)
		return nil, false, fmt.Errorf("%w: %w", ErrStore, err)
	}

	l.mu.Lock()
	l.books = lifecycle.ApplyPatch(l.books, id, patch)
	delete(l.failures, id)
	updated, found := lifecycle.Find(l.books, id)
	l.mu.Unlock()

	// Książka mogła zniknąć przez równoległy Refresh
	if !found {
		updated = patch.Apply(book)
	}

	l.logger.Debug("zapisano zmianę", zap.String("id", id), zap.String("action", action))
	return updated, true, nil
}

func (l *Library) fail(id, action string, err error) {
	l.logger.Error("błąd zapisu zmiany",
		zap.String("id", id),
		zap.String("action", action),
		zap.Error(err),
	)

	l.mu.Lock()
	l.failures[id] = Failure{BookID: id, Action: action, Error: err.Error(), At: l.now()}
	l.mu.Unlock()
}

// Failures zwraca nieudane zapisy od ostatniego Refresh, posortowane po ID
func (l *Library) Failures() []Failure {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Failure, 0, len(l.failures))
	for _, f := range l.failures {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].BookID < out[j].BookID
	})
	return out
}
