package catalog

import (
	"context"
	"strings"
	"sync"
	"unicode/utf8"

	"book-tracker/internal/models"
)

// Result to wynik wyszukiwania oznaczony numerem generacji.
// Stale == true oznacza, że w międzyczasie wysłano nowsze zapytanie i wyniku nie należy pokazywać.
type Result struct {
	Generation uint64               `json:"generation"`
	Items      []models.CatalogItem `json:"items"`
	Stale      bool                 `json:"stale"`
}

// Latest pilnuje, żeby każdy klient dostawał tylko odpowiedź na swoje najnowsze zapytanie.
// Nowe zapytanie klienta anuluje jego poprzednie, które jeszcze trwa; zapytania innych klientów zostają.
type Latest struct {
	searcher Searcher

	mu         sync.Mutex
	generation uint64
	inflight   map[string]pending
}

type pending struct {
	generation uint64
	cancel     context.CancelFunc
}

// NewLatest opakowuje wyszukiwarkę
func NewLatest(searcher Searcher) *Latest {
	return &Latest{searcher: searcher, inflight: make(map[string]pending)}
}

// Search wyszukuje jako domyślny klient
func (l *Latest) Search(ctx context.Context, term string, mode Mode) (Result, error) {
	return l.SearchFor(ctx, "", term, mode)
}

// SearchFor wysyła zapytanie klienta, jeśli ma co najmniej MinQueryLength znaków.
// Krótsze zapytanie czyści wyniki i unieważnia trwające wyszukiwanie tego klienta.
func (l *Latest) SearchFor(ctx context.Context, client, term string, mode Mode) (Result, error) {
	term = strings.TrimSpace(term)

	l.mu.Lock()
	l.generation++
	gen := l.generation
	if p, ok := l.inflight[client]; ok {
		p.cancel()
		delete(l.inflight, client)
	}

	if utf8.RuneCountInString(term) < MinQueryLength {
		l.mu.Unlock()
		return Result{Generation: gen, Items: []models.CatalogItem{}}, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	l.inflight[client] = pending{generation: gen, cancel: cancel}
	l.mu.Unlock()
	defer cancel()

	items, err := l.searcher.Search(ctx, term, mode)

	if !l.finish(client, gen) {
		return Result{Generation: gen, Stale: true}, nil
	}
	if err != nil {
		return Result{Generation: gen}, err
	}
	if items == nil {
		items = []models.CatalogItem{}
	}

	return Result{Generation: gen, Items: items}, nil
}

// Generation zwraca numer ostatniego zapytania
func (l *Latest) Generation() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.generation
}

// finish zdejmuje zapytanie z listy trwających; false gdy klient wysłał w międzyczasie nowsze
func (l *Latest) finish(client string, gen uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	p, ok := l.inflight[client]
	if !ok || p.generation != gen {
		return false
	}
	delete(l.inflight, client)
	return true
}
