package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"google.golang.org/api/option"

	"book-tracker/internal/models"
)

func TestParseMode(t *testing.T) {
	assert.Equal(t, ModeAuthor, ParseMode("Author"))
	assert.Equal(t, ModeTitle, ParseMode("title"))
	assert.Equal(t, ModeTitle, ParseMode(""))
}

func TestGoogleBooks_Search(t *testing.T) {
	var gotQuery, gotOrder string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotOrder = r.URL.Query().Get("orderBy")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"totalItems": 2,
			"items": [
				{"id": "v1", "volumeInfo": {
					"title": "Dune", "authors": ["Frank Herbert"], "publishedDate": "1965",
					"pageCount": 412, "description": "Arrakis",
					"imageLinks": {"smallThumbnail": "http://s", "thumbnail": "http://l"}}},
				{"id": "v2", "volumeInfo": {"title": "Dune Messiah"}}
			]}`))
	}))
	defer srv.Close()

	gb, err := NewGoogleBooks(context.Background(), "", option.WithEndpoint(srv.URL+"/"), option.WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	items, err := gb.Search(context.Background(), "dune", ModeTitle)
	require.NoError(t, err)

	assert.Equal(t, "intitle:dune", gotQuery)
	assert.Equal(t, "relevance", gotOrder)
	require.Len(t, items, 2)
	assert.Equal(t, models.CatalogItem{
		ID:            "v1",
		Title:         "Dune",
		Authors:       []string{"Frank Herbert"},
		PublishedDate: "1965",
		PageCount:     412,
		Description:   "Arrakis",
		ImageLinks:    &models.ImageLinks{SmallThumbnail: "http://s", Thumbnail: "http://l"},
	}, items[0])
	assert.Nil(t, items[1].ImageLinks)
	assert.Empty(t, items[1].Authors)

	_, err = gb.Search(context.Background(), "herbert", ModeAuthor)
	require.NoError(t, err)
	assert.Equal(t, "inauthor:herbert", gotQuery)
}

func TestOpenLibrary_Search(t *testing.T) {
	var gotPath, gotTitle, gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotTitle = r.URL.Query().Get("title")
		gotAgent = r.Header.Get("User-Agent")
		w.Write([]byte(`{"numFound": 1, "docs": [
			{"key": "/works/OL1W", "title": "Dune", "author_name": ["Frank Herbert"],
			 "first_publish_year": 1965, "number_of_pages_median": 500, "cover_i": 42},
			{"key": "/works/OL2W", "title": "Dune Notes"}
		]}`))
	}))
	defer srv.Close()

	ol := NewOpenLibrary("book-tracker-test", 100, 0).WithBaseURL(srv.URL)
	items, err := ol.Search(context.Background(), "dune", ModeTitle)
	require.NoError(t, err)

	assert.Equal(t, "/search.json", gotPath)
	assert.Equal(t, "dune", gotTitle)
	assert.Equal(t, "book-tracker-test", gotAgent)
	require.Len(t, items, 2)
	assert.Equal(t, "OL1W", items[0].ID)
	assert.Equal(t, "1965", items[0].PublishedDate)
	assert.Equal(t, 500, items[0].PageCount)
	require.NotNil(t, items[0].ImageLinks)
	assert.Equal(t, "https://covers.openlibrary.org/b/id/42-S.jpg", items[0].ImageLinks.SmallThumbnail)
	assert.Nil(t, items[1].ImageLinks)
	assert.Empty(t, items[1].PublishedDate)
}

func TestOpenLibrary_ClientErrorIsNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	ol := NewOpenLibrary("test", 100, 3).WithBaseURL(srv.URL)
	_, err := ol.Search(context.Background(), "dune", ModeAuthor)

	assert.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

type fakeSearcher struct {
	calls   int32
	started chan string
	release chan struct{}
	err     error
}

func (f *fakeSearcher) Search(ctx context.Context, term string, mode Mode) ([]models.CatalogItem, error) {
	atomic.AddInt32(&f.calls, 1)
	if term == "slow" {
		f.started <- term
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-f.release:
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return []models.CatalogItem{{ID: term, Title: term}}, nil
}

func TestLatest_ShortQueryDoesNotCallSearcher(t *testing.T) {
	f := &fakeSearcher{}
	l := NewLatest(f)

	res, err := l.Search(context.Background(), " du ", ModeTitle)
	require.NoError(t, err)

	assert.Empty(t, res.Items)
	assert.NotNil(t, res.Items)
	assert.False(t, res.Stale)
	assert.Equal(t, int32(0), atomic.LoadInt32(&f.calls))
}

func TestLatest_OlderResponseIsStale(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := &fakeSearcher{started: make(chan string), release: make(chan struct{})}
	l := NewLatest(f)

	type outcome struct {
		res Result
		err error
	}
	slow := make(chan outcome, 1)
	go func() {
		res, err := l.Search(context.Background(), "slow", ModeTitle)
		slow <- outcome{res, err}
	}()
	<-f.started

	fast, err := l.Search(context.Background(), "fast", ModeTitle)
	require.NoError(t, err)
	assert.False(t, fast.Stale)
	require.Len(t, fast.Items, 1)
	assert.Equal(t, "fast", fast.Items[0].ID)

	old := <-slow
	assert.NoError(t, old.err, "anulowane zapytanie nie zgłasza błędu")
	assert.True(t, old.res.Stale)
	assert.Nil(t, old.res.Items)
	assert.Less(t, old.res.Generation, fast.Generation)
	assert.Equal(t, fast.Generation, l.Generation())
}

func TestLatest_ShortQueryInvalidatesInFlight(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := &fakeSearcher{started: make(chan string), release: make(chan struct{})}
	l := NewLatest(f)

	done := make(chan Result, 1)
	go func() {
		res, _ := l.Search(context.Background(), "slow", ModeTitle)
		done <- res
	}()
	<-f.started

	_, err := l.Search(context.Background(), "s", ModeTitle)
	require.NoError(t, err)

	assert.True(t, (<-done).Stale)
}

func TestLatest_ClientsDoNotCancelEachOther(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := &fakeSearcher{started: make(chan string), release: make(chan struct{})}
	l := NewLatest(f)

	done := make(chan Result, 1)
	go func() {
		res, _ := l.SearchFor(context.Background(), "sesja-1", "slow", ModeTitle)
		done <- res
	}()
	<-f.started

	other, err := l.SearchFor(context.Background(), "sesja-2", "fast", ModeTitle)
	require.NoError(t, err)
	assert.False(t, other.Stale)

	close(f.release)
	first := <-done
	assert.False(t, first.Stale)
	require.Len(t, first.Items, 1)
	assert.Equal(t, "slow", first.Items[0].ID)

	l.mu.Lock()
	assert.Empty(t, l.inflight)
	l.mu.Unlock()
}

func TestLatest_ErrorOfCurrentQueryIsReturned(t *testing.T) {
	boom := errors.New("boom")
	l := NewLatest(&fakeSearcher{err: boom})

	_, err := l.Search(context.Background(), "dune", ModeTitle)
	assert.ErrorIs(t, err, boom)
}
