package main

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"book-tracker/internal/catalog"
	"book-tracker/internal/library"
	"book-tracker/internal/models"
)

func TestLoadSeed_SampleFile(t *testing.T) {
	f, err := os.Open("seed.yml")
	require.NoError(t, err)
	defer f.Close()

	s, err := loadSeed(f)
	require.NoError(t, err)

	require.Len(t, s.Books, 4)
	assert.True(t, s.Books[3].Author)
	require.Len(t, s.Upcoming, 2)
	assert.Equal(t, 2027, s.Upcoming[0].ReleaseDate.Year())
	assert.Equal(t, "Kingkiller Chronicle", s.Upcoming[0].Series)
}

func TestLoadSeed_UnknownField(t *testing.T) {
	_, err := loadSeed(strings.NewReader("books:\n  - qeury: x\n"))
	assert.Error(t, err)
}

type seedStore struct {
	books    []*models.Book
	upcoming []*models.UpcomingBook
}

func (s *seedStore) ListBooks(context.Context) ([]*models.Book, error) { return s.books, nil }

func (s *seedStore) CreateBook(_ context.Context, b *models.Book) (string, error) {
	s.books = append(s.books, b)
	return "id-" + b.VolumeID, nil
}

func (s *seedStore) PatchBook(context.Context, string, models.Patch) error { return nil }

func (s *seedStore) DeleteBook(context.Context, string) error { return nil }

func (s *seedStore) ListUpcoming(context.Context) ([]*models.UpcomingBook, error) {
	return s.upcoming, nil
}

func (s *seedStore) CreateUpcoming(_ context.Context, u *models.UpcomingBook) (string, error) {
	s.upcoming = append(s.upcoming, u)
	return "u-" + u.Title, nil
}

type titleSearcher struct{}

func (titleSearcher) Search(_ context.Context, term string, _ catalog.Mode) ([]models.CatalogItem, error) {
	if term == "nothing" {
		return nil, nil
	}
	return []models.CatalogItem{{ID: "vol-" + term, Title: term, Authors: []string{"A"}}}, nil
}

func TestSeed_SkipsExisting(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store := &seedStore{books: []*models.Book{{ID: "x", VolumeID: "vol-dune", Title: "dune"}}}
	lib := library.New(store, titleSearcher{}, zap.NewNop(), library.WithClock(func() time.Time { return now }))
	require.NoError(t, lib.Refresh(context.Background()))

	s := &seedFile{
		Books: []seedBook{
			{Query: "dune", Genre: "SF", Format: "Paperback"},
			{Query: "hyperion", Genre: "SF", Format: "Paperback", Status: "wish"},
			{Query: "nothing", Genre: "SF", Format: "Paperback"},
		},
		Upcoming: []models.UpcomingBook{{Title: "Soon", ReleaseDate: now.AddDate(0, 1, 0)}},
	}

	added, err := seed(context.Background(), lib, s, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	require.Len(t, store.books, 2)
	assert.Equal(t, models.StatusWish, store.books[1].Status)

	// Drugie uruchomienie niczego nie dodaje
	added, err = seed(context.Background(), lib, s, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 0, added)
}
