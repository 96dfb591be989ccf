package firebase

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"book-tracker/internal/models"
)

func TestDecodeBooks_LegacyRecords(t *testing.T) {
	raw := map[string]json.RawMessage{
		"-Nb": json.RawMessage(`{"id":"vol-2","title":"Beta","authors":"A, B","pages":"320","status":"Wish","read":"y"}`),
		"-Na": json.RawMessage(`{"volumeId":"vol-1","title":"Alfa","authors":["C"],"pages":100,"status":"ip","read":"ip","loaned":"y","stars":"4"}`),
		"-Nc": json.RawMessage(`null`),
		"-Nd": json.RawMessage(`"zepsuty"`),
	}

	books, skipped := decodeBooks(raw)

	require.Len(t, books, 2)
	assert.Equal(t, "-Na", books[0].ID, "kolejność według kluczy")
	assert.Equal(t, "-Nb", books[1].ID)

	assert.Equal(t, "vol-2", books[1].VolumeID, "stare pole id trafia do volumeId")
	assert.Equal(t, models.Authors{"A", "B"}, books[1].Authors)
	assert.Equal(t, models.Count(320), books[1].Pages)
	assert.Equal(t, models.StatusWish, books[1].Status)
	assert.Equal(t, models.LoanedNo, books[1].Loaned)

	assert.Equal(t, "vol-1", books[0].VolumeID)
	assert.Equal(t, models.Count(4), books[0].Stars)
	assert.True(t, books[0].IsLoaned())

	require.Len(t, skipped, 1)
	assert.Contains(t, skipped, "-Nd")
}

func TestDecodeBook_Null(t *testing.T) {
	_, err := decodeBook("x", json.RawMessage(" null "))
	assert.ErrorIs(t, err, models.ErrNotFound)
}

type fakeBackend struct {
	docs    map[string]map[string]json.RawMessage
	updates map[string]map[string]interface{}
	pushed  []interface{}
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		docs:    map[string]map[string]json.RawMessage{},
		updates: map[string]map[string]interface{}{},
	}
}

func (f *fakeBackend) getAll(_ context.Context, collection string) (map[string]json.RawMessage, error) {
	return f.docs[collection], nil
}

func (f *fakeBackend) get(_ context.Context, collection, id string) (json.RawMessage, error) {
	data, ok := f.docs[collection][id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return data, nil
}

func (f *fakeBackend) push(_ context.Context, collection string, v interface{}) (string, error) {
	f.pushed = append(f.pushed, v)
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	if f.docs[collection] == nil {
		f.docs[collection] = map[string]json.RawMessage{}
	}
	key := "-K" + string(rune('a'+len(f.docs[collection])))
	f.docs[collection][key] = data
	return key, nil
}

func (f *fakeBackend) update(_ context.Context, _ string, id string, fields map[string]interface{}) error {
	f.updates[id] = fields
	return nil
}

func (f *fakeBackend) remove(_ context.Context, collection, id string) error {
	delete(f.docs[collection], id)
	return nil
}

func TestStore_CreateAndPatch(t *testing.T) {
	be := newFakeBackend()
	s := &Store{backend: be, logger: zap.NewNop()}
	ctx := context.Background()

	book := &models.Book{ID: "ignored", Title: "Dune", Authors: models.Authors{"Frank Herbert"}}
	id, err := s.CreateBook(ctx, book)
	require.NoError(t, err)
	assert.Equal(t, "-Ka", id)
	assert.Equal(t, "ignored", book.ID, "oryginał nie jest modyfikowany")

	got, err := s.GetBook(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "Dune", got.Title)

	// Pusta łatka nie trafia do bazy
	require.NoError(t, s.PatchBook(ctx, id, models.Patch{}))
	assert.Empty(t, be.updates)

	status := models.StatusTBR
	require.NoError(t, s.PatchBook(ctx, id, models.Patch{Status: &status}))
	assert.Equal(t, map[string]interface{}{"status": "tbr"}, be.updates[id])

	require.NoError(t, s.DeleteBook(ctx, id))
	_, err = s.GetBook(ctx, id)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestStore_Upcoming(t *testing.T) {
	be := newFakeBackend()
	be.docs[UpcomingCollection] = map[string]json.RawMessage{
		"-U1": json.RawMessage(`{"title":"Wind","author":"Rothfuss","releaseDate":"2030-01-01T00:00:00Z"}`),
		"-U2": json.RawMessage(`[1,2]`),
	}
	s := &Store{backend: be, logger: zap.NewNop()}

	list, err := s.ListUpcoming(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "-U1", list[0].ID)
	assert.Equal(t, 2030, list[0].ReleaseDate.Year())
}

func TestSignInWithPassword(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/accounts:signInWithPassword", r.URL.Path)
		assert.Equal(t, "web-key", r.URL.Query().Get("key"))

		body, _ := io.ReadAll(r.Body)
		var req map[string]interface{}
		require.NoError(t, json.Unmarshal(body, &req))

		switch req["password"] {
		case "secret":
			w.Write([]byte(`{"localId":"uid-1","email":"ala@example.com","displayName":"Ala"}`))
		case "blocked":
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":{"message":"USER_DISABLED"}}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":{"message":"INVALID_LOGIN_CREDENTIALS"}}`))
		}
	}))
	defer srv.Close()

	c := &Client{webAPIKey: "web-key", identityURL: srv.URL, httpClient: srv.Client()}
	ctx := context.Background()

	user, err := c.SignInWithPassword(ctx, "ala@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, &models.User{UID: "uid-1", Email: "ala@example.com", DisplayName: "Ala"}, user)

	_, err = c.SignInWithPassword(ctx, "ala@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = c.SignInWithPassword(ctx, "ala@example.com", "blocked")
	assert.ErrorIs(t, err, ErrUserDisabled)

	c.webAPIKey = ""
	_, err = c.SignInWithPassword(ctx, "ala@example.com", "secret")
	assert.Error(t, err)
}
