package firebase

import (
	"context"
	"encoding/json"

	"firebase.google.com/go/v4/db"

	"book-tracker/internal/models"
)

// realtimeBackend zapisuje dokumenty w Realtime Database pod /<kolekcja>/<klucz>
type realtimeBackend struct {
	db *db.Client
}

func (r *realtimeBackend) getAll(ctx context.Context, collection string) (map[string]json.RawMessage, error) {
	var raw map[string]json.RawMessage
	if err := r.db.NewRef(collection).Get(ctx, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (r *realtimeBackend) get(ctx context.Context, collection, id string) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := r.db.NewRef(collection).Child(id).Get(ctx, &raw); err != nil {
		return nil, err
	}
	if isNull(raw) {
		return nil, models.ErrNotFound
	}
	return raw, nil
}

func (r *realtimeBackend) push(ctx context.Context, collection string, v interface{}) (string, error) {
	ref, err := r.db.NewRef(collection).Push(ctx, v)
	if err != nil {
		return "", err
	}
	return ref.Key, nil
}

// update robi płytkie scalenie (PATCH) pól najwyższego poziomu
func (r *realtimeBackend) update(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	return r.db.NewRef(collection).Child(id).Update(ctx, fields)
}

func (r *realtimeBackend) remove(ctx context.Context, collection, id string) error {
	return r.db.NewRef(collection).Child(id).Delete(ctx)
}
