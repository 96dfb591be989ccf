package firebase

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"book-tracker/internal/models"
)

// firestoreBackend zapisuje dokumenty w Firestore; dane są czytane przez JSON,
// żeby stare rekordy przechodziły przez te same tolerancyjne dekodery co w RTDB
type firestoreBackend struct {
	fs *firestore.Client
}

func (f *firestoreBackend) getAll(ctx context.Context, collection string) (map[string]json.RawMessage, error) {
	iter := f.fs.Collection(collection).Documents(ctx)
	defer iter.Stop()

	raw := make(map[string]json.RawMessage)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("błąd iteracji: %w", err)
		}

		data, err := json.Marshal(doc.Data())
		if err != nil {
			return nil, fmt.Errorf("błąd konwersji dokumentu %s: %w", doc.Ref.ID, err)
		}
		raw[doc.Ref.ID] = data
	}
	return raw, nil
}

func (f *firestoreBackend) get(ctx context.Context, collection, id string) (json.RawMessage, error) {
	doc, err := f.fs.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		return nil, notFound(err)
	}
	return json.Marshal(doc.Data())
}

func (f *firestoreBackend) push(ctx context.Context, collection string, v interface{}) (string, error) {
	// Firestore wygeneruje ID automatycznie
	docRef := f.fs.Collection(collection).NewDoc()
	if _, err := docRef.Set(ctx, v); err != nil {
		return "", err
	}
	return docRef.ID, nil
}

// update nadpisuje tylko podane pola; brak dokumentu kończy się ErrNotFound
func (f *firestoreBackend) update(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	updates := make([]firestore.Update, 0, len(fields))
	for path, value := range fields {
		updates = append(updates, firestore.Update{Path: path, Value: value})
	}

	_, err := f.fs.Collection(collection).Doc(id).Update(ctx, updates)
	return notFound(err)
}

func (f *firestoreBackend) remove(ctx context.Context, collection, id string) error {
	_, err := f.fs.Collection(collection).Doc(id).Delete(ctx)
	return err
}

func notFound(err error) error {
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("%w: %v", models.ErrNotFound, err)
	}
	return err
}
