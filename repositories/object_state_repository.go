package repositories

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Dosada05/scoremaster/storage"
)

const DefaultObjectKey = "state/scoremaster.json"

type objectStateRepository struct {
	store storage.ObjectStore
	key   string
}

// NewObjectStateRepository keeps the state blob as a single object in a
// bucket (Cloudflare R2 in production).
func NewObjectStateRepository(store storage.ObjectStore, key string) StateRepository {
	if key == "" {
		key = DefaultObjectKey
	}
	return &objectStateRepository{store: store, key: key}
}

func (r *objectStateRepository) Load(ctx context.Context) ([]byte, error) {
	body, err := r.store.Get(ctx, r.key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, ErrStateNotFound
		}
		return nil, err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read state object %s: %w", r.key, err)
	}
	return data, nil
}

func (r *objectStateRepository) Save(ctx context.Context, data []byte) error {
	_, err := r.store.Put(ctx, r.key, "application/json", bytes.NewReader(data))
	return err
}
