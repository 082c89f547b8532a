package repositories

import (
	"context"
	"errors"
)

var ErrStateNotFound = errors.New("no persisted state")

// StateRepository stores the whole application state as one opaque blob.
type StateRepository interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}
