package storage

import (
	"context"
	"errors"
	"io"
)

var ErrObjectNotFound = errors.New("object not found")

type PutResult struct {
	Key  string
	ETag string
}

// ObjectStore is a minimal bucket API used for state snapshots.
type ObjectStore interface {
	Put(ctx context.Context, key string, contentType string, reader io.Reader) (*PutResult, error)

	Get(ctx context.Context, key string) (io.ReadCloser, error)

	Delete(ctx context.Context, key string) error
}
