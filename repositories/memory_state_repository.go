package repositories

import (
	"context"
	"sync"
)

// MemoryStateRepository keeps the blob in process memory.
type MemoryStateRepository struct {
	mu    sync.Mutex
	data  []byte
	saves int
	err   error
}

func NewMemoryStateRepository(initial []byte) *MemoryStateRepository {
	return &MemoryStateRepository{data: initial}
}

func (r *MemoryStateRepository) Load(ctx context.Context) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.data == nil {
		return nil, ErrStateNotFound
	}
	return append([]byte(nil), r.data...), nil
}

func (r *MemoryStateRepository) Save(ctx context.Context, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.data = append([]byte(nil), data...)
	r.saves++
	return nil
}

// FailWith makes subsequent saves fail with err; nil restores them.
func (r *MemoryStateRepository) FailWith(err error) {
	r.mu.Lock()
	r.err = err
	r.mu.Unlock()
}

// Saves reports how many saves succeeded.
func (r *MemoryStateRepository) Saves() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}
