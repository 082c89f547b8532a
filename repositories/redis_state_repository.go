package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const DefaultRedisKey = "scoremaster:state"

type redisStateRepository struct {
	client *redis.Client
	key    string
}

func NewRedisStateRepository(client *redis.Client, key string) StateRepository {
	if key == "" {
		key = DefaultRedisKey
	}
	return &redisStateRepository{client: client, key: key}
}

func (r *redisStateRepository) Load(ctx context.Context) ([]byte, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrStateNotFound
		}
		return nil, fmt.Errorf("redis get %s: %w", r.key, err)
	}
	return data, nil
}

func (r *redisStateRepository) Save(ctx context.Context, data []byte) error {
	// No expiry: the blob is the only copy of the state.
	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", r.key, err)
	}
	return nil
}
