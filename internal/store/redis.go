package store

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// Redis is a Store backed by a redis server. Each collection key maps
// to a redis string key under a fixed prefix; SET gives the atomic
// value replacement the contract requires. Useful when several
// service instances should share one state, accepting last-write-wins
// between them.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis wraps an already-connected client. The prefix namespaces
// the collection keys so the store can share a database with the rate
// limiter.
func NewRedis(client *redis.Client, prefix string) *Redis {
	if prefix == "" {
		prefix = "ecofinds"
	}
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) key(key string) string { return r.prefix + ":" + key }

func (r *Redis) Read(ctx context.Context, key string) ([]byte, error) {
	b, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *Redis) Write(ctx context.Context, key string, value []byte) error {
	return r.client.Set(ctx, r.key(key), value, 0).Err()
}

func (r *Redis) Remove(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.key(key)).Err()
}
