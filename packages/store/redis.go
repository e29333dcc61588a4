package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps all entries of a collection in a single hash named
// after the collection, so collections stay namespaced within a
// shared Redis database.
type RedisStore struct {
	client redis.UniversalClient
	hash   string
	owned  bool
}

// OpenRedis connects to a Redis server using a redis:// or rediss://
// URL and binds the store to the hash named after the collection.
func OpenRedis(ctx context.Context, rawURL, collection string) (*RedisStore, error) {
	collection, err := validateCollection(collection)
	if err != nil {
		return nil, err
	}

	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, connErr("connect", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, connErr("connect", err)
	}

	return &RedisStore{client: client, hash: collection, owned: true}, nil
}

// WrapRedis wraps an existing client. The caller keeps ownership; Close
// never closes it.
func WrapRedis(client redis.UniversalClient, collection string) (*RedisStore, error) {
	collection, err := validateCollection(collection)
	if err != nil {
		return nil, err
	}
	return &RedisStore{client: client, hash: collection}, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.HGet(ctx, s.hash, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("get %q: %w", key, ErrNotFound)
	}
	if err != nil {
		return "", connErr("get", err)
	}
	return value, nil
}

func (s *RedisStore) GetAll(ctx context.Context) (map[string]string, error) {
	result, err := s.client.HGetAll(ctx, s.hash).Result()
	if err != nil {
		return nil, connErr("get all", err)
	}
	return result, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	inserted, err := s.client.HSetNX(ctx, s.hash, key, value).Result()
	if err != nil {
		return connErr("set", err)
	}
	if !inserted {
		return fmt.Errorf("set %q: %w", key, ErrDuplicateKey)
	}
	return nil
}

func (s *RedisStore) Update(ctx context.Context, key, value string) error {
	exists, err := s.client.HExists(ctx, s.hash, key).Result()
	if err != nil {
		return connErr("update", err)
	}
	if !exists {
		return fmt.Errorf("update %q: %w", key, ErrNotFound)
	}
	if err := s.client.HSet(ctx, s.hash, key, value).Err(); err != nil {
		return connErr("update", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	removed, err := s.client.HDel(ctx, s.hash, key).Result()
	if err != nil {
		return connErr("delete", err)
	}
	if removed == 0 {
		return fmt.Errorf("delete %q: %w", key, ErrNotFound)
	}
	return nil
}

func (s *RedisStore) Close() error {
	if !s.owned {
		return nil
	}
	return s.client.Close()
}
