package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "imgvault:blob:"

// RedisStore keeps each object in a single Redis string value. Payloads are
// image-sized (tens of MB at most), so whole-value reads behind a streaming
// facade are acceptable; the Store interface stays streamed so a chunked
// backend can replace this one without touching callers.
type RedisStore struct {
	client *redis.Client
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore dials Redis at the given URL (redis://host:port/db).
func NewRedisStore(url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return &RedisStore{client: redis.NewClient(opts)}, nil
}

func redisKey(id string) string { return redisKeyPrefix + id }

func (s *RedisStore) Put(ctx context.Context, id string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read payload: %w", err)
	}
	// No TTL: results live until cleaned up out of band.
	if err := s.client.Set(ctx, redisKey(id), data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", id, err)
	}
	return nil
}

func (s *RedisStore) Open(ctx context.Context, id string) (io.ReadCloser, error) {
	data, err := s.client.Get(ctx, redisKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotExist
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", id, err)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *RedisStore) Exists(ctx context.Context, id string) (bool, error) {
	n, err := s.client.Exists(ctx, redisKey(id)).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists %s: %w", id, err)
	}
	return n > 0, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
