package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quillpress/blog-client/internal/core/ports"
)

const (
	defaultPrefix      = "blog:"
	defaultDialTimeout = 5 * time.Second
)

// Config selects the Redis database that holds the client state.
type Config struct {
	Addr   string
	DB     int
	Prefix string
	// DialTimeout bounds the initial ping; zero means five seconds.
	DialTimeout time.Duration
}

// KV is a ports.KeyValueStore backed by Redis. Keys never expire.
// Key format: <prefix><key>, e.g. blog:token
type KV struct {
	client *redis.Client
	prefix string
}

// Open connects to cfg.Addr and checks the server answers before handing back
// the store. The caller owns the returned KV and must Close it.
func Open(ctx context.Context, cfg Config) (*KV, error) {
	timeout := cfg.DialTimeout
	if timeout <= 0 {
		timeout = defaultDialTimeout
	}
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		DB:          cfg.DB,
		DialTimeout: timeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("open redis storage at %s: %w", cfg.Addr, err)
	}
	return NewKV(client, cfg.Prefix), nil
}

// NewKV wraps client. An empty prefix selects "blog:".
func NewKV(client *redis.Client, prefix string) *KV {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &KV{client: client, prefix: prefix}
}

func (k *KV) Get(ctx context.Context, key string) (string, error) {
	v, err := k.client.Get(ctx, k.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ports.ErrKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, nil
}

func (k *KV) Set(ctx context.Context, key, value string) error {
	if err := k.client.Set(ctx, k.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (k *KV) Delete(ctx context.Context, key string) error {
	if err := k.client.Del(ctx, k.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

func (k *KV) Close() error {
	return k.client.Close()
}

func (k *KV) key(key string) string {
	return k.prefix + key
}
