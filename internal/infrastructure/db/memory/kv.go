// Package memory holds process-local implementations of the storage ports.
// Nothing survives a restart.
package memory

import (
	"context"
	"sync"

	"github.com/quillpress/blog-client/internal/core/ports"
)

// KV is a ports.KeyValueStore kept in a map.
type KV struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewKV() *KV {
	return &KV{values: make(map[string]string)}
}

func (k *KV) Get(_ context.Context, key string) (string, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	v, ok := k.values[key]
	if !ok {
		return "", ports.ErrKeyNotFound
	}
	return v, nil
}

func (k *KV) Set(_ context.Context, key, value string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.values[key] = value
	return nil
}

func (k *KV) Delete(_ context.Context, key string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.values, key)
	return nil
}
