package ports

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by KeyValueStore.Get for a missing key.
var ErrKeyNotFound = errors.New("storage: key not found")

// Durable storage keys shared by the stores.
const (
	KeyToken = "token"
	KeyUser  = "user"
	KeyTheme = "theme"
)

// KeyValueStore is the durable local storage the session and theme stores
// write through to. Values are plain strings with no schema versioning.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
