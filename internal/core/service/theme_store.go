package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/quillpress/blog-client/internal/core/ports"
)

// legacyDarkValue is how older clients stored the dark theme.
const legacyDarkValue = "dark"

// ThemeStore holds the dark/light preference and writes every change through
// to durable storage.
type ThemeStore struct {
	storage ports.KeyValueStore
	logger  zerolog.Logger

	mu   sync.RWMutex
	dark bool
}

// NewThemeStore loads the stored preference. When nothing is stored the
// preference falls back to prefersDark.
func NewThemeStore(ctx context.Context, storage ports.KeyValueStore, prefersDark bool, logger zerolog.Logger) (*ThemeStore, error) {
	s := &ThemeStore{storage: storage, logger: logger, dark: prefersDark}

	raw, err := storage.Get(ctx, ports.KeyTheme)
	switch {
	case errors.Is(err, ports.ErrKeyNotFound):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("load theme: %w", err)
	}

	s.dark = parseTheme(raw)
	return s, nil
}

// IsDark reports whether the dark palette is active.
func (s *ThemeStore) IsDark() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dark
}

// Toggle flips the preference and returns the new value.
func (s *ThemeStore) Toggle(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.write(ctx, !s.dark); err != nil {
		return s.dark, err
	}
	return s.dark, nil
}

// Set stores dark as the preference.
func (s *ThemeStore) Set(ctx context.Context, dark bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(ctx, dark)
}

// write must be called with mu held.
func (s *ThemeStore) write(ctx context.Context, dark bool) error {
	if err := s.storage.Set(ctx, ports.KeyTheme, strconv.FormatBool(dark)); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	s.dark = dark
	s.logger.Debug().Bool("dark", dark).Msg("theme changed")
	return nil
}

// parseTheme reads a stored value: a JSON boolean, or the legacy "dark" /
// "light" strings.
func parseTheme(raw string) bool {
	var dark bool
	if err := json.Unmarshal([]byte(raw), &dark); err == nil {
		return dark
	}
	return raw == legacyDarkValue
}
