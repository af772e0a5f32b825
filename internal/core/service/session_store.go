package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/quillpress/blog-client/internal/core/domain"
	"github.com/quillpress/blog-client/internal/core/ports"
)

// fallbackDisplayName is used when the login email has no usable local part.
const fallbackDisplayName = "Test User"

// LoginPrompt is the user-visible prompt returned by RequireUser.
type LoginPrompt struct {
	Action string
}

func (p *LoginPrompt) Error() string {
	return "Please log in to " + p.Action
}

// Unwrap lets callers match with errors.Is(err, domain.ErrLoginRequired).
func (p *LoginPrompt) Unwrap() error {
	return domain.ErrLoginRequired
}

// SessionStore holds the current user. Authentication is simulated: login and
// register always succeed and nothing is verified.
//
// Every change is written to durable storage before the in-memory state is
// switched, under one lock; when storage fails the state is left as it was.
type SessionStore struct {
	storage ports.KeyValueStore
	logger  zerolog.Logger

	mu   sync.RWMutex
	user *domain.User
}

func NewSessionStore(storage ports.KeyValueStore, logger zerolog.Logger) *SessionStore {
	return &SessionStore{storage: storage, logger: logger}
}

// Restore loads the persisted user, if any. A corrupt entry is deleted and the
// session starts anonymous.
func (s *SessionStore) Restore(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.storage.Get(ctx, ports.KeyUser)
	if errors.Is(err, ports.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}

	var u domain.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil || u.ID == "" {
		s.logger.Warn().Err(err).Msg("discarding corrupt stored user")
		if delErr := s.storage.Delete(ctx, ports.KeyUser); delErr != nil {
			return fmt.Errorf("restore session: %w", delErr)
		}
		return nil
	}

	s.user = &u
	s.logger.Debug().Str("user_id", u.ID.String()).Msg("session restored")
	return nil
}

// Login authenticates with creds. The user ID is derived from the normalized
// email so logging in twice yields the same user; the email itself is kept as
// submitted.
func (s *SessionStore) Login(ctx context.Context, creds domain.Credentials) (domain.User, error) {
	email := strings.TrimSpace(creds.Email)
	u := domain.User{
		ID:    UserID(email),
		Name:  displayName(email),
		Email: email,
	}
	if err := s.persist(ctx, u); err != nil {
		return domain.User{}, fmt.Errorf("login: %w", err)
	}
	s.logger.Info().Str("user_id", u.ID.String()).Msg("logged in")
	return u, nil
}

// Register creates the user described by p and logs it in.
func (s *SessionStore) Register(ctx context.Context, p domain.Profile) (domain.User, error) {
	email := strings.TrimSpace(p.Email)
	u := domain.User{
		ID:    UserID(email),
		Name:  strings.TrimSpace(p.Name),
		Email: email,
	}
	if err := s.persist(ctx, u); err != nil {
		return domain.User{}, fmt.Errorf("register: %w", err)
	}
	s.logger.Info().Str("user_id", u.ID.String()).Msg("registered")
	return u, nil
}

// Logout forgets the bearer token and then the user. The in-memory user is
// cleared as soon as the stored user is gone.
func (s *SessionStore) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Delete(ctx, ports.KeyToken); err != nil && !errors.Is(err, ports.ErrKeyNotFound) {
		return fmt.Errorf("logout: %w", err)
	}
	if err := s.storage.Delete(ctx, ports.KeyUser); err != nil && !errors.Is(err, ports.ErrKeyNotFound) {
		return fmt.Errorf("logout: %w", err)
	}
	s.user = nil
	s.logger.Info().Msg("logged out")
	return nil
}

// Current returns the logged-in user.
func (s *SessionStore) Current() (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return domain.User{}, false
	}
	return *s.user, true
}

// RequireUser returns the current user, or a *LoginPrompt for action (e.g.
// "like articles") when nobody is logged in.
func (s *SessionStore) RequireUser(action string) (domain.User, error) {
	u, ok := s.Current()
	if !ok {
		return domain.User{}, &LoginPrompt{Action: action}
	}
	return u, nil
}

// SetToken stores the bearer token attached to outgoing requests. An empty
// token clears it.
func (s *SessionStore) SetToken(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		if err := s.storage.Delete(ctx, ports.KeyToken); err != nil && !errors.Is(err, ports.ErrKeyNotFound) {
			return fmt.Errorf("clear token: %w", err)
		}
		return nil
	}
	if err := s.storage.Set(ctx, ports.KeyToken, token); err != nil {
		return fmt.Errorf("set token: %w", err)
	}
	return nil
}

// Token implements ports.TokenSource. A missing token is not an error.
func (s *SessionStore) Token(ctx context.Context) (string, error) {
	token, err := s.storage.Get(ctx, ports.KeyToken)
	if errors.Is(err, ports.ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	return token, nil
}

// TokenExpiry reports the exp claim of the stored token without verifying its
// signature. ok is false when there is no token, it is not a JWT, or it has no
// expiry.
func (s *SessionStore) TokenExpiry(ctx context.Context) (exp time.Time, ok bool, err error) {
	token, err := s.Token(ctx)
	if err != nil || token == "" {
		return time.Time{}, false, err
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false, nil
	}
	t, err := claims.GetExpirationTime()
	if err != nil || t == nil {
		return time.Time{}, false, nil
	}
	return t.Time, true, nil
}

func (s *SessionStore) persist(ctx context.Context, u domain.User) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	// The lock spans the write so storage and memory switch together.
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.storage.Set(ctx, ports.KeyUser, string(raw)); err != nil {
		return err
	}
	s.user = &u
	return nil
}

// UserID derives the stable identifier of the user with the given email.
func UserID(email string) domain.ID {
	return domain.ID(uuid.NewSHA1(uuid.NameSpaceURL, []byte("mailto:"+normalizeEmail(email))).String())
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func displayName(email string) string {
	local, _, _ := strings.Cut(email, "@")
	if local == "" {
		return fallbackDisplayName
	}
	return local
}
