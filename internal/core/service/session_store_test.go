package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/quillpress/blog-client/internal/core/domain"
	"github.com/quillpress/blog-client/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub storage
// ---------------------------------------------------------------------------

type stubStorage struct {
	mu        sync.Mutex
	values    map[string]string
	setErr    error            // if set, Set and Delete return this error
	deleteErr map[string]error // per-key Delete failures
	afterSet  func(key, value string)
}

func newStubStorage() *stubStorage {
	return &stubStorage{values: make(map[string]string)}
}

func (s *stubStorage) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	if !ok {
		return "", ports.ErrKeyNotFound
	}
	return v, nil
}

func (s *stubStorage) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	if s.setErr != nil {
		s.mu.Unlock()
		return s.setErr
	}
	s.values[key] = value
	hook := s.afterSet
	s.mu.Unlock()
	if hook != nil {
		hook(key, value)
	}
	return nil
}

func (s *stubStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setErr != nil {
		return s.setErr
	}
	if err := s.deleteErr[key]; err != nil {
		return err
	}
	delete(s.values, key)
	return nil
}

func (s *stubStorage) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.values[key]
	return ok
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestSessionStore_StartsAnonymous(t *testing.T) {
	s := NewSessionStore(newStubStorage(), zerolog.Nop())
	if err := s.Restore(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := s.Current(); ok {
		t.Fatal("expected anonymous session")
	}
}

func TestSessionStore_Login_RoundTrip(t *testing.T) {
	storage := newStubStorage()
	s := NewSessionStore(storage, zerolog.Nop())

	u, err := s.Login(context.Background(), domain.Credentials{Email: "Jane@Example.com", Password: "x"})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if u.Email != "Jane@Example.com" || u.Name != "Jane" || u.ID != UserID("jane@example.com") {
		t.Fatalf("unexpected user: %+v", u)
	}
	if cur, ok := s.Current(); !ok || cur != u {
		t.Fatalf("expected current user %+v, got %+v", u, cur)
	}

	// A fresh store over the same storage sees the same user.
	restored := NewSessionStore(storage, zerolog.Nop())
	if err := restored.Restore(context.Background()); err != nil {
		t.Fatalf("Restore returned error: %v", err)
	}
	if cur, ok := restored.Current(); !ok || cur != u {
		t.Fatalf("expected restored user %+v, got %+v", u, cur)
	}
}

func TestSessionStore_LoginTwiceSameID(t *testing.T) {
	s := NewSessionStore(newStubStorage(), zerolog.Nop())

	a, _ := s.Login(context.Background(), domain.Credentials{Email: "a@b.c"})
	b, _ := s.Login(context.Background(), domain.Credentials{Email: " A@B.C "})
	if a.ID != b.ID {
		t.Fatalf("expected stable ID, got %s and %s", a.ID, b.ID)
	}
	if UserID("a@b.c") != a.ID {
		t.Fatalf("expected UserID to match login ID")
	}
}

func TestSessionStore_Register_UsesProfileName(t *testing.T) {
	s := NewSessionStore(newStubStorage(), zerolog.Nop())

	u, err := s.Register(context.Background(), domain.Profile{Name: " Ada Lovelace ", Email: "ada@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if u.Name != "Ada Lovelace" || u.ID != UserID("ada@example.com") {
		t.Fatalf("unexpected user: %+v", u)
	}
}

func TestSessionStore_Logout_ClearsUserAndToken(t *testing.T) {
	storage := newStubStorage()
	s := NewSessionStore(storage, zerolog.Nop())
	ctx := context.Background()

	if _, err := s.Login(ctx, domain.Credentials{Email: "a@b.c"}); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if err := s.SetToken(ctx, "tok"); err != nil {
		t.Fatalf("SetToken returned error: %v", err)
	}

	if err := s.Logout(ctx); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if _, ok := s.Current(); ok {
		t.Fatal("expected anonymous after logout")
	}
	if storage.has(ports.KeyUser) || storage.has(ports.KeyToken) {
		t.Fatalf("expected user and token removed, got %+v", storage.values)
	}

	// Logging out again is harmless.
	if err := s.Logout(ctx); err != nil {
		t.Fatalf("second Logout returned error: %v", err)
	}
}

func TestSessionStore_StorageFailureKeepsState(t *testing.T) {
	storage := newStubStorage()
	s := NewSessionStore(storage, zerolog.Nop())
	ctx := context.Background()

	first, _ := s.Login(ctx, domain.Credentials{Email: "first@x.io"})
	storage.setErr = errors.New("disk full")

	if _, err := s.Login(ctx, domain.Credentials{Email: "second@x.io"}); !errors.Is(err, storage.setErr) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if cur, _ := s.Current(); cur != first {
		t.Fatalf("expected user unchanged, got %+v", cur)
	}

	if err := s.Logout(ctx); err == nil {
		t.Fatal("expected logout to fail")
	}
	if _, ok := s.Current(); !ok {
		t.Fatal("failed logout must keep the session")
	}
}

func TestSessionStore_Restore_CorruptEntryDeleted(t *testing.T) {
	for name, raw := range map[string]string{
		"not json": "{oops",
		"no id":    `{"name":"x"}`,
	} {
		t.Run(name, func(t *testing.T) {
			storage := newStubStorage()
			storage.values[ports.KeyUser] = raw
			s := NewSessionStore(storage, zerolog.Nop())

			if err := s.Restore(context.Background()); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if _, ok := s.Current(); ok {
				t.Fatal("expected anonymous session")
			}
			if storage.has(ports.KeyUser) {
				t.Fatal("expected corrupt entry removed")
			}
		})
	}
}

func TestSessionStore_RequireUser(t *testing.T) {
	s := NewSessionStore(newStubStorage(), zerolog.Nop())

	_, err := s.RequireUser("like articles")
	if !errors.Is(err, domain.ErrLoginRequired) {
		t.Fatalf("expected ErrLoginRequired, got %v", err)
	}
	var prompt *LoginPrompt
	if !errors.As(err, &prompt) || prompt.Error() != "Please log in to like articles" {
		t.Fatalf("unexpected prompt: %v", err)
	}

	want, _ := s.Login(context.Background(), domain.Credentials{Email: "a@b.c"})
	got, err := s.RequireUser("like articles")
	if err != nil || got != want {
		t.Fatalf("expected %+v, got %+v (%v)", want, got, err)
	}
}

func TestSessionStore_Token(t *testing.T) {
	storage := newStubStorage()
	s := NewSessionStore(storage, zerolog.Nop())
	ctx := context.Background()

	if tok, err := s.Token(ctx); err != nil || tok != "" {
		t.Fatalf("expected empty token, got %q (%v)", tok, err)
	}
	if err := s.SetToken(ctx, "  abc  "); err != nil {
		t.Fatalf("SetToken returned error: %v", err)
	}
	if tok, _ := s.Token(ctx); tok != "abc" {
		t.Fatalf("expected trimmed token, got %q", tok)
	}
	if err := s.SetToken(ctx, ""); err != nil {
		t.Fatalf("clearing token returned error: %v", err)
	}
	if storage.has(ports.KeyToken) {
		t.Fatal("expected token cleared")
	}
}

func TestSessionStore_TokenExpiry(t *testing.T) {
	ctx := context.Background()
	exp := time.Now().Add(time.Hour).Truncate(time.Second)

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"exp": exp.Unix(),
	}).SignedString([]byte("whatever"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	s := NewSessionStore(newStubStorage(), zerolog.Nop())
	if _, ok, err := s.TokenExpiry(ctx); ok || err != nil {
		t.Fatalf("expected no expiry without token, got ok=%v err=%v", ok, err)
	}

	_ = s.SetToken(ctx, signed)
	got, ok, err := s.TokenExpiry(ctx)
	if err != nil || !ok {
		t.Fatalf("expected expiry, got ok=%v err=%v", ok, err)
	}
	if !got.Equal(exp) {
		t.Fatalf("expected %v, got %v", exp, got)
	}

	_ = s.SetToken(ctx, "opaque-token")
	if _, ok, err := s.TokenExpiry(ctx); ok || err != nil {
		t.Fatalf("expected opaque token to have no expiry, got ok=%v err=%v", ok, err)
	}
}

func TestSessionStore_Logout_TokenDeleteFailureKeepsSession(t *testing.T) {
	storage := newStubStorage()
	s := NewSessionStore(storage, zerolog.Nop())
	ctx := context.Background()

	_, _ = s.Login(ctx, domain.Credentials{Email: "a@b.c"})
	_ = s.SetToken(ctx, "tok")
	storage.deleteErr = map[string]error{ports.KeyToken: errors.New("disk full")}

	if err := s.Logout(ctx); err == nil {
		t.Fatal("expected logout to fail")
	}
	if _, ok := s.Current(); !ok {
		t.Fatal("expected session kept in memory")
	}
	if !storage.has(ports.KeyUser) {
		t.Fatal("expected stored user kept to match memory")
	}
}

func TestSessionStore_Logout_UserDeleteFailureKeepsSession(t *testing.T) {
	storage := newStubStorage()
	s := NewSessionStore(storage, zerolog.Nop())
	ctx := context.Background()

	_, _ = s.Login(ctx, domain.Credentials{Email: "a@b.c"})
	storage.deleteErr = map[string]error{ports.KeyUser: errors.New("disk full")}

	if err := s.Logout(ctx); err == nil {
		t.Fatal("expected logout to fail")
	}
	if _, ok := s.Current(); !ok || !storage.has(ports.KeyUser) {
		t.Fatal("expected memory and storage to still hold the user")
	}
}

func TestSessionStore_ConcurrentLoginsAgree(t *testing.T) {
	storage := newStubStorage()
	s := NewSessionStore(storage, zerolog.Nop())
	ctx := context.Background()

	firstWritten := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	storage.afterSet = func(key, value string) {
		if key != ports.KeyUser || !strings.Contains(value, "first@x.io") {
			return
		}
		once.Do(func() {
			close(firstWritten)
			<-release
		})
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, _ = s.Login(ctx, domain.Credentials{Email: "first@x.io"})
	}()
	<-firstWritten
	go func() {
		defer wg.Done()
		_, _ = s.Login(ctx, domain.Credentials{Email: "second@x.io"})
	}()
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	cur, _ := s.Current()
	raw, _ := storage.Get(ctx, ports.KeyUser)
	if !strings.Contains(raw, cur.Email) {
		t.Fatalf("memory holds %q but storage holds %s", cur.Email, raw)
	}
}
