package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/quillpress/blog-client/internal/api/middleware"
	"github.com/quillpress/blog-client/internal/core/domain"
	"github.com/quillpress/blog-client/internal/core/ports"
)

type stubArticleService struct {
	listFn   func(ctx context.Context, f ports.ListArticlesFilter) ([]*domain.Article, error)
	createFn func(ctx context.Context, in ports.WriteArticleInput) (*domain.Article, error)
	getFn    func(ctx context.Context, id domain.ID) (*domain.Article, error)
}

func (s *stubArticleService) List(ctx context.Context, f ports.ListArticlesFilter) ([]*domain.Article, error) {
	return s.listFn(ctx, f)
}

func (s *stubArticleService) Get(ctx context.Context, id domain.ID) (*domain.Article, error) {
	return s.getFn(ctx, id)
}

func (s *stubArticleService) Create(ctx context.Context, in ports.WriteArticleInput) (*domain.Article, error) {
	return s.createFn(ctx, in)
}

func (s *stubArticleService) Update(context.Context, domain.ID, ports.WriteArticleInput) (*domain.Article, error) {
	return nil, errors.New("not implemented")
}

func (s *stubArticleService) Delete(context.Context, domain.ID) error {
	return errors.New("not implemented")
}

func (s *stubArticleService) ToggleLike(context.Context, domain.ID) (*domain.Article, error) {
	return nil, errors.New("not implemented")
}

func (s *stubArticleService) ToggleBookmark(context.Context, domain.ID) (*domain.Article, error) {
	return nil, errors.New("not implemented")
}

func (s *stubArticleService) Categories(context.Context) ([]domain.Category, error) {
	return nil, nil
}

func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestArticleHandler_List_PassesFilter(t *testing.T) {
	var got ports.ListArticlesFilter
	h := NewArticleHandler(&stubArticleService{
		listFn: func(_ context.Context, f ports.ListArticlesFilter) ([]*domain.Article, error) {
			got = f
			return nil, nil
		},
	})

	c, rec := newContext(http.MethodGet, "/articles?q=go+lang&categoryId=4", "")
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got.Query != "go lang" || got.CategoryID != "4" {
		t.Fatalf("unexpected filter: %+v", got)
	}
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("expected empty array, got %q", rec.Body.String())
	}
}

func TestArticleHandler_Create_TokenIdentityWins(t *testing.T) {
	var got ports.WriteArticleInput
	h := NewArticleHandler(&stubArticleService{
		createFn: func(_ context.Context, in ports.WriteArticleInput) (*domain.Article, error) {
			got = in
			return &domain.Article{ID: "n1", Title: in.Title, UserID: in.UserID, Author: in.Author}, nil
		},
	})

	c, rec := newContext(http.MethodPost, "/articles", `{"title":"T","content":"C","categoryId":"1","author":"Spoof","userId":"spoof"}`)
	c.Set(middleware.ContextUserID, "u1")
	c.Set(middleware.ContextName, "Ada")

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if got.UserID != "u1" || got.Author != "Ada" {
		t.Fatalf("expected identity from token, got %+v", got)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["id"] != "n1" || resp["userId"] != "u1" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestArticleHandler_Create_ValidationError(t *testing.T) {
	h := NewArticleHandler(&stubArticleService{
		createFn: func(context.Context, ports.WriteArticleInput) (*domain.Article, error) {
			t.Fatalf("service must not be called")
			return nil, nil
		},
	})

	c, _ := newContext(http.MethodPost, "/articles", `{"title":"","content":"C"}`)
	err := h.Create(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
	msg, _ := he.Message.(string)
	if !strings.Contains(msg, "title is required") || !strings.Contains(msg, "categoryId is required") {
		t.Fatalf("unexpected message: %q", msg)
	}
}

func TestArticleHandler_Get_ReturnsDomainError(t *testing.T) {
	h := NewArticleHandler(&stubArticleService{
		getFn: func(context.Context, domain.ID) (*domain.Article, error) {
			return nil, domain.ErrArticleNotFound
		},
	})

	c, _ := newContext(http.MethodGet, "/articles/x", "")
	c.SetParamNames("id")
	c.SetParamValues("x")

	if err := h.Get(c); !errors.Is(err, domain.ErrArticleNotFound) {
		t.Fatalf("expected ErrArticleNotFound, got %v", err)
	}
}

func TestArticleHandler_Owner(t *testing.T) {
	h := NewArticleHandler(&stubArticleService{
		getFn: func(_ context.Context, id domain.ID) (*domain.Article, error) {
			return &domain.Article{ID: id, UserID: "u7"}, nil
		},
	})

	owner, err := h.Owner(context.Background(), "1")
	if err != nil || owner != "u7" {
		t.Fatalf("expected owner u7, got %q (%v)", owner, err)
	}
}
