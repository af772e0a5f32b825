package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/quillpress/blog-client/internal/api/handler"
	"github.com/quillpress/blog-client/internal/core/domain"
	"github.com/quillpress/blog-client/internal/core/service"
	"github.com/quillpress/blog-client/internal/infrastructure/db/memory"
)

func newTestRouter(t *testing.T, secret string, checks map[string]handler.Check) http.Handler {
	t.Helper()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	seed := memory.SeedArticles(now)
	seed[0].UserID = "owner"

	svc := service.NewArticleService(
		memory.NewArticleRepository(seed...),
		memory.NewCategoryRepository(memory.SeedCategories()...),
		zerolog.Nop(),
	)
	return NewRouter(Dependencies{
		Articles:  svc,
		JWTSecret: secret,
		Checks:    checks,
		Logger:    zerolog.Nop(),
		Registry:  prometheus.NewRegistry(),
	})
}

func do(h http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return v
}

func token(t *testing.T, secret, sub, name string) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  sub,
		"name": name,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return signed
}

func TestRouter_ListAndFilter(t *testing.T) {
	h := newTestRouter(t, "", nil)

	all := decode[[]domain.Article](t, do(h, http.MethodGet, "/articles", "", ""))
	if len(all) != 3 {
		t.Fatalf("expected 3 seeded articles, got %d", len(all))
	}

	byCat := decode[[]domain.Article](t, do(h, http.MethodGet, "/articles?categoryId="+all[0].CategoryID.String(), "", ""))
	for _, a := range byCat {
		if a.CategoryID != all[0].CategoryID {
			t.Fatalf("unexpected category in filter result: %+v", a)
		}
	}

	none := do(h, http.MethodGet, "/articles?q=zzzz-no-match", "", "")
	if strings.TrimSpace(none.Body.String()) != "[]" {
		t.Fatalf("expected empty array, got %q", none.Body.String())
	}
}

func TestRouter_CreateGetUpdateDelete(t *testing.T) {
	h := newTestRouter(t, "", nil)

	rec := do(h, http.MethodPost, "/articles", `{"title":"Hello","content":"World","categoryId":1,"author":"Ada","userId":"u1"}`, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	created := decode[domain.Article](t, rec)
	if created.ID == "" || created.Category != "Technology" || created.Author != "Ada" || created.UserID != "u1" {
		t.Fatalf("unexpected created article: %+v", created)
	}

	got := do(h, http.MethodGet, "/articles/"+created.ID.String(), "", "")
	if got.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", got.Code)
	}

	upd := do(h, http.MethodPut, "/articles/"+created.ID.String(), `{"title":"Hello again","content":"World","categoryId":"2"}`, "")
	if upd.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", upd.Code, upd.Body.String())
	}
	if a := decode[domain.Article](t, upd); a.Title != "Hello again" || a.Category != "Travel" || a.Author != "Ada" {
		t.Fatalf("unexpected updated article: %+v", a)
	}

	if del := do(h, http.MethodDelete, "/articles/"+created.ID.String(), "", ""); del.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", del.Code)
	}
	missing := do(h, http.MethodGet, "/articles/"+created.ID.String(), "", "")
	if missing.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", missing.Code)
	}
	if body := decode[map[string]string](t, missing); body["message"] != "Article not found" {
		t.Fatalf("unexpected error body: %+v", body)
	}
}

func TestRouter_ValidationFailure(t *testing.T) {
	h := newTestRouter(t, "", nil)

	rec := do(h, http.MethodPost, "/articles", `{"content":"x","categoryId":"1","image":"not a url"}`, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	msg := decode[map[string]string](t, rec)["message"]
	if !strings.Contains(msg, "title is required") || !strings.Contains(msg, "image must be a valid URL") {
		t.Fatalf("unexpected message: %q", msg)
	}

	if bad := do(h, http.MethodPost, "/articles", `{not json`, ""); bad.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad json, got %d", bad.Code)
	}
}

func TestRouter_LikeAndBookmarkToggle(t *testing.T) {
	h := newTestRouter(t, "", nil)
	first := decode[[]domain.Article](t, do(h, http.MethodGet, "/articles", "", ""))[0]

	liked := decode[domain.Article](t, do(h, http.MethodPatch, "/articles/"+first.ID.String()+"/like", "", ""))
	if liked.IsLiked == first.IsLiked {
		t.Fatalf("expected isLiked to flip")
	}
	unliked := decode[domain.Article](t, do(h, http.MethodPatch, "/articles/"+first.ID.String()+"/like", "", ""))
	if unliked.Likes != first.Likes || unliked.IsLiked != first.IsLiked {
		t.Fatalf("expected double toggle to restore %d likes, got %+v", first.Likes, unliked)
	}

	marked := decode[domain.Article](t, do(h, http.MethodPatch, "/articles/"+first.ID.String()+"/bookmark", "", ""))
	if marked.IsBookmarked == first.IsBookmarked {
		t.Fatalf("expected isBookmarked to flip")
	}

	if rec := do(h, http.MethodPatch, "/articles/nope/like", "", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestRouter_Categories(t *testing.T) {
	h := newTestRouter(t, "", nil)

	cats := decode[[]domain.Category](t, do(h, http.MethodGet, "/categories", "", ""))
	if len(cats) != 4 {
		t.Fatalf("expected 4 categories, got %d", len(cats))
	}
}

func TestRouter_AuthRequiredForWrites(t *testing.T) {
	h := newTestRouter(t, "secret", nil)
	body := `{"title":"Hello","content":"World","categoryId":"1","author":"Spoof","userId":"spoof"}`

	if rec := do(h, http.MethodGet, "/articles", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("reads must stay public, got %d", rec.Code)
	}
	if rec := do(h, http.MethodPost, "/articles", body, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	rec := do(h, http.MethodPost, "/articles", body, token(t, "secret", "u9", "Grace"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if a := decode[domain.Article](t, rec); a.UserID != "u9" || a.Author != "Grace" {
		t.Fatalf("expected authorship from token, got %+v", a)
	}
}

func TestRouter_OwnerOnlyEdits(t *testing.T) {
	h := newTestRouter(t, "secret", nil)
	first := decode[[]domain.Article](t, do(h, http.MethodGet, "/articles", "", ""))[0]
	body := `{"title":"Taken over","content":"x","categoryId":"1"}`

	rec := do(h, http.MethodPut, "/articles/"+first.ID.String(), body, token(t, "secret", "intruder", ""))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if msg := decode[map[string]string](t, rec)["message"]; msg != "You are not authorized to edit this article" {
		t.Fatalf("unexpected message: %q", msg)
	}

	if rec := do(h, http.MethodPut, "/articles/"+first.ID.String(), body, token(t, "secret", "owner", "")); rec.Code != http.StatusOK {
		t.Fatalf("expected owner update to pass, got %d", rec.Code)
	}
	if rec := do(h, http.MethodDelete, "/articles/missing", "", token(t, "secret", "owner", "")); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing article, got %d", rec.Code)
	}
}

func TestRouter_Health(t *testing.T) {
	h := newTestRouter(t, "", map[string]handler.Check{
		"mongodb": func(context.Context) error { return nil },
		"redis":   func(context.Context) error { return errors.New("connection refused") },
	})

	if rec := do(h, http.MethodGet, "/health", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec := do(h, http.MethodGet, "/health/ready", "", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	var resp struct {
		Status       string                       `json:"status"`
		Dependencies map[string]map[string]string `json:"dependencies"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Status != "degraded" || resp.Dependencies["mongodb"]["status"] != "ok" || resp.Dependencies["redis"]["error"] != "connection refused" {
		t.Fatalf("unexpected readiness body: %+v", resp)
	}
}

func TestRouter_HealthReadyWithoutChecks(t *testing.T) {
	h := newTestRouter(t, "", nil)

	if rec := do(h, http.MethodGet, "/health/ready", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRouter_Metrics(t *testing.T) {
	h := newTestRouter(t, "", nil)
	_ = do(h, http.MethodGet, "/articles", "", "")

	rec := do(h, http.MethodGet, "/metrics", "", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "mockapi_requests_total") {
		t.Fatalf("expected request metrics, got %d", rec.Code)
	}
}
