package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"spacecms/internal/handlers"
	"spacecms/internal/session"
)

// testRouter builds a route tree with just enough wiring for routes that
// never reach a store. Handlers needing a database are exercised in their
// own packages.
func testRouter() http.Handler {
	return New(Deps{
		Sessions:   session.NewStore(nil, false),
		Auth:       handlers.NewAuth(nil, nil),
		UserAdmin:  handlers.NewUsers(nil),
		Content:    handlers.NewContent(nil, nil),
		Media:      handlers.NewMedia(nil, nil, nil),
		Settings:   handlers.NewSettings(nil, nil),
		Public:     handlers.NewPublic(nil, nil, nil),
		Ops:        handlers.NewOps(nil, nil, nil, nil, nil, nil),
		SEO:        handlers.NewSEO(nil, nil, "http://localhost"),
		MediaTools: handlers.NewMediaTools(nil, nil, nil),
	})
}

func TestHealthRoute(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"success":true`) {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestStaticAssetsServed(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/css/site.css", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestAdminRoutesRequireAuth(t *testing.T) {
	paths := []string{
		"/api/admin/me",
		"/api/admin/content",
		"/api/admin/media",
		"/api/admin/settings",
		"/api/admin/users",
		"/api/admin/ops",
		"/api/admin/seo",
		"/api/admin/media-tools",
	}
	r := testRouter()
	for _, path := range paths {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("GET %s = %d, want 401", path, rec.Code)
		}
	}
}

func TestLoginRejectsMalformedBody(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader("not json"))
	testRouter().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestUnknownRoute(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/unknown", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
