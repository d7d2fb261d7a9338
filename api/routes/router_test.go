package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aventra-health/benefits-store-backend/pkg/config"
)

type allowAllSessions struct{}

func (allowAllSessions) HasSession(context.Context, string) (bool, error) { return true, nil }

func newTestRouter() http.Handler {
	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.JWT.Secret = "router-test-secret"
	cfg.JWT.Issuer = "router-test"
	cfg.JWT.ExpirationMinutes = 60

	return NewRouter(Deps{
		Config:   cfg,
		Sessions: allowAllSessions{},
	})
}

func TestHealthLiveIsPublic(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if env := resp.Header().Get("X-Benstore-Env"); env != "test" {
		t.Fatalf("expected env header test, got %q", env)
	}
}

func TestCustomerRoutesRequireAuth(t *testing.T) {
	router := newTestRouter()

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/cart"},
		{http.MethodPost, "/api/checkout"},
		{http.MethodGet, "/api/orders"},
		{http.MethodGet, "/api/auth/customer/me"},
	}
	for _, p := range paths {
		req := httptest.NewRequest(p.method, p.path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: expected 401 got %d", p.method, p.path, resp.Code)
		}
	}
}

func TestAdminRoutesRequireAuth(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/admin/products", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestMetricsRouteAbsentWithoutGatherer(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
