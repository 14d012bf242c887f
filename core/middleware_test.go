package core

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newOriginRouter(devOrigin string) *gin.Engine {
	cfg := testRouterConfig()
	cfg.DevOrigin = devOrigin
	svc := NewSessionService(newMemUserRepo(), NewTokenIssuer(cfg), nil)
	return NewRouter(cfg, svc)
}

func TestDevOriginMiddleware(t *testing.T) {
	r := newOriginRouter("http://localhost:5173")

	// Requests without an Origin header pass.
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("no origin header: got %d", w.Code)
	}

	// The configured dev origin is reflected with credentials allowed.
	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("dev origin: got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("allow-origin header: got %q", got)
	}
	if w.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Fatalf("credentials header missing")
	}

	// Foreign origins get no CORS headers; the browser enforces the denial.
	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("foreign origin: got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatalf("foreign origin must not receive allow-origin header")
	}

	// Preflight for the dev origin short-circuits with 204 and allow headers.
	req = httptest.NewRequest(http.MethodOptions, "/sign-in", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("preflight: got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Fatalf("dev preflight should carry allow-origin header")
	}

	// Preflight from anywhere else is answered without allow headers.
	req = httptest.NewRequest(http.MethodOptions, "/sign-in", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("foreign preflight: got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatalf("foreign preflight must not receive allow-origin header")
	}
}

// Browsers send an Origin header on every POST, including same-origin ones.
// With no dev origin configured those must still reach the handlers.
func TestSameOriginPostWithoutDevOrigin(t *testing.T) {
	r := newOriginRouter("")

	req := httptest.NewRequest(http.MethodPost, "http://api.example.com/sign-in", nil)
	req.Header.Set("Origin", "http://api.example.com")
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code == http.StatusForbidden {
		t.Fatalf("same-origin POST must not be rejected")
	}
	if w.Code != http.StatusBadRequest {
		t.Fatalf("request should reach the sign-in handler: got %d", w.Code)
	}

	// Host mismatch is not same-origin; it passes but gets no CORS headers.
	req = httptest.NewRequest(http.MethodGet, "http://api.example.com/healthz", nil)
	req.Header.Set("Origin", "http://other.example.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("cross-origin with no dev origin configured: got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatalf("unconfigured deployment must not emit allow-origin headers")
	}
}
