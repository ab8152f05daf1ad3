package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func corsTestHandler(t *testing.T, policy CORSPolicy) http.Handler {
	t.Helper()
	return corsMiddleware(policy, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestCORSReflectsAllowedOrigin(t *testing.T) {
	h := corsTestHandler(t, CORSPolicy{AllowedOrigins: []string{"https://app.example.com"}})

	req := httptest.NewRequest(http.MethodPost, "/routes", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Fatalf("Access-Control-Allow-Origin = %q, want the origin reflected", got)
	}
}

func TestCORSDeniesUnknownOrigin(t *testing.T) {
	h := corsTestHandler(t, CORSPolicy{AllowedOrigins: []string{"https://app.example.com"}})

	req := httptest.NewRequest(http.MethodPost, "/routes", nil)
	req.Header.Set("Origin", "https://evil.example.net")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("unknown origin must get no CORS header, got %q", got)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("request itself still proceeds, got status %d", rec.Code)
	}
}

func TestCORSAllowsPreviewSuffix(t *testing.T) {
	h := corsTestHandler(t, CORSPolicy{PreviewSuffix: ".locator-preview.app"})

	req := httptest.NewRequest(http.MethodPost, "/routes", nil)
	req.Header.Set("Origin", "https://pr-42.locator-preview.app")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://pr-42.locator-preview.app" {
		t.Fatalf("preview origin not reflected, got %q", got)
	}
}

func TestCORSPreflightShortCircuits(t *testing.T) {
	h := corsTestHandler(t, CORSPolicy{AllowedOrigins: []string{"https://app.example.com"}})

	req := httptest.NewRequest(http.MethodOptions, "/routes", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d, want 204", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Methods") == "" {
		t.Fatal("preflight must advertise allowed methods")
	}
}
