package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestIdentityRejectsMissingHeader(t *testing.T) {
	handler := Identity(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without identity")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestIdentityPropagatesOwner(t *testing.T) {
	var seen string
	handler := Identity(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetOwnerID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-User-ID", "owner-42")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if seen != "owner-42" {
		t.Fatalf("expected owner-42 in context, got %q", seen)
	}
}
