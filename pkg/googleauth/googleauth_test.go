package googleauth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testVerifier(t *testing.T, handler http.HandlerFunc) *TokenInfoVerifier {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	v := NewTokenInfoVerifier("client-123")
	v.Endpoint = srv.URL
	return v
}

func TestVerifyValidToken(t *testing.T) {
	v := testVerifier(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("id_token"); got != "good" {
			t.Fatalf("unexpected id_token: %q", got)
		}
		json.NewEncoder(w).Encode(map[string]string{
			"sub":            "sub-1",
			"aud":            "client-123",
			"email":          "amy@example.com",
			"email_verified": "true",
			"name":           "Amy",
			"picture":        "https://example.com/amy.png",
		})
	})

	profile, err := v.Verify(context.Background(), "good")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if profile.Subject != "sub-1" || profile.Email != "amy@example.com" {
		t.Fatalf("unexpected profile: %+v", profile)
	}
}

func TestVerifyRejectsWrongAudience(t *testing.T) {
	v := testVerifier(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"sub":            "sub-1",
			"aud":            "someone-else",
			"email":          "amy@example.com",
			"email_verified": "true",
		})
	})

	if _, err := v.Verify(context.Background(), "tok"); !errors.Is(err, ErrInvalidIDToken) {
		t.Fatalf("expected ErrInvalidIDToken, got %v", err)
	}
}

func TestVerifyRejectsUnverifiedEmail(t *testing.T) {
	v := testVerifier(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"sub":            "sub-1",
			"aud":            "client-123",
			"email":          "amy@example.com",
			"email_verified": "false",
		})
	})

	if _, err := v.Verify(context.Background(), "tok"); !errors.Is(err, ErrInvalidIDToken) {
		t.Fatalf("expected ErrInvalidIDToken, got %v", err)
	}
}

func TestVerifyRejectsGoogleError(t *testing.T) {
	v := testVerifier(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	if _, err := v.Verify(context.Background(), "expired"); !errors.Is(err, ErrInvalidIDToken) {
		t.Fatalf("expected ErrInvalidIDToken, got %v", err)
	}
}

func TestVerifyRejectsEmptyToken(t *testing.T) {
	v := NewTokenInfoVerifier("client-123")
	if _, err := v.Verify(context.Background(), ""); !errors.Is(err, ErrInvalidIDToken) {
		t.Fatalf("expected ErrInvalidIDToken, got %v", err)
	}
}
