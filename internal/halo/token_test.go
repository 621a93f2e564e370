package halo

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/tier3tech/hectic-ai-support/internal/config"
	apperrors "github.com/tier3tech/hectic-ai-support/pkg/util"
)

func tokenConfig(baseURL string) config.HaloConfig {
	return config.HaloConfig{
		BaseURL:                  baseURL,
		ClientID:                 "client-id",
		ClientSecret:             "client-secret",
		Scope:                    "all",
		TokenSafetyMarginSeconds: 60,
		RequestTimeoutSeconds:    5,
	}
}

func TestTokenSource_ReusesCachedToken(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if err := r.ParseForm(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := r.PostFormValue("grant_type"); got != "client_credentials" {
			t.Errorf("expected grant_type client_credentials, got %s", got)
		}
		if got := r.PostFormValue("scope"); got != "all" {
			t.Errorf("expected scope all, got %s", got)
		}
		fmt.Fprintf(w, `{"access_token":"tok-%d","expires_in":3600}`, calls)
	}))
	defer srv.Close()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ts := NewTokenSource(tokenConfig(srv.URL), zap.NewNop()).WithClock(func() time.Time { return now })

	first, err := ts.Token(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := ts.Token(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Errorf("expected cached token %s, got %s", first, second)
	}
	if calls != 1 {
		t.Errorf("expected exactly 1 token request, got %d", calls)
	}
}

func TestTokenSource_RefreshesAfterExpiry(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprintf(w, `{"access_token":"tok-%d","expires_in":3600}`, calls)
	}))
	defer srv.Close()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ts := NewTokenSource(tokenConfig(srv.URL), zap.NewNop()).WithClock(func() time.Time { return now })

	if _, err := ts.Token(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Just inside the safety margin: still cached.
	now = now.Add(3539 * time.Second)
	if _, err := ts.Token(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 token request before expiry, got %d", calls)
	}

	// Past expiry minus margin: exactly one refresh.
	now = now.Add(2 * time.Second)
	tok, err := ts.Token(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 token requests after expiry, got %d", calls)
	}
	if tok != "tok-2" {
		t.Errorf("expected refreshed token tok-2, got %s", tok)
	}
}

func TestTokenSource_DefaultsExpiresIn(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, `{"access_token":"tok"}`)
	}))
	defer srv.Close()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ts := NewTokenSource(tokenConfig(srv.URL), zap.NewNop()).WithClock(func() time.Time { return now })

	if _, err := ts.Token(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	now = now.Add(3539 * time.Second)
	if _, err := ts.Token(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected the default 3600s lifetime to keep the token cached, got %d requests", calls)
	}
}

func TestTokenSource_HonorsEarlierJWTExpiry(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// A token whose exp claim is far earlier than the advertised expires_in.
	claims := jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(10 * time.Minute))}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("vendor-secret"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprintf(w, `{"access_token":"%s","expires_in":3600}`, signed)
	}))
	defer srv.Close()

	ts := NewTokenSource(tokenConfig(srv.URL), zap.NewNop()).WithClock(func() time.Time { return now })

	if _, err := ts.Token(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 10min claim minus 60s margin: a call at +9m30s must refresh.
	now = now.Add(9*time.Minute + 30*time.Second)
	if _, err := ts.Token(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected refresh driven by the JWT exp claim, got %d requests", calls)
	}
}

func TestTokenSource_AuthErrorOnNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_client"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	ts := NewTokenSource(tokenConfig(srv.URL), zap.NewNop())

	_, err := ts.Token(context.Background())
	if err == nil {
		t.Fatal("expected error for rejected credentials")
	}
	if !apperrors.IsAuthError(err) {
		t.Errorf("expected auth error, got %v", err)
	}
}
