package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	errs "github.com/pjjh/beeminder-mcpb/client/internal/errors"
)

func TestClient_AddsAuthTokenToEveryRequest(t *testing.T) {
	t.Parallel()
	var gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.URL.Query().Get("auth_token")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := New(srv.URL, "tok-123")
	if _, err := c.FetchGoals(context.Background()); err != nil {
		t.Fatalf("FetchGoals error: %v", err)
	}
	if gotToken != "tok-123" {
		t.Fatalf("auth_token = %q, want tok-123", gotToken)
	}
}

func TestClient_WithUsername(t *testing.T) {
	t.Parallel()
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "tok", WithUsername("alice"))
	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("Ping error: %v", err)
	}
	if gotPath != "/users/alice.json" {
		t.Fatalf("path = %q", gotPath)
	}
}

func TestClient_OptionValidation(t *testing.T) {
	t.Parallel()
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic for invalid option")
		}
	}()
	New("http://example.com", "tok", WithHTTPTimeout(-time.Second))
}

func TestIsIrrecoverable(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"wrapped not-found sentinel", fmt.Errorf("goal %q: %w", "x", ErrGoalNotFound), true},
		{"unauthorized sentinel", ErrUnauthorized, true},
		{"classified 404", errs.NewHTTPError(404, "", "get goal"), true},
		{"wrapped classified 422", fmt.Errorf("poll: %w", errs.NewHTTPError(422, "", "get goal")), true},
		{"classified 500", errs.NewHTTPError(500, "", "get goal"), false},
		{"classified 429", errs.NewHTTPError(429, "", "get goal"), false},
		{"network error", errs.NewNetworkError("get goal", errors.New("conn reset")), false},
		{"plain error", errors.New("boom"), false},
	}
	for _, tc := range cases {
		if got := IsIrrecoverable(tc.err); got != tc.want {
			t.Fatalf("%s: IsIrrecoverable = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestClient_PanicsOnMissingToken(t *testing.T) {
	t.Parallel()
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic for empty auth token")
		}
	}()
	New("http://example.com", "")
}
