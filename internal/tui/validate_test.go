// ABOUTME: Tests for setup-wizard feed validation against httptest servers.
// ABOUTME: Covers reachable, unreachable, and malformed feed endpoints.
package tui

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/menhera-org/potd-wallpaper/internal/feed"
)

func TestValidateFeedSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"date":"2024-03-01","url":"https://example.com/a.jpg"}`))
	}))
	defer server.Close()

	if err := ValidateFeed(context.Background(), server.URL); err != nil {
		t.Errorf("ValidateFeed() error: %v", err)
	}
}

func TestValidateFeedMalformed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>not a feed</html>`))
	}))
	defer server.Close()

	err := ValidateFeed(context.Background(), server.URL)
	if !errors.Is(err, feed.ErrMalformed) {
		t.Errorf("expected ErrMalformed, got %v", err)
	}
}

func TestValidateFeedUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	err := ValidateFeed(context.Background(), server.URL)
	if !errors.Is(err, feed.ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}
