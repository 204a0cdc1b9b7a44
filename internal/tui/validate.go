// ABOUTME: Feed validation for the setup wizard.
// ABOUTME: Tests a candidate feed URL by fetching and parsing today's entry once.
package tui

import (
	"context"
	"time"

	"github.com/menhera-org/potd-wallpaper/internal/feed"
	"github.com/menhera-org/potd-wallpaper/internal/retry"
)

// ValidateFeed checks that the feed URL serves a parsable entry. A single
// attempt is made; the wizard offers its own retry.
func ValidateFeed(ctx context.Context, feedURL string) error {
	client := feed.NewClient(feedURL, 10*time.Second, retry.Policy{MaxAttempts: 1})
	_, err := client.FetchToday(ctx)
	return err
}
