// ABOUTME: Client for the picture-of-the-day feed endpoint.
// ABOUTME: Fetches and defensively parses today's entry with retry on transient failures.
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/menhera-org/potd-wallpaper/internal/retry"
)

var (
	// ErrUnavailable means the feed request could not complete, including
	// after retries on transient failures.
	ErrUnavailable = errors.New("feed unavailable")
	// ErrMalformed means the response could not be parsed into an entry.
	ErrMalformed = errors.New("feed entry malformed")
)

// DayFormat is the calendar-day layout used throughout the pipeline.
const DayFormat = "2006-01-02"

// maxPayloadSize bounds how much of the feed response is read.
const maxPayloadSize = 1 << 20

// Entry is one day's featured image as published by the feed.
type Entry struct {
	Date     time.Time
	ImageURL string
	Title    string
}

// Day returns the entry's calendar day as a string key.
func (e Entry) Day() string {
	return e.Date.Format(DayFormat)
}

// Client fetches entries from a single configured feed URL.
type Client struct {
	feedURL string
	client  *http.Client
	policy  retry.Policy
}

// NewClient creates a feed client with the given request timeout and retry policy.
func NewClient(feedURL string, timeout time.Duration, policy retry.Policy) *Client {
	return &Client{
		feedURL: feedURL,
		client:  &http.Client{Timeout: timeout},
		policy:  policy,
	}
}

// payload is the feed's wire schema. Unknown fields are ignored; hdurl is
// preferred over url when both are present.
type payload struct {
	Date  string `json:"date"`
	Title string `json:"title"`
	URL   string `json:"url"`
	HDURL string `json:"hdurl"`
}

// FetchToday retrieves and parses the current entry. Transient network
// failures and 5xx responses are retried per the client's policy; 4xx
// responses and malformed payloads fail immediately.
func (c *Client) FetchToday(ctx context.Context) (Entry, error) {
	var entry Entry
	err := c.policy.Do(ctx, func() error {
		e, err := c.fetchOnce(ctx)
		if err != nil {
			return err
		}
		entry = e
		return nil
	})
	if err != nil {
		return Entry{}, err
	}
	return entry, nil
}

func (c *Client) fetchOnce(ctx context.Context) (Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.feedURL, nil)
	if err != nil {
		return Entry{}, retry.Permanent(fmt.Errorf("%w: %v", ErrUnavailable, err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode >= 500:
		return Entry{}, fmt.Errorf("%w: feed returned %d", ErrUnavailable, resp.StatusCode)
	case resp.StatusCode >= 400:
		return Entry{}, retry.Permanent(fmt.Errorf("%w: feed returned %d", ErrUnavailable, resp.StatusCode))
	}

	var p payload
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxPayloadSize)).Decode(&p); err != nil {
		return Entry{}, retry.Permanent(fmt.Errorf("%w: %v", ErrMalformed, err))
	}

	entry, err := parseEntry(p)
	if err != nil {
		return Entry{}, retry.Permanent(err)
	}
	return entry, nil
}

func parseEntry(p payload) (Entry, error) {
	imageURL := p.HDURL
	if imageURL == "" {
		imageURL = p.URL
	}
	if imageURL == "" {
		return Entry{}, fmt.Errorf("%w: missing image url", ErrMalformed)
	}
	parsed, err := url.Parse(imageURL)
	if err != nil || !parsed.IsAbs() || parsed.Host == "" {
		return Entry{}, fmt.Errorf("%w: image url %q is not absolute", ErrMalformed, imageURL)
	}

	date, err := parseDate(p.Date)
	if err != nil {
		return Entry{}, err
	}

	return Entry{Date: date, ImageURL: imageURL, Title: p.Title}, nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: missing date", ErrMalformed)
	}
	if d, err := time.Parse(DayFormat, s); err == nil {
		return d, nil
	}
	// Some feeds publish a full timestamp; keep only the calendar day, in
	// the timestamp's own location so the published date survives offsets.
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, ts.Location()), nil
	}
	return time.Time{}, fmt.Errorf("%w: unparsable date %q", ErrMalformed, s)
}
