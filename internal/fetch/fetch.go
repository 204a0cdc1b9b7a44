// ABOUTME: Image downloader with retry, bounded size, and content identification.
// ABOUTME: Streams response bodies so oversized payloads never fill memory.
package fetch

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/menhera-org/potd-wallpaper/internal/retry"
)

var (
	// ErrUnavailable means the image could not be downloaded, including
	// after retries on transient failures.
	ErrUnavailable = errors.New("image unavailable")
	// ErrTooLarge means the response exceeded the configured size cap.
	ErrTooLarge = errors.New("image too large")
)

// DefaultMaxSize is the download cap applied when none is configured.
const DefaultMaxSize = 32 << 20

// Fetcher downloads image bytes for resolved URLs.
type Fetcher struct {
	client  *http.Client
	policy  retry.Policy
	maxSize int64
}

// New creates a fetcher with the given request timeout, retry policy, and
// size cap in bytes.
func New(timeout time.Duration, policy retry.Policy, maxSize int64) *Fetcher {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &Fetcher{
		client:  &http.Client{Timeout: timeout},
		policy:  policy,
		maxSize: maxSize,
	}
}

// Fetch downloads the image at url. Transient network failures and 5xx
// responses are retried; 4xx responses and oversized payloads fail
// immediately.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	var data []byte
	err := f.policy.Do(ctx, func() error {
		d, err := f.fetchOnce(ctx, url)
		if err != nil {
			return err
		}
		data = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (f *Fetcher) fetchOnce(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, retry.Permanent(fmt.Errorf("%w: %v", ErrUnavailable, err))
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: server returned %d", ErrUnavailable, resp.StatusCode)
	case resp.StatusCode >= 400:
		return nil, retry.Permanent(fmt.Errorf("%w: server returned %d", ErrUnavailable, resp.StatusCode))
	}

	if resp.ContentLength > f.maxSize {
		return nil, retry.Permanent(fmt.Errorf("%w: %d bytes announced, cap is %d", ErrTooLarge, resp.ContentLength, f.maxSize))
	}

	// Read one byte past the cap so truncation is distinguishable from an
	// exactly-cap-sized image.
	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if int64(len(data)) > f.maxSize {
		return nil, retry.Permanent(fmt.Errorf("%w: body exceeds cap of %d bytes", ErrTooLarge, f.maxSize))
	}
	return data, nil
}

// ContentID returns a stable identifier for image bytes.
func ContentID(data []byte) string {
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%x", sum[:16])
}
