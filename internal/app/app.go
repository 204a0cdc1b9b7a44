// ABOUTME: Orchestrator for the fetch→decide→apply wallpaper pipeline.
// ABOUTME: One terminal pass per invocation; persisted state only advances with a successful apply.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/menhera-org/potd-wallpaper/internal/cache"
	"github.com/menhera-org/potd-wallpaper/internal/config"
	"github.com/menhera-org/potd-wallpaper/internal/desktop"
	"github.com/menhera-org/potd-wallpaper/internal/feed"
	"github.com/menhera-org/potd-wallpaper/internal/fetch"
	"github.com/menhera-org/potd-wallpaper/internal/retry"
)

// FeedClient retrieves today's feed entry.
type FeedClient interface {
	FetchToday(ctx context.Context) (feed.Entry, error)
}

// ImageFetcher downloads image bytes for a resolved URL.
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// RecordStore persists pipeline state between runs.
type RecordStore interface {
	Load() (*cache.Record, error)
	Save(rec cache.Record) error
	WriteImage(data []byte) (string, error)
	TryLock() (func(), error)
}

// App sequences the pipeline over its collaborators.
type App struct {
	feed   FeedClient
	images ImageFetcher
	store  RecordStore
	setter desktop.Setter
	log    *log.Logger
	now    func() time.Time
}

// New resolves the desktop target and wires the pipeline from config. The
// target is resolved first: on an unsupported environment it fails before
// any network or cache access happens.
func New(cfg *config.Config, logger *log.Logger) (*App, error) {
	setter, err := desktop.Detect()
	if err != nil {
		return nil, err
	}

	dir, err := cfg.CacheDir()
	if err != nil {
		return nil, err
	}
	store, err := cache.NewStore(dir)
	if err != nil {
		return nil, err
	}

	timeout := time.Duration(cfg.Feed.Timeout)
	policy := retry.Default(cfg.Feed.MaxRetries)

	return &App{
		feed:   feed.NewClient(cfg.Feed.URL, timeout, policy),
		images: fetch.New(timeout, policy, cfg.Feed.MaxImageSize),
		store:  store,
		setter: setter,
		log:    logger,
		now:    time.Now,
	}, nil
}

// Target returns the name of the resolved desktop environment.
func (a *App) Target() string {
	return a.setter.Name()
}

// Run performs one pipeline pass. A held lock and an already-applied day
// are benign no-ops; every other failure leaves persisted state exactly
// as it was.
func (a *App) Run(ctx context.Context) error {
	release, err := a.store.TryLock()
	if errors.Is(err, cache.ErrLocked) {
		a.log.Info("another run is in progress, nothing to do")
		return nil
	}
	if err != nil {
		return err
	}
	defer release()

	entry, err := a.feed.FetchToday(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch feed entry: %w", err)
	}
	a.log.Debug("fetched feed entry", "day", entry.Day(), "title", entry.Title)

	rec, err := a.store.Load()
	if err != nil {
		if !errors.Is(err, cache.ErrCorrupt) {
			return err
		}
		// Self-healing: the next successful save overwrites the bad record.
		a.log.Warn("cache record corrupt, treating as first run", "err", err)
		rec = nil
	}

	if cache.AlreadyApplied(entry.Day(), rec) {
		a.log.Info("wallpaper already applied", "day", entry.Day())
		return nil
	}

	data, err := a.images.Fetch(ctx, entry.ImageURL)
	if err != nil {
		return fmt.Errorf("failed to download image: %w", err)
	}

	path, err := a.store.WriteImage(data)
	if err != nil {
		return err
	}

	if err := a.setter.Apply(ctx, path); err != nil {
		return err
	}

	newRec := cache.Record{
		LastAppliedDate: entry.Day(),
		ContentID:       fetch.ContentID(data),
		ImagePath:       path,
		UpdatedAt:       a.now(),
	}
	if err := a.store.Save(newRec); err != nil {
		return fmt.Errorf("wallpaper applied but state not recorded: %w", err)
	}

	a.log.Info("wallpaper updated", "day", entry.Day(), "title", entry.Title, "target", a.setter.Name())
	return nil
}
