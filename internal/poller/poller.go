// Package poller drives the long-lived poll loop: every cycle it checks
// all configured feeds concurrently, dispatches whatever changed, and then
// sleeps. Per-feed failures are isolated; nothing here ever stops the
// loop except cancellation.
package poller

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"notifeed/internal/config"
	"notifeed/internal/feed"
	"notifeed/internal/notify"
	"notifeed/internal/storage"
)

type Poller struct {
	store      *storage.Store
	fetcher    *feed.Fetcher
	parser     *feed.Parser
	dispatcher *notify.Dispatcher
}

// CycleStats summarizes one completed poll cycle.
type CycleStats struct {
	FeedsChecked int
	NewPosts     int
	Failures     int
}

func New(store *storage.Store, cfg *config.Config) *Poller {
	client := &http.Client{Timeout: cfg.Feed.HTTPTimeout}
	return &Poller{
		store:      store,
		fetcher:    feed.NewFetcher(cfg),
		parser:     feed.NewParser(),
		dispatcher: notify.NewDispatcher(store, client),
	}
}

// Run loops forever until the context is cancelled. Cancellation takes
// effect at cycle boundaries: an in-flight cycle runs on a detached
// context so it finishes its dispatch (state updates were already
// committed, abandoning the fan-out would lose those notifications for
// good) and the HTTP client timeout bounds how long that can take. The
// sleep is measured from the moment all of a cycle's work settled, so a
// slow cycle delays the next rather than compounding onto it.
func (p *Poller) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		p.RunOnce(context.WithoutCancel(ctx))

		interval, err := p.store.PollInterval()
		if err != nil {
			log.Error().Err(err).Msg("reading poll interval, using default")
			interval = storage.DefaultPollInterval * time.Second
		}

		log.Debug().Dur("interval", interval).Msg("cycle complete, sleeping")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
}

// RunOnce executes a single poll cycle across all configured feeds,
// one concurrent check per feed.
func (p *Poller) RunOnce(ctx context.Context) CycleStats {
	var stats CycleStats

	feeds, err := p.store.GetAllFeeds()
	if err != nil {
		log.Error().Err(err).Msg("listing feeds")
		stats.Failures++
		return stats
	}

	log.Info().Time("at", time.Now()).Int("feeds", len(feeds)).Msg("check initiated")

	type result struct {
		fd       *storage.Feed
		notified int
		err      error
	}

	results := make(chan result, len(feeds))
	var wg sync.WaitGroup
	for _, fd := range feeds {
		wg.Add(1)
		go func(fd *storage.Feed) {
			defer wg.Done()
			notified, checkErr := p.checkFeed(ctx, fd)
			results <- result{fd: fd, notified: notified, err: checkErr}
		}(fd)
	}
	wg.Wait()
	close(results)

	for res := range results {
		stats.FeedsChecked++
		stats.NewPosts += res.notified
		if res.err != nil {
			stats.Failures++
			log.Error().Err(res.err).
				Str("feed", res.fd.Name).
				Str("url", res.fd.URL).
				Msg("feed check failed")
		}
	}

	if stats.NewPosts == 0 {
		log.Info().Int("feeds", stats.FeedsChecked).Msg("no new posts found")
	} else {
		log.Info().
			Int("feeds", stats.FeedsChecked).
			Int("new_posts", stats.NewPosts).
			Int("failures", stats.Failures).
			Msg("finished checking all feeds")
	}

	return stats
}

// checkFeed runs the fetch, normalize, detect, dispatch pipeline for one
// feed and returns how many new posts were fully dispatched.
func (p *Poller) checkFeed(ctx context.Context, fd *storage.Feed) (int, error) {
	body, err := p.fetcher.Fetch(ctx, fd.URL)
	if err != nil {
		return 0, err
	}

	posts, err := p.parser.Parse(body, fd.URL)
	if err != nil {
		return 0, err
	}

	last, err := p.store.LatestPost(fd.URL)
	if err != nil {
		// Without a trustworthy last-known post, firing notifications
		// would risk duplicates next cycle. Skip this feed entirely.
		return 0, err
	}

	updates := feed.Detect(posts, last)
	if len(updates) == 0 {
		log.Debug().Str("feed", fd.Name).Msg("no changes")
		return 0, nil
	}

	processed, err := p.dispatcher.Dispatch(ctx, fd, updates)

	// In-place edits are dispatched but are not new posts; keep the
	// cycle summary honest.
	newPosts := 0
	for _, update := range updates[:processed] {
		if update.Event.Has(feed.EventNew) {
			newPosts++
		}
	}
	return newPosts, err
}
