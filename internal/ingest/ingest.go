// Package ingest runs operator-triggered batch pulls from a place
// provider into storage, honoring provider rate limits.
package ingest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/forkfilter/forkfilter/internal/store"
	"github.com/forkfilter/forkfilter/pkg/provider"
)

const (
	defaultDelay      = 2 * time.Second
	defaultMaxRetries = 3
)

// Report accumulates counts across all terms of a run.
type Report struct {
	Added   int
	Updated int
	Skipped int
	Fetched int
}

// Job is one batch ingestion run.
type Job struct {
	provider   provider.Provider
	store      store.Store
	log        zerolog.Logger
	delay      time.Duration
	maxRetries int

	// sleep and now are injectable for tests.
	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

// NewJob creates an ingestion job. delay is the politeness pause
// between terms.
func NewJob(p provider.Provider, s store.Store, log zerolog.Logger, delay time.Duration, maxRetries int) *Job {
	if delay <= 0 {
		delay = defaultDelay
	}
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	return &Job{
		provider:   p,
		store:      s,
		log:        log,
		delay:      delay,
		maxRetries: maxRetries,
		sleep:      sleepCtx,
		now:        time.Now,
	}
}

// Run fetches and upserts one pass per term (a single unfiltered pass
// when no terms are given). A 429 retries with backoff up to the retry
// budget; any other error abandons the term and moves on.
func (j *Job) Run(ctx context.Context, base provider.Query, terms []string) (Report, error) {
	if len(terms) == 0 {
		terms = []string{""}
	}

	var report Report
	for i, term := range terms {
		rows, err := j.fetchTerm(ctx, base, term)
		if err != nil {
			if ctx.Err() != nil {
				return report, ctx.Err()
			}
			j.log.Error().Err(err).Str("term", term).Msg("term fetch abandoned")
		} else {
			res, err := j.store.UpsertPlaces(ctx, rows)
			if err != nil {
				return report, err
			}
			report.Added += res.Added
			report.Updated += res.Updated
			report.Skipped += res.Skipped
			report.Fetched += len(rows)
			j.log.Info().Str("term", term).Int("fetched", len(rows)).
				Int("added", res.Added).Int("updated", res.Updated).Msg("term ingested")
		}

		// Politeness delay between terms regardless of outcome.
		if i < len(terms)-1 {
			if err := j.sleep(ctx, j.delay); err != nil {
				return report, err
			}
		}
	}
	return report, nil
}

func (j *Job) fetchTerm(ctx context.Context, base provider.Query, term string) ([]provider.Place, error) {
	q := base
	if term != "" {
		q.Terms = []string{term}
	}

	for attempt := 0; ; attempt++ {
		rows, err := j.provider.Search(ctx, q)
		if err == nil {
			return rows, nil
		}

		var httpErr *provider.HTTPError
		if !errors.As(err, &httpErr) || httpErr.StatusCode != http.StatusTooManyRequests {
			return nil, err
		}
		if attempt >= j.maxRetries {
			return nil, err
		}

		wait := RetryWait(httpErr.Header, attempt, j.now())
		j.log.Warn().Str("term", term).Int("attempt", attempt+1).
			Dur("wait", wait).Msg("rate limited, backing off")
		if err := j.sleep(ctx, wait); err != nil {
			return nil, err
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
