// Package search combines storage filters, distance, and the recent
// check-in busyness signal into a ranked, paged result set.
package search

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/forkfilter/forkfilter/internal/store"
	"github.com/forkfilter/forkfilter/pkg/geo"
)

// recentWindow is the trailing window over which check-ins count toward
// busyness.
const recentWindow = 60 * time.Minute

const (
	defaultPerPage = 50
	maxPerPage     = 200
)

// Enricher pulls fresh provider rows into storage before a search.
type Enricher interface {
	FromOSM(ctx context.Context, lat, lng, radiusKm float64, terms []string, ttl time.Duration, limit int) (added, updated, total int, err error)
}

// Engine executes searches against the store.
type Engine struct {
	store     store.Store
	enricher  Enricher // optional, nil = enrichment disabled
	enrichTTL time.Duration
	log       zerolog.Logger
}

// NewEngine creates a search engine. enricher may be nil.
func NewEngine(s store.Store, enricher Enricher, enrichTTL time.Duration, log zerolog.Logger) *Engine {
	if enrichTTL == 0 {
		enrichTTL = time.Hour
	}
	return &Engine{store: s, enricher: enricher, enrichTTL: enrichTTL, log: log}
}

// Options describe one search request.
type Options struct {
	Lat        float64
	Lng        float64
	RadiusKm   float64
	Terms      []string
	Prices     []int
	HalalOnly  bool
	BusyLevels map[string]bool
	Page       int
	PerPage    int

	Enrich      bool
	EnrichLimit int
}

// Item is one ranked result row.
type Item struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	DistanceKm  float64 `json:"distance_km"`
	Price       int     `json:"price"`
	Halal       bool    `json:"halal"`
	Busy        string  `json:"busy"`
	Description string  `json:"description,omitempty"`
	Website     string  `json:"website,omitempty"`
}

// Result is a page of ranked items plus paging metadata.
type Result struct {
	Items   []Item `json:"data"`
	Total   int    `json:"total"`
	Page    int    `json:"page"`
	PerPage int    `json:"per_page"`
	HasMore bool   `json:"has_more"`
}

// Search runs the full pipeline: optional enrichment, structural DB
// filters, distance and busyness filtering, ranking, pagination.
// Enrichment failures never fail the search.
func (e *Engine) Search(ctx context.Context, opts Options) (*Result, error) {
	if opts.Enrich && e.enricher != nil {
		added, updated, total, err := e.enricher.FromOSM(ctx,
			opts.Lat, opts.Lng, opts.RadiusKm, opts.Terms, e.enrichTTL, opts.EnrichLimit)
		if err != nil {
			e.log.Warn().Err(err).Msg("osm enrich failed")
		} else {
			e.log.Info().Int("added", added).Int("updated", updated).
				Int("fetched", total).Msg("osm enrich")
		}
	}

	restaurants, err := e.store.ListRestaurants(ctx, store.ListOpts{
		Prices:    opts.Prices,
		HalalOnly: opts.HalalOnly,
		Terms:     opts.Terms,
	})
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}

	counts, err := e.store.RecentCheckinCounts(ctx, time.Now().Add(-recentWindow))
	if err != nil {
		return nil, fmt.Errorf("recent checkins: %w", err)
	}

	items := make([]Item, 0, len(restaurants))
	for _, r := range restaurants {
		dist := geo.HaversineKm(opts.Lat, opts.Lng, r.Lat, r.Lng)
		if dist > opts.RadiusKm {
			continue
		}

		level := geo.BusyBucket(counts[r.ID])
		if len(opts.BusyLevels) > 0 && !opts.BusyLevels[level] {
			continue
		}

		price := 0
		if r.PriceTier != nil {
			price = *r.PriceTier
		}

		item := Item{
			ID:         r.ID,
			Name:       r.Name,
			Lat:        r.Lat,
			Lng:        r.Lng,
			DistanceKm: math.Round(dist*100) / 100,
			Price:      price,
			Halal:      r.Halal,
			Busy:       level,
		}
		if r.Description != nil {
			item.Description = *r.Description
		}
		if r.Website != nil {
			item.Website = *r.Website
		}
		items = append(items, item)
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].DistanceKm != items[j].DistanceKm {
			return items[i].DistanceKm < items[j].DistanceKm
		}
		return geo.BusyRank(items[i].Busy) < geo.BusyRank(items[j].Busy)
	})

	return paginate(items, opts.Page, opts.PerPage), nil
}

func paginate(items []Item, page, perPage int) *Result {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	total := len(items)
	start := (page - 1) * perPage
	end := start + perPage
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return &Result{
		Items:   items[start:end],
		Total:   total,
		Page:    page,
		PerPage: perPage,
		HasMore: (page-1)*perPage+perPage < total,
	}
}
