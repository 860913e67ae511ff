// Package enrich pulls fresh OSM rows through the file cache and merges
// them into storage on demand.
package enrich

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/forkfilter/forkfilter/internal/cache"
	"github.com/forkfilter/forkfilter/internal/store"
	"github.com/forkfilter/forkfilter/pkg/provider"
)

// Service orchestrates fetch-through-cache plus upsert.
type Service struct {
	cache    *cache.Cache
	provider provider.Provider
	store    store.Store
	log      zerolog.Logger
}

// New creates an enrichment service around the OSM provider.
func New(c *cache.Cache, p provider.Provider, s store.Store, log zerolog.Logger) *Service {
	return &Service{cache: c, provider: p, store: s, log: log}
}

// FromOSM fetches places around a point, serving repeat requests for
// the same area from the cache, and upserts them. Returns the number of
// rows added, updated, and fetched in total.
func (s *Service) FromOSM(ctx context.Context, lat, lng, radiusKm float64, terms []string, ttl time.Duration, limit int) (added, updated, total int, err error) {
	key := cacheKey(lat, lng, radiusKm, terms, limit)

	var rows []provider.Place
	if !s.cache.Get(key, ttl, &rows) {
		rows, err = s.provider.Search(ctx, provider.Query{
			Lat:     lat,
			Lng:     lng,
			RadiusM: int(radiusKm * 1000),
			Terms:   terms,
			Limit:   limit,
		})
		if err != nil {
			return 0, 0, 0, fmt.Errorf("osm search: %w", err)
		}
		// Cache even an empty result so a dead area is not re-fetched
		// until the TTL lapses.
		if cerr := s.cache.Put(key, rows); cerr != nil {
			s.log.Warn().Err(cerr).Msg("cache write failed")
		}
	}

	report, err := s.store.UpsertPlaces(ctx, rows)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("upsert osm rows: %w", err)
	}
	return report.Added, report.Updated, len(rows), nil
}

// cacheKey derives the cache identity from the rounded search area,
// terms, and limit.
func cacheKey(lat, lng, radiusKm float64, terms []string, limit int) string {
	return fmt.Sprintf("osm:%.3f:%.3f:%d:%s:%d",
		lat, lng, int(radiusKm*1000),
		strings.ToLower(strings.Join(terms, ",")), limit)
}
