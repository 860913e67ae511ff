package enrich_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/forkfilter/forkfilter/internal/cache"
	"github.com/forkfilter/forkfilter/internal/enrich"
	"github.com/forkfilter/forkfilter/internal/store"
	"github.com/forkfilter/forkfilter/pkg/provider"
)

type stubProvider struct {
	calls int
	rows  []provider.Place
	err   error
}

func (p *stubProvider) Name() string { return "osm" }

func (p *stubProvider) Search(ctx context.Context, q provider.Query) ([]provider.Place, error) {
	p.calls++
	return p.rows, p.err
}

func floatp(f float64) *float64 { return &f }

func testRows() []provider.Place {
	return []provider.Place{
		{
			Source: "osm", ExternalID: "osm:node:1", Name: "Falafel House",
			Lat: floatp(32.780), Lng: floatp(-96.800), Menu: "falafel", Halal: true,
		},
		{
			Source: "osm", ExternalID: "osm:node:2", Name: "Taco Spot",
			Lat: floatp(32.785), Lng: floatp(-96.810), Menu: "tacos",
		},
	}
}

func newFixture(t *testing.T, p provider.Provider) (*enrich.Service, *store.SQLiteStore) {
	t.Helper()
	db, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	c, err := cache.New(t.TempDir())
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	return enrich.New(c, p, db, zerolog.Nop()), db
}

func TestFromOSMFetchesAndUpserts(t *testing.T) {
	p := &stubProvider{rows: testRows()}
	svc, db := newFixture(t, p)

	added, updated, total, err := svc.FromOSM(context.Background(), 32.7767, -96.7970, 5, nil, time.Hour, 50)
	if err != nil {
		t.Fatalf("enrich: %v", err)
	}
	if added != 2 || updated != 0 || total != 2 {
		t.Errorf("got added=%d updated=%d total=%d, want 2/0/2", added, updated, total)
	}

	n, _ := db.CountRestaurants(context.Background())
	if n != 2 {
		t.Errorf("stored %d rows, want 2", n)
	}
}

func TestFromOSMServesRepeatFromCache(t *testing.T) {
	p := &stubProvider{rows: testRows()}
	svc, _ := newFixture(t, p)
	ctx := context.Background()

	if _, _, _, err := svc.FromOSM(ctx, 32.7767, -96.7970, 5, []string{"falafel"}, time.Hour, 50); err != nil {
		t.Fatalf("first enrich: %v", err)
	}

	// The provider now fails; the cached rows must carry the second call.
	p.err = errors.New("overpass is down")
	added, updated, total, err := svc.FromOSM(ctx, 32.7767, -96.7970, 5, []string{"falafel"}, time.Hour, 50)
	if err != nil {
		t.Fatalf("second enrich should hit the cache: %v", err)
	}
	if p.calls != 1 {
		t.Errorf("provider called %d times, want 1", p.calls)
	}
	if added != 0 || updated != 2 || total != 2 {
		t.Errorf("got added=%d updated=%d total=%d, want 0/2/2", added, updated, total)
	}
}

func TestFromOSMDifferentAreaMissesCache(t *testing.T) {
	p := &stubProvider{rows: testRows()}
	svc, _ := newFixture(t, p)
	ctx := context.Background()

	if _, _, _, err := svc.FromOSM(ctx, 32.7767, -96.7970, 5, nil, time.Hour, 50); err != nil {
		t.Fatalf("first enrich: %v", err)
	}
	if _, _, _, err := svc.FromOSM(ctx, 33.0200, -96.6990, 5, nil, time.Hour, 50); err != nil {
		t.Fatalf("second enrich: %v", err)
	}
	if p.calls != 2 {
		t.Errorf("provider called %d times, want 2 (different areas)", p.calls)
	}
}

func TestFromOSMCachesEmptyResult(t *testing.T) {
	p := &stubProvider{}
	svc, _ := newFixture(t, p)
	ctx := context.Background()

	if _, _, _, err := svc.FromOSM(ctx, 32.7767, -96.7970, 5, nil, time.Hour, 50); err != nil {
		t.Fatalf("first enrich: %v", err)
	}
	if _, _, _, err := svc.FromOSM(ctx, 32.7767, -96.7970, 5, nil, time.Hour, 50); err != nil {
		t.Fatalf("second enrich: %v", err)
	}
	if p.calls != 1 {
		t.Errorf("provider called %d times, want 1 (empty result cached)", p.calls)
	}
}

func TestFromOSMPropagatesProviderError(t *testing.T) {
	p := &stubProvider{err: errors.New("boom")}
	svc, _ := newFixture(t, p)

	if _, _, _, err := svc.FromOSM(context.Background(), 32.7767, -96.7970, 5, nil, time.Hour, 50); err == nil {
		t.Fatal("expected an error when the provider fails on a cold cache")
	}
}
