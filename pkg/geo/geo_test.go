package geo_test

import (
	"math"
	"testing"

	"github.com/forkfilter/forkfilter/pkg/geo"
)

func TestHaversineZeroAndSymmetry(t *testing.T) {
	points := [][2]float64{
		{32.7767, -96.7970},
		{0, 0},
		{-33.8688, 151.2093},
	}

	for _, p := range points {
		if d := geo.HaversineKm(p[0], p[1], p[0], p[1]); d != 0 {
			t.Errorf("HaversineKm(a,a) = %v, want 0", d)
		}
	}

	a, b := points[0], points[2]
	ab := geo.HaversineKm(a[0], a[1], b[0], b[1])
	ba := geo.HaversineKm(b[0], b[1], a[0], a[1])
	if math.Abs(ab-ba) > 1e-9 {
		t.Errorf("asymmetric distance: %v vs %v", ab, ba)
	}
}

func TestHaversineKnownDistance(t *testing.T) {
	// Dallas to Fort Worth is roughly 50 km.
	d := geo.HaversineKm(32.7767, -96.7970, 32.7555, -97.3308)
	if d < 48 || d > 52 {
		t.Errorf("Dallas-Fort Worth = %v km, want ~50", d)
	}
}

func TestBusyBucket(t *testing.T) {
	cases := []struct {
		count int
		want  string
	}{
		{-5, geo.BusyLow},
		{0, geo.BusyLow},
		{2, geo.BusyLow},
		{3, geo.BusyModerate},
		{6, geo.BusyModerate},
		{7, geo.BusyHigh},
		{100, geo.BusyHigh},
	}
	for _, c := range cases {
		if got := geo.BusyBucket(c.count); got != c.want {
			t.Errorf("BusyBucket(%d) = %q, want %q", c.count, got, c.want)
		}
	}
}

func TestBusyRankOrdersBusierFirst(t *testing.T) {
	if !(geo.BusyRank(geo.BusyHigh) < geo.BusyRank(geo.BusyModerate) &&
		geo.BusyRank(geo.BusyModerate) < geo.BusyRank(geo.BusyLow)) {
		t.Error("BusyRank does not order High < Moderate < Low")
	}
	if geo.BusyRank("bogus") <= geo.BusyRank(geo.BusyLow) {
		t.Error("unknown level should rank last")
	}
}
