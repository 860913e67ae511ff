package ingest

import (
	"math/rand"
	"net/http"
	"strconv"
	"time"
)

const (
	slowBase = 10 * time.Second // remaining quota exhausted
	fastBase = 3 * time.Second
)

// RetryWait computes how long to wait before retrying a rate-limited
// request. Preference order: Retry-After (seconds or HTTP-date), then
// RateLimit-Reset / X-RateLimit-Reset (delta-seconds or epoch), then a
// growing backoff with jitter whose base depends on the remaining-quota
// header.
func RetryWait(h http.Header, attempt int, now time.Time) time.Duration {
	if v := h.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
			return time.Duration(secs) * time.Second
		}
		if t, err := http.ParseTime(v); err == nil {
			if d := t.Sub(now); d > 0 {
				return d
			}
		}
	}

	for _, name := range []string{"RateLimit-Reset", "X-RateLimit-Reset"} {
		v := h.Get(name)
		if v == "" {
			continue
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			continue
		}
		// Values past ~2001 in seconds are epoch timestamps, anything
		// smaller is a delta.
		if n > 1_000_000_000 {
			if d := time.Unix(n, 0).Sub(now); d > 0 {
				return d
			}
			continue
		}
		return time.Duration(n) * time.Second
	}

	base := fastBase
	for _, name := range []string{"RateLimit-Remaining", "X-RateLimit-Remaining"} {
		if h.Get(name) == "0" {
			base = slowBase
			break
		}
	}
	jitter := time.Duration(rand.Int63n(int64(time.Second)))
	return base*time.Duration(attempt+1) + jitter
}
