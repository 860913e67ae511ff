// Package throttle gates repeat check-ins per client and restaurant.
package throttle

import (
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	DefaultCooldown = 10 * time.Minute
	defaultSize     = 65536
)

// Gate rejects a check-in when the same (client, restaurant) pair
// checked in within the cooldown window. State is a bounded LRU, so
// long uptime and many distinct pairs cannot grow it without limit.
type Gate struct {
	mu       sync.Mutex
	cooldown time.Duration
	seen     *lru.Cache[string, time.Time]
	now      func() time.Time
}

// New creates a gate. size bounds the number of tracked pairs.
func New(cooldown time.Duration, size int) (*Gate, error) {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	if size <= 0 {
		size = defaultSize
	}
	seen, err := lru.New[string, time.Time](size)
	if err != nil {
		return nil, fmt.Errorf("create throttle cache: %w", err)
	}
	return &Gate{cooldown: cooldown, seen: seen, now: time.Now}, nil
}

// Allow reports whether a check-in may proceed. On success the pair's
// timestamp is updated; on rejection it returns the remaining cooldown.
func (g *Gate) Allow(clientID string, restaurantID int64) (bool, time.Duration) {
	key := fmt.Sprintf("%s:%d", clientID, restaurantID)

	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if last, ok := g.seen.Get(key); ok {
		if elapsed := now.Sub(last); elapsed < g.cooldown {
			return false, g.cooldown - elapsed
		}
	}
	g.seen.Add(key, now)
	return true, 0
}

// Cooldown returns the configured window.
func (g *Gate) Cooldown() time.Duration {
	return g.cooldown
}
