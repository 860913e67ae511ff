// Package cache is a file-backed TTL cache for provider responses.
// One file per key, keyed by a hash of the request's semantic
// parameters. Entries older than the caller's TTL are treated as
// absent; there is no eviction sweep.
package cache

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Cache stores JSON payloads under a directory.
type Cache struct {
	dir string
}

type envelope struct {
	Timestamp int64           `json:"ts"`
	Data      json.RawMessage `json:"data"`
}

// New creates the cache directory if needed.
func New(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir %s: %w", dir, err)
	}
	return &Cache{dir: dir}, nil
}

// Get unmarshals the entry for key into v and reports a hit. A missing
// file, unreadable payload, or an entry older than ttl is a miss.
func (c *Cache) Get(key string, ttl time.Duration, v any) bool {
	data, err := os.ReadFile(c.path(key))
	if err != nil {
		return false
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return false
	}
	if time.Since(time.Unix(env.Timestamp, 0)) > ttl {
		return false
	}
	return json.Unmarshal(env.Data, v) == nil
}

// Put stores v under key with the current timestamp, overwriting any
// prior entry. Last write wins.
func (c *Cache) Put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}
	blob, err := json.Marshal(envelope{Timestamp: time.Now().Unix(), Data: data})
	if err != nil {
		return fmt.Errorf("marshal cache envelope: %w", err)
	}
	if err := os.WriteFile(c.path(key), blob, 0o644); err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}

func (c *Cache) path(key string) string {
	h := sha1.Sum([]byte(key))
	return filepath.Join(c.dir, hex.EncodeToString(h[:])+".json")
}
