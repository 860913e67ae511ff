package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Checkin.CooldownMinutes != 10 {
		t.Errorf("cooldown = %d, want 10", cfg.Checkin.CooldownMinutes)
	}
	if got := cfg.Enrich.ParseTTL(); got != time.Hour {
		t.Errorf("enrich ttl = %v, want 1h", got)
	}
	if got := cfg.Ingest.ParseDelay(); got != 2*time.Second {
		t.Errorf("ingest delay = %v, want 2s", got)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
database:
  path: /tmp/other.db
server:
  port: 9090
checkin:
  cooldown_minutes: 5
enrich:
  ttl: 30m
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Database.Path != "/tmp/other.db" {
		t.Errorf("db path = %q", cfg.Database.Path)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Checkin.CooldownMinutes != 5 {
		t.Errorf("cooldown = %d, want 5", cfg.Checkin.CooldownMinutes)
	}
	if got := cfg.Enrich.ParseTTL(); got != 30*time.Minute {
		t.Errorf("enrich ttl = %v, want 30m", got)
	}
	// Unset keys keep their defaults.
	if cfg.Cache.Dir != "./cache" {
		t.Errorf("cache dir = %q, want default", cfg.Cache.Dir)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "/tmp/env.db")
	t.Setenv("FOURSQUARE_API_KEY", "env-key")
	t.Setenv("CHECKIN_COOLDOWN_MINUTES", "3")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Database.Path != "/tmp/env.db" {
		t.Errorf("db path = %q", cfg.Database.Path)
	}
	if cfg.Foursquare.APIKey != "env-key" {
		t.Errorf("api key = %q", cfg.Foursquare.APIKey)
	}
	if cfg.Checkin.CooldownMinutes != 3 {
		t.Errorf("cooldown = %d, want 3", cfg.Checkin.CooldownMinutes)
	}
}

func TestBadDurationsFallBack(t *testing.T) {
	e := EnrichConfig{TTL: "not-a-duration"}
	if got := e.ParseTTL(); got != time.Hour {
		t.Errorf("ttl = %v, want 1h fallback", got)
	}
	i := IngestConfig{Delay: ""}
	if got := i.ParseDelay(); got != 2*time.Second {
		t.Errorf("delay = %v, want 2s fallback", got)
	}
}
