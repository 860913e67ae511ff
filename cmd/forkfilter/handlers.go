package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/forkfilter/forkfilter/internal/cache"
	"github.com/forkfilter/forkfilter/internal/config"
	"github.com/forkfilter/forkfilter/internal/enrich"
	"github.com/forkfilter/forkfilter/internal/ingest"
	"github.com/forkfilter/forkfilter/internal/store"
	"github.com/forkfilter/forkfilter/internal/throttle"
	"github.com/forkfilter/forkfilter/pkg/provider"
	"github.com/forkfilter/forkfilter/pkg/search"
	"github.com/forkfilter/forkfilter/pkg/server"
)

func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

func newLogger() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()
}

func runServe(port int) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if port == 0 {
		port = cfg.Server.Port
	}
	log := newLogger()

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	fileCache, err := cache.New(cfg.Cache.Dir)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}

	enricher := enrich.New(fileCache, provider.NewOverpass(), db, log)
	engine := search.NewEngine(db, enricher, cfg.Enrich.ParseTTL(), log)

	gate, err := throttle.New(
		time.Duration(cfg.Checkin.CooldownMinutes)*time.Minute,
		cfg.Checkin.ThrottleSize,
	)
	if err != nil {
		return fmt.Errorf("create throttle: %w", err)
	}

	srv := server.New(db, engine, gate, log, port)
	return srv.ListenAndServe()
}

func runInitDB() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	defer db.Close()

	fmt.Printf("database initialized at %s\n", cfg.Database.Path)
	return nil
}

func runSeed() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	ctx := context.Background()
	byName := make(map[string]int64, len(seedRestaurants))
	for i := range seedRestaurants {
		r := seedRestaurants[i]
		if err := db.InsertRestaurant(ctx, &r); err != nil {
			return err
		}
		byName[r.Name] = r.ID
	}
	fmt.Printf("seeded %d restaurants\n", len(seedRestaurants))

	// A few recent check-ins so busyness shows up immediately.
	now := time.Now()
	for name, n := range seedCheckins {
		rid, ok := byName[name]
		if !ok {
			continue
		}
		for i := 0; i < n; i++ {
			if err := db.AddCheckin(ctx, rid, now); err != nil {
				return err
			}
		}
	}
	fmt.Println("seeded recent check-ins")
	return nil
}

func runCount() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	n, err := db.CountRestaurants(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("%d restaurants\n", n)
	return nil
}

func runIngestFSQ(flags ingestFlags, prices, categories, delay string, maxRetries int) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := newLogger()

	fsq, err := provider.NewFoursquare(cfg.Foursquare.APIKey)
	if err != nil {
		return err
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	pause := cfg.Ingest.ParseDelay()
	if delay != "" {
		if d, err := time.ParseDuration(delay); err == nil {
			pause = d
		}
	}
	if maxRetries == 0 {
		maxRetries = cfg.Ingest.MaxRetries
	}

	job := ingest.NewJob(fsq, db, log, pause, maxRetries)
	report, err := job.Run(context.Background(), provider.Query{
		Lat:        flags.lat,
		Lng:        flags.lng,
		RadiusM:    int(flags.radiusKm * 1000),
		Prices:     search.ParsePrices(prices),
		Categories: categories,
		Limit:      flags.limit,
	}, search.ParseMenuTerms(flags.terms))
	if err != nil {
		return err
	}

	printReport(report)
	return nil
}

func runIngestOSM(flags ingestFlags) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := newLogger()

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	job := ingest.NewJob(provider.NewOverpass(), db, log, cfg.Ingest.ParseDelay(), cfg.Ingest.MaxRetries)
	report, err := job.Run(context.Background(), provider.Query{
		Lat:     flags.lat,
		Lng:     flags.lng,
		RadiusM: int(flags.radiusKm * 1000),
		Limit:   flags.limit,
	}, search.ParseMenuTerms(flags.terms))
	if err != nil {
		return err
	}

	printReport(report)
	return nil
}

func printReport(r ingest.Report) {
	fmt.Printf("fetched %d rows: %d added, %d updated, %d skipped\n",
		r.Fetched, r.Added, r.Updated, r.Skipped)
}
