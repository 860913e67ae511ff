package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/forkfilter/forkfilter/pkg/provider"
)

// nearbyDeg is the coordinate tolerance (~50m) used for the fallback
// dedup when no provider identity is available.
const nearbyDeg = 0.0005

// ErrNotFound is returned when a restaurant id does not exist.
var ErrNotFound = errors.New("restaurant not found")

// Restaurant is a persisted place. Provenance and enrichment fields are
// nullable but always defined on the schema.
type Restaurant struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Lat          float64   `db:"lat" json:"lat"`
	Lng          float64   `db:"lng" json:"lng"`
	PriceTier    *int      `db:"price_tier" json:"price_tier"`
	Halal        bool      `db:"halal" json:"halal"`
	Menu         string    `db:"menu" json:"menu"`
	Neighborhood string    `db:"neighborhood" json:"neighborhood"`
	Description  *string   `db:"description" json:"description,omitempty"`
	Website      *string   `db:"website" json:"website,omitempty"`
	Phone        *string   `db:"phone" json:"phone,omitempty"`
	OpeningHours *string   `db:"opening_hours" json:"opening_hours,omitempty"`
	Source       *string   `db:"source" json:"source,omitempty"`
	ExternalID   *string   `db:"external_id" json:"external_id,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Checkin is a single "I'm here now" signal. Immutable once created.
type Checkin struct {
	ID           int64     `db:"id" json:"id"`
	RestaurantID int64     `db:"restaurant_id" json:"restaurant_id"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// ListOpts are the structural filters applied in SQL before the
// in-memory distance and busyness pass.
type ListOpts struct {
	Prices    []int
	HalalOnly bool
	Terms     []string
}

// UpsertReport summarizes a batch upsert.
type UpsertReport struct {
	Added   int
	Updated int
	Skipped int
}

// Store is the persistence interface.
type Store interface {
	UpsertPlaces(ctx context.Context, rows []provider.Place) (UpsertReport, error)
	ListRestaurants(ctx context.Context, opts ListOpts) ([]Restaurant, error)
	GetRestaurant(ctx context.Context, id int64) (*Restaurant, error)
	CountRestaurants(ctx context.Context) (int, error)
	InsertRestaurant(ctx context.Context, r *Restaurant) error

	AddCheckin(ctx context.Context, restaurantID int64, at time.Time) error
	RecentCheckinCounts(ctx context.Context, since time.Time) (map[int64]int, error)

	Close() error
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sqlx.DB
}

// New opens a SQLite database and runs migrations.
func New(path string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// UpsertPlaces merges a batch of normalized provider rows. Rows missing
// name or coordinates are skipped. Dedup order: exact (source,
// external_id) identity, then case-insensitive name plus ~50m proximity.
// The whole batch commits in one transaction.
func (s *SQLiteStore) UpsertPlaces(ctx context.Context, rows []provider.Place) (UpsertReport, error) {
	var report UpsertReport

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return report, fmt.Errorf("begin upsert tx: %w", err)
	}
	defer tx.Rollback()

	for i := range rows {
		r := &rows[i]
		if r.Name == "" || r.Lat == nil || r.Lng == nil {
			report.Skipped++
			continue
		}

		id, err := findExisting(ctx, tx, r)
		if err != nil {
			return report, err
		}

		if id > 0 {
			_, err = tx.ExecContext(ctx, `
				UPDATE restaurants SET
					price_tier = ?,
					halal = ?,
					menu = ?,
					neighborhood = ?,
					source = NULLIF(?, ''),
					external_id = NULLIF(?, ''),
					description = COALESCE(NULLIF(?, ''), description),
					website = COALESCE(NULLIF(?, ''), website),
					phone = COALESCE(NULLIF(?, ''), phone),
					opening_hours = COALESCE(NULLIF(?, ''), opening_hours)
				WHERE id = ?
			`, r.PriceTier, r.Halal, r.Menu, r.Neighborhood,
				r.Source, r.ExternalID,
				r.Description, r.Website, r.Phone, r.OpeningHours, id)
			if err != nil {
				return report, fmt.Errorf("update restaurant %d: %w", id, err)
			}
			report.Updated++
			continue
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO restaurants
				(name, lat, lng, price_tier, halal, menu, neighborhood,
				 description, website, phone, opening_hours,
				 source, external_id, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?,
				NULLIF(?, ''), NULLIF(?, ''), NULLIF(?, ''), NULLIF(?, ''),
				NULLIF(?, ''), NULLIF(?, ''), ?)
		`, r.Name, *r.Lat, *r.Lng, r.PriceTier, r.Halal, r.Menu, r.Neighborhood,
			r.Description, r.Website, r.Phone, r.OpeningHours,
			r.Source, r.ExternalID, time.Now().UTC())
		if err != nil {
			return report, fmt.Errorf("insert restaurant %q: %w", r.Name, err)
		}
		report.Added++
	}

	if err := tx.Commit(); err != nil {
		return report, fmt.Errorf("commit upsert tx: %w", err)
	}
	return report, nil
}

func findExisting(ctx context.Context, tx *sqlx.Tx, r *provider.Place) (int64, error) {
	var id int64

	if r.Source != "" && r.ExternalID != "" {
		err := tx.GetContext(ctx, &id,
			"SELECT id FROM restaurants WHERE source = ? AND external_id = ?",
			r.Source, r.ExternalID)
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("lookup %s/%s: %w", r.Source, r.ExternalID, err)
		}
	}

	err := tx.GetContext(ctx, &id, `
		SELECT id FROM restaurants
		WHERE lower(name) = lower(?)
		  AND abs(lat - ?) < ? AND abs(lng - ?) < ?
	`, r.Name, *r.Lat, nearbyDeg, *r.Lng, nearbyDeg)
	if err == nil {
		return id, nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return 0, fmt.Errorf("lookup %q by proximity: %w", r.Name, err)
}

func (s *SQLiteStore) ListRestaurants(ctx context.Context, opts ListOpts) ([]Restaurant, error) {
	query := "SELECT * FROM restaurants WHERE 1=1"
	var args []any

	if len(opts.Prices) > 0 {
		query += " AND price_tier IN (?" + strings.Repeat(",?", len(opts.Prices)-1) + ")"
		for _, p := range opts.Prices {
			args = append(args, p)
		}
	}
	if opts.HalalOnly {
		query += " AND halal = 1"
	}
	for _, t := range opts.Terms {
		query += " AND lower(menu) LIKE ?"
		args = append(args, "%"+strings.ToLower(t)+"%")
	}

	var restaurants []Restaurant
	if err := s.db.SelectContext(ctx, &restaurants, query, args...); err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}
	return restaurants, nil
}

func (s *SQLiteStore) GetRestaurant(ctx context.Context, id int64) (*Restaurant, error) {
	var r Restaurant
	err := s.db.GetContext(ctx, &r, "SELECT * FROM restaurants WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get restaurant %d: %w", id, err)
	}
	return &r, nil
}

func (s *SQLiteStore) CountRestaurants(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM restaurants"); err != nil {
		return 0, fmt.Errorf("count restaurants: %w", err)
	}
	return n, nil
}

// InsertRestaurant inserts a row directly, bypassing dedup. Used by the
// seed command.
func (s *SQLiteStore) InsertRestaurant(ctx context.Context, r *Restaurant) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO restaurants
			(name, lat, lng, price_tier, halal, menu, neighborhood,
			 description, website, phone, opening_hours,
			 source, external_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.Name, r.Lat, r.Lng, r.PriceTier, r.Halal, r.Menu, r.Neighborhood,
		r.Description, r.Website, r.Phone, r.OpeningHours,
		r.Source, r.ExternalID, r.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert restaurant %q: %w", r.Name, err)
	}
	r.ID, _ = res.LastInsertId()
	return nil
}

func (s *SQLiteStore) AddCheckin(ctx context.Context, restaurantID int64, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO checkins (restaurant_id, created_at) VALUES (?, ?)",
		restaurantID, at.UTC())
	if err != nil {
		return fmt.Errorf("add checkin %d: %w", restaurantID, err)
	}
	return nil
}

func (s *SQLiteStore) RecentCheckinCounts(ctx context.Context, since time.Time) (map[int64]int, error) {
	rows, err := s.db.QueryxContext(ctx, `
		SELECT restaurant_id, COUNT(*) AS cnt
		FROM checkins WHERE created_at >= ?
		GROUP BY restaurant_id
	`, since.UTC())
	if err != nil {
		return nil, fmt.Errorf("count recent checkins: %w", err)
	}
	defer rows.Close()

	counts := make(map[int64]int)
	for rows.Next() {
		var rid int64
		var cnt int
		if err := rows.Scan(&rid, &cnt); err != nil {
			return nil, err
		}
		counts[rid] = cnt
	}
	return counts, rows.Err()
}
