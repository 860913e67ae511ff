package store

const schema = `
CREATE TABLE IF NOT EXISTS restaurants (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    name          TEXT NOT NULL,
    lat           REAL NOT NULL,
    lng           REAL NOT NULL,
    price_tier    INTEGER,
    halal         BOOLEAN NOT NULL DEFAULT 0,
    menu          TEXT NOT NULL DEFAULT '',
    neighborhood  TEXT NOT NULL DEFAULT '',
    description   TEXT,
    website       TEXT,
    phone         TEXT,
    opening_hours TEXT,
    source        TEXT,
    external_id   TEXT,
    created_at    DATETIME NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_restaurants_source_external
    ON restaurants(source, external_id)
    WHERE source IS NOT NULL AND external_id IS NOT NULL;
CREATE INDEX IF NOT EXISTS idx_restaurants_name ON restaurants(name);

CREATE TABLE IF NOT EXISTS checkins (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    restaurant_id INTEGER NOT NULL REFERENCES restaurants(id),
    created_at    DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_checkins_restaurant ON checkins(restaurant_id);
CREATE INDEX IF NOT EXISTS idx_checkins_created_at ON checkins(created_at);
`
