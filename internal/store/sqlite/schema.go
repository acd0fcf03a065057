package sqlite

import "database/sql"

const ddl = `
CREATE TABLE IF NOT EXISTS locations (
    location_id         TEXT PRIMARY KEY,
    name                TEXT NOT NULL UNIQUE,
    category            TEXT NOT NULL,
    address             TEXT NOT NULL,
    lat                 REAL NOT NULL,
    lng                 REAL NOT NULL,
    description         TEXT,
    opening_hours       TEXT,
    ar_camera_supported INTEGER NOT NULL DEFAULT 0,
    model_url           TEXT,
    image_url           TEXT,
    creation_time       TIMESTAMP NOT NULL,
    update_time         TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS ar_targets (
    target_id      TEXT PRIMARY KEY,
    category       TEXT NOT NULL,
    name           TEXT NOT NULL,
    description    TEXT,
    location_name  TEXT NOT NULL,
    image_url      TEXT NOT NULL,
    model_url      TEXT NOT NULL,
    video_url      TEXT,
    physical_width REAL NOT NULL,
    creation_time  TIMESTAMP NOT NULL,
    update_time    TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_ar_targets_location ON ar_targets(location_name);

CREATE TABLE IF NOT EXISTS marker_images (
    location_name TEXT PRIMARY KEY,
    name          TEXT NOT NULL,
    image_url     TEXT NOT NULL,
    update_time   TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS events (
    event_id        TEXT PRIMARY KEY,
    title           TEXT NOT NULL,
    description     TEXT,
    location_id     TEXT,
    custom_lat      REAL,
    custom_lng      REAL,
    start_date      TIMESTAMP,
    end_date        TIMESTAMP,
    recurring       INTEGER NOT NULL DEFAULT 0,
    recurrence_days TEXT,
    start_time      TEXT,
    end_time        TEXT,
    creation_time   TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS users (
    user_id          TEXT PRIMARY KEY,
    email            TEXT NOT NULL,
    display_name     TEXT,
    user_type        TEXT NOT NULL,
    status           TEXT NOT NULL,
    creation_time    TIMESTAMP NOT NULL,
    last_active_time TIMESTAMP
);

CREATE TABLE IF NOT EXISTS archived_users (
    user_id          TEXT PRIMARY KEY,
    email            TEXT NOT NULL,
    display_name     TEXT,
    user_type        TEXT NOT NULL,
    status           TEXT NOT NULL,
    creation_time    TIMESTAMP NOT NULL,
    last_active_time TIMESTAMP,
    archived_at      TIMESTAMP NOT NULL,
    archive_reason   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS feedback (
    feedback_id   TEXT PRIMARY KEY,
    user_id       TEXT NOT NULL,
    rating        INTEGER NOT NULL,
    comment       TEXT,
    location_id   TEXT,
    creation_time TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS overlays (
    overlay_id    TEXT PRIMARY KEY,
    name          TEXT NOT NULL,
    geometry      TEXT NOT NULL,
    creation_time TIMESTAMP NOT NULL
);
`

// EnsureSchema applies the schema idempotently.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(ddl)
	return err
}
