package postgres

import (
	"context"
	"database/sql"
)

const ddl = `
CREATE TABLE IF NOT EXISTS locations (
    location_id         TEXT PRIMARY KEY,
    name                TEXT NOT NULL UNIQUE,
    category            TEXT NOT NULL,
    address             TEXT NOT NULL,
    lat                 DOUBLE PRECISION NOT NULL,
    lng                 DOUBLE PRECISION NOT NULL,
    description         TEXT,
    opening_hours       TEXT,
    ar_camera_supported BOOLEAN NOT NULL DEFAULT FALSE,
    model_url           TEXT,
    image_url           TEXT,
    creation_time       TIMESTAMPTZ NOT NULL DEFAULT now(),
    update_time         TIMESTAMPTZ NOT NULL DEFAULT now()
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
    physical_width DOUBLE PRECISION NOT NULL,
    creation_time  TIMESTAMPTZ NOT NULL DEFAULT now(),
    update_time    TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_ar_targets_location ON ar_targets(location_name);

CREATE TABLE IF NOT EXISTS marker_images (
    location_name TEXT PRIMARY KEY,
    name          TEXT NOT NULL,
    image_url     TEXT NOT NULL,
    update_time   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS events (
    event_id        TEXT PRIMARY KEY,
    title           TEXT NOT NULL,
    description     TEXT,
    location_id     TEXT,
    custom_lat      DOUBLE PRECISION,
    custom_lng      DOUBLE PRECISION,
    start_date      TIMESTAMPTZ,
    end_date        TIMESTAMPTZ,
    recurring       BOOLEAN NOT NULL DEFAULT FALSE,
    recurrence_days JSONB,
    start_time      TEXT,
    end_time        TEXT,
    creation_time   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS users (
    user_id          TEXT PRIMARY KEY,
    email            TEXT NOT NULL,
    display_name     TEXT,
    user_type        TEXT NOT NULL,
    status           TEXT NOT NULL,
    creation_time    TIMESTAMPTZ NOT NULL DEFAULT now(),
    last_active_time TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS archived_users (
    user_id          TEXT PRIMARY KEY,
    email            TEXT NOT NULL,
    display_name     TEXT,
    user_type        TEXT NOT NULL,
    status           TEXT NOT NULL,
    creation_time    TIMESTAMPTZ NOT NULL,
    last_active_time TIMESTAMPTZ,
    archived_at      TIMESTAMPTZ NOT NULL,
    archive_reason   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS feedback (
    feedback_id   TEXT PRIMARY KEY,
    user_id       TEXT NOT NULL,
    rating        INTEGER NOT NULL,
    comment       TEXT,
    location_id   TEXT,
    creation_time TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS overlays (
    overlay_id    TEXT PRIMARY KEY,
    name          TEXT NOT NULL,
    geometry      JSONB NOT NULL,
    creation_time TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// EnsureSchema applies the schema idempotently.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, ddl)
	return err
}
