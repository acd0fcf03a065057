package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/tourkita/admin-backend/internal/model"
	"github.com/tourkita/admin-backend/internal/store"
)

// Open opens a PostgreSQL connection using the pgx stdlib driver and verifies connectivity.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewWithDB constructs a native Postgres store backed directly by database/sql.
func NewWithDB(db *sql.DB) store.Store { return &pgStore{db: db} }

type pgStore struct{ db *sql.DB }

func (s *pgStore) Locations() store.Locations         { return &locations{db: s.db} }
func (s *pgStore) ARTargets() store.ARTargets         { return &arTargets{db: s.db} }
func (s *pgStore) MarkerImages() store.MarkerImages   { return &markerImages{db: s.db} }
func (s *pgStore) Events() store.Events               { return &events{db: s.db} }
func (s *pgStore) Users() store.Users                 { return &users{db: s.db} }
func (s *pgStore) ArchivedUsers() store.ArchivedUsers { return &archivedUsers{db: s.db} }
func (s *pgStore) Feedback() store.Feedback           { return &feedback{db: s.db} }
func (s *pgStore) Overlays() store.Overlays           { return &overlays{db: s.db} }

// HealthPing implements health.HealthPinger for the Postgres-backed store.
func (s *pgStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Bootstrap verifies Postgres is reachable and applies the schema.
func Bootstrap(ctx context.Context, dsn string) error {
	if dsn == "" {
		return nil // no DSN configured, skip bootstrap
	}
	db, err := Open(dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	return EnsureSchema(ctx, db)
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrNotFound
	}
	return err
}

// --- Locations ---

type locations struct{ db *sql.DB }

const locationCols = `location_id, name, category, address, lat, lng, description,
       opening_hours, ar_camera_supported, model_url, image_url, creation_time, update_time`

func (l *locations) Create(ctx context.Context, in *model.Location) (*model.Location, error) {
	out := *in
	if out.LocationID == "" {
		out.LocationID = strconv.FormatInt(time.Now().UnixMilli(), 10)
	}
	row := l.db.QueryRowContext(ctx, `
        INSERT INTO locations (location_id, name, category, address, lat, lng, description,
                               opening_hours, ar_camera_supported, model_url, image_url)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING creation_time, update_time
    `, out.LocationID, out.Name, out.Category, out.Address, out.Latitude, out.Longitude,
		out.Description, out.OpeningHours, out.ARCameraSupported, out.ModelURL, out.ImageURL)
	if err := row.Scan(&out.CreationTime, &out.UpdateTime); err != nil {
		return nil, err
	}
	return &out, nil
}

func (l *locations) Get(ctx context.Context, locationID string) (*model.Location, error) {
	row := l.db.QueryRowContext(ctx, `SELECT `+locationCols+` FROM locations WHERE location_id=$1`, locationID)
	return scanLocation(row)
}

func (l *locations) GetByName(ctx context.Context, name string) (*model.Location, error) {
	row := l.db.QueryRowContext(ctx, `SELECT `+locationCols+` FROM locations WHERE name=$1`, name)
	return scanLocation(row)
}

func (l *locations) List(ctx context.Context) ([]*model.Location, error) {
	rows, err := l.db.QueryContext(ctx, `SELECT `+locationCols+` FROM locations ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []*model.Location
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, loc)
	}
	return out, rows.Err()
}

func (l *locations) Update(ctx context.Context, in *model.Location) (*model.Location, error) {
	res, err := l.db.ExecContext(ctx, `
        UPDATE locations SET name=$1, category=$2, address=$3, lat=$4, lng=$5, description=$6,
               opening_hours=$7, image_url=$8, update_time=now()
        WHERE location_id=$9
    `, in.Name, in.Category, in.Address, in.Latitude, in.Longitude, in.Description,
		in.OpeningHours, in.ImageURL, in.LocationID)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, model.ErrNotFound
	}
	return l.Get(ctx, in.LocationID)
}

func (l *locations) SetARState(ctx context.Context, locationID string, supported bool, modelURL *string) error {
	res, err := l.db.ExecContext(ctx, `
        UPDATE locations SET ar_camera_supported=$1, model_url=$2, update_time=now() WHERE location_id=$3
    `, supported, modelURL, locationID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (l *locations) Delete(ctx context.Context, locationID string) error {
	res, err := l.db.ExecContext(ctx, `DELETE FROM locations WHERE location_id=$1`, locationID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

type rowScanner interface{ Scan(dest ...interface{}) error }

func scanLocation(row rowScanner) (*model.Location, error) {
	var out model.Location
	if err := row.Scan(&out.LocationID, &out.Name, &out.Category, &out.Address,
		&out.Latitude, &out.Longitude, &out.Description, &out.OpeningHours,
		&out.ARCameraSupported, &out.ModelURL, &out.ImageURL, &out.CreationTime, &out.UpdateTime); err != nil {
		return nil, notFound(err)
	}
	return &out, nil
}

// --- AR targets ---

type arTargets struct{ db *sql.DB }

const targetCols = `target_id, category, name, description, location_name,
       image_url, model_url, video_url, physical_width, creation_time, update_time`

func (a *arTargets) Upsert(ctx context.Context, in *model.ARTarget) (*model.ARTarget, error) {
	out := *in
	row := a.db.QueryRowContext(ctx, `
        INSERT INTO ar_targets (target_id, category, name, description, location_name,
                                image_url, model_url, video_url, physical_width)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        ON CONFLICT (target_id) DO UPDATE SET
            category=EXCLUDED.category, name=EXCLUDED.name, description=EXCLUDED.description,
            location_name=EXCLUDED.location_name, image_url=EXCLUDED.image_url,
            model_url=EXCLUDED.model_url, video_url=EXCLUDED.video_url,
            physical_width=EXCLUDED.physical_width, update_time=now()
        RETURNING creation_time, update_time
    `, out.TargetID, out.Category, out.Name, out.Description, out.LocationName,
		out.ImageURL, out.ModelURL, out.VideoURL, out.PhysicalWidth)
	if err := row.Scan(&out.CreationTime, &out.UpdateTime); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *arTargets) Get(ctx context.Context, targetID string) (*model.ARTarget, error) {
	row := a.db.QueryRowContext(ctx, `SELECT `+targetCols+` FROM ar_targets WHERE target_id=$1`, targetID)
	return scanTarget(row)
}

func (a *arTargets) List(ctx context.Context, category string) ([]*model.ARTarget, error) {
	query := `SELECT ` + targetCols + ` FROM ar_targets`
	var args []interface{}
	if category != "" {
		query += ` WHERE category=$1`
		args = append(args, category)
	}
	query += ` ORDER BY target_id`
	return a.queryTargets(ctx, query, args...)
}

func (a *arTargets) ListByLocation(ctx context.Context, locationName string) ([]*model.ARTarget, error) {
	return a.queryTargets(ctx, `SELECT `+targetCols+` FROM ar_targets WHERE location_name=$1 ORDER BY target_id`, locationName)
}

func (a *arTargets) queryTargets(ctx context.Context, query string, args ...interface{}) ([]*model.ARTarget, error) {
	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []*model.ARTarget
	for rows.Next() {
		t, err := scanTarget(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (a *arTargets) Delete(ctx context.Context, targetID string) error {
	res, err := a.db.ExecContext(ctx, `DELETE FROM ar_targets WHERE target_id=$1`, targetID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

func scanTarget(row rowScanner) (*model.ARTarget, error) {
	var out model.ARTarget
	if err := row.Scan(&out.TargetID, &out.Category, &out.Name, &out.Description,
		&out.LocationName, &out.ImageURL, &out.ModelURL, &out.VideoURL,
		&out.PhysicalWidth, &out.CreationTime, &out.UpdateTime); err != nil {
		return nil, notFound(err)
	}
	return &out, nil
}

// --- Marker images ---

type markerImages struct{ db *sql.DB }

func (m *markerImages) Put(ctx context.Context, in *model.MarkerImage) (*model.MarkerImage, error) {
	out := *in
	row := m.db.QueryRowContext(ctx, `
        INSERT INTO marker_images (location_name, name, image_url)
        VALUES ($1,$2,$3)
        ON CONFLICT (location_name) DO UPDATE SET
            name=EXCLUDED.name, image_url=EXCLUDED.image_url, update_time=now()
        RETURNING update_time
    `, out.LocationName, out.Name, out.ImageURL)
	if err := row.Scan(&out.UpdateTime); err != nil {
		return nil, err
	}
	return &out, nil
}

func (m *markerImages) Get(ctx context.Context, locationName string) (*model.MarkerImage, error) {
	var out model.MarkerImage
	row := m.db.QueryRowContext(ctx, `
        SELECT location_name, name, image_url, update_time FROM marker_images WHERE location_name=$1
    `, locationName)
	if err := row.Scan(&out.LocationName, &out.Name, &out.ImageURL, &out.UpdateTime); err != nil {
		return nil, notFound(err)
	}
	return &out, nil
}

func (m *markerImages) Delete(ctx context.Context, locationName string) error {
	res, err := m.db.ExecContext(ctx, `DELETE FROM marker_images WHERE location_name=$1`, locationName)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

// --- Events ---

type events struct{ db *sql.DB }

const eventCols = `event_id, title, description, location_id, custom_lat, custom_lng,
       start_date, end_date, recurring, recurrence_days, start_time, end_time, creation_time`

func (e *events) Create(ctx context.Context, in *model.Event) (*model.Event, error) {
	out := *in
	if out.EventID == "" {
		out.EventID = uuid.New().String()
	}
	days, err := marshalDays(out.RecurrenceDays)
	if err != nil {
		return nil, err
	}
	row := e.db.QueryRowContext(ctx, `
        INSERT INTO events (event_id, title, description, location_id, custom_lat, custom_lng,
                            start_date, end_date, recurring, recurrence_days, start_time, end_time)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
        RETURNING creation_time
    `, out.EventID, out.Title, out.Description, out.LocationID, out.CustomLat, out.CustomLng,
		out.StartDate, out.EndDate, out.Recurring, days, nullIfEmpty(out.StartTime), nullIfEmpty(out.EndTime))
	if err := row.Scan(&out.CreationTime); err != nil {
		return nil, err
	}
	return &out, nil
}

func (e *events) Get(ctx context.Context, eventID string) (*model.Event, error) {
	row := e.db.QueryRowContext(ctx, `SELECT `+eventCols+` FROM events WHERE event_id=$1`, eventID)
	return scanEvent(row)
}

func (e *events) List(ctx context.Context) ([]*model.Event, error) {
	rows, err := e.db.QueryContext(ctx, `SELECT `+eventCols+` FROM events ORDER BY creation_time DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []*model.Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

func (e *events) Update(ctx context.Context, in *model.Event) (*model.Event, error) {
	days, err := marshalDays(in.RecurrenceDays)
	if err != nil {
		return nil, err
	}
	res, err := e.db.ExecContext(ctx, `
        UPDATE events SET title=$1, description=$2, location_id=$3, custom_lat=$4, custom_lng=$5,
               start_date=$6, end_date=$7, recurring=$8, recurrence_days=$9, start_time=$10, end_time=$11
        WHERE event_id=$12
    `, in.Title, in.Description, in.LocationID, in.CustomLat, in.CustomLng,
		in.StartDate, in.EndDate, in.Recurring, days, nullIfEmpty(in.StartTime), nullIfEmpty(in.EndTime),
		in.EventID)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, model.ErrNotFound
	}
	return e.Get(ctx, in.EventID)
}

func (e *events) Delete(ctx context.Context, eventID string) error {
	res, err := e.db.ExecContext(ctx, `DELETE FROM events WHERE event_id=$1`, eventID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

func scanEvent(row rowScanner) (*model.Event, error) {
	var out model.Event
	var days, startTime, endTime sql.NullString
	if err := row.Scan(&out.EventID, &out.Title, &out.Description, &out.LocationID,
		&out.CustomLat, &out.CustomLng, &out.StartDate, &out.EndDate, &out.Recurring,
		&days, &startTime, &endTime, &out.CreationTime); err != nil {
		return nil, notFound(err)
	}
	out.StartTime = startTime.String
	out.EndTime = endTime.String
	if days.Valid && days.String != "" {
		if err := json.Unmarshal([]byte(days.String), &out.RecurrenceDays); err != nil {
			return nil, err
		}
	}
	return &out, nil
}

func marshalDays(days []string) (interface{}, error) {
	if len(days) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(days)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// --- Users ---

type users struct{ db *sql.DB }

const userCols = `user_id, email, display_name, user_type, status, creation_time, last_active_time`

func (u *users) Create(ctx context.Context, in *model.User) (*model.User, error) {
	out := *in
	if out.Status == "" {
		out.Status = "ACTIVE"
	}
	row := u.db.QueryRowContext(ctx, `
        INSERT INTO users (user_id, email, display_name, user_type, status, last_active_time)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING creation_time
    `, out.UserID, out.Email, out.DisplayName, out.UserType, out.Status, out.LastActiveTime)
	if err := row.Scan(&out.CreationTime); err != nil {
		return nil, err
	}
	return &out, nil
}

func (u *users) Get(ctx context.Context, userID string) (*model.User, error) {
	row := u.db.QueryRowContext(ctx, `SELECT `+userCols+` FROM users WHERE user_id=$1`, userID)
	return scanUser(row)
}

func (u *users) List(ctx context.Context) ([]*model.User, error) {
	rows, err := u.db.QueryContext(ctx, `SELECT `+userCols+` FROM users ORDER BY creation_time DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []*model.User
	for rows.Next() {
		usr, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, usr)
	}
	return out, rows.Err()
}

func (u *users) Delete(ctx context.Context, userID string) error {
	res, err := u.db.ExecContext(ctx, `DELETE FROM users WHERE user_id=$1`, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

func scanUser(row rowScanner) (*model.User, error) {
	var out model.User
	if err := row.Scan(&out.UserID, &out.Email, &out.DisplayName, &out.UserType,
		&out.Status, &out.CreationTime, &out.LastActiveTime); err != nil {
		return nil, notFound(err)
	}
	return &out, nil
}

// --- Archived users ---

type archivedUsers struct{ db *sql.DB }

const archivedCols = `user_id, email, display_name, user_type, status,
       creation_time, last_active_time, archived_at, archive_reason`

func (a *archivedUsers) Create(ctx context.Context, in *model.ArchivedUser) (*model.ArchivedUser, error) {
	out := *in
	if out.ArchivedAt.IsZero() {
		out.ArchivedAt = time.Now().UTC()
	}
	_, err := a.db.ExecContext(ctx, `
        INSERT INTO archived_users (user_id, email, display_name, user_type, status,
                                    creation_time, last_active_time, archived_at, archive_reason)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
    `, out.UserID, out.Email, out.DisplayName, out.UserType, out.Status,
		out.CreationTime, out.LastActiveTime, out.ArchivedAt, out.ArchiveReason)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *archivedUsers) List(ctx context.Context) ([]*model.ArchivedUser, error) {
	return a.query(ctx, `SELECT `+archivedCols+` FROM archived_users ORDER BY archived_at DESC`)
}

func (a *archivedUsers) ListOlderThan(ctx context.Context, cutoff time.Time) ([]*model.ArchivedUser, error) {
	return a.query(ctx, `SELECT `+archivedCols+` FROM archived_users WHERE archived_at < $1 ORDER BY archived_at`, cutoff)
}

func (a *archivedUsers) query(ctx context.Context, query string, args ...interface{}) ([]*model.ArchivedUser, error) {
	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []*model.ArchivedUser
	for rows.Next() {
		var au model.ArchivedUser
		if err := rows.Scan(&au.UserID, &au.Email, &au.DisplayName, &au.UserType,
			&au.Status, &au.CreationTime, &au.LastActiveTime, &au.ArchivedAt, &au.ArchiveReason); err != nil {
			return nil, err
		}
		out = append(out, &au)
	}
	return out, rows.Err()
}

func (a *archivedUsers) Delete(ctx context.Context, userID string) error {
	res, err := a.db.ExecContext(ctx, `DELETE FROM archived_users WHERE user_id=$1`, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

// --- Feedback ---

type feedback struct{ db *sql.DB }

func (f *feedback) Create(ctx context.Context, in *model.Feedback) (*model.Feedback, error) {
	out := *in
	if out.FeedbackID == "" {
		out.FeedbackID = uuid.New().String()
	}
	row := f.db.QueryRowContext(ctx, `
        INSERT INTO feedback (feedback_id, user_id, rating, comment, location_id)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING creation_time
    `, out.FeedbackID, out.UserID, out.Rating, out.Comment, out.LocationID)
	if err := row.Scan(&out.CreationTime); err != nil {
		return nil, err
	}
	return &out, nil
}

func (f *feedback) List(ctx context.Context) ([]*model.Feedback, error) {
	rows, err := f.db.QueryContext(ctx, `
        SELECT feedback_id, user_id, rating, comment, location_id, creation_time
        FROM feedback ORDER BY creation_time DESC
    `)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []*model.Feedback
	for rows.Next() {
		var fb model.Feedback
		if err := rows.Scan(&fb.FeedbackID, &fb.UserID, &fb.Rating, &fb.Comment,
			&fb.LocationID, &fb.CreationTime); err != nil {
			return nil, err
		}
		out = append(out, &fb)
	}
	return out, rows.Err()
}

// --- Overlays ---

type overlays struct{ db *sql.DB }

func (o *overlays) Create(ctx context.Context, in *model.Overlay) (*model.Overlay, error) {
	out := *in
	if out.OverlayID == "" {
		out.OverlayID = uuid.New().String()
	}
	row := o.db.QueryRowContext(ctx, `
        INSERT INTO overlays (overlay_id, name, geometry) VALUES ($1,$2,$3)
        RETURNING creation_time
    `, out.OverlayID, out.Name, string(out.Geometry))
	if err := row.Scan(&out.CreationTime); err != nil {
		return nil, err
	}
	return &out, nil
}

func (o *overlays) Get(ctx context.Context, overlayID string) (*model.Overlay, error) {
	var out model.Overlay
	var geom string
	row := o.db.QueryRowContext(ctx, `
        SELECT overlay_id, name, geometry, creation_time FROM overlays WHERE overlay_id=$1
    `, overlayID)
	if err := row.Scan(&out.OverlayID, &out.Name, &geom, &out.CreationTime); err != nil {
		return nil, notFound(err)
	}
	out.Geometry = json.RawMessage(geom)
	return &out, nil
}

func (o *overlays) List(ctx context.Context) ([]*model.Overlay, error) {
	rows, err := o.db.QueryContext(ctx, `
        SELECT overlay_id, name, geometry, creation_time FROM overlays ORDER BY creation_time DESC
    `)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []*model.Overlay
	for rows.Next() {
		var ov model.Overlay
		var geom string
		if err := rows.Scan(&ov.OverlayID, &ov.Name, &geom, &ov.CreationTime); err != nil {
			return nil, err
		}
		ov.Geometry = json.RawMessage(geom)
		out = append(out, &ov)
	}
	return out, rows.Err()
}

func (o *overlays) Delete(ctx context.Context, overlayID string) error {
	res, err := o.db.ExecContext(ctx, `DELETE FROM overlays WHERE overlay_id=$1`, overlayID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}
