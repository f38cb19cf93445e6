package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/carewatch/carewatch/module/core/domain"
	"github.com/carewatch/carewatch/module/core/internal/repository/database"
)

var _ database.AlertRepository = (*AlertRepo)(nil)

type AlertRepo struct {
	db *sql.DB
}

func NewAlertRepo(db *sql.DB) *AlertRepo {
	return &AlertRepo{db: db}
}

func (r *AlertRepo) CountRecent(ctx context.Context, deviceID, geofenceID string, kind domain.AlertKind, since time.Time) (int, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM alerts WHERE device_id = $1 AND geofence_id = $2 AND kind = $3 AND created_at >= $4`,
		deviceID, geofenceID, kind, since,
	)

	var n int
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Insert relies on the unique index over (device_id, geofence_id, kind,
// dedup_bucket): two concurrent candidates for the same bucket cannot both
// land, and the loser reports zero rows affected.
func (r *AlertRepo) Insert(ctx context.Context, alert *domain.Alert, bucket time.Time) (bool, error) {
	var lat, lng sql.NullFloat64
	if alert.Location != nil {
		lat = sql.NullFloat64{Float64: alert.Location.Lat, Valid: true}
		lng = sql.NullFloat64{Float64: alert.Location.Lng, Valid: true}
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO alerts (id, user_id, device_id, geofence_id, kind, severity, message, location_lat, location_lng, resolved, created_at, dedup_bucket)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, FALSE, $10, $11)
		 ON CONFLICT (device_id, COALESCE(geofence_id, ''), kind, dedup_bucket) DO NOTHING`,
		alert.ID, alert.UserID, alert.DeviceID, alert.GeofenceID, alert.Kind, alert.Severity, alert.Message, lat, lng, alert.CreatedAt, bucket,
	)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *AlertRepo) Resolve(ctx context.Context, alertID string, at time.Time) (*domain.Alert, error) {
	row := r.db.QueryRowContext(ctx,
		`UPDATE alerts SET resolved = TRUE, resolved_at = COALESCE(resolved_at, $2) WHERE id = $1
		 RETURNING id, user_id, device_id, geofence_id, kind, severity, message, location_lat, location_lng, resolved, created_at, resolved_at`,
		alertID, at,
	)

	a, err := scanAlert(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: alert %s", domain.ErrNotFound, alertID)
	}
	return a, err
}

func (r *AlertRepo) ListByUser(ctx context.Context, userID string, unresolvedOnly bool, limit int) ([]domain.Alert, error) {
	query := `SELECT id, user_id, device_id, geofence_id, kind, severity, message, location_lat, location_lng, resolved, created_at, resolved_at
		 FROM alerts WHERE user_id = $1`
	if unresolvedOnly {
		query += ` AND resolved = FALSE`
	}
	query += ` ORDER BY created_at DESC LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []domain.Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *a)
	}
	return results, rows.Err()
}

func scanAlert(row rowScanner) (*domain.Alert, error) {
	var a domain.Alert
	var geofenceID sql.NullString
	var lat, lng sql.NullFloat64
	var resolvedAt sql.NullTime

	if err := row.Scan(&a.ID, &a.UserID, &a.DeviceID, &geofenceID, &a.Kind, &a.Severity, &a.Message, &lat, &lng, &a.Resolved, &a.CreatedAt, &resolvedAt); err != nil {
		return nil, err
	}
	if geofenceID.Valid {
		g := geofenceID.String
		a.GeofenceID = &g
	}
	if lat.Valid && lng.Valid {
		a.Location = &domain.Coordinate{Lat: lat.Float64, Lng: lng.Float64}
	}
	if resolvedAt.Valid {
		t := resolvedAt.Time
		a.ResolvedAt = &t
	}
	return &a, nil
}
