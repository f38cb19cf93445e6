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

var _ database.DeviceRepository = (*DeviceRepo)(nil)

type DeviceRepo struct {
	db *sql.DB
}

func NewDeviceRepo(db *sql.DB) *DeviceRepo {
	return &DeviceRepo{db: db}
}

func (r *DeviceRepo) GetByID(ctx context.Context, deviceID string) (*domain.Device, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, active, last_lat, last_lng, last_seen_at FROM devices WHERE id = $1`,
		deviceID,
	)

	d, err := scanDevice(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrDeviceNotFound, deviceID)
	}
	return d, err
}

func (r *DeviceRepo) UpdateLastLocation(ctx context.Context, deviceID string, loc domain.Coordinate, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE devices SET last_lat = $2, last_lng = $3, last_seen_at = $4 WHERE id = $1`,
		deviceID, loc.Lat, loc.Lng, at,
	)
	return err
}

func (r *DeviceRepo) List(ctx context.Context) ([]domain.Device, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, active, last_lat, last_lng, last_seen_at FROM devices ORDER BY name`,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []domain.Device
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *d)
	}
	return results, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDevice(row rowScanner) (*domain.Device, error) {
	var d domain.Device
	var lat, lng sql.NullFloat64
	var seenAt sql.NullTime

	if err := row.Scan(&d.ID, &d.UserID, &d.Name, &d.Active, &lat, &lng, &seenAt); err != nil {
		return nil, err
	}
	if lat.Valid && lng.Valid {
		d.LastLocation = &domain.Coordinate{Lat: lat.Float64, Lng: lng.Float64}
	}
	if seenAt.Valid {
		t := seenAt.Time
		d.LastSeenAt = &t
	}
	return &d, nil
}
