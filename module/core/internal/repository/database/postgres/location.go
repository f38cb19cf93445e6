package postgres

import (
	"context"
	"database/sql"

	"github.com/carewatch/carewatch/module/core/domain"
	"github.com/carewatch/carewatch/module/core/internal/repository/database"
)

var _ database.LocationRepository = (*LocationRepo)(nil)

type LocationRepo struct {
	db *sql.DB
}

func NewLocationRepo(db *sql.DB) *LocationRepo {
	return &LocationRepo{db: db}
}

func (r *LocationRepo) Insert(ctx context.Context, sample *domain.LocationSample) error {
	var accuracy sql.NullFloat64
	if sample.Accuracy != nil {
		accuracy = sql.NullFloat64{Float64: *sample.Accuracy, Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO location_history (device_id, latitude, longitude, accuracy, timestamp) VALUES ($1, $2, $3, $4, $5)`,
		sample.DeviceID, sample.Location.Lat, sample.Location.Lng, accuracy, sample.Timestamp,
	)
	return err
}

func (r *LocationRepo) ListByDevice(ctx context.Context, deviceID string, limit int) ([]domain.LocationSample, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT device_id, latitude, longitude, accuracy, timestamp FROM location_history WHERE device_id = $1 ORDER BY timestamp DESC LIMIT $2`,
		deviceID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []domain.LocationSample
	for rows.Next() {
		var s domain.LocationSample
		var accuracy sql.NullFloat64
		if err := rows.Scan(&s.DeviceID, &s.Location.Lat, &s.Location.Lng, &accuracy, &s.Timestamp); err != nil {
			return nil, err
		}
		if accuracy.Valid {
			a := accuracy.Float64
			s.Accuracy = &a
		}
		results = append(results, s)
	}
	return results, rows.Err()
}
