package postgres

import (
	"context"
	"database/sql"

	"github.com/carewatch/carewatch/module/core/domain"
	"github.com/carewatch/carewatch/module/core/internal/repository/database"
)

var _ database.GeofenceRepository = (*GeofenceRepo)(nil)

type GeofenceRepo struct {
	db *sql.DB
}

func NewGeofenceRepo(db *sql.DB) *GeofenceRepo {
	return &GeofenceRepo{db: db}
}

func (r *GeofenceRepo) ListActiveByUser(ctx context.Context, userID string) ([]domain.Geofence, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, center_lat, center_lng, radius_m, kind, alert_on_enter, alert_on_exit, active
		 FROM geofences WHERE user_id = $1 AND active = TRUE`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []domain.Geofence
	for rows.Next() {
		var g domain.Geofence
		if err := rows.Scan(&g.ID, &g.UserID, &g.Name, &g.Center.Lat, &g.Center.Lng, &g.RadiusMeters, &g.Kind, &g.AlertOnEnter, &g.AlertOnExit, &g.Active); err != nil {
			return nil, err
		}
		results = append(results, g)
	}
	return results, rows.Err()
}
