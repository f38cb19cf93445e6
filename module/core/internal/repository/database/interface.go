package database

import (
	"context"
	"time"

	"github.com/carewatch/carewatch/module/core/domain"
)

type DeviceRepository interface {
	GetByID(ctx context.Context, deviceID string) (*domain.Device, error)
	UpdateLastLocation(ctx context.Context, deviceID string, loc domain.Coordinate, at time.Time) error
	List(ctx context.Context) ([]domain.Device, error)
}

type LocationRepository interface {
	Insert(ctx context.Context, sample *domain.LocationSample) error
	ListByDevice(ctx context.Context, deviceID string, limit int) ([]domain.LocationSample, error)
}

type GeofenceRepository interface {
	ListActiveByUser(ctx context.Context, userID string) ([]domain.Geofence, error)
}

type AlertRepository interface {
	CountRecent(ctx context.Context, deviceID, geofenceID string, kind domain.AlertKind, since time.Time) (int, error)
	Insert(ctx context.Context, alert *domain.Alert, bucket time.Time) (bool, error)
	Resolve(ctx context.Context, alertID string, at time.Time) (*domain.Alert, error)
	ListByUser(ctx context.Context, userID string, unresolvedOnly bool, limit int) ([]domain.Alert, error)
}

type ContactRepository interface {
	ListByUser(ctx context.Context, userID string) ([]domain.Contact, error)
}
