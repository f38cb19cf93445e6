package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/carewatch/carewatch/module/core/domain"
)

type deviceRepository interface {
	GetByID(ctx context.Context, deviceID string) (*domain.Device, error)
	UpdateLastLocation(ctx context.Context, deviceID string, loc domain.Coordinate, at time.Time) error
	List(ctx context.Context) ([]domain.Device, error)
}

type locationRepository interface {
	Insert(ctx context.Context, sample *domain.LocationSample) error
	ListByDevice(ctx context.Context, deviceID string, limit int) ([]domain.LocationSample, error)
}

type zoneEvaluator interface {
	EvaluateSample(ctx context.Context, device *domain.Device, sample *domain.LocationSample) error
}

type RecordLocationInput struct {
	DeviceID  string
	Lat       float64
	Lng       float64
	Accuracy  *float64
	Timestamp time.Time
}

type LocationService struct {
	devices   deviceRepository
	samples   locationRepository
	evaluator zoneEvaluator
	logger    *zap.Logger
}

func NewLocationService(devices deviceRepository, samples locationRepository, evaluator zoneEvaluator, logger *zap.Logger) *LocationService {
	return &LocationService{
		devices:   devices,
		samples:   samples,
		evaluator: evaluator,
		logger:    logger,
	}
}

// RecordLocation validates and persists one location sample, updates the
// device's last known position, then evaluates every active geofence of the
// owning user. Validation and unknown-device errors abort before any side
// effect; geofence evaluation failures are collected after the sample is
// already durable.
func (s *LocationService) RecordLocation(ctx context.Context, in *RecordLocationInput) error {
	if err := validateInput(in); err != nil {
		return err
	}

	device, err := s.devices.GetByID(ctx, in.DeviceID)
	if err != nil {
		return err
	}
	if !device.Active {
		return fmt.Errorf("%w: device %s is inactive", domain.ErrDeviceNotFound, in.DeviceID)
	}

	ts := in.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	sample := &domain.LocationSample{
		DeviceID:  in.DeviceID,
		Location:  domain.Coordinate{Lat: in.Lat, Lng: in.Lng},
		Accuracy:  in.Accuracy,
		Timestamp: ts,
	}

	if err := s.samples.Insert(ctx, sample); err != nil {
		return fmt.Errorf("%w: insert location sample: %v", domain.ErrPersistence, err)
	}

	// The append-only history is the durable record; a stale last-known
	// position is tolerable and the next sample corrects it.
	if err := s.devices.UpdateLastLocation(ctx, device.ID, sample.Location, ts); err != nil {
		s.logger.Warn("update last location failed",
			zap.String("device_id", device.ID),
			zap.Error(err),
		)
	}

	if err := s.evaluator.EvaluateSample(ctx, device, sample); err != nil {
		return fmt.Errorf("evaluate geofences: %w", err)
	}
	return nil
}

func (s *LocationService) GetAllDevices(ctx context.Context) ([]domain.Device, error) {
	return s.devices.List(ctx)
}

func (s *LocationService) GetHistory(ctx context.Context, deviceID string, limit int) ([]domain.LocationSample, error) {
	if deviceID == "" {
		return nil, fmt.Errorf("%w: device id is required", domain.ErrInvalidInput)
	}
	if limit <= 0 {
		limit = 100
	}
	return s.samples.ListByDevice(ctx, deviceID, limit)
}

func validateInput(in *RecordLocationInput) error {
	if in.DeviceID == "" {
		return fmt.Errorf("%w: device id is required", domain.ErrInvalidInput)
	}
	if math.IsNaN(in.Lat) || math.IsInf(in.Lat, 0) || in.Lat < -90 || in.Lat > 90 {
		return fmt.Errorf("%w: latitude must be between -90 and 90", domain.ErrInvalidInput)
	}
	if math.IsNaN(in.Lng) || math.IsInf(in.Lng, 0) || in.Lng < -180 || in.Lng > 180 {
		return fmt.Errorf("%w: longitude must be between -180 and 180", domain.ErrInvalidInput)
	}
	return nil
}
