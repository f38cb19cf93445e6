package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/carewatch/carewatch/module/core/domain"
)

type geofenceRepository interface {
	ListActiveByUser(ctx context.Context, userID string) ([]domain.Geofence, error)
}

type alertEmitter interface {
	Emit(ctx context.Context, candidate *domain.AlertCandidate) (*domain.Alert, error)
}

type GeofenceService struct {
	geofences geofenceRepository
	alerts    alertEmitter
	logger    *zap.Logger
}

func NewGeofenceService(geofences geofenceRepository, alerts alertEmitter, logger *zap.Logger) *GeofenceService {
	return &GeofenceService{
		geofences: geofences,
		alerts:    alerts,
		logger:    logger,
	}
}

// EvaluateSample runs every active geofence of the device's owner against the
// sample. Fences are evaluated independently: a failure on one is collected
// and does not stop the others.
func (s *GeofenceService) EvaluateSample(ctx context.Context, device *domain.Device, sample *domain.LocationSample) error {
	fences, err := s.geofences.ListActiveByUser(ctx, device.UserID)
	if err != nil {
		return fmt.Errorf("list geofences: %w", err)
	}

	var errs []error
	for i := range fences {
		fence := &fences[i]
		cl := Classify(sample.Location, fence)

		candidate := evaluateTransition(fence, cl)
		if candidate == nil {
			continue
		}
		candidate.UserID = device.UserID
		candidate.DeviceID = device.ID
		candidate.Location = sample.Location

		if _, err := s.alerts.Emit(ctx, candidate); err != nil {
			s.logger.Error("emit alert failed",
				zap.String("device_id", device.ID),
				zap.String("geofence_id", fence.ID),
				zap.Error(err),
			)
			errs = append(errs, fmt.Errorf("geofence %s: %w", fence.ID, err))
		}
	}
	return errors.Join(errs...)
}

// evaluateTransition maps containment to an alert candidate. The check is
// level-triggered: a sample outside a safe fence is a candidate every time,
// regardless of where the previous sample was, and the dedup window bounds
// re-alerting.
func evaluateTransition(fence *domain.Geofence, cl Classification) *domain.AlertCandidate {
	switch {
	case fence.Kind == domain.ZoneSafe && !cl.Inside && fence.AlertOnExit:
		return &domain.AlertCandidate{
			GeofenceID: fence.ID,
			Kind:       domain.AlertExit,
			Severity:   domain.SeverityHigh,
			Message:    fmt.Sprintf("Left %s (about %dm away)", fence.Name, int(math.Round(cl.Distance))),
		}
	case fence.Kind == domain.ZoneDanger && cl.Inside && fence.AlertOnEnter:
		return &domain.AlertCandidate{
			GeofenceID: fence.ID,
			Kind:       domain.AlertEnter,
			Severity:   domain.SeverityCritical,
			Message:    fmt.Sprintf("Entered danger area %q", fence.Name),
		}
	}
	return nil
}
