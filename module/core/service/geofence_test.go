package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/carewatch/carewatch/module/core/domain"
)

type mockGeofenceRepo struct {
	listActiveFn func(ctx context.Context, userID string) ([]domain.Geofence, error)
}

func (m *mockGeofenceRepo) ListActiveByUser(ctx context.Context, userID string) ([]domain.Geofence, error) {
	return m.listActiveFn(ctx, userID)
}

type mockAlertEmitter struct {
	emitFn func(ctx context.Context, c *domain.AlertCandidate) (*domain.Alert, error)
	calls  []*domain.AlertCandidate
}

func (m *mockAlertEmitter) Emit(ctx context.Context, c *domain.AlertCandidate) (*domain.Alert, error) {
	m.calls = append(m.calls, c)
	if m.emitFn != nil {
		return m.emitFn(ctx, c)
	}
	return &domain.Alert{ID: "a1"}, nil
}

var (
	homeCenter  = domain.Coordinate{Lat: 35.6595, Lng: 139.7005}
	nearHome    = domain.Coordinate{Lat: 35.6596, Lng: 139.7005} // ~11m from center
	farFromHome = domain.Coordinate{Lat: 35.6640, Lng: 139.7005} // ~500m from center
)

func safeFence(alertOnExit bool) domain.Geofence {
	return domain.Geofence{
		ID:           "f-home",
		UserID:       "u1",
		Name:         "Home",
		Center:       homeCenter,
		RadiusMeters: 200,
		Kind:         domain.ZoneSafe,
		AlertOnExit:  alertOnExit,
		Active:       true,
	}
}

func dangerFence(alertOnEnter bool) domain.Geofence {
	return domain.Geofence{
		ID:           "f-river",
		UserID:       "u1",
		Name:         "Riverbank",
		Center:       homeCenter,
		RadiusMeters: 200,
		Kind:         domain.ZoneDanger,
		AlertOnEnter: alertOnEnter,
		Active:       true,
	}
}

func testDevice() *domain.Device {
	return &domain.Device{ID: "d1", UserID: "u1", Name: "Tracker", Active: true}
}

func testSample(loc domain.Coordinate) *domain.LocationSample {
	return &domain.LocationSample{
		DeviceID:  "d1",
		Location:  loc,
		Timestamp: time.Unix(1715003456, 0),
	}
}

func TestEvaluateSample_TransitionTable(t *testing.T) {
	tests := []struct {
		name      string
		fence     domain.Geofence
		location  domain.Coordinate
		wantKind  domain.AlertKind
		wantSev   domain.Severity
		wantAlert bool
	}{
		{"safe outside with exit flag", safeFence(true), farFromHome, domain.AlertExit, domain.SeverityHigh, true},
		{"safe outside without exit flag", safeFence(false), farFromHome, "", "", false},
		{"safe inside", safeFence(true), nearHome, "", "", false},
		{"danger inside with enter flag", dangerFence(true), nearHome, domain.AlertEnter, domain.SeverityCritical, true},
		{"danger inside without enter flag", dangerFence(false), nearHome, "", "", false},
		{"danger outside", dangerFence(true), farFromHome, "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			emitter := &mockAlertEmitter{}
			repo := &mockGeofenceRepo{
				listActiveFn: func(_ context.Context, _ string) ([]domain.Geofence, error) {
					return []domain.Geofence{tt.fence}, nil
				},
			}
			svc := NewGeofenceService(repo, emitter, zap.NewNop())

			err := svc.EvaluateSample(context.Background(), testDevice(), testSample(tt.location))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if !tt.wantAlert {
				if len(emitter.calls) != 0 {
					t.Fatalf("expected no candidates, got %d", len(emitter.calls))
				}
				return
			}
			if len(emitter.calls) != 1 {
				t.Fatalf("expected 1 candidate, got %d", len(emitter.calls))
			}
			c := emitter.calls[0]
			if c.Kind != tt.wantKind {
				t.Errorf("expected kind %s, got %s", tt.wantKind, c.Kind)
			}
			if c.Severity != tt.wantSev {
				t.Errorf("expected severity %s, got %s", tt.wantSev, c.Severity)
			}
			if c.DeviceID != "d1" || c.UserID != "u1" {
				t.Errorf("candidate not stamped with device/user: %+v", c)
			}
			if c.GeofenceID != tt.fence.ID {
				t.Errorf("expected geofence %s, got %s", tt.fence.ID, c.GeofenceID)
			}
		})
	}
}

func TestEvaluateSample_MultipleFences(t *testing.T) {
	emitter := &mockAlertEmitter{}
	danger := dangerFence(true)
	danger.ID = "f-danger2"
	repo := &mockGeofenceRepo{
		listActiveFn: func(_ context.Context, _ string) ([]domain.Geofence, error) {
			// inside the danger fence and outside a distant safe fence
			far := safeFence(true)
			far.ID = "f-far"
			far.Center = domain.Coordinate{Lat: 36.0, Lng: 140.0}
			return []domain.Geofence{danger, far}, nil
		},
	}
	svc := NewGeofenceService(repo, emitter, zap.NewNop())

	err := svc.EvaluateSample(context.Background(), testDevice(), testSample(nearHome))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(emitter.calls) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(emitter.calls))
	}
}

func TestEvaluateSample_EmitErrorIsolated(t *testing.T) {
	// one fence fails to emit; the sibling must still be evaluated
	emitter := &mockAlertEmitter{
		emitFn: func(_ context.Context, c *domain.AlertCandidate) (*domain.Alert, error) {
			if c.GeofenceID == "f-bad" {
				return nil, errors.New("store down")
			}
			return &domain.Alert{ID: "a1"}, nil
		},
	}
	bad := dangerFence(true)
	bad.ID = "f-bad"
	good := dangerFence(true)
	good.ID = "f-good"
	repo := &mockGeofenceRepo{
		listActiveFn: func(_ context.Context, _ string) ([]domain.Geofence, error) {
			return []domain.Geofence{bad, good}, nil
		},
	}
	svc := NewGeofenceService(repo, emitter, zap.NewNop())

	err := svc.EvaluateSample(context.Background(), testDevice(), testSample(nearHome))
	if err == nil {
		t.Fatal("expected joined error")
	}
	if len(emitter.calls) != 2 {
		t.Fatalf("expected both fences attempted, got %d", len(emitter.calls))
	}
}

func TestEvaluateSample_RepoError(t *testing.T) {
	repo := &mockGeofenceRepo{
		listActiveFn: func(_ context.Context, _ string) ([]domain.Geofence, error) {
			return nil, errors.New("db error")
		},
	}
	svc := NewGeofenceService(repo, &mockAlertEmitter{}, zap.NewNop())

	err := svc.EvaluateSample(context.Background(), testDevice(), testSample(nearHome))
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestEvaluateSample_NoFences(t *testing.T) {
	emitter := &mockAlertEmitter{}
	repo := &mockGeofenceRepo{
		listActiveFn: func(_ context.Context, _ string) ([]domain.Geofence, error) {
			return nil, nil
		},
	}
	svc := NewGeofenceService(repo, emitter, zap.NewNop())

	if err := svc.EvaluateSample(context.Background(), testDevice(), testSample(nearHome)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(emitter.calls) != 0 {
		t.Fatalf("expected 0 candidates, got %d", len(emitter.calls))
	}
}
