package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/carewatch/carewatch/module/core/domain"
)

// DefaultDedupWindow is the interval during which an identical alert
// condition is suppressed rather than re-raised.
const DefaultDedupWindow = 5 * time.Minute

type alertRepository interface {
	// CountRecent reports how many alerts exist for the tuple since the
	// given instant, regardless of resolved state.
	CountRecent(ctx context.Context, deviceID, geofenceID string, kind domain.AlertKind, since time.Time) (int, error)
	// Insert persists the alert unless another alert already occupies the
	// same (device, geofence, kind, bucket) slot. Returns false when the
	// insert lost to the uniqueness constraint.
	Insert(ctx context.Context, alert *domain.Alert, bucket time.Time) (bool, error)
	Resolve(ctx context.Context, alertID string, at time.Time) (*domain.Alert, error)
	ListByUser(ctx context.Context, userID string, unresolvedOnly bool, limit int) ([]domain.Alert, error)
}

type contactRepository interface {
	ListByUser(ctx context.Context, userID string) ([]domain.Contact, error)
}

type alertPublisher interface {
	PublishCreated(ctx context.Context, alert *domain.Alert) error
	PublishResolved(ctx context.Context, alert *domain.Alert) error
}

type dispatcher interface {
	Dispatch(ctx context.Context, alert *domain.Alert, contacts []domain.Contact) []domain.DeliveryReport
}

type AlertService struct {
	alerts      alertRepository
	contacts    contactRepository
	publisher   alertPublisher
	notifier    dispatcher
	logger      *zap.Logger
	dedupWindow time.Duration
	now         func() time.Time
}

func NewAlertService(alerts alertRepository, contacts contactRepository, publisher alertPublisher, notifier dispatcher, dedupWindow time.Duration, logger *zap.Logger) *AlertService {
	if dedupWindow <= 0 {
		dedupWindow = DefaultDedupWindow
	}
	return &AlertService{
		alerts:      alerts,
		contacts:    contacts,
		publisher:   publisher,
		notifier:    notifier,
		logger:      logger,
		dedupWindow: dedupWindow,
		now:         time.Now,
	}
}

// Emit persists the candidate unless an equivalent alert was raised within
// the dedup window. Suppression is a normal outcome and returns (nil, nil).
// Once the alert row is durable, the event publish and the notification
// fanout are best-effort: neither can fail the caller.
func (s *AlertService) Emit(ctx context.Context, candidate *domain.AlertCandidate) (*domain.Alert, error) {
	now := s.now()

	// Cheap pre-filter. The uniqueness constraint on the insert below is
	// the authority under concurrent samples.
	recent, err := s.alerts.CountRecent(ctx, candidate.DeviceID, candidate.GeofenceID, candidate.Kind, now.Add(-s.dedupWindow))
	if err != nil {
		return nil, fmt.Errorf("%w: count recent alerts: %v", domain.ErrPersistence, err)
	}
	if recent > 0 {
		s.logger.Debug("alert suppressed by dedup window",
			zap.String("device_id", candidate.DeviceID),
			zap.String("geofence_id", candidate.GeofenceID),
			zap.String("kind", string(candidate.Kind)),
		)
		return nil, nil
	}

	geofenceID := candidate.GeofenceID
	location := candidate.Location
	alert := &domain.Alert{
		ID:         uuid.NewString(),
		UserID:     candidate.UserID,
		DeviceID:   candidate.DeviceID,
		GeofenceID: &geofenceID,
		Kind:       candidate.Kind,
		Severity:   candidate.Severity,
		Message:    candidate.Message,
		Location:   &location,
		Resolved:   false,
		CreatedAt:  now,
	}

	inserted, err := s.alerts.Insert(ctx, alert, now.Truncate(s.dedupWindow))
	if err != nil {
		return nil, fmt.Errorf("%w: insert alert: %v", domain.ErrPersistence, err)
	}
	if !inserted {
		// Lost a concurrent race for the same dedup bucket.
		s.logger.Debug("alert suppressed by insert conflict",
			zap.String("device_id", candidate.DeviceID),
			zap.String("geofence_id", candidate.GeofenceID),
		)
		return nil, nil
	}

	if err := s.publisher.PublishCreated(ctx, alert); err != nil {
		s.logger.Warn("publish alert event failed",
			zap.String("alert_id", alert.ID),
			zap.Error(err),
		)
	}

	go s.fanout(alert)

	return alert, nil
}

// fanout runs detached from the emitting request: the alert is already
// durable, so channel failures only degrade the delivery report.
func (s *AlertService) fanout(alert *domain.Alert) {
	ctx := context.Background()

	contacts, err := s.contacts.ListByUser(ctx, alert.UserID)
	if err != nil {
		s.logger.Error("list contacts for fanout failed",
			zap.String("alert_id", alert.ID),
			zap.Error(err),
		)
		return
	}
	if len(contacts) == 0 {
		s.logger.Debug("no contacts to notify", zap.String("alert_id", alert.ID))
		return
	}

	reports := s.notifier.Dispatch(ctx, alert, contacts)

	delivered := 0
	for _, r := range reports {
		if r.Success {
			delivered++
			continue
		}
		s.logger.Warn("notification channel failed",
			zap.String("alert_id", alert.ID),
			zap.String("contact_id", r.ContactID),
			zap.String("channel", string(r.Channel)),
			zap.String("error", r.Error),
		)
	}
	s.logger.Info("alert fanout settled",
		zap.String("alert_id", alert.ID),
		zap.Int("attempted", len(reports)),
		zap.Int("delivered", delivered),
	)
}

// Resolve flips the resolved flag and publishes a resolved event on the
// owner's topic.
func (s *AlertService) Resolve(ctx context.Context, alertID string) (*domain.Alert, error) {
	alert, err := s.alerts.Resolve(ctx, alertID, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.publisher.PublishResolved(ctx, alert); err != nil {
		s.logger.Warn("publish resolved event failed",
			zap.String("alert_id", alert.ID),
			zap.Error(err),
		)
	}
	return alert, nil
}

func (s *AlertService) ListByUser(ctx context.Context, userID string, unresolvedOnly bool, limit int) ([]domain.Alert, error) {
	return s.alerts.ListByUser(ctx, userID, unresolvedOnly, limit)
}
