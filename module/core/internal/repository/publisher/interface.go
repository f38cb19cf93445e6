package publisher

import (
	"context"

	"github.com/carewatch/carewatch/module/core/domain"
)

// AlertPublisher fans persisted alerts and resolved-flag changes out to
// realtime subscribers, keyed by the owning user.
type AlertPublisher interface {
	PublishCreated(ctx context.Context, alert *domain.Alert) error
	PublishResolved(ctx context.Context, alert *domain.Alert) error
}
