package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/carewatch/carewatch/module/core/domain"
	"github.com/carewatch/carewatch/module/core/internal/repository/publisher"
)

var _ publisher.AlertPublisher = (*AlertPublisher)(nil)

const (
	exchangeName = "care.events"

	eventAlertCreated  = "alert_created"
	eventAlertResolved = "alert_resolved"
)

// AlertPublisher publishes alert lifecycle events on a topic exchange with
// the owning user in the routing key, so a dashboard can bind
// "alerts.<user_id>" and receive only its own events.
type AlertPublisher struct {
	ch *amqp.Channel
}

func NewAlertPublisher(conn *amqp.Connection) (*AlertPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchangeName, "topic", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &AlertPublisher{ch: ch}, nil
}

type alertEvent struct {
	Event string        `json:"event"`
	Alert *domain.Alert `json:"alert"`
}

func (p *AlertPublisher) PublishCreated(ctx context.Context, alert *domain.Alert) error {
	return p.publish(ctx, eventAlertCreated, alert)
}

func (p *AlertPublisher) PublishResolved(ctx context.Context, alert *domain.Alert) error {
	return p.publish(ctx, eventAlertResolved, alert)
}

func (p *AlertPublisher) publish(ctx context.Context, event string, alert *domain.Alert) error {
	body, err := json.Marshal(alertEvent{Event: event, Alert: alert})
	if err != nil {
		return fmt.Errorf("marshal alert event: %w", err)
	}

	key := fmt.Sprintf("alerts.%s", alert.UserID)
	return p.ch.PublishWithContext(ctx, exchangeName, key, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
}
