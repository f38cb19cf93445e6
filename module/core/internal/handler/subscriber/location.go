package subscriber

import (
	"context"
	"encoding/json"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/carewatch/carewatch/module/core/service"
)

const topicPattern = "care/device/+/location"

type intakeService interface {
	RecordLocation(ctx context.Context, in *service.RecordLocationInput) error
}

type locationMessage struct {
	DeviceID  string   `json:"device_id"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Accuracy  *float64 `json:"accuracy,omitempty"`
	Timestamp int64    `json:"timestamp"`
}

type LocationSubscriber struct {
	client mqtt.Client
	intake intakeService
	logger *zap.Logger
}

func NewLocationSubscriber(client mqtt.Client, intake intakeService, logger *zap.Logger) *LocationSubscriber {
	return &LocationSubscriber{
		client: client,
		intake: intake,
		logger: logger,
	}
}

func (s *LocationSubscriber) Start() error {
	token := s.client.Subscribe(topicPattern, 1, s.handleMessage)
	token.Wait()
	return token.Error()
}

func (s *LocationSubscriber) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	var raw locationMessage
	if err := json.Unmarshal(msg.Payload(), &raw); err != nil {
		s.logger.Warn("invalid location message", zap.String("topic", msg.Topic()), zap.Error(err))
		return
	}

	var ts time.Time
	if raw.Timestamp > 0 {
		ts = time.Unix(raw.Timestamp, 0)
	}

	in := &service.RecordLocationInput{
		DeviceID:  raw.DeviceID,
		Lat:       raw.Latitude,
		Lng:       raw.Longitude,
		Accuracy:  raw.Accuracy,
		Timestamp: ts,
	}

	if err := s.intake.RecordLocation(context.Background(), in); err != nil {
		s.logger.Warn("record location failed",
			zap.String("device_id", raw.DeviceID),
			zap.Error(err),
		)
	}
}
