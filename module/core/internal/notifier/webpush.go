package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	webpush "github.com/SherClockHolmes/webpush-go"
)

type WebPushConfig struct {
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	Subscriber      string // mailto: contact address for the VAPID claims
}

// WebPushClient delivers the push channel to browser subscriptions. A
// contact's push token is the JSON-encoded subscription object the browser
// handed out at opt-in.
type WebPushClient struct {
	cfg WebPushConfig
	ttl int
}

func NewWebPushClient(cfg WebPushConfig) *WebPushClient {
	return &WebPushClient{cfg: cfg, ttl: 60}
}

type pushPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (c *WebPushClient) Send(ctx context.Context, token, title, body string) error {
	if c.cfg.VAPIDPublicKey == "" || c.cfg.VAPIDPrivateKey == "" {
		return errors.New("vapid keys not configured")
	}

	var sub webpush.Subscription
	if err := json.Unmarshal([]byte(token), &sub); err != nil {
		return fmt.Errorf("invalid push subscription: %w", err)
	}

	payload, err := json.Marshal(pushPayload{Title: title, Body: body})
	if err != nil {
		return fmt.Errorf("marshal push payload: %w", err)
	}

	resp, err := webpush.SendNotificationWithContext(ctx, payload, &sub, &webpush.Options{
		Subscriber:      c.cfg.Subscriber,
		VAPIDPublicKey:  c.cfg.VAPIDPublicKey,
		VAPIDPrivateKey: c.cfg.VAPIDPrivateKey,
		TTL:             c.ttl,
	})
	if err != nil {
		return fmt.Errorf("web push: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("web push: status %d", resp.StatusCode)
	}
	return nil
}
