package notifier

import (
	"context"
	"errors"
	"fmt"
	"html"
	"time"

	"github.com/go-resty/resty/v2"
)

type ResendConfig struct {
	APIKey string
	From   string
}

// ResendClient delivers the email channel through the Resend REST API.
type ResendClient struct {
	cfg  ResendConfig
	http *resty.Client
}

func NewResendClient(cfg ResendConfig, timeout time.Duration) *ResendClient {
	client := resty.New().
		SetBaseURL("https://api.resend.com").
		SetAuthToken(cfg.APIKey).
		SetTimeout(timeout)

	return &ResendClient{cfg: cfg, http: client}
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

func (c *ResendClient) Send(ctx context.Context, toAddress, subject, body string) error {
	if c.cfg.APIKey == "" {
		return errors.New("resend api key not configured")
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(resendRequest{
			From:    c.cfg.From,
			To:      []string{toAddress},
			Subject: subject,
			HTML:    renderAlertEmail(body),
		}).
		Post("/emails")
	if err != nil {
		return fmt.Errorf("resend: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("resend: status %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}

func renderAlertEmail(message string) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #10b981;">CareWatch - Alert Notification</h2>
  <div style="background-color: #f3f4f6; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <p style="font-size: 16px; margin: 0;">%s</p>
  </div>
  <p style="color: #6b7280; font-size: 14px;">
    This email was sent automatically by CareWatch.
  </p>
</div>`, html.EscapeString(message))
}
