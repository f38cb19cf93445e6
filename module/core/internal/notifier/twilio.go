package notifier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const smsPrefix = "[CareWatch] "

type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
}

// TwilioClient delivers the SMS and voice channels through the Twilio REST
// API. One client serves both; each call is an independent form post.
type TwilioClient struct {
	cfg  TwilioConfig
	http *resty.Client
}

func NewTwilioClient(cfg TwilioConfig, timeout time.Duration) *TwilioClient {
	client := resty.New().
		SetBaseURL("https://api.twilio.com/2010-04-01").
		SetBasicAuth(cfg.AccountSID, cfg.AuthToken).
		SetTimeout(timeout)

	return &TwilioClient{cfg: cfg, http: client}
}

func (c *TwilioClient) configured() error {
	if c.cfg.AccountSID == "" || c.cfg.AuthToken == "" || c.cfg.FromNumber == "" {
		return errors.New("twilio credentials not configured")
	}
	return nil
}

// Send delivers one SMS. The body carries the app prefix so recipients can
// recognize the sender number.
func (c *TwilioClient) Send(ctx context.Context, toPhone, body string) error {
	if err := c.configured(); err != nil {
		return err
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"From": c.cfg.FromNumber,
			"To":   toPhone,
			"Body": smsPrefix + body,
		}).
		Post(fmt.Sprintf("/Accounts/%s/Messages.json", c.cfg.AccountSID))
	if err != nil {
		return fmt.Errorf("twilio sms: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("twilio sms: status %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}

// Call places one voice call; Twilio fetches the spoken-word markup from
// messageURL when the call connects.
func (c *TwilioClient) Call(ctx context.Context, toPhone, messageURL string) error {
	if err := c.configured(); err != nil {
		return err
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"From": c.cfg.FromNumber,
			"To":   toPhone,
			"Url":  messageURL,
		}).
		Post(fmt.Sprintf("/Accounts/%s/Calls.json", c.cfg.AccountSID))
	if err != nil {
		return fmt.Errorf("twilio call: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("twilio call: status %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}
