package service

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/carewatch/carewatch/module/core/domain"
)

// DefaultChannelTimeout bounds one external gateway call so a slow channel
// cannot stall the whole dispatch.
const DefaultChannelTimeout = 5 * time.Second

type PushSender interface {
	Send(ctx context.Context, token, title, body string) error
}

type SMSSender interface {
	Send(ctx context.Context, toPhone, body string) error
}

type VoiceCaller interface {
	Call(ctx context.Context, toPhone, messageURL string) error
}

type EmailSender interface {
	Send(ctx context.Context, toAddress, subject, body string) error
}

type NotifierService struct {
	push    PushSender
	sms     SMSSender
	voice   VoiceCaller
	email   EmailSender
	baseURL string
	timeout time.Duration
	logger  *zap.Logger
}

func NewNotifierService(push PushSender, sms SMSSender, voice VoiceCaller, email EmailSender, baseURL string, timeout time.Duration, logger *zap.Logger) *NotifierService {
	if timeout <= 0 {
		timeout = DefaultChannelTimeout
	}
	return &NotifierService{
		push:    push,
		sms:     sms,
		voice:   voice,
		email:   email,
		baseURL: baseURL,
		timeout: timeout,
		logger:  logger,
	}
}

type channelAttempt struct {
	contact *domain.Contact
	channel domain.Channel
	send    func(ctx context.Context) error
}

// Dispatch attempts delivery across every enabled channel of every contact.
// All attempts run concurrently, each under its own timeout, and the report
// is returned only after every attempt has settled. One channel failing
// never prevents another from being tried.
func (s *NotifierService) Dispatch(ctx context.Context, alert *domain.Alert, contacts []domain.Contact) []domain.DeliveryReport {
	subject := fmt.Sprintf("[Emergency] %s - CareWatch", kindLabel(alert.Kind))
	body := alert.Message
	if alert.Location != nil {
		body = fmt.Sprintf("%s\nLocation: %f, %f", alert.Message, alert.Location.Lat, alert.Location.Lng)
	}

	var attempts []channelAttempt
	for i := range contacts {
		c := &contacts[i]
		if c.Channels.Push && c.PushToken != "" {
			token := c.PushToken
			attempts = append(attempts, channelAttempt{c, domain.ChannelPush, func(ctx context.Context) error {
				return s.push.Send(ctx, token, subject, body)
			}})
		}
		if c.Channels.SMS && c.Phone != "" {
			phone := c.Phone
			attempts = append(attempts, channelAttempt{c, domain.ChannelSMS, func(ctx context.Context) error {
				return s.sms.Send(ctx, phone, body)
			}})
		}
		if c.Channels.Voice && c.Phone != "" {
			phone := c.Phone
			messageURL := s.baseURL + "/twiml?message=" + url.QueryEscape(body)
			attempts = append(attempts, channelAttempt{c, domain.ChannelVoice, func(ctx context.Context) error {
				return s.voice.Call(ctx, phone, messageURL)
			}})
		}
		if c.Channels.Email && c.Email != "" {
			addr := c.Email
			attempts = append(attempts, channelAttempt{c, domain.ChannelEmail, func(ctx context.Context) error {
				return s.email.Send(ctx, addr, subject, body)
			}})
		}
	}

	reports := make([]domain.DeliveryReport, len(attempts))
	var wg sync.WaitGroup
	for i, a := range attempts {
		wg.Add(1)
		go func(i int, a channelAttempt) {
			defer wg.Done()

			cctx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()

			report := domain.DeliveryReport{
				ContactID:   a.contact.ID,
				ContactName: a.contact.Name,
				Channel:     a.channel,
				Timestamp:   time.Now(),
			}
			if err := a.send(cctx); err != nil {
				report.Error = err.Error()
			} else {
				report.Success = true
			}
			reports[i] = report
		}(i, a)
	}
	wg.Wait()

	return reports
}

func kindLabel(k domain.AlertKind) string {
	switch k {
	case domain.AlertExit:
		return "Left safe area"
	case domain.AlertEnter:
		return "Entered danger area"
	}
	return string(k)
}
