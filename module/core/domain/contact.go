package domain

import "time"

type Channel string

const (
	ChannelPush  Channel = "push"
	ChannelSMS   Channel = "sms"
	ChannelVoice Channel = "voice"
	ChannelEmail Channel = "email"
)

func (c Channel) Valid() bool {
	switch c {
	case ChannelPush, ChannelSMS, ChannelVoice, ChannelEmail:
		return true
	}
	return false
}

type ChannelPrefs struct {
	Push  bool `json:"push"`
	SMS   bool `json:"sms"`
	Voice bool `json:"voice"`
	Email bool `json:"email"`
}

// Contact is an emergency contact of the monitoring user. Read-only to the
// pipeline. A channel is attempted only when its flag is set and the contact
// has the matching address or token.
type Contact struct {
	ID        string       `json:"id"`
	UserID    string       `json:"user_id"`
	Name      string       `json:"name"`
	Phone     string       `json:"phone,omitempty"`
	Email     string       `json:"email,omitempty"`
	PushToken string       `json:"push_token,omitempty"`
	Channels  ChannelPrefs `json:"channels"`
	Primary   bool         `json:"primary"`
}

// DeliveryReport records the outcome of one channel attempt for one contact.
type DeliveryReport struct {
	ContactID   string    `json:"contact_id"`
	ContactName string    `json:"contact_name"`
	Channel     Channel   `json:"channel"`
	Success     bool      `json:"success"`
	Error       string    `json:"error,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}
