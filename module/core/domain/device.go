package domain

import "time"

// Device is a tracked device carried by a care recipient. Last known position
// is updated on every accepted sample; devices referenced by alert history are
// soft-deleted via the active flag, never removed.
type Device struct {
	ID           string      `json:"id"`
	UserID       string      `json:"user_id"`
	Name         string      `json:"name"`
	Active       bool        `json:"active"`
	LastLocation *Coordinate `json:"last_location,omitempty"`
	LastSeenAt   *time.Time  `json:"last_seen_at,omitempty"`
}
