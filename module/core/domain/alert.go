package domain

import "time"

type AlertKind string

const (
	AlertEnter AlertKind = "geofence_enter"
	AlertExit  AlertKind = "geofence_exit"
)

func (k AlertKind) Valid() bool {
	return k == AlertEnter || k == AlertExit
}

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// Alert is a persisted alert record. Created only by the alert service;
// resolution is an external acknowledge action, never automatic.
type Alert struct {
	ID         string      `json:"id"`
	UserID     string      `json:"user_id"`
	DeviceID   string      `json:"device_id"`
	GeofenceID *string     `json:"geofence_id,omitempty"`
	Kind       AlertKind   `json:"kind"`
	Severity   Severity    `json:"severity"`
	Message    string      `json:"message"`
	Location   *Coordinate `json:"location,omitempty"`
	Resolved   bool        `json:"resolved"`
	CreatedAt  time.Time   `json:"created_at"`
	ResolvedAt *time.Time  `json:"resolved_at,omitempty"`
}

// AlertCandidate is a classified zone transition that has not yet passed
// deduplication.
type AlertCandidate struct {
	UserID     string
	DeviceID   string
	GeofenceID string
	Kind       AlertKind
	Severity   Severity
	Message    string
	Location   Coordinate
}
