package domain

import "time"

type Coordinate struct {
	Lat float64 `json:"latitude"`
	Lng float64 `json:"longitude"`
}

// LocationSample is one accepted position report. The per-device history is
// append-only; samples are never updated once recorded.
type LocationSample struct {
	DeviceID  string     `json:"device_id"`
	Location  Coordinate `json:"location"`
	Accuracy  *float64   `json:"accuracy,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}
