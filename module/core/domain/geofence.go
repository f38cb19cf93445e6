package domain

type ZoneKind string

const (
	ZoneSafe   ZoneKind = "safe"
	ZoneDanger ZoneKind = "danger"
)

func (k ZoneKind) Valid() bool {
	return k == ZoneSafe || k == ZoneDanger
}

// Geofence is a named circular area with a polarity. Read-only to the
// pipeline; created and edited by the management API. Radius is always > 0.
type Geofence struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	Name         string     `json:"name"`
	Center       Coordinate `json:"center"`
	RadiusMeters float64    `json:"radius_meters"`
	Kind         ZoneKind   `json:"kind"`
	AlertOnEnter bool       `json:"alert_on_enter"`
	AlertOnExit  bool       `json:"alert_on_exit"`
	Active       bool       `json:"active"`
}
