package service

import (
	"math"

	"github.com/carewatch/carewatch/module/core/domain"
)

const earthRadiusMeters = 6371000

// DistanceMeters returns the great-circle distance between two coordinates
// using the haversine formula. Inputs are degrees; callers validate ranges
// before invocation.
func DistanceMeters(a, b domain.Coordinate) float64 {
	dLat := toRad(b.Lat - a.Lat)
	dLng := toRad(b.Lng - a.Lng)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}

type Classification struct {
	Inside   bool
	Distance float64
}

// Classify decides containment of a sample in a fence. The boundary is
// inside: distance exactly equal to the radius counts as contained.
func Classify(sample domain.Coordinate, fence *domain.Geofence) Classification {
	d := DistanceMeters(sample, fence.Center)
	return Classification{
		Inside:   d <= fence.RadiusMeters,
		Distance: d,
	}
}
