package domain

import (
	"strconv"
	"strings"

	"github.com/paulmach/orb"
)

// Immutable geographic point (latitude, longitude in degrees).
type GeoPoint struct {
	Lat float64
	Lng float64
}

// Return the point as [lng, lat] for external API compatibility.
func (p GeoPoint) LngLat() []float64 { return []float64{p.Lng, p.Lat} }

// Return the point in orb's (x=lng, y=lat) order.
func (p GeoPoint) Orb() orb.Point { return orb.Point{p.Lng, p.Lat} }

func GeoPointFromOrb(pt orb.Point) GeoPoint {
	return GeoPoint{Lat: pt.Lat(), Lng: pt.Lon()}
}

// ParseGeoPoint accepts a literal "lat,lng" string.
// It reports false for anything that is not a valid coordinate pair.
func ParseGeoPoint(s string) (GeoPoint, bool) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return GeoPoint{}, false
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return GeoPoint{}, false
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return GeoPoint{}, false
	}

	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return GeoPoint{}, false
	}

	return GeoPoint{Lat: lat, Lng: lng}, true
}
