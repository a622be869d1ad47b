// README: Common identifier and coordinate value objects shared across modules.
package types

import "math"

type ID string

// Point is a geographic coordinate with an optional free-text address.
type Point struct {
	Lat     float64
	Lng     float64
	Address string
}

// Valid reports whether the coordinate is finite and inside the WGS84 range.
func (p Point) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsInf(p.Lat, 0) || math.IsNaN(p.Lng) || math.IsInf(p.Lng, 0) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}
