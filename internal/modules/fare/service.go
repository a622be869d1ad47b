// README: Fare estimator: haversine distance, duration, and price breakdown.
package fare

import (
	"errors"
	"math"

	"hail/internal/types"
)

var ErrBadCoordinates = errors.New("invalid coordinates")

type Service struct {
	traffic Source
}

func NewService(traffic Source) *Service {
	return &Service{traffic: traffic}
}

// Estimate computes the fare quote for a trip. It is pure apart from the
// injected traffic source and has no failure mode beyond coordinate
// validation.
func (s *Service) Estimate(pickup, dropoff types.Point) (Estimate, error) {
	if !pickup.Valid() || !dropoff.Valid() {
		return Estimate{}, ErrBadCoordinates
	}

	distance := haversineKm(pickup, dropoff)
	factor, status := s.traffic.Factor()

	speed := avgSpeedKmh / factor
	minutes := int(distance / speed * 60)

	total := (baseFare + distance*perKmRate + float64(minutes)*perMinuteRate) * factor

	return Estimate{
		DistanceKm:      distance,
		DurationMinutes: minutes,
		TrafficFactor:   factor,
		TrafficStatus:   status,
		EstimatedFare:   types.MoneyFromFloat(total, Currency),
	}, nil
}

// haversineKm returns the great-circle distance in kilometres between two
// points specified in decimal degrees.
func haversineKm(a, b types.Point) float64 {
	dLat := degreesToRadians(b.Lat - a.Lat)
	dLng := degreesToRadians(b.Lng - a.Lng)

	rLat1 := degreesToRadians(a.Lat)
	rLat2 := degreesToRadians(b.Lat)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
