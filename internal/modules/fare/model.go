// README: Fare estimate result and tariff constants.
package fare

import "hail/internal/types"

const (
	// City tariff. Amounts are major units; the estimator rounds the final
	// figure to cents.
	baseFare      = 50.0
	perKmRate     = 25.0
	perMinuteRate = 3.0

	// Assumed average city speed before the traffic factor is applied.
	avgSpeedKmh = 20.0

	earthRadiusKm = 6371.0

	Currency = "BDT"
)

type Estimate struct {
	DistanceKm      float64
	DurationMinutes int
	TrafficFactor   float64
	TrafficStatus   string
	EstimatedFare   types.Money
}
