// README: Driver position records.
package location

import (
	"time"

	"hail/internal/types"
)

type VehicleType string

const (
	VehicleCar      VehicleType = "car"
	VehicleBike     VehicleType = "bike"
	VehicleRickshaw VehicleType = "rickshaw"
)

func ValidVehicleType(v VehicleType) bool {
	switch v {
	case VehicleCar, VehicleBike, VehicleRickshaw:
		return true
	}
	return false
}

// Position is a driver's last-known coordinate.
type Position struct {
	DriverID    types.ID
	Point       types.Point
	VehicleType VehicleType
	UpdatedAt   time.Time
}

// Snapshot is the durable copy of a position appended to Postgres for later
// analysis; the live copy lives in Redis.
type Snapshot struct {
	DriverID    types.ID
	Point       types.Point
	VehicleType VehicleType
	RecordedAt  time.Time
}
