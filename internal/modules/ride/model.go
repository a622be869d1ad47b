// README: Ride aggregate, bid ledger rows, and status definitions.
package ride

import (
	"time"

	"hail/internal/types"
)

type Status string

const (
	StatusNone       Status = "none"
	StatusRequested  Status = "requested"
	StatusAccepted   Status = "accepted"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// ActiveStatuses are the statuses a driver may hold at most one ride in.
var ActiveStatuses = []Status{StatusAccepted, StatusInProgress}

type Ride struct {
	ID              types.ID
	PassengerID     types.ID
	DriverID        *types.ID
	Status          Status
	StatusVersion   int
	Pickup          types.Point
	Dropoff         types.Point
	DistanceKm      float64
	DurationMinutes int
	TrafficFactor   float64
	EstimatedFare   types.Money
	ActualFare      *types.Money
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Active reports whether the ride counts against its driver's one-active-ride
// allowance.
func (r *Ride) Active() bool {
	return r.Status == StatusAccepted || r.Status == StatusInProgress
}

type BidStatus string

const (
	BidPending  BidStatus = "pending"
	BidAccepted BidStatus = "accepted"
	BidRejected BidStatus = "rejected"
)

type Bid struct {
	ID        types.ID
	RideID    types.ID
	DriverID  types.ID
	Amount    types.Money
	Status    BidStatus
	CreatedAt time.Time
}

type Event struct {
	ID         int64
	RideID     types.ID
	FromStatus Status
	ToStatus   Status
	ActorType  string
	ActorID    *types.ID
	CreatedAt  time.Time
}

// AllowedTransitions represents the ride lifecycle as code. Cancellation is
// reachable only before the trip starts; everything else moves forward.
var AllowedTransitions = map[Status][]Status{
	StatusRequested:  {StatusAccepted, StatusCancelled},
	StatusAccepted:   {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted},
}

func CanTransition(from, to Status) bool {
	next, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}
