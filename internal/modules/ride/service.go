// README: Ride service owns the lifecycle: creation, claims, bids, and settlement.
package ride

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"time"

	"hail/internal/modules/fare"
	"hail/internal/observability"
	"hail/internal/types"
)

var (
	ErrBadRequest   = errors.New("bad request")
	ErrNotAllowed   = errors.New("actor not allowed")
	ErrInvalidState = errors.New("invalid state transition")
	ErrConflict     = errors.New("ride claim conflict")
	ErrNotFound     = errors.New("ride not found")
)

type Service struct {
	store *Store
	fare  *fare.Service
	log   *slog.Logger
}

func NewService(store *Store, fareSvc *fare.Service, log *slog.Logger) *Service {
	return &Service{store: store, fare: fareSvc, log: log}
}

type CreateCommand struct {
	Actor   types.Actor
	Pickup  types.Point
	Dropoff types.Point
}

type AcceptCommand struct {
	Actor  types.Actor
	RideID types.ID
}

type StartCommand struct {
	Actor  types.Actor
	RideID types.ID
}

type CompleteCommand struct {
	Actor  types.Actor
	RideID types.ID
}

type PlaceBidCommand struct {
	Actor  types.Actor
	RideID types.ID
	Amount types.Money
}

type AcceptBidCommand struct {
	Actor  types.Actor
	RideID types.ID
	BidID  types.ID
}

// Estimate quotes a trip without creating anything.
func (s *Service) Estimate(pickup, dropoff types.Point) (fare.Estimate, error) {
	est, err := s.fare.Estimate(pickup, dropoff)
	if err != nil {
		return fare.Estimate{}, ErrBadRequest
	}
	return est, nil
}

// Create runs the estimator and inserts the ride in requested status. The
// fare breakdown is computed exactly once and never changes afterwards.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*Ride, error) {
	if cmd.Actor.Role != types.RolePassenger {
		return nil, ErrNotAllowed
	}
	if cmd.Pickup.Address == "" || cmd.Dropoff.Address == "" {
		return nil, ErrBadRequest
	}
	est, err := s.fare.Estimate(cmd.Pickup, cmd.Dropoff)
	if err != nil {
		return nil, ErrBadRequest
	}

	now := time.Now()
	r := &Ride{
		ID:              newID(),
		PassengerID:     cmd.Actor.ID,
		Status:          StatusRequested,
		StatusVersion:   0,
		Pickup:          cmd.Pickup,
		Dropoff:         cmd.Dropoff,
		DistanceKm:      est.DistanceKm,
		DurationMinutes: est.DurationMinutes,
		TrafficFactor:   est.TrafficFactor,
		EstimatedFare:   est.EstimatedFare,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.store.Create(ctx, r); err != nil {
		return nil, err
	}
	observability.RidesCreated.Inc()
	_ = s.store.AppendEvent(ctx, &Event{
		RideID:     r.ID,
		FromStatus: StatusNone,
		ToStatus:   StatusRequested,
		ActorType:  string(types.RolePassenger),
		ActorID:    &cmd.Actor.ID,
		CreatedAt:  now,
	})
	return r, nil
}

// Accept is the direct claim path. Exactly one of any number of concurrent
// callers wins; a driver already holding an active ride is turned away with
// ErrConflict before the ride is touched.
func (s *Service) Accept(ctx context.Context, cmd AcceptCommand) (*Ride, error) {
	if cmd.Actor.Role != types.RoleDriver {
		return nil, ErrNotAllowed
	}
	r, err := s.store.Get(ctx, cmd.RideID)
	if err != nil {
		return nil, err
	}
	if r.Status != StatusRequested {
		return nil, ErrInvalidState
	}
	if err := s.store.Claim(ctx, r.ID, cmd.Actor.ID, r.StatusVersion); err != nil {
		if errors.Is(err, ErrConflict) {
			observability.ClaimConflicts.Inc()
		}
		return nil, err
	}
	observability.RideTransitions.WithLabelValues(string(StatusAccepted)).Inc()
	_ = s.store.AppendEvent(ctx, &Event{
		RideID:     r.ID,
		FromStatus: StatusRequested,
		ToStatus:   StatusAccepted,
		ActorType:  string(types.RoleDriver),
		ActorID:    &cmd.Actor.ID,
		CreatedAt:  time.Now(),
	})
	return s.store.Get(ctx, r.ID)
}

// Start moves an accepted ride into progress; only the owning driver may do so.
func (s *Service) Start(ctx context.Context, cmd StartCommand) (*Ride, error) {
	return s.driverTransition(ctx, cmd.Actor, cmd.RideID, StatusAccepted, StatusInProgress)
}

// Complete finishes the trip; the store settles actual_fare to the estimate
// when no bid was accepted earlier.
func (s *Service) Complete(ctx context.Context, cmd CompleteCommand) (*Ride, error) {
	return s.driverTransition(ctx, cmd.Actor, cmd.RideID, StatusInProgress, StatusCompleted)
}

func (s *Service) driverTransition(ctx context.Context, actor types.Actor, rideID types.ID, from, to Status) (*Ride, error) {
	if actor.Role != types.RoleDriver {
		return nil, ErrNotAllowed
	}
	r, err := s.store.Get(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if r.DriverID == nil || *r.DriverID != actor.ID {
		return nil, ErrNotAllowed
	}
	if r.Status != from || !CanTransition(from, to) {
		return nil, ErrInvalidState
	}
	ok, err := s.store.UpdateStatus(ctx, r.ID, from, to, r.StatusVersion)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrConflict
	}
	observability.RideTransitions.WithLabelValues(string(to)).Inc()
	_ = s.store.AppendEvent(ctx, &Event{
		RideID:     r.ID,
		FromStatus: from,
		ToStatus:   to,
		ActorType:  string(types.RoleDriver),
		ActorID:    &actor.ID,
		CreatedAt:  time.Now(),
	})
	return s.store.Get(ctx, r.ID)
}

// PlaceBid records or overwrites the driver's price offer on an open ride.
func (s *Service) PlaceBid(ctx context.Context, cmd PlaceBidCommand) (*Bid, error) {
	if cmd.Actor.Role != types.RoleDriver {
		return nil, ErrNotAllowed
	}
	if cmd.Amount.Amount <= 0 {
		return nil, ErrBadRequest
	}
	r, err := s.store.Get(ctx, cmd.RideID)
	if err != nil {
		return nil, err
	}
	if r.Status != StatusRequested {
		return nil, ErrInvalidState
	}
	amount := cmd.Amount
	if amount.Currency == "" {
		amount.Currency = r.EstimatedFare.Currency
	}
	b, err := s.store.UpsertBid(ctx, &Bid{
		ID:        newID(),
		RideID:    r.ID,
		DriverID:  cmd.Actor.ID,
		Amount:    amount,
		Status:    BidPending,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return nil, err
	}
	observability.BidsPlaced.Inc()
	return b, nil
}

// AcceptBid settles the ride on the chosen bid. The winning bid, the losing
// siblings, and the ride's driver/status/actual_fare all change in one
// transaction, guarded by the same single-active-ride check as Accept.
func (s *Service) AcceptBid(ctx context.Context, cmd AcceptBidCommand) (*Ride, error) {
	if cmd.Actor.Role != types.RolePassenger {
		return nil, ErrNotAllowed
	}
	r, err := s.store.Get(ctx, cmd.RideID)
	if err != nil {
		return nil, err
	}
	if r.PassengerID != cmd.Actor.ID {
		return nil, ErrNotAllowed
	}
	b, err := s.store.GetBid(ctx, cmd.BidID)
	if err != nil {
		return nil, err
	}
	if b.RideID != r.ID {
		return nil, ErrNotFound
	}
	if r.Status != StatusRequested || b.Status != BidPending {
		return nil, ErrInvalidState
	}
	if err := s.store.SettleBid(ctx, r, b); err != nil {
		if errors.Is(err, ErrConflict) {
			observability.ClaimConflicts.Inc()
		}
		return nil, err
	}
	observability.RideTransitions.WithLabelValues(string(StatusAccepted)).Inc()
	_ = s.store.AppendEvent(ctx, &Event{
		RideID:     r.ID,
		FromStatus: StatusRequested,
		ToStatus:   StatusAccepted,
		ActorType:  string(types.RolePassenger),
		ActorID:    &cmd.Actor.ID,
		CreatedAt:  time.Now(),
	})
	return s.store.Get(ctx, r.ID)
}

// List returns the rides visible to the actor per the Visible predicate.
func (s *Service) List(ctx context.Context, actor types.Actor) ([]*Ride, error) {
	return s.store.List(ctx, actor)
}

// Get returns one ride, restricted to actors the ride is visible to.
func (s *Service) Get(ctx context.Context, actor types.Actor, id types.ID) (*Ride, error) {
	r, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !Visible(actor, r) {
		return nil, ErrNotFound
	}
	return r, nil
}

// Bids lists the offers on a ride for its passenger.
func (s *Service) Bids(ctx context.Context, actor types.Actor, rideID types.ID) ([]*Bid, error) {
	r, err := s.store.Get(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if actor.Role != types.RolePassenger || r.PassengerID != actor.ID {
		return nil, ErrNotAllowed
	}
	return s.store.ListBids(ctx, rideID)
}

func newID() types.ID {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return types.ID(hex.EncodeToString(b[:]))
}
