// README: Chat service stores ride messages; only ride participants may read or write.
package chat

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"hail/internal/modules/ride"
	"hail/internal/types"
)

var (
	ErrBadRequest = errors.New("bad request")
	ErrNotAllowed = errors.New("actor not a ride participant")
)

// RideLookup is the slice of the ride store chat needs for authorization.
type RideLookup interface {
	Get(ctx context.Context, id types.ID) (*ride.Ride, error)
}

type Service struct {
	store *Store
	rides RideLookup
}

func NewService(store *Store, rides RideLookup) *Service {
	return &Service{store: store, rides: rides}
}

func (s *Service) Post(ctx context.Context, actor types.Actor, rideID types.ID, content string) (*Message, error) {
	if content == "" {
		return nil, ErrBadRequest
	}
	if err := s.authorize(ctx, actor, rideID); err != nil {
		return nil, err
	}
	m := &Message{
		ID:        newID(),
		RideID:    rideID,
		SenderID:  actor.ID,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := s.store.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Service) List(ctx context.Context, actor types.Actor, rideID types.ID) ([]*Message, error) {
	if err := s.authorize(ctx, actor, rideID); err != nil {
		return nil, err
	}
	return s.store.ListByRide(ctx, rideID)
}

func (s *Service) authorize(ctx context.Context, actor types.Actor, rideID types.ID) error {
	r, err := s.rides.Get(ctx, rideID)
	if err != nil {
		return err
	}
	if r.PassengerID == actor.ID {
		return nil
	}
	if r.DriverID != nil && *r.DriverID == actor.ID {
		return nil
	}
	return ErrNotAllowed
}

func newID() types.ID {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return types.ID(hex.EncodeToString(b[:]))
}
