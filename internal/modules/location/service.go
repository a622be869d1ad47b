// README: Location service handles driver position updates and lookups.
package location

import (
	"context"
	"errors"
	"time"

	"hail/internal/types"
)

var (
	ErrBadRequest = errors.New("bad request")
	ErrNotAllowed = errors.New("only drivers report locations")
)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

type Update struct {
	Actor       types.Actor
	Point       types.Point
	VehicleType VehicleType
}

// Report upserts the driver's live position and appends a durable snapshot.
func (s *Service) Report(ctx context.Context, u Update) (Position, error) {
	if u.Actor.Role != types.RoleDriver {
		return Position{}, ErrNotAllowed
	}
	if !u.Point.Valid() {
		return Position{}, ErrBadRequest
	}
	if u.VehicleType == "" {
		u.VehicleType = VehicleCar
	}
	if !ValidVehicleType(u.VehicleType) {
		return Position{}, ErrBadRequest
	}

	now := time.Now()
	p := Position{
		DriverID:    u.Actor.ID,
		Point:       u.Point,
		VehicleType: u.VehicleType,
		UpdatedAt:   now,
	}
	if err := s.store.SetPosition(ctx, p); err != nil {
		return Position{}, err
	}
	_ = s.store.AppendSnapshot(ctx, Snapshot{
		DriverID:    u.Actor.ID,
		Point:       u.Point,
		VehicleType: u.VehicleType,
		RecordedAt:  now,
	})
	return p, nil
}

func (s *Service) List(ctx context.Context) ([]Position, error) {
	return s.store.List(ctx)
}

func (s *Service) Nearby(ctx context.Context, p types.Point, radiusKm float64) ([]types.ID, error) {
	if !p.Valid() || radiusKm <= 0 {
		return nil, ErrBadRequest
	}
	return s.store.Nearby(ctx, p, radiusKm)
}
