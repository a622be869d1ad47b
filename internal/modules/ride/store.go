// README: Ride and bid store backed by PostgreSQL; all claim paths are serialized here.
package ride

import (
	"context"
	"errors"
	"hash/fnv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hail/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

const rideColumns = `
	id, passenger_id, driver_id, status, status_version,
	pickup_lat, pickup_lng, pickup_address,
	dropoff_lat, dropoff_lng, dropoff_address,
	distance_km, duration_minutes, traffic_factor,
	estimated_fare, actual_fare, currency,
	created_at, updated_at`

func (s *Store) Create(ctx context.Context, r *Ride) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO rides (
			id, passenger_id, driver_id, status, status_version,
			pickup_lat, pickup_lng, pickup_address,
			dropoff_lat, dropoff_lng, dropoff_address,
			distance_km, duration_minutes, traffic_factor,
			estimated_fare, actual_fare, currency,
			created_at, updated_at
		) VALUES (
			$1, $2, NULL, $3, $4,
			$5, $6, $7,
			$8, $9, $10,
			$11, $12, $13,
			$14, NULL, $15,
			$16, $16
		)`,
		string(r.ID),
		string(r.PassengerID),
		string(r.Status),
		r.StatusVersion,
		r.Pickup.Lat, r.Pickup.Lng, r.Pickup.Address,
		r.Dropoff.Lat, r.Dropoff.Lng, r.Dropoff.Address,
		r.DistanceKm, r.DurationMinutes, r.TrafficFactor,
		r.EstimatedFare.Amount, r.EstimatedFare.Currency,
		r.CreatedAt,
	)
	return err
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Ride, error) {
	row := s.db.QueryRow(ctx, `SELECT `+rideColumns+` FROM rides WHERE id = $1`, string(id))
	return scanRide(row)
}

// List returns the rides the actor may see, newest first. The WHERE clauses
// mirror the Visible predicate in visibility.go.
func (s *Store) List(ctx context.Context, actor types.Actor) ([]*Ride, error) {
	var (
		rows pgx.Rows
		err  error
	)
	switch actor.Role {
	case types.RolePassenger:
		rows, err = s.db.Query(ctx, `
			SELECT `+rideColumns+` FROM rides
			WHERE passenger_id = $1
			ORDER BY created_at DESC`, string(actor.ID))
	case types.RoleDriver:
		rows, err = s.db.Query(ctx, `
			SELECT `+rideColumns+` FROM rides
			WHERE status = 'requested'
			   OR (driver_id = $1 AND status IN ('accepted','in_progress'))
			ORDER BY created_at DESC`, string(actor.ID))
	default:
		return nil, ErrNotAllowed
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Ride
	for rows.Next() {
		r, err := scanRide(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// UpdateStatus performs the compare-and-swap transition used by start,
// complete, and stale cancellation. Completion settles actual_fare to the
// estimate when no bid was accepted; cancellation releases the driver so a
// driver is present exactly while the ride is accepted, in progress, or done.
func (s *Store) UpdateStatus(ctx context.Context, id types.ID, from, to Status, version int) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE rides
		SET status = $1,
		    status_version = status_version + 1,
		    actual_fare = CASE WHEN $1 = 'completed' THEN COALESCE(actual_fare, estimated_fare) ELSE actual_fare END,
		    driver_id = CASE WHEN $1 = 'cancelled' THEN NULL ELSE driver_id END,
		    updated_at = NOW()
		WHERE id = $2 AND status = $3 AND status_version = $4`,
		string(to), string(id), string(from), version,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// Claim assigns the ride to the driver, guarded against concurrent claims of
// the same ride and by the same driver: a per-driver advisory lock serializes
// claims by one driver across different rides, and the status_version CAS
// lets exactly one of several claimants of the same ride through.
func (s *Store) Claim(ctx context.Context, rideID, driverID types.ID, version int) error {
	return pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		if err := lockDriver(ctx, tx, driverID); err != nil {
			return err
		}
		busy, err := hasActiveByDriver(ctx, tx, driverID)
		if err != nil {
			return err
		}
		if busy {
			return ErrConflict
		}
		tag, err := tx.Exec(ctx, `
			UPDATE rides
			SET driver_id = $1,
			    status = 'accepted',
			    status_version = status_version + 1,
			    updated_at = NOW()
			WHERE id = $2 AND status = 'requested' AND status_version = $3`,
			string(driverID), string(rideID), version,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() != 1 {
			return ErrConflict
		}
		return nil
	})
}

// SettleBid is the atomic unit behind accept-bid: the ride is handed to the
// bidding driver at the bid price, the winning bid is marked accepted, and
// every sibling bid is rejected. It takes the same per-driver lock as Claim
// so a driver cannot win a bid while holding another active ride.
func (s *Store) SettleBid(ctx context.Context, r *Ride, b *Bid) error {
	return pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		if err := lockDriver(ctx, tx, b.DriverID); err != nil {
			return err
		}
		busy, err := hasActiveByDriver(ctx, tx, b.DriverID)
		if err != nil {
			return err
		}
		if busy {
			return ErrConflict
		}
		tag, err := tx.Exec(ctx, `
			UPDATE rides
			SET driver_id = $1,
			    status = 'accepted',
			    status_version = status_version + 1,
			    actual_fare = $2,
			    updated_at = NOW()
			WHERE id = $3 AND status = 'requested' AND status_version = $4`,
			string(b.DriverID), b.Amount.Amount, string(r.ID), r.StatusVersion,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() != 1 {
			return ErrConflict
		}
		if _, err := tx.Exec(ctx, `
			UPDATE bids SET status = 'accepted' WHERE id = $1`, string(b.ID)); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `
			UPDATE bids SET status = 'rejected' WHERE ride_id = $1 AND id <> $2`,
			string(r.ID), string(b.ID)); err != nil {
			return err
		}
		return nil
	})
}

// UpsertBid records or overwrites the driver's offer on a ride. A repeated
// bid replaces the amount and returns the bid to pending; it never creates a
// second row per (ride, driver). The insert selects the ride row FOR UPDATE
// with the status in the predicate, so a bid racing a claim or settlement
// either lands before the transition or sees zero rows and fails with
// ErrInvalidState.
func (s *Store) UpsertBid(ctx context.Context, b *Bid) (*Bid, error) {
	row := s.db.QueryRow(ctx, `
		INSERT INTO bids (id, ride_id, driver_id, amount, currency, status, created_at)
		SELECT $1, r.id, $3, $4, $5, 'pending', $6
		FROM rides r
		WHERE r.id = $2 AND r.status = 'requested'
		FOR UPDATE
		ON CONFLICT (ride_id, driver_id)
		DO UPDATE SET amount = EXCLUDED.amount, status = 'pending'
		RETURNING id, ride_id, driver_id, amount, currency, status, created_at`,
		string(b.ID), string(b.RideID), string(b.DriverID),
		b.Amount.Amount, b.Amount.Currency, b.CreatedAt,
	)
	out, err := scanBid(row)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidState
	}
	return out, err
}

func (s *Store) GetBid(ctx context.Context, id types.ID) (*Bid, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, ride_id, driver_id, amount, currency, status, created_at
		FROM bids WHERE id = $1`, string(id))
	return scanBid(row)
}

// ListBids returns the bids on a ride, cheapest first.
func (s *Store) ListBids(ctx context.Context, rideID types.ID) ([]*Bid, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, ride_id, driver_id, amount, currency, status, created_at
		FROM bids WHERE ride_id = $1
		ORDER BY amount ASC`, string(rideID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Bid
	for rows.Next() {
		b, err := scanBid(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *Store) HasActiveByDriver(ctx context.Context, driverID types.ID) (bool, error) {
	return hasActiveByDriver(ctx, s.db, driverID)
}

// ListStale returns non-terminal rides that have not progressed past the
// cutoff, for the cleanup monitor.
func (s *Store) ListStale(ctx context.Context, cutoff time.Time) ([]*Ride, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+rideColumns+` FROM rides
		WHERE status IN ('requested','accepted') AND updated_at < $1`, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Ride
	for rows.Next() {
		r, err := scanRide(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) AppendEvent(ctx context.Context, e *Event) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO ride_state_events (
			ride_id, from_status, to_status, actor_type, actor_id, created_at
		) VALUES ($1, $2, $3, $4, $5, $6)`,
		string(e.RideID),
		string(e.FromStatus),
		string(e.ToStatus),
		e.ActorType,
		toStringPtr(e.ActorID),
		e.CreatedAt,
	)
	return err
}

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func hasActiveByDriver(ctx context.Context, q querier, driverID types.ID) (bool, error) {
	row := q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM rides
			WHERE driver_id = $1 AND status IN ('accepted','in_progress')
		)`, string(driverID))
	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func lockDriver(ctx context.Context, tx pgx.Tx, driverID types.ID) error {
	_, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, driverLockKey(driverID))
	return err
}

// driverLockKey folds a driver id into the bigint keyspace of Postgres
// advisory locks.
func driverLockKey(driverID types.ID) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(driverID))
	return int64(h.Sum64())
}

func scanRide(row pgx.Row) (*Ride, error) {
	var (
		r          Ride
		driverID   *string
		actualFare *int64
		currency   string
	)
	err := row.Scan(
		&r.ID, &r.PassengerID, &driverID, &r.Status, &r.StatusVersion,
		&r.Pickup.Lat, &r.Pickup.Lng, &r.Pickup.Address,
		&r.Dropoff.Lat, &r.Dropoff.Lng, &r.Dropoff.Address,
		&r.DistanceKm, &r.DurationMinutes, &r.TrafficFactor,
		&r.EstimatedFare.Amount, &actualFare, &currency,
		&r.CreatedAt, &r.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	r.EstimatedFare.Currency = currency
	if driverID != nil {
		d := types.ID(*driverID)
		r.DriverID = &d
	}
	if actualFare != nil {
		m := types.Money{Amount: *actualFare, Currency: currency}
		r.ActualFare = &m
	}
	return &r, nil
}

func scanBid(row pgx.Row) (*Bid, error) {
	var b Bid
	err := row.Scan(
		&b.ID, &b.RideID, &b.DriverID,
		&b.Amount.Amount, &b.Amount.Currency,
		&b.Status, &b.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func toStringPtr(v *types.ID) *string {
	if v == nil {
		return nil
	}
	s := string(*v)
	return &s
}
