// README: Location store backed by Redis GEO for live positions and Postgres snapshots.
package location

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"hail/internal/types"
)

const (
	driverGeoKey  = "location:drivers"
	driverMetaKey = "location:drivers:meta"
)

type Store struct {
	db    *pgxpool.Pool
	redis *redis.Client
}

func NewStore(db *pgxpool.Pool, redis *redis.Client) *Store {
	return &Store{db: db, redis: redis}
}

type meta struct {
	VehicleType VehicleType `json:"vehicle_type"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func (s *Store) SetPosition(ctx context.Context, p Position) error {
	payload, err := json.Marshal(meta{VehicleType: p.VehicleType, UpdatedAt: p.UpdatedAt})
	if err != nil {
		return err
	}
	pipe := s.redis.Pipeline()
	pipe.GeoAdd(ctx, driverGeoKey, &redis.GeoLocation{
		Name:      string(p.DriverID),
		Longitude: p.Point.Lng,
		Latitude:  p.Point.Lat,
	})
	pipe.HSet(ctx, driverMetaKey, string(p.DriverID), payload)
	_, err = pipe.Exec(ctx)
	return err
}

// Nearby returns driver ids within radiusKm of a point, closest first.
func (s *Store) Nearby(ctx context.Context, p types.Point, radiusKm float64) ([]types.ID, error) {
	results, err := s.redis.GeoSearch(ctx, driverGeoKey, &redis.GeoSearchQuery{
		Longitude:  p.Lng,
		Latitude:   p.Lat,
		Radius:     radiusKm,
		RadiusUnit: "km",
		Sort:       "ASC",
	}).Result()
	if err != nil {
		return nil, err
	}
	ids := make([]types.ID, len(results))
	for i, r := range results {
		ids[i] = types.ID(r)
	}
	return ids, nil
}

// List returns every driver's last-known position.
func (s *Store) List(ctx context.Context) ([]Position, error) {
	metas, err := s.redis.HGetAll(ctx, driverMetaKey).Result()
	if err != nil {
		return nil, err
	}
	out := make([]Position, 0, len(metas))
	for id, raw := range metas {
		pos, err := s.redis.GeoPos(ctx, driverGeoKey, id).Result()
		if err != nil {
			return nil, err
		}
		if len(pos) == 0 || pos[0] == nil {
			continue
		}
		var m meta
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
			continue
		}
		out = append(out, Position{
			DriverID:    types.ID(id),
			Point:       types.Point{Lat: pos[0].Latitude, Lng: pos[0].Longitude},
			VehicleType: m.VehicleType,
			UpdatedAt:   m.UpdatedAt,
		})
	}
	return out, nil
}

func (s *Store) AppendSnapshot(ctx context.Context, snap Snapshot) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO driver_location_snapshots (driver_id, lat, lng, vehicle_type, recorded_at)
		VALUES ($1, $2, $3, $4, $5)`,
		string(snap.DriverID), snap.Point.Lat, snap.Point.Lng, string(snap.VehicleType), snap.RecordedAt,
	)
	return err
}
