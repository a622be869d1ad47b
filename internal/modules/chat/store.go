// README: Message store backed by PostgreSQL.
package chat

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"hail/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, m *Message) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO messages (id, ride_id, sender_id, content, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		string(m.ID), string(m.RideID), string(m.SenderID), m.Content, m.CreatedAt,
	)
	return err
}

func (s *Store) ListByRide(ctx context.Context, rideID types.ID) ([]*Message, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, ride_id, sender_id, content, created_at
		FROM messages WHERE ride_id = $1
		ORDER BY created_at ASC`, string(rideID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.RideID, &m.SenderID, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}
