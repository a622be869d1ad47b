// README: Ride-scoped chat message.
package chat

import (
	"time"

	"hail/internal/types"
)

type Message struct {
	ID        types.ID
	RideID    types.ID
	SenderID  types.ID
	Content   string
	CreatedAt time.Time
}
