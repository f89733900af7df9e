package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultMapID groups all seats under the single shared floor plan.
const DefaultMapID = "default"

// Seat visual states as seen by a given session.
const (
	SeatStateAvailable = "available"
	SeatStateMine      = "mine"
	SeatStateOccupied  = "occupied"
)

type Seat struct {
	ID         uuid.UUID  `json:"id"`
	X          int        `json:"x"`
	Y          int        `json:"y"`
	OccupiedBy *uuid.UUID `json:"occupied_by,omitempty"`
	OccupiedAt *time.Time `json:"occupied_at,omitempty"`
	MapID      string     `json:"map_id"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// StateFor classifies the seat for the given session user: empty seats are
// available, the session's own seat is "mine", anyone else's is occupied.
func (s *Seat) StateFor(userID uuid.UUID) string {
	switch {
	case s.OccupiedBy == nil:
		return SeatStateAvailable
	case *s.OccupiedBy == userID:
		return SeatStateMine
	default:
		return SeatStateOccupied
	}
}
