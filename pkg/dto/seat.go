package dto

import (
	"time"

	"github.com/google/uuid"
)

type SeatResponse struct {
	ID         uuid.UUID  `json:"id"`
	X          int        `json:"x"`
	Y          int        `json:"y"`
	OccupiedBy *uuid.UUID `json:"occupied_by,omitempty"`
	OccupiedAt *time.Time `json:"occupied_at,omitempty"`
	MapID      string     `json:"map_id"`
	// State is the marker classification for the requesting session:
	// "available", "mine" or "occupied".
	State string `json:"state"`
}

type CreateSeatRequest struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type UpdateSeatPositionRequest struct {
	X int `json:"x"`
	Y int `json:"y"`
}
