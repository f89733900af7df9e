package models

import (
	"time"

	"github.com/google/uuid"
)

// OfficeMap is the shared floor-plan document. Exactly one row (id
// "default") is current; saving replaces it wholesale.
type OfficeMap struct {
	ID         string    `json:"id"`
	ImageURL   string    `json:"image_url"`
	UploadedBy uuid.UUID `json:"uploaded_by"`
	UploadedAt time.Time `json:"uploaded_at"`
	Name       string    `json:"name"`
}
