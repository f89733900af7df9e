package dto

import (
	"time"

	"github.com/google/uuid"
)

type MapResponse struct {
	ID         string    `json:"id"`
	ImageURL   string    `json:"image_url"`
	UploadedBy uuid.UUID `json:"uploaded_by"`
	UploadedAt time.Time `json:"uploaded_at"`
	Name       string    `json:"name"`
}
