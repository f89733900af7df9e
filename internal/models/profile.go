package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the user-facing profile document, keyed by the identity's
// user id. Avatar URLs live here rather than on the identity row.
type Profile struct {
	UserID      uuid.UUID `json:"user_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	AvatarURL   *string   `json:"avatar_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
