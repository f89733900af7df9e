package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/70nanon/officemate/internal/database"
	"github.com/70nanon/officemate/internal/models"
	"github.com/70nanon/officemate/internal/oauth"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Fixtures provides factory methods for creating test data
type Fixtures struct {
	db      *database.DB
	counter int
}

// NewFixtures creates a new fixtures factory
func NewFixtures(db *database.DB) *Fixtures {
	return &Fixtures{db: db}
}

// CreateUser creates a password-provider test user with default values
func (f *Fixtures) CreateUser(t *testing.T, opts ...UserOption) *models.User {
	t.Helper()
	f.counter++

	// MinCost keeps fixture creation fast. Never do this outside tests.
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	hashStr := string(hash)

	user := &models.User{
		Email:        fmt.Sprintf("user%d@example.com", f.counter),
		DisplayName:  fmt.Sprintf("Test User %d", f.counter),
		PasswordHash: &hashStr,
		Provider:     models.ProviderPassword,
	}

	for _, opt := range opts {
		opt(user)
	}

	ctx := context.Background()
	err = f.db.Pool.QueryRow(ctx, `
		INSERT INTO users (email, display_name, password_hash, provider, provider_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, email, display_name, password_hash, provider, provider_id, created_at, updated_at
	`, user.Email, user.DisplayName, user.PasswordHash, user.Provider, user.ProviderID).Scan(
		&user.ID, &user.Email, &user.DisplayName, &user.PasswordHash,
		&user.Provider, &user.ProviderID, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	_, err = f.db.Pool.Exec(ctx, `
		INSERT INTO profiles (user_id, email, display_name)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO NOTHING
	`, user.ID, user.Email, user.DisplayName)
	if err != nil {
		t.Fatalf("failed to create profile: %v", err)
	}

	return user
}

// UserOption configures a test user
type UserOption func(*models.User)

// WithEmail sets the user's email
func WithEmail(email string) UserOption {
	return func(u *models.User) {
		u.Email = email
	}
}

// WithDisplayName sets the user's display name
func WithDisplayName(name string) UserOption {
	return func(u *models.User) {
		u.DisplayName = name
	}
}

// WithProvider sets the user's federated provider
func WithProvider(provider, providerID string) UserOption {
	return func(u *models.User) {
		u.Provider = provider
		u.ProviderID = &providerID
		u.PasswordHash = nil
	}
}

// CreateSeat creates a free seat on the default map
func (f *Fixtures) CreateSeat(t *testing.T, x, y int, opts ...SeatOption) *models.Seat {
	t.Helper()

	seat := &models.Seat{
		X:     x,
		Y:     y,
		MapID: models.DefaultMapID,
	}

	for _, opt := range opts {
		opt(seat)
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO seats (x, y, occupied_by, occupied_at, map_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, x, y, occupied_by, occupied_at, map_id, created_at, updated_at
	`, seat.X, seat.Y, seat.OccupiedBy, seat.OccupiedAt, seat.MapID).Scan(
		&seat.ID, &seat.X, &seat.Y, &seat.OccupiedBy, &seat.OccupiedAt,
		&seat.MapID, &seat.CreatedAt, &seat.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create seat: %v", err)
	}

	return seat
}

// SeatOption configures a test seat
type SeatOption func(*models.Seat)

// OccupiedBy marks the seat as claimed by the given user
func OccupiedBy(user *models.User) SeatOption {
	return func(s *models.Seat) {
		s.OccupiedBy = &user.ID
		now := time.Now()
		s.OccupiedAt = &now
	}
}

// CreateMap upserts the default floor plan record
func (f *Fixtures) CreateMap(t *testing.T, uploadedBy *models.User, imageURL string) *models.OfficeMap {
	t.Helper()

	m := &models.OfficeMap{}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO maps (id, image_url, uploaded_by, name)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			image_url = EXCLUDED.image_url,
			uploaded_by = EXCLUDED.uploaded_by,
			uploaded_at = NOW(),
			name = EXCLUDED.name
		RETURNING id, image_url, uploaded_by, uploaded_at, name
	`, models.DefaultMapID, imageURL, uploadedBy.ID, "Test Floor Plan").Scan(
		&m.ID, &m.ImageURL, &m.UploadedBy, &m.UploadedAt, &m.Name,
	)
	if err != nil {
		t.Fatalf("failed to create map: %v", err)
	}

	return m
}

// CreateRefreshToken creates a test refresh token
func (f *Fixtures) CreateRefreshToken(t *testing.T, userID uuid.UUID, tokenHash string, expiresAt time.Time) {
	t.Helper()
	ctx := context.Background()

	_, err := f.db.Pool.Exec(ctx, `
		INSERT INTO refresh_tokens (user_id, token_hash, expires_at)
		VALUES ($1, $2, $3)
	`, userID, tokenHash, expiresAt)
	if err != nil {
		t.Fatalf("failed to create refresh token: %v", err)
	}
}

// OAuthUserInfo creates test OAuth user info
func OAuthUserInfo(email, name, provider, id string) *oauth.UserInfo {
	return &oauth.UserInfo{
		Email:     email,
		Name:      name,
		AvatarURL: "https://example.com/avatar.png",
		ID:        id,
		Provider:  provider,
	}
}
