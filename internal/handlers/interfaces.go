package handlers

import (
	"context"
	"time"

	"github.com/70nanon/officemate/internal/models"
	"github.com/70nanon/officemate/internal/oauth"
	"github.com/70nanon/officemate/internal/services"
	"github.com/70nanon/officemate/internal/sse"
	"github.com/google/uuid"
)

// UserServiceInterface defines the methods used by handlers from UserService
type UserServiceInterface interface {
	SignUp(ctx context.Context, email, password, displayName string) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	FindOrCreateFromOAuth(ctx context.Context, info *oauth.UserInfo) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateDisplayName(ctx context.Context, id uuid.UUID, displayName string) (*models.User, error)
	UpdateEmail(ctx context.Context, id uuid.UUID, email string) (*models.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, password string) error
}

// ProfileServiceInterface defines the methods used by handlers from ProfileService
type ProfileServiceInterface interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	SetDisplayName(ctx context.Context, userID uuid.UUID, displayName string) (*models.Profile, error)
	SetEmail(ctx context.Context, userID uuid.UUID, email string) (*models.Profile, error)
	SetAvatarURL(ctx context.Context, userID uuid.UUID, avatarURL string) (*models.Profile, error)
}

// SeatServiceInterface defines the methods used by handlers from SeatService
type SeatServiceInterface interface {
	List(ctx context.Context) ([]models.Seat, error)
	GetByID(ctx context.Context, seatID uuid.UUID) (*models.Seat, error)
	Create(ctx context.Context, x, y int, mapID string) (*models.Seat, error)
	Claim(ctx context.Context, seatID, userID uuid.UUID) (*models.Seat, error)
	Release(ctx context.Context, seatID, userID uuid.UUID) (*models.Seat, error)
	UpdatePosition(ctx context.Context, seatID uuid.UUID, x, y int) (*models.Seat, error)
	Delete(ctx context.Context, seatID uuid.UUID) error
	InitializeLayout(ctx context.Context, mapID string) ([]models.Seat, error)
}

// MapServiceInterface defines the methods used by handlers from MapService
type MapServiceInterface interface {
	Get(ctx context.Context, id string) (*models.OfficeMap, error)
	Save(ctx context.Context, id, imageURL string, uploadedBy uuid.UUID, name string) (*models.OfficeMap, error)
}

// TokenServiceInterface defines the methods used by handlers from TokenService
type TokenServiceInterface interface {
	StoreRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error
	ValidateRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error
}

// JWTServiceInterface defines the methods used by handlers from JWTService
type JWTServiceInterface interface {
	GenerateTokenPair(userID uuid.UUID, email string) (*services.TokenPair, error)
	ValidateRefreshToken(token string) (uuid.UUID, error)
	RefreshExpiry() time.Duration
}

// HubInterface defines the methods used by handlers from the SSE hub
type HubInterface interface {
	Register(client *sse.Client)
	Unregister(client *sse.Client)
	Subscribe(clientID, topic string)
	Unsubscribe(clientID, topic string)
	BroadcastSeatsSnapshot(seats []models.Seat)
	BroadcastMapUpdate(m *models.OfficeMap)
}
