package services

import (
	"context"
	"errors"

	"github.com/70nanon/officemate/internal/database"
	"github.com/70nanon/officemate/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrProfileNotFound = errors.New("profile not found")

const profileColumns = `user_id, email, display_name, avatar_url, created_at, updated_at`

// ProfileService manages the profile documents. Writes are merges: a
// missing document is created on first save, matching the store the
// application replaced.
type ProfileService struct {
	db *database.DB
}

func NewProfileService(db *database.DB) *ProfileService {
	return &ProfileService{db: db}
}

func (s *ProfileService) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	var p models.Profile
	err := s.db.Pool.QueryRow(ctx, `
		SELECT `+profileColumns+` FROM profiles WHERE user_id = $1
	`, userID).Scan(
		&p.UserID, &p.Email, &p.DisplayName, &p.AvatarURL, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *ProfileService) SetDisplayName(ctx context.Context, userID uuid.UUID, displayName string) (*models.Profile, error) {
	var p models.Profile
	err := s.db.Pool.QueryRow(ctx, `
		INSERT INTO profiles (user_id, email, display_name)
		VALUES ($1, '', $2)
		ON CONFLICT (user_id) DO UPDATE
		SET display_name = EXCLUDED.display_name, updated_at = NOW()
		RETURNING `+profileColumns+`
	`, userID, displayName).Scan(
		&p.UserID, &p.Email, &p.DisplayName, &p.AvatarURL, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ProfileService) SetEmail(ctx context.Context, userID uuid.UUID, email string) (*models.Profile, error) {
	var p models.Profile
	err := s.db.Pool.QueryRow(ctx, `
		INSERT INTO profiles (user_id, email, display_name)
		VALUES ($1, $2, '')
		ON CONFLICT (user_id) DO UPDATE
		SET email = EXCLUDED.email, updated_at = NOW()
		RETURNING `+profileColumns+`
	`, userID, email).Scan(
		&p.UserID, &p.Email, &p.DisplayName, &p.AvatarURL, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ProfileService) SetAvatarURL(ctx context.Context, userID uuid.UUID, avatarURL string) (*models.Profile, error) {
	var p models.Profile
	err := s.db.Pool.QueryRow(ctx, `
		INSERT INTO profiles (user_id, email, display_name, avatar_url)
		VALUES ($1, '', '', $2)
		ON CONFLICT (user_id) DO UPDATE
		SET avatar_url = EXCLUDED.avatar_url, updated_at = NOW()
		RETURNING `+profileColumns+`
	`, userID, avatarURL).Scan(
		&p.UserID, &p.Email, &p.DisplayName, &p.AvatarURL, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
