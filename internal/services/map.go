package services

import (
	"context"
	"errors"

	"github.com/70nanon/officemate/internal/database"
	"github.com/70nanon/officemate/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrMapNotFound = errors.New("map not found")

type MapService struct {
	db *database.DB
}

func NewMapService(db *database.DB) *MapService {
	return &MapService{db: db}
}

func (s *MapService) Get(ctx context.Context, id string) (*models.OfficeMap, error) {
	var m models.OfficeMap
	err := s.db.Pool.QueryRow(ctx, `
		SELECT id, image_url, uploaded_by, uploaded_at, name
		FROM maps WHERE id = $1
	`, id).Scan(&m.ID, &m.ImageURL, &m.UploadedBy, &m.UploadedAt, &m.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMapNotFound
		}
		return nil, err
	}
	return &m, nil
}

// Save replaces the map document wholesale. Prior maps are not retained.
func (s *MapService) Save(ctx context.Context, id, imageURL string, uploadedBy uuid.UUID, name string) (*models.OfficeMap, error) {
	var m models.OfficeMap
	err := s.db.Pool.QueryRow(ctx, `
		INSERT INTO maps (id, image_url, uploaded_by, uploaded_at, name)
		VALUES ($1, $2, $3, NOW(), $4)
		ON CONFLICT (id) DO UPDATE
		SET image_url = EXCLUDED.image_url,
		    uploaded_by = EXCLUDED.uploaded_by,
		    uploaded_at = EXCLUDED.uploaded_at,
		    name = EXCLUDED.name
		RETURNING id, image_url, uploaded_by, uploaded_at, name
	`, id, imageURL, uploadedBy, name).Scan(
		&m.ID, &m.ImageURL, &m.UploadedBy, &m.UploadedAt, &m.Name,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
