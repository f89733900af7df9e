package services

import (
	"context"
	"errors"

	"github.com/70nanon/officemate/internal/database"
	"github.com/70nanon/officemate/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrSeatNotFound    = errors.New("seat not found")
	ErrSeatTaken       = errors.New("seat is already occupied")
	ErrSeatNotOccupied = errors.New("seat is not occupied")
	ErrNotOccupant     = errors.New("seat is held by another user")
)

const seatColumns = `id, x, y, occupied_by, occupied_at, map_id, created_at, updated_at`

// defaultLayout is the fixed six-seat grid created by bulk initialization,
// in floor-plan pixel space.
var defaultLayout = [][2]int{
	{100, 100}, {250, 100}, {400, 100},
	{100, 250}, {250, 250}, {400, 250},
}

type SeatService struct {
	db *database.DB
}

func NewSeatService(db *database.DB) *SeatService {
	return &SeatService{db: db}
}

func (s *SeatService) List(ctx context.Context) ([]models.Seat, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+seatColumns+` FROM seats ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var seats []models.Seat
	for rows.Next() {
		var seat models.Seat
		if err := rows.Scan(
			&seat.ID, &seat.X, &seat.Y, &seat.OccupiedBy, &seat.OccupiedAt,
			&seat.MapID, &seat.CreatedAt, &seat.UpdatedAt,
		); err != nil {
			return nil, err
		}
		seats = append(seats, seat)
	}
	return seats, rows.Err()
}

func (s *SeatService) GetByID(ctx context.Context, seatID uuid.UUID) (*models.Seat, error) {
	var seat models.Seat
	err := s.db.Pool.QueryRow(ctx, `
		SELECT `+seatColumns+` FROM seats WHERE id = $1
	`, seatID).Scan(
		&seat.ID, &seat.X, &seat.Y, &seat.OccupiedBy, &seat.OccupiedAt,
		&seat.MapID, &seat.CreatedAt, &seat.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSeatNotFound
		}
		return nil, err
	}
	return &seat, nil
}

func (s *SeatService) Create(ctx context.Context, x, y int, mapID string) (*models.Seat, error) {
	var seat models.Seat
	err := s.db.Pool.QueryRow(ctx, `
		INSERT INTO seats (x, y, map_id)
		VALUES ($1, $2, $3)
		RETURNING `+seatColumns+`
	`, x, y, mapID).Scan(
		&seat.ID, &seat.X, &seat.Y, &seat.OccupiedBy, &seat.OccupiedAt,
		&seat.MapID, &seat.CreatedAt, &seat.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &seat, nil
}

// Claim assigns the seat to userID only if it is currently free. The
// condition lives in the UPDATE itself, so two concurrent claims cannot
// both land; the loser gets ErrSeatTaken.
func (s *SeatService) Claim(ctx context.Context, seatID, userID uuid.UUID) (*models.Seat, error) {
	var seat models.Seat
	err := s.db.Pool.QueryRow(ctx, `
		UPDATE seats
		SET occupied_by = $1, occupied_at = NOW(), updated_at = NOW()
		WHERE id = $2 AND occupied_by IS NULL
		RETURNING `+seatColumns+`
	`, userID, seatID).Scan(
		&seat.ID, &seat.X, &seat.Y, &seat.OccupiedBy, &seat.OccupiedAt,
		&seat.MapID, &seat.CreatedAt, &seat.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, s.classifyClaimFailure(ctx, seatID)
		}
		return nil, err
	}
	return &seat, nil
}

func (s *SeatService) classifyClaimFailure(ctx context.Context, seatID uuid.UUID) error {
	if _, err := s.GetByID(ctx, seatID); err != nil {
		return err
	}
	return ErrSeatTaken
}

// Release frees the seat only if userID currently holds it. A seat held
// by someone else is left untouched.
func (s *SeatService) Release(ctx context.Context, seatID, userID uuid.UUID) (*models.Seat, error) {
	var seat models.Seat
	err := s.db.Pool.QueryRow(ctx, `
		UPDATE seats
		SET occupied_by = NULL, occupied_at = NULL, updated_at = NOW()
		WHERE id = $1 AND occupied_by = $2
		RETURNING `+seatColumns+`
	`, seatID, userID).Scan(
		&seat.ID, &seat.X, &seat.Y, &seat.OccupiedBy, &seat.OccupiedAt,
		&seat.MapID, &seat.CreatedAt, &seat.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, s.classifyReleaseFailure(ctx, seatID)
		}
		return nil, err
	}
	return &seat, nil
}

func (s *SeatService) classifyReleaseFailure(ctx context.Context, seatID uuid.UUID) error {
	seat, err := s.GetByID(ctx, seatID)
	if err != nil {
		return err
	}
	if seat.OccupiedBy == nil {
		return ErrSeatNotOccupied
	}
	return ErrNotOccupant
}

func (s *SeatService) UpdatePosition(ctx context.Context, seatID uuid.UUID, x, y int) (*models.Seat, error) {
	var seat models.Seat
	err := s.db.Pool.QueryRow(ctx, `
		UPDATE seats SET x = $1, y = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING `+seatColumns+`
	`, x, y, seatID).Scan(
		&seat.ID, &seat.X, &seat.Y, &seat.OccupiedBy, &seat.OccupiedAt,
		&seat.MapID, &seat.CreatedAt, &seat.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSeatNotFound
		}
		return nil, err
	}
	return &seat, nil
}

func (s *SeatService) Delete(ctx context.Context, seatID uuid.UUID) error {
	tag, err := s.db.Pool.Exec(ctx, `DELETE FROM seats WHERE id = $1`, seatID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSeatNotFound
	}
	return nil
}

// InitializeLayout bulk-creates the fixed six-seat grid. It is NOT
// idempotent: callers are expected to invoke it only after observing an
// empty collection, and a repeat call appends six more seats.
func (s *SeatService) InitializeLayout(ctx context.Context, mapID string) ([]models.Seat, error) {
	seats := make([]models.Seat, 0, len(defaultLayout))
	for _, pos := range defaultLayout {
		seat, err := s.Create(ctx, pos[0], pos[1], mapID)
		if err != nil {
			return nil, err
		}
		seats = append(seats, *seat)
	}
	return seats, nil
}
