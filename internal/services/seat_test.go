package services

import (
	"context"
	"testing"
	"time"

	"github.com/70nanon/officemate/internal/database"
	"github.com/70nanon/officemate/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSeatService(t *testing.T) (*SeatService, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	db := &database.DB{Pool: mock}
	return NewSeatService(db), mock
}

func seatRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "x", "y", "occupied_by", "occupied_at", "map_id", "created_at", "updated_at",
	})
}

func TestSeatService_List(t *testing.T) {
	svc, mock := setupSeatService(t)
	ctx := context.Background()
	now := time.Now()
	holderID := uuid.New()

	rows := seatRows().
		AddRow(uuid.New(), 100, 100, nil, nil, models.DefaultMapID, now, now).
		AddRow(uuid.New(), 250, 100, &holderID, &now, models.DefaultMapID, now, now)

	mock.ExpectQuery(`SELECT .+ FROM seats ORDER BY created_at`).
		WillReturnRows(rows)

	seats, err := svc.List(ctx)

	require.NoError(t, err)
	require.Len(t, seats, 2)
	assert.Nil(t, seats[0].OccupiedBy)
	require.NotNil(t, seats[1].OccupiedBy)
	assert.Equal(t, holderID, *seats[1].OccupiedBy)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeatService_Claim_Free(t *testing.T) {
	svc, mock := setupSeatService(t)
	ctx := context.Background()
	seatID := uuid.New()
	userID := uuid.New()
	now := time.Now()

	rows := seatRows().
		AddRow(seatID, 100, 100, &userID, &now, models.DefaultMapID, now, now)

	mock.ExpectQuery(`UPDATE seats`).
		WithArgs(userID, seatID).
		WillReturnRows(rows)

	seat, err := svc.Claim(ctx, seatID, userID)

	require.NoError(t, err)
	require.NotNil(t, seat.OccupiedBy)
	assert.Equal(t, userID, *seat.OccupiedBy)
	assert.NotNil(t, seat.OccupiedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeatService_Claim_AlreadyTaken(t *testing.T) {
	svc, mock := setupSeatService(t)
	ctx := context.Background()
	seatID := uuid.New()
	userID := uuid.New()
	otherID := uuid.New()
	now := time.Now()

	// Conditional update misses because the seat is held
	mock.ExpectQuery(`UPDATE seats`).
		WithArgs(userID, seatID).
		WillReturnError(pgx.ErrNoRows)

	// Classification re-read finds the seat occupied by someone else
	rows := seatRows().
		AddRow(seatID, 100, 100, &otherID, &now, models.DefaultMapID, now, now)
	mock.ExpectQuery(`SELECT .+ FROM seats WHERE id`).
		WithArgs(seatID).
		WillReturnRows(rows)

	_, err := svc.Claim(ctx, seatID, userID)

	assert.ErrorIs(t, err, ErrSeatTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeatService_Claim_SeatNotFound(t *testing.T) {
	svc, mock := setupSeatService(t)
	ctx := context.Background()
	seatID := uuid.New()
	userID := uuid.New()

	mock.ExpectQuery(`UPDATE seats`).
		WithArgs(userID, seatID).
		WillReturnError(pgx.ErrNoRows)

	mock.ExpectQuery(`SELECT .+ FROM seats WHERE id`).
		WithArgs(seatID).
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.Claim(ctx, seatID, userID)

	assert.ErrorIs(t, err, ErrSeatNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeatService_Release_Held(t *testing.T) {
	svc, mock := setupSeatService(t)
	ctx := context.Background()
	seatID := uuid.New()
	userID := uuid.New()
	now := time.Now()

	rows := seatRows().
		AddRow(seatID, 100, 100, nil, nil, models.DefaultMapID, now, now)

	mock.ExpectQuery(`UPDATE seats`).
		WithArgs(seatID, userID).
		WillReturnRows(rows)

	seat, err := svc.Release(ctx, seatID, userID)

	require.NoError(t, err)
	assert.Nil(t, seat.OccupiedBy)
	assert.Nil(t, seat.OccupiedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeatService_Release_HeldByAnother(t *testing.T) {
	svc, mock := setupSeatService(t)
	ctx := context.Background()
	seatID := uuid.New()
	userID := uuid.New()
	otherID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`UPDATE seats`).
		WithArgs(seatID, userID).
		WillReturnError(pgx.ErrNoRows)

	rows := seatRows().
		AddRow(seatID, 100, 100, &otherID, &now, models.DefaultMapID, now, now)
	mock.ExpectQuery(`SELECT .+ FROM seats WHERE id`).
		WithArgs(seatID).
		WillReturnRows(rows)

	_, err := svc.Release(ctx, seatID, userID)

	assert.ErrorIs(t, err, ErrNotOccupant)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeatService_Release_NotOccupied(t *testing.T) {
	svc, mock := setupSeatService(t)
	ctx := context.Background()
	seatID := uuid.New()
	userID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`UPDATE seats`).
		WithArgs(seatID, userID).
		WillReturnError(pgx.ErrNoRows)

	rows := seatRows().
		AddRow(seatID, 100, 100, nil, nil, models.DefaultMapID, now, now)
	mock.ExpectQuery(`SELECT .+ FROM seats WHERE id`).
		WithArgs(seatID).
		WillReturnRows(rows)

	_, err := svc.Release(ctx, seatID, userID)

	assert.ErrorIs(t, err, ErrSeatNotOccupied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeatService_UpdatePosition(t *testing.T) {
	svc, mock := setupSeatService(t)
	ctx := context.Background()
	seatID := uuid.New()
	now := time.Now()

	rows := seatRows().
		AddRow(seatID, 300, 400, nil, nil, models.DefaultMapID, now, now)

	mock.ExpectQuery(`UPDATE seats SET x = .+, y = `).
		WithArgs(300, 400, seatID).
		WillReturnRows(rows)

	seat, err := svc.UpdatePosition(ctx, seatID, 300, 400)

	require.NoError(t, err)
	assert.Equal(t, 300, seat.X)
	assert.Equal(t, 400, seat.Y)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeatService_Delete_NotFound(t *testing.T) {
	svc, mock := setupSeatService(t)
	ctx := context.Background()
	seatID := uuid.New()

	mock.ExpectExec(`DELETE FROM seats`).
		WithArgs(seatID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := svc.Delete(ctx, seatID)

	assert.ErrorIs(t, err, ErrSeatNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeatService_InitializeLayout(t *testing.T) {
	svc, mock := setupSeatService(t)
	ctx := context.Background()
	now := time.Now()

	expected := [][2]int{
		{100, 100}, {250, 100}, {400, 100},
		{100, 250}, {250, 250}, {400, 250},
	}

	for _, pos := range expected {
		rows := seatRows().
			AddRow(uuid.New(), pos[0], pos[1], nil, nil, models.DefaultMapID, now, now)
		mock.ExpectQuery(`INSERT INTO seats`).
			WithArgs(pos[0], pos[1], models.DefaultMapID).
			WillReturnRows(rows)
	}

	seats, err := svc.InitializeLayout(ctx, models.DefaultMapID)

	require.NoError(t, err)
	require.Len(t, seats, 6)
	for i, pos := range expected {
		assert.Equal(t, pos[0], seats[i].X)
		assert.Equal(t, pos[1], seats[i].Y)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A second initialization inserts another full grid. The service does
// not guard against it; callers check for an empty collection first.
func TestSeatService_InitializeLayout_RepeatInserts(t *testing.T) {
	svc, mock := setupSeatService(t)
	ctx := context.Background()
	now := time.Now()

	layout := [][2]int{
		{100, 100}, {250, 100}, {400, 100},
		{100, 250}, {250, 250}, {400, 250},
	}

	for range 2 {
		for _, pos := range layout {
			rows := seatRows().
				AddRow(uuid.New(), pos[0], pos[1], nil, nil, models.DefaultMapID, now, now)
			mock.ExpectQuery(`INSERT INTO seats`).
				WithArgs(pos[0], pos[1], models.DefaultMapID).
				WillReturnRows(rows)
		}
	}

	first, err := svc.InitializeLayout(ctx, models.DefaultMapID)
	require.NoError(t, err)
	second, err := svc.InitializeLayout(ctx, models.DefaultMapID)
	require.NoError(t, err)

	assert.Len(t, first, 6)
	assert.Len(t, second, 6)
	assert.NoError(t, mock.ExpectationsWereMet())
}
