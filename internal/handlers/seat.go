package handlers

import (
	"context"
	"errors"

	"github.com/70nanon/officemate/internal/middleware"
	"github.com/70nanon/officemate/internal/models"
	"github.com/70nanon/officemate/internal/services"
	"github.com/70nanon/officemate/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/sirupsen/logrus"
)

type SeatHandler struct {
	seatService SeatServiceInterface
	hub         HubInterface
}

func NewSeatHandler(seatService SeatServiceInterface, hub HubInterface) *SeatHandler {
	return &SeatHandler{
		seatService: seatService,
		hub:         hub,
	}
}

func seatToResponse(seat *models.Seat, viewerID uuid.UUID) dto.SeatResponse {
	return dto.SeatResponse{
		ID:         seat.ID,
		X:          seat.X,
		Y:          seat.Y,
		OccupiedBy: seat.OccupiedBy,
		OccupiedAt: seat.OccupiedAt,
		MapID:      seat.MapID,
		State:      seat.StateFor(viewerID),
	}
}

func seatsToResponse(seats []models.Seat, viewerID uuid.UUID) []dto.SeatResponse {
	out := make([]dto.SeatResponse, 0, len(seats))
	for i := range seats {
		out = append(out, seatToResponse(&seats[i], viewerID))
	}
	return out
}

// broadcastSeats pushes the full current seat collection to every
// subscriber. Connected clients replace their local state wholesale, so
// a missed event never leaves them stale past the next mutation.
func (h *SeatHandler) broadcastSeats(ctx context.Context) {
	seats, err := h.seatService.List(ctx)
	if err != nil {
		logrus.WithError(err).Error("Failed to load seats for broadcast")
		return
	}
	h.hub.BroadcastSeatsSnapshot(seats)
}

func (h *SeatHandler) List(c *drift.Context) {
	userID := middleware.GetUserID(c)

	seats, err := h.seatService.List(context.Background())
	if err != nil {
		c.InternalServerError("failed to list seats")
		return
	}

	_ = c.JSON(200, seatsToResponse(seats, userID))
}

func (h *SeatHandler) Create(c *drift.Context) {
	var req dto.CreateSeatRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.X < 0 || req.Y < 0 {
		c.BadRequest("coordinates must be non-negative")
		return
	}

	ctx := context.Background()

	seat, err := h.seatService.Create(ctx, req.X, req.Y, models.DefaultMapID)
	if err != nil {
		c.InternalServerError("failed to create seat")
		return
	}

	h.broadcastSeats(ctx)

	_ = c.JSON(201, seatToResponse(seat, middleware.GetUserID(c)))
}

func (h *SeatHandler) Initialize(c *drift.Context) {
	ctx := context.Background()

	seats, err := h.seatService.InitializeLayout(ctx, models.DefaultMapID)
	if err != nil {
		c.InternalServerError("failed to initialize seats")
		return
	}

	h.broadcastSeats(ctx)

	_ = c.JSON(201, seatsToResponse(seats, middleware.GetUserID(c)))
}

func (h *SeatHandler) Claim(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	seatID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid seat id")
		return
	}

	ctx := context.Background()

	seat, err := h.seatService.Claim(ctx, seatID, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSeatNotFound):
			c.NotFound("seat not found")
		case errors.Is(err, services.ErrSeatTaken):
			_ = c.JSON(409, map[string]string{"error": "seat is already taken"})
		default:
			c.InternalServerError("failed to claim seat")
		}
		return
	}

	h.broadcastSeats(ctx)

	_ = c.JSON(200, seatToResponse(seat, userID))
}

func (h *SeatHandler) Release(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	seatID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid seat id")
		return
	}

	ctx := context.Background()

	seat, err := h.seatService.Release(ctx, seatID, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSeatNotFound):
			c.NotFound("seat not found")
		case errors.Is(err, services.ErrSeatNotOccupied):
			c.BadRequest("seat is not occupied")
		case errors.Is(err, services.ErrNotOccupant):
			c.Forbidden("seat is occupied by another user")
		default:
			c.InternalServerError("failed to release seat")
		}
		return
	}

	h.broadcastSeats(ctx)

	_ = c.JSON(200, seatToResponse(seat, userID))
}

func (h *SeatHandler) UpdatePosition(c *drift.Context) {
	seatID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid seat id")
		return
	}

	var req dto.UpdateSeatPositionRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.X < 0 || req.Y < 0 {
		c.BadRequest("coordinates must be non-negative")
		return
	}

	ctx := context.Background()

	seat, err := h.seatService.UpdatePosition(ctx, seatID, req.X, req.Y)
	if err != nil {
		if errors.Is(err, services.ErrSeatNotFound) {
			c.NotFound("seat not found")
			return
		}
		c.InternalServerError("failed to move seat")
		return
	}

	h.broadcastSeats(ctx)

	_ = c.JSON(200, seatToResponse(seat, middleware.GetUserID(c)))
}

func (h *SeatHandler) Delete(c *drift.Context) {
	seatID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid seat id")
		return
	}

	ctx := context.Background()

	if err := h.seatService.Delete(ctx, seatID); err != nil {
		if errors.Is(err, services.ErrSeatNotFound) {
			c.NotFound("seat not found")
			return
		}
		c.InternalServerError("failed to delete seat")
		return
	}

	h.broadcastSeats(ctx)

	_ = c.JSON(200, map[string]string{"message": "seat deleted"})
}
