package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/70nanon/officemate/internal/middleware"
	"github.com/70nanon/officemate/internal/models"
	"github.com/70nanon/officemate/internal/relay"
	"github.com/70nanon/officemate/internal/services"
	"github.com/70nanon/officemate/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/sirupsen/logrus"
)

// maxMapSize caps the floor plan upload at 10 MiB.
const maxMapSize = 10 << 20

type MapHandler struct {
	mapService MapServiceInterface
	uploader   relay.Uploader
	hub        HubInterface
}

func NewMapHandler(mapService MapServiceInterface, uploader relay.Uploader, hub HubInterface) *MapHandler {
	return &MapHandler{
		mapService: mapService,
		uploader:   uploader,
		hub:        hub,
	}
}

func (h *MapHandler) Get(c *drift.Context) {
	m, err := h.mapService.Get(context.Background(), models.DefaultMapID)
	if err != nil {
		if errors.Is(err, services.ErrMapNotFound) {
			c.NotFound("no map has been uploaded")
			return
		}
		c.InternalServerError("failed to load map")
		return
	}

	_ = c.JSON(200, dto.MapResponse{
		ID:         m.ID,
		ImageURL:   m.ImageURL,
		UploadedBy: m.UploadedBy,
		UploadedAt: m.UploadedAt,
		Name:       m.Name,
	})
}

func (h *MapHandler) Upload(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	if err := c.Request.ParseMultipartForm(maxMapSize); err != nil {
		c.BadRequest("invalid multipart form")
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.BadRequest("image file is required")
		return
	}
	defer file.Close()

	if header.Size > maxMapSize {
		c.BadRequest("image exceeds 10MB limit")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		c.BadRequest("file must be an image")
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxMapSize))
	if err != nil {
		c.InternalServerError("failed to read image")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	fileName := fmt.Sprintf("map_%d_%s", time.Now().Unix(), header.Filename)
	result, err := h.uploader.Upload(ctx, fileName, contentType, data)
	if err != nil {
		logrus.WithError(err).Error("Map upload failed")
		_ = c.JSON(502, map[string]string{"error": "image upload failed"})
		return
	}

	name := c.Request.FormValue("name")
	if name == "" {
		name = header.Filename
	}

	m, err := h.mapService.Save(ctx, models.DefaultMapID, result.URL, userID, name)
	if err != nil {
		c.InternalServerError("failed to save map")
		return
	}

	h.hub.BroadcastMapUpdate(m)

	_ = c.JSON(200, dto.MapResponse{
		ID:         m.ID,
		ImageURL:   m.ImageURL,
		UploadedBy: m.UploadedBy,
		UploadedAt: m.UploadedAt,
		Name:       m.Name,
	})
}
