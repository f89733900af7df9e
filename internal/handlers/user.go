package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/70nanon/officemate/internal/middleware"
	"github.com/70nanon/officemate/internal/relay"
	"github.com/70nanon/officemate/internal/services"
	"github.com/70nanon/officemate/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/sirupsen/logrus"
)

// maxAvatarSize caps the multipart avatar upload at 5 MiB.
const maxAvatarSize = 5 << 20

type UserHandler struct {
	userService    UserServiceInterface
	profileService ProfileServiceInterface
	uploader       relay.Uploader
	reauthWindow   time.Duration
}

func NewUserHandler(userService UserServiceInterface, profileService ProfileServiceInterface, uploader relay.Uploader, reauthWindow time.Duration) *UserHandler {
	return &UserHandler{
		userService:    userService,
		profileService: profileService,
		uploader:       uploader,
		reauthWindow:   reauthWindow,
	}
}

// requireRecentSignIn returns true when the access token was issued
// recently enough for sensitive credential changes. Otherwise it writes
// a 403 the client can match on to prompt a fresh sign-in.
func (h *UserHandler) requireRecentSignIn(c *drift.Context) bool {
	issuedAt := middleware.GetTokenIssuedAt(c)
	if issuedAt.IsZero() || time.Since(issuedAt) > h.reauthWindow {
		c.Forbidden("recent sign-in required")
		return false
	}
	return true
}

func (h *UserHandler) GetMe(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	user, err := h.userService.GetByID(context.Background(), userID)
	if err != nil {
		c.NotFound("user not found")
		return
	}

	_ = c.JSON(200, dto.UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Provider:    user.Provider,
	})
}

func (h *UserHandler) UpdateDisplayName(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.UpdateDisplayNameRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		c.BadRequest("display name is required")
		return
	}

	ctx := context.Background()

	user, err := h.userService.UpdateDisplayName(ctx, userID, displayName)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.NotFound("user not found")
			return
		}
		c.InternalServerError("failed to update display name")
		return
	}

	// The directory entry mirrors the account record.
	if _, err := h.profileService.SetDisplayName(ctx, userID, displayName); err != nil {
		logrus.WithError(err).Warn("Failed to sync display name to profile")
	}

	_ = c.JSON(200, dto.UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Provider:    user.Provider,
	})
}

func (h *UserHandler) UpdateEmail(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	if !h.requireRecentSignIn(c) {
		return
	}

	var req dto.UpdateEmailRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	email := strings.TrimSpace(req.Email)
	if email == "" {
		c.BadRequest("email is required")
		return
	}

	ctx := context.Background()

	user, err := h.userService.UpdateEmail(ctx, userID, email)
	if err != nil {
		if errors.Is(err, services.ErrEmailInUse) {
			_ = c.JSON(409, map[string]string{"error": "email already in use"})
			return
		}
		if errors.Is(err, services.ErrUserNotFound) {
			c.NotFound("user not found")
			return
		}
		c.InternalServerError("failed to update email")
		return
	}

	if _, err := h.profileService.SetEmail(ctx, userID, email); err != nil {
		logrus.WithError(err).Warn("Failed to sync email to profile")
	}

	_ = c.JSON(200, dto.UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Provider:    user.Provider,
	})
}

func (h *UserHandler) UpdatePassword(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	if !h.requireRecentSignIn(c) {
		return
	}

	var req dto.UpdatePasswordRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if len(req.Password) < MinPasswordLength {
		c.BadRequest(fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
		return
	}
	if req.Password != req.ConfirmPassword {
		c.BadRequest("passwords do not match")
		return
	}

	if err := h.userService.UpdatePassword(context.Background(), userID, req.Password); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.NotFound("user not found")
			return
		}
		c.InternalServerError("failed to update password")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "password updated"})
}

func (h *UserHandler) UploadAvatar(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	if err := c.Request.ParseMultipartForm(maxAvatarSize); err != nil {
		c.BadRequest("invalid multipart form")
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.BadRequest("image file is required")
		return
	}
	defer file.Close()

	if header.Size > maxAvatarSize {
		c.BadRequest("image exceeds 5MB limit")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		c.BadRequest("file must be an image")
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxAvatarSize))
	if err != nil {
		c.InternalServerError("failed to read image")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	fileName := fmt.Sprintf("avatar_%s_%d", userID, time.Now().Unix())
	result, err := h.uploader.Upload(ctx, fileName, contentType, data)
	if err != nil {
		logrus.WithError(err).Error("Avatar upload failed")
		_ = c.JSON(502, map[string]string{"error": "image upload failed"})
		return
	}

	profile, err := h.profileService.SetAvatarURL(ctx, userID, result.URL)
	if err != nil {
		c.InternalServerError("failed to save avatar")
		return
	}

	_ = c.JSON(200, dto.ProfileResponse{
		UserID:      profile.UserID,
		Email:       profile.Email,
		DisplayName: profile.DisplayName,
		AvatarURL:   profile.AvatarURL,
		CreatedAt:   profile.CreatedAt,
		UpdatedAt:   profile.UpdatedAt,
	})
}

func (h *UserHandler) GetProfile(c *drift.Context) {
	idParam := c.Param("id")

	userID, err := uuid.Parse(idParam)
	if err != nil {
		c.BadRequest("invalid user id")
		return
	}

	profile, err := h.profileService.GetByUserID(context.Background(), userID)
	if err != nil {
		if errors.Is(err, services.ErrProfileNotFound) {
			c.NotFound("profile not found")
			return
		}
		c.InternalServerError("failed to load profile")
		return
	}

	_ = c.JSON(200, dto.ProfileResponse{
		UserID:      profile.UserID,
		Email:       profile.Email,
		DisplayName: profile.DisplayName,
		AvatarURL:   profile.AvatarURL,
		CreatedAt:   profile.CreatedAt,
		UpdatedAt:   profile.UpdatedAt,
	})
}
