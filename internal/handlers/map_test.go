package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/70nanon/officemate/internal/middleware"
	"github.com/70nanon/officemate/internal/models"
	"github.com/70nanon/officemate/internal/relay"
	"github.com/70nanon/officemate/internal/services"
	"github.com/70nanon/officemate/pkg/dto"
	"github.com/70nanon/officemate/tests/testutil"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	driftmw "github.com/m1z23r/drift/pkg/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newMapTestApp(handler *MapHandler, jwtSvc *services.JWTService) http.Handler {
	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Get("/map", handler.Get)
	app.Post("/map", handler.Upload)
	return app
}

func TestMapHandler_Get(t *testing.T) {
	mockMapService := new(testutil.MockMapService)
	mockHub := new(testutil.MockHub)
	handler := NewMapHandler(mockMapService, relay.NewClient("", time.Second), mockHub)
	jwtSvc := newTestJWTService()

	userID := uuid.New()
	uploaderID := uuid.New()
	m := &models.OfficeMap{
		ID:         models.DefaultMapID,
		ImageURL:   "https://cdn.example.com/plan.png",
		UploadedBy: uploaderID,
		UploadedAt: time.Now(),
		Name:       "HQ Floor 3",
	}

	mockMapService.On("Get", mock.Anything, models.DefaultMapID).Return(m, nil)

	app := newMapTestApp(handler, jwtSvc)

	token := generateTestToken(t, jwtSvc, userID, "user@example.com")
	req := httptest.NewRequest(http.MethodGet, "/map", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response dto.MapResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "https://cdn.example.com/plan.png", response.ImageURL)
	assert.Equal(t, "HQ Floor 3", response.Name)

	mockMapService.AssertExpectations(t)
}

func TestMapHandler_Get_NoMapYet(t *testing.T) {
	mockMapService := new(testutil.MockMapService)
	mockHub := new(testutil.MockHub)
	handler := NewMapHandler(mockMapService, relay.NewClient("", time.Second), mockHub)
	jwtSvc := newTestJWTService()

	userID := uuid.New()
	mockMapService.On("Get", mock.Anything, models.DefaultMapID).
		Return(nil, services.ErrMapNotFound)

	app := newMapTestApp(handler, jwtSvc)

	token := generateTestToken(t, jwtSvc, userID, "user@example.com")
	req := httptest.NewRequest(http.MethodGet, "/map", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMapHandler_Upload_Success(t *testing.T) {
	mockMapService := new(testutil.MockMapService)
	mockHub := new(testutil.MockHub)
	mockUploader := new(testutil.MockUploader)
	handler := NewMapHandler(mockMapService, mockUploader, mockHub)
	jwtSvc := newTestJWTService()

	userID := uuid.New()
	m := &models.OfficeMap{
		ID:         models.DefaultMapID,
		ImageURL:   "https://cdn.example.com/plan.png",
		UploadedBy: userID,
		UploadedAt: time.Now(),
		Name:       "plan.png",
	}

	mockUploader.On("Upload", mock.Anything, mock.Anything, "image/png", []byte("png-bytes")).
		Return(&relay.UploadResult{URL: "https://cdn.example.com/plan.png", FileID: "abc"}, nil)
	mockMapService.On("Save", mock.Anything, models.DefaultMapID, "https://cdn.example.com/plan.png", userID, "plan.png").
		Return(m, nil)
	mockHub.On("BroadcastMapUpdate", m).Return()

	app := newMapTestApp(handler, jwtSvc)

	body, contentType := multipartImage(t, "image", "plan.png", []byte("png-bytes"))
	token := generateTestToken(t, jwtSvc, userID, "user@example.com")
	req := httptest.NewRequest(http.MethodPost, "/map", body)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response dto.MapResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "https://cdn.example.com/plan.png", response.ImageURL)

	mockUploader.AssertExpectations(t)
	mockMapService.AssertExpectations(t)
	mockHub.AssertExpectations(t)
}

func TestMapHandler_Upload_RelayFailure(t *testing.T) {
	mockMapService := new(testutil.MockMapService)
	mockHub := new(testutil.MockHub)
	mockUploader := new(testutil.MockUploader)
	handler := NewMapHandler(mockMapService, mockUploader, mockHub)
	jwtSvc := newTestJWTService()

	userID := uuid.New()
	mockUploader.On("Upload", mock.Anything, mock.Anything, "image/png", mock.Anything).
		Return(nil, relay.ErrInvalidResponse)

	app := newMapTestApp(handler, jwtSvc)

	body, contentType := multipartImage(t, "image", "plan.png", []byte("png-bytes"))
	token := generateTestToken(t, jwtSvc, userID, "user@example.com")
	req := httptest.NewRequest(http.MethodPost, "/map", body)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	mockMapService.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mockHub.AssertNotCalled(t, "BroadcastMapUpdate", mock.Anything)
}

func TestMapHandler_Upload_NotAnImage(t *testing.T) {
	mockMapService := new(testutil.MockMapService)
	mockHub := new(testutil.MockHub)
	mockUploader := new(testutil.MockUploader)
	handler := NewMapHandler(mockMapService, mockUploader, mockHub)
	jwtSvc := newTestJWTService()

	userID := uuid.New()

	app := newMapTestApp(handler, jwtSvc)

	body, contentType := multipartFile(t, "image", "notes.txt", "text/plain", []byte("plain text"))
	token := generateTestToken(t, jwtSvc, userID, "user@example.com")
	req := httptest.NewRequest(http.MethodPost, "/map", body)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	mockUploader.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
