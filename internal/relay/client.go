// Package relay wraps the external image relay endpoint that turns an
// uploaded image into a publicly reachable URL. The endpoint's JSON shape
// is unversioned, so nothing outside this package sees it.
package relay

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

var (
	ErrNotConfigured   = errors.New("relay upload url is not configured")
	ErrInvalidResponse = errors.New("invalid response from relay")
)

type UploadResult struct {
	URL    string
	FileID string
}

// Uploader is the narrow seam callers depend on, so the relay can be
// swapped for direct object storage without touching them.
type Uploader interface {
	Upload(ctx context.Context, fileName, contentType string, data []byte) (*UploadResult, error)
}

type Client struct {
	uploadURL  string
	httpClient *http.Client
}

func NewClient(uploadURL string, timeout time.Duration) *Client {
	return &Client{
		uploadURL:  uploadURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Upload posts the image as a base64 data URI in a multipart form and
// returns the public URL the relay assigned.
func (c *Client) Upload(ctx context.Context, fileName, contentType string, data []byte) (*UploadResult, error) {
	if c.uploadURL == "" {
		return nil, ErrNotConfigured
	}

	dataURI := fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(data))

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if err := w.WriteField("image", dataURI); err != nil {
		return nil, fmt.Errorf("failed to build upload form: %w", err)
	}
	if err := w.WriteField("fileName", fileName); err != nil {
		return nil, fmt.Errorf("failed to build upload form: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to build upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("relay request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read relay response: %w", err)
	}

	var payload struct {
		Success bool   `json:"success"`
		URL     string `json:"url"`
		FileID  string `json:"fileId"`
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		// The relay sometimes answers with an HTML error page.
		return nil, ErrInvalidResponse
	}

	if !payload.Success {
		msg := payload.Error
		if msg == "" {
			msg = payload.Message
		}
		if msg == "" {
			msg = "upload failed"
		}
		return nil, fmt.Errorf("relay rejected upload: %s", msg)
	}

	return &UploadResult{URL: payload.URL, FileID: payload.FileID}, nil
}
