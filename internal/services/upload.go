package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hoangminh/cardbox/internal/config"
)

var (
	ErrUploadNotConfigured = errors.New("image hosting API key not configured")
	ErrUploadFailed        = errors.New("image upload failed")
)

// UploadResult carries the provider URLs back to the client unchanged.
type UploadResult struct {
	URL        string `json:"url"`
	DisplayURL string `json:"display_url"`
	DeleteURL  string `json:"delete_url"`
}

// UploadServiceInterface lets handlers depend on an interface for testing.
type UploadServiceInterface interface {
	Upload(ctx context.Context, image []byte) (*UploadResult, error)
}

// UploadService relays browser-submitted images to ImgBB. It is a pure
// pass-through: no retries, no caching, no local copy of the bytes.
type UploadService struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewUploadService(cfg *config.UploadConfig) *UploadService {
	return &UploadService{
		apiKey:  cfg.ImgBBAPIKey,
		baseURL: strings.TrimRight(cfg.ImgBBBaseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type imgbbResponse struct {
	Success bool `json:"success"`
	Data    struct {
		URL        string `json:"url"`
		DisplayURL string `json:"display_url"`
		DeleteURL  string `json:"delete_url"`
	} `json:"data"`
}

func (s *UploadService) Upload(ctx context.Context, image []byte) (*UploadResult, error) {
	if s.apiKey == "" {
		return nil, ErrUploadNotConfigured
	}

	form := url.Values{}
	form.Set("key", s.apiKey)
	form.Set("image", base64.StdEncoding.EncodeToString(image))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.baseURL+"/1/upload", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("building upload request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	var parsed imgbbResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: decoding provider response: %v", ErrUploadFailed, err)
	}
	if resp.StatusCode != http.StatusOK || !parsed.Success {
		return nil, fmt.Errorf("%w: provider returned status %d", ErrUploadFailed, resp.StatusCode)
	}

	return &UploadResult{
		URL:        parsed.Data.URL,
		DisplayURL: parsed.Data.DisplayURL,
		DeleteURL:  parsed.Data.DeleteURL,
	}, nil
}

var _ UploadServiceInterface = (*UploadService)(nil)
