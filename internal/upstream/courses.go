// Package upstream holds HTTP clients for the external APIs the gateway
// consumes: the course-management API and the media-ingestion endpoint.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cursolab/authoring-api/internal/dto"
	"github.com/cursolab/authoring-api/internal/models"
	appErrors "github.com/cursolab/authoring-api/pkg/errors"
)

// CourseClient talks to the external course-management API.
type CourseClient struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// CourseClientConfig configures the client.
type CourseClientConfig struct {
	BaseURL string
	Timeout time.Duration
	Client  *http.Client
}

// NewCourseClient constructs the client with a timeout-bounded http.Client.
func NewCourseClient(cfg CourseClientConfig, logger *zap.Logger) *CourseClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &CourseClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  client,
		logger:  logger,
	}
}

// CreateCourse submits the serialized course payload. A non-2xx response is
// surfaced as a single user-facing rejection message; a transport failure is
// kept distinguishable so the caller can preserve the draft and suggest a
// retry.
func (c *CourseClient) CreateCourse(ctx context.Context, payload dto.CreateCourseRequest) (*dto.CourseRecord, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode course payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/courses", bytes.NewReader(body))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build course request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("course creation transport failure", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrUpstreamNetwork.Code, appErrors.ErrUpstreamNetwork.Status, "course service unreachable")
	}
	defer resp.Body.Close() //nolint:errcheck

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := rejectionMessage(raw)
		c.logger.Warn("course creation rejected",
			zap.Int("status", resp.StatusCode),
			zap.String("message", message))
		return nil, appErrors.Clone(appErrors.ErrUpstreamRejected, message)
	}

	var record dto.CourseRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstreamRejected.Code, appErrors.ErrUpstreamRejected.Status, "unexpected course service response")
	}
	return &record, nil
}

// ListCategories fetches the ordered category list, consumed read-only.
func (c *CourseClient) ListCategories(ctx context.Context) ([]models.Category, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/categories", nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build categories request")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("categories transport failure", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrUpstreamNetwork.Code, appErrors.ErrUpstreamNetwork.Status, "course service unreachable")
	}
	defer resp.Body.Close() //nolint:errcheck

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, appErrors.Clone(appErrors.ErrUpstreamRejected, rejectionMessage(raw))
	}

	var categories []models.Category
	if err := json.Unmarshal(raw, &categories); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstreamRejected.Code, appErrors.ErrUpstreamRejected.Status, "unexpected categories response")
	}
	return categories, nil
}

func rejectionMessage(raw []byte) string {
	var shape struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &shape); err == nil {
		if shape.Message != "" {
			return shape.Message
		}
		if shape.Error != "" {
			return shape.Error
		}
	}
	return "course service rejected the request"
}
