package service

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cursolab/authoring-api/internal/models"
	"github.com/cursolab/authoring-api/internal/upload"
)

// UploadServiceConfig carries the ingestion endpoint settings.
type UploadServiceConfig struct {
	EndpointURL string
	FieldName   string
	Timeout     time.Duration
	Client      *http.Client
}

// UploadService keeps one media pipeline per authoring session so an author
// can retry a failed upload, or replace a finished one, without disturbing
// other sessions.
type UploadService struct {
	mu        sync.Mutex
	pipelines map[string]*upload.Pipeline

	cfg     UploadServiceConfig
	metrics *MetricsService
	logger  *zap.Logger
}

// NewUploadService constructs the service.
func NewUploadService(cfg UploadServiceConfig, metrics *MetricsService, logger *zap.Logger) *UploadService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UploadService{
		pipelines: make(map[string]*upload.Pipeline),
		cfg:       cfg,
		metrics:   metrics,
		logger:    logger,
	}
}

// Upload selects the file on the session's pipeline and, when it passes the
// local video check, streams it to the ingestion endpoint. The returned
// result reports the terminal outcome; a non-nil error means the upload
// never started.
func (s *UploadService) Upload(ctx context.Context, sessionID string, file models.UploadFile, content io.Reader) (*models.UploadResult, error) {
	pipeline, created := s.pipeline(sessionID)

	if err := pipeline.Select(file); err != nil {
		if created {
			s.Discard(sessionID)
		}
		s.logger.Warn("media file rejected locally",
			zap.String("session_id", sessionID),
			zap.String("file", file.Name),
			zap.String("content_type", file.ContentType),
			zap.Error(err))
		return nil, err
	}

	result, err := pipeline.Start(ctx, content)
	if err != nil {
		return nil, err
	}

	if result.Success {
		s.metrics.RecordUpload("succeeded", file.Size)
		s.logger.Info("media upload succeeded",
			zap.String("session_id", sessionID),
			zap.String("file", file.Name),
			zap.Int64("size", file.Size),
			zap.String("media_url", result.MediaURL))
	} else {
		s.metrics.RecordUpload(string(result.Cause), 0)
		s.logger.Warn("media upload failed",
			zap.String("session_id", sessionID),
			zap.String("file", file.Name),
			zap.String("cause", string(result.Cause)),
			zap.String("message", result.Message))
	}
	return result, nil
}

// State reports the session pipeline's current state, progress and last
// result. Sessions that never uploaded report the idle state.
func (s *UploadService) State(sessionID string) models.UploadSession {
	s.mu.Lock()
	pipeline, ok := s.pipelines[sessionID]
	s.mu.Unlock()
	if !ok {
		return models.UploadSession{State: models.UploadIdle}
	}
	return pipeline.Snapshot()
}

// Discard drops the session's pipeline, if any. Called when the owning
// authoring session ends (successful submit or idle sweep) so the registry
// does not outlive its sessions. An in-flight upload keeps running to
// completion but its outcome is no longer observable.
func (s *UploadService) Discard(sessionID string) {
	s.mu.Lock()
	delete(s.pipelines, sessionID)
	s.mu.Unlock()
}

// pipeline returns the session's pipeline, creating one on first use.
func (s *UploadService) pipeline(sessionID string) (*upload.Pipeline, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.pipelines[sessionID]; ok {
		return p, false
	}
	p := upload.NewPipeline(upload.Config{
		EndpointURL: s.cfg.EndpointURL,
		FieldName:   s.cfg.FieldName,
		Timeout:     s.cfg.Timeout,
		Client:      s.cfg.Client,
	}, s.logger)
	s.pipelines[sessionID] = p
	return p, true
}
