// Package upload implements the media upload pipeline: validate one local
// video file, transmit it to the external ingestion endpoint as a single
// multipart request with progress feedback, and report a terminal outcome.
package upload

import (
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cursolab/authoring-api/internal/dto"
	"github.com/cursolab/authoring-api/internal/models"
	appErrors "github.com/cursolab/authoring-api/pkg/errors"
)

const (
	defaultFieldName = "video"
	defaultTimeout   = 10 * time.Minute

	networkFailureMessage = "network error while uploading the video"
	genericFailureMessage = "failed to upload the video"
)

// Config tunes one pipeline instance.
type Config struct {
	EndpointURL string
	FieldName   string
	Timeout     time.Duration
	Client      *http.Client
}

// Pipeline drives a single upload session at a time through the lifecycle
// Idle → Validating → FileSelected → Uploading → Succeeded | Failed. Terminal
// states are re-entered only via a fresh Select, which discards the prior
// result. Selecting while a selection or transfer is in flight is rejected.
type Pipeline struct {
	client   *http.Client
	endpoint string
	field    string
	timeout  time.Duration
	logger   *zap.Logger

	mu         sync.Mutex
	state      models.UploadState
	file       *models.UploadFile
	progress   int
	result     *models.UploadResult
	onProgress func(pct int)
}

// NewPipeline constructs an idle pipeline.
func NewPipeline(cfg Config, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.FieldName == "" {
		cfg.FieldName = defaultFieldName
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{}
	}
	return &Pipeline{
		client:   client,
		endpoint: cfg.EndpointURL,
		field:    cfg.FieldName,
		timeout:  cfg.Timeout,
		logger:   logger,
		state:    models.UploadIdle,
	}
}

// OnProgress registers an observer for progress notifications. Notifications
// for one session arrive in non-decreasing percentage order and never after
// the terminal outcome.
func (p *Pipeline) OnProgress(fn func(pct int)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onProgress = fn
}

// Select validates a new file and begins a fresh session, discarding any
// prior terminal result. A file whose declared content type is not video/* is
// rejected and the pipeline returns to Idle without creating a session. The
// local check is a usability guard; extension and size limits are enforced by
// the ingestion endpoint.
func (p *Pipeline) Select(file models.UploadFile) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch p.state {
	case models.UploadValidating, models.UploadUploading:
		return appErrors.ErrUploadInFlight
	}

	p.state = models.UploadValidating
	p.result = nil
	p.progress = 0
	p.file = nil

	if !strings.HasPrefix(file.ContentType, "video/") {
		p.state = models.UploadIdle
		return appErrors.ErrInvalidVideo
	}

	selected := file
	p.file = &selected
	p.state = models.UploadFileSelected
	return nil
}

// Start transmits the selected file as one multipart request. It blocks until
// the transfer reaches a terminal outcome; both success and failure are
// returned as a result, never as a Go error. The error return covers only
// lifecycle misuse (no file selected). Nothing is retried automatically.
func (p *Pipeline) Start(ctx context.Context, content io.Reader) (*models.UploadResult, error) {
	p.mu.Lock()
	if p.state != models.UploadFileSelected || p.file == nil {
		p.mu.Unlock()
		return nil, appErrors.ErrUploadNotStarted
	}
	file := *p.file
	p.state = models.UploadUploading
	p.progress = 0
	p.mu.Unlock()

	result := p.transmit(ctx, file, content)

	p.mu.Lock()
	if result.Success {
		p.state = models.UploadSucceeded
		p.progress = 100
	} else {
		p.state = models.UploadFailed
	}
	p.result = result
	p.mu.Unlock()

	return result, nil
}

// Snapshot exposes the pipeline's observable state for rendering.
func (p *Pipeline) Snapshot() models.UploadSession {
	p.mu.Lock()
	defer p.mu.Unlock()

	session := models.UploadSession{
		State:    p.state,
		Progress: p.progress,
	}
	if p.file != nil {
		file := *p.file
		session.File = &file
	}
	if p.result != nil {
		result := *p.result
		session.Result = &result
	}
	return session
}

func (p *Pipeline) transmit(parent context.Context, file models.UploadFile, content io.Reader) *models.UploadResult {
	ctx := parent
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(parent, p.timeout)
		defer cancel()
	}

	counted := &progressReader{r: content, total: file.Size, report: p.setProgress}

	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)
	go func() {
		part, err := writer.CreateFormFile(p.field, file.Name)
		if err != nil {
			pw.CloseWithError(err) //nolint:errcheck
			return
		}
		if _, err := io.Copy(part, counted); err != nil {
			pw.CloseWithError(err) //nolint:errcheck
			return
		}
		pw.CloseWithError(writer.Close()) //nolint:errcheck
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, pr)
	if err != nil {
		return &models.UploadResult{Success: false, Message: networkFailureMessage, Cause: models.FailureNetwork}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Warn("media upload transport failure", zap.String("file", file.Name), zap.Error(err))
		return &models.UploadResult{Success: false, Message: networkFailureMessage, Cause: models.FailureNetwork}
	}
	defer resp.Body.Close() //nolint:errcheck

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		var success dto.MediaUploadResponse
		if err := json.Unmarshal(body, &success); err != nil {
			p.logger.Warn("media upload response unparseable", zap.Int("status", resp.StatusCode), zap.Error(err))
			return &models.UploadResult{Success: false, Message: genericFailureMessage, Cause: models.FailureRejected}
		}
		return &models.UploadResult{
			Success:      true,
			Message:      success.Message,
			MediaURL:     success.VideoURL,
			OriginalName: success.OriginalName,
			Size:         success.Size,
		}
	}

	message := genericFailureMessage
	var failure dto.MediaUploadError
	if err := json.Unmarshal(body, &failure); err == nil && failure.Reason() != "" {
		message = failure.Reason()
	}
	p.logger.Warn("media upload rejected",
		zap.Int("status", resp.StatusCode),
		zap.String("file", file.Name),
		zap.String("message", message))
	return &models.UploadResult{Success: false, Message: message, Cause: models.FailureRejected}
}

// setProgress clamps to [0,100] and enforces monotonicity within a session.
func (p *Pipeline) setProgress(pct int) {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}

	p.mu.Lock()
	if p.state != models.UploadUploading || pct < p.progress {
		p.mu.Unlock()
		return
	}
	p.progress = pct
	observer := p.onProgress
	p.mu.Unlock()

	if observer != nil {
		observer(pct)
	}
}
