package service

import (
	"context"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cursolab/authoring-api/internal/dto"
	"github.com/cursolab/authoring-api/internal/models"
	"github.com/cursolab/authoring-api/internal/outline"
	appErrors "github.com/cursolab/authoring-api/pkg/errors"
)

type courseCreator interface {
	CreateCourse(ctx context.Context, payload dto.CreateCourseRequest) (*dto.CourseRecord, error)
}

// AuthoringServiceConfig tunes session lifetime.
type AuthoringServiceConfig struct {
	SessionIdleTTL time.Duration
	SweepInterval  time.Duration
}

type authoringSession struct {
	mu        sync.Mutex
	editor    *outline.Editor
	touchedAt time.Time
}

// AuthoringService owns the in-memory authoring sessions. Each session holds
// one outline editor; access to an editor is serialized through the session
// lock, preserving the total ordering of structural edits. Sessions are
// discarded on successful submission and swept after idling past the TTL.
type AuthoringService struct {
	mu       sync.RWMutex
	sessions map[string]*authoringSession

	upstream courseCreator
	validate *validator.Validate
	metrics  *MetricsService
	logger   *zap.Logger
	cfg      AuthoringServiceConfig
	now      func() time.Time

	onSessionEnd func(sessionID string)
}

// NewAuthoringService constructs the service.
func NewAuthoringService(upstream courseCreator, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger, cfg AuthoringServiceConfig) *AuthoringService {
	if validate == nil {
		validate = validator.New()
	}
	outline.RegisterTagNames(validate)
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SessionIdleTTL <= 0 {
		cfg.SessionIdleTTL = 30 * time.Minute
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = 5 * time.Minute
	}
	return &AuthoringService{
		sessions: make(map[string]*authoringSession),
		upstream: upstream,
		validate: validate,
		metrics:  metrics,
		logger:   logger,
		cfg:      cfg,
		now:      time.Now,
	}
}

// OnSessionEnd registers a hook invoked once per session id after the
// session is removed, whether by successful submission or by the idle
// sweeper. Used to release per-session resources held elsewhere, such as
// the session's upload pipeline.
func (s *AuthoringService) OnSessionEnd(fn func(sessionID string)) {
	s.onSessionEnd = fn
}

// CreateSession opens a fresh editing session and returns its id.
func (s *AuthoringService) CreateSession() string {
	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = &authoringSession{
		editor:    outline.NewEditor(),
		touchedAt: s.now(),
	}
	s.mu.Unlock()
	s.logger.Info("authoring session created", zap.String("session_id", id))
	return id
}

// Outline returns a read-only snapshot of the session's draft.
func (s *AuthoringService) Outline(id string) (*dto.OutlineResponse, error) {
	var snapshot models.CourseDraft
	err := s.withSession(id, func(e *outline.Editor) error {
		snapshot = e.Snapshot()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.OutlineResponse{SessionID: id, Course: snapshot}, nil
}

// AddModule appends a new module to the session's draft.
func (s *AuthoringService) AddModule(id string) error {
	return s.withSession(id, func(e *outline.Editor) error {
		e.AddModule()
		return nil
	})
}

// RemoveModule removes the module at index.
func (s *AuthoringService) RemoveModule(id string, index int) error {
	return s.withSession(id, func(e *outline.Editor) error {
		return e.RemoveModule(index)
	})
}

// AddLesson appends a default lesson to the given module.
func (s *AuthoringService) AddLesson(id string, moduleIndex int) error {
	return s.withSession(id, func(e *outline.Editor) error {
		return e.AddLesson(moduleIndex)
	})
}

// RemoveLesson removes the lesson at lessonIndex from the given module.
func (s *AuthoringService) RemoveLesson(id string, moduleIndex, lessonIndex int) error {
	return s.withSession(id, func(e *outline.Editor) error {
		return e.RemoveLesson(moduleIndex, lessonIndex)
	})
}

// UpdateCourse applies the provided course field updates in place.
func (s *AuthoringService) UpdateCourse(id string, req dto.UpdateCourseFieldsRequest) error {
	return s.withSession(id, func(e *outline.Editor) error {
		if req.Title != nil {
			e.SetTitle(*req.Title)
		}
		if req.Description != nil {
			e.SetDescription(*req.Description)
		}
		if req.Price != nil {
			e.SetPrice(*req.Price)
		}
		if req.Level != nil {
			e.SetLevel(models.CourseLevel(*req.Level))
		}
		if req.Language != nil {
			e.SetLanguage(*req.Language)
		}
		if req.CategoryID != nil {
			e.SetCategoryID(*req.CategoryID)
		}
		return nil
	})
}

// UpdateModule applies module field updates in place.
func (s *AuthoringService) UpdateModule(id string, index int, req dto.UpdateModuleFieldsRequest) error {
	return s.withSession(id, func(e *outline.Editor) error {
		if req.Title != nil {
			if err := e.SetModuleTitle(index, *req.Title); err != nil {
				return err
			}
		}
		if req.Description != nil {
			if err := e.SetModuleDescription(index, *req.Description); err != nil {
				return err
			}
		}
		return nil
	})
}

// UpdateLesson applies lesson field updates in place.
func (s *AuthoringService) UpdateLesson(id string, moduleIndex, lessonIndex int, req dto.UpdateLessonFieldsRequest) error {
	return s.withSession(id, func(e *outline.Editor) error {
		if req.Title != nil {
			if err := e.SetLessonTitle(moduleIndex, lessonIndex, *req.Title); err != nil {
				return err
			}
		}
		if req.Type != nil {
			if err := e.SetLessonType(moduleIndex, lessonIndex, models.LessonType(*req.Type)); err != nil {
				return err
			}
		}
		if req.DurationMinutes != nil {
			if err := e.SetLessonDuration(moduleIndex, lessonIndex, *req.DurationMinutes); err != nil {
				return err
			}
		}
		return nil
	})
}

// Submit validates the draft for the requested status, serializes it and
// sends it upstream. Validation failures are returned per-field and no
// request is issued. On upstream rejection the tree is preserved so the
// author loses no work; on success the session is discarded.
func (s *AuthoringService) Submit(ctx context.Context, id string, status models.CourseStatus) (*dto.CourseRecord, []models.FieldError, error) {
	session, err := s.session(id)
	if err != nil {
		return nil, nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	session.touchedAt = s.now()

	if fieldErrs := session.editor.Validate(s.validate, status); len(fieldErrs) > 0 {
		s.metrics.RecordSubmission(string(status), "validation_failed")
		return nil, fieldErrs, nil
	}

	payload := session.editor.Serialize(status)

	start := s.now()
	record, err := s.upstream.CreateCourse(ctx, payload)
	s.metrics.ObserveUpstreamRequest("courses", s.now().Sub(start))
	if err != nil {
		s.metrics.RecordSubmission(string(status), "rejected")
		s.logger.Warn("course submission rejected", zap.String("session_id", id), zap.Error(err))
		return nil, nil, err
	}

	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	if s.onSessionEnd != nil {
		s.onSessionEnd(id)
	}

	s.metrics.RecordSubmission(string(status), "created")
	s.logger.Info("course submitted",
		zap.String("session_id", id),
		zap.String("course_id", record.ID),
		zap.String("status", string(status)))
	return record, nil, nil
}

// StartSweeper runs the idle-session janitor until the context is cancelled.
func (s *AuthoringService) StartSweeper(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.SweepInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Sweep()
			}
		}
	}()
}

// Sweep drops sessions that idled past the TTL. Returns the number removed.
func (s *AuthoringService) Sweep() int {
	cutoff := s.now().Add(-s.cfg.SessionIdleTTL)
	var removed []string

	s.mu.Lock()
	for id, session := range s.sessions {
		session.mu.Lock()
		idle := session.touchedAt.Before(cutoff)
		session.mu.Unlock()
		if idle {
			delete(s.sessions, id)
			removed = append(removed, id)
		}
	}
	s.mu.Unlock()

	if s.onSessionEnd != nil {
		for _, id := range removed {
			s.onSessionEnd(id)
		}
	}

	if len(removed) > 0 {
		s.logger.Info("swept idle authoring sessions", zap.Int("count", len(removed)))
	}
	return len(removed)
}

func (s *AuthoringService) session(id string) (*authoringSession, error) {
	s.mu.RLock()
	session, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, appErrors.ErrSessionNotFound
	}
	return session, nil
}

func (s *AuthoringService) withSession(id string, fn func(*outline.Editor) error) error {
	session, err := s.session(id)
	if err != nil {
		return err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	session.touchedAt = s.now()
	return fn(session.editor)
}
