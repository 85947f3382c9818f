package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cursolab/authoring-api/internal/dto"
	"github.com/cursolab/authoring-api/internal/models"
	appErrors "github.com/cursolab/authoring-api/pkg/errors"
)

type stubCourseCreator struct {
	lastPayload *dto.CreateCourseRequest
	record      *dto.CourseRecord
	err         error
	calls       int
}

func (s *stubCourseCreator) CreateCourse(_ context.Context, payload dto.CreateCourseRequest) (*dto.CourseRecord, error) {
	s.calls++
	s.lastPayload = &payload
	if s.err != nil {
		return nil, s.err
	}
	return s.record, nil
}

func newTestAuthoringService(upstream courseCreator) *AuthoringService {
	return NewAuthoringService(upstream, nil, nil, nil, AuthoringServiceConfig{})
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestAuthoringService_CreateSessionStartsEmpty(t *testing.T) {
	svc := newTestAuthoringService(&stubCourseCreator{})

	id := svc.CreateSession()
	require.NotEmpty(t, id)

	outline, err := svc.Outline(id)
	require.NoError(t, err)
	assert.Equal(t, id, outline.SessionID)
	assert.Empty(t, outline.Course.Modules)
	assert.Equal(t, models.StatusDraft, outline.Course.Status)
}

func TestAuthoringService_UnknownSession(t *testing.T) {
	svc := newTestAuthoringService(&stubCourseCreator{})

	_, err := svc.Outline("missing")
	assert.ErrorIs(t, err, appErrors.ErrSessionNotFound)

	err = svc.AddModule("missing")
	assert.ErrorIs(t, err, appErrors.ErrSessionNotFound)
}

func TestAuthoringService_StructuralEdits(t *testing.T) {
	svc := newTestAuthoringService(&stubCourseCreator{})
	id := svc.CreateSession()

	require.NoError(t, svc.AddModule(id))
	require.NoError(t, svc.AddModule(id))
	require.NoError(t, svc.AddLesson(id, 1))

	outline, err := svc.Outline(id)
	require.NoError(t, err)
	require.Len(t, outline.Course.Modules, 2)
	assert.Len(t, outline.Course.Modules[0].Lessons, 1)
	assert.Len(t, outline.Course.Modules[1].Lessons, 2)

	require.NoError(t, svc.RemoveLesson(id, 1, 0))
	require.NoError(t, svc.RemoveModule(id, 0))

	outline, err = svc.Outline(id)
	require.NoError(t, err)
	require.Len(t, outline.Course.Modules, 1)
	assert.Len(t, outline.Course.Modules[0].Lessons, 1)
}

func TestAuthoringService_StructuralEditsOutOfRange(t *testing.T) {
	svc := newTestAuthoringService(&stubCourseCreator{})
	id := svc.CreateSession()

	err := svc.RemoveModule(id, 0)
	assert.ErrorIs(t, err, appErrors.ErrIndexOutOfRange)

	err = svc.AddLesson(id, 3)
	assert.ErrorIs(t, err, appErrors.ErrIndexOutOfRange)
}

func TestAuthoringService_FieldUpdates(t *testing.T) {
	svc := newTestAuthoringService(&stubCourseCreator{})
	id := svc.CreateSession()

	require.NoError(t, svc.AddModule(id))
	require.NoError(t, svc.UpdateCourse(id, dto.UpdateCourseFieldsRequest{
		Title: strPtr("Go for Backends"),
		Price: strPtr("49.90"),
		Level: strPtr("advanced"),
	}))
	require.NoError(t, svc.UpdateModule(id, 0, dto.UpdateModuleFieldsRequest{
		Title: strPtr("Fundamentals"),
	}))
	require.NoError(t, svc.UpdateLesson(id, 0, 0, dto.UpdateLessonFieldsRequest{
		Title:           strPtr("Goroutines"),
		Type:            strPtr("article"),
		DurationMinutes: intPtr(25),
	}))

	outline, err := svc.Outline(id)
	require.NoError(t, err)
	assert.Equal(t, "Go for Backends", outline.Course.Title)
	assert.Equal(t, "49.90", outline.Course.Price)
	assert.Equal(t, models.LevelAdvanced, outline.Course.Level)
	assert.Equal(t, "Fundamentals", outline.Course.Modules[0].Title)

	lesson := outline.Course.Modules[0].Lessons[0]
	assert.Equal(t, "Goroutines", lesson.Title)
	assert.Equal(t, models.LessonArticle, lesson.Type)
	assert.Equal(t, 25, lesson.DurationMinutes)
}

func TestAuthoringService_SubmitDraftSkipsValidation(t *testing.T) {
	upstream := &stubCourseCreator{record: &dto.CourseRecord{ID: "c-1", Status: "draft"}}
	svc := newTestAuthoringService(upstream)
	id := svc.CreateSession()

	record, fieldErrs, err := svc.Submit(context.Background(), id, models.StatusDraft)
	require.NoError(t, err)
	assert.Empty(t, fieldErrs)
	require.NotNil(t, record)
	assert.Equal(t, "c-1", record.ID)

	require.NotNil(t, upstream.lastPayload)
	assert.Equal(t, "draft", upstream.lastPayload.Status)

	// session is gone after a successful submission
	_, err = svc.Outline(id)
	assert.ErrorIs(t, err, appErrors.ErrSessionNotFound)
}

func TestAuthoringService_SubmitPublishedValidationFailure(t *testing.T) {
	upstream := &stubCourseCreator{}
	svc := newTestAuthoringService(upstream)
	id := svc.CreateSession()

	record, fieldErrs, err := svc.Submit(context.Background(), id, models.StatusPublished)
	require.NoError(t, err)
	assert.Nil(t, record)
	require.NotEmpty(t, fieldErrs)
	assert.Equal(t, "title", fieldErrs[0].Field)

	// no upstream request and the session survives
	assert.Zero(t, upstream.calls)
	_, err = svc.Outline(id)
	assert.NoError(t, err)
}

func TestAuthoringService_SubmitUpstreamRejectionKeepsSession(t *testing.T) {
	upstream := &stubCourseCreator{err: appErrors.ErrUpstreamRejected}
	svc := newTestAuthoringService(upstream)
	id := svc.CreateSession()

	require.NoError(t, svc.UpdateCourse(id, dto.UpdateCourseFieldsRequest{Title: strPtr("Kept")}))

	record, fieldErrs, err := svc.Submit(context.Background(), id, models.StatusPublished)
	assert.Nil(t, record)
	assert.Empty(t, fieldErrs)
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrUpstreamRejected)

	outline, getErr := svc.Outline(id)
	require.NoError(t, getErr)
	assert.Equal(t, "Kept", outline.Course.Title)
}

func TestAuthoringService_SessionEndHookFiresOnSubmit(t *testing.T) {
	upstream := &stubCourseCreator{record: &dto.CourseRecord{ID: "c-1"}}
	svc := newTestAuthoringService(upstream)

	var ended []string
	svc.OnSessionEnd(func(id string) { ended = append(ended, id) })

	id := svc.CreateSession()
	_, _, err := svc.Submit(context.Background(), id, models.StatusDraft)
	require.NoError(t, err)
	assert.Equal(t, []string{id}, ended)
}

func TestAuthoringService_SessionEndHookSkippedOnFailure(t *testing.T) {
	upstream := &stubCourseCreator{err: appErrors.ErrUpstreamRejected}
	svc := newTestAuthoringService(upstream)

	var ended []string
	svc.OnSessionEnd(func(id string) { ended = append(ended, id) })

	id := svc.CreateSession()
	_, _, err := svc.Submit(context.Background(), id, models.StatusDraft)
	require.Error(t, err)
	assert.Empty(t, ended, "a preserved session must keep its per-session resources")
}

func TestAuthoringService_SessionEndHookFiresOnSweep(t *testing.T) {
	svc := NewAuthoringService(&stubCourseCreator{}, nil, nil, nil, AuthoringServiceConfig{
		SessionIdleTTL: 10 * time.Minute,
	})

	var ended []string
	svc.OnSessionEnd(func(id string) { ended = append(ended, id) })

	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }
	stale := svc.CreateSession()

	svc.now = func() time.Time { return base.Add(12 * time.Minute) }
	require.Equal(t, 1, svc.Sweep())
	assert.Equal(t, []string{stale}, ended)
}

func TestAuthoringService_SweepRemovesIdleSessions(t *testing.T) {
	svc := NewAuthoringService(&stubCourseCreator{}, nil, nil, nil, AuthoringServiceConfig{
		SessionIdleTTL: 10 * time.Minute,
	})

	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }
	stale := svc.CreateSession()

	svc.now = func() time.Time { return base.Add(5 * time.Minute) }
	fresh := svc.CreateSession()

	svc.now = func() time.Time { return base.Add(12 * time.Minute) }
	removed := svc.Sweep()
	assert.Equal(t, 1, removed)

	_, err := svc.Outline(stale)
	assert.ErrorIs(t, err, appErrors.ErrSessionNotFound)
	_, err = svc.Outline(fresh)
	assert.NoError(t, err)
}
