package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cursolab/authoring-api/internal/dto"
	"github.com/cursolab/authoring-api/internal/models"
	appErrors "github.com/cursolab/authoring-api/pkg/errors"
)

type authoringServiceMock struct {
	sessionID  string
	outline    *dto.OutlineResponse
	outlineErr error

	record    *dto.CourseRecord
	fieldErrs []models.FieldError
	submitErr error

	lastStatus   models.CourseStatus
	lastCourse   *dto.UpdateCourseFieldsRequest
	removedIndex int
	structErr    error
}

func (m *authoringServiceMock) CreateSession() string { return m.sessionID }

func (m *authoringServiceMock) Outline(string) (*dto.OutlineResponse, error) {
	return m.outline, m.outlineErr
}

func (m *authoringServiceMock) AddModule(string) error { return m.structErr }

func (m *authoringServiceMock) RemoveModule(_ string, index int) error {
	m.removedIndex = index
	return m.structErr
}

func (m *authoringServiceMock) AddLesson(string, int) error { return m.structErr }

func (m *authoringServiceMock) RemoveLesson(string, int, int) error { return m.structErr }

func (m *authoringServiceMock) UpdateCourse(_ string, req dto.UpdateCourseFieldsRequest) error {
	m.lastCourse = &req
	return m.structErr
}

func (m *authoringServiceMock) UpdateModule(string, int, dto.UpdateModuleFieldsRequest) error {
	return m.structErr
}

func (m *authoringServiceMock) UpdateLesson(string, int, int, dto.UpdateLessonFieldsRequest) error {
	return m.structErr
}

func (m *authoringServiceMock) Submit(_ context.Context, _ string, status models.CourseStatus) (*dto.CourseRecord, []models.FieldError, error) {
	m.lastStatus = status
	return m.record, m.fieldErrs, m.submitErr
}

func newTestContext(t *testing.T, method, target string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(method, target, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func TestAuthoringHandlerCreateSession(t *testing.T) {
	handler := NewAuthoringHandler(&authoringServiceMock{sessionID: "s-1"})
	c, w := newTestContext(t, http.MethodPost, "/authoring/sessions", nil)

	handler.CreateSession(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"sessionId":"s-1"`)
}

func TestAuthoringHandlerGetOutlineNotFound(t *testing.T) {
	handler := NewAuthoringHandler(&authoringServiceMock{outlineErr: appErrors.ErrSessionNotFound})
	c, w := newTestContext(t, http.MethodGet, "/authoring/sessions/missing", nil)
	c.Params = gin.Params{{Key: "sessionId", Value: "missing"}}

	handler.GetOutline(c)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "SESSION_NOT_FOUND")
}

func TestAuthoringHandlerRemoveModule(t *testing.T) {
	mock := &authoringServiceMock{outline: &dto.OutlineResponse{SessionID: "s-1"}}
	handler := NewAuthoringHandler(mock)
	c, w := newTestContext(t, http.MethodDelete, "/authoring/sessions/s-1/modules/2", nil)
	c.Params = gin.Params{{Key: "sessionId", Value: "s-1"}, {Key: "moduleIndex", Value: "2"}}

	handler.RemoveModule(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, mock.removedIndex)
}

func TestAuthoringHandlerRemoveModuleBadIndex(t *testing.T) {
	handler := NewAuthoringHandler(&authoringServiceMock{})
	c, w := newTestContext(t, http.MethodDelete, "/authoring/sessions/s-1/modules/first", nil)
	c.Params = gin.Params{{Key: "sessionId", Value: "s-1"}, {Key: "moduleIndex", Value: "first"}}

	handler.RemoveModule(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthoringHandlerRemoveModuleOutOfRange(t *testing.T) {
	handler := NewAuthoringHandler(&authoringServiceMock{structErr: appErrors.ErrIndexOutOfRange})
	c, w := newTestContext(t, http.MethodDelete, "/authoring/sessions/s-1/modules/9", nil)
	c.Params = gin.Params{{Key: "sessionId", Value: "s-1"}, {Key: "moduleIndex", Value: "9"}}

	handler.RemoveModule(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INDEX_OUT_OF_RANGE")
}

func TestAuthoringHandlerUpdateCourse(t *testing.T) {
	mock := &authoringServiceMock{outline: &dto.OutlineResponse{SessionID: "s-1"}}
	handler := NewAuthoringHandler(mock)
	body := []byte(`{"title":"Go for Backends","price":"49.90"}`)
	c, w := newTestContext(t, http.MethodPatch, "/authoring/sessions/s-1", body)
	c.Params = gin.Params{{Key: "sessionId", Value: "s-1"}}

	handler.UpdateCourse(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, mock.lastCourse)
	require.NotNil(t, mock.lastCourse.Title)
	assert.Equal(t, "Go for Backends", *mock.lastCourse.Title)
	assert.Nil(t, mock.lastCourse.Description)
}

func TestAuthoringHandlerUpdateCourseRejectsBadLevel(t *testing.T) {
	handler := NewAuthoringHandler(&authoringServiceMock{})
	body := []byte(`{"level":"expert"}`)
	c, w := newTestContext(t, http.MethodPatch, "/authoring/sessions/s-1", body)
	c.Params = gin.Params{{Key: "sessionId", Value: "s-1"}}

	handler.UpdateCourse(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthoringHandlerSubmitCreated(t *testing.T) {
	mock := &authoringServiceMock{record: &dto.CourseRecord{ID: "c-1", Status: "published"}}
	handler := NewAuthoringHandler(mock)
	body := []byte(`{"status":"published"}`)
	c, w := newTestContext(t, http.MethodPost, "/authoring/sessions/s-1/submit", body)
	c.Params = gin.Params{{Key: "sessionId", Value: "s-1"}}

	handler.Submit(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, models.StatusPublished, mock.lastStatus)
	assert.Contains(t, w.Body.String(), `"id":"c-1"`)
}

func TestAuthoringHandlerSubmitFieldErrors(t *testing.T) {
	mock := &authoringServiceMock{fieldErrs: []models.FieldError{{Field: "title", Message: "is required"}}}
	handler := NewAuthoringHandler(mock)
	body := []byte(`{"status":"published"}`)
	c, w := newTestContext(t, http.MethodPost, "/authoring/sessions/s-1/submit", body)
	c.Params = gin.Params{{Key: "sessionId", Value: "s-1"}}

	handler.Submit(c)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var envelope struct {
		Data dto.SubmitRejectedResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data.Errors, 1)
	assert.Equal(t, "title", envelope.Data.Errors[0].Field)
}

func TestAuthoringHandlerSubmitRejectsBadStatus(t *testing.T) {
	handler := NewAuthoringHandler(&authoringServiceMock{})
	body := []byte(`{"status":"archived"}`)
	c, w := newTestContext(t, http.MethodPost, "/authoring/sessions/s-1/submit", body)
	c.Params = gin.Params{{Key: "sessionId", Value: "s-1"}}

	handler.Submit(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthoringHandlerSubmitUpstreamFailure(t *testing.T) {
	handler := NewAuthoringHandler(&authoringServiceMock{submitErr: appErrors.ErrUpstreamNetwork})
	body := []byte(`{"status":"draft"}`)
	c, w := newTestContext(t, http.MethodPost, "/authoring/sessions/s-1/submit", body)
	c.Params = gin.Params{{Key: "sessionId", Value: "s-1"}}

	handler.Submit(c)

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "UPSTREAM_NETWORK")
}
