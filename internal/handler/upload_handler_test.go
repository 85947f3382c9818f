package handler

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cursolab/authoring-api/internal/models"
	appErrors "github.com/cursolab/authoring-api/pkg/errors"
)

type uploadServiceMock struct {
	result   *models.UploadResult
	err      error
	state    models.UploadSession
	lastFile models.UploadFile
	content  []byte
}

func (m *uploadServiceMock) Upload(_ context.Context, _ string, file models.UploadFile, content io.Reader) (*models.UploadResult, error) {
	m.lastFile = file
	data, _ := io.ReadAll(content)
	m.content = data
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func (m *uploadServiceMock) State(string) models.UploadSession { return m.state }

func multipartVideoBody(t *testing.T, field, filename, contentType string, payload []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	header := make(map[string][]string)
	header["Content-Disposition"] = []string{`form-data; name="` + field + `"; filename="` + filename + `"`}
	header["Content-Type"] = []string{contentType}
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func newUploadContext(t *testing.T, body *bytes.Buffer, contentType string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(http.MethodPost, "/uploads/s-1/video", body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", contentType)
	c.Request = req
	c.Params = gin.Params{{Key: "sessionId", Value: "s-1"}}
	return c, w
}

func TestUploadHandlerUploadSuccess(t *testing.T) {
	mock := &uploadServiceMock{result: &models.UploadResult{
		Success:  true,
		Message:  "uploaded",
		MediaURL: "https://cdn.local/v/intro.mp4",
	}}
	handler := NewUploadHandler(mock, "video", 0)

	body, contentType := multipartVideoBody(t, "video", "intro.mp4", "video/mp4", []byte("fake mp4"))
	c, w := newUploadContext(t, body, contentType)

	handler.Upload(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "https://cdn.local/v/intro.mp4")
	assert.Equal(t, "intro.mp4", mock.lastFile.Name)
	assert.Equal(t, "video/mp4", mock.lastFile.ContentType)
	assert.Equal(t, []byte("fake mp4"), mock.content)
}

func TestUploadHandlerUploadMissingFile(t *testing.T) {
	handler := NewUploadHandler(&uploadServiceMock{}, "video", 0)

	body, contentType := multipartVideoBody(t, "document", "notes.mp4", "video/mp4", []byte("x"))
	c, w := newUploadContext(t, body, contentType)

	handler.Upload(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "missing video form file")
}

func TestUploadHandlerUploadInvalidVideo(t *testing.T) {
	handler := NewUploadHandler(&uploadServiceMock{err: appErrors.ErrInvalidVideo}, "video", 0)

	body, contentType := multipartVideoBody(t, "video", "slides.pdf", "application/pdf", []byte("%PDF"))
	c, w := newUploadContext(t, body, contentType)

	handler.Upload(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_VIDEO")
}

func TestUploadHandlerUploadConflict(t *testing.T) {
	handler := NewUploadHandler(&uploadServiceMock{err: appErrors.ErrUploadInFlight}, "video", 0)

	body, contentType := multipartVideoBody(t, "video", "intro.mp4", "video/mp4", []byte("x"))
	c, w := newUploadContext(t, body, contentType)

	handler.Upload(c)

	require.Equal(t, http.StatusConflict, w.Code)
}

func TestUploadHandlerState(t *testing.T) {
	mock := &uploadServiceMock{state: models.UploadSession{
		State:    models.UploadFailed,
		Progress: 40,
		Result: &models.UploadResult{
			Success: false,
			Message: "network error while uploading the video",
			Cause:   models.FailureNetwork,
		},
	}}
	handler := NewUploadHandler(mock, "video", 0)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(http.MethodGet, "/uploads/s-1/video", nil)
	require.NoError(t, err)
	c.Request = req
	c.Params = gin.Params{{Key: "sessionId", Value: "s-1"}}

	handler.State(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"state":"failed"`)
	assert.Contains(t, w.Body.String(), `"progress":40`)
}
