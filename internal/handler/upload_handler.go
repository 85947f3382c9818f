package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cursolab/authoring-api/internal/models"
	appErrors "github.com/cursolab/authoring-api/pkg/errors"
	"github.com/cursolab/authoring-api/pkg/response"
)

type uploadService interface {
	Upload(ctx context.Context, sessionID string, file models.UploadFile, content io.Reader) (*models.UploadResult, error)
	State(sessionID string) models.UploadSession
}

// UploadHandler handles lesson video upload endpoints.
type UploadHandler struct {
	service   uploadService
	fieldName string
	maxBytes  int64
}

// NewUploadHandler constructs an upload handler.
func NewUploadHandler(svc uploadService, fieldName string, maxBytes int64) *UploadHandler {
	if fieldName == "" {
		fieldName = "video"
	}
	return &UploadHandler{service: svc, fieldName: fieldName, maxBytes: maxBytes}
}

// Upload godoc
// @Summary Upload a lesson video for the session
// @Tags Uploads
// @Accept multipart/form-data
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param video formData file true "Video file"
// @Success 200 {object} response.Envelope
// @Router /uploads/{sessionId}/video [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	if h.maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)
	}

	header, err := c.FormFile(h.fieldName)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "missing "+h.fieldName+" form file"))
		return
	}

	file, err := header.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, http.StatusInternalServerError, "failed to read uploaded file"))
		return
	}
	defer file.Close()

	meta := models.UploadFile{
		Name:        header.Filename,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
	}

	result, err := h.service.Upload(c.Request.Context(), c.Param("sessionId"), meta, file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// State godoc
// @Summary Get the session's upload state
// @Tags Uploads
// @Produce json
// @Param sessionId path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /uploads/{sessionId}/video [get]
func (h *UploadHandler) State(c *gin.Context) {
	state := h.service.State(c.Param("sessionId"))
	response.JSON(c, http.StatusOK, state)
}
