package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cursolab/authoring-api/internal/dto"
	"github.com/cursolab/authoring-api/internal/models"
	appErrors "github.com/cursolab/authoring-api/pkg/errors"
	"github.com/cursolab/authoring-api/pkg/response"
)

type authoringService interface {
	CreateSession() string
	Outline(id string) (*dto.OutlineResponse, error)
	AddModule(id string) error
	RemoveModule(id string, index int) error
	AddLesson(id string, moduleIndex int) error
	RemoveLesson(id string, moduleIndex, lessonIndex int) error
	UpdateCourse(id string, req dto.UpdateCourseFieldsRequest) error
	UpdateModule(id string, index int, req dto.UpdateModuleFieldsRequest) error
	UpdateLesson(id string, moduleIndex, lessonIndex int, req dto.UpdateLessonFieldsRequest) error
	Submit(ctx context.Context, id string, status models.CourseStatus) (*dto.CourseRecord, []models.FieldError, error)
}

// AuthoringHandler handles the course-builder session endpoints.
type AuthoringHandler struct {
	service authoringService
}

// NewAuthoringHandler constructs an authoring handler.
func NewAuthoringHandler(svc authoringService) *AuthoringHandler {
	return &AuthoringHandler{service: svc}
}

// CreateSession godoc
// @Summary Open a new authoring session
// @Tags Authoring
// @Produce json
// @Success 201 {object} response.Envelope
// @Router /authoring/sessions [post]
func (h *AuthoringHandler) CreateSession(c *gin.Context) {
	id := h.service.CreateSession()
	response.Created(c, dto.SessionResponse{SessionID: id})
}

// GetOutline godoc
// @Summary Get the session's draft outline
// @Tags Authoring
// @Produce json
// @Param sessionId path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /authoring/sessions/{sessionId} [get]
func (h *AuthoringHandler) GetOutline(c *gin.Context) {
	outline, err := h.service.Outline(c.Param("sessionId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, outline)
}

// AddModule godoc
// @Summary Append a module to the draft
// @Tags Authoring
// @Produce json
// @Param sessionId path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /authoring/sessions/{sessionId}/modules [post]
func (h *AuthoringHandler) AddModule(c *gin.Context) {
	id := c.Param("sessionId")
	if err := h.service.AddModule(id); err != nil {
		response.Error(c, err)
		return
	}
	h.respondOutline(c, id)
}

// RemoveModule godoc
// @Summary Remove a module from the draft
// @Tags Authoring
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param moduleIndex path int true "Module index"
// @Success 200 {object} response.Envelope
// @Router /authoring/sessions/{sessionId}/modules/{moduleIndex} [delete]
func (h *AuthoringHandler) RemoveModule(c *gin.Context) {
	id := c.Param("sessionId")
	moduleIndex, ok := h.pathIndex(c, "moduleIndex")
	if !ok {
		return
	}
	if err := h.service.RemoveModule(id, moduleIndex); err != nil {
		response.Error(c, err)
		return
	}
	h.respondOutline(c, id)
}

// AddLesson godoc
// @Summary Append a lesson to a module
// @Tags Authoring
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param moduleIndex path int true "Module index"
// @Success 200 {object} response.Envelope
// @Router /authoring/sessions/{sessionId}/modules/{moduleIndex}/lessons [post]
func (h *AuthoringHandler) AddLesson(c *gin.Context) {
	id := c.Param("sessionId")
	moduleIndex, ok := h.pathIndex(c, "moduleIndex")
	if !ok {
		return
	}
	if err := h.service.AddLesson(id, moduleIndex); err != nil {
		response.Error(c, err)
		return
	}
	h.respondOutline(c, id)
}

// RemoveLesson godoc
// @Summary Remove a lesson from a module
// @Tags Authoring
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param moduleIndex path int true "Module index"
// @Param lessonIndex path int true "Lesson index"
// @Success 200 {object} response.Envelope
// @Router /authoring/sessions/{sessionId}/modules/{moduleIndex}/lessons/{lessonIndex} [delete]
func (h *AuthoringHandler) RemoveLesson(c *gin.Context) {
	id := c.Param("sessionId")
	moduleIndex, ok := h.pathIndex(c, "moduleIndex")
	if !ok {
		return
	}
	lessonIndex, ok := h.pathIndex(c, "lessonIndex")
	if !ok {
		return
	}
	if err := h.service.RemoveLesson(id, moduleIndex, lessonIndex); err != nil {
		response.Error(c, err)
		return
	}
	h.respondOutline(c, id)
}

// UpdateCourse godoc
// @Summary Update course fields on the draft
// @Tags Authoring
// @Accept json
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param payload body dto.UpdateCourseFieldsRequest true "Field updates"
// @Success 200 {object} response.Envelope
// @Router /authoring/sessions/{sessionId}/course [patch]
func (h *AuthoringHandler) UpdateCourse(c *gin.Context) {
	id := c.Param("sessionId")
	var req dto.UpdateCourseFieldsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.service.UpdateCourse(id, req); err != nil {
		response.Error(c, err)
		return
	}
	h.respondOutline(c, id)
}

// UpdateModule godoc
// @Summary Update module fields on the draft
// @Tags Authoring
// @Accept json
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param moduleIndex path int true "Module index"
// @Param payload body dto.UpdateModuleFieldsRequest true "Field updates"
// @Success 200 {object} response.Envelope
// @Router /authoring/sessions/{sessionId}/modules/{moduleIndex} [patch]
func (h *AuthoringHandler) UpdateModule(c *gin.Context) {
	id := c.Param("sessionId")
	moduleIndex, ok := h.pathIndex(c, "moduleIndex")
	if !ok {
		return
	}
	var req dto.UpdateModuleFieldsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.service.UpdateModule(id, moduleIndex, req); err != nil {
		response.Error(c, err)
		return
	}
	h.respondOutline(c, id)
}

// UpdateLesson godoc
// @Summary Update lesson fields on the draft
// @Tags Authoring
// @Accept json
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param moduleIndex path int true "Module index"
// @Param lessonIndex path int true "Lesson index"
// @Param payload body dto.UpdateLessonFieldsRequest true "Field updates"
// @Success 200 {object} response.Envelope
// @Router /authoring/sessions/{sessionId}/modules/{moduleIndex}/lessons/{lessonIndex} [patch]
func (h *AuthoringHandler) UpdateLesson(c *gin.Context) {
	id := c.Param("sessionId")
	moduleIndex, ok := h.pathIndex(c, "moduleIndex")
	if !ok {
		return
	}
	lessonIndex, ok := h.pathIndex(c, "lessonIndex")
	if !ok {
		return
	}
	var req dto.UpdateLessonFieldsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.service.UpdateLesson(id, moduleIndex, lessonIndex, req); err != nil {
		response.Error(c, err)
		return
	}
	h.respondOutline(c, id)
}

// Submit godoc
// @Summary Submit the draft as draft or published
// @Tags Authoring
// @Accept json
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param payload body dto.SubmitCourseRequest true "Submission mode"
// @Success 201 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /authoring/sessions/{sessionId}/submit [post]
func (h *AuthoringHandler) Submit(c *gin.Context) {
	id := c.Param("sessionId")
	var req dto.SubmitCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	record, fieldErrs, err := h.service.Submit(c.Request.Context(), id, models.CourseStatus(req.Status))
	if err != nil {
		response.Error(c, err)
		return
	}
	if len(fieldErrs) > 0 {
		response.JSON(c, http.StatusUnprocessableEntity, dto.SubmitRejectedResponse{Errors: fieldErrs})
		return
	}
	response.Created(c, record)
}

func (h *AuthoringHandler) respondOutline(c *gin.Context, id string) {
	outline, err := h.service.Outline(id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, outline)
}

func (h *AuthoringHandler) pathIndex(c *gin.Context, name string) (int, bool) {
	value, err := strconv.Atoi(c.Param(name))
	if err != nil || value < 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, name+" must be a non-negative integer"))
		return 0, false
	}
	return value, true
}
