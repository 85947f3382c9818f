package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cursolab/authoring-api/internal/models"
	"github.com/cursolab/authoring-api/pkg/response"
)

type categoryService interface {
	List(ctx context.Context) ([]models.Category, error)
}

// CategoryHandler handles category endpoints.
type CategoryHandler struct {
	service categoryService
}

// NewCategoryHandler constructs a category handler.
func NewCategoryHandler(svc categoryService) *CategoryHandler {
	return &CategoryHandler{service: svc}
}

// List godoc
// @Summary List course categories
// @Tags Categories
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, categories)
}
