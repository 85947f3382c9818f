package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cursolab/authoring-api/internal/models"
	appErrors "github.com/cursolab/authoring-api/pkg/errors"
)

type categoryServiceMock struct {
	categories []models.Category
	err        error
}

func (m *categoryServiceMock) List(context.Context) ([]models.Category, error) {
	return m.categories, m.err
}

func TestCategoryHandlerList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewCategoryHandler(&categoryServiceMock{categories: []models.Category{
		{ID: "cat-1", Name: "Programming"},
	}})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(http.MethodGet, "/categories", nil)
	require.NoError(t, err)
	c.Request = req

	handler.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Programming")
}

func TestCategoryHandlerListUpstreamDown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewCategoryHandler(&categoryServiceMock{err: appErrors.ErrUpstreamNetwork})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(http.MethodGet, "/categories", nil)
	require.NoError(t, err)
	c.Request = req

	handler.List(c)

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
}
