package handler

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/zizouhuweidi/quizzical/internal/domain"
	"github.com/zizouhuweidi/quizzical/internal/service"
	"github.com/zizouhuweidi/quizzical/internal/validation"
)

// CategoryHandler handles category-related HTTP requests
type CategoryHandler struct {
	quiz QuizService
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(quiz QuizService) *CategoryHandler {
	return &CategoryHandler{
		quiz: quiz,
	}
}

// Register registers the category routes. write wraps the routes that change data.
func (h *CategoryHandler) Register(g *echo.Group, write ...echo.MiddlewareFunc) {
	g.GET("/categories", h.ListCategories)
	g.POST("/categories", h.CreateCategory, write...)
	g.POST("/categories/:title/activate", h.SetCategoryActive, write...)
}

// CategoriesResponse wraps the category listing
type CategoriesResponse struct {
	Categories []domain.Category `json:"categories"`
}

// CreateCategoryResponse reports whether a category was created
type CreateCategoryResponse struct {
	Title  string            `json:"title"`
	Status domain.SaveStatus `json:"status"`
}

// ListCategories godoc
// @Summary List active categories
// @Tags categories
// @Produce json
// @Success 200 {object} CategoriesResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/categories [get]
func (h *CategoryHandler) ListCategories(c echo.Context) error {
	categories, err := h.quiz.ListCategories(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, CategoriesResponse{Categories: categories})
}

// CreateCategory godoc
// @Summary Create a category
// @Description Creates a category. With active set, an existing category gets its flag overwritten.
// @Tags categories
// @Accept json
// @Produce json
// @Param category body service.CreateCategoryRequest true "Category"
// @Success 201 {object} CreateCategoryResponse
// @Success 200 {object} CreateCategoryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/categories [post]
func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	var req service.CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return bodyError(c)
	}

	if err := c.Validate(&req); err != nil {
		return respondError(c, err)
	}

	status, err := h.quiz.CreateCategory(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}

	code := http.StatusOK
	if status == domain.SaveCreated {
		code = http.StatusCreated
	}
	return c.JSON(code, CreateCategoryResponse{Title: validation.NormalizeText(req.Title), Status: status})
}

// SetCategoryActive godoc
// @Summary Turn a category on or off
// @Tags categories
// @Produce json
// @Param title path string true "Category title"
// @Param active query bool true "New active flag"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/categories/{title}/activate [post]
func (h *CategoryHandler) SetCategoryActive(c echo.Context) error {
	active, err := strconv.ParseBool(c.QueryParam("active"))
	if err != nil {
		return parameterError(c, "active", "active must be true or false")
	}

	title, err := pathParam(c, "title")
	if err != nil {
		return parameterError(c, "title", "title is not a valid path segment")
	}

	current, err := h.quiz.SetCategoryActive(c.Request().Context(), title, active)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]bool{
		"active": current,
	})
}

// pathParam returns a decoded path parameter. Echo routes on the raw path when
// the request carries escapes such as %2F, leaving those params still encoded.
func pathParam(c echo.Context, name string) (string, error) {
	value := c.Param(name)
	if c.Request().URL.RawPath == "" {
		return value, nil
	}
	return url.PathUnescape(value)
}
