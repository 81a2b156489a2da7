package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/zizouhuweidi/quizzical/internal/pagination"
	"github.com/zizouhuweidi/quizzical/internal/service"
)

// QuestionHandler handles question-related HTTP requests
type QuestionHandler struct {
	quiz QuizService
}

// NewQuestionHandler creates a new question handler
func NewQuestionHandler(quiz QuizService) *QuestionHandler {
	return &QuestionHandler{
		quiz: quiz,
	}
}

// Register registers the question routes. write wraps the routes that change data.
func (h *QuestionHandler) Register(g *echo.Group, write ...echo.MiddlewareFunc) {
	g.GET("/questions", h.ListQuestions)
	g.POST("/questions", h.CreateQuestion, write...)
}

// CreateQuestion godoc
// @Summary Add a question
// @Description Stores a question and its choices atomically, creating the category if needed
// @Tags questions
// @Accept json
// @Produce json
// @Param question body service.CreateQuestionRequest true "Question"
// @Success 201 {object} domain.Question
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/questions [post]
func (h *QuestionHandler) CreateQuestion(c echo.Context) error {
	var req service.CreateQuestionRequest
	if err := c.Bind(&req); err != nil {
		return bodyError(c)
	}

	if err := c.Validate(&req); err != nil {
		return respondError(c, err)
	}

	question, err := h.quiz.CreateQuestion(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, question)
}

// ListQuestions godoc
// @Summary List the questions of a category
// @Tags questions
// @Produce json
// @Param category query string true "Category title"
// @Param page query int false "Page, 1-based" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} pagination.Page[domain.Question]
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/questions [get]
func (h *QuestionHandler) ListQuestions(c echo.Context) error {
	category := strings.TrimSpace(c.QueryParam("category"))
	if category == "" {
		return parameterError(c, "category", "category is required")
	}

	page, size := pagination.ParseParams(c.QueryParam("page"), c.QueryParam("size"))

	result, err := h.quiz.ListQuestions(c.Request().Context(), category, page, size)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, result)
}
