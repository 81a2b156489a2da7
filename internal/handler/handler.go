package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/zizouhuweidi/quizzical/internal/domain"
	"github.com/zizouhuweidi/quizzical/internal/pagination"
	"github.com/zizouhuweidi/quizzical/internal/service"
)

// QuizService is the set of content operations the HTTP layer exposes
type QuizService interface {
	CreateQuestion(ctx context.Context, req service.CreateQuestionRequest) (domain.Question, error)
	CreateCategory(ctx context.Context, req service.CreateCategoryRequest) (domain.SaveStatus, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	SetCategoryActive(ctx context.Context, title string, active bool) (bool, error)
	ListQuestions(ctx context.Context, category string, page, size int) (pagination.Page[domain.Question], error)
}

var _ QuizService = (*service.QuizService)(nil)

// Health reports liveness
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}
