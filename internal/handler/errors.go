package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/zizouhuweidi/quizzical/internal/domain"
	"github.com/zizouhuweidi/quizzical/internal/repoerr"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error  string       `json:"error"`
	Code   string       `json:"code,omitempty"`
	Title  string       `json:"title,omitempty"`
	Detail string       `json:"detail,omitempty"`
	Source *ErrorSource `json:"source,omitempty"`
}

// ErrorSource points at the part of the request that caused the error
type ErrorSource struct {
	Pointer   string `json:"pointer,omitempty"`
	Parameter string `json:"parameter,omitempty"`
}

func fieldError(c echo.Context, pointer, detail string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:  detail,
		Code:   "validation.field",
		Title:  "Invalid field",
		Detail: detail,
		Source: &ErrorSource{Pointer: pointer},
	})
}

func parameterError(c echo.Context, parameter, detail string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:  detail,
		Code:   "query.parameter",
		Title:  "Invalid query parameter",
		Detail: detail,
		Source: &ErrorSource{Parameter: parameter},
	})
}

func bodyError(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:  "Invalid request body",
		Code:   "request.body",
		Title:  "Invalid request body",
		Detail: "The request body is not valid JSON for this endpoint",
	})
}

// respondError writes err as an ErrorResponse. Validation failures are 400s;
// everything else goes through the storage error mapping.
func respondError(c echo.Context, err error) error {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return fieldError(c, "/"+validationErr.Field, validationErr.Message)
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return fieldError(c, pointer(fieldErrs[0]), fieldMessage(fieldErrs[0]))
	}

	problem := repoerr.ToProblem(err)
	if problem.Status >= http.StatusInternalServerError {
		slog.ErrorContext(c.Request().Context(), "Request failed",
			"method", c.Request().Method,
			"path", c.Path(),
			"code", problem.Code,
			"error", err,
		)
	}

	return c.JSON(problem.Status, ErrorResponse{
		Error:  problem.Title,
		Code:   problem.Code,
		Title:  problem.Title,
		Detail: problem.Detail,
	})
}
