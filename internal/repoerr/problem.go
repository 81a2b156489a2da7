package repoerr

import (
	"errors"
	"net/http"
)

// Problem is the externally visible shape of a storage failure.
type Problem struct {
	Status int
	Code   string
	Title  string
	Detail string
}

// ToProblem converts err into its boundary representation. Errors that are not
// *Error are treated as KindUnknown.
func ToProblem(err error) Problem {
	var e *Error
	if !errors.As(err, &e) {
		e = Unknown("", err)
	}

	detail := e.Error()

	switch e.Kind {
	case KindConnection:
		return Problem{
			Status: http.StatusInternalServerError,
			Code:   "db.connection",
			Title:  "Database connection failed",
			Detail: detail,
		}
	case KindDatabase:
		return Problem{
			Status: http.StatusInternalServerError,
			Code:   "db.execution",
			Title:  "Database statement failed",
			Detail: detail,
		}
	case KindIO:
		return Problem{
			Status: http.StatusInternalServerError,
			Code:   "db.io",
			Title:  "Database I/O failed",
			Detail: detail,
		}
	case KindConversion:
		return Problem{
			Status: http.StatusInternalServerError,
			Code:   "db.conversion",
			Title:  "Stored value could not be read",
			Detail: detail,
		}
	case KindNotFound:
		return Problem{
			Status: http.StatusNotFound,
			Code:   "not_found",
			Title:  "Resource not found",
			Detail: detail,
		}
	default:
		return Problem{
			Status: http.StatusInternalServerError,
			Code:   "db",
			Title:  "Unexpected database error",
			Detail: detail,
		}
	}
}
