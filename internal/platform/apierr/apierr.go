package apierr

import (
	"fmt"
	"net/http"

	apperrors "github.com/yungbote/studyplanner-backend/internal/pkg/errors"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// FromError maps the domain error taxonomy onto an HTTP status. fallbackCode
// is used for anything that is not NotFound or InvalidArgument.
func FromError(err error, fallbackCode string) *Error {
	switch {
	case err == nil:
		return nil
	case apperrors.IsNotFound(err):
		return New(http.StatusNotFound, "not_found", err)
	case apperrors.IsInvalid(err):
		return New(http.StatusBadRequest, "invalid_argument", err)
	case apperrors.IsExternal(err):
		return New(http.StatusBadGateway, fallbackCode, err)
	default:
		return New(http.StatusInternalServerError, fallbackCode, err)
	}
}
