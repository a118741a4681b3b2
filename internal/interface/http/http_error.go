package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yanqian/lunar-calendar/pkg/errors"
)

// HTTPError is what the error middleware renders as {"error":{code,message}}.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *HTTPError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewHTTPError is a helper to build an HTTPError instance.
func NewHTTPError(status int, code, message string, err error) *HTTPError {
	return &HTTPError{Status: status, Code: code, Message: message, Err: err}
}

type transportCode struct {
	status int
	code   string
}

// appErrorCodes maps domain AppError codes onto the wire. Codes not listed
// surface as a 500 with the caller's fallback code.
var appErrorCodes = map[string]transportCode{
	apperrors.CodeInvalidInput:   {http.StatusBadRequest, "invalid_request"},
	apperrors.CodeImpossibleDate: {http.StatusBadRequest, apperrors.CodeImpossibleDate},
	apperrors.CodeUnoccupiedCell: {http.StatusUnprocessableEntity, apperrors.CodeUnoccupiedCell},
	apperrors.CodePresetError:    {http.StatusServiceUnavailable, "presets_unavailable"},
}

// domainError translates a service failure using its AppError code.
func domainError(err error, fallbackCode string) *HTTPError {
	if tc, ok := appErrorCodes[apperrors.CodeOf(err)]; ok {
		return NewHTTPError(tc.status, tc.code, errMessage(err), err)
	}
	return NewHTTPError(http.StatusInternalServerError, fallbackCode, errMessage(err), err)
}

// asHTTPError accepts anything pushed onto gin's error list: HTTPErrors pass
// through, AppErrors are mapped, the rest become an opaque 500.
func asHTTPError(err error) *HTTPError {
	if err == nil {
		return nil
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	if _, ok := appErrorCodes[apperrors.CodeOf(err)]; ok {
		return domainError(err, "internal_error")
	}
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_error",
		Message: "something went wrong",
		Err:     err,
	}
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func abortWithError(c *gin.Context, err *HTTPError) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}
