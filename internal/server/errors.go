package server

import (
	"errors"
	"net/http"

	"github.com/sozercan/echarts-ai/internal/fileparse"
)

// ValidationError is a request body that does not match the expected shape.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return "invalid request: " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// statusFor maps handler errors to HTTP statuses. Anything unrecognized,
// upstream and parse failures included, is a 500.
func statusFor(err error) int {
	var (
		unsupported *fileparse.UnsupportedFormatError
		invalid     *ValidationError
		tooLarge    *http.MaxBytesError
	)
	switch {
	case errors.As(err, &unsupported):
		return http.StatusBadRequest
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &invalid):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
