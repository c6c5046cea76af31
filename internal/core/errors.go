package core

import (
	"net/http"

	"github.com/rotisserie/eris"
)

// Error kinds. Callers wrap these with eris and classify with eris.Is.
var (
	ErrValidation  = eris.New("validation failed")
	ErrNotFound    = eris.New("not found")
	ErrUpstream    = eris.New("upstream extraction failed")
	ErrPersistence = eris.New("persistence failed")
)

func Validation(msg string) error {
	return eris.Wrap(ErrValidation, msg)
}

func NotFound(resource string) error {
	return eris.Wrapf(ErrNotFound, "%s not found", resource)
}

// Upstream marks err as a failure of an external fetch or extraction call.
func Upstream(err error, msg string) error {
	return eris.Wrapf(ErrUpstream, "%s: %v", msg, err)
}

// PublicMessage is the error text safe to return to API clients. Upstream
// and internal failures can carry collaborator URLs and are not echoed.
func PublicMessage(err error) string {
	switch {
	case eris.Is(err, ErrValidation), eris.Is(err, ErrNotFound):
		return err.Error()
	case eris.Is(err, ErrUpstream):
		return "upstream extraction failed"
	default:
		return "internal server error"
	}
}

// HTTPStatus maps an error kind to the status code handlers respond with.
func HTTPStatus(err error) int {
	switch {
	case eris.Is(err, ErrValidation):
		return http.StatusBadRequest
	case eris.Is(err, ErrNotFound):
		return http.StatusNotFound
	case eris.Is(err, ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
