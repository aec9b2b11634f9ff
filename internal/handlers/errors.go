package handlers

import (
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/eightbin/internal/shortener"
)

// APIError is the error body of every failed request: {"error": "..."}.
type APIError struct {
	status  int
	Message string `json:"error"`
}

func (e *APIError) Error() string {
	return e.Message
}

// GetStatus implements huma.StatusError.
func (e *APIError) GetStatus() int {
	return e.status
}

func init() {
	huma.NewError = NewAPIError
}

// NewAPIError replaces huma.NewError, so framework errors share the same body.
// Details are only exposed for client errors.
func NewAPIError(status int, msg string, errs ...error) huma.StatusError {
	if status < http.StatusInternalServerError {
		for _, err := range errs {
			if err != nil {
				msg += ": " + err.Error()

				break
			}
		}
	}

	return &APIError{status: status, Message: msg}
}

// failure describes how a domain error is reported to the client.
type failure struct {
	status  int
	kind    string
	message string
}

// classify maps domain errors to status and message. fallback is the message
// used for server-side failures.
func classify(err error, fallback string) failure {
	switch {
	case errors.Is(err, shortener.ErrInvalidURL):
		return failure{http.StatusBadRequest, "invalid_input", "invalid url"}
	case errors.Is(err, shortener.ErrInvalidAlias):
		return failure{http.StatusBadRequest, "invalid_input", "invalid alias"}
	case errors.Is(err, shortener.ErrNameConflict):
		return failure{http.StatusConflict, "name_conflict", "alias already exists"}
	case errors.Is(err, shortener.ErrNamespaceExhausted):
		return failure{http.StatusServiceUnavailable, "namespace_exhausted", "no free name available, try again"}
	case errors.Is(err, shortener.ErrStoreRead):
		return failure{http.StatusInternalServerError, "store_read", fallback}
	case errors.Is(err, shortener.ErrStoreWrite):
		return failure{http.StatusInternalServerError, "store_write", fallback}
	default:
		return failure{http.StatusInternalServerError, "internal", fallback}
	}
}
