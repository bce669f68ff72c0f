// Package fexapi provides an HTTP client for the FEX.net file-hosting API.
// Every call is a form-encoded POST carrying the session cookie; failures
// are classified into sentinel errors wrapped by APIError.
package fexapi

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for HTTP status code classification.
// Use errors.Is(err, fexapi.ErrNotFound) to check.
var (
	ErrBadRequest    = errors.New("fexapi: bad request")
	ErrUnauthorized  = errors.New("fexapi: unauthorized")
	ErrForbidden     = errors.New("fexapi: forbidden")
	ErrNotFound      = errors.New("fexapi: not found")
	ErrServerError   = errors.New("fexapi: server error")
	ErrRequestFailed = errors.New("fexapi: request failed")
	ErrTransport     = errors.New("fexapi: transport failure")
)

// APIError wraps a sentinel error with the HTTP status code and response
// body for debugging. A zero StatusCode means the request never produced a
// response (connection failure, timeout).
type APIError struct {
	StatusCode int
	Message    string
	Err        error // sentinel or underlying transport error, for errors.Is()
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("fexapi: request failed: %s", e.Message)
	}

	return fmt.Sprintf("fexapi: HTTP %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// classifyStatus maps a non-2xx HTTP status code to a sentinel error.
// Codes without a dedicated sentinel fall back to ErrRequestFailed so
// every APIError unwraps to something errors.Is can match.
func classifyStatus(code int) error {
	switch code {
	case http.StatusBadRequest:
		return ErrBadRequest
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	default:
		if code >= http.StatusInternalServerError {
			return ErrServerError
		}

		return ErrRequestFailed
	}
}
