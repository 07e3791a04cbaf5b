package client

import (
	"errors"
	"fmt"
	"net/http"
	"unicode/utf8"
)

// Errors returned by Client. Transport failures are returned wrapped as-is;
// ErrUnreachable additionally marks a refused connection.
var (
	ErrInvalidURL  = errors.New("invalid listing service URL")
	ErrEncoding    = errors.New("encoding request body")
	ErrDecoding    = errors.New("decoding response body")
	ErrUnreachable = errors.New("listing service not running")
)

// unknownErrorDescription is used when a failed response carries no readable body.
const unknownErrorDescription = "unknown error"

// ServerError is returned when the listing service answers with a non-2xx status.
type ServerError struct {
	Code int
	// Description is the raw response body.
	Description string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("API error (HTTP %d): %s", e.Code, e.Description)
}

// IsDuplicate reports whether err is the service's rejection of a listing
// whose id already exists.
func IsDuplicate(err error) bool {
	return StatusCode(err) == http.StatusNotAcceptable
}

// IsNotFound reports whether err is a 404 from the service.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// StatusCode returns the HTTP status of a ServerError in err's chain, or 0.
func StatusCode(err error) int {
	var se *ServerError
	if errors.As(err, &se) {
		return se.Code
	}
	return 0
}

func newServerError(status int, body []byte) *ServerError {
	desc := unknownErrorDescription
	if len(body) > 0 && utf8.Valid(body) {
		desc = string(body)
	}
	return &ServerError{Code: status, Description: desc}
}

// outcome classifies err for the client metrics.
func outcome(err error) string {
	var se *ServerError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &se):
		return "server_error"
	case errors.Is(err, ErrDecoding):
		return "decoding_error"
	case errors.Is(err, ErrEncoding):
		return "encoding_error"
	case errors.Is(err, ErrInvalidURL):
		return "invalid_url"
	default:
		return "transport_error"
	}
}
