package errors

import (
	"errors"
	"fmt"
)

const (
	STAGE_CONFIG         = "config"
	STAGE_BEFORE_REQUEST = "before-request"
	STAGE_REQUEST        = "request"
	STAGE_AFTER_REQUEST  = "after-request"

	TYPE_UNKNOWN      = "unknown"
	TYPE_CONFIG       = "invalid-config"
	TYPE_REQUEST_PREP = "request-prep"
	TYPE_IO           = "io"
	TYPE_HTTP_STATUS  = "not-ok-http-status"
	TYPE_JSON_PARSE   = "json"
	TYPE_CANCELED     = "canceled"
)

// RequestError is the single error type surfaced by the client.
// The Type constant tells callers which failure they are looking at:
//
//   - TYPE_CONFIG:      missing token or host at construction
//   - TYPE_IO:          transport-level failure, SourceErr is the net error
//   - TYPE_HTTP_STATUS: non-200 response, Body holds the raw response body
//   - TYPE_JSON_PARSE:  200 response whose body is not valid JSON
//   - TYPE_CANCELED:    work abandoned via Client.Cancel or context expiry
//
// When Body is set, Error() returns it verbatim: API error payloads and
// unparsable bodies reach the caller exactly as the server sent them.
type RequestError struct {
	Stage          string
	Type           string
	SourceErr      error
	Body           []byte
	HttpStatusCode int
}

var _ error = &RequestError{}

func (e *RequestError) Error() string {
	if len(e.Body) > 0 {
		return string(e.Body)
	}
	if e.SourceErr != nil {
		return e.SourceErr.Error()
	}
	return fmt.Sprintf(
		"request failed during '%s' stage with error type '%s', httpStatus: '%d'",
		e.Stage, e.Type, e.HttpStatusCode,
	)
}

func (e *RequestError) Unwrap() error {
	return e.SourceErr
}

// Is method is required by errors.Is() to properly distinguish between
// different types -vs- same pointer to the same type.
// Without it, errors.Is(err, &RequestError{}) returns false:
// ok := errors.Is(errors.Join(&jasper_errors.RequestError{}), &jasper_errors.RequestError{})
// ^ would be false
func (e *RequestError) Is(other error) bool {
	var err *RequestError
	return errors.As(other, &err) && err != nil
}
