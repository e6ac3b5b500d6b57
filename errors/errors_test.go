package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Error_BodyIsMessage(t *testing.T) {
	err := &RequestError{
		Stage:          STAGE_AFTER_REQUEST,
		Type:           TYPE_HTTP_STATUS,
		Body:           []byte("not found"),
		HttpStatusCode: 404,
	}
	assert.Equal(t, "not found", err.Error())
}

func Test_Error_ParseFailureBodyIsMessage(t *testing.T) {
	err := &RequestError{
		Stage:          STAGE_AFTER_REQUEST,
		Type:           TYPE_JSON_PARSE,
		SourceErr:      fmt.Errorf("invalid character 'o'"),
		Body:           []byte("not-json"),
		HttpStatusCode: 200,
	}
	// The raw body wins over the json decode error.
	assert.Equal(t, "not-json", err.Error())
}

func Test_Error_SourceErrWhenNoBody(t *testing.T) {
	src := fmt.Errorf("dial tcp: connection refused")
	err := &RequestError{
		Stage:     STAGE_REQUEST,
		Type:      TYPE_IO,
		SourceErr: src,
	}
	assert.Equal(t, src.Error(), err.Error())
	assert.Equal(t, src, errors.Unwrap(err))
}

func Test_Error_Fallback(t *testing.T) {
	err := &RequestError{
		Stage: STAGE_CONFIG,
		Type:  TYPE_CONFIG,
	}
	assert.Contains(t, err.Error(), STAGE_CONFIG)
	assert.Contains(t, err.Error(), TYPE_CONFIG)
}

func Test_Error_Is(t *testing.T) {
	err := &RequestError{Type: TYPE_HTTP_STATUS}
	wrapped := fmt.Errorf("call failed: %w", err)

	assert.True(t, errors.Is(wrapped, &RequestError{}))

	var reqErr *RequestError
	assert.True(t, errors.As(wrapped, &reqErr))
	assert.Equal(t, TYPE_HTTP_STATUS, reqErr.Type)
}
