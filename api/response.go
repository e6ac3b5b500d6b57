package api

import "net/http"

// Response is the result of one successful round trip: status 200 with a
// body that parsed as JSON. Any other outcome surfaces as an error instead.
type Response struct {
	// Body is the parsed JSON value: object, array, or scalar.
	Body any

	// StatusCode is always 200 today but kept explicit so callers
	// never have to assume.
	StatusCode int

	// Header is the full response header set, including the
	// x-ratelimit-* values the quota check consumed.
	Header http.Header
}
