package rate

import (
	"context"
	"net/http"

	xrate "golang.org/x/time/rate"
)

// Limiter throttles outbound requests before they are sent.
//
// This is a client-side courtesy throttle, separate from the server-driven
// quota handling in Status: the server's x-ratelimit headers are always
// honored regardless of which Limiter is installed. Implementations can use
// different strategies such as:
//   - Token bucket algorithm
//   - Fixed window counting
//   - Sliding window counting
//
// The Limit method is called once before each request and may block until
// the request is allowed to proceed, or until ctx is done. The request
// information (method, path, etc.) is available for per-endpoint policies.
type Limiter interface {
	Limit(ctx context.Context, req *http.Request) error
}

type tokenBucket struct {
	limiter *xrate.Limiter
}

var _ Limiter = &tokenBucket{}

// NewTokenBucket returns a Limiter that admits at most rps requests per
// second with the given burst size, backed by golang.org/x/time/rate.
func NewTokenBucket(rps float64, burst int) Limiter {
	return &tokenBucket{
		limiter: xrate.NewLimiter(xrate.Limit(rps), burst),
	}
}

func (t *tokenBucket) Limit(ctx context.Context, _ *http.Request) error {
	return t.limiter.Wait(ctx)
}
