package rate

import (
	"context"
	"net/http"
)

type NoopLimiter struct {
}

var _ Limiter = &NoopLimiter{}

func (n NoopLimiter) Limit(_ context.Context, _ *http.Request) error {
	return nil
}
