package rate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_NoopLimiter(t *testing.T) {
	l := &NoopLimiter{}
	assert.NoError(t, l.Limit(context.Background(), nil))
}

func Test_TokenBucket_AllowsBurst(t *testing.T) {
	l := NewTokenBucket(1, 2)

	start := time.Now()
	assert.NoError(t, l.Limit(context.Background(), nil))
	assert.NoError(t, l.Limit(context.Background(), nil))
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func Test_TokenBucket_CanceledContext(t *testing.T) {
	l := NewTokenBucket(0.001, 1)
	assert.NoError(t, l.Limit(context.Background(), nil))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, l.Limit(ctx, nil))
}
