package api

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_Sleeper_NonPositive(t *testing.T) {
	s := NewSleeper()

	start := time.Now()
	assert.NoError(t, s.Sleep(context.Background(), 0))
	assert.NoError(t, s.Sleep(context.Background(), -time.Second))
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}

func Test_Sleeper_Elapses(t *testing.T) {
	s := NewSleeper()

	start := time.Now()
	assert.NoError(t, s.Sleep(context.Background(), 20*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func Test_Sleeper_CanceledContext(t *testing.T) {
	s := NewSleeper()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	err := s.Sleep(ctx, 10*time.Second)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}
