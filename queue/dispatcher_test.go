package queue

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtgto/jasper/api"
	"github.com/mtgto/jasper/errors"
	"github.com/mtgto/jasper/logger"
)

const (
	testOwnerA = "owner-a"
	testOwnerB = "owner-b"
)

func TestDispatcher_config(t *testing.T) {
	stdOutLogger := logger.NewStdOut()

	testCases := []struct {
		name         string
		inConfig     DispatcherConfig
		expectConfig DispatcherConfig
	}{
		{
			name:     "default",
			inConfig: DispatcherConfig{},
			expectConfig: DispatcherConfig{
				MaxBufferSize: 100,
				MaxImmediate:  50,
				Logger:        &logger.Noop{},
			},
		},
		{
			name: "override buffer and logger",
			inConfig: DispatcherConfig{
				MaxBufferSize: 7,
				Logger:        stdOutLogger,
			},
			expectConfig: DispatcherConfig{
				MaxBufferSize: 7,
				MaxImmediate:  50,
				Logger:        stdOutLogger,
			},
		},
		{
			name: "immediate limit below minimum is ignored",
			inConfig: DispatcherConfig{
				MaxImmediate: 1,
			},
			expectConfig: DispatcherConfig{
				MaxBufferSize: 100,
				MaxImmediate:  50,
				Logger:        &logger.Noop{},
			},
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			got := applyDispatcherConfig(tt.inConfig)
			assert.Equal(t, tt.expectConfig, got)
		})
	}
}

func TestDispatcher_Push(t *testing.T) {
	d := NewDispatcher(DispatcherConfig{})
	d.Start()
	defer d.Stop()

	want := &api.Response{Body: map[string]any{"a": float64(1)}, StatusCode: 200}
	res, err := d.Push(context.Background(), testOwnerA, func(ctx context.Context) (*api.Response, error) {
		return want, nil
	})

	require.NoError(t, err)
	assert.Equal(t, want, res)
}

func TestDispatcher_Push_TaskError(t *testing.T) {
	d := NewDispatcher(DispatcherConfig{})
	d.Start()
	defer d.Stop()

	taskErr := fmt.Errorf("boom")
	res, err := d.Push(context.Background(), testOwnerA, func(ctx context.Context) (*api.Response, error) {
		return nil, taskErr
	})

	assert.Nil(t, res)
	assert.Equal(t, taskErr, err)
}

func TestDispatcher_Push_FIFO(t *testing.T) {
	d := NewDispatcher(DispatcherConfig{})
	d.Start()
	defer d.Stop()

	var mu sync.Mutex
	var order []int

	var wg sync.WaitGroup
	gate := make(chan struct{})
	for i := 0; i < 5; i++ {
		i := i
		wg.Add(1)
		task := func(ctx context.Context) (*api.Response, error) {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			return &api.Response{StatusCode: 200}, nil
		}
		go func() {
			defer wg.Done()
			<-gate
			// stagger submissions so arrival order is deterministic
			time.Sleep(time.Duration(i*20) * time.Millisecond)
			_, _ = d.Push(context.Background(), testOwnerA, task)
		}()
	}
	close(gate)
	wg.Wait()

	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestDispatcher_PushImmediate_BypassesQueue(t *testing.T) {
	d := NewDispatcher(DispatcherConfig{})
	d.Start()
	defer d.Stop()

	blocker := make(chan struct{})
	started := make(chan struct{})

	// occupy the ordered lane
	go func() {
		_, _ = d.Push(context.Background(), testOwnerA, func(ctx context.Context) (*api.Response, error) {
			close(started)
			<-blocker
			return &api.Response{StatusCode: 200}, nil
		})
	}()
	<-started

	// the immediate dispatch must not wait for the blocked ordered job
	res, err := d.PushImmediate(context.Background(), testOwnerA, func(ctx context.Context) (*api.Response, error) {
		return &api.Response{StatusCode: 200, Body: "fast"}, nil
	})
	close(blocker)

	require.NoError(t, err)
	assert.Equal(t, "fast", res.Body)
}

func TestDispatcher_Cancel_PendingJob(t *testing.T) {
	d := NewDispatcher(DispatcherConfig{})
	d.Start()
	defer d.Stop()

	blocker := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_, _ = d.Push(context.Background(), testOwnerA, func(ctx context.Context) (*api.Response, error) {
			close(started)
			<-blocker
			return &api.Response{StatusCode: 200}, nil
		})
	}()
	<-started

	// queued behind the blocked job, never gets to run
	ran := false
	resChan := make(chan error, 1)
	go func() {
		_, err := d.Push(context.Background(), testOwnerA, func(ctx context.Context) (*api.Response, error) {
			ran = true
			return &api.Response{StatusCode: 200}, nil
		})
		resChan <- err
	}()
	time.Sleep(50 * time.Millisecond)

	d.Cancel(testOwnerA)
	err := <-resChan
	close(blocker)

	require.Error(t, err)
	var reqErr *errors.RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, errors.TYPE_CANCELED, reqErr.Type)
	assert.False(t, ran)
}

func TestDispatcher_Cancel_InFlightJob(t *testing.T) {
	d := NewDispatcher(DispatcherConfig{})
	d.Start()
	defer d.Stop()

	started := make(chan struct{})
	resChan := make(chan error, 1)
	go func() {
		_, err := d.Push(context.Background(), testOwnerA, func(ctx context.Context) (*api.Response, error) {
			close(started)
			// a cooperative task observes cancellation mid-flight
			<-ctx.Done()
			return nil, ctx.Err()
		})
		resChan <- err
	}()
	<-started

	d.Cancel(testOwnerA)
	err := <-resChan

	require.Error(t, err)
}

func TestDispatcher_Cancel_IsOwnerScoped(t *testing.T) {
	d := NewDispatcher(DispatcherConfig{})
	d.Start()
	defer d.Stop()

	blocker := make(chan struct{})
	started := make(chan struct{})

	resChan := make(chan error, 1)
	go func() {
		_, err := d.PushImmediate(context.Background(), testOwnerB, func(ctx context.Context) (*api.Response, error) {
			close(started)
			select {
			case <-blocker:
				return &api.Response{StatusCode: 200}, nil
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		})
		resChan <- err
	}()
	<-started

	// canceling owner A must not disturb owner B's pending call
	d.Cancel(testOwnerA)
	close(blocker)

	assert.NoError(t, <-resChan)
}

func TestDispatcher_Cancel_AfterSettleIsNoop(t *testing.T) {
	d := NewDispatcher(DispatcherConfig{})
	d.Start()
	defer d.Stop()

	res, err := d.Push(context.Background(), testOwnerA, func(ctx context.Context) (*api.Response, error) {
		return &api.Response{StatusCode: 200}, nil
	})
	require.NoError(t, err)
	require.NotNil(t, res)

	d.Cancel(testOwnerA)
}

func TestDispatcher_CallerContextCancel(t *testing.T) {
	d := NewDispatcher(DispatcherConfig{})
	d.Start()
	defer d.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := d.Push(ctx, testOwnerA, func(ctx context.Context) (*api.Response, error) {
		return &api.Response{StatusCode: 200}, nil
	})

	assert.Nil(t, res)
	require.Error(t, err)
	var reqErr *errors.RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, errors.TYPE_CANCELED, reqErr.Type)
}

func TestDispatcher_StartStop_Idempotent(t *testing.T) {
	d := NewDispatcher(DispatcherConfig{})

	d.Start()
	d.Start()
	d.Stop()
	d.Stop()

	// restart works after a full stop
	d.Start()
	defer d.Stop()

	res, err := d.Push(context.Background(), testOwnerA, func(ctx context.Context) (*api.Response, error) {
		return &api.Response{StatusCode: 200}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 200, res.StatusCode)
}

func TestDispatcher_Push_NotRunning(t *testing.T) {
	d := NewDispatcher(DispatcherConfig{})

	_, err := d.Push(context.Background(), testOwnerA, func(ctx context.Context) (*api.Response, error) {
		return nil, nil
	})
	assert.Error(t, err)

	_, err = d.PushImmediate(context.Background(), testOwnerA, func(ctx context.Context) (*api.Response, error) {
		return nil, nil
	})
	assert.Error(t, err)
}

func TestDispatcher_NilTask(t *testing.T) {
	d := NewDispatcher(DispatcherConfig{})
	d.Start()
	defer d.Stop()

	_, err := d.Push(context.Background(), testOwnerA, nil)
	assert.Error(t, err)
}
