package queue

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/mtgto/jasper/api"
	"github.com/mtgto/jasper/errors"
	"github.com/mtgto/jasper/logger"
)

// Dispatcher is the default Queue: Push submissions run one at a time in
// FIFO order through a single listen goroutine, PushImmediate submissions
// run right away on their own goroutine. Every submission is registered
// under its owner key so Cancel can abort exactly that owner's work,
// including work suspended in a rate-limit wait.
//
// Usage Example:
//
//	d := queue.NewDispatcher(queue.DispatcherConfig{})
//	d.Start()
//	defer d.Stop()
//
//	res, err := d.Push(ctx, ownerKey, func(ctx context.Context) (*api.Response, error) {
//	    return apiClient.Get(ctx, "notifications", nil)
//	})
type Dispatcher struct {
	config  DispatcherConfig
	logger  logger.Logger
	jobChan chan *job
	owners  ownerRegistry
	group   errgroup.Group
	inFly   sync.WaitGroup
	mu      sync.RWMutex
	running bool
}

type DispatcherConfig struct {
	// MaxBufferSize determines the buffer size of the internal job
	// channel so Push does not block the submitter while earlier work
	// drains.
	// default: 100
	MaxBufferSize int

	// MaxImmediate limits the number of concurrent goroutines serving
	// PushImmediate submissions.
	// default: 50
	MaxImmediate int

	// Logger provides logging functionality for dispatch and
	// cancellation events.
	// default: logger.Noop
	Logger logger.Logger
}

var _ Queue = &Dispatcher{}

func NewDispatcher(config DispatcherConfig) *Dispatcher {
	config = applyDispatcherConfig(config)

	return &Dispatcher{
		config:  config,
		logger:  config.Logger,
		jobChan: make(chan *job, config.MaxBufferSize),
		owners:  newOwnerRegistry(),
	}
}

func applyDispatcherConfig(inConfig DispatcherConfig) DispatcherConfig {
	outConfig := DispatcherConfig{
		MaxBufferSize: 100,
		MaxImmediate:  50,
		Logger:        &logger.Noop{},
	}
	if inConfig.MaxBufferSize > 0 {
		outConfig.MaxBufferSize = inConfig.MaxBufferSize
	}
	if inConfig.MaxImmediate > 1 {
		// the group needs at least 2 slots:
		// 1 - for the listener itself
		// 2 - for an immediate dispatch
		outConfig.MaxImmediate = inConfig.MaxImmediate
	}
	if inConfig.Logger != nil {
		outConfig.Logger = inConfig.Logger
	}
	return outConfig
}

// Start begins the dispatch loop. Idempotent.
func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running {
		return
	}

	d.group.SetLimit(d.config.MaxImmediate + 1)
	d.group.Go(func() error {
		d.listen()
		return nil
	})
	d.running = true
}

// Stop drains the queue and waits for in-flight work, ordered and immediate
// alike, then prepares for a potential restart. Idempotent.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.running {
		return
	}

	// initiate exit from the "listen" loop
	close(d.jobChan)

	if err := d.group.Wait(); err != nil {
		d.logger.Errorf("queue.Dispatcher: failed to wait for in-flight work: %v", err)
	}
	d.inFly.Wait()

	// override jobChan to handle a Start->Stop->Start case
	// as the next Push would write to a closed channel
	d.jobChan = make(chan *job, d.config.MaxBufferSize)
	d.running = false
	d.logger.Debugf("queue.Dispatcher: drained last job")
}

// Push submits task under the FIFO ordering and blocks until the task
// settles, ctx is done, or the owner is canceled.
func (d *Dispatcher) Push(ctx context.Context, ownerKey string, task Task) (*api.Response, error) {
	j, err := d.newJob(ctx, ownerKey, task)
	if err != nil {
		return nil, err
	}

	d.mu.RLock()
	running := d.running
	if running {
		select {
		case d.jobChan <- j:
		case <-j.ctx.Done():
		}
	}
	d.mu.RUnlock()
	if !running {
		j.discard()
		return nil, notRunningErr()
	}

	return j.await()
}

// PushImmediate runs task as soon as possible, bypassing the FIFO ordering,
// and blocks until it settles.
func (d *Dispatcher) PushImmediate(ctx context.Context, ownerKey string, task Task) (*api.Response, error) {
	j, err := d.newJob(ctx, ownerKey, task)
	if err != nil {
		return nil, err
	}

	d.mu.RLock()
	running := d.running
	if running {
		d.group.Go(func() error {
			d.run(j)
			return nil
		})
	}
	d.mu.RUnlock()
	if !running {
		j.discard()
		return nil, notRunningErr()
	}

	return j.await()
}

// Cancel aborts all pending and in-flight work registered under ownerKey.
// Work owned by other keys is untouched; work that already settled is
// unaffected.
func (d *Dispatcher) Cancel(ownerKey string) {
	n := d.owners.cancelAll(ownerKey)
	if n > 0 {
		d.logger.Infof("queue.Dispatcher: canceled %d job(s) for owner %s", n, ownerKey)
	}
}

func (d *Dispatcher) listen() {
	d.logger.Debugf("queue.Dispatcher: listening...")
	for j := range d.jobChan {
		d.run(j)
	}
}

func (d *Dispatcher) run(j *job) {
	d.inFly.Add(1)
	defer d.inFly.Done()

	// a job canceled while still queued settles without running
	if err := j.ctx.Err(); err != nil {
		j.settle(nil, canceledErr(err))
		return
	}

	res, err := j.task(j.ctx)
	if err == nil && j.ctx.Err() != nil {
		// canceled between the round trip finishing and settling:
		// the response is discarded, not delivered
		j.settle(nil, canceledErr(j.ctx.Err()))
		return
	}
	j.settle(res, err)
}

type outcome struct {
	res *api.Response
	err error
}

type job struct {
	ctx        context.Context
	task       Task
	done       chan outcome
	unregister func()
}

func (d *Dispatcher) newJob(ctx context.Context, ownerKey string, task Task) (*job, error) {
	if task == nil {
		return nil, &errors.RequestError{
			Stage:     errors.STAGE_BEFORE_REQUEST,
			Type:      errors.TYPE_UNKNOWN,
			SourceErr: errNilTask,
		}
	}

	jobCtx, cancel := context.WithCancel(ctx)
	return &job{
		ctx:  jobCtx,
		task: task,
		// buffered so a worker can settle an abandoned job without blocking
		done:       make(chan outcome, 1),
		unregister: d.owners.register(ownerKey, cancel),
	}, nil
}

// await blocks until the job settles or its context is done. An abandoned
// job's eventual outcome is discarded via the buffered done channel.
func (j *job) await() (*api.Response, error) {
	defer j.unregister()

	select {
	case out := <-j.done:
		if j.ctx.Err() != nil && out.err == nil {
			return nil, canceledErr(j.ctx.Err())
		}
		return out.res, out.err
	case <-j.ctx.Done():
		return nil, canceledErr(j.ctx.Err())
	}
}

func (j *job) settle(res *api.Response, err error) {
	j.done <- outcome{res: res, err: err}
}

func (j *job) discard() {
	j.unregister()
}

func canceledErr(src error) error {
	return &errors.RequestError{
		Stage:     errors.STAGE_REQUEST,
		Type:      errors.TYPE_CANCELED,
		SourceErr: src,
	}
}

func notRunningErr() error {
	return &errors.RequestError{
		Stage:     errors.STAGE_BEFORE_REQUEST,
		Type:      errors.TYPE_UNKNOWN,
		SourceErr: errNotRunning,
	}
}
