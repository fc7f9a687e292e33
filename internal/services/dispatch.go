package services

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

type job struct {
	name string
	run  func(ctx context.Context)
}

// Dispatcher runs fire-and-forget side effects (notifications, audit writes)
// on a fixed pool of workers
type Dispatcher struct {
	jobs   chan job
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
	logger *logrus.Logger
}

// NewDispatcher creates a dispatcher and starts its workers
func NewDispatcher(workers, queueSize int, logger *logrus.Logger) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}

	ctx, cancel := context.WithCancel(context.Background())
	d := &Dispatcher{
		jobs:   make(chan job, queueSize),
		ctx:    ctx,
		cancel: cancel,
		logger: logger,
	}

	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}

	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for j := range d.jobs {
		d.execute(d.ctx, j)
	}
}

func (d *Dispatcher) execute(ctx context.Context, j job) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Errorf("Background job %s panicked: %v", j.name, r)
		}
	}()

	j.run(ctx)
}

// Go schedules run without waiting for it. When the queue is full the job
// gets its own goroutine; after Close it runs on the caller's goroutine.
func (d *Dispatcher) Go(name string, run func(ctx context.Context)) {
	j := job{name: name, run: run}

	d.mu.RLock()
	if d.closed {
		d.mu.RUnlock()
		d.execute(context.Background(), j)
		return
	}

	select {
	case d.jobs <- j:
		d.mu.RUnlock()
	default:
		d.wg.Add(1)
		d.mu.RUnlock()
		d.logger.Warnf("Background queue is full, running %s detached", name)
		go func() {
			defer d.wg.Done()
			d.execute(d.ctx, j)
		}()
	}
}

// Close stops accepting jobs and waits for queued ones to finish
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.jobs)
	d.mu.Unlock()

	d.wg.Wait()
	d.cancel()
}
