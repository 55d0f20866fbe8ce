package runtime

import (
	"context"
	"sync"
)

// Dispatcher is the production ports.Executor: a single goroutine draining a
// task queue. Everything posted runs in order and never concurrently, which
// is the scheduling model the engine core relies on.
//
// The queue is unbounded. Tasks post further tasks from inside the
// dispatcher goroutine (a synchronous host notifies observers from within
// the mutating task), so Post must never wait for room.
type Dispatcher struct {
	mu      sync.Mutex
	pending []func()
	closed  bool
	wake    chan struct{}
	done    chan struct{}
	once    sync.Once
}

// NewDispatcher creates a dispatcher. Call Run to start draining.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

// Post enqueues task and returns immediately. After Run returns, tasks are
// dropped. Safe to call from any goroutine, the dispatcher's own included.
func (d *Dispatcher) Post(task func()) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.pending = append(d.pending, task)
	d.mu.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}
}

// Len returns the number of tasks waiting to run.
func (d *Dispatcher) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// Run drains tasks until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) error {
	defer d.once.Do(func() {
		d.mu.Lock()
		d.closed = true
		d.pending = nil
		d.mu.Unlock()
		close(d.done)
	})
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-d.wake:
		}

		for {
			d.mu.Lock()
			batch := d.pending
			d.pending = nil
			d.mu.Unlock()
			if len(batch) == 0 {
				break
			}
			for _, task := range batch {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				task()
			}
		}
	}
}

// Done is closed once Run has returned.
func (d *Dispatcher) Done() <-chan struct{} {
	return d.done
}
