// Package dispatch serializes task execution per owner. Tasks submitted
// for the same owner run one at a time in submission order; tasks for
// different owners run concurrently.
package dispatch

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// Task is a unit of work bound to one owner's conversation.
type Task func(ctx context.Context)

// Dispatcher routes tasks to per-owner workers. Each owner gets a lazily
// started goroutine draining a buffered channel, which gives the ordering
// guarantee without a global lock around task execution.
type Dispatcher struct {
	mu        sync.Mutex
	sendMu    sync.RWMutex
	lanes     map[string]chan Task
	wg        sync.WaitGroup
	closeChan chan struct{}
	closed    bool
	queueSize int
	baseCtx   context.Context
	log       zerolog.Logger
}

// New creates a dispatcher. queueSize determines how many tasks can be
// pending per owner before Submit blocks. baseCtx is the context tasks
// run under; cancelling it aborts in-flight work during shutdown.
func New(baseCtx context.Context, queueSize int, log zerolog.Logger) *Dispatcher {
	if queueSize < 1 {
		queueSize = 16
	}
	return &Dispatcher{
		lanes:     make(map[string]chan Task),
		closeChan: make(chan struct{}),
		queueSize: queueSize,
		baseCtx:   baseCtx,
		log:       log.With().Str("component", "dispatch").Logger(),
	}
}

// Submit enqueues a task on the owner's lane, starting the lane's worker
// if this is the owner's first task. It blocks when the lane is full.
func (d *Dispatcher) Submit(ctx context.Context, ownerID string, task Task) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return fmt.Errorf("dispatcher is closed")
	}
	lane, ok := d.lanes[ownerID]
	if !ok {
		lane = make(chan Task, d.queueSize)
		d.lanes[ownerID] = lane
		d.wg.Add(1)
		go d.worker(ownerID, lane)
	}
	d.mu.Unlock()

	// The read lock keeps this send visible to Shutdown: a task can land
	// in a buffered lane after its worker drained, so Shutdown must not
	// sweep the lanes until every in-flight send has finished.
	d.sendMu.RLock()
	defer d.sendMu.RUnlock()

	// Re-check under the lock: Shutdown's final sweep runs behind the
	// write lock, so a send that starts after the sweep must not land.
	select {
	case <-d.closeChan:
		return fmt.Errorf("dispatcher is closed")
	default:
	}

	select {
	case lane <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-d.closeChan:
		return fmt.Errorf("dispatcher is closed")
	}
}

// worker drains one owner's lane until shutdown.
func (d *Dispatcher) worker(ownerID string, lane chan Task) {
	defer d.wg.Done()

	for {
		select {
		case <-d.closeChan:
			// Drain what was accepted before the close.
			d.drainLane(ownerID, lane)
			return
		case task := <-lane:
			d.run(ownerID, task)
		}
	}
}

func (d *Dispatcher) drainLane(ownerID string, lane chan Task) {
	for {
		select {
		case task := <-lane:
			d.run(ownerID, task)
		default:
			return
		}
	}
}

func (d *Dispatcher) run(ownerID string, task Task) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error().
				Str("owner_id", ownerID).
				Interface("panic", r).
				Msg("task panicked")
		}
	}()
	task(d.baseCtx)
}

// Shutdown stops accepting tasks, lets workers drain accepted ones, and
// waits for them to exit. The context bounds the wait.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.closeChan)
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	// A Submit that passed the closed check before the close can still
	// win the buffered send against the worker's drain. Once the write
	// lock is held no send is in flight, so a final sweep catches them.
	d.sendMu.Lock()
	defer d.sendMu.Unlock()
	d.mu.Lock()
	lanes := d.lanes
	d.mu.Unlock()
	for ownerID, lane := range lanes {
		d.drainLane(ownerID, lane)
	}
	return nil
}
