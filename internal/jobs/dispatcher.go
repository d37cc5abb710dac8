// Package jobs queues incoming events and processes them on a worker pool.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/brigantine-ci/brigantine/internal/core"
)

// Dispatcher implements core.JobDispatcher with a pool of worker goroutines
// draining a bounded event queue. Each event is handled by one worker,
// sequentially, which gives every event its own single-threaded flow.
type Dispatcher struct {
	pipeline   core.Job
	eventQueue chan *core.Event
	maxWorkers int
	wg         sync.WaitGroup
	logger     *slog.Logger
}

// NewDispatcher initializes a dispatcher with a worker pool. If maxWorkers
// is 0 or negative, it defaults to 1.
func NewDispatcher(pipeline core.Job, maxWorkers int, logger *slog.Logger) *Dispatcher {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	d := &Dispatcher{
		pipeline:   pipeline,
		maxWorkers: maxWorkers,
		eventQueue: make(chan *core.Event, 100),
		logger:     logger,
	}
	d.startWorkers()
	return d
}

// startWorkers launches maxWorkers goroutines to drain the queue.
func (d *Dispatcher) startWorkers() {
	for i := range d.maxWorkers {
		d.wg.Add(1)
		go d.startWorker(i)
	}
}

// startWorker processes events from the queue until it is closed.
func (d *Dispatcher) startWorker(workerID int) {
	defer d.wg.Done()
	d.logger.Info("starting pipeline worker", "id", workerID)

	for event := range d.eventQueue {
		d.processEvent(workerID, event)
	}

	d.logger.Info("shutting down pipeline worker", "id", workerID)
}

// processEvent runs the pipeline for one event.
func (d *Dispatcher) processEvent(workerID int, event *core.Event) {
	d.logger.Info("worker processing event",
		"worker_id", workerID,
		"category", event.Category,
		"action", event.Action,
		"build_id", event.BuildID,
	)

	if err := d.pipeline.Run(context.Background(), event); err != nil {
		d.logger.Error("event handling failed",
			"category", event.Category,
			"action", event.Action,
			"build_id", event.BuildID,
			"error", err,
		)
	}
}

// Dispatch queues an event for processing by a worker.
func (d *Dispatcher) Dispatch(_ context.Context, event *core.Event) error {
	d.logger.Info("queuing event",
		"category", event.Category,
		"action", event.Action,
		"build_id", event.BuildID,
	)

	select {
	case d.eventQueue <- event:
		return nil
	default:
		return fmt.Errorf("event queue is full, cannot accept new events")
	}
}

// Stop gracefully shuts down the dispatcher, waiting for in-flight events
// to finish.
func (d *Dispatcher) Stop() {
	d.logger.Info("stopping dispatcher and waiting for events to finish")
	close(d.eventQueue)
	d.wg.Wait()
	d.logger.Info("all queued events have been handled")
}
