// Package worker runs a task on a fixed interval until stopped.
package worker

import (
	"context"
	"log"
	"sync"
	"time"
)

// Task is one unit of periodic work.
type Task interface {
	Run(ctx context.Context) error
}

// Worker runs a Task every interval
type Worker struct {
	name     string
	task     Task
	interval time.Duration
	stopChan chan struct{}
	doneChan chan struct{}
	stopOnce sync.Once
}

// NewWorker creates a new Worker instance
func NewWorker(name string, task Task, interval time.Duration) *Worker {
	return &Worker{
		name:     name,
		task:     task,
		interval: interval,
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}
}

// Start begins the polling loop and blocks until ctx is cancelled or Stop is called.
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	defer close(w.doneChan)

	log.Printf("%s: worker started with interval %v", w.name, w.interval)

	for {
		select {
		case <-ctx.Done():
			log.Printf("%s: worker stopped: context cancelled", w.name)
			return
		case <-w.stopChan:
			log.Printf("%s: worker stopped: stop signal received", w.name)
			return
		case <-ticker.C:
			if err := w.task.Run(ctx); err != nil {
				log.Printf("%s: task failed: %v", w.name, err)
			}
		}
	}
}

// Stop signals the loop and waits for it to exit. Only call after Start.
func (w *Worker) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopChan)
	})
	<-w.doneChan
}
