package utils

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Debouncer coalesces bursts of scheduled calls into a single execution
// after a quiet period. Execution happens on the goroutine running Run.
type Debouncer struct {
	mu    sync.Mutex
	timer *time.Timer
	jobs  chan func(context.Context) error
}

func NewDebouncer() *Debouncer {
	return &Debouncer{
		jobs: make(chan func(context.Context) error, 1),
	}
}

// Do schedules fn to run after delay, replacing any previously scheduled
// call that has not fired yet.
func (d *Debouncer) Do(ctx context.Context, delay time.Duration, fn func(context.Context) error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}

	logrus.WithFields(logrus.Fields{
		"fn":    GetFunctionName(fn),
		"delay": delay,
	}).Debug("Scheduling debounced call")
	d.timer = time.AfterFunc(delay, func() {
		select {
		case d.jobs <- fn:
		case <-ctx.Done():
			logrus.Debug("Debounced call dropped, context done")
		}
	})
}

// Cancel drops the pending scheduled call, if any.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Run executes debounced calls until the context is done. Errors from the
// executed functions are logged, not fatal.
func (d *Debouncer) Run(ctx context.Context) error {
	for {
		select {
		case fn := <-d.jobs:
			if err := fn(ctx); err != nil {
				logrus.WithError(err).Error("Debounced call failed")
			}
		case <-ctx.Done():
			return context.Cause(ctx)
		}
	}
}
