// Package signal provides signal handling functionality.
package signal

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
)

// Interrupted marks a run that ended on a termination signal.
type Interrupted struct {
	sig os.Signal
}

func (i *Interrupted) Error() string {
	return "interrupted by signal " + i.sig.String()
}

func (i *Interrupted) ExitCode() int {
	return 1
}

// Refresher handles SIGUSR1 by re-applying the current state.
type Refresher interface {
	RunOnce(context.Context) error
}

type Handler struct {
	sigChan     chan os.Signal
	cancelCause context.CancelCauseFunc
	refresher   Refresher
}

func NewHandler(cancelCause context.CancelCauseFunc, refresher Refresher) *Handler {
	return &Handler{
		sigChan:     make(chan os.Signal, 1),
		cancelCause: cancelCause,
		refresher:   refresher,
	}
}

// Run listens for process signals until the context is done. SIGUSR1
// triggers a refresh; termination signals cancel the root context.
func (h *Handler) Run(ctx context.Context) error {
	signal.Notify(h.sigChan, syscall.SIGUSR1, syscall.SIGTERM, syscall.SIGINT, syscall.SIGHUP)
	defer signal.Stop(h.sigChan)
	logrus.Debug("Signal notifications registered for SIGUSR1, SIGTERM, SIGINT, SIGHUP")

	for {
		select {
		case sig := <-h.sigChan:
			logrus.WithField("signal", sig).Debug("Signal received")
			switch sig {
			case syscall.SIGUSR1:
				if h.refresher == nil {
					continue
				}
				logrus.Info("Received SIGUSR1, re-applying current values")
				if err := h.refresher.RunOnce(ctx); err != nil {
					logrus.WithError(err).Error("Refresh failed, service will keep running")
				}
			case syscall.SIGTERM, syscall.SIGINT, syscall.SIGHUP:
				logrus.WithField("signal", sig).Info("Received termination signal, shutting down gracefully")
				h.cancelCause(&Interrupted{sig: sig})
				return context.Cause(ctx)
			}
		case <-ctx.Done():
			logrus.Debug("Signal handler context done, exiting")
			return context.Cause(ctx)
		}
	}
}
