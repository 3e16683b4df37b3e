// Package app wires the configuration, apply backends and the TUI
// together into a runnable program.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/kweyjibo/input-range/internal/apply"
	"github.com/kweyjibo/input-range/internal/config"
	"github.com/kweyjibo/input-range/internal/filewatcher"
	"github.com/kweyjibo/input-range/internal/notifications"
	"github.com/kweyjibo/input-range/internal/signal"
	"github.com/kweyjibo/input-range/internal/tui"
	"github.com/kweyjibo/input-range/internal/utils"
)

type TUI struct {
	program   *tea.Program
	fswatcher *filewatcher.Service
	cfg       *config.Config
}

// needsBus reports whether any control pushes values over dbus.
func needsBus(cfg *config.Config) bool {
	for _, control := range cfg.Get().Controls {
		if *control.Apply.Target != config.NoneTarget {
			return true
		}
	}
	return false
}

func NewTUI(ctx context.Context, configPath, version string,
	disableApply, connectToSessionBus, disableAutoHotReload bool, duration *time.Duration,
) (*TUI, error) {
	cfg, err := config.NewConfig(configPath)
	if err != nil {
		logrus.WithError(err).Error("cant create/read config")
		return nil, fmt.Errorf("cant create/read config: %w", err)
	}

	applier := apply.NewService(nil)
	if !disableApply && needsBus(cfg) {
		conn, err := getBus(connectToSessionBus)
		if err != nil {
			return nil, fmt.Errorf("cant connect to dbus: %w", err)
		}
		applier = apply.NewService(conn)
	}

	notifier := notifications.NewService(cfg)
	fw := filewatcher.NewService(cfg, utils.BoolPtr(disableAutoHotReload))

	model, err := tui.NewModel(ctx, cfg, applier, notifier, version, duration)
	if err != nil {
		return nil, fmt.Errorf("cant create the TUI model: %w", err)
	}

	program := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	return &TUI{
		program:   program,
		fswatcher: fw,
		cfg:       cfg,
	}, nil
}

// RunOnce re-reads the config and pushes the fresh snapshot to the TUI.
// Invoked by the signal handler on SIGUSR1.
func (t *TUI) RunOnce(_ context.Context) error {
	if err := t.cfg.Reload(); err != nil {
		return fmt.Errorf("cant reload user configuration: %w", err)
	}
	t.program.Send(tui.ConfigReloaded{})
	return nil
}

func (t *TUI) Run(ctx context.Context, cancel context.CancelCauseFunc) error {
	eg, ctx := errgroup.WithContext(ctx)

	sig := signal.NewHandler(cancel, t)
	eg.Go(func() error {
		return sig.Run(ctx)
	})

	eg.Go(func() error {
		return t.fswatcher.Run(ctx)
	})

	eg.Go(func() error {
		c := t.fswatcher.Listen()
		for {
			select {
			case _, ok := <-c:
				if !ok {
					return errors.New("watcher event channel closed")
				}
				logrus.Debug("Watcher event received")
				if err := t.cfg.Reload(); err != nil {
					logrus.WithError(err).Error("Cant reload user configuration, keeping the previous one")
					t.program.Send(tui.OperationStatusCmd(tui.OperationNameReload, err)())
					continue
				}
				t.program.Send(tui.ConfigReloaded{})

			case <-ctx.Done():
				logrus.Debug("Reloader event processor context cancelled, shutting down")
				return context.Cause(ctx)
			}
		}
	})

	eg.Go(func() error {
		if _, err := t.program.Run(); err != nil {
			return fmt.Errorf("failed to run TUI: %w", err)
		}
		cancel(context.Canceled)
		logrus.Debug("Exiting tea")
		return nil
	})

	eg.Go(func() error {
		<-ctx.Done()
		logrus.Debug("Context cancelled, shutting down")
		return context.Cause(ctx)
	})

	if err := eg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("main eg failed: %w", err)
	}

	logrus.Info("Shutdown complete")
	return nil
}
