// Package filewatcher provides a service that watches the config file and
// issues a debounced event with changes
package filewatcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/kweyjibo/input-range/internal/config"
	"github.com/kweyjibo/input-range/internal/utils"
)

type Service struct {
	cfg                  *config.Config
	events               chan interface{}
	watcher              *fsnotify.Watcher
	disableAutoHotReload *bool
	debouncer            *utils.Debouncer
}

func NewService(cfg *config.Config, disableAutoHotReload *bool) *Service {
	return &Service{
		cfg:                  cfg,
		events:               make(chan interface{}, 1),
		disableAutoHotReload: disableAutoHotReload,
		debouncer:            utils.NewDebouncer(),
	}
}

// Listen exposes the debounced change events.
func (s *Service) Listen() <-chan interface{} {
	return s.events
}

func (s *Service) disabled() bool {
	if s.disableAutoHotReload != nil && *s.disableAutoHotReload {
		return true
	}
	return *s.cfg.Get().HotReload.Disabled
}

func (s *Service) Run(ctx context.Context) error {
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		<-ctx.Done()
		logrus.Debug("Context cancelled for filewatcher, shutting down")
		return context.Cause(ctx)
	})

	if s.disabled() {
		logrus.Info("Hot reload disabled, not starting filewatcher")
		if err := eg.Wait(); err != nil {
			return fmt.Errorf("bg tasks failed in filewatcher: %w", err)
		}
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("cant create watcher: %w", err)
	}
	s.watcher = watcher

	// watch the directory, not the file: editors replace config files on
	// save which would otherwise drop the watch
	configDir := s.cfg.Get().ConfigDirPath
	if err := watcher.Add(configDir); err != nil {
		return fmt.Errorf("cant watch config dir %s: %w", configDir, err)
	}
	logrus.WithFields(logrus.Fields{
		"config_dir": configDir,
		"config":     s.cfg.Get().ConfigPath,
	}).Debug("Added config path to watchlist")

	eg.Go(func() error {
		return s.debouncer.Run(ctx)
	})

	eg.Go(func() error {
		<-ctx.Done()
		s.debouncer.Cancel()
		logrus.Debug("Context cancelled, shutting watcher down")
		if err := watcher.Close(); err != nil {
			logrus.WithError(err).Error("Cant close watcher on exit")
		}
		return context.Cause(ctx)
	})

	eg.Go(func() error {
		if err := s.runServiceLoop(ctx, watcher); err != nil {
			return fmt.Errorf("cant run service loop: %w", err)
		}
		return nil
	})

	return eg.Wait()
}

func (s *Service) runServiceLoop(ctx context.Context, watcher *fsnotify.Watcher) error {
	logrus.Debug("Starting filewatcher goroutine")
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return errors.New("watcher channel is closed")
			}

			logrus.WithFields(logrus.Fields{
				"name":      event.Name,
				"operation": event.Op,
			}).Debug("Received filewatcher event")

			delay := time.Duration(*s.cfg.Get().HotReload.UpdateDebounceTimer) * time.Millisecond
			s.debouncer.Do(ctx, delay, s.updateProcessor)
		case err, ok := <-watcher.Errors:
			if !ok {
				return errors.New("watcher error channel is closed")
			}
			if err != nil {
				return fmt.Errorf("watcher error received: %w", err)
			}
		case <-ctx.Done():
			logrus.Debug("Context cancelled, shutting fswatcher down")
			return context.Cause(ctx)
		}
	}
}

func (s *Service) updateProcessor(ctx context.Context) error {
	select {
	case <-ctx.Done():
		logrus.Debug("Config update processor context cancelled, shutting down")
		return context.Cause(ctx)
	default:
		logrus.Debug("Sending update event")
		s.events <- true
		return nil
	}
}
