// Package notifications provides notifications through dbus
package notifications

import (
	"fmt"

	"github.com/TheCreeper/go-notify"
	"github.com/sirupsen/logrus"

	"github.com/kweyjibo/input-range/internal/config"
)

type Service struct {
	config *config.Config
	hints  map[string]interface{}
}

func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
		hints: map[string]interface{}{
			"synchronous":       "input-range",
			"x-dunst-stack-tag": "input-range",
		},
	}
}

// NotifyValueCommitted announces a committed slider value on the desktop.
func (s *Service) NotifyValueCommitted(control *config.Control, value float64) error {
	if *s.config.Get().Notifications.Disabled {
		logrus.Debug("notifications are not enabled, not sending")
		return nil
	}

	summary := fmt.Sprintf("%s set to %v%s", *control.Label, value, *control.Unit)
	ntf := notify.NewNotification(summary, "")
	ntf.Timeout = *s.config.Get().Notifications.TimeoutMs
	ntf.Hints = s.hints

	if _, err := ntf.Show(); err != nil {
		return fmt.Errorf("cant send notification for %s: %w", control.Name, err)
	}
	return nil
}
