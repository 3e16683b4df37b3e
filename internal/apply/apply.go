// Package apply pushes committed control values to their configured
// backends.
package apply

import (
	"context"
	"fmt"
	"math"

	"github.com/godbus/dbus/v5"
	"github.com/sirupsen/logrus"

	"github.com/kweyjibo/input-range/internal/config"
	"github.com/kweyjibo/input-range/internal/errs"
)

const (
	login1Dest          = "org.freedesktop.login1"
	login1SessionPath   = "/org/freedesktop/login1/session/auto"
	setBrightnessMethod = "org.freedesktop.login1.Session.SetBrightness"
)

// Service applies values over dbus. A nil connection disables the logind
// target; controls with target "none" always succeed locally.
type Service struct {
	conn *dbus.Conn
}

func NewService(conn *dbus.Conn) *Service {
	return &Service{conn: conn}
}

// Apply pushes value to the control's backend. The value is floored to a
// whole unit before leaving the process.
func (s *Service) Apply(ctx context.Context, control *config.Control, value float64) error {
	switch *control.Apply.Target {
	case config.NoneTarget:
		logrus.WithFields(logrus.Fields{
			"control": control.Name,
			"value":   value,
		}).Debug("No apply target, keeping value local")
		return nil
	case config.LogindTarget:
		return s.applyLogind(ctx, control, value)
	}
	return fmt.Errorf("unknown apply target %v for %s", *control.Apply.Target, control.Name)
}

func (s *Service) applyLogind(ctx context.Context, control *config.Control, value float64) error {
	if s.conn == nil {
		return fmt.Errorf("cant apply %s: %w", control.Name, errs.ErrApplyUnavailable)
	}

	floored := math.Floor(value)
	if floored < 0 {
		floored = 0
	}

	obj := s.conn.Object(login1Dest, dbus.ObjectPath(login1SessionPath))
	call := obj.CallWithContext(ctx, setBrightnessMethod, 0,
		*control.Apply.Subsystem, *control.Apply.Device, uint32(floored))
	if call.Err != nil {
		return fmt.Errorf("cant set brightness for %s (%s/%s): %w",
			control.Name, *control.Apply.Subsystem, *control.Apply.Device, call.Err)
	}

	logrus.WithFields(logrus.Fields{
		"control":   control.Name,
		"subsystem": *control.Apply.Subsystem,
		"device":    *control.Apply.Device,
		"value":     uint32(floored),
	}).Debug("Applied value via logind")
	return nil
}
