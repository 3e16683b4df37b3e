// Package errs provides common errors thrown in the app that are expected to be caught upstream
package errs

import "errors"

// ErrApplyUnavailable means no dbus connection is available for the
// configured apply target; values stay local.
var ErrApplyUnavailable = errors.New("apply backend unavailable")
