//go:build !tinygo && !cgo

package hal

import (
	"context"
	"errors"
)

// WindowConfig sizes the panel window.
type WindowConfig struct {
	Scale int
}

func RunWindow(_ context.Context, _ *Host, _ WindowConfig) error {
	return errors.New("window mode requires cgo (build/run with CGO_ENABLED=1, or use --headless)")
}
