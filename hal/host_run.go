//go:build !tinygo

package hal

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

// RunConfig controls the host runner.
type RunConfig struct {
	Headless bool
	Window   WindowConfig
}

// Run starts the link and tick source, runs device, and shows the panel
// window unless cfg.Headless. It must be called from the main goroutine.
// It returns when ctx ends, the window closes, or a part fails.
func Run(ctx context.Context, h *Host, cfg RunConfig, device func(context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return h.Serve(gctx) })
	g.Go(func() error { return device(gctx) })

	var werr error
	if !cfg.Headless {
		werr = RunWindow(gctx, h, cfg.Window)
		cancel()
	}
	if err := g.Wait(); err != nil && !stopped(err) {
		return err
	}
	return werr
}

func stopped(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
