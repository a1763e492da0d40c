//go:build !tinygo

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/pflag"

	"oledui/app"
	"oledui/hal"
	"oledui/internal/buildinfo"
)

func main() {
	fs := pflag.NewFlagSet("oledui", pflag.ExitOnError)
	configPath := fs.StringP("config", "c", "", "YAML config file.")
	headless := fs.Bool("headless", false, "Run without a window.")
	listen := fs.String("listen", hal.DefaultListen, "TCP address for the master link.")
	height := fs.Uint8("height", 64, "Panel height (32 or 64).")
	scale := fs.Int("scale", 4, "Window pixel scale.")
	level := fs.String("log-level", "info", "Log level (debug, info, warn, error).")
	duration := fs.Duration("duration", 0, "Stop after this long (0 = run until interrupted).")
	version := fs.BoolP("version", "V", false, "Print the version and exit.")
	_ = fs.Parse(os.Args[1:])

	if *version {
		fmt.Println(buildinfo.String())
		return
	}

	cfg, err := app.LoadHostConfig(*configPath)
	if err != nil {
		fatal(err)
	}
	if fs.Changed("headless") {
		cfg.Window.Headless = *headless
	}
	if fs.Changed("listen") {
		cfg.Link.Listen = *listen
	}
	if fs.Changed("height") {
		cfg.Display.Height = *height
	}
	if fs.Changed("scale") {
		cfg.Window.Scale = *scale
	}
	if fs.Changed("log-level") {
		cfg.Log.Level = *level
	}
	if err := cfg.Validate(); err != nil {
		fatal(err)
	}

	h, err := hal.NewHost(cfg.HAL())
	if err != nil {
		fatal(err)
	}
	d, err := app.New(h, cfg.Device())
	if err != nil {
		fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if *duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *duration)
		defer cancel()
	}

	h.Log().Info("device up", "version", buildinfo.Short(), "height", cfg.Display.Height, "listen", cfg.Link.Listen)
	start := time.Now()
	err = hal.Run(ctx, h, cfg.Run(), d.Run)
	h.Log().Info("device stopped", "uptime", time.Since(start).Round(time.Millisecond))
	if err != nil && !errors.Is(err, context.Canceled) {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "oledui:", err)
	os.Exit(1)
}
