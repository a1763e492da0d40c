//go:build !tinygo

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"oledui/internal/master"
)

const watchDebounce = 150 * time.Millisecond

func cmdProvision(e *env, args []string) error {
	fs := subFlags("provision")
	scene := fs.String("scene", "", "Send a built-in scene instead of a file.")
	watch := fs.BoolP("watch", "w", false, "Send again whenever the file changes.")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *scene != "" {
		stream, err := master.Scene(*scene)
		if err != nil {
			return err
		}
		return send(e, *scene, stream)
	}
	if err := wantArgs(fs, 1); err != nil {
		return err
	}
	path := fs.Arg(0)
	if path == "-" {
		if *watch {
			return errors.New("--watch needs a file")
		}
		stream, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		return send(e, "stdin", stream)
	}
	if err := sendFile(e, path); err != nil && !*watch {
		return err
	}
	if !*watch {
		return nil
	}
	return watchFile(e, path)
}

func sendFile(e *env, path string) error {
	stream, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	return send(e, filepath.Base(path), stream)
}

func send(e *env, name string, stream []byte) error {
	rep, err := e.client.Provision(e.ctx, stream)
	for _, o := range rep.Objects {
		switch {
		case o.Skipped:
			e.log.Warn("skipped object", "index", o.Index, "len", len(o.Object), "max", master.MaxObject)
		case o.Err != nil:
			e.log.Error("object failed", "index", o.Index, "object", string(o.Object), "err", o.Err)
		default:
			e.log.Debug("object", "index", o.Index, "flags", o.Flags)
		}
	}
	if err != nil {
		return err
	}
	e.out.ok(fmt.Sprintf("provisioned %s: %d sent, %d skipped", name, rep.Sent(), rep.Skipped()))
	return nil
}

// watchFile resends path after each change. The directory is watched so
// editors that replace the file atomically are still seen.
func watchFile(e *env, path string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}
	target := filepath.Base(path)
	e.log.Info("watching", "file", path)

	var fire <-chan time.Time
	for {
		select {
		case <-e.ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				fire = time.After(watchDebounce)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			e.log.Warn("watch", "err", err)
		case <-fire:
			fire = nil
			if err := sendFile(e, path); err != nil {
				e.log.Error("provision", "err", err)
			}
		}
	}
}
