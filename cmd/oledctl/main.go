//go:build !tinygo

// Command oledctl drives a display controller over its framed link.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"charm.land/log/v2"
	"github.com/spf13/pflag"

	"oledui/hal"
	"oledui/internal/buildinfo"
	"oledui/internal/master"
	"oledui/internal/store"
	"oledui/internal/ui"
)

const usage = `usage: oledctl [--addr host:port] [--timeout d] <command> [args]

commands:
  ping                       check the link
  status                     show device status
  state <id>                 show one element
  screen <n>                 make base screen n active
  scroll <n> [--offset px]   slide to base screen n
  overlay <id> [--duration d] [--mask]
  input <button> [--press]   send one button event (up down ok back left right)
  keys                       forward arrow keys, enter and backspace
  abort                      abort provisioning
  standby                    power the panel down
  provision <file|-> [--scene name] [--watch]
  watch [--every d] [--overlay id]
  scenes                     list built-in scenes
`

type env struct {
	ctx    context.Context
	client *master.Client
	log    *log.Logger
	out    *output
}

type command func(e *env, args []string) error

var commands = map[string]command{
	"ping":      cmdPing,
	"status":    cmdStatus,
	"state":     cmdState,
	"screen":    cmdScreen,
	"scroll":    cmdScroll,
	"overlay":   cmdOverlay,
	"input":     cmdInput,
	"keys":      cmdKeys,
	"abort":     cmdAbort,
	"standby":   cmdStandby,
	"provision": cmdProvision,
	"watch":     cmdWatch,
}

func main() {
	fs := pflag.NewFlagSet("oledctl", pflag.ExitOnError)
	fs.SetInterspersed(false)
	fs.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	addr := fs.StringP("addr", "a", hal.DefaultListen, "Device link address.")
	timeout := fs.Duration("timeout", master.DefaultTimeout, "Reply timeout per request.")
	level := fs.String("log-level", "info", "Log level (debug, info, warn, error).")
	version := fs.BoolP("version", "V", false, "Print the version and exit.")
	_ = fs.Parse(os.Args[1:])

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "oledctl"})
	if lv, err := log.ParseLevel(*level); err == nil {
		logger.SetLevel(lv)
	}

	if *version {
		fmt.Println(buildinfo.String())
		return
	}
	args := fs.Args()
	if len(args) == 0 {
		fs.Usage()
		os.Exit(2)
	}
	out := newOutput(os.Stdout)
	if args[0] == "scenes" {
		for _, name := range master.Scenes() {
			out.line(name)
		}
		return
	}
	cmd, ok := commands[args[0]]
	if !ok {
		logger.Error("unknown command", "command", args[0])
		fs.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	conn, err := (&net.Dialer{Timeout: 2 * time.Second}).DialContext(ctx, "tcp", *addr)
	if err != nil {
		logger.Fatal("dial", "addr", *addr, "err", err)
	}
	defer conn.Close()
	logger.Debug("connected", "addr", conn.RemoteAddr())

	e := &env{ctx: ctx, client: master.New(conn, master.WithTimeout(*timeout)), log: logger, out: out}
	if err := cmd(e, args[1:]); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error(args[0], "err", err)
		conn.Close()
		os.Exit(1)
	}
}

func subFlags(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	return fs
}

func wantArgs(fs *pflag.FlagSet, n int) error {
	if fs.NArg() != n {
		return fmt.Errorf("want %d argument(s), got %d", n, fs.NArg())
	}
	return nil
}

func parseByte(s string) (uint8, error) {
	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("bad number %q: %w", s, err)
	}
	return uint8(v), nil
}

func parseButton(s string) (ui.Button, error) {
	for b := ui.ButtonUp; b < ui.ButtonCount; b++ {
		if strings.EqualFold(b.String(), s) {
			return b, nil
		}
	}
	return 0, fmt.Errorf("unknown button %q", s)
}

func cmdPing(e *env, args []string) error {
	p, err := e.client.Ping(e.ctx)
	if err != nil {
		return err
	}
	e.out.kv("version", strconv.Itoa(int(p.Version)))
	e.out.kv("caps", fmt.Sprintf("0x%04X", p.Caps))
	return nil
}

func cmdStatus(e *env, args []string) error {
	st, err := e.client.Status(e.ctx)
	if err != nil {
		return err
	}
	e.out.status(st)
	return nil
}

func cmdState(e *env, args []string) error {
	fs := subFlags("state")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := wantArgs(fs, 1); err != nil {
		return err
	}
	id, err := parseByte(fs.Arg(0))
	if err != nil {
		return err
	}
	es, err := e.client.ElementState(e.ctx, store.ID(id))
	if err != nil {
		return err
	}
	e.out.element(store.ID(id), es)
	return nil
}

func cmdScreen(e *env, args []string) error {
	fs := subFlags("screen")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := wantArgs(fs, 1); err != nil {
		return err
	}
	n, err := parseByte(fs.Arg(0))
	if err != nil {
		return err
	}
	if err := e.client.SetActiveScreen(e.ctx, n); err != nil {
		return err
	}
	e.out.ok("screen " + fs.Arg(0))
	return nil
}

func cmdScroll(e *env, args []string) error {
	fs := subFlags("scroll")
	offset := fs.Int16("offset", 0, "Starting pixel offset.")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := wantArgs(fs, 1); err != nil {
		return err
	}
	n, err := parseByte(fs.Arg(0))
	if err != nil {
		return err
	}
	if fs.Changed("offset") {
		err = e.client.ScrollToScreenWithOffset(e.ctx, *offset, n)
	} else {
		err = e.client.ScrollToScreen(e.ctx, n)
	}
	if err != nil {
		return err
	}
	e.out.ok("scroll " + fs.Arg(0))
	return nil
}

func cmdOverlay(e *env, args []string) error {
	fs := subFlags("overlay")
	d := fs.Duration("duration", 0, "How long to show it (0 = device default).")
	mask := fs.Bool("mask", false, "Swallow input other than Ok while shown.")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := wantArgs(fs, 1); err != nil {
		return err
	}
	id, err := parseByte(fs.Arg(0))
	if err != nil {
		return err
	}
	if err := e.client.ShowOverlay(e.ctx, store.ID(id), *d, *mask); err != nil {
		return err
	}
	e.out.ok("overlay " + fs.Arg(0))
	return nil
}

func cmdInput(e *env, args []string) error {
	fs := subFlags("input")
	press := fs.Bool("press", false, "Send a press instead of a release.")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := wantArgs(fs, 1); err != nil {
		return err
	}
	b, err := parseButton(fs.Arg(0))
	if err != nil {
		return err
	}
	ev := ui.EventRelease
	if *press {
		ev = ui.EventPress
	}
	if err := e.client.Input(e.ctx, uint8(b), ev); err != nil {
		return err
	}
	e.out.ok("input " + b.String())
	return nil
}

func cmdAbort(e *env, args []string) error {
	if err := e.client.Abort(e.ctx); err != nil {
		return err
	}
	e.out.ok("abort")
	return nil
}

func cmdStandby(e *env, args []string) error {
	if err := e.client.Standby(); err != nil {
		return err
	}
	e.out.ok("standby")
	return nil
}

func cmdWatch(e *env, args []string) error {
	fs := subFlags("watch")
	every := fs.Duration("every", 100*time.Millisecond, "Status poll interval.")
	overlay := fs.Int("overlay", -1, "Overlay screen to show when a trigger fires.")
	if err := fs.Parse(args); err != nil {
		return err
	}
	versions := map[store.ID]uint8{}
	return e.client.Watch(e.ctx, *every, func(ch master.Change) error {
		e.out.element(ch.ID, ch.State)
		if ch.State.Type != store.TypeTrigger || *overlay < 0 {
			return nil
		}
		if versions[ch.ID] == ch.State.Version {
			return nil
		}
		versions[ch.ID] = ch.State.Version
		err := e.client.ShowOverlay(e.ctx, store.ID(*overlay), 1500*time.Millisecond, false)
		if err != nil {
			e.log.Warn("overlay", "id", *overlay, "err", err)
		}
		return nil
	})
}
