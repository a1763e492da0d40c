//go:build !tinygo

// Command flatten converts a nested long-key scene document into the flat
// short-key form a display controller is provisioned with.
package main

import (
	"fmt"
	"io"
	"os"

	"charm.land/log/v2"
	"github.com/spf13/pflag"

	"oledui/internal/scene"
)

func main() {
	fs := pflag.NewFlagSet("flatten", pflag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: flatten [--height 32|64] [--stream] [-o out] <input.json|->")
		fs.PrintDefaults()
	}
	height := fs.Int("height", 32, "Display height used for clamping (32 or 64).")
	stream := fs.Bool("stream", false, "Write back-to-back objects instead of an elements array.")
	outPath := fs.StringP("output", "o", "", "Output file (default stdout).")
	quiet := fs.BoolP("quiet", "q", false, "Do not report memory usage.")
	_ = fs.Parse(os.Args[1:])

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "flatten"})
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(2)
	}
	if *height != 32 && *height != 64 {
		logger.Fatal("height must be 32 or 64", "height", *height)
	}

	in, err := readInput(fs.Arg(0))
	if err != nil {
		logger.Fatal("read", "err", err)
	}
	objs, u, err := scene.Convert(in, *height)
	if err != nil {
		logger.Fatal("convert", "input", fs.Arg(0), "err", err)
	}

	var out []byte
	if *stream {
		out, err = scene.EncodeStream(objs)
	} else {
		out, err = scene.EncodeDocument(objs)
		out = append(out, '\n')
	}
	if err != nil {
		logger.Fatal("encode", "err", err)
	}
	if err := writeOutput(*outPath, out); err != nil {
		logger.Fatal("write", "err", err)
	}
	if !*quiet {
		logger.Info("memory", "elements", u.Elements, "head", u.Head, "tail", u.Tail,
			"used", u.Total(), "cap", u.ArenaCap)
	}
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func writeOutput(path string, b []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(b)
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
