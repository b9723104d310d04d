// Package cli holds the flag handling and JSON output shared by mcvalue commands.
package cli

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/meenmo/mcval/cmd/mcvalue/internal/input"
	"github.com/meenmo/mcval/config"
	"github.com/meenmo/mcval/logging"
)

// Options are the flags every command accepts.
type Options struct {
	Input  string
	Config string
	Help   bool
}

// NewFlagSet registers -input, -config and -h/-help on a new flag set for command name.
func NewFlagSet(name string, stderr io.Writer) (*flag.FlagSet, *Options) {
	opts := &Options{}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.Input, "input", "", "YAML or JSON input path (optional; if set, ignores stdin)")
	fs.StringVar(&opts.Config, "config", "", "Config file path (optional; MCVAL_* environment variables also apply)")
	fs.BoolVar(&opts.Help, "h", false, "Show help")
	fs.BoolVar(&opts.Help, "help", false, "Show help")
	return fs, opts
}

// StdinIsTerminal reports whether stdin is an interactive terminal, in which case a
// command without -input has nothing to read.
func StdinIsTerminal(stdin io.Reader) bool {
	f, ok := stdin.(*os.File)
	if !ok {
		return false
	}
	stat, err := f.Stat()
	return err == nil && (stat.Mode()&os.ModeCharDevice) != 0
}

// Setup loads the configuration, installs it globally and returns a logger writing
// to stderr (or the configured file).
func Setup(opts *Options, module string, stderr io.Writer) (config.Config, *slog.Logger, error) {
	c, err := config.Load(strings.TrimSpace(opts.Config))
	if err != nil {
		return config.Config{}, nil, err
	}
	config.SetConfig(c)
	return c, logging.New(c.Log, module, stderr), nil
}

// Load runs Setup and reads the input document.
func Load(opts *Options, module string, stdin io.Reader, stderr io.Writer) (*input.Document, config.Config, *slog.Logger, error) {
	c, logger, err := Setup(opts, module, stderr)
	if err != nil {
		return nil, config.Config{}, nil, err
	}
	doc, err := input.Read(stdin, opts.Input)
	if err != nil {
		return nil, config.Config{}, nil, err
	}
	return doc, c, logger, nil
}

type errorOutput struct {
	Error string `json:"error"`
}

// WriteJSON writes v as one JSON line and returns exit code 0.
func WriteJSON(stdout io.Writer, v any) int {
	out, err := json.Marshal(v)
	if err != nil {
		return WriteError(stdout, fmt.Sprintf("failed to encode output: %v", err))
	}
	fmt.Fprintln(stdout, string(out))
	return 0
}

// WriteError writes {"error": msg} and returns exit code 1.
func WriteError(stdout io.Writer, msg string) int {
	out, _ := json.Marshal(errorOutput{Error: msg})
	fmt.Fprintln(stdout, string(out))
	return 1
}
