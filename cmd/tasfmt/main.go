// Package main is the entry point for tasfmt, a formatter and toolbox for
// TAS input scripts.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dshills/tasedit/internal/app"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, code, ok := parseFlags(args, stdout, stderr)
	if !ok {
		return code
	}
	opts.Stdout = stdout
	opts.Stderr = stderr

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// parseFlags parses args. Flags may appear before and after the command.
// When ok is false the process should exit with code.
func parseFlags(args []string, stdout, stderr io.Writer) (opts app.Options, code int, ok bool) {
	var showVersion bool

	fs := flag.NewFlagSet("tasfmt", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file")
	fs.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	fs.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.BoolVar(&opts.Write, "w", false, "Write result to the source file instead of stdout")
	fs.BoolVar(&opts.Combine, "combine", false, "fmt: merge adjacent identical frame lines")
	fs.BoolVar(&opts.Expand, "expand", false, "fmt: split frame lines into single frames")
	fs.IntVar(&opts.Frame, "frame", -1, "cursor: 0-indexed playback frame")
	fs.StringVar(&opts.Format, "format", "json", "dump: output format (json, yaml)")
	fs.StringVar(&opts.ScriptPath, "script", "", "run: Lua transform script")
	fs.BoolVar(&showVersion, "version", false, "Show version information")
	fs.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "tasfmt - format and inspect TAS input scripts\n\n")
		fmt.Fprintf(stderr, "Usage: tasfmt [options] <command> [file...]\n\n")
		fmt.Fprintf(stderr, "Commands:\n")
		fmt.Fprintf(stderr, "  %s\n\n", strings.Join(app.Commands, ", "))
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  tasfmt fmt -w run.tas            Format a script in place\n")
		fmt.Fprintf(stderr, "  tasfmt cursor -frame 120 run.tas Show the input at frame 120\n")
		fmt.Fprintf(stderr, "  cat run.tas | tasfmt dump -format yaml\n")
		fmt.Fprintf(stderr, "  tasfmt run -script mirror.lua run.tas\n")
	}

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return opts, 0, false
		}
		return opts, 2, false
	}

	if showVersion {
		fmt.Fprintf(stdout, "tasfmt %s\n", version)
		fmt.Fprintf(stdout, "Commit: %s\n", commit)
		fmt.Fprintf(stdout, "Built: %s\n", date)
		return opts, 0, false
	}

	if fs.NArg() == 0 {
		fs.Usage()
		return opts, 2, false
	}
	opts.Command = fs.Arg(0)

	// Flags may follow the command and be mixed with file names.
	rest := fs.Args()[1:]
	for {
		if err := fs.Parse(rest); err != nil {
			if err == flag.ErrHelp {
				return opts, 0, false
			}
			return opts, 2, false
		}
		if fs.NArg() == 0 {
			break
		}
		opts.Files = append(opts.Files, fs.Arg(0))
		rest = fs.Args()[1:]
	}

	return opts, 0, true
}
