// Package app wires configuration, logging and the tas packages into the
// tasfmt commands. It performs all file I/O; the packages it drives do not.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/tasedit/internal/config"
	"github.com/dshills/tasedit/internal/tas"
)

// Command names.
const (
	CommandFmt     = "fmt"
	CommandExpand  = "expand"
	CommandCombine = "combine"
	CommandCursor  = "cursor"
	CommandDump    = "dump"
	CommandRun     = "run"
	CommandWatch   = "watch"
)

// Commands lists every command in help order.
var Commands = []string{
	CommandFmt, CommandExpand, CommandCombine, CommandCursor,
	CommandDump, CommandRun, CommandWatch,
}

// stdinPath names standard input as a file argument.
const stdinPath = "-"

// Options configures the application.
type Options struct {
	// ConfigPath is the path to the configuration file.
	// Empty uses config.DefaultFileName if it exists.
	ConfigPath string

	// LogLevel overrides the configured log level when set.
	LogLevel string

	// Command is the command to run.
	Command string

	// Files are the script paths. Empty or "-" reads standard input.
	Files []string

	// Write rewrites the input file instead of printing the result.
	Write bool

	// Combine and Expand force the fmt transforms regardless of config.
	Combine bool
	Expand  bool

	// Frame is the 0-indexed playback frame for cursor. Negative means unset.
	Frame int

	// Format is the dump format (json or yaml). Empty means json.
	Format string

	// ScriptPath is the Lua transform for run.
	ScriptPath string

	// Stdin, Stdout and Stderr default to the process streams.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// LookupEnv replaces os.LookupEnv for configuration.
	LookupEnv func(string) (string, bool)
}

// Application runs one tasfmt command.
type Application struct {
	opts      Options
	config    *config.Config
	logger    *slog.Logger
	sessionID string
}

// New loads configuration and builds the logger.
func New(opts Options) (*Application, error) {
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	var loaderOpts []config.LoaderOption
	if opts.LookupEnv != nil {
		loaderOpts = append(loaderOpts, config.WithLookupEnv(opts.LookupEnv))
	}
	cfg, err := config.NewLoader(loaderOpts...).Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.LogLevel != "" {
		cfg.Logging.Level = opts.LogLevel
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	sessionID := uuid.NewString()
	logger := NewLogger(opts.Stderr, ParseLogLevel(cfg.Logging.Level), sessionID)
	tas.SetLogger(WithComponent(logger, "tas"))

	return &Application{
		opts:      opts,
		config:    cfg,
		logger:    logger,
		sessionID: sessionID,
	}, nil
}

// Config returns the resolved configuration.
func (app *Application) Config() *config.Config {
	return app.config
}

// SessionID returns the id attached to every log record of this run.
func (app *Application) SessionID() string {
	return app.sessionID
}

// Run executes the configured command. It returns when the command is done
// or, for watch, when ctx is cancelled.
func (app *Application) Run(ctx context.Context) error {
	start := time.Now()
	app.logger.Debug("running command", "command", app.opts.Command, "files", app.opts.Files)

	var err error
	switch app.opts.Command {
	case CommandFmt:
		err = app.transformEach(app.format)
	case CommandExpand:
		err = app.transformEach(func(doc *tas.Document) *tas.Document {
			doc.Expand()
			return doc
		})
	case CommandCombine:
		err = app.transformEach(func(doc *tas.Document) *tas.Document {
			changed := doc.Combine()
			app.logger.Info("combined", "changed", changed, "lines", doc.Len())
			return doc
		})
	case CommandCursor:
		err = app.runCursor()
	case CommandDump:
		err = app.runDump()
	case CommandRun:
		err = app.runScript(ctx)
	case CommandWatch:
		err = app.runWatch(ctx)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownCommand, app.opts.Command)
	}

	app.logger.Debug("command finished", "command", app.opts.Command, "elapsed", time.Since(start), "error", err)
	return err
}

// format applies the configured fmt transforms. Combine wins over expand.
func (app *Application) format(doc *tas.Document) *tas.Document {
	switch {
	case app.opts.Combine || app.config.Format.Combine:
		doc.Combine()
	case app.opts.Expand || app.config.Format.Expand:
		doc.Expand()
	}
	return doc
}

// inputs returns the file arguments, defaulting to standard input.
func (app *Application) inputs() []string {
	if len(app.opts.Files) == 0 {
		return []string{stdinPath}
	}
	return app.opts.Files
}

// transformEach parses every input, applies fn and emits the result.
func (app *Application) transformEach(fn func(*tas.Document) *tas.Document) error {
	for _, path := range app.inputs() {
		doc, err := app.readDocument(path)
		if err != nil {
			return err
		}
		if err := app.emit(path, fn(doc)); err != nil {
			return err
		}
	}
	return nil
}

// readDocument reads and parses path, or standard input for "-".
func (app *Application) readDocument(path string) (*tas.Document, error) {
	var (
		data []byte
		err  error
	)
	if path == stdinPath {
		data, err = io.ReadAll(app.opts.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, NewOperationError("read", path, err)
	}

	doc, err := tas.Parse(string(data))
	if err != nil {
		return nil, NewOperationError("parse", path, err)
	}
	return doc, nil
}

// emit writes the rendered doc to path when -w is set, otherwise to stdout.
func (app *Application) emit(path string, doc *tas.Document) error {
	out := renderFile(doc)
	if app.opts.Write && path != stdinPath {
		_, err := app.rewrite(path, out)
		return err
	}
	if _, err := io.WriteString(app.opts.Stdout, out); err != nil {
		return NewOperationError("write", "stdout", err)
	}
	return nil
}

// renderFile renders doc with a trailing newline.
func renderFile(doc *tas.Document) string {
	return tas.Render(doc) + "\n"
}

// rewrite replaces path's content, keeping its permissions. It reports
// whether the content changed; an unchanged file is not touched.
func (app *Application) rewrite(path, content string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, NewOperationError("write", path, err)
	}
	old, err := os.ReadFile(path)
	if err != nil {
		return false, NewOperationError("write", path, err)
	}
	if string(old) == content {
		return false, nil
	}
	if err := os.WriteFile(path, []byte(content), info.Mode().Perm()); err != nil {
		return false, NewOperationError("write", path, err)
	}
	app.logger.Info("wrote file", "path", path, "bytes", len(content))
	return true, nil
}
