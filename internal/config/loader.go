package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// FileSystem abstracts file reads so tests can use in-memory files.
type FileSystem interface {
	// ReadFile reads the entire file at path.
	ReadFile(path string) ([]byte, error)
}

// OSFS implements FileSystem using the real OS file system.
type OSFS struct{}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Loader resolves a Config from defaults, a TOML file and the environment.
type Loader struct {
	fs     FileSystem
	lookup func(string) (string, bool)
	prefix string
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithFileSystem sets the file system config files are read from.
func WithFileSystem(fsys FileSystem) LoaderOption {
	return func(l *Loader) {
		l.fs = fsys
	}
}

// WithLookupEnv sets the function used to read environment variables.
func WithLookupEnv(lookup func(string) (string, bool)) LoaderOption {
	return func(l *Loader) {
		l.lookup = lookup
	}
}

// NewLoader creates a loader reading from the OS.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		fs:     OSFS{},
		lookup: os.LookupEnv,
		prefix: "TASFMT_",
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load resolves the configuration. An empty path looks for DefaultFileName
// and ignores its absence; a missing explicit path is ErrFileNotFound.
func (l *Loader) Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFileName
	}
	if err := l.loadFile(cfg, path, explicit); err != nil {
		return nil, err
	}
	if err := l.loadEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFile decodes the TOML file at path over cfg.
func (l *Loader) loadFile(cfg *Config, path string, required bool) error {
	data, err := l.fs.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if required {
				return fmt.Errorf("%w: %s", ErrFileNotFound, path)
			}
			return nil
		}
		return fmt.Errorf("reading config file %s: %w", path, err)
	}

	// Action tables from the file replace the defaults rather than merge.
	exclusive, valued := cfg.Actions.Exclusive, cfg.Actions.Valued
	cfg.Actions.Exclusive, cfg.Actions.Valued = nil, nil

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return decodeError(path, err)
	}

	if cfg.Actions.Exclusive == nil {
		cfg.Actions.Exclusive = exclusive
	}
	if cfg.Actions.Valued == nil {
		cfg.Actions.Valued = valued
	}
	return nil
}

// decodeError converts a go-toml error, keeping its position when it has one.
func decodeError(path string, err error) *ParseError {
	perr := &ParseError{Path: path, Message: err.Error(), Err: err}

	var derr *toml.DecodeError
	var serr *toml.StrictMissingError
	switch {
	case errors.As(err, &derr):
		perr.Line, perr.Column = derr.Position()
	case errors.As(err, &serr) && len(serr.Errors) > 0:
		perr.Line, perr.Column = serr.Errors[0].Position()
		perr.Message = "unknown field " + strings.Join(serr.Errors[0].Key(), ".")
	}
	return perr
}

// loadEnv applies TASFMT_* variables over cfg.
func (l *Loader) loadEnv(cfg *Config) error {
	if v, ok := l.env("LOG_LEVEL"); ok {
		cfg.Logging.Level = v
	}
	if err := l.envBool("COMBINE", &cfg.Format.Combine); err != nil {
		return err
	}
	if err := l.envBool("EXPAND", &cfg.Format.Expand); err != nil {
		return err
	}
	if err := l.envDuration("SCRIPT_TIMEOUT", &cfg.Script.Timeout); err != nil {
		return err
	}
	if err := l.envDuration("DEBOUNCE", &cfg.Watch.Debounce); err != nil {
		return err
	}
	return l.envBool("WATCH_WRITE", &cfg.Watch.Write)
}

func (l *Loader) env(name string) (string, bool) {
	return l.lookup(l.prefix + name)
}

func (l *Loader) envBool(name string, dst *bool) error {
	v, ok := l.env(name)
	if !ok {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return &ParseError{Path: l.prefix + name, Message: "expected a boolean", Err: err}
	}
	*dst = b
	return nil
}

func (l *Loader) envDuration(name string, dst *Duration) error {
	v, ok := l.env(name)
	if !ok {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return &ParseError{Path: l.prefix + name, Message: "expected a duration", Err: err}
	}
	*dst = Duration(d)
	return nil
}
