package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dshills/tasedit/internal/config"
	"github.com/dshills/tasedit/internal/tas"
)

func noEnv(string) (string, bool) { return "", false }

type testRun struct {
	app    *Application
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newTestApp(t *testing.T, opts Options, stdin string) *testRun {
	t.Helper()
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	opts.Stdin = strings.NewReader(stdin)
	opts.Stdout = stdout
	opts.Stderr = stderr
	if opts.LookupEnv == nil {
		opts.LookupEnv = noEnv
	}
	if opts.ConfigPath == "" {
		opts.ConfigPath = writeFile(t, "tasfmt.toml", "")
	}

	app, err := New(opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { tas.SetLogger(nil) })
	return &testRun{app: app, stdout: stdout, stderr: stderr}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	return string(data)
}

func TestFmtStdin(t *testing.T) {
	r := newTestApp(t, Options{Command: CommandFmt}, "4,R\n#note\n  1,R,J # trailing\n\n")
	if err := r.app.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got, want := r.stdout.String(), "   4,R\n#note\n   1,R,J\n"; got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
}

func TestFmtCombineFlag(t *testing.T) {
	r := newTestApp(t, Options{Command: CommandFmt, Combine: true, Expand: true}, "1,R\n1,R\n")
	if err := r.app.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got, want := r.stdout.String(), "   2,R\n"; got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
}

func TestFmtExpandFromConfig(t *testing.T) {
	cfgPath := writeFile(t, "tasfmt.toml", "[format]\nexpand = true\n")
	r := newTestApp(t, Options{Command: CommandFmt, ConfigPath: cfgPath}, "2,J\n")
	if err := r.app.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got, want := r.stdout.String(), "   1,J\n   1,J\n"; got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
}

func TestExpand(t *testing.T) {
	r := newTestApp(t, Options{Command: CommandExpand, Files: []string{"-"}}, "2,R\n***\n1,X\n")
	if err := r.app.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got, want := r.stdout.String(), "   1,R\n   1,R\n***\n   1,X\n"; got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
}

func TestCombineWriteInPlace(t *testing.T) {
	path := writeFile(t, "run.tas", "1,R\n1,R\n1,J\n")
	r := newTestApp(t, Options{Command: CommandCombine, Files: []string{path}, Write: true}, "")
	if err := r.app.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got, want := readFile(t, path), "   2,R\n   1,J\n"; got != want {
		t.Errorf("file = %q, want %q", got, want)
	}
	if r.stdout.Len() != 0 {
		t.Errorf("stdout = %q, want empty", r.stdout.String())
	}
	if !strings.Contains(r.stderr.String(), "changed=true") {
		t.Errorf("stderr = %q, want combine log", r.stderr.String())
	}
}

func TestCursor(t *testing.T) {
	r := newTestApp(t, Options{Command: CommandCursor, Frame: 2}, "2,R\nSet, X, 1\n3,R,J\n")
	if err := r.app.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	want := "line: 3\n" +
		"offset: 0 of 3\n" +
		"active: 3,R,J\n" +
		"side effect: Set, X, 1\n" +
		"pressed: J\n" +
		"released: \n"
	if got := r.stdout.String(); got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
}

func TestCursorErrors(t *testing.T) {
	tests := []struct {
		name  string
		frame int
		want  error
	}{
		{"missing frame", -1, ErrMissingFrame},
		{"out of range", 5, ErrFrameOutOfRange},
		{"out of range matches tas sentinel", 5, tas.ErrFrameOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestApp(t, Options{Command: CommandCursor, Frame: tt.frame}, "2,R\n3,J\n")
			if err := r.app.Run(context.Background()); !errors.Is(err, tt.want) {
				t.Errorf("Run() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDump(t *testing.T) {
	tests := []struct {
		format string
		want   []string
	}{
		{"", []string{`"totalFrames": 2`, `"key": "R"`}},
		{"yaml", []string{"totalFrames: 2", "key: R"}},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			r := newTestApp(t, Options{Command: CommandDump, Format: tt.format}, "2,R\n")
			if err := r.app.Run(context.Background()); err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(r.stdout.String(), want) {
					t.Errorf("stdout = %q, want it to contain %q", r.stdout.String(), want)
				}
			}
		})
	}
}

func TestDumpUnknownFormat(t *testing.T) {
	r := newTestApp(t, Options{Command: CommandDump, Format: "xml"}, "2,R\n")
	if err := r.app.Run(context.Background()); err == nil {
		t.Error("Run() error = nil, want unknown format")
	}
}

func TestRunScript(t *testing.T) {
	script := writeFile(t, "expand.lua", "function transform(doc)\n  doc:expand()\nend\n")
	r := newTestApp(t, Options{Command: CommandRun, ScriptPath: script}, "2,R\n")
	if err := r.app.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got, want := r.stdout.String(), "   1,R\n   1,R\n"; got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
}

func TestRunScriptErrors(t *testing.T) {
	r := newTestApp(t, Options{Command: CommandRun}, "2,R\n")
	if err := r.app.Run(context.Background()); !errors.Is(err, ErrMissingScript) {
		t.Errorf("Run() error = %v, want ErrMissingScript", err)
	}

	missing := filepath.Join(t.TempDir(), "missing.lua")
	r = newTestApp(t, Options{Command: CommandRun, ScriptPath: missing}, "2,R\n")
	if err := r.app.Run(context.Background()); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Run() error = %v, want os.ErrNotExist", err)
	}
}

func TestRunErrors(t *testing.T) {
	r := newTestApp(t, Options{Command: "frobnicate"}, "")
	if err := r.app.Run(context.Background()); !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("Run() error = %v, want ErrUnknownCommand", err)
	}

	r = newTestApp(t, Options{Command: CommandFmt}, "1,R,Z(1,2\n")
	err := r.app.Run(context.Background())
	if !errors.Is(err, tas.ErrMalformedToken) {
		t.Errorf("Run() error = %v, want ErrMalformedToken", err)
	}
	var opErr *OperationError
	if !errors.As(err, &opErr) || opErr.Op != "parse" {
		t.Errorf("Run() error = %v, want parse OperationError", err)
	}

	r = newTestApp(t, Options{Command: CommandFmt, Files: []string{filepath.Join(t.TempDir(), "missing.tas")}}, "")
	if err := r.app.Run(context.Background()); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Run() error = %v, want os.ErrNotExist", err)
	}
}

func TestNewInvalidLogLevel(t *testing.T) {
	_, err := New(Options{
		ConfigPath: writeFile(t, "tasfmt.toml", ""),
		LogLevel:   "loud",
		LookupEnv:  noEnv,
		Stderr:     &bytes.Buffer{},
	})
	if !errors.Is(err, config.ErrValidationFailed) {
		t.Errorf("New() error = %v, want ErrValidationFailed", err)
	}
}

func TestNewMissingConfig(t *testing.T) {
	_, err := New(Options{
		ConfigPath: filepath.Join(t.TempDir(), "missing.toml"),
		LookupEnv:  noEnv,
	})
	if !errors.Is(err, config.ErrFileNotFound) {
		t.Errorf("New() error = %v, want ErrFileNotFound", err)
	}
}

func TestLogsCarrySession(t *testing.T) {
	r := newTestApp(t, Options{Command: CommandFmt, LogLevel: "debug"}, "1,R\n")
	if err := r.app.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if r.app.SessionID() == "" {
		t.Fatal("SessionID() is empty")
	}
	if !strings.Contains(r.stderr.String(), "session="+r.app.SessionID()) {
		t.Errorf("stderr = %q, want session attribute", r.stderr.String())
	}
	if !strings.Contains(r.stderr.String(), "component=tas") {
		t.Errorf("stderr = %q, want tas debug log", r.stderr.String())
	}
}

func TestWatch(t *testing.T) {
	cfgPath := writeFile(t, "tasfmt.toml", "[watch]\ndebounce = \"20ms\"\nwrite = true\n")
	path := writeFile(t, "run.tas", "1,R\n")

	r := newTestApp(t, Options{Command: CommandWatch, ConfigPath: cfgPath, Files: []string{path}}, "")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.app.Run(ctx) }()

	waitContent := func(want string) {
		t.Helper()
		deadline := time.Now().Add(3 * time.Second)
		for time.Now().Before(deadline) {
			if data, err := os.ReadFile(path); err == nil && string(data) == want {
				return
			}
			time.Sleep(10 * time.Millisecond)
		}
		t.Fatalf("file = %q, want %q", readFile(t, path), want)
	}

	waitContent("   1,R\n")

	if err := os.WriteFile(path, []byte("2,J\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	waitContent("   2,J\n")

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestWatchRequiresFile(t *testing.T) {
	r := newTestApp(t, Options{Command: CommandWatch}, "")
	if err := r.app.Run(context.Background()); !errors.Is(err, ErrMissingFile) {
		t.Errorf("Run() error = %v, want ErrMissingFile", err)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"debug", "DEBUG"},
		{"INFO", "INFO"},
		{"warning", "WARN"},
		{"error", "ERROR"},
		{"unknown", "INFO"},
		{"", "INFO"},
	}
	for _, tt := range tests {
		if got := ParseLogLevel(tt.input).String(); got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}
