package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dshills/tasedit/internal/plugin/lua"
	"github.com/dshills/tasedit/internal/tas"
	"github.com/dshills/tasedit/internal/tas/export"
)

// singleInput returns the one file a command operates on.
func (app *Application) singleInput() string {
	return app.inputs()[0]
}

// runCursor prints the playback state at -frame.
func (app *Application) runCursor() error {
	if app.opts.Frame < 0 {
		return ErrMissingFrame
	}
	path := app.singleInput()
	doc, err := app.readDocument(path)
	if err != nil {
		return err
	}

	state := doc.CursorAt(app.opts.Frame)
	if state == nil {
		return fmt.Errorf("%w: frame %d, script has %d frames", ErrFrameOutOfRange, app.opts.Frame, doc.TotalFrames())
	}
	return writeCursor(app.opts.Stdout, state)
}

func writeCursor(w io.Writer, state *tas.CursorState) error {
	released, pressed := state.ReleasedPressed()

	var sb strings.Builder
	fmt.Fprintf(&sb, "line: %d\n", state.LineNumber)
	fmt.Fprintf(&sb, "offset: %d of %d\n", state.FrameInLine, state.Active.Count)
	fmt.Fprintf(&sb, "active: %s\n", strings.TrimSpace(tas.FormatLine(state.Active)))
	for _, line := range state.SideEffects {
		fmt.Fprintf(&sb, "side effect: %s\n", tas.FormatLine(line))
	}
	fmt.Fprintf(&sb, "pressed: %s\n", joinActions(pressed))
	fmt.Fprintf(&sb, "released: %s\n", joinActions(released))

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return NewOperationError("write", "stdout", err)
	}
	return nil
}

func joinActions(actions []tas.Action) string {
	tokens := make([]string, len(actions))
	for i, a := range actions {
		tokens[i] = a.String()
	}
	return strings.Join(tokens, ",")
}

// runDump writes the structured form of the document.
func (app *Application) runDump() error {
	name := app.opts.Format
	if name == "" {
		name = string(export.FormatJSON)
	}
	format, err := export.ParseFormat(name)
	if err != nil {
		return err
	}

	doc, err := app.readDocument(app.singleInput())
	if err != nil {
		return err
	}
	if err := export.Write(app.opts.Stdout, doc, format); err != nil {
		return NewOperationError("write", "stdout", err)
	}
	return nil
}

// newScriptState creates a Lua state configured from the application config.
func (app *Application) newScriptState() (*lua.State, error) {
	return lua.NewState(
		lua.WithExecutionTimeout(time.Duration(app.config.Script.Timeout)),
		lua.WithLayout(app.config.Layout()),
		lua.WithLogger(WithComponent(app.logger, "script")),
	)
}

// runScript applies the Lua transform in -script to every input.
func (app *Application) runScript(ctx context.Context) error {
	if app.opts.ScriptPath == "" {
		return ErrMissingScript
	}
	script, err := os.ReadFile(app.opts.ScriptPath)
	if err != nil {
		return NewOperationError("read", app.opts.ScriptPath, err)
	}

	state, err := app.newScriptState()
	if err != nil {
		return err
	}
	defer state.Close()

	for _, path := range app.inputs() {
		doc, err := app.readDocument(path)
		if err != nil {
			return err
		}
		out, err := state.RunTransform(ctx, string(script), doc)
		if err != nil {
			return NewOperationError("run", app.opts.ScriptPath, err)
		}
		app.logger.Debug("script applied", "script", app.opts.ScriptPath, "path", path, "lines", out.Len())
		if err := app.emit(path, out); err != nil {
			return err
		}
	}
	return nil
}
