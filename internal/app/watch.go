package app

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/dshills/tasedit/internal/watcher"
)

// runWatch formats the given files, then again on every change, until ctx
// is cancelled. Parse errors are logged and do not stop the watch.
func (app *Application) runWatch(ctx context.Context) error {
	if len(app.opts.Files) == 0 {
		return ErrMissingFile
	}
	for _, path := range app.opts.Files {
		if path == stdinPath {
			return NewOperationError("watch", path, ErrMissingFile)
		}
	}

	fsw, err := watcher.NewFSNotifyWatcher()
	if err != nil {
		return NewOperationError("watch", "", err)
	}
	w := watcher.NewDebouncedWatcher(fsw, time.Duration(app.config.Watch.Debounce))
	defer w.Close()

	for _, path := range app.opts.Files {
		if err := w.Watch(path); err != nil {
			return NewOperationError("watch", path, err)
		}
	}

	logger := WithComponent(app.logger, "watch")
	logger.Info("watching", "files", app.opts.Files, "debounce", time.Duration(app.config.Watch.Debounce))

	for _, path := range app.opts.Files {
		app.reformat(path)
	}

	for {
		select {
		case <-ctx.Done():
			logger.Info("watch stopped")
			return nil

		case event, ok := <-w.Events():
			if !ok {
				return nil
			}
			logger.Debug("file changed", "path", event.Path, "op", event.Op.String())
			if event.Op.Has(watcher.OpWrite) || event.Op.Has(watcher.OpCreate) {
				app.reformat(event.Path)
			}

		case err, ok := <-w.Errors():
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err)
		}
	}
}

// reformat applies fmt to path, rewriting it when watch.write or -w is set
// and printing it otherwise.
func (app *Application) reformat(path string) {
	logger := WithComponent(app.logger, "watch")

	doc, err := app.readDocument(path)
	if err != nil {
		var opErr *OperationError
		if errors.As(err, &opErr) && opErr.Op == "read" {
			// Editors may remove the file briefly while saving.
			logger.Debug("skipping unreadable file", "path", path, "error", err)
			return
		}
		logger.Warn("format failed", "path", path, "error", err)
		return
	}

	out := renderFile(app.format(doc))
	if app.opts.Write || app.config.Watch.Write {
		if _, err := app.rewrite(path, out); err != nil {
			logger.Warn("write failed", "path", path, "error", err)
		}
		return
	}
	if _, err := io.WriteString(app.opts.Stdout, out); err != nil {
		logger.Warn("write failed", "path", "stdout", "error", err)
	}
}
