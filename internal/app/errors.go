package app

import (
	"errors"
	"fmt"

	"github.com/dshills/tasedit/internal/tas"
)

// Application errors.
var (
	// ErrUnknownCommand indicates the command name is not recognized.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrMissingFile indicates a command that needs a file path got none.
	ErrMissingFile = errors.New("missing file argument")

	// ErrMissingFrame indicates the cursor command was run without -frame.
	ErrMissingFrame = errors.New("missing -frame")

	// ErrMissingScript indicates the run command was run without -script.
	ErrMissingScript = errors.New("missing -script")

	// ErrFrameOutOfRange indicates the requested frame is past the end of the script.
	// It is the tas sentinel so errors.Is matches either name.
	ErrFrameOutOfRange = tas.ErrFrameOutOfRange
)

// OperationError represents an error that occurred during a specific operation.
type OperationError struct {
	Op     string // Operation name (e.g., "read", "write", "parse")
	Target string // Target of the operation (e.g., file path)
	Err    error  // Underlying error
}

// NewOperationError creates a new OperationError.
func NewOperationError(op, target string, err error) *OperationError {
	return &OperationError{
		Op:     op,
		Target: target,
		Err:    err,
	}
}

func (e *OperationError) Error() string {
	if e == nil {
		return ""
	}

	msg := e.Op
	if e.Target != "" {
		msg = fmt.Sprintf("%s %s", e.Op, e.Target)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
