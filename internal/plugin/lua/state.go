package lua

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/tasedit/internal/tas"
)

// DefaultExecutionTimeout bounds a single script execution.
const DefaultExecutionTimeout = 5 * time.Second

// transformFunc is the global a transform script must define.
const transformFunc = "transform"

// State wraps gopher-lua with the tas module installed.
//
// gopher-lua's LState is not goroutine-safe; the mutex serializes access
// from Go code.
type State struct {
	L *lua.LState

	mu sync.Mutex

	executionTimeout time.Duration
	layout           tas.ActionLayout
	logger           *slog.Logger

	closed bool
}

// StateOption configures a State.
type StateOption func(*State)

// WithExecutionTimeout sets the timeout for each script execution.
// Zero disables the timeout.
func WithExecutionTimeout(d time.Duration) StateOption {
	return func(s *State) {
		s.executionTimeout = d
	}
}

// WithLayout sets the action layout used by doc:toggle.
func WithLayout(layout tas.ActionLayout) StateOption {
	return func(s *State) {
		s.layout = layout
	}
}

// WithLogger sets the logger that receives print output.
func WithLogger(l *slog.Logger) StateOption {
	return func(s *State) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewState creates a new sandboxed Lua state.
func NewState(opts ...StateOption) (*State, error) {
	state := &State{
		executionTimeout: DefaultExecutionTimeout,
		layout:           tas.DefaultActionLayout(),
		logger:           slog.Default(),
	}
	for _, opt := range opts {
		opt(state)
	}

	L := lua.NewState(lua.Options{
		SkipOpenLibs: true,
	})
	state.L = L

	openSafeLibraries(L)
	installSandbox(L, state.logger)
	state.registerModule()

	return state, nil
}

// DoString executes a Lua string.
func (s *State) DoString(ctx context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}

	ctx, cancel := s.executionContext(ctx)
	defer cancel()
	s.L.SetContext(ctx)
	defer s.L.RemoveContext()

	if err := doWithRecovery(func() error { return s.L.DoString(code) }); err != nil {
		return scriptError(ctx, err)
	}
	return nil
}

// RunTransform executes script and calls its transform function on a copy
// of doc. If transform returns a document, that document is the result;
// otherwise the (possibly mutated) copy is. doc itself is never modified.
func (s *State) RunTransform(ctx context.Context, script string, doc *tas.Document) (*tas.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrStateClosed
	}

	ctx, cancel := s.executionContext(ctx)
	defer cancel()
	s.L.SetContext(ctx)
	defer s.L.RemoveContext()

	if err := doWithRecovery(func() error { return s.L.DoString(script) }); err != nil {
		return nil, scriptError(ctx, err)
	}

	fn, ok := s.L.GetGlobal(transformFunc).(*lua.LFunction)
	if !ok {
		return nil, ErrNoTransform
	}

	work := doc.Clone()
	err := doWithRecovery(func() error {
		return s.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, s.newDocument(work))
	})
	if err != nil {
		return nil, scriptError(ctx, err)
	}

	ret := s.L.Get(-1)
	s.L.Pop(1)
	if out, ok := toDocument(ret); ok {
		return out, nil
	}
	return work, nil
}

func (s *State) executionContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.executionTimeout > 0 {
		return context.WithTimeout(ctx, s.executionTimeout)
	}
	return context.WithCancel(ctx)
}

// scriptError maps an execution error, reporting timeouts as ErrExecutionTimeout.
func scriptError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrExecutionTimeout, err)
	}
	if ctx.Err() != nil {
		return fmt.Errorf("%w: %v", ctx.Err(), err)
	}
	return err
}

// doWithRecovery executes a function with panic recovery.
func doWithRecovery(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}

// IsClosed returns true if the state has been closed.
func (s *State) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close releases all resources associated with the Lua state.
// After Close is called, all other methods will return ErrStateClosed.
func (s *State) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	s.L.Close()
}
