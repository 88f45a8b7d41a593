package undolua

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// ErrRuntimeClosed is returned by Runtime operations after Close.
var ErrRuntimeClosed = errors.New("undolua: runtime closed")

// Default limits for scripted actions. DefaultExecutionTimeout bounds each
// Call; DefaultInstructionLimit is not applied by Runtime, which has no
// instruction counter.
const (
	DefaultExecutionTimeout = 5 * time.Second
	DefaultInstructionLimit = 10_000_000
)

// Runtime wraps a sandboxed gopher-lua state: only the base, table,
// string, and math libraries are opened (no io, os, debug, or package),
// so scripted actions cannot touch the filesystem or spawn processes.
//
// A Runtime is not safe for concurrent use from multiple goroutines
// (gopher-lua's LState isn't either); the mutex here only serializes Go
// callers against each other under a single-owner-at-a-time model.
type Runtime struct {
	mu               sync.Mutex
	L                *lua.LState
	bridge           *Bridge
	executionTimeout time.Duration
	closed           bool
}

// RuntimeOption configures a Runtime at construction.
type RuntimeOption func(*Runtime)

// WithExecutionTimeout overrides the best-effort execution timeout.
func WithExecutionTimeout(d time.Duration) RuntimeOption {
	return func(r *Runtime) { r.executionTimeout = d }
}

// NewRuntime constructs a sandboxed Lua runtime.
func NewRuntime(opts ...RuntimeOption) *Runtime {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	r := &Runtime{
		L:                L,
		executionTimeout: DefaultExecutionTimeout,
	}
	r.bridge = NewBridge(L)
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Bridge returns the value converter bound to this runtime's state.
func (r *Runtime) Bridge() *Bridge {
	return r.bridge
}

// Load evaluates script, defining whatever globals it sets (typically
// apply/revert function pairs for one or more LuaActions).
func (r *Runtime) Load(script string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrRuntimeClosed
	}
	return r.doWithRecovery(func() error {
		return r.L.DoString(script)
	})
}

// Call invokes the global Lua function fn with args, returning its
// results converted back to Go values.
func (r *Runtime) Call(fn string, args ...any) ([]any, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, ErrRuntimeClosed
	}

	fnVal := r.L.GetGlobal(fn)
	if fnVal.Type() != lua.LTFunction {
		return nil, fmt.Errorf("undolua: global %q is not a function (got %s)", fn, fnVal.Type())
	}

	luaArgs := make([]lua.LValue, len(args))
	for i, a := range args {
		luaArgs[i] = r.bridge.ToLuaValue(a)
	}

	if r.executionTimeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), r.executionTimeout)
		defer cancel()
		r.L.SetContext(ctx)
		defer r.L.RemoveContext()
	}

	top := r.L.GetTop()
	r.L.Push(fnVal)
	for _, a := range luaArgs {
		r.L.Push(a)
	}

	callErr := r.pcallWithRecovery(len(luaArgs))
	if callErr != nil {
		return nil, fmt.Errorf("undolua: call %q: %w", fn, callErr)
	}

	n := r.L.GetTop() - top
	if n <= 0 {
		return nil, nil
	}
	results := make([]any, n)
	for i := 0; i < n; i++ {
		results[i] = r.bridge.ToGoValue(r.L.Get(top + i + 1))
	}
	r.L.Pop(n)
	return results, nil
}

// Close releases the underlying Lua state. A closed Runtime rejects
// further Load/Call calls.
func (r *Runtime) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	r.L.Close()
}

func (r *Runtime) doWithRecovery(fn func() error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("undolua: lua panic: %v", rec)
		}
	}()
	return fn()
}

func (r *Runtime) pcallWithRecovery(nargs int) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("undolua: lua panic: %v", rec)
		}
	}()
	return r.L.PCall(nargs, lua.MultRet, nil)
}
