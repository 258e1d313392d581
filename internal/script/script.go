// Package script runs user Lua files that define key remaps.
//
// Scripts see a sandboxed Lua with the base, table, string and math
// libraries and a "modal" module:
//
//	modal.remap("insert", "jk", "<Esc>")
//	modal.unmap("normal", "Y")
//	local toks = modal.keys("d2w")   -- {"d", "2", "w"}
//	modal.log("remaps loaded")
package script

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/modalkit/internal/input/key"
	"github.com/dshills/modalkit/internal/vim/mode"
	"github.com/dshills/modalkit/internal/vim/remap"
)

// DefaultTimeout bounds a script run.
const DefaultTimeout = 5 * time.Second

// ErrClosed is returned when running a script on a closed runner.
var ErrClosed = errors.New("script runner closed")

// Runner executes scripts against a remap table.
//
// gopher-lua's LState is not goroutine-safe; the mutex serializes runs.
type Runner struct {
	mu      sync.Mutex
	L       *lua.LState
	remaps  *remap.Table
	log     zerolog.Logger
	timeout time.Duration
	source  string
	closed  bool
}

// Option configures a Runner.
type Option func(*Runner)

// WithTimeout sets the time limit of a run.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) { r.timeout = d }
}

// WithLogger sets the logger that modal.log and print write to.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Runner) { r.log = l }
}

// New creates a runner adding remaps to table.
func New(table *remap.Table, opts ...Option) *Runner {
	r := &Runner{
		remaps:  table,
		log:     zerolog.Nop(),
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(r.L)
	lua.OpenTable(r.L)
	lua.OpenString(r.L)
	lua.OpenMath(r.L)
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		r.L.SetGlobal(name, lua.LNil)
	}
	r.L.SetGlobal("print", r.L.NewFunction(r.luaPrint))
	r.L.SetGlobal("modal", r.module())
	return r
}

func (r *Runner) module() *lua.LTable {
	return r.L.SetFuncs(r.L.NewTable(), map[string]lua.LGFunction{
		"remap": r.luaRemap,
		"unmap": r.luaUnmap,
		"keys":  r.luaKeys,
		"log":   r.luaLog,
	})
}

// RunFile executes the Lua file at path. Remaps it defines are tagged with
// path as their source.
func (r *Runner) RunFile(ctx context.Context, path string) error {
	return r.run(ctx, path, func() error { return r.L.DoFile(path) })
}

// RunString executes code. name is used as the remap source and in errors.
func (r *Runner) RunString(ctx context.Context, name, code string) error {
	return r.run(ctx, name, func() error { return r.L.DoString(code) })
}

func (r *Runner) run(ctx context.Context, source string, fn func() error) (err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	r.L.SetContext(ctx)
	defer r.L.RemoveContext()
	r.source = source

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("script %s: lua panic: %v", source, p)
		}
	}()
	if err := fn(); err != nil {
		return fmt.Errorf("script %s: %w", source, err)
	}
	r.log.Debug().Str("script", source).Msg("script finished")
	return nil
}

// Close releases the Lua state.
func (r *Runner) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.closed {
		r.L.Close()
		r.closed = true
	}
}

func (r *Runner) luaRemap(L *lua.LState) int {
	m := r.checkMode(L, 1)
	from, to := L.CheckString(2), L.CheckString(3)
	if err := r.remaps.Add(m, from, to, r.source); err != nil {
		L.RaiseError("%s", err.Error())
	}
	return 0
}

func (r *Runner) luaUnmap(L *lua.LState) int {
	m := r.checkMode(L, 1)
	L.Push(lua.LBool(r.remaps.Remove(m, L.CheckString(2))))
	return 1
}

func (r *Runner) luaKeys(L *lua.LState) int {
	t := L.NewTable()
	for _, tok := range key.Tokenize(L.CheckString(1)) {
		t.Append(lua.LString(tok))
	}
	L.Push(t)
	return 1
}

func (r *Runner) luaLog(L *lua.LState) int {
	r.log.Info().Str("script", r.source).Msg(L.CheckString(1))
	return 0
}

func (r *Runner) luaPrint(L *lua.LState) int {
	n := L.GetTop()
	args := make([]any, n)
	for i := 1; i <= n; i++ {
		args[i-1] = L.ToStringMeta(L.Get(i)).String()
	}
	r.log.Info().Str("script", r.source).Msg(fmt.Sprint(args...))
	return 0
}

func (r *Runner) checkMode(L *lua.LState, n int) mode.Mode {
	name := L.CheckString(n)
	m, err := mode.Parse(name)
	if err != nil {
		L.ArgError(n, err.Error())
	}
	return m
}
