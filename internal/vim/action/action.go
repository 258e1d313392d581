package action

import (
	"context"

	"github.com/samber/mo"

	"github.com/dshills/modalkit/internal/vim/mode"
	"github.com/dshills/modalkit/internal/vim/state"
)

// Context restricts an action to commands with or without a pending operator.
type Context uint8

const (
	// Idle actions apply when no operator is pending.
	Idle Context = iota
	// OperatorPending actions apply only after an operator such as d.
	OperatorPending
	// AnyContext actions apply either way. Motions use it.
	AnyContext
)

func (c Context) overlaps(o Context) bool {
	return c == AnyContext || o == AnyContext || c == o
}

func (c Context) allows(pending bool) bool {
	switch c {
	case Idle:
		return !pending
	case OperatorPending:
		return pending
	}
	return true
}

// Action is a command.
type Action interface {
	Name() string
	Modes() []mode.Mode
	Keys() [][]string
	Context() Context

	// Applies is checked after the keys matched a pattern. It lets an
	// action reject a match, for example an invalid register name.
	Applies(vs *state.VimState, keys []string) bool

	// IsCompleteAction reports whether the action can end a command. Counts
	// and register prefixes cannot.
	IsCompleteAction() bool
	// IsCountPrefix reports whether the action is a count digit. A new
	// count given to "." replaces these.
	IsCountPrefix() bool
	IsJump() bool
	CanBeRepeatedWithDot() bool
	RunsOnceForEveryCursor() bool
	RunsOnceForEachCountPrefix() bool

	SetMulticursorIndex(idx mo.Option[int])
	MulticursorIndex() mo.Option[int]

	Exec(ctx context.Context, vs *state.VimState, keys []string) error
}

// Motion is an action that moves the cursor and can be the target of an
// operator.
type Motion interface {
	Action
	Inclusive() bool
	Linewise() bool
}

// Factory creates a fresh action. The registry calls it on every match so
// per-call state never leaks between commands.
type Factory func() Action

// Base implements the bookkeeping of Action. Concrete actions embed it and
// implement Exec.
type Base struct {
	ActionName    string
	ActionModes   []mode.Mode
	ActionKeys    [][]string
	ActionContext Context

	Incomplete  bool
	CountPrefix bool
	Jump        bool
	Dot         bool
	// Global actions run once instead of once per cursor.
	Global bool
	// CountSelf actions interpret the count themselves.
	CountSelf bool

	index mo.Option[int]
}

func (b *Base) Name() string                           { return b.ActionName }
func (b *Base) Modes() []mode.Mode                     { return b.ActionModes }
func (b *Base) Keys() [][]string                       { return b.ActionKeys }
func (b *Base) Context() Context                       { return b.ActionContext }
func (b *Base) Applies(*state.VimState, []string) bool { return true }
func (b *Base) IsCompleteAction() bool                 { return !b.Incomplete }
func (b *Base) IsCountPrefix() bool                    { return b.CountPrefix }
func (b *Base) IsJump() bool                           { return b.Jump }
func (b *Base) CanBeRepeatedWithDot() bool             { return b.Dot }
func (b *Base) RunsOnceForEveryCursor() bool           { return !b.Global }
func (b *Base) RunsOnceForEachCountPrefix() bool       { return !b.CountSelf }
func (b *Base) SetMulticursorIndex(idx mo.Option[int]) { b.index = idx }
func (b *Base) MulticursorIndex() mo.Option[int]       { return b.index }

// cursorIndex returns the index the action runs for, or 0 when it runs once.
func (b *Base) cursorIndex() int {
	return b.index.OrElse(0)
}

// isFirstCursor reports whether side effects shared by all cursors should
// run now.
func (b *Base) isFirstCursor() bool {
	return b.cursorIndex() == 0
}

// funcAction is an action defined by a function.
type funcAction struct {
	Base
	run     func(ctx context.Context, vs *state.VimState, a *funcAction, keys []string) error
	applies func(vs *state.VimState, keys []string) bool
}

func (a *funcAction) Applies(vs *state.VimState, keys []string) bool {
	if a.applies == nil {
		return true
	}
	return a.applies(vs, keys)
}

func (a *funcAction) Exec(ctx context.Context, vs *state.VimState, keys []string) error {
	return a.run(ctx, vs, a, keys)
}

// def returns a factory for a function action.
func def(b Base, run func(ctx context.Context, vs *state.VimState, a *funcAction, keys []string) error) Factory {
	return func() Action {
		return &funcAction{Base: b, run: run}
	}
}

// defIf is def with an Applies predicate.
func defIf(b Base, applies func(vs *state.VimState, keys []string) bool,
	run func(ctx context.Context, vs *state.VimState, a *funcAction, keys []string) error) Factory {
	return func() Action {
		return &funcAction{Base: b, run: run, applies: applies}
	}
}

// keys builds a pattern list from Vim notation strings.
func keys(patterns ...string) [][]string {
	out := make([][]string, len(patterns))
	for i, p := range patterns {
		out[i] = tokenizePattern(p)
	}
	return out
}

var (
	normalModes  = []mode.Mode{mode.Normal}
	visualModes  = []mode.Mode{mode.Visual, mode.VisualLine, mode.VisualBlock}
	motionModes  = []mode.Mode{mode.Normal, mode.Visual, mode.VisualLine, mode.VisualBlock}
	insertModes  = []mode.Mode{mode.Insert}
	typingModes  = []mode.Mode{mode.Insert, mode.Replace}
	replaceModes = []mode.Mode{mode.Replace}
)
