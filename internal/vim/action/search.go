package action

import (
	"context"
	"errors"
	"fmt"

	"github.com/dshills/modalkit/internal/engine/buffer"
	"github.com/dshills/modalkit/internal/search"
	"github.com/dshills/modalkit/internal/vim/mode"
	"github.com/dshills/modalkit/internal/vim/state"
)

var searchLineModes = []mode.Mode{mode.SearchInProgress}

func searchOptions(vs *state.VimState) search.Options {
	return search.Options{
		IgnoreCase: vs.Options.IgnoreCase,
		SmartCase:  vs.Options.SmartCase,
		WrapScan:   vs.Options.WrapScan,
	}
}

// searchFrom finds the count-th match of pattern from p. Failures are
// reported on the status line.
func searchFrom(vs *state.VimState, b *Base, p buffer.Position, pattern string, backward bool) (buffer.Position, bool) {
	if pattern == "" {
		vs.Status.Set("E35: No previous regular expression", true)
		return p, false
	}
	wrapped := false
	for i := vs.Recorded.CountOr(1); i > 0; i-- {
		res, err := vs.Search.Searcher.Next(vs.Editor, p, pattern, backward, searchOptions(vs))
		switch {
		case errors.Is(err, search.ErrNoMatch):
			vs.Status.Set("E486: Pattern not found: "+pattern, true)
			return p, false
		case err != nil:
			vs.Status.Set(err.Error(), true)
			return p, false
		}
		p = res.Range.Start
		wrapped = wrapped || res.Wrapped
	}
	if b.isFirstCursor() {
		vs.Status.ReportSearch(pattern, wrapped, backward)
	}
	return p, true
}

// remember stores a search pattern as the last search.
func remember(vs *state.VimState, b *Base, pattern string, backward bool) {
	if !b.isFirstCursor() {
		return
	}
	vs.Search.Pattern = pattern
	vs.Search.Backward = backward
	vs.Search.Highlight = true
	vs.Search.History.Add(pattern)
	vs.Registers.SetSearch(pattern)
}

func searches() []Factory {
	return []Factory{
		def(Base{
			ActionName:    "searchStart",
			ActionModes:   motionModes,
			ActionKeys:    keys("/", "?"),
			ActionContext: AnyContext,
			Incomplete:    true,
			Global:        true,
		}, func(_ context.Context, vs *state.VimState, _ *funcAction, keys []string) error {
			vs.Search.ReturnMode = vs.ExecMode
			vs.CommandLine = keys[0]
			return vs.Modes.Transition(mode.SearchInProgress)
		}),
		lineEditor("searchType", searchLineModes),
		lineBackspace("searchBackspace", searchLineModes, func(vs *state.VimState) mode.Mode { return vs.Search.ReturnMode }),
		lineCancel("searchCancel", searchLineModes, func(vs *state.VimState) mode.Mode { return vs.Search.ReturnMode }),
		func() Action { return &searchConfirm{motion: confirmMotion()} },
		defMotion("searchNext", exclusive, []string{"n"}, moveSearchNext(false), countSelf, jump),
		defMotion("searchPrevious", exclusive, []string{"N"}, moveSearchNext(true), countSelf, jump),
		defMotion("searchWordForward", exclusive, []string{"*"}, moveSearchWord(false), countSelf, jump),
		defMotion("searchWordBackward", exclusive, []string{"#"}, moveSearchWord(true), countSelf, jump),
	}
}

func confirmMotion() motion {
	return motion{
		Base: Base{
			ActionName:    "searchConfirm",
			ActionModes:   searchLineModes,
			ActionKeys:    keys("<CR>"),
			ActionContext: AnyContext,
			Jump:          true,
			CountSelf:     true,
		},
	}
}

// searchConfirm runs the typed search and returns to the mode the search
// started from.
type searchConfirm struct {
	motion
}

func (s *searchConfirm) Exec(_ context.Context, vs *state.VimState, _ []string) error {
	line := vs.CommandLine
	backward := len(line) > 0 && line[0] == '?'
	pattern := ""
	if len(line) > 1 {
		pattern = line[1:]
	}
	if pattern == "" {
		pattern = vs.Search.Pattern
	}
	if s.isFirstCursor() {
		vs.CommandLine = ""
		if err := vs.Modes.Transition(vs.Search.ReturnMode); err != nil {
			return err
		}
	}
	if pattern != "" {
		remember(vs, &s.Base, pattern, backward)
	}
	to, ok := searchFrom(vs, &s.Base, vs.CursorStop, pattern, backward)
	if !ok {
		vs.Recorded.MotionFailed = true
		return nil
	}
	vs.CursorStop = to
	if !vs.Search.ReturnMode.IsVisual() && vs.Recorded.Operator == nil {
		vs.CursorStart = to
	}
	return nil
}

func moveSearchNext(reverse bool) moveFunc {
	return func(vs *state.VimState, m *motion, from buffer.Position, _ []string) (buffer.Position, bool) {
		backward := vs.Search.Backward != reverse
		return searchFrom(vs, &m.Base, from, vs.Search.Pattern, backward)
	}
}

func moveSearchWord(backward bool) moveFunc {
	return func(vs *state.VimState, m *motion, from buffer.Position, _ []string) (buffer.Position, bool) {
		word, r, ok := wordUnder(vs, from)
		if !ok {
			vs.Status.Set("E348: No string under cursor", true)
			return from, false
		}
		pattern := search.WordPattern(word)
		remember(vs, &m.Base, pattern, backward)
		if backward {
			from = r.Start
		}
		return searchFrom(vs, &m.Base, from, pattern, backward)
	}
}

// lineEditor appends typed characters to the command line.
func lineEditor(name string, modes []mode.Mode) Factory {
	return def(Base{
		ActionName:    name,
		ActionModes:   modes,
		ActionKeys:    keys(WildCharacter),
		ActionContext: AnyContext,
		Incomplete:    true,
		Global:        true,
	}, func(_ context.Context, vs *state.VimState, _ *funcAction, keys []string) error {
		vs.CommandLine += keys[len(keys)-1]
		return nil
	})
}

// lineBackspace deletes the last command-line character. On an empty line
// it cancels.
func lineBackspace(name string, modes []mode.Mode, back func(*state.VimState) mode.Mode) Factory {
	return func() Action {
		a := &lineBS{}
		a.Base = Base{
			ActionName:    name,
			ActionModes:   modes,
			ActionKeys:    keys("<BS>"),
			ActionContext: AnyContext,
			Global:        true,
		}
		a.back = back
		return a
	}
}

type lineBS struct {
	Base
	back     func(*state.VimState) mode.Mode
	canceled bool
}

func (a *lineBS) IsCompleteAction() bool { return a.canceled }

func (a *lineBS) Exec(_ context.Context, vs *state.VimState, _ []string) error {
	if r := []rune(vs.CommandLine); len(r) > 1 {
		vs.CommandLine = string(r[:len(r)-1])
		return nil
	}
	a.canceled = true
	return cancelLine(vs, a.back(vs))
}

func lineCancel(name string, modes []mode.Mode, back func(*state.VimState) mode.Mode) Factory {
	return def(Base{
		ActionName:    name,
		ActionModes:   modes,
		ActionKeys:    keys("<Esc>"),
		ActionContext: AnyContext,
		Global:        true,
	}, func(_ context.Context, vs *state.VimState, _ *funcAction, _ []string) error {
		return cancelLine(vs, back(vs))
	})
}

// cancelLine closes the command line and drops the command it belonged to.
func cancelLine(vs *state.VimState, back mode.Mode) error {
	vs.CommandLine = ""
	vs.Recorded.Operator = nil
	vs.Recorded.Count, vs.Recorded.OperatorCount = 0, 0
	vs.Recorded.NoHistory = true
	if err := vs.Modes.Transition(back); err != nil {
		return fmt.Errorf("cancel command line: %w", err)
	}
	return nil
}
