package action

import (
	"context"
	"errors"

	"github.com/dshills/modalkit/internal/engine/cursor"
	"github.com/dshills/modalkit/internal/engine/history"
	"github.com/dshills/modalkit/internal/vim/state"
)

func undos() []Factory {
	return []Factory{
		def(Base{
			ActionName:    "undo",
			ActionModes:   normalModes,
			ActionKeys:    keys("u"),
			ActionContext: Idle,
			Global:        true,
			CountSelf:     true,
		}, func(_ context.Context, vs *state.VimState, _ *funcAction, _ []string) error {
			return walkHistory(vs, false)
		}),
		def(Base{
			ActionName:    "redo",
			ActionModes:   normalModes,
			ActionKeys:    keys("<C-r>"),
			ActionContext: Idle,
			Global:        true,
			CountSelf:     true,
		}, func(_ context.Context, vs *state.VimState, _ *funcAction, _ []string) error {
			return walkHistory(vs, true)
		}),
	}
}

// walkHistory undoes or redoes count steps and restores the cursors saved
// with the last one. Running out of steps is reported, not returned.
func walkHistory(vs *state.VimState, redo bool) error {
	vs.Recorded.NoHistory = true
	for i := vs.Recorded.CountOr(1); i > 0; i-- {
		var (
			step *history.Step
			err  error
		)
		if redo {
			step, err = vs.History.Redo(vs.Editor)
		} else {
			step, err = vs.History.Undo(vs.Editor)
		}
		switch {
		case errors.Is(err, history.ErrNothingToUndo):
			vs.Status.Set("Already at oldest change", false)
			return nil
		case errors.Is(err, history.ErrNothingToRedo):
			vs.Status.Set("Already at newest change", false)
			return nil
		case err != nil:
			return err
		}
		cs := step.CursorsBefore
		if redo {
			cs = step.CursorsAfter
		}
		restoreCursors(vs, cs)
	}
	return nil
}

func restoreCursors(vs *state.VimState, cs []cursor.Cursor) {
	if len(cs) == 0 {
		return
	}
	out := make([]cursor.Cursor, len(cs))
	for i, c := range cs {
		out[i] = cursor.At(vs.ClampNormal(c.Stop))
	}
	vs.SetCursors(out)
}
