package action

import (
	"context"

	"github.com/dshills/modalkit/internal/engine/cursor"
	"github.com/dshills/modalkit/internal/vim/mode"
	"github.com/dshills/modalkit/internal/vim/state"
)

// toggleVisual enters a visual mode, leaves it when already in it, or
// switches between visual modes.
func toggleVisual(name, pattern string, target mode.Mode) Factory {
	return def(Base{
		ActionName:    name,
		ActionModes:   motionModes,
		ActionKeys:    keys(pattern),
		ActionContext: Idle,
	}, func(_ context.Context, vs *state.VimState, _ *funcAction, _ []string) error {
		if vs.ExecMode == target {
			setCursor(vs, vs.CursorStop)
			return vs.Modes.Transition(mode.Normal)
		}
		return vs.Modes.Transition(target)
	})
}

func visuals() []Factory {
	return []Factory{
		toggleVisual("visual", "v", mode.Visual),
		toggleVisual("visualLine", "V", mode.VisualLine),
		toggleVisual("visualBlock", "<C-v>", mode.VisualBlock),
		def(Base{
			ActionName:    "exitVisual",
			ActionModes:   visualModes,
			ActionKeys:    keys("<Esc>"),
			ActionContext: AnyContext,
		}, func(_ context.Context, vs *state.VimState, _ *funcAction, _ []string) error {
			setCursor(vs, vs.CursorStop)
			return vs.Modes.Transition(mode.Normal)
		}),
		def(Base{
			ActionName:    "swapVisualEnds",
			ActionModes:   visualModes,
			ActionKeys:    keys("o", "O"),
			ActionContext: Idle,
		}, func(_ context.Context, vs *state.VimState, _ *funcAction, _ []string) error {
			vs.CursorStart, vs.CursorStop = vs.CursorStop, vs.CursorStart
			return nil
		}),
		def(Base{
			ActionName:    "reselectVisual",
			ActionModes:   normalModes,
			ActionKeys:    keys("gv"),
			ActionContext: Idle,
			Global:        true,
		}, func(_ context.Context, vs *state.VimState, _ *funcAction, _ []string) error {
			sel, ok := vs.LastVisual.Get()
			if !ok {
				return nil
			}
			if err := vs.Modes.Transition(sel.Mode); err != nil {
				return err
			}
			vs.SetCursors([]cursor.Cursor{cursor.New(vs.ClampNormal(sel.Start), vs.ClampNormal(sel.Stop))})
			return nil
		}),
		blockInsert("blockInsert", "I", false),
		blockInsert("blockAppend", "A", true),
	}
}

// blockCursors returns one cursor per block row, at the left edge of the
// block or just after its right edge. Rows on lines that end before the
// left edge get no cursor.
func blockCursors(vs *state.VimState, r opRange, atEnd bool) []cursor.Cursor {
	var out []cursor.Cursor
	for i, row := range r.Rows {
		if i > 0 && runeLen(vs.Line(row.Start.Line)) < r.Start.Character {
			continue
		}
		p := row.Start
		if atEnd {
			p = row.End
		}
		out = append(out, cursor.At(p))
	}
	return out
}

// blockInsert starts insert mode with a cursor on every line of the block.
func blockInsert(name, pattern string, atEnd bool) Factory {
	return def(Base{
		ActionName:    name,
		ActionModes:   []mode.Mode{mode.VisualBlock},
		ActionKeys:    keys(pattern),
		ActionContext: Idle,
		Dot:           true,
		Global:        true,
	}, func(_ context.Context, vs *state.VimState, _ *funcAction, _ []string) error {
		r := blockRange(vs, vs.CursorStart, vs.CursorStop)
		if err := enterInsert(vs, 1); err != nil {
			return err
		}
		vs.SetCursors(blockCursors(vs, r, atEnd))
		return nil
	})
}
