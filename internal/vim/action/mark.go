package action

import (
	"context"

	"github.com/dshills/modalkit/internal/vim/state"
)

func marks() []Factory {
	return []Factory{
		defIf(Base{
			ActionName:    "setMark",
			ActionModes:   normalModes,
			ActionKeys:    keys("m<character>"),
			ActionContext: Idle,
			Global:        true,
		}, func(_ *state.VimState, keys []string) bool {
			return state.IsValidMark(registerKey(keys))
		}, func(_ context.Context, vs *state.VimState, _ *funcAction, keys []string) error {
			vs.Marks.Set(registerKey(keys), vs.CursorStop)
			vs.Recorded.NoHistory = true
			return nil
		}),
		def(Base{
			ActionName:    "jumpBack",
			ActionModes:   normalModes,
			ActionKeys:    keys("<C-o>"),
			ActionContext: Idle,
			Global:        true,
		}, func(_ context.Context, vs *state.VimState, _ *funcAction, _ []string) error {
			j, ok := vs.Jumps.Back(vs.CursorStop, vs.Editor.Name())
			if ok && j.File == vs.Editor.Name() {
				setCursor(vs, vs.ClampNormal(j.Position))
			}
			return nil
		}),
		def(Base{
			ActionName:    "jumpForward",
			ActionModes:   normalModes,
			ActionKeys:    keys("<C-i>", "<Tab>"),
			ActionContext: Idle,
			Global:        true,
		}, func(_ context.Context, vs *state.VimState, _ *funcAction, _ []string) error {
			j, ok := vs.Jumps.Forward()
			if ok && j.File == vs.Editor.Name() {
				setCursor(vs, vs.ClampNormal(j.Position))
			}
			return nil
		}),
	}
}
