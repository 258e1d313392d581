package action

import (
	"context"

	"github.com/dshills/modalkit/internal/vim/mode"
	"github.com/dshills/modalkit/internal/vim/register"
	"github.com/dshills/modalkit/internal/vim/state"
	"github.com/dshills/modalkit/internal/vim/status"
	"github.com/dshills/modalkit/internal/vim/transform"
)

// Host toggle tokens.
const (
	ExtensionDisable = "<ExtensionDisable>"
	ExtensionEnable  = "<ExtensionEnable>"
)

func prefixes() []Factory {
	return []Factory{
		defIf(Base{
			ActionName:    "count",
			ActionModes:   motionModes,
			ActionKeys:    keys(WildNumber),
			ActionContext: AnyContext,
			Incomplete:    true,
			CountPrefix:   true,
			Global:        true,
			CountSelf:     true,
		}, func(vs *state.VimState, keys []string) bool {
			return keys[len(keys)-1] != "0" || vs.Recorded.Count > 0
		}, func(_ context.Context, vs *state.VimState, _ *funcAction, keys []string) error {
			vs.Recorded.AddDigit(int(keys[len(keys)-1][0] - '0'))
			return nil
		}),
		defIf(Base{
			ActionName:    "selectRegister",
			ActionModes:   motionModes,
			ActionKeys:    keys(`"<character>`),
			ActionContext: Idle,
			Incomplete:    true,
			Global:        true,
			CountSelf:     true,
		}, func(_ *state.VimState, keys []string) bool {
			return register.IsValidRegister(registerKey(keys))
		}, func(_ context.Context, vs *state.VimState, _ *funcAction, keys []string) error {
			vs.Recorded.RegisterName = registerKey(keys)
			return nil
		}),
	}
}

func misc() []Factory {
	return []Factory{
		def(Base{
			ActionName:    "repeat",
			ActionModes:   normalModes,
			ActionKeys:    keys("."),
			ActionContext: Idle,
			Global:        true,
			CountSelf:     true,
		}, func(_ context.Context, vs *state.VimState, _ *funcAction, _ []string) error {
			vs.Recorded.NoHistory = true
			if vs.Dot.IsEmpty() {
				return nil
			}
			vs.Recorded.Transformations.Add(&transform.RepeatDot{Count: vs.Recorded.CountOr(0)})
			return nil
		}),
		def(Base{
			ActionName:    "fileInfo",
			ActionModes:   normalModes,
			ActionKeys:    keys("<C-g>"),
			ActionContext: Idle,
			Global:        true,
		}, func(_ context.Context, vs *state.VimState, _ *funcAction, _ []string) error {
			vs.Status.ReportFileInfo(status.FileInfo{
				Name:     vs.Editor.Name(),
				Lines:    vs.Editor.LineCount(),
				Line:     vs.CursorStop.Line,
				Modified: vs.History.CanUndo(),
			})
			return nil
		}),
		def(Base{
			ActionName:    "normalEscape",
			ActionModes:   normalModes,
			ActionKeys:    keys("<Esc>"),
			ActionContext: AnyContext,
			Global:        true,
		}, func(context.Context, *state.VimState, *funcAction, []string) error {
			return nil
		}),
		def(Base{
			ActionName:    "disable",
			ActionModes:   normalModes,
			ActionKeys:    [][]string{{ExtensionDisable}},
			ActionContext: Idle,
			Global:        true,
		}, func(_ context.Context, vs *state.VimState, _ *funcAction, _ []string) error {
			return vs.Modes.Transition(mode.Disabled)
		}),
		def(Base{
			ActionName:    "enable",
			ActionModes:   []mode.Mode{mode.Disabled},
			ActionKeys:    [][]string{{ExtensionEnable}},
			ActionContext: AnyContext,
			Global:        true,
		}, func(_ context.Context, vs *state.VimState, _ *funcAction, _ []string) error {
			if err := vs.Modes.Transition(mode.Normal); err != nil {
				return err
			}
			vs.SyncCursors()
			return nil
		}),
	}
}
