package action

import (
	"context"
	"fmt"

	"github.com/dshills/modalkit/internal/vim/register"
	"github.com/dshills/modalkit/internal/vim/state"
	"github.com/dshills/modalkit/internal/vim/transform"
)

func registerKey(keys []string) rune {
	return []rune(keys[len(keys)-1])[0]
}

func macros() []Factory {
	return []Factory{
		defIf(Base{
			ActionName:    "recordMacro",
			ActionModes:   normalModes,
			ActionKeys:    keys("q<character>"),
			ActionContext: Idle,
			Global:        true,
		}, func(vs *state.VimState, keys []string) bool {
			return !vs.Macro.IsRecording() && register.IsValidRegisterForMacro(registerKey(keys))
		}, func(_ context.Context, vs *state.VimState, _ *funcAction, keys []string) error {
			name := registerKey(keys)
			if err := vs.Macro.Start(name); err != nil {
				return err
			}
			vs.Recorded.NoHistory = true
			vs.Status.Set(fmt.Sprintf("recording @%c", name), false)
			return nil
		}),
		defIf(Base{
			ActionName:    "stopMacro",
			ActionModes:   normalModes,
			ActionKeys:    keys("q"),
			ActionContext: Idle,
			Global:        true,
		}, func(vs *state.VimState, _ []string) bool {
			return vs.Macro.IsRecording()
		}, func(_ context.Context, vs *state.VimState, _ *funcAction, _ []string) error {
			vs.Recorded.NoHistory = true
			vs.Status.ReportClear()
			return vs.Macro.Stop()
		}),
		showHistory("commandHistory", "q:", transform.CommandHistory),
		showHistory("searchHistory", "q/", transform.SearchHistory),
		showHistory("searchHistoryBackward", "q?", transform.SearchHistory),
		defIf(Base{
			ActionName:    "playMacro",
			ActionModes:   normalModes,
			ActionKeys:    keys("@<character>"),
			ActionContext: Idle,
			Global:        true,
			CountSelf:     true,
		}, func(_ *state.VimState, keys []string) bool {
			return register.IsValidRegisterForMacro(registerKey(keys))
		}, func(_ context.Context, vs *state.VimState, _ *funcAction, keys []string) error {
			queueReplay(vs, registerKey(keys))
			return nil
		}),
		def(Base{
			ActionName:    "replayLastMacro",
			ActionModes:   normalModes,
			ActionKeys:    keys("@@"),
			ActionContext: Idle,
			Global:        true,
			CountSelf:     true,
		}, func(_ context.Context, vs *state.VimState, _ *funcAction, _ []string) error {
			name, ok := vs.Macro.LastPlayed().Get()
			if !ok {
				vs.Status.Set("E748: No previously used register", true)
				return nil
			}
			queueReplay(vs, name)
			return nil
		}),
	}
}

func queueReplay(vs *state.VimState, name rune) {
	vs.Recorded.NoHistory = true
	for i := vs.Recorded.CountOr(1); i > 0; i-- {
		vs.Recorded.Transformations.Add(&transform.ReplayMacro{Register: name})
	}
}

func showHistory(name, pattern string, source transform.HistorySource) Factory {
	return def(Base{
		ActionName:    name,
		ActionModes:   normalModes,
		ActionKeys:    keys(pattern),
		ActionContext: Idle,
		Global:        true,
	}, func(_ context.Context, vs *state.VimState, _ *funcAction, _ []string) error {
		vs.Recorded.Transformations.Add(&transform.ShowHistory{Source: source})
		return nil
	})
}
