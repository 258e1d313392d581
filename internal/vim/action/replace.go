package action

import (
	"context"

	"github.com/samber/mo"

	"github.com/dshills/modalkit/internal/engine/buffer"
	"github.com/dshills/modalkit/internal/vim/mode"
	"github.com/dshills/modalkit/internal/vim/state"
	"github.com/dshills/modalkit/internal/vim/transform"
)

func replaceMode() []Factory {
	return []Factory{
		def(Base{
			ActionName:    "replaceMode",
			ActionModes:   normalModes,
			ActionKeys:    keys("R"),
			ActionContext: Idle,
			Dot:           true,
			Global:        true,
			CountSelf:     true,
		}, func(_ context.Context, vs *state.VimState, _ *funcAction, _ []string) error {
			count := vs.Recorded.CountOr(1)
			if err := vs.Modes.Transition(mode.Replace); err != nil {
				return err
			}
			vs.Insert = state.InsertState{Count: count}
			return nil
		}),
		typing("replaceChar", replaceModes, WildCharacter, func(_ context.Context, vs *state.VimState, a *funcAction, keys []string) error {
			text := keys[len(keys)-1]
			p := vs.CursorStop
			rc := vs.Replace.Cursor(a.cursorIndex())
			q := &vs.Recorded.Transformations
			if orig := graphemeAt(vs, p); orig != "" {
				rc.Push(mo.Some(orig))
				q.Add(&transform.ReplaceText{
					Range: buffer.NewRange(p, p.WithCharacter(nextChar(vs, p))),
					Text:  text,
					Diff:  mo.Some(transform.ExactPosition(p.WithCharacter(p.Character + runeLen(text)))),
				})
			} else {
				rc.Push(mo.None[string]())
				q.Add(&transform.InsertText{Position: p, Text: text})
			}
			typed(vs, a, text)
			return nil
		}),
		typing("replaceBackspace", replaceModes, "<BS>", replaceBackspace),
	}
}

// replaceBackspace undoes the last overwrite. Keys typed past the end of the
// line are deleted; overwritten characters come back. Nothing happens before
// the point where Replace mode started.
func replaceBackspace(_ context.Context, vs *state.VimState, a *funcAction, _ []string) error {
	p := vs.CursorStop
	rc := vs.Replace.Cursor(a.cursorIndex())
	if !p.IsAfter(rc.Start) {
		return nil
	}
	untyped(vs, a)
	orig, ok := rc.Pop()
	q := &vs.Recorded.Transformations
	switch {
	case !ok:
		if p.Character > 0 {
			setCursor(vs, p.WithCharacter(prevChar(vs, p)))
		}
	case orig.IsPresent():
		prev := p.WithCharacter(prevChar(vs, p))
		q.Add(&transform.ReplaceText{
			Range: buffer.NewRange(prev, p),
			Text:  orig.MustGet(),
			Diff:  mo.Some(transform.ExactPosition(prev)),
		})
	default:
		q.Add(&transform.DeleteText{Position: p})
	}
	return nil
}
