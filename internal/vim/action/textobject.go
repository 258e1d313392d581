package action

import (
	"context"

	"github.com/dshills/modalkit/internal/engine/buffer"
	"github.com/dshills/modalkit/internal/vim/state"
)

// textObject selects a region around the cursor. It only applies after an
// operator or in visual mode.
type textObject struct {
	motion
	selectFn func(vs *state.VimState, p buffer.Position) (buffer.Position, buffer.Position, bool)
}

func (o *textObject) Exec(_ context.Context, vs *state.VimState, _ []string) error {
	start, stop, ok := o.selectFn(vs, vs.CursorStop)
	if !ok {
		vs.Recorded.MotionFailed = true
		return nil
	}
	if vs.ExecMode.IsVisual() && vs.CursorStart.IsBefore(start) {
		start = vs.CursorStart
	}
	vs.CursorStart, vs.CursorStop = start, stop
	return nil
}

func defTextObject(name, pattern string, sel func(vs *state.VimState, p buffer.Position) (buffer.Position, buffer.Position, bool)) Factory {
	return func() Action {
		return &textObject{
			motion: motion{
				Base: Base{
					ActionName:    name,
					ActionModes:   motionModes,
					ActionKeys:    keys(pattern),
					ActionContext: OperatorPending,
				},
				inclusive: true,
			},
			selectFn: sel,
		}
	}
}

func textObjects() []Factory {
	return []Factory{
		defTextObject("innerWord", "iw", selectWord(false, false)),
		defTextObject("aWord", "aw", selectWord(false, true)),
		defTextObject("innerBigWord", "iW", selectWord(true, false)),
		defTextObject("aBigWord", "aW", selectWord(true, true)),
	}
}

// visualTextObjects are the same objects typed in visual mode, where no
// operator is pending.
func visualTextObjects() []Factory {
	out := textObjects()
	for i, f := range out {
		f := f
		out[i] = func() Action {
			a := f()
			o := a.(*textObject)
			o.ActionName = "visual" + o.ActionName
			o.ActionModes = visualModes
			o.ActionContext = Idle
			return o
		}
	}
	return out
}

// selectWord returns the inclusive range of the word under p. With around
// set, trailing blanks are included, or leading blanks when there are none
// after the word.
func selectWord(big, around bool) func(vs *state.VimState, p buffer.Position) (buffer.Position, buffer.Position, bool) {
	return func(vs *state.VimState, p buffer.Position) (buffer.Position, buffer.Position, bool) {
		line := lineRunes(vs, p.Line)
		if len(line) == 0 {
			return p, p, false
		}
		i := min(p.Character, len(line)-1)
		c := classOf(line[i], big)
		start, end := i, i
		for start > 0 && classOf(line[start-1], big) == c {
			start--
		}
		for end+1 < len(line) && classOf(line[end+1], big) == c {
			end++
		}
		if around {
			if c == classBlank {
				// On blanks, aw takes the blanks and the following word.
				if end+1 < len(line) {
					nc := classOf(line[end+1], big)
					for end+1 < len(line) && classOf(line[end+1], big) == nc {
						end++
					}
				}
			} else {
				trail := end
				for trail+1 < len(line) && classOf(line[trail+1], big) == classBlank {
					trail++
				}
				if trail > end {
					end = trail
				} else {
					for start > 0 && classOf(line[start-1], big) == classBlank {
						start--
					}
				}
			}
		}
		return buffer.Pos(p.Line, start), buffer.Pos(p.Line, end), true
	}
}
