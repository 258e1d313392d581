package action

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/samber/mo"

	"github.com/dshills/modalkit/internal/engine/buffer"
	"github.com/dshills/modalkit/internal/vim/state"
	"github.com/dshills/modalkit/internal/vim/transform"
)

// advance moves n graphemes right from col, stopping at the line end.
func advance(line string, col, n int) int {
	for ; n > 0; n-- {
		next := buffer.NextGraphemeStart(line, col)
		if next <= col {
			break
		}
		col = next
	}
	return col
}

// retreat moves n graphemes left from col, stopping at column zero.
func retreat(line string, col, n int) int {
	for ; n > 0 && col > 0; n-- {
		col = buffer.PrevGraphemeStart(line, col)
	}
	return col
}

func normalChange(name string, patterns []string, run func(ctx context.Context, vs *state.VimState, a *funcAction, keys []string) error) Factory {
	return def(Base{
		ActionName:    name,
		ActionModes:   normalModes,
		ActionKeys:    keys(patterns...),
		ActionContext: Idle,
		Dot:           true,
		CountSelf:     true,
	}, run)
}

func shortcuts() []Factory {
	return []Factory{
		normalChange("deleteChar", []string{"x", "<Del>"}, func(_ context.Context, vs *state.VimState, a *funcAction, _ []string) error {
			p := vs.CursorStop
			line := vs.Line(p.Line)
			end := advance(line, p.Character, vs.Recorded.CountOr(1))
			if end == p.Character {
				return nil
			}
			return deleteText(vs, &a.Base, charRange(p, p.WithCharacter(end)))
		}),
		normalChange("deleteCharBefore", []string{"X"}, func(_ context.Context, vs *state.VimState, a *funcAction, _ []string) error {
			p := vs.CursorStop
			start := retreat(vs.Line(p.Line), p.Character, vs.Recorded.CountOr(1))
			if start == p.Character {
				return nil
			}
			return deleteText(vs, &a.Base, charRange(p.WithCharacter(start), p))
		}),
		normalChange("deleteToEnd", []string{"D"}, func(_ context.Context, vs *state.VimState, a *funcAction, _ []string) error {
			return deleteText(vs, &a.Base, toLineEnd(vs))
		}),
		normalChange("changeToEnd", []string{"C"}, func(_ context.Context, vs *state.VimState, a *funcAction, _ []string) error {
			return changeText(vs, &a.Base, toLineEnd(vs))
		}),
		normalChange("substitute", []string{"s"}, func(_ context.Context, vs *state.VimState, a *funcAction, _ []string) error {
			p := vs.CursorStop
			end := advance(vs.Line(p.Line), p.Character, vs.Recorded.CountOr(1))
			return changeText(vs, &a.Base, charRange(p, p.WithCharacter(end)))
		}),
		normalChange("substituteLine", []string{"S"}, func(_ context.Context, vs *state.VimState, a *funcAction, _ []string) error {
			p := vs.CursorStop
			return changeText(vs, &a.Base, lineRange(vs, p.Line, p.Line+vs.Recorded.CountOr(1)-1, p))
		}),
		def(Base{
			ActionName:    "yankLine",
			ActionModes:   normalModes,
			ActionKeys:    keys("Y"),
			ActionContext: Idle,
			CountSelf:     true,
		}, func(_ context.Context, vs *state.VimState, a *funcAction, _ []string) error {
			p := vs.CursorStop
			return yankText(vs, &a.Base, lineRange(vs, p.Line, p.Line+vs.Recorded.CountOr(1)-1, p))
		}),
		def(Base{
			ActionName:    "join",
			ActionModes:   motionModes,
			ActionKeys:    keys("J"),
			ActionContext: Idle,
			Dot:           true,
			CountSelf:     true,
		}, join),
		normalChange("replaceChar", []string{"r<character>"}, replaceChar),
		normalChange("increment", []string{"<C-a>"}, increment(1)),
		normalChange("decrement", []string{"<C-x>"}, increment(-1)),
	}
}

func toLineEnd(vs *state.VimState) opRange {
	p := vs.CursorStop
	last := min(p.Line+vs.Recorded.CountOr(1)-1, vs.LastLine())
	return charRange(p, vs.LineEnd(last))
}

// join joins count lines, or the selected lines in visual mode, with a
// single space between them. Leading blanks of the joined line are dropped.
func join(_ context.Context, vs *state.VimState, _ *funcAction, _ []string) error {
	first := vs.CursorStop.Line
	last := first + max(vs.Recorded.CountOr(2), 2) - 1
	if vs.ExecMode.IsVisual() {
		first = min(vs.CursorStart.Line, vs.CursorStop.Line)
		last = max(max(vs.CursorStart.Line, vs.CursorStop.Line), first+1)
	}
	last = min(last, vs.LastLine())
	if last <= first {
		vs.Recorded.MotionFailed = true
		return leaveVisual(vs)
	}
	q := &vs.Recorded.Transformations
	for l := first; l < last; l++ {
		cur, next := vs.Line(l), vs.Line(l+1)
		fnb := buffer.FirstNonBlank(next)
		sep := " "
		trimmed := strings.TrimRight(cur, " \t")
		if trimmed != cur || cur == "" || fnb == runeLen(next) || strings.HasPrefix(string([]rune(next)[fnb:]), ")") {
			sep = ""
		}
		t := &transform.ReplaceText{
			Range: buffer.NewRange(vs.LineEnd(l), buffer.Pos(l+1, fnb)),
			Text:  sep,
		}
		if l == last-1 {
			t.Diff = mo.Some(transform.ExactPosition(vs.LineEnd(l)))
		}
		q.Add(t)
	}
	setCursor(vs, vs.CursorStop)
	return leaveVisual(vs)
}

// replaceChar overwrites count characters with the typed one. It does
// nothing if the line is too short.
func replaceChar(_ context.Context, vs *state.VimState, _ *funcAction, keys []string) error {
	p := vs.CursorStop
	line := vs.Line(p.Line)
	n := vs.Recorded.CountOr(1)
	end := p.Character
	for i := 0; i < n; i++ {
		next := buffer.NextGraphemeStart(line, end)
		if next <= end {
			return nil
		}
		end = next
	}
	ch := keys[len(keys)-1]
	vs.Recorded.Transformations.Add(&transform.ReplaceText{
		Range: buffer.NewRange(p, p.WithCharacter(end)),
		Text:  strings.Repeat(ch, n),
		Diff:  mo.Some(transform.ExactPosition(p.WithCharacter(p.Character + (n-1)*runeLen(ch)))),
	})
	return nil
}

var numberPattern = regexp.MustCompile(`-?\d+`)

// increment adds sign*count to the first number ending after the cursor.
func increment(sign int) func(context.Context, *state.VimState, *funcAction, []string) error {
	return func(_ context.Context, vs *state.VimState, _ *funcAction, _ []string) error {
		p := vs.CursorStop
		line := vs.Line(p.Line)
		for _, m := range numberPattern.FindAllStringIndex(line, -1) {
			start, end := runeLen(line[:m[0]]), runeLen(line[:m[1]])
			if end <= p.Character {
				continue
			}
			text := line[m[0]:m[1]]
			// A minus sign right after a word character is not a sign.
			if text[0] == '-' && start > 0 && classOf([]rune(line)[start-1], false) == classWord {
				text = text[1:]
				start++
			}
			n, err := strconv.ParseInt(text, 10, 64)
			if err != nil {
				panic(fmt.Sprintf("action: malformed number %q: %v", text, err))
			}
			n += int64(sign * vs.Recorded.CountOr(1))
			repl := strconv.FormatInt(n, 10)
			vs.Recorded.Transformations.Add(&transform.ReplaceText{
				Range: buffer.NewRange(buffer.Pos(p.Line, start), buffer.Pos(p.Line, end)),
				Text:  repl,
				Diff:  mo.Some(transform.ExactPosition(buffer.Pos(p.Line, start+len(repl)-1))),
			})
			return nil
		}
		return nil
	}
}
