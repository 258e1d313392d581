package action

import (
	"context"
	"strings"

	"github.com/samber/mo"

	"github.com/dshills/modalkit/internal/engine/buffer"
	"github.com/dshills/modalkit/internal/vim/mode"
	"github.com/dshills/modalkit/internal/vim/state"
)

// moveFunc computes a motion target. ok is false when the motion cannot move.
type moveFunc func(vs *state.VimState, a *motion, from buffer.Position, keys []string) (to buffer.Position, ok bool)

type motion struct {
	Base
	inclusive bool
	linewise  bool
	move      moveFunc
	applies   func(vs *state.VimState, keys []string) bool
}

func (m *motion) Inclusive() bool { return m.inclusive }
func (m *motion) Linewise() bool  { return m.linewise }

func (m *motion) Applies(vs *state.VimState, keys []string) bool {
	if m.applies == nil {
		return true
	}
	return m.applies(vs, keys)
}

// Exec moves the cursor end. Outside visual mode and without a pending
// operator the whole cursor moves.
func (m *motion) Exec(_ context.Context, vs *state.VimState, keys []string) error {
	to, ok := m.move(vs, m, vs.CursorStop, keys)
	if !ok {
		vs.Recorded.MotionFailed = true
		return nil
	}
	vs.CursorStop = to
	if !vs.ExecMode.IsVisual() && vs.Recorded.Operator == nil {
		vs.CursorStart = to
	}
	return nil
}

type motionKind uint8

const (
	exclusive motionKind = iota
	inclusive
	linewise
)

func defMotion(name string, kind motionKind, patterns []string, move moveFunc, opts ...func(*motion)) Factory {
	return func() Action {
		m := &motion{
			Base: Base{
				ActionName:    name,
				ActionModes:   motionModes,
				ActionKeys:    keys(patterns...),
				ActionContext: AnyContext,
			},
			inclusive: kind == inclusive,
			linewise:  kind == linewise,
			move:      move,
		}
		for _, o := range opts {
			o(m)
		}
		return m
	}
}

func jump(m *motion)      { m.Jump = true }
func countSelf(m *motion) { m.CountSelf = true }

func onlyIf(f func(vs *state.VimState, keys []string) bool) func(*motion) {
	return func(m *motion) { m.applies = f }
}

func motions() []Factory {
	return []Factory{
		defMotion("left", exclusive, []string{"h", "<Left>", "<BS>"}, moveLeft),
		defMotion("right", exclusive, []string{"l", "<Right>", " "}, moveRight),
		defMotion("down", linewise, []string{"j", "<Down>"}, moveDown, countSelf),
		defMotion("up", linewise, []string{"k", "<Up>"}, moveUp, countSelf),
		defMotion("lineStart", exclusive, []string{"0", "<Home>"}, moveLineStart,
			onlyIf(func(vs *state.VimState, _ []string) bool { return vs.Recorded.Count == 0 })),
		defMotion("firstNonBlank", exclusive, []string{"^"}, moveFirstNonBlank),
		defMotion("lineEnd", inclusive, []string{"$", "<End>"}, moveLineEnd, countSelf),
		defMotion("wordForward", exclusive, []string{"w"}, moveWord(false), countSelf),
		defMotion("bigWordForward", exclusive, []string{"W"}, moveWord(true), countSelf),
		defMotion("wordEnd", inclusive, []string{"e"}, moveWordEnd(false)),
		defMotion("bigWordEnd", inclusive, []string{"E"}, moveWordEnd(true)),
		defMotion("wordBackward", exclusive, []string{"b"}, moveWordBackward(false)),
		defMotion("bigWordBackward", exclusive, []string{"B"}, moveWordBackward(true)),
		defMotion("gotoFirstLine", linewise, []string{"gg"}, moveGotoLine(true), countSelf, jump),
		defMotion("gotoLine", linewise, []string{"G"}, moveGotoLine(false), countSelf, jump),
		defMotion("findForward", inclusive, []string{"f<character>"}, moveFind(false, false)),
		defMotion("findBackward", exclusive, []string{"F<character>"}, moveFind(true, false)),
		defMotion("tillForward", inclusive, []string{"t<character>"}, moveFind(false, true)),
		defMotion("tillBackward", exclusive, []string{"T<character>"}, moveFind(true, true)),
		defMotion("repeatFind", inclusive, []string{";"}, moveRepeatFind(false)),
		defMotion("repeatFindReverse", inclusive, []string{","}, moveRepeatFind(true)),
		defMotion("markExact", exclusive, []string{"`<character>"}, moveMark(false), jump),
		defMotion("markLine", linewise, []string{"'<character>"}, moveMark(true), jump),
	}
}

func moveLeft(vs *state.VimState, _ *motion, from buffer.Position, _ []string) (buffer.Position, bool) {
	if from.Character == 0 {
		return from, false
	}
	return from.WithCharacter(prevChar(vs, from)), true
}

func moveRight(vs *state.VimState, _ *motion, from buffer.Position, _ []string) (buffer.Position, bool) {
	line := vs.Line(from.Line)
	next := buffer.NextGraphemeStart(line, from.Character)
	limit := buffer.LastGraphemeStart(line)
	if vs.Recorded.Operator != nil {
		limit = runeLen(line)
	}
	if next > limit || next == from.Character {
		return from, false
	}
	return from.WithCharacter(next), true
}

func vertical(vs *state.VimState, from buffer.Position, delta int) (buffer.Position, bool) {
	target := min(max(from.Line+delta, 0), vs.LastLine())
	if target == from.Line {
		return from, false
	}
	line := vs.Line(target)
	return buffer.Pos(target, buffer.GraphemeStartAt(line, min(from.Character, buffer.LastGraphemeStart(line)))), true
}

func moveDown(vs *state.VimState, _ *motion, from buffer.Position, _ []string) (buffer.Position, bool) {
	return vertical(vs, from, vs.Recorded.CountOr(1))
}

func moveUp(vs *state.VimState, _ *motion, from buffer.Position, _ []string) (buffer.Position, bool) {
	return vertical(vs, from, -vs.Recorded.CountOr(1))
}

func moveLineStart(_ *state.VimState, _ *motion, from buffer.Position, _ []string) (buffer.Position, bool) {
	return from.WithCharacter(0), true
}

func moveFirstNonBlank(vs *state.VimState, _ *motion, from buffer.Position, _ []string) (buffer.Position, bool) {
	return from.WithCharacter(buffer.FirstNonBlank(vs.Line(from.Line))), true
}

func moveLineEnd(vs *state.VimState, _ *motion, from buffer.Position, _ []string) (buffer.Position, bool) {
	line := min(from.Line+vs.Recorded.CountOr(1)-1, vs.LastLine())
	return buffer.Pos(line, buffer.LastGraphemeStart(vs.Line(line))), true
}

// moveWord implements w and W. With a pending c on a non-blank character the
// motion behaves like e, so cw changes to the end of the word.
func moveWord(big bool) moveFunc {
	return func(vs *state.VimState, _ *motion, from buffer.Position, _ []string) (buffer.Position, bool) {
		count := vs.Recorded.CountOr(1)
		if op := vs.Recorded.Operator; op != nil && op.Key() == "c" {
			if c := graphemeAt(vs, from); c != "" && classOf([]rune(c)[0], big) != classBlank {
				vs.Recorded.Inclusive = true
				to := currentWordEnd(vs, from, big)
				for i := 1; i < count; i++ {
					next, ok := wordEnd(vs, to, big)
					if !ok {
						break
					}
					to = next
				}
				return to, true
			}
		}
		to := from
		for i := 0; i < count; i++ {
			next := wordForward(vs, to, big)
			if next == to {
				break
			}
			to = next
		}
		if to == from {
			return from, false
		}
		// dw on the last word of a line stops at the line end.
		if vs.Recorded.Operator != nil && to.Line > from.Line && count == 1 {
			return vs.LineEnd(from.Line), true
		}
		return to, true
	}
}

func moveWordEnd(big bool) moveFunc {
	return func(vs *state.VimState, _ *motion, from buffer.Position, _ []string) (buffer.Position, bool) {
		return wordEnd(vs, from, big)
	}
}

func moveWordBackward(big bool) moveFunc {
	return func(vs *state.VimState, _ *motion, from buffer.Position, _ []string) (buffer.Position, bool) {
		return wordBackward(vs, from, big)
	}
}

// moveGotoLine implements gg and G. A count selects the line.
func moveGotoLine(first bool) moveFunc {
	return func(vs *state.VimState, _ *motion, from buffer.Position, _ []string) (buffer.Position, bool) {
		line := vs.LastLine()
		if first {
			line = 0
		}
		if vs.Recorded.HasCount() {
			line = min(vs.Recorded.CountOr(1)-1, vs.LastLine())
		}
		return buffer.Pos(line, buffer.FirstNonBlank(vs.Line(line))), true
	}
}

func moveFind(backward, till bool) moveFunc {
	return func(vs *state.VimState, _ *motion, from buffer.Position, keys []string) (buffer.Position, bool) {
		cmd := state.FindCommand{Char: keys[len(keys)-1], Backward: backward, Till: till}
		vs.LastFind = mo.Some(cmd)
		return find(vs, from, cmd, false)
	}
}

func moveRepeatFind(reverse bool) moveFunc {
	return func(vs *state.VimState, _ *motion, from buffer.Position, _ []string) (buffer.Position, bool) {
		cmd, ok := vs.LastFind.Get()
		if !ok {
			return from, false
		}
		if reverse {
			cmd.Backward = !cmd.Backward
		}
		vs.Recorded.Inclusive = !cmd.Backward
		return find(vs, from, cmd, true)
	}
}

// find searches the line for the count-th occurrence of cmd.Char. A repeated
// till skips a match right next to the cursor so ; makes progress.
func find(vs *state.VimState, from buffer.Position, cmd state.FindCommand, repeat bool) (buffer.Position, bool) {
	line := lineRunes(vs, from.Line)
	target := []rune(cmd.Char)
	if len(target) == 0 {
		return from, false
	}
	count := vs.Recorded.CountOr(1)
	step := 1
	if cmd.Backward {
		step = -1
	}
	i := from.Character
	if cmd.Till && repeat {
		i += step
	}
	for count > 0 {
		i += step
		if i < 0 || i >= len(line) {
			return from, false
		}
		if line[i] == target[0] {
			count--
		}
	}
	if cmd.Till {
		i -= step
	}
	return from.WithCharacter(i), true
}

func moveMark(line bool) moveFunc {
	return func(vs *state.VimState, _ *motion, from buffer.Position, keys []string) (buffer.Position, bool) {
		name := []rune(keys[1])[0]
		p, ok := vs.Marks.Get(name)
		if !ok {
			vs.Status.Set("E20: Mark not set", true)
			return from, false
		}
		p = vs.ClampNormal(p)
		if line {
			p = p.WithCharacter(buffer.FirstNonBlank(vs.Line(p.Line)))
		}
		return p, true
	}
}

// lineMotion is the second key of a doubled operator such as dd. It covers
// count lines starting at the cursor.
func lineMotion(k string) Factory {
	return defMotion("line"+strings.ToUpper(k), linewise, []string{k},
		func(vs *state.VimState, _ *motion, from buffer.Position, _ []string) (buffer.Position, bool) {
			line := min(from.Line+vs.Recorded.CountOr(1)-1, vs.LastLine())
			return buffer.Pos(line, from.Character), true
		},
		countSelf,
		func(m *motion) {
			m.ActionModes = []mode.Mode{mode.Normal}
			m.ActionContext = OperatorPending
		},
		onlyIf(func(vs *state.VimState, keys []string) bool {
			op := vs.Recorded.Operator
			return op != nil && op.Key() == keys[0]
		}),
	)
}
