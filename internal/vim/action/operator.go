package action

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/mo"

	"github.com/dshills/modalkit/internal/engine/buffer"
	"github.com/dshills/modalkit/internal/vim/mode"
	"github.com/dshills/modalkit/internal/vim/register"
	"github.com/dshills/modalkit/internal/vim/state"
	"github.com/dshills/modalkit/internal/vim/transform"
)

// opRange is the text an operator works on.
type opRange struct {
	// Start and End delimit charwise text, End exclusive.
	Start, End buffer.Position
	Linewise   bool
	// Rows holds one range per line for a block selection.
	Rows []buffer.Range
	// Anchor is the cursor the range was made from, used to place the
	// cursor after a linewise yank.
	Anchor buffer.Position
}

func (r opRange) FirstLine() int { return r.Start.Line }
func (r opRange) LastLine() int  { return r.End.Line }
func (r opRange) IsBlock() bool  { return r.Rows != nil }

func (r opRange) mode() register.Mode {
	switch {
	case r.IsBlock():
		return register.BlockWise
	case r.Linewise:
		return register.LineWise
	}
	return register.CharacterWise
}

// text returns the register text of the range.
func (r opRange) text(vs *state.VimState) (string, error) {
	switch {
	case r.IsBlock():
		return strings.Join(r.rowTexts(vs), "\n"), nil
	case r.Linewise:
		var b strings.Builder
		for l := r.FirstLine(); l <= r.LastLine(); l++ {
			b.WriteString(vs.Line(l))
			b.WriteByte('\n')
		}
		return b.String(), nil
	}
	return vs.Editor.TextRange(buffer.NewRange(r.Start, r.End))
}

func (r opRange) rowTexts(vs *state.VimState) []string {
	rows := make([]string, len(r.Rows))
	for i, row := range r.Rows {
		line := lineRunes(vs, row.Start.Line)
		rows[i] = string(line[row.Start.Character:row.End.Character])
	}
	return rows
}

// deleteRange returns the buffer range removed by deleting r.
func (r opRange) deleteRange(vs *state.VimState) buffer.Range {
	if !r.Linewise {
		return buffer.NewRange(r.Start, r.End)
	}
	first, last := r.FirstLine(), r.LastLine()
	switch {
	case last < vs.LastLine():
		return buffer.NewRange(buffer.Pos(first, 0), buffer.Pos(last+1, 0))
	case first > 0:
		return buffer.NewRange(vs.LineEnd(first-1), vs.LineEnd(last))
	}
	return buffer.NewRange(buffer.Pos(0, 0), vs.LineEnd(last))
}

func charRange(start, end buffer.Position) opRange {
	return opRange{Start: start, End: end, Anchor: start}
}

func lineRange(vs *state.VimState, first, last int, anchor buffer.Position) opRange {
	first = max(first, 0)
	last = min(last, vs.LastLine())
	return opRange{Start: buffer.Pos(first, 0), End: vs.LineEnd(last), Linewise: true, Anchor: anchor}
}

// blockRange builds the rectangle between two corners. Columns are rune
// indexes; lines shorter than the left edge contribute empty rows.
func blockRange(vs *state.VimState, a, b buffer.Position) opRange {
	first, last := min(a.Line, b.Line), max(a.Line, b.Line)
	left, right := min(a.Character, b.Character), max(a.Character, b.Character)
	r := opRange{Start: buffer.Pos(first, left), End: buffer.Pos(last, right), Anchor: buffer.Pos(first, left)}
	for l := first; l <= last; l++ {
		line := vs.Line(l)
		n := runeLen(line)
		s := min(left, n)
		e := min(buffer.NextGraphemeStart(line, right), n)
		if right >= n {
			e = n
		}
		r.Rows = append(r.Rows, buffer.NewRange(buffer.Pos(l, s), buffer.Pos(l, max(s, e))))
	}
	return r
}

// operatorRange turns the cursor of a finished motion, or the visual
// selection, into the range an operator acts on.
func operatorRange(vs *state.VimState, start, stop buffer.Position) opRange {
	s, e := buffer.EarlierOf(start, stop), buffer.LaterOf(start, stop)
	switch {
	case vs.ExecMode == mode.VisualBlock:
		return blockRange(vs, start, stop)
	case vs.ExecMode == mode.VisualLine, !vs.ExecMode.IsVisual() && vs.Recorded.Linewise:
		return lineRange(vs, s.Line, e.Line, start)
	case vs.ExecMode == mode.Visual, vs.Recorded.Inclusive:
		e = e.WithCharacter(max(buffer.NextGraphemeStart(vs.Line(e.Line), e.Character), e.Character))
		if e.Character > runeLen(vs.Line(e.Line)) {
			e = vs.LineEnd(e.Line)
		}
	case e.Character == 0 && e.Line > s.Line:
		// An exclusive motion ending at column zero stops at the end of the
		// previous line.
		e = vs.LineEnd(e.Line - 1)
	}
	return charRange(s, e)
}

// putRegister writes the text of an operator to the selected register. With
// several cursors each cursor owns one row of the register.
func putRegister(vs *state.VimState, b *Base, text string, m register.Mode, op register.Operation) error {
	opts := register.PutOptions{Mode: m, Operation: op}
	if n := vs.CursorCount(); n > 1 {
		opts.CursorIndex = b.MulticursorIndex()
		opts.CursorCount = n
	}
	if err := vs.Registers.Put(vs.RegisterName(), text, opts); err != nil {
		return fmt.Errorf("register %q: %w", vs.RegisterName(), err)
	}
	return nil
}

// storeBlock writes block rows to the selected register and the unnamed one.
func storeBlock(vs *state.VimState, rows []string) error {
	name := vs.RegisterName()
	if name == register.BlackHole {
		return nil
	}
	content := register.BlockContent{Rows: rows}
	if err := vs.Registers.PutByKey(name, content, register.BlockWise); err != nil {
		return fmt.Errorf("register %q: %w", name, err)
	}
	if name != register.Unnamed {
		return vs.Registers.PutByKey(register.Unnamed, content, register.BlockWise)
	}
	return nil
}

func saveRange(vs *state.VimState, b *Base, r opRange, op register.Operation) error {
	if r.IsBlock() {
		return storeBlock(vs, r.rowTexts(vs))
	}
	text, err := r.text(vs)
	if err != nil {
		return err
	}
	return putRegister(vs, b, text, r.mode(), op)
}

func setCursor(vs *state.VimState, p buffer.Position) {
	vs.CursorStart, vs.CursorStop = p, p
}

func deleteText(vs *state.VimState, b *Base, r opRange) error {
	if err := saveRange(vs, b, r, register.OpDelete); err != nil {
		return err
	}
	q := &vs.Recorded.Transformations
	switch {
	case r.IsBlock():
		for _, row := range r.Rows {
			if !row.IsEmpty() {
				q.Add(&transform.DeleteRange{Range: row})
			}
		}
		setCursor(vs, r.Rows[0].Start)
	case r.Linewise:
		del := r.deleteRange(vs)
		q.Add(&transform.DeleteRange{Range: del, Diff: mo.Some(transform.FirstNonBlank(0))})
		setCursor(vs, del.Start)
	default:
		q.Add(&transform.DeleteRange{Range: buffer.NewRange(r.Start, r.End)})
		setCursor(vs, r.Start)
	}
	return nil
}

func yankText(vs *state.VimState, b *Base, r opRange) error {
	if err := saveRange(vs, b, r, register.OpYank); err != nil {
		return err
	}
	switch {
	case r.Linewise:
		setCursor(vs, vs.ClampNormal(buffer.Pos(r.FirstLine(), r.Anchor.Character)))
	default:
		setCursor(vs, r.Start)
	}
	return nil
}

func changeText(vs *state.VimState, b *Base, r opRange) error {
	if !r.Linewise {
		if err := deleteText(vs, b, r); err != nil {
			return err
		}
		return enterInsert(vs, 1)
	}
	if err := saveRange(vs, b, r, register.OpDelete); err != nil {
		return err
	}
	indent := ""
	if vs.Options.AutoIndent {
		indent = buffer.Indentation(vs.Line(r.FirstLine()))
	}
	vs.Recorded.Transformations.Add(&transform.ReplaceText{
		Range: buffer.NewRange(r.Start, r.End),
		Text:  indent,
		Diff:  mo.Some(transform.ExactPosition(buffer.Pos(r.FirstLine(), runeLen(indent)))),
	})
	setCursor(vs, r.Start)
	return enterInsert(vs, 1)
}

func enterInsert(vs *state.VimState, count int) error {
	vs.Insert = state.InsertState{Count: count}
	return vs.Modes.Transition(mode.Insert)
}

func leaveVisual(vs *state.VimState) error {
	if vs.ExecMode.IsVisual() && vs.Modes.Current().IsVisual() {
		return vs.Modes.Transition(mode.Normal)
	}
	return nil
}

// operator is d, c or y. In Normal mode it waits for a motion; in visual
// mode it applies to the selection right away.
type operator struct {
	Base
	key    string
	visual bool
	apply  func(vs *state.VimState, b *Base, r opRange) error
}

func (o *operator) Key() string { return o.key }

func (o *operator) IsCompleteAction() bool { return o.visual }

func (o *operator) Exec(ctx context.Context, vs *state.VimState, _ []string) error {
	if vs.ExecMode.IsVisual() {
		o.visual = true
		if err := o.Run(ctx, vs, vs.CursorStart, vs.CursorStop); err != nil {
			return err
		}
		return leaveVisual(vs)
	}
	if vs.Recorded.Operator == nil {
		vs.Recorded.Operator = o
		vs.Recorded.OperatorCount = vs.Recorded.Count
		vs.Recorded.Count = 0
	}
	return nil
}

func (o *operator) Run(_ context.Context, vs *state.VimState, start, stop buffer.Position) error {
	return o.apply(vs, &o.Base, operatorRange(vs, start, stop))
}

func defOperator(name, k string, modes []mode.Mode, dot bool, apply func(vs *state.VimState, b *Base, r opRange) error) Factory {
	return func() Action {
		return &operator{
			Base: Base{
				ActionName:    name,
				ActionModes:   modes,
				ActionKeys:    keys(k),
				ActionContext: Idle,
				Dot:           dot,
				CountSelf:     true,
			},
			key:   k,
			apply: apply,
		}
	}
}

func operators() []Factory {
	charModes := []mode.Mode{mode.Normal, mode.Visual, mode.VisualLine}
	return []Factory{
		defOperator("delete", "d", motionModes, true, deleteText),
		defOperator("change", "c", charModes, true, changeText),
		defOperator("yank", "y", motionModes, false, yankText),
		lineMotion("d"),
		lineMotion("c"),
		lineMotion("y"),
		defOperator("visualDeleteChar", "x", visualModes, true, deleteText),
		defOperator("visualSubstitute", "s", []mode.Mode{mode.Visual, mode.VisualLine}, true, changeText),
		def(Base{
			ActionName:    "blockChange",
			ActionModes:   []mode.Mode{mode.VisualBlock},
			ActionKeys:    keys("c", "s"),
			ActionContext: Idle,
			Dot:           true,
			Global:        true,
			CountSelf:     true,
		}, blockChange),
	}
}

// blockChange deletes the block and starts insert mode with a cursor on every
// row, so typed text goes into each line.
func blockChange(_ context.Context, vs *state.VimState, _ *funcAction, _ []string) error {
	r := blockRange(vs, vs.CursorStart, vs.CursorStop)
	if err := storeBlock(vs, r.rowTexts(vs)); err != nil {
		return err
	}
	q := &vs.Recorded.Transformations
	next := blockCursors(vs, r, false)
	for i, c := range next {
		for _, row := range r.Rows {
			if row.Start.Line == c.Start.Line && !row.IsEmpty() {
				q.Add(&transform.DeleteRange{Origin: transform.Origin{CursorIndex: mo.Some(i)}, Range: row})
			}
		}
	}
	if err := enterInsert(vs, 1); err != nil {
		return err
	}
	vs.SetCursors(next)
	return nil
}
