package action

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/mo"

	"github.com/dshills/modalkit/internal/engine/buffer"
	"github.com/dshills/modalkit/internal/vim/register"
	"github.com/dshills/modalkit/internal/vim/state"
	"github.com/dshills/modalkit/internal/vim/transform"
)

// putOptions select the put variant.
type putOptions struct {
	// Before puts before the cursor (P) instead of after it (p).
	Before bool
	// AfterText leaves the cursor just after the new text (gp, gP).
	AfterText bool
}

func defPut(name, pattern string, opts putOptions) Factory {
	return def(Base{
		ActionName:    name,
		ActionModes:   normalModes,
		ActionKeys:    keys(pattern),
		ActionContext: Idle,
		Dot:           true,
		CountSelf:     true,
	}, func(_ context.Context, vs *state.VimState, a *funcAction, _ []string) error {
		reg, ok := readRegister(vs, &a.Base)
		if !ok {
			return nil
		}
		putRegisterContent(vs, reg, vs.CursorStop, vs.Recorded.CountOr(1), opts)
		return nil
	})
}

func puts() []Factory {
	return []Factory{
		defPut("put", "p", putOptions{}),
		defPut("putBefore", "P", putOptions{Before: true}),
		defPut("putAfterText", "gp", putOptions{AfterText: true}),
		defPut("putBeforeAfterText", "gP", putOptions{Before: true, AfterText: true}),
		defVisualPut("visualPut", "p", true),
		defVisualPut("visualPutKeep", "P", false),
	}
}

// readRegister returns the register content seen by the running cursor,
// reporting an error on the status line when it is empty.
func readRegister(vs *state.VimState, b *Base) (register.Register, bool) {
	name := vs.RegisterName()
	reg, ok := vs.Registers.GetForCursor(name, b.MulticursorIndex(), vs.CursorCount())
	if !ok || reg.IsEmpty() {
		vs.Status.Set(fmt.Sprintf("E353: Nothing in register %c", name), true)
		return register.Register{}, false
	}
	return reg, true
}

// endOf returns the position just after text inserted at p.
func endOf(p buffer.Position, text string) buffer.Position {
	i := strings.LastIndexByte(text, '\n')
	if i < 0 {
		return p.WithCharacter(p.Character + runeLen(text))
	}
	return buffer.Pos(p.Line+strings.Count(text, "\n"), runeLen(text[i+1:]))
}

// lastCharOf returns the position of the last character of text inserted at p.
func lastCharOf(p buffer.Position, text string) buffer.Position {
	end := endOf(p, text)
	if end.Character > 0 {
		end.Character--
	}
	return end
}

// putRegisterContent routes register content by its mode: inline text,
// whole lines, or a rectangle.
func putRegisterContent(vs *state.VimState, reg register.Register, p buffer.Position, count int, opts putOptions) {
	if block, ok := reg.Content.(register.BlockContent); ok && reg.Mode == register.BlockWise {
		putBlock(vs, block.Rows, p, count, opts)
		return
	}
	if reg.Mode == register.LineWise {
		putLines(vs, reg.Text(), p, count, opts)
		return
	}
	putChars(vs, reg.Text(), p, count, opts)
}

func putChars(vs *state.VimState, text string, p buffer.Position, count int, opts putOptions) {
	body := strings.Repeat(text, count)
	at := p
	if line := vs.Line(p.Line); !opts.Before && line != "" {
		at = p.WithCharacter(buffer.NextGraphemeStart(line, p.Character))
	}
	var cur buffer.Position
	switch {
	case opts.AfterText:
		cur = endOf(at, body)
	case strings.Contains(body, "\n"):
		cur = at
	default:
		cur = lastCharOf(at, body)
	}
	vs.Recorded.Transformations.Add(&transform.InsertText{
		Position: at,
		Text:     body,
		Diff:     mo.Some(transform.ExactPosition(cur)),
	})
}

func putLines(vs *state.VimState, text string, p buffer.Position, count int, opts putOptions) {
	lines := strings.TrimSuffix(text, "\n")
	body := strings.TrimSuffix(strings.Repeat(lines+"\n", count), "\n")
	n := strings.Count(body, "\n") + 1
	firstCol := buffer.FirstNonBlank(strings.SplitN(body, "\n", 2)[0])

	t := &transform.InsertText{}
	top := p.Line
	if opts.Before {
		t.Position = buffer.Pos(p.Line, 0)
		t.Text = body + "\n"
	} else {
		top = p.Line + 1
		t.Position = vs.LineEnd(p.Line)
		t.Text = "\n" + body
	}
	cur := buffer.Pos(top, firstCol)
	if opts.AfterText {
		cur = buffer.Pos(top+n, 0)
	}
	t.Diff = mo.Some(transform.ExactPosition(cur))
	vs.Recorded.Transformations.Add(t)
}

// putBlock pastes rows on successive lines at the cursor column. Short lines
// are padded with spaces and rows past the end of the buffer become new
// lines.
func putBlock(vs *state.VimState, rows []string, p buffer.Position, count int, opts putOptions) {
	col := p.Character
	if line := vs.Line(p.Line); !opts.Before && line != "" {
		col = buffer.NextGraphemeStart(line, p.Character)
	}
	width := 0
	for _, r := range rows {
		width = max(width, runeLen(r))
	}
	pad := func(s string, n int) string {
		return s + strings.Repeat(" ", max(n-runeLen(s), 0))
	}

	q := &vs.Recorded.Transformations
	var extra []string
	for i, row := range rows {
		text := strings.Repeat(pad(row, width), count-1) + row
		l := p.Line + i
		if l > vs.LastLine() {
			extra = append(extra, strings.Repeat(" ", col)+text)
			continue
		}
		t := &transform.InsertText{Position: buffer.Pos(l, col)}
		switch n := runeLen(vs.Line(l)); {
		case n < col:
			t.Position = vs.LineEnd(l)
			t.Text = strings.Repeat(" ", col-n) + text
		case n > col:
			t.Text = pad(text, width*count)
		default:
			t.Text = text
		}
		if i == 0 {
			cur := buffer.Pos(l, col)
			if opts.AfterText {
				cur = buffer.Pos(l, col+width*count)
			}
			t.Diff = mo.Some(transform.ExactPosition(cur))
		}
		q.Add(t)
	}
	if len(extra) > 0 {
		q.Add(&transform.InsertText{
			Position: vs.LineEnd(vs.LastLine()),
			Text:     "\n" + strings.Join(extra, "\n"),
		})
	}
}

// defVisualPut replaces the selection with register content. The p variant
// saves the replaced text in the unnamed register.
func defVisualPut(name, pattern string, saveReplaced bool) Factory {
	return def(Base{
		ActionName:    name,
		ActionModes:   visualModes,
		ActionKeys:    keys(pattern),
		ActionContext: Idle,
		Dot:           true,
		CountSelf:     true,
	}, func(_ context.Context, vs *state.VimState, a *funcAction, _ []string) error {
		reg, ok := readRegister(vs, &a.Base)
		if !ok {
			return nil
		}
		r := operatorRange(vs, vs.CursorStart, vs.CursorStop)
		old, err := r.text(vs)
		if err != nil {
			return err
		}

		text := strings.Repeat(reg.Text(), vs.Recorded.CountOr(1))
		q := &vs.Recorded.Transformations
		var target buffer.Range
		switch {
		case r.IsBlock():
			for _, row := range r.Rows[1:] {
				if !row.IsEmpty() {
					q.Add(&transform.DeleteRange{Range: row})
				}
			}
			target = r.Rows[0]
		default:
			target = buffer.NewRange(r.Start, r.End)
		}

		var cur buffer.Position
		switch {
		case r.Linewise:
			text = strings.TrimSuffix(text, "\n")
			cur = buffer.Pos(target.Start.Line, buffer.FirstNonBlank(text))
		case reg.Mode == register.LineWise:
			body := strings.TrimSuffix(text, "\n")
			text = "\n" + body + "\n"
			cur = buffer.Pos(target.Start.Line+1, buffer.FirstNonBlank(body))
		default:
			cur = lastCharOf(target.Start, text)
		}
		q.Add(&transform.ReplaceText{Range: target, Text: text, Diff: mo.Some(transform.ExactPosition(cur))})
		setCursor(vs, target.Start)

		if saveReplaced {
			opts := register.PutOptions{Mode: r.mode(), Operation: register.OpDelete}
			if n := vs.CursorCount(); n > 1 {
				opts.CursorIndex, opts.CursorCount = a.MulticursorIndex(), n
			}
			if err := vs.Registers.Put(register.Unnamed, old, opts); err != nil {
				return err
			}
		}
		return leaveVisual(vs)
	})
}
