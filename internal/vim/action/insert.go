package action

import (
	"context"

	"github.com/samber/mo"

	"github.com/dshills/modalkit/internal/engine/buffer"
	"github.com/dshills/modalkit/internal/vim/mode"
	"github.com/dshills/modalkit/internal/vim/register"
	"github.com/dshills/modalkit/internal/vim/state"
	"github.com/dshills/modalkit/internal/vim/transform"
)

func defInsertEntry(name, pattern string, run func(vs *state.VimState) error) Factory {
	return def(Base{
		ActionName:    name,
		ActionModes:   normalModes,
		ActionKeys:    keys(pattern),
		ActionContext: Idle,
		Dot:           true,
		CountSelf:     true,
	}, func(_ context.Context, vs *state.VimState, _ *funcAction, _ []string) error {
		if err := run(vs); err != nil {
			return err
		}
		count := vs.Recorded.CountOr(1)
		prefix := vs.Insert.Prefix
		if err := enterInsert(vs, count); err != nil {
			return err
		}
		vs.Insert.Prefix = prefix
		return nil
	})
}

// indentFor returns the indentation a new line below or above line gets.
func indentFor(vs *state.VimState, line int) string {
	if !vs.Options.AutoIndent {
		return ""
	}
	return buffer.Indentation(vs.Line(line))
}

func insertEntries() []Factory {
	return []Factory{
		defInsertEntry("insert", "i", func(vs *state.VimState) error {
			vs.Insert.Prefix = ""
			return nil
		}),
		defInsertEntry("append", "a", func(vs *state.VimState) error {
			vs.Insert.Prefix = ""
			p := vs.CursorStop
			setCursor(vs, p.WithCharacter(nextChar(vs, p)))
			return nil
		}),
		defInsertEntry("insertAtLineStart", "I", func(vs *state.VimState) error {
			vs.Insert.Prefix = ""
			p := vs.CursorStop
			setCursor(vs, p.WithCharacter(buffer.FirstNonBlank(vs.Line(p.Line))))
			return nil
		}),
		defInsertEntry("appendAtLineEnd", "A", func(vs *state.VimState) error {
			vs.Insert.Prefix = ""
			setCursor(vs, vs.LineEnd(vs.CursorStop.Line))
			return nil
		}),
		defInsertEntry("openBelow", "o", func(vs *state.VimState) error {
			l := vs.CursorStop.Line
			indent := indentFor(vs, l)
			vs.Insert.Prefix = "\n" + indent
			vs.Recorded.Transformations.Add(&transform.InsertText{
				Position: vs.LineEnd(l),
				Text:     "\n" + indent,
				Diff:     mo.Some(transform.ExactPosition(buffer.Pos(l+1, runeLen(indent)))),
			})
			return nil
		}),
		defInsertEntry("openAbove", "O", func(vs *state.VimState) error {
			l := vs.CursorStop.Line
			indent := indentFor(vs, l)
			vs.Insert.Prefix = "\n" + indent
			vs.Recorded.Transformations.Add(&transform.InsertText{
				Position: buffer.Pos(l, 0),
				Text:     indent + "\n",
				Diff:     mo.Some(transform.ExactPosition(buffer.Pos(l, runeLen(indent)))),
			})
			return nil
		}),
	}
}

func typing(name string, modes []mode.Mode, pattern string, run func(ctx context.Context, vs *state.VimState, a *funcAction, keys []string) error) Factory {
	return def(Base{
		ActionName:    name,
		ActionModes:   modes,
		ActionKeys:    keys(pattern),
		ActionContext: AnyContext,
	}, run)
}

// typed records text entered in insert mode. Only the first cursor records,
// so the text is kept once however many cursors typed it.
func typed(vs *state.VimState, a *funcAction, text string) {
	if a.isFirstCursor() {
		vs.Insert.Text += text
	}
}

func untyped(vs *state.VimState, a *funcAction) {
	if a.isFirstCursor() && vs.Insert.Text != "" {
		r := []rune(vs.Insert.Text)
		vs.Insert.Text = string(r[:len(r)-1])
	}
}

func insertKeys() []Factory {
	return []Factory{
		typing("insertChar", insertModes, WildCharacter, func(_ context.Context, vs *state.VimState, a *funcAction, keys []string) error {
			text := keys[len(keys)-1]
			vs.Recorded.Transformations.Add(&transform.InsertText{Position: vs.CursorStop, Text: text})
			typed(vs, a, text)
			return nil
		}),
		typing("insertBackspace", insertModes, "<BS>", func(_ context.Context, vs *state.VimState, a *funcAction, _ []string) error {
			vs.Recorded.Transformations.Add(&transform.DeleteText{Position: vs.CursorStop})
			untyped(vs, a)
			return nil
		}),
		typing("insertDelete", insertModes, "<Del>", func(_ context.Context, vs *state.VimState, _ *funcAction, _ []string) error {
			p := vs.CursorStop
			end := p.WithCharacter(nextChar(vs, p))
			if end == p {
				if p.Line >= vs.LastLine() {
					return nil
				}
				end = buffer.Pos(p.Line+1, 0)
			}
			vs.Recorded.Transformations.Add(&transform.DeleteRange{Range: buffer.NewRange(p, end)})
			return nil
		}),
		typing("newline", typingModes, "<CR>", func(_ context.Context, vs *state.VimState, a *funcAction, _ []string) error {
			p := vs.CursorStop
			text := "\n" + indentFor(vs, p.Line)
			vs.Recorded.Transformations.Add(&transform.InsertText{Position: p, Text: text})
			if vs.ExecMode == mode.Replace {
				vs.Replace.Cursor(a.cursorIndex()).Push(mo.None[string]())
			}
			typed(vs, a, text)
			return nil
		}),
		typing("insertTab", insertModes, "<Tab>", func(_ context.Context, vs *state.VimState, a *funcAction, _ []string) error {
			vs.Recorded.Transformations.Add(&transform.InsertTab{Position: vs.CursorStop})
			typed(vs, a, "\t")
			return nil
		}),
		typing("deleteWordBefore", insertModes, "<C-w>", func(_ context.Context, vs *state.VimState, a *funcAction, _ []string) error {
			p := vs.CursorStop
			if p.Character == 0 {
				vs.Recorded.Transformations.Add(&transform.DeleteText{Position: p})
				return nil
			}
			line := lineRunes(vs, p.Line)
			i := min(p.Character, len(line))
			for i > 0 && classOf(line[i-1], false) == classBlank {
				i--
			}
			if i > 0 {
				c := classOf(line[i-1], false)
				for i > 0 && classOf(line[i-1], false) == c {
					i--
				}
			}
			vs.Recorded.Transformations.Add(&transform.DeleteRange{Range: buffer.NewRange(p.WithCharacter(i), p)})
			if a.isFirstCursor() {
				vs.Insert.Text = ""
			}
			return nil
		}),
		typing("insertRegister", insertModes, "<C-r><character>", func(_ context.Context, vs *state.VimState, a *funcAction, keys []string) error {
			name := []rune(keys[len(keys)-1])[0]
			if !register.IsValidRegister(name) {
				return nil
			}
			reg, ok := vs.Registers.GetForCursor(name, a.MulticursorIndex(), vs.CursorCount())
			if !ok {
				return nil
			}
			text := reg.Text()
			vs.Recorded.Transformations.Add(&transform.InsertText{Position: vs.CursorStop, Text: text})
			typed(vs, a, text)
			return nil
		}),
		typing("insertLeft", typingModes, "<Left>", func(_ context.Context, vs *state.VimState, _ *funcAction, _ []string) error {
			p := vs.CursorStop
			setCursor(vs, p.WithCharacter(prevChar(vs, p)))
			return nil
		}),
		typing("insertRight", typingModes, "<Right>", func(_ context.Context, vs *state.VimState, _ *funcAction, _ []string) error {
			p := vs.CursorStop
			setCursor(vs, p.WithCharacter(nextChar(vs, p)))
			return nil
		}),
		typing("insertUp", typingModes, "<Up>", func(_ context.Context, vs *state.VimState, _ *funcAction, _ []string) error {
			setCursor(vs, insertVertical(vs, -1))
			return nil
		}),
		typing("insertDown", typingModes, "<Down>", func(_ context.Context, vs *state.VimState, _ *funcAction, _ []string) error {
			setCursor(vs, insertVertical(vs, 1))
			return nil
		}),
		typing("exitInsert", typingModes, "<Esc>", exitInsert),
	}
}

func insertVertical(vs *state.VimState, delta int) buffer.Position {
	p := vs.CursorStop
	l := min(max(p.Line+delta, 0), vs.LastLine())
	return buffer.Pos(l, min(p.Character, runeLen(vs.Line(l))))
}

// exitInsert repeats the typed text for a count, steps the cursor back onto
// the last typed character and returns to Normal mode.
func exitInsert(_ context.Context, vs *state.VimState, a *funcAction, _ []string) error {
	q := &vs.Recorded.Transformations
	if vs.ExecMode == mode.Insert && vs.Insert.Count > 1 && vs.Insert.Text != "" {
		var text string
		for i := 1; i < vs.Insert.Count; i++ {
			text += vs.Insert.Prefix + vs.Insert.Text
		}
		q.Add(&transform.InsertText{Position: vs.CursorStop, Text: text})
	}
	q.Add(&transform.MoveCursor{Diff: transform.Offset(0, -1)})
	if a.isFirstCursor() {
		vs.Registers.SetLastInserted(vs.Insert.Text)
	}
	return vs.Modes.Transition(mode.Normal)
}
