package term

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/dshills/modalkit/internal/engine/buffer"
	"github.com/dshills/modalkit/internal/engine/cursor"
	"github.com/dshills/modalkit/internal/vim/mode"
	"github.com/dshills/modalkit/internal/vim/state"
)

var (
	styleText      = tcell.StyleDefault
	styleFiller    = tcell.StyleDefault.Foreground(tcell.ColorBlue)
	styleSelection = tcell.StyleDefault.Reverse(true)
	styleCursor    = tcell.StyleDefault.Reverse(true).Bold(true)
	styleError     = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleMode      = tcell.StyleDefault.Bold(true)
)

// View draws one buffer and the status line below it.
type View struct {
	// Top is the first buffer line shown.
	Top int
}

// Draw renders vs onto scr. pending is shown at the right of the status
// line.
func (v *View) Draw(scr tcell.Screen, vs *state.VimState, sl *StatusLine, pending string) {
	scr.Clear()
	width, height := scr.Size()
	if height < 2 || width < 1 {
		return
	}
	rows := height - 1

	cs := vs.Cursors()
	primary := cs[0].Stop
	v.scroll(primary.Line, rows)

	current := vs.Modes.Current()
	tabStop := max(vs.Options.TabStop, 1)
	cursorX, cursorY := 0, primary.Line-v.Top

	for y := 0; y < rows; y++ {
		n := v.Top + y
		if n > vs.LastLine() {
			scr.SetContent(0, y, '~', nil, styleFiller)
			continue
		}
		x, char := 0, 0
		for _, r := range vs.Line(n) {
			p := buffer.Pos(n, char)
			if p == primary {
				cursorX = x
			}
			style := styleText
			switch {
			case isSecondaryCursor(cs, p):
				style = styleCursor
			case current.IsVisual() && selected(cs, current, p):
				style = styleSelection
			}

			w := runewidth.RuneWidth(r)
			if r == '\t' {
				w = tabStop - x%tabStop
				for i := 0; i < w; i++ {
					setCell(scr, x+i, y, width, ' ', style)
				}
			} else if w > 0 {
				setCell(scr, x, y, width, r, style)
			}
			x += w
			char++
		}
		if n == primary.Line && primary.Character >= char {
			cursorX = x
		}
		for i := range cs[1:] {
			if p := cs[i+1].Stop; p.Line == n && p.Character >= char {
				setCell(scr, x, y, width, ' ', styleCursor)
			}
		}
	}

	if cmd, ok := v.drawStatus(scr, vs, sl, pending, width, rows); ok {
		scr.ShowCursor(runewidth.StringWidth(cmd), rows)
	} else {
		scr.ShowCursor(min(cursorX, width-1), cursorY)
	}
	scr.SetCursorStyle(cursorStyle(current))
}

func (v *View) scroll(line, rows int) {
	if line < v.Top {
		v.Top = line
	}
	if line >= v.Top+rows {
		v.Top = line - rows + 1
	}
}

// drawStatus draws the status row. It returns the command line and true
// when one is being typed, so the cursor can be placed on it.
func (v *View) drawStatus(scr tcell.Screen, vs *state.VimState, sl *StatusLine, pending string, width, row int) (string, bool) {
	current := vs.Modes.Current()
	primary := vs.Cursors()[0].Stop

	right := fmt.Sprintf("%d,%d", primary.Line+1, primary.Character+1)
	if n := vs.CursorCount(); n > 1 {
		right = fmt.Sprintf("[%d cursors] %s", n, right)
	}
	if pending != "" {
		right = pending + "  " + right
	}
	if vs.Macro.IsRecording() {
		right = "recording  " + right
	}
	drawString(scr, width-runewidth.StringWidth(right), row, width, right, styleText)

	if current == mode.CommandlineInProgress || current == mode.SearchInProgress {
		drawString(scr, 0, row, width, vs.CommandLine, styleText)
		return vs.CommandLine, true
	}
	if msg, isErr := sl.Message(); msg != "" {
		style := styleText
		if isErr {
			style = styleError
		}
		drawString(scr, 0, row, width, msg, style)
		return "", false
	}
	drawString(scr, 0, row, width, current.DisplayName(), styleMode)
	return "", false
}

func isSecondaryCursor(cs []cursor.Cursor, p buffer.Position) bool {
	for _, c := range cs[1:] {
		if c.Stop == p {
			return true
		}
	}
	return false
}

func selected(cs []cursor.Cursor, m mode.Mode, p buffer.Position) bool {
	for _, c := range cs {
		lo, hi := buffer.EarlierOf(c.Start, c.Stop), buffer.LaterOf(c.Start, c.Stop)
		switch m {
		case mode.VisualLine:
			if p.Line >= lo.Line && p.Line <= hi.Line {
				return true
			}
		case mode.VisualBlock:
			left := min(c.Start.Character, c.Stop.Character)
			right := max(c.Start.Character, c.Stop.Character)
			if p.Line >= lo.Line && p.Line <= hi.Line && p.Character >= left && p.Character <= right {
				return true
			}
		default:
			if p.IsAfterOrEqual(lo) && p.IsBeforeOrEqual(hi) {
				return true
			}
		}
	}
	return false
}

func cursorStyle(m mode.Mode) tcell.CursorStyle {
	switch m.CursorStyle() {
	case mode.CursorBar:
		return tcell.CursorStyleSteadyBar
	case mode.CursorUnderline:
		return tcell.CursorStyleSteadyUnderline
	}
	return tcell.CursorStyleSteadyBlock
}

func setCell(scr tcell.Screen, x, y, width int, r rune, style tcell.Style) {
	if x >= 0 && x < width {
		scr.SetContent(x, y, r, nil, style)
	}
}

func drawString(scr tcell.Screen, x, y, width int, s string, style tcell.Style) {
	for _, r := range s {
		setCell(scr, x, y, width, r, style)
		x += runewidth.RuneWidth(r)
	}
}
