package term

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/require"

	"github.com/dshills/modalkit/internal/engine/buffer"
	"github.com/dshills/modalkit/internal/engine/cursor"
	"github.com/dshills/modalkit/internal/vim/modehandler"
	"github.com/dshills/modalkit/internal/vim/state"
)

func newScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	scr := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, scr.Init())
	scr.SetSize(w, h)
	t.Cleanup(scr.Fini)
	return scr
}

func row(scr tcell.Screen, y int) string {
	w, _ := scr.Size()
	var b strings.Builder
	for x := 0; x < w; x++ {
		r, _, _, _ := scr.GetContent(x, y) //nolint:staticcheck // GetContent is the correct API
		if r == 0 {
			r = ' '
		}
		b.WriteRune(r)
	}
	return strings.TrimRight(b.String(), " ")
}

func newUI(t *testing.T, text string, opts Options) (*UI, *modehandler.Handler, tcell.SimulationScreen) {
	t.Helper()
	sl := &StatusLine{}
	vs := state.New(buffer.NewBufferFromString(text, buffer.WithName("a.txt")), state.WithStatus(sl))
	h := modehandler.New(vs, modehandler.WithHook(CursorHook()))
	scr := newScreen(t, 40, 5)
	return New(scr, h, sl, opts), h, scr
}

func TestToken(t *testing.T) {
	tests := []struct {
		ev   *tcell.EventKey
		want string
	}{
		{tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), "x"},
		{tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), "<Esc>"},
		{tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), "<CR>"},
		{tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone), "<BS>"},
		{tcell.NewEventKey(tcell.KeyCtrlR, 0, tcell.ModCtrl), "<C-r>"},
		{tcell.NewEventKey(tcell.KeyRune, 'n', tcell.ModCtrl), "<C-n>"},
		{tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), "<Left>"},
		{tcell.NewEventKey(tcell.KeyF5, 0, tcell.ModNone), ""},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, Token(tt.ev), tt.ev.Name())
	}
}

func TestStatusLine(t *testing.T) {
	sl := &StatusLine{}
	sl.ReportLinesChanged(-1)
	text, _ := sl.Message()
	require.Empty(t, text)

	sl.ReportLinesChanged(-5)
	text, isErr := sl.Message()
	require.Equal(t, "5 fewer lines", text)
	require.False(t, isErr)

	sl.Set("E492: Not an editor command: foo", true)
	_, isErr = sl.Message()
	require.True(t, isErr)

	sl.ReportClear()
	text, _ = sl.Message()
	require.Empty(t, text)
}

func TestDrawBufferAndStatus(t *testing.T) {
	u, h, scr := newUI(t, "hello\n\tworld", Options{})
	require.NoError(t, h.HandleKeys(context.Background(), "jl"))
	u.draw()

	require.Equal(t, "hello", row(scr, 0))
	require.Equal(t, "        world", row(scr, 1))
	require.Equal(t, "~", row(scr, 2))
	require.True(t, strings.HasSuffix(row(scr, 4), "2,2"))

	x, y, visible := scr.GetCursor()
	require.True(t, visible)
	require.Equal(t, 8, x)
	require.Equal(t, 1, y)
}

func TestDrawScrollsToCursor(t *testing.T) {
	u, h, scr := newUI(t, "1\n2\n3\n4\n5\n6\n7", Options{})
	require.NoError(t, h.HandleKeys(context.Background(), "G"))
	u.draw()

	require.Equal(t, 3, u.view.Top)
	require.Equal(t, "4", row(scr, 0))
	require.Equal(t, "7", row(scr, 3))
}

func TestDrawModeAndCommandLine(t *testing.T) {
	u, h, scr := newUI(t, "abc", Options{})
	ctx := context.Background()

	require.NoError(t, h.HandleKeys(ctx, "i"))
	u.draw()
	require.True(t, strings.HasPrefix(row(scr, 4), "-- INSERT --"))

	require.NoError(t, h.HandleKeys(ctx, "<Esc>:reg"))
	u.draw()
	require.True(t, strings.HasPrefix(row(scr, 4), ":reg"))
	x, y, _ := scr.GetCursor()
	require.Equal(t, 4, x)
	require.Equal(t, 4, y)
}

func TestCursorHook(t *testing.T) {
	_, h, _ := newUI(t, "abc\nabc\nabc", Options{})
	ctx := context.Background()
	vs := h.State()

	require.NoError(t, h.HandleKeys(ctx, "l<C-n><C-n><C-n>"))
	require.Equal(t, 3, vs.CursorCount())
	for i, c := range vs.Cursors() {
		require.Equal(t, cursor.At(buffer.Pos(i, 1)), c)
	}

	require.NoError(t, h.HandleKeys(ctx, "x"))
	require.Equal(t, "ac\nac\nac", vs.Editor.Text())

	require.NoError(t, h.HandleKeys(ctx, "<Esc>"))
	require.Equal(t, 1, vs.CursorCount())
}

func TestExCommands(t *testing.T) {
	saved := 0
	modified := true
	u, h, _ := newUI(t, "abc", Options{
		Save:     func() error { saved++; modified = false; return nil },
		Modified: func() bool { return modified },
	})
	ctx := context.Background()

	require.NoError(t, h.HandleKeys(ctx, ":q<CR>"))
	require.False(t, u.quit)
	text, isErr := u.status.Message()
	require.True(t, isErr)
	require.Contains(t, text, "E37")

	require.NoError(t, h.HandleKeys(ctx, ":w<CR>"))
	require.Equal(t, 1, saved)
	text, _ = u.status.Message()
	require.Equal(t, `"a.txt" 1L written`, text)

	require.NoError(t, h.HandleKeys(ctx, ":q<CR>"))
	require.True(t, u.quit)
}

func TestExWriteWithoutFile(t *testing.T) {
	u, h, _ := newUI(t, "abc", Options{})
	require.NoError(t, h.HandleKeys(context.Background(), ":w<CR>"))
	text, isErr := u.status.Message()
	require.True(t, isErr)
	require.Contains(t, text, "E32")
}

func TestRunProcessesKeysUntilQuit(t *testing.T) {
	u, h, scr := newUI(t, "abc", Options{})

	for _, r := range "x:q!" {
		scr.PostEvent(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
	}
	scr.PostEvent(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, u.Run(ctx))
	require.Equal(t, "bc", h.State().Editor.Text())
}
