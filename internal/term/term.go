// Package term is the interactive terminal front end. It feeds tcell key
// events to a modehandler.Handler and redraws the buffer, the cursors and
// the status line after every key.
package term

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/dshills/modalkit/internal/engine/buffer"
	"github.com/dshills/modalkit/internal/engine/cursor"
	"github.com/dshills/modalkit/internal/vim/modehandler"
	"github.com/dshills/modalkit/internal/vim/mode"
	"github.com/dshills/modalkit/internal/vim/state"
)

// AddCursorKey adds a cursor on the line below the last cursor.
const AddCursorKey = "<C-n>"

// Options configure a UI.
type Options struct {
	// Save writes the buffer for :w. Nil means the buffer has no file.
	Save func() error
	// Modified reports unsaved changes, checked by :q.
	Modified func() bool
	Log      zerolog.Logger
}

// UI runs the editor on a tcell screen.
type UI struct {
	screen  tcell.Screen
	handler *modehandler.Handler
	status  *StatusLine
	view    View
	opts    Options
	quit    bool
}

// New creates a UI. sl must be the status sink of the handler's state. The
// UI installs itself as the state's ExHandler.
func New(screen tcell.Screen, h *modehandler.Handler, sl *StatusLine, opts Options) *UI {
	u := &UI{screen: screen, handler: h, status: sl, opts: opts}
	h.State().ExHandler = u.exCommand
	return u
}

// CursorHook returns the handler hook that implements the multi-cursor keys
// of the front end: AddCursorKey, and <Esc> in Normal mode dropping the
// secondary cursors.
func CursorHook() modehandler.Hook {
	return cursorHook{}
}

// Run processes events until :q or until ctx is done. The caller owns the
// screen and calls Fini after Run returns.
func (u *UI) Run(ctx context.Context) error {
	events := make(chan tcell.Event)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			ev := u.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	u.draw()
	for !u.quit {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := u.handleEvent(ctx, ev); err != nil {
				return err
			}
		}
	}
	return nil
}

func (u *UI) handleEvent(ctx context.Context, ev tcell.Event) error {
	switch e := ev.(type) {
	case *tcell.EventResize:
		u.screen.Sync()
	case *tcell.EventKey:
		tok := Token(e)
		if tok == "" {
			return nil
		}
		vs := u.handler.State()
		before := vs.Modes.Current()
		msg, _ := u.status.Message()

		err := u.handler.HandleKey(ctx, tok)
		if errors.Is(err, modehandler.ErrClosed) {
			u.quit = true
			return nil
		}
		if err != nil {
			u.opts.Log.Error().Err(err).Str("key", tok).Msg("key failed")
		}
		if after, _ := u.status.Message(); vs.Modes.Current() != before && after == msg {
			u.status.ReportClear()
		}
	default:
		return nil
	}
	u.draw()
	return nil
}

func (u *UI) draw() {
	u.view.Draw(u.screen, u.handler.State(), u.status, u.handler.PendingKeys())
	u.screen.Show()
}

// exCommand handles the ex commands that belong to the front end.
func (u *UI) exCommand(cmd string) (bool, error) {
	force := strings.HasSuffix(cmd, "!")
	switch strings.TrimSuffix(cmd, "!") {
	case "w", "write":
		return true, u.write()
	case "wq", "x":
		if err := u.write(); err != nil {
			return true, err
		}
		u.quit = true
	case "q", "quit":
		if !force && u.opts.Modified != nil && u.opts.Modified() {
			u.status.Set("E37: No write since last change (add ! to override)", true)
			return true, nil
		}
		u.quit = true
	default:
		return false, nil
	}
	return true, nil
}

func (u *UI) write() error {
	if u.opts.Save == nil {
		u.status.Set("E32: No file name", true)
		return nil
	}
	if err := u.opts.Save(); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	vs := u.handler.State()
	u.status.Set(fmt.Sprintf("%q %dL written", vs.Editor.Name(), vs.Editor.LineCount()), false)
	return nil
}

type cursorHook struct{}

func (cursorHook) PreKey(tok string, vs *state.VimState) bool {
	if vs.Modes.Current() != mode.Normal || vs.Recorded.IsPending() {
		return false
	}
	switch tok {
	case AddCursorKey:
		cs := vs.Cursors()
		last := cs[len(cs)-1].Stop
		if last.Line >= vs.LastLine() {
			return true
		}
		vs.AddCursor(cursor.At(vs.ClampNormal(buffer.Pos(last.Line+1, last.Character))))
		return true
	case "<Esc>":
		if vs.CursorCount() > 1 {
			vs.SetCursors(vs.Cursors()[:1])
			return true
		}
	}
	return false
}

func (cursorHook) PostAction(string, *state.VimState) {}
