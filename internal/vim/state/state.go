package state

import (
	"github.com/rs/zerolog"
	"github.com/samber/mo"

	"github.com/dshills/modalkit/internal/engine/buffer"
	"github.com/dshills/modalkit/internal/engine/cursor"
	"github.com/dshills/modalkit/internal/engine/history"
	"github.com/dshills/modalkit/internal/vim/macro"
	"github.com/dshills/modalkit/internal/vim/mode"
	"github.com/dshills/modalkit/internal/vim/register"
	"github.com/dshills/modalkit/internal/vim/status"
)

// TextEditor is the buffer the engine edits.
type TextEditor interface {
	Insert(pos buffer.Position, text string) (buffer.Position, error)
	Replace(r buffer.Range, text string) (buffer.Position, error)
	Delete(r buffer.Range) error
	LineAt(line int) (string, error)
	LineCount() int
	Text() string
	SetText(text string) error
	TextRange(r buffer.Range) (string, error)
	Selections() []buffer.Range
	CursorsAfterSync() []buffer.Range
	Name() string
}

// Options are the editing options actions consult.
type Options struct {
	TabStop        int
	ExpandTab      bool
	AutoIndent     bool
	WrapScan       bool
	IgnoreCase     bool
	SmartCase      bool
	MaxReplayDepth int
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		TabStop:        8,
		AutoIndent:     true,
		WrapScan:       true,
		MaxReplayDepth: 100,
	}
}

// VisualSelection is a remembered visual selection, used by gv.
type VisualSelection struct {
	Start buffer.Position
	Stop  buffer.Position
	Mode  mode.Mode
}

// InsertState tracks the insert session started by i, a, o and friends.
type InsertState struct {
	// Count is the count typed before the insert command.
	Count int
	// Text is the text typed so far, used for count repeats and the "."
	// register.
	Text string
	// Prefix is inserted before each repeat of Text, such as the line break
	// of o.
	Prefix string
}

// ExHandler runs ex commands the engine does not know, such as :w or :q.
// It returns false if the command is not handled either.
type ExHandler func(cmd string) (handled bool, err error)

// VimState is the editing state of one buffer.
type VimState struct {
	Editor    TextEditor
	Modes     *mode.Machine
	Registers *register.Store
	Macro     *macro.Recorder
	History   *history.History
	Jumps     *JumpList
	Marks     *Marks
	Search    *SearchState
	Commands  *LineHistory
	Status    status.Sink
	Options   Options
	Log       zerolog.Logger

	// Recorded is the command being typed.
	Recorded *RecordedState

	// CursorStart and CursorStop are the cursor the running action works on.
	CursorStart buffer.Position
	CursorStop  buffer.Position

	// ExecMode is the mode the running action was resolved in. Actions use it
	// instead of the machine, whose mode may change while cursors are
	// processed.
	ExecMode mode.Mode

	LastVisual mo.Option[VisualSelection]
	Replace    *ReplaceState
	Insert     InsertState
	Dot        DotCommand
	LastFind   mo.Option[FindCommand]

	// CommandLine is the text typed after ":" or "/".
	CommandLine string
	// ExHandler runs ex commands unknown to the engine.
	ExHandler ExHandler

	cursors         []cursor.Cursor
	cursorsReplaced bool
}

// Option configures a VimState.
type Option func(*VimState)

// WithRegisters shares a register store.
func WithRegisters(r *register.Store) Option {
	return func(vs *VimState) { vs.Registers = r }
}

// WithStatus sets the status sink.
func WithStatus(s status.Sink) Option {
	return func(vs *VimState) { vs.Status = s }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(vs *VimState) { vs.Log = l }
}

// WithOptions sets the editing options.
func WithOptions(o Options) Option {
	return func(vs *VimState) { vs.Options = o }
}

// WithHistory sets the undo history.
func WithHistory(h *history.History) Option {
	return func(vs *VimState) { vs.History = h }
}

// New creates the state for ed with a single cursor at the start.
func New(ed TextEditor, opts ...Option) *VimState {
	vs := &VimState{
		Editor:  ed,
		Modes:   mode.NewMachine(),
		Jumps:   NewJumpList(100),
		Marks:   NewMarks(),
		Search:  NewSearchState(),
		Status:  status.Nop{},
		Options: DefaultOptions(),
		Log:     zerolog.Nop(),
		cursors: []cursor.Cursor{cursor.At(buffer.Pos(0, 0))},
	}
	for _, opt := range opts {
		opt(vs)
	}
	if vs.Registers == nil {
		vs.Registers = register.NewStore(register.WithLogger(vs.Log))
	}
	if vs.History == nil {
		vs.History = history.NewHistory(1000)
	}
	vs.Commands = NewLineHistory(100)
	vs.Macro = macro.NewRecorder(vs.Registers, vs.Log)
	vs.Recorded = NewRecordedState()
	vs.Modes.OnChange(vs.modeChanged)
	return vs
}

// modeChanged runs the side effects of a mode transition.
func (vs *VimState) modeChanged(from, to mode.Mode) {
	if from.IsVisual() && !to.IsVisual() {
		c := vs.cursors[0]
		vs.LastVisual = mo.Some(VisualSelection{Start: c.Start, Stop: c.Stop, Mode: from})
		vs.Marks.Set(VisualStart, buffer.EarlierOf(c.Start, c.Stop))
		vs.Marks.Set(VisualEnd, buffer.LaterOf(c.Start, c.Stop))
	}
	if to == mode.Replace {
		vs.Replace = NewReplaceState(vs.cursors)
	} else if from == mode.Replace {
		vs.Replace = nil
	}
	vs.Log.Debug().Str("from", from.String()).Str("to", to.String()).Msg("mode change")
}

// Cursors returns a copy of the cursors. The first cursor is the primary one.
func (vs *VimState) Cursors() []cursor.Cursor {
	out := make([]cursor.Cursor, len(vs.cursors))
	copy(out, vs.cursors)
	return out
}

// CursorCount returns the number of cursors.
func (vs *VimState) CursorCount() int {
	return len(vs.cursors)
}

// SetCursors replaces the cursors. It panics on an empty list: there is
// always at least one cursor.
func (vs *VimState) SetCursors(cs []cursor.Cursor) {
	if len(cs) == 0 {
		panic("state: cursor list cannot be empty")
	}
	vs.cursors = append(vs.cursors[:0:0], cs...)
	vs.cursorsReplaced = true
}

// AddCursor adds a cursor after the existing ones.
func (vs *VimState) AddCursor(c cursor.Cursor) {
	vs.cursors = append(vs.cursors, c)
	vs.cursorsReplaced = true
}

// SyncCursors resets the cursors to the selections reported by the editor
// after it edited the buffer on its own.
func (vs *VimState) SyncCursors() {
	sel := vs.Editor.CursorsAfterSync()
	if len(sel) == 0 {
		return
	}
	cs := make([]cursor.Cursor, len(sel))
	for i, r := range sel {
		cs[i] = cursor.New(r.Start, r.End)
	}
	vs.SetCursors(cs)
}

// BeginAction clears the cursor replacement flag. The engine calls it before
// running an action.
func (vs *VimState) BeginAction() {
	vs.cursorsReplaced = false
}

// CursorsReplaced reports whether the cursor list was replaced since
// BeginAction.
func (vs *VimState) CursorsReplaced() bool {
	return vs.cursorsReplaced
}

// Line returns the text of a line, or "" if it does not exist.
func (vs *VimState) Line(n int) string {
	text, err := vs.Editor.LineAt(n)
	if err != nil {
		return ""
	}
	return text
}

// LastLine returns the index of the last line.
func (vs *VimState) LastLine() int {
	return vs.Editor.LineCount() - 1
}

// LineEnd returns the position just past the last character of a line.
func (vs *VimState) LineEnd(n int) buffer.Position {
	return buffer.Pos(n, len([]rune(vs.Line(n))))
}

// ClampNormal returns p moved onto an existing character, as Normal mode
// requires.
func (vs *VimState) ClampNormal(p buffer.Position) buffer.Position {
	p.Line = min(max(p.Line, 0), vs.LastLine())
	line := vs.Line(p.Line)
	p.Character = buffer.GraphemeStartAt(line, min(max(p.Character, 0), buffer.LastGraphemeStart(line)))
	return p
}

// RegisterName returns the register selected for the running command.
func (vs *VimState) RegisterName() rune {
	return vs.Recorded.RegisterName
}

// ResetCommand discards the command being typed.
func (vs *VimState) ResetCommand() {
	vs.Recorded = NewRecordedState()
}
