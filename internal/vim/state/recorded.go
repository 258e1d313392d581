package state

import (
	"context"
	"strconv"

	"github.com/dshills/modalkit/internal/engine/buffer"
	"github.com/dshills/modalkit/internal/engine/cursor"
	"github.com/dshills/modalkit/internal/vim/mode"
	"github.com/dshills/modalkit/internal/vim/register"
	"github.com/dshills/modalkit/internal/vim/transform"
)

// Operator is an action waiting for a motion, such as d or y.
type Operator interface {
	Name() string
	// Key is the key that repeats the operator on whole lines ("d" for dd).
	Key() string
	// Run applies the operator to the text between start and stop and sets
	// vs.CursorStart and vs.CursorStop to the resulting cursor.
	Run(ctx context.Context, vs *VimState, start, stop buffer.Position) error
}

// RunAction records an action that ran as part of a command.
type RunAction struct {
	Name       string
	Keys       []string
	IsCount    bool
	Repeatable bool
	Jump       bool
}

// RecordedState is the command being typed.
type RecordedState struct {
	// PendingKeys are the keys not yet matched to an action.
	PendingKeys []string
	// ActionsRun are the actions completed as part of this command.
	ActionsRun []RunAction

	Count         int
	OperatorCount int
	RegisterName  rune
	Operator      Operator

	Transformations transform.Queue

	// Inclusive and Linewise describe the motion that just ran.
	Inclusive bool
	Linewise  bool
	// MotionFailed is set by a motion that could not move.
	MotionFailed bool

	// NoHistory keeps the command out of undo history.
	NoHistory bool

	// Set when the first action runs.
	Started       bool
	StartMode     mode.Mode
	TextBefore    string
	CursorsBefore []cursor.Cursor
}

// NewRecordedState returns an empty command.
func NewRecordedState() *RecordedState {
	return &RecordedState{RegisterName: register.Unnamed}
}

// Keys returns every key of the command, in order.
func (rs *RecordedState) Keys() []string {
	var out []string
	for _, a := range rs.ActionsRun {
		out = append(out, a.Keys...)
	}
	return out
}

// HasCount reports whether a count was typed.
func (rs *RecordedState) HasCount() bool {
	return rs.Count > 0 || rs.OperatorCount > 0
}

// CountOr returns the total count, multiplying a count typed before the
// operator with one typed after it, or def if no count was typed.
func (rs *RecordedState) CountOr(def int) int {
	if !rs.HasCount() {
		return def
	}
	return max(1, rs.OperatorCount) * max(1, rs.Count)
}

// AddDigit appends a digit to the count.
func (rs *RecordedState) AddDigit(d int) {
	rs.Count = rs.Count*10 + d
}

// IsPending reports whether a partially typed command exists.
func (rs *RecordedState) IsPending() bool {
	return len(rs.PendingKeys) > 0 || rs.Operator != nil || rs.HasCount() ||
		rs.RegisterName != register.Unnamed
}

// DotCommand is the last repeatable change.
type DotCommand struct {
	Actions []RunAction
}

// IsEmpty returns true before any change was made.
func (d DotCommand) IsEmpty() bool {
	return len(d.Actions) == 0
}

// Keys returns the keys that repeat the change. A count greater than zero
// replaces the counts typed originally.
func (d DotCommand) Keys(count int) []string {
	var out []string
	if count > 0 {
		for _, r := range strconv.Itoa(count) {
			out = append(out, string(r))
		}
	}
	for _, a := range d.Actions {
		if count > 0 && a.IsCount {
			continue
		}
		out = append(out, a.Keys...)
	}
	return out
}

// FindCommand is the last f, F, t or T, repeated by ; and ,.
type FindCommand struct {
	Char     string
	Backward bool
	Till     bool
}
