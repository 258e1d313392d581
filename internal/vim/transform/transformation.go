package transform

import (
	"github.com/samber/mo"

	"github.com/dshills/modalkit/internal/engine/buffer"
)

// Kind identifies a transformation variant.
type Kind uint8

const (
	KindInsertText Kind = iota
	KindReplaceText
	KindDeleteRange
	KindDeleteText
	KindMoveCursor
	KindInsertTab
	KindReplayMacro
	KindRepeatDot
	KindShowHistory
)

var kindNames = [...]string{
	KindInsertText:  "insertText",
	KindReplaceText: "replaceText",
	KindDeleteRange: "deleteRange",
	KindDeleteText:  "deleteText",
	KindMoveCursor:  "moveCursor",
	KindInsertTab:   "tab",
	KindReplayMacro: "replayMacro",
	KindRepeatDot:   "repeatDot",
	KindShowHistory: "showHistory",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsCursorBound reports whether transformations of this kind belong to one
// cursor and must be tagged with its index before a flush.
func (k Kind) IsCursorBound() bool {
	return k <= KindInsertTab
}

// Transformation is a deferred effect produced by an action.
// The set of variants is closed: only the types in this package implement it.
type Transformation interface {
	Kind() Kind
	origin() *Origin
}

// Origin records which cursor produced a transformation.
type Origin struct {
	CursorIndex mo.Option[int]
}

func (o *Origin) origin() *Origin { return o }

// CursorIndexOf returns the cursor index a transformation is tagged with.
func CursorIndexOf(t Transformation) mo.Option[int] {
	return t.origin().CursorIndex
}

// InsertText inserts Text at Position.
type InsertText struct {
	Origin
	Position buffer.Position
	Text     string
	Diff     mo.Option[PositionDiff]
}

// ReplaceText replaces Range with Text.
type ReplaceText struct {
	Origin
	Range buffer.Range
	Text  string
	Diff  mo.Option[PositionDiff]
}

// DeleteRange deletes Range.
type DeleteRange struct {
	Origin
	Range buffer.Range
	Diff  mo.Option[PositionDiff]
}

// DeleteText deletes the character before Position, joining with the
// previous line at column zero. At the start of the buffer it does nothing.
type DeleteText struct {
	Origin
	Position buffer.Position
	Diff     mo.Option[PositionDiff]
}

// MoveCursor moves a cursor without editing. An exact position is given in
// the coordinates before the flush.
type MoveCursor struct {
	Origin
	Diff PositionDiff
}

// InsertTab inserts a tab at Position, expanded to spaces when configured.
type InsertTab struct {
	Origin
	Position buffer.Position
	Diff     mo.Option[PositionDiff]
}

// ReplayMacro replays the macro stored in Register.
type ReplayMacro struct {
	Origin
	Register rune
}

// RepeatDot repeats the last change. A Count of zero keeps the original count.
type RepeatDot struct {
	Origin
	Count int
}

// HistorySource selects which history ShowHistory displays.
type HistorySource uint8

const (
	CommandHistory HistorySource = iota
	SearchHistory
)

// ShowHistory displays the command-line or search history.
type ShowHistory struct {
	Origin
	Source HistorySource
}

func (*InsertText) Kind() Kind  { return KindInsertText }
func (*ReplaceText) Kind() Kind { return KindReplaceText }
func (*DeleteRange) Kind() Kind { return KindDeleteRange }
func (*DeleteText) Kind() Kind  { return KindDeleteText }
func (*MoveCursor) Kind() Kind  { return KindMoveCursor }
func (*InsertTab) Kind() Kind   { return KindInsertTab }
func (*ReplayMacro) Kind() Kind { return KindReplayMacro }
func (*RepeatDot) Kind() Kind   { return KindRepeatDot }
func (*ShowHistory) Kind() Kind { return KindShowHistory }
