package cursor

import (
	"strings"
	"unicode/utf8"

	"github.com/dshills/modalkit/internal/engine/buffer"
)

// Edit is a replacement of Range by Text, expressed in the coordinates of the
// buffer before the edit.
type Edit struct {
	Range buffer.Range
	Text  string
}

// NewEnd returns the position just after the inserted text once the edit has
// been applied.
func (e Edit) NewEnd() buffer.Position {
	start := e.Range.Start
	lines := strings.Split(e.Text, "\n")
	if len(lines) == 1 {
		return buffer.Pos(start.Line, start.Character+utf8.RuneCountInString(e.Text))
	}
	return buffer.Pos(start.Line+len(lines)-1, utf8.RuneCountInString(lines[len(lines)-1]))
}

// TransformPosition maps p through e.
//
// Transformation rules:
//   - p before the edit: unchanged
//   - pure insertion at p: p moves to the end of the inserted text
//   - p at the start of a replaced range: unchanged
//   - p strictly inside a replaced range: collapses to the range start
//   - p at or after the end of the range: shifted by the edit's delta
func TransformPosition(p buffer.Position, e Edit) buffer.Position {
	r := e.Range
	if p.IsBefore(r.Start) {
		return p
	}
	if !r.IsEmpty() && p.IsBefore(r.End) {
		return r.Start
	}
	end := e.NewEnd()
	if p.Line == r.End.Line {
		return buffer.Pos(end.Line, end.Character+p.Character-r.End.Character)
	}
	return buffer.Pos(p.Line+end.Line-r.End.Line, p.Character)
}

// TransformPositionSticky is like TransformPosition but a position exactly at
// a pure insertion stays where it is instead of moving past the new text.
func TransformPositionSticky(p buffer.Position, e Edit) buffer.Position {
	if e.Range.IsEmpty() && p == e.Range.Start {
		return p
	}
	return TransformPosition(p, e)
}

// Transform maps both ends of c through e.
func (c Cursor) Transform(e Edit) Cursor {
	return Cursor{
		Start: TransformPosition(c.Start, e),
		Stop:  TransformPosition(c.Stop, e),
	}
}

// TransformAll maps every cursor through e in place.
func TransformAll(cs []Cursor, e Edit) {
	for i := range cs {
		cs[i] = cs[i].Transform(e)
	}
}
