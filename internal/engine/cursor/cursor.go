package cursor

import (
	"fmt"
	"sort"

	"github.com/dshills/modalkit/internal/engine/buffer"
)

// Cursor is a Start/Stop position pair.
type Cursor struct {
	Start buffer.Position
	Stop  buffer.Position
}

// New creates a cursor spanning start to stop.
func New(start, stop buffer.Position) Cursor {
	return Cursor{Start: start, Stop: stop}
}

// At creates a cursor with Start and Stop at pos.
func At(pos buffer.Position) Cursor {
	return Cursor{Start: pos, Stop: pos}
}

// String returns a human-readable representation of the cursor.
func (c Cursor) String() string {
	if c.Start == c.Stop {
		return c.Start.String()
	}
	return fmt.Sprintf("%s->%s", c.Start, c.Stop)
}

// IsEmpty returns true if Start and Stop coincide.
func (c Cursor) IsEmpty() bool {
	return c.Start == c.Stop
}

// Range returns the ordered range between Start and Stop.
func (c Cursor) Range() buffer.Range {
	return buffer.NewRange(c.Start, c.Stop)
}

// WithStart returns c with a new Start.
func (c Cursor) WithStart(p buffer.Position) Cursor {
	c.Start = p
	return c
}

// WithStop returns c with a new Stop.
func (c Cursor) WithStop(p buffer.Position) Cursor {
	c.Stop = p
	return c
}

// Collapse returns a cursor with both ends at Stop.
func (c Cursor) Collapse() Cursor {
	return At(c.Stop)
}

// SortedByStart returns a copy of cs ordered by ascending Start.
// Cursors with equal Start keep their relative order.
func SortedByStart(cs []Cursor) []Cursor {
	out := make([]Cursor, len(cs))
	copy(out, cs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start.IsBefore(out[j].Start)
	})
	return out
}

// Primary returns the cursor that comes first in the document.
func Primary(cs []Cursor) Cursor {
	if len(cs) == 0 {
		return Cursor{}
	}
	p := cs[0]
	for _, c := range cs[1:] {
		if c.Start.IsBefore(p.Start) {
			p = c
		}
	}
	return p
}
