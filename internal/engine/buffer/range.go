package buffer

import "fmt"

// Range is a half-open span [Start, End) between two positions.
// Start is never after End for ranges built with NewRange.
type Range struct {
	Start Position
	End   Position
}

// NewRange creates a range from two positions in either order.
func NewRange(a, b Position) Range {
	if b.IsBefore(a) {
		a, b = b, a
	}
	return Range{Start: a, End: b}
}

// String returns a human-readable representation of the range.
func (r Range) String() string {
	return fmt.Sprintf("[%s-%s)", r.Start, r.End)
}

// IsEmpty returns true if the range covers no characters.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// IsSingleLine returns true if the range starts and ends on the same line.
func (r Range) IsSingleLine() bool {
	return r.Start.Line == r.End.Line
}

// Contains returns true if p lies within [Start, End).
func (r Range) Contains(p Position) bool {
	return p.IsAfterOrEqual(r.Start) && p.IsBefore(r.End)
}

// Overlaps returns true if the two ranges share at least one character.
func (r Range) Overlaps(other Range) bool {
	return r.Start.IsBefore(other.End) && other.Start.IsBefore(r.End)
}
