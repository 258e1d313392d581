package buffer

import "fmt"

// Position is a zero-based line and character coordinate.
// Character counts runes from the start of the line.
type Position struct {
	Line      int
	Character int
}

// Pos is shorthand for constructing a Position.
func Pos(line, character int) Position {
	return Position{Line: line, Character: character}
}

// String returns a human-readable representation of the position.
func (p Position) String() string {
	return fmt.Sprintf("(%d:%d)", p.Line, p.Character)
}

// Compare returns -1 if p < other, 0 if p == other, 1 if p > other.
func (p Position) Compare(other Position) int {
	switch {
	case p.Line < other.Line:
		return -1
	case p.Line > other.Line:
		return 1
	case p.Character < other.Character:
		return -1
	case p.Character > other.Character:
		return 1
	}
	return 0
}

// IsBefore returns true if p comes strictly before other.
func (p Position) IsBefore(other Position) bool {
	return p.Compare(other) < 0
}

// IsAfter returns true if p comes strictly after other.
func (p Position) IsAfter(other Position) bool {
	return p.Compare(other) > 0
}

// IsBeforeOrEqual returns true if p is not after other.
func (p Position) IsBeforeOrEqual(other Position) bool {
	return p.Compare(other) <= 0
}

// IsAfterOrEqual returns true if p is not before other.
func (p Position) IsAfterOrEqual(other Position) bool {
	return p.Compare(other) >= 0
}

// Translate returns p moved by the given deltas. Negative results clamp to zero.
func (p Position) Translate(lineDelta, charDelta int) Position {
	return Position{
		Line:      max(0, p.Line+lineDelta),
		Character: max(0, p.Character+charDelta),
	}
}

// WithLine returns p with its line replaced.
func (p Position) WithLine(line int) Position {
	p.Line = line
	return p
}

// WithCharacter returns p with its character replaced.
func (p Position) WithCharacter(character int) Position {
	p.Character = character
	return p
}

// EarlierOf returns the earlier of two positions.
func EarlierOf(a, b Position) Position {
	if b.IsBefore(a) {
		return b
	}
	return a
}

// LaterOf returns the later of two positions.
func LaterOf(a, b Position) Position {
	if b.IsAfter(a) {
		return b
	}
	return a
}
