package transform

import (
	"fmt"

	"github.com/dshills/modalkit/internal/engine/buffer"
)

// DiffKind selects how a PositionDiff moves a cursor.
type DiffKind uint8

const (
	// DiffOffset adds Line and Character to the cursor.
	DiffOffset DiffKind = iota
	// DiffExactCharacter adds Line and sets the character to Character.
	DiffExactCharacter
	// DiffFirstNonBlank adds Line and moves to the first non-blank character.
	DiffFirstNonBlank
	// DiffExactPosition places the cursor at Position, given in the
	// coordinates right after the owning transformation has been applied.
	DiffExactPosition
)

// PositionDiff describes where a cursor goes once an edit is materialized.
type PositionDiff struct {
	Kind      DiffKind
	Line      int
	Character int
	Position  buffer.Position
}

// Offset returns a diff that moves the cursor by the given deltas.
func Offset(line, character int) PositionDiff {
	return PositionDiff{Kind: DiffOffset, Line: line, Character: character}
}

// ExactCharacter returns a diff that moves lineDelta lines and sets the column.
func ExactCharacter(lineDelta, character int) PositionDiff {
	return PositionDiff{Kind: DiffExactCharacter, Line: lineDelta, Character: character}
}

// FirstNonBlank returns a diff that moves lineDelta lines to the first
// non-blank character.
func FirstNonBlank(lineDelta int) PositionDiff {
	return PositionDiff{Kind: DiffFirstNonBlank, Line: lineDelta}
}

// ExactPosition returns a diff that places the cursor at p.
func ExactPosition(p buffer.Position) PositionDiff {
	return PositionDiff{Kind: DiffExactPosition, Position: p}
}

// String returns a short description of the diff.
func (d PositionDiff) String() string {
	switch d.Kind {
	case DiffExactCharacter:
		return fmt.Sprintf("line%+d col=%d", d.Line, d.Character)
	case DiffFirstNonBlank:
		return fmt.Sprintf("line%+d ^", d.Line)
	case DiffExactPosition:
		return "at " + d.Position.String()
	default:
		return fmt.Sprintf("line%+d col%+d", d.Line, d.Character)
	}
}

// apply moves p by a relative diff. lineAt returns the text of a line.
func (d PositionDiff) apply(p buffer.Position, lineAt func(int) string) buffer.Position {
	switch d.Kind {
	case DiffExactCharacter:
		return buffer.Pos(max(0, p.Line+d.Line), max(0, d.Character))
	case DiffFirstNonBlank:
		line := max(0, p.Line+d.Line)
		return buffer.Pos(line, buffer.FirstNonBlank(lineAt(line)))
	case DiffExactPosition:
		return d.Position
	default:
		return p.Translate(d.Line, d.Character)
	}
}
