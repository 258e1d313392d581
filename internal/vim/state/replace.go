package state

import (
	"fmt"

	"github.com/samber/mo"

	"github.com/dshills/modalkit/internal/engine/buffer"
	"github.com/dshills/modalkit/internal/engine/cursor"
)

// ReplaceCursor is the Replace mode history of one cursor.
type ReplaceCursor struct {
	// Start is where Replace mode was entered. <BS> does not go past it.
	Start buffer.Position
	// Originals holds the characters overwritten so far, newest last. None
	// means the key was typed past the end of the line.
	Originals []mo.Option[string]
}

// ReplaceState is created when Replace mode is entered.
type ReplaceState struct {
	cursors []ReplaceCursor
}

// NewReplaceState allocates history for each cursor.
func NewReplaceState(cs []cursor.Cursor) *ReplaceState {
	rs := &ReplaceState{cursors: make([]ReplaceCursor, len(cs))}
	for i, c := range cs {
		rs.cursors[i].Start = c.Stop
	}
	return rs
}

// Cursor returns the history of cursor idx.
func (r *ReplaceState) Cursor(idx int) *ReplaceCursor {
	if idx < 0 || idx >= len(r.cursors) {
		panic(fmt.Sprintf("state: replace cursor %d out of range [0,%d)", idx, len(r.cursors)))
	}
	return &r.cursors[idx]
}

// Push records an overwritten character.
func (c *ReplaceCursor) Push(orig mo.Option[string]) {
	c.Originals = append(c.Originals, orig)
}

// Pop returns the most recently overwritten character.
func (c *ReplaceCursor) Pop() (mo.Option[string], bool) {
	if len(c.Originals) == 0 {
		return mo.None[string](), false
	}
	last := c.Originals[len(c.Originals)-1]
	c.Originals = c.Originals[:len(c.Originals)-1]
	return last, true
}
