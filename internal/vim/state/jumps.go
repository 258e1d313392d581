package state

import (
	"github.com/dshills/modalkit/internal/engine/buffer"
	"github.com/dshills/modalkit/internal/engine/cursor"
)

// Jump is one jump list entry.
type Jump struct {
	Position buffer.Position
	File     string
}

// JumpList is the list walked by <C-o> and <C-i>.
// At most one entry is kept per line.
type JumpList struct {
	jumps []Jump
	index int
	max   int
}

// NewJumpList creates a jump list holding at most max entries.
func NewJumpList(max int) *JumpList {
	return &JumpList{max: max}
}

// Add records a jump from p and makes it the newest entry.
func (j *JumpList) Add(p buffer.Position, file string) {
	j.remove(p.Line, file)
	j.jumps = append(j.jumps, Jump{Position: p, File: file})
	if len(j.jumps) > j.max {
		j.jumps = j.jumps[len(j.jumps)-j.max:]
	}
	j.index = len(j.jumps)
}

func (j *JumpList) remove(line int, file string) {
	kept := j.jumps[:0]
	for _, e := range j.jumps {
		if e.Position.Line != line || e.File != file {
			kept = append(kept, e)
		}
	}
	j.jumps = kept
}

// Back moves to the previous entry. When leaving the newest position, the
// current position is recorded first so Forward can return to it.
func (j *JumpList) Back(current buffer.Position, file string) (Jump, bool) {
	if j.index == 0 || len(j.jumps) == 0 {
		return Jump{}, false
	}
	if j.index == len(j.jumps) {
		j.Add(current, file)
		j.index = len(j.jumps) - 1
		if j.index == 0 {
			return Jump{}, false
		}
	}
	j.index--
	return j.jumps[j.index], true
}

// Forward moves to the next entry.
func (j *JumpList) Forward() (Jump, bool) {
	if j.index >= len(j.jumps)-1 {
		return Jump{}, false
	}
	j.index++
	return j.jumps[j.index], true
}

// Entries returns a copy of the entries, oldest first.
func (j *JumpList) Entries() []Jump {
	out := make([]Jump, len(j.jumps))
	copy(out, j.jumps)
	return out
}

// Index returns the current position in the list. It equals the number of
// entries when no jump back has been made.
func (j *JumpList) Index() int {
	return j.index
}

// Clear removes every entry.
func (j *JumpList) Clear() {
	j.jumps = nil
	j.index = 0
}

// Transform maps every entry through applied edits.
func (j *JumpList) Transform(edits []cursor.Edit) {
	for i := range j.jumps {
		for _, e := range edits {
			j.jumps[i].Position = cursor.TransformPosition(j.jumps[i].Position, e)
		}
	}
}
