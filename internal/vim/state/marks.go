package state

import (
	"sort"

	"github.com/dshills/modalkit/internal/engine/buffer"
	"github.com/dshills/modalkit/internal/engine/cursor"
)

const (
	// PreviousContext is the mark set before every jump, read by '' and ``.
	PreviousContext = '\''
	// VisualStart and VisualEnd hold the bounds of the last visual selection.
	VisualStart = '<'
	VisualEnd   = '>'
)

// Marks holds named positions.
type Marks struct {
	marks map[rune]buffer.Position
}

// NewMarks creates an empty mark set.
func NewMarks() *Marks {
	return &Marks{marks: make(map[rune]buffer.Position)}
}

// IsValidMark reports whether name can be set with m.
func IsValidMark(name rune) bool {
	return (name >= 'a' && name <= 'z') || (name >= 'A' && name <= 'Z')
}

// Set stores p under name.
func (m *Marks) Set(name rune, p buffer.Position) {
	if name == '`' {
		name = PreviousContext
	}
	m.marks[name] = p
}

// Get returns the position of name.
func (m *Marks) Get(name rune) (buffer.Position, bool) {
	if name == '`' {
		name = PreviousContext
	}
	p, ok := m.marks[name]
	return p, ok
}

// DeleteLower removes the marks a-z, as :delmarks! does.
func (m *Marks) DeleteLower() {
	for n := range m.marks {
		if n >= 'a' && n <= 'z' {
			delete(m.marks, n)
		}
	}
}

// Names returns the set marks in display order.
func (m *Marks) Names() []rune {
	names := make([]rune, 0, len(m.marks))
	for n := range m.marks {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool {
		return names[i] < names[j]
	})
	return names
}

// Transform maps every mark through applied edits.
func (m *Marks) Transform(edits []cursor.Edit) {
	for n, p := range m.marks {
		for _, e := range edits {
			p = cursor.TransformPosition(p, e)
		}
		m.marks[n] = p
	}
}
