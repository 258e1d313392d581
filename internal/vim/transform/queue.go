package transform

import "github.com/samber/mo"

// Queue collects the transformations produced while an action runs.
type Queue struct {
	items []Transformation
}

// Add appends transformations to the queue.
func (q *Queue) Add(ts ...Transformation) {
	q.items = append(q.items, ts...)
}

// Len returns the number of queued transformations.
func (q *Queue) Len() int {
	return len(q.items)
}

// Items returns a copy of the queued transformations.
func (q *Queue) Items() []Transformation {
	out := make([]Transformation, len(q.items))
	copy(out, q.items)
	return out
}

// Has returns true if a transformation of kind k is queued.
func (q *Queue) Has(k Kind) bool {
	for _, t := range q.items {
		if t.Kind() == k {
			return true
		}
	}
	return false
}

// TagFrom tags every untagged transformation at position start or later with
// cursorIndex. Already-tagged transformations keep their index.
func (q *Queue) TagFrom(start, cursorIndex int) {
	for _, t := range q.items[start:] {
		o := t.origin()
		if o.CursorIndex.IsAbsent() {
			o.CursorIndex = mo.Some(cursorIndex)
		}
	}
}

// TagUntagged tags every untagged transformation with cursorIndex.
func (q *Queue) TagUntagged(cursorIndex int) {
	q.TagFrom(0, cursorIndex)
}

// Reset empties the queue.
func (q *Queue) Reset() {
	q.items = nil
}
