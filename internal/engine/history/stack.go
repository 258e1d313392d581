package history

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dshills/modalkit/internal/engine/cursor"
)

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
	ErrPatchFailed   = errors.New("history patch does not apply to current text")
)

// Document is the text surface undo and redo operate on.
type Document interface {
	Text() string
	SetText(text string) error
}

// undoEntry wraps a step with metadata.
type undoEntry struct {
	step      *Step
	timestamp time.Time
}

// History manages undo/redo state for a buffer.
type History struct {
	mu sync.Mutex

	undoStack []*undoEntry
	redoStack []*undoEntry

	maxEntries int
}

// NewHistory creates a new history manager.
func NewHistory(maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = 1000
	}
	return &History{
		maxEntries: maxEntries,
	}
}

// Record pushes the change from before to after onto the undo stack and
// clears the redo stack. Identical texts record nothing.
// It returns true when a step was recorded.
func (h *History) Record(before, after string, cursorsBefore, cursorsAfter []cursor.Cursor) bool {
	step := NewStep(before, after, cursorsBefore, cursorsAfter)
	if step == nil {
		return false
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.undoStack = append(h.undoStack, &undoEntry{step: step, timestamp: time.Now()})
	h.redoStack = nil

	if len(h.undoStack) > h.maxEntries {
		excess := len(h.undoStack) - h.maxEntries
		h.undoStack = h.undoStack[excess:]
	}
	return true
}

// Undo reverts the most recent step on doc and returns it so the caller can
// restore Step.CursorsBefore.
func (h *History) Undo(doc Document) (*Step, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.undoStack) == 0 {
		return nil, ErrNothingToUndo
	}
	entry := h.undoStack[len(h.undoStack)-1]

	text, ok := apply(entry.step.backward, doc.Text())
	if !ok {
		return nil, ErrPatchFailed
	}
	if err := doc.SetText(text); err != nil {
		return nil, fmt.Errorf("undo: %w", err)
	}

	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.redoStack = append(h.redoStack, entry)
	return entry.step, nil
}

// Redo reapplies the most recently undone step.
func (h *History) Redo(doc Document) (*Step, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.redoStack) == 0 {
		return nil, ErrNothingToRedo
	}
	entry := h.redoStack[len(h.redoStack)-1]

	text, ok := apply(entry.step.forward, doc.Text())
	if !ok {
		return nil, ErrPatchFailed
	}
	if err := doc.SetText(text); err != nil {
		return nil, fmt.Errorf("redo: %w", err)
	}

	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.undoStack = append(h.undoStack, entry)
	return entry.step, nil
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack) > 0
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack) > 0
}

// UndoCount returns the number of undoable steps.
func (h *History) UndoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack)
}

// RedoCount returns the number of redoable steps.
func (h *History) RedoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack)
}

// LastChange returns the time of the most recent undoable step.
func (h *History) LastChange() (time.Time, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.undoStack) == 0 {
		return time.Time{}, false
	}
	return h.undoStack[len(h.undoStack)-1].timestamp, true
}

// Clear drops all history.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.undoStack = nil
	h.redoStack = nil
}
