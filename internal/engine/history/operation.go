package history

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/dshills/modalkit/internal/engine/cursor"
)

// Step is a single undoable change.
type Step struct {
	forward  []diffmatchpatch.Patch
	backward []diffmatchpatch.Patch

	// CursorsBefore are restored by undo.
	CursorsBefore []cursor.Cursor
	// CursorsAfter are restored by redo.
	CursorsAfter []cursor.Cursor
	// LinesDelta is the change in line count made by the step.
	LinesDelta int
}

// NewStep computes the patches turning before into after.
// It returns nil when the texts are identical.
func NewStep(before, after string, cursorsBefore, cursorsAfter []cursor.Cursor) *Step {
	if before == after {
		return nil
	}
	dmp := diffmatchpatch.New()
	return &Step{
		forward:       dmp.PatchMake(before, after),
		backward:      dmp.PatchMake(after, before),
		CursorsBefore: cloneCursors(cursorsBefore),
		CursorsAfter:  cloneCursors(cursorsAfter),
		LinesDelta:    strings.Count(after, "\n") - strings.Count(before, "\n"),
	}
}

// Patch returns the forward patch in textual form.
func (s *Step) Patch() string {
	return diffmatchpatch.New().PatchToText(s.forward)
}

func apply(patches []diffmatchpatch.Patch, text string) (string, bool) {
	out, results := diffmatchpatch.New().PatchApply(patches, text)
	for _, ok := range results {
		if !ok {
			return text, false
		}
	}
	return out, true
}

func cloneCursors(cs []cursor.Cursor) []cursor.Cursor {
	out := make([]cursor.Cursor, len(cs))
	copy(out, cs)
	return out
}
