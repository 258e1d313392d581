// Package history provides undo/redo for the editing engine.
//
// Each completed change is stored as a Step: a pair of text patches (forward
// and backward) computed with diff-match-patch, plus the cursor positions
// before and after the change. Storing patches instead of full snapshots keeps
// memory proportional to the size of the edits.
//
//	h := history.NewHistory(1000)
//	h.Record(before, after, cursorsBefore, cursorsAfter)
//	cursors, err := h.Undo(doc)
//	if errors.Is(err, history.ErrNothingToUndo) { ... }
package history
