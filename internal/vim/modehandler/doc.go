// Package modehandler drives modal editing. It matches typed keys against
// the action registry, runs the matched action once per cursor or once in
// total, applies the queued transformations and closes the command when it
// is complete.
//
// Basic usage:
//
//	vs := state.New(buffer.NewBufferFromString("hello world"))
//	h := modehandler.New(vs, modehandler.WithLogger(log))
//	if err := h.HandleKeys(ctx, "3x"); err != nil {
//		return err
//	}
//	vs.Editor.Text() // "lo world"
//
// A command ends when an action that can complete it runs in Normal, a
// visual mode or Disabled with no operator pending. At that point the
// change is recorded in undo history, stored for "." when it started in
// Normal mode and included a repeatable action, and jumps are added to the
// jump list.
//
// Macros and "." are replayed by feeding their keys back through the same
// path typed keys take, without remapping. Replays nest at most
// Options.MaxReplayDepth deep.
package modehandler
