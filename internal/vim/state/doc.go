// Package state holds the per-session editing state shared by every action.
//
// VimState is the single aggregate passed to actions: the text editor
// collaborator, the cursors, the mode machine, the register store, the macro
// recorder, undo history, marks, the jump list and search state. Nothing in
// the engine keeps package-level state; a host that edits several buffers
// creates one VimState per buffer and may share a register store between them.
//
// RecordedState tracks the command being typed. It is replaced with a fresh
// value whenever a command completes or is abandoned.
package state
