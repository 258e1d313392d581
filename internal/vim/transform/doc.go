// Package transform defines deferred edits and applies them to a buffer.
//
// Actions never edit the buffer directly. They describe the edits they want
// as Transformations and append them to a Queue. Once an action has run for
// every cursor, Flush applies the queued edits in descending document order
// so that an applied edit never invalidates the coordinates of an edit still
// waiting to be applied. Cursor positions are carried through every edit as
// markers and then adjusted by the PositionDiff attached to each
// transformation.
//
// Every transformation that touches the buffer or a cursor must carry the
// index of the cursor that produced it. Flush panics if one does not: an
// untagged edit means the execution engine lost track of which cursor an
// effect belongs to.
//
// Macro replay, dot repeat and history display cannot be applied to the
// buffer here. Flush returns them untouched as deferred work for the caller.
package transform
