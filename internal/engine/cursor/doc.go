// Package cursor models editing cursors as Start/Stop position pairs and maps
// them through buffer edits.
//
// A Cursor's Start is the anchor and Stop the active end. In Normal mode the
// two are equal; visual modes spread them apart. Cursors are not required to
// be ordered: an engine that processes cursors in document order keeps the
// resulting list in processing order even when edits move them out of order.
//
// Edits are described in the coordinates of the buffer before the edit is
// applied. TransformPosition maps a position through one edit:
//   - positions before the edit are unchanged
//   - positions inside a replaced range collapse to the range start
//   - positions after the edit shift by the edit's line and character delta
//   - a position exactly at a pure insertion moves to the end of the insertion
package cursor
