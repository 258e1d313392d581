// Package buffer provides the text buffer collaborator used by the editing
// engine.
//
// A Buffer stores its content as a slice of lines. Positions are expressed as
// zero-based (line, character) pairs where the character index counts runes
// within the line. A position may sit one past the last character of a line,
// which is where insertions at end-of-line happen.
//
// The buffer exposes the primitive edit surface the engine relies on:
//
//	pos, err := b.Insert(buffer.Pos(0, 3), "text")
//	err = b.Delete(buffer.NewRange(buffer.Pos(0, 0), buffer.Pos(0, 2)))
//	pos, err = b.Replace(r, "new")
//
// and read-only queries (LineAt, TextRange, LineCount, Selections).
// A read-only buffer rejects every edit with ErrReadOnly.
//
// All methods are safe for concurrent use.
package buffer
