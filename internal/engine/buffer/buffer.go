package buffer

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"unicode/utf8"
)

// Errors returned by buffer operations.
var (
	ErrLineOutOfRange     = errors.New("line out of range")
	ErrPositionOutOfRange = errors.New("position out of range")
	ErrReadOnly           = errors.New("buffer is read-only")
)

// LineEnding specifies the line ending style used when the text is serialized.
type LineEnding uint8

const (
	LineEndingLF   LineEnding = iota // Unix: \n
	LineEndingCRLF                   // Windows: \r\n
)

// Sequence returns the actual line ending characters.
func (le LineEnding) Sequence() string {
	if le == LineEndingCRLF {
		return "\r\n"
	}
	return "\n"
}

// RevisionID identifies a buffer state. It changes on every successful edit.
type RevisionID uint64

var revisionCounter atomic.Uint64

func nextRevision() RevisionID {
	return RevisionID(revisionCounter.Add(1))
}

// Buffer is a line-oriented text buffer.
// All methods are thread-safe.
type Buffer struct {
	mu         sync.RWMutex
	lines      []string
	revision   RevisionID
	lineEnding LineEnding
	readOnly   bool
	name       string
	selections []Range
}

// NewBuffer creates a new buffer holding a single empty line.
func NewBuffer(opts ...Option) *Buffer {
	b := &Buffer{
		lines:      []string{""},
		revision:   nextRevision(),
		lineEnding: LineEndingLF,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewBufferFromString creates a buffer initialized with text.
// The line ending is detected from the text unless an option overrides it.
func NewBufferFromString(text string, opts ...Option) *Buffer {
	b := NewBuffer(append([]Option{WithLineEnding(DetectLineEnding(text))}, opts...)...)
	b.lines = splitLines(text)
	return b
}

// Name returns the buffer's display name.
func (b *Buffer) Name() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.name
}

// Text returns the full buffer content joined with the buffer's line ending.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return strings.Join(b.lines, b.lineEnding.Sequence())
}

// Lines returns a copy of the buffer's lines.
func (b *Buffer) Lines() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out
}

// LineCount returns the number of lines. An empty buffer has one line.
func (b *Buffer) LineCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.lines)
}

// LineAt returns the text of a line without its line ending.
func (b *Buffer) LineAt(line int) (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if line < 0 || line >= len(b.lines) {
		return "", fmt.Errorf("line %d: %w", line, ErrLineOutOfRange)
	}
	return b.lines[line], nil
}

// LineLen returns the rune length of a line, or 0 if the line doesn't exist.
func (b *Buffer) LineLen(line int) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if line < 0 || line >= len(b.lines) {
		return 0
	}
	return utf8.RuneCountInString(b.lines[line])
}

// EndPosition returns the position just past the last character.
func (b *Buffer) EndPosition() Position {
	b.mu.RLock()
	defer b.mu.RUnlock()
	last := len(b.lines) - 1
	return Position{Line: last, Character: utf8.RuneCountInString(b.lines[last])}
}

// Revision returns the current revision identifier.
func (b *Buffer) Revision() RevisionID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revision
}

// IsReadOnly returns true if edits are rejected.
func (b *Buffer) IsReadOnly() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.readOnly
}

// SetReadOnly toggles the read-only flag.
func (b *Buffer) SetReadOnly(readOnly bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.readOnly = readOnly
}

// ValidatePosition returns an error if pos does not address the buffer.
func (b *Buffer) ValidatePosition(pos Position) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.validate(pos)
}

func (b *Buffer) validate(pos Position) error {
	if pos.Line < 0 || pos.Line >= len(b.lines) {
		return fmt.Errorf("%s: %w", pos, ErrLineOutOfRange)
	}
	if pos.Character < 0 || pos.Character > utf8.RuneCountInString(b.lines[pos.Line]) {
		return fmt.Errorf("%s: %w", pos, ErrPositionOutOfRange)
	}
	return nil
}

// ClampPosition returns the nearest valid position to pos. Positions past
// the last line clamp to the end of the document.
func (b *Buffer) ClampPosition(pos Position) Position {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.clamp(pos)
}

// TextRange returns the text covered by r. Line breaks are returned as "\n".
func (b *Buffer) TextRange(r Range) (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.validate(r.Start); err != nil {
		return "", err
	}
	if err := b.validate(r.End); err != nil {
		return "", err
	}
	if r.Start.Line == r.End.Line {
		line := b.lines[r.Start.Line]
		return line[byteIndex(line, r.Start.Character):byteIndex(line, r.End.Character)], nil
	}
	var sb strings.Builder
	first := b.lines[r.Start.Line]
	sb.WriteString(first[byteIndex(first, r.Start.Character):])
	for l := r.Start.Line + 1; l < r.End.Line; l++ {
		sb.WriteByte('\n')
		sb.WriteString(b.lines[l])
	}
	last := b.lines[r.End.Line]
	sb.WriteByte('\n')
	sb.WriteString(last[:byteIndex(last, r.End.Character)])
	return sb.String(), nil
}

// Insert inserts text at pos and returns the position just after it.
func (b *Buffer) Insert(pos Position, text string) (Position, error) {
	return b.Replace(Range{Start: pos, End: pos}, text)
}

// Delete removes the text covered by r.
func (b *Buffer) Delete(r Range) error {
	_, err := b.Replace(r, "")
	return err
}

// Replace replaces the text covered by r and returns the position just after
// the new text.
func (b *Buffer) Replace(r Range, text string) (Position, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.readOnly {
		return r.Start, ErrReadOnly
	}
	r = NewRange(r.Start, r.End)
	if err := b.validate(r.Start); err != nil {
		return r.Start, err
	}
	if err := b.validate(r.End); err != nil {
		return r.Start, err
	}

	first := b.lines[r.Start.Line]
	last := b.lines[r.End.Line]
	prefix := first[:byteIndex(first, r.Start.Character)]
	suffix := last[byteIndex(last, r.End.Character):]

	inserted := splitLines(text)
	end := Position{Line: r.Start.Line + len(inserted) - 1}
	if len(inserted) == 1 {
		end.Character = r.Start.Character + utf8.RuneCountInString(inserted[0])
	} else {
		end.Character = utf8.RuneCountInString(inserted[len(inserted)-1])
	}
	inserted[0] = prefix + inserted[0]
	inserted[len(inserted)-1] += suffix

	lines := make([]string, 0, len(b.lines)-(r.End.Line-r.Start.Line)+len(inserted)-1)
	lines = append(lines, b.lines[:r.Start.Line]...)
	lines = append(lines, inserted...)
	lines = append(lines, b.lines[r.End.Line+1:]...)
	b.lines = lines
	b.revision = nextRevision()
	return end, nil
}

// SetText replaces the whole content of the buffer.
func (b *Buffer) SetText(text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.readOnly {
		return ErrReadOnly
	}
	b.lines = splitLines(text)
	b.revision = nextRevision()
	return nil
}

// Selections returns the host-reported selections.
func (b *Buffer) Selections() []Range {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Range, len(b.selections))
	copy(out, b.selections)
	return out
}

// SetSelections records the selections the host currently shows.
func (b *Buffer) SetSelections(sel []Range) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.selections = append(b.selections[:0], sel...)
}

// CursorsAfterSync returns the selections clamped to the current content.
// It is used after a host-native edit to resynchronize cursor models.
func (b *Buffer) CursorsAfterSync() []Range {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Range, 0, len(b.selections))
	for _, s := range b.selections {
		out = append(out, Range{Start: b.clamp(s.Start), End: b.clamp(s.End)})
	}
	return out
}

func (b *Buffer) clamp(pos Position) Position {
	last := len(b.lines) - 1
	if pos.Line > last {
		return Position{Line: last, Character: utf8.RuneCountInString(b.lines[last])}
	}
	pos.Line = max(pos.Line, 0)
	pos.Character = min(max(pos.Character, 0), utf8.RuneCountInString(b.lines[pos.Line]))
	return pos
}

// splitLines splits text on LF, treating CRLF as a single break.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n")
}

// byteIndex converts a rune index into a byte index within s.
// Indexes past the end map to len(s).
func byteIndex(s string, char int) int {
	if char <= 0 {
		return 0
	}
	n := 0
	for i := range s {
		if n == char {
			return i
		}
		n++
	}
	return len(s)
}
