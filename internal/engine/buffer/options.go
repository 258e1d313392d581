package buffer

import "strings"

// Option is a functional option for configuring a Buffer.
type Option func(*Buffer)

// WithLineEnding sets the line ending used by Text.
func WithLineEnding(le LineEnding) Option {
	return func(b *Buffer) {
		b.lineEnding = le
	}
}

// WithName sets the buffer's display name, usually a file path.
func WithName(name string) Option {
	return func(b *Buffer) {
		b.name = name
	}
}

// WithReadOnly marks the buffer as read-only.
func WithReadOnly() Option {
	return func(b *Buffer) {
		b.readOnly = true
	}
}

// DetectLineEnding returns CRLF when the text contains at least as many
// "\r\n" sequences as bare "\n" line breaks, and LF otherwise.
func DetectLineEnding(text string) LineEnding {
	crlf := strings.Count(text, "\r\n")
	lf := strings.Count(text, "\n") - crlf
	if crlf > 0 && crlf >= lf {
		return LineEndingCRLF
	}
	return LineEndingLF
}
