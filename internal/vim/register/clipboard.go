package register

import (
	"errors"

	"github.com/atotto/clipboard"
)

// ErrClipboardUnavailable is returned when no system clipboard is present.
var ErrClipboardUnavailable = errors.New("system clipboard unavailable")

// Clipboard is the system clipboard backing the "*" and "+" registers.
type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

// SystemClipboard uses the platform clipboard.
type SystemClipboard struct{}

// ReadAll reads the clipboard text.
func (SystemClipboard) ReadAll() (string, error) {
	if clipboard.Unsupported {
		return "", ErrClipboardUnavailable
	}
	return clipboard.ReadAll()
}

// WriteAll replaces the clipboard text.
func (SystemClipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return ErrClipboardUnavailable
	}
	return clipboard.WriteAll(text)
}

// MemoryClipboard is an in-process clipboard for headless sessions and tests.
type MemoryClipboard struct {
	Text string
}

// ReadAll returns the stored text.
func (m *MemoryClipboard) ReadAll() (string, error) {
	return m.Text, nil
}

// WriteAll stores text.
func (m *MemoryClipboard) WriteAll(text string) error {
	m.Text = text
	return nil
}

type nopClipboard struct{}

func (nopClipboard) ReadAll() (string, error) { return "", ErrClipboardUnavailable }
func (nopClipboard) WriteAll(string) error    { return nil }
