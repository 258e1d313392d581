package key

import (
	"strings"
	"time"
	"unicode"
)

// Modifier represents keyboard modifier keys.
type Modifier uint8

const (
	// ModNone indicates no modifiers.
	ModNone Modifier = 0

	// ModShift indicates the Shift key.
	ModShift Modifier = 1 << iota

	// ModCtrl indicates the Control key.
	ModCtrl

	// ModAlt indicates the Alt key (Option on macOS).
	ModAlt
)

// Has returns true if m contains mod.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

// Event represents a single key press event.
type Event struct {
	Key       Key
	Rune      rune
	Modifiers Modifier
	Timestamp time.Time
}

// NewRuneEvent creates a key event for a character.
func NewRuneEvent(r rune, mods Modifier) Event {
	return Event{Key: KeyRune, Rune: r, Modifiers: mods, Timestamp: time.Now()}
}

// NewSpecialEvent creates a key event for a special key.
func NewSpecialEvent(k Key, mods Modifier) Event {
	return Event{Key: k, Modifiers: mods, Timestamp: time.Now()}
}

// Token returns the engine token for the event, or "" if the event has no
// token representation.
//
// Control and Alt chords on characters become "<C-x>" and "<A-x>" with the
// character lower-cased. Shift is carried by the character itself.
func (e Event) Token() string {
	if e.Key != KeyRune {
		return e.Key.Token()
	}
	if e.Rune == 0 || (!unicode.IsPrint(e.Rune) && e.Rune != '\t') {
		return ""
	}
	var prefix string
	switch {
	case e.Modifiers.Has(ModCtrl):
		prefix = "C-"
	case e.Modifiers.Has(ModAlt):
		prefix = "A-"
	}
	if prefix != "" {
		return "<" + prefix + strings.ToLower(string(e.Rune)) + ">"
	}
	if e.Rune == '\t' {
		return Tab
	}
	if e.Rune == '<' {
		return "<"
	}
	return string(e.Rune)
}
