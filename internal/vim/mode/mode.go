// Package mode defines the editing modes and the state machine that moves
// between them.
package mode

import (
	"fmt"
	"strings"
)

// Mode is an editing mode.
type Mode uint8

const (
	Normal Mode = iota
	Insert
	Replace
	Visual
	VisualLine
	VisualBlock
	SearchInProgress
	CommandlineInProgress
	Disabled
)

var names = [...]string{
	Normal:                "normal",
	Insert:                "insert",
	Replace:               "replace",
	Visual:                "visual",
	VisualLine:            "visualline",
	VisualBlock:           "visualblock",
	SearchInProgress:      "search",
	CommandlineInProgress: "commandline",
	Disabled:              "disabled",
}

func (m Mode) String() string {
	if int(m) < len(names) {
		return names[m]
	}
	return fmt.Sprintf("mode(%d)", m)
}

// Parse returns the mode with the given name. Matching ignores case and the
// short aliases "n", "i", "v", "x" are accepted.
func Parse(name string) (Mode, error) {
	switch strings.ToLower(name) {
	case "n":
		return Normal, nil
	case "i":
		return Insert, nil
	case "v", "x":
		return Visual, nil
	}
	for m, n := range names {
		if strings.EqualFold(n, name) {
			return Mode(m), nil
		}
	}
	return Normal, fmt.Errorf("unknown mode %q", name)
}

// All returns every mode.
func All() []Mode {
	out := make([]Mode, len(names))
	for i := range names {
		out[i] = Mode(i)
	}
	return out
}

// IsVisual reports whether m is one of the visual modes.
func (m Mode) IsVisual() bool {
	return m == Visual || m == VisualLine || m == VisualBlock
}

// IsInsertLike reports whether typed characters edit the buffer in m.
func (m Mode) IsInsertLike() bool {
	return m == Insert || m == Replace
}

// DisplayName returns the status line label for m.
func (m Mode) DisplayName() string {
	switch m {
	case Insert:
		return "-- INSERT --"
	case Replace:
		return "-- REPLACE --"
	case Visual:
		return "-- VISUAL --"
	case VisualLine:
		return "-- VISUAL LINE --"
	case VisualBlock:
		return "-- VISUAL BLOCK --"
	case Disabled:
		return "-- DISABLED --"
	}
	return ""
}

// CursorStyle is how the cursor is drawn in a mode.
type CursorStyle uint8

const (
	CursorBlock CursorStyle = iota
	CursorBar
	CursorUnderline
)

// CursorStyle returns the cursor style for m.
func (m Mode) CursorStyle() CursorStyle {
	switch m {
	case Insert, SearchInProgress, CommandlineInProgress:
		return CursorBar
	case Replace:
		return CursorUnderline
	}
	return CursorBlock
}
