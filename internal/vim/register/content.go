package register

import (
	"strings"

	"github.com/dshills/modalkit/internal/input/key"
)

// Mode describes how register text is put back into a buffer.
type Mode uint8

const (
	// CharacterWise content is inserted inline.
	CharacterWise Mode = iota
	// LineWise content is inserted as whole lines.
	LineWise
	// BlockWise content is inserted as a rectangle, one row per line.
	BlockWise
)

// String returns the Vim name of the mode.
func (m Mode) String() string {
	switch m {
	case LineWise:
		return "linewise"
	case BlockWise:
		return "blockwise"
	default:
		return "charwise"
	}
}

// ParseMode parses the output of Mode.String.
func ParseMode(s string) Mode {
	switch s {
	case "linewise":
		return LineWise
	case "blockwise":
		return BlockWise
	default:
		return CharacterWise
	}
}

// Content is the value held by a register. It is one of TextContent,
// BlockContent or MacroContent.
type Content interface {
	isContent()
}

// TextContent is a single string.
type TextContent struct {
	Text string
}

// BlockContent holds one string per row. It stores block-wise selections and
// per-cursor yanks made with several cursors.
type BlockContent struct {
	Rows []string
}

// MacroContent holds recorded key tokens, grouped by the action they belong to.
type MacroContent struct {
	Keys [][]string
}

func (TextContent) isContent()  {}
func (BlockContent) isContent() {}
func (MacroContent) isContent() {}

// Register is a register value with its put mode.
type Register struct {
	Content Content
	Mode    Mode
}

// Text flattens the content into a single string. Block rows are joined with
// newlines and macros are rendered in key notation.
func (r Register) Text() string {
	switch c := r.Content.(type) {
	case TextContent:
		return c.Text
	case BlockContent:
		return strings.Join(c.Rows, "\n")
	case MacroContent:
		return key.Join(c.Flatten())
	}
	return ""
}

// Flatten returns every recorded token in order.
func (m MacroContent) Flatten() []string {
	var out []string
	for _, k := range m.Keys {
		out = append(out, k...)
	}
	return out
}

// IsEmpty returns true if the register holds nothing.
func (r Register) IsEmpty() bool {
	switch c := r.Content.(type) {
	case TextContent:
		return c.Text == ""
	case BlockContent:
		return len(c.Rows) == 0
	case MacroContent:
		return len(c.Keys) == 0
	}
	return true
}

// appendTo combines existing content with newer content the way an
// upper-case register name does.
func appendTo(old, add Register) Register {
	if om, ok := old.Content.(MacroContent); ok {
		if am, ok := add.Content.(MacroContent); ok {
			keys := make([][]string, 0, len(om.Keys)+len(am.Keys))
			keys = append(keys, om.Keys...)
			keys = append(keys, am.Keys...)
			return Register{Content: MacroContent{Keys: keys}, Mode: old.Mode}
		}
	}
	oldText, addText := old.Text(), add.Text()
	if old.Mode == LineWise || add.Mode == LineWise {
		return Register{
			Content: TextContent{Text: ensureNewline(oldText) + ensureNewline(addText)},
			Mode:    LineWise,
		}
	}
	return Register{Content: TextContent{Text: oldText + addText}, Mode: old.Mode}
}

func appendRow(row, add string, linewise bool) string {
	switch {
	case row == "":
		return add
	case linewise:
		return ensureNewline(row) + ensureNewline(add)
	}
	return row + add
}

func ensureNewline(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
