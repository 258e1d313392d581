package buffer

import (
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// NextGraphemeStart returns the rune index just past the grapheme cluster
// that contains char. Indexes at or past the end return the line length.
func NextGraphemeStart(line string, char int) int {
	g := uniseg.NewGraphemes(line)
	pos := 0
	for g.Next() {
		n := len(g.Runes())
		if pos+n > char {
			return pos + n
		}
		pos += n
	}
	return pos
}

// PrevGraphemeStart returns the rune index where the grapheme cluster
// ending just before char begins.
func PrevGraphemeStart(line string, char int) int {
	g := uniseg.NewGraphemes(line)
	pos := 0
	for g.Next() {
		n := len(g.Runes())
		if pos+n >= char {
			return pos
		}
		pos += n
	}
	return pos
}

// GraphemeStartAt snaps char back to the start of the cluster that contains it.
func GraphemeStartAt(line string, char int) int {
	g := uniseg.NewGraphemes(line)
	pos := 0
	for g.Next() {
		n := len(g.Runes())
		if pos+n > char {
			return pos
		}
		pos += n
	}
	return pos
}

// LastGraphemeStart returns the rune index of the final cluster in line, or 0
// for an empty line. Normal mode never places the cursor past this index.
func LastGraphemeStart(line string) int {
	return PrevGraphemeStart(line, utf8.RuneCountInString(line))
}

// FirstNonBlank returns the rune index of the first character that is not a
// space or tab. A blank line returns its length.
func FirstNonBlank(line string) int {
	i := 0
	for _, r := range line {
		if r != ' ' && r != '\t' {
			return i
		}
		i++
	}
	return i
}

// Indentation returns the leading whitespace of line.
func Indentation(line string) string {
	for i, r := range line {
		if !unicode.IsSpace(r) {
			return line[:i]
		}
	}
	return line
}

// DisplayColumn returns the screen column of char within line, expanding tabs
// to the next multiple of tabStop and counting wide runes as two cells.
func DisplayColumn(line string, char, tabStop int) int {
	if tabStop < 1 {
		tabStop = 1
	}
	col, i := 0, 0
	for _, r := range line {
		if i >= char {
			break
		}
		if r == '\t' {
			col += tabStop - col%tabStop
		} else {
			col += runewidth.RuneWidth(r)
		}
		i++
	}
	return col
}
