package action

import (
	"unicode"
	"unicode/utf8"

	"github.com/dshills/modalkit/internal/engine/buffer"
	"github.com/dshills/modalkit/internal/vim/state"
)

type charClass uint8

const (
	classBlank charClass = iota
	classPunct
	classWord
)

func classOf(r rune, bigWord bool) charClass {
	switch {
	case r == ' ' || r == '\t':
		return classBlank
	case bigWord:
		return classWord
	case r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
		return classWord
	}
	return classPunct
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// lineRunes returns the runes of line n.
func lineRunes(vs *state.VimState, n int) []rune {
	return []rune(vs.Line(n))
}

// nextChar returns the start of the grapheme after p on its line.
func nextChar(vs *state.VimState, p buffer.Position) int {
	return buffer.NextGraphemeStart(vs.Line(p.Line), p.Character)
}

// prevChar returns the start of the grapheme before p on its line.
func prevChar(vs *state.VimState, p buffer.Position) int {
	return buffer.PrevGraphemeStart(vs.Line(p.Line), p.Character)
}

// graphemeAt returns the grapheme cluster at p, or "" at the end of the line.
func graphemeAt(vs *state.VimState, p buffer.Position) string {
	r := lineRunes(vs, p.Line)
	end := nextChar(vs, p)
	if p.Character >= len(r) || end <= p.Character {
		return ""
	}
	return string(r[p.Character:end])
}

// docIter walks the buffer one rune at a time. Line ends are reported as a
// blank with eol set.
type docIter struct {
	vs   *state.VimState
	pos  buffer.Position
	line []rune
}

func newIter(vs *state.VimState, p buffer.Position) *docIter {
	return &docIter{vs: vs, pos: p, line: lineRunes(vs, p.Line)}
}

// char returns the rune at the iterator and whether it is a line end.
func (it *docIter) char() (rune, bool) {
	if it.pos.Character >= len(it.line) {
		return '\n', true
	}
	return it.line[it.pos.Character], false
}

func (it *docIter) emptyLine() bool {
	return len(it.line) == 0
}

func (it *docIter) next() bool {
	if it.pos.Character < len(it.line) {
		it.pos.Character++
		return true
	}
	if it.pos.Line >= it.vs.LastLine() {
		return false
	}
	it.pos = buffer.Pos(it.pos.Line+1, 0)
	it.line = lineRunes(it.vs, it.pos.Line)
	return true
}

func (it *docIter) prev() bool {
	if it.pos.Character > 0 {
		it.pos.Character--
		return true
	}
	if it.pos.Line == 0 {
		return false
	}
	it.pos.Line--
	it.line = lineRunes(it.vs, it.pos.Line)
	it.pos.Character = len(it.line)
	return true
}

func (it *docIter) class(big bool) charClass {
	r, eol := it.char()
	if eol {
		return classBlank
	}
	return classOf(r, big)
}

// wordForward returns the start of the next word, as w does. Empty lines
// count as words. At the end of the buffer it returns the end of the last
// line.
func wordForward(vs *state.VimState, p buffer.Position, big bool) buffer.Position {
	it := newIter(vs, p)
	if c := it.class(big); c != classBlank {
		for it.class(big) == c {
			if _, eol := it.char(); eol || !it.next() {
				break
			}
		}
	}
	for {
		r, eol := it.char()
		if eol {
			if !it.next() {
				return it.pos
			}
			if it.emptyLine() {
				return it.pos
			}
			continue
		}
		if classOf(r, big) != classBlank {
			return it.pos
		}
		if !it.next() {
			return it.pos
		}
	}
}

// wordEnd returns the last character of the word at or after the character
// following p, as e does.
func wordEnd(vs *state.VimState, p buffer.Position, big bool) (buffer.Position, bool) {
	it := newIter(vs, p)
	if !it.next() {
		return p, false
	}
	for it.class(big) == classBlank {
		if !it.next() {
			return p, false
		}
	}
	return currentWordEnd(vs, it.pos, big), true
}

// currentWordEnd returns the last character of the run of same-class
// characters containing p.
func currentWordEnd(vs *state.VimState, p buffer.Position, big bool) buffer.Position {
	line := lineRunes(vs, p.Line)
	if p.Character >= len(line) {
		return p
	}
	c := classOf(line[p.Character], big)
	i := p.Character
	for i+1 < len(line) && classOf(line[i+1], big) == c {
		i++
	}
	return buffer.Pos(p.Line, i)
}

// wordBackward returns the start of the word before p, as b does.
func wordBackward(vs *state.VimState, p buffer.Position, big bool) (buffer.Position, bool) {
	it := newIter(vs, p)
	if !it.prev() {
		return p, false
	}
	for {
		r, eol := it.char()
		if eol {
			if it.emptyLine() {
				return it.pos, true
			}
		} else if classOf(r, big) != classBlank {
			break
		}
		if !it.prev() {
			return it.pos, true
		}
	}
	line := lineRunes(vs, it.pos.Line)
	i := it.pos.Character
	c := classOf(line[i], big)
	for i > 0 && classOf(line[i-1], big) == c {
		i--
	}
	return buffer.Pos(it.pos.Line, i), true
}

// wordUnder returns the keyword under or after p on its line.
func wordUnder(vs *state.VimState, p buffer.Position) (string, buffer.Range, bool) {
	line := lineRunes(vs, p.Line)
	i := p.Character
	for i < len(line) && classOf(line[i], false) != classWord {
		i++
	}
	if i >= len(line) {
		return "", buffer.Range{}, false
	}
	start, end := i, i
	for start > 0 && classOf(line[start-1], false) == classWord {
		start--
	}
	for end < len(line) && classOf(line[end], false) == classWord {
		end++
	}
	return string(line[start:end]), buffer.NewRange(buffer.Pos(p.Line, start), buffer.Pos(p.Line, end)), true
}
