package key

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxSpecialLen bounds the length of a bracketed name. A "<" that is not
// closed within this many bytes is a literal character.
const maxSpecialLen = 32

// Tokenize splits a Vim-notation key string into tokens.
func Tokenize(s string) []string {
	var tokens []string
	for len(s) > 0 {
		if s[0] == '<' {
			if tok, n, ok := special(s); ok {
				tokens = append(tokens, tok)
				s = s[n:]
				continue
			}
		}
		r, size := utf8.DecodeRuneInString(s)
		tokens = append(tokens, string(r))
		s = s[size:]
	}
	return tokens
}

// special reads a bracketed name at the start of s and returns its canonical
// token and byte length.
func special(s string) (string, int, bool) {
	end := strings.IndexByte(s, '>')
	if end < 2 || end > maxSpecialLen {
		return "", 0, false
	}
	inner := s[1:end]
	for _, r := range inner {
		if !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_') {
			// "<C-[>" style chords still carry one punctuation character.
			if !strings.HasPrefix(strings.ToLower(inner), "c-") || utf8.RuneCountInString(inner) != 3 {
				return "", 0, false
			}
		}
	}
	return Canonical(inner), end + 1, true
}

// Canonical returns the canonical token for the contents of a bracketed name.
func Canonical(inner string) string {
	lower := strings.ToLower(inner)
	if tok, ok := specialNames[lower]; ok {
		return tok
	}
	if len(lower) > 2 && (lower[:2] == "c-" || lower[:2] == "a-") {
		rest := inner[2:]
		if utf8.RuneCountInString(rest) == 1 {
			return "<" + strings.ToUpper(lower[:1]) + "-" + strings.ToLower(rest) + ">"
		}
	}
	return "<" + inner + ">"
}

// IsSpecial returns true for bracketed tokens such as "<Esc>".
// A lone "<" is not special.
func IsSpecial(tok string) bool {
	return len(tok) > 2 && tok[0] == '<' && tok[len(tok)-1] == '>'
}

// Join renders tokens back into Vim notation. A literal "<" becomes "<lt>".
func Join(tokens []string) string {
	var sb strings.Builder
	for _, t := range tokens {
		if t == "<" {
			sb.WriteString("<lt>")
			continue
		}
		sb.WriteString(t)
	}
	return sb.String()
}

// Text returns the text a token inserts when typed, and false for tokens that
// do not insert text.
func Text(tok string) (string, bool) {
	switch tok {
	case Enter:
		return "\n", true
	case Tab:
		return "\t", true
	}
	if IsSpecial(tok) {
		return "", false
	}
	return tok, true
}
