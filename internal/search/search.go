// Package search finds pattern matches in a buffer for /, ?, n, N and *.
//
// Patterns use Go regexp syntax with a few Vim spellings translated: \< and
// \> become word boundaries, and \c or \C anywhere in the pattern force case
// folding on or off. Compiled patterns are cached.
package search

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	gocache "github.com/patrickmn/go-cache"

	"github.com/dshills/modalkit/internal/engine/buffer"
)

const (
	defaultExpiration = 10 * time.Minute
	cleanupInterval   = 30 * time.Minute
)

// ErrNoMatch is returned when a pattern does not occur in the buffer.
var ErrNoMatch = errors.New("pattern not found")

// Lines is the text being searched.
type Lines interface {
	LineAt(line int) (string, error)
	LineCount() int
}

// Options control matching.
type Options struct {
	IgnoreCase bool
	SmartCase  bool
	WrapScan   bool
}

// Result is a match.
type Result struct {
	Range   buffer.Range
	Wrapped bool
}

// Searcher compiles and runs patterns.
type Searcher struct {
	cache *gocache.Cache
}

// New creates a searcher with an empty pattern cache.
func New() *Searcher {
	return &Searcher{cache: gocache.New(defaultExpiration, cleanupInterval)}
}

// Compile returns the regexp for pattern under opts.
func (s *Searcher) Compile(pattern string, opts Options) (*regexp.Regexp, error) {
	expr, fold := translate(pattern, opts)
	if fold {
		expr = "(?i)" + expr
	}
	if v, ok := s.cache.Get(expr); ok {
		if re, ok := v.(*regexp.Regexp); ok {
			return re, nil
		}
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", pattern, err)
	}
	s.cache.SetDefault(expr, re)
	return re, nil
}

// CachedPatterns returns the number of compiled patterns held.
func (s *Searcher) CachedPatterns() int {
	return s.cache.ItemCount()
}

func translate(pattern string, opts Options) (string, bool) {
	fold := opts.IgnoreCase
	switch {
	case strings.Contains(pattern, `\c`):
		fold = true
	case strings.Contains(pattern, `\C`):
		fold = false
	case opts.IgnoreCase && opts.SmartCase && hasUpper(pattern):
		fold = false
	}
	r := strings.NewReplacer(`\c`, "", `\C`, "", `\<`, `\b`, `\>`, `\b`)
	return r.Replace(pattern), fold
}

func hasUpper(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

// WordPattern returns the pattern * searches for: word as a whole word.
func WordPattern(word string) string {
	return `\<` + regexp.QuoteMeta(word) + `\>`
}

// Next finds the first match of pattern starting strictly after from, or
// strictly before it when backward is set.
func (s *Searcher) Next(lines Lines, from buffer.Position, pattern string, backward bool, opts Options) (Result, error) {
	re, err := s.Compile(pattern, opts)
	if err != nil {
		return Result{}, err
	}
	n := lines.LineCount()
	if backward {
		return searchBackward(lines, re, from, n, opts.WrapScan)
	}
	return searchForward(lines, re, from, n, opts.WrapScan)
}

func searchForward(lines Lines, re *regexp.Regexp, from buffer.Position, n int, wrap bool) (Result, error) {
	for i := 0; i <= n; i++ {
		l := (from.Line + i) % n
		wrapped := from.Line+i >= n
		if wrapped && !wrap {
			break
		}
		for _, m := range matches(lines, re, l) {
			if i == 0 && m.Start.Character <= from.Character {
				continue
			}
			if i == n && m.Start.Character > from.Character {
				break
			}
			return Result{Range: m, Wrapped: wrapped}, nil
		}
	}
	return Result{}, ErrNoMatch
}

func searchBackward(lines Lines, re *regexp.Regexp, from buffer.Position, n int, wrap bool) (Result, error) {
	for i := 0; i <= n; i++ {
		l := ((from.Line-i)%n + n) % n
		wrapped := from.Line-i < 0
		if wrapped && !wrap {
			break
		}
		ms := matches(lines, re, l)
		for k := len(ms) - 1; k >= 0; k-- {
			m := ms[k]
			if i == 0 && m.Start.Character >= from.Character {
				continue
			}
			if i == n && m.Start.Character < from.Character {
				break
			}
			return Result{Range: m, Wrapped: wrapped}, nil
		}
	}
	return Result{}, ErrNoMatch
}

// matches returns every non-overlapping match on a line in rune coordinates.
func matches(lines Lines, re *regexp.Regexp, l int) []buffer.Range {
	text, err := lines.LineAt(l)
	if err != nil {
		return nil
	}
	var out []buffer.Range
	for _, loc := range re.FindAllStringIndex(text, -1) {
		start := utf8.RuneCountInString(text[:loc[0]])
		end := start + utf8.RuneCountInString(text[loc[0]:loc[1]])
		out = append(out, buffer.NewRange(buffer.Pos(l, start), buffer.Pos(l, end)))
	}
	return out
}

// Count returns the number of matches in the buffer.
func (s *Searcher) Count(lines Lines, pattern string, opts Options) (int, error) {
	re, err := s.Compile(pattern, opts)
	if err != nil {
		return 0, err
	}
	total := 0
	for l := 0; l < lines.LineCount(); l++ {
		total += len(matches(lines, re, l))
	}
	return total, nil
}
