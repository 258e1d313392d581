package action

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/dshills/modalkit/internal/input/key"
	"github.com/dshills/modalkit/internal/vim/mode"
	"github.com/dshills/modalkit/internal/vim/state"
)

// Pattern wildcards.
const (
	WildCharacter = "<character>"
	WildNumber    = "<number>"
	WildAlpha     = "<alpha>"
	WildAny       = "<any>"
)

// ErrDuplicatePattern is returned when two actions claim the same keys in
// overlapping modes.
var ErrDuplicatePattern = errors.New("duplicate key pattern")

// Match is the result of resolving keys.
type Match struct {
	// Action is the best exact match, or nil.
	Action Action
	// Unique is true when exactly one action matched exactly.
	Unique bool
	// Partial is true when more keys could complete a longer pattern.
	Partial bool
}

type entry struct {
	factory Factory
	proto   Action
}

// Registry holds the known actions. It is immutable after construction.
type Registry struct {
	entries []entry
	log     zerolog.Logger
}

// NewRegistry builds a registry from factories. Registration order breaks
// ties between equally specific matches.
func NewRegistry(log zerolog.Logger, factories ...Factory) (*Registry, error) {
	r := &Registry{log: log}
	for _, f := range factories {
		e := entry{factory: f, proto: f()}
		for _, prev := range r.entries {
			if err := conflict(prev.proto, e.proto); err != nil {
				return nil, err
			}
		}
		r.entries = append(r.entries, e)
	}
	return r, nil
}

// MustRegistry is NewRegistry that panics on error.
func MustRegistry(log zerolog.Logger, factories ...Factory) *Registry {
	r, err := NewRegistry(log, factories...)
	if err != nil {
		panic(err)
	}
	return r
}

// Default returns a registry holding the full command catalog.
func Default(log zerolog.Logger) *Registry {
	return MustRegistry(log, Catalog()...)
}

func conflict(a, b Action) error {
	if !a.Context().overlaps(b.Context()) {
		return nil
	}
	shared := false
	for _, m := range a.Modes() {
		if slices.Contains(b.Modes(), m) {
			shared = true
			break
		}
	}
	if !shared {
		return nil
	}
	for _, pa := range a.Keys() {
		for _, pb := range b.Keys() {
			if slices.Equal(pa, pb) {
				return fmt.Errorf("%w: %s and %s both use %q", ErrDuplicatePattern, a.Name(), b.Name(), strings.Join(pa, ""))
			}
		}
	}
	return nil
}

// Len returns the number of registered actions.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Actions returns a prototype of every registered action in registration
// order.
func (r *Registry) Actions() []Action {
	out := make([]Action, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.proto
	}
	return out
}

// Resolve finds the action for keys typed in mode m.
//
// When several actions match exactly, the most specific pattern wins: each
// literal token scores 4, <number> 3, <alpha> 2, <character> 1 and <any> 0.
// Equal scores go to the longer pattern, then to the action registered first.
// An exact match is returned even if a longer pattern could still match.
func (r *Registry) Resolve(vs *state.VimState, m mode.Mode, keys []string) Match {
	pending := vs.Recorded.Operator != nil

	var (
		best      *entry
		bestScore = -1
		bestLen   int
		exact     int
		partial   bool
	)
	for i := range r.entries {
		e := &r.entries[i]
		if !slices.Contains(e.proto.Modes(), m) || !e.proto.Context().allows(pending) {
			continue
		}
		matched := false
		for _, pat := range e.proto.Keys() {
			full, prefix := matchPattern(pat, keys)
			if prefix {
				partial = true
			}
			if !full || !e.proto.Applies(vs, keys) {
				continue
			}
			if !matched {
				exact++
				matched = true
			}
			score := specificity(pat)
			if score > bestScore || (score == bestScore && len(pat) > bestLen) {
				best, bestScore, bestLen = e, score, len(pat)
			}
		}
	}

	if best == nil {
		return Match{Partial: partial}
	}
	r.log.Debug().
		Str("keys", key.Join(keys)).
		Str("action", best.proto.Name()).
		Int("candidates", exact).
		Msg("resolved")
	return Match{Action: best.factory(), Unique: exact == 1, Partial: partial}
}

// matchPattern reports whether keys match pat exactly or are a strict prefix
// of it.
func matchPattern(pat, keys []string) (full, prefix bool) {
	if len(keys) == 0 || len(keys) > len(pat) {
		return false, false
	}
	for i, k := range keys {
		if !tokenMatches(pat[i], k) {
			return false, false
		}
	}
	return len(keys) == len(pat), len(keys) < len(pat)
}

func tokenMatches(pat, tok string) bool {
	switch pat {
	case WildCharacter:
		return !key.IsSpecial(tok)
	case WildNumber:
		return len(tok) == 1 && tok[0] >= '0' && tok[0] <= '9'
	case WildAlpha:
		return len(tok) == 1 && ((tok[0] >= 'a' && tok[0] <= 'z') || (tok[0] >= 'A' && tok[0] <= 'Z'))
	case WildAny:
		return true
	}
	return pat == tok
}

func specificity(pat []string) int {
	score := 0
	for _, p := range pat {
		switch p {
		case WildNumber:
			score += 3
		case WildAlpha:
			score += 2
		case WildCharacter:
			score++
		case WildAny:
		default:
			score += 4
		}
	}
	return score
}

// tokenizePattern splits a pattern string, keeping wildcards intact.
func tokenizePattern(p string) []string {
	var out []string
	for len(p) > 0 {
		matched := false
		for _, w := range []string{WildCharacter, WildNumber, WildAlpha, WildAny} {
			if strings.HasPrefix(p, w) {
				out = append(out, w)
				p = p[len(w):]
				matched = true
				break
			}
		}
		if matched {
			continue
		}
		next := len(p)
		for _, w := range []string{WildCharacter, WildNumber, WildAlpha, WildAny} {
			if i := strings.Index(p, w); i > 0 && i < next {
				next = i
			}
		}
		out = append(out, key.Tokenize(p[:next])...)
		p = p[next:]
	}
	return out
}
