// Package remap rewrites typed key sequences before they reach the action
// registry, as Vim's noremap commands do. Mappings are not recursive: the
// keys a mapping produces are never mapped again.
package remap

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/dshills/modalkit/internal/input/key"
	"github.com/dshills/modalkit/internal/vim/mode"
)

// ErrEmptyKeys is returned for a mapping with no keys on either side.
var ErrEmptyKeys = errors.New("remap: empty key sequence")

// Mapping rewrites From into To in one mode.
type Mapping struct {
	Mode mode.Mode
	From []string
	To   []string
	// Source says where the mapping was defined, such as "config" or a
	// script path.
	Source string
}

// String returns the mapping in Vim notation.
func (m Mapping) String() string {
	return fmt.Sprintf("%s %s -> %s", m.Mode, key.Join(m.From), key.Join(m.To))
}

// Table holds mappings per mode. It is safe for concurrent use.
type Table struct {
	mu     sync.RWMutex
	byMode map[mode.Mode][]Mapping
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{byMode: make(map[mode.Mode][]Mapping)}
}

// Add maps from to to in mode m, both given in Vim notation. A mapping with
// the same keys in the same mode is replaced.
func (t *Table) Add(m mode.Mode, from, to, source string) error {
	f, d := key.Tokenize(from), key.Tokenize(to)
	if len(f) == 0 || len(d) == 0 {
		return fmt.Errorf("%w: %q -> %q", ErrEmptyKeys, from, to)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	list := t.byMode[m]
	for i := range list {
		if slices.Equal(list[i].From, f) {
			list[i] = Mapping{Mode: m, From: f, To: d, Source: source}
			return nil
		}
	}
	t.byMode[m] = append(list, Mapping{Mode: m, From: f, To: d, Source: source})
	return nil
}

// Remove deletes the mapping of from in mode m. It returns false if there
// was none.
func (t *Table) Remove(m mode.Mode, from string) bool {
	f := key.Tokenize(from)
	t.mu.Lock()
	defer t.mu.Unlock()
	list := t.byMode[m]
	for i := range list {
		if slices.Equal(list[i].From, f) {
			t.byMode[m] = slices.Delete(list, i, i+1)
			return true
		}
	}
	return false
}

// Clear removes every mapping.
func (t *Table) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.byMode = make(map[mode.Mode][]Mapping)
}

// Len returns the number of mappings.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n := 0
	for _, list := range t.byMode {
		n += len(list)
	}
	return n
}

// Mappings returns every mapping ordered by mode, then keys.
func (t *Table) Mappings() []Mapping {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var out []Mapping
	for _, list := range t.byMode {
		out = append(out, list...)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Mode != out[j].Mode {
			return out[i].Mode < out[j].Mode
		}
		return key.Join(out[i].From) < key.Join(out[j].From)
	})
	return out
}

// Remap implements the handler's key rewriting. typed holds the keys
// buffered so far. If they equal a mapping's keys, its replacement is
// returned. If they start a longer mapping, pending is true and nothing is
// returned. When a longer mapping fails to complete, the longest mapped
// prefix is replaced and the remaining keys pass through unchanged.
func (t *Table) Remap(m mode.Mode, typed []string) (out []string, pending bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	list := t.byMode[m]
	for _, mp := range list {
		if len(typed) < len(mp.From) && slices.Equal(typed, mp.From[:len(typed)]) {
			return nil, true
		}
	}
	for n := len(typed); n > 0; n-- {
		for _, mp := range list {
			if slices.Equal(typed[:n], mp.From) {
				return append(slices.Clone(mp.To), typed[n:]...), false
			}
		}
	}
	return typed, false
}
