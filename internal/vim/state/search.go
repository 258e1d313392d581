package state

import (
	"github.com/dshills/modalkit/internal/search"
	"github.com/dshills/modalkit/internal/vim/mode"
)

// SearchState is the state of / and ? searches.
type SearchState struct {
	Pattern   string
	Backward  bool
	Highlight bool
	// ReturnMode is the mode to go back to when the search command line
	// closes.
	ReturnMode mode.Mode
	History    *LineHistory
	Searcher   *search.Searcher
}

// NewSearchState creates an empty search state.
func NewSearchState() *SearchState {
	return &SearchState{History: NewLineHistory(100), Searcher: search.New()}
}

// LineHistory is a bounded list of command lines, oldest first.
type LineHistory struct {
	entries []string
	max     int
}

// NewLineHistory creates a history holding at most max entries.
func NewLineHistory(max int) *LineHistory {
	return &LineHistory{max: max}
}

// Add appends line, moving it to the end if it is already present.
func (h *LineHistory) Add(line string) {
	if line == "" {
		return
	}
	for i, e := range h.entries {
		if e == line {
			h.entries = append(h.entries[:i], h.entries[i+1:]...)
			break
		}
	}
	h.entries = append(h.entries, line)
	if len(h.entries) > h.max {
		h.entries = h.entries[len(h.entries)-h.max:]
	}
}

// Entries returns a copy of the entries.
func (h *LineHistory) Entries() []string {
	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}

// Clear removes every entry.
func (h *LineHistory) Clear() {
	h.entries = nil
}
