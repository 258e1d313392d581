package register

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/rs/zerolog"
	"github.com/samber/mo"
)

// Errors returned by register operations.
var (
	ErrInvalidRegister  = errors.New("invalid register")
	ErrReadOnlyRegister = errors.New("register is read-only")
)

// Special register names.
const (
	Unnamed       = '"'
	SmallDelete   = '-'
	BlackHole     = '_'
	LastSearch    = '/'
	LastInserted  = '.'
	LastCommand   = ':'
	YankRegister  = '0'
	Selection     = '*'
	ClipboardName = '+'
)

// Operation identifies the kind of command writing a register.
type Operation uint8

const (
	// OpOther writes only the named and unnamed registers.
	OpOther Operation = iota
	// OpYank also writes register 0.
	OpYank
	// OpDelete also rotates the numbered registers or writes the small
	// delete register.
	OpDelete
)

// PutOptions control a register write.
type PutOptions struct {
	Mode      Mode
	Operation Operation

	// CursorIndex is the multicursor index of the writer. It is required
	// when CursorCount is greater than one.
	CursorIndex mo.Option[int]
	CursorCount int
}

// Store holds the registers of one editing session.
type Store struct {
	mu   sync.Mutex
	regs map[rune]Register

	clipboard       Clipboard
	mirrorClipboard bool
	log             zerolog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClipboard sets the clipboard backing the "*" and "+" registers.
func WithClipboard(c Clipboard) Option {
	return func(s *Store) {
		s.clipboard = c
	}
}

// WithUnnamedClipboard mirrors every unnamed register write to the clipboard.
func WithUnnamedClipboard(enabled bool) Option {
	return func(s *Store) {
		s.mirrorClipboard = enabled
	}
}

// WithLogger sets the logger used for clipboard failures and debug output.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) {
		s.log = l
	}
}

// NewStore creates an empty register store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		regs:      make(map[rune]Register),
		clipboard: nopClipboard{},
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IsValidRegister reports whether name can be used with a register prefix.
func IsValidRegister(name rune) bool {
	switch {
	case name >= 'a' && name <= 'z', name >= 'A' && name <= 'Z', name >= '0' && name <= '9':
		return true
	}
	return strings.ContainsRune(`"-_*+./:`, name)
}

// IsValidRegisterForMacro reports whether name can hold a recorded macro.
func IsValidRegisterForMacro(name rune) bool {
	switch {
	case name >= 'a' && name <= 'z', name >= 'A' && name <= 'Z', name >= '0' && name <= '9':
		return true
	}
	return name == Unnamed
}

// IsReadOnlyRegister reports whether users may not write name directly.
func IsReadOnlyRegister(name rune) bool {
	return name == LastInserted || name == LastCommand || name == LastSearch
}

// IsAppendRegister reports whether name appends instead of overwriting.
func IsAppendRegister(name rune) bool {
	return name >= 'A' && name <= 'Z'
}

// Put stores text in name following yank and delete semantics:
// the unnamed register always follows the last write, yanks into the unnamed
// register also fill "0", and deletes rotate "1-"9 or fill "-.
func (s *Store) Put(name rune, text string, opts PutOptions) error {
	if name == BlackHole {
		return nil
	}
	if !IsValidRegister(name) {
		return fmt.Errorf("%w: %q", ErrInvalidRegister, name)
	}
	if IsReadOnlyRegister(name) {
		return fmt.Errorf("%w: %q", ErrReadOnlyRegister, name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	target := unicode.ToLower(name)
	var reg Register
	switch {
	case IsAppendRegister(name) && opts.CursorCount > 1:
		reg = s.appendPerCursor(target, text, opts)
	case IsAppendRegister(name):
		reg = s.perCursor(target, text, opts)
		if old, ok := s.regs[target]; ok {
			reg = appendTo(old, reg)
		}
	default:
		reg = s.perCursor(target, text, opts)
	}

	s.set(target, reg)
	if target != Unnamed {
		s.set(Unnamed, reg)
	}

	if name == Unnamed {
		switch opts.Operation {
		case OpYank:
			s.set(YankRegister, reg)
		case OpDelete:
			if reg.Mode == LineWise || strings.Contains(text, "\n") {
				s.rotateNumbered(reg)
			} else {
				s.set(SmallDelete, reg)
			}
		}
	}

	if target == Selection || target == ClipboardName || s.mirrorClipboard {
		if err := s.clipboard.WriteAll(reg.Text()); err != nil {
			s.log.Warn().Err(err).Msg("clipboard write failed")
		}
	}

	s.log.Debug().
		Str("register", string(target)).
		Str("mode", reg.Mode.String()).
		Int("cursor_count", opts.CursorCount).
		Msg("register put")
	return nil
}

// perCursor builds the register value for a write made by one of several
// cursors. Each cursor owns one row of a BlockContent.
func (s *Store) perCursor(target rune, text string, opts PutOptions) Register {
	if opts.CursorCount <= 1 {
		return Register{Content: TextContent{Text: text}, Mode: opts.Mode}
	}
	idx := cursorIndex(opts)
	rows := make([]string, opts.CursorCount)
	if old, ok := s.regs[target].Content.(BlockContent); ok && idx > 0 && len(old.Rows) == opts.CursorCount {
		copy(rows, old.Rows)
	}
	rows[idx] = text
	return Register{Content: BlockContent{Rows: rows}, Mode: opts.Mode}
}

// appendPerCursor appends text to the row owned by the writing cursor. The
// first cursor starts from the register's previous value; later cursors
// continue from the rows written earlier in the same command.
func (s *Store) appendPerCursor(target rune, text string, opts PutOptions) Register {
	idx := cursorIndex(opts)
	old, ok := s.regs[target]
	if !ok {
		return s.perCursor(target, text, opts)
	}

	rows := make([]string, opts.CursorCount)
	if block, isBlock := old.Content.(BlockContent); isBlock && len(block.Rows) == opts.CursorCount {
		copy(rows, block.Rows)
	} else {
		prev := old.Text()
		for i := range rows {
			rows[i] = prev
		}
	}

	mode := old.Mode
	if opts.Mode == LineWise {
		mode = LineWise
	}
	rows[idx] = appendRow(rows[idx], text, mode == LineWise)
	return Register{Content: BlockContent{Rows: rows}, Mode: mode}
}

func cursorIndex(opts PutOptions) int {
	idx, ok := opts.CursorIndex.Get()
	if !ok {
		panic("register: per-cursor write without a multicursor index")
	}
	if idx < 0 || idx >= opts.CursorCount {
		panic(fmt.Sprintf("register: multicursor index %d out of range [0,%d)", idx, opts.CursorCount))
	}
	return idx
}

func (s *Store) rotateNumbered(reg Register) {
	for n := '9'; n > '1'; n-- {
		if prev, ok := s.regs[n-1]; ok {
			s.regs[n] = prev
		}
	}
	s.regs['1'] = reg
}

func (s *Store) set(name rune, reg Register) {
	s.regs[name] = reg
}

// PutByKey stores content in name as-is, bypassing yank and delete rules.
// Upper-case names append to the lower-case register.
func (s *Store) PutByKey(name rune, content Content, mode Mode) error {
	if !IsValidRegister(name) {
		return fmt.Errorf("%w: %q", ErrInvalidRegister, name)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	target := unicode.ToLower(name)
	reg := Register{Content: content, Mode: mode}
	if IsAppendRegister(name) {
		if old, ok := s.regs[target]; ok {
			reg = appendTo(old, reg)
		}
	}
	s.set(target, reg)
	return nil
}

// SetSearch records the last search pattern in "/".
func (s *Store) SetSearch(pattern string) {
	s.setSpecial(LastSearch, pattern)
}

// SetLastInserted records the last inserted text in ".".
func (s *Store) SetLastInserted(text string) {
	s.setSpecial(LastInserted, text)
}

// SetLastCommand records the last command line in ":".
func (s *Store) SetLastCommand(cmd string) {
	s.setSpecial(LastCommand, cmd)
}

func (s *Store) setSpecial(name rune, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set(name, Register{Content: TextContent{Text: text}, Mode: CharacterWise})
}

// Get returns the content of name. Upper-case names read the lower-case
// register and the clipboard registers read the system clipboard.
func (s *Store) Get(name rune) (Register, bool) {
	target := unicode.ToLower(name)
	if target == BlackHole || !IsValidRegister(target) {
		return Register{}, false
	}
	if target == Selection || target == ClipboardName {
		return s.readClipboard()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	reg, ok := s.regs[target]
	return reg, ok
}

// GetForCursor returns the content of name as seen by one of cursorCount
// cursors. Per-row content whose row count matches the cursor count gives
// each cursor its own row.
func (s *Store) GetForCursor(name rune, cursorIndex mo.Option[int], cursorCount int) (Register, bool) {
	reg, ok := s.Get(name)
	if !ok || cursorCount <= 1 {
		return reg, ok
	}
	idx, has := cursorIndex.Get()
	if !has {
		panic("register: per-cursor read without a multicursor index")
	}
	block, isBlock := reg.Content.(BlockContent)
	if !isBlock || len(block.Rows) != cursorCount {
		return reg, true
	}
	mode := reg.Mode
	if mode == BlockWise {
		mode = CharacterWise
	}
	return Register{Content: TextContent{Text: block.Rows[idx]}, Mode: mode}, true
}

func (s *Store) readClipboard() (Register, bool) {
	text, err := s.clipboard.ReadAll()
	if err != nil {
		s.log.Warn().Err(err).Msg("clipboard read failed")
		return Register{}, false
	}
	mode := CharacterWise
	if strings.HasSuffix(text, "\n") {
		mode = LineWise
	}
	return Register{Content: TextContent{Text: text}, Mode: mode}, true
}

// Has returns true if name holds a value.
func (s *Store) Has(name rune) bool {
	_, ok := s.Get(name)
	return ok
}

// Clear removes the content of name.
func (s *Store) Clear(name rune) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.regs, unicode.ToLower(name))
}

// Names returns the names of all non-empty registers in display order:
// unnamed first, then numbered, then letters, then the rest.
func (s *Store) Names() []rune {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]rune, 0, len(s.regs))
	for n, r := range s.regs {
		if !r.IsEmpty() {
			names = append(names, n)
		}
	}
	sort.Slice(names, func(i, j int) bool {
		return displayRank(names[i]) < displayRank(names[j]) ||
			(displayRank(names[i]) == displayRank(names[j]) && names[i] < names[j])
	})
	return names
}

func displayRank(r rune) int {
	switch {
	case r == Unnamed:
		return 0
	case r >= '0' && r <= '9':
		return 1
	case r >= 'a' && r <= 'z':
		return 2
	}
	return 3
}

// Display renders a register value on one line, with line breaks shown as ^J.
func Display(reg Register) string {
	return strings.ReplaceAll(reg.Text(), "\n", "^J")
}
