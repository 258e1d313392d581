// Package macro records key tokens into registers for later replay.
package macro

import (
	"errors"
	"fmt"
	"sync"
	"unicode"

	"github.com/rs/zerolog"
	"github.com/samber/mo"

	"github.com/dshills/modalkit/internal/input/key"
	"github.com/dshills/modalkit/internal/vim/register"
)

// Errors returned by the recorder.
var (
	ErrAlreadyRecording = errors.New("already recording")
	ErrNotRecording     = errors.New("not recording")
	ErrEmptyMacro       = errors.New("register does not hold a macro")
)

// Recorder captures the keys of every completed action while recording is
// active. Recorded keys are stored as MacroContent in the register store.
//
// The keys are the ones each action resolved from, after user remaps were
// applied. Replay feeds them to the registry without remapping, so a
// register holds one group per action and replays the same actions even if
// the remaps change later.
type Recorder struct {
	mu         sync.Mutex
	regs       *register.Store
	recording  bool
	register   rune
	keys       [][]string
	replaying  int
	lastPlayed mo.Option[rune]
	log        zerolog.Logger
}

// NewRecorder creates a recorder writing to regs.
func NewRecorder(regs *register.Store, log zerolog.Logger) *Recorder {
	return &Recorder{regs: regs, log: log}
}

// Start begins recording into name. A lower-case name, or an upper-case name
// whose register is empty, starts the register over. An upper-case name with
// existing content keeps it so the new keys are appended on Stop.
func (r *Recorder) Start(name rune) error {
	if !register.IsValidRegisterForMacro(name) {
		return fmt.Errorf("%w: %q", register.ErrInvalidRegister, name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.recording {
		return fmt.Errorf("%w @%c", ErrAlreadyRecording, r.register)
	}

	target := unicode.ToLower(name)
	if !register.IsAppendRegister(name) || !r.regs.Has(target) {
		if err := r.regs.PutByKey(target, register.MacroContent{}, register.CharacterWise); err != nil {
			return err
		}
	}
	r.recording = true
	r.register = target
	r.keys = nil
	r.log.Debug().Str("register", string(target)).Msg("macro recording started")
	return nil
}

// Record appends the remapped keys of one action. It does nothing while not recording
// or while a macro is being replayed.
func (r *Recorder) Record(keys []string) {
	if len(keys) == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.recording || r.replaying > 0 {
		return
	}
	r.keys = append(r.keys, append([]string(nil), keys...))
}

// Stop ends recording and appends the recorded keys to the register.
func (r *Recorder) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.recording {
		return ErrNotRecording
	}
	r.recording = false

	var keys [][]string
	if old, ok := r.regs.Get(r.register); ok {
		switch c := old.Content.(type) {
		case register.MacroContent:
			keys = append(keys, c.Keys...)
		default:
			if text := old.Text(); text != "" {
				keys = append(keys, key.Tokenize(text))
			}
		}
	}
	keys = append(keys, r.keys...)
	r.keys = nil

	r.log.Debug().
		Str("register", string(r.register)).
		Int("actions", len(keys)).
		Msg("macro recording stopped")
	return r.regs.PutByKey(r.register, register.MacroContent{Keys: keys}, register.CharacterWise)
}

// IsRecording returns true while recording.
func (r *Recorder) IsRecording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recording
}

// Register returns the register being recorded into.
func (r *Recorder) Register() mo.Option[rune] {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.recording {
		return mo.None[rune]()
	}
	return mo.Some(r.register)
}

// Keys returns the tokens a replay of name feeds back through the handler.
// Text registers are replayed as typed keys.
func (r *Recorder) Keys(name rune) ([]string, error) {
	reg, ok := r.regs.Get(name)
	if !ok || reg.IsEmpty() {
		return nil, fmt.Errorf("%w: %q", ErrEmptyMacro, name)
	}
	if m, ok := reg.Content.(register.MacroContent); ok {
		return m.Flatten(), nil
	}
	return key.Tokenize(reg.Text()), nil
}

// SetLastPlayed records the register used by the last replay, for @@.
func (r *Recorder) SetLastPlayed(name rune) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastPlayed = mo.Some(unicode.ToLower(name))
}

// LastPlayed returns the register of the last replay.
func (r *Recorder) LastPlayed() mo.Option[rune] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastPlayed
}

// BeginReplay marks the start of a replay. Keys handled until the matching
// EndReplay are not recorded.
func (r *Recorder) BeginReplay() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.replaying++
}

// EndReplay marks the end of a replay.
func (r *Recorder) EndReplay() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.replaying > 0 {
		r.replaying--
	}
}

// IsReplaying returns true while a replay is running.
func (r *Recorder) IsReplaying() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.replaying > 0
}
