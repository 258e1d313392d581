package mode

import (
	"errors"
	"fmt"
	"sync"
)

// ErrIllegalTransition is returned when a transition is not allowed.
var ErrIllegalTransition = errors.New("illegal mode transition")

// ChangeCallback is called after the mode changes.
type ChangeCallback func(from, to Mode)

// Machine tracks the current mode.
//
// Disabled can only be entered from Normal and only left to Normal. While
// Disabled is active every other transition is refused.
type Machine struct {
	mu        sync.RWMutex
	current   Mode
	previous  Mode
	callbacks []ChangeCallback
}

// NewMachine returns a machine in Normal mode.
func NewMachine() *Machine {
	return &Machine{}
}

// Current returns the current mode.
func (m *Machine) Current() Mode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Previous returns the mode active before the last transition.
func (m *Machine) Previous() Mode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.previous
}

// CanTransition reports whether moving from the current mode to to is legal.
func (m *Machine) CanTransition(to Mode) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return legal(m.current, to)
}

func legal(from, to Mode) bool {
	if int(to) >= len(names) {
		return false
	}
	if from == to {
		return true
	}
	if from == Disabled {
		return to == Normal
	}
	if to == Disabled {
		return from == Normal
	}
	return true
}

// Transition moves to a new mode. Moving to the current mode is a no-op and
// does not notify callbacks.
func (m *Machine) Transition(to Mode) error {
	m.mu.Lock()
	from := m.current
	if !legal(from, to) {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, from, to)
	}
	if from == to {
		m.mu.Unlock()
		return nil
	}
	m.previous = from
	m.current = to
	callbacks := make([]ChangeCallback, len(m.callbacks))
	copy(callbacks, m.callbacks)
	m.mu.Unlock()

	// Notify outside the lock so callbacks may query the machine.
	for _, cb := range callbacks {
		cb(from, to)
	}
	return nil
}

// OnChange registers a callback run after every mode change.
func (m *Machine) OnChange(cb ChangeCallback) {
	if cb == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callbacks = append(m.callbacks, cb)
}

// Reset returns to Normal, notifying callbacks if the mode changed.
func (m *Machine) Reset() {
	_ = m.Transition(Normal)
}
