package term

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/modalkit/internal/input/key"
)

var specialKeys = map[tcell.Key]key.Key{
	tcell.KeyEscape:     key.KeyEscape,
	tcell.KeyEnter:      key.KeyEnter,
	tcell.KeyTab:        key.KeyTab,
	tcell.KeyBackspace:  key.KeyBackspace,
	tcell.KeyBackspace2: key.KeyBackspace,
	tcell.KeyDelete:     key.KeyDelete,
	tcell.KeyHome:       key.KeyHome,
	tcell.KeyEnd:        key.KeyEnd,
	tcell.KeyUp:         key.KeyUp,
	tcell.KeyDown:       key.KeyDown,
	tcell.KeyLeft:       key.KeyLeft,
	tcell.KeyRight:      key.KeyRight,
}

// Event converts a tcell key event. Control chords arrive either as
// tcell.KeyCtrlA..KeyCtrlZ or as a rune with ModCtrl, depending on the
// terminal; both become a rune event with key.ModCtrl.
func Event(ev *tcell.EventKey) key.Event {
	var mods key.Modifier
	if ev.Modifiers()&tcell.ModCtrl != 0 {
		mods |= key.ModCtrl
	}
	if ev.Modifiers()&tcell.ModAlt != 0 {
		mods |= key.ModAlt
	}

	k := ev.Key()
	if sk, ok := specialKeys[k]; ok {
		return key.NewSpecialEvent(sk, mods&^key.ModCtrl)
	}
	if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		return key.NewRuneEvent('a'+rune(k-tcell.KeyCtrlA), mods|key.ModCtrl)
	}
	if k == tcell.KeyRune {
		return key.NewRuneEvent(ev.Rune(), mods)
	}
	return key.Event{}
}

// Token converts a tcell key event to an engine token, or "" if the key
// has none.
func Token(ev *tcell.EventKey) string {
	return Event(ev).Token()
}
