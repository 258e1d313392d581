package key

// Key represents a keyboard key.
// For character keys, use KeyRune and set the Rune field in Event.
type Key uint8

const (
	// KeyNone represents no key.
	KeyNone Key = iota

	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyHome
	KeyEnd
	KeyUp
	KeyDown
	KeyLeft
	KeyRight

	// KeyRune is used for character keys. The character is in Event.Rune.
	KeyRune
)

var keyTokens = map[Key]string{
	KeyEscape:    Esc,
	KeyEnter:     Enter,
	KeyTab:       Tab,
	KeyBackspace: Backspace,
	KeyDelete:    Delete,
	KeyHome:      "<Home>",
	KeyEnd:       "<End>",
	KeyUp:        Up,
	KeyDown:      Down,
	KeyLeft:      Left,
	KeyRight:     Right,
}

// Token returns the canonical token for a special key, or "" for KeyRune
// and KeyNone.
func (k Key) Token() string {
	return keyTokens[k]
}

// Canonical tokens for special keys.
const (
	Esc       = "<Esc>"
	Enter     = "<CR>"
	Tab       = "<Tab>"
	Backspace = "<BS>"
	Delete    = "<Del>"
	Up        = "<Up>"
	Down      = "<Down>"
	Left      = "<Left>"
	Right     = "<Right>"
)

// specialNames maps lower-cased bracket contents to canonical tokens.
var specialNames = map[string]string{
	"esc":       Esc,
	"escape":    Esc,
	"cr":        Enter,
	"enter":     Enter,
	"return":    Enter,
	"tab":       Tab,
	"bs":        Backspace,
	"backspace": Backspace,
	"del":       Delete,
	"delete":    Delete,
	"up":        Up,
	"down":      Down,
	"left":      Left,
	"right":     Right,
	"home":      "<Home>",
	"end":       "<End>",
	"space":     " ",
	"lt":        "<",
	"bar":       "|",
	"bslash":    "\\",
}
