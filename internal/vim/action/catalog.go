package action

// Catalog returns the factories of every built-in command in registration
// order. Earlier entries win ties between equally specific patterns.
func Catalog() []Factory {
	groups := [][]Factory{
		prefixes(),
		motions(),
		textObjects(),
		visualTextObjects(),
		searches(),
		operators(),
		shortcuts(),
		puts(),
		insertEntries(),
		insertKeys(),
		replaceMode(),
		visuals(),
		undos(),
		macros(),
		marks(),
		commandLine(),
		misc(),
	}
	var out []Factory
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
