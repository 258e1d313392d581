// Package key converts keyboard input into key tokens.
//
// A token is the unit the editing engine matches against: a single character
// ("a", "$", " ") or a bracketed special name ("<Esc>", "<CR>", "<C-r>").
// Strings in Vim notation are split into tokens with Tokenize:
//
//	key.Tokenize("ihello<Esc>") // ["i" "h" "e" "l" "l" "o" "<Esc>"]
//
// Special names are case-insensitive on input and canonicalized on output,
// so "<esc>", "<Escape>" and "<ESC>" all become "<Esc>". Unknown bracketed
// names pass through unchanged, which lets hosts inject their own tokens.
// "<lt>" stands for a literal "<".
package key
