package key

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"ihello<Esc>", []string{"i", "h", "e", "l", "l", "o", "<Esc>"}},
		{"3dw", []string{"3", "d", "w"}},
		{"<esc><ESCAPE>", []string{"<Esc>", "<Esc>"}},
		{"<c-R>a", []string{"<C-r>", "a"}},
		{"a<lt>b", []string{"a", "<", "b"}},
		{"a < b", []string{"a", " ", "<", " ", "b"}},
		{"<space>", []string{" "}},
		{"<ExtensionDisable>", []string{"<ExtensionDisable>"}},
		{"<CR><Enter><return>", []string{"<CR>", "<CR>", "<CR>"}},
		{"<>", []string{"<", ">"}},
		{"日本", []string{"日", "本"}},
		{"", nil},
	}

	for _, tt := range tests {
		got := Tokenize(tt.in)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Tokenize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsSpecial(t *testing.T) {
	if !IsSpecial("<Esc>") {
		t.Error("<Esc> should be special")
	}
	if IsSpecial("<") || IsSpecial("a") || IsSpecial("<>") {
		t.Error("single characters should not be special")
	}
}

func TestJoinRoundTrip(t *testing.T) {
	in := "ia<lt>b<Esc>"
	if got := Join(Tokenize(in)); got != in {
		t.Errorf("Join(Tokenize(%q)) = %q", in, got)
	}
}

func TestText(t *testing.T) {
	tests := []struct {
		tok  string
		want string
		ok   bool
	}{
		{"a", "a", true},
		{"<CR>", "\n", true},
		{"<Tab>", "\t", true},
		{"<Esc>", "", false},
		{"<", "<", true},
	}
	for _, tt := range tests {
		got, ok := Text(tt.tok)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Text(%q) = %q, %v", tt.tok, got, ok)
		}
	}
}

func TestEventToken(t *testing.T) {
	tests := []struct {
		ev   Event
		want string
	}{
		{NewRuneEvent('a', ModNone), "a"},
		{NewRuneEvent('A', ModShift), "A"},
		{NewRuneEvent('R', ModCtrl), "<C-r>"},
		{NewRuneEvent('x', ModAlt), "<A-x>"},
		{NewRuneEvent('<', ModNone), "<"},
		{NewSpecialEvent(KeyEscape, ModNone), "<Esc>"},
		{NewSpecialEvent(KeyBackspace, ModNone), "<BS>"},
		{NewSpecialEvent(KeyNone, ModNone), ""},
	}
	for _, tt := range tests {
		if got := tt.ev.Token(); got != tt.want {
			t.Errorf("Token() = %q, want %q", got, tt.want)
		}
	}
}
