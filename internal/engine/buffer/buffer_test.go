package buffer

import (
	"errors"
	"sync"
	"testing"
)

func TestNewBuffer(t *testing.T) {
	b := NewBuffer()

	if b.LineCount() != 1 {
		t.Errorf("expected 1 line, got %d", b.LineCount())
	}
	if b.Text() != "" {
		t.Errorf("expected empty text, got %q", b.Text())
	}
}

func TestNewBufferFromString(t *testing.T) {
	b := NewBufferFromString("ab\ncd\n")

	if b.LineCount() != 3 {
		t.Fatalf("expected 3 lines, got %d", b.LineCount())
	}
	line, err := b.LineAt(1)
	if err != nil || line != "cd" {
		t.Errorf("LineAt(1) = %q, %v", line, err)
	}
	if b.Text() != "ab\ncd\n" {
		t.Errorf("Text() = %q", b.Text())
	}
}

func TestBufferCRLF(t *testing.T) {
	b := NewBufferFromString("a\r\nb")

	if b.LineCount() != 2 {
		t.Fatalf("expected 2 lines, got %d", b.LineCount())
	}
	if b.Text() != "a\r\nb" {
		t.Errorf("Text() = %q, want CRLF preserved", b.Text())
	}
}

func TestBufferInsert(t *testing.T) {
	tests := []struct {
		name    string
		initial string
		pos     Position
		text    string
		want    string
		wantEnd Position
	}{
		{"start", "world", Pos(0, 0), "hello ", "hello world", Pos(0, 6)},
		{"end of line", "ab", Pos(0, 2), "c", "abc", Pos(0, 3)},
		{"newline", "ab", Pos(0, 1), "\n", "a\nb", Pos(1, 0)},
		{"multi-line", "ad", Pos(0, 1), "b\nc", "ab\ncd", Pos(1, 1)},
		{"unicode", "héllo", Pos(0, 2), "X", "héXllo", Pos(0, 3)},
		{"second line", "a\nb", Pos(1, 1), "!", "a\nb!", Pos(1, 2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBufferFromString(tt.initial)
			end, err := b.Insert(tt.pos, tt.text)
			if err != nil {
				t.Fatalf("Insert error: %v", err)
			}
			if b.Text() != tt.want {
				t.Errorf("Text() = %q, want %q", b.Text(), tt.want)
			}
			if end != tt.wantEnd {
				t.Errorf("end = %s, want %s", end, tt.wantEnd)
			}
		})
	}
}

func TestBufferDelete(t *testing.T) {
	tests := []struct {
		name    string
		initial string
		r       Range
		want    string
	}{
		{"chars", "hello world", NewRange(Pos(0, 0), Pos(0, 3)), "lo world"},
		{"line join", "ab\ncd", NewRange(Pos(0, 2), Pos(1, 0)), "abcd"},
		{"whole line", "ab\ncd\nef", NewRange(Pos(1, 0), Pos(2, 0)), "ab\nef"},
		{"reversed", "abc", Range{Start: Pos(0, 2), End: Pos(0, 1)}, "ac"},
		{"empty", "abc", NewRange(Pos(0, 1), Pos(0, 1)), "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBufferFromString(tt.initial)
			if err := b.Delete(tt.r); err != nil {
				t.Fatalf("Delete error: %v", err)
			}
			if b.Text() != tt.want {
				t.Errorf("Text() = %q, want %q", b.Text(), tt.want)
			}
		})
	}
}

func TestBufferReplace(t *testing.T) {
	b := NewBufferFromString("one\ntwo\nthree")
	end, err := b.Replace(NewRange(Pos(0, 1), Pos(2, 2)), "X")
	if err != nil {
		t.Fatalf("Replace error: %v", err)
	}
	if b.Text() != "oXree" {
		t.Errorf("Text() = %q", b.Text())
	}
	if end != Pos(0, 2) {
		t.Errorf("end = %s", end)
	}
}

func TestBufferTextRange(t *testing.T) {
	b := NewBufferFromString("one\ntwo\nthree")

	got, err := b.TextRange(NewRange(Pos(0, 1), Pos(2, 2)))
	if err != nil {
		t.Fatalf("TextRange error: %v", err)
	}
	if got != "ne\ntwo\nth" {
		t.Errorf("TextRange = %q", got)
	}

	if _, err := b.TextRange(NewRange(Pos(0, 0), Pos(5, 0))); !errors.Is(err, ErrLineOutOfRange) {
		t.Errorf("expected ErrLineOutOfRange, got %v", err)
	}
}

func TestBufferValidatePosition(t *testing.T) {
	b := NewBufferFromString("abc")

	if err := b.ValidatePosition(Pos(0, 3)); err != nil {
		t.Errorf("end of line should be valid: %v", err)
	}
	if err := b.ValidatePosition(Pos(0, 4)); !errors.Is(err, ErrPositionOutOfRange) {
		t.Errorf("expected ErrPositionOutOfRange, got %v", err)
	}
	if got := b.ClampPosition(Pos(3, 9)); got != Pos(0, 3) {
		t.Errorf("ClampPosition = %s", got)
	}
}

func TestBufferReadOnly(t *testing.T) {
	b := NewBufferFromString("abc", WithReadOnly())
	rev := b.Revision()

	if _, err := b.Insert(Pos(0, 0), "x"); !errors.Is(err, ErrReadOnly) {
		t.Errorf("expected ErrReadOnly, got %v", err)
	}
	if b.Revision() != rev {
		t.Error("revision changed on rejected edit")
	}
}

func TestBufferRevisionChanges(t *testing.T) {
	b := NewBufferFromString("abc")
	rev := b.Revision()
	if _, err := b.Insert(Pos(0, 0), "x"); err != nil {
		t.Fatal(err)
	}
	if b.Revision() == rev {
		t.Error("revision should change after an edit")
	}
}

func TestBufferCursorsAfterSync(t *testing.T) {
	b := NewBufferFromString("ab\ncd")
	b.SetSelections([]Range{NewRange(Pos(1, 1), Pos(1, 1)), NewRange(Pos(4, 0), Pos(4, 9))})

	got := b.CursorsAfterSync()
	if len(got) != 2 {
		t.Fatalf("expected 2 selections, got %d", len(got))
	}
	if got[0] != NewRange(Pos(1, 1), Pos(1, 1)) {
		t.Errorf("in-range selection should be kept, got %s", got[0])
	}
	if got[1].Start != Pos(1, 2) || got[1].End != Pos(1, 2) {
		t.Errorf("out-of-range selection should clamp, got %s", got[1])
	}
	if p := b.ClampPosition(Pos(7, 0)); p != Pos(1, 2) {
		t.Errorf("ClampPosition past the last line = %s, want end of document", p)
	}
}

func TestBufferConcurrentAccess(t *testing.T) {
	b := NewBuffer()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = b.Insert(Pos(0, 0), "x")
			_ = b.Text()
		}()
	}
	wg.Wait()
	if b.LineLen(0) != 10 {
		t.Errorf("expected 10 characters, got %d", b.LineLen(0))
	}
}

func TestGraphemeBoundaries(t *testing.T) {
	// "e" + combining acute accent forms one cluster of two runes.
	line := "ae\u0301b"

	if got := NextGraphemeStart(line, 1); got != 3 {
		t.Errorf("NextGraphemeStart = %d, want 3", got)
	}
	if got := PrevGraphemeStart(line, 3); got != 1 {
		t.Errorf("PrevGraphemeStart = %d, want 1", got)
	}
	if got := GraphemeStartAt(line, 2); got != 1 {
		t.Errorf("GraphemeStartAt = %d, want 1", got)
	}
	if got := LastGraphemeStart(line); got != 3 {
		t.Errorf("LastGraphemeStart = %d, want 3", got)
	}
	if got := LastGraphemeStart(""); got != 0 {
		t.Errorf("LastGraphemeStart(\"\") = %d, want 0", got)
	}
}

func TestFirstNonBlankAndDisplayColumn(t *testing.T) {
	if got := FirstNonBlank("  \tfoo"); got != 3 {
		t.Errorf("FirstNonBlank = %d, want 3", got)
	}
	if got := FirstNonBlank("   "); got != 3 {
		t.Errorf("FirstNonBlank(blank) = %d, want 3", got)
	}
	if got := Indentation("\t  x"); got != "\t  " {
		t.Errorf("Indentation = %q", got)
	}
	if got := DisplayColumn("a\tb", 2, 4); got != 4 {
		t.Errorf("DisplayColumn = %d, want 4", got)
	}
	if got := DisplayColumn("日本", 1, 4); got != 2 {
		t.Errorf("DisplayColumn(wide) = %d, want 2", got)
	}
}
