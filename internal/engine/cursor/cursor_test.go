package cursor

import (
	"testing"

	"github.com/dshills/modalkit/internal/engine/buffer"
)

func TestSortedByStart(t *testing.T) {
	cs := []Cursor{
		At(buffer.Pos(2, 0)),
		At(buffer.Pos(0, 5)),
		At(buffer.Pos(0, 1)),
	}

	got := SortedByStart(cs)

	want := []buffer.Position{buffer.Pos(0, 1), buffer.Pos(0, 5), buffer.Pos(2, 0)}
	for i, w := range want {
		if got[i].Start != w {
			t.Errorf("cursor %d = %s, want %s", i, got[i].Start, w)
		}
	}
	if cs[0].Start != buffer.Pos(2, 0) {
		t.Error("SortedByStart must not reorder its input")
	}
}

func TestPrimary(t *testing.T) {
	cs := []Cursor{At(buffer.Pos(3, 0)), At(buffer.Pos(1, 2))}
	if got := Primary(cs); got.Start != buffer.Pos(1, 2) {
		t.Errorf("Primary = %s", got)
	}
	if got := Primary(nil); got != (Cursor{}) {
		t.Errorf("Primary(nil) = %s", got)
	}
}

func TestEditNewEnd(t *testing.T) {
	tests := []struct {
		edit Edit
		want buffer.Position
	}{
		{Edit{Range: buffer.NewRange(buffer.Pos(1, 2), buffer.Pos(1, 2)), Text: "abc"}, buffer.Pos(1, 5)},
		{Edit{Range: buffer.NewRange(buffer.Pos(1, 2), buffer.Pos(3, 0)), Text: ""}, buffer.Pos(1, 2)},
		{Edit{Range: buffer.NewRange(buffer.Pos(0, 4), buffer.Pos(0, 4)), Text: "x\nyz"}, buffer.Pos(1, 2)},
	}

	for _, tt := range tests {
		if got := tt.edit.NewEnd(); got != tt.want {
			t.Errorf("NewEnd(%v) = %s, want %s", tt.edit, got, tt.want)
		}
	}
}

func TestTransformPosition(t *testing.T) {
	insert := Edit{Range: buffer.NewRange(buffer.Pos(0, 2), buffer.Pos(0, 2)), Text: "XY"}
	deleteLine := Edit{Range: buffer.NewRange(buffer.Pos(1, 0), buffer.Pos(2, 0))}
	split := Edit{Range: buffer.NewRange(buffer.Pos(0, 2), buffer.Pos(0, 2)), Text: "\n"}
	replace := Edit{Range: buffer.NewRange(buffer.Pos(0, 2), buffer.Pos(0, 5)), Text: "z"}

	tests := []struct {
		name string
		pos  buffer.Position
		edit Edit
		want buffer.Position
	}{
		{"before insert", buffer.Pos(0, 1), insert, buffer.Pos(0, 1)},
		{"at insert", buffer.Pos(0, 2), insert, buffer.Pos(0, 4)},
		{"after insert same line", buffer.Pos(0, 6), insert, buffer.Pos(0, 8)},
		{"after insert next line", buffer.Pos(1, 6), insert, buffer.Pos(1, 6)},
		{"inside deleted line", buffer.Pos(1, 3), deleteLine, buffer.Pos(1, 0)},
		{"below deleted line", buffer.Pos(3, 1), deleteLine, buffer.Pos(2, 1)},
		{"at deleted end", buffer.Pos(2, 4), deleteLine, buffer.Pos(1, 4)},
		{"split moves tail", buffer.Pos(0, 3), split, buffer.Pos(1, 1)},
		{"split shifts lines", buffer.Pos(4, 0), split, buffer.Pos(5, 0)},
		{"replace start stays", buffer.Pos(0, 2), replace, buffer.Pos(0, 2)},
		{"replace inside collapses", buffer.Pos(0, 4), replace, buffer.Pos(0, 2)},
		{"replace after shifts", buffer.Pos(0, 7), replace, buffer.Pos(0, 5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TransformPosition(tt.pos, tt.edit); got != tt.want {
				t.Errorf("TransformPosition = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestTransformPositionSticky(t *testing.T) {
	insert := Edit{Range: buffer.NewRange(buffer.Pos(0, 2), buffer.Pos(0, 2)), Text: "XY"}
	if got := TransformPositionSticky(buffer.Pos(0, 2), insert); got != buffer.Pos(0, 2) {
		t.Errorf("sticky position moved to %s", got)
	}
	if got := TransformPositionSticky(buffer.Pos(0, 3), insert); got != buffer.Pos(0, 5) {
		t.Errorf("position after insert = %s, want (0:5)", got)
	}
}

func TestTransformAll(t *testing.T) {
	cs := []Cursor{At(buffer.Pos(0, 0)), New(buffer.Pos(1, 0), buffer.Pos(1, 2))}
	TransformAll(cs, Edit{Range: buffer.NewRange(buffer.Pos(0, 0), buffer.Pos(0, 0)), Text: "-"})

	if cs[0].Start != buffer.Pos(0, 1) {
		t.Errorf("cursor 0 = %s", cs[0])
	}
	if cs[1].Stop != buffer.Pos(1, 2) {
		t.Errorf("cursor 1 = %s", cs[1])
	}
}
