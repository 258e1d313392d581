package transform

import (
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/samber/mo"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/dshills/modalkit/internal/engine/buffer"
	"github.com/dshills/modalkit/internal/engine/cursor"
)

func tagged(i int) Origin {
	return Origin{CursorIndex: mo.Some(i)}
}

func at(line, char int) cursor.Cursor {
	return cursor.At(buffer.Pos(line, char))
}

func TestFlush_InsertPerCursor(t *testing.T) {
	buf := buffer.NewBufferFromString("ab\ncd")
	cursors := []cursor.Cursor{at(0, 0), at(1, 0)}
	items := []Transformation{
		&InsertText{Origin: tagged(0), Position: buffer.Pos(0, 0), Text: "-"},
		&InsertText{Origin: tagged(1), Position: buffer.Pos(1, 0), Text: "-"},
	}

	res, err := Flush(buf, cursors, items, Options{})
	require.NoError(t, err)

	require.Equal(t, "-ab\n-cd", buf.Text())
	require.Equal(t, []cursor.Cursor{at(0, 1), at(1, 1)}, res.Cursors)
	require.Equal(t, 2, res.Edits)
}

func TestFlush_MoveCursorOffset(t *testing.T) {
	buf := buffer.NewBufferFromString("-ab\n-cd")
	cursors := []cursor.Cursor{at(0, 1), at(1, 1)}
	items := []Transformation{
		&MoveCursor{Origin: tagged(0), Diff: Offset(0, -1)},
		&MoveCursor{Origin: tagged(1), Diff: Offset(0, -1)},
	}

	res, err := Flush(buf, cursors, items, Options{})
	require.NoError(t, err)
	require.Equal(t, []cursor.Cursor{at(0, 0), at(1, 0)}, res.Cursors)
	require.Zero(t, res.Edits)
}

func TestFlush_DeleteLineFirstNonBlank(t *testing.T) {
	buf := buffer.NewBufferFromString("one\n  two\nthree")
	items := []Transformation{
		&DeleteRange{
			Origin: tagged(0),
			Range:  buffer.NewRange(buffer.Pos(0, 0), buffer.Pos(1, 0)),
			Diff:   mo.Some(FirstNonBlank(0)),
		},
	}

	res, err := Flush(buf, []cursor.Cursor{at(0, 2)}, items, Options{})
	require.NoError(t, err)
	require.Equal(t, "  two\nthree", buf.Text())
	require.Equal(t, at(0, 2), res.Cursors[0])
	require.Equal(t, -1, res.LinesDelta)
}

func TestFlush_ExactPositionFollowsEarlierEdits(t *testing.T) {
	buf := buffer.NewBufferFromString("a\nb")
	cursors := []cursor.Cursor{at(0, 0), at(1, 0)}
	items := []Transformation{
		&InsertText{Origin: tagged(0), Position: buffer.Pos(0, 0), Text: "X\n"},
		&InsertText{
			Origin:   tagged(1),
			Position: buffer.Pos(1, 0),
			Text:     "abc",
			Diff:     mo.Some(ExactPosition(buffer.Pos(1, 2))),
		},
	}

	res, err := Flush(buf, cursors, items, Options{})
	require.NoError(t, err)
	require.Equal(t, "X\na\nabcb", buf.Text())
	require.Equal(t, at(2, 2), res.Cursors[1])
	require.Equal(t, at(1, 0), res.Cursors[0])
}

func TestFlush_MoveCursorExactUsesPreFlushCoordinates(t *testing.T) {
	buf := buffer.NewBufferFromString("abc\ndef")
	items := []Transformation{
		&InsertText{Origin: tagged(0), Position: buffer.Pos(0, 0), Text: "new\n"},
		&MoveCursor{Origin: tagged(1), Diff: ExactPosition(buffer.Pos(1, 1))},
	}

	res, err := Flush(buf, []cursor.Cursor{at(0, 0), at(1, 2)}, items, Options{})
	require.NoError(t, err)
	require.Equal(t, at(2, 1), res.Cursors[1])
}

func TestFlush_SamePositionKeepsQueueOrder(t *testing.T) {
	buf := buffer.NewBufferFromString("x")
	items := []Transformation{
		&InsertText{Origin: tagged(0), Position: buffer.Pos(0, 0), Text: "1"},
		&InsertText{Origin: tagged(0), Position: buffer.Pos(0, 0), Text: "2"},
	}

	_, err := Flush(buf, []cursor.Cursor{at(0, 0)}, items, Options{})
	require.NoError(t, err)
	require.Equal(t, "12x", buf.Text())
}

func TestFlush_DeleteBeforeInsertAtSamePosition(t *testing.T) {
	buf := buffer.NewBufferFromString("abcdef")
	items := []Transformation{
		&InsertText{Origin: tagged(0), Position: buffer.Pos(0, 2), Text: "XY"},
		&DeleteRange{Origin: tagged(0), Range: buffer.NewRange(buffer.Pos(0, 2), buffer.Pos(0, 4))},
	}

	_, err := Flush(buf, []cursor.Cursor{at(0, 2)}, items, Options{})
	require.NoError(t, err)
	require.Equal(t, "abXYef", buf.Text())
}

func TestFlush_DuplicateDeleteDropped(t *testing.T) {
	buf := buffer.NewBufferFromString("abc")
	items := []Transformation{
		&DeleteRange{Origin: tagged(0), Range: buffer.NewRange(buffer.Pos(0, 1), buffer.Pos(0, 2))},
		&DeleteRange{Origin: tagged(1), Range: buffer.NewRange(buffer.Pos(0, 1), buffer.Pos(0, 2))},
	}

	res, err := Flush(buf, []cursor.Cursor{at(0, 1), at(0, 1)}, items, Options{})
	require.NoError(t, err)
	require.Equal(t, "ac", buf.Text())
	require.Equal(t, 1, res.Edits)
	require.Len(t, res.Cursors, 2)
}

func TestFlush_OverlapClipped(t *testing.T) {
	buf := buffer.NewBufferFromString("abcdef")
	items := []Transformation{
		&DeleteRange{Origin: tagged(0), Range: buffer.NewRange(buffer.Pos(0, 0), buffer.Pos(0, 4))},
		&DeleteRange{Origin: tagged(1), Range: buffer.NewRange(buffer.Pos(0, 2), buffer.Pos(0, 5))},
	}

	_, err := Flush(buf, []cursor.Cursor{at(0, 0), at(0, 2)}, items, Options{})
	require.NoError(t, err)
	require.Equal(t, "f", buf.Text())
}

func TestFlush_Backspace(t *testing.T) {
	tests := []struct {
		name string
		text string
		pos  buffer.Position
		want string
		cur  cursor.Cursor
	}{
		{"mid line", "abc", buffer.Pos(0, 2), "ac", at(0, 1)},
		{"joins lines", "ab\ncd", buffer.Pos(1, 0), "abcd", at(0, 2)},
		{"start of buffer", "ab", buffer.Pos(0, 0), "ab", at(0, 0)},
		{"grapheme", "ae\u0301", buffer.Pos(0, 3), "a", at(0, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := buffer.NewBufferFromString(tt.text)
			items := []Transformation{&DeleteText{Origin: tagged(0), Position: tt.pos}}

			res, err := Flush(buf, []cursor.Cursor{cursor.At(tt.pos)}, items, Options{})
			require.NoError(t, err)
			require.Equal(t, tt.want, buf.Text())
			require.Equal(t, tt.cur, res.Cursors[0])
		})
	}
}

func TestFlush_InsertTab(t *testing.T) {
	buf := buffer.NewBufferFromString("ab")
	items := []Transformation{&InsertTab{Origin: tagged(0), Position: buffer.Pos(0, 1)}}

	res, err := Flush(buf, []cursor.Cursor{at(0, 1)}, items, Options{TabStop: 4, ExpandTab: true})
	require.NoError(t, err)
	require.Equal(t, "a   b", buf.Text())
	require.Equal(t, at(0, 4), res.Cursors[0])

	buf = buffer.NewBufferFromString("ab")
	_, err = Flush(buf, []cursor.Cursor{at(0, 1)}, []Transformation{&InsertTab{Origin: tagged(0), Position: buffer.Pos(0, 1)}}, Options{})
	require.NoError(t, err)
	require.Equal(t, "a\tb", buf.Text())
}

func TestFlush_DeferredKinds(t *testing.T) {
	buf := buffer.NewBufferFromString("abc")
	macro := &ReplayMacro{Register: 'q'}
	dot := &RepeatDot{Count: 2}
	hist := &ShowHistory{Source: SearchHistory}

	res, err := Flush(buf, []cursor.Cursor{at(0, 0)}, []Transformation{macro, dot, hist}, Options{})
	require.NoError(t, err)
	require.Equal(t, []Transformation{macro, dot, hist}, res.Deferred)
	require.Equal(t, "abc", buf.Text())
}

func TestFlush_UntaggedPanics(t *testing.T) {
	buf := buffer.NewBufferFromString("abc")
	items := []Transformation{&InsertText{Position: buffer.Pos(0, 0), Text: "x"}}

	require.PanicsWithValue(t, "transform: insertText has no cursor index", func() {
		_, _ = Flush(buf, []cursor.Cursor{at(0, 0)}, items, Options{})
	})
}

func TestFlush_IndexOutOfRangePanics(t *testing.T) {
	buf := buffer.NewBufferFromString("abc")
	items := []Transformation{&MoveCursor{Origin: tagged(3), Diff: Offset(0, 1)}}

	require.Panics(t, func() {
		_, _ = Flush(buf, []cursor.Cursor{at(0, 0)}, items, Options{})
	})
}

func TestFlush_EditorErrorPropagates(t *testing.T) {
	buf := buffer.NewBufferFromString("abc", buffer.WithReadOnly())
	items := []Transformation{&InsertText{Origin: tagged(0), Position: buffer.Pos(0, 0), Text: "x"}}

	_, err := Flush(buf, []cursor.Cursor{at(0, 0)}, items, Options{})
	require.True(t, errors.Is(err, buffer.ErrReadOnly))
}

func TestFlush_ClampsCursors(t *testing.T) {
	buf := buffer.NewBufferFromString("ab")
	items := []Transformation{&MoveCursor{Origin: tagged(0), Diff: Offset(5, 9)}}

	res, err := Flush(buf, []cursor.Cursor{at(0, 0)}, items, Options{})
	require.NoError(t, err)
	require.Equal(t, at(0, 2), res.Cursors[0])
}

// Deleting any set of distinct characters gives the same text regardless of
// the order the deletions were queued in, and never changes the cursor count.
func TestFlush_DisjointDeletesOrderIndependent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		text := rapid.StringMatching(`[a-z]{1,30}`).Draw(t, "text")
		n := len(text)
		cols := rapid.SliceOfNDistinct(rapid.IntRange(0, n-1), 1, n, rapid.ID[int]).Draw(t, "cols")
		perm := rapid.Permutation(cols).Draw(t, "order")

		cursors := make([]cursor.Cursor, len(cols))
		items := make([]Transformation, 0, len(cols))
		for i, c := range perm {
			cursors[i] = at(0, c)
			items = append(items, &DeleteRange{
				Origin: tagged(i),
				Range:  buffer.NewRange(buffer.Pos(0, c), buffer.Pos(0, c+1)),
			})
		}

		buf := buffer.NewBufferFromString(text)
		res, err := Flush(buf, cursors, items, Options{})
		if err != nil {
			t.Fatalf("flush: %v", err)
		}

		sorted := append([]int(nil), cols...)
		sort.Ints(sorted)
		var want strings.Builder
		next := 0
		for i := 0; i < n; i++ {
			if next < len(sorted) && sorted[next] == i {
				next++
				continue
			}
			want.WriteByte(text[i])
		}
		if buf.Text() != want.String() {
			t.Fatalf("text = %q, want %q", buf.Text(), want.String())
		}
		if len(res.Cursors) != len(cols) {
			t.Fatalf("cursor count = %d, want %d", len(res.Cursors), len(cols))
		}
	})
}

func TestQueueTagging(t *testing.T) {
	var q Queue
	first := &InsertText{Position: buffer.Pos(0, 0)}
	q.Add(first)
	second := &DeleteRange{}
	third := &MoveCursor{Origin: tagged(5)}
	q.Add(second, third)

	q.TagFrom(1, 2)
	require.True(t, CursorIndexOf(first).IsAbsent())
	require.Equal(t, mo.Some(2), CursorIndexOf(second))
	require.Equal(t, mo.Some(5), CursorIndexOf(third), "tagging must not overwrite an existing index")

	q.TagUntagged(0)
	require.Equal(t, mo.Some(0), CursorIndexOf(first))
	require.True(t, q.Has(KindMoveCursor))
	require.False(t, q.Has(KindReplayMacro))

	q.Reset()
	require.Zero(t, q.Len())
}

func TestPositionDiffString(t *testing.T) {
	require.Equal(t, "line+0 col-1", Offset(0, -1).String())
	require.Equal(t, "line+1 ^", FirstNonBlank(1).String())
	require.Equal(t, "at (2:3)", ExactPosition(buffer.Pos(2, 3)).String())
}
