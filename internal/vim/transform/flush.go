package transform

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/samber/mo"

	"github.com/dshills/modalkit/internal/engine/buffer"
	"github.com/dshills/modalkit/internal/engine/cursor"
)

// Editor is the buffer surface a flush edits.
type Editor interface {
	Replace(r buffer.Range, text string) (buffer.Position, error)
	LineAt(line int) (string, error)
	LineCount() int
}

// Options configure a flush.
type Options struct {
	TabStop   int
	ExpandTab bool
	Logger    zerolog.Logger
}

// Result is the outcome of a flush.
type Result struct {
	// Cursors holds the new cursor ranges, in the same order as the input.
	Cursors []cursor.Cursor
	// Deferred holds transformations the caller must run itself.
	Deferred []Transformation
	// Edits is the number of edits applied to the buffer.
	Edits int
	// LinesDelta is the change in line count.
	LinesDelta int
	// Applied lists the applied edits in application order. Positions held
	// outside the cursor list, such as marks, can be mapped through them.
	Applied []cursor.Edit
}

// edit is a resolved buffer change.
type edit struct {
	cursor.Edit
	owner int
	order int
	exact mo.Option[buffer.Position]
}

type exactMarker struct {
	owner int
	pos   buffer.Position
}

type relative struct {
	owner int
	diff  PositionDiff
}

// Flush applies the transformations to ed and returns the resulting cursors.
//
// Edits are applied from the end of the document towards the start. Edits
// starting at the same position are applied deletions first, then insertions
// with later queue entries first, so that text inserted by an earlier queue
// entry ends up before text inserted by a later one. An edit overlapping one
// that has already been applied is clipped; an identical duplicate is
// dropped.
//
// Flush panics if a cursor-bound transformation has no cursor index or an
// index outside the cursor list.
func Flush(ed Editor, cursors []cursor.Cursor, items []Transformation, opts Options) (Result, error) {
	res := Result{Cursors: make([]cursor.Cursor, len(cursors))}
	copy(res.Cursors, cursors)

	var (
		edits   []edit
		markers []exactMarker
		rels    []relative
	)
	linesBefore := ed.LineCount()

	for order, t := range items {
		if !t.Kind().IsCursorBound() {
			res.Deferred = append(res.Deferred, t)
			continue
		}
		owner := ownerOf(t, len(cursors))

		e, ok, diff := resolve(ed, t, opts)
		if d, has := diff.Get(); has {
			switch {
			case d.Kind != DiffExactPosition:
				rels = append(rels, relative{owner: owner, diff: d})
			case !ok:
				// A move or a skipped edit: the position is in pre-flush
				// coordinates and rides along with every edit.
				markers = append(markers, exactMarker{owner: owner, pos: d.Position})
			default:
				e.exact = mo.Some(d.Position)
			}
		}
		if ok {
			e.owner, e.order = owner, order
			edits = append(edits, e)
		}
	}

	sort.SliceStable(edits, func(i, j int) bool {
		a, b := edits[i], edits[j]
		if c := a.Range.Start.Compare(b.Range.Start); c != 0 {
			return c > 0
		}
		if a.Range.IsEmpty() != b.Range.IsEmpty() {
			return !a.Range.IsEmpty()
		}
		return a.order > b.order
	})

	var (
		lowest  buffer.Position
		applied []cursor.Edit
	)
	for i, e := range edits {
		if i > 0 {
			if isDuplicate(e.Edit, applied) {
				opts.Logger.Debug().Str("range", e.Range.String()).Msg("dropped duplicate edit")
				markers = keepExact(markers, e)
				continue
			}
			if e.Range.End.IsAfter(lowest) {
				opts.Logger.Debug().
					Str("range", e.Range.String()).
					Str("clip", lowest.String()).
					Msg("clipped overlapping edit")
				e.Range.End = buffer.EarlierOf(e.Range.End, buffer.LaterOf(lowest, e.Range.Start))
				if e.Range.IsEmpty() && e.Text == "" {
					markers = keepExact(markers, e)
					continue
				}
			}
		}

		if _, err := ed.Replace(e.Range, e.Text); err != nil {
			return res, fmt.Errorf("apply %s at %s: %w", kindOf(items, e.order), e.Range, err)
		}
		res.Edits++
		applied = append(applied, e.Edit)
		lowest = e.Range.Start

		cursor.TransformAll(res.Cursors, e.Edit)
		for m := range markers {
			markers[m].pos = cursor.TransformPosition(markers[m].pos, e.Edit)
		}
		if p, ok := e.exact.Get(); ok {
			markers = append(markers, exactMarker{owner: e.owner, pos: p})
		}
	}

	lineAt := func(line int) string {
		text, _ := ed.LineAt(min(line, ed.LineCount()-1))
		return text
	}
	for _, m := range markers {
		res.Cursors[m.owner] = cursor.At(m.pos)
	}
	for _, r := range rels {
		c := res.Cursors[r.owner]
		res.Cursors[r.owner] = cursor.New(r.diff.apply(c.Start, lineAt), r.diff.apply(c.Stop, lineAt))
	}
	for i, c := range res.Cursors {
		res.Cursors[i] = cursor.New(clamp(ed, c.Start), clamp(ed, c.Stop))
	}

	res.LinesDelta = ed.LineCount() - linesBefore
	res.Applied = applied
	return res, nil
}

// ownerOf returns the cursor index of a cursor-bound transformation.
func ownerOf(t Transformation, cursorCount int) int {
	idx, ok := CursorIndexOf(t).Get()
	if !ok {
		panic(fmt.Sprintf("transform: %s has no cursor index", t.Kind()))
	}
	if idx < 0 || idx >= cursorCount {
		panic(fmt.Sprintf("transform: %s cursor index %d out of range [0,%d)", t.Kind(), idx, cursorCount))
	}
	return idx
}

// resolve turns a cursor-bound transformation into a concrete edit.
// ok is false when the transformation does not edit the buffer.
func resolve(ed Editor, t Transformation, opts Options) (e edit, ok bool, diff mo.Option[PositionDiff]) {
	switch t := t.(type) {
	case *InsertText:
		return edit{Edit: cursor.Edit{Range: buffer.NewRange(t.Position, t.Position), Text: t.Text}}, true, t.Diff
	case *ReplaceText:
		return edit{Edit: cursor.Edit{Range: buffer.NewRange(t.Range.Start, t.Range.End), Text: t.Text}}, true, t.Diff
	case *DeleteRange:
		r := buffer.NewRange(t.Range.Start, t.Range.End)
		return edit{Edit: cursor.Edit{Range: r}}, !r.IsEmpty(), t.Diff
	case *DeleteText:
		r, ok := backspaceRange(ed, t.Position)
		return edit{Edit: cursor.Edit{Range: r}}, ok, t.Diff
	case *InsertTab:
		text := tabText(ed, t.Position, opts)
		return edit{Edit: cursor.Edit{Range: buffer.NewRange(t.Position, t.Position), Text: text}}, true, t.Diff
	case *MoveCursor:
		return edit{}, false, mo.Some(t.Diff)
	}
	return edit{}, false, mo.None[PositionDiff]()
}

func backspaceRange(ed Editor, p buffer.Position) (buffer.Range, bool) {
	if p.Character > 0 {
		line, err := ed.LineAt(p.Line)
		if err != nil {
			return buffer.Range{}, false
		}
		return buffer.NewRange(buffer.Pos(p.Line, buffer.PrevGraphemeStart(line, p.Character)), p), true
	}
	if p.Line == 0 {
		return buffer.Range{}, false
	}
	prev, err := ed.LineAt(p.Line - 1)
	if err != nil {
		return buffer.Range{}, false
	}
	return buffer.NewRange(buffer.Pos(p.Line-1, len([]rune(prev))), p), true
}

func tabText(ed Editor, p buffer.Position, opts Options) string {
	if !opts.ExpandTab {
		return "\t"
	}
	tabStop := max(opts.TabStop, 1)
	line, _ := ed.LineAt(p.Line)
	col := buffer.DisplayColumn(line, p.Character, tabStop)
	return strings.Repeat(" ", tabStop-col%tabStop)
}

// keepExact records the exact cursor placement of an edit that was not
// applied.
func keepExact(markers []exactMarker, e edit) []exactMarker {
	if p, ok := e.exact.Get(); ok {
		markers = append(markers, exactMarker{owner: e.owner, pos: p})
	}
	return markers
}

func isDuplicate(e cursor.Edit, applied []cursor.Edit) bool {
	if e.Range.IsEmpty() {
		return false
	}
	for _, a := range applied {
		if a == e {
			return true
		}
	}
	return false
}

func clamp(ed Editor, p buffer.Position) buffer.Position {
	p.Line = min(max(p.Line, 0), ed.LineCount()-1)
	line, _ := ed.LineAt(p.Line)
	p.Character = min(max(p.Character, 0), len([]rune(line)))
	return p
}

func kindOf(items []Transformation, order int) Kind {
	return items[order].Kind()
}
