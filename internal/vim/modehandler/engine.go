package modehandler

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/mo"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/dshills/modalkit/internal/engine/cursor"
	"github.com/dshills/modalkit/internal/tracing"
	"github.com/dshills/modalkit/internal/vim/action"
	"github.com/dshills/modalkit/internal/vim/state"
	"github.com/dshills/modalkit/internal/vim/transform"
)

// runOnce runs a global action a single time on the primary cursor.
func (h *Handler) runOnce(ctx context.Context, a action.Action, keys []string) error {
	vs := h.vs
	primary := vs.Cursors()[0]
	vs.CursorStart, vs.CursorStop = primary.Start, primary.Stop
	a.SetMulticursorIndex(mo.None[int]())

	if err := a.Exec(ctx, vs, keys); err != nil {
		return err
	}

	if !vs.CursorsReplaced() {
		cs := vs.Cursors()
		cs[0] = cursor.New(vs.CursorStart, vs.CursorStop)
		vs.SetCursors(cs)
	}
	vs.Recorded.Transformations.TagUntagged(0)
	return nil
}

// runPerCursor runs a once for every cursor in document order. Cursor i's
// transformations are tagged with index i, and the cursor list is replaced
// by the sorted, updated cursors.
func (h *Handler) runPerCursor(ctx context.Context, a action.Action, keys []string) error {
	vs := h.vs
	sorted := cursor.SortedByStart(vs.Cursors())
	next := make([]cursor.Cursor, 0, len(sorted))

	repeat := 1
	if a.RunsOnceForEachCountPrefix() {
		repeat = vs.Recorded.CountOr(1)
	}
	op := vs.Recorded.Operator
	m, isMotion := a.(action.Motion)

	for i, c := range sorted {
		vs.CursorStart, vs.CursorStop = c.Start, c.Stop
		a.SetMulticursorIndex(mo.Some(i))
		start := vs.Recorded.Transformations.Len()

		var err error
		if isMotion {
			err = h.runMotion(ctx, m, op, keys, repeat, c, i)
		} else {
			for n := 0; n < repeat && err == nil; n++ {
				err = a.Exec(ctx, vs, keys)
			}
		}
		if err != nil {
			return err
		}

		next = append(next, cursor.New(vs.CursorStart, vs.CursorStop))
		vs.Recorded.Transformations.TagFrom(start, i)
	}

	if !vs.CursorsReplaced() {
		vs.SetCursors(next)
	}
	if isMotion && op != nil {
		vs.Recorded.Operator = nil
	}
	return nil
}

// runMotion moves one cursor and applies the pending operator, if any, to
// the text moved over. A motion that fails before moving at all cancels the
// operator for that cursor.
func (h *Handler) runMotion(ctx context.Context, m action.Motion, op state.Operator,
	keys []string, repeat int, c cursor.Cursor, idx int) error {
	vs := h.vs
	rs := vs.Recorded
	rs.Inclusive, rs.Linewise = m.Inclusive(), m.Linewise()
	rs.MotionFailed = false

	moved := false
	for n := 0; n < repeat; n++ {
		if err := m.Exec(ctx, vs, keys); err != nil {
			return err
		}
		if rs.MotionFailed {
			break
		}
		moved = true
	}
	if moved {
		rs.MotionFailed = false
	}

	if op == nil {
		return nil
	}
	if rs.MotionFailed {
		vs.CursorStart, vs.CursorStop = c.Start, c.Stop
		return nil
	}
	if oa, ok := op.(action.Action); ok {
		oa.SetMulticursorIndex(mo.Some(idx))
	}
	return op.Run(ctx, vs, vs.CursorStart, vs.CursorStop)
}

// flush applies the queued transformations and returns the ones the handler
// runs itself.
func (h *Handler) flush(ctx context.Context) ([]transform.Transformation, error) {
	vs := h.vs
	q := &vs.Recorded.Transformations
	items := q.Items()
	q.Reset()
	if len(items) == 0 {
		return nil, nil
	}

	_, span := h.tracer.Start(ctx, "flush")
	defer span.End()

	res, err := transform.Flush(vs.Editor, vs.Cursors(), items, transform.Options{
		TabStop:   vs.Options.TabStop,
		ExpandTab: vs.Options.ExpandTab,
		Logger:    h.log,
	})
	span.SetAttributes(
		attribute.Int(tracing.AttrEdits, res.Edits),
		attribute.Int(tracing.AttrDeferred, len(res.Deferred)),
	)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	vs.SetCursors(res.Cursors)
	vs.Marks.Transform(res.Applied)
	vs.Jumps.Transform(res.Applied)
	return res.Deferred, nil
}

// runDeferred runs the transformations a flush hands back.
func (h *Handler) runDeferred(ctx context.Context, items []transform.Transformation) error {
	vs := h.vs
	for _, t := range items {
		switch t := t.(type) {
		case *transform.ReplayMacro:
			keys, err := vs.Macro.Keys(t.Register)
			if err != nil {
				return err
			}
			vs.Macro.SetLastPlayed(t.Register)
			if err := h.replay(ctx, fmt.Sprintf("@%c", t.Register), keys); err != nil {
				return err
			}
		case *transform.RepeatDot:
			if vs.Dot.IsEmpty() {
				continue
			}
			if err := h.replay(ctx, ".", vs.Dot.Keys(t.Count)); err != nil {
				return err
			}
		case *transform.ShowHistory:
			vs.Status.Set(historyListing(vs.Commands.Entries(), vs.Search.History.Entries(), t.Source), false)
		default:
			h.log.Warn().Str("kind", t.Kind().String()).Msg("unhandled deferred transformation")
		}
	}
	return nil
}

// replay feeds keys back through the handler, bypassing remaps.
func (h *Handler) replay(ctx context.Context, what string, keys []string) error {
	vs := h.vs
	if h.depth >= vs.Options.MaxReplayDepth {
		return fmt.Errorf("%w: %s", ErrReplayDepth, what)
	}
	ctx, span := h.tracer.Start(ctx, "replay", trace.WithAttributes(
		attribute.String(tracing.AttrAction, what),
		attribute.Int(tracing.AttrKeys+".count", len(keys)),
	))
	defer span.End()

	h.depth++
	vs.Macro.BeginReplay()
	defer func() {
		vs.Macro.EndReplay()
		h.depth--
	}()

	for _, tok := range keys {
		if err := h.feed(ctx, tok); err != nil {
			return err
		}
	}
	return nil
}

func historyListing(commands, searches []string, src transform.HistorySource) string {
	entries, title := commands, "cmd"
	if src == transform.SearchHistory {
		entries, title = searches, "search"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "      #  %s history", title)
	for i, e := range entries {
		fmt.Fprintf(&b, "\n%7d  %s", i+1, e)
	}
	return b.String()
}
