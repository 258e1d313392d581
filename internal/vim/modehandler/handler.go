package modehandler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/dshills/modalkit/internal/input/key"
	"github.com/dshills/modalkit/internal/tracing"
	"github.com/dshills/modalkit/internal/vim/action"
	"github.com/dshills/modalkit/internal/vim/mode"
	"github.com/dshills/modalkit/internal/vim/state"
)

// Errors returned by the handler.
var (
	ErrClosed      = errors.New("handler closed")
	ErrReplayDepth = errors.New("macro replay nested too deeply")
)

// Remapper rewrites typed keys before they reach the action registry.
type Remapper interface {
	// Remap returns the keys to process for the keys typed so far. pending
	// is true when more keys could complete a mapping; the caller then
	// buffers the keys and calls again with the next one appended.
	Remap(m mode.Mode, typed []string) (out []string, pending bool)
}

// Hook observes key handling.
type Hook interface {
	// PreKey is called before a typed key is processed. Return true to
	// consume the key.
	PreKey(tok string, vs *state.VimState) bool
	// PostAction is called after an action ran and its changes were applied.
	PostAction(name string, vs *state.VimState)
}

// Handler turns key tokens into actions and applies them to a VimState.
// It is safe for concurrent use; keys are processed one at a time.
type Handler struct {
	mu sync.Mutex

	vs       *state.VimState
	registry *action.Registry
	remapper Remapper
	tracer   trace.Tracer
	log      zerolog.Logger
	hooks    []Hook

	// typed holds keys buffered while they could still complete a remap.
	typed []string
	// depth is the nesting of macro and "." replays.
	depth  int
	closed bool
}

// Option configures a Handler.
type Option func(*Handler)

// WithRegistry sets the action registry.
func WithRegistry(r *action.Registry) Option {
	return func(h *Handler) { h.registry = r }
}

// WithRemapper sets the key remapper.
func WithRemapper(r Remapper) Option {
	return func(h *Handler) { h.remapper = r }
}

// WithTracer sets the tracer used for key and action spans.
func WithTracer(t trace.Tracer) Option {
	return func(h *Handler) { h.tracer = t }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(h *Handler) { h.log = l }
}

// WithHook adds a hook.
func WithHook(hook Hook) Option {
	return func(h *Handler) { h.hooks = append(h.hooks, hook) }
}

// New creates a handler for vs.
func New(vs *state.VimState, opts ...Option) *Handler {
	h := &Handler{
		vs:     vs,
		tracer: noop.NewTracerProvider().Tracer("modalkit"),
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.registry == nil {
		h.registry = action.Default(h.log)
	}
	return h
}

// State returns the state the handler edits.
func (h *Handler) State() *state.VimState {
	return h.vs
}

// Registry returns the action registry.
func (h *Handler) Registry() *action.Registry {
	return h.registry
}

// HandleKeys processes keys written in Vim notation, such as "3dw" or
// "ihello<Esc>". Processing stops at the first error.
func (h *Handler) HandleKeys(ctx context.Context, keys string) error {
	for _, tok := range key.Tokenize(keys) {
		if err := h.HandleKey(ctx, tok); err != nil {
			return err
		}
	}
	return nil
}

// HandleKey processes one typed key token.
func (h *Handler) HandleKey(ctx context.Context, tok string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrClosed
	}
	for _, hook := range h.hooks {
		if hook.PreKey(tok, h.vs) {
			return nil
		}
	}

	ctx, span := h.tracer.Start(ctx, "handleKey", trace.WithAttributes(
		attribute.String(tracing.AttrKeys, tok),
		attribute.String(tracing.AttrMode, h.vs.Modes.Current().String()),
	))
	defer span.End()

	toks := []string{tok}
	if h.remapper != nil {
		h.typed = append(h.typed, tok)
		out, pending := h.remapper.Remap(h.vs.Modes.Current(), h.typed)
		if pending {
			return nil
		}
		h.typed = nil
		toks = out
	}

	for _, t := range toks {
		if err := h.feed(ctx, t); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
	}
	return nil
}

// PendingKeys returns the keys typed for the command in progress, for
// display.
func (h *Handler) PendingKeys() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	rs := h.vs.Recorded
	var out []string
	for _, a := range rs.ActionsRun {
		out = append(out, a.Keys...)
	}
	out = append(out, h.typed...)
	out = append(out, rs.PendingKeys...)
	return key.Join(out)
}

// Do runs fn with the key lock held, so fn may change the state or the
// remapper between keys.
func (h *Handler) Do(fn func(vs *state.VimState)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fn(h.vs)
}

// Close stops the handler. Later keys return ErrClosed.
func (h *Handler) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
}

// IsClosed returns true after Close.
func (h *Handler) IsClosed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}

// feed processes one key after remapping.
func (h *Handler) feed(ctx context.Context, tok string) error {
	vs := h.vs
	cur := vs.Modes.Current()

	if cur == mode.Disabled && tok != action.ExtensionEnable {
		return nil
	}

	if tok == key.Esc && vs.Recorded.IsPending() {
		if cur.IsInsertLike() {
			vs.Recorded.PendingKeys = nil
		} else {
			h.log.Debug().Str("keys", h.pendingText()).Msg("command aborted")
			vs.ResetCommand()
			vs.CommandLine = ""
			return vs.Modes.Transition(mode.Normal)
		}
	}

	rs := vs.Recorded
	rs.PendingKeys = append(rs.PendingKeys, tok)
	m := h.registry.Resolve(vs, cur, rs.PendingKeys)
	if m.Action == nil {
		if m.Partial {
			return nil
		}
		h.log.Debug().
			Str("mode", cur.String()).
			Str("keys", key.Join(rs.PendingKeys)).
			Msg("no action for keys")
		if cur.IsInsertLike() {
			rs.PendingKeys = nil
		} else {
			vs.ResetCommand()
		}
		return nil
	}

	keys := rs.PendingKeys
	rs.PendingKeys = nil
	return h.run(ctx, m.Action, keys)
}

func (h *Handler) pendingText() string {
	return key.Join(append(h.vs.Recorded.Keys(), h.vs.Recorded.PendingKeys...))
}

// run executes a resolved action, applies its transformations and finishes
// the command when the action completes it.
func (h *Handler) run(ctx context.Context, a action.Action, keys []string) error {
	vs := h.vs
	ctx, span := h.tracer.Start(ctx, "action", trace.WithAttributes(
		attribute.String(tracing.AttrAction, a.Name()),
		attribute.String(tracing.AttrKeys, key.Join(keys)),
		attribute.Int(tracing.AttrCursorCount, vs.CursorCount()),
	))
	defer span.End()

	rs := vs.Recorded
	if !rs.Started {
		rs.Started = true
		rs.StartMode = vs.Modes.Current()
		rs.TextBefore = vs.Editor.Text()
		rs.CursorsBefore = vs.Cursors()
	}
	recording := vs.Macro.IsRecording()

	vs.ExecMode = vs.Modes.Current()
	vs.BeginAction()

	var err error
	if a.RunsOnceForEveryCursor() {
		err = h.runPerCursor(ctx, a, keys)
	} else {
		err = h.runOnce(ctx, a, keys)
	}
	if err != nil {
		return h.fail(span, a, err)
	}

	rs = vs.Recorded
	rs.ActionsRun = append(rs.ActionsRun, state.RunAction{
		Name:       a.Name(),
		Keys:       keys,
		IsCount:    a.IsCountPrefix(),
		Repeatable: a.CanBeRepeatedWithDot(),
		Jump:       a.IsJump(),
	})
	if a.IsCompleteAction() && rs.Operator == nil {
		rs.Count, rs.OperatorCount = 0, 0
	}

	deferred, err := h.flush(ctx)
	if err != nil {
		return h.fail(span, a, err)
	}
	h.clampCursors()

	if recording && vs.Macro.IsRecording() {
		vs.Macro.Record(keys)
	}

	cur := vs.Modes.Current()
	if a.IsCompleteAction() && rs.Operator == nil &&
		(cur == mode.Normal || cur.IsVisual() || cur == mode.Disabled) {
		h.finish()
	}

	for _, hook := range h.hooks {
		hook.PostAction(a.Name(), vs)
	}

	if err := h.runDeferred(ctx, deferred); err != nil {
		return h.fail(span, a, err)
	}
	return nil
}

func (h *Handler) fail(span trace.Span, a action.Action, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	h.log.Debug().Err(err).Str("action", a.Name()).Msg("action failed")
	h.vs.Status.Set(err.Error(), true)
	h.vs.Recorded.Transformations.Reset()
	h.vs.ResetCommand()
	return fmt.Errorf("%s: %w", a.Name(), err)
}

// finish closes the command: it records undo history, stores the "."
// command and the jump, and starts a new command.
func (h *Handler) finish() {
	vs := h.vs
	rs := vs.Recorded
	if !rs.Started {
		vs.ResetCommand()
		return
	}

	text := vs.Editor.Text()
	if !rs.NoHistory {
		vs.History.Record(rs.TextBefore, text, rs.CursorsBefore, vs.Cursors())
	}

	repeatable, jumped := false, false
	for _, ar := range rs.ActionsRun {
		repeatable = repeatable || ar.Repeatable
		jumped = jumped || ar.Jump
	}
	if repeatable && rs.StartMode == mode.Normal {
		vs.Dot = state.DotCommand{Actions: rs.ActionsRun}
	}
	if jumped && len(rs.CursorsBefore) > 0 {
		from := rs.CursorsBefore[0].Stop
		if from != vs.Cursors()[0].Stop {
			vs.Jumps.Add(from, vs.Editor.Name())
			vs.Marks.Set('\'', from)
		}
	}

	// A buffer emptied by a delete counts as having no lines left.
	before := strings.Count(rs.TextBefore, "\n") + 1
	after := strings.Count(text, "\n") + 1
	if text == "" {
		after = 0
	}
	if delta := after - before; delta != 0 {
		vs.Status.ReportLinesChanged(delta)
	}
	vs.ResetCommand()
}

// clampCursors moves cursors past the end of a line back onto it in modes
// where the cursor sits on a character.
func (h *Handler) clampCursors() {
	vs := h.vs
	cur := vs.Modes.Current()
	if cur != mode.Normal && !cur.IsVisual() {
		return
	}
	cs := vs.Cursors()
	changed := false
	for i, c := range cs {
		start, stop := c.Start, c.Stop
		if cur == mode.Normal {
			start, stop = vs.ClampNormal(start), vs.ClampNormal(stop)
		} else {
			stop = vs.ClampNormal(stop)
		}
		if start != c.Start || stop != c.Stop {
			cs[i].Start, cs[i].Stop = start, stop
			changed = true
		}
	}
	if changed {
		vs.SetCursors(cs)
	}
}
