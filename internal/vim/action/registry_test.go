package action

import (
	"context"
	"slices"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/dshills/modalkit/internal/engine/buffer"
	"github.com/dshills/modalkit/internal/vim/mode"
	"github.com/dshills/modalkit/internal/vim/state"
)

func noop(context.Context, *state.VimState, *funcAction, []string) error { return nil }

func named(name string, modes []mode.Mode, ctx Context, patterns ...string) Factory {
	return def(Base{ActionName: name, ActionModes: modes, ActionKeys: keys(patterns...), ActionContext: ctx}, noop)
}

// stubOperator stands in for a pending operator.
type stubOperator struct{ key string }

func (s stubOperator) Name() string { return "stub" }
func (s stubOperator) Key() string  { return s.key }
func (s stubOperator) Run(context.Context, *state.VimState, buffer.Position, buffer.Position) error {
	return nil
}

func newState() *state.VimState {
	return state.New(buffer.NewBufferFromString("abc def\nghi"))
}

func TestDefaultRegistryHasNoConflicts(t *testing.T) {
	r, err := NewRegistry(zerolog.Nop(), Catalog()...)
	require.NoError(t, err)
	require.Equal(t, len(Catalog()), r.Len())
}

func TestNewRegistry_DuplicatePattern(t *testing.T) {
	tests := []struct {
		name    string
		a, b    Factory
		wantErr bool
	}{
		{
			name:    "same mode and keys",
			a:       named("one", normalModes, Idle, "zz"),
			b:       named("two", normalModes, Idle, "zz"),
			wantErr: true,
		},
		{
			name:    "any context overlaps idle",
			a:       named("one", normalModes, AnyContext, "zz"),
			b:       named("two", motionModes, Idle, "zz"),
			wantErr: true,
		},
		{
			name: "disjoint modes",
			a:    named("one", normalModes, Idle, "zz"),
			b:    named("two", insertModes, Idle, "zz"),
		},
		{
			name: "disjoint contexts",
			a:    named("one", normalModes, Idle, "zz"),
			b:    named("two", normalModes, OperatorPending, "zz"),
		},
		{
			name: "different wildcards",
			a:    named("one", normalModes, Idle, "z<character>"),
			b:    named("two", normalModes, Idle, "z<number>"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(zerolog.Nop(), tt.a, tt.b)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrDuplicatePattern)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestResolve_MostSpecificWins(t *testing.T) {
	r := MustRegistry(zerolog.Nop(),
		named("anyChar", normalModes, Idle, "z<character>"),
		named("digit", normalModes, Idle, "z<number>"),
		named("literal", normalModes, Idle, "z5"),
	)
	vs := newState()

	m := r.Resolve(vs, mode.Normal, []string{"z", "5"})
	require.Equal(t, "literal", m.Action.Name())
	require.False(t, m.Unique)

	m = r.Resolve(vs, mode.Normal, []string{"z", "7"})
	require.Equal(t, "digit", m.Action.Name())

	m = r.Resolve(vs, mode.Normal, []string{"z", "q"})
	require.Equal(t, "anyChar", m.Action.Name())
	require.True(t, m.Unique)
}

func TestResolve_RegistrationOrderBreaksTies(t *testing.T) {
	first := named("first", normalModes, Idle, "z<character>")
	second := named("second", normalModes, Idle, "<character>q")

	vs := newState()
	m := MustRegistry(zerolog.Nop(), first, second).Resolve(vs, mode.Normal, []string{"z", "q"})
	require.Equal(t, "first", m.Action.Name())
	require.False(t, m.Unique)

	m = MustRegistry(zerolog.Nop(), second, first).Resolve(vs, mode.Normal, []string{"z", "q"})
	require.Equal(t, "second", m.Action.Name())
}

func TestResolve_PartialAndExact(t *testing.T) {
	r := Default(zerolog.Nop())
	vs := newState()

	m := r.Resolve(vs, mode.Normal, []string{"g"})
	require.Nil(t, m.Action)
	require.True(t, m.Partial)

	m = r.Resolve(vs, mode.Normal, []string{"g", "g"})
	require.Equal(t, "gotoFirstLine", m.Action.Name())
	require.False(t, m.Partial)

	m = r.Resolve(vs, mode.Normal, []string{"Z", "Z"})
	require.Nil(t, m.Action)
	require.False(t, m.Partial)
}

func TestResolve_ReturnsFreshInstances(t *testing.T) {
	r := Default(zerolog.Nop())
	vs := newState()

	a := r.Resolve(vs, mode.Normal, []string{"x"}).Action
	b := r.Resolve(vs, mode.Normal, []string{"x"}).Action
	require.NotSame(t, a, b)
}

func TestResolve_OperatorPendingContext(t *testing.T) {
	r := Default(zerolog.Nop())
	vs := newState()

	require.Equal(t, "delete", r.Resolve(vs, mode.Normal, []string{"d"}).Action.Name())

	vs.Recorded.Operator = stubOperator{key: "d"}
	require.Equal(t, "lineD", r.Resolve(vs, mode.Normal, []string{"d"}).Action.Name())
	require.Nil(t, r.Resolve(vs, mode.Normal, []string{"c"}).Action, "cc needs a pending c")
	require.Equal(t, "innerWord", r.Resolve(vs, mode.Normal, []string{"i", "w"}).Action.Name())
	require.Equal(t, "wordForward", r.Resolve(vs, mode.Normal, []string{"w"}).Action.Name())
}

func TestResolve_ZeroIsMotionUntilCountStarts(t *testing.T) {
	r := Default(zerolog.Nop())
	vs := newState()

	require.Equal(t, "lineStart", r.Resolve(vs, mode.Normal, []string{"0"}).Action.Name())

	vs.Recorded.AddDigit(1)
	require.Equal(t, "count", r.Resolve(vs, mode.Normal, []string{"0"}).Action.Name())
}

func TestResolve_AppliesRejectsInvalidRegister(t *testing.T) {
	r := Default(zerolog.Nop())
	vs := newState()

	require.Equal(t, "selectRegister", r.Resolve(vs, mode.Normal, []string{`"`, "a"}).Action.Name())
	require.Nil(t, r.Resolve(vs, mode.Normal, []string{`"`, "!"}).Action)
	require.Nil(t, r.Resolve(vs, mode.Normal, []string{"q", "!"}).Action)
	require.Equal(t, "commandHistory", r.Resolve(vs, mode.Normal, []string{"q", ":"}).Action.Name())
}

func TestTokenizePattern(t *testing.T) {
	require.Equal(t, []string{"f", WildCharacter}, tokenizePattern("f<character>"))
	require.Equal(t, []string{"<C-r>", WildCharacter}, tokenizePattern("<C-r><character>"))
	require.Equal(t, []string{`"`, WildCharacter}, tokenizePattern(`"<character>`))
	require.Equal(t, []string{"g", "g"}, tokenizePattern("gg"))
}

func isLiteral(pat []string) bool {
	for _, p := range pat {
		switch p {
		case WildCharacter, WildNumber, WildAlpha, WildAny:
			return false
		}
	}
	return true
}

func TestResolve_LiteralPatternsFindTheirAction(t *testing.T) {
	r := Default(zerolog.Nop())
	protos := r.Actions()

	rapid.Check(t, func(t *rapid.T) {
		a := rapid.SampledFrom(protos).Draw(t, "action")
		pat := rapid.SampledFrom(a.Keys()).Draw(t, "pattern")
		m := rapid.SampledFrom(a.Modes()).Draw(t, "mode")
		if !isLiteral(pat) {
			return
		}

		vs := newState()
		if a.Context() == OperatorPending {
			vs.Recorded.Operator = stubOperator{key: pat[0]}
		}
		if !a.Applies(vs, pat) {
			return
		}

		got := r.Resolve(vs, m, pat)
		if got.Action == nil {
			t.Fatalf("%s: %q in %s resolved to nothing", a.Name(), pat, m)
		}
		if got.Action.Name() != a.Name() {
			t.Fatalf("%s: %q in %s resolved to %s", a.Name(), pat, m, got.Action.Name())
		}
		if !slices.Contains(got.Action.Modes(), m) {
			t.Fatalf("%s resolved outside its modes", got.Action.Name())
		}
	})
}
