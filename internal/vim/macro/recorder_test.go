package macro

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/samber/mo"
	"github.com/stretchr/testify/require"

	"github.com/dshills/modalkit/internal/vim/register"
)

func record(t *testing.T, r *Recorder, name rune, actions ...[]string) {
	t.Helper()
	require.NoError(t, r.Start(name))
	for _, a := range actions {
		r.Record(a)
	}
	require.NoError(t, r.Stop())
}

func TestRecordAndKeys(t *testing.T) {
	regs := register.NewStore()
	r := NewRecorder(regs, zerolog.Nop())

	record(t, r, 'q', []string{"i"}, []string{"h"}, []string{"i"}, []string{"<Esc>"})

	keys, err := r.Keys('q')
	require.NoError(t, err)
	require.Equal(t, []string{"i", "h", "i", "<Esc>"}, keys)
	require.False(t, r.IsRecording())
}

func TestLowerCaseOverwrites(t *testing.T) {
	r := NewRecorder(register.NewStore(), zerolog.Nop())

	record(t, r, 'q', []string{"x"})
	record(t, r, 'q', []string{"d", "d"})

	keys, err := r.Keys('q')
	require.NoError(t, err)
	require.Equal(t, []string{"d", "d"}, keys)
}

func TestUpperCaseAppends(t *testing.T) {
	r := NewRecorder(register.NewStore(), zerolog.Nop())

	record(t, r, 'q', []string{"x"})
	record(t, r, 'Q', []string{"j"})

	keys, err := r.Keys('q')
	require.NoError(t, err)
	require.Equal(t, []string{"x", "j"}, keys)
}

func TestUpperCaseOntoText(t *testing.T) {
	regs := register.NewStore()
	require.NoError(t, regs.Put('a', "dd", register.PutOptions{}))
	r := NewRecorder(regs, zerolog.Nop())

	record(t, r, 'A', []string{"j"})

	keys, err := r.Keys('a')
	require.NoError(t, err)
	require.Equal(t, []string{"d", "d", "j"}, keys)
}

func TestReplayIsNotRecorded(t *testing.T) {
	r := NewRecorder(register.NewStore(), zerolog.Nop())
	require.NoError(t, r.Start('a'))

	r.BeginReplay()
	r.Record([]string{"x"})
	r.EndReplay()
	r.Record([]string{"j"})
	require.NoError(t, r.Stop())

	keys, err := r.Keys('a')
	require.NoError(t, err)
	require.Equal(t, []string{"j"}, keys)
}

func TestStartErrors(t *testing.T) {
	r := NewRecorder(register.NewStore(), zerolog.Nop())

	require.ErrorIs(t, r.Start(':'), register.ErrInvalidRegister)
	require.NoError(t, r.Start('a'))
	require.ErrorIs(t, r.Start('b'), ErrAlreadyRecording)
	require.Equal(t, mo.Some('a'), r.Register())
	require.NoError(t, r.Stop())
	require.ErrorIs(t, r.Stop(), ErrNotRecording)
}

func TestKeysEmpty(t *testing.T) {
	r := NewRecorder(register.NewStore(), zerolog.Nop())
	_, err := r.Keys('z')
	require.ErrorIs(t, err, ErrEmptyMacro)

	require.NoError(t, r.Start('z'))
	require.NoError(t, r.Stop())
	_, err = r.Keys('z')
	require.ErrorIs(t, err, ErrEmptyMacro)
}

func TestLastPlayed(t *testing.T) {
	r := NewRecorder(register.NewStore(), zerolog.Nop())
	require.True(t, r.LastPlayed().IsAbsent())
	r.SetLastPlayed('Q')
	require.Equal(t, mo.Some('q'), r.LastPlayed())
}
