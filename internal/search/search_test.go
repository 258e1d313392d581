package search

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dshills/modalkit/internal/engine/buffer"
)

func TestNextForward(t *testing.T) {
	buf := buffer.NewBufferFromString("foo bar\nbaz foo\nqux")
	s := New()

	res, err := s.Next(buf, buffer.Pos(0, 0), "foo", false, Options{WrapScan: true})
	require.NoError(t, err)
	require.Equal(t, buffer.Pos(1, 4), res.Range.Start)
	require.False(t, res.Wrapped)

	res, err = s.Next(buf, buffer.Pos(1, 4), "foo", false, Options{WrapScan: true})
	require.NoError(t, err)
	require.Equal(t, buffer.Pos(0, 0), res.Range.Start)
	require.True(t, res.Wrapped)

	_, err = s.Next(buf, buffer.Pos(1, 4), "foo", false, Options{})
	require.ErrorIs(t, err, ErrNoMatch)
}

func TestNextBackward(t *testing.T) {
	buf := buffer.NewBufferFromString("foo bar\nbaz foo\nqux")
	s := New()

	res, err := s.Next(buf, buffer.Pos(1, 4), "foo", true, Options{WrapScan: true})
	require.NoError(t, err)
	require.Equal(t, buffer.Pos(0, 0), res.Range.Start)

	res, err = s.Next(buf, buffer.Pos(0, 0), "foo", true, Options{WrapScan: true})
	require.NoError(t, err)
	require.Equal(t, buffer.Pos(1, 4), res.Range.Start)
	require.True(t, res.Wrapped)
}

func TestOnlyMatchIsCursor(t *testing.T) {
	buf := buffer.NewBufferFromString("abc foo")
	s := New()

	res, err := s.Next(buf, buffer.Pos(0, 4), "foo", false, Options{WrapScan: true})
	require.NoError(t, err)
	require.Equal(t, buffer.Pos(0, 4), res.Range.Start)
	require.True(t, res.Wrapped)
}

func TestCaseOptions(t *testing.T) {
	buf := buffer.NewBufferFromString("Foo foo")
	s := New()
	opts := Options{IgnoreCase: true, SmartCase: true, WrapScan: true}

	res, err := s.Next(buf, buffer.Pos(0, 4), "foo", false, opts)
	require.NoError(t, err)
	require.Equal(t, buffer.Pos(0, 0), res.Range.Start, "lower-case pattern folds case")

	n, err := s.Count(buf, "Foo", opts)
	require.NoError(t, err)
	require.Equal(t, 1, n, "upper-case pattern is case sensitive with smartcase")

	n, err = s.Count(buf, `foo\c`, Options{})
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

func TestWordPatternAndCache(t *testing.T) {
	buf := buffer.NewBufferFromString("foo.bar foobar foo")
	s := New()

	n, err := s.Count(buf, WordPattern("foo"), Options{})
	require.NoError(t, err)
	require.Equal(t, 2, n)

	_, err = s.Count(buf, WordPattern("foo"), Options{})
	require.NoError(t, err)
	require.Equal(t, 1, s.CachedPatterns())
}

func TestInvalidPattern(t *testing.T) {
	s := New()
	_, err := s.Compile("(", Options{})
	require.Error(t, err)
}

func TestRuneColumns(t *testing.T) {
	buf := buffer.NewBufferFromString("héllo wörld")
	s := New()
	res, err := s.Next(buf, buffer.Pos(0, 0), "wö", false, Options{})
	require.NoError(t, err)
	require.Equal(t, buffer.NewRange(buffer.Pos(0, 6), buffer.Pos(0, 8)), res.Range)
}
