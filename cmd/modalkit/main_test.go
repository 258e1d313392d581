package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dshills/modalkit/internal/config"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestKeysPrintsResult(t *testing.T) {
	out, err := execute(t, "keys", "--text", "hello world", "3x")
	require.NoError(t, err)
	require.Equal(t, "lo world\n-- mode: normal  cursors: (0:0)\n", out)
}

func TestKeysJoinsArguments(t *testing.T) {
	out, err := execute(t, "keys", "-t", "a\nb\nc\nd\ne", "5", "dd")
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(out, "-- status: 5 fewer lines\n"), out)
}

func TestKeysRegistersPersist(t *testing.T) {
	regs := filepath.Join(t.TempDir(), "regs.yaml")

	_, err := execute(t, "keys", "-t", "one two", "-r", regs, `"ayw`)
	require.NoError(t, err)

	out, err := execute(t, "keys", "-t", "", "-r", regs, `"ap`)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "one \n"), out)

	out, err = execute(t, "registers", "show", regs)
	require.NoError(t, err)
	require.Contains(t, out, `"a   one `)

	_, err = execute(t, "registers", "clear", regs, "a")
	require.NoError(t, err)
	out, err = execute(t, "registers", "show", regs)
	require.NoError(t, err)
	require.NotContains(t, out, `"a`)
}

func TestKeysWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.txt")
	require.NoError(t, os.WriteFile(path, []byte("abc"), 0o644))

	_, err := execute(t, "keys", "-f", path, "-w", "x")
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "bc", string(data))

	_, err = execute(t, "keys", "-t", "abc", "-w", "x")
	require.Error(t, err)
}

func TestConfigInitAndShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	out, err := execute(t, "config", "init", path)
	require.NoError(t, err)
	require.Equal(t, "wrote "+path+"\n", out)

	_, err = execute(t, "config", "init", path)
	require.ErrorIs(t, err, config.ErrFileExists)
	_, err = execute(t, "config", "init", "--force", path)
	require.NoError(t, err)

	out, err = execute(t, "--config", path, "config", "show")
	require.NoError(t, err)
	require.Contains(t, out, "# loaded from "+path)
	require.Contains(t, out, "tabstop: 8")
}

func TestLogLevelFlagOverridesConfig(t *testing.T) {
	_, err := execute(t, "--log-level", "loud", "keys", "-t", "x", "l")
	require.Error(t, err)
}
