package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dshills/modalkit/internal/config"
	"github.com/dshills/modalkit/internal/vim/register"
	"github.com/dshills/modalkit/internal/vim/status"
)

func testOptions(t *testing.T, cfg config.Config) Options {
	t.Helper()
	return Options{
		Config:    &cfg,
		LogOutput: &bytes.Buffer{},
		Clipboard: &register.MemoryClipboard{},
	}
}

func newApp(t *testing.T, opts Options) *App {
	t.Helper()
	a, err := New(context.Background(), opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(context.Background()) })
	return a
}

func TestNewEditsText(t *testing.T) {
	opts := testOptions(t, config.Default())
	opts.Text = "hello world"
	a := newApp(t, opts)

	require.NoError(t, a.Handler.HandleKeys(context.Background(), "dw"))
	require.Equal(t, "world", a.Doc.Buffer.Text())
	require.True(t, a.Doc.IsModified())
}

func TestConfigRemapsAndScript(t *testing.T) {
	dir := t.TempDir()
	scriptPath := filepath.Join(dir, "init.lua")
	require.NoError(t, os.WriteFile(scriptPath, []byte(`modal.remap("normal", "Q", "dd")`), 0o644))

	cfg := config.Default()
	cfg.Remaps = []config.RemapConfig{{Mode: "insert", From: "jk", To: "<Esc>"}}
	cfg.Script = scriptPath
	opts := testOptions(t, cfg)
	opts.Text = "one\ntwo"
	a := newApp(t, opts)
	require.Equal(t, 2, a.Remaps.Len())

	ctx := context.Background()
	require.NoError(t, a.Handler.HandleKeys(ctx, "ix<Esc>"))
	require.NoError(t, a.Handler.HandleKeys(ctx, "ijk"))
	require.Equal(t, "normal", a.State.Modes.Current().String())
	require.Equal(t, "xone\ntwo", a.Doc.Buffer.Text())

	require.NoError(t, a.Handler.HandleKeys(ctx, "Q"))
	require.Equal(t, "two", a.Doc.Buffer.Text())
}

func TestReload(t *testing.T) {
	a := newApp(t, testOptions(t, config.Default()))

	cfg := config.Default()
	cfg.Editor.TabStop = 2
	cfg.Remaps = []config.RemapConfig{{Mode: "normal", From: "Y", To: "y$"}}
	require.NoError(t, a.Reload(context.Background(), &cfg))

	require.Equal(t, 2, a.State.Options.TabStop)
	require.Equal(t, 1, a.Remaps.Len())
	require.Same(t, &cfg, a.Config())
}

func TestNewFailsOnBadConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Editor.TabStop = 0
	_, err := New(context.Background(), testOptions(t, cfg))

	var ie *InitError
	require.ErrorAs(t, err, &ie)
	require.Equal(t, "config", ie.Component)
	require.ErrorIs(t, err, config.ErrValidationFailed)
}

func TestNewFailsOnBadScript(t *testing.T) {
	cfg := config.Default()
	cfg.Script = filepath.Join(t.TempDir(), "missing.lua")
	_, err := New(context.Background(), testOptions(t, cfg))

	var ie *InitError
	require.ErrorAs(t, err, &ie)
	require.Equal(t, "remaps", ie.Component)
}

func TestStatusGoesToSink(t *testing.T) {
	rec := status.NewRecorder()
	opts := testOptions(t, config.Default())
	opts.Status = rec
	a := newApp(t, opts)

	require.NoError(t, a.Handler.HandleKeys(context.Background(), "u"))
	require.Equal(t, "Already at oldest change", rec.Last().Text)
}

func TestDocumentOpenSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	doc, err := OpenDocument(path)
	require.NoError(t, err)
	require.Equal(t, "notes.txt", doc.Buffer.Name())
	require.False(t, doc.IsModified())

	_, err = doc.Buffer.Insert(doc.Buffer.EndPosition(), "text")
	require.NoError(t, err)
	require.True(t, doc.IsModified())

	require.NoError(t, doc.Save())
	require.False(t, doc.IsModified())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "text", string(data))

	reopened, err := OpenDocument(path)
	require.NoError(t, err)
	require.Equal(t, "text", reopened.Buffer.Text())
}

func TestScratchDocumentCannotSave(t *testing.T) {
	doc, err := OpenDocument("")
	require.NoError(t, err)

	var oe *OperationError
	require.True(t, errors.As(doc.Save(), &oe))
	require.Equal(t, "save", oe.Op)
}
