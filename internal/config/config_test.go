package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/dshills/modalkit/internal/tracing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		path   string
	}{
		{"tabstop", func(c *Config) { c.Editor.TabStop = 0 }, "editor.tabstop"},
		{"max undo", func(c *Config) { c.Editor.MaxUndo = 0 }, "editor.max_undo"},
		{"replay depth", func(c *Config) { c.Editor.MaxReplayDepth = -1 }, "editor.max_replay_depth"},
		{"log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"exporter", func(c *Config) { c.Tracing.Exporter = "jaeger" }, "tracing.exporter"},
		{"file exporter path", func(c *Config) { c.Tracing.Exporter = tracing.ExporterFile }, "tracing.file_path"},
		{"remap mode", func(c *Config) {
			c.Remaps = []RemapConfig{{Mode: "terminal", From: "a", To: "b"}}
		}, "remaps[0].mode"},
		{"remap keys", func(c *Config) {
			c.Remaps = []RemapConfig{{Mode: "insert", From: "jk"}}
		}, "remaps[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.modify(&c)
			err := c.Validate()
			if !errors.Is(err, ErrValidationFailed) {
				t.Fatalf("Validate() = %v, want ErrValidationFailed", err)
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Validate() = %T, want *ValidationError", err)
			}
			if ve.Path != tt.path {
				t.Errorf("Path = %q, want %q", ve.Path, tt.path)
			}
		})
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
editor:
  tabstop: 4
  expandtab: true
log:
  level: debug
remaps:
  - mode: insert
    from: jk
    to: <Esc>
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Editor.TabStop != 4 || !cfg.Editor.ExpandTab {
		t.Errorf("Editor = %+v", cfg.Editor)
	}
	if !cfg.Editor.AutoIndent {
		t.Error("AutoIndent default lost")
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != LogFormatConsole {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if len(cfg.Remaps) != 1 || cfg.Remaps[0] != (RemapConfig{Mode: "insert", From: "jk", To: "<Esc>"}) {
		t.Errorf("Remaps = %+v", cfg.Remaps)
	}
	if cfg.Path != path {
		t.Errorf("Path = %q, want %q", cfg.Path, path)
	}

	opts := cfg.StateOptions()
	if opts.TabStop != 4 || !opts.ExpandTab || opts.MaxReplayDepth != 100 {
		t.Errorf("StateOptions() = %+v", opts)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeFile(t, "config.toml", "[editor]\ntabstop = 4\n")
	t.Setenv("MODALKIT_EDITOR_TABSTOP", "2")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Editor.TabStop != 2 {
		t.Errorf("TabStop = %d, want 2", cfg.Editor.TabStop)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("missing file: err = %v, want ErrFileNotFound", err)
	}

	path := writeFile(t, "config.yaml", "editor: [unclosed\n")
	_, err := Load(path)
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("bad yaml: err = %v, want *ParseError", err)
	}
	if pe.Path != path {
		t.Errorf("ParseError.Path = %q, want %q", pe.Path, path)
	}

	path = writeFile(t, "config.yaml", "editor:\n  tabstop: 0\n")
	if _, err := Load(path); !errors.Is(err, ErrValidationFailed) {
		t.Errorf("invalid value: err = %v, want ErrValidationFailed", err)
	}
}

func TestWriteDefaultRoundTrip(t *testing.T) {
	for _, name := range []string{"config.toml", "config.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)
			if err := WriteDefault(path, false); err != nil {
				t.Fatalf("WriteDefault() error = %v", err)
			}

			cfg, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			want := Default()
			if cfg.Editor != want.Editor || cfg.Log != want.Log || cfg.Tracing != want.Tracing {
				t.Errorf("round trip = %+v, want %+v", cfg, want)
			}

			if err := WriteDefault(path, false); !errors.Is(err, ErrFileExists) {
				t.Errorf("second write: err = %v, want ErrFileExists", err)
			}
			if err := WriteDefault(path, true); err != nil {
				t.Errorf("forced write: err = %v", err)
			}
		})
	}
}

func TestWriteDefaultRejectsUnknownFormat(t *testing.T) {
	err := WriteDefault(filepath.Join(t.TempDir(), "config.json"), false)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestWatchReloads(t *testing.T) {
	path := writeFile(t, "config.yaml", "editor:\n  tabstop: 4\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan *Config, 8)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, zerolog.Nop(), func(c *Config) { changes <- c })
	}()

	tick := time.NewTicker(300 * time.Millisecond)
	defer tick.Stop()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case c := <-changes:
			if c.Editor.TabStop != 3 {
				t.Fatalf("TabStop = %d, want 3", c.Editor.TabStop)
			}
			cancel()
			if err := <-done; err != nil {
				t.Fatalf("Watch() error = %v", err)
			}
			return
		case <-tick.C:
			if err := os.WriteFile(path, []byte("editor:\n  tabstop: 3\n"), 0o644); err != nil {
				t.Fatal(err)
			}
		case <-deadline:
			t.Fatal("no reload within 5s")
		}
	}
}
