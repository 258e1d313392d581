// Package config loads modalkit settings with viper.
//
// Settings come, lowest priority first, from built-in defaults, a YAML or
// TOML file and MODALKIT_* environment variables. The file is taken from
// the --config flag, ./.modalkit/config.{yaml,toml} or
// $XDG_CONFIG_HOME/modalkit/config.{yaml,toml}. Nested keys map to
// environment variables with "." replaced by "_":
//
//	MODALKIT_EDITOR_TABSTOP=4 modalkit run main.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/dshills/modalkit/internal/tracing"
	"github.com/dshills/modalkit/internal/vim/mode"
	"github.com/dshills/modalkit/internal/vim/state"
)

// Log formats.
const (
	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

// Config holds every modalkit setting.
type Config struct {
	Editor  EditorConfig   `mapstructure:"editor" toml:"editor" yaml:"editor"`
	Log     LogConfig      `mapstructure:"log" toml:"log" yaml:"log"`
	Tracing tracing.Config `mapstructure:"tracing" toml:"tracing" yaml:"tracing"`
	Remaps  []RemapConfig  `mapstructure:"remaps" toml:"remaps" yaml:"remaps"`
	// Script is a Lua file run at startup to define remaps.
	Script string `mapstructure:"script" toml:"script" yaml:"script"`

	// Path is the file the configuration was read from, if any.
	Path string `mapstructure:"-" toml:"-" yaml:"-"`
}

// EditorConfig holds editing options.
type EditorConfig struct {
	TabStop    int  `mapstructure:"tabstop" toml:"tabstop" yaml:"tabstop"`
	ExpandTab  bool `mapstructure:"expandtab" toml:"expandtab" yaml:"expandtab"`
	AutoIndent bool `mapstructure:"autoindent" toml:"autoindent" yaml:"autoindent"`
	// Clipboard mirrors the unnamed register to the system clipboard.
	Clipboard      bool `mapstructure:"clipboard" toml:"clipboard" yaml:"clipboard"`
	MaxUndo        int  `mapstructure:"max_undo" toml:"max_undo" yaml:"max_undo"`
	MaxReplayDepth int  `mapstructure:"max_replay_depth" toml:"max_replay_depth" yaml:"max_replay_depth"`
	WrapScan       bool `mapstructure:"wrapscan" toml:"wrapscan" yaml:"wrapscan"`
	IgnoreCase     bool `mapstructure:"ignorecase" toml:"ignorecase" yaml:"ignorecase"`
	SmartCase      bool `mapstructure:"smartcase" toml:"smartcase" yaml:"smartcase"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level  string `mapstructure:"level" toml:"level" yaml:"level"`
	Format string `mapstructure:"format" toml:"format" yaml:"format"`
	// File receives the log. Empty means stderr.
	File string `mapstructure:"file" toml:"file" yaml:"file"`
}

// RemapConfig maps keys in one mode.
type RemapConfig struct {
	Mode string `mapstructure:"mode" toml:"mode" yaml:"mode"`
	From string `mapstructure:"from" toml:"from" yaml:"from"`
	To   string `mapstructure:"to" toml:"to" yaml:"to"`
}

// Default returns the built-in defaults.
func Default() Config {
	opts := state.DefaultOptions()
	return Config{
		Editor: EditorConfig{
			TabStop:        opts.TabStop,
			ExpandTab:      opts.ExpandTab,
			AutoIndent:     opts.AutoIndent,
			MaxUndo:        1000,
			MaxReplayDepth: opts.MaxReplayDepth,
			WrapScan:       opts.WrapScan,
			IgnoreCase:     opts.IgnoreCase,
			SmartCase:      opts.SmartCase,
		},
		Log: LogConfig{
			Level:  "info",
			Format: LogFormatConsole,
		},
		Tracing: tracing.DefaultConfig(),
	}
}

// StateOptions returns the editing options for a VimState.
func (c Config) StateOptions() state.Options {
	return state.Options{
		TabStop:        c.Editor.TabStop,
		ExpandTab:      c.Editor.ExpandTab,
		AutoIndent:     c.Editor.AutoIndent,
		WrapScan:       c.Editor.WrapScan,
		IgnoreCase:     c.Editor.IgnoreCase,
		SmartCase:      c.Editor.SmartCase,
		MaxReplayDepth: c.Editor.MaxReplayDepth,
	}
}

// Validate checks every setting and returns all failures joined.
func (c Config) Validate() error {
	var errs []error
	if c.Editor.TabStop < 1 {
		errs = append(errs, &ValidationError{Path: "editor.tabstop", Message: "must be at least 1", Value: c.Editor.TabStop, Code: ErrCodeOutOfRange})
	}
	if c.Editor.MaxUndo < 1 {
		errs = append(errs, &ValidationError{Path: "editor.max_undo", Message: "must be at least 1", Value: c.Editor.MaxUndo, Code: ErrCodeOutOfRange})
	}
	if c.Editor.MaxReplayDepth < 1 {
		errs = append(errs, &ValidationError{Path: "editor.max_replay_depth", Message: "must be at least 1", Value: c.Editor.MaxReplayDepth, Code: ErrCodeOutOfRange})
	}
	switch c.Log.Format {
	case LogFormatConsole, LogFormatJSON:
	default:
		errs = append(errs, &ValidationError{Path: "log.format", Message: "must be console or json", Value: c.Log.Format, Code: ErrCodeInvalidEnum})
	}
	if !tracing.IsValidExporter(c.Tracing.Exporter) {
		errs = append(errs, &ValidationError{Path: "tracing.exporter", Message: "must be none, stdout or file", Value: c.Tracing.Exporter, Code: ErrCodeInvalidEnum})
	}
	if c.Tracing.Exporter == tracing.ExporterFile && c.Tracing.FilePath == "" {
		errs = append(errs, &ValidationError{Path: "tracing.file_path", Message: "required by the file exporter", Value: "", Code: ErrCodeRequiredMissing})
	}
	for i, r := range c.Remaps {
		path := fmt.Sprintf("remaps[%d]", i)
		if _, err := mode.Parse(r.Mode); err != nil {
			errs = append(errs, &ValidationError{Path: path + ".mode", Message: "unknown mode", Value: r.Mode, Code: ErrCodeInvalidEnum})
		}
		if r.From == "" || r.To == "" {
			errs = append(errs, &ValidationError{Path: path, Message: "from and to are required", Value: r.From + " -> " + r.To, Code: ErrCodeRequiredMissing})
		}
	}
	return errors.Join(errs...)
}

// Load reads the configuration. An empty path searches the default
// locations; finding no file there is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())
	v.SetEnvPrefix("MODALKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(filepath.Join(".", ".modalkit"))
		if dir, err := userConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "modalkit"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound):
		case errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		default:
			return nil, &ParseError{Path: path, Message: err.Error(), Err: err}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &ParseError{Path: v.ConfigFileUsed(), Message: err.Error(), Err: err}
	}
	cfg.Path = v.ConfigFileUsed()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("editor.tabstop", d.Editor.TabStop)
	v.SetDefault("editor.expandtab", d.Editor.ExpandTab)
	v.SetDefault("editor.autoindent", d.Editor.AutoIndent)
	v.SetDefault("editor.clipboard", d.Editor.Clipboard)
	v.SetDefault("editor.max_undo", d.Editor.MaxUndo)
	v.SetDefault("editor.max_replay_depth", d.Editor.MaxReplayDepth)
	v.SetDefault("editor.wrapscan", d.Editor.WrapScan)
	v.SetDefault("editor.ignorecase", d.Editor.IgnoreCase)
	v.SetDefault("editor.smartcase", d.Editor.SmartCase)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.file_path", d.Tracing.FilePath)
	v.SetDefault("tracing.service_name", d.Tracing.ServiceName)
	v.SetDefault("script", d.Script)
}

// userConfigDir honours XDG_CONFIG_HOME before the platform default.
func userConfigDir() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir, nil
	}
	return os.UserConfigDir()
}
