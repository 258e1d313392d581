package app

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"

	"github.com/dshills/modalkit/internal/config"
	"github.com/dshills/modalkit/internal/engine/history"
	"github.com/dshills/modalkit/internal/logging"
	"github.com/dshills/modalkit/internal/script"
	"github.com/dshills/modalkit/internal/tracing"
	"github.com/dshills/modalkit/internal/vim/mode"
	"github.com/dshills/modalkit/internal/vim/modehandler"
	"github.com/dshills/modalkit/internal/vim/register"
	"github.com/dshills/modalkit/internal/vim/remap"
	"github.com/dshills/modalkit/internal/vim/state"
	"github.com/dshills/modalkit/internal/vim/status"
)

// Options configure New.
type Options struct {
	// ConfigPath is the config file. Empty searches the default locations.
	ConfigPath string
	// Config is used instead of loading one when set.
	Config *config.Config
	// File is the file to edit. Empty opens a scratch buffer.
	File string
	// Text replaces the document content when File is empty.
	Text string

	// Status receives status messages. Defaults to a status.Recorder.
	Status status.Sink
	// LogOutput receives log entries when the config names no log file.
	// Defaults to os.Stderr.
	LogOutput io.Writer
	// Clipboard backs the "*" and "+" registers. Defaults to the system
	// clipboard.
	Clipboard register.Clipboard
	Hooks     []modehandler.Hook
}

// App is one editing session.
type App struct {
	Log       *logging.Logger
	Tracing   *tracing.Provider
	Registers *register.Store
	Remaps    *remap.Table
	Doc       *Document
	State     *state.VimState
	Handler   *modehandler.Handler

	mu     sync.Mutex
	cfg    *config.Config
	script *script.Runner
	opts   Options

	initOrder []string
}

// New loads the configuration and builds the session. Components are
// started in dependency order; if one fails, the ones already started are
// released.
func New(ctx context.Context, opts Options) (*App, error) {
	if opts.Status == nil {
		opts.Status = status.NewRecorder()
	}
	if opts.LogOutput == nil {
		opts.LogOutput = os.Stderr
	}
	if opts.Clipboard == nil {
		opts.Clipboard = register.SystemClipboard{}
	}

	a := &App{opts: opts}
	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"config", a.initConfig},
		{"logging", a.initLogging},
		{"tracing", a.initTracing},
		{"document", a.initDocument},
		{"editor", a.initEditor},
		{"remaps", a.initRemaps},
	}
	for _, s := range steps {
		if err := s.fn(ctx); err != nil {
			_ = a.cleanup(ctx)
			return nil, &InitError{Component: s.name, Err: err}
		}
		a.initOrder = append(a.initOrder, s.name)
	}
	a.Log.Info().
		Str("file", opts.File).
		Str("config", a.cfg.Path).
		Int("remaps", a.Remaps.Len()).
		Msg("session started")
	return a, nil
}

func (a *App) initConfig(context.Context) error {
	if a.opts.Config != nil {
		a.cfg = a.opts.Config
		return a.cfg.Validate()
	}
	cfg, err := config.Load(a.opts.ConfigPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

func (a *App) initLogging(context.Context) error {
	l, err := logging.New(a.cfg.Log, a.opts.LogOutput)
	if err != nil {
		return err
	}
	a.Log = l
	return nil
}

func (a *App) initTracing(context.Context) error {
	p, err := tracing.NewProvider(a.cfg.Tracing)
	if err != nil {
		return err
	}
	a.Tracing = p
	return nil
}

func (a *App) initDocument(context.Context) error {
	doc, err := OpenDocument(a.opts.File)
	if err != nil {
		return err
	}
	if a.opts.File == "" && a.opts.Text != "" {
		if err := doc.Buffer.SetText(a.opts.Text); err != nil {
			return err
		}
	}
	a.Doc = doc
	return nil
}

func (a *App) initEditor(context.Context) error {
	log := a.Log.Logger
	a.Registers = register.NewStore(
		register.WithClipboard(a.opts.Clipboard),
		register.WithUnnamedClipboard(a.cfg.Editor.Clipboard),
		register.WithLogger(log),
	)
	a.State = state.New(a.Doc.Buffer,
		state.WithRegisters(a.Registers),
		state.WithStatus(a.opts.Status),
		state.WithLogger(log),
		state.WithOptions(a.cfg.StateOptions()),
		state.WithHistory(history.NewHistory(a.cfg.Editor.MaxUndo)),
	)

	a.Remaps = remap.NewTable()
	hopts := []modehandler.Option{
		modehandler.WithRemapper(a.Remaps),
		modehandler.WithTracer(a.Tracing.Tracer()),
		modehandler.WithLogger(log),
	}
	for _, hook := range a.opts.Hooks {
		hopts = append(hopts, modehandler.WithHook(hook))
	}
	a.Handler = modehandler.New(a.State, hopts...)
	return nil
}

func (a *App) initRemaps(ctx context.Context) error {
	a.script = script.New(a.Remaps, script.WithLogger(a.Log.Logger))
	if err := a.loadRemaps(ctx, a.cfg); err != nil {
		a.script.Close()
		return err
	}
	return nil
}

// loadRemaps replaces the remap table with the mappings of cfg and its
// script.
func (a *App) loadRemaps(ctx context.Context, cfg *config.Config) error {
	a.Remaps.Clear()
	for _, r := range cfg.Remaps {
		m, err := mode.Parse(r.Mode)
		if err != nil {
			return err
		}
		if err := a.Remaps.Add(m, r.From, r.To, "config"); err != nil {
			return err
		}
	}
	if cfg.Script != "" {
		return a.script.RunFile(ctx, cfg.Script)
	}
	return nil
}

// Config returns the configuration in effect.
func (a *App) Config() *config.Config {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cfg
}

// Reload applies cfg between keys: editing options and remaps change, the
// rest takes effect on the next start.
func (a *App) Reload(ctx context.Context, cfg *config.Config) error {
	var err error
	a.Handler.Do(func(vs *state.VimState) {
		vs.Options = cfg.StateOptions()
		err = a.loadRemaps(ctx, cfg)
	})
	if err != nil {
		return err
	}
	a.mu.Lock()
	a.cfg = cfg
	a.mu.Unlock()
	a.Log.Info().Int("remaps", a.Remaps.Len()).Msg("config reloaded")
	return nil
}

// Watch reloads the config file on change until ctx is done. It returns
// at once when the session has no config file.
func (a *App) Watch(ctx context.Context) error {
	path := a.Config().Path
	if path == "" {
		return nil
	}
	return config.Watch(ctx, path, a.Log.Logger, func(cfg *config.Config) {
		if err := a.Reload(ctx, cfg); err != nil {
			a.Log.Warn().Err(err).Str("path", path).Msg("config reload failed")
		}
	})
}

// Close stops the handler and releases every component.
func (a *App) Close(ctx context.Context) error {
	return a.cleanup(ctx)
}

// cleanup releases started components in reverse order.
func (a *App) cleanup(ctx context.Context) error {
	var errs []error
	for i := len(a.initOrder) - 1; i >= 0; i-- {
		switch a.initOrder[i] {
		case "remaps":
			a.script.Close()
		case "editor":
			a.Handler.Close()
		case "tracing":
			errs = append(errs, a.Tracing.Shutdown(ctx))
		case "logging":
			errs = append(errs, a.Log.Close())
		}
	}
	a.initOrder = nil
	return errors.Join(errs...)
}
