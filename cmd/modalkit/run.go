package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/dshills/modalkit/internal/app"
	"github.com/dshills/modalkit/internal/logging"
	"github.com/dshills/modalkit/internal/term"
	"github.com/dshills/modalkit/internal/vim/modehandler"
)

func (c *cli) newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run [file]",
		Short: "Edit a file in the terminal",
		Long: `Edit a file in the terminal. A missing file is created on the first :w.

Besides the usual modal commands, <C-n> adds a cursor on the next line and
<Esc> in Normal mode drops the extra cursors. The config file is watched
and remaps and editing options are reloaded when it changes.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			var file string
			if len(args) == 1 {
				file = args[0]
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGHUP)
			defer stop()

			sl := &term.StatusLine{}
			a, err := app.New(ctx, app.Options{
				Config:    cfg,
				File:      file,
				Status:    sl,
				LogOutput: logging.NewRing(1000),
				Hooks:     []modehandler.Hook{term.CursorHook()},
			})
			if err != nil {
				return err
			}
			defer func() { _ = a.Close(context.Background()) }()
			log.Logger = a.Log.Logger

			screen, err := tcell.NewScreen()
			if err != nil {
				return err
			}
			if err := screen.Init(); err != nil {
				return err
			}
			defer screen.Fini()

			go func() {
				if err := a.Watch(ctx); err != nil {
					log.Warn().Err(err).Msg("config watch stopped")
				}
			}()

			opts := term.Options{Modified: a.Doc.IsModified, Log: a.Log.Logger}
			if file != "" {
				opts.Save = a.Doc.Save
			}
			return term.New(screen, a.Handler, sl, opts).Run(ctx)
		},
	}
}
