package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dshills/modalkit/internal/config"
)

// cli holds the flags shared by every command.
type cli struct {
	cfgFile string
	v       *viper.Viper
}

func newRootCmd() *cobra.Command {
	c := &cli{v: viper.New()}
	root := &cobra.Command{
		Use:   "modalkit",
		Short: "A modal text editor with multiple cursors",
		Long: `modalkit edits text with Vim-style modal commands, multiple cursors,
registers, macros and dot repeat.

Run "modalkit run FILE" to edit a file in the terminal, or "modalkit keys"
to feed keys to a buffer without a screen.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&c.cfgFile, "config", "c", "",
		"config file (default: ./.modalkit/config.* or $XDG_CONFIG_HOME/modalkit/config.*)")
	root.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	_ = c.v.BindPFlag("log.level", root.PersistentFlags().Lookup("log-level"))

	root.AddCommand(
		c.newRunCmd(),
		c.newKeysCmd(),
		c.newRegistersCmd(),
		c.newConfigCmd(),
	)
	return root
}

// loadConfig reads the config file and applies flag overrides.
func (c *cli) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.cfgFile)
	if err != nil {
		return nil, err
	}
	if c.v.IsSet("log.level") {
		cfg.Log.Level = c.v.GetString("log.level")
	}
	return cfg, nil
}
