package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/modalkit/internal/app"
	"github.com/dshills/modalkit/internal/vim/register"
	"github.com/dshills/modalkit/internal/vim/status"
)

type keysOptions struct {
	text      string
	file      string
	registers string
	write     bool
}

func (c *cli) newKeysCmd() *cobra.Command {
	var o keysOptions
	cmd := &cobra.Command{
		Use:   "keys KEYS...",
		Short: "Feed keys to a buffer and print the result",
		Long: `Feed keys in Vim notation to a buffer without a screen, then print the
buffer, the mode, the cursors and the last status message.

Examples:
  # Delete three characters
  modalkit keys --text "hello world" 3x

  # Record a macro and play it back
  modalkit keys -t "" 'qqahello<Esc>q@q'

  # Keep registers between runs
  modalkit keys -t "one two" --registers regs.yaml '"ayw'
  modalkit keys -t "" --registers regs.yaml '"ap'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runKeys(cmd, o, strings.Join(args, ""))
		},
	}
	cmd.Flags().StringVarP(&o.text, "text", "t", "", "initial buffer text")
	cmd.Flags().StringVarP(&o.file, "file", "f", "", "read the buffer from a file")
	cmd.Flags().StringVarP(&o.registers, "registers", "r", "", "load registers from this YAML file and save them back")
	cmd.Flags().BoolVarP(&o.write, "write", "w", false, "write the buffer back to --file")
	cmd.MarkFlagsMutuallyExclusive("text", "file")
	return cmd
}

func (c *cli) runKeys(cmd *cobra.Command, o keysOptions, keys string) error {
	if o.write && o.file == "" {
		return errors.New("--write needs --file")
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	logOut := io.Discard
	if c.v.IsSet("log.level") {
		logOut = cmd.ErrOrStderr()
	}

	rec := status.NewRecorder()
	a, err := app.New(cmd.Context(), app.Options{
		Config:    cfg,
		File:      o.file,
		Text:      o.text,
		Status:    rec,
		LogOutput: logOut,
		Clipboard: &register.MemoryClipboard{},
	})
	if err != nil {
		return err
	}
	defer func() { _ = a.Close(cmd.Context()) }()

	if o.registers != "" {
		if err := importRegisters(a.Registers, o.registers); err != nil {
			return err
		}
	}

	keysErr := a.Handler.HandleKeys(cmd.Context(), keys)
	printResult(cmd.OutOrStdout(), a, rec)
	if keysErr != nil {
		return keysErr
	}

	if o.registers != "" {
		if err := exportRegisters(a.Registers, o.registers); err != nil {
			return err
		}
	}
	if o.write {
		return a.Doc.Save()
	}
	return nil
}

func printResult(w io.Writer, a *app.App, rec *status.Recorder) {
	fmt.Fprintln(w, a.Doc.Buffer.Text())

	cs := a.State.Cursors()
	pos := make([]string, len(cs))
	for i, c := range cs {
		pos[i] = c.String()
	}
	fmt.Fprintf(w, "-- mode: %s  cursors: %s\n", a.State.Modes.Current(), strings.Join(pos, " "))
	if msg := rec.Last(); msg.Text != "" {
		fmt.Fprintf(w, "-- status: %s\n", msg.Text)
	}
}
