package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/modalkit/internal/vim/register"
)

func (c *cli) newRegistersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registers",
		Short: "Inspect saved register files",
		Long: `Inspect register files written by "modalkit keys --registers FILE".

A register file is YAML holding text, block and macro registers.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show FILE",
		Short: "List the registers in a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store := register.NewStore()
			if err := importRegisters(store, args[0]); err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, name := range store.Names() {
				reg, _ := store.Get(name)
				fmt.Fprintf(w, "%-10s \"%c   %s\n", reg.Mode, name, register.Display(reg))
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear FILE [NAME...]",
		Short: "Clear registers in a file, or all of them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store := register.NewStore()
			if err := importRegisters(store, args[0]); err != nil {
				return err
			}
			names := store.Names()
			if len(args) > 1 {
				names = names[:0]
				for _, n := range args[1:] {
					r := []rune(n)
					if len(r) != 1 || !register.IsValidRegister(r[0]) {
						return fmt.Errorf("%w: %q", register.ErrInvalidRegister, n)
					}
					names = append(names, r[0])
				}
			}
			for _, n := range names {
				store.Clear(n)
			}
			return exportRegisters(store, args[0])
		},
	})
	return cmd
}

// importRegisters loads path into store. A missing file leaves store empty.
func importRegisters(store *register.Store, path string) error {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()
	if err := store.Import(f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func exportRegisters(store *register.Store, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := store.Export(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
