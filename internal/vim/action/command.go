package action

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dshills/modalkit/internal/engine/buffer"
	"github.com/dshills/modalkit/internal/vim/mode"
	"github.com/dshills/modalkit/internal/vim/register"
	"github.com/dshills/modalkit/internal/vim/state"
)

var commandLineModes = []mode.Mode{mode.CommandlineInProgress}

func toNormal(*state.VimState) mode.Mode { return mode.Normal }

func commandLine() []Factory {
	return []Factory{
		def(Base{
			ActionName:    "commandLine",
			ActionModes:   motionModes,
			ActionKeys:    keys(":"),
			ActionContext: Idle,
			Incomplete:    true,
			Global:        true,
		}, func(_ context.Context, vs *state.VimState, _ *funcAction, _ []string) error {
			vs.CommandLine = ":"
			return vs.Modes.Transition(mode.CommandlineInProgress)
		}),
		lineEditor("commandType", commandLineModes),
		lineBackspace("commandBackspace", commandLineModes, toNormal),
		lineCancel("commandCancel", commandLineModes, toNormal),
		def(Base{
			ActionName:    "commandRun",
			ActionModes:   commandLineModes,
			ActionKeys:    keys("<CR>"),
			ActionContext: AnyContext,
			Global:        true,
		}, runCommandLine),
	}
}

// abbrev reports whether cmd is name shortened to at least least characters.
func abbrev(cmd, name string, least int) bool {
	return len(cmd) >= least && strings.HasPrefix(name, cmd)
}

func runCommandLine(ctx context.Context, vs *state.VimState, a *funcAction, _ []string) error {
	cmd := strings.TrimSpace(strings.TrimPrefix(vs.CommandLine, ":"))
	vs.CommandLine = ""
	if err := vs.Modes.Transition(mode.Normal); err != nil {
		return err
	}
	if cmd == "" {
		return nil
	}
	vs.Commands.Add(cmd)
	vs.Registers.SetLastCommand(cmd)
	return runEx(ctx, vs, a, cmd)
}

// runEx runs one ex command.
func runEx(_ context.Context, vs *state.VimState, a *funcAction, cmd string) error {
	if n, err := strconv.Atoi(cmd); err == nil {
		line := min(max(n-1, 0), vs.LastLine())
		a.Jump = true
		setCursor(vs, buffer.Pos(line, buffer.FirstNonBlank(vs.Line(line))))
		return nil
	}
	switch {
	case abbrev(cmd, "registers", 3), abbrev(cmd, "display", 2):
		vs.Status.Set(listRegisters(vs), false)
	case cmd == "marks":
		vs.Status.Set(listMarks(vs), false)
	case abbrev(cmd, "jumps", 2):
		vs.Status.Set(listJumps(vs), false)
	case abbrev(cmd, "clearjumps", 7):
		vs.Jumps.Clear()
	case strings.HasSuffix(cmd, "!") && abbrev(strings.TrimSuffix(cmd, "!"), "delmarks", 4):
		vs.Marks.DeleteLower()
	case abbrev(cmd, "nohlsearch", 3):
		vs.Search.Highlight = false
	default:
		if vs.ExHandler != nil {
			handled, err := vs.ExHandler(cmd)
			if err != nil {
				return fmt.Errorf("ex %q: %w", cmd, err)
			}
			if handled {
				return nil
			}
		}
		vs.Status.Set("E492: Not an editor command: "+cmd, true)
	}
	return nil
}

func listRegisters(vs *state.VimState) string {
	var b strings.Builder
	b.WriteString("--- Registers ---")
	for _, name := range vs.Registers.Names() {
		reg, ok := vs.Registers.Get(name)
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "\n\"%c   %s", name, register.Display(reg))
	}
	return b.String()
}

func listMarks(vs *state.VimState) string {
	var b strings.Builder
	b.WriteString("mark line  col")
	for _, name := range vs.Marks.Names() {
		p, _ := vs.Marks.Get(name)
		fmt.Fprintf(&b, "\n %c %6d %4d", name, p.Line+1, p.Character)
	}
	return b.String()
}

func listJumps(vs *state.VimState) string {
	var b strings.Builder
	b.WriteString(" jump line  col file")
	entries := vs.Jumps.Entries()
	for i, j := range entries {
		fmt.Fprintf(&b, "\n%4d %5d %4d %s", i+1, j.Position.Line+1, j.Position.Character, j.File)
	}
	if vs.Jumps.Index() >= len(entries) {
		b.WriteString("\n>")
	}
	return b.String()
}
