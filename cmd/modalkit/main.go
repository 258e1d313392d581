// Command modalkit is a modal text editor and a headless driver for the
// modal editing engine.
package main

import (
	"fmt"
	"os"
)

// Build information injected via ldflags.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	root := newRootCmd()
	root.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
