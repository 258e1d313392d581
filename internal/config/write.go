package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const header = `modalkit configuration. Every key can be overridden with a MODALKIT_*
environment variable, for example MODALKIT_EDITOR_TABSTOP=4.
Remaps are not recursive: remaps = [{mode = "insert", from = "jk", to = "<Esc>"}]`

// Marshal encodes c in the format named by ext (".toml", ".yaml" or ".yml"),
// preceded by a comment block.
func Marshal(c Config, ext string) ([]byte, error) {
	var (
		body []byte
		err  error
	)
	switch strings.ToLower(ext) {
	case ".toml":
		body, err = toml.Marshal(c)
	case ".yaml", ".yml":
		body, err = yaml.Marshal(c)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}

	var b strings.Builder
	for _, line := range strings.Split(header, "\n") {
		b.WriteString("# " + line + "\n")
	}
	b.WriteString("\n")
	b.Write(body)
	return []byte(b.String()), nil
}

// WriteDefault writes the default configuration to path, choosing the
// format from its extension. An existing file is only replaced when force is
// set.
func WriteDefault(path string, force bool) error {
	data, err := Marshal(Default(), filepath.Ext(path))
	if err != nil {
		return err
	}
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", ErrFileExists, path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
