package register

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dshills/modalkit/internal/input/key"
)

// persistedRegister is the YAML form of one register.
type persistedRegister struct {
	Name string   `yaml:"name"`
	Mode string   `yaml:"mode"`
	Text string   `yaml:"text,omitempty"`
	Rows []string `yaml:"rows,omitempty"`
	// Macro holds one entry per recorded action in key notation.
	Macro []string `yaml:"macro,omitempty"`
}

type persistedData struct {
	Version   int                 `yaml:"version"`
	SavedAt   time.Time           `yaml:"saved_at"`
	Registers []persistedRegister `yaml:"registers"`
}

const currentVersion = 1

// Export writes every non-empty register except the clipboard registers as
// YAML.
func (s *Store) Export(w io.Writer) error {
	data := persistedData{Version: currentVersion, SavedAt: time.Now()}

	for _, name := range s.Names() {
		if name == Selection || name == ClipboardName {
			continue
		}
		reg, _ := s.Get(name)
		p := persistedRegister{Name: string(name), Mode: reg.Mode.String()}
		switch c := reg.Content.(type) {
		case TextContent:
			p.Text = c.Text
		case BlockContent:
			p.Rows = c.Rows
		case MacroContent:
			for _, k := range c.Keys {
				p.Macro = append(p.Macro, key.Join(k))
			}
		}
		data.Registers = append(data.Registers, p)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("encode registers: %w", err)
	}
	return enc.Close()
}

// Import loads registers written by Export, replacing existing values.
func (s *Store) Import(r io.Reader) error {
	var data persistedData
	if err := yaml.NewDecoder(r).Decode(&data); err != nil {
		return fmt.Errorf("decode registers: %w", err)
	}
	if data.Version > currentVersion {
		return fmt.Errorf("unsupported register file version %d", data.Version)
	}

	for _, p := range data.Registers {
		runes := []rune(p.Name)
		if len(runes) != 1 {
			return fmt.Errorf("%w: %q", ErrInvalidRegister, p.Name)
		}
		var content Content
		switch {
		case len(p.Macro) > 0:
			keys := make([][]string, 0, len(p.Macro))
			for _, m := range p.Macro {
				keys = append(keys, key.Tokenize(m))
			}
			content = MacroContent{Keys: keys}
		case p.Rows != nil:
			content = BlockContent{Rows: p.Rows}
		default:
			content = TextContent{Text: p.Text}
		}
		if err := s.PutByKey(runes[0], content, ParseMode(p.Mode)); err != nil {
			return err
		}
	}
	return nil
}
