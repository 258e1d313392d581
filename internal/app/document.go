package app

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/dshills/modalkit/internal/engine/buffer"
)

// Document is a buffer and the file it was read from.
type Document struct {
	// Path is the file path, empty for a scratch buffer.
	Path   string
	Buffer *buffer.Buffer

	mu    sync.Mutex
	saved string
}

// OpenDocument reads path into a buffer. A missing file gives an empty
// buffer that is created on the first save.
func OpenDocument(path string) (*Document, error) {
	if path == "" {
		return &Document{Buffer: buffer.NewBuffer()}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, &OperationError{Op: "open", Target: path, Err: err}
	}
	text := string(data)
	b := buffer.NewBufferFromString(text, buffer.WithName(filepath.Base(path)))
	return &Document{Path: path, Buffer: b, saved: b.Text()}, nil
}

// Save writes the buffer to Path through a temporary file in the same
// directory.
func (d *Document) Save() error {
	if d.Path == "" {
		return &OperationError{Op: "save", Err: errors.New("no file name")}
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	text := d.Buffer.Text()
	tmp, err := os.CreateTemp(filepath.Dir(d.Path), "."+filepath.Base(d.Path)+".*")
	if err != nil {
		return &OperationError{Op: "save", Target: d.Path, Err: err}
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		return &OperationError{Op: "save", Target: d.Path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &OperationError{Op: "save", Target: d.Path, Err: err}
	}
	if err := os.Rename(tmp.Name(), d.Path); err != nil {
		return &OperationError{Op: "save", Target: d.Path, Err: err}
	}
	d.saved = text
	return nil
}

// IsModified reports changes since the last read or save.
func (d *Document) IsModified() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.Buffer.Text() != d.saved
}
