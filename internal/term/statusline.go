package term

import (
	"sync"

	"github.com/dshills/modalkit/internal/vim/status"
)

// StatusLine is the status.Sink of the terminal front end. It keeps the last
// message until the next one or a clear.
type StatusLine struct {
	mu      sync.Mutex
	text    string
	isError bool
}

var _ status.Sink = (*StatusLine)(nil)

func (s *StatusLine) Set(msg string, isError bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text, s.isError = msg, isError
}

func (s *StatusLine) ReportLinesChanged(delta int) {
	if msg := status.LinesChangedMessage(delta); msg != "" {
		s.Set(msg, false)
	}
}

func (s *StatusLine) ReportSearch(pattern string, wrapped, backward bool) {
	s.Set(status.SearchMessage(pattern, wrapped, backward), false)
}

func (s *StatusLine) ReportFileInfo(info status.FileInfo) {
	s.Set(status.FileInfoMessage(info), false)
}

func (s *StatusLine) ReportClear() {
	s.Set("", false)
}

// Message returns the current message.
func (s *StatusLine) Message() (text string, isError bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text, s.isError
}
