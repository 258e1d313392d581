// Package status carries one-line feedback from the engine to the UI.
//
// The engine only writes to a Sink and never reads anything back. Messages
// follow the wording users of modal editors expect ("3 fewer lines",
// "search hit BOTTOM, continuing at TOP").
package status

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// ReportThreshold is the number of changed lines above which a change is
// reported.
const ReportThreshold = 2

// Sink receives status notifications.
type Sink interface {
	Set(msg string, isError bool)
	ReportLinesChanged(delta int)
	ReportSearch(pattern string, wrapped, backward bool)
	ReportFileInfo(info FileInfo)
	ReportClear()
}

// FileInfo describes the buffer for <C-g>.
type FileInfo struct {
	Name     string
	Lines    int
	Line     int // 0-based
	Modified bool
}

// LinesChangedMessage returns the message for a change of delta lines, or ""
// if the change is too small to report.
func LinesChangedMessage(delta int) string {
	switch {
	case delta > ReportThreshold:
		return fmt.Sprintf("%d more lines", delta)
	case delta < -ReportThreshold:
		return fmt.Sprintf("%d fewer lines", -delta)
	}
	return ""
}

// SearchMessage returns the message shown after a search.
func SearchMessage(pattern string, wrapped, backward bool) string {
	switch {
	case wrapped && backward:
		return "search hit TOP, continuing at BOTTOM"
	case wrapped:
		return "search hit BOTTOM, continuing at TOP"
	case backward:
		return "?" + pattern
	}
	return "/" + pattern
}

// FileInfoMessage renders a FileInfo the way <C-g> shows it.
func FileInfoMessage(info FileInfo) string {
	name := info.Name
	if name == "" {
		name = "[No Name]"
	}
	modified := ""
	if info.Modified {
		modified = " [Modified]"
	}
	pct := 0
	if info.Lines > 0 {
		pct = (info.Line + 1) * 100 / info.Lines
	}
	lines := "lines"
	if info.Lines == 1 {
		lines = "line"
	}
	return fmt.Sprintf("%q%s %d %s --%d%%--", name, modified, info.Lines, lines, pct)
}

// Message is one recorded status update.
type Message struct {
	Text    string
	IsError bool
}

// Recorder keeps every message in memory. It is used by the headless CLI and
// by tests.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Set(msg string, isError bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, Message{Text: msg, IsError: isError})
}

func (r *Recorder) ReportLinesChanged(delta int) {
	if msg := LinesChangedMessage(delta); msg != "" {
		r.Set(msg, false)
	}
}

func (r *Recorder) ReportSearch(pattern string, wrapped, backward bool) {
	r.Set(SearchMessage(pattern, wrapped, backward), false)
}

func (r *Recorder) ReportFileInfo(info FileInfo) {
	r.Set(FileInfoMessage(info), false)
}

func (r *Recorder) ReportClear() {
	r.Set("", false)
}

// Messages returns a copy of the recorded messages.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.messages))
	copy(out, r.messages)
	return out
}

// Last returns the most recent message.
func (r *Recorder) Last() Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.messages) == 0 {
		return Message{}
	}
	return r.messages[len(r.messages)-1]
}

// LogSink writes status messages to a logger.
type LogSink struct {
	Log zerolog.Logger
}

func (s LogSink) Set(msg string, isError bool) {
	if msg == "" {
		return
	}
	ev := s.Log.Info()
	if isError {
		ev = s.Log.Warn()
	}
	ev.Str("status", msg).Msg("status")
}

func (s LogSink) ReportLinesChanged(delta int) {
	if msg := LinesChangedMessage(delta); msg != "" {
		s.Set(msg, false)
	}
}

func (s LogSink) ReportSearch(pattern string, wrapped, backward bool) {
	s.Set(SearchMessage(pattern, wrapped, backward), false)
}

func (s LogSink) ReportFileInfo(info FileInfo) {
	s.Set(FileInfoMessage(info), false)
}

func (s LogSink) ReportClear() {}

// Nop discards everything.
type Nop struct{}

func (Nop) Set(string, bool)                {}
func (Nop) ReportLinesChanged(int)          {}
func (Nop) ReportSearch(string, bool, bool) {}
func (Nop) ReportFileInfo(FileInfo)         {}
func (Nop) ReportClear()                    {}
