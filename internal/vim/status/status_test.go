package status

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestLinesChangedMessage(t *testing.T) {
	require.Equal(t, "", LinesChangedMessage(2))
	require.Equal(t, "", LinesChangedMessage(-2))
	require.Equal(t, "3 more lines", LinesChangedMessage(3))
	require.Equal(t, "5 fewer lines", LinesChangedMessage(-5))
}

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	r.ReportLinesChanged(1)
	require.Empty(t, r.Messages())

	r.ReportSearch("foo", true, false)
	require.Equal(t, Message{Text: "search hit BOTTOM, continuing at TOP"}, r.Last())

	r.Set("Already at oldest change", false)
	r.ReportFileInfo(FileInfo{Name: "a.txt", Lines: 4, Line: 1, Modified: true})
	require.Equal(t, `"a.txt" [Modified] 4 lines --50%--`, r.Last().Text)
	require.Len(t, r.Messages(), 3)

	require.Equal(t, `"[No Name]" 1 line --100%--`, FileInfoMessage(FileInfo{Lines: 1}))
}

func TestLogSink(t *testing.T) {
	var buf bytes.Buffer
	s := LogSink{Log: zerolog.New(&buf)}

	s.Set("E35: No previous regular expression", true)
	require.Contains(t, buf.String(), `"level":"warn"`)
	require.Contains(t, buf.String(), "E35")
}
