package transport

import (
	"bufio"
	"io"
	"netchat/domain"
	"strings"
)

// LineReader turns the blocking read of one '\n'-terminated line into an
// explicit domain.ReadOutcome. A partial line cut off by EOF is treated as
// stream end, matching a peer that vanished mid-line.
type LineReader struct {
	reader *bufio.Reader
}

func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{reader: bufio.NewReader(r)}
}

// Next blocks until a full line is available, the stream ends, or the
// connection errors.
func (l *LineReader) Next() domain.ReadOutcome {
	line, err := l.reader.ReadString('\n')
	if err == nil {
		return domain.LineOutcome(strings.TrimRight(line, "\r\n"))
	}
	if err == io.EOF {
		return domain.EOFOutcome()
	}
	return domain.ErrorOutcome(err)
}
