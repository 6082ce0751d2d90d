// Package transport binds the chat protocol to a raw TCP connection:
// a serialized output sink, an explicit line reader, and the per-connection
// protocol handler.
package transport

import (
	"io"
	"net"
	"netchat/errors"
	"sync"
	"time"
)

// ConnSink is the exclusively-owned write side of one connection. A mutex
// serializes whole messages so a chat broadcast and a /list response aimed at
// the same peer never interleave mid-message.
type ConnSink struct {
	mu           sync.Mutex
	conn         net.Conn
	writeTimeout time.Duration
	closeOnce    sync.Once
	closed       bool
}

// NewConnSink wraps conn. writeTimeout bounds each message write so one slow
// peer cannot wedge a broadcast; zero disables the deadline.
func NewConnSink(conn net.Conn, writeTimeout time.Duration) *ConnSink {
	return &ConnSink{conn: conn, writeTimeout: writeTimeout}
}

func (s *ConnSink) WriteMessage(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errors.ErrSinkClosed
	}
	if s.writeTimeout > 0 {
		if err := s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout)); err != nil {
			return err
		}
	}
	_, err := io.WriteString(s.conn, text)
	return err
}

// Close is idempotent: the quit path and a forced shutdown may both reach it.
func (s *ConnSink) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
		err = s.conn.Close()
	})
	return err
}
