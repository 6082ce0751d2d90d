// Package domain contains core concepts of the chat protocol.
// This file defines the Session entity and its lifecycle.
// No runtime, network, or UI logic should be added here.
package domain

import (
	"netchat/errors"
	"sync"

	"github.com/google/uuid"
)

// OutputSink is the write side of one connection. It is exclusively owned
// by a single Session; a message written through it must never interleave
// with another message destined for the same sink.
type OutputSink interface {
	WriteMessage(text string) error
	Close() error
}

// State is the per-connection lifecycle position.
// Closed is terminal.
type State int

const (
	Connecting State = iota
	Active
	Closing
	Closed
)

func (s State) String() string {
	switch s {
	case Connecting:
		return "CONNECTING"
	case Active:
		return "ACTIVE"
	case Closing:
		return "CLOSING"
	case Closed:
		return "CLOSED"
	}
	return "UNKNOWN"
}

// Session is the server-side state for one connected client, from handshake
// to disconnect. Registry identity is the Session pointer itself, never the
// nickname: two sessions may share a nickname.
type Session struct {
	ID   uuid.UUID
	sink OutputSink

	mu       sync.Mutex
	nickname string
	state    State
}

func NewSession(sink OutputSink) *Session {
	return &Session{
		ID:    uuid.New(),
		sink:  sink,
		state: Connecting,
	}
}

func (s *Session) Sink() OutputSink { return s.sink }

// Nickname is empty until Activate succeeded, immutable afterward.
func (s *Session) Nickname() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nickname
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Activate completes the handshake: it validates and assigns the nickname
// exactly once and moves the session from Connecting to Active.
func (s *Session) Activate(rawNickname string) error {
	nickname, err := ValidateNickname(rawNickname)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Connecting {
		return errors.ErrNotConnecting
	}
	s.nickname = nickname
	s.state = Active
	return nil
}

// BeginClose moves the session to Closing and reports whether the caller won
// the transition. The quit command, a read failure and a forced close may all
// race here; only the winner broadcasts the quit announcement.
func (s *Session) BeginClose() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Closing || s.state == Closed {
		return false
	}
	s.state = Closing
	return true
}

// FinishClose marks the session terminal. No operation is permitted afterward.
func (s *Session) FinishClose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Closed
}

// ListEntry is one row of a /list response.
type ListEntry struct {
	Nickname string
	You      bool
}
