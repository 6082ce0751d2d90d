package domain

import (
	"netchat/errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type nopSink struct{}

func (nopSink) WriteMessage(string) error { return nil }
func (nopSink) Close() error              { return nil }

func TestSession_Activate_AssignsTrimmedNicknameOnce(t *testing.T) {
	req := require.New(t)
	session := NewSession(nopSink{})

	// Given a fresh session
	req.Equal(Connecting, session.State())
	req.Empty(session.Nickname())

	// When the handshake completes
	req.NoError(session.Activate("  alice \r"))

	// Then the nickname is trimmed and the session is active
	req.Equal("alice", session.Nickname())
	req.Equal(Active, session.State())

	// And a second activation is refused
	req.ErrorIs(session.Activate("bob"), errors.ErrNotConnecting)
	req.Equal("alice", session.Nickname())
}

func TestSession_Activate_RejectsBlankNickname(t *testing.T) {
	req := require.New(t)

	for _, raw := range []string{"", "   ", "\t", "\r\n"} {
		session := NewSession(nopSink{})
		req.ErrorIs(session.Activate(raw), errors.ErrInvalidNickname)
		req.Equal(Connecting, session.State())
	}
}

func TestSession_BeginClose_WinsExactlyOnce(t *testing.T) {
	req := require.New(t)
	session := NewSession(nopSink{})
	req.NoError(session.Activate("alice"))

	// When the quit path and the disconnect path race to close
	var winners int
	var mu sync.Mutex
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if session.BeginClose() {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// Then exactly one caller is allowed to announce the quit
	req.Equal(1, winners)
	req.Equal(Closing, session.State())

	session.FinishClose()
	req.Equal(Closed, session.State())
	req.False(session.BeginClose())
}

func TestSession_IdentityIsTheInstance(t *testing.T) {
	req := require.New(t)

	// Two sessions may share a nickname; they stay distinct instances.
	a := NewSession(nopSink{})
	b := NewSession(nopSink{})
	req.NoError(a.Activate("alice"))
	req.NoError(b.Activate("alice"))

	req.NotEqual(a.ID, b.ID)
	req.NotSame(a, b)
}
