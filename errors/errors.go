package errors

import "fmt"

var (
	ErrDuplicateSession = fmt.Errorf("session already registered")
	ErrSessionAbsent    = fmt.Errorf("session not registered")
	ErrInvalidNickname  = fmt.Errorf("nickname is empty or invalid")
	ErrSinkClosed       = fmt.Errorf("output sink is closed")
	ErrNotConnecting    = fmt.Errorf("session is past the handshake")
	ErrWorkerPanic      = fmt.Errorf("worker panic")
)
