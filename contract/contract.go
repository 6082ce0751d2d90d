//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"netchat/domain"
	"reflect"
)

// IRegistry is the shared collection of active sessions. All mutating
// operations must be safe under concurrent invocation from independent
// connection handlers.
type IRegistry interface {
	Add(session *domain.Session) error
	Remove(session *domain.Session) error
	Broadcast(sender *domain.Session, text string)
	List(requester *domain.Session) []domain.ListEntry
	Size() int
	Snapshot() []*domain.Session
}

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker
// lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
