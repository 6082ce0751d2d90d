package runtime

import (
	"log/slog"
	"netchat/domain"
	"netchat/errors"
	"netchat/observability"
	"sync"
)

// Registry is the thread-safe collection of live sessions. Membership is
// keyed on the session pointer and exists between handshake completion and
// removal on quit/disconnect. Insertion order is preserved and is the
// authoritative order for /list output.
type Registry struct {
	mu      sync.RWMutex
	log     *slog.Logger
	stats   *observability.Stats
	members []*domain.Session
	index   map[*domain.Session]struct{}
}

func NewRegistry(log *slog.Logger, stats *observability.Stats) *Registry {
	return &Registry{
		log:   log,
		stats: stats,
		index: make(map[*domain.Session]struct{}),
	}
}

// Add inserts a session after its handshake completed. A duplicate add is an
// internal invariant violation, never expected from the normal flow: the
// caller should log it and drop the session, not surface it to the user.
func (r *Registry) Add(session *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.index[session]; ok {
		return errors.ErrDuplicateSession
	}
	r.index[session] = struct{}{}
	r.members = append(r.members, session)
	return nil
}

// Remove takes a session out of the registry. The quit path and the
// disconnect path may race to remove the same session, so an absent session
// is reported but benign.
func (r *Registry) Remove(session *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.index[session]; !ok {
		return errors.ErrSessionAbsent
	}
	delete(r.index, session)
	for i, member := range r.members {
		if member == session {
			r.members = append(r.members[:i], r.members[i+1:]...)
			break
		}
	}
	return nil
}

// Broadcast writes text to every member except the sender. The member set is
// snapshotted under the lock and the writes happen outside it: a concurrent
// add/remove cannot corrupt the iteration and a slow peer never blocks the
// registry. A write failure skips that recipient only.
func (r *Registry) Broadcast(sender *domain.Session, text string) {
	for _, member := range r.Snapshot() {
		if member == sender {
			continue
		}
		if err := member.Sink().WriteMessage(text); err != nil {
			r.stats.IncrWriteFailures()
			r.log.Warn("skipping unreachable recipient",
				"session_id", member.ID,
				"nickname", member.Nickname(),
				"error", err)
		}
	}
}

// List returns the current nicknames in insertion order, with the entry
// matching the requester tagged.
func (r *Registry) List(requester *domain.Session) []domain.ListEntry {
	snapshot := r.Snapshot()
	entries := make([]domain.ListEntry, 0, len(snapshot))
	for _, member := range snapshot {
		entries = append(entries, domain.ListEntry{
			Nickname: member.Nickname(),
			You:      member == requester,
		})
	}
	return entries
}

func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.members)
}

// Snapshot copies the member slice under the read lock.
func (r *Registry) Snapshot() []*domain.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	snapshot := make([]*domain.Session, len(r.members))
	copy(snapshot, r.members)
	return snapshot
}
