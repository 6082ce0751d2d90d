package observability

import "sync/atomic"

// Stats aggregates server-wide counters. Counters are atomic so connection
// handlers can bump them without coordination; Snapshot gives a consistent
// enough view for periodic logging.
type Stats struct {
	SessionsJoined    uint64
	SessionsClosed    uint64
	MessagesBroadcast uint64
	WriteFailures     uint64
}

func NewStats() *Stats {
	return &Stats{}
}

func (s *Stats) IncrSessionsJoined()    { atomic.AddUint64(&s.SessionsJoined, 1) }
func (s *Stats) IncrSessionsClosed()    { atomic.AddUint64(&s.SessionsClosed, 1) }
func (s *Stats) IncrMessagesBroadcast() { atomic.AddUint64(&s.MessagesBroadcast, 1) }
func (s *Stats) IncrWriteFailures()     { atomic.AddUint64(&s.WriteFailures, 1) }

// View is a point-in-time copy of all counters.
type View struct {
	SessionsJoined    uint64
	SessionsClosed    uint64
	MessagesBroadcast uint64
	WriteFailures     uint64
}

func (s *Stats) Snapshot() View {
	return View{
		SessionsJoined:    atomic.LoadUint64(&s.SessionsJoined),
		SessionsClosed:    atomic.LoadUint64(&s.SessionsClosed),
		MessagesBroadcast: atomic.LoadUint64(&s.MessagesBroadcast),
		WriteFailures:     atomic.LoadUint64(&s.WriteFailures),
	}
}
