package workers

import (
	"context"
	"log/slog"
	"net"
	"netchat/contract"
	"netchat/domain"
	"netchat/observability"
	"netchat/transport"
	"sync"
	"time"
)

// ServerWorker owns the TCP listener. Each accepted connection is handled by
// an independent goroutine running a ProtocolHandler; no ordering across
// connections exists beyond what the registry serializes. On shutdown it
// closes the listener, then force-closes every live sink so blocked reads
// unwind through the normal disconnect path.
type ServerWorker struct {
	log          *slog.Logger
	registry     contract.IRegistry
	stats        *observability.Stats
	address      string
	writeTimeout time.Duration

	mu       sync.Mutex
	listener net.Listener
	conns    map[net.Conn]struct{}
	handlers sync.WaitGroup
}

func NewServerWorker(
	log *slog.Logger,
	registry contract.IRegistry,
	stats *observability.Stats,
	address string,
	writeTimeout time.Duration,
) *ServerWorker {
	return &ServerWorker{
		log:          log,
		registry:     registry,
		stats:        stats,
		address:      address,
		writeTimeout: writeTimeout,
		conns:        make(map[net.Conn]struct{}),
	}
}

// Addr reports the bound listener address, nil before Run listened.
// Useful when the configured port is 0.
func (w *ServerWorker) Addr() net.Addr {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.listener == nil {
		return nil
	}
	return w.listener.Addr()
}

func (w *ServerWorker) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", w.address)
	if err != nil {
		return err
	}
	w.mu.Lock()
	w.listener = listener
	w.mu.Unlock()
	w.log.Info("Chat server listening", "address", listener.Addr().String())

	go func() {
		<-ctx.Done()
		_ = listener.Close()
		// Force-close every live connection, including ones still in
		// the handshake, so blocked reads unwind through the normal
		// disconnect path.
		w.mu.Lock()
		for conn := range w.conns {
			_ = conn.Close()
		}
		w.mu.Unlock()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				w.handlers.Wait()
				w.log.Info("Chat server stopped")
				return nil
			}
			// A failed accept is worth a restart; live sessions are
			// unaffected because the registry outlives this worker.
			return err
		}

		w.mu.Lock()
		w.conns[conn] = struct{}{}
		w.mu.Unlock()
		if ctx.Err() != nil {
			// Accepted in the shutdown window, after the closer drained
			// the map.
			_ = conn.Close()
		}

		w.handlers.Add(1)
		go func() {
			defer w.handlers.Done()
			defer func() {
				w.mu.Lock()
				delete(w.conns, conn)
				w.mu.Unlock()
			}()
			w.handleConnection(ctx, conn)
		}()
	}
}

func (w *ServerWorker) handleConnection(ctx context.Context, conn net.Conn) {
	sink := transport.NewConnSink(conn, w.writeTimeout)
	session := domain.NewSession(sink)
	w.log.Debug("connection accepted",
		"session_id", session.ID, "remote", conn.RemoteAddr().String())

	handler := transport.NewProtocolHandler(w.log, w.registry, session, conn, w.stats)
	if err := handler.Run(ctx); err != nil {
		w.log.Error("handler terminated abnormally",
			"session_id", session.ID, "error", err)
	}
}
