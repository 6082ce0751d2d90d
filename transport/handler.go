package transport

import (
	"context"
	goerrors "errors"
	"io"
	"log/slog"
	"netchat/contract"
	"netchat/domain"
	"netchat/errors"
	"netchat/observability"
	"netchat/wire"
	"strings"
)

const (
	quitCommand = "/quit"
	listCommand = "/list"
)

// ProtocolHandler drives one connection through the protocol state machine:
// CONNECTING (handshake) -> ACTIVE (chat loop) -> CLOSING -> CLOSED.
// Every error is contained here; nothing propagates to other sessions or to
// the listener.
type ProtocolHandler struct {
	log      *slog.Logger
	registry contract.IRegistry
	session  *domain.Session
	reader   *LineReader
	stats    *observability.Stats
}

func NewProtocolHandler(
	log *slog.Logger,
	registry contract.IRegistry,
	session *domain.Session,
	input io.Reader,
	stats *observability.Stats,
) *ProtocolHandler {
	return &ProtocolHandler{
		log:      log,
		registry: registry,
		session:  session,
		reader:   NewLineReader(input),
		stats:    stats,
	}
}

// Run blocks until the session quits or disconnects. It always leaves the
// session out of the registry with its sink closed.
func (h *ProtocolHandler) Run(ctx context.Context) error {
	if ok := h.handshake(); !ok {
		// The peer left before identifying itself; it was never
		// registered, so there is nothing to announce.
		_ = h.session.Sink().Close()
		h.session.FinishClose()
		return nil
	}

	if err := h.join(); err != nil {
		return err
	}

	h.serve(ctx)
	h.shutdown()
	return nil
}

// handshake prompts for a nickname until a valid one arrives. Blank input is
// re-prompted rather than rejected so a fumbled first line does not cost the
// connection. Returns false when the stream ended first.
func (h *ProtocolHandler) handshake() bool {
	for {
		if err := h.session.Sink().WriteMessage(wire.Prompt); err != nil {
			return false
		}
		outcome := h.reader.Next()
		if outcome.Kind != domain.ReadLine {
			return false
		}
		err := h.session.Activate(outcome.Line)
		if err == nil {
			return true
		}
		if goerrors.Is(err, errors.ErrInvalidNickname) {
			h.log.Debug("rejected nickname, prompting again",
				"session_id", h.session.ID, "error", err)
			continue
		}
		h.log.Error("handshake failed", "session_id", h.session.ID, "error", err)
		return false
	}
}

// join registers the session, welcomes it and announces its arrival.
// The welcome counts the other users after this session was added.
func (h *ProtocolHandler) join() error {
	if err := h.registry.Add(h.session); err != nil {
		// Invariant violation: never user-facing, log and drop.
		h.log.Error("dropping session on registry invariant violation",
			"session_id", h.session.ID, "error", err)
		_ = h.session.Sink().Close()
		h.session.FinishClose()
		return err
	}

	others := h.registry.Size() - 1
	if err := h.session.Sink().WriteMessage(wire.Welcome(h.session.Nickname(), others)); err != nil {
		h.shutdown()
		return nil
	}
	h.registry.Broadcast(h.session, wire.Join(h.session.Nickname()))
	h.stats.IncrSessionsJoined()
	return nil
}

// serve is the ACTIVE state: one line in, one dispatch. Returns when the
// session quits, the stream ends, the connection errors, or ctx is canceled.
func (h *ProtocolHandler) serve(ctx context.Context) {
	nickname := h.session.Nickname()
	for {
		outcome := h.reader.Next()
		if ctx.Err() != nil {
			return
		}

		switch outcome.Kind {
		case domain.ReadEOF:
			// Peer closed without /quit: same path as an explicit quit.
			return
		case domain.ReadError:
			h.log.Debug("read failed, treating as disconnect",
				"session_id", h.session.ID, "nickname", nickname, "error", outcome.Err)
			return
		}

		message := strings.TrimSpace(outcome.Line)
		switch message {
		case quitCommand:
			return
		case listCommand:
			listing := wire.Listing(h.registry.List(h.session))
			if err := h.session.Sink().WriteMessage(listing); err != nil {
				return
			}
		default:
			// Anything else is chat content, including empty lines and
			// strings that merely start with '/'.
			h.registry.Broadcast(h.session, wire.Chat(nickname, message))
			h.stats.IncrMessagesBroadcast()
		}
	}
}

// shutdown is the CLOSING state. BeginClose guarantees the quit announcement
// and the removal happen exactly once even when the quit command, a read
// failure and a forced close race.
func (h *ProtocolHandler) shutdown() {
	if !h.session.BeginClose() {
		return
	}
	// Removal comes first so that anyone who hears the announcement no
	// longer finds the session in a listing.
	if err := h.registry.Remove(h.session); err != nil {
		// Benign race with a concurrent removal.
		h.log.Debug("session already removed", "session_id", h.session.ID)
	}
	h.registry.Broadcast(h.session, wire.Quit(h.session.Nickname()))
	_ = h.session.Sink().Close()
	h.session.FinishClose()
	h.stats.IncrSessionsClosed()
	h.log.Info("session closed",
		"session_id", h.session.ID, "nickname", h.session.Nickname())
}
