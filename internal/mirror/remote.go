package mirror

import (
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/infinite-sweeper/sweeperd/internal/wire"
	"github.com/infinite-sweeper/sweeperd/internal/world"
)

// RemoteSocket drives a local mirror World over a WebSocket connection to
// an authoritative server: outgoing client messages are written directly
// to the socket, and a background goroutine decodes incoming bundles and
// applies each message to the mirror via World.Tx.ApplyServerMessage,
// grounded on native_websocket.rs's send/receive channel pair but
// collapsed onto gorilla/websocket's synchronous Conn instead of a raw
// TCP stream plus two dedicated threads.
type RemoteSocket struct {
	conn *websocket.Conn
	w    *world.World
	log  *slog.Logger

	mu       sync.Mutex
	queued   []wire.ServerMessage
	closeErr error
}

// DialRemoteSocket connects to url (e.g. "ws://host:port/ws") and starts
// the background read loop. The returned mirror World starts out empty:
// callers typically follow up with a CMQuery Send once Welcome arrives.
func DialRemoteSocket(url string, log *slog.Logger) (*RemoteSocket, error) {
	if log == nil {
		log = slog.Default()
	}
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, err
	}
	s := &RemoteSocket{conn: conn, w: world.New(0), log: log}
	go s.readLoop()
	s.Send(wire.ClientMessage{Kind: wire.CMConnected})
	return s, nil
}

func (s *RemoteSocket) World() *world.World { return s.w }

// Send writes msg to the socket immediately; unlike the queued send_queue
// in the source implementation, gorilla/websocket's Conn is safe for one
// concurrent writer, which this package guarantees by only ever calling
// Send from the owning goroutine.
func (s *RemoteSocket) Send(msg wire.ClientMessage) {
	if err := s.conn.WriteMessage(websocket.TextMessage, wire.EncodeClientMessage(msg)); err != nil {
		s.log.Warn("mirror: failed to send client message", "error", err)
	}
}

// readLoop decodes incoming bundles and applies every message to the
// mirror World, queuing each for NextMessage so callers can still observe
// individual events (e.g. to trigger a sound or animation) the way they
// would against LocalSocket.
func (s *RemoteSocket) readLoop() {
	for {
		kind, data, err := s.conn.ReadMessage()
		if err != nil {
			s.mu.Lock()
			s.closeErr = err
			s.mu.Unlock()
			return
		}
		if kind != websocket.BinaryMessage {
			continue
		}
		messages, err := wire.DecodeBundle(data)
		if err != nil {
			s.log.Warn("mirror: dropping malformed bundle", "error", err)
		}
		for _, msg := range messages {
			<-s.w.Exec(func(tx *world.Tx) { tx.ApplyServerMessage(msg) })
			s.mu.Lock()
			s.queued = append(s.queued, msg)
			s.mu.Unlock()
		}
	}
}

// NextMessage pops the oldest message applied since the last call, if any.
func (s *RemoteSocket) NextMessage() (wire.ServerMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queued) == 0 {
		return wire.ServerMessage{}, false
	}
	msg := s.queued[0]
	s.queued = s.queued[1:]
	return msg, true
}

// Close tears down the underlying connection.
func (s *RemoteSocket) Close() error {
	return s.conn.Close()
}
