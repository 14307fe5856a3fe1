package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/infinite-sweeper/sweeperd/internal/pos"
	"github.com/infinite-sweeper/sweeperd/internal/wire"
	"github.com/infinite-sweeper/sweeperd/internal/world"
)

// writeTimeout bounds a single outbound frame write, so a stalled TCP
// socket can't hang the connection's write pump indefinitely.
const writeTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Config bundles the parameters a Server is constructed with, following
// the Config.New() defaulting idiom used throughout this module.
type Config struct {
	Log   *slog.Logger
	World *world.World
	// MaxConcurrentQueries bounds how many chunks a single Query may
	// generate/fetch concurrently. Defaults to 8.
	MaxConcurrentQueries int64
}

// New constructs a Server ready to serve the /ws endpoint.
func (conf Config) New() *Server {
	if conf.Log == nil {
		conf.Log = slog.Default()
	}
	if conf.MaxConcurrentQueries <= 0 {
		conf.MaxConcurrentQueries = 8
	}
	return &Server{
		log:      conf.Log,
		world:    conf.World,
		hub:      NewHub(conf.Log),
		querySem: semaphore.NewWeighted(conf.MaxConcurrentQueries),
	}
}

// Server hosts the WebSocket endpoint that fans client messages into the
// World's single-writer transaction queue and server messages back out.
type Server struct {
	log      *slog.Logger
	world    *world.World
	hub      *Hub
	querySem *semaphore.Weighted
}

// Handler mounts the /ws endpoint on a fresh mux, for embedding alongside a
// static file server per spec.md §6.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleUpgrade)
	return mux
}

func (s *Server) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("server: websocket upgrade failed", "error", err)
		return
	}
	s.serve(conn)
}

// serve owns one client's connection lifecycle end to end: the handshake
// (waiting for the client's Connected message), then the steady-state
// message loop from spec.md §4.10, until the socket errors or closes
// (TransportError, per spec.md §7).
func (s *Server) serve(conn *websocket.Conn) {
	defer conn.Close()

	sessionID := uuid.NewString()
	var playerID string
	var mailbox *connection

	defer func() {
		if playerID == "" {
			return
		}
		s.hub.Unregister(playerID)
		close(mailbox.outbox)
		s.world.Exec(func(tx *world.Tx) { tx.RemovePlayer(playerID) })
		s.hub.Broadcast([]wire.ServerMessage{{Kind: wire.MsgDisconnected, DisconnectedID: playerID}}, "")
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		msg, ok := wire.DecodeClientMessage(data)
		if !ok {
			continue // MalformedInbound: drop the frame, keep the connection alive.
		}

		if playerID == "" {
			if msg.Kind != wire.CMConnected {
				continue
			}
			playerID, mailbox = s.handleConnect(sessionID, conn)
			continue
		}

		s.dispatch(playerID, mailbox, msg)
	}
}

// handleConnect registers the session's player, starts its write pump, and
// emits the Welcome/Player pair the Connected table entry specifies.
func (s *Server) handleConnect(sessionID string, conn *websocket.Conn) (string, *connection) {
	var player *world.Player
	<-s.world.Exec(func(tx *world.Tx) { player = tx.RegisterPlayer(sessionID) })

	mailbox := s.hub.Register(player.ID)
	go s.pump(mailbox, conn)

	s.hub.deliver(mailbox, []wire.ServerMessage{
		{Kind: wire.MsgWelcome, Player: player.Record()},
	})
	// Broadcast to everyone, including the new player itself: existing
	// clients learn about the newcomer, and the newcomer's own Player
	// message (distinct from its Welcome) lets it treat every connected
	// player, including itself, uniformly.
	s.hub.Broadcast([]wire.ServerMessage{
		{Kind: wire.MsgPlayer, Player: player.Record()},
	}, "")
	return player.ID, mailbox
}

// pump drains a connection's mailbox to its socket until the mailbox is
// closed (on disconnect) or a write fails (TransportError).
func (s *Server) pump(c *connection, conn *websocket.Conn) {
	for payload := range c.outbox {
		_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteMessage(websocket.BinaryMessage, payload); err != nil {
			conn.Close() // unblocks the read loop in serve, which runs the disconnect cleanup.
			return
		}
	}
}

// dispatch applies one decoded ClientMessage against the World and emits
// the resulting bundle(s), per the table in spec.md §4.10. Empty
// UpdatedRects suppress their event.
func (s *Server) dispatch(playerID string, mailbox *connection, msg wire.ClientMessage) {
	switch msg.Kind {
	case wire.CMClick:
		var rect *wire.UpdatedRect
		<-s.world.Exec(func(tx *world.Tx) {
			player, _ := tx.Player(playerID)
			rect = tx.Reveal([]pos.Position{msg.At}, player)
		})
		if rect.Width() > 0 {
			s.hub.Broadcast([]wire.ServerMessage{
				{Kind: wire.MsgEvent, Event: wire.Event{Kind: wire.Clicked, PlayerID: playerID, At: msg.At, Updated: rect}},
			}, "")
		}

	case wire.CMDoubleClick:
		var rect *wire.UpdatedRect
		<-s.world.Exec(func(tx *world.Tx) {
			player, _ := tx.Player(playerID)
			rect = tx.DoubleClick(msg.At, player)
		})
		if rect.Width() > 0 {
			s.hub.Broadcast([]wire.ServerMessage{
				{Kind: wire.MsgEvent, Event: wire.Event{Kind: wire.DoubleClicked, PlayerID: playerID, At: msg.At, Updated: rect}},
			}, "")
		}

	case wire.CMFlag:
		var ev wire.Event
		var ok bool
		<-s.world.Exec(func(tx *world.Tx) {
			player, _ := tx.Player(playerID)
			ev, ok = tx.Flag(msg.At, player)
		})
		if ok {
			s.hub.Broadcast([]wire.ServerMessage{{Kind: wire.MsgEvent, Event: ev}}, "")
		}

	case wire.CMQuery:
		s.handleQuery(mailbox, msg.Query)
	}
}

// handleQuery generates/fills/fetches every chunk touched by rect,
// concurrently up to MaxConcurrentQueries, and sends each as its own Chunk
// message to the querying connection only.
func (s *Server) handleQuery(mailbox *connection, rect pos.Rect) {
	chunks := rect.ChunksContaining()
	var g errgroup.Group
	for _, cp := range chunks {
		cp := cp
		if err := s.querySem.Acquire(context.Background(), 1); err != nil {
			continue
		}
		g.Go(func() error {
			defer s.querySem.Release(1)
			var msg wire.ServerMessage
			<-s.world.Exec(func(tx *world.Tx) {
				msg = wire.ServerMessage{Kind: wire.MsgChunk, Chunk: tx.EnsureAdjacency(cp)}
			})
			s.hub.deliver(mailbox, []wire.ServerMessage{msg})
			return nil
		})
	}
	_ = g.Wait()
}
