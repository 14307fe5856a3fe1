package mirror

import (
	"sync"

	"github.com/infinite-sweeper/sweeperd/internal/pos"
	"github.com/infinite-sweeper/sweeperd/internal/wire"
	"github.com/infinite-sweeper/sweeperd/internal/world"
)

// LocalSocket drives a World in-process: every Send call is a direct Tx
// method call rather than a network round trip, and the resulting events
// are queued for NextMessage to drain, mirroring local.rs's
// events.pop_front() against its own World.
type LocalSocket struct {
	w        *world.World
	playerID string

	mu     sync.Mutex
	queued []wire.ServerMessage
}

// NewLocalSocket wraps w, registering a single local player immediately.
func NewLocalSocket(w *world.World) *LocalSocket {
	s := &LocalSocket{w: w}
	<-w.Exec(func(tx *world.Tx) {
		s.playerID = tx.RegisterPlayer("local").ID
	})
	return s
}

func (s *LocalSocket) World() *world.World { return s.w }

// Send applies msg directly against the owning World, queuing whatever
// event it produces for NextMessage. Connected is a no-op here: there is
// no handshake to acknowledge against an in-process world.
func (s *LocalSocket) Send(msg wire.ClientMessage) {
	switch msg.Kind {
	case wire.CMConnected:
	case wire.CMClick:
		s.applyReveal(msg.At, wire.Clicked)
	case wire.CMDoubleClick:
		s.applyReveal(msg.At, wire.DoubleClicked)
	case wire.CMFlag:
		s.applyFlag(msg.At)
	case wire.CMQuery:
		s.applyQuery(msg.Query)
	}
}

func (s *LocalSocket) applyReveal(at pos.Position, kind wire.EventKind) {
	var rect *wire.UpdatedRect
	<-s.w.Exec(func(tx *world.Tx) {
		player, _ := tx.Player(s.playerID)
		if kind == wire.Clicked {
			rect = tx.Reveal([]pos.Position{at}, player)
		} else {
			rect = tx.DoubleClick(at, player)
		}
	})
	if rect.Width() == 0 {
		return
	}
	s.push(wire.ServerMessage{
		Kind:  wire.MsgEvent,
		Event: wire.Event{Kind: kind, PlayerID: s.playerID, At: at, Updated: rect},
	})
}

func (s *LocalSocket) applyFlag(at pos.Position) {
	var ev wire.Event
	var ok bool
	<-s.w.Exec(func(tx *world.Tx) {
		player, _ := tx.Player(s.playerID)
		ev, ok = tx.Flag(at, player)
	})
	if ok {
		s.push(wire.ServerMessage{Kind: wire.MsgEvent, Event: ev})
	}
}

// applyQuery generates/fills every chunk rect touches and queues each as a
// Chunk message, since a local socket has no background Query dispatch to
// rely on: the caller's next drain of NextMessage is the only delivery
// path it has.
func (s *LocalSocket) applyQuery(rect pos.Rect) {
	for _, cp := range rect.ChunksContaining() {
		var c = cp
		var msg wire.ServerMessage
		<-s.w.Exec(func(tx *world.Tx) {
			msg = wire.ServerMessage{Kind: wire.MsgChunk, Chunk: tx.EnsureAdjacency(c)}
		})
		s.push(msg)
	}
}

func (s *LocalSocket) push(msg wire.ServerMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queued = append(s.queued, msg)
}

// NextMessage pops the oldest queued message, if any.
func (s *LocalSocket) NextMessage() (wire.ServerMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queued) == 0 {
		return wire.ServerMessage{}, false
	}
	msg := s.queued[0]
	s.queued = s.queued[1:]
	return msg, true
}
