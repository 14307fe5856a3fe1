package world

import (
	"github.com/infinite-sweeper/sweeperd/internal/pos"
	"github.com/infinite-sweeper/sweeperd/internal/wire"
)

// ApplyServerMessage mutates a client-side replica according to a single
// message received from the authoritative server, per spec.md §4.11. It
// never generates chunks: a rect or flag touching a chunk the mirror
// hasn't seen yet is silently ignored, on the assumption the client will
// re-issue a Query once it notices the gap.
func (tx *Tx) ApplyServerMessage(msg wire.ServerMessage) {
	w := tx.w
	switch msg.Kind {
	case wire.MsgChunk:
		// Server-authored chunks always arrive with adjacency already
		// filled, so no further EnsureAdjacency is needed here.
		w.chunks[msg.Chunk.Position] = msg.Chunk
	case wire.MsgRect:
		tx.applyRect(msg.Rect)
	case wire.MsgEvent:
		tx.applyEvent(msg.Event)
	case wire.MsgPlayer:
		tx.upsertPlayer(msg.Player)
	case wire.MsgWelcome:
		tx.upsertPlayer(msg.Player)
		w.localPlayerID = msg.Player.ID
	case wire.MsgDisconnected:
		tx.RemovePlayer(msg.DisconnectedID)
	case wire.MsgConnected:
		// No local state change; this is the server's ack of an already
		// client-initiated handshake.
	}
}

func (tx *Tx) upsertPlayer(rec *wire.PlayerRecord) {
	tx.w.players[rec.ID] = &Player{
		ID:             rec.ID,
		Username:       rec.Username,
		Position:       rec.Position,
		FlagsCorrect:   rec.FlagsCorrect,
		FlagsIncorrect: rec.FlagsIncorrect,
	}
}

func (tx *Tx) applyRect(r *wire.UpdatedRect) {
	for _, t := range r.TilesUpdated() {
		if c, ok := tx.w.chunks[t.Position.ChunkPosition()]; ok {
			c.SetTile(t.Position, t.Tile)
		}
	}
}

func (tx *Tx) applyEvent(e wire.Event) {
	switch e.Kind {
	case wire.Clicked, wire.DoubleClicked:
		if e.Updated != nil {
			tx.applyRect(e.Updated)
		}
	case wire.Flag:
		tx.setFlagBit(e.At, true)
	case wire.Unflag:
		tx.setFlagBit(e.At, false)
	}
}

func (tx *Tx) setFlagBit(p pos.Position, flagged bool) {
	c, ok := tx.w.chunks[p.ChunkPosition()]
	if !ok {
		return
	}
	t := c.GetTile(p)
	if flagged {
		t = t.WithFlag()
	} else {
		t = t.WithoutFlag()
	}
	c.SetTile(p, t)
}
