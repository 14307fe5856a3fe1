package world

import (
	"github.com/google/uuid"

	"github.com/infinite-sweeper/sweeperd/internal/chunk"
	"github.com/infinite-sweeper/sweeperd/internal/pos"
	"github.com/infinite-sweeper/sweeperd/internal/tile"
)

// Tx is the execution context threaded through every World mutation. It is
// only ever constructed by World.run, so its existence is proof the caller
// is running on the World's single mutator goroutine.
type Tx struct {
	w *World
}

// World returns the World this transaction is operating against, for
// callers that need read-only world-level accessors (e.g. LoadedChunkCount).
func (tx *Tx) World() *World { return tx.w }

// RegisterPlayer returns the Player for sessionID, creating one on first
// sight. Idempotent: a session already seen returns its existing Player.
func (tx *Tx) RegisterPlayer(sessionID string) *Player {
	w := tx.w
	if id, ok := w.sessions[sessionID]; ok {
		return w.players[id]
	}
	p := &Player{ID: uuid.NewString(), SessionID: sessionID, Position: pos.Origin()}
	w.players[p.ID] = p
	w.sessions[sessionID] = p.ID
	return p
}

// Player looks up a player by id.
func (tx *Tx) Player(id string) (*Player, bool) {
	p, ok := tx.w.players[id]
	return p, ok
}

// Players returns a snapshot of every connected player, for console/status
// reporting.
func (tx *Tx) Players() []*Player {
	out := make([]*Player, 0, len(tx.w.players))
	for _, p := range tx.w.players {
		out = append(out, p)
	}
	return out
}

// RemovePlayer drops a player from the registry, e.g. on disconnect.
func (tx *Tx) RemovePlayer(id string) {
	w := tx.w
	if p, ok := w.players[id]; ok {
		delete(w.sessions, p.SessionID)
	}
	delete(w.players, id)
}

// LocalPlayerID returns the identity a client mirror learned from a
// Welcome message, or "" if none has arrived yet.
func (tx *Tx) LocalPlayerID() string { return tx.w.localPlayerID }

var neighborOffsets = [9][2]int32{
	{-16, -16}, {-16, 0}, {-16, 16},
	{0, -16}, {0, 0}, {0, 16},
	{16, -16}, {16, 0}, {16, 16},
}

// GetOrCreateChunk returns the chunk at p, generating (but not
// adjacency-filling) it on first reference.
func (tx *Tx) GetOrCreateChunk(p pos.ChunkPosition) *chunk.Chunk {
	w := tx.w
	if c, ok := w.chunks[p]; ok {
		return c
	}
	c := chunk.Generate(p, w.seed, w.mineCount)
	w.chunks[p] = c
	return c
}

// EnsureAdjacency generates the 3x3 neighborhood of the chunk at center if
// any part of it is missing, then fills adjacency on the center chunk if
// it hasn't been already. Repeated calls for an already-filled chunk are
// O(1).
func (tx *Tx) EnsureAdjacency(center pos.ChunkPosition) *chunk.Chunk {
	w := tx.w
	if c, ok := w.chunks[center]; ok && c.AdjacentMinesFilled() {
		return c
	}

	var n chunk.Neighborhood
	for i, off := range neighborOffsets {
		n[i] = tx.GetOrCreateChunk(pos.NewChunkPosition(center.X+off[0], center.Y+off[1]))
	}
	filled := chunk.FillAdjacentMines(n)
	w.chunks[center] = filled
	return filled
}

// LoadChunk installs an already-generated, already-adjacency-filled chunk
// into the world directly, bypassing Generate/FillAdjacentMines. Used only
// by snapshot restoration, where the chunk's tiles were read back from
// disk rather than derived from the world seed.
func (tx *Tx) LoadChunk(c *chunk.Chunk) {
	tx.w.chunks[c.Position] = c
}

// LoadPlayer installs a restored player (with its original id and session
// binding) back into the registry, so a reconnecting session resumes its
// prior stats instead of minting a new identity.
func (tx *Tx) LoadPlayer(p *Player) {
	tx.w.players[p.ID] = p
	if p.SessionID != "" {
		tx.w.sessions[p.SessionID] = p.ID
	}
}

// Chunks returns a snapshot of every currently loaded chunk, for snapshot
// persistence.
func (tx *Tx) Chunks() []*chunk.Chunk {
	out := make([]*chunk.Chunk, 0, len(tx.w.chunks))
	for _, c := range tx.w.chunks {
		out = append(out, c)
	}
	return out
}

// QueryChunks returns every already-loaded chunk overlapping rect, without
// generating any that are missing: a read-only view for clients inspecting
// their local mirror.
func (tx *Tx) QueryChunks(rect pos.Rect) []*chunk.Chunk {
	var result []*chunk.Chunk
	for _, cp := range rect.ChunksContaining() {
		if c, ok := tx.w.chunks[cp]; ok {
			result = append(result, c)
		}
	}
	return result
}

// tile reads the tile at p, generating and adjacency-filling its owning
// chunk (and neighborhood) as needed.
func (tx *Tx) tile(p pos.Position) tile.Tile {
	return tx.EnsureAdjacency(p.ChunkPosition()).GetTile(p)
}

// setTile writes t at p, generating and adjacency-filling the owning chunk
// first.
func (tx *Tx) setTile(p pos.Position, t tile.Tile) {
	tx.EnsureAdjacency(p.ChunkPosition()).SetTile(p, t)
}
