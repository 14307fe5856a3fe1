package world

import (
	"time"

	"github.com/infinite-sweeper/sweeperd/internal/pos"
	"github.com/infinite-sweeper/sweeperd/internal/tile"
	"github.com/infinite-sweeper/sweeperd/internal/wire"
)

// Reveal flood-fills outward from seeds, stopping at already-revealed or
// flagged cells and at any cell with nonzero adjacency. A revealed mine
// explodes (recording a death for player) and is never cascaded through,
// whatever its own adjacency count. Propagation only continues from cells
// with zero adjacency, none of whose neighbors is a mine, so only a seed
// can explode.
// The work-list is a stack; traversal order doesn't affect the resulting
// revealed set, only its cost.
func (tx *Tx) Reveal(seeds []pos.Position, player *Player) *wire.UpdatedRect {
	seen := make(map[pos.Position]tile.Tile)
	work := append([]pos.Position(nil), seeds...)

	for len(work) > 0 {
		p := work[len(work)-1]
		work = work[:len(work)-1]

		t := tx.tile(p)
		if t.IsRevealed() || t.IsFlag() {
			continue
		}
		t = t.WithRevealed()
		tx.setTile(p, t)
		seen[p] = t

		if t.IsMine() {
			if player != nil {
				player.Deaths = append(player.Deaths, time.Now())
			}
			continue
		}
		if player != nil {
			player.StatsRevealed[t.Adjacent()]++
		}
		if t.Adjacent() == 0 {
			work = append(work, p.Neighbors()...)
		}
	}

	tiles := make([]wire.UpdatedTile, 0, len(seen))
	for p, t := range seen {
		tiles = append(tiles, wire.UpdatedTile{Position: p, Tile: t})
	}
	return wire.NewUpdatedRect(tiles)
}

// Flag toggles the flag bit at p and reports the Event that resulted, or
// ok=false if p is already revealed (flagging a revealed cell is a no-op).
func (tx *Tx) Flag(p pos.Position, player *Player) (wire.Event, bool) {
	t := tx.tile(p)
	if t.IsRevealed() {
		return wire.Event{}, false
	}

	if t.IsFlag() {
		tx.setTile(p, t.WithoutFlag())
		if t.IsMine() {
			player.FlagsCorrect--
		} else {
			player.FlagsIncorrect--
		}
		return wire.Event{Kind: wire.Unflag, PlayerID: player.ID, At: p}, true
	}

	tx.setTile(p, t.WithFlag())
	if t.IsMine() {
		player.FlagsCorrect++
	} else {
		player.FlagsIncorrect++
	}
	return wire.Event{Kind: wire.Flag, PlayerID: player.ID, At: p}, true
}

// DoubleClick implements the chord: if p is revealed with nonzero
// adjacency and the number of flagged-or-exploded neighbors equals that
// adjacency count, every remaining unflagged, unrevealed neighbor is
// revealed in one batch. Returns an empty rect if the trigger condition
// isn't met.
func (tx *Tx) DoubleClick(p pos.Position, player *Player) *wire.UpdatedRect {
	t := tx.tile(p)
	if !t.IsRevealed() || t.Adjacent() == 0 {
		return wire.EmptyRect()
	}

	neighbors := p.Neighbors()
	matched := 0
	for _, n := range neighbors {
		nt := tx.tile(n)
		if nt.IsFlag() || (nt.IsRevealed() && nt.IsMine()) {
			matched++
		}
	}
	if matched != int(t.Adjacent()) {
		return wire.EmptyRect()
	}

	var seeds []pos.Position
	for _, n := range neighbors {
		nt := tx.tile(n)
		if !nt.IsFlag() && !nt.IsRevealed() {
			seeds = append(seeds, n)
		}
	}
	return tx.Reveal(seeds, player)
}
