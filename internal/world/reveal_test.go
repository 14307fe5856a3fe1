package world

import (
	"testing"

	"github.com/infinite-sweeper/sweeperd/internal/chunk"
	"github.com/infinite-sweeper/sweeperd/internal/pos"
	"github.com/infinite-sweeper/sweeperd/internal/tile"
	"github.com/infinite-sweeper/sweeperd/internal/wire"
)

// chunkIndex converts an in-chunk (x, y) pair into the packed tile array
// index, mirroring pos.PositionInChunk's (y<<4)|x layout.
func chunkIndex(x, y int) int { return (y << 4) | x }

func TestRevealSingleDenseCellDoesNotCascade(t *testing.T) {
	w := newTestWorld()
	center := pos.NewChunkPosition(0, 0)

	var tiles [chunk.CellCount]tile.Tile
	tiles[chunkIndex(8, 8)] = tile.Empty().AddAdjacent(3)
	w.chunks[center] = chunk.FromTilesFilled(center, tiles)

	tx := &Tx{w: w}
	rect := tx.Reveal([]pos.Position{{X: 8, Y: 8}}, nil)

	if rect.Width() != 1 || rect.Height() != 1 {
		t.Fatalf("expected a single-cell rect, got %dx%d", rect.Width(), rect.Height())
	}
	if rect.TopLeft != (pos.Position{X: 8, Y: 8}) {
		t.Fatalf("unexpected top-left: %+v", rect.TopLeft)
	}
	got := tx.tile(pos.Position{X: 8, Y: 8})
	if !got.IsRevealed() || got.Adjacent() != 3 {
		t.Fatalf("cell was not revealed with adjacency 3: %+v", got)
	}
}

func TestRevealRecordsAdjacencyStats(t *testing.T) {
	w := newTestWorld()
	center := pos.NewChunkPosition(0, 0)

	var tiles [chunk.CellCount]tile.Tile
	tiles[chunkIndex(8, 8)] = tile.Empty().AddAdjacent(3)
	w.chunks[center] = chunk.FromTilesFilled(center, tiles)

	tx := &Tx{w: w}
	player := &Player{ID: "p1"}
	tx.Reveal([]pos.Position{{X: 8, Y: 8}}, player)

	if player.StatsRevealed[3] != 1 {
		t.Fatalf("expected one reveal recorded at adjacency 3, got %+v", player.StatsRevealed)
	}
}

func TestRevealIsIdempotent(t *testing.T) {
	w := newTestWorld()
	center := pos.NewChunkPosition(0, 0)

	var tiles [chunk.CellCount]tile.Tile
	tiles[chunkIndex(8, 8)] = tile.Empty().AddAdjacent(3)
	w.chunks[center] = chunk.FromTilesFilled(center, tiles)

	tx := &Tx{w: w}
	tx.Reveal([]pos.Position{{X: 8, Y: 8}}, nil)
	second := tx.Reveal([]pos.Position{{X: 8, Y: 8}}, nil)

	if second.Width() != 0 || second.Height() != 0 {
		t.Fatalf("revealing an already-revealed cell should be a no-op, got %dx%d", second.Width(), second.Height())
	}
}

func TestRevealSkipsFlaggedCells(t *testing.T) {
	w := newTestWorld()
	center := pos.NewChunkPosition(0, 0)

	var tiles [chunk.CellCount]tile.Tile
	tiles[chunkIndex(8, 8)] = tile.Empty().WithFlag()
	w.chunks[center] = chunk.FromTilesFilled(center, tiles)

	tx := &Tx{w: w}
	rect := tx.Reveal([]pos.Position{{X: 8, Y: 8}}, nil)

	if rect.Width() != 0 {
		t.Fatalf("revealing a flagged cell should be a no-op, got width %d", rect.Width())
	}
	if tx.tile(pos.Position{X: 8, Y: 8}).IsRevealed() {
		t.Fatalf("flagged cell must not become revealed")
	}
}

func TestRevealMineStopsCascadeAndRecordsDeath(t *testing.T) {
	w := newTestWorld()
	center := pos.NewChunkPosition(0, 0)

	var tiles [chunk.CellCount]tile.Tile
	tiles[chunkIndex(8, 8)] = tile.Mine()
	w.chunks[center] = chunk.FromTilesFilled(center, tiles)

	tx := &Tx{w: w}
	player := &Player{ID: "p1"}
	rect := tx.Reveal([]pos.Position{{X: 8, Y: 8}}, player)

	if rect.Width() != 1 || rect.Height() != 1 {
		t.Fatalf("a mine reveal should only ever touch the mine's own cell, got %dx%d", rect.Width(), rect.Height())
	}
	if len(player.Deaths) != 1 {
		t.Fatalf("expected exactly one death, got %d", len(player.Deaths))
	}
	got := tx.tile(pos.Position{X: 8, Y: 8})
	if !got.IsRevealed() || !got.IsMine() {
		t.Fatalf("expected an exploded, revealed mine: %+v", got)
	}
}

func TestRevealFloodFillAcrossChunkBorders(t *testing.T) {
	w := newTestWorld()
	center := pos.NewChunkPosition(0, 0)
	w.chunks[center] = zeroChunk(center)
	for _, off := range neighborOffsets {
		if off == [2]int32{0, 0} {
			continue
		}
		p := pos.NewChunkPosition(off[0], off[1])
		w.chunks[p] = wallChunk(p)
	}

	tx := &Tx{w: w}
	rect := tx.Reveal([]pos.Position{{X: 8, Y: 8}}, nil)

	// The zero-adjacency interior chunk floods in full (256 cells), plus a
	// single revealed cell of border on every side where it meets a wall
	// chunk: a solid 18x18 square centered on the interior chunk.
	if rect.TopLeft != (pos.Position{X: -1, Y: -1}) {
		t.Fatalf("unexpected top-left: %+v", rect.TopLeft)
	}
	if rect.Width() != 18 || rect.Height() != 18 {
		t.Fatalf("expected an 18x18 bounding box, got %dx%d", rect.Width(), rect.Height())
	}
	if got := len(rect.TilesUpdated()); got != 18*18 {
		t.Fatalf("expected a fully dense 18x18 square (324 cells), got %d", got)
	}
}

func TestFlagTogglesAndTracksPlayerStats(t *testing.T) {
	w := newTestWorld()
	center := pos.NewChunkPosition(0, 0)
	w.chunks[center] = zeroChunk(center)

	tx := &Tx{w: w}
	player := &Player{ID: "p1"}

	ev, ok := tx.Flag(pos.Position{X: 3, Y: 3}, player)
	if !ok || ev.Kind != wire.Flag {
		t.Fatalf("expected a Flag event, got %+v ok=%v", ev, ok)
	}
	if player.FlagsIncorrect != 1 || player.FlagsCorrect != 0 {
		t.Fatalf("flagging a non-mine should count as incorrect: %+v", player)
	}
	if !tx.tile(pos.Position{X: 3, Y: 3}).IsFlag() {
		t.Fatalf("tile should now be flagged")
	}

	ev, ok = tx.Flag(pos.Position{X: 3, Y: 3}, player)
	if !ok {
		t.Fatalf("unflagging should succeed")
	}
	if player.FlagsIncorrect != 0 {
		t.Fatalf("unflagging should undo the earlier incorrect count: %+v", player)
	}
	if tx.tile(pos.Position{X: 3, Y: 3}).IsFlag() {
		t.Fatalf("tile should no longer be flagged")
	}
	_ = ev
}

func TestFlagNoOpOnRevealedTile(t *testing.T) {
	w := newTestWorld()
	center := pos.NewChunkPosition(0, 0)
	var tiles [chunk.CellCount]tile.Tile
	tiles[chunkIndex(3, 3)] = tile.Empty().WithRevealed()
	w.chunks[center] = chunk.FromTilesFilled(center, tiles)

	tx := &Tx{w: w}
	player := &Player{ID: "p1"}
	if _, ok := tx.Flag(pos.Position{X: 3, Y: 3}, player); ok {
		t.Fatalf("flagging an already-revealed cell must be rejected")
	}
}

// chordFixture builds a chunk whose (8,8) cell is revealed with adjacency
// 1, one neighbor is a flagged mine, and the remaining 7 neighbors are
// hidden, non-mine cells with nonzero adjacency (so a successful chord
// doesn't cascade further and stays hand-verifiable).
func chordFixture(w *World, flagMine bool) {
	center := pos.NewChunkPosition(0, 0)
	var tiles [chunk.CellCount]tile.Tile
	for _, n := range (pos.Position{X: 8, Y: 8}).Neighbors() {
		tiles[chunkIndex(int(n.X), int(n.Y))] = tile.Empty().AddAdjacent(2)
	}
	mineNeighbor := pos.Position{X: 9, Y: 8}
	mine := tile.Mine()
	if flagMine {
		mine = mine.WithFlag()
	}
	tiles[chunkIndex(int(mineNeighbor.X), int(mineNeighbor.Y))] = mine
	tiles[chunkIndex(8, 8)] = tile.Empty().AddAdjacent(1).WithRevealed()
	w.chunks[center] = chunk.FromTilesFilled(center, tiles)
}

func TestDoubleClickChordRevealsRemainingNeighbors(t *testing.T) {
	w := newTestWorld()
	chordFixture(w, true)

	tx := &Tx{w: w}
	player := &Player{ID: "p1"}
	rect := tx.DoubleClick(pos.Position{X: 8, Y: 8}, player)

	updated := rect.TilesUpdated()
	if len(updated) != 7 {
		t.Fatalf("expected the 7 non-mine neighbors to be revealed, got %d", len(updated))
	}
	for _, u := range updated {
		if !u.Tile.IsRevealed() || u.Tile.IsMine() {
			t.Fatalf("unexpected tile revealed by chord: %+v", u)
		}
	}
}

func TestDoubleClickNoOpWhenFlagCountMismatches(t *testing.T) {
	w := newTestWorld()
	chordFixture(w, false) // mine present but not flagged

	tx := &Tx{w: w}
	player := &Player{ID: "p1"}
	rect := tx.DoubleClick(pos.Position{X: 8, Y: 8}, player)

	if rect.Width() != 0 {
		t.Fatalf("chord should not trigger when the flagged count doesn't match adjacency, got width %d", rect.Width())
	}
}

func TestDoubleClickNoOpOnZeroAdjacency(t *testing.T) {
	w := newTestWorld()
	center := pos.NewChunkPosition(0, 0)
	var tiles [chunk.CellCount]tile.Tile
	tiles[chunkIndex(8, 8)] = tile.Empty().WithRevealed()
	w.chunks[center] = chunk.FromTilesFilled(center, tiles)

	tx := &Tx{w: w}
	rect := tx.DoubleClick(pos.Position{X: 8, Y: 8}, &Player{ID: "p1"})
	if rect.Width() != 0 {
		t.Fatalf("chording a zero-adjacency cell is meaningless and must no-op")
	}
}
