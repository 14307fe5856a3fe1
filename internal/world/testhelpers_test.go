package world

import (
	"github.com/infinite-sweeper/sweeperd/internal/chunk"
	"github.com/infinite-sweeper/sweeperd/internal/pos"
	"github.com/infinite-sweeper/sweeperd/internal/tile"
)

// newTestWorld builds a World with no running goroutine: tests call Tx
// methods directly against &Tx{w: w}, bypassing Exec, since nothing here
// needs concurrent access.
func newTestWorld() *World {
	return &World{
		seed:      99,
		mineCount: 40,
		chunks:    make(map[pos.ChunkPosition]*chunk.Chunk),
		players:   make(map[string]*Player),
		sessions:  make(map[string]string),
	}
}

// zeroChunk is an all-empty, adjacency-filled chunk: every cell is
// unrevealed, unflagged, not a mine, with adjacency 0.
func zeroChunk(p pos.ChunkPosition) *chunk.Chunk {
	var tiles [chunk.CellCount]tile.Tile
	return chunk.FromTilesFilled(p, tiles)
}

// wallChunk is adjacency-filled with every cell reporting a nonzero
// adjacency count, stopping flood-fill propagation dead at its border
// without blocking the single revealed cell it's entered through.
func wallChunk(p pos.ChunkPosition) *chunk.Chunk {
	var tiles [chunk.CellCount]tile.Tile
	for i := range tiles {
		tiles[i] = tile.Empty().AddAdjacent(1)
	}
	return chunk.FromTilesFilled(p, tiles)
}
