// Package chunk implements the 16x16 unit of world generation, storage and
// wire transport: mine placement and the adjacency-count fill.
package chunk

import (
	"encoding/binary"
	"math/rand/v2"

	"github.com/cespare/xxhash/v2"

	"github.com/infinite-sweeper/sweeperd/internal/pos"
	"github.com/infinite-sweeper/sweeperd/internal/tile"
)

// Size is the number of cells along one edge of a chunk.
const Size = 16

// CellCount is the number of cells in a chunk.
const CellCount = Size * Size

// Chunk owns a 16x16 tile array, its position, and whether its adjacency
// counts have been computed yet.
type Chunk struct {
	Tiles               [CellCount]tile.Tile
	Position            pos.ChunkPosition
	adjacentMinesFilled bool
}

// Empty returns an all-zero chunk at position p.
func Empty(p pos.ChunkPosition) *Chunk {
	return &Chunk{Position: p}
}

// FromTilesFilled reconstructs a chunk whose adjacency has already been
// computed elsewhere (e.g. a chunk received over the wire from the
// authoritative server, which only ever sends chunks with adjacency
// filled).
func FromTilesFilled(p pos.ChunkPosition, tiles [CellCount]tile.Tile) *Chunk {
	return &Chunk{Tiles: tiles, Position: p, adjacentMinesFilled: true}
}

// seed derives a deterministic per-chunk RNG seed from the world seed and
// the chunk's position: seed ⊕ hash(pos), per spec.md §4.1. xxhash gives a
// fast, stable 64-bit position hash; the world seed is XORed in so that two
// worlds with different seeds never place mines identically.
func seed(worldSeed uint64, p pos.ChunkPosition) uint64 {
	var buf [8]byte
	binary.BigEndian.PutUint32(buf[0:4], uint32(p.X))
	binary.BigEndian.PutUint32(buf[4:8], uint32(p.Y))
	return worldSeed ^ xxhash.Sum64(buf[:])
}

// Generate creates a chunk at p with mineCount mines placed uniformly at
// random, without replacement, among its 256 cells.
//
// Determinism: mine placement is a Fisher-Yates shuffle of the 256 cell
// indices (math/rand/v2's Perm, which implements exactly that algorithm),
// seeded by seed(worldSeed, p); the first mineCount entries of the
// permutation become mines. Given the same worldSeed and p, this always
// produces the byte-identical set of mines.
func Generate(p pos.ChunkPosition, worldSeed uint64, mineCount int) *Chunk {
	c := Empty(p)
	s := seed(worldSeed, p)
	r := rand.New(rand.NewPCG(s, s>>1|1))
	perm := r.Perm(CellCount)
	for _, index := range perm[:mineCount] {
		c.Tiles[index] = tile.Mine()
	}
	return c
}

// Rect returns the world-space rectangle this chunk covers.
func (c *Chunk) Rect() pos.Rect {
	return pos.FromCorners(c.Position.Position(), c.Position.BottomRight().Position())
}

// ShouldSend reports whether the chunk's adjacency counts are ready to be
// shown to clients.
func (c *Chunk) ShouldSend() bool { return c.adjacentMinesFilled }

// AdjacentMinesFilled reports whether FillAdjacentMines has run on this
// chunk.
func (c *Chunk) AdjacentMinesFilled() bool { return c.adjacentMinesFilled }

// GetTile reads the tile at world position p, which must fall within c.
func (c *Chunk) GetTile(p pos.Position) tile.Tile {
	return c.Tiles[p.InChunk().Index()]
}

// SetTile writes t at world position p, which must fall within c.
func (c *Chunk) SetTile(p pos.Position, t tile.Tile) {
	c.Tiles[p.InChunk().Index()] = t
}

// neighborIndex maps a position that may lie outside the 0..15 square into
// the index of the surrounding chunk (of the 3x3 Neighborhood) that owns
// it, using the column-major convention fixed by spec.md §4.1:
//
//	NW W SW
//	N  C  S
//	NE E SE
//
// equivalently laid out as a 3x3 grid indexed 0..8 column-major with
// center = 4:
//
//	0 3 6
//	1 4 7
//	2 5 8
func neighborIndex(x, y int32) int {
	switch {
	case x < 0:
		switch {
		case y < 0:
			return 0
		case y > 15:
			return 2
		default:
			return 1
		}
	case x > 15:
		switch {
		case y < 0:
			return 6
		case y > 15:
			return 8
		default:
			return 7
		}
	case y < 0:
		return 3
	case y > 15:
		return 5
	default:
		return 4
	}
}

// Neighborhood is the 3x3 block of chunks surrounding (and including) a
// center chunk, laid out per the neighborIndex convention, center at
// index 4.
type Neighborhood [9]*Chunk

// FillAdjacentMines consumes a 3x3 neighborhood and returns a new chunk
// (at the center position) with every cell's adjacency nibble set to the
// count of mines among its 8 neighbors, which may cross chunk boundaries.
// Each count is at most 8, so adding it to a center tile whose low nibble
// is still zero never carries into the mine/flag bits above it.
func FillAdjacentMines(n Neighborhood) *Chunk {
	center := n[4]
	isMine := func(p pos.Position) bool {
		return n[neighborIndex(p.X, p.Y)].GetTile(p).IsMine()
	}

	result := &Chunk{Position: center.Position, adjacentMinesFilled: true}
	zero := pos.NewChunkPosition(0, 0)
	for index := 0; index < CellCount; index++ {
		local := pos.PositionInChunkFromIndex(uint8(index))
		base := pos.FromChunkPosition(zero, local)
		count := uint8(0)
		for _, n := range base.Neighbors() {
			if isMine(n) {
				count++
			}
		}
		result.Tiles[index] = center.Tiles[index].AddAdjacent(count)
	}
	return result
}
