package pos

// ChunkPosition is a chunk-aligned world coordinate pair: the low four
// bits of both X and Y are always zero, since chunks are 16x16.
type ChunkPosition struct {
	X, Y int32
}

// NewChunkPosition masks off the low nibble of both coordinates.
func NewChunkPosition(x, y int32) ChunkPosition {
	return ChunkPosition{x &^ 0b1111, y &^ 0b1111}
}

// Position returns the world position of this chunk's top-left cell.
func (c ChunkPosition) Position() Position {
	return Position{c.X, c.Y}
}

// BottomRight returns the chunk position immediately below-right of c.
func (c ChunkPosition) BottomRight() ChunkPosition {
	return NewChunkPosition(c.X+16, c.Y+16)
}

// Seed mixes salt into the chunk coordinates to derive a per-chunk value,
// mirroring ChunkPosition::seed in the original implementation.
func (c ChunkPosition) Seed(salt uint64) uint64 {
	return uint64(uint32(c.X)) + uint64(uint32(c.Y))<<31 + salt
}

// PositionInChunk is a packed in-chunk cell index: bits 0-3 are x, bits
//4-7 are y.
type PositionInChunk uint8

// NewPositionInChunk packs the low nibbles of x and y.
func NewPositionInChunk(x, y int32) PositionInChunk {
	return PositionInChunk((x & 0b1111) | ((y & 0b1111) << 4))
}

// PositionInChunkFromIndex is an alias for the underlying packed byte; the
// row-major tile index and the packed in-chunk position share a layout.
func PositionInChunkFromIndex(index uint8) PositionInChunk {
	return PositionInChunk(index)
}

func (p PositionInChunk) X() uint8 { return uint8(p) & 0b1111 }
func (p PositionInChunk) Y() uint8 { return (uint8(p) >> 4) & 0b1111 }

// Index returns the row-major tile index (y<<4)|x this position addresses.
func (p PositionInChunk) Index() uint8 { return uint8(p) }
