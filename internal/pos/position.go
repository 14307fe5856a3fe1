// Package pos implements the coordinate algebra shared by the world, the
// chunk store and the wire protocol: world positions, chunk-aligned
// positions, in-chunk indices and axis-aligned rectangles.
package pos

import "encoding/binary"

// Position is an arbitrary signed world coordinate pair.
type Position struct {
	X, Y int32
}

// Origin is Position{0, 0}.
func Origin() Position { return Position{} }

// ChunkPosition masks the low four bits off both coordinates, yielding the
// position of the chunk that owns this cell.
func (p Position) ChunkPosition() ChunkPosition {
	return NewChunkPosition(p.X, p.Y)
}

// InChunk extracts the low four bits of each coordinate into the packed
// (y<<4)|x in-chunk index.
func (p Position) InChunk() PositionInChunk {
	return NewPositionInChunk(p.X, p.Y)
}

// Add returns p shifted by (dx, dy).
func (p Position) Add(dx, dy int32) Position {
	return Position{p.X + dx, p.Y + dy}
}

// Sub returns p shifted by (-dx, -dy).
func (p Position) Sub(dx, dy int32) Position {
	return Position{p.X - dx, p.Y - dy}
}

// Neighbors returns the 8 positions surrounding p, excluding p itself.
func (p Position) Neighbors() []Position {
	result := make([]Position, 0, 8)
	for x := p.X - 1; x <= p.X+1; x++ {
		for y := p.Y - 1; y <= p.Y+1; y++ {
			if x != p.X || y != p.Y {
				result = append(result, Position{x, y})
			}
		}
	}
	return result
}

// NeighborsAndSelf returns all 9 positions of the 3x3 block centered on p.
func (p Position) NeighborsAndSelf() []Position {
	result := make([]Position, 0, 9)
	for x := p.X - 1; x <= p.X+1; x++ {
		for y := p.Y - 1; y <= p.Y+1; y++ {
			result = append(result, Position{x, y})
		}
	}
	return result
}

// FromChunkPosition reconstructs a Position from a chunk-aligned position
// and an in-chunk offset.
func FromChunkPosition(cp ChunkPosition, inChunk PositionInChunk) Position {
	return Position{cp.X + int32(inChunk.X()), cp.Y + int32(inChunk.Y())}
}

// EncodePosition writes p as two big-endian i32s (8 bytes).
func EncodePosition(p Position) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint32(buf[0:4], uint32(p.X))
	binary.BigEndian.PutUint32(buf[4:8], uint32(p.Y))
	return buf
}

// DecodePosition reads a Position from its 8-byte big-endian encoding.
func DecodePosition(b []byte) (Position, bool) {
	if len(b) < 8 {
		return Position{}, false
	}
	x := int32(binary.BigEndian.Uint32(b[0:4]))
	y := int32(binary.BigEndian.Uint32(b[4:8]))
	return Position{x, y}, true
}
