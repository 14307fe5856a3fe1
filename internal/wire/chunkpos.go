// Package wire implements the binary framing the server multicasts to
// clients: chunk-position compaction, the UpdatedRect/Event/ServerMessage
// codecs, bundle framing, and client-to-server JSON decoding.
package wire

import (
	"encoding/binary"

	"github.com/infinite-sweeper/sweeperd/internal/pos"
)

// EncodeChunkPosition compacts a chunk-aligned position into 7 bytes,
// relying on the low nibble of both coordinates always being zero.
func EncodeChunkPosition(cp pos.ChunkPosition) []byte {
	var xb, yb [4]byte
	binary.BigEndian.PutUint32(xb[:], uint32(cp.X))
	binary.BigEndian.PutUint32(yb[:], uint32(cp.Y))

	out := make([]byte, 7)
	copy(out[0:3], xb[0:3])
	copy(out[3:6], yb[0:3])
	out[6] = (xb[3] & 0xF0) | (yb[3] >> 4)
	return out
}

// DecodeChunkPosition reverses EncodeChunkPosition.
func DecodeChunkPosition(b []byte) (pos.ChunkPosition, bool) {
	if len(b) < 7 {
		return pos.ChunkPosition{}, false
	}
	var xb, yb [4]byte
	copy(xb[0:3], b[0:3])
	copy(yb[0:3], b[3:6])
	xb[3] = b[6] & 0xF0
	yb[3] = (b[6] << 4) & 0xF0

	x := int32(binary.BigEndian.Uint32(xb[:]))
	y := int32(binary.BigEndian.Uint32(yb[:]))
	return pos.ChunkPosition{X: x, Y: y}, true
}
