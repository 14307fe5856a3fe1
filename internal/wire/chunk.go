package wire

import (
	"github.com/infinite-sweeper/sweeperd/internal/chunk"
	"github.com/infinite-sweeper/sweeperd/internal/huffman"
	"github.com/infinite-sweeper/sweeperd/internal/tile"
)

// EncodeChunk writes ['h'][7-byte ChunkPosition][Huffman stream of 256
// symbols, no Newlines], per spec.md §4.6. Chunks are only ever sent once
// their adjacency counts are filled.
func EncodeChunk(c *chunk.Chunk) []byte {
	buf := []byte{'h'}
	buf = append(buf, EncodeChunkPosition(c.Position)...)

	w := huffman.NewBitWriter()
	for _, t := range c.Tiles {
		huffman.TileCode.Encode(tile.FromTile(t), w)
	}
	return append(buf, w.Bytes()...)
}

// DecodeChunk reverses EncodeChunk, reconstructing a mirrored chunk from
// the client-visible PublicTile alphabet. b must include the leading 'h'
// header byte.
func DecodeChunk(b []byte) (*chunk.Chunk, bool) {
	if len(b) < 1+7 {
		return nil, false
	}
	cp, ok := DecodeChunkPosition(b[1:8])
	if !ok {
		return nil, false
	}

	r := huffman.NewBitReader(b[8:])
	symbols := huffman.TileCode.DecodeAll(r)

	var tiles [chunk.CellCount]tile.Tile
	for i := 0; i < chunk.CellCount && i < len(symbols); i++ {
		tiles[i] = symbols[i].Tile()
	}
	return chunk.FromTilesFilled(cp, tiles), true
}
