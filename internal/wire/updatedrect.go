package wire

import (
	"github.com/infinite-sweeper/sweeperd/internal/huffman"
	"github.com/infinite-sweeper/sweeperd/internal/pos"
	"github.com/infinite-sweeper/sweeperd/internal/tile"
)

// maxRectSpan bounds the size of a single flood-fill update: a reveal that
// would span more than this many cells along either axis is replaced by an
// empty rect instead, per spec.md §4.4. Clients that miss tiles this way
// recover them on their next chunk query.
const maxRectSpan = 1000

// UpdatedTile pairs a world position with the tile value observed there.
type UpdatedTile struct {
	Position pos.Position
	Tile     tile.Tile
}

// UpdatedRect is a dense, column-major capture of every tile inside a
// bounding box: Updated[x][y] holds the tile at TopLeft offset by (x, y).
// A zero tile inside the rect means "unchanged from the client's point of
// view," not literally empty.
type UpdatedRect struct {
	TopLeft pos.Position
	Updated [][]tile.Tile
}

// EmptyRect returns the degenerate zero-size rectangle used whenever a
// reveal can't be expressed compactly (see maxRectSpan).
func EmptyRect() *UpdatedRect { return &UpdatedRect{} }

// NewUpdatedRect builds the smallest rectangle containing every updated
// tile's position. If that rectangle would exceed maxRectSpan along either
// axis, it returns EmptyRect() instead, matching the oversize guard
// described in spec.md §4.4.
func NewUpdatedRect(tiles []UpdatedTile) *UpdatedRect {
	if len(tiles) == 0 {
		return EmptyRect()
	}

	minX, maxX := tiles[0].Position.X, tiles[0].Position.X
	minY, maxY := tiles[0].Position.Y, tiles[0].Position.Y
	for _, t := range tiles[1:] {
		if t.Position.X < minX {
			minX = t.Position.X
		}
		if t.Position.X > maxX {
			maxX = t.Position.X
		}
		if t.Position.Y < minY {
			minY = t.Position.Y
		}
		if t.Position.Y > maxY {
			maxY = t.Position.Y
		}
	}

	topLeft := pos.Position{X: minX, Y: minY}
	width := int(maxX-minX) + 1
	height := int(maxY-minY) + 1
	if width > maxRectSpan || height > maxRectSpan {
		return EmptyRect()
	}

	updated := make([][]tile.Tile, width)
	for i := range updated {
		updated[i] = make([]tile.Tile, height)
	}
	for _, t := range tiles {
		x := t.Position.X - topLeft.X
		y := t.Position.Y - topLeft.Y
		updated[x][y] = t.Tile
	}
	return &UpdatedRect{TopLeft: topLeft, Updated: updated}
}

// Width is the number of columns: one per Newline the encoded stream
// contains.
func (u *UpdatedRect) Width() int { return len(u.Updated) }

// Height is the length of each column. Callers trust the first column's
// length, as spec.md §4.4 permits.
func (u *UpdatedRect) Height() int {
	if len(u.Updated) == 0 {
		return 0
	}
	return len(u.Updated[0])
}

// PublicTiles flattens the rect column-major into the symbol stream that
// gets Huffman-coded: every column's tiles, then a Newline terminator.
func (u *UpdatedRect) PublicTiles() []tile.PublicTile {
	var out []tile.PublicTile
	for _, col := range u.Updated {
		for _, t := range col {
			out = append(out, tile.FromTile(t))
		}
		out = append(out, tile.Newline)
	}
	return out
}

// TilesUpdated reconstructs the sparse list of (position, tile) pairs this
// rect covers, skipping cells left at the zero/unchanged sentinel.
func (u *UpdatedRect) TilesUpdated() []UpdatedTile {
	var out []UpdatedTile
	for x, col := range u.Updated {
		for y, t := range col {
			if t == tile.Empty() {
				continue
			}
			out = append(out, UpdatedTile{
				Position: u.TopLeft.Add(int32(x), int32(y)),
				Tile:     t,
			})
		}
	}
	return out
}

// Encode writes the rect as [top_left.x i32 BE][top_left.y i32 BE][Huffman
// stream], per spec.md §4.4.
func (u *UpdatedRect) Encode() []byte {
	buf := pos.EncodePosition(u.TopLeft)
	w := huffman.NewBitWriter()
	for _, s := range u.PublicTiles() {
		huffman.TileCode.Encode(s, w)
	}
	return append(buf, w.Bytes()...)
}

// DecodeUpdatedRect reverses Encode. Every Newline symbol closes the
// current column and opens a new one; a final column left open by a
// missing trailing Newline (e.g. a truncated stream) is discarded rather
// than guessed at.
func DecodeUpdatedRect(b []byte) (*UpdatedRect, bool) {
	topLeft, ok := pos.DecodePosition(b)
	if !ok {
		return nil, false
	}

	r := huffman.NewBitReader(b[8:])
	symbols := huffman.TileCode.DecodeAll(r)

	rect := &UpdatedRect{TopLeft: topLeft}
	var column []tile.Tile
	for _, s := range symbols {
		if s == tile.Newline {
			rect.Updated = append(rect.Updated, column)
			column = nil
			continue
		}
		column = append(column, s.Tile())
	}
	return rect, true
}
