package pos

import "golang.org/x/exp/constraints"

// ordMin and ordMax are small generic helpers pulled from the same
// constraints package dragonfly depends on, used throughout Rect instead
// of hand-rolled per-type min/max.
func ordMin[T constraints.Ordered](a, b T) T {
	if a < b {
		return a
	}
	return b
}

func ordMax[T constraints.Ordered](a, b T) T {
	if a > b {
		return a
	}
	return b
}

// Rect is an axis-aligned rectangle in world coordinates: inclusive-left,
// inclusive-top, exclusive-right, exclusive-bottom.
type Rect struct {
	Left, Top, Right, Bottom int32
}

// FromCorners builds a Rect from its top-left (inclusive) and bottom-right
// (exclusive) corners.
func FromCorners(topLeft, bottomRight Position) Rect {
	return Rect{topLeft.X, topLeft.Y, bottomRight.X, bottomRight.Y}
}

// FromTopLeftAndSize builds a Rect from a top-left corner and dimensions.
func FromTopLeftAndSize(topLeft Position, width, height int32) Rect {
	return FromCorners(topLeft, topLeft.Add(width, height))
}

func (r Rect) Width() int32  { return r.Right - r.Left }
func (r Rect) Height() int32 { return r.Bottom - r.Top }
func (r Rect) Area() int64   { return int64(r.Width()) * int64(r.Height()) }

func (r Rect) TopLeft() Position     { return Position{r.Left, r.Top} }
func (r Rect) BottomRight() Position { return Position{r.Right, r.Bottom} }
func (r Rect) TopRight() Position    { return Position{r.Right, r.Top} }
func (r Rect) BottomLeft() Position  { return Position{r.Left, r.Bottom} }

// Positions enumerates every cell contained in r.
func (r Rect) Positions() []Position {
	if r.Right <= r.Left || r.Bottom <= r.Top {
		return nil
	}
	result := make([]Position, 0, r.Area())
	for x := r.Left; x < r.Right; x++ {
		for y := r.Top; y < r.Bottom; y++ {
			result = append(result, Position{x, y})
		}
	}
	return result
}

// ExpandToContain grows r (in place) to the union bounding box of r and o.
func (r *Rect) ExpandToContain(o Rect) {
	r.Left = ordMin(r.Left, o.Left)
	r.Top = ordMin(r.Top, o.Top)
	r.Right = ordMax(r.Right, o.Right)
	r.Bottom = ordMax(r.Bottom, o.Bottom)
}

// Intersection returns the overlap of r and o, if any.
func (r Rect) Intersection(o Rect) (Rect, bool) {
	left := ordMax(r.Left, o.Left)
	right := ordMin(r.Right, o.Right)
	top := ordMax(r.Top, o.Top)
	bottom := ordMin(r.Bottom, o.Bottom)
	if left <= right && top <= bottom {
		return Rect{left, top, right, bottom}, true
	}
	return Rect{}, false
}

// ChunksContained returns the chunk positions that lie entirely inside r.
func (r Rect) ChunksContained() []ChunkPosition {
	// Nudging the top-left corner by (15, 15) before chunk-aligning it
	// guarantees the first chunk returned is wholly contained in r, not
	// just touching it.
	topLeft := r.TopLeft().Add(15, 15).ChunkPosition()
	bottomRight := r.BottomRight().ChunkPosition()

	var chunks []ChunkPosition
	for x := topLeft.X; x < bottomRight.X; x += 16 {
		for y := topLeft.Y; y < bottomRight.Y; y += 16 {
			chunks = append(chunks, ChunkPosition{x, y})
		}
	}
	return chunks
}

// ChunksContaining returns every chunk that overlaps r at all (a superset
// of ChunksContained, padded by one chunk radius).
func (r Rect) ChunksContaining() []ChunkPosition {
	padded := Rect{r.Left - 15, r.Top - 15, r.Right + 15, r.Bottom + 15}
	return padded.ChunksContained()
}
