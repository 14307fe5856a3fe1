package tile

import "testing"

func TestTileBits(t *testing.T) {
	e := Empty()
	if e.IsMine() || e.IsFlag() || e.IsRevealed() {
		t.Fatalf("empty tile should have no bits set")
	}
	m := e.WithMine()
	if !m.IsMine() {
		t.Fatalf("expected mine bit set")
	}
	f := m.WithFlag()
	if !f.IsFlag() || !f.IsMine() {
		t.Fatalf("expected flag+mine bits set")
	}
	f = f.WithoutFlag()
	if f.IsFlag() {
		t.Fatalf("expected flag bit cleared")
	}
	r := e.WithRevealed().AddAdjacent(3)
	if !r.IsRevealed() || r.Adjacent() != 3 {
		t.Fatalf("expected revealed with adjacency 3, got %v adj=%d", r, r.Adjacent())
	}
}

func TestAdjacentSaturatesAtEight(t *testing.T) {
	tl := Empty().AddAdjacent(15)
	if tl.Adjacent() != 8 {
		t.Fatalf("expected saturation at 8, got %d", tl.Adjacent())
	}
}

func TestPublicTileProjectionIsRetraction(t *testing.T) {
	// For every byte value, projecting Tile -> PublicTile -> Tile ->
	// PublicTile again must reproduce the first projection: the
	// projection is a retraction, not a full inverse.
	for b := 0; b < 256; b++ {
		tl := FromByte(byte(b))
		p1 := FromTile(tl)
		p2 := FromTile(p1.Tile())
		if p1 != p2 {
			t.Fatalf("byte %d: projection not idempotent: %v != %v", b, p1, p2)
		}
	}
}

func TestPublicTileDiscriminants(t *testing.T) {
	if Flag != PublicTile(Empty().WithFlag()) {
		t.Fatalf("Flag discriminant mismatch")
	}
	if Exploded != PublicTile(Empty().WithRevealed().WithMine()) {
		t.Fatalf("Exploded discriminant mismatch")
	}
	if Newline != 0xFF {
		t.Fatalf("Newline must be sentinel 0xFF")
	}
}
