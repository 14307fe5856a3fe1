package wire

import (
	"github.com/infinite-sweeper/sweeperd/internal/pos"
	"github.com/infinite-sweeper/sweeperd/internal/tile"
)

// EventKind enumerates the broadcastable world events, each carrying its own
// tag byte on the wire (spec.md §4.7).
type EventKind uint8

const (
	Clicked EventKind = iota
	DoubleClicked
	Flag
	Unflag
)

func (k EventKind) tag() byte {
	switch k {
	case Clicked:
		return 'c'
	case DoubleClicked:
		return 'd'
	case Flag:
		return 'f'
	case Unflag:
		return 'u'
	}
	panic("wire: unknown EventKind")
}

// Event is something that happened to the world as a result of a single
// player action, broadcast to every connected client.
type Event struct {
	Kind     EventKind
	PlayerID string
	At       pos.Position
	// Updated is populated for Clicked and DoubleClicked only; it carries
	// every tile the action revealed.
	Updated *UpdatedRect
}

// UpdatedRectView returns the rect this event would apply to a mirrored
// world, for bookkeeping/testing parity with Clicked/DoubleClicked. Flag
// and Unflag are handled specially by a client mirror (spec.md §4.11) and
// never applied through this rect directly: a degenerate single-tile rect
// carrying the zero/"unchanged" sentinel would otherwise be a no-op.
func (e Event) UpdatedRectView() *UpdatedRect {
	switch e.Kind {
	case Clicked, DoubleClicked:
		return e.Updated
	case Flag:
		return NewUpdatedRect([]UpdatedTile{{Position: e.At, Tile: tile.Empty().WithFlag()}})
	case Unflag:
		return NewUpdatedRect([]UpdatedTile{{Position: e.At, Tile: tile.Empty()}})
	}
	return EmptyRect()
}

// Encode writes [tag][player_id]\x00[at.x i32 BE][at.y i32 BE][rect?], per
// spec.md §4.7.
func (e Event) Encode() []byte {
	buf := []byte{e.Kind.tag()}
	buf = append(buf, []byte(e.PlayerID)...)
	buf = append(buf, 0)
	buf = append(buf, pos.EncodePosition(e.At)...)
	if e.Kind == Clicked || e.Kind == DoubleClicked {
		buf = append(buf, e.Updated.Encode()...)
	}
	return buf
}

// DecodeEvent reverses Encode.
func DecodeEvent(b []byte) (Event, bool) {
	if len(b) == 0 {
		return Event{}, false
	}
	tag := b[0]

	nul := -1
	for i := 1; i < len(b); i++ {
		if b[i] == 0 {
			nul = i
			break
		}
	}
	if nul < 0 {
		return Event{}, false
	}
	playerID := string(b[1:nul])

	rest := b[nul+1:]
	at, ok := pos.DecodePosition(rest)
	if !ok {
		return Event{}, false
	}
	rest = rest[8:]

	switch tag {
	case 'c', 'd':
		rect, ok := DecodeUpdatedRect(rest)
		if !ok {
			return Event{}, false
		}
		kind := Clicked
		if tag == 'd' {
			kind = DoubleClicked
		}
		return Event{Kind: kind, PlayerID: playerID, At: at, Updated: rect}, true
	case 'f':
		return Event{Kind: Flag, PlayerID: playerID, At: at}, true
	case 'u':
		return Event{Kind: Unflag, PlayerID: playerID, At: at}, true
	}
	return Event{}, false
}
