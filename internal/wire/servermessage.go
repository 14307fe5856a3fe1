package wire

import "github.com/infinite-sweeper/sweeperd/internal/chunk"

// MessageKind discriminates the ServerMessage union.
type MessageKind uint8

const (
	MsgChunk MessageKind = iota
	MsgRect
	MsgPlayer
	MsgWelcome
	MsgDisconnected
	MsgConnected
	MsgEvent
)

// ServerMessage is the single-byte-header-prefixed envelope every message
// the server sends rides inside, per spec.md §4.8. Exactly one payload
// field is populated per Kind.
type ServerMessage struct {
	Kind MessageKind

	Chunk          *chunk.Chunk
	Rect           *UpdatedRect
	Player         *PlayerRecord // MsgPlayer or MsgWelcome
	DisconnectedID string
	Event          Event
}

// Encode serializes m per its Kind's header byte.
func (m ServerMessage) Encode() []byte {
	switch m.Kind {
	case MsgChunk:
		return EncodeChunk(m.Chunk)
	case MsgRect:
		return append([]byte{'r'}, m.Rect.Encode()...)
	case MsgPlayer:
		return EncodePlayer('p', m.Player)
	case MsgWelcome:
		return EncodePlayer('w', m.Player)
	case MsgDisconnected:
		return append([]byte{'x'}, []byte(m.DisconnectedID)...)
	case MsgConnected:
		return []byte{'+'}
	case MsgEvent:
		return m.Event.Encode()
	}
	panic("wire: unknown MessageKind")
}

// DecodeServerMessage reverses Encode, dispatching on the leading header
// byte.
func DecodeServerMessage(b []byte) (ServerMessage, error) {
	if len(b) == 0 {
		return ServerMessage{}, ErrEmptyMessage
	}
	switch b[0] {
	case 'h':
		c, ok := DecodeChunk(b)
		if !ok {
			return ServerMessage{}, ErrBadChunk
		}
		return ServerMessage{Kind: MsgChunk, Chunk: c}, nil
	case 'r':
		rect, ok := DecodeUpdatedRect(b[1:])
		if !ok {
			return ServerMessage{}, ErrBadRect
		}
		return ServerMessage{Kind: MsgRect, Rect: rect}, nil
	case 'p':
		pl, ok := DecodePlayer(b)
		if !ok {
			return ServerMessage{}, ErrBadPlayer
		}
		return ServerMessage{Kind: MsgPlayer, Player: pl}, nil
	case 'w':
		pl, ok := DecodePlayer(b)
		if !ok {
			return ServerMessage{}, ErrBadPlayer
		}
		return ServerMessage{Kind: MsgWelcome, Player: pl}, nil
	case 'x':
		return ServerMessage{Kind: MsgDisconnected, DisconnectedID: string(b[1:])}, nil
	case '+':
		return ServerMessage{Kind: MsgConnected}, nil
	case 'c', 'd', 'f', 'u':
		ev, ok := DecodeEvent(b)
		if !ok {
			return ServerMessage{}, ErrBadEvent
		}
		return ServerMessage{Kind: MsgEvent, Event: ev}, nil
	}
	return ServerMessage{}, ErrUnknownHeader
}
