package wire

import (
	"encoding/binary"

	"github.com/infinite-sweeper/sweeperd/internal/pos"
)

// PlayerRecord is the wire projection of a connected player: identity,
// position, and the running statistics exposed by the admin console and
// supplemented from the original implementation's player state.
type PlayerRecord struct {
	ID             string
	Position       pos.Position
	Username       string
	FlagsCorrect   int32
	FlagsIncorrect int32
}

// EncodePlayer writes [header][player_id]\x00[position i32x2][username]\x00
// [flags_correct i32 BE][flags_incorrect i32 BE]. header is 'p' for a
// position update or 'w' for the welcome message sent on connect.
func EncodePlayer(header byte, p *PlayerRecord) []byte {
	buf := []byte{header}
	buf = append(buf, []byte(p.ID)...)
	buf = append(buf, 0)
	buf = append(buf, pos.EncodePosition(p.Position)...)
	buf = append(buf, []byte(p.Username)...)
	buf = append(buf, 0)

	var aux [8]byte
	binary.BigEndian.PutUint32(aux[0:4], uint32(p.FlagsCorrect))
	binary.BigEndian.PutUint32(aux[4:8], uint32(p.FlagsIncorrect))
	return append(buf, aux[:]...)
}

// DecodePlayer reverses EncodePlayer. b must include the leading header
// byte.
func DecodePlayer(b []byte) (*PlayerRecord, bool) {
	if len(b) < 1 {
		return nil, false
	}
	idEnd := -1
	for i := 1; i < len(b); i++ {
		if b[i] == 0 {
			idEnd = i
			break
		}
	}
	if idEnd < 0 {
		return nil, false
	}
	id := string(b[1:idEnd])

	rest := b[idEnd+1:]
	position, ok := pos.DecodePosition(rest)
	if !ok {
		return nil, false
	}
	rest = rest[8:]

	nameEnd := -1
	for i, c := range rest {
		if c == 0 {
			nameEnd = i
			break
		}
	}
	if nameEnd < 0 {
		return nil, false
	}
	username := string(rest[:nameEnd])
	rest = rest[nameEnd+1:]

	if len(rest) < 8 {
		return nil, false
	}
	flagsCorrect := int32(binary.BigEndian.Uint32(rest[0:4]))
	flagsIncorrect := int32(binary.BigEndian.Uint32(rest[4:8]))

	return &PlayerRecord{
		ID:             id,
		Position:       position,
		Username:       username,
		FlagsCorrect:   flagsCorrect,
		FlagsIncorrect: flagsIncorrect,
	}, true
}
