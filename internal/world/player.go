package world

import (
	"time"

	"github.com/infinite-sweeper/sweeperd/internal/pos"
	"github.com/infinite-sweeper/sweeperd/internal/wire"
)

// Player is a connected participant: identity plus the running statistics
// the admin console and the welcome/player wire messages expose. The stat
// fields mirror the original Rust player state: a per-adjacency reveal
// histogram, running flag accuracy, and a full death history rather than a
// bare count, so the console can report not just how often a player died
// but when.
type Player struct {
	ID             string
	SessionID      string
	Username       string
	Position       pos.Position
	FlagsCorrect   int32
	FlagsIncorrect int32
	StatsRevealed  [9]uint32
	Deaths         []time.Time
}

// Record projects a Player to its wire representation.
func (p *Player) Record() *wire.PlayerRecord {
	return &wire.PlayerRecord{
		ID:             p.ID,
		Position:       p.Position,
		Username:       p.Username,
		FlagsCorrect:   p.FlagsCorrect,
		FlagsIncorrect: p.FlagsIncorrect,
	}
}
