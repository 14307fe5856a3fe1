// Package world owns the authoritative Minesweeper grid: lazy chunk
// generation, the reveal/flag/chord algorithms, the player registry, and
// the client-side mirror that replays server messages against a local
// replica. Exactly one goroutine ever touches a World's state, reached
// only through Exec, mirroring the transaction-queue pattern dragonfly
// uses to serialize all mutation of its own World type.
package world

import (
	"log/slog"
	"sync"

	"github.com/infinite-sweeper/sweeperd/internal/chunk"
	"github.com/infinite-sweeper/sweeperd/internal/pos"
)

// ExecFunc performs a synchronized transaction against a World.
type ExecFunc func(tx *Tx)

type transaction struct {
	f    ExecFunc
	done chan struct{}
}

// World is the sparse, chunked, lazily-generated grid plus the player
// registry. All fields are touched exclusively from the goroutine started
// by New; every other caller must go through Exec.
type World struct {
	log *slog.Logger

	seed      uint64
	mineCount int

	queue     chan transaction
	closing   chan struct{}
	closeOnce sync.Once

	chunks        map[pos.ChunkPosition]*chunk.Chunk
	players       map[string]*Player
	sessions      map[string]string // session id -> player id, for idempotent registration
	localPlayerID string            // set by ApplyServerMessage(Welcome) on a client mirror
}

// Config bundles the parameters a new World is seeded with, in the spirit
// of dragonfly's Config.New() defaulting pattern.
type Config struct {
	Seed      uint64
	MineCount int
	Log       *slog.Logger
}

// New constructs a World and starts its single mutator goroutine.
func (conf Config) New() *World {
	if conf.Log == nil {
		conf.Log = slog.Default()
	}
	if conf.MineCount <= 0 {
		conf.MineCount = 40
	}
	w := &World{
		log:       conf.Log,
		seed:      conf.Seed,
		mineCount: conf.MineCount,
		queue:     make(chan transaction),
		closing:   make(chan struct{}),
		chunks:    make(map[pos.ChunkPosition]*chunk.Chunk),
		players:   make(map[string]*Player),
		sessions:  make(map[string]string),
	}
	go w.run()
	return w
}

// New constructs a World with default configuration and an explicit seed,
// the common case for both the authoritative server and client mirrors.
func New(seed uint64) *World {
	return Config{Seed: seed}.New()
}

// Exec queues f to run on the World's owning goroutine and returns a
// channel closed once it has completed.
func (w *World) Exec(f ExecFunc) <-chan struct{} {
	done := make(chan struct{})
	w.queue <- transaction{f: f, done: done}
	return done
}

// run is the single consumer loop: every mutation of World state happens
// here, and only here.
func (w *World) run() {
	for {
		select {
		case tx := <-w.queue:
			tx.f(&Tx{w: w})
			close(tx.done)
		case <-w.closing:
			return
		}
	}
}

// Close stops the World's mutator goroutine. Safe to call more than once.
func (w *World) Close() {
	w.closeOnce.Do(func() { close(w.closing) })
}

// LoadedChunkCount returns the number of chunks currently resident.
func (w *World) LoadedChunkCount() int { return len(w.chunks) }
