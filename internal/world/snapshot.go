package world

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/df-mc/goleveldb/leveldb"
	"github.com/df-mc/goleveldb/leveldb/opt"
	"github.com/klauspost/compress/gzip"
	"gopkg.in/yaml.v2"

	"github.com/infinite-sweeper/sweeperd/internal/chunk"
	"github.com/infinite-sweeper/sweeperd/internal/pos"
	"github.com/infinite-sweeper/sweeperd/internal/tile"
)

// Snapshotting is optional (spec.md §6 calls persistence out as
// not-required-for-correctness); when enabled it follows dragonfly's own
// LevelDB-backed world storage shape (server/world/mcdb), substituting a
// flat chunk-position-keyed key space for dragonfly's region-file layout
// since there is no vertical dimension or sub-chunk stack to address here.

const manifestFile = "manifest.yaml"
const chunksDir = "chunks"

// SnapshotManifest is the small sidecar file recording everything needed
// to reconstruct a World around its LevelDB chunk store: the seed and mine
// density (so freshly-generated chunks outside the snapshot stay
// consistent with the ones that were saved) and the player roster.
type SnapshotManifest struct {
	Seed      uint64           `yaml:"seed"`
	MineCount int              `yaml:"mine_count"`
	Players   []PlayerManifest `yaml:"players"`
}

// PlayerManifest is a player's persisted identity and stats.
type PlayerManifest struct {
	ID             string       `yaml:"id"`
	SessionID      string       `yaml:"session_id"`
	Username       string       `yaml:"username"`
	Position       pos.Position `yaml:"position"`
	FlagsCorrect   int32        `yaml:"flags_correct"`
	FlagsIncorrect int32        `yaml:"flags_incorrect"`
	StatsRevealed  [9]uint32    `yaml:"stats_revealed"`
	Deaths         []time.Time  `yaml:"deaths"`
}

func chunkKey(p pos.ChunkPosition) []byte {
	var key [8]byte
	binary.BigEndian.PutUint32(key[0:4], uint32(p.X))
	binary.BigEndian.PutUint32(key[4:8], uint32(p.Y))
	return key[:]
}

func decodeChunkKey(key []byte) pos.ChunkPosition {
	return pos.NewChunkPosition(
		int32(binary.BigEndian.Uint32(key[0:4])),
		int32(binary.BigEndian.Uint32(key[4:8])),
	)
}

// SaveSnapshot persists every currently loaded chunk whose adjacency has
// been filled, plus the player roster, under dir. Loaded chunks without
// filled adjacency are not saved. Chunks go into a LevelDB store (gzip-compressed, since
// klauspost/compress is a drop-in faster gzip than the standard library's),
// the rest into a YAML manifest next to it.
func SaveSnapshot(w *World, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("world: snapshot mkdir: %w", err)
	}

	db, err := leveldb.OpenFile(filepath.Join(dir, chunksDir), nil)
	if err != nil {
		return fmt.Errorf("world: snapshot open: %w", err)
	}
	defer db.Close()

	manifest := SnapshotManifest{}
	<-w.Exec(func(tx *Tx) {
		manifest.Seed = tx.w.seed
		manifest.MineCount = tx.w.mineCount
		for _, p := range tx.Players() {
			manifest.Players = append(manifest.Players, PlayerManifest{
				ID: p.ID, SessionID: p.SessionID, Username: p.Username,
				Position: p.Position, FlagsCorrect: p.FlagsCorrect,
				FlagsIncorrect: p.FlagsIncorrect, StatsRevealed: p.StatsRevealed,
				Deaths: p.Deaths,
			})
		}
		for _, c := range tx.Chunks() {
			if !c.ShouldSend() {
				continue // never persist a chunk whose adjacency hasn't been filled yet
			}
			value, encErr := encodeChunkTiles(c)
			if encErr != nil {
				err = fmt.Errorf("world: snapshot encode chunk %v: %w", c.Position, encErr)
				return
			}
			if putErr := db.Put(chunkKey(c.Position), value, nil); putErr != nil {
				err = fmt.Errorf("world: snapshot write chunk %v: %w", c.Position, putErr)
				return
			}
		}
	})
	if err != nil {
		return err
	}

	manifestBytes, err := yaml.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("world: snapshot marshal manifest: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, manifestFile), manifestBytes, 0o644)
}

// LoadSnapshot reconstructs a World from a directory written by
// SaveSnapshot. A missing manifest is reported as an error rather than
// silently starting an empty world, so a misconfigured snapshot path never
// masquerades as a fresh one.
func LoadSnapshot(dir string, log *slog.Logger) (*World, error) {
	if log == nil {
		log = slog.Default()
	}
	manifestBytes, err := os.ReadFile(filepath.Join(dir, manifestFile))
	if err != nil {
		return nil, fmt.Errorf("world: snapshot read manifest: %w", err)
	}
	var manifest SnapshotManifest
	if err := yaml.Unmarshal(manifestBytes, &manifest); err != nil {
		return nil, fmt.Errorf("world: snapshot unmarshal manifest: %w", err)
	}

	db, err := leveldb.OpenFile(filepath.Join(dir, chunksDir), &opt.Options{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("world: snapshot open: %w", err)
	}
	defer db.Close()

	w := Config{Seed: manifest.Seed, MineCount: manifest.MineCount, Log: log}.New()
	<-w.Exec(func(tx *Tx) {
		iter := db.NewIterator(nil, nil)
		defer iter.Release()
		for iter.Next() {
			c, decErr := decodeChunkTiles(decodeChunkKey(iter.Key()), iter.Value())
			if decErr != nil {
				log.Warn("world: skipping corrupt snapshot chunk", "error", decErr)
				continue
			}
			tx.LoadChunk(c)
		}
		for _, pm := range manifest.Players {
			tx.LoadPlayer(&Player{
				ID: pm.ID, SessionID: pm.SessionID, Username: pm.Username,
				Position: pm.Position, FlagsCorrect: pm.FlagsCorrect,
				FlagsIncorrect: pm.FlagsIncorrect, StatsRevealed: pm.StatsRevealed,
				Deaths: pm.Deaths,
			})
		}
	})
	return w, nil
}

func encodeChunkTiles(c *chunk.Chunk) ([]byte, error) {
	var raw [chunk.CellCount]byte
	for i, t := range c.Tiles {
		raw[i] = byte(t)
	}

	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	if _, err := gw.Write(raw[:]); err != nil {
		return nil, err
	}
	if err := gw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeChunkTiles(p pos.ChunkPosition, compressed []byte) (*chunk.Chunk, error) {
	gr, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, err
	}
	defer gr.Close()

	var raw [chunk.CellCount]byte
	if _, err := io.ReadFull(gr, raw[:]); err != nil {
		return nil, err
	}

	var tiles [chunk.CellCount]tile.Tile
	for i, b := range raw {
		tiles[i] = tile.Tile(b)
	}
	return chunk.FromTilesFilled(p, tiles), nil
}
