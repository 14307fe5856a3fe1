package world

import (
	"path/filepath"
	"testing"

	"github.com/infinite-sweeper/sweeperd/internal/pos"
)

func TestSnapshotRoundTripsChunksAndPlayers(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "snapshot")

	w := Config{Seed: 0xBEEF, MineCount: 10}.New()
	var chunkPos pos.ChunkPosition
	var playerID string
	<-w.Exec(func(tx *Tx) {
		chunkPos = pos.NewChunkPosition(0, 0)
		tx.EnsureAdjacency(chunkPos)
		p := tx.RegisterPlayer("session-1")
		p.Username = "alice"
		p.FlagsCorrect = 3
		playerID = p.ID
	})
	if err := SaveSnapshot(w, dir); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	w.Close()

	restored, err := LoadSnapshot(dir, nil)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	t.Cleanup(restored.Close)

	<-restored.Exec(func(tx *Tx) {
		if got := restored.LoadedChunkCount(); got == 0 {
			t.Fatalf("expected at least one restored chunk, got %d", got)
		}
		p, ok := tx.Player(playerID)
		if !ok {
			t.Fatal("expected the restored world to contain the saved player")
		}
		if p.Username != "alice" || p.FlagsCorrect != 3 {
			t.Fatalf("player stats not preserved: %+v", p)
		}
		// Reconnecting with the same session must resume the same player,
		// not mint a new identity.
		resumed := tx.RegisterPlayer("session-1")
		if resumed.ID != playerID {
			t.Fatalf("expected session-1 to resume player %s, got %s", playerID, resumed.ID)
		}
	})
}

func TestLoadSnapshotMissingManifestIsAnError(t *testing.T) {
	if _, err := LoadSnapshot(t.TempDir(), nil); err == nil {
		t.Fatal("expected an error for a directory with no manifest")
	}
}
