package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vovakirdan/snakearena/internal/multiplayer"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreNestedPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestStoreSaveAndTopScores(t *testing.T) {
	store := openTestStore(t)

	base := time.UnixMilli(1_700_000_000_000)
	runs := []DeathEntry{
		{PlayerID: "a", Name: "alice", Score: 12, Cause: "wall-collision", PlayedAt: base},
		{PlayerID: "b", Name: "bob", Score: 30, Cause: "self-collision", PlayedAt: base.Add(time.Second)},
		{PlayerID: "a", Name: "alice", Score: 30, Cause: "killed-by-another-snake", PlayedAt: base.Add(2 * time.Second)},
		{PlayerID: "c", Name: "carol", Score: 4, Cause: "wall-collision", PlayedAt: base.Add(3 * time.Second)},
	}
	for _, r := range runs {
		if _, err := store.SaveDeath(r); err != nil {
			t.Fatalf("SaveDeath() failed: %v", err)
		}
	}

	scores, err := store.TopScores(3)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores with limit, got %d", len(scores))
	}

	// Ties keep the earlier run first
	if scores[0].PlayerID != "b" || scores[1].PlayerID != "a" || scores[2].Score != 12 {
		t.Errorf("Scores not in expected order: %+v", scores)
	}
	if scores[1].Cause != "killed-by-another-snake" {
		t.Errorf("Cause = %q, expected killed-by-another-snake", scores[1].Cause)
	}
	if !scores[0].PlayedAt.Equal(base.Add(time.Second)) {
		t.Errorf("PlayedAt = %v, expected %v", scores[0].PlayedAt, base.Add(time.Second))
	}
}

func TestStoreTopScoresDefaultLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 15; i++ {
		store.SaveDeath(DeathEntry{PlayerID: "p", Name: "p", Score: i, Cause: "wall-collision"})
	}

	scores, err := store.TopScores(0)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != DefaultLimit {
		t.Errorf("Expected %d scores, got %d", DefaultLimit, len(scores))
	}
	if scores[0].Score != 14 {
		t.Errorf("Expected highest score 14, got %d", scores[0].Score)
	}
}

func TestStoreTopScoresEmpty(t *testing.T) {
	store := openTestStore(t)

	scores, err := store.TopScores(10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if scores == nil || len(scores) != 0 {
		t.Errorf("Expected an empty non-nil slice, got %v", scores)
	}
}

func TestStoreBestByPlayer(t *testing.T) {
	store := openTestStore(t)

	best, err := store.BestByPlayer("nobody")
	if err != nil {
		t.Fatalf("BestByPlayer() failed: %v", err)
	}
	if best != nil {
		t.Errorf("Expected nil personal best, got %+v", best)
	}

	store.SaveDeath(DeathEntry{PlayerID: "a", Name: "alice", Score: 8, Cause: "wall-collision"})
	store.SaveDeath(DeathEntry{PlayerID: "a", Name: "alice", Score: 21, Cause: "self-collision"})
	store.SaveDeath(DeathEntry{PlayerID: "b", Name: "bob", Score: 99, Cause: "wall-collision"})

	best, err = store.BestByPlayer("a")
	if err != nil {
		t.Fatalf("BestByPlayer() failed: %v", err)
	}
	if best == nil || best.Score != 21 || best.Cause != "self-collision" {
		t.Errorf("Personal best = %+v, expected score 21", best)
	}
}

func TestStorePlayerHistory(t *testing.T) {
	store := openTestStore(t)

	base := time.UnixMilli(1_700_000_000_000)
	for i := 0; i < 4; i++ {
		store.SaveDeath(DeathEntry{
			PlayerID: "a", Name: "alice", Score: 10 + i, Cause: "wall-collision",
			PlayedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}
	store.SaveDeath(DeathEntry{PlayerID: "b", Name: "bob", Score: 50, Cause: "wall-collision"})

	history, err := store.PlayerHistory("a", 3)
	if err != nil {
		t.Fatalf("PlayerHistory() failed: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("Expected 3 runs, got %d", len(history))
	}
	if history[0].Score != 13 || history[2].Score != 11 {
		t.Errorf("History not newest first: %+v", history)
	}
}

func TestStoreStats(t *testing.T) {
	store := openTestStore(t)

	stats, err := store.Stats()
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.Runs != 0 || !stats.LastPlayed.IsZero() {
		t.Errorf("Empty stats = %+v", stats)
	}

	last := time.UnixMilli(1_700_000_500_000)
	store.SaveDeath(DeathEntry{PlayerID: "a", Name: "a", Score: 10, Cause: "wall-collision", PlayedAt: last.Add(-time.Hour)})
	store.SaveDeath(DeathEntry{PlayerID: "a", Name: "a", Score: 20, Cause: "wall-collision", PlayedAt: last})
	store.SaveDeath(DeathEntry{PlayerID: "b", Name: "b", Score: 30, Cause: "wall-collision", PlayedAt: last.Add(-time.Minute)})

	stats, err = store.Stats()
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.Runs != 3 || stats.Players != 2 || stats.HighScore != 30 {
		t.Errorf("Stats = %+v, expected 3 runs, 2 players, high 30", stats)
	}
	if stats.AvgScore != 20 {
		t.Errorf("AvgScore = %v, expected 20", stats.AvgScore)
	}
	if !stats.LastPlayed.Equal(last) {
		t.Errorf("LastPlayed = %v, expected %v", stats.LastPlayed, last)
	}
}

func TestStoreRecordDeath(t *testing.T) {
	store := openTestStore(t)

	var recorder multiplayer.DeathRecorder = store
	err := recorder.RecordDeath(multiplayer.DeathRecord{
		PlayerID: "p1",
		Name:     "linus",
		Color:    "lime",
		Score:    9,
		Cause:    "wall-collision",
		PlayedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("RecordDeath() failed: %v", err)
	}

	best, err := store.BestByPlayer("p1")
	if err != nil || best == nil {
		t.Fatalf("BestByPlayer() = %v, %v", best, err)
	}
	if best.Name != "linus" || best.Color != "lime" || best.Score != 9 {
		t.Errorf("Recorded entry = %+v", best)
	}
}
