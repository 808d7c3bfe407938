// Package storage provides SQLite-based persistence for the arena leaderboard.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/snakearena/internal/multiplayer"
)

// DefaultLimit is the leaderboard size used when a caller passes no limit.
const DefaultLimit = 10

// Store manages the SQLite database connection for score persistence.
type Store struct {
	db *sql.DB
}

// DeathEntry is one finished run: the score a snake had when it died.
type DeathEntry struct {
	ID       int64     `json:"-"`
	PlayerID string    `json:"playerId"`
	Name     string    `json:"name"`
	Color    string    `json:"color"`
	Score    int       `json:"score"`
	Cause    string    `json:"causeOfDeath"`
	PlayedAt time.Time `json:"playedAt"`
}

// Stats contains aggregated statistics over all runs.
type Stats struct {
	Runs       int
	Players    int
	HighScore  int
	AvgScore   float64
	LastPlayed time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	// Deaths are written from background goroutines
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
// played_at holds unix milliseconds.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS deaths (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			player_id TEXT NOT NULL,
			name TEXT NOT NULL,
			color TEXT NOT NULL DEFAULT '',
			score INTEGER NOT NULL,
			cause TEXT NOT NULL,
			played_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_deaths_top ON deaths(score DESC);
		CREATE INDEX IF NOT EXISTS idx_deaths_player ON deaths(player_id, score DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveDeath records a finished run. A zero PlayedAt is stamped with the
// current time. Returns the ID of the inserted record.
func (s *Store) SaveDeath(e DeathEntry) (int64, error) {
	if e.PlayedAt.IsZero() {
		e.PlayedAt = time.Now()
	}

	result, err := s.db.Exec(
		`INSERT INTO deaths (player_id, name, color, score, cause, played_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.PlayerID, e.Name, e.Color, e.Score, e.Cause, e.PlayedAt.UnixMilli(),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save death: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// TopScores retrieves the best runs across all players.
// Results are ordered by score descending, earlier runs first on ties.
func (s *Store) TopScores(limit int) ([]DeathEntry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	rows, err := s.db.Query(
		`SELECT id, player_id, name, color, score, cause, played_at
		 FROM deaths
		 ORDER BY score DESC, played_at ASC, id ASC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	return scanEntries(rows)
}

// BestByPlayer returns the highest-scoring run of a player.
// Returns nil if the player has no recorded runs.
func (s *Store) BestByPlayer(playerID string) (*DeathEntry, error) {
	row := s.db.QueryRow(
		`SELECT id, player_id, name, color, score, cause, played_at
		 FROM deaths
		 WHERE player_id = ?
		 ORDER BY score DESC, played_at ASC, id ASC
		 LIMIT 1`,
		playerID,
	)

	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query personal best: %w", err)
	}
	return &e, nil
}

// PlayerHistory retrieves a player's most recent runs, newest first.
func (s *Store) PlayerHistory(playerID string, limit int) ([]DeathEntry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	rows, err := s.db.Query(
		`SELECT id, player_id, name, color, score, cause, played_at
		 FROM deaths
		 WHERE player_id = ?
		 ORDER BY played_at DESC, id DESC
		 LIMIT ?`,
		playerID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query player history: %w", err)
	}
	return scanEntries(rows)
}

// Stats retrieves aggregated statistics over every recorded run.
func (s *Store) Stats() (*Stats, error) {
	stats := &Stats{}
	var lastPlayed sql.NullInt64

	err := s.db.QueryRow(
		`SELECT COUNT(*), COUNT(DISTINCT player_id), COALESCE(MAX(score), 0),
		        COALESCE(AVG(score), 0), MAX(played_at)
		 FROM deaths`,
	).Scan(&stats.Runs, &stats.Players, &stats.HighScore, &stats.AvgScore, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get stats: %w", err)
	}

	if lastPlayed.Valid {
		stats.LastPlayed = time.UnixMilli(lastPlayed.Int64)
	}
	return stats, nil
}

// RecordDeath implements multiplayer.DeathRecorder.
// This adapter allows the room to save deaths without direct storage dependency.
func (s *Store) RecordDeath(rec multiplayer.DeathRecord) error {
	_, err := s.SaveDeath(DeathEntry{
		PlayerID: rec.PlayerID,
		Name:     rec.Name,
		Color:    rec.Color,
		Score:    rec.Score,
		Cause:    rec.Cause,
		PlayedAt: rec.PlayedAt,
	})
	return err
}

// Ensure Store implements DeathRecorder
var _ multiplayer.DeathRecorder = (*Store)(nil)

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (DeathEntry, error) {
	var e DeathEntry
	var playedAt int64
	if err := row.Scan(&e.ID, &e.PlayerID, &e.Name, &e.Color, &e.Score, &e.Cause, &playedAt); err != nil {
		return DeathEntry{}, err
	}
	e.PlayedAt = time.UnixMilli(playedAt)
	return e, nil
}

func scanEntries(rows *sql.Rows) ([]DeathEntry, error) {
	defer rows.Close()

	entries := []DeathEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}
