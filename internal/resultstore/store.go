// Package resultstore implements an immutable, post-game result archive
// (spec §4.8 supplement, component C9): once a room's engine ends a
// game, the final scoreboard and word history are persisted so a
// shareable result page and OGP card can be served after the room
// itself is gone. Not room-state persistence — spec.md's Non-goal on
// cross-restart room persistence is untouched; this store only ever
// receives a finished game's immutable summary. Grounded on the
// teacher's srv/result.go (GameResult, saveGameResult, loadResult
// against a game_results SQLite table).
package resultstore

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// WordEntry records one accepted submission in turn order, per the
// teacher's WordEntry.
type WordEntry struct {
	Player string `json:"player"`
	Word   string `json:"word"`
}

// Result is the immutable record of a finished game, per the teacher's
// GameResult.
type Result struct {
	ID          string         `json:"id"`
	RoomCode    string         `json:"roomCode"`
	Winner      string         `json:"winner"`
	Lives       map[string]int `json:"lives"`
	History     []WordEntry    `json:"history"`
	PlayerCount int            `json:"playerCount"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// Store is a SQLite-backed archive of finished-game results.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) a SQLite database at path and
// ensures the game_results table exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS game_results (
	id           TEXT PRIMARY KEY,
	room_code    TEXT NOT NULL,
	winner       TEXT NOT NULL,
	lives_json   TEXT NOT NULL,
	history_json TEXT NOT NULL,
	player_count INTEGER NOT NULL,
	created_at   TIMESTAMP NOT NULL
)`

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// Save archives a finished game's result, returning its generated ID.
// Grounded on the teacher's saveGameResult, replacing its
// crypto/rand+hex generateResultID with github.com/google/uuid (already
// an indirect dependency of the teacher's module graph; see DESIGN.md).
func (s *Store) Save(roomCode, winner string, lives map[string]int, history []WordEntry) (string, error) {
	id := uuid.NewString()
	livesJSON, err := json.Marshal(lives)
	if err != nil {
		return "", err
	}
	historyJSON, err := json.Marshal(history)
	if err != nil {
		return "", err
	}
	playerCount := len(lives)
	if playerCount == 0 {
		playerCount = 1
	}
	_, err = s.db.Exec(
		`INSERT INTO game_results (id, room_code, winner, lives_json, history_json, player_count, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, roomCode, winner, string(livesJSON), string(historyJSON), playerCount, time.Now().UTC(),
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

// Load retrieves a previously archived result by ID.
func (s *Store) Load(id string) (*Result, error) {
	var (
		result   Result
		livesStr string
		histStr  string
	)
	err := s.db.QueryRow(
		`SELECT id, room_code, winner, lives_json, history_json, player_count, created_at
		 FROM game_results WHERE id = ?`, id,
	).Scan(&result.ID, &result.RoomCode, &result.Winner, &livesStr, &histStr, &result.PlayerCount, &result.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(livesStr), &result.Lives); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(histStr), &result.History); err != nil {
		return nil, err
	}
	return &result, nil
}
