// Package storage provides SQLite-based persistence for suspended flights
// and landing history.
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
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// LandingRecord is one finished flight.
type LandingRecord struct {
	ID         int64
	Difficulty string
	Outcome    string // "win" or "lose"
	Reason     string // Empty for wins
	FuelLeft   float64
	Duration   time.Duration
	Score      int
	CreatedAt  time.Time
}

// Won reports whether the flight ended with a landing.
func (r LandingRecord) Won() bool {
	return r.Outcome == "win"
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

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS sessions (
			slot TEXT PRIMARY KEY,
			data BLOB NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS landings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			difficulty TEXT NOT NULL,
			outcome TEXT NOT NULL,
			reason TEXT NOT NULL DEFAULT '',
			fuel_left REAL NOT NULL DEFAULT 0,
			flight_ms INTEGER NOT NULL DEFAULT 0,
			score INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_landings_difficulty ON landings(difficulty);
		CREATE INDEX IF NOT EXISTS idx_landings_top ON landings(difficulty, score DESC);
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

// SaveSnapshot stores an encoded flight snapshot in slot, replacing any
// previous one.
func (s *Store) SaveSnapshot(slot string, data []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO sessions (slot, data, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(slot) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		slot, data,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot returns the snapshot stored in slot.
// Returns nil if the slot is empty.
func (s *Store) LoadSnapshot(slot string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRow("SELECT data FROM sessions WHERE slot = ?", slot).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot load snapshot: %w", err)
	}
	return data, nil
}

// DeleteSnapshot empties slot.
func (s *Store) DeleteSnapshot(slot string) error {
	_, err := s.db.Exec("DELETE FROM sessions WHERE slot = ?", slot)
	if err != nil {
		return fmt.Errorf("storage: cannot delete snapshot: %w", err)
	}
	return nil
}

// SaveLanding records a finished flight.
// Returns the ID of the inserted record.
func (s *Store) SaveLanding(r LandingRecord) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO landings (difficulty, outcome, reason, fuel_left, flight_ms, score)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.Difficulty, r.Outcome, r.Reason, r.FuelLeft, r.Duration.Milliseconds(), r.Score,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save landing: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RecentLandings retrieves the most recent flights, newest first.
// An empty difficulty matches every difficulty.
func (s *Store) RecentLandings(difficulty string, limit int) ([]LandingRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, difficulty, outcome, reason, fuel_left, flight_ms, score, created_at
		 FROM landings
		 WHERE ? = '' OR difficulty = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		difficulty, difficulty, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query landings: %w", err)
	}
	return scanLandings(rows)
}

// TopLandings retrieves the best successful landings, highest score first.
// An empty difficulty matches every difficulty.
func (s *Store) TopLandings(difficulty string, limit int) ([]LandingRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, difficulty, outcome, reason, fuel_left, flight_ms, score, created_at
		 FROM landings
		 WHERE outcome = 'win' AND (? = '' OR difficulty = ?)
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		difficulty, difficulty, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query landings: %w", err)
	}
	return scanLandings(rows)
}

// HighScore returns the best landing score for the difficulty.
// Returns 0 if there are no successful landings.
func (s *Store) HighScore(difficulty string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM landings WHERE outcome = 'win' AND difficulty = ?",
		difficulty,
	).Scan(&score)

	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return int(score.Int64), nil
}

// ClearLandings deletes the history for the difficulty.
// An empty difficulty clears every difficulty.
func (s *Store) ClearLandings(difficulty string) error {
	_, err := s.db.Exec("DELETE FROM landings WHERE ? = '' OR difficulty = ?", difficulty, difficulty)
	if err != nil {
		return fmt.Errorf("storage: cannot clear landings: %w", err)
	}
	return nil
}

// LandingStats contains aggregated statistics for one difficulty.
type LandingStats struct {
	Difficulty string
	Flights    int
	Wins       int
	HighScore  int
	AvgFuel    float64 // Average fuel left on successful landings
	LastFlown  time.Time
}

// WinRate returns the fraction of flights that landed.
func (st LandingStats) WinRate() float64 {
	if st.Flights == 0 {
		return 0
	}
	return float64(st.Wins) / float64(st.Flights)
}

// AllStats retrieves statistics for every difficulty that has been flown.
func (s *Store) AllStats() (map[string]*LandingStats, error) {
	rows, err := s.db.Query(
		`SELECT difficulty,
		        COUNT(*),
		        COALESCE(SUM(CASE WHEN outcome = 'win' THEN 1 ELSE 0 END), 0),
		        COALESCE(MAX(CASE WHEN outcome = 'win' THEN score END), 0),
		        COALESCE(AVG(CASE WHEN outcome = 'win' THEN fuel_left END), 0),
		        MAX(created_at)
		 FROM landings
		 GROUP BY difficulty`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get landing stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*LandingStats)
	for rows.Next() {
		var st LandingStats
		var lastFlown any
		if err := rows.Scan(&st.Difficulty, &st.Flights, &st.Wins, &st.HighScore, &st.AvgFuel, &lastFlown); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.LastFlown = parseTimestamp(lastFlown)
		stats[st.Difficulty] = &st
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

func scanLandings(rows *sql.Rows) ([]LandingRecord, error) {
	defer rows.Close()

	var records []LandingRecord
	for rows.Next() {
		var r LandingRecord
		var flightMS int64
		var createdAt any
		if err := rows.Scan(&r.ID, &r.Difficulty, &r.Outcome, &r.Reason, &r.FuelLeft, &flightMS, &r.Score, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.Duration = time.Duration(flightMS) * time.Millisecond
		r.CreatedAt = parseTimestamp(createdAt)
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return records, nil
}

// parseTimestamp handles both time.Time and string datetimes from the driver.
func parseTimestamp(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
