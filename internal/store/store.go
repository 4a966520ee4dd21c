package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"drafty/internal/core"
)

// Store is the SQLite-backed profile store, keyed by account handle.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new store instance with SQLite database
func NewStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "drafty.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{
		db:   db,
		path: dbPath,
	}

	if err := store.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return store, nil
}

// initialize creates the necessary tables
func (s *Store) initialize() error {
	profilesTable := `
	CREATE TABLE IF NOT EXISTS profiles (
		handle TEXT PRIMARY KEY,
		posts TEXT,
		analysis TEXT,
		custom_instructions TEXT,
		communities TEXT,
		updated_at DATETIME
	);`

	if _, err := s.db.Exec(profilesTable); err != nil {
		return fmt.Errorf("failed to create profiles table: %w", err)
	}

	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetProfile retrieves the profile for a handle. An unknown handle returns
// an empty default profile rather than an error.
func (s *Store) GetProfile(handle string) (*core.AccountProfile, error) {
	query := `
	SELECT handle, posts, analysis, custom_instructions, communities, updated_at
	FROM profiles
	WHERE handle = ?`

	row := s.db.QueryRow(query, handle)

	profile := &core.AccountProfile{}
	var postsJSON, analysisJSON, communitiesJSON string
	var updatedAt time.Time

	err := row.Scan(
		&profile.Handle,
		&postsJSON,
		&analysisJSON,
		&profile.CustomInstructions,
		&communitiesJSON,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return &core.AccountProfile{Handle: handle}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan profile: %w", err)
	}

	profile.UpdatedAt = updatedAt
	if postsJSON != "" {
		if err := json.Unmarshal([]byte(postsJSON), &profile.Posts); err != nil {
			return nil, fmt.Errorf("failed to decode posts for %s: %w", handle, err)
		}
	}
	if analysisJSON != "" {
		profile.Analysis = &core.StyleAnalysis{}
		if err := json.Unmarshal([]byte(analysisJSON), profile.Analysis); err != nil {
			return nil, fmt.Errorf("failed to decode analysis for %s: %w", handle, err)
		}
	}
	if communitiesJSON != "" {
		if err := json.Unmarshal([]byte(communitiesJSON), &profile.Communities); err != nil {
			return nil, fmt.Errorf("failed to decode communities for %s: %w", handle, err)
		}
	}

	return profile, nil
}

// PutProfile upserts the profile under its handle.
func (s *Store) PutProfile(profile *core.AccountProfile) error {
	if profile == nil || profile.Handle == "" {
		return fmt.Errorf("profile must have a handle")
	}

	postsJSON, err := json.Marshal(profile.Posts)
	if err != nil {
		return fmt.Errorf("failed to encode posts: %w", err)
	}
	communitiesJSON, err := json.Marshal(profile.Communities)
	if err != nil {
		return fmt.Errorf("failed to encode communities: %w", err)
	}

	var analysisJSON string
	if profile.Analysis != nil {
		encoded, err := json.Marshal(profile.Analysis)
		if err != nil {
			return fmt.Errorf("failed to encode analysis: %w", err)
		}
		analysisJSON = string(encoded)
	}

	if profile.UpdatedAt.IsZero() {
		profile.UpdatedAt = time.Now().UTC()
	}

	query := `
	INSERT OR REPLACE INTO profiles
	(handle, posts, analysis, custom_instructions, communities, updated_at)
	VALUES (?, ?, ?, ?, ?, ?)`

	_, err = s.db.Exec(query,
		profile.Handle,
		string(postsJSON),
		analysisJSON,
		profile.CustomInstructions,
		string(communitiesJSON),
		profile.UpdatedAt,
	)

	return err
}

// DeleteProfile removes a profile wholesale.
func (s *Store) DeleteProfile(handle string) error {
	_, err := s.db.Exec("DELETE FROM profiles WHERE handle = ?", handle)
	if err != nil {
		return fmt.Errorf("failed to delete profile %s: %w", handle, err)
	}
	return nil
}

// ListHandles returns all stored handles in alphabetical order.
func (s *Store) ListHandles() ([]string, error) {
	rows, err := s.db.Query("SELECT handle FROM profiles ORDER BY handle")
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var handles []string
	for rows.Next() {
		var handle string
		if err := rows.Scan(&handle); err != nil {
			return nil, fmt.Errorf("failed to scan handle: %w", err)
		}
		handles = append(handles, handle)
	}
	return handles, rows.Err()
}

// Stats represents store statistics
type Stats struct {
	ProfileCount int
	StoreSize    int64
	LastUpdated  time.Time
}

// GetStats returns statistics about the store
func (s *Store) GetStats() (*Stats, error) {
	stats := &Stats{}

	if err := s.db.QueryRow("SELECT COUNT(*) FROM profiles").Scan(&stats.ProfileCount); err != nil {
		return nil, fmt.Errorf("failed to get count: %w", err)
	}

	if fileInfo, err := os.Stat(s.path); err == nil {
		stats.StoreSize = fileInfo.Size()
		stats.LastUpdated = fileInfo.ModTime()
	}

	return stats, nil
}
