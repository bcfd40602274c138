package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrFriendNotFound = errors.New("friend not found")
	ErrFriendExists   = errors.New("friend already exists")
)

// Friend is a tracked person. LastSeen is a YYYY-MM-DD date, nil when the
// friend has never been recorded as seen.
type Friend struct {
	ID        int64
	Name      string
	Location  string
	FreqWeeks int
	LastSeen  *string
	CreatedAt int64
	UpdatedAt int64
}

const friendColumns = `id, name, location, freq_weeks, last_seen, created_at, updated_at`

// InsertFriend adds a new friend. Names are unique.
func (db *DB) InsertFriend(f *Friend) error {
	existing, err := db.GetFriend(f.Name)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("%w: %s", ErrFriendExists, f.Name)
	}

	now := time.Now().UnixMilli()
	result, err := db.Exec(`
		INSERT INTO friends (name, location, freq_weeks, last_seen, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, f.Name, f.Location, f.FreqWeeks, nullString(f.LastSeen), now, now)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("%w: %s", ErrFriendExists, f.Name)
		}
		return fmt.Errorf("insert friend: %w", err)
	}

	id, _ := result.LastInsertId()
	f.ID = id
	f.CreatedAt = now
	f.UpdatedAt = now
	return nil
}

// GetFriend returns a friend by name, or nil if not found.
func (db *DB) GetFriend(name string) (*Friend, error) {
	f, err := scanFriend(db.QueryRow(`SELECT `+friendColumns+` FROM friends WHERE name = ?`, name))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get friend: %w", err)
	}
	return f, nil
}

// ListFriends returns every friend ordered by name.
func (db *DB) ListFriends() ([]Friend, error) {
	rows, err := db.Query(`SELECT ` + friendColumns + ` FROM friends ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list friends: %w", err)
	}
	defer rows.Close()

	var friends []Friend
	for rows.Next() {
		f, err := scanFriend(rows)
		if err != nil {
			return nil, fmt.Errorf("scan friend: %w", err)
		}
		friends = append(friends, *f)
	}
	return friends, rows.Err()
}

// DeleteFriend removes a friend by name.
func (db *DB) DeleteFriend(name string) error {
	result, err := db.Exec(`DELETE FROM friends WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete friend: %w", err)
	}
	return requireRow(result, name)
}

// UpdateLocation sets where a friend lives.
func (db *DB) UpdateLocation(name, location string) error {
	return db.updateColumn("location", name, location)
}

// UpdateFreqWeeks sets how often to see a friend. The range is validated by
// the caller; the schema only rejects non-positive values.
func (db *DB) UpdateFreqWeeks(name string, weeks int) error {
	return db.updateColumn("freq_weeks", name, weeks)
}

// UpdateLastSeen records the date a friend was last seen (YYYY-MM-DD).
func (db *DB) UpdateLastSeen(name, date string) error {
	return db.updateColumn("last_seen", name, date)
}

// column is always one of the literals above, never caller input.
func (db *DB) updateColumn(column, name string, value any) error {
	now := time.Now().UnixMilli()
	result, err := db.Exec(`UPDATE friends SET `+column+` = ?, updated_at = ? WHERE name = ?`, value, now, name)
	if err != nil {
		return fmt.Errorf("update %s: %w", column, err)
	}
	return requireRow(result, name)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFriend(row rowScanner) (*Friend, error) {
	var f Friend
	var lastSeen sql.NullString
	if err := row.Scan(&f.ID, &f.Name, &f.Location, &f.FreqWeeks, &lastSeen, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}
	if lastSeen.Valid {
		f.LastSeen = &lastSeen.String
	}
	return &f, nil
}

func requireRow(result sql.Result, name string) error {
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%w: %s", ErrFriendNotFound, name)
	}
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
