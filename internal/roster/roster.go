// Package roster moves friend lists in and out of the store: TOML rosters
// for backup and vCard files for seeding from an address book.
package roster

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/lazypower/friendgrow/internal/store"
	toml "github.com/pelletier/go-toml/v2"
)

// Roster is the TOML document: one [[friend]] table per friend.
type Roster struct {
	Friends []Record `toml:"friend"`
}

// Record is a friend as written to or read from a roster.
type Record struct {
	Name      string `toml:"name"`
	Location  string `toml:"location,omitempty"`
	FreqWeeks int    `toml:"freq_weeks,omitempty"`
	LastSeen  string `toml:"last_seen,omitempty"`
}

// FromFriends converts store rows to a roster.
func FromFriends(friends []store.Friend) *Roster {
	r := &Roster{Friends: make([]Record, 0, len(friends))}
	for _, f := range friends {
		rec := Record{Name: f.Name, Location: f.Location, FreqWeeks: f.FreqWeeks}
		if f.LastSeen != nil {
			rec.LastSeen = *f.LastSeen
		}
		r.Friends = append(r.Friends, rec)
	}
	return r
}

// Decode reads a TOML roster.
func Decode(r io.Reader) (*Roster, error) {
	var ros Roster
	if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(&ros); err != nil {
		return nil, fmt.Errorf("parsing roster: %w", err)
	}
	return &ros, nil
}

// Encode writes r as TOML.
func Encode(w io.Writer, r *Roster) error {
	if err := toml.NewEncoder(w).Encode(r); err != nil {
		return fmt.Errorf("marshaling roster: %w", err)
	}
	return nil
}

// Load reads a roster file.
func Load(path string) (*Roster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading roster: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Save writes a roster file, creating parent directories as needed.
func Save(path string, r *Roster) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	data, err := toml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshaling roster: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing roster: %w", err)
	}
	return nil
}
