package roster

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lazypower/friendgrow/internal/dates"
	"github.com/lazypower/friendgrow/internal/store"
)

// Store is the part of *store.DB an import needs.
type Store interface {
	GetFriend(name string) (*store.Friend, error)
	InsertFriend(f *store.Friend) error
}

// Options controls how records become friends.
type Options struct {
	DefaultFreqWeeks int // used when a record has no frequency
	MaxFreqWeeks     int
	Today            time.Time // last-seen dates after this are rejected
}

// Result lists what an import did.
type Result struct {
	Added   []string
	Skipped []string // already present
}

// Import validates every record, then inserts the ones whose names are not
// yet in the store. A single invalid record aborts the import before
// anything is written.
func Import(db Store, records []Record, opts Options) (Result, error) {
	friends := make([]store.Friend, 0, len(records))
	seen := make(map[string]bool, len(records))
	for i, rec := range records {
		f, err := toFriend(rec, opts)
		if err != nil {
			return Result{}, fmt.Errorf("record %d (%q): %w", i+1, rec.Name, err)
		}
		if seen[f.Name] {
			return Result{}, fmt.Errorf("record %d: duplicate name %q", i+1, f.Name)
		}
		seen[f.Name] = true
		friends = append(friends, f)
	}

	var res Result
	for i := range friends {
		f := &friends[i]
		existing, err := db.GetFriend(f.Name)
		if err != nil {
			return res, err
		}
		if existing != nil {
			res.Skipped = append(res.Skipped, f.Name)
			continue
		}
		if err := db.InsertFriend(f); err != nil {
			if errors.Is(err, store.ErrFriendExists) {
				res.Skipped = append(res.Skipped, f.Name)
				continue
			}
			return res, err
		}
		slog.Debug("imported friend", "name", f.Name)
		res.Added = append(res.Added, f.Name)
	}
	return res, nil
}

func toFriend(rec Record, opts Options) (store.Friend, error) {
	name := strings.TrimSpace(rec.Name)
	if name == "" {
		return store.Friend{}, errors.New("missing name")
	}
	f := store.Friend{Name: name, Location: strings.TrimSpace(rec.Location), FreqWeeks: rec.FreqWeeks}
	if f.FreqWeeks == 0 {
		f.FreqWeeks = opts.DefaultFreqWeeks
	}
	if err := dates.CheckFrequency(f.FreqWeeks, opts.MaxFreqWeeks); err != nil {
		return store.Friend{}, err
	}
	if rec.LastSeen != "" {
		d, err := dates.Parse(rec.LastSeen)
		if err != nil {
			return store.Friend{}, err
		}
		if err := dates.CheckNewSeen(d, nil, opts.Today); err != nil {
			return store.Friend{}, err
		}
		s := dates.Format(d)
		f.LastSeen = &s
	}
	return f, nil
}
