package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lazypower/friendgrow/internal/dates"
	"github.com/lazypower/friendgrow/internal/store"
)

// ErrNameRequired is returned when a friend name is blank.
var ErrNameRequired = errors.New("friend name is required")

// Settings are the tunables the engine reads from configuration.
type Settings struct {
	CutoffDays       uint16
	DefaultFreqWeeks int
	MaxFreqWeeks     int
}

// Engine applies friend edits to the store with validation and builds the
// upcoming list. The CLI and the HTTP server share it.
type Engine struct {
	DB       *store.DB
	Clock    dates.Clock
	Settings Settings
}

// New creates a new Engine.
func New(db *store.DB, clock dates.Clock, settings Settings) *Engine {
	if clock == nil {
		clock = dates.RealClock{}
	}
	return &Engine{DB: db, Clock: clock, Settings: settings}
}

// Today is the local calendar date according to the engine's clock.
func (e *Engine) Today() time.Time {
	return dates.Today(e.Clock)
}

// Friend loads a friend, failing with store.ErrFriendNotFound if absent.
func (e *Engine) Friend(name string) (*store.Friend, error) {
	f, err := e.DB.GetFriend(name)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, fmt.Errorf("%w: %s", store.ErrFriendNotFound, name)
	}
	return f, nil
}

// AddFriend stores a new friend. freqWeeks of 0 selects the configured default.
func (e *Engine) AddFriend(name, location string, freqWeeks int) (*store.Friend, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if freqWeeks == 0 {
		freqWeeks = e.Settings.DefaultFreqWeeks
	}
	if err := dates.CheckFrequency(freqWeeks, e.Settings.MaxFreqWeeks); err != nil {
		return nil, err
	}

	f := &store.Friend{Name: name, Location: strings.TrimSpace(location), FreqWeeks: freqWeeks}
	if err := e.DB.InsertFriend(f); err != nil {
		return nil, err
	}
	slog.Info("added friend", "name", f.Name, "freq_weeks", f.FreqWeeks)
	return f, nil
}

// RemoveFriend deletes a friend and returns the record as it was.
func (e *Engine) RemoveFriend(name string) (*store.Friend, error) {
	f, err := e.Friend(name)
	if err != nil {
		return nil, err
	}
	if err := e.DB.DeleteFriend(name); err != nil {
		return nil, err
	}
	slog.Info("removed friend", "name", name)
	return f, nil
}

// SetLocation updates where a friend lives.
func (e *Engine) SetLocation(name, location string) (*store.Friend, error) {
	if err := e.DB.UpdateLocation(name, strings.TrimSpace(location)); err != nil {
		return nil, err
	}
	return e.Friend(name)
}

// SetFrequency updates how often to see a friend.
func (e *Engine) SetFrequency(name string, weeks int) (*store.Friend, error) {
	if err := dates.CheckFrequency(weeks, e.Settings.MaxFreqWeeks); err != nil {
		return nil, err
	}
	if err := e.DB.UpdateFreqWeeks(name, weeks); err != nil {
		return nil, err
	}
	return e.Friend(name)
}

// RecordSeen stores date (YYYY-MM-DD) as the last time name was seen. The
// date may not be in the future nor earlier than what is already stored.
func (e *Engine) RecordSeen(name, date string) (*store.Friend, error) {
	seen, err := dates.Parse(date)
	if err != nil {
		return nil, err
	}
	f, err := e.Friend(name)
	if err != nil {
		return nil, err
	}
	if err := dates.CheckNewSeen(seen, f.LastSeen, e.Today()); err != nil {
		return nil, err
	}
	if err := e.DB.UpdateLastSeen(name, dates.Format(seen)); err != nil {
		return nil, err
	}
	slog.Info("recorded visit", "name", name, "date", dates.Format(seen))
	return e.Friend(name)
}

// ListUpcoming loads every friend and ranks them for today. A cutoff of 0
// selects the configured one.
func (e *Engine) ListUpcoming(cutoffDays uint16) ([]Entry, error) {
	if cutoffDays == 0 {
		cutoffDays = e.Settings.CutoffDays
	}
	friends, err := e.DB.ListFriends()
	if err != nil {
		return nil, fmt.Errorf("load friends: %w", err)
	}
	entries, err := Upcoming(friends, e.Today(), cutoffDays)
	if err != nil {
		return nil, err
	}
	slog.Debug("upcoming listed", "friends", len(friends), "retained", len(entries), "cutoff_days", cutoffDays)
	return entries, nil
}
