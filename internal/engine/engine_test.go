package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/lazypower/friendgrow/internal/dates"
	"github.com/lazypower/friendgrow/internal/store"
)

func testDB(t *testing.T) *store.DB {
	t.Helper()
	db, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testEngine(t *testing.T, now time.Time) *Engine {
	t.Helper()
	return New(testDB(t), dates.FixedClock{T: now}, Settings{
		CutoffDays:       15,
		DefaultFreqWeeks: 10,
		MaxFreqWeeks:     52,
	})
}

func TestAddFriendDefaults(t *testing.T) {
	e := testEngine(t, day(2021, time.April, 2))

	f, err := e.AddFriend("  alice ", "Lisbon", 0)
	if err != nil {
		t.Fatalf("AddFriend: %v", err)
	}
	if f.Name != "alice" {
		t.Errorf("Name = %q, want alice", f.Name)
	}
	if f.FreqWeeks != 10 {
		t.Errorf("FreqWeeks = %d, want 10", f.FreqWeeks)
	}
	if f.LastSeen != nil {
		t.Errorf("LastSeen = %q, want nil", *f.LastSeen)
	}
}

func TestAddFriendValidation(t *testing.T) {
	e := testEngine(t, day(2021, time.April, 2))

	if _, err := e.AddFriend("  ", "x", 2); !errors.Is(err, ErrNameRequired) {
		t.Errorf("err = %v, want ErrNameRequired", err)
	}
	if _, err := e.AddFriend("bob", "x", 53); !errors.Is(err, dates.ErrFrequency) {
		t.Errorf("err = %v, want ErrFrequency", err)
	}
	if _, err := e.AddFriend("bob", "x", -2); !errors.Is(err, dates.ErrFrequency) {
		t.Errorf("err = %v, want ErrFrequency", err)
	}
	if _, err := e.AddFriend("bob", "x", 2); err != nil {
		t.Fatalf("AddFriend: %v", err)
	}
	if _, err := e.AddFriend("bob", "y", 3); !errors.Is(err, store.ErrFriendExists) {
		t.Errorf("err = %v, want ErrFriendExists", err)
	}
}

func TestRecordSeen(t *testing.T) {
	e := testEngine(t, time.Date(2021, time.April, 20, 8, 0, 0, 0, time.UTC))
	if _, err := e.AddFriend("alice", "", 2); err != nil {
		t.Fatalf("AddFriend: %v", err)
	}

	f, err := e.RecordSeen("alice", "2021-04-01")
	if err != nil {
		t.Fatalf("RecordSeen: %v", err)
	}
	if f.LastSeen == nil || *f.LastSeen != "2021-04-01" {
		t.Errorf("LastSeen = %v, want 2021-04-01", f.LastSeen)
	}

	if _, err := e.RecordSeen("alice", "2021-03-01"); !errors.Is(err, dates.ErrSeenEarlier) {
		t.Errorf("earlier: err = %v, want ErrSeenEarlier", err)
	}
	if _, err := e.RecordSeen("alice", "2021-04-21"); !errors.Is(err, dates.ErrSeenFuture) {
		t.Errorf("future: err = %v, want ErrSeenFuture", err)
	}
	if _, err := e.RecordSeen("alice", "2021-4-5"); !errors.Is(err, dates.ErrDateFormat) {
		t.Errorf("format: err = %v, want ErrDateFormat", err)
	}
	if _, err := e.RecordSeen("ghost", "2021-04-01"); !errors.Is(err, store.ErrFriendNotFound) {
		t.Errorf("missing: err = %v, want ErrFriendNotFound", err)
	}

	if _, err := e.RecordSeen("alice", "2021-04-20"); err != nil {
		t.Errorf("seen today: %v", err)
	}
}

func TestSetFrequencyAndLocation(t *testing.T) {
	e := testEngine(t, day(2021, time.April, 2))
	if _, err := e.AddFriend("alice", "Lisbon", 2); err != nil {
		t.Fatalf("AddFriend: %v", err)
	}

	f, err := e.SetFrequency("alice", 5)
	if err != nil {
		t.Fatalf("SetFrequency: %v", err)
	}
	if f.FreqWeeks != 5 {
		t.Errorf("FreqWeeks = %d, want 5", f.FreqWeeks)
	}
	if _, err := e.SetFrequency("alice", 0); !errors.Is(err, dates.ErrFrequency) {
		t.Errorf("err = %v, want ErrFrequency", err)
	}

	f, err = e.SetLocation("alice", "Porto")
	if err != nil {
		t.Fatalf("SetLocation: %v", err)
	}
	if f.Location != "Porto" {
		t.Errorf("Location = %q, want Porto", f.Location)
	}
	if _, err := e.SetLocation("ghost", "Porto"); !errors.Is(err, store.ErrFriendNotFound) {
		t.Errorf("err = %v, want ErrFriendNotFound", err)
	}
}

func TestRemoveFriend(t *testing.T) {
	e := testEngine(t, day(2021, time.April, 2))
	if _, err := e.AddFriend("alice", "Lisbon", 2); err != nil {
		t.Fatalf("AddFriend: %v", err)
	}

	f, err := e.RemoveFriend("alice")
	if err != nil {
		t.Fatalf("RemoveFriend: %v", err)
	}
	if f.Location != "Lisbon" {
		t.Errorf("removed record Location = %q, want Lisbon", f.Location)
	}
	if _, err := e.RemoveFriend("alice"); !errors.Is(err, store.ErrFriendNotFound) {
		t.Errorf("err = %v, want ErrFriendNotFound", err)
	}
}

func TestListUpcoming(t *testing.T) {
	e := testEngine(t, time.Date(2021, time.April, 20, 12, 0, 0, 0, time.UTC))
	for _, add := range []struct {
		name  string
		weeks int
		seen  string
	}{
		{"A", 2, "2021-04-01"},
		{"B", 2, ""},
		{"far", 8, "2021-04-10"},
	} {
		if _, err := e.AddFriend(add.name, "", add.weeks); err != nil {
			t.Fatalf("AddFriend(%s): %v", add.name, err)
		}
		if add.seen != "" {
			if _, err := e.RecordSeen(add.name, add.seen); err != nil {
				t.Fatalf("RecordSeen(%s): %v", add.name, err)
			}
		}
	}

	entries, err := e.ListUpcoming(0)
	if err != nil {
		t.Fatalf("ListUpcoming: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len = %d, want 2 (far is beyond the cutoff)", len(entries))
	}
	if entries[0].Friend.Name != "B" || entries[0].Status != NeverSeen() {
		t.Errorf("entries[0] = %s %v, want B NeverSeen", entries[0].Friend.Name, entries[0].Status)
	}
	if entries[1].Friend.Name != "A" || entries[1].Status != Overdue(5) {
		t.Errorf("entries[1] = %s %v, want A Overdue(5)", entries[1].Friend.Name, entries[1].Status)
	}

	// far is due 2021-06-05, 46 days out.
	entries, err = e.ListUpcoming(60)
	if err != nil {
		t.Fatalf("ListUpcoming(60): %v", err)
	}
	if len(entries) != 3 || entries[2].Status != DueIn(46) {
		t.Errorf("with cutoff 60 got %d entries, last %v", len(entries), entries[len(entries)-1].Status)
	}
}

func TestListUpcomingBadStoredDate(t *testing.T) {
	e := testEngine(t, day(2021, time.April, 2))
	if _, err := e.DB.Exec(`INSERT INTO friends (name, freq_weeks, last_seen, created_at, updated_at) VALUES ('x', 2, 'garbage', 1, 1)`); err != nil {
		t.Fatalf("insert: %v", err)
	}

	if _, err := e.ListUpcoming(0); !errors.Is(err, dates.ErrDateFormat) {
		t.Errorf("err = %v, want ErrDateFormat", err)
	}
}
