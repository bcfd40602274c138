package client

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lazypower/friendgrow/internal/dates"
	"github.com/lazypower/friendgrow/internal/engine"
	"github.com/lazypower/friendgrow/internal/server"
	"github.com/lazypower/friendgrow/internal/store"
)

func testClient(t *testing.T) (*Client, *engine.Engine) {
	t.Helper()
	db, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	now := time.Date(2021, time.April, 20, 0, 0, 0, 0, time.UTC)
	eng := engine.New(db, dates.FixedClock{T: now}, engine.Settings{
		CutoffDays:       20,
		DefaultFreqWeeks: 10,
		MaxFreqWeeks:     52,
	})
	ts := httptest.NewServer(server.New(eng, "test"))
	t.Cleanup(ts.Close)
	return New(ts.URL + "/"), eng
}

func TestHealthy(t *testing.T) {
	c, _ := testClient(t)
	if !c.Healthy() {
		t.Error("Healthy = false against a running server")
	}
	if New("http://127.0.0.1:1").Healthy() {
		t.Error("Healthy = true with nothing listening")
	}
}

func TestUpcoming(t *testing.T) {
	c, eng := testClient(t)
	if _, err := eng.AddFriend("A", "Porto", 2); err != nil {
		t.Fatal(err)
	}
	if _, err := eng.RecordSeen("A", "2021-04-01"); err != nil {
		t.Fatal(err)
	}
	if _, err := eng.AddFriend("B", "Faro", 2); err != nil {
		t.Fatal(err)
	}
	if _, err := eng.AddFriend("C", "Lagos", 4); err != nil {
		t.Fatal(err)
	}
	if _, err := eng.RecordSeen("C", "2021-04-19"); err != nil {
		t.Fatal(err)
	}

	entries, err := c.Upcoming(0)
	if err != nil {
		t.Fatalf("Upcoming: %v", err)
	}
	want := []struct {
		name   string
		status engine.DueStatus
	}{
		{"B", engine.NeverSeen()},
		{"A", engine.Overdue(5)},
	}
	if len(entries) != len(want) {
		t.Fatalf("len = %d, want %d: %+v", len(entries), len(want), entries)
	}
	for i, w := range want {
		if entries[i].Friend.Name != w.name || entries[i].Status != w.status {
			t.Errorf("entries[%d] = %s %v, want %s %v", i, entries[i].Friend.Name, entries[i].Status, w.name, w.status)
		}
	}

	entries, err = c.Upcoming(30)
	if err != nil {
		t.Fatalf("Upcoming(30): %v", err)
	}
	if len(entries) != 3 || entries[2].Status != engine.DueIn(27) {
		t.Errorf("Upcoming(30) = %+v, want C due in 27 last", entries)
	}
}

func TestRecordSeen(t *testing.T) {
	c, eng := testClient(t)
	if _, err := eng.AddFriend("Alice Martin", "Lisbon", 2); err != nil {
		t.Fatal(err)
	}

	f, err := c.RecordSeen("Alice Martin", "2021-04-10")
	if err != nil {
		t.Fatalf("RecordSeen: %v", err)
	}
	if f.LastSeen == nil || *f.LastSeen != "2021-04-10" {
		t.Errorf("LastSeen = %v, want 2021-04-10", f.LastSeen)
	}

	f, err = c.RecordSeen("Alice Martin", "")
	if err != nil {
		t.Fatalf("RecordSeen today: %v", err)
	}
	if *f.LastSeen != "2021-04-20" {
		t.Errorf("LastSeen = %s, want server's today", *f.LastSeen)
	}

	for _, name := range []string{"A%20B", "Ann/Bo"} {
		if _, err := eng.AddFriend(name, "", 2); err != nil {
			t.Fatal(err)
		}
		f, err := c.RecordSeen(name, "2021-04-10")
		if err != nil {
			t.Fatalf("RecordSeen(%q): %v", name, err)
		}
		if f.Name != name {
			t.Errorf("Name = %q, want %q", f.Name, name)
		}
	}

	if _, err := c.RecordSeen("nobody", "2021-04-10"); err == nil {
		t.Error("RecordSeen succeeded for an unknown friend")
	}
}

func TestParseStatusUnknown(t *testing.T) {
	if _, err := parseStatus("later", 0); err == nil {
		t.Error("parseStatus accepted an unknown kind")
	}
}
