package engine

import (
	"fmt"
	"slices"
	"time"

	"github.com/lazypower/friendgrow/internal/store"
)

// DefaultCutoffDays is how far ahead a not-yet-due friend is still listed.
const DefaultCutoffDays = 20

// Entry is a friend with its status for one listing.
type Entry struct {
	Friend store.Friend
	Status DueStatus
}

// Queue collects friends worth surfacing and hands them back in urgency
// order. A Queue is built and drained once per listing and is not safe for
// concurrent use.
type Queue struct {
	cutoff  uint16
	entries []Entry
	names   map[string]struct{}
}

// NewQueue returns an empty queue that drops friends due more than
// cutoffDays from now.
func NewQueue(cutoffDays uint16) *Queue {
	return &Queue{
		cutoff: cutoffDays,
		names:  make(map[string]struct{}),
	}
}

// Push computes f's status on today and keeps it unless it is due beyond the
// cutoff. Overdue and never-seen friends are always kept. Pushing the same
// friend twice is a programming error and panics.
func (q *Queue) Push(f store.Friend, today time.Time) error {
	if _, dup := q.names[f.Name]; dup {
		panic(fmt.Sprintf("engine: friend %q pushed twice", f.Name))
	}
	q.names[f.Name] = struct{}{}

	status, err := ComputeDueStatus(f, today)
	if err != nil {
		return fmt.Errorf("friend %s: %w", f.Name, err)
	}
	q.add(f, status)
	return nil
}

func (q *Queue) add(f store.Friend, status DueStatus) {
	if status.Kind == KindDueIn && status.Days > q.cutoff {
		return
	}
	q.entries = append(q.entries, Entry{Friend: f, Status: status})
}

// Len returns the number of retained entries.
func (q *Queue) Len() int {
	return len(q.entries)
}

// Drain returns the retained entries from most to least urgent and empties
// the queue. Equal ranks keep insertion order.
func (q *Queue) Drain() []Entry {
	out := q.entries
	slices.SortStableFunc(out, func(a, b Entry) int {
		return Compare(b.Status, a.Status)
	})
	q.entries = nil
	clear(q.names)
	return out
}

// Upcoming builds the upcoming-visits list for friends on today. The first
// friend with unusable data fails the whole listing.
func Upcoming(friends []store.Friend, today time.Time, cutoffDays uint16) ([]Entry, error) {
	q := NewQueue(cutoffDays)
	for _, f := range friends {
		if err := q.Push(f, today); err != nil {
			return nil, err
		}
	}
	return q.Drain(), nil
}
