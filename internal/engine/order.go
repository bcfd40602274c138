package engine

import (
	"cmp"
	"fmt"
)

// Rank is the urgency bucket of s: never seen (2) above overdue (1) above
// due-in (0).
func (s DueStatus) Rank() int {
	switch s.Kind {
	case KindNeverSeen:
		return 2
	case KindOverdue:
		return 1
	case KindDueIn:
		return 0
	}
	panic(fmt.Sprintf("engine: unknown status kind %d", int(s.Kind)))
}

// Compare orders statuses by urgency. It returns +1 when a is more urgent
// than b, -1 when it is less urgent and 0 when they rank equally.
//
// Buckets compare first. Within overdue, more days is more urgent. Within
// due-in the magnitude is reversed: fewer days is more urgent.
func Compare(a, b DueStatus) int {
	if c := cmp.Compare(a.Rank(), b.Rank()); c != 0 {
		return c
	}
	switch a.Kind {
	case KindNeverSeen:
		return 0
	case KindOverdue:
		return cmp.Compare(a.Days, b.Days)
	case KindDueIn:
		return cmp.Compare(b.Days, a.Days)
	}
	panic(fmt.Sprintf("engine: unknown status kind %d", int(a.Kind)))
}

// MoreUrgent reports whether a ranks strictly above b.
func MoreUrgent(a, b DueStatus) bool {
	return Compare(a, b) > 0
}
