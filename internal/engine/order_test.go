package engine

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

// The three-tier rule: never seen > overdue (most days first) > due-in
// (fewest days first). Inverting either magnitude comparison breaks these.
func TestCompareBuckets(t *testing.T) {
	tests := []struct {
		name string
		a, b DueStatus
		want int
	}{
		{"never seen beats most overdue", NeverSeen(), Overdue(65535), 1},
		{"never seen beats due today", NeverSeen(), DueIn(0), 1},
		{"never seen ties never seen", NeverSeen(), NeverSeen(), 0},
		{"overdue beats due today", Overdue(0), DueIn(0), 1},
		{"more overdue wins", Overdue(10), Overdue(5), 1},
		{"less overdue loses", Overdue(5), Overdue(10), -1},
		{"equal overdue ties", Overdue(7), Overdue(7), 0},
		{"sooner due wins", DueIn(0), DueIn(8), 1},
		{"later due loses", DueIn(16), DueIn(8), -1},
		{"equal due-in ties", DueIn(16), DueIn(16), 0},
		{"due-in loses to overdue", DueIn(0), Overdue(1), -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compare(tt.a, tt.b))
			assert.Equal(t, -tt.want, Compare(tt.b, tt.a))
		})
	}
}

func TestCompareTotalOrder(t *testing.T) {
	all := []DueStatus{NeverSeen()}
	for _, d := range []uint16{0, 1, 2, 15, 16, 65535} {
		all = append(all, Overdue(d), DueIn(d))
	}

	for _, a := range all {
		assert.Equal(t, 0, Compare(a, a), "reflexive %v", a)
		for _, b := range all {
			ab, ba := Compare(a, b), Compare(b, a)
			assert.Equal(t, ab, -ba, "antisymmetric %v %v", a, b)
			if ab == 0 {
				assert.Equal(t, a, b, "only identical statuses tie: %v %v", a, b)
			}
			for _, c := range all {
				if ab > 0 && Compare(b, c) > 0 {
					assert.Positive(t, Compare(a, c), "transitive %v > %v > %v", a, b, c)
				}
			}
		}
	}
}

func TestCompareSortExample(t *testing.T) {
	statuses := []DueStatus{
		NeverSeen(), DueIn(16), DueIn(16), Overdue(5), NeverSeen(),
		DueIn(8), Overdue(0), Overdue(10), DueIn(0),
	}
	want := []DueStatus{
		NeverSeen(), NeverSeen(), Overdue(10), Overdue(5), Overdue(0),
		DueIn(0), DueIn(8), DueIn(16), DueIn(16),
	}

	slices.SortStableFunc(statuses, func(a, b DueStatus) int { return Compare(b, a) })
	assert.Equal(t, want, statuses)
}

func TestMoreUrgent(t *testing.T) {
	assert.True(t, MoreUrgent(Overdue(1), DueIn(0)))
	assert.False(t, MoreUrgent(DueIn(0), DueIn(0)))
	assert.False(t, MoreUrgent(DueIn(3), DueIn(2)))
}

func TestRankUnknownKindPanics(t *testing.T) {
	assert.Panics(t, func() { DueStatus{Kind: Kind(9)}.Rank() })
	assert.Panics(t, func() { Compare(DueStatus{Kind: Kind(9)}, NeverSeen()) })
}
