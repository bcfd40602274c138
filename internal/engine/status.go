// Package engine classifies how urgently each friend should be seen and
// ranks friends into the upcoming-visits list.
package engine

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/lazypower/friendgrow/internal/dates"
	"github.com/lazypower/friendgrow/internal/store"
)

// ErrArithmetic reports a due date or day count outside the supported range.
var ErrArithmetic = errors.New("date arithmetic out of range")

// Kind is the urgency category of a DueStatus.
type Kind int

const (
	KindDueIn Kind = iota
	KindOverdue
	KindNeverSeen
)

func (k Kind) String() string {
	switch k {
	case KindNeverSeen:
		return "never_seen"
	case KindOverdue:
		return "overdue"
	case KindDueIn:
		return "due_in"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// DueStatus is a friend's urgency relative to a given day. Days is the
// number of days overdue for KindOverdue and days until due for KindDueIn;
// it is always zero for KindNeverSeen.
type DueStatus struct {
	Kind Kind
	Days uint16
}

func NeverSeen() DueStatus          { return DueStatus{Kind: KindNeverSeen} }
func Overdue(days uint16) DueStatus { return DueStatus{Kind: KindOverdue, Days: days} }
func DueIn(days uint16) DueStatus   { return DueStatus{Kind: KindDueIn, Days: days} }

func (s DueStatus) String() string {
	switch s.Kind {
	case KindNeverSeen:
		return "NeverSeen"
	case KindOverdue:
		return fmt.Sprintf("Overdue(%d)", s.Days)
	case KindDueIn:
		return fmt.Sprintf("DueIn(%d)", s.Days)
	}
	return s.Kind.String()
}

// ComputeDueStatus works out f's status on today. Malformed stored dates
// wrap dates.ErrDateFormat; spans that do not fit the calendar range or a
// uint16 day count wrap ErrArithmetic.
func ComputeDueStatus(f store.Friend, today time.Time) (DueStatus, error) {
	if f.LastSeen == nil {
		return NeverSeen(), nil
	}

	lastSeen, err := dates.Parse(*f.LastSeen)
	if err != nil {
		return DueStatus{}, err
	}

	if int64(f.FreqWeeks) > dates.MaxSpanDays()/7 {
		return DueStatus{}, fmt.Errorf("%w: frequency of %d weeks", ErrArithmetic, f.FreqWeeks)
	}
	nextDue, err := dates.AddDays(lastSeen, int64(f.FreqWeeks)*7)
	if err != nil {
		return DueStatus{}, fmt.Errorf("%w: %w", ErrArithmetic, err)
	}

	delta := dates.DaysBetween(today, nextDue)
	if delta < 0 {
		days, err := toDays(-delta)
		if err != nil {
			return DueStatus{}, err
		}
		return Overdue(days), nil
	}
	days, err := toDays(delta)
	if err != nil {
		return DueStatus{}, err
	}
	return DueIn(days), nil
}

func toDays(n int64) (uint16, error) {
	if n < 0 || n > math.MaxUint16 {
		return 0, fmt.Errorf("%w: %d days does not fit", ErrArithmetic, n)
	}
	return uint16(n), nil
}
