package dates

import (
	"fmt"
	"time"
)

// CheckFrequency validates a visit frequency in weeks against [1, max].
func CheckFrequency(weeks, max int) error {
	if weeks <= 0 || weeks > max {
		return fmt.Errorf("%w: must see friends between every 1 week and every %d weeks", ErrFrequency, max)
	}
	return nil
}

// CheckNewSeen validates a new last-seen date against the stored one and
// against today. A stored date that does not parse is reported as is.
func CheckNewSeen(newDate time.Time, last *string, today time.Time) error {
	if last != nil {
		lastDate, err := Parse(*last)
		if err != nil {
			return err
		}
		if lastDate.After(Civil(newDate)) {
			return fmt.Errorf("%w on %s", ErrSeenEarlier, Format(lastDate))
		}
	}
	if Civil(newDate).After(Civil(today)) {
		return ErrSeenFuture
	}
	return nil
}
