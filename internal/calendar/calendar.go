// Package calendar renders the upcoming-visits list as an iCalendar feed.
package calendar

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/emersion/go-ical"
	"github.com/lazypower/friendgrow/internal/dates"
	"github.com/lazypower/friendgrow/internal/engine"
	"github.com/lazypower/friendgrow/internal/render"
)

const (
	ProductID = "-//friendgrow//Upcoming Visits//EN"
	Name      = "Friends to see"
	uidDomain = "friendgrow"
)

// emptyCalendar is returned when there is nothing to list; the encoder
// rejects calendars without components.
const emptyCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ProductID + "\r\nEND:VCALENDAR\r\n"

// Build encodes one all-day event per entry. Friends due in N days are
// placed N days after now's date; overdue and never-seen friends are placed
// on today.
func Build(entries []engine.Entry, now time.Time) ([]byte, error) {
	if len(entries) == 0 {
		return []byte(emptyCalendar), nil
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, ProductID)
	cal.Props.SetText("X-WR-CALNAME", Name)

	stamp := ical.NewProp(ical.PropDateTimeStamp)
	stamp.SetDateTime(now.UTC())

	today := dates.Civil(now)
	for _, e := range entries {
		event, err := newEvent(e, today)
		if err != nil {
			return nil, err
		}
		event.Props.Set(stamp)
		cal.Children = append(cal.Children, event.Component)
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("encode calendar: %w", err)
	}
	return buf.Bytes(), nil
}

func newEvent(e engine.Entry, today time.Time) (*ical.Event, error) {
	on := today
	if e.Status.Kind == engine.KindDueIn {
		var err error
		on, err = dates.AddDays(today, int64(e.Status.Days))
		if err != nil {
			return nil, fmt.Errorf("friend %s: %w", e.Friend.Name, err)
		}
	}

	event := ical.NewEvent()
	event.Props.SetText(ical.PropUID, uid(e.Friend.Name, on))
	event.Props.SetText(ical.PropSummary, summary(e))
	if e.Friend.Location != "" {
		event.Props.SetText(ical.PropLocation, e.Friend.Location)
	}
	event.Props.SetText(ical.PropDescription, fmt.Sprintf("%s, last seen %s",
		render.FreqText(e.Friend.FreqWeeks), render.LastSeenText(e.Friend.LastSeen)))

	start := ical.NewProp(ical.PropDateTimeStart)
	start.SetDate(on)
	event.Props.Set(start)
	return event, nil
}

func summary(e engine.Entry) string {
	switch e.Status.Kind {
	case engine.KindNeverSeen:
		return fmt.Sprintf("See %s (never seen)", e.Friend.Name)
	case engine.KindOverdue:
		return fmt.Sprintf("See %s (due %s)", e.Friend.Name, render.DueText(e.Status))
	default:
		return fmt.Sprintf("See %s", e.Friend.Name)
	}
}

// uid is stable for a friend and date so calendar clients update rather
// than duplicate events across refreshes.
func uid(name string, on time.Time) string {
	sum := sha256.Sum256([]byte(name))
	return fmt.Sprintf("%x-%s@%s", sum[:8], on.Format("20060102"), uidDomain)
}
