// Package render turns friends and upcoming entries into terminal tables.
package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/lazypower/friendgrow/internal/engine"
	"github.com/lazypower/friendgrow/internal/store"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	overdueStyle = cellStyle.Foreground(lipgloss.Color("9"))
	borderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// DueText is the human form of a status: "" for never seen, "N days ago"
// when overdue, "in N days" when due.
func DueText(s engine.DueStatus) string {
	switch s.Kind {
	case engine.KindNeverSeen:
		return ""
	case engine.KindOverdue:
		return days(s.Days) + " ago"
	case engine.KindDueIn:
		if s.Days == 0 {
			return "today"
		}
		return "in " + days(s.Days)
	}
	return ""
}

func days(n uint16) string {
	if n == 1 {
		return "1 day"
	}
	return strconv.Itoa(int(n)) + " days"
}

// FreqText renders a visit frequency.
func FreqText(weeks int) string {
	if weeks == 1 {
		return "every week"
	}
	return fmt.Sprintf("every %d weeks", weeks)
}

// LastSeenText renders a stored last-seen date.
func LastSeenText(lastSeen *string) string {
	if lastSeen == nil {
		return "never"
	}
	return *lastSeen
}

// Friend writes a one-line description of f.
func Friend(w io.Writer, f store.Friend) error {
	_, err := fmt.Fprintf(w, "%s (%s), %s, last seen %s\n",
		f.Name, orDash(f.Location), FreqText(f.FreqWeeks), LastSeenText(f.LastSeen))
	return err
}

// FriendsTable writes all friends as a table.
func FriendsTable(w io.Writer, friends []store.Friend) error {
	rows := make([][]string, 0, len(friends))
	for _, f := range friends {
		rows = append(rows, []string{f.Name, orDash(f.Location), FreqText(f.FreqWeeks), LastSeenText(f.LastSeen)})
	}
	t := newTable(nil, "Name", "Location", "Frequency", "Last seen").Rows(rows...)
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// UpcomingTable writes the upcoming list, most urgent first.
func UpcomingTable(w io.Writer, entries []engine.Entry) error {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		f := e.Friend
		rows = append(rows, []string{f.Name, orDash(f.Location), FreqText(f.FreqWeeks), LastSeenText(f.LastSeen), DueText(e.Status)})
	}
	overdue := func(row int) bool {
		return row >= 0 && row < len(entries) && entries[row].Status.Kind == engine.KindOverdue
	}
	t := newTable(overdue, "Name", "Location", "Frequency", "Last seen", "Due").Rows(rows...)
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func newTable(highlight func(row int) bool, headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		BorderRow(false).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case highlight != nil && highlight(row):
				return overdueStyle
			default:
				return cellStyle
			}
		})
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
