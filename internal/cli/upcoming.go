package cli

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/lazypower/friendgrow/internal/calendar"
	"github.com/lazypower/friendgrow/internal/client"
	"github.com/lazypower/friendgrow/internal/engine"
	"github.com/lazypower/friendgrow/internal/render"
	"github.com/spf13/cobra"
)

var (
	cutoffDays int
	serverURL  string
)

var upcomingCmd = &cobra.Command{
	Use:   "upcoming",
	Short: "List friends who are overdue or due soon, most urgent first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, _, err := loadUpcoming()
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Nobody due soon.")
			return nil
		}
		return render.UpcomingTable(cmd.OutOrStdout(), entries)
	},
}

var calendarOut string

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Write upcoming visits as an iCalendar feed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, now, err := loadUpcoming()
		if err != nil {
			return err
		}
		data, err := calendar.Build(entries, now)
		if err != nil {
			return err
		}
		if calendarOut == "" || calendarOut == "-" {
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}
		if err := os.WriteFile(calendarOut, data, 0o644); err != nil {
			return fmt.Errorf("write calendar: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d events to %s\n", len(entries), calendarOut)
		return nil
	},
}

// loadUpcoming ranks every friend against the current time, which it also
// returns. A --cutoff of 0 keeps the configured one.
func loadUpcoming() ([]engine.Entry, time.Time, error) {
	if cutoffDays < 0 || cutoffDays > math.MaxUint16 {
		return nil, time.Time{}, fmt.Errorf("--cutoff must be between 0 and %d (0 = configured)", math.MaxUint16)
	}

	if serverURL != "" {
		c, err := remoteClient()
		if err != nil {
			return nil, time.Time{}, err
		}
		entries, err := c.Upcoming(uint16(cutoffDays))
		return entries, time.Now(), err
	}

	eng, db, err := openEngine()
	if err != nil {
		return nil, time.Time{}, err
	}
	defer db.Close()

	now := eng.Clock.Now()
	entries, err := eng.ListUpcoming(uint16(cutoffDays))
	return entries, now, err
}

// remoteClient connects to --server, failing early when nothing answers.
func remoteClient() (*client.Client, error) {
	c := client.New(serverURL)
	if !c.Healthy() {
		return nil, fmt.Errorf("no friendgrow server reachable at %s", serverURL)
	}
	return c, nil
}

func init() {
	for _, c := range []*cobra.Command{upcomingCmd, calendarCmd} {
		c.Flags().IntVar(&cutoffDays, "cutoff", 0, "days ahead to include (default upcoming.cutoff_days)")
		c.Flags().StringVar(&serverURL, "server", "", "ask a running friendgrow server instead of the local database")
	}
	calendarCmd.Flags().StringVarP(&calendarOut, "output", "o", "", "output file (default stdout)")
}
