package cli

import (
	"fmt"
	"strconv"

	"github.com/lazypower/friendgrow/internal/dates"
	"github.com/lazypower/friendgrow/internal/engine"
	"github.com/lazypower/friendgrow/internal/render"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all friends",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, db, err := openEngine()
		if err != nil {
			return err
		}
		defer db.Close()

		friends, err := eng.DB.ListFriends()
		if err != nil {
			return err
		}
		if len(friends) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No friends yet. Add one with: friendgrow add NAME LOCATION")
			return nil
		}
		return render.FriendsTable(cmd.OutOrStdout(), friends)
	},
}

var showCmd = &cobra.Command{
	Use:   "show NAME",
	Short: "Show one friend",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, db, err := openEngine()
		if err != nil {
			return err
		}
		defer db.Close()

		f, err := eng.Friend(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if err := render.Friend(out, *f); err != nil {
			return err
		}
		status, err := engine.ComputeDueStatus(*f, eng.Today())
		if err != nil {
			return err
		}
		if text := render.DueText(status); text != "" {
			fmt.Fprintf(out, "Due %s\n", text)
		}
		return nil
	},
}

var addFreqWeeks int

var addCmd = &cobra.Command{
	Use:   "add NAME LOCATION",
	Short: "Add a friend",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, db, err := openEngine()
		if err != nil {
			return err
		}
		defer db.Close()

		f, err := eng.AddFriend(args[0], args[1], addFreqWeeks)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), "Added ")
		return render.Friend(cmd.OutOrStdout(), *f)
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove NAME",
	Short: "Remove a friend",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, db, err := openEngine()
		if err != nil {
			return err
		}
		defer db.Close()

		f, err := eng.RemoveFriend(args[0])
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), "Removed ")
		return render.Friend(cmd.OutOrStdout(), *f)
	},
}

var setLocationCmd = &cobra.Command{
	Use:   "set-location NAME LOCATION",
	Short: "Change where a friend lives",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, db, err := openEngine()
		if err != nil {
			return err
		}
		defer db.Close()

		f, err := eng.SetLocation(args[0], args[1])
		if err != nil {
			return err
		}
		return render.Friend(cmd.OutOrStdout(), *f)
	},
}

var setFreqCmd = &cobra.Command{
	Use:   "set-freq NAME WEEKS",
	Short: "Change how often to see a friend",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		weeks, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("%w: %q is not a number of weeks", dates.ErrFrequency, args[1])
		}

		eng, db, err := openEngine()
		if err != nil {
			return err
		}
		defer db.Close()

		f, err := eng.SetFrequency(args[0], weeks)
		if err != nil {
			return err
		}
		return render.Friend(cmd.OutOrStdout(), *f)
	},
}

var recordCmd = &cobra.Command{
	Use:   "record NAME [DATE]",
	Short: "Record that you saw a friend (DATE is YYYY-MM-DD, default today)",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if serverURL != "" {
			var date string
			if len(args) == 2 {
				date = args[1]
			}
			c, err := remoteClient()
			if err != nil {
				return err
			}
			f, err := c.RecordSeen(args[0], date)
			if err != nil {
				return err
			}
			return render.Friend(cmd.OutOrStdout(), *f)
		}

		eng, db, err := openEngine()
		if err != nil {
			return err
		}
		defer db.Close()

		date := dates.Format(eng.Today())
		if len(args) == 2 {
			date = args[1]
		}
		f, err := eng.RecordSeen(args[0], date)
		if err != nil {
			return err
		}
		return render.Friend(cmd.OutOrStdout(), *f)
	},
}

func init() {
	addCmd.Flags().IntVarP(&addFreqWeeks, "freq", "f", 0, "weeks between visits (default friends.default_freq_weeks)")
	recordCmd.Flags().StringVar(&serverURL, "server", "", "record through a running friendgrow server instead of the local database")
}
