package cli

import (
	"fmt"
	"os"

	"github.com/lazypower/friendgrow/internal/config"
	"github.com/lazypower/friendgrow/internal/dates"
	"github.com/lazypower/friendgrow/internal/engine"
	"github.com/lazypower/friendgrow/internal/logging"
	"github.com/lazypower/friendgrow/internal/store"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:          "friendgrow",
	Short:        "Let your friendships grow",
	Long:         "friendgrow remembers how often you want to see each friend and when you last did, and tells you who is overdue.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		v := viper.New()
		if err := v.BindPFlag("database.path", cmd.Root().PersistentFlags().Lookup("db")); err != nil {
			return err
		}
		if err := v.BindPFlag("log.level", cmd.Root().PersistentFlags().Lookup("log-level")); err != nil {
			return err
		}
		loaded, err := config.LoadWith(v, cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded
		logging.Setup(os.Stderr, cfg.Log.Level)
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default .friendgrow.toml in . or $HOME)")
	rootCmd.PersistentFlags().String("db", "", "database path (default ~/.friendgrow/friends.db)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(setLocationCmd)
	rootCmd.AddCommand(setFreqCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(upcomingCmd)
	rootCmd.AddCommand(calendarCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
}

// openEngine opens the configured database and wraps it in an engine. The
// caller closes the returned store.
func openEngine() (*engine.Engine, *store.DB, error) {
	dbPath := cfg.Database.Path
	if dbPath == "" {
		var err error
		dbPath, err = store.DefaultDBPath()
		if err != nil {
			return nil, nil, fmt.Errorf("resolve db path: %w", err)
		}
	}

	db, err := store.Open(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	eng := engine.New(db, dates.RealClock{}, engine.Settings{
		CutoffDays:       cfg.CutoffDays(),
		DefaultFreqWeeks: cfg.Friends.DefaultFreqWeeks,
		MaxFreqWeeks:     cfg.Friends.MaxFreqWeeks,
	})
	return eng, db, nil
}
