package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lazypower/friendgrow/internal/roster"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Import friends from a vCard (.vcf) or roster (.toml) file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := readRecords(args[0])
		if err != nil {
			return err
		}

		eng, db, err := openEngine()
		if err != nil {
			return err
		}
		defer db.Close()

		res, err := roster.Import(eng.DB, records, roster.Options{
			DefaultFreqWeeks: eng.Settings.DefaultFreqWeeks,
			MaxFreqWeeks:     eng.Settings.MaxFreqWeeks,
			Today:            eng.Today(),
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Imported %d friends", len(res.Added))
		if len(res.Skipped) > 0 {
			fmt.Fprintf(out, ", skipped %d already present (%s)", len(res.Skipped), strings.Join(res.Skipped, ", "))
		}
		fmt.Fprintln(out)
		return nil
	},
}

func readRecords(path string) ([]roster.Record, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".vcf", ".vcard":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		return roster.DecodeVCards(f)
	case ".toml":
		r, err := roster.Load(path)
		if err != nil {
			return nil, err
		}
		return r.Friends, nil
	default:
		return nil, fmt.Errorf("unsupported import format %q (want .vcf or .toml)", filepath.Ext(path))
	}
}

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all friends as a TOML roster",
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
		r := roster.FromFriends(friends)

		if exportOut == "" || exportOut == "-" {
			return roster.Encode(cmd.OutOrStdout(), r)
		}
		if err := roster.Save(exportOut, r); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "exported %d friends to %s\n", len(friends), exportOut)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "output file (default stdout)")
}
