package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dupitydumb/Audion-sub001/internal/covers"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Move embedded cover art into file-backed storage",
	Long: `Runs the one-time cover migration without starting the interface.
Already-migrated libraries are left alone; a run that hits per-item
errors leaves the done flag unset so the next run picks the rest up.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		b, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer b.close()

		out := b.migrator().RunIfNeeded(cmd.Context())
		if out.Skipped {
			fmt.Println("covers already migrated, nothing to do")
			return nil
		}
		if out.Status == covers.StatusFailed {
			return errors.New(out.Message)
		}

		fmt.Println(out.Message)
		for _, e := range out.Report.Errors {
			fmt.Fprintln(os.Stderr, "  "+e)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
