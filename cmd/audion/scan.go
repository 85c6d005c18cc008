package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dupitydumb/Audion-sub001/internal/library"
)

var scanCmd = &cobra.Command{
	Use:   "scan <dir>",
	Short: "Import audio files under a directory into the library",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer b.close()

		scanner := library.NewScanner(b.repos.Tracks, b.repos.Albums,
			b.cfg.Library.Extensions, b.cfg.Library.Excludes, b.log)
		res, err := scanner.Scan(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("scanned %d files: %d imported, %d skipped, %d errors\n",
			res.Scanned, res.Imported, res.Skipped, len(res.Errors))
		for _, e := range res.Errors {
			fmt.Fprintln(os.Stderr, "  "+e.Error())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
}
