package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var coversCmd = &cobra.Command{
	Use:   "covers",
	Short: "Manage file-backed cover art storage",
}

var coversCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete cover files no track or album references",
	RunE: func(cmd *cobra.Command, _ []string) error {
		b, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer b.close()

		n, err := b.maintenance().CleanupOrphans(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("removed %d orphaned cover file(s)\n", n)
		return nil
	},
}

var coversClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop embedded blobs from rows that already have file-backed art",
	RunE: func(cmd *cobra.Command, _ []string) error {
		b, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer b.close()

		tracks, albums, err := b.maintenance().ClearEmbedded(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("cleared embedded art from %d track(s) and %d album(s)\n", tracks, albums)
		return nil
	},
}

var coversMergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Fold duplicate cover files into their content-addressed name",
	RunE: func(cmd *cobra.Command, _ []string) error {
		b, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer b.close()

		n, err := b.maintenance().MergeDuplicates(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("merged %d duplicate cover file(s)\n", n)
		return nil
	},
}

func init() {
	coversCmd.AddCommand(coversCleanupCmd, coversClearCmd, coversMergeCmd)
	rootCmd.AddCommand(coversCmd)
}
