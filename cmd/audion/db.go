package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Database maintenance",
}

var dbVacuumCmd = &cobra.Command{
	Use:   "vacuum",
	Short: "Compact the database file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		b, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer b.close()

		if err := b.maintenance().Vacuum(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("database compacted")
		return nil
	},
}

var dbResetForce bool

var dbResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all library data, keeping settings",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if !dbResetForce {
			return errors.New("refusing to delete library data without --force")
		}
		b, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer b.close()

		if err := b.maintenance().Reset(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("library data deleted")
		return nil
	},
}

func init() {
	dbResetCmd.Flags().BoolVar(&dbResetForce, "force", false, "actually delete the data")
	dbCmd.AddCommand(dbVacuumCmd, dbResetCmd)
	rootCmd.AddCommand(dbCmd)
}
