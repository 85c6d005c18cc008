package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is stamped by the release build via -ldflags.
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the audion version",
	Run: func(*cobra.Command, []string) {
		fmt.Println("audion " + version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
