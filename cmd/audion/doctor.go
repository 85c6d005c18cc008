package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dupitydumb/Audion-sub001/internal/config"
	"github.com/dupitydumb/Audion-sub001/internal/logging"
	"github.com/dupitydumb/Audion-sub001/internal/platform"
	"github.com/dupitydumb/Audion-sub001/internal/player"
)

var doctorOpenSettings bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check host integration and the playback backend",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		log := logging.Console(cfg.Logging.Level)

		info := platform.Detect()
		fmt.Printf("host: %s/%s", info.OS, info.Arch)
		if info.Mobile {
			fmt.Print(" mobile")
		}
		if info.Embedded {
			fmt.Print(" embedded")
		}
		fmt.Println()

		mpd := player.New(cfg.MPD.Address, cfg.MPD.Password, log)
		defer mpd.Close()
		if err := mpd.Check(); err != nil {
			fmt.Printf("mpd %s: unreachable: %v\n", cfg.MPD.Address, err)
		} else {
			fmt.Printf("mpd %s: ok\n", cfg.MPD.Address)
		}

		tool := resolveTool(cfg, info)
		gate := platform.NewGate(
			platform.CommandRequester{Tool: tool},
			platform.ExecOpener{Command: cfg.Notifications.SettingsCommand},
			log,
		)
		state := gate.CheckAndRequest(ctx)
		if tool != "" {
			fmt.Printf("notifications: %s (tool %s)\n", state, tool)
		} else {
			fmt.Printf("notifications: %s (no tool found)\n", state)
		}

		if state == platform.StateDenied && doctorOpenSettings {
			fmt.Println("opening host settings...")
			state = gate.OpenSettingsAndRecheck(ctx)
			fmt.Printf("notifications after recheck: %s\n", state)
		}
		return nil
	},
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorOpenSettings, "open-settings", false,
		"open host settings and recheck when denied")
	rootCmd.AddCommand(doctorCmd)
}
