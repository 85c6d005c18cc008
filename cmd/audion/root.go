package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dupitydumb/Audion-sub001/internal/config"
	"github.com/dupitydumb/Audion-sub001/internal/covers"
	"github.com/dupitydumb/Audion-sub001/internal/database"
	"github.com/dupitydumb/Audion-sub001/internal/database/repository"
	"github.com/dupitydumb/Audion-sub001/internal/lifecycle"
	"github.com/dupitydumb/Audion-sub001/internal/logging"
	"github.com/dupitydumb/Audion-sub001/internal/platform"
	"github.com/dupitydumb/Audion-sub001/internal/player"
	"github.com/dupitydumb/Audion-sub001/internal/service"
	"github.com/dupitydumb/Audion-sub001/internal/tui"
)

var rootCmd = &cobra.Command{
	Use:          "audion",
	Short:        "Terminal music player backed by MPD",
	SilenceUsage: true,
	RunE:         runTUI,
}

// boot is the shared bootstrap product every command builds on.
type boot struct {
	cfg      config.Config
	log      zerolog.Logger
	db       *sql.DB
	store    *covers.Store
	repos    tui.Repos
	closeLog func()
}

func bootstrap(ctx context.Context) (*boot, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.Data.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir data dir: %w", err)
	}

	log, closeLog, err := logging.Setup(cfg.LogsDir(), cfg.Logging.Level, cfg.Logging.RetainDays)
	if err != nil {
		log = logging.Console(cfg.Logging.Level)
		closeLog = func() {}
		log.Warn().Err(err).Msg("file logging unavailable")
	}

	if err := database.RunMigrations(cfg.DatabasePath()); err != nil {
		closeLog()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Open(cfg.DatabasePath())
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := database.SeedDefaults(ctx, db); err != nil {
		db.Close()
		closeLog()
		return nil, fmt.Errorf("seed defaults: %w", err)
	}

	return &boot{
		cfg:   cfg,
		log:   log,
		db:    db,
		store: covers.NewStore(cfg.CoversDir()),
		repos: tui.Repos{
			Tracks:    repository.NewTrackRepo(db),
			Albums:    repository.NewAlbumRepo(db),
			Playlists: repository.NewPlaylistRepo(db),
			Settings:  repository.NewSettingsRepo(db),
		},
		closeLog: closeLog,
	}, nil
}

func (b *boot) close() {
	b.db.Close()
	b.closeLog()
}

func (b *boot) migrator() *covers.Migrator {
	log := b.log.With().Str("component", "covers").Logger()
	return covers.NewMigrator(b.repos.Settings, func(ctx context.Context) (covers.Report, error) {
		return covers.MigrateEmbedded(ctx, b.repos.Tracks, b.repos.Albums, b.store)
	}, log)
}

func (b *boot) maintenance() *service.MaintenanceService {
	return &service.MaintenanceService{
		DB:     b.db,
		Tracks: b.repos.Tracks,
		Albums: b.repos.Albums,
		Store:  b.store,
		Log:    b.log,
	}
}

// resolveTool picks the host notification tool: explicit config first,
// then the platform default.
func resolveTool(cfg config.Config, info platform.Info) string {
	if cfg.Notifications.Tool != "" {
		return cfg.Notifications.Tool
	}
	return platform.DefaultTool(info)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	b, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer b.close()
	defer logging.CapturePanic(b.log)

	info := platform.Detect()
	tool := resolveTool(b.cfg, info)
	gate := platform.NewGate(
		platform.CommandRequester{Tool: tool},
		platform.ExecOpener{Command: b.cfg.Notifications.SettingsCommand},
		b.log,
	)
	notifier := platform.NewSwitchNotifier(platform.NoopNotifier{})
	hostManaged := info.Mobile && info.Embedded
	if !hostManaged && tool != "" {
		// No permission phase runs on this host, promote right away.
		notifier.Set(platform.ExecNotifier{Tool: tool})
	}

	mpd := player.New(b.cfg.MPD.Address, b.cfg.MPD.Password,
		b.log.With().Str("component", "player").Logger())
	migrator := b.migrator()

	services := tui.Services{
		Player:   mpd,
		Search:   &service.SearchService{Tracks: b.repos.Tracks},
		Liked:    &service.LikedService{Tracks: b.repos.Tracks, Playlists: b.repos.Playlists},
		Migrator: migrator,
		Notifier: notifier,
	}

	seq := &lifecycle.Sequencer{Log: b.log}
	app := tui.New(ctx, b.cfg, b.log, b.repos, services, seq)

	seq.Platform = func(context.Context) (platform.Info, error) { return info, nil }
	seq.Stores = func(ctx context.Context) (func(), error) {
		if err := database.IntegrityCheck(ctx, b.db); err != nil {
			return nil, err
		}
		if err := b.store.Init(); err != nil {
			return nil, err
		}
		detach := app.AttachVisibility(func(visible bool) {
			b.log.Debug().Bool("visible", visible).Msg("visibility changed")
		})
		return detach, nil
	}
	seq.Audio = func(context.Context) error { return mpd.Check() }
	seq.Preload = func(ctx context.Context) error {
		total, err := b.repos.Tracks.Count(ctx)
		if err != nil {
			return err
		}
		liked, err := b.repos.Tracks.LikedIDs(ctx)
		if err != nil {
			return err
		}
		b.log.Info().Int("tracks", total).Int("liked", len(liked)).Msg("library warmed")
		return nil
	}
	seq.BackHandler = func(context.Context) (func(), error) {
		return app.AttachBackHandler(), nil
	}
	seq.Permission = func(ctx context.Context) error {
		gate.CheckAndRequest(ctx)
		return nil
	}
	seq.Notification = func(context.Context) error {
		if !b.cfg.Notifications.Enabled {
			b.log.Info().Msg("notifications disabled by config")
			return nil
		}
		if gate.State() != platform.StateGranted {
			b.log.Info().Msg("notifications unavailable on this host")
			return nil
		}
		if tool != "" {
			notifier.Set(platform.ExecNotifier{Tool: tool})
		}
		return nil
	}
	seq.Migration = func(ctx context.Context) error {
		out := migrator.RunIfNeeded(ctx)
		if out.Status == covers.StatusFailed {
			return errors.New(out.Message)
		}
		return nil
	}
	seq.ClosePlayer = mpd.Close

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithReportFocus())
	_, runErr := p.Run()
	seq.Teardown()
	return runErr
}
