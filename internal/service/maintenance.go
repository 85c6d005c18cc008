package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/dupitydumb/Audion-sub001/internal/covers"
	"github.com/dupitydumb/Audion-sub001/internal/database"
	"github.com/dupitydumb/Audion-sub001/internal/database/repository"
)

// MaintenanceService houses destructive/ops actions surfaced through the CLI.
type MaintenanceService struct {
	DB     *sql.DB
	Tracks *repository.TrackRepo
	Albums *repository.AlbumRepo
	Store  *covers.Store
	Log    zerolog.Logger
}

// CleanupOrphans removes stored cover files no track or album references.
func (s *MaintenanceService) CleanupOrphans(ctx context.Context) (int, error) {
	names, err := s.Store.List()
	if err != nil {
		return 0, err
	}
	referenced := map[string]bool{}
	for _, repo := range []interface {
		CoverPaths(context.Context) ([]string, error)
	}{s.Tracks, s.Albums} {
		paths, err := repo.CoverPaths(ctx)
		if err != nil {
			return 0, err
		}
		for _, p := range paths {
			referenced[p] = true
		}
	}
	removed := 0
	for _, name := range names {
		if referenced[name] {
			continue
		}
		if err := s.Store.Remove(name); err != nil {
			return removed, err
		}
		s.Log.Debug().Str("file", name).Msg("removed orphaned cover")
		removed++
	}
	return removed, nil
}

// ClearEmbedded drops leftover blob copies for rows that already point at
// a stored file. Rows without a stored file keep their blob.
func (s *MaintenanceService) ClearEmbedded(ctx context.Context) (tracks, albums int64, err error) {
	tracks, err = s.Tracks.ClearEmbedded(ctx)
	if err != nil {
		return 0, 0, err
	}
	albums, err = s.Albums.ClearEmbedded(ctx)
	if err != nil {
		return tracks, 0, err
	}
	return tracks, albums, nil
}

// MergeDuplicates collapses stored cover files with identical content onto
// one content-addressed file and repoints all rows at it. Duplicates only
// arise from files placed in the covers directory by hand or by older
// versions.
func (s *MaintenanceService) MergeDuplicates(ctx context.Context) (int, error) {
	names, err := s.Store.List()
	if err != nil {
		return 0, err
	}
	merged := 0
	for _, name := range names {
		data, err := s.Store.Read(name)
		if err != nil || len(data) == 0 {
			continue
		}
		canonical := covers.FileName(data)
		if name == canonical {
			continue
		}
		if _, err := s.Store.Write(data); err != nil {
			return merged, err
		}
		if _, err := s.Tracks.RepointCover(ctx, name, canonical); err != nil {
			return merged, err
		}
		if _, err := s.Albums.RepointCover(ctx, name, canonical); err != nil {
			return merged, err
		}
		if err := s.Store.Remove(name); err != nil {
			return merged, err
		}
		s.Log.Debug().Str("from", name).Str("to", canonical).Msg("merged duplicate cover")
		merged++
	}
	return merged, nil
}

// Vacuum compacts the database file.
func (s *MaintenanceService) Vacuum(ctx context.Context) error {
	if s.DB == nil {
		return fmt.Errorf("maintenance: db not configured")
	}
	_, err := s.DB.ExecContext(ctx, "VACUUM")
	return err
}

// Reset wipes the library while keeping schema and user settings intact.
func (s *MaintenanceService) Reset(ctx context.Context) error {
	if s.DB == nil {
		return fmt.Errorf("maintenance: db not configured")
	}
	if err := database.WithTx(s.DB, func(tx *sql.Tx) error {
		tables := []string{
			"playlist_tracks",
			"playlists",
			"tracks",
			"albums",
		}
		for _, t := range tables {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+t); err != nil {
				return fmt.Errorf("reset table %s: %w", t, err)
			}
		}
		return nil
	}); err != nil {
		return err
	}
	_, _ = s.DB.ExecContext(ctx, "VACUUM")
	return nil
}
