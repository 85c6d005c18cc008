package covers

import (
	"context"
	"fmt"

	"github.com/dupitydumb/Audion-sub001/internal/database/repository"
)

// Report summarizes one migration batch run. Processed counts successful
// items only; every failed item contributes one entry to Errors.
type Report struct {
	Total       int
	Processed   int
	TrackCovers int
	AlbumCovers int
	Errors      []string
}

// TrackSource is the slice of the track repository the migration needs.
type TrackSource interface {
	WithEmbeddedCovers(ctx context.Context) ([]repository.Track, error)
	SetCoverPath(ctx context.Context, id, coverPath string) error
}

// AlbumSource is the slice of the album repository the migration needs.
type AlbumSource interface {
	WithEmbeddedCovers(ctx context.Context) ([]repository.Album, error)
	SetCoverPath(ctx context.Context, id, coverPath string) error
}

// MigrateEmbedded moves embedded cover blobs out of the database into the
// file store, repointing each row at its stored file. Items fail
// independently; a failed item is recorded and skipped, never aborting the
// batch. The returned error covers only categorical failures where no items
// could be enumerated at all.
func MigrateEmbedded(ctx context.Context, tracks TrackSource, albums AlbumSource, store *Store) (Report, error) {
	var rep Report

	if err := store.Init(); err != nil {
		return rep, err
	}
	ts, err := tracks.WithEmbeddedCovers(ctx)
	if err != nil {
		return rep, fmt.Errorf("list track covers: %w", err)
	}
	as, err := albums.WithEmbeddedCovers(ctx)
	if err != nil {
		return rep, fmt.Errorf("list album covers: %w", err)
	}
	rep.Total = len(ts) + len(as)

	for _, t := range ts {
		name, err := store.Write(t.CoverData)
		if err != nil {
			rep.Errors = append(rep.Errors, fmt.Sprintf("track %s: %v", itemName(t.Title, t.ID), err))
			continue
		}
		if err := tracks.SetCoverPath(ctx, t.ID, name); err != nil {
			rep.Errors = append(rep.Errors, fmt.Sprintf("track %s: %v", itemName(t.Title, t.ID), err))
			continue
		}
		rep.Processed++
		rep.TrackCovers++
	}
	for _, a := range as {
		name, err := store.Write(a.CoverData)
		if err != nil {
			rep.Errors = append(rep.Errors, fmt.Sprintf("album %s: %v", itemName(a.Name, a.ID), err))
			continue
		}
		if err := albums.SetCoverPath(ctx, a.ID, name); err != nil {
			rep.Errors = append(rep.Errors, fmt.Sprintf("album %s: %v", itemName(a.Name, a.ID), err))
			continue
		}
		rep.Processed++
		rep.AlbumCovers++
	}
	return rep, nil
}

func itemName(title, id string) string {
	if title != "" {
		return title
	}
	return id
}
