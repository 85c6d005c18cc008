package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dupitydumb/Audion-sub001/internal/covers"
	"github.com/dupitydumb/Audion-sub001/internal/database/repository"
)

func newMaintenance(t *testing.T) (*MaintenanceService, *covers.Store) {
	t.Helper()
	db := newTestDB(t)
	store := covers.NewStore(t.TempDir())
	require.NoError(t, store.Init())
	svc := &MaintenanceService{
		DB:     db,
		Tracks: repository.NewTrackRepo(db),
		Albums: repository.NewAlbumRepo(db),
		Store:  store,
		Log:    zerolog.Nop(),
	}
	return svc, store
}

func TestCleanupOrphans(t *testing.T) {
	ctx := context.Background()
	svc, store := newMaintenance(t)

	kept, err := store.Write([]byte{0xFF, 0xD8, 0xFF, 1})
	require.NoError(t, err)
	orphan, err := store.Write([]byte{0xFF, 0xD8, 0xFF, 2})
	require.NoError(t, err)

	require.NoError(t, svc.Tracks.Upsert(ctx, repository.Track{ID: "t1", Path: "/m/1.mp3", Title: "One"}))
	require.NoError(t, svc.Tracks.SetCoverPath(ctx, "t1", kept))

	removed, err := svc.CleanupOrphans(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	names, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{kept}, names)
	assert.NotContains(t, names, orphan)
}

func TestClearEmbedded(t *testing.T) {
	ctx := context.Background()
	svc, store := newMaintenance(t)

	name, err := store.Write([]byte{0xFF, 0xD8, 0xFF, 3})
	require.NoError(t, err)

	// t1 has both blob and file, t2 only a blob.
	require.NoError(t, svc.Tracks.Upsert(ctx, repository.Track{ID: "t1", Path: "/m/1.mp3", Title: "One", CoverData: []byte{1}}))
	_, err = svc.DB.ExecContext(ctx, `UPDATE tracks SET cover_path = ? WHERE id = 't1'`, name)
	require.NoError(t, err)
	require.NoError(t, svc.Tracks.Upsert(ctx, repository.Track{ID: "t2", Path: "/m/2.mp3", Title: "Two", CoverData: []byte{2}}))

	tracks, albums, err := svc.ClearEmbedded(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), tracks)
	assert.Zero(t, albums)

	blobOnly, err := svc.Tracks.Get(ctx, "t2")
	require.NoError(t, err)
	assert.NotNil(t, blobOnly.CoverData, "rows without a stored file keep their blob")
}

func TestMergeDuplicates(t *testing.T) {
	ctx := context.Background()
	svc, store := newMaintenance(t)

	data := []byte{0xFF, 0xD8, 0xFF, 9, 9, 9}
	canonical := covers.FileName(data)
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), "legacy.jpg"), data, 0o644))

	require.NoError(t, svc.Tracks.Upsert(ctx, repository.Track{ID: "t1", Path: "/m/1.mp3", Title: "One"}))
	require.NoError(t, svc.Tracks.SetCoverPath(ctx, "t1", "legacy.jpg"))

	merged, err := svc.MergeDuplicates(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, merged)

	track, err := svc.Tracks.Get(ctx, "t1")
	require.NoError(t, err)
	require.NotNil(t, track.CoverPath)
	assert.Equal(t, canonical, *track.CoverPath)

	names, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{canonical}, names)
}

func TestResetKeepsSettings(t *testing.T) {
	ctx := context.Background()
	svc, _ := newMaintenance(t)

	require.NoError(t, svc.Tracks.Upsert(ctx, repository.Track{ID: "t1", Path: "/m/1.mp3", Title: "One"}))
	settings := repository.NewSettingsRepo(svc.DB)
	require.NoError(t, settings.Set(ctx, "theme", "latte"))

	require.NoError(t, svc.Reset(ctx))

	n, err := svc.Tracks.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	theme, err := settings.Get(ctx, "theme")
	require.NoError(t, err)
	require.NotNil(t, theme)
	assert.Equal(t, "latte", theme.Value)
}

func TestVacuum(t *testing.T) {
	svc, _ := newMaintenance(t)
	require.NoError(t, svc.Vacuum(context.Background()))
}
