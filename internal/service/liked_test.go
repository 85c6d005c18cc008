package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dupitydumb/Audion-sub001/internal/database"
	"github.com/dupitydumb/Audion-sub001/internal/database/repository"
)

func TestLikedToggleSyncsFavorites(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	tracks := repository.NewTrackRepo(db)
	playlists := repository.NewPlaylistRepo(db)
	require.NoError(t, tracks.Upsert(ctx, repository.Track{ID: "t1", Path: "/m/1.mp3", Title: "One"}))

	svc := &LikedService{Tracks: tracks, Playlists: playlists}

	liked, err := svc.Toggle(ctx, "t1")
	require.NoError(t, err)
	assert.True(t, liked)

	entries, err := playlists.Entries(ctx, database.FavoritesPlaylistID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "t1", entries[0].Track.ID)

	got, err := svc.Liked(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)

	liked, err = svc.Toggle(ctx, "t1")
	require.NoError(t, err)
	assert.False(t, liked)

	entries, err = playlists.Entries(ctx, database.FavoritesPlaylistID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLikedToggleMissingTrack(t *testing.T) {
	db := newTestDB(t)
	svc := &LikedService{
		Tracks:    repository.NewTrackRepo(db),
		Playlists: repository.NewPlaylistRepo(db),
	}
	_, err := svc.Toggle(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
