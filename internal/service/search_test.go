package service

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dupitydumb/Audion-sub001/internal/database"
	"github.com/dupitydumb/Audion-sub001/internal/database/repository"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "audion.db")
	require.NoError(t, database.RunMigrations(dbPath))
	db, err := database.Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, database.SeedDefaults(context.Background(), db))
	t.Cleanup(func() { db.Close() })
	return db
}

func seedTracks(t *testing.T, tracks *repository.TrackRepo) {
	t.Helper()
	ctx := context.Background()
	rows := []repository.Track{
		{ID: "t1", Path: "/m/1.flac", Title: "Blue in Green", Artist: "Miles Davis", Album: "Kind of Blue"},
		{ID: "t2", Path: "/m/2.flac", Title: "So What", Artist: "Miles Davis", Album: "Kind of Blue"},
		{ID: "t3", Path: "/m/3.mp3", Title: "Giant Steps", Artist: "John Coltrane", Album: "Giant Steps"},
		{ID: "t4", Path: "/m/4.mp3", Title: "Blue Train", Artist: "John Coltrane", Album: "Blue Train"},
	}
	for _, r := range rows {
		require.NoError(t, tracks.Upsert(ctx, r))
	}
}

func TestSearchRanksSubstringMatches(t *testing.T) {
	db := newTestDB(t)
	tracks := repository.NewTrackRepo(db)
	seedTracks(t, tracks)
	svc := &SearchService{Tracks: tracks}

	results, err := svc.Search(context.Background(), "blue", 10)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	got := map[string]bool{}
	for _, r := range results {
		got[r.Track.Title] = true
	}
	assert.True(t, got["Blue in Green"])
	assert.True(t, got["Blue Train"])
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score, "results must be sorted by score")
	}
}

func TestSearchToleratesTypos(t *testing.T) {
	db := newTestDB(t)
	tracks := repository.NewTrackRepo(db)
	seedTracks(t, tracks)
	svc := &SearchService{Tracks: tracks}

	results, err := svc.Search(context.Background(), "mles davis", 10)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "Miles Davis", results[0].Track.Artist)
}

func TestSearchEmptyQuery(t *testing.T) {
	db := newTestDB(t)
	svc := &SearchService{Tracks: repository.NewTrackRepo(db)}
	results, err := svc.Search(context.Background(), "   ", 10)
	require.NoError(t, err)
	assert.Nil(t, results)
}

func TestSearchLimit(t *testing.T) {
	db := newTestDB(t)
	tracks := repository.NewTrackRepo(db)
	seedTracks(t, tracks)
	svc := &SearchService{Tracks: tracks}

	results, err := svc.Search(context.Background(), "blue", 1)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestScoreFieldExactBeatsSubstring(t *testing.T) {
	exact := scoreField("Blue", "blue")
	sub := scoreField("Blue in Green", "blue")
	none := scoreField("Giant Steps", "blue")
	assert.Equal(t, 1.0, exact)
	assert.Greater(t, exact, sub)
	assert.Greater(t, sub, none)
	assert.Less(t, none, minScore)
}
