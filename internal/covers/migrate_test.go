package covers

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dupitydumb/Audion-sub001/internal/database/repository"
)

type fakeTracks struct {
	items   []repository.Track
	listErr error
	setErr  map[string]error
	set     map[string]string
}

func (f *fakeTracks) WithEmbeddedCovers(context.Context) ([]repository.Track, error) {
	return f.items, f.listErr
}

func (f *fakeTracks) SetCoverPath(_ context.Context, id, coverPath string) error {
	if err := f.setErr[id]; err != nil {
		return err
	}
	if f.set == nil {
		f.set = map[string]string{}
	}
	f.set[id] = coverPath
	return nil
}

type fakeAlbums struct {
	items []repository.Album
	set   map[string]string
}

func (f *fakeAlbums) WithEmbeddedCovers(context.Context) ([]repository.Album, error) {
	return f.items, nil
}

func (f *fakeAlbums) SetCoverPath(_ context.Context, id, coverPath string) error {
	if f.set == nil {
		f.set = map[string]string{}
	}
	f.set[id] = coverPath
	return nil
}

func TestMigrateEmbedded(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewStore(t.TempDir())

	tracks := &fakeTracks{items: []repository.Track{
		{ID: "t1", Title: "Blue in Green", CoverData: jpegBytes},
		{ID: "t2", Title: "So What", CoverData: nil},
	}}
	albums := &fakeAlbums{items: []repository.Album{
		{ID: "a1", Name: "Kind of Blue", CoverData: []byte{0x89, 'P', 'N', 'G', 1, 2}},
	}}

	rep, err := MigrateEmbedded(ctx, tracks, albums, store)
	require.NoError(t, err)
	assert.Equal(t, 3, rep.Total)
	assert.Equal(t, 2, rep.Processed)
	assert.Equal(t, 1, rep.TrackCovers)
	assert.Equal(t, 1, rep.AlbumCovers)
	require.Len(t, rep.Errors, 1)
	assert.Contains(t, rep.Errors[0], "So What")

	wantTrack := FileName(jpegBytes)
	assert.Equal(t, wantTrack, tracks.set["t1"])
	_, err = os.Stat(store.Path(wantTrack))
	assert.NoError(t, err, "cover file must exist on disk")

	wantAlbum := FileName(albums.items[0].CoverData)
	assert.Equal(t, wantAlbum, albums.set["a1"])
}

func TestMigrateEmbeddedRepointFailure(t *testing.T) {
	t.Parallel()
	store := NewStore(t.TempDir())
	tracks := &fakeTracks{
		items:  []repository.Track{{ID: "t1", Title: "Freddie Freeloader", CoverData: jpegBytes}},
		setErr: map[string]error{"t1": errors.New("database is locked")},
	}
	rep, err := MigrateEmbedded(context.Background(), tracks, &fakeAlbums{}, store)
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Total)
	assert.Zero(t, rep.Processed)
	require.Len(t, rep.Errors, 1)
	assert.Contains(t, rep.Errors[0], "Freddie Freeloader")
}

func TestMigrateEmbeddedListFailure(t *testing.T) {
	t.Parallel()
	store := NewStore(t.TempDir())
	tracks := &fakeTracks{listErr: errors.New("no such table: tracks")}
	_, err := MigrateEmbedded(context.Background(), tracks, &fakeAlbums{}, store)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list track covers")
}
