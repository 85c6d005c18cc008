package service

import (
	"context"
	"fmt"

	"github.com/dupitydumb/Audion-sub001/internal/database"
	"github.com/dupitydumb/Audion-sub001/internal/database/repository"
)

// LikedService keeps the Favorites playlist in step with per-track likes.
type LikedService struct {
	Tracks    *repository.TrackRepo
	Playlists *repository.PlaylistRepo
}

// Toggle flips a track's liked state and returns the new state.
func (s *LikedService) Toggle(ctx context.Context, trackID string) (bool, error) {
	t, err := s.Tracks.Get(ctx, trackID)
	if err != nil {
		return false, err
	}
	if t == nil {
		return false, fmt.Errorf("track %s not found", trackID)
	}
	liked := t.LikedAt == nil
	if err := s.Tracks.SetLiked(ctx, trackID, liked); err != nil {
		return false, err
	}
	if liked {
		err = s.Playlists.AddTrack(ctx, database.FavoritesPlaylistID, trackID)
	} else {
		err = s.Playlists.RemoveTrack(ctx, database.FavoritesPlaylistID, trackID)
	}
	if err != nil {
		return liked, err
	}
	return liked, nil
}

// Liked returns all liked tracks in library order.
func (s *LikedService) Liked(ctx context.Context) ([]repository.Track, error) {
	return s.Tracks.List(ctx, repository.TrackFilters{Liked: true})
}
