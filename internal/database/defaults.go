package database

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/dupitydumb/Audion-sub001/internal/database/repository"
)

// FavoritesPlaylistID is the deterministic id of the built-in playlist.
var FavoritesPlaylistID = uuid.NewSHA1(uuid.NameSpaceOID, []byte("playlist:Favorites")).String()

// SeedDefaults ensures baseline settings and the built-in playlist exist for
// new databases. It is idempotent and safe to run on every startup.
func SeedDefaults(ctx context.Context, db *sql.DB) error {
	settings := repository.NewSettingsRepo(db)
	defaults := map[string]string{
		"theme":        "mocha",
		"volume":       "100",
		"repeat_mode":  "off",
		"shuffle_mode": "off",
	}
	for key, value := range defaults {
		existing, err := settings.Get(ctx, key)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		if err := settings.Set(ctx, key, value); err != nil {
			return err
		}
	}

	playlists := repository.NewPlaylistRepo(db)
	return playlists.Upsert(ctx, repository.Playlist{
		ID:   FavoritesPlaylistID,
		Name: "Favorites",
	})
}
