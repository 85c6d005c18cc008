package repository

import (
	"context"
	"database/sql"
)

// PlaylistRepo handles playlists and their ordered membership.
type PlaylistRepo struct {
	db *sql.DB
}

func NewPlaylistRepo(db *sql.DB) *PlaylistRepo { return &PlaylistRepo{db: db} }

func (r *PlaylistRepo) Upsert(ctx context.Context, p Playlist) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO playlists(id, name, created_at) VALUES (?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(id) DO UPDATE SET name=excluded.name;
	`, p.ID, p.Name)
	return err
}

func (r *PlaylistRepo) ByName(ctx context.Context, name string) (*Playlist, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, created_at FROM playlists WHERE name = ?`, name)
	var p Playlist
	if err := row.Scan(&p.ID, &p.Name, &p.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PlaylistRepo) List(ctx context.Context) ([]Playlist, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, created_at FROM playlists ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Playlist
	for rows.Next() {
		var p Playlist
		if err := rows.Scan(&p.ID, &p.Name, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PlaylistRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM playlists WHERE id = ?`, id)
	return err
}

// AddTrack appends a track at the end of the playlist.
func (r *PlaylistRepo) AddTrack(ctx context.Context, playlistID, trackID string) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT OR IGNORE INTO playlist_tracks(playlist_id, track_id, position)
	VALUES (?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM playlist_tracks WHERE playlist_id = ?));
	`, playlistID, trackID, playlistID)
	return err
}

func (r *PlaylistRepo) RemoveTrack(ctx context.Context, playlistID, trackID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM playlist_tracks WHERE playlist_id = ? AND track_id = ?`, playlistID, trackID)
	return err
}

// Entries returns the playlist's tracks in position order.
func (r *PlaylistRepo) Entries(ctx context.Context, playlistID string) ([]PlaylistEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT t.id, t.path, t.title, t.artist, t.album, t.album_id, t.duration_ms,
	 t.cover_data, t.cover_path, t.liked_at, t.added_at, t.updated_at, pt.position
	FROM playlist_tracks pt
	JOIN tracks t ON t.id = pt.track_id
	WHERE pt.playlist_id = ?
	ORDER BY pt.position;
	`, playlistID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PlaylistEntry
	for rows.Next() {
		var e PlaylistEntry
		t := &e.Track
		if err := rows.Scan(&t.ID, &t.Path, &t.Title, &t.Artist, &t.Album, &t.AlbumID,
			&t.DurationMS, &t.CoverData, &t.CoverPath, &t.LikedAt, &t.AddedAt, &t.UpdatedAt,
			&e.Position); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
