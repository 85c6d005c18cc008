package repository

import (
	"context"
	"database/sql"
	"strings"
)

// TrackFilters defines list filters.
type TrackFilters struct {
	Search  string
	AlbumID string
	Liked   bool
}

// TrackRepo handles tracks.
type TrackRepo struct {
	db *sql.DB
}

func NewTrackRepo(db *sql.DB) *TrackRepo { return &TrackRepo{db: db} }

func (r *TrackRepo) Upsert(ctx context.Context, t Track) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO tracks(
	 id, path, title, artist, album, album_id, duration_ms, cover_data, cover_path,
	 added_at, updated_at)
	VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	ON CONFLICT(id) DO UPDATE SET
	 path=excluded.path,
	 title=excluded.title,
	 artist=excluded.artist,
	 album=excluded.album,
	 album_id=excluded.album_id,
	 duration_ms=excluded.duration_ms,
	 cover_data=COALESCE(excluded.cover_data, tracks.cover_data),
	 updated_at=CURRENT_TIMESTAMP;
	`, t.ID, t.Path, t.Title, t.Artist, t.Album, t.AlbumID, t.DurationMS, t.CoverData, t.CoverPath)
	return err
}

func (r *TrackRepo) Get(ctx context.Context, id string) (*Track, error) {
	row := r.db.QueryRowContext(ctx, selectTracks+` WHERE id = ?`, id)
	t, err := scanTrack(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *TrackRepo) ByPath(ctx context.Context, path string) (*Track, error) {
	row := r.db.QueryRowContext(ctx, selectTracks+` WHERE path = ?`, path)
	t, err := scanTrack(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *TrackRepo) List(ctx context.Context, f TrackFilters) ([]Track, error) {
	var where []string
	var args []interface{}

	if f.Search != "" {
		where = append(where, "(title LIKE ? OR artist LIKE ? OR album LIKE ?)")
		pattern := "%" + f.Search + "%"
		args = append(args, pattern, pattern, pattern)
	}
	if f.AlbumID != "" {
		where = append(where, "album_id = ?")
		args = append(args, f.AlbumID)
	}
	if f.Liked {
		where = append(where, "liked_at IS NOT NULL")
	}

	query := selectTracks
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY artist, album, title"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Track
	for rows.Next() {
		t, err := scanTrack(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// WithEmbeddedCovers returns tracks still carrying an embedded cover blob.
func (r *TrackRepo) WithEmbeddedCovers(ctx context.Context) ([]Track, error) {
	rows, err := r.db.QueryContext(ctx, selectTracks+` WHERE cover_data IS NOT NULL ORDER BY added_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Track
	for rows.Next() {
		t, err := scanTrack(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// SetCoverPath points the row at file-backed art and drops the embedded blob.
func (r *TrackRepo) SetCoverPath(ctx context.Context, id, coverPath string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE tracks SET cover_path = ?, cover_data = NULL, updated_at=CURRENT_TIMESTAMP WHERE id = ?`, coverPath, id)
	return err
}

// ClearEmbedded drops embedded blobs from rows that already have file-backed art.
func (r *TrackRepo) ClearEmbedded(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE tracks SET cover_data = NULL, updated_at=CURRENT_TIMESTAMP WHERE cover_data IS NOT NULL AND cover_path IS NOT NULL`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CoverPaths returns every referenced cover file name.
func (r *TrackRepo) CoverPaths(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT cover_path FROM tracks WHERE cover_path IS NOT NULL`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// RepointCover rewrites rows referencing one cover file to another.
func (r *TrackRepo) RepointCover(ctx context.Context, from, to string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE tracks SET cover_path = ?, updated_at=CURRENT_TIMESTAMP WHERE cover_path = ?`, to, from)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *TrackRepo) SetLiked(ctx context.Context, id string, liked bool) error {
	if liked {
		_, err := r.db.ExecContext(ctx, `UPDATE tracks SET liked_at = CURRENT_TIMESTAMP, updated_at=CURRENT_TIMESTAMP WHERE id = ?`, id)
		return err
	}
	_, err := r.db.ExecContext(ctx, `UPDATE tracks SET liked_at = NULL, updated_at=CURRENT_TIMESTAMP WHERE id = ?`, id)
	return err
}

// LikedIDs returns ids of liked tracks, most recently liked first.
func (r *TrackRepo) LikedIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM tracks WHERE liked_at IS NOT NULL ORDER BY liked_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (r *TrackRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tracks`).Scan(&n)
	return n, err
}

const selectTracks = `SELECT id, path, title, artist, album, album_id, duration_ms, cover_data, cover_path, liked_at, added_at, updated_at FROM tracks`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTrack(row rowScanner) (Track, error) {
	var t Track
	err := row.Scan(&t.ID, &t.Path, &t.Title, &t.Artist, &t.Album, &t.AlbumID,
		&t.DurationMS, &t.CoverData, &t.CoverPath, &t.LikedAt, &t.AddedAt, &t.UpdatedAt)
	return t, err
}
