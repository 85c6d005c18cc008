package repository

import (
	"context"
	"database/sql"
)

// AlbumRepo handles albums.
type AlbumRepo struct {
	db *sql.DB
}

func NewAlbumRepo(db *sql.DB) *AlbumRepo { return &AlbumRepo{db: db} }

func (r *AlbumRepo) Upsert(ctx context.Context, a Album) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO albums(id, artist, name, cover_data, cover_path, created_at)
	VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(id) DO UPDATE SET
	 artist=excluded.artist,
	 name=excluded.name,
	 cover_data=COALESCE(excluded.cover_data, albums.cover_data);
	`, a.ID, a.Artist, a.Name, a.CoverData, a.CoverPath)
	return err
}

func (r *AlbumRepo) Get(ctx context.Context, id string) (*Album, error) {
	row := r.db.QueryRowContext(ctx, selectAlbums+` WHERE id = ?`, id)
	a, err := scanAlbum(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *AlbumRepo) List(ctx context.Context) ([]Album, error) {
	rows, err := r.db.QueryContext(ctx, selectAlbums+` ORDER BY artist, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Album
	for rows.Next() {
		a, err := scanAlbum(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// WithEmbeddedCovers returns albums still carrying an embedded cover blob.
func (r *AlbumRepo) WithEmbeddedCovers(ctx context.Context) ([]Album, error) {
	rows, err := r.db.QueryContext(ctx, selectAlbums+` WHERE cover_data IS NOT NULL ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Album
	for rows.Next() {
		a, err := scanAlbum(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// SetCoverPath points the row at file-backed art and drops the embedded blob.
func (r *AlbumRepo) SetCoverPath(ctx context.Context, id, coverPath string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE albums SET cover_path = ?, cover_data = NULL WHERE id = ?`, coverPath, id)
	return err
}

// ClearEmbedded drops embedded blobs from rows that already have file-backed art.
func (r *AlbumRepo) ClearEmbedded(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE albums SET cover_data = NULL WHERE cover_data IS NOT NULL AND cover_path IS NOT NULL`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CoverPaths returns every referenced cover file name.
func (r *AlbumRepo) CoverPaths(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT cover_path FROM albums WHERE cover_path IS NOT NULL`)
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
func (r *AlbumRepo) RepointCover(ctx context.Context, from, to string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE albums SET cover_path = ? WHERE cover_path = ?`, to, from)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const selectAlbums = `SELECT id, artist, name, cover_data, cover_path, created_at FROM albums`

func scanAlbum(row rowScanner) (Album, error) {
	var a Album
	err := row.Scan(&a.ID, &a.Artist, &a.Name, &a.CoverData, &a.CoverPath, &a.CreatedAt)
	return a, err
}
