package repository

import "time"

// Track represents a track row.
type Track struct {
	ID         string
	Path       string
	Title      string
	Artist     string
	Album      string
	AlbumID    *string
	DurationMS int64
	CoverData  []byte
	CoverPath  *string
	LikedAt    *time.Time
	AddedAt    time.Time
	UpdatedAt  time.Time
}

// Album represents an album row.
type Album struct {
	ID        string
	Artist    string
	Name      string
	CoverData []byte
	CoverPath *string
	CreatedAt time.Time
}

// Playlist represents a playlist row.
type Playlist struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// PlaylistEntry is a track with its position inside a playlist.
type PlaylistEntry struct {
	Track    Track
	Position int
}

// Setting represents a settings row.
type Setting struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}
