// Package library scans music directories into the database.
package library

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dupitydumb/Audion-sub001/internal/database/repository"
)

// Result summarizes one scan. Imported counts new tracks, Skipped counts
// paths already present, and Errors collects per-file failures that did
// not abort the walk.
type Result struct {
	Scanned  int
	Imported int
	Skipped  int
	Errors   []error
}

// Scanner walks a music directory and upserts tracks and albums. Track and
// album IDs are derived from path and name, so rescanning never duplicates
// rows.
type Scanner struct {
	tracks   *repository.TrackRepo
	albums   *repository.AlbumRepo
	exts     map[string]bool
	excludes map[string]bool
	log      zerolog.Logger
}

func NewScanner(tracks *repository.TrackRepo, albums *repository.AlbumRepo, extensions, excludes []string, log zerolog.Logger) *Scanner {
	s := &Scanner{
		tracks:   tracks,
		albums:   albums,
		exts:     map[string]bool{},
		excludes: map[string]bool{},
		log:      log,
	}
	for _, ext := range extensions {
		s.exts[strings.ToLower(ext)] = true
	}
	for _, name := range excludes {
		s.excludes[name] = true
	}
	return s
}

// Scan walks root and imports every matching file not yet in the
// database. Files fail independently; a failed upsert is recorded in the
// result and the walk continues.
func (s *Scanner) Scan(ctx context.Context, root string) (Result, error) {
	var res Result
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (s.excludes[name] || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !s.exts[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		res.Scanned++

		existing, err := s.tracks.ByPath(ctx, path)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("%s: %w", path, err))
			return nil
		}
		if existing != nil {
			res.Skipped++
			return nil
		}
		if err := s.importFile(ctx, path); err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("%s: %w", path, err))
			return nil
		}
		res.Imported++
		return nil
	})
	if err != nil {
		return res, fmt.Errorf("scan %s: %w", root, err)
	}
	s.log.Info().
		Str("root", root).
		Int("scanned", res.Scanned).
		Int("imported", res.Imported).
		Int("skipped", res.Skipped).
		Int("errors", len(res.Errors)).
		Msg("library scan finished")
	return res, nil
}

func (s *Scanner) importFile(ctx context.Context, path string) error {
	m, err := readTags(path)
	if err != nil {
		// Untagged or oddly encoded files still play; import them
		// under their file name.
		s.log.Debug().Str("path", path).Err(err).Msg("no readable tags, using file name")
		m = meta{}
	}
	if m.title == "" {
		m.title = fallbackTitle(path)
	}

	track := repository.Track{
		ID:        trackID(path),
		Path:      path,
		Title:     m.title,
		Artist:    m.artist,
		Album:     m.album,
		CoverData: m.picture,
	}
	if m.album != "" {
		albumArtist := m.albumArtist
		if albumArtist == "" {
			albumArtist = m.artist
		}
		album := repository.Album{
			ID:        albumID(albumArtist, m.album),
			Artist:    albumArtist,
			Name:      m.album,
			CoverData: m.picture,
		}
		if err := s.albums.Upsert(ctx, album); err != nil {
			return fmt.Errorf("upsert album: %w", err)
		}
		track.AlbumID = &album.ID
	}
	if err := s.tracks.Upsert(ctx, track); err != nil {
		return fmt.Errorf("upsert track: %w", err)
	}
	return nil
}

type meta struct {
	title       string
	artist      string
	album       string
	albumArtist string
	picture     []byte
}

func readTags(path string) (meta, error) {
	f, err := os.Open(path)
	if err != nil {
		return meta{}, err
	}
	defer f.Close()
	m, err := tag.ReadFrom(f)
	if err != nil {
		return meta{}, err
	}
	out := meta{
		title:       m.Title(),
		artist:      m.Artist(),
		album:       m.Album(),
		albumArtist: m.AlbumArtist(),
	}
	if pic := m.Picture(); pic != nil {
		out.picture = pic.Data
	}
	return out, nil
}

func trackID(path string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("track:"+path)).String()
}

func albumID(artist, name string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("album:"+artist+"\x00"+name)).String()
}

func fallbackTitle(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
