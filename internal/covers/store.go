// Package covers owns file-backed cover-art storage and the one-time
// migration of embedded cover blobs into it.
package covers

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Store is file-backed cover storage. Files are content-addressed: the
// sha256 of the image bytes names the file, so identical covers share one
// file on disk.
type Store struct {
	dir string
}

func NewStore(dir string) *Store { return &Store{dir: dir} }

// Init creates the storage directory.
func (s *Store) Init() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("mkdir covers dir: %w", err)
	}
	return nil
}

func (s *Store) Dir() string { return s.dir }

// Path returns the absolute location of a stored cover file.
func (s *Store) Path(name string) string { return filepath.Join(s.dir, name) }

// ErrEmptyCover is returned for zero-length image data.
var ErrEmptyCover = errors.New("empty cover data")

// Write stores image bytes and returns the content-addressed file name.
// Writing the same bytes twice is a no-op returning the same name.
func (s *Store) Write(data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyCover
	}
	name := FileName(data)
	path := s.Path(name)
	if _, err := os.Stat(path); err == nil {
		return name, nil
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write cover: %w", err)
	}
	return name, nil
}

// Read returns the stored image bytes.
func (s *Store) Read(name string) ([]byte, error) {
	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		return nil, fmt.Errorf("read cover: %w", err)
	}
	return data, nil
}

// Remove deletes a stored cover file. Missing files are not an error.
func (s *Store) Remove(name string) error {
	err := os.Remove(s.Path(name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove cover: %w", err)
	}
	return nil
}

// List returns the names of all stored cover files, sorted.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list covers: %w", err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		out = append(out, e.Name())
	}
	sort.Strings(out)
	return out, nil
}

// FileName derives the content-addressed name for image bytes.
func FileName(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]) + sniffExt(data)
}

var (
	jpegMagic = []byte{0xFF, 0xD8, 0xFF}
	pngMagic  = []byte{0x89, 'P', 'N', 'G'}
	gifMagic  = []byte("GIF8")
	riffMagic = []byte("RIFF")
)

func sniffExt(data []byte) string {
	switch {
	case bytes.HasPrefix(data, jpegMagic):
		return ".jpg"
	case bytes.HasPrefix(data, pngMagic):
		return ".png"
	case bytes.HasPrefix(data, gifMagic):
		return ".gif"
	case bytes.HasPrefix(data, riffMagic) && len(data) >= 12 && bytes.Equal(data[8:12], []byte("WEBP")):
		return ".webp"
	default:
		return ".img"
	}
}
