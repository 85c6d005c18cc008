package tui

import (
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/dupitydumb/Audion-sub001/internal/database/repository"
	"github.com/dupitydumb/Audion-sub001/internal/service"
)

// Context menu actions. The remove entry only appears when the menu was
// opened from inside a playlist.
const (
	menuPlay       = "Play now"
	menuQueue      = "Add to queue"
	menuToggleLike = "Like / unlike"
	menuRemove     = "Remove from playlist"
)

// contextMenu is the highest-priority overlay, built for one track.
type contextMenu struct {
	track      repository.Track
	playlistID string
	items      []string
	cursor     int
}

func newContextMenu(t repository.Track, playlistID string) *contextMenu {
	items := []string{menuPlay, menuQueue, menuToggleLike}
	if playlistID != "" {
		items = append(items, menuRemove)
	}
	return &contextMenu{track: t, playlistID: playlistID, items: items}
}

func (m *contextMenu) move(delta int) {
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(m.items) {
		m.cursor = len(m.items) - 1
	}
}

func (m *contextMenu) selected() string {
	return m.items[m.cursor]
}

// searchOverlay wraps the fuzzy search prompt and its live result list.
type searchOverlay struct {
	input   textinput.Model
	results []service.SearchResult
	cursor  int
}

func newSearchOverlay() *searchOverlay {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "title, artist or album"
	ti.CharLimit = 64
	ti.Focus()
	return &searchOverlay{input: ti}
}

func (s *searchOverlay) move(delta int) {
	s.cursor += delta
	if s.cursor < 0 {
		s.cursor = 0
	}
	if s.cursor >= len(s.results) {
		s.cursor = len(s.results) - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

func (s *searchOverlay) selected() (repository.Track, bool) {
	if s.cursor < 0 || s.cursor >= len(s.results) {
		return repository.Track{}, false
	}
	return s.results[s.cursor].Track, true
}
