package tui

// viewID names one of the primary surfaces reachable from the tab row.
type viewID string

const (
	viewLibrary   viewID = "library"
	viewPlaylists viewID = "playlists"
	viewPlaylist  viewID = "playlist"
	viewLiked     viewID = "liked"
)

// viewHistory is the navigation stack consulted after every overlay has
// had its chance to claim a back signal. The root view is always kept,
// so the stack never empties.
type viewHistory struct {
	stack []viewID
}

func newViewHistory(root viewID) *viewHistory {
	return &viewHistory{stack: []viewID{root}}
}

func (h *viewHistory) current() viewID {
	return h.stack[len(h.stack)-1]
}

// push enters a view. Re-entering the current view is a no-op so that
// hammering a tab key does not pile up history.
func (h *viewHistory) push(v viewID) {
	if h.current() == v {
		return
	}
	h.stack = append(h.stack, v)
}

func (h *viewHistory) CanGoBack() bool {
	return len(h.stack) > 1
}

func (h *viewHistory) GoBack() {
	if len(h.stack) > 1 {
		h.stack = h.stack[:len(h.stack)-1]
	}
}
