package nav

import (
	"testing"

	"github.com/rs/zerolog"
)

type fakeSource struct {
	active    bool
	dismissed int
}

func (f *fakeSource) source(name string) Source {
	return Source{
		Name:   name,
		Active: func() bool { return f.active },
		Dismiss: func() {
			f.active = false
			f.dismissed++
		},
	}
}

type fakeHistory struct {
	depth  int
	popped int
}

func (h *fakeHistory) CanGoBack() bool { return h.depth > 0 }
func (h *fakeHistory) GoBack()         { h.depth--; h.popped++ }

func TestHandleBackPriorityOrder(t *testing.T) {
	tests := []struct {
		name        string
		active      []bool // contextMenu, fullscreen, queue, search
		depth       int
		wantHandled bool
		wantDismiss int // index into sources, -1 for none
		wantPopped  int
	}{
		{name: "context_menu_wins", active: []bool{true, true, true, true}, depth: 2, wantHandled: true, wantDismiss: 0},
		{name: "fullscreen_when_no_menu", active: []bool{false, true, true, false}, depth: 2, wantHandled: true, wantDismiss: 1},
		{name: "queue_panel", active: []bool{false, false, true, true}, wantHandled: true, wantDismiss: 2},
		{name: "search_overlay", active: []bool{false, false, false, true}, wantHandled: true, wantDismiss: 3},
		{name: "history_fallback", active: []bool{false, false, false, false}, depth: 1, wantHandled: true, wantDismiss: -1, wantPopped: 1},
		{name: "nothing_to_do", active: []bool{false, false, false, false}, wantHandled: false, wantDismiss: -1},
	}

	names := []string{"context_menu", "fullscreen_player", "queue_panel", "search_overlay"}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fakes := make([]*fakeSource, len(names))
			sources := make([]Source, len(names))
			for i, name := range names {
				fakes[i] = &fakeSource{active: tt.active[i]}
				sources[i] = fakes[i].source(name)
			}
			hist := &fakeHistory{depth: tt.depth}
			d := NewDispatcher(zerolog.Nop(), hist, sources...)

			if got := d.HandleBack(); got != tt.wantHandled {
				t.Fatalf("HandleBack()=%v, want %v", got, tt.wantHandled)
			}
			for i, f := range fakes {
				want := 0
				if i == tt.wantDismiss {
					want = 1
				}
				if f.dismissed != want {
					t.Fatalf("source %q dismissed %d times, want %d", names[i], f.dismissed, want)
				}
			}
			if hist.popped != tt.wantPopped {
				t.Fatalf("history popped %d times, want %d", hist.popped, tt.wantPopped)
			}
		})
	}
}

func TestHandleBackDismissesExactlyOnePerSignal(t *testing.T) {
	menu := &fakeSource{active: true}
	queue := &fakeSource{active: true}
	hist := &fakeHistory{depth: 1}
	d := NewDispatcher(zerolog.Nop(), hist,
		menu.source("context_menu"),
		queue.source("queue_panel"),
	)

	// First signal takes the menu, second the queue, third pops history,
	// fourth falls through.
	for i, want := range []bool{true, true, true, false} {
		if got := d.HandleBack(); got != want {
			t.Fatalf("signal %d: HandleBack()=%v, want %v", i+1, got, want)
		}
	}
	if menu.dismissed != 1 || queue.dismissed != 1 {
		t.Fatalf("dismiss counts menu=%d queue=%d, want 1 and 1", menu.dismissed, queue.dismissed)
	}
	if hist.popped != 1 {
		t.Fatalf("history popped %d times, want 1", hist.popped)
	}
}

func TestHandleBackEmptyDispatcher(t *testing.T) {
	d := NewDispatcher(zerolog.Nop(), nil)
	if d.HandleBack() {
		t.Fatal("HandleBack() on empty dispatcher must not consume the signal")
	}
}

type fakeBackSource struct {
	handler func() bool
}

func (f *fakeBackSource) SetHandler(h func() bool) { f.handler = h }
func (f *fakeBackSource) ClearHandler()            { f.handler = nil }

// signal mimics the host delivering a back event: an unset handler means
// the host default applies.
func (f *fakeBackSource) signal() bool {
	if f.handler == nil {
		return false
	}
	return f.handler()
}

func TestAttachDetachLifecycle(t *testing.T) {
	overlay := &fakeSource{active: true}
	d := NewDispatcher(zerolog.Nop(), nil, overlay.source("context_menu"))
	src := &fakeBackSource{}

	if src.signal() {
		t.Fatal("signal before Attach must not be consumed")
	}

	detach := Attach(src, d)
	if !src.signal() {
		t.Fatal("signal after Attach must dismiss the active overlay")
	}
	if overlay.dismissed != 1 {
		t.Fatalf("overlay dismissed %d times, want 1", overlay.dismissed)
	}

	detach()
	overlay.active = true
	if src.signal() {
		t.Fatal("signal after detach must fall through to the host")
	}
	if overlay.dismissed != 1 {
		t.Fatalf("detached dispatcher must not dismiss, got %d", overlay.dismissed)
	}
}
