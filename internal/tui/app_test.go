package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/dupitydumb/Audion-sub001/internal/config"
	"github.com/dupitydumb/Audion-sub001/internal/covers"
	"github.com/dupitydumb/Audion-sub001/internal/database/repository"
	"github.com/dupitydumb/Audion-sub001/internal/lifecycle"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg := config.Config{}
	cfg.UI.Theme = "mocha"
	cfg.UI.CompactWidth = 80
	return New(context.Background(), cfg, zerolog.Nop(), Repos{}, Services{}, &lifecycle.Sequencer{})
}

func escKey() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyEsc}
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestEscDismissesOverlaysInPriorityOrder(t *testing.T) {
	a := newTestApp(t)
	a.started = true
	a.menu = newContextMenu(repository.Track{ID: "t1", Title: "Song"}, "")
	a.fullscreen = true
	a.queueOpen = true
	a.search = newSearchOverlay()

	a.Update(escKey())
	if a.menu != nil {
		t.Fatal("first esc should close the context menu")
	}
	if !a.fullscreen || !a.queueOpen || a.search == nil {
		t.Fatal("first esc dismissed more than the context menu")
	}

	a.Update(escKey())
	if a.fullscreen {
		t.Fatal("second esc should close the full-screen player")
	}
	if !a.queueOpen || a.search == nil {
		t.Fatal("second esc dismissed more than the full-screen player")
	}

	a.Update(escKey())
	if a.queueOpen {
		t.Fatal("third esc should close the queue panel")
	}
	if a.search == nil {
		t.Fatal("third esc dismissed more than the queue panel")
	}

	a.Update(escKey())
	if a.search != nil {
		t.Fatal("fourth esc should close the search overlay")
	}
}

func TestEscFallsThroughToViewHistory(t *testing.T) {
	a := newTestApp(t)
	a.started = true
	a.history.push(viewPlaylists)

	a.Update(escKey())
	if got := a.history.current(); got != viewLibrary {
		t.Fatalf("esc should pop history, current = %q", got)
	}

	// Nothing left to dismiss; esc becomes a no-op.
	a.Update(escKey())
	if got := a.history.current(); got != viewLibrary {
		t.Fatalf("esc on empty history moved views, current = %q", got)
	}
}

func TestExternalBackHandlerTakesOver(t *testing.T) {
	a := newTestApp(t)
	a.started = true
	a.queueOpen = true

	var called int
	a.SetHandler(func() bool {
		called++
		return true
	})

	a.Update(escKey())
	if called != 1 {
		t.Fatalf("installed handler called %d times, want 1", called)
	}
	if !a.queueOpen {
		t.Fatal("local dispatcher ran despite an installed handler")
	}

	a.ClearHandler()
	a.Update(escKey())
	if called != 1 {
		t.Fatal("cleared handler still receiving back signals")
	}
	if a.queueOpen {
		t.Fatal("local dispatch should resume after ClearHandler")
	}
}

func TestTabKeysPushHistory(t *testing.T) {
	a := newTestApp(t)
	a.started = true

	a.Update(runeKey('2'))
	if got := a.history.current(); got != viewPlaylists {
		t.Fatalf("current = %q, want %q", got, viewPlaylists)
	}

	a.playlists = []repository.Playlist{{ID: "p1", Name: "roadtrip"}}
	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("opening a playlist should load its entries")
	}
	if got := a.history.current(); got != viewPlaylist {
		t.Fatalf("current = %q, want %q", got, viewPlaylist)
	}

	a.Update(escKey())
	if got := a.history.current(); got != viewPlaylists {
		t.Fatalf("esc should return to the playlist list, current = %q", got)
	}
}

func TestSearchOverlayConsumesQuitKeys(t *testing.T) {
	a := newTestApp(t)
	a.started = true
	a.Update(runeKey('/'))
	if a.search == nil {
		t.Fatal("slash should open the search overlay")
	}

	a.Update(runeKey('q'))
	if a.search == nil {
		t.Fatal("typing into search must not quit the app")
	}
	if got := a.search.input.Value(); got != "q" {
		t.Fatalf("input value = %q, want %q", got, "q")
	}
}

func TestStartupMsgRecordsFailures(t *testing.T) {
	a := newTestApp(t)

	a.Update(startupMsg{results: []lifecycle.PhaseResult{
		{Name: lifecycle.PhasePlatform},
		{Name: lifecycle.PhaseAudio, Err: context.DeadlineExceeded},
	}})

	if !a.started {
		t.Fatal("startup message should mark the app started")
	}
	if !strings.Contains(a.startupWarn, lifecycle.PhaseAudio) {
		t.Fatalf("startup warning %q does not name the failed phase", a.startupWarn)
	}
}

func TestVisibilityListenerLifecycle(t *testing.T) {
	a := newTestApp(t)

	var seen []bool
	detach := a.AttachVisibility(func(v bool) { seen = append(seen, v) })

	a.Update(tea.BlurMsg{})
	a.Update(tea.FocusMsg{})
	if len(seen) != 2 || seen[0] != false || seen[1] != true {
		t.Fatalf("visibility events = %v, want [false true]", seen)
	}

	// Duplicate focus does not refire.
	a.Update(tea.FocusMsg{})
	if len(seen) != 2 {
		t.Fatalf("duplicate focus fired listener, events = %v", seen)
	}

	detach()
	a.Update(tea.BlurMsg{})
	if len(seen) != 2 {
		t.Fatalf("detached listener still firing, events = %v", seen)
	}
}

func TestBannerStaleDismissIgnored(t *testing.T) {
	b := newBanner(ThemeByName("mocha"))

	cmd := b.finalize(covers.StatusSucceeded, "migrated 3 covers", 10*time.Millisecond)
	if cmd == nil {
		t.Fatal("success should schedule a dismissal")
	}
	if !b.visible {
		t.Fatal("banner should be visible after finalize")
	}

	first := b.seq
	b.dismissAfter(10 * time.Millisecond)

	b.dismiss(bannerDismissMsg{seq: first})
	if !b.visible {
		t.Fatal("stale timer hid a newer banner")
	}

	b.dismiss(bannerDismissMsg{seq: b.seq})
	if b.visible {
		t.Fatal("matching timer should hide the banner")
	}
}
