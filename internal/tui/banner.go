package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dupitydumb/Audion-sub001/internal/covers"
)

// bannerDismissMsg hides the migration banner when its timer fires. The
// sequence number keeps a stale timer from hiding a newer banner.
type bannerDismissMsg struct {
	seq int
}

// banner is the one-line migration notice pinned above the active view.
type banner struct {
	visible bool
	running bool
	text    string
	isErr   bool
	seq     int
	spin    spinner.Model
}

func newBanner(th Theme) banner {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(th.Info)
	return banner{spin: sp}
}

// syncRunning reflects an in-flight migration. It only ever turns the
// banner on; final states go through finalize.
func (b *banner) syncRunning(st covers.Status, msg string) {
	if st != covers.StatusRunning {
		return
	}
	b.visible = true
	b.running = true
	b.isErr = false
	b.text = msg
}

// finalize pins the outcome text and returns the auto-dismiss command,
// or nil when nothing ran and nothing should show.
func (b *banner) finalize(st covers.Status, msg string, after time.Duration) tea.Cmd {
	b.running = false
	switch st {
	case covers.StatusSucceeded:
		b.visible = true
		b.isErr = false
		b.text = msg
	case covers.StatusPartiallyFailed, covers.StatusFailed:
		b.visible = true
		b.isErr = true
		b.text = msg
	default:
		b.visible = false
		return nil
	}
	return b.dismissAfter(after)
}

func (b *banner) dismissAfter(d time.Duration) tea.Cmd {
	b.seq++
	seq := b.seq
	return tea.Tick(d, func(time.Time) tea.Msg {
		return bannerDismissMsg{seq: seq}
	})
}

func (b *banner) dismiss(msg bannerDismissMsg) {
	if msg.seq != b.seq {
		return
	}
	b.visible = false
	b.running = false
}
