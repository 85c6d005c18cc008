package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/dupitydumb/Audion-sub001/internal/database/repository"
)

type styles struct {
	title      lipgloss.Style
	tab        lipgloss.Style
	tabActive  lipgloss.Style
	cursor     lipgloss.Style
	normal     lipgloss.Style
	dim        lipgloss.Style
	liked      lipgloss.Style
	bannerInfo lipgloss.Style
	bannerErr  lipgloss.Style
	warn       lipgloss.Style
	statusLine lipgloss.Style
	bar        lipgloss.Style
	footer     lipgloss.Style
	overlay    lipgloss.Style
}

func newStyles(th Theme) styles {
	return styles{
		title:      lipgloss.NewStyle().Bold(true).Foreground(th.Accent),
		tab:        lipgloss.NewStyle().Foreground(th.Subtext),
		tabActive:  lipgloss.NewStyle().Bold(true).Foreground(th.Accent).Underline(true),
		cursor:     lipgloss.NewStyle().Bold(true).Foreground(th.Focus),
		normal:     lipgloss.NewStyle().Foreground(th.Text),
		dim:        lipgloss.NewStyle().Foreground(th.Muted),
		liked:      lipgloss.NewStyle().Foreground(th.Error),
		bannerInfo: lipgloss.NewStyle().Foreground(th.Info),
		bannerErr:  lipgloss.NewStyle().Foreground(th.Error),
		warn:       lipgloss.NewStyle().Foreground(th.Warning),
		statusLine: lipgloss.NewStyle().Foreground(th.Subtext),
		bar:        lipgloss.NewStyle().Foreground(th.Text).Background(th.Surface),
		footer:     lipgloss.NewStyle().Foreground(th.Muted),
		overlay: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(th.Focus).
			Padding(0, 1),
	}
}

func (a *App) View() string {
	if !a.started {
		return a.renderStarting()
	}

	var b strings.Builder
	b.WriteString(a.renderTabs())
	b.WriteString("\n")
	if a.banner.visible {
		b.WriteString(a.renderBanner())
		b.WriteString("\n")
	}
	if a.startupWarn != "" {
		b.WriteString(a.styles.warn.Render(a.startupWarn))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case a.menu != nil:
		b.WriteString(a.renderMenu())
	case a.search != nil:
		b.WriteString(a.renderSearch())
	case a.queueOpen:
		b.WriteString(a.renderQueue())
	case a.fullscreen:
		b.WriteString(a.renderFullscreen())
	default:
		b.WriteString(a.renderView())
	}

	b.WriteString("\n\n")
	b.WriteString(a.renderBar())
	if a.status != "" {
		b.WriteString("\n")
		b.WriteString(a.styles.statusLine.Render(a.status))
	}
	b.WriteString("\n")
	b.WriteString(a.styles.footer.Render(a.footerHints()))
	return b.String()
}

func (a *App) renderStarting() string {
	var b strings.Builder
	b.WriteString(a.styles.title.Render("audion"))
	b.WriteString("\n\n")
	if a.banner.visible {
		b.WriteString(a.renderBanner())
		b.WriteString("\n")
	}
	b.WriteString(a.styles.dim.Render("starting..."))
	return b.String()
}

func (a *App) renderTabs() string {
	type tab struct {
		id    viewID
		label string
	}
	tabs := []tab{
		{viewLibrary, "1:Library"},
		{viewPlaylists, "2:Playlists"},
		{viewLiked, "3:Liked"},
	}
	current := a.history.current()
	if current == viewPlaylist {
		current = viewPlaylists
	}
	parts := make([]string, 0, len(tabs))
	for _, t := range tabs {
		if t.id == current {
			parts = append(parts, a.styles.tabActive.Render(t.label))
			continue
		}
		parts = append(parts, a.styles.tab.Render(t.label))
	}
	return strings.Join(parts, a.styles.dim.Render("  "))
}

func (a *App) renderBanner() string {
	text := a.banner.text
	if a.banner.running {
		text = a.banner.spin.View() + " " + text
	}
	if a.banner.isErr {
		return a.styles.bannerErr.Render(text)
	}
	return a.styles.bannerInfo.Render(text)
}

func (a *App) renderView() string {
	switch a.history.current() {
	case viewPlaylists:
		return a.renderPlaylists()
	case viewPlaylist:
		return a.renderPlaylist()
	case viewLiked:
		return a.renderTrackList(a.liked, a.cursors[viewLiked], "no liked tracks yet")
	default:
		return a.renderTrackList(a.tracks, a.cursors[viewLibrary], "library is empty, run: audion scan <dir>")
	}
}

// compact reports whether the track columns should drop the album to fit
// a narrow terminal.
func (a *App) compact() bool {
	return a.width > 0 && a.width < a.cfg.UI.CompactWidth
}

func (a *App) renderTrackList(tracks []repository.Track, cursor int, empty string) string {
	if len(tracks) == 0 {
		return a.styles.dim.Render(empty)
	}
	var b strings.Builder
	for i, t := range tracks {
		b.WriteString(a.renderTrackRow(t, i == cursor))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (a *App) renderTrackRow(t repository.Track, selected bool) string {
	marker := "  "
	if selected {
		marker = a.styles.cursor.Render("▶ ")
	}
	heart := " "
	if t.LikedAt != nil {
		heart = a.styles.liked.Render("♥")
	}
	var row string
	if a.compact() {
		row = fmt.Sprintf("%-30.30s %-20.20s %6s", t.Title, t.Artist, fmtMillis(t.DurationMS))
	} else {
		row = fmt.Sprintf("%-32.32s %-22.22s %-22.22s %6s", t.Title, t.Artist, t.Album, fmtMillis(t.DurationMS))
	}
	style := a.styles.normal
	if selected {
		style = a.styles.cursor
	}
	return marker + heart + " " + style.Render(row)
}

func (a *App) renderPlaylists() string {
	if len(a.playlists) == 0 {
		return a.styles.dim.Render("no playlists")
	}
	var b strings.Builder
	cursor := a.cursors[viewPlaylists]
	for i, p := range a.playlists {
		marker := "  "
		style := a.styles.normal
		if i == cursor {
			marker = a.styles.cursor.Render("▶ ")
			style = a.styles.cursor
		}
		b.WriteString(marker + style.Render(p.Name))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (a *App) renderPlaylist() string {
	var b strings.Builder
	b.WriteString(a.styles.title.Render(a.activePlaylist.Name))
	b.WriteString("\n")
	if len(a.entries) == 0 {
		b.WriteString(a.styles.dim.Render("empty playlist"))
		return b.String()
	}
	cursor := a.cursors[viewPlaylist]
	for i, e := range a.entries {
		b.WriteString(a.renderTrackRow(e.Track, i == cursor))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (a *App) renderMenu() string {
	var b strings.Builder
	b.WriteString(a.styles.title.Render(a.menu.track.Title))
	b.WriteString("\n")
	for i, item := range a.menu.items {
		marker := "  "
		style := a.styles.normal
		if i == a.menu.cursor {
			marker = a.styles.cursor.Render("▶ ")
			style = a.styles.cursor
		}
		b.WriteString(marker + style.Render(item))
		b.WriteString("\n")
	}
	return a.styles.overlay.Render(strings.TrimRight(b.String(), "\n"))
}

func (a *App) renderSearch() string {
	var b strings.Builder
	b.WriteString(a.search.input.View())
	b.WriteString("\n\n")
	if len(a.search.results) == 0 {
		if strings.TrimSpace(a.search.input.Value()) == "" {
			b.WriteString(a.styles.dim.Render("type to search"))
		} else {
			b.WriteString(a.styles.dim.Render("no matches"))
		}
		return b.String()
	}
	for i, r := range a.search.results {
		b.WriteString(a.renderTrackRow(r.Track, i == a.search.cursor))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (a *App) renderQueue() string {
	var b strings.Builder
	b.WriteString(a.styles.title.Render("Queue"))
	b.WriteString("\n")
	if len(a.queue) == 0 {
		b.WriteString(a.styles.dim.Render("queue is empty"))
		return b.String()
	}
	for i, item := range a.queue {
		marker := "  "
		style := a.styles.normal
		if i == a.queueCursor {
			marker = a.styles.cursor.Render("▶ ")
			style = a.styles.cursor
		}
		now := " "
		if a.state.Pos == item.Pos && (a.state.Playing || a.state.Paused) {
			now = a.styles.bannerInfo.Render("♪")
		}
		row := fmt.Sprintf("%3d  %-32.32s %-22.22s %6s", item.Pos+1, item.Title, item.Artist, fmtClock(item.Duration))
		b.WriteString(marker + now + " " + style.Render(row))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (a *App) renderFullscreen() string {
	st := a.state
	width := a.width
	if width <= 0 {
		width = 80
	}
	barWidth := width - 14
	if barWidth < 10 {
		barWidth = 10
	}

	var frac float64
	if st.Duration > 0 {
		frac = float64(st.Elapsed) / float64(st.Duration)
	}
	if frac > 1 {
		frac = 1
	}
	filled := int(frac * float64(barWidth))
	progress := a.styles.cursor.Render(strings.Repeat("━", filled)) +
		a.styles.dim.Render(strings.Repeat("─", barWidth-filled))

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(a.styles.title.Render(orDim(st.Title, "nothing playing")))
	b.WriteString("\n")
	b.WriteString(a.styles.normal.Render(st.Artist))
	b.WriteString("\n")
	b.WriteString(a.styles.dim.Render(st.Album))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("%s %s/%s", progress, fmtClock(st.Elapsed), fmtClock(st.Duration)))
	b.WriteString("\n\n")
	b.WriteString(a.styles.dim.Render(a.renderFlags()))
	return b.String()
}

func (a *App) renderBar() string {
	st := a.state
	icon := "■"
	switch {
	case st.Playing:
		icon = "▶"
	case st.Paused:
		icon = "⏸"
	}
	title := st.Title
	if title == "" {
		title = "nothing playing"
	}
	line := fmt.Sprintf(" %s %s", icon, title)
	if st.Artist != "" && !a.compact() {
		line += " · " + st.Artist
	}
	line += fmt.Sprintf("  %s/%s  vol %d%%", fmtClock(st.Elapsed), fmtClock(st.Duration), st.Volume)
	if flags := a.renderFlags(); flags != "" {
		line += "  " + flags
	}
	width := a.width
	if width <= 0 {
		width = 80
	}
	return a.styles.bar.Width(width).Render(line)
}

func (a *App) renderFlags() string {
	var flags []string
	if a.state.Repeat {
		flags = append(flags, "[repeat]")
	}
	if a.state.Random {
		flags = append(flags, "[random]")
	}
	return strings.Join(flags, " ")
}

func (a *App) footerHints() string {
	switch {
	case a.menu != nil:
		return "[enter] select  [esc] close"
	case a.search != nil:
		return "[enter] play  [↑/↓] move  [esc] close"
	case a.queueOpen:
		return "[enter] jump  [c] clear  [esc] close"
	case a.fullscreen:
		return "[space] play/pause  [</>] track  [←/→] seek  [r]epeat  [z] random  [esc] close"
	case a.history.current() == viewPlaylists:
		return "[enter] open  [/] search  [o] queue  [f] player  [q]uit"
	default:
		return "[enter] play  [m]enu  [L]ike  [a]dd to queue  [/] search  [o] queue  [f] player  [q]uit"
	}
}

func orDim(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func fmtClock(d time.Duration) string {
	d = d.Round(time.Second)
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%d:%02d", m, s)
}

func fmtMillis(ms int64) string {
	return fmtClock(time.Duration(ms) * time.Millisecond)
}
