// Package tui implements the terminal interface for the player.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/dupitydumb/Audion-sub001/internal/config"
	"github.com/dupitydumb/Audion-sub001/internal/covers"
	"github.com/dupitydumb/Audion-sub001/internal/database/repository"
	"github.com/dupitydumb/Audion-sub001/internal/lifecycle"
	"github.com/dupitydumb/Audion-sub001/internal/nav"
	"github.com/dupitydumb/Audion-sub001/internal/platform"
	"github.com/dupitydumb/Audion-sub001/internal/player"
	"github.com/dupitydumb/Audion-sub001/internal/service"
)

// Repos aggregates repository access for the UI.
type Repos struct {
	Tracks    *repository.TrackRepo
	Albums    *repository.AlbumRepo
	Playlists *repository.PlaylistRepo
	Settings  *repository.SettingsRepo
}

// Services aggregates the collaborators the UI drives.
type Services struct {
	Player   *player.Player
	Search   *service.SearchService
	Liked    *service.LikedService
	Migrator *covers.Migrator
	Notifier platform.Notifier
}

// App is the bubbletea model for the whole interface.
type App struct {
	ctx      context.Context
	cfg      config.Config
	log      zerolog.Logger
	repos    Repos
	services Services
	seq      *lifecycle.Sequencer

	theme   Theme
	styles  styles
	nav     *nav.Dispatcher
	history *viewHistory

	width   int
	height  int
	visible bool
	started bool

	// Overlay state, listed in back-priority order.
	menu       *contextMenu
	fullscreen bool
	queueOpen  bool
	search     *searchOverlay

	banner banner

	// backHandler is installed through the back-handler lifecycle phase
	// on embedded mobile hosts. While set, back signals route through it;
	// otherwise they go straight to the local dispatcher.
	backHandler func() bool

	// onVisible is the visibility listener registered by the lifecycle
	// sequencer during the stores phase.
	onVisible func(bool)

	tracks         []repository.Track
	playlists      []repository.Playlist
	liked          []repository.Track
	entries        []repository.PlaylistEntry
	activePlaylist repository.Playlist
	queue          []player.QueueItem
	queueCursor    int

	state    player.State
	lastFile string

	cursors     map[viewID]int
	status      string
	startupWarn string
}

// New builds the model. The sequencer is started from Init, not here, so
// that phase results arrive as a message once the program is running.
func New(ctx context.Context, cfg config.Config, log zerolog.Logger, repos Repos, services Services, seq *lifecycle.Sequencer) *App {
	th := ThemeByName(cfg.UI.Theme)
	a := &App{
		ctx:      ctx,
		cfg:      cfg,
		log:      log,
		repos:    repos,
		services: services,
		seq:      seq,
		theme:    th,
		styles:   newStyles(th),
		history:  newViewHistory(viewLibrary),
		visible:  true,
		banner:   newBanner(th),
		cursors:  map[viewID]int{},
	}
	a.nav = nav.NewDispatcher(log, a.history,
		nav.Source{
			Name:    "context_menu",
			Active:  func() bool { return a.menu != nil },
			Dismiss: func() { a.menu = nil },
		},
		nav.Source{
			Name:    "fullscreen_player",
			Active:  func() bool { return a.fullscreen },
			Dismiss: func() { a.fullscreen = false },
		},
		nav.Source{
			Name:    "queue_panel",
			Active:  func() bool { return a.queueOpen },
			Dismiss: func() { a.queueOpen = false },
		},
		nav.Source{
			Name:    "search_overlay",
			Active:  func() bool { return a.search != nil },
			Dismiss: func() { a.search = nil },
		},
	)
	return a
}

// SetHandler satisfies nav.BackSource. The sequencer attaches the
// dispatcher through it when the host delivers back gestures.
func (a *App) SetHandler(h func() bool) { a.backHandler = h }

// ClearHandler satisfies nav.BackSource.
func (a *App) ClearHandler() { a.backHandler = nil }

// AttachVisibility registers the listener fired on terminal focus and
// blur. The returned function detaches it.
func (a *App) AttachVisibility(h func(visible bool)) func() {
	a.onVisible = h
	return func() { a.onVisible = nil }
}

// AttachBackHandler binds host back gestures to the dispatcher and
// returns the detach for teardown.
func (a *App) AttachBackHandler() func() {
	return nav.Attach(a, a.nav)
}

// handleBack routes one back signal and reports whether anything
// consumed it.
func (a *App) handleBack() bool {
	if a.backHandler != nil {
		return a.backHandler()
	}
	return a.nav.HandleBack()
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.startupCmd(), a.banner.spin.Tick, a.tickCmd())
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.FocusMsg:
		a.setVisible(true)
		return a, nil

	case tea.BlurMsg:
		a.setVisible(false)
		return a, nil

	case spinner.TickMsg:
		if !a.banner.running {
			return a, nil
		}
		var cmd tea.Cmd
		a.banner.spin, cmd = a.banner.spin.Update(msg)
		return a, cmd

	case bannerDismissMsg:
		a.banner.dismiss(msg)
		return a, nil

	case startupMsg:
		return a, a.finishStartup(msg)

	case tickMsg:
		return a, a.onTick()

	case tracksMsg:
		a.tracks = msg
		a.clampCursor(viewLibrary, len(a.tracks))
		return a, nil

	case playlistsMsg:
		a.playlists = msg
		a.clampCursor(viewPlaylists, len(a.playlists))
		return a, nil

	case likedMsg:
		a.liked = msg
		a.clampCursor(viewLiked, len(a.liked))
		return a, nil

	case entriesMsg:
		a.activePlaylist = msg.playlist
		a.entries = msg.entries
		a.clampCursor(viewPlaylist, len(a.entries))
		return a, nil

	case queueMsg:
		a.queue = msg
		if a.queueCursor >= len(a.queue) {
			a.queueCursor = len(a.queue) - 1
		}
		if a.queueCursor < 0 {
			a.queueCursor = 0
		}
		return a, nil

	case playerStateMsg:
		return a, a.onPlayerState(player.State(msg))

	case searchResultsMsg:
		if a.search != nil && strings.TrimSpace(a.search.input.Value()) == msg.query {
			a.search.results = msg.results
			a.search.cursor = 0
		}
		return a, nil

	case likeToggledMsg:
		if msg.liked {
			a.status = "liked"
		} else {
			a.status = "unliked"
		}
		cmds := []tea.Cmd{a.loadTracks(), a.loadLiked()}
		if a.history.current() == viewPlaylist {
			cmds = append(cmds, a.loadEntries(a.activePlaylist))
		}
		return a, tea.Batch(cmds...)

	case entryRemovedMsg:
		a.status = "removed from playlist"
		return a, a.loadEntries(a.activePlaylist)

	case statusMsg:
		a.status = string(msg)
		return a, nil

	case errMsg:
		a.status = "error: " + msg.Error()
		a.log.Error().Err(msg.error).Msg("ui error")
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}
	return a, nil
}

func (a *App) setVisible(v bool) {
	if a.visible == v {
		return
	}
	a.visible = v
	if a.onVisible != nil {
		a.onVisible(v)
	}
}

// finishStartup records phase failures, settles the migration banner and
// kicks off the initial data loads.
func (a *App) finishStartup(msg startupMsg) tea.Cmd {
	a.started = true

	var failed []string
	for _, r := range msg.results {
		if r.Err != nil {
			failed = append(failed, r.Name)
		}
	}
	if len(failed) > 0 {
		a.startupWarn = "startup issues: " + strings.Join(failed, ", ") + " (see log)"
	}

	cmds := []tea.Cmd{a.loadTracks(), a.loadPlaylists(), a.loadLiked(), a.playerStatus()}
	if a.services.Migrator != nil {
		st, text, _ := a.services.Migrator.Snapshot()
		after := covers.DismissSuccess
		if st == covers.StatusPartiallyFailed || st == covers.StatusFailed {
			after = covers.DismissFailure
		}
		if cmd := a.banner.finalize(st, text, after); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return tea.Batch(cmds...)
}

// onTick polls the playback state once per second while the terminal is
// visible, and while startup is still running keeps the migration banner
// in step with the coordinator.
func (a *App) onTick() tea.Cmd {
	cmds := []tea.Cmd{a.tickCmd()}
	if !a.visible {
		return tea.Batch(cmds...)
	}
	if a.started {
		cmds = append(cmds, a.playerStatus())
		if a.queueOpen {
			cmds = append(cmds, a.loadQueue())
		}
	} else if a.services.Migrator != nil {
		st, text, _ := a.services.Migrator.Snapshot()
		a.banner.syncRunning(st, text)
	}
	return tea.Batch(cmds...)
}

// onPlayerState stores the new state and raises a host notification when
// the current song changed.
func (a *App) onPlayerState(st player.State) tea.Cmd {
	prev := a.lastFile
	a.state = st
	a.lastFile = st.File

	if !a.cfg.Notifications.Enabled || a.services.Notifier == nil {
		return nil
	}
	if !st.Playing || st.File == "" || st.File == prev || prev == "" {
		return nil
	}
	return a.notifyCmd(st.Title, st.Artist)
}

func (a *App) clampCursor(v viewID, n int) {
	c := a.cursors[v]
	if c >= n {
		c = n - 1
	}
	if c < 0 {
		c = 0
	}
	a.cursors[v] = c
}

func (a *App) moveCursor(v viewID, delta, n int) {
	c := a.cursors[v] + delta
	if c >= n {
		c = n - 1
	}
	if c < 0 {
		c = 0
	}
	a.cursors[v] = c
}

// selectedTrack resolves the cursor of the current view to a track.
func (a *App) selectedTrack() (repository.Track, bool) {
	switch a.history.current() {
	case viewLibrary:
		if len(a.tracks) == 0 {
			return repository.Track{}, false
		}
		return a.tracks[a.cursors[viewLibrary]], true
	case viewLiked:
		if len(a.liked) == 0 {
			return repository.Track{}, false
		}
		return a.liked[a.cursors[viewLiked]], true
	case viewPlaylist:
		if len(a.entries) == 0 {
			return repository.Track{}, false
		}
		return a.entries[a.cursors[viewPlaylist]].Track, true
	}
	return repository.Track{}, false
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// Quit and back are global. Everything else depends on what is on top.
	if key == "ctrl+c" {
		return a, tea.Quit
	}
	if key == "esc" {
		a.handleBack()
		return a, nil
	}

	switch {
	case a.menu != nil:
		return a.handleMenuKey(key)
	case a.search != nil:
		return a.handleSearchKey(msg)
	case a.queueOpen:
		return a.handleQueueKey(key)
	case a.fullscreen:
		return a.handleFullscreenKey(key)
	}
	return a.handleViewKey(key)
}

func (a *App) handleMenuKey(key string) (tea.Model, tea.Cmd) {
	m := a.menu
	switch key {
	case "up", "k":
		m.move(-1)
	case "down", "j":
		m.move(1)
	case "enter":
		a.menu = nil
		switch m.selected() {
		case menuPlay:
			return a, a.playNowCmd(m.track)
		case menuQueue:
			return a, a.queueTrackCmd(m.track)
		case menuToggleLike:
			return a, a.toggleLikeCmd(m.track.ID)
		case menuRemove:
			return a, a.removeEntryCmd(m.playlistID, m.track.ID)
		}
	}
	return a, nil
}

func (a *App) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := a.search
	switch msg.String() {
	case "up":
		s.move(-1)
		return a, nil
	case "down":
		s.move(1)
		return a, nil
	case "enter":
		t, ok := s.selected()
		if !ok {
			return a, nil
		}
		a.search = nil
		return a, a.playNowCmd(t)
	}

	before := s.input.Value()
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	if s.input.Value() != before {
		return a, tea.Batch(cmd, a.searchCmd(s.input.Value()))
	}
	return a, cmd
}

func (a *App) handleQueueKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "up", "k":
		if a.queueCursor > 0 {
			a.queueCursor--
		}
	case "down", "j":
		if a.queueCursor < len(a.queue)-1 {
			a.queueCursor++
		}
	case "enter":
		if len(a.queue) > 0 {
			return a, a.playPosCmd(a.queue[a.queueCursor].Pos)
		}
	case "c":
		return a, a.clearQueueCmd()
	default:
		return a.handleTransportKey(key)
	}
	return a, nil
}

func (a *App) handleFullscreenKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "left":
		return a, a.seekCmd(-5)
	case "right":
		return a, a.seekCmd(5)
	default:
		return a.handleTransportKey(key)
	}
}

// handleTransportKey covers playback controls shared by every surface.
func (a *App) handleTransportKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case " ", "space":
		return a, a.toggleCmd()
	case ">":
		return a, a.nextCmd()
	case "<":
		return a, a.previousCmd()
	case "s":
		return a, a.stopCmd()
	case "+", "=":
		return a, a.volumeCmd(5)
	case "-":
		return a, a.volumeCmd(-5)
	case "r":
		return a, a.repeatCmd(!a.state.Repeat)
	case "z":
		return a, a.randomCmd(!a.state.Random)
	}
	return a, nil
}

func (a *App) handleViewKey(key string) (tea.Model, tea.Cmd) {
	view := a.history.current()
	switch key {
	case "q":
		return a, tea.Quit
	case "1":
		a.history.push(viewLibrary)
		return a, nil
	case "2":
		a.history.push(viewPlaylists)
		return a, nil
	case "3":
		a.history.push(viewLiked)
		return a, nil
	case "/":
		a.search = newSearchOverlay()
		return a, nil
	case "o":
		a.queueOpen = true
		return a, a.loadQueue()
	case "f":
		a.fullscreen = true
		return a, nil
	case "up", "k":
		a.moveCursor(view, -1, a.viewLen(view))
		return a, nil
	case "down", "j":
		a.moveCursor(view, 1, a.viewLen(view))
		return a, nil
	case "enter":
		return a.handleEnter(view)
	case "m":
		t, ok := a.selectedTrack()
		if !ok {
			return a, nil
		}
		playlistID := ""
		if view == viewPlaylist {
			playlistID = a.activePlaylist.ID
		}
		a.menu = newContextMenu(t, playlistID)
		return a, nil
	case "L":
		if t, ok := a.selectedTrack(); ok {
			return a, a.toggleLikeCmd(t.ID)
		}
		return a, nil
	case "a":
		if t, ok := a.selectedTrack(); ok {
			return a, a.queueTrackCmd(t)
		}
		return a, nil
	}
	return a.handleTransportKey(key)
}

func (a *App) handleEnter(view viewID) (tea.Model, tea.Cmd) {
	if view == viewPlaylists {
		if len(a.playlists) == 0 {
			return a, nil
		}
		p := a.playlists[a.cursors[viewPlaylists]]
		a.history.push(viewPlaylist)
		return a, a.loadEntries(p)
	}
	if t, ok := a.selectedTrack(); ok {
		return a, a.playNowCmd(t)
	}
	return a, nil
}

func (a *App) viewLen(v viewID) int {
	switch v {
	case viewLibrary:
		return len(a.tracks)
	case viewPlaylists:
		return len(a.playlists)
	case viewPlaylist:
		return len(a.entries)
	case viewLiked:
		return len(a.liked)
	}
	return 0
}
