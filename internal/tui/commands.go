package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dupitydumb/Audion-sub001/internal/database/repository"
	"github.com/dupitydumb/Audion-sub001/internal/lifecycle"
	"github.com/dupitydumb/Audion-sub001/internal/player"
	"github.com/dupitydumb/Audion-sub001/internal/service"
)

type startupMsg struct {
	results []lifecycle.PhaseResult
}

type tickMsg time.Time

type tracksMsg []repository.Track

type playlistsMsg []repository.Playlist

type likedMsg []repository.Track

type entriesMsg struct {
	playlist repository.Playlist
	entries  []repository.PlaylistEntry
}

type queueMsg []player.QueueItem

type playerStateMsg player.State

type searchResultsMsg struct {
	query   string
	results []service.SearchResult
}

type likeToggledMsg struct {
	liked bool
}

type entryRemovedMsg struct{}

type statusMsg string

type errMsg struct{ error }

// startupCmd runs the lifecycle sequencer off the UI goroutine. Phase
// results come back as one message when every phase has run.
func (a *App) startupCmd() tea.Cmd {
	return func() tea.Msg {
		return startupMsg{results: a.seq.Startup(a.ctx)}
	}
}

func (a *App) tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a *App) loadTracks() tea.Cmd {
	return func() tea.Msg {
		tracks, err := a.repos.Tracks.List(a.ctx, repository.TrackFilters{})
		if err != nil {
			return errMsg{err}
		}
		return tracksMsg(tracks)
	}
}

func (a *App) loadPlaylists() tea.Cmd {
	return func() tea.Msg {
		playlists, err := a.repos.Playlists.List(a.ctx)
		if err != nil {
			return errMsg{err}
		}
		return playlistsMsg(playlists)
	}
}

func (a *App) loadLiked() tea.Cmd {
	return func() tea.Msg {
		liked, err := a.services.Liked.Liked(a.ctx)
		if err != nil {
			return errMsg{err}
		}
		return likedMsg(liked)
	}
}

func (a *App) loadEntries(p repository.Playlist) tea.Cmd {
	return func() tea.Msg {
		entries, err := a.repos.Playlists.Entries(a.ctx, p.ID)
		if err != nil {
			return errMsg{err}
		}
		return entriesMsg{playlist: p, entries: entries}
	}
}

func (a *App) loadQueue() tea.Cmd {
	return func() tea.Msg {
		items, err := a.services.Player.Queue()
		if err != nil {
			return errMsg{fmt.Errorf("queue: %w", err)}
		}
		return queueMsg(items)
	}
}

// playerStatus polls the playback backend. Failures surface as a status
// line instead of an error so an absent daemon does not spam the log.
func (a *App) playerStatus() tea.Cmd {
	return func() tea.Msg {
		st, err := a.services.Player.Status()
		if err != nil {
			return statusMsg("mpd unreachable: " + err.Error())
		}
		return playerStateMsg(st)
	}
}

func (a *App) searchCmd(query string) tea.Cmd {
	q := strings.TrimSpace(query)
	return func() tea.Msg {
		results, err := a.services.Search.Search(a.ctx, q, 30)
		if err != nil {
			return errMsg{err}
		}
		return searchResultsMsg{query: q, results: results}
	}
}

func (a *App) playNowCmd(t repository.Track) tea.Cmd {
	return func() tea.Msg {
		if err := a.services.Player.PlayNow(t.Path); err != nil {
			return errMsg{fmt.Errorf("play %s: %w", t.Title, err)}
		}
		return statusMsg("playing " + t.Title)
	}
}

func (a *App) queueTrackCmd(t repository.Track) tea.Cmd {
	return func() tea.Msg {
		if err := a.services.Player.Add(t.Path); err != nil {
			return errMsg{fmt.Errorf("queue %s: %w", t.Title, err)}
		}
		return statusMsg("queued " + t.Title)
	}
}

func (a *App) playPosCmd(pos int) tea.Cmd {
	return func() tea.Msg {
		if err := a.services.Player.PlayPos(pos); err != nil {
			return errMsg{err}
		}
		return nil
	}
}

func (a *App) clearQueueCmd() tea.Cmd {
	return func() tea.Msg {
		if err := a.services.Player.Clear(); err != nil {
			return errMsg{err}
		}
		return queueMsg(nil)
	}
}

// playerCmd wraps a transport call that has no payload beyond an error.
func (a *App) playerCmd(fn func() error) tea.Cmd {
	return func() tea.Msg {
		if err := fn(); err != nil {
			return errMsg{err}
		}
		st, err := a.services.Player.Status()
		if err != nil {
			return errMsg{err}
		}
		return playerStateMsg(st)
	}
}

func (a *App) toggleCmd() tea.Cmd   { return a.playerCmd(a.services.Player.Toggle) }
func (a *App) nextCmd() tea.Cmd     { return a.playerCmd(a.services.Player.Next) }
func (a *App) previousCmd() tea.Cmd { return a.playerCmd(a.services.Player.Previous) }
func (a *App) stopCmd() tea.Cmd     { return a.playerCmd(a.services.Player.Stop) }

func (a *App) volumeCmd(delta int) tea.Cmd {
	target := a.state.Volume + delta
	return a.playerCmd(func() error { return a.services.Player.SetVolume(target) })
}

func (a *App) seekCmd(seconds int) tea.Cmd {
	return a.playerCmd(func() error {
		return a.services.Player.Seek(time.Duration(seconds) * time.Second)
	})
}

func (a *App) repeatCmd(on bool) tea.Cmd {
	return a.playerCmd(func() error { return a.services.Player.SetRepeat(on) })
}

func (a *App) randomCmd(on bool) tea.Cmd {
	return a.playerCmd(func() error { return a.services.Player.SetRandom(on) })
}

func (a *App) toggleLikeCmd(trackID string) tea.Cmd {
	return func() tea.Msg {
		liked, err := a.services.Liked.Toggle(a.ctx, trackID)
		if err != nil {
			return errMsg{err}
		}
		return likeToggledMsg{liked: liked}
	}
}

func (a *App) removeEntryCmd(playlistID, trackID string) tea.Cmd {
	return func() tea.Msg {
		if err := a.repos.Playlists.RemoveTrack(a.ctx, playlistID, trackID); err != nil {
			return errMsg{err}
		}
		return entryRemovedMsg{}
	}
}

// notifyCmd fires a host notification for the song that just started.
// Delivery failures are logged, never surfaced.
func (a *App) notifyCmd(title, artist string) tea.Cmd {
	return func() tea.Msg {
		body := artist
		if body == "" {
			body = "Audion"
		}
		if err := a.services.Notifier.Notify(a.ctx, title, body); err != nil {
			a.log.Debug().Err(err).Str("title", title).Msg("notify failed")
		}
		return nil
	}
}
