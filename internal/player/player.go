// Package player wraps the MPD client behind the small surface the UI
// needs: status polling, queue listing and transport controls.
package player

import (
	"fmt"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/fhs/gompd/v2/mpd"
	"github.com/rs/zerolog"
)

// State is one playback status snapshot.
type State struct {
	Playing  bool
	Paused   bool
	Volume   int
	Repeat   bool
	Random   bool
	Elapsed  time.Duration
	Duration time.Duration
	Pos      int
	QueueLen int
	Title    string
	Artist   string
	Album    string
	File     string
}

// QueueItem is one entry of the current play queue.
type QueueItem struct {
	Pos      int
	ID       int
	Title    string
	Artist   string
	Album    string
	File     string
	Duration time.Duration
}

// Player is a thread-safe MPD connection. The connection is dialed lazily
// and dropped after any command error so the next call redials.
type Player struct {
	addr     string
	password string
	log      zerolog.Logger

	mu     sync.Mutex
	client *mpd.Client
}

func New(addr, password string, log zerolog.Logger) *Player {
	return &Player{addr: addr, password: password, log: log}
}

// connectLocked returns a live client, dialing if needed. p.mu must be
// held.
func (p *Player) connectLocked() (*mpd.Client, error) {
	if p.client != nil {
		if err := p.client.Ping(); err == nil {
			return p.client, nil
		}
		p.client.Close()
		p.client = nil
		p.log.Debug().Msg("mpd connection dropped, redialing")
	}
	var (
		c   *mpd.Client
		err error
	)
	if p.password != "" {
		c, err = mpd.DialAuthenticated("tcp", p.addr, p.password)
	} else {
		c, err = mpd.Dial("tcp", p.addr)
	}
	if err != nil {
		return nil, fmt.Errorf("dial mpd %s: %w", p.addr, err)
	}
	p.client = c
	p.log.Debug().Str("addr", p.addr).Str("version", c.Version()).Msg("connected to mpd")
	return c, nil
}

func (p *Player) do(fn func(*mpd.Client) error) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	c, err := p.connectLocked()
	if err != nil {
		return err
	}
	if err := fn(c); err != nil {
		p.client.Close()
		p.client = nil
		return err
	}
	return nil
}

// Check verifies the server is reachable, dialing if necessary.
func (p *Player) Check() error {
	return p.do(func(c *mpd.Client) error { return c.Ping() })
}

// Close tears down the connection. Safe when never connected.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client == nil {
		return nil
	}
	err := p.client.Close()
	p.client = nil
	return err
}

// Status returns the current playback snapshot.
func (p *Player) Status() (State, error) {
	var st State
	err := p.do(func(c *mpd.Client) error {
		status, err := c.Status()
		if err != nil {
			return err
		}
		song, err := c.CurrentSong()
		if err != nil {
			return err
		}
		st = parseState(status, song)
		return nil
	})
	return st, err
}

// Queue returns the current play queue in order.
func (p *Player) Queue() ([]QueueItem, error) {
	var items []QueueItem
	err := p.do(func(c *mpd.Client) error {
		attrs, err := c.PlaylistInfo(-1, -1)
		if err != nil {
			return err
		}
		items = parseQueue(attrs)
		return nil
	})
	return items, err
}

// Toggle plays when paused or stopped and pauses when playing.
func (p *Player) Toggle() error {
	return p.do(func(c *mpd.Client) error {
		status, err := c.Status()
		if err != nil {
			return err
		}
		if status["state"] == "play" {
			return c.Pause(true)
		}
		return c.Play(-1)
	})
}

// PlayPos starts playback at a queue position.
func (p *Player) PlayPos(pos int) error {
	return p.do(func(c *mpd.Client) error { return c.Play(pos) })
}

func (p *Player) Next() error {
	return p.do(func(c *mpd.Client) error { return c.Next() })
}

func (p *Player) Previous() error {
	return p.do(func(c *mpd.Client) error { return c.Previous() })
}

func (p *Player) Stop() error {
	return p.do(func(c *mpd.Client) error { return c.Stop() })
}

// SetVolume clamps to the MPD range before sending.
func (p *Player) SetVolume(v int) error {
	if v < 0 {
		v = 0
	}
	if v > 100 {
		v = 100
	}
	return p.do(func(c *mpd.Client) error { return c.SetVolume(v) })
}

// Seek moves the play position relative to the current one.
func (p *Player) Seek(delta time.Duration) error {
	return p.do(func(c *mpd.Client) error { return c.SeekCur(delta, true) })
}

func (p *Player) SetRandom(on bool) error {
	return p.do(func(c *mpd.Client) error { return c.Random(on) })
}

func (p *Player) SetRepeat(on bool) error {
	return p.do(func(c *mpd.Client) error { return c.Repeat(on) })
}

// Add appends a URI to the queue.
func (p *Player) Add(uri string) error {
	return p.do(func(c *mpd.Client) error { return c.Add(uri) })
}

// PlayNow appends a URI and jumps to it without clearing the queue.
func (p *Player) PlayNow(uri string) error {
	return p.do(func(c *mpd.Client) error {
		id, err := c.AddID(uri, -1)
		if err != nil {
			return err
		}
		return c.PlayID(id)
	})
}

// Clear empties the queue.
func (p *Player) Clear() error {
	return p.do(func(c *mpd.Client) error { return c.Clear() })
}

func parseState(status, song mpd.Attrs) State {
	st := State{
		Playing:  status["state"] == "play",
		Paused:   status["state"] == "pause",
		Volume:   attrInt(status, "volume"),
		Repeat:   status["repeat"] == "1",
		Random:   status["random"] == "1",
		Elapsed:  attrSeconds(status, "elapsed"),
		Duration: attrSeconds(status, "duration"),
		Pos:      attrInt(status, "song"),
		QueueLen: attrInt(status, "playlistlength"),
		Title:    song["Title"],
		Artist:   song["Artist"],
		Album:    song["Album"],
		File:     song["file"],
	}
	if st.Title == "" && st.File != "" {
		st.Title = filepath.Base(st.File)
	}
	return st
}

func parseQueue(attrs []mpd.Attrs) []QueueItem {
	items := make([]QueueItem, 0, len(attrs))
	for _, a := range attrs {
		item := QueueItem{
			Pos:      attrInt(a, "Pos"),
			ID:       attrInt(a, "Id"),
			Title:    a["Title"],
			Artist:   a["Artist"],
			Album:    a["Album"],
			File:     a["file"],
			Duration: attrSeconds(a, "duration"),
		}
		if item.Duration == 0 {
			item.Duration = time.Duration(attrInt(a, "Time")) * time.Second
		}
		if item.Title == "" && item.File != "" {
			item.Title = filepath.Base(item.File)
		}
		items = append(items, item)
	}
	return items
}

func attrInt(attrs mpd.Attrs, key string) int {
	n, err := strconv.Atoi(attrs[key])
	if err != nil {
		return 0
	}
	return n
}

func attrSeconds(attrs mpd.Attrs, key string) time.Duration {
	f, err := strconv.ParseFloat(attrs[key], 64)
	if err != nil {
		return 0
	}
	return time.Duration(f * float64(time.Second))
}
