// Package nav routes back signals through a fixed-priority chain of
// dismissible UI surfaces.
package nav

import "github.com/rs/zerolog"

// Source is one level in the back precedence chain. Active reports whether
// the surface is currently open; Dismiss closes it. A Source never decides
// priority itself; order of registration does.
type Source struct {
	Name    string
	Active  func() bool
	Dismiss func()
}

// History is the view-stack fallback consulted only when no source is
// active.
type History interface {
	CanGoBack() bool
	GoBack()
}

// Dispatcher walks registered sources highest priority first and dismisses
// exactly one per signal. When nothing is active and history cannot go
// back, the signal is not consumed and falls through to the host default.
type Dispatcher struct {
	sources []Source
	history History
	log     zerolog.Logger
}

// NewDispatcher builds a dispatcher over sources in priority order, highest
// first. history may be nil when no view stack exists.
func NewDispatcher(log zerolog.Logger, history History, sources ...Source) *Dispatcher {
	return &Dispatcher{sources: sources, history: history, log: log}
}

// HandleBack consumes one back signal. The first active source is
// dismissed and the walk stops; remaining sources are never touched.
// Returns false when no source was active and history had nowhere to go.
func (d *Dispatcher) HandleBack() bool {
	for _, s := range d.sources {
		if !s.Active() {
			continue
		}
		d.log.Debug().Str("source", s.Name).Msg("back signal dismissed overlay")
		s.Dismiss()
		return true
	}
	if d.history != nil && d.history.CanGoBack() {
		d.log.Debug().Msg("back signal popped view history")
		d.history.GoBack()
		return true
	}
	return false
}

// BackSource is a host surface that delivers back signals, such as a
// hardware back key bridge. Implementations must tolerate ClearHandler
// without a prior SetHandler.
type BackSource interface {
	SetHandler(func() bool)
	ClearHandler()
}

// Attach installs the dispatcher as the source's back handler and returns
// the matching detach. After detach the source reports signals as not
// consumed, so the host applies its default behavior.
func Attach(src BackSource, d *Dispatcher) (detach func()) {
	src.SetHandler(d.HandleBack)
	return src.ClearHandler
}
