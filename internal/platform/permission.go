package platform

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// State is the last known permission outcome. Transient: re-derived on each
// check, never persisted.
type State int

const (
	StateUnknown State = iota
	StateGranted
	StateDenied
)

func (s State) String() string {
	switch s {
	case StateGranted:
		return "granted"
	case StateDenied:
		return "denied"
	default:
		return "unknown"
	}
}

// Requester asks the host for the notification capability. Safe to call
// repeatedly.
type Requester interface {
	Request(ctx context.Context) (bool, error)
}

// SettingsOpener opens the host settings UI. The caller is responsible for
// waiting out the UI before rechecking.
type SettingsOpener interface {
	Open(ctx context.Context) error
}

// RecheckDelay is how long the gate waits after opening settings before the
// single recheck, giving the user time to dismiss the external UI.
const RecheckDelay = time.Second

// Gate tracks the grant/deny state of one host capability and offers a
// single-retry path through the host settings.
type Gate struct {
	Requester Requester
	Opener    SettingsOpener
	Delay     time.Duration
	Log       zerolog.Logger

	state State
}

func NewGate(req Requester, opener SettingsOpener, log zerolog.Logger) *Gate {
	return &Gate{Requester: req, Opener: opener, Delay: RecheckDelay, Log: log}
}

// State returns the outcome of the most recent check.
func (g *Gate) State() State { return g.state }

// CheckAndRequest invokes the host capability request and records the
// outcome. Request errors count as denial: the capability is not usable.
func (g *Gate) CheckAndRequest(ctx context.Context) State {
	granted, err := g.Requester.Request(ctx)
	if err != nil {
		g.Log.Warn().Err(err).Msg("capability request failed")
		g.state = StateDenied
		return g.state
	}
	if granted {
		g.state = StateGranted
	} else {
		g.state = StateDenied
	}
	g.Log.Debug().Stringer("state", g.state).Msg("capability checked")
	return g.state
}

// OpenSettingsAndRecheck opens the host settings, waits the fixed delay,
// then re-invokes the check exactly once. It is a single retry attempt, not
// a poll loop; callers wanting another attempt must call again. A cancelled
// context skips the recheck and returns the current state.
func (g *Gate) OpenSettingsAndRecheck(ctx context.Context) State {
	if err := g.Opener.Open(ctx); err != nil {
		g.Log.Warn().Err(err).Msg("open host settings failed")
	}
	select {
	case <-ctx.Done():
		return g.state
	case <-time.After(g.Delay):
	}
	return g.CheckAndRequest(ctx)
}

// CommandRequester reports the capability granted when the host tool
// resolves on PATH. Resolution is the usable-capability test on terminal
// hosts: a missing tool means notifications cannot be delivered.
type CommandRequester struct {
	Tool string
}

func (r CommandRequester) Request(ctx context.Context) (bool, error) {
	if r.Tool == "" {
		return false, nil
	}
	_, err := exec.LookPath(r.Tool)
	return err == nil, nil
}

// ErrNoSettingsCommand is returned when no settings command is configured.
var ErrNoSettingsCommand = errors.New("no settings command configured")

// ExecOpener opens host settings by running the configured command line.
type ExecOpener struct {
	Command string
}

func (o ExecOpener) Open(ctx context.Context) error {
	fields := strings.Fields(o.Command)
	if len(fields) == 0 {
		return ErrNoSettingsCommand
	}
	return exec.CommandContext(ctx, fields[0], fields[1:]...).Run()
}
