// Package lifecycle sequences startup and teardown of the app's
// collaborators.
package lifecycle

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dupitydumb/Audion-sub001/internal/platform"
)

// Startup phase names, in their fixed run order. The three host phases
// run only on embedded mobile hosts.
const (
	PhasePlatform     = "platform"
	PhaseStores       = "stores"
	PhaseAudio        = "audio"
	PhasePreload      = "preload"
	PhaseBackHandler  = "back_handler"
	PhasePermission   = "permission"
	PhaseNotification = "notification"
	PhaseMigration    = "migration"
)

// PhaseResult records one startup phase run.
type PhaseResult struct {
	Name    string
	Err     error
	Skipped bool
	Took    time.Duration
}

// Sequencer runs startup phases in a fixed order and owns the resources
// they acquire until Teardown. Phases fail independently: an error is
// recorded and the remaining phases still run, so one subsystem cannot
// take the whole app down. Nil hooks are treated as successful no-ops.
type Sequencer struct {
	Platform func(context.Context) (platform.Info, error)
	// Stores opens the database and attaches the visibility handler,
	// returning its detach.
	Stores  func(context.Context) (func(), error)
	Audio   func(context.Context) error
	Preload func(context.Context) error
	// BackHandler binds the back dispatcher to the host, returning its
	// detach.
	BackHandler  func(context.Context) (func(), error)
	Permission   func(context.Context) error
	Notification func(context.Context) error
	Migration    func(context.Context) error
	ClosePlayer  func() error

	Log zerolog.Logger

	mu               sync.Mutex
	info             platform.Info
	results          []PhaseResult
	detachVisibility func()
	detachBack       func()
}

// Startup runs every phase in order and returns the per-phase results.
// The migration phase always runs last so a slow or failing migration
// never delays the interactive surfaces.
func (s *Sequencer) Startup(ctx context.Context) []PhaseResult {
	s.mu.Lock()
	s.results = nil
	s.mu.Unlock()

	s.run(PhasePlatform, func() error {
		if s.Platform == nil {
			return nil
		}
		info, err := s.Platform(ctx)
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.info = info
		s.mu.Unlock()
		return nil
	})

	s.run(PhaseStores, func() error {
		if s.Stores == nil {
			return nil
		}
		detach, err := s.Stores(ctx)
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.detachVisibility = detach
		s.mu.Unlock()
		return nil
	})

	s.runFn(ctx, PhaseAudio, s.Audio)
	s.runFn(ctx, PhasePreload, s.Preload)

	if info := s.Info(); info.Mobile && info.Embedded {
		s.run(PhaseBackHandler, func() error {
			if s.BackHandler == nil {
				return nil
			}
			detach, err := s.BackHandler(ctx)
			if err != nil {
				return err
			}
			s.mu.Lock()
			s.detachBack = detach
			s.mu.Unlock()
			return nil
		})
		s.runFn(ctx, PhasePermission, s.Permission)
		s.runFn(ctx, PhaseNotification, s.Notification)
	} else {
		s.skip(PhaseBackHandler)
		s.skip(PhasePermission)
		s.skip(PhaseNotification)
	}

	s.runFn(ctx, PhaseMigration, s.Migration)
	return s.Results()
}

// Teardown releases startup resources: visibility first so no focus
// callback fires mid-shutdown, then the back handler, then the player
// connection. Safe to call more than once.
func (s *Sequencer) Teardown() {
	s.mu.Lock()
	dv, db := s.detachVisibility, s.detachBack
	s.detachVisibility, s.detachBack = nil, nil
	s.mu.Unlock()

	if dv != nil {
		dv()
	}
	if db != nil {
		db()
	}
	if s.ClosePlayer != nil {
		if err := s.ClosePlayer(); err != nil {
			s.Log.Warn().Err(err).Msg("close player connection")
		}
	}
	s.Log.Info().Msg("teardown complete")
}

// Info returns the platform info captured during startup.
func (s *Sequencer) Info() platform.Info {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.info
}

// Results returns a copy of the recorded phase results.
func (s *Sequencer) Results() []PhaseResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]PhaseResult, len(s.results))
	copy(out, s.results)
	return out
}

// Failed returns the phases that ran and errored.
func (s *Sequencer) Failed() []PhaseResult {
	var out []PhaseResult
	for _, r := range s.Results() {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}

func (s *Sequencer) runFn(ctx context.Context, name string, fn func(context.Context) error) {
	s.run(name, func() error {
		if fn == nil {
			return nil
		}
		return fn(ctx)
	})
}

func (s *Sequencer) run(name string, fn func() error) {
	start := time.Now()
	err := fn()
	took := time.Since(start)

	s.mu.Lock()
	s.results = append(s.results, PhaseResult{Name: name, Err: err, Took: took})
	s.mu.Unlock()

	if err != nil {
		s.Log.Error().Err(err).Str("phase", name).Dur("took", took).Msg("startup phase failed")
		return
	}
	s.Log.Debug().Str("phase", name).Dur("took", took).Msg("startup phase done")
}

func (s *Sequencer) skip(name string) {
	s.mu.Lock()
	s.results = append(s.results, PhaseResult{Name: name, Skipped: true})
	s.mu.Unlock()
	s.Log.Debug().Str("phase", name).Msg("startup phase skipped")
}
