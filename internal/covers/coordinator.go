package covers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Status is the migration state visible to the UI banner.
type Status int

const (
	StatusIdle Status = iota
	StatusRunning
	StatusSucceeded
	StatusPartiallyFailed
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRunning:
		return "running"
	case StatusSucceeded:
		return "succeeded"
	case StatusPartiallyFailed:
		return "partially_failed"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Banner dismiss delays after a finished run.
const (
	DismissSuccess = 3 * time.Second
	DismissFailure = 5 * time.Second
)

// migratedFlag marks the migration as complete across sessions.
const migratedFlag = "covers_migrated"

// Outcome is what one RunIfNeeded call resolves to.
type Outcome struct {
	// Skipped is set when the completion flag was already persisted and
	// nothing ran.
	Skipped      bool
	Status       Status
	Message      string
	Report       Report
	DismissAfter time.Duration
}

// FlagStore persists the one-time completion marker.
type FlagStore interface {
	Flag(ctx context.Context, key string) (bool, error)
	SetFlag(ctx context.Context, key string, value bool) error
}

// BatchFunc runs the underlying migration batch.
type BatchFunc func(ctx context.Context) (Report, error)

// Migrator coordinates the one-time cover migration. Concurrent
// RunIfNeeded calls are deduplicated: while a run is in flight, callers
// block and receive that run's outcome.
type Migrator struct {
	flags FlagStore
	batch BatchFunc
	log   zerolog.Logger

	mu      sync.Mutex
	status  Status
	message string
	errs    []string
	running bool
	done    chan struct{}
	last    Outcome
}

func NewMigrator(flags FlagStore, batch BatchFunc, log zerolog.Logger) *Migrator {
	return &Migrator{flags: flags, batch: batch, log: log}
}

// Snapshot returns the current status, display message and item errors.
func (m *Migrator) Snapshot() (Status, string, []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status, m.message, m.errs
}

// RunIfNeeded runs the migration unless the completion flag is already
// set. A call arriving while another run is in flight waits for that run
// and returns its outcome instead of starting a second one.
func (m *Migrator) RunIfNeeded(ctx context.Context) Outcome {
	m.mu.Lock()
	if m.running {
		done := m.done
		m.mu.Unlock()
		select {
		case <-done:
			m.mu.Lock()
			out := m.last
			m.mu.Unlock()
			return out
		case <-ctx.Done():
			m.mu.Lock()
			out := Outcome{Status: m.status, Message: m.message}
			m.mu.Unlock()
			return out
		}
	}
	m.running = true
	m.done = make(chan struct{})
	m.mu.Unlock()

	out := m.run(ctx)

	m.mu.Lock()
	m.last = out
	m.status = out.Status
	m.message = out.Message
	m.errs = out.Report.Errors
	m.running = false
	close(m.done)
	m.mu.Unlock()
	return out
}

func (m *Migrator) run(ctx context.Context) Outcome {
	migrated, err := m.flags.Flag(ctx, migratedFlag)
	if err != nil {
		m.log.Warn().Err(err).Msg("read migration flag, assuming not migrated")
	}
	if migrated {
		m.log.Debug().Msg("covers already migrated, skipping")
		return Outcome{Skipped: true, Status: StatusIdle}
	}

	m.setStatus(StatusRunning, Report{})
	m.log.Info().Msg("cover migration started")

	rep, err := m.batch(ctx)
	if err != nil {
		m.log.Error().Err(err).Msg("cover migration failed")
		return Outcome{
			Status:       StatusFailed,
			Message:      statusMessage(StatusFailed, rep),
			Report:       rep,
			DismissAfter: DismissFailure,
		}
	}
	if len(rep.Errors) > 0 {
		m.log.Warn().
			Int("total", rep.Total).
			Int("processed", rep.Processed).
			Int("errors", len(rep.Errors)).
			Msg("cover migration finished with errors")
		return Outcome{
			Status:       StatusPartiallyFailed,
			Message:      statusMessage(StatusPartiallyFailed, rep),
			Report:       rep,
			DismissAfter: DismissFailure,
		}
	}

	if err := m.flags.SetFlag(ctx, migratedFlag, true); err != nil {
		// The run still succeeded; without the flag the next launch
		// re-runs over zero remaining embedded covers.
		m.log.Error().Err(err).Msg("persist migration flag")
	}
	m.log.Info().
		Int("processed", rep.Processed).
		Int("tracks", rep.TrackCovers).
		Int("albums", rep.AlbumCovers).
		Msg("cover migration succeeded")
	return Outcome{
		Status:       StatusSucceeded,
		Message:      statusMessage(StatusSucceeded, rep),
		Report:       rep,
		DismissAfter: DismissSuccess,
	}
}

func (m *Migrator) setStatus(st Status, rep Report) {
	m.mu.Lock()
	m.status = st
	m.message = statusMessage(st, rep)
	m.errs = rep.Errors
	m.mu.Unlock()
}

// statusMessage derives the banner text from the state and counts alone.
func statusMessage(st Status, rep Report) string {
	switch st {
	case StatusRunning:
		return "Migrating cover art to file storage..."
	case StatusSucceeded:
		return fmt.Sprintf("Migrated %d covers (%d track, %d album)", rep.Processed, rep.TrackCovers, rep.AlbumCovers)
	case StatusPartiallyFailed:
		return fmt.Sprintf("Cover migration finished with %d error(s), will retry next launch", len(rep.Errors))
	case StatusFailed:
		return "Cover migration failed, will retry next launch"
	default:
		return ""
	}
}
