package covers

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memFlags struct {
	mu      sync.Mutex
	vals    map[string]bool
	readErr error
}

func newMemFlags() *memFlags { return &memFlags{vals: map[string]bool{}} }

func (f *memFlags) Flag(_ context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return false, f.readErr
	}
	return f.vals[key], nil
}

func (f *memFlags) SetFlag(_ context.Context, key string, value bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.vals[key] = value
	return nil
}

func TestRunIfNeededSuccess(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	flags := newMemFlags()
	calls := 0
	batch := func(context.Context) (Report, error) {
		calls++
		return Report{Total: 10, Processed: 10, TrackCovers: 7, AlbumCovers: 3}, nil
	}
	m := NewMigrator(flags, batch, zerolog.Nop())

	out := m.RunIfNeeded(ctx)
	require.False(t, out.Skipped)
	require.Equal(t, StatusSucceeded, out.Status)
	assert.Equal(t, DismissSuccess, out.DismissAfter)
	assert.Equal(t, "Migrated 10 covers (7 track, 3 album)", out.Message)

	set, err := flags.Flag(ctx, migratedFlag)
	require.NoError(t, err)
	assert.True(t, set)

	out2 := m.RunIfNeeded(ctx)
	assert.True(t, out2.Skipped)
	assert.Equal(t, StatusIdle, out2.Status)
	assert.Zero(t, out2.DismissAfter)
	assert.Equal(t, 1, calls, "completed migration must not run again")
}

func TestRunIfNeededPartialFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	flags := newMemFlags()
	calls := 0
	batch := func(context.Context) (Report, error) {
		calls++
		return Report{
			Total: 10, Processed: 9, TrackCovers: 6, AlbumCovers: 3,
			Errors: []string{"track item-42: unreadable"},
		}, nil
	}
	m := NewMigrator(flags, batch, zerolog.Nop())

	out := m.RunIfNeeded(ctx)
	require.Equal(t, StatusPartiallyFailed, out.Status)
	assert.Equal(t, DismissFailure, out.DismissAfter)
	assert.Contains(t, out.Message, "1 error(s)")
	require.Len(t, out.Report.Errors, 1)

	set, err := flags.Flag(ctx, migratedFlag)
	require.NoError(t, err)
	assert.False(t, set, "flag must stay unset after a partial failure")

	out2 := m.RunIfNeeded(ctx)
	assert.False(t, out2.Skipped, "failed migration must retry")
	assert.Equal(t, 2, calls)
}

func TestRunIfNeededBatchError(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	flags := newMemFlags()
	batch := func(context.Context) (Report, error) {
		return Report{}, errors.New("covers dir unwritable")
	}
	m := NewMigrator(flags, batch, zerolog.Nop())

	out := m.RunIfNeeded(ctx)
	require.Equal(t, StatusFailed, out.Status)
	assert.Equal(t, DismissFailure, out.DismissAfter)
	assert.Contains(t, out.Message, "failed")

	set, err := flags.Flag(ctx, migratedFlag)
	require.NoError(t, err)
	assert.False(t, set)
}

func TestRunIfNeededDeduplicatesConcurrentCalls(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	flags := newMemFlags()
	gate := make(chan struct{})
	started := make(chan struct{})
	var calls atomic.Int32
	var once sync.Once
	batch := func(context.Context) (Report, error) {
		calls.Add(1)
		once.Do(func() { close(started) })
		<-gate
		return Report{Total: 1, Processed: 1, TrackCovers: 1}, nil
	}
	m := NewMigrator(flags, batch, zerolog.Nop())

	outs := make(chan Outcome, 2)
	go func() { outs <- m.RunIfNeeded(ctx) }()
	<-started

	st, msg, _ := m.Snapshot()
	assert.Equal(t, StatusRunning, st)
	assert.Equal(t, "Migrating cover art to file storage...", msg)

	go func() { outs <- m.RunIfNeeded(ctx) }()
	close(gate)

	first := <-outs
	second := <-outs
	assert.Equal(t, StatusSucceeded, first.Status)
	assert.Equal(t, first, second, "waiter must receive the in-flight outcome")
	assert.Equal(t, int32(1), calls.Load())
}

func TestRunIfNeededFlagReadErrorStillRuns(t *testing.T) {
	t.Parallel()
	flags := newMemFlags()
	flags.readErr = errors.New("settings table locked")
	calls := 0
	batch := func(context.Context) (Report, error) {
		calls++
		return Report{Total: 2, Processed: 2, TrackCovers: 2}, nil
	}
	m := NewMigrator(flags, batch, zerolog.Nop())

	out := m.RunIfNeeded(context.Background())
	assert.Equal(t, StatusSucceeded, out.Status)
	assert.Equal(t, 1, calls)
}

func TestSnapshotBeforeAnyRun(t *testing.T) {
	t.Parallel()
	m := NewMigrator(newMemFlags(), nil, zerolog.Nop())
	st, msg, errs := m.Snapshot()
	assert.Equal(t, StatusIdle, st)
	assert.Empty(t, msg)
	assert.Empty(t, errs)
}
