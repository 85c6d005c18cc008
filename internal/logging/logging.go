// Package logging wires zerolog to a dated file under the data dir.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const filePrefix = "audion-"

// Setup opens today's log file under dir, prunes files older than retainDays,
// and returns the root logger plus a close func.
func Setup(dir, level string, retainDays int) (zerolog.Logger, func(), error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("mkdir logs dir: %w", err)
	}

	pruneOldLogs(dir, retainDays, time.Now())

	name := filePrefix + time.Now().Format("2006-01-02") + ".log"
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
	}

	logger := zerolog.New(f).
		Level(parseLevel(level)).
		With().
		Timestamp().
		Logger()

	return logger, func() { _ = f.Close() }, nil
}

// Console returns a human-readable stderr logger for CLI commands.
func Console(level string) zerolog.Logger {
	w := zerolog.ConsoleWriter{Out: os.Stderr}
	return zerolog.New(w).
		Level(parseLevel(level)).
		With().
		Timestamp().
		Logger()
}

func parseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// pruneOldLogs removes dated log files older than retainDays. Files whose
// names do not parse are left alone.
func pruneOldLogs(dir string, retainDays int, now time.Time) {
	if retainDays <= 0 {
		return
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	cutoff := now.AddDate(0, 0, -retainDays)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		day, ok := logFileDate(e.Name())
		if !ok {
			continue
		}
		if day.Before(cutoff) {
			_ = os.Remove(filepath.Join(dir, e.Name()))
		}
	}
}

func logFileDate(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, ".log") {
		return time.Time{}, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), ".log")
	day, err := time.Parse("2006-01-02", stamp)
	if err != nil {
		return time.Time{}, false
	}
	return day, true
}

// CapturePanic logs a panic with its stack before re-raising. Intended as
//
//	defer logging.CapturePanic(log)
//
// at the top of main goroutines.
func CapturePanic(log zerolog.Logger) {
	if r := recover(); r != nil {
		log.Error().
			Interface("panic", r).
			Str("stack", string(debug.Stack())).
			Msg("panic")
		panic(r)
	}
}
