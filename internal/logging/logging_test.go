package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLogFileDate(t *testing.T) {
	cases := []struct {
		name string
		ok   bool
	}{
		{"audion-2026-08-20.log", true},
		{"audion-2026-8-20.log", false},
		{"audion-.log", false},
		{"other-2026-08-20.log", false},
		{"audion-2026-08-20.txt", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, ok := logFileDate(c.name)
			if ok != c.ok {
				t.Fatalf("logFileDate(%q) ok = %v, want %v", c.name, ok, c.ok)
			}
		})
	}
}

func TestPruneOldLogs(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

	old := filepath.Join(dir, "audion-2026-08-20.log")
	recent := filepath.Join(dir, "audion-2026-08-24.log")
	unrelated := filepath.Join(dir, "notes.txt")
	for _, p := range []string{old, recent, unrelated} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", p, err)
		}
	}

	pruneOldLogs(dir, 3, now)

	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Fatalf("expected %s removed, stat err = %v", old, err)
	}
	for _, p := range []string{recent, unrelated} {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("expected %s kept: %v", p, err)
		}
	}
}

func TestSetupWritesDatedFile(t *testing.T) {
	dir := t.TempDir()

	log, closeFn, err := Setup(dir, "debug", 3)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	log.Info().Str("component", "test").Msg("hello")
	closeFn()

	name := "audion-" + time.Now().Format("2006-01-02") + ".log"
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), `"hello"`) {
		t.Fatalf("log file missing message: %s", data)
	}
}

func TestParseLevelFallback(t *testing.T) {
	if got := parseLevel("nonsense"); got.String() != "info" {
		t.Fatalf("parseLevel fallback = %s, want info", got)
	}
	if got := parseLevel("Debug"); got.String() != "debug" {
		t.Fatalf("parseLevel(Debug) = %s, want debug", got)
	}
}
