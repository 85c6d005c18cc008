package platform

import (
	"context"
	"os/exec"
	"path/filepath"
	"sync"
)

// Notifier delivers a host notification.
type Notifier interface {
	Notify(ctx context.Context, title, body string) error
}

// ExecNotifier shells out to the host notification tool.
type ExecNotifier struct {
	Tool string
}

func (n ExecNotifier) Notify(ctx context.Context, title, body string) error {
	var args []string
	switch filepath.Base(n.Tool) {
	case "termux-notification":
		args = []string{"--title", title, "--content", body}
	default:
		// notify-send style: positional summary and body.
		args = []string{title, body}
	}
	return exec.CommandContext(ctx, n.Tool, args...).Run()
}

// NoopNotifier drops notifications. Used while the capability is denied or
// no tool is available.
type NoopNotifier struct{}

func (NoopNotifier) Notify(context.Context, string, string) error { return nil }

// SwitchNotifier swaps its delegate at runtime. Startup wires it in as a
// noop and promotes it once the notification phase confirms the
// capability.
type SwitchNotifier struct {
	mu sync.Mutex
	n  Notifier
}

func NewSwitchNotifier(n Notifier) *SwitchNotifier {
	return &SwitchNotifier{n: n}
}

func (s *SwitchNotifier) Set(n Notifier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n = n
}

func (s *SwitchNotifier) Notify(ctx context.Context, title, body string) error {
	s.mu.Lock()
	n := s.n
	s.mu.Unlock()
	if n == nil {
		return nil
	}
	return n.Notify(ctx, title, body)
}

// DefaultTool picks the notification tool for the detected host. An empty
// string means no tool is available.
func DefaultTool(info Info) string {
	if info.Mobile && info.Embedded {
		return "termux-notification"
	}
	if path, err := exec.LookPath("notify-send"); err == nil {
		return path
	}
	return ""
}
