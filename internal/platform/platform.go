// Package platform detects the host environment and wraps its native
// capability surface (permissions, notifications, settings).
package platform

import (
	"os"
	"os/exec"
	"runtime"
)

// Info describes the detected host. Later startup phases read these flags,
// so detection runs first.
type Info struct {
	OS   string
	Arch string

	// Mobile is true when running on an Android terminal (Termux).
	Mobile bool

	// Embedded is true when an embedded-native host exposing capability
	// APIs (Termux:API) is present. The back-signal handler and the
	// notification service are only installed when both flags hold.
	Embedded bool
}

// Detect probes the environment once at startup.
func Detect() Info {
	return detect(os.Getenv, exec.LookPath)
}

func detect(getenv func(string) string, look func(string) (string, error)) Info {
	info := Info{OS: runtime.GOOS, Arch: runtime.GOARCH}
	if getenv("TERMUX_VERSION") != "" {
		info.Mobile = true
	} else if getenv("ANDROID_ROOT") != "" && getenv("ANDROID_DATA") != "" {
		info.Mobile = true
	}
	if info.Mobile {
		if _, err := look("termux-notification"); err == nil {
			info.Embedded = true
		}
	}
	return info
}
