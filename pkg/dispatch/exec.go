package dispatch

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
)

// Exec dispatches URLs through the desktop platform opener. Intended for
// development flows where the partner app runs on a workstation.
type Exec struct {
	goos string
}

// NewExec creates a dispatcher for the current platform.
func NewExec() *Exec {
	return &Exec{goos: runtime.GOOS}
}

// OpenURL invokes the platform opener and waits for it to exit.
func (e *Exec) OpenURL(ctx context.Context, rawURL string) error {
	name, args := e.openerCommand(rawURL)

	cmd := exec.CommandContext(ctx, name, args...)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open %s via %s: %w", rawURL, name, err)
	}
	return nil
}

// openerCommand picks the opener binary for the platform.
func (e *Exec) openerCommand(rawURL string) (string, []string) {
	switch e.goos {
	case "darwin":
		return "open", []string{rawURL}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", rawURL}
	default:
		return "xdg-open", []string{rawURL}
	}
}
