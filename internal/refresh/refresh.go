// Package refresh nudges the editor into flushing its in-memory UI state
// to disk before we read it. The editor only checkpoints on certain
// events; briefly stealing and returning window focus is enough to
// trigger one. Strictly best-effort: a failed nudge just means slightly
// staler data.
package refresh

import (
	"context"
	"os/exec"
	"runtime"
	"time"
)

// settleDelay gives the editor time to finish its write after the focus
// switch before the store is queried.
const settleDelay = 300 * time.Millisecond

// Refresher attempts to coax the editor into persisting state. The
// returned bool reports whether the nudge was delivered; it says nothing
// about whether the editor actually wrote.
type Refresher interface {
	AttemptStateRefresh() bool
}

// FocusSwitcher is the platform implementation of Refresher. The zero
// value is ready to use.
type FocusSwitcher struct{}

// AttemptStateRefresh flips application focus away and back, then waits
// the settle delay. Fire and forget: never retried, never an error.
func (FocusSwitcher) AttemptStateRefresh() bool {
	if runtime.GOOS != "darwin" {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	script := `tell application "System Events"
		set frontApp to name of first application process whose frontmost is true
		key code 48 using command down
		delay 0.1
		key code 48 using command down
	end tell`
	if err := exec.CommandContext(ctx, "osascript", "-e", script).Run(); err != nil {
		return false
	}

	time.Sleep(settleDelay)
	return true
}

// Noop is a Refresher that does nothing. Used when the caller disabled
// the refresh step and in tests.
type Noop struct{}

// AttemptStateRefresh reports false without side effects.
func (Noop) AttemptStateRefresh() bool { return false }
