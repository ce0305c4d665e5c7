// Package procinfo resolves the current working directory of live
// processes. Terminal tabs persist the cwd they had at serialization
// time; the live value is better when the process still exists.
package procinfo

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// lookupTimeout bounds the external lsof call so a wedged process table
// never stalls the whole request.
const lookupTimeout = time.Second

// Resolver resolves process working directories using OS facilities.
// The zero value is ready to use. Satisfies layout.CwdResolver.
type Resolver struct{}

// ResolveProcessWorkingDirectory returns the live cwd of pid, or absent
// if the process is gone or the OS will not tell us. Never errors.
func (Resolver) ResolveProcessWorkingDirectory(pid int) (string, bool) {
	if pid <= 0 {
		return "", false
	}

	// Linux: /proc is authoritative and cheap.
	if cwd, err := os.Readlink(fmt.Sprintf("/proc/%d/cwd", pid)); err == nil {
		return cwd, true
	}

	// Elsewhere (notably darwin): ask lsof, bounded by the timeout.
	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, "lsof", "-a", "-p", fmt.Sprint(pid), "-d", "cwd", "-Fn").Output()
	if err != nil {
		return "", false
	}
	return parseLsofCwd(string(out))
}

// parseLsofCwd extracts the cwd path from `lsof -Fn` field output, where
// the name field is a line prefixed with 'n'.
func parseLsofCwd(out string) (string, bool) {
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "n") && len(line) > 1 {
			return line[1:], true
		}
	}
	return "", false
}
