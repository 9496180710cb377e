//go:build unix

package procpool

import (
	"os/exec"
	"syscall"
)

// exitStatus reports a child's exit code, or -signo if it was killed by a
// signal (spec §4.6: "A child killed by signal is reported as -signo").
func exitStatus(exitErr *exec.ExitError) (int, bool) {
	status, ok := exitErr.Sys().(syscall.WaitStatus)
	if !ok {
		return exitErr.ExitCode(), true
	}
	if status.Signaled() {
		return -int(status.Signal()), true
	}
	return status.ExitStatus(), true
}
