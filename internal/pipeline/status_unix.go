//go:build unix

package pipeline

import (
	"os"
	"syscall"
)

// exitStatus maps a finished process to a shell status. A process killed by
// a signal reports 128 plus the signal number.
func exitStatus(ps *os.ProcessState) int {
	if ws, ok := ps.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal())
	}
	return ps.ExitCode()
}
