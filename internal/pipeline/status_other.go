//go:build !unix

package pipeline

import "os"

func exitStatus(ps *os.ProcessState) int {
	return ps.ExitCode()
}
