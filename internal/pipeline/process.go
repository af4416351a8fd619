package pipeline

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// ProcSpec describes one process to start: its argument vector and the
// streams it is wired to.
type ProcSpec struct {
	Argv   []string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Dir    string
	Env    []string // nil inherits the parent environment

	// Check, when set, may veto the launch. The returned error text becomes
	// the stage's diagnostic.
	Check func(argv []string) error
}

// Process is a handle on a started stage. A stage that could not be
// launched is still represented by a Process that has already exited with
// status 1, so callers wait on every stage the same way.
type Process struct {
	argv   []string
	cmd    *exec.Cmd
	code   int
	err    error
	waited bool
}

// Spawn starts the process described by spec and returns at once. It never
// waits for the process. Launch failures are reported on spec.Stderr.
func Spawn(spec ProcSpec) *Process {
	if len(spec.Argv) == 0 {
		return failed(spec, errors.New("empty argument vector"), "Error: missing command")
	}
	if spec.Check != nil {
		if err := spec.Check(spec.Argv); err != nil {
			return failed(spec, err, "Error: "+err.Error())
		}
	}

	cmd := exec.Command(spec.Argv[0], spec.Argv[1:]...)
	cmd.Dir = spec.Dir
	cmd.Env = spec.Env
	cmd.Stdin = spec.Stdin
	cmd.Stdout = spec.Stdout
	cmd.Stderr = spec.Stderr
	if err := cmd.Start(); err != nil {
		return failed(spec, err, "Error: command not found")
	}
	return &Process{argv: spec.Argv, cmd: cmd}
}

func failed(spec ProcSpec, err error, msg string) *Process {
	w := spec.Stderr
	if w == nil {
		w = os.Stderr
	}
	fmt.Fprintln(w, msg)
	return &Process{argv: spec.Argv, code: 1, err: err}
}

// Pid returns the OS process id, or 0 if the stage never started.
func (p *Process) Pid() int {
	if p.cmd == nil || p.cmd.Process == nil {
		return 0
	}
	return p.cmd.Process.Pid
}

// Started reports whether an OS process was created.
func (p *Process) Started() bool { return p.cmd != nil }

// LaunchErr returns why the stage could not be started, if it was not.
func (p *Process) LaunchErr() error { return p.err }

// Wait blocks until the process exits and returns its exit status.
// Waiting again returns the same status.
func (p *Process) Wait() int {
	if p.cmd == nil || p.waited {
		return p.code
	}
	p.waited = true
	// Exit statuses come from ProcessState; the error only matters when no
	// state was recorded at all.
	if err := p.cmd.Wait(); err != nil && p.cmd.ProcessState == nil {
		p.err = err
		p.code = 1
		return p.code
	}
	p.code = exitStatus(p.cmd.ProcessState)
	return p.code
}
