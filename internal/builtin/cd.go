package builtin

import (
	"context"
	"fmt"
	"io"
	"os"
)

// Cd changes the shell's working directory. Chdir defaults to os.Chdir.
type Cd struct {
	Chdir func(dir string) error
}

var _ Builtin = (*Cd)(nil)

func (c *Cd) Name() string        { return "cd" }
func (c *Cd) Description() string { return "change the working directory" }

func (c *Cd) Run(_ context.Context, args []string, _, stderr io.Writer) error {
	chdir := c.Chdir
	if chdir == nil {
		chdir = os.Chdir
	}
	dir := ""
	if len(args) > 0 {
		dir = args[0]
	}
	if err := chdir(dir); err != nil {
		fmt.Fprintln(stderr, "Error: cannot cd into directory")
		return &ExitError{Code: 1}
	}
	return nil
}
