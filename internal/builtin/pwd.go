package builtin

import (
	"context"
	"fmt"
	"io"
	"os"
)

// Pwd prints the working directory.
type Pwd struct{}

var _ Builtin = (*Pwd)(nil)

func (p *Pwd) Name() string        { return "pwd" }
func (p *Pwd) Description() string { return "print the working directory" }

func (p *Pwd) Run(_ context.Context, _ []string, stdout, stderr io.Writer) error {
	wd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return &ExitError{Code: 1}
	}
	fmt.Fprintln(stdout, wd)
	return nil
}
