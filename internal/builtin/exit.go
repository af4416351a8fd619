package builtin

import (
	"context"
	"fmt"
	"io"
)

// Exit ends the shell after saying goodbye.
type Exit struct{}

var _ Builtin = (*Exit)(nil)

func (e *Exit) Name() string        { return "exit" }
func (e *Exit) Description() string { return "leave the shell" }

func (e *Exit) Run(_ context.Context, _ []string, _, stderr io.Writer) error {
	fmt.Fprintln(stderr, "Bye...")
	return ErrExit
}
