package cli

import (
	"fmt"
	"io"

	"github.com/marcelocantos/sshell/internal/builtin"
)

// RunBuiltins lists the builtin commands.
func RunBuiltins(reg *builtin.Registry, w io.Writer) int {
	for _, b := range reg.All() {
		fmt.Fprintf(w, "%-8s %s\n", b.Name(), b.Description())
	}
	return 0
}
