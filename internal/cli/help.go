package cli

import (
	"fmt"
	"strings"

	"github.com/marcelocantos/sshell/internal/pipeline"
)

// Usage describes the command-line language.
func Usage() string {
	var b strings.Builder
	fmt.Fprintln(&b, "sshell: a small Unix shell")
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "syntax:")
	fmt.Fprintf(&b, "  cmd [args...] %c cmd ...     pipe stdout into the next command\n", pipeline.OpPipe)
	fmt.Fprintf(&b, "  cmd %c%c cmd ...              pipe stdout and stderr\n", pipeline.OpPipe, pipeline.OpMerge)
	fmt.Fprintf(&b, "  cmd %c file                  write stdout to file\n", pipeline.OpRedirect)
	fmt.Fprintf(&b, "  cmd %c%c file                 write stdout and stderr to file\n", pipeline.OpRedirect, pipeline.OpMerge)
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "limits:")
	fmt.Fprintf(&b, "  %d commands, %d arguments per command, %d characters per token, %d per line\n",
		pipeline.CmdMax, pipeline.ArgMax, pipeline.TokenMax, pipeline.LineMax)
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "Output redirection is only allowed on the last command.")
	fmt.Fprint(&b, "Builtins (cd, pwd, sls, exit) run only when they start the line.")
	return b.String()
}
