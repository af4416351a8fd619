package cli

import (
	"context"
	"fmt"
	"os"
)

// RunRepl reads lines from in until end of input or exit.
func RunRepl(ctx context.Context, app *App, in *os.File) int {
	sh := app.Shell()
	r, err := sh.NewReader(in, app.Config.EchoNonTTY)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sshell: %v\n", err)
		return 1
	}
	defer r.Close()

	// An interrupt belongs to the running pipeline, not to the shell.
	return sh.Run(context.WithoutCancel(ctx), r)
}

// RunLine runs a single line and returns the status of its last stage.
func RunLine(ctx context.Context, app *App, line string) int {
	return app.Shell().RunLine(ctx, line).Status()
}
