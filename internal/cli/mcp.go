package cli

import (
	"fmt"
	"io"

	"github.com/marcelocantos/sshell/internal/mcpserver"
	"github.com/marcelocantos/sshell/internal/shell"
)

// RunMCP serves the shell over MCP on stdio.
func RunMCP(app *App, version string, stderr io.Writer) int {
	// Tool results are plain text.
	cfg := *app.Config
	cfg.Color = false
	sh := shell.New(&cfg, app.Builtins, app.Engine, app.History, app.Logger)

	s := mcpserver.New(sh, version)
	app.Logger.Info("serving MCP on stdio")
	if err := s.ServeStdio(); err != nil {
		fmt.Fprintf(stderr, "sshell mcp: %v\n", err)
		return 1
	}
	return 0
}
