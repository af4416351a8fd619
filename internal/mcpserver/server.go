// Package mcpserver exposes the shell to MCP clients over stdio.
package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/marcelocantos/sshell/internal/builtin"
	"github.com/marcelocantos/sshell/internal/shell"
)

// allowed are the builtins a client may run. The rest would change or end
// the serving process.
var allowed = map[string]bool{
	"pwd": true,
	"sls": true,
}

// Server serves the run_line tool.
type Server struct {
	mu   sync.Mutex
	base *shell.Shell
	mcp  *server.MCPServer
}

// New creates a server that runs lines the way base does, with output
// captured instead of written to the process's streams.
func New(base *shell.Shell, version string) *Server {
	restricted := builtin.NewRegistry()
	if base.Builtins != nil {
		for _, b := range base.Builtins.All() {
			if allowed[b.Name()] {
				restricted.Register(b)
			} else {
				restricted.Register(&refused{name: b.Name()})
			}
		}
	}
	sh := *base
	sh.Builtins = restricted

	s := &Server{base: &sh}
	s.mcp = server.NewMCPServer("sshell", version, server.WithToolCapabilities(false))
	s.mcp.AddTool(mcp.NewTool("run_line",
		mcp.WithDescription("Run one sshell command line. Up to four commands joined by | or |&, "+
			"with an optional > or >& output file on the last one. Returns the combined "+
			"output followed by the completion report listing each stage's exit status."),
		mcp.WithString("line",
			mcp.Required(),
			mcp.Description("The command line, e.g. \"ls -l | wc -l\""),
		),
	), s.handleRunLine)
	return s
}

// ServeStdio serves MCP requests on the process's stdin and stdout until
// the client disconnects.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

func (s *Server) handleRunLine(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	line, err := req.RequireString("line")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, err := s.Run(ctx, line)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(out), nil
}

// Run executes line and returns everything it wrote. A line that does not
// parse, or that the engine cannot start, is an error carrying the
// diagnostic.
func (s *Server) Run(ctx context.Context, line string) (string, error) {
	if strings.ContainsRune(line, '\n') {
		return "", errors.New("line must not contain a newline")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := &transcript{}
	sh := *s.base
	// The process's own streams carry the protocol.
	sh.Stdin = strings.NewReader("")
	sh.Stdout = &streamWriter{t: t}
	sh.Stderr = &streamWriter{t: t, stderr: true}

	res := sh.RunLine(ctx, line)
	if res.Err != nil {
		msg := strings.TrimSpace(t.Errors())
		if msg == "" {
			msg = res.Err.Error()
		}
		return "", errors.New(msg)
	}
	return t.String(), nil
}

type refused struct {
	name string
}

func (r *refused) Name() string        { return r.name }
func (r *refused) Description() string { return "not available over MCP" }

func (r *refused) Run(_ context.Context, _ []string, _, stderr io.Writer) error {
	fmt.Fprintf(stderr, "Error: %s is not available\n", r.name)
	return &builtin.ExitError{Code: 1}
}
