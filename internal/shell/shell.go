// Package shell is the read-eval loop: it reads lines, parses them, runs
// them through the builtins or the execution engine, and reports completion.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/abiosoft/readline"
	"github.com/fatih/color"

	"github.com/marcelocantos/sshell/internal/builtin"
	"github.com/marcelocantos/sshell/internal/config"
	"github.com/marcelocantos/sshell/internal/history"
	"github.com/marcelocantos/sshell/internal/pipeline"
)

// Shell runs command lines.
type Shell struct {
	Prompt   string
	Builtins *builtin.Registry
	Engine   *pipeline.Engine
	Resolver pipeline.Resolver // nil resolves against the working directory
	History  *history.Logger   // nil disables history
	Logger   *slog.Logger

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	promptColor *color.Color
	errColor    *color.Color
}

// New creates a shell wired to the process's standard streams.
func New(cfg *config.Config, reg *builtin.Registry, engine *pipeline.Engine, hist *history.Logger, logger *slog.Logger) *Shell {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Shell{
		Prompt:      cfg.Prompt,
		Builtins:    reg,
		Engine:      engine,
		History:     hist,
		Logger:      logger,
		Stdin:       os.Stdin,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		promptColor: color.New(color.FgGreen, color.Bold),
		errColor:    color.New(color.FgRed),
	}
	if cfg.Color {
		s.promptColor.EnableColor()
		s.errColor.EnableColor()
	} else {
		s.promptColor.DisableColor()
		s.errColor.DisableColor()
	}
	return s
}

// Result describes one processed line.
type Result struct {
	Statuses []int // per stage, nil when the line did not run
	Builtin  bool
	Exit     bool  // the exit builtin ran
	Err      error // parse or engine failure
}

// Status is the status of the last stage, or 1 when the line did not run.
func (r Result) Status() int {
	if len(r.Statuses) == 0 {
		if r.Err == nil {
			return 0
		}
		return 1
	}
	return r.Statuses[len(r.Statuses)-1]
}

// Run reads and executes lines until end of input or exit. It returns the
// process exit status.
func (s *Shell) Run(ctx context.Context, r LineReader) int {
	for {
		line, err := r.ReadLine()
		switch {
		case errors.Is(err, readline.ErrInterrupt):
			continue
		case errors.Is(err, io.EOF):
			return 0
		case err != nil:
			fmt.Fprintf(s.Stderr, "sshell: %v\n", err)
			return 1
		}
		if res := s.RunLine(ctx, line); res.Exit {
			return 0
		}
		if ctx.Err() != nil {
			return 1
		}
	}
}

// RunLine parses and executes a single line.
func (s *Shell) RunLine(ctx context.Context, line string) Result {
	line = strings.TrimSuffix(line, "\n")
	log := s.logger()

	p, err := pipeline.Parse(line, s.Resolver)
	if err != nil {
		var perr *pipeline.ParseError
		if errors.As(err, &perr) && perr.Empty() {
			return Result{Err: err}
		}
		log.Debug("parse failed", "line", line, "err", err)
		s.diag("%s\n", err)
		return Result{Err: err}
	}

	start := time.Now()
	var res Result
	name, args := p.Head()
	if b, ok := s.builtins().Lookup(name); ok {
		// Only the first command runs; redirection does not apply.
		err := b.Run(ctx, args, s.Stdout, s.Stderr)
		p.ForceExitStatus(builtin.Status(err))
		res.Builtin = true
		res.Exit = errors.Is(err, builtin.ErrExit)
	} else if err := s.engine().Execute(ctx, p, pipeline.Streams{
		Stdin:  s.Stdin,
		Stdout: s.Stdout,
		Stderr: s.Stderr,
	}); err != nil {
		log.Warn("execute failed", "line", line, "err", err)
		s.diag("Error: %v\n", err)
		return Result{Err: err}
	}
	res.Statuses = p.ExitStatuses()

	fmt.Fprintf(s.Stderr, "+ completed '%s' %s\n", line, FormatStatuses(res.Statuses))
	s.record(line, res, time.Since(start))
	return res
}

func (s *Shell) record(line string, res Result, d time.Duration) {
	if s.History == nil {
		return
	}
	cwd, _ := os.Getwd()
	if err := s.History.Log(line, res.Statuses, res.Builtin, d, cwd); err != nil {
		s.logger().Warn("history", "err", err)
	}
}

func (s *Shell) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

func (s *Shell) builtins() *builtin.Registry {
	if s.Builtins == nil {
		s.Builtins = builtin.NewRegistry()
	}
	return s.Builtins
}

func (s *Shell) engine() *pipeline.Engine {
	if s.Engine == nil {
		s.Engine = &pipeline.Engine{Logger: s.Logger}
	}
	return s.Engine
}

func (s *Shell) diag(format string, a ...any) {
	if s.errColor == nil {
		fmt.Fprintf(s.Stderr, format, a...)
		return
	}
	s.errColor.Fprintf(s.Stderr, format, a...)
}

// coloredPrompt returns the prompt as it should be printed.
func (s *Shell) coloredPrompt() string {
	if s.promptColor == nil {
		return s.Prompt
	}
	return s.promptColor.Sprint(s.Prompt)
}

// FormatStatuses renders statuses as in the completion report: [0][1].
func FormatStatuses(codes []int) string {
	var b strings.Builder
	for _, c := range codes {
		fmt.Fprintf(&b, "[%d]", c)
	}
	return b.String()
}
