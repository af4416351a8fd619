package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// EndpointKind says what a stage stream is connected to.
type EndpointKind int

const (
	Inherit   EndpointKind = iota // the shell's own stream
	PipeRead                      // read end of Endpoint.Pipe
	PipeWrite                     // write end of Endpoint.Pipe
	File                          // the stage's output file
)

// Endpoint is one end of a stage stream.
type Endpoint struct {
	Kind EndpointKind
	Pipe int // pipe index for PipeRead and PipeWrite
}

// StagePlan is the descriptor wiring for one stage.
type StagePlan struct {
	Stdin, Stdout, Stderr Endpoint
	Output                *OutputTarget // set when some stream is File
}

// Plan computes the wiring of every stage of p. Stage i writes into pipe i
// and reads from pipe i-1; an output file overrides any pipe on the streams
// it covers.
func Plan(p *Pipeline) []StagePlan {
	n := len(p.Commands)
	plans := make([]StagePlan, n)
	for i, c := range p.Commands {
		sp := &plans[i]
		if i > 0 {
			sp.Stdin = Endpoint{Kind: PipeRead, Pipe: i - 1}
		}
		if i < n-1 {
			sp.Stdout = Endpoint{Kind: PipeWrite, Pipe: i}
			if c.StderrToPipe {
				sp.Stderr = Endpoint{Kind: PipeWrite, Pipe: i}
			}
		}
		if c.Redirected() {
			sp.Output = c.Output
			sp.Stdout = Endpoint{Kind: File}
			if c.Output.Mode == OutputBoth {
				sp.Stderr = Endpoint{Kind: File}
			}
		}
	}
	return plans
}

// Streams are the shell's standard streams. The first stage reads the
// shell's stdin, the last writes its stdout, and stderr is shared unless
// redirected.
type Streams struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// StdStreams returns the process's own standard streams.
func StdStreams() Streams {
	return Streams{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Engine runs parsed pipelines as OS processes.
type Engine struct {
	Dir    string                    // working directory for stages, "" for the current one
	Env    []string                  // nil inherits the environment
	Guard  func(argv []string) error // optional launch veto
	Logger *slog.Logger
}

func (e *Engine) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.Default()
	}
	return e.Logger
}

// path resolves an output filename against the engine's directory.
func (e *Engine) path(name string) string {
	if e.Dir == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(e.Dir, name)
}

type osPipe struct {
	r, w *os.File
}

// Execute runs every stage of p concurrently and records each stage's exit
// status in p. All stages are started before any is waited on, and they are
// waited on in stage order. A stage that fails to launch does not stop the
// others. The returned error is for failures of the engine itself, in which
// case no stage was started.
func (e *Engine) Execute(ctx context.Context, p *Pipeline, s Streams) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(p.Commands) == 0 {
		return fmt.Errorf("empty pipeline")
	}
	s = s.withDefaults()
	log := e.logger()

	pipes, err := openPipes(p.Pipes())
	if err != nil {
		return err
	}

	plans := Plan(p)
	procs := make([]*Process, len(p.Commands))
	var files []*os.File
	for i, c := range p.Commands {
		spec := ProcSpec{
			Argv:  c.Args,
			Dir:   e.Dir,
			Env:   e.Env,
			Check: e.Guard,
		}
		var out *os.File
		if plans[i].Output != nil {
			// Only now is the file truncated.
			out, err = os.OpenFile(e.path(plans[i].Output.Name), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
			if err != nil {
				spec.Stderr = s.Stderr
				procs[i] = failed(spec, err, "Error: cannot open output file")
				log.Debug("stage output", "stage", i, "file", plans[i].Output.Name, "err", err)
				continue
			}
			files = append(files, out)
		}
		spec.Stdin = resolveReader(plans[i].Stdin, pipes, s.Stdin)
		spec.Stdout = resolveWriter(plans[i].Stdout, pipes, out, s.Stdout)
		spec.Stderr = resolveWriter(plans[i].Stderr, pipes, out, s.Stderr)

		procs[i] = Spawn(spec)
		log.Debug("spawned stage", "stage", i, "argv", c.Args, "pid", procs[i].Pid(), "started", procs[i].Started())
	}

	// The parent never uses these; keeping a write end open would stop
	// readers from ever seeing EOF.
	closePipes(pipes)
	for _, f := range files {
		f.Close()
	}

	for i, proc := range procs {
		p.Commands[i].ExitStatus = proc.Wait()
		log.Debug("stage exited", "stage", i, "pid", proc.Pid(), "status", p.Commands[i].ExitStatus)
	}
	return nil
}

func (s Streams) withDefaults() Streams {
	if s.Stdin == nil {
		s.Stdin = os.Stdin
	}
	if s.Stdout == nil {
		s.Stdout = os.Stdout
	}
	if s.Stderr == nil {
		s.Stderr = os.Stderr
	}
	return s
}

func openPipes(n int) ([]osPipe, error) {
	pipes := make([]osPipe, 0, n)
	for i := 0; i < n; i++ {
		r, w, err := os.Pipe()
		if err != nil {
			closePipes(pipes)
			return nil, fmt.Errorf("pipe %d: %w", i, err)
		}
		pipes = append(pipes, osPipe{r: r, w: w})
	}
	return pipes, nil
}

func closePipes(pipes []osPipe) {
	for _, p := range pipes {
		p.r.Close()
		p.w.Close()
	}
}

func resolveReader(ep Endpoint, pipes []osPipe, inherit io.Reader) io.Reader {
	if ep.Kind == PipeRead {
		return pipes[ep.Pipe].r
	}
	return inherit
}

func resolveWriter(ep Endpoint, pipes []osPipe, file *os.File, inherit io.Writer) io.Writer {
	switch ep.Kind {
	case PipeWrite:
		return pipes[ep.Pipe].w
	case File:
		return file
	default:
		return inherit
	}
}
