package pipeline

// Hard limits on a single command line. Exceeding any of them is a parse error.
const (
	LineMax  = 511 // characters per line
	TokenMax = 31  // characters per token
	ArgMax   = 16  // arguments per command, program name included
	CmdMax   = 4   // commands per pipeline
	PipeMax  = CmdMax - 1
)

// Metacharacters recognised by the scanner.
const (
	OpPipe     = '|' // stdout → next stdin
	OpRedirect = '>' // stdout → file
	OpMerge    = '&' // after | or >, include stderr
)

// OutputMode says which streams of a command go to its output file.
type OutputMode int

const (
	OutputNone   OutputMode = iota
	OutputStdout            // >
	OutputBoth              // >&
)

func (m OutputMode) String() string {
	switch m {
	case OutputNone:
		return "none"
	case OutputStdout:
		return ">"
	case OutputBoth:
		return ">&"
	default:
		return "mode(?)"
	}
}

// OutputTarget is a file a command's output is redirected into.
type OutputTarget struct {
	Name string
	Mode OutputMode
}

// Command is one stage of a pipeline.
type Command struct {
	Args         []string      // Args[0] is the program name
	Output       *OutputTarget // nil when output is not redirected
	StderrToPipe bool          // |& on this stage
	ExitStatus   int
}

// Name returns the program name.
func (c *Command) Name() string {
	if len(c.Args) == 0 {
		return ""
	}
	return c.Args[0]
}

// Redirected reports whether the command writes to a file.
func (c *Command) Redirected() bool {
	return c.Output != nil && c.Output.Mode != OutputNone
}

func (c *Command) pushArg(arg string) error {
	if len(c.Args) >= ArgMax {
		return errArgOverflow
	}
	c.Args = append(c.Args, arg)
	return nil
}

// Pipeline is a parsed command line.
type Pipeline struct {
	Commands []*Command
}

// Pipes returns the number of pipes joining the stages.
func (p *Pipeline) Pipes() int {
	if len(p.Commands) == 0 {
		return 0
	}
	return len(p.Commands) - 1
}

// Head returns the first command's program name and its arguments.
func (p *Pipeline) Head() (string, []string) {
	if len(p.Commands) == 0 {
		return "", nil
	}
	c := p.Commands[0]
	if len(c.Args) == 0 {
		return "", nil
	}
	return c.Args[0], c.Args[1:]
}

// ForceExitStatus records a status for the first command without running it.
// Builtins use it; the remaining stages keep status 0.
func (p *Pipeline) ForceExitStatus(code int) {
	if len(p.Commands) > 0 {
		p.Commands[0].ExitStatus = code
	}
}

// ExitStatuses returns every stage's status in stage order.
func (p *Pipeline) ExitStatuses() []int {
	codes := make([]int, len(p.Commands))
	for i, c := range p.Commands {
		codes[i] = c.ExitStatus
	}
	return codes
}

func (p *Pipeline) current() *Command {
	return p.Commands[len(p.Commands)-1]
}

func (p *Pipeline) pushCommand() error {
	if len(p.Commands) >= CmdMax {
		return errPipeOverflow
	}
	p.Commands = append(p.Commands, &Command{})
	return nil
}
