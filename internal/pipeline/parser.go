package pipeline

// Parse scans a raw command line into a Pipeline in a single left-to-right
// pass. The first violation encountered is returned as a *ParseError; no
// later character is examined once one is found.
//
// Output filenames are checked with r as soon as they complete, which may
// create the file. A nil r checks against the real filesystem.
func Parse(line string, r Resolver) (*Pipeline, error) {
	if r == nil {
		r = NewFileResolver()
	}
	ps := &parser{
		line:     line,
		resolver: r,
		p:        &Pipeline{Commands: []*Command{{}}},
		slot:     argumentSlot(0),
	}
	p, err := ps.run()
	if err != nil {
		return nil, err
	}
	return p, nil
}

type parser struct {
	line     string
	resolver Resolver
	p        *Pipeline

	tok     []byte
	pos     int
	state   scanState
	slot    slot
	pending OutputMode // mode of the > waiting for its filename
}

func (ps *parser) run() (*Pipeline, error) {
	for ps.pos = 0; ps.pos < len(ps.line); ps.pos++ {
		if ps.pos >= LineMax {
			return nil, ps.fail(LineOverflow, nil)
		}
		c := ps.line[ps.pos]
		var err error
		switch {
		case c == OpPipe:
			err = ps.pipe()
		case c == OpRedirect:
			err = ps.redirect()
		case isSpace(c):
			ps.state = ps.state.onSpace()
		default:
			err = ps.char(c)
		}
		if err != nil {
			return nil, err
		}
	}
	return ps.finish()
}

func (ps *parser) pipe() error {
	if err := ps.flush(); err != nil {
		return err
	}
	if ps.p.current().Redirected() {
		return ps.fail(MislocatedRedirect, nil)
	}
	prev := ps.p.current()
	if err := ps.p.pushCommand(); err != nil {
		return ps.fail(PipeOverflow, err)
	}
	if ps.merge() {
		prev.StderrToPipe = true
	}
	ps.slot = argumentSlot(0)
	ps.state = stateBeforeFirstToken
	ps.pending = OutputNone
	return nil
}

func (ps *parser) redirect() error {
	if err := ps.flush(); err != nil {
		return err
	}
	ps.pending = OutputStdout
	if ps.merge() {
		ps.pending = OutputBoth
	}
	ps.slot = filenameSlot
	ps.state = stateBeforeFirstToken
	return nil
}

func (ps *parser) char(c byte) error {
	next, flush := ps.state.onChar()
	if flush {
		if err := ps.flush(); err != nil {
			return err
		}
	}
	if len(ps.tok) >= TokenMax {
		return ps.fail(TokenOverflow, nil)
	}
	ps.tok = append(ps.tok, c)
	ps.state = next
	return nil
}

func (ps *parser) finish() (*Pipeline, error) {
	if len(ps.tok) == 0 && len(ps.p.Commands[0].Args) == 0 {
		pe := ps.fail(MissingToken, nil)
		pe.empty = true
		return nil, pe
	}
	if err := ps.flush(); err != nil {
		return nil, err
	}
	return ps.p, nil
}

// flush stores the pending token in the active slot. The slot then moves
// to the current command's next argument.
func (ps *parser) flush() error {
	if len(ps.tok) == 0 {
		return ps.fail(MissingToken, nil)
	}
	tok := string(ps.tok)
	ps.tok = ps.tok[:0]

	cmd := ps.p.current()
	switch ps.slot.kind {
	case slotFilename:
		if err := ps.resolver.Resolve(tok); err != nil {
			return ps.fail(BadFile, err)
		}
		cmd.Output = &OutputTarget{Name: tok, Mode: ps.pending}
		ps.pending = OutputNone
	default:
		if err := cmd.pushArg(tok); err != nil {
			return ps.fail(ArgOverflow, err)
		}
	}
	ps.slot = argumentSlot(len(cmd.Args))
	return nil
}

// merge consumes an & directly after the current operator.
func (ps *parser) merge() bool {
	next := ps.pos + 1
	if next < len(ps.line) && next < LineMax && ps.line[next] == OpMerge {
		ps.pos = next
		return true
	}
	return false
}

func (ps *parser) fail(kind ErrorKind, err error) *ParseError {
	return &ParseError{Kind: kind, Mode: ps.slot.mode(), Pos: ps.pos, Err: err}
}
