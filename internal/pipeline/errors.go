package pipeline

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a parse failure.
type ErrorKind int

const (
	MissingToken       ErrorKind = iota // empty command or filename
	BadFile                             // output file cannot be opened
	ArgOverflow                         // more than ArgMax arguments
	PipeOverflow                        // more than PipeMax pipes
	MislocatedRedirect                  // > followed by | on the same stage
	TokenOverflow                       // token longer than TokenMax
	LineOverflow                        // line longer than LineMax
)

func (k ErrorKind) String() string {
	switch k {
	case MissingToken:
		return "missing token"
	case BadFile:
		return "bad file"
	case ArgOverflow:
		return "argument overflow"
	case PipeOverflow:
		return "pipe overflow"
	case MislocatedRedirect:
		return "mislocated redirect"
	case TokenOverflow:
		return "token overflow"
	case LineOverflow:
		return "line overflow"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Mode is what the scanner is looking for when a token completes.
type Mode int

const (
	SeekingArgument Mode = iota
	SeekingFilename
)

func (m Mode) String() string {
	if m == SeekingFilename {
		return "filename"
	}
	return "argument"
}

// ParseError is the first violation found on a line.
type ParseError struct {
	Kind ErrorKind
	Mode Mode  // scan mode at the failure, meaningful for MissingToken
	Pos  int   // byte offset of the character that exposed the failure
	Err  error // underlying cause, set for BadFile

	empty bool
}

// Empty reports whether the line held no command at all. The REPL treats
// this as nothing to do rather than as a diagnostic.
func (e *ParseError) Empty() bool { return e.empty }

// Error returns the diagnostic shown to the user.
func (e *ParseError) Error() string {
	switch e.Kind {
	case MissingToken:
		if e.Mode == SeekingFilename {
			return "Error: no output file"
		}
		return "Error: missing command"
	case BadFile:
		return "Error: cannot open output file"
	case ArgOverflow:
		return "Error: too many process arguments"
	case PipeOverflow:
		return "Error: too many pipes"
	case MislocatedRedirect:
		return "Error: mislocated output redirection"
	case TokenOverflow:
		return "Error: token too long"
	case LineOverflow:
		return "Error: command line too long"
	default:
		return "Error: " + e.Kind.String()
	}
}

func (e *ParseError) Unwrap() error { return e.Err }

// KindOf returns the parse error kind carried by err, if any.
func KindOf(err error) (ErrorKind, bool) {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Kind, true
	}
	return 0, false
}

// Overflow sentinels returned by the bounded containers.
var (
	errArgOverflow  = errors.New("argument overflow")
	errPipeOverflow = errors.New("pipe overflow")
)
