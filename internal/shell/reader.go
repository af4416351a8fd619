package shell

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/abiosoft/readline"
)

// LineReader yields one command line at a time, without its newline.
type LineReader interface {
	ReadLine() (string, error)
	Close() error
}

// NewReader returns a line editor when in is a terminal, and a plain reader
// that echoes each line otherwise.
func (s *Shell) NewReader(in *os.File, echo bool) (LineReader, error) {
	if readline.IsTerminal(int(in.Fd())) {
		rl, err := readline.NewEx(&readline.Config{
			Prompt: s.coloredPrompt(),
			Stdout: s.Stdout,
			Stderr: s.Stderr,
		})
		if err != nil {
			return nil, fmt.Errorf("readline: %w", err)
		}
		return &ttyReader{rl: rl}, nil
	}
	return s.NewPlainReader(in, echo), nil
}

// NewPlainReader reads lines from r, printing the prompt before each and,
// when echo is set, the line itself after it is read.
func (s *Shell) NewPlainReader(r io.Reader, echo bool) LineReader {
	return &plainReader{
		in:     bufio.NewReader(r),
		out:    s.Stdout,
		prompt: s.coloredPrompt(),
		echo:   echo,
	}
}

type ttyReader struct {
	rl *readline.Instance
}

func (t *ttyReader) ReadLine() (string, error) { return t.rl.Readline() }
func (t *ttyReader) Close() error              { return t.rl.Close() }

type plainReader struct {
	in     *bufio.Reader
	out    io.Writer
	prompt string
	echo   bool
}

func (p *plainReader) ReadLine() (string, error) {
	fmt.Fprint(p.out, p.prompt)
	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	line = strings.TrimSuffix(line, "\n")
	if p.echo {
		fmt.Fprintln(p.out, line)
	}
	return line, nil
}

func (p *plainReader) Close() error { return nil }
