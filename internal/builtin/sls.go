package builtin

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"
)

// Sls lists the visible entries of the working directory with their sizes.
type Sls struct {
	Fs afero.Fs
}

var _ Builtin = (*Sls)(nil)

func (s *Sls) Name() string        { return "sls" }
func (s *Sls) Description() string { return "list files in the working directory with sizes" }

func (s *Sls) Run(_ context.Context, _ []string, stdout, stderr io.Writer) error {
	fs := s.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	entries, err := afero.ReadDir(fs, ".")
	if err != nil {
		fmt.Fprintln(stderr, "Error: cannot open directory")
		return &ExitError{Code: 1}
	}
	for _, fi := range entries {
		// Hidden files, "." and ".." are skipped.
		if strings.HasPrefix(fi.Name(), ".") {
			continue
		}
		fmt.Fprintf(stdout, "%s (%d bytes)\n", fi.Name(), fi.Size())
	}
	return nil
}
