package pipeline

import (
	"os"

	"github.com/spf13/afero"
)

// Resolver checks that an output filename is usable before the parser
// accepts it.
type Resolver interface {
	Resolve(name string) error
}

// FileResolver opens the target for writing, creating it when missing, and
// closes it straight away. It never truncates: a line that fails later in
// the parse must not destroy the file's contents.
type FileResolver struct {
	Fs afero.Fs
}

// NewFileResolver returns a resolver over the real filesystem.
func NewFileResolver() *FileResolver {
	return &FileResolver{Fs: afero.NewOsFs()}
}

func (r *FileResolver) Resolve(name string) error {
	fs := r.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	f, err := fs.OpenFile(name, os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		return err
	}
	return f.Close()
}
