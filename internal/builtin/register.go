package builtin

import "github.com/spf13/afero"

// RegisterAll adds the standard builtins to r.
func RegisterAll(r *Registry) {
	r.Register(&Cd{})
	r.Register(&Exit{})
	r.Register(&Pwd{})
	r.Register(&Sls{Fs: afero.NewOsFs()})
}
