// Package builtin holds the commands the shell runs itself, without
// creating a process.
package builtin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
)

// Builtin is a command executed inside the shell process.
type Builtin interface {
	// Name is the reserved first token that selects the builtin.
	Name() string

	// Description is a one-line summary for listings.
	Description() string

	// Run executes the builtin. A non-zero status is reported as an
	// *ExitError; ErrExit asks the shell to stop.
	Run(ctx context.Context, args []string, stdout, stderr io.Writer) error
}

// ErrExit is returned by the exit builtin.
var ErrExit = errors.New("exit")

// ExitError carries a builtin's non-zero status. The builtin has already
// printed its own diagnostic.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// Status converts a builtin's result into an exit status.
func Status(err error) int {
	if err == nil || errors.Is(err, ErrExit) {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}

// Registry maps reserved names to builtins.
type Registry struct {
	mu       sync.RWMutex
	builtins map[string]Builtin
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{builtins: make(map[string]Builtin)}
}

// Register adds b, replacing any builtin with the same name.
func (r *Registry) Register(b Builtin) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.builtins[b.Name()] = b
}

// Lookup returns the builtin reserved under name.
func (r *Registry) Lookup(name string) (Builtin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.builtins[name]
	return b, ok
}

// All returns every builtin sorted by name.
func (r *Registry) All() []Builtin {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]Builtin, 0, len(r.builtins))
	for _, b := range r.builtins {
		all = append(all, b)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Name() < all[j].Name()
	})
	return all
}
