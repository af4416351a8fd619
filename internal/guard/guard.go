// Package guard vetoes pipeline stages before they are launched. A vetoed
// stage fails like an unknown program: it prints the reason and exits 1.
package guard

import (
	"fmt"
	"sort"
	"strings"

	"github.com/marcelocantos/sshell/internal/config"
)

// CheckFunc inspects a stage's argument vector. A non-nil error blocks it.
type CheckFunc func(argv []string) error

// Guard holds an ordered list of checks. Hardcoded checks run first and
// cannot be removed.
type Guard struct {
	hardcoded []CheckFunc
	config    []CheckFunc
}

// New creates a Guard with the given hardcoded checks.
func New(hardcoded ...CheckFunc) *Guard {
	return &Guard{hardcoded: hardcoded}
}

// Add appends a configured check.
func (g *Guard) Add(fn CheckFunc) {
	g.config = append(g.config, fn)
}

// Check runs every check against argv and returns the first refusal.
func (g *Guard) Check(argv []string) error {
	for _, fn := range g.hardcoded {
		if err := fn(argv); err != nil {
			return err
		}
	}
	for _, fn := range g.config {
		if err := fn(argv); err != nil {
			return err
		}
	}
	return nil
}

// FromConfig builds the guard described by cfg. It returns nil when the
// guard is disabled.
func FromConfig(cfg config.GuardConfig) (*Guard, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	g := New(Hardcoded()...)
	if len(cfg.Reject) > 0 {
		g.Add(RejectPrograms(cfg.Reject...))
	}
	names := make([]string, 0, len(cfg.Programs))
	for name := range cfg.Programs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for _, fn := range CompileProgramRule(name, cfg.Programs[name]) {
			g.Add(fn)
		}
	}
	if cfg.Script != "" {
		fn, err := LoadScript(cfg.Script)
		if err != nil {
			return nil, err
		}
		g.Add(fn)
	}
	return g, nil
}

// RejectPrograms blocks the named programs outright.
func RejectPrograms(names ...string) CheckFunc {
	blocked := make(map[string]bool, len(names))
	for _, n := range names {
		blocked[n] = true
	}
	return func(argv []string) error {
		if len(argv) > 0 && blocked[argv[0]] {
			return fmt.Errorf("%s is not allowed", argv[0])
		}
		return nil
	}
}

// hasAnyFlag checks whether any element in args matches one of the given flags.
// It handles:
//   - Exact match: "-f" matches "-f"
//   - Combined short flags: "-rf" matches "-r" and "-f"
//   - Long flag with =: "--flag=value" matches "--flag"
func hasAnyFlag(args []string, flags ...string) bool {
	for _, arg := range args {
		if arg == "" || arg[0] != '-' {
			continue
		}
		for _, flag := range flags {
			if arg == flag {
				return true
			}
			if len(flag) == 2 && flag[0] == '-' && flag[1] != '-' &&
				len(arg) > 2 && arg[1] != '-' {
				if strings.ContainsRune(arg[1:], rune(flag[1])) {
					return true
				}
			}
			if len(flag) > 2 && flag[0:2] == "--" && strings.HasPrefix(arg, flag+"=") {
				return true
			}
		}
	}
	return false
}
