package guard

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/marcelocantos/sshell/internal/config"
)

// CompileProgramRule turns one program's flag rules into checks.
func CompileProgramRule(program string, rule config.ProgramRule) []CheckFunc {
	var fns []CheckFunc

	if len(rule.RejectFlags) > 0 {
		flags := rule.RejectFlags
		fns = append(fns, func(argv []string) error {
			if !isProgram(argv, program) {
				return nil
			}
			if hasAnyFlag(argv[1:], flags...) {
				return fmt.Errorf("%s: rejected flag", program)
			}
			return nil
		})
	}

	subs := make([]string, 0, len(rule.Subcommands))
	for sub := range rule.Subcommands {
		subs = append(subs, sub)
	}
	sort.Strings(subs)
	for _, sub := range subs {
		flags := rule.Subcommands[sub].RejectFlags
		if len(flags) == 0 {
			continue
		}
		fns = append(fns, func(argv []string) error {
			if !isProgram(argv, program) || len(argv) < 2 || argv[1] != sub {
				return nil
			}
			if hasAnyFlag(argv[2:], flags...) {
				return fmt.Errorf("%s %s: rejected flag", program, sub)
			}
			return nil
		})
	}

	return fns
}

func isProgram(argv []string, program string) bool {
	return len(argv) > 0 && filepath.Base(argv[0]) == program
}
