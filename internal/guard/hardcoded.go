package guard

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Hardcoded returns the checks every enabled guard enforces.
func Hardcoded() []CheckFunc {
	return []CheckFunc{
		checkRmCatastrophic,
	}
}

// checkRmCatastrophic blocks recursive removal of root, home, or the
// current or parent directory.
func checkRmCatastrophic(argv []string) error {
	if len(argv) == 0 || filepath.Base(argv[0]) != "rm" {
		return nil
	}
	args := argv[1:]
	if !hasAnyFlag(args, "-r", "-R", "--recursive") {
		return nil
	}
	for _, arg := range args {
		if arg == "" || arg[0] == '-' {
			continue
		}
		cleaned := filepath.Clean(arg)
		if cleaned == "/" || cleaned == "." || cleaned == ".." {
			return fmt.Errorf("refusing to recursively remove %q", arg)
		}
		if strings.TrimRight(arg, "/") == "~" {
			return fmt.Errorf("refusing to recursively remove %q", arg)
		}
	}
	return nil
}
