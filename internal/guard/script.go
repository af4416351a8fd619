package guard

import (
	"fmt"
	"os"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// LoadScript compiles a Starlark guard script. The script must define
//
//	def check(argv): ...
//
// returning None to allow the stage or a string giving the reason to
// refuse it.
func LoadScript(path string) (CheckFunc, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read guard script: %w", err)
	}
	return compileScript(path, src)
}

func compileScript(filename string, src []byte) (CheckFunc, error) {
	thread := &starlark.Thread{Name: "guard:load"}
	globals, err := starlark.ExecFileOptions(&syntax.FileOptions{}, thread, filename, src, nil)
	if err != nil {
		return nil, fmt.Errorf("load guard script %s: %w", filename, err)
	}
	globals.Freeze()

	check, ok := globals["check"].(starlark.Callable)
	if !ok {
		return nil, fmt.Errorf("guard script %s: no check(argv) function", filename)
	}

	return func(argv []string) error {
		elems := make([]starlark.Value, len(argv))
		for i, a := range argv {
			elems[i] = starlark.String(a)
		}
		// Threads are not shared; each check gets its own.
		thread := &starlark.Thread{Name: "guard:check"}
		v, err := starlark.Call(thread, check, starlark.Tuple{starlark.NewList(elems)}, nil)
		if err != nil {
			return fmt.Errorf("guard script: %w", err)
		}
		switch v := v.(type) {
		case starlark.NoneType:
			return nil
		case starlark.String:
			return fmt.Errorf("%s", string(v))
		default:
			return fmt.Errorf("guard script: check returned %s, want None or string", v.Type())
		}
	}, nil
}
