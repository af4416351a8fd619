package guard

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/marcelocantos/sshell/internal/config"
)

func TestRmCatastrophic(t *testing.T) {
	tests := []struct {
		argv    []string
		blocked bool
	}{
		{[]string{"rm", "-rf", "/"}, true},
		{[]string{"rm", "-r", "."}, true},
		{[]string{"rm", "-fr", ".."}, true},
		{[]string{"rm", "--recursive", "~"}, true},
		{[]string{"/bin/rm", "-R", "//"}, true},
		{[]string{"rm", "-rf", "build"}, false},
		{[]string{"rm", "/"}, false},
		{[]string{"ls", "-r", "/"}, false},
		{nil, false},
	}
	for _, tt := range tests {
		err := checkRmCatastrophic(tt.argv)
		if tt.blocked && err == nil {
			t.Errorf("%v: expected refusal", tt.argv)
		}
		if !tt.blocked && err != nil {
			t.Errorf("%v: unexpected refusal: %v", tt.argv, err)
		}
	}
}

func TestHasAnyFlag(t *testing.T) {
	tests := []struct {
		args  []string
		flags []string
		want  bool
	}{
		{[]string{"-f"}, []string{"-f"}, true},
		{[]string{"-rf"}, []string{"-f"}, true},
		{[]string{"--force"}, []string{"-f"}, false},
		{[]string{"--depth=2"}, []string{"--depth"}, true},
		{[]string{"f"}, []string{"-f"}, false},
		{[]string{""}, []string{"-f"}, false},
	}
	for _, tt := range tests {
		if got := hasAnyFlag(tt.args, tt.flags...); got != tt.want {
			t.Errorf("hasAnyFlag(%v, %v) = %v, want %v", tt.args, tt.flags, got, tt.want)
		}
	}
}

func TestRejectPrograms(t *testing.T) {
	g := New()
	g.Add(RejectPrograms("shutdown", "reboot"))
	err := g.Check([]string{"reboot", "now"})
	if err == nil || err.Error() != "reboot is not allowed" {
		t.Errorf("unexpected result %v", err)
	}
	if err := g.Check([]string{"echo", "reboot"}); err != nil {
		t.Errorf("only the program name is matched: %v", err)
	}
}

func TestHardcodedRunsFirst(t *testing.T) {
	var calls int
	g := New(Hardcoded()...)
	g.Add(func([]string) error {
		calls++
		return nil
	})
	if err := g.Check([]string{"rm", "-rf", "/"}); err == nil {
		t.Fatal("expected refusal")
	}
	if calls != 0 {
		t.Error("configured checks should not run after a hardcoded refusal")
	}
}

const script = `
def check(argv):
    if argv[0] == "curl" and "--insecure" in argv:
        return "insecure transfers are disabled"
    return None
`

func TestScript(t *testing.T) {
	fn, err := compileScript("guard.star", []byte(script))
	if err != nil {
		t.Fatal(err)
	}
	err = fn([]string{"curl", "--insecure", "example.com"})
	if err == nil || err.Error() != "insecure transfers are disabled" {
		t.Errorf("unexpected result %v", err)
	}
	if err := fn([]string{"curl", "example.com"}); err != nil {
		t.Errorf("unexpected refusal: %v", err)
	}
}

func TestScriptBadReturn(t *testing.T) {
	fn, err := compileScript("guard.star", []byte("def check(argv):\n    return 1\n"))
	if err != nil {
		t.Fatal(err)
	}
	err = fn([]string{"ls"})
	if err == nil || !strings.Contains(err.Error(), "want None or string") {
		t.Errorf("unexpected result %v", err)
	}
}

func TestScriptMissingCheck(t *testing.T) {
	if _, err := compileScript("guard.star", []byte("x = 1\n")); err == nil {
		t.Error("expected an error for a script without check")
	}
}

func TestScriptSyntaxError(t *testing.T) {
	if _, err := compileScript("guard.star", []byte("def check(argv)\n")); err == nil {
		t.Error("expected a syntax error")
	}
}

func TestFromConfig(t *testing.T) {
	g, err := FromConfig(config.GuardConfig{})
	if err != nil || g != nil {
		t.Fatalf("disabled guard: got %v, %v", g, err)
	}

	path := filepath.Join(t.TempDir(), "guard.star")
	if err := os.WriteFile(path, []byte(script), 0644); err != nil {
		t.Fatal(err)
	}
	g, err = FromConfig(config.GuardConfig{
		Enabled: true,
		Script:  path,
		Reject:  []string{"shutdown"},
	})
	if err != nil {
		t.Fatal(err)
	}
	for _, argv := range [][]string{
		{"rm", "-rf", "/"},
		{"shutdown"},
		{"curl", "--insecure", "x"},
	} {
		if err := g.Check(argv); err == nil {
			t.Errorf("%v: expected refusal", argv)
		}
	}
	if err := g.Check([]string{"ls", "-l"}); err != nil {
		t.Errorf("unexpected refusal: %v", err)
	}
}

func TestFromConfigMissingScript(t *testing.T) {
	_, err := FromConfig(config.GuardConfig{
		Enabled: true,
		Script:  filepath.Join(t.TempDir(), "absent.star"),
	})
	if err == nil {
		t.Error("expected an error for a missing script")
	}
}
