package history

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"
)

func logLines(t *testing.T, l *Logger, lines ...string) {
	t.Helper()
	for i, line := range lines {
		if err := l.Log(line, []int{0, i}, false, time.Millisecond, "/tmp"); err != nil {
			t.Fatalf("log %q: %v", line, err)
		}
	}
}

func TestLogAndVerify(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	l, err := NewLogger(path)
	if err != nil {
		t.Fatal(err)
	}
	logLines(t, l, "ls | wc", "false | true", "echo hi > out")

	if err := Verify(path); err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	entries, err := Tail(path, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[1].Line != "false | true" || !reflect.DeepEqual(entries[1].Statuses, []int{0, 1}) {
		t.Errorf("unexpected entry %+v", entries[1])
	}
	if entries[0].Session == "" || entries[0].Session != l.Session() {
		t.Errorf("expected session %q, got %q", l.Session(), entries[0].Session)
	}
}

func TestVerifyDetectsTampering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	l, err := NewLogger(path)
	if err != nil {
		t.Fatal(err)
	}
	logLines(t, l, "a", "b", "c")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	mid := len(data) / 2
	if data[mid] == 'a' {
		data[mid] = 'b'
	} else {
		data[mid] = 'a'
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatal(err)
	}

	if err := Verify(path); err == nil {
		t.Fatal("expected verify to detect tampering")
	}
}

func TestVerifyDetectsSequenceGap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	l, err := NewLogger(path)
	if err != nil {
		t.Fatal(err)
	}
	logLines(t, l, "1", "2", "3", "4")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := splitLines(data)
	var out []byte
	for i, line := range lines {
		if i == 1 {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	if err := os.WriteFile(path, out, 0600); err != nil {
		t.Fatal(err)
	}

	if err := Verify(path); err == nil {
		t.Fatal("expected verify to detect the missing entry")
	}
}

func TestVerifyEmptyLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	if err := os.WriteFile(path, nil, 0600); err != nil {
		t.Fatal(err)
	}
	if err := Verify(path); err != nil {
		t.Fatalf("empty history should be valid: %v", err)
	}
}

func TestLoggerResumesChain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")

	first, err := NewLogger(path)
	if err != nil {
		t.Fatal(err)
	}
	logLines(t, first, "pwd", "sls")

	// A new shell session continues the same chain.
	second, err := NewLogger(path)
	if err != nil {
		t.Fatal(err)
	}
	logLines(t, second, "cd /")

	if err := Verify(path); err != nil {
		t.Fatalf("chain should survive a restart: %v", err)
	}
	entries, err := Tail(path, 2)
	if err != nil {
		t.Fatal(err)
	}
	if entries[1].Seq != 3 {
		t.Errorf("expected seq 3, got %d", entries[1].Seq)
	}
	if entries[0].Session == entries[1].Session {
		t.Error("each logger should stamp its own session")
	}
}

func TestTailNonPositive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	l, err := NewLogger(path)
	if err != nil {
		t.Fatal(err)
	}
	logLines(t, l, "pwd")

	for _, n := range []int{0, -1, -100} {
		entries, err := Tail(path, n)
		if err != nil {
			t.Fatalf("Tail(%d): %v", n, err)
		}
		if len(entries) != 0 {
			t.Errorf("Tail(%d): expected no entries, got %d", n, len(entries))
		}
	}
}

func TestTailWindow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	l, err := NewLogger(path)
	if err != nil {
		t.Fatal(err)
	}
	logLines(t, l, "1", "2", "3", "4", "5")

	entries, err := Tail(path, 3)
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, e := range entries {
		got = append(got, e.Line)
	}
	if !reflect.DeepEqual(got, []string{"3", "4", "5"}) {
		t.Errorf("expected the last three lines oldest first, got %q", got)
	}
}

func TestTailMissingLog(t *testing.T) {
	if _, err := Tail(filepath.Join(t.TempDir(), "absent.jsonl"), 5); err == nil {
		t.Error("expected an error for a missing log")
	}
}

func TestSharedLogInterleaved(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	a, err := NewLogger(path)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewLogger(path)
	if err != nil {
		t.Fatal(err)
	}

	logLines(t, a, "from a")
	logLines(t, b, "from b")
	logLines(t, a, "a again")

	if err := Verify(path); err != nil {
		t.Fatalf("two shells on one log should keep a valid chain: %v", err)
	}
	entries, err := Tail(path, 10)
	if err != nil {
		t.Fatal(err)
	}
	for i, e := range entries {
		if e.Seq != uint64(i+1) {
			t.Errorf("entry %d: expected seq %d, got %d", i, i+1, e.Seq)
		}
	}
	if entries[1].Session != b.Session() || entries[2].Session != a.Session() {
		t.Error("entries should carry the session of the shell that wrote them")
	}
}

func TestSharedLogConcurrent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	const writers, each = 4, 25

	var wg sync.WaitGroup
	errs := make(chan error, writers*each)
	for w := 0; w < writers; w++ {
		l, err := NewLogger(path)
		if err != nil {
			t.Fatal(err)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < each; i++ {
				if err := l.Log("true", []int{0}, false, 0, "/"); err != nil {
					errs <- err
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}

	if err := Verify(path); err != nil {
		t.Fatalf("concurrent appends broke the chain: %v", err)
	}
	entries, err := Tail(path, writers*each+10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != writers*each {
		t.Errorf("expected %d entries, got %d", writers*each, len(entries))
	}
}

func TestLogRefusesCorruptTail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	l, err := NewLogger(path)
	if err != nil {
		t.Fatal(err)
	}
	logLines(t, l, "pwd")

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		t.Fatal(err)
	}
	f.WriteString("{not json\n")
	f.Close()
	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if err := l.Log("sls", []int{0}, true, 0, "/"); err == nil {
		t.Fatal("expected an error when the last entry is unreadable")
	}
	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Error("nothing should be appended after a corrupt entry")
	}
}

func TestLastEntryLongLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	l, err := NewLogger(path)
	if err != nil {
		t.Fatal(err)
	}
	// Enough entries that the last one lies past the first tail chunk.
	long := strings.Repeat("x", 500)
	for i := 0; i < 200; i++ {
		logLines(t, l, long)
	}
	if err := Verify(path); err != nil {
		t.Fatal(err)
	}
	entries, err := Tail(path, 1)
	if err != nil {
		t.Fatal(err)
	}
	if entries[0].Seq != 200 {
		t.Errorf("expected seq 200, got %d", entries[0].Seq)
	}
}
