package history

import (
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

const genesisInput = "sshell-genesis"

// tailChunk is how much of the end of the log is read to find the last
// entry. Longer entries fall back to reading the whole file.
const tailChunk = 64 << 10

// Logger appends completed lines to a hash-chained history log. Several
// loggers, in one process or many, may share a path: each append locks the
// file and links to whatever entry is last at that moment.
type Logger struct {
	mu      sync.Mutex
	path    string
	session string
}

// NewLogger prepares the history log at path, creating it if needed, and
// starts a new session.
func NewLogger(path string) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	f.Close()
	return &Logger{path: path, session: uuid.NewString()}, nil
}

// Log appends a completed line with its stage statuses.
func (l *Logger) Log(line string, statuses []int, builtin bool, duration time.Duration, cwd string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer f.Close()

	if err := lockFile(f); err != nil {
		return fmt.Errorf("lock history: %w", err)
	}
	defer unlockFile(f)

	size, last, err := lastEntry(f)
	if err != nil {
		return err
	}

	entry := Entry{
		Seq:      1,
		Time:     time.Now().UTC(),
		PrevHash: genesisHash(),
		Session:  l.session,
		Line:     line,
		Statuses: statuses,
		Builtin:  builtin,
		Duration: float64(duration.Microseconds()) / 1000.0,
		Cwd:      cwd,
	}
	if last != nil {
		entry.Seq = last.Seq + 1
		entry.PrevHash = last.Hash
	}
	entry.Hash = computeHash(entry)

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal history entry: %w", err)
	}
	data = append(data, '\n')

	if _, err := f.Write(data); err != nil {
		// Drop a partial line so the next append still finds a valid tail.
		f.Truncate(size)
		return fmt.Errorf("write history entry: %w", err)
	}
	return nil
}

// Path returns the history file path.
func (l *Logger) Path() string {
	return l.path
}

// Session returns the id stamped on this logger's entries.
func (l *Logger) Session() string {
	return l.session
}

// lastEntry returns the file size and the final entry, nil for an empty
// log. An unreadable final entry is an error: appending to it would break
// the chain.
func lastEntry(f *os.File) (int64, *Entry, error) {
	fi, err := f.Stat()
	if err != nil {
		return 0, nil, fmt.Errorf("stat history: %w", err)
	}
	size := fi.Size()
	if size == 0 {
		return 0, nil, nil
	}

	off := size - tailChunk
	if off < 0 {
		off = 0
	}
	buf := make([]byte, size-off)
	if _, err := f.ReadAt(buf, off); err != nil && !errors.Is(err, io.EOF) {
		return 0, nil, fmt.Errorf("read history: %w", err)
	}
	lines := splitLines(buf)
	if off > 0 && len(lines) < 2 {
		// The chunk holds at most part of one entry.
		buf = make([]byte, size)
		if _, err := f.ReadAt(buf, 0); err != nil && !errors.Is(err, io.EOF) {
			return 0, nil, fmt.Errorf("read history: %w", err)
		}
		lines = splitLines(buf)
	}
	if len(lines) == 0 {
		return size, nil, nil
	}

	var last Entry
	if err := json.Unmarshal(lines[len(lines)-1], &last); err != nil {
		return 0, nil, fmt.Errorf("history tail is not a valid entry: %w", err)
	}
	return size, &last, nil
}

func genesisHash() string {
	h := sha256.Sum256([]byte(genesisInput))
	return fmt.Sprintf("%x", h)
}

func computeHash(e Entry) string {
	e.Hash = ""
	data, _ := json.Marshal(e)
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h)
}

func splitLines(data []byte) [][]byte {
	var lines [][]byte
	start := 0
	for i, b := range data {
		if b == '\n' {
			if i > start {
				lines = append(lines, data[start:i])
			}
			start = i + 1
		}
	}
	if start < len(data) {
		lines = append(lines, data[start:])
	}
	return lines
}
