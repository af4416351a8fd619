package history

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
)

// maxEntrySize bounds one JSONL line when scanning the log.
const maxEntrySize = 1 << 20

// scan calls fn for every non-empty line of the log with its 1-based line
// number, stopping at the first error fn returns.
func scan(path string, fn func(n int, line []byte) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("read history: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 4096), maxEntrySize)
	n := 0
	for sc.Scan() {
		n++
		if len(sc.Bytes()) == 0 {
			continue
		}
		if err := fn(n, sc.Bytes()); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read history: %w", err)
	}
	return nil
}

// Verify checks the hash chain of the log at path and reports the first
// break: bad JSON, a sequence gap, a wrong back-link or a wrong hash.
func Verify(path string) error {
	prev := Entry{Hash: genesisHash()}
	return scan(path, func(n int, line []byte) error {
		var e Entry
		if err := json.Unmarshal(line, &e); err != nil {
			return fmt.Errorf("line %d: invalid JSON: %w", n, err)
		}
		switch {
		case e.Seq != prev.Seq+1:
			return fmt.Errorf("line %d: sequence gap: expected %d, got %d", n, prev.Seq+1, e.Seq)
		case e.PrevHash != prev.Hash:
			return fmt.Errorf("line %d: prev_hash mismatch: expected %s, got %s", n, short(prev.Hash), short(e.PrevHash))
		}
		if sum := computeHash(e); sum != e.Hash {
			return fmt.Errorf("line %d: hash mismatch: expected %s, got %s", n, short(sum), short(e.Hash))
		}
		prev = e
		return nil
	})
}

// Tail returns up to the last n readable entries, oldest first. Lines that
// do not decode are skipped; Verify reports them. n <= 0 yields none.
func Tail(path string, n int) ([]Entry, error) {
	if n <= 0 {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("read history: %w", err)
		}
		return nil, nil
	}

	ring := make([]Entry, 0, min(n, 64))
	start := 0 // index of the oldest entry once the ring is full
	err := scan(path, func(_ int, line []byte) error {
		var e Entry
		if json.Unmarshal(line, &e) != nil {
			return nil
		}
		if len(ring) < n {
			ring = append(ring, e)
			return nil
		}
		ring[start] = e
		start = (start + 1) % n
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(ring))
	out = append(out, ring[start:]...)
	return append(out, ring[:start]...), nil
}

func short(hash string) string {
	if len(hash) <= 16 {
		return hash
	}
	return hash[:16] + "..."
}
