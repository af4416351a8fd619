package history

import "time"

// Entry is one completed command line.
type Entry struct {
	Seq      uint64    `json:"seq"`
	Time     time.Time `json:"ts"`
	PrevHash string    `json:"prev_hash"`
	Session  string    `json:"session"`     // shell session id
	Line     string    `json:"line"`        // raw line as typed
	Statuses []int     `json:"statuses"`    // one per stage, in stage order
	Builtin  bool      `json:"builtin,omitempty"`
	Duration float64   `json:"duration_ms"` // execution time in milliseconds
	Cwd      string    `json:"cwd"`
	Hash     string    `json:"hash"` // SHA-256 of this entry with hash empty
}
