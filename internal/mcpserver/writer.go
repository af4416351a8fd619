package mcpserver

import (
	"bytes"
	"sync"
)

// transcript collects a line's output in write order, keeping stderr
// separately for error results.
type transcript struct {
	mu   sync.Mutex
	all  bytes.Buffer
	errs bytes.Buffer
}

// streamWriter writes one stream into a transcript. Writers sharing a
// transcript are safe for concurrent use by pipeline stages.
type streamWriter struct {
	t      *transcript
	stderr bool
}

func (w *streamWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	w.t.mu.Lock()
	defer w.t.mu.Unlock()
	w.t.all.Write(p)
	if w.stderr {
		w.t.errs.Write(p)
	}
	return len(p), nil
}

func (t *transcript) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.all.String()
}

func (t *transcript) Errors() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.errs.String()
}
