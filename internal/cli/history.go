package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/marcelocantos/sshell/internal/history"
	"github.com/marcelocantos/sshell/internal/shell"
)

// RunHistoryVerify checks the integrity of the history log.
func RunHistoryVerify(w io.Writer, logPath string) int {
	if err := history.Verify(logPath); err != nil {
		fmt.Fprintf(w, "history verification FAILED: %v\n", err)
		return 1
	}
	fmt.Fprintln(w, "history log integrity verified")
	return 0
}

// RunHistoryShow prints the last n history entries.
func RunHistoryShow(w io.Writer, logPath string, n int, asJSON bool) int {
	if n < 0 {
		fmt.Fprintf(w, "sshell history: invalid entry count %d\n", n)
		return 1
	}
	entries, err := history.Tail(logPath, n)
	if err != nil {
		fmt.Fprintf(w, "sshell history: %v\n", err)
		return 1
	}
	if len(entries) == 0 {
		fmt.Fprintln(w, "no history entries")
		return 0
	}
	for _, e := range entries {
		if asJSON {
			data, err := json.MarshalIndent(e, "", "  ")
			if err != nil {
				fmt.Fprintf(w, "sshell history: %v\n", err)
				return 1
			}
			fmt.Fprintf(w, "%s\n", data)
			continue
		}
		fmt.Fprintf(w, "%5d  %s  %-40s %s\n", e.Seq, e.Time.Format("2006-01-02 15:04:05"), e.Line, shell.FormatStatuses(e.Statuses))
	}
	return 0
}
