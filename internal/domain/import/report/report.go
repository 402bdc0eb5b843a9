// Package report accumulates the human-readable audit trail of an
// import run: one line per decision, plus summary counters. A report is
// produced fresh per run and returned to the caller instead of being
// thrown away; zero facts imported is a valid, clearly-logged outcome.
package report

import (
	"fmt"
	"io"
	"strings"
)

// Report is an ordered sequence of log lines plus summary counters
type Report struct {
	lines []string

	LinesRead         int
	CollectionsLoaded int
	StreetsCreated    int
	RowsSkipped       int
}

// New creates an empty report
func New() *Report {
	return &Report{}
}

// Logf appends one formatted line
func (r *Report) Logf(format string, args ...any) {
	r.lines = append(r.lines, fmt.Sprintf(format, args...))
}

// Lines returns the accumulated lines in order
func (r *Report) Lines() []string {
	return r.lines
}

// Contains reports whether any line contains the substring
func (r *Report) Contains(substr string) bool {
	for _, line := range r.lines {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

// Summarize appends the closing counter lines. Call once, after the
// last row has been processed.
func (r *Report) Summarize() {
	r.Logf("lines read from import file: %d", r.LinesRead)
	r.Logf("bin collections loaded: %d", r.CollectionsLoaded)
	r.Logf("new streets created: %d", r.StreetsCreated)
}

// WriteTo streams the report one line at a time, so a batch run can
// pipe it to stderr or a mail body.
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, line := range r.lines {
		n, err := fmt.Fprintln(w, line)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
