package logger

import (
	"bytes"
	"fmt"
	"log"
	"strings"
	"sync"
)

// Ring keeps the most recent log lines in memory. A line equal to the
// previous one is not stored again, its repeat count is bumped instead.
//
// Lines are compared as written, so loggers feeding a ring should not add
// timestamps (see NewRingLogger).
type Ring struct {
	mu      sync.Mutex
	max     int
	entries []entry
	partial []byte
}

type entry struct {
	text    string
	repeats int
}

func (e entry) String() string {
	if e.repeats > 0 {
		return fmt.Sprintf("%s (repeat x%d)", e.text, e.repeats+1)
	}
	return e.text
}

// NewRing returns a ring holding at most max lines
func NewRing(max int) *Ring {
	if max < 1 {
		max = 1
	}
	return &Ring{max: max}
}

// Write implements io.Writer. Incomplete lines are held back until the
// terminating newline arrives.
func (r *Ring) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.partial = append(r.partial, p...)
	for {
		i := bytes.IndexByte(r.partial, '\n')
		if i < 0 {
			break
		}
		r.add(string(r.partial[:i]))
		r.partial = r.partial[i+1:]
	}
	return len(p), nil
}

func (r *Ring) add(line string) {
	if n := len(r.entries); n > 0 && r.entries[n-1].text == line {
		r.entries[n-1].repeats++
		return
	}
	r.entries = append(r.entries, entry{text: line})
	if len(r.entries) > r.max {
		r.entries = r.entries[len(r.entries)-r.max:]
	}
}

// Len returns the number of stored lines
func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Tail returns up to n most recent lines, oldest first
func (r *Ring) Tail(n int) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n > len(r.entries) {
		n = len(r.entries)
	}
	lines := make([]string, 0, n)
	for _, e := range r.entries[len(r.entries)-n:] {
		lines = append(lines, e.String())
	}
	return lines
}

// Contains reports whether any stored line contains s
func (r *Ring) Contains(s string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if strings.Contains(e.text, s) {
			return true
		}
	}
	return false
}

// NewRingLogger returns a logger writing bare messages into r
func NewRingLogger(r *Ring) *log.Logger {
	return log.New(r, "", 0)
}

func (r *Ring) String() string {
	return strings.Join(r.Tail(r.Len()), "\n")
}
