package console

import (
	"bytes"
	"errors"
	"testing"
)

func TestSimple_WriteConsole(t *testing.T) {
	tests := []struct {
		name  string
		msg   string
		want  string
		lines int
	}{
		{"single line", "hello\n", "hello\n", 1},
		{"no newline", "hello", "hello\n", 1},
		{"empty lines dropped", "a\n\n\nb\n", "a\nb\n", 2},
		{"empty", "", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			c := NewSimple(&buf)
			if err := c.WriteConsole(tt.msg); err != nil {
				t.Fatalf("WriteConsole() error = %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("WriteConsole() wrote %q, want %q", buf.String(), tt.want)
			}
			if c.Lines() != tt.lines {
				t.Errorf("Lines() = %d, want %d", c.Lines(), tt.lines)
			}
		})
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestSimple_WriteError(t *testing.T) {
	var c Console = NewSimple(failingWriter{})
	if err := c.WriteConsole("x"); err == nil {
		t.Errorf("WriteConsole() error = nil, want error")
	}
}
