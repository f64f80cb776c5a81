package logger

import (
	"io"
	"log"
	"os"
)

const (
	prefix = "PS2 "
	flags  = log.Ldate | log.Ltime | log.Lshortfile
)

// New returns a logger writing to stdout, or appending to the file at path
func New(path string) (*log.Logger, error) {
	if len(path) == 0 {
		return log.New(os.Stdout, prefix, flags), nil
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0666)
	if err != nil {
		return nil, err
	}
	l := log.New(f, prefix, flags)
	l.Printf("Initializing %s", path)
	return l, nil
}

// Discard returns a logger that drops everything
func Discard() *log.Logger {
	return log.New(io.Discard, prefix, flags)
}


// Fanout returns a logger handing every message to each of loggers, which
// format it with their own prefix and flags. Use it to feed a Ring next to
// a timestamped log.
func Fanout(loggers ...*log.Logger) *log.Logger {
	return log.New(fanout(loggers), "", 0)
}

type fanout []*log.Logger

// frames between Output and the caller of Printf: Write, log's output, Printf
const fanoutDepth = 4

func (f fanout) Write(p []byte) (int, error) {
	for _, l := range f {
		if err := l.Output(fanoutDepth, string(p)); err != nil {
			return 0, err
		}
	}
	return len(p), nil
}
