package linklog

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// WriterBackend renders records as plain "TAG message" lines on any
// io.Writer. This is the debug backend and the workhorse for tests.
type WriterBackend struct {
	mtx sync.Mutex
	out io.Writer
}

func NewWriterBackend(out io.Writer) *WriterBackend {
	if out == nil {
		out = io.Discard
	}
	return &WriterBackend{out: out}
}

func (b *WriterBackend) Emit(level Level, line string) {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	fmt.Fprintf(b.out, "%s %s\n", LevelShortNames[normLevel(level)], line)
}

// sinkWriter adapts a sink into an io.Writer emitting at a fixed
// level, for handing to code that only knows how to write bytes.
type sinkWriter struct {
	sink  *Sink
	level Level
}

// Writer returns an io.Writer that logs every write through the chain
// at the given level. A trailing newline is stripped, the chain's
// backends add their own.
func (s *Sink) Writer(level Level) io.Writer {
	return &sinkWriter{sink: s, level: normLevel(level)}
}

func (w *sinkWriter) Write(p []byte) (int, error) {
	w.sink.log(w.level, strings.TrimSuffix(string(p), "\n"))
	return len(p), nil
}
