package log

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// RawLogger records the bytes of stream frames.
type RawLogger interface {
	Log(in bool, data []byte)
}

type rawLogger struct {
	w  io.Writer
	mu sync.Mutex
}

// NewRaw creates a RawLogger writing to w. A nil w gives a no-op logger.
func NewRaw(w io.Writer) RawLogger {
	return &rawLogger{w: w}
}

// Log writes one line per chunk. in is client to server.
func (r *rawLogger) Log(in bool, data []byte) {
	if r.w == nil || len(data) == 0 {
		return
	}
	dir := "out"
	if in {
		dir = "in "
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = fmt.Fprintf(r.w, "%s %s %3d: % x\n", time.Now().Format("15:04:05.000"), dir, len(data), data)
}
