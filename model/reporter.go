package model

import (
	"fmt"
	"io"
	"sync"
)

// Reporter handles progress reporting during a search
type Reporter interface {
	Printf(format string, args ...interface{})
}

// SilentReporter does not output any progress
type SilentReporter struct{}

func (r *SilentReporter) Printf(format string, args ...interface{}) {}

// ColorReporter outputs colorized progress to a writer (typically stderr).
// It is safe to share between batch workers.
type ColorReporter struct {
	Writer io.Writer
	mu     sync.Mutex
}

func (r *ColorReporter) Printf(format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.Writer, format, args...)
}
