package logging

import (
	"strings"
	"sync"
)

// Ring keeps the most recent log lines in memory.
// It is a zapcore.WriteSyncer so it can back a core directly.
type Ring struct {
	mu    sync.Mutex
	lines []string
	size  int
}

// NewRing returns a ring holding at most size lines
func NewRing(size int) *Ring {
	if size < 0 {
		size = 0
	}
	return &Ring{size: size}
}

// Write stores each newline-terminated line in p
func (r *Ring) Write(p []byte) (int, error) {
	if r.size == 0 {
		return len(p), nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		if line == "" {
			continue
		}
		r.lines = append(r.lines, line)
	}
	if len(r.lines) > r.size {
		r.lines = append([]string(nil), r.lines[len(r.lines)-r.size:]...)
	}
	return len(p), nil
}

// Sync is a no-op
func (r *Ring) Sync() error {
	return nil
}

// Lines returns a copy of the buffered lines, oldest first
func (r *Ring) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.lines...)
}

// Len returns the number of buffered lines
func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.lines)
}
