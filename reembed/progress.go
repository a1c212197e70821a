package reembed

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// ProgressTracker writes a single updating progress line.
type ProgressTracker struct {
	mu           sync.Mutex
	w            io.Writer
	total        int
	done         int
	every        int
	lastReported int
	start        time.Time
	started      bool
}

// NewProgressTracker reports to w every `every` listings out of total.
func NewProgressTracker(w io.Writer, total, every int) *ProgressTracker {
	if every <= 0 {
		every = 1
	}
	return &ProgressTracker{w: w, total: total, every: every}
}

// Start resets the counters and the clock.
func (p *ProgressTracker) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.start = time.Now()
	p.started = true
	p.done = 0
	p.lastReported = 0
}

// Skip counts n listings as already done without reporting.
// Used when resuming from a checkpoint.
func (p *ProgressTracker) Skip(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done = min(p.done+n, p.total)
	p.lastReported = p.done
}

// Add records n more listings and reports when the interval is crossed.
func (p *ProgressTracker) Add(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.started {
		return
	}
	p.done = min(p.done+n, p.total)
	if p.done-p.lastReported >= p.every {
		p.report()
		p.lastReported = p.done
	}
}

// Done returns the number of listings counted so far.
func (p *ProgressTracker) Done() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

// Finish reports the final line and terminates it.
func (p *ProgressTracker) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.started {
		return
	}
	p.report()
	fmt.Fprintln(p.w)
}

// Elapsed returns the time since Start.
func (p *ProgressTracker) Elapsed() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.started {
		return 0
	}
	return time.Since(p.start)
}

// report must be called with p.mu held.
func (p *ProgressTracker) report() {
	pct := 0.0
	if p.total > 0 {
		pct = float64(p.done) / float64(p.total) * 100
	}
	rate := 0.0
	if secs := time.Since(p.start).Seconds(); secs > 0 {
		rate = float64(p.done) / secs
	}
	fmt.Fprintf(p.w, "\rRe-embedded %d/%d listings (%.1f%%, %.1f/s)", p.done, p.total, pct, rate)
}
