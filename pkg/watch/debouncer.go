package watch

import (
	"sort"
	"sync"
	"time"
)

// Debouncer collects changed paths and flushes them once no new change has
// arrived for the configured interval.
type Debouncer struct {
	interval time.Duration
	flush    func(paths []string)

	mu      sync.Mutex
	timer   *time.Timer
	pending map[string]struct{}
	stopped bool
}

// NewDebouncer creates a debouncer that hands every batch to flush.
func NewDebouncer(interval time.Duration, flush func(paths []string)) *Debouncer {
	return &Debouncer{
		interval: interval,
		flush:    flush,
		pending:  make(map[string]struct{}),
	}
}

// Trigger records path as changed and restarts the quiet period.
func (d *Debouncer) Trigger(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.pending[path] = struct{}{}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, d.fire)
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	if d.stopped || len(d.pending) == 0 {
		d.mu.Unlock()
		return
	}
	paths := make([]string, 0, len(d.pending))
	for p := range d.pending {
		paths = append(paths, p)
	}
	d.pending = make(map[string]struct{})
	d.timer = nil
	d.mu.Unlock()

	sort.Strings(paths)
	d.flush(paths)
}

// Stop cancels any pending flush. Later triggers are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = nil
}
