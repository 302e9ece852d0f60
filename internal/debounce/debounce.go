package debounce

import (
	"sync"
	"time"
)

// Debouncer collapses rapid triggers into a single call of fn, made once the
// delay has elapsed with no further trigger. Safe for concurrent use.
type Debouncer struct {
	delay time.Duration
	fn    func()

	mu      sync.Mutex
	timer   *time.Timer
	seq     uint64
	stopped bool
}

// New creates a debouncer that calls fn after delay of quiet
func New(delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{delay: delay, fn: fn}
}

// Trigger (re)starts the quiet period
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.seq++
	seq := d.seq
	d.timer = time.AfterFunc(d.delay, func() { d.fire(seq) })
}

// Cancel drops a pending call, if any. Returns true when one was dropped.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer == nil {
		return false
	}
	d.timer.Stop()
	d.timer = nil
	d.seq++
	return true
}

// Pending reports whether a call is scheduled
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Stop cancels any pending call and ignores further triggers
func (d *Debouncer) Stop() {
	d.Cancel()

	d.mu.Lock()
	d.stopped = true
	d.mu.Unlock()
}

// fire runs fn unless the timer that scheduled it has since been replaced or cancelled
func (d *Debouncer) fire(seq uint64) {
	d.mu.Lock()
	if d.stopped || d.timer == nil || seq != d.seq {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()

	d.fn()
}
