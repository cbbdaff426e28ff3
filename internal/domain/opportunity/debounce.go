package opportunity

import (
	"sync"
	"time"
)

// DefaultDebounce is the quiet period before a typed term is searched
const DefaultDebounce = 300 * time.Millisecond

// Debouncer runs only the last function scheduled within a quiet period.
// Each Trigger cancels the pending call and schedules a new one.
type Debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

// NewDebouncer creates a debouncer. A zero delay runs each trigger right away;
// a negative one uses DefaultDebounce.
func NewDebouncer(delay time.Duration) *Debouncer {
	if delay < 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{delay: delay}
}

// Trigger schedules fn after the quiet period, replacing any pending call.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Flush cancels the pending call, if any, and runs fn immediately.
func (d *Debouncer) Flush(fn func()) {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	stopped := d.stopped
	d.mu.Unlock()

	if !stopped {
		fn()
	}
}

// Stop cancels the pending call; later triggers are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
