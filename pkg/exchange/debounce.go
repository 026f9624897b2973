package exchange

import (
	"sync"
	"time"
)

// debouncer coalesces bursts of events per key: fn runs once, delay after
// the last add for that key.
type debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	timers  map[string]*time.Timer
	stopped bool
	wg      sync.WaitGroup
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{delay: delay, timers: make(map[string]*time.Timer)}
}

func (d *debouncer) add(key string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}

	if t, ok := d.timers[key]; ok && t.Stop() {
		d.wg.Done()
	}
	d.wg.Add(1)
	var t *time.Timer
	// t is assigned under d.mu, which the callback takes before reading it.
	t = time.AfterFunc(d.delay, func() {
		defer d.wg.Done()
		d.mu.Lock()
		if d.timers[key] == t {
			delete(d.timers, key)
		}
		d.mu.Unlock()
		fn()
	})
	d.timers[key] = t
}

// stopAndWait drops pending keys and waits up to timeout for running callbacks.
func (d *debouncer) stopAndWait(timeout time.Duration) {
	d.mu.Lock()
	d.stopped = true
	for key, t := range d.timers {
		if t.Stop() {
			d.wg.Done()
		}
		delete(d.timers, key)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
	}
}
