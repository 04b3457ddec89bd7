package watch

import (
	"context"
	"time"
)

type tick struct {
	name string
	gen  uint64
}

// debouncer delays a name until it has been quiet for delay.
// A timer that fired before being superseded still delivers its tick, so each
// tick carries the generation it was armed with and stale ones are dropped.
// Not safe for concurrent use; only the event loop calls it.
type debouncer struct {
	delay  time.Duration
	timers map[string]*time.Timer
	gens   map[string]uint64
	ready  chan tick
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{
		delay:  delay,
		timers: make(map[string]*time.Timer),
		gens:   make(map[string]uint64),
		ready:  make(chan tick),
	}
}

// touch (re)arms the timer for name and returns its new generation.
func (d *debouncer) touch(ctx context.Context, name string) uint64 {
	if t, ok := d.timers[name]; ok {
		t.Stop()
	}

	d.gens[name]++
	tk := tick{name: name, gen: d.gens[name]}
	d.timers[name] = time.AfterFunc(d.delay, func() {
		select {
		case d.ready <- tk:
		case <-ctx.Done():
		}
	})

	return tk.gen
}

// accept reports whether tk is the latest arming of its name.
func (d *debouncer) accept(tk tick) bool {
	if d.gens[tk.name] != tk.gen {
		return false
	}
	delete(d.timers, tk.name)
	return true
}

func (d *debouncer) stop() {
	for _, t := range d.timers {
		t.Stop()
	}
}
