package chrome

import (
	"sync"
	"time"
)

// DefaultQuietPeriod is how long a tick stream must stay silent before a
// resize is considered finished.
const DefaultQuietPeriod = 80 * time.Millisecond

// Debouncer reconstructs resize start/end boundaries from a boundary-free
// tick stream. The first tick of a burst begins a transition immediately
// (hiding the buttons before any flicker is visible); a dedicated waiter
// goroutine then ends the transition exactly once per burst, after the
// stream has been quiet for the configured period.
type Debouncer struct {
	machine *Machine
	ticks   chan struct{}
	quiet   time.Duration

	mu     sync.Mutex
	closed bool
}

// NewDebouncer starts the waiter goroutine. It terminates when Close is
// called; channel closure is the only cancellation signal it needs.
func NewDebouncer(machine *Machine, quiet time.Duration) *Debouncer {
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}
	d := &Debouncer{
		machine: machine,
		ticks:   make(chan struct{}, 1),
		quiet:   quiet,
	}
	go d.wait()
	return d
}

// Tick records one resize tick. Ticks arriving after Close are ignored:
// shutdown can race the event stream (a signal handler tearing the window
// down while the native loop still pumps), so the closed check and the
// channel send share one lock with Close.
func (d *Debouncer) Tick() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}

	// Edge-triggered inside BeginTransition: redundant alpha writes during
	// a burst are suppressed there.
	d.machine.BeginTransition()

	select {
	case d.ticks <- struct{}{}:
	default:
		// A signal is already queued; the waiter will see it.
	}
}

// Close ends the waiter goroutine. Safe to call more than once.
func (d *Debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	close(d.ticks)
}

func (d *Debouncer) wait() {
	for {
		// Park until a burst starts.
		if _, ok := <-d.ticks; !ok {
			return
		}

		// Drain until the stream stays quiet for a full period.
		for quiet := false; !quiet; {
			timer := time.NewTimer(d.quiet)
			select {
			case _, ok := <-d.ticks:
				timer.Stop()
				if !ok {
					return
				}
			case <-timer.C:
				quiet = true
			}
		}

		d.machine.EndTransition()
	}
}
