package chrome

import (
	"testing"
	"time"

	"github.com/1broseidon/winchrome/internal/platform"
	"github.com/1broseidon/winchrome/internal/registry"
)

func waitForRepositions(t *testing.T, win *fakeWindow, want int, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if _, repositions := win.snapshot(); repositions >= want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	_, repositions := win.snapshot()
	t.Fatalf("expected %d repositions within %v, got %d", want, timeout, repositions)
}

func TestBurstSettlesExactlyOnce(t *testing.T) {
	win := newFakeWindow("burst", macCaps, false)
	m := NewMachine(win, platform.Offset{X: 12, Y: 10})
	d := NewDebouncer(m, 30*time.Millisecond)
	defer d.Close()

	// Ticks far closer together than the quiet period.
	for i := 0; i < 10; i++ {
		d.Tick()
		time.Sleep(3 * time.Millisecond)
	}

	waitForRepositions(t, win, 1, time.Second)
	// Give a spurious second settle time to show up.
	time.Sleep(100 * time.Millisecond)

	alphas, repositions := win.snapshot()
	if repositions != 1 {
		t.Fatalf("burst must settle once, got %d repositions", repositions)
	}
	// One edge-triggered hide, one restore.
	if len(alphas) != 2 || alphas[0] != 0 || alphas[1] != 1 {
		t.Fatalf("expected alpha writes [0 1], got %v", alphas)
	}
	if registry.Pending(win.ID()) {
		t.Fatal("expected pending flag cleared after settle")
	}
}

func TestSeparateBurstsSettleSeparately(t *testing.T) {
	win := newFakeWindow("two-bursts", macCaps, false)
	m := NewMachine(win, platform.Offset{X: 12, Y: 10})
	d := NewDebouncer(m, 20*time.Millisecond)
	defer d.Close()

	d.Tick()
	d.Tick()
	waitForRepositions(t, win, 1, time.Second)

	d.Tick()
	d.Tick()
	waitForRepositions(t, win, 2, time.Second)
}

func TestCloseTerminatesWaiterMidBurst(t *testing.T) {
	win := newFakeWindow("close-mid", macCaps, false)
	m := NewMachine(win, platform.Offset{X: 12, Y: 10})
	d := NewDebouncer(m, 50*time.Millisecond)

	d.Tick()
	d.Close()
	d.Close() // idempotent

	time.Sleep(150 * time.Millisecond)
	_, repositions := win.snapshot()
	if repositions != 0 {
		t.Fatalf("waiter must exit on close without settling, got %d repositions", repositions)
	}
}

func TestTickAfterCloseIsIgnored(t *testing.T) {
	win := newFakeWindow("tick-after-close", macCaps, false)
	m := NewMachine(win, platform.Offset{X: 12, Y: 10})
	d := NewDebouncer(m, 20*time.Millisecond)

	d.Close()

	// Shutdown can race the event stream; a straggler tick must be a no-op,
	// not a send on the closed channel.
	d.Tick()
	d.Tick()

	time.Sleep(80 * time.Millisecond)
	alphas, repositions := win.snapshot()
	if len(alphas) != 0 || repositions != 0 {
		t.Fatalf("ticks after close must not touch the window, got alphas %v, %d repositions", alphas, repositions)
	}
	if registry.Pending(win.ID()) {
		t.Fatal("expected no pending flag from a post-close tick")
	}
}

func TestDebouncerDefaultQuietPeriod(t *testing.T) {
	win := newFakeWindow("default-quiet", macCaps, false)
	m := NewMachine(win, platform.Offset{})
	d := NewDebouncer(m, 0)
	defer d.Close()

	if d.quiet != DefaultQuietPeriod {
		t.Fatalf("expected default quiet period %v, got %v", DefaultQuietPeriod, d.quiet)
	}
}
