package chrome

import (
	"testing"

	"github.com/1broseidon/winchrome/internal/platform"
	"github.com/1broseidon/winchrome/internal/registry"
)

var macCaps = platform.Caps{TitleBar: true, Buttons: true, Alpha: true}

func TestBeginTransitionHidesButtonsOnce(t *testing.T) {
	win := newFakeWindow("begin-once", macCaps, true)
	m := NewMachine(win, platform.Offset{X: 12, Y: 10})

	m.BeginTransition()
	m.BeginTransition()
	m.BeginTransition()

	alphas, _ := win.snapshot()
	if len(alphas) != 1 || alphas[0] != 0 {
		t.Fatalf("expected a single alpha-0 write, got %v", alphas)
	}
	if !registry.Pending(win.ID()) {
		t.Fatal("expected pending reposition after transition start")
	}
	if !m.Transitioning() {
		t.Fatal("expected machine in transitioning state")
	}
}

func TestEndTransitionRepositionsWhenOwed(t *testing.T) {
	win := newFakeWindow("end-owed", macCaps, true)
	m := NewMachine(win, platform.Offset{X: 12, Y: 10})

	m.BeginTransition()
	m.EndTransition()

	alphas, repositions := win.snapshot()
	if repositions != 1 {
		t.Fatalf("expected exactly one reposition, got %d", repositions)
	}
	if registry.Pending(win.ID()) {
		t.Fatal("expected pending flag cleared after end")
	}
	if len(alphas) != 2 || alphas[len(alphas)-1] != 1 {
		t.Fatalf("expected buttons restored to opaque, got %v", alphas)
	}
	if m.Transitioning() {
		t.Fatal("expected machine back in stable state")
	}
}

func TestEndTransitionWithoutOwedOnlyRestoresOpacity(t *testing.T) {
	win := newFakeWindow("end-not-owed", macCaps, true)
	m := NewMachine(win, platform.Offset{X: 12, Y: 10})

	m.EndTransition()

	alphas, repositions := win.snapshot()
	if repositions != 0 {
		t.Fatalf("expected no reposition without a preceding start, got %d", repositions)
	}
	if len(alphas) != 1 || alphas[0] != 1 {
		t.Fatalf("expected only an opacity restore, got %v", alphas)
	}
}

func TestNoDoubleRepositionForOneTransition(t *testing.T) {
	win := newFakeWindow("no-double", macCaps, true)
	m := NewMachine(win, platform.Offset{X: 12, Y: 10})

	m.BeginTransition()
	m.EndTransition()
	m.EndTransition()
	m.EndTransition()

	_, repositions := win.snapshot()
	if repositions != 1 {
		t.Fatalf("offset must not stack: expected 1 reposition, got %d", repositions)
	}
}

func TestPendingClearedAfterEveryEnd(t *testing.T) {
	win := newFakeWindow("invariant", macCaps, true)
	m := NewMachine(win, platform.Offset{X: 12, Y: 10})

	sequences := [][]platform.Event{
		{platform.EventResizeStarted, platform.EventResizeEnded},
		{platform.EventFullscreenEntered, platform.EventFullscreenExited},
		{platform.EventResizeStarted, platform.EventFullscreenEntered, platform.EventResizeEnded},
		{platform.EventResizeEnded},
		{platform.EventResizeStarted, platform.EventResizeEnded, platform.EventResizeStarted, platform.EventResizeEnded},
	}

	for _, seq := range sequences {
		for _, ev := range seq {
			m.HandleEvent(ev)
			switch ev {
			case platform.EventResizeEnded, platform.EventFullscreenExited:
				if registry.Pending(win.ID()) {
					t.Fatalf("pending flag stuck after end in sequence %v", seq)
				}
			}
		}
	}
}

func TestDeadWindowIsNotTouched(t *testing.T) {
	win := newFakeWindow("dead", macCaps, true)
	m := NewMachine(win, platform.Offset{X: 12, Y: 10})

	m.BeginTransition()
	win.setAlive(false)
	m.EndTransition()

	_, repositions := win.snapshot()
	if repositions != 0 {
		t.Fatalf("expected no reposition on a dead window, got %d", repositions)
	}
	if registry.Pending(win.ID()) {
		t.Fatal("expected pending flag cleared even for a dead window")
	}
}
