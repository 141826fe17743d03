package chrome

import (
	"sync"

	"github.com/1broseidon/winchrome/internal/platform"
	"github.com/1broseidon/winchrome/internal/registry"
)

// Machine keeps a window's control buttons visually stable across
// live-resize and full-screen transitions.
//
// It has two states: stable (buttons visible and correctly placed) and
// transitioning (buttons hidden while the frame is in motion). A transition
// start fades the buttons out and raises the window's pending-reposition
// flag; the matching end repositions the buttons if one is owed, clears the
// flag, and fades them back in. The offset is applied relative to the
// current button frames, so repositioning twice for a single transition
// would stack the displacement; the flag is the gate that prevents that.
//
// Events may arrive off the main thread. Everything that touches the native
// window goes through RunOnMain; the machine's own lock is never held across
// that hop.
type Machine struct {
	win    platform.Window
	offset platform.Offset

	mu          sync.Mutex
	transparent bool
}

// NewMachine returns a machine in the stable state.
func NewMachine(win platform.Window, offset platform.Offset) *Machine {
	return &Machine{win: win, offset: offset}
}

// HandleEvent feeds one boundary notification into the machine. Tick events
// are ignored here; sources without boundaries go through a Debouncer.
func (m *Machine) HandleEvent(ev platform.Event) {
	switch ev {
	case platform.EventResizeStarted, platform.EventFullscreenEntered:
		m.BeginTransition()
	case platform.EventResizeEnded, platform.EventFullscreenExited:
		m.EndTransition()
	}
}

// BeginTransition hides the buttons and records that a reposition is owed.
// Edge-triggered: during a burst only the first call writes the alpha.
func (m *Machine) BeginTransition() {
	m.mu.Lock()
	if m.transparent {
		m.mu.Unlock()
		return
	}
	m.transparent = true
	m.mu.Unlock()

	registry.SetPending(m.win.ID(), true)
	m.win.RunOnMain(func() {
		if !m.win.Alive() {
			return
		}
		m.win.SetButtonsAlpha(0)
	})
}

// EndTransition restores the buttons: reposition when owed, then fade back
// in. Ends without a matching begin only restore opacity. The pending flag
// is cleared on every acted-upon end, so no event ordering can leave it
// stuck.
func (m *Machine) EndTransition() {
	m.mu.Lock()
	m.transparent = false
	m.mu.Unlock()

	id := m.win.ID()
	owed := registry.Pending(id)
	if owed {
		registry.SetPending(id, false)
	}

	m.win.RunOnMain(func() {
		if !m.win.Alive() {
			return
		}
		if owed {
			m.win.OffsetButtons(m.offset)
		}
		m.win.SetButtonsAlpha(1)
	})
}

// Transitioning reports whether the buttons are currently hidden.
func (m *Machine) Transitioning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.transparent
}
