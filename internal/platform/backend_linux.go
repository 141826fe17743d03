//go:build linux

package platform

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/1broseidon/winchrome/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
)

// LinuxBackend drives window chrome through X11. X windows carry server-side
// decorations: there is no client handle for the title bar or the control
// buttons, so those operations are silent no-ops here. Geometry application
// and whole-window opacity work, and resize activity arrives as a boundary-
// free ConfigureNotify tick stream.
type LinuxBackend struct {
	conn *x11.Connection
}

var _ Backend = (*LinuxBackend)(nil)

// NewBackend opens a fresh X11 connection.
func NewBackend() (Backend, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxBackend{conn: conn}, nil
}

// Displays returns all active displays.
func (b *LinuxBackend) Displays() ([]Display, error) {
	monitors, err := b.conn.GetMonitors()
	if err != nil {
		return nil, err
	}

	displays := make([]Display, 0, len(monitors))
	for _, m := range monitors {
		displays = append(displays, displayFromMonitor(m))
	}

	sort.Slice(displays, func(i, j int) bool {
		return displays[i].ID < displays[j].ID
	})

	return displays, nil
}

// ActiveDisplay returns the work-area-adjusted monitor holding the focused
// window, falling back to the monitor under the pointer.
func (b *LinuxBackend) ActiveDisplay() (Display, error) {
	active, _ := b.conn.GetActiveWindow()
	monitor, err := b.conn.MonitorForWindow(active)
	if err != nil {
		return Display{}, err
	}
	return displayFromMonitor(*monitor), nil
}

// ActiveWindow wraps the currently focused window.
func (b *LinuxBackend) ActiveWindow() (Window, error) {
	wid, err := b.conn.GetActiveWindow()
	if err != nil {
		return nil, err
	}
	if wid == 0 {
		return nil, fmt.Errorf("no active window")
	}
	return &x11Window{conn: b.conn, id: wid}, nil
}

// EventLoop starts the X11 event loop (blocking).
func (b *LinuxBackend) EventLoop() {
	b.conn.EventLoop()
}

// Close stops the event loop and disconnects from the X server.
func (b *LinuxBackend) Close() {
	b.conn.Quit()
	b.conn.Close()
}

func displayFromMonitor(m x11.Monitor) Display {
	bounds := Rect{X: m.X, Y: m.Y, Width: m.Width, Height: m.Height}
	return Display{
		ID:     m.ID,
		Name:   m.Name,
		Bounds: bounds,
		Usable: bounds,
	}
}

// x11Window adapts one X window to the platform Window contract.
type x11Window struct {
	conn *x11.Connection
	id   xproto.Window

	gone atomic.Bool

	eventsOnce sync.Once
	events     *x11Events
}

var _ Window = (*x11Window)(nil)

func (w *x11Window) ID() string {
	return fmt.Sprintf("x11-0x%x", uint32(w.id))
}

func (w *x11Window) SetFrame(r Rect) error {
	return w.conn.MoveResizeWindow(w.id, r.X, r.Y, r.Width, r.Height)
}

// HideTitle is a no-op: X11 decorations are owned by the window manager.
func (w *x11Window) HideTitle() {}

// OffsetButtons is a no-op: X11 exposes no control-button handles.
func (w *x11Window) OffsetButtons(Offset) {}

// RoundCorners is a no-op on X11.
func (w *x11Window) RoundCorners(float64) {}

// SetButtonsAlpha fades the whole frame via _NET_WM_WINDOW_OPACITY, the
// closest X11 equivalent to hiding the decorations.
func (w *x11Window) SetButtonsAlpha(alpha float64) {
	if w.gone.Load() {
		return
	}
	_ = w.conn.SetWindowOpacity(w.id, alpha)
}

func (w *x11Window) Alive() bool {
	if w.gone.Load() {
		return false
	}
	return w.conn.WindowExists(w.id)
}

// RunOnMain runs fn inline: the X protocol serializes requests on the
// connection, so there is no main-thread affinity to honor.
func (w *x11Window) RunOnMain(fn func()) {
	fn()
}

func (w *x11Window) Events() EventSource {
	w.eventsOnce.Do(func() {
		w.events = &x11Events{}
		err := w.conn.WatchWindow(w.id,
			func(_, _ int) {
				w.events.emit(EventResizeTick)
			},
			func() {
				w.gone.Store(true)
				w.events.emit(EventWindowClosed)
				w.events.Close()
			},
		)
		if err != nil {
			// No events will flow; the machine simply never fires.
			w.events.Close()
		}
	})
	return w.events
}

func (w *x11Window) Caps() Caps {
	return Caps{Alpha: true}
}

// x11Events fans lifecycle events out to subscribers. X11 only delivers
// resize ticks, so Boundaries is false and callers debounce.
type x11Events struct {
	mu     sync.Mutex
	subs   []func(Event)
	closed bool
}

var _ EventSource = (*x11Events)(nil)

func (e *x11Events) Boundaries() bool { return false }

func (e *x11Events) Subscribe(fn func(Event)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.subs = append(e.subs, fn)
}

func (e *x11Events) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	e.subs = nil
}

func (e *x11Events) emit(ev Event) {
	e.mu.Lock()
	subs := make([]func(Event), len(e.subs))
	copy(subs, e.subs)
	e.mu.Unlock()

	for _, fn := range subs {
		fn(ev)
	}
}
