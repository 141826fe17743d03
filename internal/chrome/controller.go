package chrome

import (
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/1broseidon/winchrome/internal/geometry"
	"github.com/1broseidon/winchrome/internal/platform"
	"github.com/1broseidon/winchrome/internal/registry"
)

// Options configure the chrome applied to a managed window.
type Options struct {
	// WidthRatio is the desired window width as a fraction of the screen
	// width; clamped by the planner.
	WidthRatio float64
	// Offset displaces the control buttons from their default frames.
	Offset platform.Offset
	// CornerRadius rounds the content view; 0 disables it.
	CornerRadius float64
	// QuietPeriod tunes the debounce variant; 0 means the default.
	QuietPeriod time.Duration
	// Limits cap the planned window size.
	Limits geometry.Limits
	// Logger receives Debug-level state notes. Styling failures are
	// swallowed, not logged: chrome is cosmetic and must never surface
	// errors to the host.
	Logger *slog.Logger
}

// Controller applies window chrome: initial geometry, one-shot decoration,
// and the resize machinery that keeps the buttons stable afterwards.
type Controller struct {
	backend platform.Backend
	logger  *slog.Logger

	optsMu sync.RWMutex
	opts   Options
}

// NewController creates a controller over the given backend.
func NewController(backend platform.Backend, opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Controller{backend: backend, opts: opts, logger: logger}
}

func (c *Controller) options() Options {
	c.optsMu.RLock()
	defer c.optsMu.RUnlock()
	return c.opts
}

// UpdateOptions replaces the planning options; the next plan or replan uses
// the new values. Decoration and the button offset already installed on a
// managed window are not redone.
func (c *Controller) UpdateOptions(opts Options) {
	c.optsMu.Lock()
	c.opts = opts
	c.optsMu.Unlock()
}

// Manage takes over chrome for one window at window-ready time: it plans
// and applies the initial frame, performs the one-shot decoration, and
// installs the resize state machine. Every step is best-effort; a window
// whose handles cannot be resolved is left as the framework made it.
func (c *Controller) Manage(win platform.Window) *Managed {
	opts := c.options()
	managed := &Managed{
		win:     win,
		machine: NewMachine(win, opts.Offset),
	}

	// Initial geometry. No resolvable display is a silent no-op: the
	// window keeps the framework defaults.
	if display, err := c.backend.ActiveDisplay(); err == nil {
		frame := geometry.Plan(screenFrom(display), opts.WidthRatio, opts.Limits)
		managed.setPlanned(frame)
		if err := win.SetFrame(platform.Rect(frame)); err != nil {
			c.logger.Debug("initial frame not applied", "window", win.ID(), "error", err)
		}
	} else {
		c.logger.Debug("no display resolved, keeping framework geometry", "window", win.ID())
	}

	// One-shot decoration, gated on what the platform can actually do.
	caps := win.Caps()
	if caps.TitleBar {
		win.HideTitle()
		win.RoundCorners(opts.CornerRadius)
	}
	if caps.Buttons {
		win.OffsetButtons(opts.Offset)
	}

	events := win.Events()
	managed.events = events
	managed.boundaries = events.Boundaries()

	if managed.boundaries {
		// Discrete start/end notifications: race-free, preferred.
		events.Subscribe(func(ev platform.Event) {
			if ev == platform.EventWindowClosed {
				managed.Shutdown()
				return
			}
			managed.machine.HandleEvent(ev)
		})
	} else {
		// Ticks only: reconstruct boundaries with a quiet period.
		debouncer := NewDebouncer(managed.machine, opts.QuietPeriod)
		managed.debouncer = debouncer
		events.Subscribe(func(ev platform.Event) {
			switch ev {
			case platform.EventResizeTick:
				debouncer.Tick()
			case platform.EventWindowClosed:
				managed.Shutdown()
			}
		})
	}

	c.logger.Debug("chrome installed",
		"window", win.ID(),
		"boundaries", managed.boundaries,
		"title_bar", caps.TitleBar,
		"buttons", caps.Buttons)

	return managed
}

// Replan recomputes the window's frame against the current screen geometry
// and applies it. Returns the new frame and whether it was applied; a dead
// window or unresolvable display leaves everything as it is.
func (c *Controller) Replan(m *Managed) (geometry.Frame, bool) {
	if !m.Alive() {
		return geometry.Frame{}, false
	}
	display, err := c.backend.ActiveDisplay()
	if err != nil {
		c.logger.Debug("replan skipped, no display resolved", "window", m.win.ID())
		return geometry.Frame{}, false
	}

	opts := c.options()
	frame := geometry.Plan(screenFrom(display), opts.WidthRatio, opts.Limits)
	if err := m.win.SetFrame(platform.Rect(frame)); err != nil {
		c.logger.Debug("replan frame not applied", "window", m.win.ID(), "error", err)
		return frame, false
	}
	m.setPlanned(frame)
	return frame, true
}

func screenFrom(d platform.Display) geometry.Screen {
	usable := d.Usable
	if usable.Width <= 0 || usable.Height <= 0 {
		usable = d.Bounds
	}
	return geometry.Screen{X: usable.X, Y: usable.Y, Width: usable.Width, Height: usable.Height}
}

// Managed is the handle for one window under chrome management.
type Managed struct {
	win        platform.Window
	machine    *Machine
	debouncer  *Debouncer
	events     platform.EventSource
	boundaries bool

	shutdownOnce sync.Once

	// mu guards closed and planned: both are written from IPC and signal
	// goroutines while Status reads them from other connections.
	mu      sync.Mutex
	closed  bool
	planned *geometry.Frame
}

func (m *Managed) setPlanned(f geometry.Frame) {
	m.mu.Lock()
	m.planned = &f
	m.mu.Unlock()
}

// Status reports the managed window's current chrome state.
type Status struct {
	WindowID          string          `json:"window_id"`
	State             string          `json:"state"` // "stable" or "transitioning"
	PendingReposition bool            `json:"pending_reposition"`
	Boundaries        bool            `json:"boundaries"`
	Alive             bool            `json:"alive"`
	Planned           *geometry.Frame `json:"planned,omitempty"`
}

// Status is safe to call from any goroutine.
func (m *Managed) Status() Status {
	state := "stable"
	if m.machine.Transitioning() {
		state = "transitioning"
	}

	m.mu.Lock()
	planned := m.planned
	m.mu.Unlock()

	return Status{
		WindowID:          m.win.ID(),
		State:             state,
		PendingReposition: registry.Pending(m.win.ID()),
		Boundaries:        m.boundaries,
		Alive:             m.win.Alive(),
		Planned:           planned,
	}
}

// Alive reports whether the underlying window still exists and chrome
// management has not been shut down.
func (m *Managed) Alive() bool {
	m.mu.Lock()
	closed := m.closed
	m.mu.Unlock()
	return !closed && m.win.Alive()
}

// Shutdown stops event handling for the window. Called when the window
// closes; safe to call more than once. The event source is closed before
// the debouncer so no subscriber still delivering ticks outruns it.
func (m *Managed) Shutdown() {
	m.shutdownOnce.Do(func() {
		m.mu.Lock()
		m.closed = true
		m.mu.Unlock()

		m.events.Close()
		if m.debouncer != nil {
			m.debouncer.Close()
		}
		registry.SetPending(m.win.ID(), false)
	})
}
