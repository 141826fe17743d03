package platform

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Display describes a physical display and its usable work area.
type Display struct {
	ID     int
	Name   string
	Bounds Rect
	Usable Rect
}

// Offset is the displacement applied to each standard window-control button
// from its default frame. Y moves the buttons toward the top edge, X toward
// the right; the signs follow the native platform convention.
type Offset struct {
	X int
	Y int
}

// Event is a window lifecycle notification delivered by an EventSource.
type Event int

const (
	// EventResizeStarted marks the beginning of a live-resize interaction.
	EventResizeStarted Event = iota
	// EventResizeTick is one in-progress resize notification. Sources that
	// cannot deliver start/end boundaries emit only ticks.
	EventResizeTick
	// EventResizeEnded marks the end of a live-resize interaction.
	EventResizeEnded
	// EventFullscreenEntered fires when the window begins entering full screen.
	EventFullscreenEntered
	// EventFullscreenExited fires when the window has left full screen.
	EventFullscreenExited
	// EventWindowClosed fires when the window is about to go away.
	EventWindowClosed
)

// Caps reports which chrome operations the platform can actually perform.
// Unsupported operations are silent no-ops on the Window.
type Caps struct {
	// TitleBar: the title text and title-bar style are client-controllable.
	TitleBar bool
	// Buttons: the window-control buttons are discrete, movable handles.
	Buttons bool
	// Alpha: hide/show via opacity is available (per button, or for the
	// whole window where decorations are server-side).
	Alpha bool
}

// EventSource delivers lifecycle events for one window.
//
// Subscriptions live for the process: observers are registered once and
// never unregistered, since the managed window is expected to outlive any
// interest in tearing the registration down. Close stops delivery to
// subscribers without touching the underlying registration.
type EventSource interface {
	// Boundaries reports whether the source delivers discrete
	// resize-start/resize-end notifications. Sources without boundaries
	// only emit EventResizeTick and callers must reconstruct the edges.
	Boundaries() bool
	// Subscribe registers a handler. Handlers may be invoked off the main
	// thread; anything touching window decoration must go through
	// Window.RunOnMain.
	Subscribe(fn func(Event))
	// Close stops event delivery to subscribers.
	Close()
}

// Window is a borrowed handle to the single managed native window. All
// decoration operations are best-effort: a handle that cannot be resolved
// makes the operation return without effect.
type Window interface {
	// ID is a stable string key for the window, unique while it is open.
	ID() string

	// SetFrame moves and resizes the window, position in top-left-origin
	// screen coordinates.
	SetFrame(Rect) error

	// HideTitle clears the title text and switches the title bar to an
	// overlay style.
	HideTitle()
	// OffsetButtons moves each control button from its current frame by
	// the offset.
	OffsetButtons(Offset)
	// RoundCorners applies a corner radius to the content view.
	RoundCorners(radius float64)
	// SetButtonsAlpha sets the control buttons' opacity in [0,1].
	SetButtonsAlpha(alpha float64)

	// Alive reports whether the native window still exists. Delayed
	// handlers must check this before touching the window.
	Alive() bool
	// RunOnMain schedules fn on the thread the native window API is
	// affine to. Platforms without that affinity run fn inline.
	RunOnMain(fn func())

	Events() EventSource
	Caps() Caps
}

// Backend abstracts window-system access across platforms.
type Backend interface {
	// Displays returns all active displays.
	Displays() ([]Display, error)
	// ActiveDisplay returns the display the managed window should be
	// planned against, adjusted to its usable work area.
	ActiveDisplay() (Display, error)
	// ActiveWindow resolves the window to manage.
	ActiveWindow() (Window, error)
	// EventLoop blocks, pumping native events until the backend closes.
	EventLoop()
	// Close releases the window-system connection.
	Close()
}
