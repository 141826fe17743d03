//go:build darwin

package platform

/*
#cgo CFLAGS: -x objective-c -fobjc-arc
#cgo LDFLAGS: -framework Cocoa -framework QuartzCore

#include <stdlib.h>

int wcMainScreen(double *x, double *y, double *w, double *h);
void *wcMainWindow(void);
void wcSetFrame(void *win, double x, double y, double w, double h);
void wcHideTitle(void *win);
void wcOffsetButtons(void *win, double dx, double dy);
void wcRoundCorners(void *win, double radius);
void wcSetButtonsAlpha(void *win, double alpha);
int wcWindowAlive(void *win);
void wcObserve(void *win, unsigned long long token);
void wcDispatchMain(unsigned long long token);
*/
import "C"

import (
	"fmt"
	"sync"
	"sync/atomic"
	"unsafe"
)

// DarwinBackend drives window chrome through AppKit. macOS is the one
// platform with the full capability set: client-side title bar, discrete
// traffic-light button handles, per-button alpha, and discrete live-resize
// and full-screen boundary notifications.
type DarwinBackend struct {
	done chan struct{}
}

var _ Backend = (*DarwinBackend)(nil)

// NewBackend returns the AppKit backend. The host application owns
// NSApplication and its run loop; the backend only borrows windows.
func NewBackend() (Backend, error) {
	return &DarwinBackend{done: make(chan struct{})}, nil
}

// Displays returns the main screen's visible frame. AppKit coordinates are
// converted to top-left origin so planning matches the other backends.
func (b *DarwinBackend) Displays() ([]Display, error) {
	d, err := b.ActiveDisplay()
	if err != nil {
		return nil, err
	}
	return []Display{d}, nil
}

// ActiveDisplay returns the main screen, work-area adjusted (visibleFrame
// excludes the menu bar and the Dock).
func (b *DarwinBackend) ActiveDisplay() (Display, error) {
	var x, y, w, h C.double
	if C.wcMainScreen(&x, &y, &w, &h) == 0 {
		return Display{}, fmt.Errorf("no screen available")
	}
	bounds := Rect{X: int(x), Y: int(y), Width: int(w), Height: int(h)}
	return Display{ID: 0, Name: "main", Bounds: bounds, Usable: bounds}, nil
}

// ActiveWindow wraps the host application's main window, if it has one.
func (b *DarwinBackend) ActiveWindow() (Window, error) {
	ptr := C.wcMainWindow()
	if ptr == nil {
		return nil, fmt.Errorf("no native window in this process")
	}
	return WindowFromPointer(unsafe.Pointer(ptr)), nil
}

// EventLoop blocks until Close. AppKit events are pumped by the host's
// NSApplication run loop, not by us.
func (b *DarwinBackend) EventLoop() {
	<-b.done
}

// Close unblocks EventLoop.
func (b *DarwinBackend) Close() {
	close(b.done)
}

// WindowFromPointer wraps an NSWindow (or NSView) pointer handed over by a
// host framework. The pointer is borrowed, never retained beyond the native
// window's lifetime.
func WindowFromPointer(ptr unsafe.Pointer) Window {
	return &darwinWindow{ptr: ptr}
}

type darwinWindow struct {
	ptr unsafe.Pointer

	gone atomic.Bool

	eventsOnce sync.Once
	events     *darwinEvents
}

var _ Window = (*darwinWindow)(nil)

func (w *darwinWindow) ID() string {
	return fmt.Sprintf("ns-%p", w.ptr)
}

func (w *darwinWindow) SetFrame(r Rect) error {
	if w.gone.Load() {
		return fmt.Errorf("window is gone")
	}
	C.wcSetFrame(w.ptr, C.double(r.X), C.double(r.Y), C.double(r.Width), C.double(r.Height))
	return nil
}

func (w *darwinWindow) HideTitle() {
	if w.gone.Load() {
		return
	}
	C.wcHideTitle(w.ptr)
}

func (w *darwinWindow) OffsetButtons(o Offset) {
	if w.gone.Load() {
		return
	}
	C.wcOffsetButtons(w.ptr, C.double(o.X), C.double(o.Y))
}

func (w *darwinWindow) RoundCorners(radius float64) {
	if w.gone.Load() || radius <= 0 {
		return
	}
	C.wcRoundCorners(w.ptr, C.double(radius))
}

func (w *darwinWindow) SetButtonsAlpha(alpha float64) {
	if w.gone.Load() {
		return
	}
	C.wcSetButtonsAlpha(w.ptr, C.double(alpha))
}

func (w *darwinWindow) Alive() bool {
	if w.gone.Load() {
		return false
	}
	return C.wcWindowAlive(w.ptr) != 0
}

// RunOnMain hops to the main dispatch queue. AppKit windows are main-thread
// affine; notification handlers and the debounce waiter must not touch them
// directly.
func (w *darwinWindow) RunOnMain(fn func()) {
	token := storeMainFunc(fn)
	C.wcDispatchMain(C.ulonglong(token))
}

func (w *darwinWindow) Events() EventSource {
	w.eventsOnce.Do(func() {
		w.events = &darwinEvents{win: w}
		token := storeEventSource(w.events)
		C.wcObserve(w.ptr, C.ulonglong(token))
	})
	return w.events
}

func (w *darwinWindow) Caps() Caps {
	return Caps{TitleBar: true, Buttons: true, Alpha: true}
}

// darwinEvents fans NSWindow notifications out to subscribers. The
// notification-center observations behind it are registered once and kept
// for the process lifetime.
type darwinEvents struct {
	win *darwinWindow

	mu     sync.Mutex
	subs   []func(Event)
	closed bool
}

var _ EventSource = (*darwinEvents)(nil)

func (e *darwinEvents) Boundaries() bool { return true }

func (e *darwinEvents) Subscribe(fn func(Event)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.subs = append(e.subs, fn)
}

func (e *darwinEvents) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	e.subs = nil
}

func (e *darwinEvents) emit(ev Event) {
	if ev == EventWindowClosed {
		e.win.gone.Store(true)
	}

	e.mu.Lock()
	subs := make([]func(Event), len(e.subs))
	copy(subs, e.subs)
	e.mu.Unlock()

	for _, fn := range subs {
		fn(ev)
	}

	if ev == EventWindowClosed {
		e.Close()
	}
}

// Tokens route C callbacks back to Go values without passing Go pointers
// through cgo.
var (
	tokenMu      sync.Mutex
	nextToken    uint64
	eventSources = make(map[uint64]*darwinEvents)
	mainFuncs    = make(map[uint64]func())
)

func storeEventSource(e *darwinEvents) uint64 {
	tokenMu.Lock()
	defer tokenMu.Unlock()
	nextToken++
	eventSources[nextToken] = e
	return nextToken
}

func storeMainFunc(fn func()) uint64 {
	tokenMu.Lock()
	defer tokenMu.Unlock()
	nextToken++
	mainFuncs[nextToken] = fn
	return nextToken
}

// Notification kinds as passed from the Objective-C side.
const (
	cEventResizeStarted     = 0
	cEventResizeEnded       = 1
	cEventFullscreenEntered = 2
	cEventFullscreenExited  = 3
	cEventWindowClosed      = 4
)

//export winchromeWindowEvent
func winchromeWindowEvent(token C.ulonglong, kind C.int) {
	tokenMu.Lock()
	source := eventSources[uint64(token)]
	tokenMu.Unlock()
	if source == nil {
		return
	}

	switch int(kind) {
	case cEventResizeStarted:
		source.emit(EventResizeStarted)
	case cEventResizeEnded:
		source.emit(EventResizeEnded)
	case cEventFullscreenEntered:
		source.emit(EventFullscreenEntered)
	case cEventFullscreenExited:
		source.emit(EventFullscreenExited)
	case cEventWindowClosed:
		source.emit(EventWindowClosed)
	}
}

//export winchromeRunMain
func winchromeRunMain(token C.ulonglong) {
	tokenMu.Lock()
	fn := mainFuncs[uint64(token)]
	delete(mainFuncs, uint64(token))
	tokenMu.Unlock()
	if fn != nil {
		fn()
	}
}
