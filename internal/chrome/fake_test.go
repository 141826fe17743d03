package chrome

import (
	"fmt"
	"sync"

	"github.com/1broseidon/winchrome/internal/platform"
)

// fakeWindow records chrome operations. RunOnMain executes inline, which
// also verifies no lock is held across the hop (the test would deadlock).
type fakeWindow struct {
	id   string
	caps platform.Caps

	mu          sync.Mutex
	alive       bool
	alphaWrites []float64
	repositions int
	titleHides  int
	corners     []float64
	frames      []platform.Rect

	events *fakeEvents
}

var _ platform.Window = (*fakeWindow)(nil)

func newFakeWindow(name string, caps platform.Caps, boundaries bool) *fakeWindow {
	return &fakeWindow{
		id:     fmt.Sprintf("fake-%s", name),
		caps:   caps,
		alive:  true,
		events: &fakeEvents{boundaries: boundaries},
	}
}

func (w *fakeWindow) ID() string { return w.id }

func (w *fakeWindow) SetFrame(r platform.Rect) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.frames = append(w.frames, r)
	return nil
}

func (w *fakeWindow) HideTitle() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.titleHides++
}

func (w *fakeWindow) OffsetButtons(platform.Offset) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.repositions++
}

func (w *fakeWindow) RoundCorners(radius float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.corners = append(w.corners, radius)
}

func (w *fakeWindow) SetButtonsAlpha(alpha float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.alphaWrites = append(w.alphaWrites, alpha)
}

func (w *fakeWindow) Alive() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.alive
}

func (w *fakeWindow) setAlive(alive bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.alive = alive
}

func (w *fakeWindow) RunOnMain(fn func()) { fn() }

func (w *fakeWindow) Events() platform.EventSource { return w.events }

func (w *fakeWindow) Caps() platform.Caps { return w.caps }

func (w *fakeWindow) snapshot() (alphas []float64, repositions int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	alphas = append([]float64(nil), w.alphaWrites...)
	return alphas, w.repositions
}

type fakeEvents struct {
	boundaries bool

	mu     sync.Mutex
	subs   []func(platform.Event)
	closed bool
}

var _ platform.EventSource = (*fakeEvents)(nil)

func (e *fakeEvents) Boundaries() bool { return e.boundaries }

func (e *fakeEvents) Subscribe(fn func(platform.Event)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.subs = append(e.subs, fn)
}

func (e *fakeEvents) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
}

func (e *fakeEvents) isClosed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed
}

func (e *fakeEvents) emit(ev platform.Event) {
	e.mu.Lock()
	subs := append(([]func(platform.Event))(nil), e.subs...)
	e.mu.Unlock()
	for _, fn := range subs {
		fn(ev)
	}
}

type fakeBackend struct {
	display platform.Display
	err     error
}

var _ platform.Backend = (*fakeBackend)(nil)

func (b *fakeBackend) Displays() ([]platform.Display, error) {
	if b.err != nil {
		return nil, b.err
	}
	return []platform.Display{b.display}, nil
}

func (b *fakeBackend) ActiveDisplay() (platform.Display, error) {
	return b.display, b.err
}

func (b *fakeBackend) ActiveWindow() (platform.Window, error) {
	return nil, fmt.Errorf("not implemented")
}

func (b *fakeBackend) EventLoop() {}
func (b *fakeBackend) Close()     {}
