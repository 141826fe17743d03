//go:build !linux && !darwin

package platform

import "fmt"

// Platforms without native chrome control get a backend whose window
// operations all no-op. Cosmetic styling is best-effort everywhere; here the
// best effort is nothing.

type nullBackend struct {
	done chan struct{}
}

var _ Backend = (*nullBackend)(nil)

// NewBackend returns the no-op backend.
func NewBackend() (Backend, error) {
	return &nullBackend{done: make(chan struct{})}, nil
}

func (b *nullBackend) Displays() ([]Display, error) {
	return nil, fmt.Errorf("no display backend on this platform")
}

func (b *nullBackend) ActiveDisplay() (Display, error) {
	return Display{}, fmt.Errorf("no display backend on this platform")
}

func (b *nullBackend) ActiveWindow() (Window, error) {
	return nil, fmt.Errorf("no window backend on this platform")
}

func (b *nullBackend) EventLoop() {
	<-b.done
}

func (b *nullBackend) Close() {
	close(b.done)
}
