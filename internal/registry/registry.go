package registry

import "sync"

// Pending-reposition flags are tracked process-wide because some window
// notification APIs deliver no caller-supplied context: the handler only
// knows the window it fired for, so the flag has to be reachable by window
// id alone. Entries are created lazily and live for the process.
var (
	mu      sync.Mutex
	pending = make(map[string]bool)
)

// Pending reports whether a reposition is owed for the window. Unknown ids
// report false.
func Pending(id string) bool {
	mu.Lock()
	defer mu.Unlock()
	return pending[id]
}

// SetPending records whether a reposition is owed for the window.
func SetPending(id string, owed bool) {
	mu.Lock()
	defer mu.Unlock()
	pending[id] = owed
}

// reset clears all flags between tests.
func reset() {
	mu.Lock()
	defer mu.Unlock()
	pending = make(map[string]bool)
}
