package tracker

import (
	"sync"
	"time"

	"github.com/Rrisinglight/isabella/internal/config"
)

// EditLock suppresses poll overwrites of a user-editable mirrored field
// while an edit is in progress. Every user interaction re-arms the debounce
// window; the lock also releases immediately once the edit is acknowledged
// by the server.
type EditLock struct {
	mu       sync.Mutex
	deadline time.Time
	debounce time.Duration
	now      func() time.Time
}

func NewEditLock() *EditLock {
	return &EditLock{debounce: config.EditingDebounce, now: time.Now}
}

// Touch marks a user interaction, (re)arming the debounce window.
func (l *EditLock) Touch() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.deadline = l.now().Add(l.debounce)
}

// Release clears the lock, used after a successful server acknowledgement.
func (l *EditLock) Release() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.deadline = time.Time{}
}

// Locked reports whether inbound poll data must not be applied to the
// widget. The read model still accepts the data either way.
func (l *EditLock) Locked() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return !l.deadline.IsZero() && l.now().Before(l.deadline)
}
