package tracker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// Poll at t=500ms after an edit must not overwrite; poll at t=2000ms (after
// the 1500ms debounce has lapsed) must.
func TestEditLockDebounceWindow(t *testing.T) {
	now := time.Unix(1000, 0)
	l := NewEditLock()
	l.now = func() time.Time { return now }

	assert.False(t, l.Locked(), "untouched lock is open")

	l.Touch() // user edit at t=0

	now = now.Add(500 * time.Millisecond)
	assert.True(t, l.Locked(), "poll at +500ms must not overwrite the input")

	now = now.Add(1500 * time.Millisecond) // t=2000ms
	assert.False(t, l.Locked(), "poll after debounce expiry must overwrite")
}

func TestEditLockRearmsOnEveryTouch(t *testing.T) {
	now := time.Unix(1000, 0)
	l := NewEditLock()
	l.now = func() time.Time { return now }

	l.Touch()
	now = now.Add(1400 * time.Millisecond)
	l.Touch() // second interaction re-arms
	now = now.Add(1400 * time.Millisecond)
	assert.True(t, l.Locked())
	now = now.Add(200 * time.Millisecond)
	assert.False(t, l.Locked())
}

func TestEditLockReleaseOnAck(t *testing.T) {
	now := time.Unix(1000, 0)
	l := NewEditLock()
	l.now = func() time.Time { return now }

	l.Touch()
	assert.True(t, l.Locked())
	l.Release() // server acknowledged the submit
	assert.False(t, l.Locked())
}
