package app

// SignalHistory keeps the recent RSSI samples from both diversity
// receivers for the telemetry sparklines. Samples arrive in pairs, one
// per status poll, so a single cursor drives both buffers.
type SignalHistory struct {
	a     []float64
	b     []float64
	pos   int
	count int
}

// NewSignalHistory creates a history holding the last capacity polls.
func NewSignalHistory(capacity int) *SignalHistory {
	return &SignalHistory{
		a: make([]float64, capacity),
		b: make([]float64, capacity),
	}
}

// Push records one poll worth of samples.
func (h *SignalHistory) Push(a, b float64) {
	h.a[h.pos] = a
	h.b[h.pos] = b
	h.pos = (h.pos + 1) % len(h.a)
	if h.count < len(h.a) {
		h.count++
	}
}

// A returns receiver A samples, oldest first.
func (h *SignalHistory) A() []float64 { return h.unroll(h.a) }

// B returns receiver B samples, oldest first.
func (h *SignalHistory) B() []float64 { return h.unroll(h.b) }

func (h *SignalHistory) unroll(buf []float64) []float64 {
	if h.count == 0 {
		return nil
	}
	out := make([]float64, h.count)
	if h.count < len(buf) {
		copy(out, buf[:h.count])
		return out
	}
	n := copy(out, buf[h.pos:])
	copy(out[n:], buf[:h.pos])
	return out
}

// Last returns the most recent sample pair, or zeros if empty.
func (h *SignalHistory) Last() (a, b float64) {
	if h.count == 0 {
		return 0, 0
	}
	idx := (h.pos - 1 + len(h.a)) % len(h.a)
	return h.a[idx], h.b[idx]
}

// Len returns the number of stored polls.
func (h *SignalHistory) Len() int {
	return h.count
}
