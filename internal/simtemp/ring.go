package simtemp

// ring is a fixed-capacity circular store of samples. Pushing past
// capacity overwrites the oldest unread entry, so the producer never
// blocks or fails. Callers must hold the device lock; tail, count and
// the slot array form a single exclusive region.
type ring struct {
	slots []Sample
	tail  int // oldest unread slot
	count int
}

func newRing(capacity int) *ring {
	return &ring{
		slots: make([]Sample, capacity),
	}
}

// push stores s, silently discarding the oldest unread sample when the
// buffer is full. Reports whether a sample was dropped.
func (r *ring) push(s Sample) bool {
	n := len(r.slots)
	r.slots[(r.tail+r.count)%n] = s

	if r.count == n {
		// Full: the slot just written held the oldest unread sample.
		r.tail = (r.tail + 1) % n
		return true
	}

	r.count++

	return false
}

// pop removes and returns the oldest unread sample. The slot contents
// are left in place; tail and count alone define liveness.
func (r *ring) pop() (Sample, bool) {
	if r.count == 0 {
		return Sample{}, false
	}

	s := r.slots[r.tail]
	r.tail = (r.tail + 1) % len(r.slots)
	r.count--

	return s, true
}

func (r *ring) empty() bool {
	return r.count == 0
}

func (r *ring) len() int {
	return r.count
}

// peekAlert reports whether the oldest unread sample carries the alert
// flag, without consuming it.
func (r *ring) peekAlert() bool {
	if r.count == 0 {
		return false
	}

	return r.slots[r.tail].Flags&FlagAlert != 0
}
