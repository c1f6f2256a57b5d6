package simtemp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleAt(n int) Sample {
	return Sample{
		Timestamp:   uint64(n),
		ValueMilliC: int32(40000 + n),
		Flags:       FlagValid,
	}
}

func TestRingRoundTrip(t *testing.T) {
	r := newRing(4)
	s := Sample{Timestamp: 42, ValueMilliC: 40100, Flags: FlagValid | FlagAlert}

	require.False(t, r.push(s))

	got, ok := r.pop()
	require.True(t, ok)
	assert.Equal(t, s, got, "popped sample must match the pushed one exactly")
	assert.True(t, r.empty())
}

func TestRingPopEmpty(t *testing.T) {
	r := newRing(4)

	_, ok := r.pop()
	assert.False(t, ok)
	assert.True(t, r.empty())
	assert.Equal(t, 0, r.len())
}

func TestRingOverwritesOldestWhenFull(t *testing.T) {
	r := newRing(4)

	for i := 1; i <= 4; i++ {
		assert.False(t, r.push(sampleAt(i)), "push %d must not drop", i)
	}
	for i := 5; i <= 6; i++ {
		assert.True(t, r.push(sampleAt(i)), "push %d must drop the oldest", i)
	}

	// Only the 4 most recent samples survive, in production order.
	for i := 3; i <= 6; i++ {
		got, ok := r.pop()
		require.True(t, ok)
		assert.Equal(t, sampleAt(i), got)
	}

	_, ok := r.pop()
	assert.False(t, ok)
}

func TestRingRetainsNewestAcrossManyLaps(t *testing.T) {
	r := newRing(8)

	for i := 1; i <= 100; i++ {
		r.push(sampleAt(i))
	}

	for i := 93; i <= 100; i++ {
		got, ok := r.pop()
		require.True(t, ok)
		assert.Equal(t, sampleAt(i), got)
	}
	assert.True(t, r.empty())
}

func TestRingPeekAlertDoesNotConsume(t *testing.T) {
	r := newRing(2)
	assert.False(t, r.peekAlert())

	r.push(Sample{Timestamp: 1, ValueMilliC: 43000, Flags: FlagValid | FlagAlert})
	r.push(Sample{Timestamp: 2, ValueMilliC: 40000, Flags: FlagValid})

	// Readiness reflects the oldest unread sample and never mutates.
	assert.True(t, r.peekAlert())
	assert.True(t, r.peekAlert())
	assert.Equal(t, 2, r.len())

	_, ok := r.pop()
	require.True(t, ok)
	assert.False(t, r.peekAlert())
	assert.Equal(t, 1, r.len())
}
