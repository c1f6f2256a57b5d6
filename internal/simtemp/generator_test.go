package simtemp

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testGenerator() *generator {
	return newGenerator(rand.New(rand.NewSource(1)))
}

func TestGeneratorRampSequence(t *testing.T) {
	g := testGenerator()
	const threshold = 40200

	want := []int32{40100, 40200, 40300, 40400, 40500}
	for i, w := range want {
		s := g.generate(ModeRamp, threshold, uint64(i))
		assert.Equal(t, w, s.ValueMilliC, "sample %d", i)
		assert.True(t, s.Valid(), "sample %d must carry the valid flag", i)
		assert.Equal(t, w > threshold, s.Alert(), "sample %d alert flag", i)
		assert.Equal(t, uint64(i), s.Timestamp)
	}
}

func TestGeneratorRampWraps(t *testing.T) {
	g := testGenerator()

	var last Sample
	for i := 0; i < 40; i++ {
		last = g.generate(ModeRamp, 50000, 0)
	}
	assert.Equal(t, int32(rampMaxMilliC), last.ValueMilliC)

	s := g.generate(ModeRamp, 50000, 0)
	assert.Equal(t, int32(rampStartMilliC), s.ValueMilliC, "cursor wraps past the maximum")
}

func TestGeneratorRampCursorSurvivesModeSwitch(t *testing.T) {
	g := testGenerator()

	s := g.generate(ModeRamp, 50000, 0)
	assert.Equal(t, int32(40100), s.ValueMilliC)

	g.generate(ModeNormal, 50000, 0)
	g.generate(ModeNoisy, 50000, 0)

	s = g.generate(ModeRamp, 50000, 0)
	assert.Equal(t, int32(40200), s.ValueMilliC, "cursor is ramp-private and ignores other modes")
}

func TestGeneratorNormalRange(t *testing.T) {
	g := testGenerator()

	for i := 0; i < 1000; i++ {
		s := g.generate(ModeNormal, 42000, 0)
		assert.True(t, s.Valid())
		assert.GreaterOrEqual(t, s.ValueMilliC, int32(normalMeanMilliC-normalDeltaMilliC))
		assert.LessOrEqual(t, s.ValueMilliC, int32(normalMeanMilliC+normalDeltaMilliC))
		assert.False(t, s.Alert(), "normal mode never exceeds 41000")
	}
}

func TestGeneratorNoisyRange(t *testing.T) {
	g := testGenerator()

	for i := 0; i < 1000; i++ {
		s := g.generate(ModeNoisy, 42000, 0)
		assert.True(t, s.Valid())
		assert.GreaterOrEqual(t, s.ValueMilliC, int32(noisyMeanMilliC-noisyDeltaMilliC))
		assert.LessOrEqual(t, s.ValueMilliC, int32(noisyMeanMilliC+noisyDeltaMilliC))
		assert.Equal(t, s.ValueMilliC > 42000, s.Alert())
	}
}

func TestGeneratorAlertOnAnyThreshold(t *testing.T) {
	g := testGenerator()

	// Negative thresholds are legal; everything alerts.
	s := g.generate(ModeNormal, -100000, 0)
	assert.True(t, s.Alert())

	// A threshold above the noisy ceiling never alerts.
	s = g.generate(ModeNoisy, 50000, 0)
	assert.False(t, s.Alert())
}
