package simtemp

import "math/rand"

// Simulated signal parameters, in millidegrees Celsius.
const (
	normalMeanMilliC  = 40000
	normalDeltaMilliC = 1000

	noisyMeanMilliC  = 40000
	noisyDeltaMilliC = 4000

	rampStartMilliC = 40000
	rampStepMilliC  = 100
	rampMaxMilliC   = 44000
)

// generator produces simulated readings. The ramp cursor is its only
// state; it persists across mode switches.
type generator struct {
	rng  *rand.Rand
	ramp int32
}

func newGenerator(rng *rand.Rand) *generator {
	return &generator{
		rng:  rng,
		ramp: rampStartMilliC,
	}
}

// generate produces one sample for the given mode and threshold.
// Total for any valid mode; there is no failure path.
func (g *generator) generate(mode Mode, thresholdMilliC int32, now uint64) Sample {
	var value int32
	switch mode {
	case ModeNoisy:
		value = noisyMeanMilliC + g.jitter(noisyDeltaMilliC)
	case ModeRamp:
		g.ramp += rampStepMilliC
		if g.ramp > rampMaxMilliC {
			g.ramp = rampStartMilliC
		}
		value = g.ramp
	default:
		value = normalMeanMilliC + g.jitter(normalDeltaMilliC)
	}

	flags := FlagValid
	if value > thresholdMilliC {
		flags |= FlagAlert
	}

	return Sample{
		Timestamp:   now,
		ValueMilliC: value,
		Flags:       flags,
	}
}

// jitter returns a uniform value in [-delta, +delta].
func (g *generator) jitter(delta int32) int32 {
	return int32(g.rng.Int63n(int64(2*delta)+1)) - delta
}
