package effects

import (
	"math"
	"sync/atomic"
)

// eqParams holds the 3-band EQ's per-band gains, each in [0,1] and mapped
// to a multiplicative gain of 4^((g-0.5)*2): 0.25x..4x, unity at 0.5.
type eqParams struct {
	enabled  atomic.Uint32
	gainLow  atomic.Uint64
	gainMid  atomic.Uint64
	gainHigh atomic.Uint64
}

type eqChannelState struct {
	lowLP float64 // one-pole LP at 250 Hz: the "low" band
	midLP float64 // one-pole LP at 6 kHz; mid = midLP - lowLP
}

type eqState struct {
	ch [2]eqChannelState
}

const (
	eqLowHz  = 250.0
	eqHighHz = 6000.0
)

// SetEQEnabled toggles the stage.
func (c *Chain) SetEQEnabled(on bool) { storeBool(&c.eq.enabled, on) }

// SetEQLow sets the low-band gain control in [0,1].
func (c *Chain) SetEQLow(v float64) { storeClamped01(&c.eq.gainLow, v) }

// SetEQMid sets the mid-band gain control in [0,1].
func (c *Chain) SetEQMid(v float64) { storeClamped01(&c.eq.gainMid, v) }

// SetEQHigh sets the high-band gain control in [0,1].
func (c *Chain) SetEQHigh(v float64) { storeClamped01(&c.eq.gainHigh, v) }

func eqGain(g float64) float64 {
	return math.Pow(4, (g-0.5)*2)
}

func (c *Chain) processEQ(l, r, fs float64) (float64, float64) {
	gLow := eqGain(loadFloat(&c.eq.gainLow))
	gMid := eqGain(loadFloat(&c.eq.gainMid))
	gHigh := eqGain(loadFloat(&c.eq.gainHigh))

	outL := eqChannel(&c.eqState.ch[0], l, fs, gLow, gMid, gHigh)
	outR := eqChannel(&c.eqState.ch[1], r, fs, gLow, gMid, gHigh)
	return outL, outR
}

func eqChannel(st *eqChannelState, in, fs, gLow, gMid, gHigh float64) float64 {
	dt := 1.0 / fs

	lowRC := 1.0 / (2 * math.Pi * eqLowHz)
	lowAlpha := dt / (lowRC + dt)
	st.lowLP += lowAlpha * (in - st.lowLP)

	midRC := 1.0 / (2 * math.Pi * eqHighHz)
	midAlpha := dt / (midRC + dt)
	st.midLP += midAlpha * (in - st.midLP)

	low := st.lowLP
	mid := st.midLP - st.lowLP
	high := in - st.midLP

	return low*gLow + mid*gMid + high*gHigh
}
