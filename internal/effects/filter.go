package effects

import (
	"math"
	"sync/atomic"
)

// filterParams holds the Chamberlin state-variable lowpass controls.
type filterParams struct {
	enabled   atomic.Uint32
	cutoff    atomic.Uint64
	resonance atomic.Uint64
}

type filterChannelState struct {
	low  float64
	band float64
}

type filterState struct {
	ch [2]filterChannelState
}

// SetFilterEnabled toggles the stage.
func (c *Chain) SetFilterEnabled(on bool) { storeBool(&c.filter.enabled, on) }

// SetFilterCutoff sets cutoff in [0,1], mapped to cutoff*nyquist*0.48 Hz.
func (c *Chain) SetFilterCutoff(v float64) { storeClamped01(&c.filter.cutoff, v) }

// SetFilterResonance sets resonance in [0,1]; q = max(0.1, 0.7-resonance*0.6).
func (c *Chain) SetFilterResonance(v float64) { storeClamped01(&c.filter.resonance, v) }

func (c *Chain) processFilter(l, r, fs float64) (float64, float64) {
	cutoff := loadFloat(&c.filter.cutoff)
	resonance := loadFloat(&c.filter.resonance)

	nyquist := fs / 2
	freq := cutoff * nyquist * 0.48
	f := 2 * math.Sin(math.Pi*freq/fs)
	q := 0.7 - resonance*0.6
	if q < 0.1 {
		q = 0.1
	}

	outL := svfLowpass(&c.filtState.ch[0], l, f, q)
	outR := svfLowpass(&c.filtState.ch[1], r, f, q)
	return outL, outR
}

func svfLowpass(st *filterChannelState, in, f, q float64) float64 {
	high := in - st.low - q*st.band
	st.band += f * high
	st.low += f * st.band
	return st.low
}
