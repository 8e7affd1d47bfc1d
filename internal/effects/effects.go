// Package effects implements the per-program DSP chain (spec.md §4.4):
// distortion, a Chamberlin state-variable filter, a 3-band EQ, an RMS
// soft-knee compressor, and a stereo delay, run in that fixed order over
// interleaved stereo int16 audio. Grounded in the teacher repository's
// preference for plain per-field state structs over object hierarchies
// (internal/model's mixer/channel fields), rebuilt here as float64 DSP
// state with atomic parameter stores so the audio callback never blocks
// behind the control thread.
package effects

import (
	"math"
	"sync/atomic"
)

// MaxDelaySamples is the stereo delay ring buffer capacity: 1s at 48kHz.
const MaxDelaySamples = 48000

// Chain is the full per-program effects chain. All parameter setters are
// safe to call concurrently with Process; Process itself is not safe to
// call concurrently with itself on the same Chain (one audio thread owns
// it, matching spec.md §4.6's concurrency model).
type Chain struct {
	distortion distortionParams
	filter     filterParams
	eq         eqParams
	compressor compressorParams
	delay      delayParams

	distState distortionState
	filtState filterState
	eqState   eqState
	compState compressorState
	delState  delayState
}

// New returns a Chain with every stage disabled and every parameter at 0.
func New() *Chain {
	c := &Chain{}
	c.delState.buf = make([][2]float64, MaxDelaySamples)
	return c
}

// storeClamped01 stores clamp(v, 0, 1) into an atomic float64 slot.
func storeClamped01(slot *atomic.Uint64, v float64) {
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	atomic.StoreUint64((*uint64)(slot), math.Float64bits(v))
}

func loadFloat(slot *atomic.Uint64) float64 {
	return math.Float64frombits(atomic.LoadUint64((*uint64)(slot)))
}

func storeBool(slot *atomic.Uint32, v bool) {
	if v {
		slot.Store(1)
	} else {
		slot.Store(0)
	}
}

func loadBool(slot *atomic.Uint32) bool {
	return slot.Load() != 0
}

// Reset zeros all DSP state (filter/envelope/ring-buffer memory) while
// preserving every parameter value, per spec.md's reset() contract.
func (c *Chain) Reset() {
	c.distState = distortionState{}
	c.filtState = filterState{}
	c.eqState = eqState{}
	c.compState = compressorState{}
	for i := range c.delState.buf {
		c.delState.buf[i] = [2]float64{}
	}
	c.delState.writePos = 0
}

// Process runs the fixed distortion->filter->EQ->compressor->delay chain
// over an interleaved stereo int16 buffer of frames*2 samples, in place.
// Allocation-free on its steady-state path.
func (c *Chain) Process(buffer []int16, frames int, fs float64) {
	if frames <= 0 || len(buffer) < frames*2 || fs <= 0 {
		return
	}

	for i := 0; i < frames; i++ {
		l := float64(buffer[i*2]) / 32768.0
		r := float64(buffer[i*2+1]) / 32768.0

		if loadBool(&c.distortion.enabled) {
			l, r = c.processDistortion(l, r, fs)
		}
		if loadBool(&c.filter.enabled) {
			l, r = c.processFilter(l, r, fs)
		}
		if loadBool(&c.eq.enabled) {
			l, r = c.processEQ(l, r, fs)
		}
		if loadBool(&c.compressor.enabled) {
			l, r = c.processCompressor(l, r, fs)
		}
		if loadBool(&c.delay.enabled) {
			l, r = c.processDelay(l, r, fs)
		}

		buffer[i*2] = clampToInt16(l)
		buffer[i*2+1] = clampToInt16(r)
	}
}

func clampToInt16(v float64) int16 {
	if v > 1 {
		v = 1
	} else if v < -1 {
		v = -1
	}
	return int16(v * 32767.0)
}
