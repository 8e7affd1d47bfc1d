package effects

import (
	"math"
	"sync/atomic"
)

// compressorParams holds the RMS soft-knee compressor's controls, each in
// [0,1] (spec.md §4.4 "Compressor").
type compressorParams struct {
	enabled   atomic.Uint32
	threshold atomic.Uint64
	ratio     atomic.Uint64
	attack    atomic.Uint64
	release   atomic.Uint64
	makeup    atomic.Uint64
}

type compressorChannelState struct {
	rms  float64
	gain float64
}

type compressorState struct {
	ch [2]compressorChannelState
}

const compressorRMSAlpha = 0.01

// SetCompressorEnabled toggles the stage.
func (c *Chain) SetCompressorEnabled(on bool) { storeBool(&c.compressor.enabled, on) }

// SetCompressorThreshold sets threshold in [0,1]; linear = 0.01+threshold*0.49.
func (c *Chain) SetCompressorThreshold(v float64) { storeClamped01(&c.compressor.threshold, v) }

// SetCompressorRatio sets ratio in [0,1]; ratio = 1+ratio*19.
func (c *Chain) SetCompressorRatio(v float64) { storeClamped01(&c.compressor.ratio, v) }

// SetCompressorAttack sets attack in [0,1]; attack = 0.5ms + attack*49.5ms.
func (c *Chain) SetCompressorAttack(v float64) { storeClamped01(&c.compressor.attack, v) }

// SetCompressorRelease sets release in [0,1]; release = 10ms + release*490ms.
func (c *Chain) SetCompressorRelease(v float64) { storeClamped01(&c.compressor.release, v) }

// SetCompressorMakeup sets makeup gain in [0,1]; linear = 8^((makeup-0.5)*2).
func (c *Chain) SetCompressorMakeup(v float64) { storeClamped01(&c.compressor.makeup, v) }

func (c *Chain) processCompressor(l, r, fs float64) (float64, float64) {
	thresholdCtrl := loadFloat(&c.compressor.threshold)
	ratioCtrl := loadFloat(&c.compressor.ratio)
	attackCtrl := loadFloat(&c.compressor.attack)
	releaseCtrl := loadFloat(&c.compressor.release)
	makeupCtrl := loadFloat(&c.compressor.makeup)

	threshold := 0.01 + thresholdCtrl*0.49
	ratio := 1 + ratioCtrl*19
	attackTau := (0.5 + attackCtrl*49.5) / 1000.0
	releaseTau := (10 + releaseCtrl*490) / 1000.0
	attackCoeff := 1 - math.Exp(-1/(fs*attackTau))
	releaseCoeff := 1 - math.Exp(-1/(fs*releaseTau))
	makeup := math.Pow(8, (makeupCtrl-0.5)*2)
	knee := threshold * 0.1

	outL := compressChannel(&c.compState.ch[0], l, threshold, ratio, attackCoeff, releaseCoeff, knee, makeup)
	outR := compressChannel(&c.compState.ch[1], r, threshold, ratio, attackCoeff, releaseCoeff, knee, makeup)
	return outL, outR
}

func compressChannel(st *compressorChannelState, in, threshold, ratio, attackCoeff, releaseCoeff, knee, makeup float64) float64 {
	if st.gain == 0 {
		st.gain = 1 // unity until the envelope has something to react to
	}
	st.rms += compressorRMSAlpha * (in*in - st.rms)
	env := math.Sqrt(st.rms)

	targetGain := 1.0
	if env > 0 {
		lower := threshold - knee/2
		upper := threshold + knee/2
		compressedEnv := (threshold + (env-threshold)/ratio) / env

		switch {
		case env <= lower:
			targetGain = 1.0
		case env >= upper:
			targetGain = compressedEnv
		default:
			t := (env - lower) / (upper - lower)
			smoothT := t * t * (3 - 2*t)
			targetGain = 1.0 + smoothT*(compressedEnv-1.0)
		}
	}

	if targetGain < st.gain {
		st.gain += attackCoeff * (targetGain - st.gain)
	} else {
		st.gain += releaseCoeff * (targetGain - st.gain)
	}

	return in * st.gain * makeup
}
