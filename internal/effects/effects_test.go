package effects

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProcessWithNoStagesEnabledIsIdentity(t *testing.T) {
	c := New()
	buf := []int16{100, -200, 300, -400}
	orig := append([]int16(nil), buf...)
	c.Process(buf, 2, 48000)
	assert.Equal(t, orig, buf)
}

func TestProcessIgnoresInvalidFrameOrSampleRate(t *testing.T) {
	c := New()
	c.SetDistortionEnabled(true)
	buf := []int16{1, 2, 3, 4}
	orig := append([]int16(nil), buf...)

	c.Process(buf, 0, 48000)
	assert.Equal(t, orig, buf)

	c.Process(buf, 2, 0)
	assert.Equal(t, orig, buf)

	c.Process(buf[:1], 2, 48000) // too-short buffer for 2 frames
	assert.Equal(t, orig[:1], buf[:1])
}

// Delay invariant (spec.md §8): with mix=1, feedback=0, output at sample
// n >= delay_samples equals input at sample n - delay_samples.
func TestDelayPureWetNoFeedbackIsPureEcho(t *testing.T) {
	c := New()
	c.SetDelayEnabled(true)
	c.SetDelayMix(1)
	c.SetDelayFeedback(0)
	c.SetDelayTime(0) // time control maps to delaySamples = 0 at fs small enough below

	fs := 1000.0
	delaySamples := 10
	// time*fs == delaySamples -> time = delaySamples/fs
	c.SetDelayTime(float64(delaySamples) / fs)

	const frames = 40
	buf := make([]int16, frames*2)
	input := make([]int16, frames)
	for i := 0; i < frames; i++ {
		v := int16((i%7)*1000 - 3000)
		input[i] = v
		buf[i*2] = v
		buf[i*2+1] = v
	}

	c.Process(buf, frames, fs)

	for n := delaySamples; n < frames; n++ {
		// allow quantization rounding from the int16<->float round trip
		assert.InDelta(t, input[n-delaySamples], buf[n*2], 1, "sample %d", n)
	}
}

func TestResetZeroesStateButKeepsParameters(t *testing.T) {
	c := New()
	c.SetDistortionEnabled(true)
	c.SetDistortionDrive(0.8)
	c.SetFilterEnabled(true)
	c.SetFilterCutoff(0.3)

	buf := []int16{5000, -5000, 4000, -4000}
	c.Process(buf, 2, 48000)

	c.Reset()
	assert.Equal(t, distortionChannelState{}, c.distState.ch[0])
	assert.Equal(t, filterChannelState{}, c.filtState.ch[0])
	assert.Equal(t, 0.8, loadFloat(&c.distortion.drive))
	assert.True(t, loadBool(&c.distortion.enabled))
}

func TestEQGainMappingUnityAtHalf(t *testing.T) {
	assert.InDelta(t, 1.0, eqGain(0.5), 1e-9)
	assert.InDelta(t, 0.25, eqGain(0.0), 1e-9)
	assert.InDelta(t, 4.0, eqGain(1.0), 1e-9)
}

func TestCompressorBelowThresholdIsUnityGain(t *testing.T) {
	c := New()
	c.SetCompressorEnabled(true)
	c.SetCompressorThreshold(1.0) // threshold linear = 0.5, far above tiny input
	c.SetCompressorRatio(1.0)
	c.SetCompressorMakeup(0.5) // makeup = 1x

	buf := make([]int16, 200)
	for i := range buf {
		if i%2 == 0 {
			buf[i] = 50
		} else {
			buf[i] = -50
		}
	}
	orig := append([]int16(nil), buf...)
	c.Process(buf, len(buf)/2, 48000)

	for i := range buf {
		assert.InDelta(t, orig[i], buf[i], 2)
	}
}

func TestClampToInt16SaturatesAtBoundaries(t *testing.T) {
	assert.Equal(t, int16(32767), clampToInt16(2.0))
	assert.Equal(t, int16(-32767), clampToInt16(-2.0))
}
