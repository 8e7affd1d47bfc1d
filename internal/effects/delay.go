package effects

import "sync/atomic"

// delayParams holds the stereo delay's controls, each in [0,1].
type delayParams struct {
	enabled  atomic.Uint32
	time     atomic.Uint64
	feedback atomic.Uint64
	mix      atomic.Uint64
}

type delayState struct {
	buf      [][2]float64
	writePos int
}

// SetDelayEnabled toggles the stage.
func (c *Chain) SetDelayEnabled(on bool) { storeBool(&c.delay.enabled, on) }

// SetDelayTime sets delay time in [0,1] seconds, clamped to the buffer's
// one-second capacity.
func (c *Chain) SetDelayTime(v float64) { storeClamped01(&c.delay.time, v) }

// SetDelayFeedback sets feedback in [0,1].
func (c *Chain) SetDelayFeedback(v float64) { storeClamped01(&c.delay.feedback, v) }

// SetDelayMix sets dry/wet mix in [0,1].
func (c *Chain) SetDelayMix(v float64) { storeClamped01(&c.delay.mix, v) }

func (c *Chain) processDelay(l, r, fs float64) (float64, float64) {
	timeCtrl := loadFloat(&c.delay.time)
	feedback := loadFloat(&c.delay.feedback)
	mix := loadFloat(&c.delay.mix)

	capacity := len(c.delState.buf)
	delaySamples := int(timeCtrl * fs)
	if delaySamples > capacity-1 {
		delaySamples = capacity - 1
	}
	if delaySamples < 0 {
		delaySamples = 0
	}

	readPos := ((c.delState.writePos - delaySamples) % capacity + capacity) % capacity
	read := c.delState.buf[readPos]

	c.delState.buf[c.delState.writePos] = [2]float64{
		l + read[0]*feedback,
		r + read[1]*feedback,
	}
	c.delState.writePos = (c.delState.writePos + 1) % capacity

	outL := l*(1-mix) + read[0]*mix
	outR := r*(1-mix) + read[1]*mix
	return outL, outR
}
