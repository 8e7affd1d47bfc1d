package ticks

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gbraad-go/samplecrate/internal/track"
)

func TestPhraseMultipliesDurationByLoopCount(t *testing.T) {
	assert.Equal(t, 24, Phrase(PhraseTicks{DurationTicks: 8, LoopCount: 3}))
}

func TestPhraseForeverLoopCountsAsOnePass(t *testing.T) {
	assert.Equal(t, 8, Phrase(PhraseTicks{DurationTicks: 8, LoopCount: 0}))
}

func TestSequenceSumsAcrossPhrases(t *testing.T) {
	phrases := []PhraseTicks{
		{DurationTicks: 8, LoopCount: 2},  // 16
		{DurationTicks: 6, LoopCount: 1},  // 6
		{DurationTicks: 4, LoopCount: 0},  // 4 (forever -> one pass)
	}
	assert.Equal(t, 26, Sequence(phrases))
}

func TestSequenceEmptyIsZero(t *testing.T) {
	assert.Equal(t, 0, Sequence(nil))
}

func TestFromTrackNilIsZeroDuration(t *testing.T) {
	pt := FromTrack(nil, 5)
	assert.Equal(t, 0, pt.DurationTicks)
	assert.Equal(t, 5, pt.LoopCount)
}

func TestFromTrackReadsDurationTicks(t *testing.T) {
	tr := track.New([]track.Event{
		{Tick: 0, Note: 60, Velocity: 100, On: true},
		{Tick: 480, Note: 60, Velocity: 0, On: false},
	}, 480)
	pt := FromTrack(tr, 2)
	assert.Equal(t, 480, pt.DurationTicks)
	assert.Equal(t, 2, pt.LoopCount)
	assert.Equal(t, 960, Phrase(pt))
}
