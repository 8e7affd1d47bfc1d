package performance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gbraad-go/samplecrate/internal/notesink"
	"github.com/gbraad-go/samplecrate/internal/sequencer"
	"github.com/gbraad-go/samplecrate/internal/track"
)

func TestPlayWithNoPhrasesIsNoOp(t *testing.T) {
	seq := sequencer.New(120)
	sink := notesink.NewRecorder()
	s := NewSequence(seq, 32, sink, false)

	err := s.Play()
	assert.Error(t, err)
	assert.False(t, s.IsPlaying())
}

func TestHandleLoopZeroLoopCountNeverAdvances(t *testing.T) {
	seq := sequencer.New(120)
	sink := notesink.NewRecorder()
	s := NewSequence(seq, 32, sink, false)

	s.SetPhrases([]Phrase{
		{DisplayName: "forever", Track: track.New(nil, 480), LoopCount: 0},
		{DisplayName: "never-reached", Track: track.New(nil, 480), LoopCount: 1},
	})
	require.NoError(t, s.Play())
	assert.Equal(t, 0, s.CurrentPhraseIndex())

	for i := 0; i < 5; i++ {
		s.HandleLoop()
		assert.Equal(t, 0, s.CurrentPhraseIndex(), "LoopCount==0 phrase never advances")
	}
}

func TestHandleLoopAdvancesAfterLoopCountReached(t *testing.T) {
	seq := sequencer.New(120)
	sink := notesink.NewRecorder()
	s := NewSequence(seq, 32, sink, false)

	var changes []int
	s.SetPhraseChangeFunc(func(idx int) { changes = append(changes, idx) })

	s.SetPhrases([]Phrase{
		{DisplayName: "a", Track: track.New(nil, 480), LoopCount: 2},
		{DisplayName: "b", Track: track.New(nil, 480), LoopCount: 1},
	})
	require.NoError(t, s.Play())
	assert.Equal(t, []int{0}, changes)

	s.HandleLoop() // first wrap: loop 1 of 2, stay on phrase 0
	assert.Equal(t, 0, s.CurrentPhraseIndex())

	s.HandleLoop() // second wrap: loop count reached, advance to phrase 1
	assert.Equal(t, 1, s.CurrentPhraseIndex())
	assert.Equal(t, []int{0, 1}, changes)
}

func TestHandleLoopAtEndOfListStopsWithoutSequenceLoop(t *testing.T) {
	seq := sequencer.New(120)
	sink := notesink.NewRecorder()
	s := NewSequence(seq, 32, sink, false)

	s.SetPhrases([]Phrase{
		{DisplayName: "only", Track: track.New(nil, 480), LoopCount: 1},
	})
	require.NoError(t, s.Play())

	s.HandleLoop()
	assert.False(t, s.IsPlaying())
	assert.Equal(t, -1, s.CurrentPhraseIndex())
	assert.False(t, seq.SlotIsActive(32))
}

func TestHandleLoopAtEndOfListWrapsWithSequenceLoop(t *testing.T) {
	seq := sequencer.New(120)
	sink := notesink.NewRecorder()
	s := NewSequence(seq, 32, sink, true)

	s.SetPhrases([]Phrase{
		{DisplayName: "only", Track: track.New(nil, 480), LoopCount: 1},
	})
	require.NoError(t, s.Play())

	s.HandleLoop()
	assert.True(t, s.IsPlaying())
	assert.Equal(t, 0, s.CurrentPhraseIndex())
	assert.True(t, seq.SlotIsActive(32))
}

func TestJumpToPhraseOutOfRangeIsError(t *testing.T) {
	seq := sequencer.New(120)
	sink := notesink.NewRecorder()
	s := NewSequence(seq, 32, sink, false)
	s.SetPhrases([]Phrase{{DisplayName: "a", Track: track.New(nil, 480), LoopCount: 1}})
	require.NoError(t, s.Play())

	err := s.JumpToPhrase(5)
	assert.Error(t, err)
	assert.Equal(t, 0, s.CurrentPhraseIndex())
}

func TestJumpToPhraseWhileStoppedUpdatesIndexWithoutRegistering(t *testing.T) {
	seq := sequencer.New(120)
	sink := notesink.NewRecorder()
	s := NewSequence(seq, 32, sink, false)
	s.SetPhrases([]Phrase{
		{DisplayName: "a", Track: track.New(nil, 480), LoopCount: 1},
		{DisplayName: "b", Track: track.New(nil, 480), LoopCount: 1},
	})

	require.NoError(t, s.JumpToPhrase(1))
	assert.Equal(t, 1, s.CurrentPhraseIndex())
	assert.False(t, s.IsPlaying())
	assert.False(t, seq.SlotIsActive(32))
}

func TestStopUnregistersSlot(t *testing.T) {
	seq := sequencer.New(120)
	sink := notesink.NewRecorder()
	s := NewSequence(seq, 32, sink, false)
	s.SetPhrases([]Phrase{{DisplayName: "a", Track: track.New(nil, 480), LoopCount: 0}})
	require.NoError(t, s.Play())
	assert.True(t, seq.SlotIsActive(32))

	s.Stop()
	assert.False(t, s.IsPlaying())
	assert.False(t, seq.SlotIsActive(32))

	s.Stop() // idempotent
	assert.False(t, s.IsPlaying())
}

func TestStandaloneSequenceReceivesSequencerLoopEvents(t *testing.T) {
	seq := sequencer.New(120)
	sink := notesink.NewRecorder()
	s := NewSequence(seq, 32, sink, true)
	s.SetPhrases([]Phrase{{DisplayName: "a", Track: track.New(nil, 480), LoopCount: 1}})
	require.NoError(t, s.Play())

	for i := 0; i < sequencer.PulsesPerPattern; i++ {
		seq.ClockPulse()
	}
	assert.Equal(t, 0, s.CurrentPhraseIndex(), "sequence loop wrapped back to phrase 0")
}
