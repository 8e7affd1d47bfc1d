package performance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gbraad-go/samplecrate/internal/notesink"
	"github.com/gbraad-go/samplecrate/internal/sequencer"
	"github.com/gbraad-go/samplecrate/internal/track"
)

func newTestPerformance(startMode StartMode) (*Performance, *sequencer.Sequencer) {
	seq := sequencer.New(120)
	return New(seq, startMode), seq
}

func TestPlayImmediateStartsRightAway(t *testing.T) {
	p, seq := newTestPerformance(Immediate)
	sink := notesink.NewRecorder()
	require.NoError(t, p.SetSequence(0, []Phrase{
		{DisplayName: "a", Track: track.New(nil, 480), LoopCount: 0},
	}, sink, false))

	require.NoError(t, p.Play(0, seq.Pulse()))
	assert.True(t, p.IsPlaying(0))
	assert.True(t, seq.SlotIsActive(SequenceSlotBase+0))
}

func TestPlayQuantizedQueuesUntilPulseZero(t *testing.T) {
	p, seq := newTestPerformance(Quantized)
	sink := notesink.NewRecorder()
	require.NoError(t, p.SetSequence(0, []Phrase{
		{DisplayName: "a", Track: track.New(nil, 480), LoopCount: 0},
	}, sink, false))

	require.NoError(t, p.Play(0, 10))
	assert.False(t, p.IsPlaying(0), "quantized start must not begin immediately")

	p.Update(0, 48000, 10)
	assert.False(t, p.IsPlaying(0), "not yet at pattern boundary")

	p.Update(0, 48000, 0)
	assert.True(t, p.IsPlaying(0))
}

func TestPlayUnloadedSequenceIsError(t *testing.T) {
	p, _ := newTestPerformance(Immediate)
	err := p.Play(3, 0)
	assert.Error(t, err)
}

func TestQueueFullIsError(t *testing.T) {
	p, _ := newTestPerformance(Quantized)
	sink := notesink.NewRecorder()
	for i := 0; i < NumSequences; i++ {
		require.NoError(t, p.SetSequence(i%NumSequences, []Phrase{
			{DisplayName: "a", Track: track.New(nil, 480), LoopCount: 0},
		}, sink, false))
	}
	for i := 0; i < 16; i++ {
		require.NoError(t, p.Play(i%NumSequences, 1))
	}
	err := p.Play(0, 1)
	assert.Error(t, err)
}

func TestStopCancelsQueuedStart(t *testing.T) {
	p, _ := newTestPerformance(Quantized)
	sink := notesink.NewRecorder()
	require.NoError(t, p.SetSequence(0, []Phrase{
		{DisplayName: "a", Track: track.New(nil, 480), LoopCount: 0},
	}, sink, false))
	require.NoError(t, p.Play(0, 5))

	require.NoError(t, p.Stop(0))
	p.Update(0, 48000, 0)
	assert.False(t, p.IsPlaying(0), "stopped before boundary must not start")
}

func TestStopAllStopsEverySequenceAndPad(t *testing.T) {
	p, seq := newTestPerformance(Immediate)
	sink := notesink.NewRecorder()
	require.NoError(t, p.SetSequence(0, []Phrase{
		{DisplayName: "a", Track: track.New(nil, 480), LoopCount: 0},
	}, sink, false))
	require.NoError(t, p.LoadPad(0, track.New(nil, 480), "kick", sink, nil))

	require.NoError(t, p.Play(0, 0))
	require.NoError(t, p.TriggerPad(0))
	assert.True(t, p.IsPlaying(0))

	p.StopAll()
	assert.False(t, p.IsPlaying(0))
	assert.False(t, seq.SlotIsActive(PadSlotBase+0))
}

func TestLoadAndUnloadPad(t *testing.T) {
	p, seq := newTestPerformance(Immediate)
	sink := notesink.NewRecorder()
	require.NoError(t, p.LoadPad(3, track.New(nil, 480), "snare", sink, nil))
	require.NoError(t, p.TriggerPad(3))
	assert.True(t, seq.SlotIsActive(PadSlotBase+3))

	require.NoError(t, p.UnloadPad(3))
	err := p.TriggerPad(3)
	assert.Error(t, err)
}

func TestHandleLoopFansOutToAllPlayingSequencesAndPads(t *testing.T) {
	p, seq := newTestPerformance(Immediate)
	sink := notesink.NewRecorder()

	require.NoError(t, p.SetSequence(0, []Phrase{
		{DisplayName: "a", Track: track.New(nil, 480), LoopCount: 1},
		{DisplayName: "b", Track: track.New(nil, 480), LoopCount: 1},
	}, sink, false))
	require.NoError(t, p.LoadPad(0, track.New(nil, 480), "kick", sink, nil))

	require.NoError(t, p.Play(0, seq.Pulse()))
	require.NoError(t, p.TriggerPad(0))

	for i := 0; i < sequencer.PulsesPerPattern; i++ {
		seq.ClockPulse()
	}

	assert.Equal(t, 1, p.sequences[0].CurrentPhraseIndex(), "sequence advanced on pattern wrap")
	assert.True(t, p.IsPlaying(0), "sequence still playing its second phrase")
	assert.False(t, seq.SlotIsActive(PadSlotBase+0), "one-shot pad stopped after its single loop")
}

func TestJumpToPhraseDelegatesToSequence(t *testing.T) {
	p, _ := newTestPerformance(Immediate)
	sink := notesink.NewRecorder()
	require.NoError(t, p.SetSequence(0, []Phrase{
		{DisplayName: "a", Track: track.New(nil, 480), LoopCount: 0},
		{DisplayName: "b", Track: track.New(nil, 480), LoopCount: 0},
	}, sink, false))
	require.NoError(t, p.Play(0, 0))

	require.NoError(t, p.JumpToPhrase(0, 1))
	assert.Equal(t, 1, p.sequences[0].CurrentPhraseIndex())

	err := p.JumpToPhrase(0, 9)
	assert.Error(t, err)
}

func TestSetTempoForwardsToSequencer(t *testing.T) {
	p, seq := newTestPerformance(Immediate)
	p.SetTempo(140)
	assert.Equal(t, 140.0, seq.BPM())
	assert.Equal(t, 140.0, p.Tempo())
}

type recordingTelemetry struct {
	pulseWraps     []float64
	phraseChanges  [][2]int
	sequenceStarts []int
	sequenceStops  []int
}

func (r *recordingTelemetry) PulseWrap(bpm float64) { r.pulseWraps = append(r.pulseWraps, bpm) }
func (r *recordingTelemetry) PhraseChange(slotID, phraseIndex int) {
	r.phraseChanges = append(r.phraseChanges, [2]int{slotID, phraseIndex})
}
func (r *recordingTelemetry) SequenceStart(seqIdx int) {
	r.sequenceStarts = append(r.sequenceStarts, seqIdx)
}
func (r *recordingTelemetry) SequenceStop(seqIdx int) {
	r.sequenceStops = append(r.sequenceStops, seqIdx)
}

func TestTelemetryMirrorsStartStopAndPhraseChange(t *testing.T) {
	p, seq := newTestPerformance(Immediate)
	tel := &recordingTelemetry{}
	p.SetTelemetry(tel)

	sink := notesink.NewRecorder()
	require.NoError(t, p.SetSequence(0, []Phrase{
		{DisplayName: "a", Track: track.New(nil, 480), LoopCount: 0},
	}, sink, false))

	require.NoError(t, p.Play(0, seq.Pulse()))
	assert.Equal(t, []int{0}, tel.sequenceStarts)
	assert.Equal(t, [][2]int{{SequenceSlotBase, 0}}, tel.phraseChanges)

	require.NoError(t, p.Stop(0))
	assert.Equal(t, []int{0}, tel.sequenceStops)
}

func TestSetTelemetryNilDisablesMirroring(t *testing.T) {
	p, seq := newTestPerformance(Immediate)
	p.SetTelemetry(&recordingTelemetry{})
	p.SetTelemetry(nil)

	sink := notesink.NewRecorder()
	require.NoError(t, p.SetSequence(0, []Phrase{
		{DisplayName: "a", Track: track.New(nil, 480), LoopCount: 0},
	}, sink, false))
	require.NoError(t, p.Play(0, seq.Pulse()))
}
