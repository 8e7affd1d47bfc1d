package performance

import (
	"fmt"
	"log"

	"github.com/gbraad-go/samplecrate/internal/notesink"
	"github.com/gbraad-go/samplecrate/internal/sequencer"
	"github.com/gbraad-go/samplecrate/internal/track"
)

// NumSequences is the fixed number of RSX-defined sequences a Performance
// holds, each bound to sequencer slots 32-47.
const NumSequences = 16

// NumPads is the fixed number of one-phrase pad sequences, bound to
// sequencer slots 0-31.
const NumPads = 32

// SequenceSlotBase and PadSlotBase are the sequencer slot ranges pads and
// sequences occupy (spec.md glossary).
const (
	PadSlotBase      = 0
	SequenceSlotBase = 32
)

// StartMode controls how Performance.Play begins a sequence.
type StartMode int

const (
	Immediate StartMode = iota
	Quantized
)

// QueueEntry is a pending bar-quantized sequence start.
type QueueEntry struct {
	SeqIdx     int
	StartPulse int
	Active     bool
}

// Telemetry is the narrow surface Performance needs to mirror status to an
// external monitor. internal/telemetry.Mirror satisfies it structurally;
// Performance never imports that package directly, keeping the OSC
// dependency out of the core playback path (same typed-dispatch reasoning
// as notesink.NoteSink: a capability the caller plugs in, not a concrete
// collaborator this package must know about).
type Telemetry interface {
	PulseWrap(bpm float64)
	PhraseChange(slotID, phraseIndex int)
	SequenceStart(seqIdx int)
	SequenceStop(seqIdx int)
}

// Performance is the fixed-size collection of up to 16 sequences plus up to
// 32 pads, all driven by one shared Sequencer, with a bar-quantized start
// queue.
type Performance struct {
	seq *sequencer.Sequencer

	sequences [NumSequences]*Sequence
	pads      [NumPads]*Sequence

	queue [16]QueueEntry

	startMode StartMode
	tempoBPM  float64

	telemetry Telemetry
}

// New builds a Performance over seq. Every sequence/pad slot starts empty;
// LoadPad and the caller's own sequence construction populate them.
func New(seq *sequencer.Sequencer, startMode StartMode) *Performance {
	p := &Performance{seq: seq, startMode: startMode, tempoBPM: seq.BPM()}
	seq.SetLoopCallback(func(any) { p.handleLoop() }, nil)
	return p
}

// handleLoop fans the sequencer's single pattern-wrap event out to every
// currently playing sequence and pad. The Sequencer only supports one loop
// callback (it tracks a single shared pulse position), so a Performance
// with several concurrently playing heads must do this fan-out itself.
func (p *Performance) handleLoop() {
	for _, s := range p.sequences {
		if s != nil && s.playing {
			s.HandleLoop()
		}
	}
	for _, s := range p.pads {
		if s != nil && s.playing {
			s.HandleLoop()
		}
	}
	if p.telemetry != nil {
		p.telemetry.PulseWrap(p.tempoBPM)
	}
}

// SetTelemetry installs an optional status mirror. Pass nil to disable it.
func (p *Performance) SetTelemetry(t Telemetry) {
	p.telemetry = t
}

// SetSequence installs seq at index idx (0..15), bound to slot
// SequenceSlotBase+idx. Any existing sequence at idx is stopped first.
func (p *Performance) SetSequence(idx int, phrases []Phrase, sink notesink.NoteSink, sequenceLoop bool) error {
	if idx < 0 || idx >= NumSequences {
		return fmt.Errorf("performance: sequence index %d out of range [0,%d)", idx, NumSequences)
	}
	if p.sequences[idx] != nil {
		p.sequences[idx].Stop()
	}
	s := NewSequence(p.seq, SequenceSlotBase+idx, sink, sequenceLoop)
	s.standalone = false
	slotID := SequenceSlotBase + idx
	s.SetPhraseChangeFunc(func(phraseIdx int) {
		if p.telemetry != nil {
			p.telemetry.PhraseChange(slotID, phraseIdx)
		}
	})
	s.SetPhrases(phrases)
	p.sequences[idx] = s
	return nil
}

// LoadPad installs a one-phrase sequence on pad padIdx (0..31), bound to
// sequencer slot PadSlotBase+padIdx.
func (p *Performance) LoadPad(padIdx int, midiFile *track.Track, displayName string, sink notesink.NoteSink, userdata any) error {
	if padIdx < 0 || padIdx >= NumPads {
		return fmt.Errorf("performance: pad index %d out of range [0,%d)", padIdx, NumPads)
	}
	if p.pads[padIdx] != nil {
		p.pads[padIdx].Stop()
	}
	s := NewSequence(p.seq, PadSlotBase+padIdx, sink, false)
	s.standalone = false
	slotID := PadSlotBase + padIdx
	s.SetPhraseChangeFunc(func(phraseIdx int) {
		if p.telemetry != nil {
			p.telemetry.PhraseChange(slotID, phraseIdx)
		}
	})
	s.SetPhrases([]Phrase{{DisplayName: displayName, Track: midiFile, LoopCount: 1}})
	p.pads[padIdx] = s
	return nil
}

// UnloadPad stops and clears pad padIdx.
func (p *Performance) UnloadPad(padIdx int) error {
	if padIdx < 0 || padIdx >= NumPads {
		return fmt.Errorf("performance: pad index %d out of range [0,%d)", padIdx, NumPads)
	}
	if p.pads[padIdx] != nil {
		p.pads[padIdx].Stop()
		p.pads[padIdx] = nil
	}
	return nil
}

// TriggerPad starts (or restarts) the one-shot phrase on pad padIdx.
func (p *Performance) TriggerPad(padIdx int) error {
	if padIdx < 0 || padIdx >= NumPads || p.pads[padIdx] == nil {
		return fmt.Errorf("performance: pad %d not loaded", padIdx)
	}
	pad := p.pads[padIdx]
	if pad.IsPlaying() {
		pad.Stop()
	}
	return pad.Play()
}

// Play starts sequence seqIdx either immediately or, in Quantized mode,
// queues it for the next pattern boundary (spec.md's resolved open
// question: "next bar" == pulse 0, the 384-pulse pattern boundary).
func (p *Performance) Play(seqIdx int, currentPulse int) error {
	if seqIdx < 0 || seqIdx >= NumSequences || p.sequences[seqIdx] == nil {
		return fmt.Errorf("performance: sequence %d not loaded", seqIdx)
	}

	if p.startMode == Immediate {
		if err := p.sequences[seqIdx].Play(); err != nil {
			return err
		}
		if p.telemetry != nil {
			p.telemetry.SequenceStart(seqIdx)
		}
		return nil
	}

	for i := range p.queue {
		if !p.queue[i].Active {
			p.queue[i] = QueueEntry{SeqIdx: seqIdx, StartPulse: 0, Active: true}
			return nil
		}
	}
	log.Printf("[PERFORMANCE] start queue full, dropping request for sequence %d", seqIdx)
	return fmt.Errorf("performance: start queue full")
}

// Update services the start queue: any active entry whose trigger pulse has
// arrived starts its sequence and is cleared. Also an opportunity to keep
// Performance's own tempo mirror current; the Sequencer itself is the
// authority and is not re-armed here.
func (p *Performance) Update(numSamples int, sampleRate float64, currentPulse int) {
	for i := range p.queue {
		entry := &p.queue[i]
		if !entry.Active {
			continue
		}
		trigger := currentPulse == 0 || currentPulse == entry.StartPulse
		if !trigger {
			continue
		}
		seqIdx := entry.SeqIdx
		*entry = QueueEntry{}
		if seqIdx >= 0 && seqIdx < NumSequences && p.sequences[seqIdx] != nil {
			if err := p.sequences[seqIdx].Play(); err != nil {
				log.Printf("[PERFORMANCE] queued start of sequence %d failed: %v", seqIdx, err)
			} else if p.telemetry != nil {
				p.telemetry.SequenceStart(seqIdx)
			}
		}
	}
	p.tempoBPM = p.seq.BPM()
}

// Stop cancels any pending queue entry targeting seqIdx and stops its
// sequence. An index with no loaded sequence is an error, as in Play.
func (p *Performance) Stop(seqIdx int) error {
	if seqIdx < 0 || seqIdx >= NumSequences {
		return fmt.Errorf("performance: sequence index %d out of range [0,%d)", seqIdx, NumSequences)
	}
	if p.sequences[seqIdx] == nil {
		return fmt.Errorf("performance: sequence %d not loaded", seqIdx)
	}
	for i := range p.queue {
		if p.queue[i].Active && p.queue[i].SeqIdx == seqIdx {
			p.queue[i] = QueueEntry{}
		}
	}
	if p.sequences[seqIdx] != nil && p.sequences[seqIdx].IsPlaying() {
		p.sequences[seqIdx].Stop()
		if p.telemetry != nil {
			p.telemetry.SequenceStop(seqIdx)
		}
	}
	return nil
}

// StopAll stops every sequence and pad and clears the start queue.
func (p *Performance) StopAll() {
	for i := range p.queue {
		p.queue[i] = QueueEntry{}
	}
	for _, s := range p.sequences {
		if s != nil {
			s.Stop()
		}
	}
	for _, s := range p.pads {
		if s != nil {
			s.Stop()
		}
	}
}

// JumpToPhrase switches sequence seqIdx to phrase phraseIdx immediately.
func (p *Performance) JumpToPhrase(seqIdx, phraseIdx int) error {
	if seqIdx < 0 || seqIdx >= NumSequences || p.sequences[seqIdx] == nil {
		return fmt.Errorf("performance: sequence %d not loaded", seqIdx)
	}
	return p.sequences[seqIdx].JumpToPhrase(phraseIdx)
}

// IsPlaying reports whether sequence seqIdx currently has an active
// playback head.
func (p *Performance) IsPlaying(seqIdx int) bool {
	if seqIdx < 0 || seqIdx >= NumSequences || p.sequences[seqIdx] == nil {
		return false
	}
	return p.sequences[seqIdx].IsPlaying()
}

// SetTempo forwards to the shared Sequencer and mirrors it locally.
func (p *Performance) SetTempo(bpm float64) {
	p.seq.SetBPM(bpm)
	p.tempoBPM = p.seq.BPM()
}

// Tempo returns the last-observed shared tempo.
func (p *Performance) Tempo() float64 {
	return p.tempoBPM
}

// SequenceStatus reports the playback state of sequence seqIdx, for status
// displays and snapshotting. ok is false for an out-of-range or unloaded
// index.
func (p *Performance) SequenceStatus(seqIdx int) (playing bool, currentPhrase int, ok bool) {
	if seqIdx < 0 || seqIdx >= NumSequences || p.sequences[seqIdx] == nil {
		return false, 0, false
	}
	s := p.sequences[seqIdx]
	return s.IsPlaying(), s.CurrentPhraseIndex(), true
}

// PadStatus reports the playback state of pad padIdx, for status displays
// and snapshotting. ok is false for an out-of-range or unloaded index.
func (p *Performance) PadStatus(padIdx int) (playing bool, ok bool) {
	if padIdx < 0 || padIdx >= NumPads || p.pads[padIdx] == nil {
		return false, false
	}
	return p.pads[padIdx].IsPlaying(), true
}

// SequenceLengthTicks reports the tick length of one full pass through
// sequence seqIdx's phrase list. ok is false for an out-of-range or
// unloaded index.
func (p *Performance) SequenceLengthTicks(seqIdx int) (length int, ok bool) {
	if seqIdx < 0 || seqIdx >= NumSequences || p.sequences[seqIdx] == nil {
		return 0, false
	}
	return p.sequences[seqIdx].LengthTicks(), true
}
