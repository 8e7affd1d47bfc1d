// Package performance implements the Sequence and Performance playback
// heads described in spec.md §4.3: an ordered phrase chain played through a
// single sequencer slot, and a fixed collection of such chains with a
// bar-quantized start queue. Grounded on the teacher repository's song/chain
// playback bookkeeping (internal/model's SongPlayback* arrays walk chain ->
// phrase -> row), rebuilt around the spec's Track-based sequencer instead
// of the teacher's own per-tick countdown.
package performance

import (
	"fmt"
	"log"

	"github.com/gbraad-go/samplecrate/internal/notesink"
	"github.com/gbraad-go/samplecrate/internal/sequencer"
	"github.com/gbraad-go/samplecrate/internal/ticks"
	"github.com/gbraad-go/samplecrate/internal/track"
)

// Phrase is one loadable MIDI file inside a Sequence, with a bounded or
// infinite (LoopCount == 0) loop count.
type Phrase struct {
	MidiFilePath string
	DisplayName  string
	LoopCount    int
	Track        *track.Track
}

// PhraseChangeFunc is called whenever a Sequence's current phrase changes,
// including the initial phrase selected by Play/JumpToPhrase.
type PhraseChangeFunc func(phraseIndex int)

// Sequence is one playback head over an ordered phrase list, registered on
// a single sequencer slot while playing.
type Sequence struct {
	phrases []Phrase

	currentPhraseIndex int
	currentPhraseLoop  int
	sequenceLoop       bool

	slotID int
	seq    *sequencer.Sequencer
	sink   notesink.NoteSink

	playing bool

	onPhraseChange PhraseChangeFunc

	// standalone is true when this Sequence owns the sequencer's loop
	// callback directly (no owning Performance fans the wrap event out to
	// it). Performance clears this when it takes over dispatch.
	standalone bool
}

// NewSequence creates a playback head bound to slotID on seq, dispatching
// events to sink. sequenceLoop controls what happens when the phrase list
// is exhausted: true restarts at phrase 0, false stops.
func NewSequence(seq *sequencer.Sequencer, slotID int, sink notesink.NoteSink, sequenceLoop bool) *Sequence {
	return &Sequence{
		currentPhraseIndex: -1,
		sequenceLoop:       sequenceLoop,
		slotID:             slotID,
		seq:                seq,
		sink:               sink,
		standalone:         true,
	}
}

// SetPhrases replaces the phrase list. Stops playback first if playing.
func (s *Sequence) SetPhrases(phrases []Phrase) {
	if s.playing {
		s.Stop()
	}
	s.phrases = phrases
}

// Phrases returns the current phrase list (read-only use expected).
func (s *Sequence) Phrases() []Phrase {
	return s.phrases
}

// LengthTicks is the tick length of one full pass through the phrase list,
// each phrase counted once per its loop count (a forever-looping phrase
// counts as a single pass). Used for display/telemetry, not playback.
func (s *Sequence) LengthTicks() int {
	totals := make([]ticks.PhraseTicks, len(s.phrases))
	for i, p := range s.phrases {
		totals[i] = ticks.FromTrack(p.Track, p.LoopCount)
	}
	return ticks.Sequence(totals)
}

// SetPhraseChangeFunc installs the phrase-change notification callback.
func (s *Sequence) SetPhraseChangeFunc(fn PhraseChangeFunc) {
	s.onPhraseChange = fn
}

// CurrentPhraseIndex returns the index of the phrase currently playing, or
// -1 if stopped.
func (s *Sequence) CurrentPhraseIndex() int {
	return s.currentPhraseIndex
}

// IsPlaying reports whether the sequence has an active playback head.
func (s *Sequence) IsPlaying() bool {
	return s.playing
}

// SlotID returns the sequencer slot this sequence occupies while playing.
func (s *Sequence) SlotID() int {
	return s.slotID
}

// Play starts playback from phrase 0. A no-op if there are no phrases.
func (s *Sequence) Play() error {
	if len(s.phrases) == 0 {
		log.Printf("[PERFORMANCE] sequence on slot %d has no phrases, Play is a no-op", s.slotID)
		return fmt.Errorf("performance: sequence on slot %d has no phrases", s.slotID)
	}

	s.playing = true
	s.currentPhraseIndex = 0
	s.currentPhraseLoop = 0

	if err := s.registerCurrentPhraseLocked(); err != nil {
		return err
	}

	if s.standalone {
		s.seq.SetLoopCallback(func(any) { s.HandleLoop() }, nil)
	}

	s.notifyPhraseChange()
	return nil
}

// Stop unregisters the slot and resets the playback head.
func (s *Sequence) Stop() {
	if !s.playing {
		return
	}
	_ = s.seq.RemoveTrack(s.slotID)
	s.playing = false
	s.currentPhraseIndex = -1
	s.currentPhraseLoop = 0
}

// JumpToPhrase switches immediately to phrase idx. Out-of-range idx returns
// an error and leaves the playback head unchanged.
func (s *Sequence) JumpToPhrase(idx int) error {
	if idx < 0 || idx >= len(s.phrases) {
		return fmt.Errorf("performance: phrase index %d out of range [0,%d)", idx, len(s.phrases))
	}

	if s.playing {
		_ = s.seq.RemoveTrack(s.slotID)
	}
	s.currentPhraseIndex = idx
	s.currentPhraseLoop = 0
	if s.playing {
		if err := s.registerCurrentPhraseLocked(); err != nil {
			return err
		}
	}
	s.notifyPhraseChange()
	return nil
}

func (s *Sequence) registerCurrentPhraseLocked() error {
	if s.currentPhraseIndex < 0 || s.currentPhraseIndex >= len(s.phrases) {
		return nil
	}
	phrase := s.phrases[s.currentPhraseIndex]
	return s.seq.AddTrack(s.slotID, phrase.Track, s.sink, nil)
}

func (s *Sequence) notifyPhraseChange() {
	if s.onPhraseChange != nil {
		s.onPhraseChange(s.currentPhraseIndex)
	}
}

// HandleLoop is the pattern-wrap handler (spec.md §4.3.1): a phrase with
// LoopCount==0 loops forever and never advances; otherwise, once the loop
// counter reaches LoopCount, advance to the next phrase (wrapping to 0 if
// SequenceLoop is set, else stopping).
func (s *Sequence) HandleLoop() {
	if !s.playing || s.currentPhraseIndex < 0 || s.currentPhraseIndex >= len(s.phrases) {
		return
	}

	s.currentPhraseLoop++

	phrase := s.phrases[s.currentPhraseIndex]
	if phrase.LoopCount == 0 {
		return // loop this phrase forever, never advance
	}
	if s.currentPhraseLoop < phrase.LoopCount {
		return
	}

	nextIndex := s.currentPhraseIndex + 1
	if nextIndex >= len(s.phrases) {
		if !s.sequenceLoop {
			s.Stop()
			return
		}
		nextIndex = 0
	}

	_ = s.seq.RemoveTrack(s.slotID)
	s.currentPhraseIndex = nextIndex
	s.currentPhraseLoop = 0
	if err := s.registerCurrentPhraseLocked(); err != nil {
		log.Printf("[PERFORMANCE] slot %d: failed to register phrase %d: %v", s.slotID, nextIndex, err)
	}
	s.notifyPhraseChange()
}
