// Package sequencer implements the single authoritative pulse-quantized
// pattern position and dispatches note events from active slots into their
// registered sinks. Grounded in the teacher repository's playback loop
// shape (internal/model's SongPlayback* fields drive a tick countdown per
// track) but rebuilt around a single shared pulse counter instead of one
// ticks-left counter per track, per spec.md §4.1.
package sequencer

import (
	"fmt"
	"log"
	"math"
	"sort"
	"sync"

	"github.com/gbraad-go/samplecrate/internal/notesink"
	"github.com/gbraad-go/samplecrate/internal/track"
)

// NumSlots is the size of the slot array: 0-31 pads, 32-47 sequences.
const NumSlots = 48

// PulsesPerPattern is the fixed 4-bar/64-row pattern length at 24 PPQN.
const PulsesPerPattern = 384

// PulsesPerQuarter is the fixed PPQN the pulse domain operates at.
const PulsesPerQuarter = 24

// TPQN is the MIDI-tick resolution used to convert a pulse position into a
// track tick offset (spec glossary: "TPQN=480 assumed").
const TPQN = track.DefaultTPQN

// Slot holds everything the sequencer needs to dispatch one track's events.
// Track is a weak (non-owning) reference; the sequencer never frees it.
type Slot struct {
	Track             *track.Track
	Sink              notesink.NoteSink
	UserData          any
	LastTickProcessed int
	Active            bool
}

// Sequencer is the pulse clock plus the fixed slot array. All exported
// methods are safe for concurrent use; each is a bounded critical section
// with no I/O and no allocation on its steady-state path (Advance and
// ClockPulse release the lock while the loop callback runs).
type Sequencer struct {
	mu sync.Mutex

	active            bool
	bpm               float64
	pulse             int
	accumulatedPulses float64

	slots [NumSlots]Slot

	loopCallback func(userData any)
	loopUserData any
}

// New returns a Sequencer at pulse 0, enabled, with no active slots.
func New(bpm float64) *Sequencer {
	if bpm <= 0 {
		bpm = 120
	}
	return &Sequencer{active: true, bpm: bpm}
}

// SetActive enables or disables the master clock. A disabled sequencer's
// Advance/ClockPulse always return -1 without changing state. There is no
// spec-mandated way to reach this state other than construction (which
// defaults to active); it exists so an engine can silence the sequencer
// during shutdown without tearing it down.
func (s *Sequencer) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

// SetBPM accepts bpm if it's positive; otherwise it's a silent no-op. No
// position change.
func (s *Sequencer) SetBPM(bpm float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if bpm > 0 {
		s.bpm = bpm
	}
}

// BPM returns the current tempo.
func (s *Sequencer) BPM() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bpm
}

// Pulse returns the current pulse position without mutating anything.
func (s *Sequencer) Pulse() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pulse
}

// SetSongPosition jumps to the pulse implied by a 16th-note Song Position
// Pointer value, re-arming every active slot so the jumped-over region
// never fires. No dispatch happens here: spec.md's property "SetSongPosition
// followed immediately by Advance(0 samples) fires zero events" depends on
// this never touching LastTickProcessed forward of the new tick.
func (s *Sequencer) SetSongPosition(sppSixteenths int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := sppSixteenths % 64
	if row < 0 {
		row += 64
	}
	s.pulse = row * 6
	s.accumulatedPulses = 0
	s.rearmActiveSlotsLocked()
}

// ClockPulse advances the pattern position by exactly one pulse, as an
// external MIDI-clock driver would call it. Exclusive in practice with
// Advance on the same instance (spec.md §9): mixing the two just means two
// different ways of incrementing the same shared pulse counter, so nothing
// breaks, but an engine should pick one source of truth per run.
func (s *Sequencer) ClockPulse() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active {
		return -1
	}
	if !s.anyActiveSlotLocked() {
		if s.pulse != 0 {
			s.pulse = 0
			s.accumulatedPulses = 0
		}
		return -1
	}

	s.pulse++
	s.wrapAndRearmLocked()

	newTick := s.pulse * TPQN / PulsesPerQuarter
	s.dispatchLocked(newTick)
	return s.pulse
}

// Advance is the principal hot operation, called once per audio callback.
func (s *Sequencer) Advance(numSamples int, sampleRate float64) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active {
		return -1
	}
	if !s.anyActiveSlotLocked() {
		if s.pulse != 0 {
			s.pulse = 0
			s.accumulatedPulses = 0
		}
		return -1
	}
	if numSamples <= 0 || sampleRate <= 0 {
		return s.pulse
	}

	exactPulses := (float64(numSamples) / sampleRate) * (s.bpm * float64(PulsesPerQuarter) / 60.0)
	s.accumulatedPulses += exactPulses
	whole := math.Floor(s.accumulatedPulses)
	s.accumulatedPulses -= whole

	if whole > 0 {
		s.pulse += int(whole)
		s.wrapAndRearmLocked()
	}

	newTick := s.pulse * TPQN / PulsesPerQuarter
	s.dispatchLocked(newTick)
	return s.pulse
}

// wrapAndRearmLocked wraps pulse into [0,384) and, if it wrapped, re-arms
// every active slot and fires the loop callback AFTER the re-arm, per
// spec.md §4.1 step 5b. The callback runs with s.mu released, since it
// typically re-registers tracks through AddTrack/RemoveTrack, which take
// s.mu themselves; s.mu is held again when this returns.
func (s *Sequencer) wrapAndRearmLocked() {
	if s.pulse < PulsesPerPattern {
		return
	}
	s.pulse %= PulsesPerPattern
	s.rearmActiveSlotsLocked()
	if cb := s.loopCallback; cb != nil {
		userData := s.loopUserData
		s.mu.Unlock()
		cb(userData)
		s.mu.Lock()
	}
}

// rearmActiveSlotsLocked sets every active slot's LastTickProcessed to
// exclude the jumped-over region, per invariant 3.
func (s *Sequencer) rearmActiveSlotsLocked() {
	newTick := s.pulse * TPQN / PulsesPerQuarter
	for i := range s.slots {
		if s.slots[i].Active {
			s.slots[i].LastTickProcessed = newTick - 1
		}
	}
}

func (s *Sequencer) anyActiveSlotLocked() bool {
	for i := range s.slots {
		if s.slots[i].Active {
			return true
		}
	}
	return false
}

// dispatchLocked fires, for every active slot, every event with
// LastTickProcessed < tick <= newTick, in track order, then stores
// LastTickProcessed = newTick. A slot's events slice is sorted, so the
// first candidate is found with a binary search — no allocation, no scan
// from the start of the track.
func (s *Sequencer) dispatchLocked(newTick int) {
	for i := range s.slots {
		sl := &s.slots[i]
		if !sl.Active || sl.Track == nil || sl.Sink == nil {
			continue
		}
		events := sl.Track.Events()
		lo := sl.LastTickProcessed
		idx := sort.Search(len(events), func(i int) bool { return events[i].Tick > lo })
		for ; idx < len(events) && events[idx].Tick <= newTick; idx++ {
			e := events[idx]
			sl.Sink.OnEvent(e.Note, e.Velocity, e.On, sl.UserData)
		}
		sl.LastTickProcessed = newTick
	}
}

// AddTrack registers tr on slot, to be dispatched to sink. Out-of-range
// slots are a silent no-op (an error is returned for testability, but no
// panic and no partial state change ever happens).
func (s *Sequencer) AddTrack(slot int, tr *track.Track, sink notesink.NoteSink, userdata any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if slot < 0 || slot >= NumSlots {
		log.Printf("[SEQUENCER] AddTrack: slot %d out of range, ignoring", slot)
		return fmt.Errorf("sequencer: slot %d out of range [0,%d)", slot, NumSlots)
	}

	newTick := s.pulse * TPQN / PulsesPerQuarter
	s.slots[slot] = Slot{
		Track:             tr,
		Sink:              sink,
		UserData:          userdata,
		LastTickProcessed: newTick - 1,
		Active:            true,
	}
	return nil
}

// RemoveTrack clears slot. Out-of-range slots are a silent no-op.
func (s *Sequencer) RemoveTrack(slot int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if slot < 0 || slot >= NumSlots {
		log.Printf("[SEQUENCER] RemoveTrack: slot %d out of range, ignoring", slot)
		return fmt.Errorf("sequencer: slot %d out of range [0,%d)", slot, NumSlots)
	}
	s.slots[slot] = Slot{}
	return nil
}

// SlotIsActive reports whether slot currently has a registered track. An
// out-of-range slot reports false.
func (s *Sequencer) SlotIsActive(slot int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if slot < 0 || slot >= NumSlots {
		return false
	}
	return s.slots[slot].Active
}

// SetLoopCallback installs the single pattern-wrap handler. Only one may be
// registered at a time; installing a new one replaces the old one. An
// engine with multiple concurrently playing sequences fans this single hook
// out to each of them (see internal/performance.Performance), since the
// pulse position — and therefore the wrap event — is shared.
func (s *Sequencer) SetLoopCallback(cb func(userData any), userData any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loopCallback = cb
	s.loopUserData = userData
}
