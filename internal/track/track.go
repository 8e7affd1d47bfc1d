// Package track loads a Standard MIDI File into an immutable, sorted list
// of note events. Grounded on the teacher repository's own MIDI plumbing
// (internal/midiconnector), generalized from "send one note" to "parse an
// entire file", using the same gomidi/midi/v2 stack for the wire-level
// message decoding.
package track

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gitlab.com/gomidi/midi/v2/smf"
)

// ErrInvalidFile is returned when the file is not a well-formed Standard
// MIDI File (bad header chunk, bad header length).
var ErrInvalidFile = errors.New("track: invalid standard MIDI file")

// DefaultTPQN is the ticks-per-quarter-note the sequencer assumes when
// converting pulses to ticks (spec glossary: "TPQN=480 assumed").
const DefaultTPQN = 480

// Event is one note-on or note-off, tick-stamped relative to the start of
// the file.
type Event struct {
	Tick     int
	Note     int
	Velocity int
	On       bool
}

// Track is an immutable, sorted sequence of note events parsed from one
// Standard MIDI File. The zero value is an empty track ready for LoadMIDI.
type Track struct {
	events []Event
	tpqn   int
}

// New returns a track holding a sorted copy of events, useful for building
// synthetic tracks in tests without going through LoadMIDI.
func New(events []Event, tpqn int) *Track {
	t := &Track{tpqn: tpqn}
	t.events = append(t.events, events...)
	sortEvents(t.events)
	return t
}

// LoadMIDI parses path as a Standard MIDI File, projecting every note-on
// (velocity > 0) and note-off (or note-on with velocity 0) across all
// internal tracks onto a single logical, sorted event list. Zero events is
// a success, not an error. A file that cannot be opened (missing,
// unreadable) returns the wrapped I/O error, not ErrInvalidFile.
func (t *Track) LoadMIDI(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("track: read %s: %w", path, err)
	}
	data, err := smf.ReadFile(path)
	if err != nil {
		return fmt.Errorf("track: read %s: %w: %v", path, ErrInvalidFile, err)
	}

	tpqn := DefaultTPQN
	if mt, ok := data.TimeFormat.(smf.MetricTicks); ok {
		tpqn = int(mt.Ticks4th())
	}

	var events []Event
	for _, tr := range data.Tracks {
		var abs int64
		for _, ev := range tr {
			abs += int64(ev.Delta)

			var channel, key, vel uint8
			switch {
			case ev.Message.GetNoteOn(&channel, &key, &vel):
				events = append(events, Event{
					Tick:     int(abs),
					Note:     int(key),
					Velocity: int(vel),
					On:       vel > 0,
				})
			case ev.Message.GetNoteOff(&channel, &key, &vel):
				events = append(events, Event{
					Tick:     int(abs),
					Note:     int(key),
					Velocity: 0,
					On:       false,
				})
			}
		}
	}

	sortEvents(events)
	t.events = events
	t.tpqn = tpqn
	return nil
}

// sortEvents sorts by tick ascending, then note-off before note-on at equal
// ticks, so a retrigger never steals its own voice.
func sortEvents(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Tick != events[j].Tick {
			return events[i].Tick < events[j].Tick
		}
		return onRank(events[i]) < onRank(events[j])
	})
}

func onRank(e Event) int {
	if e.On {
		return 1
	}
	return 0
}

// Events returns the track's read-only event slice. Callers must not
// mutate it; Track is immutable after LoadMIDI.
func (t *Track) Events() []Event {
	return t.events
}

// TPQN returns the ticks-per-quarter-note recorded from the file's header
// (or DefaultTPQN for a synthetic track built with New and tpqn<=0).
func (t *Track) TPQN() int {
	if t.tpqn <= 0 {
		return DefaultTPQN
	}
	return t.tpqn
}

// DurationTicks is the tick of the last event, or 0 for an empty track.
func (t *Track) DurationTicks() int {
	if len(t.events) == 0 {
		return 0
	}
	return t.events[len(t.events)-1].Tick
}
