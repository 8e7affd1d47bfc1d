// Package notesink defines the abstract note-event consumer the sequencer
// dispatches into, plus a couple of reference implementations used by
// tests and the dev CLI. The real synthesis engine (SFZ) lives outside this
// module entirely.
package notesink

import "github.com/gbraad-go/samplecrate/internal/midiio"

// NoteSink consumes note events as the sequencer dispatches them. Calls
// happen from whatever goroutine drives Sequencer.Advance/ClockPulse, so
// implementations must not block or allocate on the hot path.
type NoteSink interface {
	OnEvent(note, velocity int, on bool, userCtx any)
}

// Event is one recorded call to OnEvent, used by Recorder.
type Event struct {
	Note     int
	Velocity int
	On       bool
	UserCtx  any
}

// Recorder is a NoteSink that appends every event it receives, in arrival
// order. It never blocks or allocates beyond the occasional slice grow, so
// it's safe to use directly in sequencer/performance tests.
type Recorder struct {
	Events []Event
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) OnEvent(note, velocity int, on bool, userCtx any) {
	r.Events = append(r.Events, Event{Note: note, Velocity: velocity, On: on, UserCtx: userCtx})
}

func (r *Recorder) Reset() {
	r.Events = r.Events[:0]
}

// MIDIOut is the NoteSink an operator plugs a real synth module into: it
// forwards every event as a MIDI note-on/off out a physical output port
// opened through internal/midiio. It is explicitly not a synthesis engine.
type MIDIOut struct {
	out *midiio.Output
}

// NewMIDIOut opens deviceName (fuzzy match) on channel (0-indexed) and
// returns a NoteSink bound to it.
func NewMIDIOut(deviceName string, channel int) (*MIDIOut, error) {
	out, err := midiio.NewOutput(deviceName, channel)
	if err != nil {
		return nil, err
	}
	return &MIDIOut{out: out}, nil
}

// OnEvent implements NoteSink.
func (m *MIDIOut) OnEvent(note, velocity int, on bool, userCtx any) {
	m.out.OnEvent(note, velocity, on, userCtx)
}

// Close releases the underlying output device.
func (m *MIDIOut) Close() error {
	return m.out.Close()
}
