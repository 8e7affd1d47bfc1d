// Package midiio wires the MIDI ingress and egress edges described in
// spec.md §4.6 onto real hardware/virtual ports: Output adapts a physical
// output device into a notesink.NoteSink so it can be registered directly
// with a Sequencer/Performance, and Input listens on a physical input port
// and resolves messages through a router.Router. Grounded on the teacher
// repository's internal/midiconnector (device open/close/note bookkeeping)
// and internal/midiplayer (the NoteSink-shaped wrapper around it), kept as
// reference infrastructure and adapted here onto the spec's own mapping and
// sink interfaces instead of the teacher's duration-timer note player.
package midiio

import (
	"fmt"
	"log"

	"github.com/gbraad-go/samplecrate/internal/midiconnector"
)

// Output is a notesink.NoteSink that forwards every note event to a real
// MIDI output device on a fixed channel.
type Output struct {
	device  *midiconnector.Device
	channel uint8
}

// NewOutput opens the output device whose name contains (fuzzily) name and
// binds it to channel (0-indexed, 0..15).
func NewOutput(name string, channel int) (*Output, error) {
	if channel < 0 || channel > 15 {
		return nil, fmt.Errorf("midiio: channel must be 0..15, got %d", channel)
	}
	dev, err := midiconnector.New(name)
	if err != nil {
		return nil, fmt.Errorf("midiio: opening output %q: %w", name, err)
	}
	if err := dev.Open(); err != nil {
		return nil, fmt.Errorf("midiio: opening output %q: %w", name, err)
	}
	return &Output{device: dev, channel: uint8(channel)}, nil
}

// OnEvent implements notesink.NoteSink. It never returns an error to the
// caller; transport failures are logged, matching the audio thread's
// never-block contract.
func (o *Output) OnEvent(note, velocity int, on bool, _ any) {
	var err error
	if on {
		err = o.device.NoteOn(o.channel, uint8(note), uint8(velocity))
	} else {
		err = o.device.NoteOff(o.channel, uint8(note))
	}
	if err != nil {
		log.Printf("[MIDIIO] note event dropped on channel %d: %v", o.channel, err)
	}
}

// SendSysEx writes a raw SysEx frame (see internal/sysexproto.Build) out
// the bound device.
func (o *Output) SendSysEx(frame []byte) error {
	return o.device.Send(frame)
}

// Close releases the underlying device, sending note-offs for any notes
// still held.
func (o *Output) Close() error {
	return o.device.Close()
}
