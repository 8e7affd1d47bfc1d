package midiio

import (
	"fmt"
	"strings"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"github.com/gbraad-go/samplecrate/internal/router"
)

// InputHandler receives one fully-routed event resolved through a
// router.Router.
type InputHandler func(ev router.Event)

// ClockSink receives the in-scope MIDI-clock ingress (spec.md §1's "MIDI
// note/clock ingress"): a bare 0xF8 timing-clock pulse and a decoded Song
// Position Pointer, in sixteenth notes. *sequencer.Sequencer satisfies this
// structurally through its ClockPulse/SetSongPosition pair, the same
// typed-dispatch shape as notesink.NoteSink and performance.Telemetry —
// internal/midiio never imports internal/sequencer directly.
type ClockSink interface {
	ClockPulse() int
	SetSongPosition(sixteenths int)
}

// Input listens on one physical MIDI input port and resolves note-on,
// control-change, clock, and song-position messages into routed Events or
// ClockSink calls, bypassing raw SysEx (that traffic belongs to
// internal/sysexproto/internal/transfer, not this ingress path).
type Input struct {
	port        drivers.In
	deviceIndex int
	rt          *router.Router
	onEvent     InputHandler
	clock       ClockSink
	stop        func()
}

// OpenInput finds an input port whose name fuzzily matches name, opens it,
// and starts listening. deviceIndex is the value Router mappings must use
// in their Device field to match events from this port. clock is optional
// (nil disables clock/SPP ingress); pass the same *sequencer.Sequencer the
// rest of the engine advances.
func OpenInput(name string, deviceIndex int, rt *router.Router, onEvent InputHandler, clock ClockSink) (*Input, error) {
	port, err := findInPort(name)
	if err != nil {
		return nil, err
	}
	if err := port.Open(); err != nil {
		return nil, fmt.Errorf("midiio: opening input %q: %w", port.String(), err)
	}

	in := &Input{port: port, deviceIndex: deviceIndex, rt: rt, onEvent: onEvent, clock: clock}
	stop, err := midi.ListenTo(port, in.handleMessage)
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("midiio: listening to %q: %w", port.String(), err)
	}
	in.stop = stop
	return in, nil
}

func findInPort(name string) (drivers.In, error) {
	needle := strings.ToLower(name)
	for _, p := range midi.GetInPorts() {
		if strings.Contains(strings.ToLower(p.String()), needle) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("midiio: no input port matching %q", name)
}

// statusTimingClock and statusSongPositionPointer are the raw MIDI status
// bytes for the two system messages this adapter demuxes outside the
// channel-message Get* helpers: a bare 0xF8 carries no data bytes, and an
// 0xF2 SPP carries two (LSB then MSB, 14 bits of MIDI-beat count).
const (
	statusTimingClock         byte = 0xF8
	statusSongPositionPointer byte = 0xF2
)

func (in *Input) handleMessage(msg midi.Message, _ int32) {
	if in.clock != nil {
		switch {
		case len(msg) == 1 && msg[0] == statusTimingClock:
			in.clock.ClockPulse()
			return
		case len(msg) == 3 && msg[0] == statusSongPositionPointer:
			sixteenths := int(msg[1]) | int(msg[2])<<7
			in.clock.SetSongPosition(sixteenths)
			return
		}
	}

	var channel, key, velocity, controller, value uint8

	switch {
	case msg.GetNoteOn(&channel, &key, &velocity):
		if velocity == 0 {
			return // note-on with velocity 0 is a note-off, carries no routed action
		}
		in.dispatchTriggerPad(int(channel), int(key), int(velocity))
	case msg.GetControlChange(&channel, &controller, &value):
		if ev, ok := in.rt.GetMidiEvent(in.deviceIndex, int(controller), int(value)); ok {
			in.onEvent(ev)
		}
	}
}

func (in *Input) dispatchTriggerPad(channel, note, velocity int) {
	pad, ok := in.rt.FindTriggerPadByNote(in.deviceIndex, note)
	if !ok {
		return
	}
	ev, ok := in.rt.GetTriggerPadEvent(pad)
	if !ok {
		return
	}
	ev.Value = velocity
	in.onEvent(ev)
}

// Close stops listening and releases the port.
func (in *Input) Close() error {
	if in.stop != nil {
		in.stop()
	}
	return in.port.Close()
}

// Devices lists input port names visible on this machine.
func Devices() []string {
	var names []string
	for _, p := range midi.GetInPorts() {
		names = append(names, p.String())
	}
	return names
}
