package midiio

import (
	"fmt"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// FrameHandler receives one raw SysEx frame exactly as it arrived on the
// wire (F0 ... F7), for internal/sysexproto.Parse to decompose.
type FrameHandler func(raw []byte)

// SysexListener listens on one physical MIDI input port for raw SysEx
// frames only, bypassing the channel/clock demuxing Input does. It exists
// because a device's SysEx receive path (internal/sysexproto,
// internal/transfer) is driven from a different port/role than the
// note/CC/clock Input in the common case, and mixing the two demuxers
// would blur Input's single responsibility.
type SysexListener struct {
	port drivers.In
	stop func()
}

// ListenSysex opens the input port fuzzily matching name and invokes
// onFrame for every complete SysEx message received on it.
func ListenSysex(name string, onFrame FrameHandler) (*SysexListener, error) {
	port, err := findInPort(name)
	if err != nil {
		return nil, err
	}
	if err := port.Open(); err != nil {
		return nil, fmt.Errorf("midiio: opening input %q: %w", port.String(), err)
	}

	l := &SysexListener{port: port}
	stop, err := midi.ListenTo(port, func(msg midi.Message, _ int32) {
		if len(msg) == 0 || msg[0] != statusSysExStart {
			return
		}
		onFrame([]byte(msg))
	})
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("midiio: listening to %q: %w", port.String(), err)
	}
	l.stop = stop
	return l, nil
}

const statusSysExStart byte = 0xF0

// Close stops listening and releases the port.
func (l *SysexListener) Close() error {
	if l.stop != nil {
		l.stop()
	}
	return l.port.Close()
}
