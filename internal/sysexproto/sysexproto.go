// Package sysexproto implements the SysEx frame format described in
// spec.md §4.5.2: F0 7D <target> <cmd> <data...> F7, plus the command
// table and the fixed FX_STATE_RESPONSE body layout. Grounded in the
// teacher repository's midiconnector package (it frames outgoing MIDI
// messages the same "build a byte slice, validate, send" way), generalized
// here from note messages to SysEx frames.
package sysexproto

import "fmt"

const (
	statusSysEx    byte = 0xF0
	statusSysExEnd byte = 0xF7
	manufacturerID byte = 0x7D

	// BroadcastDevice is the target device ID meaning "every device".
	BroadcastDevice byte = 0x7F
)

// Command is the SysEx command byte (spec.md §4.5.2).
type Command byte

const (
	CmdPing Command = 0x01

	CmdFileLoad Command = 0x10

	CmdPlay  Command = 0x20
	CmdStop  Command = 0x21
	CmdPause Command = 0x22

	CmdChannelMute   Command = 0x30
	CmdChannelSolo   Command = 0x31
	CmdChannelVolume Command = 0x32

	CmdSetPosition Command = 0x40
	CmdSetBPM      Command = 0x41

	CmdTriggerPad Command = 0x50

	CmdFxEffectGet      Command = 0x70
	CmdFxEffectSet      Command = 0x71
	CmdFxGetAllState    Command = 0x7E
	CmdFxStateResponse  Command = 0x7F

	CmdSequenceTrackUpload           Command = 0x80
	CmdSequenceTrackPlay             Command = 0x81
	CmdSequenceTrackStop             Command = 0x82
	CmdSequenceTrackMute             Command = 0x83
	CmdSequenceTrackSolo             Command = 0x84
	CmdSequenceTrackGetState         Command = 0x85
	CmdSequenceTrackStateResponse    Command = 0x86
	CmdSequenceTrackClear            Command = 0x87
	CmdSequenceTrackList             Command = 0x88
	CmdSequenceTrackDownload         Command = 0x89
	CmdSequenceTrackDownloadResponse Command = 0x8A
	CmdSequenceTrackUploadResponse   Command = 0x8B
)

// Effect identifies an effects-chain stage for FX_EFFECT_GET/SET, with its
// fixed parameter count (spec.md §4.5.2 "Effect IDs & param counts").
type Effect byte

const (
	EffectDistortion Effect = 0
	EffectFilter     Effect = 1
	EffectEQ         Effect = 2
	EffectCompressor Effect = 3
	EffectDelay      Effect = 4
)

// ParamCount returns the fixed number of float parameters effect e carries.
func (e Effect) ParamCount() (int, error) {
	switch e {
	case EffectDistortion:
		return 2, nil
	case EffectFilter:
		return 2, nil
	case EffectEQ:
		return 3, nil
	case EffectCompressor:
		return 5, nil
	case EffectDelay:
		return 3, nil
	default:
		return 0, fmt.Errorf("sysexproto: unknown effect id %d", e)
	}
}

// FxStateBodySize is the fixed body length of an FX_STATE_RESPONSE payload
// (spec.md §4.5.2): program_id, version, fx_route, enable_flags, dist[2],
// filt[2], eq[3], comp[5], delay[3], 13 reserved = 32 bytes.
const FxStateBodySize = 32

// Frame is a parsed SysEx message.
type Frame struct {
	Target  byte
	Command Command
	Data    []byte
}

// Build assembles the wire bytes for a frame: F0 7D <target> <cmd> <data> F7.
func Build(target byte, cmd Command, data []byte) ([]byte, error) {
	if target > 0x7F {
		return nil, fmt.Errorf("sysexproto: target device %d out of range [0,127]", target)
	}
	for i, b := range data {
		if b > 0x7F {
			return nil, fmt.Errorf("sysexproto: data byte %d (0x%02X) at offset %d is not 7-bit", b, b, i)
		}
	}

	out := make([]byte, 0, 4+len(data)+1)
	out = append(out, statusSysEx, manufacturerID, target, byte(cmd))
	out = append(out, data...)
	out = append(out, statusSysExEnd)
	return out, nil
}

// Parse validates and decomposes raw wire bytes into a Frame.
func Parse(raw []byte) (Frame, error) {
	if len(raw) < 5 {
		return Frame{}, fmt.Errorf("sysexproto: frame too short (%d bytes)", len(raw))
	}
	if raw[0] != statusSysEx {
		return Frame{}, fmt.Errorf("sysexproto: missing F0 status byte")
	}
	if raw[len(raw)-1] != statusSysExEnd {
		return Frame{}, fmt.Errorf("sysexproto: missing F7 terminator")
	}
	if raw[1] != manufacturerID {
		return Frame{}, fmt.Errorf("sysexproto: unrecognized manufacturer id 0x%02X", raw[1])
	}

	return Frame{
		Target:  raw[2],
		Command: Command(raw[3]),
		Data:    raw[4 : len(raw)-1],
	}, nil
}

// Accepted reports whether a frame addressed to target should be processed
// by a device whose local ID is localDeviceID (spec.md §4.5.2).
func Accepted(target, localDeviceID byte) bool {
	return target == localDeviceID || target == BroadcastDevice
}
