package main

import (
	"fmt"
	"math"

	"github.com/gbraad-go/samplecrate/internal/sysexproto"
	"github.com/gbraad-go/samplecrate/internal/transfer"
)

// dispatchFrame applies one parsed SysEx frame to the live engine and
// transfer sessions, so component E (§4.5.2/§4.5.3) is exercised as a real
// receive path rather than only from internal/sysexproto's and
// internal/transfer's own unit tests. Data layouts below are this CLI's own
// wire convention where spec.md leaves the SysEx payload encoding
// unspecified (it only fixes the frame envelope and the session state
// machine, not byte offsets within CmdPlay/CmdSetBPM/etc.).
func dispatchFrame(eng *engine, xfer *transfer.Manager, frame sysexproto.Frame) error {
	switch frame.Command {
	case sysexproto.CmdPing:
		return nil

	case sysexproto.CmdPlay:
		seqIdx, err := byteArg(frame.Data, 0)
		if err != nil {
			return err
		}
		return eng.perf.Play(seqIdx, eng.seq.Pulse())

	case sysexproto.CmdStop:
		seqIdx, err := byteArg(frame.Data, 0)
		if err != nil {
			return err
		}
		return eng.perf.Stop(seqIdx)

	case sysexproto.CmdTriggerPad:
		padIdx, err := byteArg(frame.Data, 0)
		if err != nil {
			return err
		}
		return eng.perf.TriggerPad(padIdx)

	case sysexproto.CmdSetBPM:
		if len(frame.Data) < 4 {
			return fmt.Errorf("corelx: SET_BPM frame too short (%d bytes)", len(frame.Data))
		}
		bits := uint32(frame.Data[0])<<24 | uint32(frame.Data[1])<<16 | uint32(frame.Data[2])<<8 | uint32(frame.Data[3])
		eng.perf.SetTempo(float64(math.Float32frombits(bits)))
		return nil

	case sysexproto.CmdSetPosition:
		if len(frame.Data) < 2 {
			return fmt.Errorf("corelx: SET_POSITION frame too short (%d bytes)", len(frame.Data))
		}
		sixteenths := int(frame.Data[0])<<7 | int(frame.Data[1])
		eng.seq.SetSongPosition(sixteenths)
		return nil

	case sysexproto.CmdSequenceTrackUpload:
		return dispatchUpload(xfer, frame.Data)

	case sysexproto.CmdSequenceTrackDownload:
		slot, err := byteArg(frame.Data, 0)
		if err != nil {
			return err
		}
		return xfer.StartDownload(slot)

	case sysexproto.CmdSequenceTrackUploadResponse, sysexproto.CmdSequenceTrackDownloadResponse, sysexproto.CmdSequenceTrackStateResponse, sysexproto.CmdFxStateResponse:
		// Outbound acknowledgment/state commands; a device never receives
		// its own reply commands back, so there is nothing to apply.
		return nil

	default:
		return fmt.Errorf("corelx: unhandled SysEx command 0x%02X", byte(frame.Command))
	}
}

func byteArg(data []byte, i int) (int, error) {
	if i >= len(data) {
		return 0, fmt.Errorf("corelx: frame missing data byte %d", i)
	}
	return int(data[i]), nil
}

// Upload subcommands multiplex start/chunk/complete onto the single
// SEQUENCE_TRACK_UPLOAD command, mirroring the subcommand byte the
// SEQUENCE_TRACK_UPLOAD_RESPONSE acknowledgment carries back.
const (
	uploadSubStart    = 0
	uploadSubChunk    = 1
	uploadSubComplete = 2
)

// dispatchUpload demuxes a SEQUENCE_TRACK_UPLOAD frame by its leading
// subcommand byte onto transfer.Manager's start/chunk/complete calls.
func dispatchUpload(xfer *transfer.Manager, data []byte) error {
	if len(data) < 2 {
		return fmt.Errorf("corelx: SEQUENCE_TRACK_UPLOAD frame too short (%d bytes)", len(data))
	}
	sub := data[0]
	slot := int(data[1])
	body := data[2:]

	switch sub {
	case uploadSubStart:
		if len(body) < 5 {
			return fmt.Errorf("corelx: SEQUENCE_TRACK_UPLOAD start frame too short (%d bytes)", len(body))
		}
		program := body[0]
		totalChunks := int(body[1])<<8 | int(body[2])
		fileSize := int(body[3])<<8 | int(body[4])
		return xfer.StartUpload(slot, program, totalChunks, fileSize)

	case uploadSubChunk:
		if len(body) < 1 {
			return fmt.Errorf("corelx: SEQUENCE_TRACK_UPLOAD chunk frame too short (%d bytes)", len(body))
		}
		chunkNum := int(body[0])
		return xfer.UploadChunk(slot, chunkNum, body[1:])

	case uploadSubComplete:
		return xfer.CompleteUpload(slot)

	default:
		return fmt.Errorf("corelx: unknown SEQUENCE_TRACK_UPLOAD subcommand %d", sub)
	}
}
