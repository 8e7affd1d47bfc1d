// Package telemetry mirrors pulse-wrap and phrase-change events to an
// external monitor over OSC. It is a read-only observation channel, never
// an ingress path: nothing here feeds notes, clock, or control back into
// the sequencer/performance/router, keeping it outside the "multiple
// simultaneous transports" Non-goal (which is about MIDI transports).
// Grounded on the teacher repository's OSCMessageConfig/sendOSCMessage
// pattern in internal/model (a struct describing address+params+log
// format, sent through a single guarded helper), adapted from mixer/gain
// telemetry to pulse-wrap and phrase-change events.
package telemetry

import (
	"log"

	"github.com/hypebeast/go-osc/osc"
)

// messageConfig mirrors the teacher's OSCMessageConfig: an address, its
// positional parameters, and a matching log line so every send is both
// dispatched and traced the same way.
type messageConfig struct {
	Address    string
	Parameters []interface{}
	LogFormat  string
	LogArgs    []interface{}
}

// Mirror sends engine status events to a single OSC destination. A nil
// Mirror (no client configured) makes every method a no-op, matching the
// teacher's "oscClient == nil means OSC not configured" guard.
type Mirror struct {
	client *osc.Client
}

// NewMirror dials host:port for OSC sends. No handshake occurs (OSC is
// fire-and-forget over UDP); a bad host/port only surfaces as silently
// dropped packets, which is acceptable for a best-effort monitor feed.
func NewMirror(host string, port int) *Mirror {
	return &Mirror{client: osc.NewClient(host, port)}
}

func (m *Mirror) send(cfg messageConfig) {
	if m == nil || m.client == nil {
		return
	}
	msg := osc.NewMessage(cfg.Address)
	for _, p := range cfg.Parameters {
		msg.Append(p)
	}
	if err := m.client.Send(msg); err != nil {
		log.Printf("[TELEMETRY] error sending OSC message to %s: %v", cfg.Address, err)
		return
	}
	log.Printf("[TELEMETRY] "+cfg.LogFormat, cfg.LogArgs...)
}

// PulseWrap reports that the pattern position wrapped back to pulse 0.
func (m *Mirror) PulseWrap(bpm float64) {
	m.send(messageConfig{
		Address:    "/samplecrate/pulse_wrap",
		Parameters: []interface{}{bpm},
		LogFormat:  "/samplecrate/pulse_wrap bpm=%.1f",
		LogArgs:    []interface{}{bpm},
	})
}

// PhraseChange reports that a sequence (by slot id) moved to a new phrase
// index (-1 meaning stopped).
func (m *Mirror) PhraseChange(slotID, phraseIndex int) {
	m.send(messageConfig{
		Address:    "/samplecrate/phrase_change",
		Parameters: []interface{}{int32(slotID), int32(phraseIndex)},
		LogFormat:  "/samplecrate/phrase_change slot=%d phrase=%d",
		LogArgs:    []interface{}{slotID, phraseIndex},
	})
}

// SequenceStart reports that sequence seqIdx started playing, whether
// immediately or via a quantized queue entry firing.
func (m *Mirror) SequenceStart(seqIdx int) {
	m.send(messageConfig{
		Address:    "/samplecrate/sequence_start",
		Parameters: []interface{}{int32(seqIdx)},
		LogFormat:  "/samplecrate/sequence_start seq=%d",
		LogArgs:    []interface{}{seqIdx},
	})
}

// SequenceStop reports that sequence seqIdx stopped.
func (m *Mirror) SequenceStop(seqIdx int) {
	m.send(messageConfig{
		Address:    "/samplecrate/sequence_stop",
		Parameters: []interface{}{int32(seqIdx)},
		LogFormat:  "/samplecrate/sequence_stop seq=%d",
		LogArgs:    []interface{}{seqIdx},
	})
}
