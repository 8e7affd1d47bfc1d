package telemetry

import "testing"

func TestNilMirrorMethodsDoNotPanic(t *testing.T) {
	var m *Mirror
	m.PulseWrap(120)
	m.PhraseChange(32, 1)
	m.SequenceStart(0)
	m.SequenceStop(0)
}

func TestMirrorSendIsFireAndForget(t *testing.T) {
	// UDP has no handshake; sending to an arbitrary local port must not
	// block or panic even if nothing is listening there.
	m := NewMirror("127.0.0.1", 61999)
	m.PulseWrap(128)
	m.PhraseChange(0, 3)
	m.SequenceStart(2)
	m.SequenceStop(2)
}
