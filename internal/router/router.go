package router

// DefaultButtonThreshold is the MIDI CC value at or above which a
// non-continuous mapping is considered "pressed" (spec.md §4.5.1).
const DefaultButtonThreshold = 64

// AnyDevice is the wildcard device value: a mapping with Device == AnyDevice
// matches an incoming event from any device.
const AnyDevice = -1

// NumTriggerPads is the fixed size of the trigger-pad table.
const NumTriggerPads = 16

// MidiMapping is one row of the MIDI CC table.
type MidiMapping struct {
	Device     int // -1 (any), 0, 1, ...
	CC         int // 0..127
	Action     Action
	Parameter  float64
	Threshold  int // default DefaultButtonThreshold
	Continuous bool
}

// KeyboardMapping is one row of the keyboard table.
type KeyboardMapping struct {
	Key       string
	Action    Action
	Parameter float64
}

// TriggerPadMapping is one row of the fixed 16-entry trigger-pad table.
type TriggerPadMapping struct {
	Action     Action
	Parameter  float64
	MidiNote   int // -1..127, -1 means unset
	MidiDevice int
}

// Event is the result of a successful lookup.
type Event struct {
	Action    Action
	Parameter float64
	Value     int
}

// Router holds the three immutable-at-playtime mapping tables and performs
// first-match lookups against incoming MIDI/keyboard/pad input.
type Router struct {
	Midi        []MidiMapping
	Keyboard    []KeyboardMapping
	TriggerPads [NumTriggerPads]TriggerPadMapping
}

// New returns an empty Router with every trigger pad unmapped.
func New() *Router {
	r := &Router{}
	for i := range r.TriggerPads {
		r.TriggerPads[i] = TriggerPadMapping{Action: ActionNone, MidiNote: -1, MidiDevice: AnyDevice}
	}
	return r
}

// GetMidiEvent looks up the first MIDI CC mapping matching device and cc.
// Continuous mappings always match; button mappings only match when
// value >= mapping.Threshold (or DefaultButtonThreshold if Threshold is 0).
func (r *Router) GetMidiEvent(device, cc, value int) (Event, bool) {
	for _, m := range r.Midi {
		if m.CC != cc {
			continue
		}
		if m.Device != AnyDevice && m.Device != device {
			continue
		}
		if !m.Continuous {
			threshold := m.Threshold
			if threshold == 0 {
				threshold = DefaultButtonThreshold
			}
			if value < threshold {
				continue
			}
		}
		return Event{Action: m.Action, Parameter: m.Parameter, Value: value}, true
	}
	return Event{}, false
}

// GetKeyboardEvent looks up the first keyboard mapping matching key.
func (r *Router) GetKeyboardEvent(key string) (Event, bool) {
	for _, m := range r.Keyboard {
		if m.Key == key {
			return Event{Action: m.Action, Parameter: m.Parameter}, true
		}
	}
	return Event{}, false
}

// GetTriggerPadEvent looks up pad's mapping, if any action is assigned.
func (r *Router) GetTriggerPadEvent(pad int) (Event, bool) {
	if pad < 0 || pad >= NumTriggerPads {
		return Event{}, false
	}
	m := r.TriggerPads[pad]
	if m.Action == ActionNone {
		return Event{}, false
	}
	return Event{Action: m.Action, Parameter: m.Parameter}, true
}

// FindTriggerPadByNote is the reverse lookup ingress needs: given an
// incoming MIDI note-on from device, find the first trigger pad mapped to
// it. Matches the same device-wildcard rule as GetMidiEvent.
func (r *Router) FindTriggerPadByNote(device, note int) (pad int, ok bool) {
	for i, m := range r.TriggerPads {
		if m.Action == ActionNone || m.MidiNote != note {
			continue
		}
		if m.MidiDevice != AnyDevice && m.MidiDevice != device {
			continue
		}
		return i, true
	}
	return 0, false
}
