// Package ticks rolls up phrase durations for display and telemetry
// purposes: how many MIDI ticks a phrase occupies once its repeat count is
// applied, and the total across an ordered phrase list. Grounded on the
// teacher repository's own ticks.go, which summed duration across a
// song -> chain -> phrase hierarchy; rebuilt here around the flatter
// Sequence -> Phrase hierarchy (internal/performance), which carries its
// own loop count per phrase instead of a shared global phrase table.
package ticks

import "github.com/gbraad-go/samplecrate/internal/track"

// PhraseTicks is the duration inputs for one phrase: how many ticks one
// pass through its track takes, and how many times it repeats before the
// sequence advances. LoopCount == 0 means "loops forever".
type PhraseTicks struct {
	DurationTicks int
	LoopCount     int
}

// Phrase returns the tick total for one phrase occupying a sequence: its
// per-pass duration times its loop count. A forever-looping phrase
// (LoopCount == 0) is counted as a single pass, since it has no finite
// total.
func Phrase(p PhraseTicks) int {
	count := p.LoopCount
	if count <= 0 {
		count = 1
	}
	return p.DurationTicks * count
}

// Sequence sums Phrase across an ordered phrase list, giving the tick
// length of one full pass through a Sequence (ignoring SequenceLoop, which
// repeats the whole list indefinitely).
func Sequence(phrases []PhraseTicks) int {
	total := 0
	for _, p := range phrases {
		total += Phrase(p)
	}
	return total
}

// FromTrack builds a PhraseTicks from a parsed track and the phrase's
// configured loop count. A nil track (phrase failed to load) contributes
// zero duration.
func FromTrack(tr *track.Track, loopCount int) PhraseTicks {
	if tr == nil {
		return PhraseTicks{LoopCount: loopCount}
	}
	return PhraseTicks{DurationTicks: tr.DurationTicks(), LoopCount: loopCount}
}
