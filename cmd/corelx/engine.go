package main

import (
	"time"

	"github.com/gbraad-go/samplecrate/internal/bpmtap"
	"github.com/gbraad-go/samplecrate/internal/effects"
	"github.com/gbraad-go/samplecrate/internal/performance"
	"github.com/gbraad-go/samplecrate/internal/router"
	"github.com/gbraad-go/samplecrate/internal/sequencer"
	"github.com/gbraad-go/samplecrate/internal/snapshot"
)

// engine wires the three core subsystems the way a real host would: a
// shared Sequencer, a Performance driving it, and one master Effects
// chain. This lives in cmd/corelx rather than a library package because
// it encodes one opinionated wiring for the CLI's own demos, not a
// reusable API.
type engine struct {
	seq  *sequencer.Sequencer
	perf *performance.Performance
	fx   *effects.Chain
	rt   *router.Router
	tap  *bpmtap.Detector

	store *snapshot.Store
}

func newEngine(bpm float64, startMode performance.StartMode, statePath string) *engine {
	seq := sequencer.New(bpm)
	perf := performance.New(seq, startMode)
	return &engine{
		seq:   seq,
		perf:  perf,
		fx:    effects.New(),
		rt:    router.New(),
		tap:   bpmtap.New(),
		store: snapshot.NewStore(statePath),
	}
}

// handleEvent applies a routed input event (spec.md §4.5.1) to the engine's
// live subsystems: continuous fx knobs update their Chain parameter and the
// tap-tempo action feeds the shared Detector, retempoing the Performance
// on a confirmed estimate.
func (e *engine) handleEvent(ev router.Event) {
	norm := float64(ev.Value) / 127.0

	switch ev.Action {
	case router.ActionTapTempo:
		if bpm, ok := e.tap.Tap(time.Now()); ok {
			e.perf.SetTempo(bpm)
		}
	case router.ActionFxDistortionToggle:
		e.fx.SetDistortionEnabled(ev.Value >= router.DefaultButtonThreshold)
	case router.ActionFxDistortionDrive:
		e.fx.SetDistortionDrive(norm)
	case router.ActionFxDistortionMix:
		e.fx.SetDistortionMix(norm)
	case router.ActionFxFilterToggle:
		e.fx.SetFilterEnabled(ev.Value >= router.DefaultButtonThreshold)
	case router.ActionFxFilterCutoff:
		e.fx.SetFilterCutoff(norm)
	case router.ActionFxFilterResonance:
		e.fx.SetFilterResonance(norm)
	case router.ActionFxEQToggle:
		e.fx.SetEQEnabled(ev.Value >= router.DefaultButtonThreshold)
	case router.ActionFxEQLow:
		e.fx.SetEQLow(norm)
	case router.ActionFxEQMid:
		e.fx.SetEQMid(norm)
	case router.ActionFxEQHigh:
		e.fx.SetEQHigh(norm)
	case router.ActionFxCompressorToggle:
		e.fx.SetCompressorEnabled(ev.Value >= router.DefaultButtonThreshold)
	case router.ActionFxCompressorThreshold:
		e.fx.SetCompressorThreshold(norm)
	case router.ActionFxCompressorRatio:
		e.fx.SetCompressorRatio(norm)
	case router.ActionFxCompressorAttack:
		e.fx.SetCompressorAttack(norm)
	case router.ActionFxCompressorRelease:
		e.fx.SetCompressorRelease(norm)
	case router.ActionFxCompressorMakeup:
		e.fx.SetCompressorMakeup(norm)
	case router.ActionFxDelayToggle:
		e.fx.SetDelayEnabled(ev.Value >= router.DefaultButtonThreshold)
	case router.ActionFxDelayTime:
		e.fx.SetDelayTime(norm)
	case router.ActionFxDelayFeedback:
		e.fx.SetDelayFeedback(norm)
	case router.ActionFxDelayMix:
		e.fx.SetDelayMix(norm)
	}
}

// Tick advances the shared clock and services the performance queue; call
// once per audio-callback-equivalent period.
func (e *engine) Tick(numSamples int, sampleRate float64) int {
	pulse := e.seq.Advance(numSamples, sampleRate)
	e.perf.Update(numSamples, sampleRate, e.seq.Pulse())
	return pulse
}

// snapshotState builds a snapshot.State from current engine status.
func (e *engine) snapshotState(now time.Time) snapshot.State {
	state := snapshot.State{
		SavedAt: now,
		BPM:     e.perf.Tempo(),
		Pulse:   e.seq.Pulse(),
	}
	for i := 0; i < performance.NumSequences; i++ {
		playing, phrase, ok := e.perf.SequenceStatus(i)
		if !ok {
			continue
		}
		state.Sequences = append(state.Sequences, snapshot.SequenceState{
			Index: i, Playing: playing, CurrentPhrase: phrase,
		})
	}
	for i := 0; i < performance.NumPads; i++ {
		playing, ok := e.perf.PadStatus(i)
		if !ok {
			continue
		}
		state.Pads = append(state.Pads, snapshot.SequenceState{Index: i, Playing: playing})
	}
	return state
}
