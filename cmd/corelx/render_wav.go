package main

import (
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/spf13/cobra"

	"github.com/gbraad-go/samplecrate/internal/effects"
	"github.com/gbraad-go/samplecrate/internal/sequencer"
	"github.com/gbraad-go/samplecrate/internal/track"
)

const renderSampleRate = 48000

// clickSynth is a NoteSink that renders a decaying sine click for every
// note-on, entirely in-process. It exists only so render-wav can exercise
// Sequencer->Effects without a real SFZ collaborator; it is explicitly not
// a synthesis engine, matching spec.md's NoteSink boundary.
type clickSynth struct {
	buffer []int16
	voices []clickVoice
}

type clickVoice struct {
	freq   float64
	phase  float64
	amp    float64
	active bool
}

func newClickSynth(frames int) *clickSynth {
	return &clickSynth{buffer: make([]int16, frames*2)}
}

func (c *clickSynth) OnEvent(note, velocity int, on bool, _ any) {
	if !on {
		return
	}
	freq := 220.0 * math.Pow(2, float64(note-57)/12.0)
	c.voices = append(c.voices, clickVoice{freq: freq, amp: float64(velocity) / 127.0, active: true})
}

// render renders frames of audio into buffer, decaying every active voice.
func (c *clickSynth) render(frames int) {
	for i := range c.buffer {
		c.buffer[i] = 0
	}
	for vi := range c.voices {
		v := &c.voices[vi]
		if !v.active {
			continue
		}
		for i := 0; i < frames; i++ {
			sample := math.Sin(v.phase) * v.amp
			v.phase += 2 * math.Pi * v.freq / renderSampleRate
			v.amp *= 0.9995
			s := int32(c.buffer[i*2]) + int32(sample*8000)
			c.buffer[i*2] = clampSample(s)
			c.buffer[i*2+1] = c.buffer[i*2]
			if v.amp < 1e-4 {
				v.active = false
			}
		}
	}
}

func clampSample(v int32) int16 {
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}

func newRenderWavCommand() *cobra.Command {
	var (
		bpm      float64
		seconds  float64
		outPath  string
		driveFX  bool
		delayMix float64
	)

	cmd := &cobra.Command{
		Use:   "render-wav <output.wav>",
		Short: "Render a synthetic test pattern through the sequencer and effects chain to a WAV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outPath = args[0]

			events := []track.Event{
				{Tick: 0, Note: 36, Velocity: 110, On: true},
				{Tick: 10, Note: 36, Velocity: 0, On: false},
				{Tick: 240, Note: 42, Velocity: 90, On: true},
				{Tick: 250, Note: 42, Velocity: 0, On: false},
				{Tick: 480, Note: 36, Velocity: 110, On: true},
				{Tick: 490, Note: 36, Velocity: 0, On: false},
				{Tick: 720, Note: 42, Velocity: 90, On: true},
				{Tick: 730, Note: 42, Velocity: 0, On: false},
			}
			tr := track.New(events, track.DefaultTPQN)

			seq := sequencer.New(bpm)
			framesPerBlock := renderSampleRate / 100 // 10ms blocks
			synth := newClickSynth(framesPerBlock)
			if err := seq.AddTrack(0, tr, synth, nil); err != nil {
				return err
			}

			chain := effects.New()
			if driveFX {
				chain.SetDistortionEnabled(true)
				chain.SetDistortionDrive(0.6)
				chain.SetDistortionMix(0.5)
			}
			if delayMix > 0 {
				chain.SetDelayEnabled(true)
				chain.SetDelayTime(0.3)
				chain.SetDelayFeedback(0.35)
				chain.SetDelayMix(delayMix)
			}

			totalFrames := int(seconds * renderSampleRate)
			out := make([]int16, 0, totalFrames*2)
			for rendered := 0; rendered < totalFrames; rendered += framesPerBlock {
				seq.Advance(framesPerBlock, renderSampleRate)
				synth.render(framesPerBlock)
				block := append([]int16(nil), synth.buffer...)
				chain.Process(block, framesPerBlock, renderSampleRate)
				out = append(out, block...)
			}

			return writeWav(outPath, out)
		},
	}

	cmd.Flags().Float64Var(&bpm, "bpm", 120, "tempo to render the test pattern at")
	cmd.Flags().Float64Var(&seconds, "seconds", 2, "length of the rendered file")
	cmd.Flags().BoolVar(&driveFX, "drive", false, "enable the distortion stage")
	cmd.Flags().Float64Var(&delayMix, "delay-mix", 0, "enable the delay stage at this dry/wet mix (0 disables)")

	return cmd
}

func writeWav(path string, samples []int16) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, renderSampleRate, 16, 2, 1)

	data := make([]int, len(samples))
	for i, s := range samples {
		data[i] = int(s)
	}
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 2, SampleRate: renderSampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("writing samples: %w", err)
	}
	return enc.Close()
}
