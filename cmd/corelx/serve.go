package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gbraad-go/samplecrate/internal/midiio"
	"github.com/gbraad-go/samplecrate/internal/performance"
	"github.com/gbraad-go/samplecrate/internal/sysexproto"
	"github.com/gbraad-go/samplecrate/internal/telemetry"
	"github.com/gbraad-go/samplecrate/internal/transfer"
)

func newServeCommand() *cobra.Command {
	var (
		bpm           float64
		quantized     bool
		statePath     string
		sampleRate    float64
		tickMillis    int
		oscHost       string
		oscPort       int
		midiIn        string
		midiSysexIn   string
		localDeviceID int
		sequencesDir  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the sequencer/performance core as a headless clock, periodically snapshotting state",
		RunE: func(cmd *cobra.Command, args []string) error {
			startMode := performance.Immediate
			if quantized {
				startMode = performance.Quantized
			}
			eng := newEngine(bpm, startMode, statePath)
			if oscHost != "" {
				eng.perf.SetTelemetry(telemetry.NewMirror(oscHost, oscPort))
				log.Printf("[CORELX] mirroring status to osc://%s:%d", oscHost, oscPort)
			}

			if midiIn != "" {
				in, err := midiio.OpenInput(midiIn, 0, eng.rt, eng.handleEvent, eng.seq)
				if err != nil {
					return err
				}
				defer in.Close()
				log.Printf("[CORELX] listening for routed input on %q", midiIn)
			}

			if midiSysexIn != "" {
				xfer := transfer.New(sequencesDir, nil)
				sx, err := midiio.ListenSysex(midiSysexIn, func(raw []byte) {
					frame, err := sysexproto.Parse(raw)
					if err != nil {
						log.Printf("[CORELX] dropping malformed SysEx frame: %v", err)
						return
					}
					if !sysexproto.Accepted(frame.Target, byte(localDeviceID)) {
						return
					}
					if err := dispatchFrame(eng, xfer, frame); err != nil {
						log.Printf("[CORELX] SysEx command 0x%02X failed: %v", byte(frame.Command), err)
					}
				})
				if err != nil {
					return err
				}
				defer sx.Close()
				log.Printf("[CORELX] listening for SysEx on %q as device %d", midiSysexIn, localDeviceID)
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

			tickInterval := time.Duration(tickMillis) * time.Millisecond
			ticker := time.NewTicker(tickInterval)
			defer ticker.Stop()

			numSamples := int(sampleRate * tickInterval.Seconds())
			log.Printf("[CORELX] serving at %.1f BPM, %dms ticks (%d samples @ %.0fHz)", bpm, tickMillis, numSamples, sampleRate)

			for {
				select {
				case <-sigCh:
					if err := eng.store.Save(eng.snapshotState(time.Now())); err != nil {
						log.Printf("[CORELX] final snapshot failed: %v", err)
					}
					log.Printf("[CORELX] shutting down")
					return nil
				case <-ticker.C:
					eng.Tick(numSamples, sampleRate)
					eng.store.Request(eng.snapshotState(time.Now()))
				}
			}
		},
	}

	cmd.Flags().Float64Var(&bpm, "bpm", 120, "initial tempo")
	cmd.Flags().BoolVar(&quantized, "quantized", false, "start sequences on the next pattern boundary instead of immediately")
	cmd.Flags().StringVar(&statePath, "state-file", "corelx-state.json.gz", "path to the debounced state snapshot")
	cmd.Flags().Float64Var(&sampleRate, "sample-rate", 48000, "sample rate used to convert tick interval to a sample count")
	cmd.Flags().IntVar(&tickMillis, "tick-ms", 10, "milliseconds between Sequencer.Advance calls")
	cmd.Flags().StringVar(&oscHost, "osc-host", "", "if set, mirror pulse-wrap/phrase-change/sequence events to this OSC host")
	cmd.Flags().IntVar(&oscPort, "osc-port", 57120, "OSC port to mirror status events to")
	cmd.Flags().StringVar(&midiIn, "midi-in", "", "if set, fuzzy-match and listen on this MIDI input port for routed note/CC events")
	cmd.Flags().StringVar(&midiSysexIn, "midi-sysex-in", "", "if set, fuzzy-match and listen on this MIDI input port for SysEx commands (F0 7D ...)")
	cmd.Flags().IntVar(&localDeviceID, "device-id", 0, "local SysEx device id (0-127), checked against each frame's target byte")
	cmd.Flags().StringVar(&sequencesDir, "sequences-dir", ".", "directory whose sequences/ subdirectory holds uploaded/downloaded seq_<slot>.mid files")

	return cmd
}
