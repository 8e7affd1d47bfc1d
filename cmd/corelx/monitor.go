package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/gbraad-go/samplecrate/internal/performance"
	"github.com/gbraad-go/samplecrate/internal/track"
)

// rowMeter renders the 64-row pattern position (spec glossary: a row is 6
// pulses) as a row of unicode blocks, the active row lit and the rest dim.
// Grounded on the teacher repository's createVerticalBar/getUnicodeBlock
// pair in internal/views/mixer.go (termenv profile + go-colorful color,
// unicode block glyphs), adapted from a vertical gain meter to a
// horizontal pattern-position meter.
func rowMeter(pulse int) string {
	profile := termenv.ColorProfile()
	activeRow := pulse / 6

	lit, _ := colorful.Hex("#FFB86C")
	dim, _ := colorful.Hex("#44475A")

	var b strings.Builder
	for row := 0; row < 64; row++ {
		glyph := "▁"
		color := dim
		if row == activeRow {
			glyph = "█"
			color = lit
		} else if row%16 == 0 {
			glyph = "▂" // bar boundary, every 16 rows (4 bars of 16 rows each at 6 pulses/row... matches spec's 4-bar/64-row pattern)
		}
		b.WriteString(termenv.String(glyph).Foreground(profile.Color(color.Hex())).String())
	}
	return b.String()
}

// monitorTickMsg drives the redraw/advance loop, the same fixed-rate
// tea.Tick pattern the teacher repository's own UI uses for its waveform
// refresh (main.go's tickWaveform), generalized here from "redraw at 30fps"
// to "advance the demo clock and redraw".
type monitorTickMsg struct{}

func tickMonitor() tea.Cmd {
	return tea.Tick(33*time.Millisecond, func(time.Time) tea.Msg { return monitorTickMsg{} })
}

const monitorSampleRate = 48000

type monitorModel struct {
	eng  *engine
	bar  progress.Model
	bpm  float64
	done bool
}

func newMonitorModel(bpm float64) monitorModel {
	eng := newEngine(bpm, performance.Immediate, "")

	// A short demo kick/hat track (all events within the first two beats of
	// the four-bar pattern), just so the monitor has something to show.
	events := []track.Event{
		{Tick: 0, Note: 36, Velocity: 100, On: true},
		{Tick: 20, Note: 36, Velocity: 0, On: false},
		{Tick: 240, Note: 42, Velocity: 80, On: true},
		{Tick: 250, Note: 42, Velocity: 0, On: false},
		{Tick: 480, Note: 36, Velocity: 100, On: true},
		{Tick: 500, Note: 36, Velocity: 0, On: false},
		{Tick: 720, Note: 42, Velocity: 80, On: true},
		{Tick: 730, Note: 42, Velocity: 0, On: false},
	}
	tr := track.New(events, track.DefaultTPQN)
	_ = eng.perf.SetSequence(0, []performance.Phrase{
		{DisplayName: "demo", Track: tr, LoopCount: 0},
	}, demoSink{}, true)
	_ = eng.perf.Play(0, eng.seq.Pulse())

	bar := progress.New(progress.WithDefaultGradient())
	return monitorModel{eng: eng, bar: bar, bpm: bpm}
}

// demoSink discards events; the monitor only cares about pulse position and
// sequence status, not audible output.
type demoSink struct{}

func (demoSink) OnEvent(note, velocity int, on bool, userCtx any) {}

func (m monitorModel) Init() tea.Cmd {
	return tickMonitor()
}

func (m monitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			m.done = true
			return m, tea.Quit
		}
		return m, nil
	case monitorTickMsg:
		numSamples := int(monitorSampleRate * 0.033)
		m.eng.Tick(numSamples, monitorSampleRate)
		return m, tickMonitor()
	}
	return m, nil
}

func (m monitorModel) View() string {
	if m.done {
		return ""
	}

	pulse := m.eng.seq.Pulse()
	fraction := float64(pulse) / 384.0

	title := lipgloss.NewStyle().Bold(true).Render("corelx monitor")
	bpmColor, _ := colorful.Hex("#50FA7B")
	bpmStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(bpmColor.Hex()))

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", title)
	fmt.Fprintf(&b, "bpm:   %s\n", bpmStyle.Render(fmt.Sprintf("%.1f", m.eng.perf.Tempo())))
	fmt.Fprintf(&b, "pulse: %3d / 384\n", pulse)
	fmt.Fprintf(&b, "%s\n\n", m.bar.ViewAs(fraction))
	fmt.Fprintf(&b, "%s\n\n", rowMeter(pulse))

	playing, phrase, ok := m.eng.perf.SequenceStatus(0)
	if ok {
		length, _ := m.eng.perf.SequenceLengthTicks(0)
		fmt.Fprintf(&b, "sequence 0: playing=%v phrase=%d length=%dticks\n", playing, phrase, length)
	}
	fmt.Fprintf(&b, "\npress q to quit\n")
	return b.String()
}

func newMonitorCommand() *cobra.Command {
	var bpm float64

	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Terminal dashboard of a demo pattern's pulse/sequence state",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := tea.NewProgram(newMonitorModel(bpm), tea.WithAltScreen())
			_, err := p.Run()
			return err
		},
	}
	cmd.Flags().Float64Var(&bpm, "bpm", 120, "demo pattern tempo")
	return cmd
}
