package rsx

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRSX = `[Samplecrate]
version=2
file="kit.sfz"

[Programs]
prog_1_name="Kick"
prog_1_file="kick.wav"
prog_1_volume=0.900
prog_1_pan=0.000
prog_2_name="Snare"
prog_2_volume=0.800
prog_2_pan=0.100

[NoteTriggerPads]
pad_N1_note=36
pad_N1_description="Kick pad"
pad_N1_velocity=100
pad_N1_pitch_bend=0.000
pad_N1_pan=0.000
pad_N1_volume=1.000
pad_N1_enabled=1
pad_N1_program=1
`

func TestLoadParsesAllSections(t *testing.T) {
	doc, err := Load(strings.NewReader(sampleRSX))
	require.NoError(t, err)

	assert.Equal(t, 2, doc.Version)
	assert.Equal(t, "kit.sfz", doc.SfzFile)

	assert.Equal(t, "Kick", doc.Programs[0].Name)
	assert.Equal(t, "kick.wav", doc.Programs[0].File)
	assert.InDelta(t, 0.9, doc.Programs[0].Volume, 1e-9)
	assert.Equal(t, "Snare", doc.Programs[1].Name)

	assert.Equal(t, 36, doc.Pads[0].Note)
	assert.Equal(t, "Kick pad", doc.Pads[0].Description)
	assert.Equal(t, 100, doc.Pads[0].Velocity)
	assert.True(t, doc.Pads[0].Enabled)
	assert.Equal(t, 1, doc.Pads[0].Program)
}

func TestLoadIgnoresCommentsAndBlankLines(t *testing.T) {
	input := `[Samplecrate]
; a comment
version=1
# another comment

`
	doc, err := Load(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Version)
}

func TestLoadRejectsProgramNumberOutOfRange(t *testing.T) {
	_, err := Load(strings.NewReader("[Programs]\nprog_9_name=\"x\"\n"))
	assert.Error(t, err)
}

func TestLoadRejectsPadNumberOutOfRange(t *testing.T) {
	_, err := Load(strings.NewReader("[NoteTriggerPads]\npad_N99_note=1\n"))
	assert.Error(t, err)
}

func TestLoadRejectsKeyOutsideSection(t *testing.T) {
	_, err := Load(strings.NewReader("version=1\n"))
	assert.Error(t, err)
}

func TestLoadRejectsMissingEquals(t *testing.T) {
	_, err := Load(strings.NewReader("[Samplecrate]\nnotakeyvalue\n"))
	assert.Error(t, err)
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	doc := &Document{Version: 3, SfzFile: "test.sfz"}
	doc.Programs[0] = Program{Name: "Kick", File: "k.wav", Volume: 1, Pan: -0.2}
	doc.Pads[3] = Pad{Note: 40, Description: "Snare", Velocity: 90, Enabled: true, Program: 1}

	var buf strings.Builder
	require.NoError(t, Save(&buf, doc))

	loaded, err := Load(strings.NewReader(buf.String()))
	require.NoError(t, err)
	assert.Equal(t, doc.Version, loaded.Version)
	assert.Equal(t, doc.SfzFile, loaded.SfzFile)
	assert.Equal(t, doc.Programs[0], loaded.Programs[0])
	assert.Equal(t, doc.Pads[3], loaded.Pads[3])
}
