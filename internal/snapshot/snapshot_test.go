package snapshot

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json.gz")

	want := State{
		SavedAt: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
		BPM:     128,
		Pulse:   240,
		Sequences: []SequenceState{
			{Index: 0, Playing: true, CurrentPhrase: 2},
		},
		Pads: []SequenceState{
			{Index: 5, Playing: false},
		},
	}

	store := NewStore(path)
	require.NoError(t, store.Save(want))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want.BPM, got.BPM)
	assert.Equal(t, want.Pulse, got.Pulse)
	assert.Equal(t, want.Sequences, got.Sequences)
	assert.Equal(t, want.Pads, got.Pads)
	assert.True(t, want.SavedAt.Equal(got.SavedAt))
}

func TestSaveCreatesMissingDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "state.json.gz")

	store := NewStore(path)
	require.NoError(t, store.Save(State{BPM: 120}))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 120.0, got.BPM)
}

func TestRequestDebouncesToLatestState(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json.gz")
	store := NewStore(path)

	store.Request(State{BPM: 100})
	store.Request(State{BPM: 110})
	store.Request(State{BPM: 120})

	require.Eventually(t, func() bool {
		got, err := Load(path)
		return err == nil && got.BPM == 120
	}, 2*time.Second, 10*time.Millisecond)
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json.gz"))
	assert.Error(t, err)
}
