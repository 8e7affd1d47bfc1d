package track

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSortsNoteOffBeforeNoteOnAtSameTick(t *testing.T) {
	tr := New([]Event{
		{Tick: 240, Note: 36, Velocity: 100, On: true},
		{Tick: 240, Note: 36, Velocity: 0, On: false},
		{Tick: 0, Note: 40, Velocity: 90, On: true},
	}, 480)

	events := tr.Events()
	require.Len(t, events, 3)
	assert.Equal(t, 0, events[0].Tick)
	assert.Equal(t, 240, events[1].Tick)
	assert.False(t, events[1].On, "note-off must sort before note-on at equal tick")
	assert.True(t, events[2].On)
}

func TestDurationTicksIsLastEventTick(t *testing.T) {
	empty := New(nil, 480)
	assert.Equal(t, 0, empty.DurationTicks())

	tr := New([]Event{
		{Tick: 0, Note: 36, Velocity: 100, On: true},
		{Tick: 480, Note: 36, Velocity: 0, On: false},
	}, 480)
	assert.Equal(t, 480, tr.DurationTicks())
}

func TestTPQNDefaultsWhenUnset(t *testing.T) {
	tr := New(nil, 0)
	assert.Equal(t, DefaultTPQN, tr.TPQN())
}

func TestLoadMIDIMissingFileIsIoError(t *testing.T) {
	var tr Track
	err := tr.LoadMIDI("/nonexistent/path/does-not-exist.mid")
	require.Error(t, err)
}
