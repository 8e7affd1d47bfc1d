package sysexproto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildThenParseRoundTrips(t *testing.T) {
	raw, err := Build(3, CmdChannelVolume, []byte{5, 100})
	require.NoError(t, err)
	assert.Equal(t, []byte{0xF0, 0x7D, 3, byte(CmdChannelVolume), 5, 100, 0xF7}, raw)

	frame, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, byte(3), frame.Target)
	assert.Equal(t, CmdChannelVolume, frame.Command)
	assert.Equal(t, []byte{5, 100}, frame.Data)
}

func TestBuildRejectsNon7BitData(t *testing.T) {
	_, err := Build(0, CmdPing, []byte{0x80})
	assert.Error(t, err)
}

func TestBuildRejectsOutOfRangeTarget(t *testing.T) {
	_, err := Build(0x80, CmdPing, nil)
	assert.Error(t, err)
}

func TestParseRejectsMalformedFrames(t *testing.T) {
	_, err := Parse([]byte{0xF0, 0x7D, 0, 1, 0xF7}) // valid minimal
	assert.NoError(t, err)

	_, err = Parse([]byte{0x00, 0x7D, 0, 1, 0xF7})
	assert.Error(t, err, "missing F0")

	_, err = Parse([]byte{0xF0, 0x7D, 0, 1, 0x00})
	assert.Error(t, err, "missing F7")

	_, err = Parse([]byte{0xF0, 0x00, 0, 1, 0xF7})
	assert.Error(t, err, "wrong manufacturer id")

	_, err = Parse([]byte{0xF0, 0x7D})
	assert.Error(t, err, "too short")
}

func TestAcceptedMatchesLocalOrBroadcast(t *testing.T) {
	assert.True(t, Accepted(5, 5))
	assert.True(t, Accepted(BroadcastDevice, 5))
	assert.False(t, Accepted(6, 5))
}

func TestEffectParamCounts(t *testing.T) {
	cases := map[Effect]int{
		EffectDistortion: 2,
		EffectFilter:     2,
		EffectEQ:         3,
		EffectCompressor: 5,
		EffectDelay:      3,
	}
	for effect, want := range cases {
		got, err := effect.ParamCount()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := Effect(99).ParamCount()
	assert.Error(t, err)
}

func TestEncode7BitRoundTrip(t *testing.T) {
	data := make([]byte, 20)
	for i := range data {
		data[i] = byte(i * 17 & 0xFF)
	}
	encoded := Encode7Bit(data)
	assert.Equal(t, 0, len(encoded)%8)

	decoded, err := Decode7Bit(encoded, len(data))
	require.NoError(t, err)
	assert.Equal(t, data, decoded)
}

func TestEncode7BitSetsTopBitsInMask(t *testing.T) {
	data := []byte{0xFF, 0x00, 0x80, 0x7F, 0x01, 0x81, 0xAA}
	encoded := Encode7Bit(data)
	require.Len(t, encoded, 8)
	assert.Equal(t, byte(0b01100101), encoded[0]) // bits 0,2,5,6 set for 0xFF,0x80,0x81,0xAA

	decoded, err := Decode7Bit(encoded, len(data))
	require.NoError(t, err)
	assert.Equal(t, data, decoded)
}

func TestDecode7BitRejectsBadLength(t *testing.T) {
	_, err := Decode7Bit([]byte{1, 2, 3}, -1)
	assert.Error(t, err)
}

func TestFxStateEncodeDecodeRoundTrip(t *testing.T) {
	s := FxState{
		ProgramID:   1,
		Version:     2,
		FxRoute:     0,
		EnableFlags: 1<<FxEnableBitDistortion | 1<<FxEnableBitDelay,
		Distortion:  [2]byte{10, 20},
		Filter:      [2]byte{30, 40},
		EQ:          [3]byte{1, 2, 3},
		Compressor:  [5]byte{1, 2, 3, 4, 5},
		Delay:       [3]byte{9, 8, 7},
	}
	body := EncodeFxState(s)
	assert.Len(t, body, FxStateBodySize)

	decoded, err := DecodeFxState(body[:])
	require.NoError(t, err)
	assert.Equal(t, s, decoded)
	assert.True(t, decoded.EnabledStage(FxEnableBitDistortion))
	assert.False(t, decoded.EnabledStage(FxEnableBitFilter))
}

func TestDecodeFxStateRejectsWrongLength(t *testing.T) {
	_, err := DecodeFxState(make([]byte, 10))
	assert.Error(t, err)
}
