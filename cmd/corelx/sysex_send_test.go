package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseByteAcceptsHexAndDecimal(t *testing.T) {
	b, err := parseByte("0x20")
	require.NoError(t, err)
	assert.Equal(t, byte(0x20), b)

	b, err = parseByte("32")
	require.NoError(t, err)
	assert.Equal(t, byte(32), b)
}

func TestParseByteListSplitsAndTrims(t *testing.T) {
	bytes, err := parseByteList("0x01, 2,0x7F")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02, 0x7F}, bytes)
}

func TestParseByteListEmptyIsNil(t *testing.T) {
	bytes, err := parseByteList("")
	require.NoError(t, err)
	assert.Nil(t, bytes)
}

func TestParseByteListRejectsBadByte(t *testing.T) {
	_, err := parseByteList("0x01,not-a-byte")
	assert.Error(t, err)
}

func TestFormatHexSpacesBytes(t *testing.T) {
	assert.Equal(t, "F0 7D 7F 01 F7", formatHex([]byte{0xF0, 0x7D, 0x7F, 0x01, 0xF7}))
}
