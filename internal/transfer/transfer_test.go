package transfer

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gbraad-go/samplecrate/internal/sysexproto"
)

func minimalMidiFile(payloadLen int) []byte {
	data := []byte{'M', 'T', 'h', 'd', 0, 0, 0, 6, 0, 0, 0, 1, 0, 1}
	for i := 0; i < payloadLen; i++ {
		data = append(data, byte(i))
	}
	return data
}

func chunksFor(data []byte) [][]byte {
	var chunks [][]byte
	for i := 0; i < len(data); i += sysexproto.RawChunkSize {
		end := i + sysexproto.RawChunkSize
		if end > len(data) {
			end = len(data)
		}
		chunks = append(chunks, sysexproto.Encode7Bit(data[i:end]))
	}
	if len(chunks) == 0 {
		chunks = append(chunks, sysexproto.Encode7Bit(nil))
	}
	return chunks
}

func TestUploadRoundTripWritesValidatedFile(t *testing.T) {
	dir := t.TempDir()
	m := New(dir, nil)

	data := minimalMidiFile(100)
	chunks := chunksFor(data)

	require.NoError(t, m.StartUpload(0, 1, len(chunks), len(data)))
	for i, c := range chunks {
		require.NoError(t, m.UploadChunk(0, i, c))
	}
	require.NoError(t, m.CompleteUpload(0))

	written, err := os.ReadFile(filepath.Join(dir, "sequences", "seq_0.mid"))
	require.NoError(t, err)
	assert.Equal(t, data, written)
}

func TestUploadRejectsFileOverCap(t *testing.T) {
	m := New(t.TempDir(), nil)
	err := m.StartUpload(0, 1, 1, MaxUploadBufferSize+1)
	assert.Error(t, err)
}

func TestUploadOutOfOrderChunkAbortsSession(t *testing.T) {
	dir := t.TempDir()
	m := New(dir, nil)
	data := minimalMidiFile(20)
	chunks := chunksFor(data)
	require.NoError(t, m.StartUpload(0, 1, len(chunks), len(data)))

	err := m.UploadChunk(0, 1, chunks[0]) // wrong index
	assert.Error(t, err)

	err = m.CompleteUpload(0)
	assert.Error(t, err, "aborted session has nothing to complete")
}

func TestCompleteUploadRejectsIncompleteTransfer(t *testing.T) {
	dir := t.TempDir()
	m := New(dir, nil)
	data := minimalMidiFile(600) // spans multiple 256-byte chunks
	chunks := chunksFor(data)
	require.True(t, len(chunks) > 1)

	require.NoError(t, m.StartUpload(0, 1, len(chunks), len(data)))
	require.NoError(t, m.UploadChunk(0, 0, chunks[0]))

	err := m.CompleteUpload(0)
	assert.Error(t, err)
}

func TestCompleteUploadRejectsBadMidiHeader(t *testing.T) {
	dir := t.TempDir()
	m := New(dir, nil)
	data := []byte("not a midi file at all")
	chunks := chunksFor(data)

	require.NoError(t, m.StartUpload(0, 1, len(chunks), len(data)))
	for i, c := range chunks {
		require.NoError(t, m.UploadChunk(0, i, c))
	}
	err := m.CompleteUpload(0)
	assert.Error(t, err)
}

func TestCheckUploadTimeoutsAbortsStaleSessions(t *testing.T) {
	dir := t.TempDir()
	current := time.Unix(0, 0)
	m := New(dir, func() time.Time { return current })

	data := minimalMidiFile(10)
	chunks := chunksFor(data)
	require.NoError(t, m.StartUpload(0, 1, len(chunks), len(data)))

	current = current.Add(SessionTimeout)
	m.CheckUploadTimeouts()

	err := m.UploadChunk(0, 0, chunks[0])
	assert.Error(t, err, "session should have been aborted by the timeout sweep")
}

func TestDownloadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	data := minimalMidiFile(600)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sequences"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sequences", "seq_2.mid"), data, 0o644))

	m := New(dir, nil)
	require.NoError(t, m.StartDownload(2))

	count, err := m.DownloadChunkCount(2)
	require.NoError(t, err)
	assert.True(t, count > 1)

	var reassembled []byte
	for i := 0; i < count; i++ {
		encoded, err := m.GetDownloadChunk(2, i)
		require.NoError(t, err)
		decodeSize := len(data) - len(reassembled)
		if decodeSize > sysexproto.RawChunkSize {
			decodeSize = sysexproto.RawChunkSize
		}
		decoded, err := sysexproto.Decode7Bit(encoded, decodeSize)
		require.NoError(t, err)
		reassembled = append(reassembled, decoded...)
	}
	assert.Equal(t, data, reassembled)

	require.NoError(t, m.CompleteDownload(2))
	_, err = m.DownloadChunkCount(2)
	assert.Error(t, err)
}

func TestSlotOutOfRangeIsError(t *testing.T) {
	m := New(t.TempDir(), nil)
	assert.Error(t, m.StartUpload(NumSlots, 0, 1, 1))
	assert.Error(t, m.StartDownload(-1))
}
