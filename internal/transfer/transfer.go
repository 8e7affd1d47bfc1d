// Package transfer implements the chunked MIDI-file upload/download session
// state machines described in spec.md §4.5.3: 16 slots, 256-byte raw
// chunks, 7-bit encoding via internal/sysexproto, 30s inactivity timeout.
// Grounded in the teacher repository's storage package's load/save
// lifecycle shape (open, validate, write-then-rename), rebuilt here around
// reassembly buffers instead of a single in-memory document.
package transfer

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gbraad-go/samplecrate/internal/sysexproto"
)

// NumSlots is the fixed number of concurrent transfer sessions, matching
// the sequencer's sequence slots.
const NumSlots = 16

// MaxUploadBufferSize is the hard cap on an upload's reassembly buffer.
const MaxUploadBufferSize = 16 * 1024

// SessionTimeout is the inactivity window after which a session is
// aborted.
const SessionTimeout = 30 * time.Second

// uploadSession is the in-progress state for one upload slot.
type uploadSession struct {
	active       bool
	program      byte
	totalChunks  int
	fileSize     int
	chunksRecv   int
	buf          []byte
	lastActivity time.Time
}

// downloadSession is the in-progress state for one download slot.
type downloadSession struct {
	active      bool
	data        []byte
	totalChunks int
}

// Manager owns all 16 upload and 16 download sessions plus the output
// directory new uploads are completed into.
type Manager struct {
	outputDir string
	now       func() time.Time

	uploads   [NumSlots]uploadSession
	downloads [NumSlots]downloadSession
}

// New returns a Manager rooted at outputDir (which must contain, or will
// have created under it, a "sequences" subdirectory). now is injectable for
// tests; pass nil to use time.Now.
func New(outputDir string, now func() time.Time) *Manager {
	if now == nil {
		now = time.Now
	}
	return &Manager{outputDir: outputDir, now: now}
}

func (m *Manager) checkSlot(slot int) error {
	if slot < 0 || slot >= NumSlots {
		return fmt.Errorf("transfer: slot %d out of range [0,%d)", slot, NumSlots)
	}
	return nil
}

// StartUpload allocates a reassembly buffer for slot, aborting any existing
// session on that slot first.
func (m *Manager) StartUpload(slot int, program byte, totalChunks, fileSize int) error {
	if err := m.checkSlot(slot); err != nil {
		return err
	}
	if fileSize > MaxUploadBufferSize {
		return fmt.Errorf("transfer: upload slot %d: file size %d exceeds %d byte cap", slot, fileSize, MaxUploadBufferSize)
	}
	if totalChunks <= 0 {
		return fmt.Errorf("transfer: upload slot %d: total_chunks must be positive", slot)
	}

	if m.uploads[slot].active {
		log.Printf("[TRANSFER] upload slot %d: aborting existing session to start a new one", slot)
	}
	m.uploads[slot] = uploadSession{
		active:       true,
		program:      program,
		totalChunks:  totalChunks,
		fileSize:     fileSize,
		buf:          make([]byte, 0, fileSize),
		lastActivity: m.now(),
	}
	return nil
}

// UploadChunk appends one decoded, possibly-last chunk to slot's
// reassembly buffer. chunkNum must equal the session's running count of
// chunks received so far; any other value aborts the session.
func (m *Manager) UploadChunk(slot, chunkNum int, encoded []byte) error {
	if err := m.checkSlot(slot); err != nil {
		return err
	}
	s := &m.uploads[slot]
	if !s.active {
		return fmt.Errorf("transfer: upload slot %d has no active session", slot)
	}
	if chunkNum != s.chunksRecv {
		m.AbortUpload(slot)
		return fmt.Errorf("transfer: upload slot %d: out-of-order chunk %d (expected %d), session aborted", slot, chunkNum, s.chunksRecv)
	}

	remaining := s.fileSize - len(s.buf)
	decodeSize := remaining
	if decodeSize > sysexproto.RawChunkSize {
		decodeSize = sysexproto.RawChunkSize
	}
	decoded, err := sysexproto.Decode7Bit(encoded, decodeSize)
	if err != nil {
		m.AbortUpload(slot)
		return fmt.Errorf("transfer: upload slot %d: decoding chunk %d: %w", slot, chunkNum, err)
	}

	s.buf = append(s.buf, decoded...)
	s.chunksRecv++
	s.lastActivity = m.now()
	return nil
}

// CompleteUpload verifies the full file arrived, validates its MIDI
// header, and writes it to <output_dir>/sequences/seq_<slot>.mid.
func (m *Manager) CompleteUpload(slot int) error {
	if err := m.checkSlot(slot); err != nil {
		return err
	}
	s := &m.uploads[slot]
	if !s.active {
		return fmt.Errorf("transfer: upload slot %d has no active session", slot)
	}
	if s.chunksRecv != s.totalChunks {
		return fmt.Errorf("transfer: upload slot %d: received %d/%d chunks", slot, s.chunksRecv, s.totalChunks)
	}
	if err := validateMidiHeader(s.buf); err != nil {
		return fmt.Errorf("transfer: upload slot %d: %w", slot, err)
	}

	dir := filepath.Join(m.outputDir, "sequences")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("transfer: upload slot %d: creating sequences dir: %w", slot, err)
	}
	path := filepath.Join(dir, fmt.Sprintf("seq_%d.mid", slot))
	if err := os.WriteFile(path, s.buf, 0o644); err != nil {
		return fmt.Errorf("transfer: upload slot %d: writing %s: %w", slot, path, err)
	}

	m.uploads[slot] = uploadSession{}
	return nil
}

// AbortUpload tears down slot's upload session, if any.
func (m *Manager) AbortUpload(slot int) {
	if slot < 0 || slot >= NumSlots {
		return
	}
	m.uploads[slot] = uploadSession{}
}

// CheckUploadTimeouts aborts any upload session inactive for >= SessionTimeout.
func (m *Manager) CheckUploadTimeouts() {
	now := m.now()
	for i := range m.uploads {
		s := &m.uploads[i]
		if s.active && now.Sub(s.lastActivity) >= SessionTimeout {
			log.Printf("[TRANSFER] upload slot %d timed out after %s of inactivity", i, SessionTimeout)
			m.uploads[i] = uploadSession{}
		}
	}
}

func validateMidiHeader(data []byte) error {
	if len(data) < 8 {
		return fmt.Errorf("file too short to contain an MThd header")
	}
	if !bytes.Equal(data[0:4], []byte("MThd")) {
		return fmt.Errorf("missing MThd chunk signature")
	}
	headerLen := int(data[4])<<24 | int(data[5])<<16 | int(data[6])<<8 | int(data[7])
	if headerLen != 6 {
		return fmt.Errorf("MThd header length %d, want 6", headerLen)
	}
	return nil
}

// StartDownload loads sequences/seq_<slot>.mid into memory and computes
// its chunk count.
func (m *Manager) StartDownload(slot int) error {
	if err := m.checkSlot(slot); err != nil {
		return err
	}
	path := filepath.Join(m.outputDir, "sequences", fmt.Sprintf("seq_%d.mid", slot))
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("transfer: download slot %d: reading %s: %w", slot, path, err)
	}

	totalChunks := (len(data) + sysexproto.RawChunkSize - 1) / sysexproto.RawChunkSize
	if totalChunks == 0 {
		totalChunks = 1
	}
	m.downloads[slot] = downloadSession{active: true, data: data, totalChunks: totalChunks}
	return nil
}

// DownloadChunkCount returns slot's total chunk count, once StartDownload
// has run.
func (m *Manager) DownloadChunkCount(slot int) (int, error) {
	if err := m.checkSlot(slot); err != nil {
		return 0, err
	}
	s := &m.downloads[slot]
	if !s.active {
		return 0, fmt.Errorf("transfer: download slot %d has no active session", slot)
	}
	return s.totalChunks, nil
}

// GetDownloadChunk returns the 7-bit-encoded bytes for chunk chunkNum of
// slot's active download session.
func (m *Manager) GetDownloadChunk(slot, chunkNum int) ([]byte, error) {
	if err := m.checkSlot(slot); err != nil {
		return nil, err
	}
	s := &m.downloads[slot]
	if !s.active {
		return nil, fmt.Errorf("transfer: download slot %d has no active session", slot)
	}
	if chunkNum < 0 || chunkNum >= s.totalChunks {
		return nil, fmt.Errorf("transfer: download slot %d: chunk %d out of range [0,%d)", slot, chunkNum, s.totalChunks)
	}

	start := chunkNum * sysexproto.RawChunkSize
	end := start + sysexproto.RawChunkSize
	if end > len(s.data) {
		end = len(s.data)
	}
	return sysexproto.Encode7Bit(s.data[start:end]), nil
}

// CompleteDownload tears down slot's download session.
func (m *Manager) CompleteDownload(slot int) error {
	if err := m.checkSlot(slot); err != nil {
		return err
	}
	m.downloads[slot] = downloadSession{}
	return nil
}
