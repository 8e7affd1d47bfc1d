// Package snapshot implements debounced, crash-safe persistence of the
// engine's transport/sequence status, for the dev CLI's dump-state command
// and for an operator who wants a resumable record of what was playing.
// Grounded on the teacher repository's internal/storage (AutoSave's debounce
// timer plus gzip+JSON on disk), generalized from the teacher's giant
// flat Model struct to the small State this package defines, and adapted
// onto jsoniter the same way the teacher does.
package snapshot

import (
	"compress/gzip"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DebounceInterval mirrors the teacher's AutoSave debounce window: repeated
// state changes within this interval collapse into a single write.
const DebounceInterval = 1 * time.Second

// SequenceState is one Performance sequence or pad's playback status.
type SequenceState struct {
	Index         int  `json:"index"`
	Playing       bool `json:"playing"`
	CurrentPhrase int  `json:"current_phrase,omitempty"`
}

// State is the full point-in-time snapshot written to disk.
type State struct {
	SavedAt   time.Time       `json:"saved_at"`
	BPM       float64         `json:"bpm"`
	Pulse     int             `json:"pulse"`
	Sequences []SequenceState `json:"sequences,omitempty"`
	Pads      []SequenceState `json:"pads,omitempty"`
}

// Store debounces writes of State to a single gzip+JSON file, matching the
// teacher's AutoSave/DoSave split: Request schedules a write after
// DebounceInterval of quiet, Save writes immediately and synchronously.
type Store struct {
	path string

	mu    sync.Mutex
	timer *time.Timer
}

// NewStore returns a Store that persists to path (created if missing).
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Request schedules a debounced save of state. If another Request arrives
// before DebounceInterval elapses, the pending timer is reset — only the
// most recent state is ever written.
func (st *Store) Request(state State) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.timer != nil {
		st.timer.Stop()
	}
	st.timer = time.AfterFunc(DebounceInterval, func() {
		if err := st.Save(state); err != nil {
			log.Printf("[SNAPSHOT] debounced save failed: %v", err)
		}
	})
}

// Save writes state to disk immediately, gzip-compressed JSON.
func (st *Store) Save(state State) error {
	if dir := filepath.Dir(st.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("snapshot: creating directory %s: %w", dir, err)
		}
	}

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("snapshot: marshaling state: %w", err)
	}

	f, err := os.Create(st.path)
	if err != nil {
		return fmt.Errorf("snapshot: creating %s: %w", st.path, err)
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	if _, err := gz.Write(data); err != nil {
		gz.Close()
		return fmt.Errorf("snapshot: writing %s: %w", st.path, err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("snapshot: closing gzip writer for %s: %w", st.path, err)
	}
	log.Printf("[SNAPSHOT] saved %s", st.path)
	return nil
}

// Load reads a previously saved State from path.
func Load(path string) (State, error) {
	f, err := os.Open(path)
	if err != nil {
		return State{}, fmt.Errorf("snapshot: opening %s: %w", path, err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return State{}, fmt.Errorf("snapshot: reading gzip header of %s: %w", path, err)
	}
	defer gz.Close()

	data, err := io.ReadAll(gz)
	if err != nil {
		return State{}, fmt.Errorf("snapshot: decompressing %s: %w", path, err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return State{}, fmt.Errorf("snapshot: unmarshaling %s: %w", path, err)
	}
	return state, nil
}
