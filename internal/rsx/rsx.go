// Package rsx parses and writes the RSX project file format (spec.md §6,
// original_source/samplecrate_rsx.c): an INI-like UTF-8 text format with
// sections [Samplecrate], [Programs], [NoteTriggerPads]. Grounded directly
// on that original C parser's section/key/value walk, rebuilt in Go's
// bufio.Scanner idiom the way the teacher repository reads its own
// line-oriented project files.
package rsx

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// MaxPrograms is the fixed program slot count (prog_1.. prog_4).
const MaxPrograms = 4

// MaxPads is the fixed trigger-pad slot count (pad_N1.. pad_N32).
const MaxPads = 32

// Program is one [Programs] entry (prog_N_*).
type Program struct {
	File   string
	Name   string
	Volume float64
	Pan    float64
}

// Pad is one [NoteTriggerPads] entry (pad_N<k>_*).
type Pad struct {
	Note        int
	Description string
	Velocity    int
	PitchBend   float64
	Pan         float64
	Volume      float64
	Enabled     bool
	Program     int
}

// Document is a fully parsed RSX file.
type Document struct {
	Version  int
	SfzFile  string
	Programs [MaxPrograms]Program
	Pads     [MaxPads]Pad
}

// Load parses an RSX document from r.
func Load(r io.Reader) (*Document, error) {
	doc := &Document{}
	section := ""

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := stripComment(scanner.Text())
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.ToLower(strings.TrimSuffix(strings.TrimPrefix(line, "["), "]"))
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("rsx: line %d: expected key=value", lineNo)
		}
		key = strings.TrimSpace(key)
		value = unquote(strings.TrimSpace(value))

		var err error
		switch section {
		case "samplecrate":
			err = parseSamplecrateKey(doc, key, value)
		case "programs":
			err = parseProgramKey(doc, key, value)
		case "notetriggerpads":
			err = parsePadKey(doc, key, value)
		default:
			err = fmt.Errorf("line %d: key %q outside any recognized section", lineNo, key)
		}
		if err != nil {
			return nil, fmt.Errorf("rsx: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("rsx: scanning document: %w", err)
	}
	return doc, nil
}

func stripComment(line string) string {
	for _, marker := range []string{"#", ";"} {
		if idx := strings.Index(line, marker); idx >= 0 {
			// Only strip when the marker isn't inside a quoted value.
			if strings.Count(line[:idx], "\"")%2 == 0 {
				line = line[:idx]
			}
		}
	}
	return line
}

func unquote(v string) string {
	if len(v) >= 2 && v[0] == '"' && v[len(v)-1] == '"' {
		return v[1 : len(v)-1]
	}
	return v
}

func parseSamplecrateKey(doc *Document, key, value string) error {
	switch key {
	case "version":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("version: %w", err)
		}
		doc.Version = v
	case "file":
		doc.SfzFile = value
	default:
		return fmt.Errorf("unknown [Samplecrate] key %q", key)
	}
	return nil
}

func parseProgramKey(doc *Document, key, value string) error {
	rest, ok := strings.CutPrefix(key, "prog_")
	if !ok {
		return fmt.Errorf("unknown [Programs] key %q", key)
	}
	numStr, field, ok := strings.Cut(rest, "_")
	if !ok {
		return fmt.Errorf("[Programs] key %q missing field suffix", key)
	}
	n, err := strconv.Atoi(numStr)
	if err != nil || n < 1 || n > MaxPrograms {
		return fmt.Errorf("[Programs] key %q: program number out of range [1,%d]", key, MaxPrograms)
	}
	p := &doc.Programs[n-1]

	switch field {
	case "file":
		p.File = value
	case "name":
		p.Name = value
	case "volume":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		p.Volume = v
	case "pan":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		p.Pan = v
	default:
		return fmt.Errorf("unknown [Programs] field %q in key %q", field, key)
	}
	return nil
}

func parsePadKey(doc *Document, key, value string) error {
	rest, ok := strings.CutPrefix(key, "pad_N")
	if !ok {
		return fmt.Errorf("unknown [NoteTriggerPads] key %q", key)
	}
	numStr, field, ok := strings.Cut(rest, "_")
	if !ok {
		return fmt.Errorf("[NoteTriggerPads] key %q missing field suffix", key)
	}
	n, err := strconv.Atoi(numStr)
	if err != nil || n < 1 || n > MaxPads {
		return fmt.Errorf("[NoteTriggerPads] key %q: pad number out of range [1,%d]", key, MaxPads)
	}
	p := &doc.Pads[n-1]

	switch field {
	case "note":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		p.Note = v
	case "description":
		p.Description = value
	case "velocity":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		p.Velocity = v
	case "pitch_bend":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		p.PitchBend = v
	case "pan":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		p.Pan = v
	case "volume":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		p.Volume = v
	case "enabled":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		p.Enabled = v != 0
	case "program":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		p.Program = v
	default:
		return fmt.Errorf("unknown [NoteTriggerPads] field %q in key %q", field, key)
	}
	return nil
}

// Save writes doc back out in the RSX format.
func Save(w io.Writer, doc *Document) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "[Samplecrate]")
	fmt.Fprintf(bw, "version=%d\n", doc.Version)
	if doc.SfzFile != "" {
		fmt.Fprintf(bw, "file=%q\n", doc.SfzFile)
	}
	fmt.Fprintln(bw)

	fmt.Fprintln(bw, "[Programs]")
	for i, p := range doc.Programs {
		if p.Name == "" && p.File == "" {
			continue
		}
		n := i + 1
		if p.Name != "" {
			fmt.Fprintf(bw, "prog_%d_name=%q\n", n, p.Name)
		}
		if p.File != "" {
			fmt.Fprintf(bw, "prog_%d_file=%q\n", n, p.File)
		}
		fmt.Fprintf(bw, "prog_%d_volume=%.3f\n", n, p.Volume)
		fmt.Fprintf(bw, "prog_%d_pan=%.3f\n", n, p.Pan)
	}
	fmt.Fprintln(bw)

	fmt.Fprintln(bw, "[NoteTriggerPads]")
	for i, p := range doc.Pads {
		if p.Note == 0 && p.Description == "" && !p.Enabled {
			continue
		}
		n := i + 1
		fmt.Fprintf(bw, "pad_N%d_note=%d\n", n, p.Note)
		if p.Description != "" {
			fmt.Fprintf(bw, "pad_N%d_description=%q\n", n, p.Description)
		}
		fmt.Fprintf(bw, "pad_N%d_velocity=%d\n", n, p.Velocity)
		fmt.Fprintf(bw, "pad_N%d_pitch_bend=%.3f\n", n, p.PitchBend)
		fmt.Fprintf(bw, "pad_N%d_pan=%.3f\n", n, p.Pan)
		fmt.Fprintf(bw, "pad_N%d_volume=%.3f\n", n, p.Volume)
		if p.Enabled {
			fmt.Fprintf(bw, "pad_N%d_enabled=1\n", n)
		} else {
			fmt.Fprintf(bw, "pad_N%d_enabled=0\n", n)
		}
		fmt.Fprintf(bw, "pad_N%d_program=%d\n", n, p.Program)
		fmt.Fprintln(bw)
	}

	return bw.Flush()
}

// LoadFile is a convenience wrapper around Load for a path on disk.
func LoadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("rsx: opening %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// SaveFile is a convenience wrapper around Save for a path on disk.
func SaveFile(path string, doc *Document) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("rsx: creating %s: %w", path, err)
	}
	defer f.Close()
	return Save(f, doc)
}
