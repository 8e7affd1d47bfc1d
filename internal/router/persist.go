package router

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// namedKeys maps the INI format's key_<name> spellings to the key string
// an input driver would report (spec.md §4.5.1).
var namedKeys = map[string]string{
	"space": " ", "esc": "esc", "enter": "enter", "plus": "+", "minus": "-",
	"equals": "=", "lbracket": "[", "rbracket": "]", "pipe": "|",
	"backslash": "\\", "slash": "/", "comma": ",", "semicolon": ";",
	"hash": "#", "kp0": "kp0", "kp1": "kp1", "kp2": "kp2", "kp3": "kp3",
	"kp4": "kp4", "kp5": "kp5", "kp6": "kp6", "kp7": "kp7", "kp8": "kp8", "kp9": "kp9",
}

var keyToName = invertNamedKeys()

func invertNamedKeys() map[string]string {
	m := make(map[string]string, len(namedKeys))
	for name, key := range namedKeys {
		m[key] = name
	}
	return m
}

// Load parses an INI-like mapping file (spec.md §4.5.1: sections [midi],
// [keyboard], [trigger_pads]) into a fresh Router.
func Load(r io.Reader) (*Router, error) {
	router := New()
	section := ""

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";") || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.ToLower(strings.TrimSuffix(strings.TrimPrefix(line, "["), "]"))
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("router: line %d: expected key = value", lineNo)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		var err error
		switch section {
		case "midi":
			err = parseMidiLine(router, key, value)
		case "keyboard":
			err = parseKeyboardLine(router, key, value)
		case "trigger_pads":
			err = parsePadLine(router, key, value)
		default:
			err = fmt.Errorf("line %d: key %q outside any recognized section", lineNo, key)
		}
		if err != nil {
			return nil, fmt.Errorf("router: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("router: scanning mapping file: %w", err)
	}
	return router, nil
}

func parseMidiLine(r *Router, key, value string) error {
	ccStr, ok := strings.CutPrefix(key, "cc")
	if !ok {
		return fmt.Errorf("midi key %q must start with \"cc\"", key)
	}
	cc, err := strconv.Atoi(ccStr)
	if err != nil {
		return fmt.Errorf("midi key %q: invalid cc number: %w", key, err)
	}

	fields := strings.Split(value, ",")
	action, err := ParseAction(strings.TrimSpace(fields[0]))
	if err != nil {
		return err
	}

	m := MidiMapping{CC: cc, Action: action, Device: AnyDevice}
	if len(fields) > 1 && strings.TrimSpace(fields[1]) != "" {
		p, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
		if err != nil {
			return fmt.Errorf("midi cc%d: invalid parameter: %w", cc, err)
		}
		m.Parameter = p
	}
	if len(fields) > 2 && strings.TrimSpace(fields[2]) != "" {
		cont, err := strconv.ParseBool(strings.TrimSpace(fields[2]))
		if err != nil {
			return fmt.Errorf("midi cc%d: invalid continuous flag: %w", cc, err)
		}
		m.Continuous = cont
	}
	if len(fields) > 3 && strings.TrimSpace(fields[3]) != "" {
		dev, err := strconv.Atoi(strings.TrimSpace(fields[3]))
		if err != nil {
			return fmt.Errorf("midi cc%d: invalid device: %w", cc, err)
		}
		m.Device = dev
	}
	r.Midi = append(r.Midi, m)
	return nil
}

func parseKeyboardLine(r *Router, key, value string) error {
	keyName, ok := strings.CutPrefix(key, "key_")
	var resolvedKey string
	if ok {
		k, known := namedKeys[keyName]
		if !known {
			return fmt.Errorf("keyboard key %q: unknown named key %q", key, keyName)
		}
		resolvedKey = k
	} else {
		single, ok := strings.CutPrefix(key, "key")
		if !ok {
			return fmt.Errorf("keyboard key %q must start with \"key\"", key)
		}
		resolvedKey = single
	}

	fields := strings.Split(value, ",")
	action, err := ParseAction(strings.TrimSpace(fields[0]))
	if err != nil {
		return err
	}
	m := KeyboardMapping{Key: resolvedKey, Action: action}
	if len(fields) > 1 && strings.TrimSpace(fields[1]) != "" {
		p, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
		if err != nil {
			return fmt.Errorf("keyboard %q: invalid parameter: %w", key, err)
		}
		m.Parameter = p
	}
	r.Keyboard = append(r.Keyboard, m)
	return nil
}

func parsePadLine(r *Router, key, value string) error {
	padStr, ok := strings.CutPrefix(key, "pad")
	if !ok {
		return fmt.Errorf("trigger pad key %q must start with \"pad\"", key)
	}
	pad, err := strconv.Atoi(padStr)
	if err != nil {
		return fmt.Errorf("trigger pad key %q: invalid pad number: %w", key, err)
	}
	if pad < 0 || pad >= NumTriggerPads {
		return fmt.Errorf("trigger pad %d out of range [0,%d)", pad, NumTriggerPads)
	}

	fields := strings.Split(value, ",")
	action, err := ParseAction(strings.TrimSpace(fields[0]))
	if err != nil {
		return err
	}
	m := TriggerPadMapping{Action: action, MidiNote: -1, MidiDevice: AnyDevice}
	if len(fields) > 1 && strings.TrimSpace(fields[1]) != "" {
		p, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
		if err != nil {
			return fmt.Errorf("pad%d: invalid parameter: %w", pad, err)
		}
		m.Parameter = p
	}
	if len(fields) > 2 && strings.TrimSpace(fields[2]) != "" {
		note, err := strconv.Atoi(strings.TrimSpace(fields[2]))
		if err != nil {
			return fmt.Errorf("pad%d: invalid midi note: %w", pad, err)
		}
		m.MidiNote = note
	}
	if len(fields) > 3 && strings.TrimSpace(fields[3]) != "" {
		dev, err := strconv.Atoi(strings.TrimSpace(fields[3]))
		if err != nil {
			return fmt.Errorf("pad%d: invalid device: %w", pad, err)
		}
		m.MidiDevice = dev
	}
	r.TriggerPads[pad] = m
	return nil
}

// Save writes r back out in the same INI-like format Load accepts.
func Save(w io.Writer, r *Router) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintln(bw, "[midi]"); err != nil {
		return err
	}
	for _, m := range r.Midi {
		if _, err := fmt.Fprintf(bw, "cc%d = %s,%g,%t,%d\n", m.CC, m.Action, m.Parameter, m.Continuous, m.Device); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintln(bw, "\n[keyboard]"); err != nil {
		return err
	}
	for _, m := range r.Keyboard {
		keyField := m.Key
		if name, ok := keyToName[m.Key]; ok {
			keyField = "_" + name
		}
		if _, err := fmt.Fprintf(bw, "key%s = %s,%g\n", keyField, m.Action, m.Parameter); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintln(bw, "\n[trigger_pads]"); err != nil {
		return err
	}
	for i, m := range r.TriggerPads {
		if m.Action == ActionNone {
			continue
		}
		if _, err := fmt.Fprintf(bw, "pad%d = %s,%g,%d,%d\n", i, m.Action, m.Parameter, m.MidiNote, m.MidiDevice); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// LoadFile is a convenience wrapper around Load for a path on disk.
func LoadFile(path string) (*Router, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("router: opening mapping file: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// SaveFile is a convenience wrapper around Save for a path on disk.
func SaveFile(path string, r *Router) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("router: creating mapping file: %w", err)
	}
	defer f.Close()
	return Save(f, r)
}
