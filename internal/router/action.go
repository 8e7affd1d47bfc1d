// Package router implements the MIDI CC / keyboard / trigger-pad input
// mapping tables (spec.md §4.5.1): first-match lookup against a closed
// action enumeration, with an INI-like persistence format. Grounded in the
// teacher repository's INI settings load/save (internal/model's settings
// persistence follows the same section/key=value shape), rebuilt as a
// standalone package since the teacher's own version is entangled with its
// tracker UI model.
package router

import "fmt"

// Action is the closed, stable set of input-triggerable actions (spec.md
// §4.5.1). Values are wire-level identifiers: do not renumber existing
// entries, only append.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionFilePrev
	ActionFileNext
	ActionFileLoad
	ActionFxDistortionDrive
	ActionFxDistortionMix
	ActionFxDistortionToggle
	ActionFxFilterCutoff
	ActionFxFilterResonance
	ActionFxFilterToggle
	ActionFxEQLow
	ActionFxEQMid
	ActionFxEQHigh
	ActionFxEQToggle
	ActionFxCompressorThreshold
	ActionFxCompressorRatio
	ActionFxCompressorAttack
	ActionFxCompressorRelease
	ActionFxCompressorMakeup
	ActionFxCompressorToggle
	ActionFxDelayTime
	ActionFxDelayFeedback
	ActionFxDelayMix
	ActionFxDelayToggle
	ActionMasterVolume
	ActionMasterPan
	ActionMasterMute
	ActionPlaybackVolume
	ActionPlaybackPan
	ActionPlaybackMute
	ActionTriggerNotePad
	ActionProgramPrev
	ActionProgramNext
	ActionNoteSuppressToggle
	ActionProgramMuteToggle
	ActionTapTempo
)

var actionNames = map[Action]string{
	ActionNone:                  "none",
	ActionQuit:                  "quit",
	ActionFilePrev:              "file_prev",
	ActionFileNext:              "file_next",
	ActionFileLoad:              "file_load",
	ActionFxDistortionDrive:     "fx_distortion_drive",
	ActionFxDistortionMix:       "fx_distortion_mix",
	ActionFxDistortionToggle:    "fx_distortion_toggle",
	ActionFxFilterCutoff:        "fx_filter_cutoff",
	ActionFxFilterResonance:     "fx_filter_resonance",
	ActionFxFilterToggle:        "fx_filter_toggle",
	ActionFxEQLow:               "fx_eq_low",
	ActionFxEQMid:               "fx_eq_mid",
	ActionFxEQHigh:              "fx_eq_high",
	ActionFxEQToggle:            "fx_eq_toggle",
	ActionFxCompressorThreshold: "fx_compressor_threshold",
	ActionFxCompressorRatio:     "fx_compressor_ratio",
	ActionFxCompressorAttack:    "fx_compressor_attack",
	ActionFxCompressorRelease:   "fx_compressor_release",
	ActionFxCompressorMakeup:    "fx_compressor_makeup",
	ActionFxCompressorToggle:    "fx_compressor_toggle",
	ActionFxDelayTime:           "fx_delay_time",
	ActionFxDelayFeedback:       "fx_delay_feedback",
	ActionFxDelayMix:            "fx_delay_mix",
	ActionFxDelayToggle:         "fx_delay_toggle",
	ActionMasterVolume:          "master_volume",
	ActionMasterPan:             "master_pan",
	ActionMasterMute:            "master_mute",
	ActionPlaybackVolume:        "playback_volume",
	ActionPlaybackPan:           "playback_pan",
	ActionPlaybackMute:          "playback_mute",
	ActionTriggerNotePad:        "trigger_note_pad",
	ActionProgramPrev:           "program_prev",
	ActionProgramNext:           "program_next",
	ActionNoteSuppressToggle:    "note_suppress_toggle",
	ActionProgramMuteToggle:     "program_mute_toggle",
	ActionTapTempo:              "tap_tempo",
}

var namesToAction = invertActionNames()

func invertActionNames() map[string]Action {
	m := make(map[string]Action, len(actionNames))
	for a, name := range actionNames {
		m[name] = a
	}
	return m
}

// String returns the persistence-format name for a, or "" for an unknown
// action.
func (a Action) String() string {
	return actionNames[a]
}

// ParseAction resolves a persistence-format action name back to its Action
// value.
func ParseAction(name string) (Action, error) {
	a, ok := namesToAction[name]
	if !ok {
		return ActionNone, fmt.Errorf("router: unknown action name %q", name)
	}
	return a, nil
}
