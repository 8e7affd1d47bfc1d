// Package bpmtap implements tap-tempo: an operator taps a key/pad in time
// and each tap narrows a BPM estimate. Grounded in the teacher repository's
// internal/getbpm (median/best-fit duration-to-BPM reasoning over a
// candidate set), generalized here from "guess a BPM from one WAV file's
// duration" to "guess a BPM from a live stream of tap timestamps".
package bpmtap

import (
	"sort"
	"time"
)

// MaxTaps bounds the rolling window of intervals a Detector takes the median of.
// Older taps fall off so the estimate tracks a tempo change instead of
// anchoring on a session's very first taps.
const MaxTaps = 8

// MinBPM and MaxBPM bound the accepted range; a tap implying a BPM outside
// it is treated as a reset (the operator paused) rather than folded in.
const (
	MinBPM = 40.0
	MaxBPM = 300.0
)

// ResetGap is the idle duration after which the next tap starts a fresh run
// instead of extending the current one.
const ResetGap = 2 * time.Second

// Detector accumulates tap timestamps and reports a running BPM estimate.
// It is not safe for concurrent use; callers own serializing their own taps.
type Detector struct {
	last      time.Time
	intervals []time.Duration
}

// New returns an empty Detector.
func New() *Detector {
	return &Detector{}
}

// Tap records a tap at now and returns the current BPM estimate and whether
// enough taps have accumulated to trust it (at least two intervals).
func (d *Detector) Tap(now time.Time) (bpm float64, ok bool) {
	if !d.last.IsZero() {
		gap := now.Sub(d.last)
		if gap > ResetGap {
			d.intervals = d.intervals[:0]
		} else if gap > 0 {
			d.intervals = append(d.intervals, gap)
			if len(d.intervals) > MaxTaps {
				d.intervals = d.intervals[1:]
			}
		}
	}
	d.last = now

	if len(d.intervals) == 0 {
		return 0, false
	}
	bpm = 60.0 / medianInterval(d.intervals).Seconds()
	if bpm < MinBPM || bpm > MaxBPM {
		d.intervals = d.intervals[:0]
		return 0, false
	}
	return bpm, len(d.intervals) >= 2
}

// Reset clears all accumulated taps, starting a fresh run on the next Tap.
func (d *Detector) Reset() {
	d.last = time.Time{}
	d.intervals = d.intervals[:0]
}

// medianInterval returns the median of a copy of intervals, so repeated
// calls don't observe a sorted slice mutated out from under them.
func medianInterval(intervals []time.Duration) time.Duration {
	sorted := append([]time.Duration(nil), intervals...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
