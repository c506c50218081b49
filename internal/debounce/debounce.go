// Package debounce certifies board snapshots as stable.
//
// Reed switches bounce when a piece slides over them, so a single sample says
// little. The Debouncer keeps the last K samples, takes their majority value,
// and only reports that value once it has stayed the majority for T
// consecutive ingests.
package debounce

import (
	"github.com/Iron-Ham/chessbridge/internal/board"
)

const (
	// DefaultWindowSize is the number of samples the majority is taken over.
	DefaultWindowSize = 5
	// DefaultThreshold is the number of consecutive identical majorities
	// required before a state is reported as stable.
	DefaultThreshold = 3
)

// Debouncer holds the sample window and the stability counter.
// It is not safe for concurrent use; the session controller owns it.
type Debouncer struct {
	window    []board.Snapshot
	size      int
	threshold int

	last    board.Snapshot
	hasLast bool
	counter int
}

// New creates a Debouncer with the given window size and threshold.
// A non-positive window size or a negative threshold falls back to the default.
func New(windowSize, threshold int) *Debouncer {
	if windowSize <= 0 {
		windowSize = DefaultWindowSize
	}
	if threshold < 0 {
		threshold = DefaultThreshold
	}
	return &Debouncer{
		window:    make([]board.Snapshot, 0, windowSize),
		size:      windowSize,
		threshold: threshold,
	}
}

// Ingest adds a sample and returns the stable state, if any.
//
// The majority is tracked from the first sample so that a board that has
// read the same value since power-on is stable as soon as the window fills.
// Nothing is ever reported before the window holds windowSize samples.
func (d *Debouncer) Ingest(s board.Snapshot) (board.Snapshot, bool) {
	if len(d.window) == d.size {
		copy(d.window, d.window[1:])
		d.window = d.window[:d.size-1]
	}
	d.window = append(d.window, s)

	majority := d.majority()
	if d.hasLast && majority == d.last {
		d.counter++
	} else {
		d.counter = 0
	}
	d.last = majority
	d.hasLast = true

	if len(d.window) < d.size {
		return board.Snapshot{}, false
	}
	if d.counter >= d.threshold {
		return majority, true
	}
	return board.Snapshot{}, false
}

// majority returns the most frequent snapshot in the window. Among values
// tied for the highest count, the one seen first from the oldest sample wins.
func (d *Debouncer) majority() board.Snapshot {
	best, bestCount := 0, 0
	for i := range d.window {
		seenEarlier := false
		for j := 0; j < i; j++ {
			if d.window[j] == d.window[i] {
				seenEarlier = true
				break
			}
		}
		if seenEarlier {
			continue
		}
		count := 1
		for j := i + 1; j < len(d.window); j++ {
			if d.window[j] == d.window[i] {
				count++
			}
		}
		if count > bestCount {
			best, bestCount = i, count
		}
	}
	return d.window[best]
}

// ResetCounter zeroes the stability counter without touching the window.
func (d *Debouncer) ResetCounter() {
	d.counter = 0
}

// Counter returns the current stability counter.
func (d *Debouncer) Counter() int {
	return d.counter
}

// Len returns the number of samples currently in the window.
func (d *Debouncer) Len() int {
	return len(d.window)
}

// WindowSize returns the window capacity.
func (d *Debouncer) WindowSize() int {
	return d.size
}

// Threshold returns the stability threshold.
func (d *Debouncer) Threshold() int {
	return d.threshold
}
