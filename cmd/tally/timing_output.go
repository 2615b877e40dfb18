package main

import (
	"os"

	"tally/internal/observ"
)

// newRunTimer returns a timer when --timings is set and nil otherwise;
// observ.Timer methods are no-ops on nil.
func newRunTimer() *observ.Timer {
	if !settings.timings {
		return nil
	}
	return observ.NewTimer()
}

func printTimings(timer *observ.Timer) {
	if timer == nil {
		return
	}
	_, _ = os.Stderr.WriteString(timer.Summary())
}
