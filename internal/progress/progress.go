// Package progress holds small pure helpers shared by the assessment and
// result engines and by API handlers.
package progress

import "fmt"

// PercentComplete returns the share of true entries in flags as a 0..100
// percentage. An empty vector is 0.
func PercentComplete(flags []bool) float64 {
	if len(flags) == 0 {
		return 0
	}
	done := 0
	for _, f := range flags {
		if f {
			done++
		}
	}
	return float64(done) / float64(len(flags)) * 100
}

// FormatClock renders a second count as mm:ss. Negative values clamp to
// 00:00; minutes are not capped at 59.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
