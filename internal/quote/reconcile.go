package quote

import (
	"time"

	"parsequote/internal/capture"
)

const (
	secondsPerDay = 24 * 3600
	// exchangeOffset is the fixed UTC offset of the exchange clock (KST, UTC+9).
	exchangeOffset = 9 * 3600
	// MaxDiff bounds the gap, in seconds, between capture and accept time
	// before the accept time is considered to sit on the other side of midnight.
	MaxDiff = 3
)

// Reconcile combines the exchange's time of day with the capture second to
// recover an absolute accept time. captureSeconds is in the capture domain,
// before any container UTC offset is applied.
func Reconcile(captureSeconds, secondsOfDay, nanos int64) (time.Time, error) {
	return capture.NewTimestamp(captureSeconds+Difference(captureSeconds, secondsOfDay), nanos)
}

// Difference is the day-corrected gap in seconds between the accept time of day
// and the capture second.
func Difference(captureSeconds, secondsOfDay int64) int64 {
	remainder := floorMod(captureSeconds, secondsPerDay)
	diff := floorMod(secondsPerDay-exchangeOffset+secondsOfDay, secondsPerDay) - remainder
	if diff > MaxDiff || diff < -MaxDiff {
		if diff < 0 {
			diff += secondsPerDay
		} else {
			diff -= secondsPerDay
		}
	}
	return diff
}

func floorMod(a, n int64) int64 {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}
