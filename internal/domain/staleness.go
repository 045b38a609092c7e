package domain

import "time"

// IsStale reports whether last is older than maxAge at now. A zero last is
// always stale; a non-positive maxAge disables the check.
func IsStale(last, now time.Time, maxAge time.Duration) bool {
	if last.IsZero() {
		return true
	}

	if maxAge <= 0 {
		return false
	}

	return now.Sub(last) > maxAge
}
