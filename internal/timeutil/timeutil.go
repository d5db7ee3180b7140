// Package timeutil holds small time helpers shared by the API payloads.
package timeutil

import (
	"fmt"
	"time"
)

// ShortNaturalTime renders the distance between now and value as a compact
// human string: "just now", "5m", "3h", "2d".
func ShortNaturalTime(value, now time.Time) string {
	delta := now.Sub(value)
	if delta < 0 {
		delta = 0
	}
	switch {
	case delta < time.Minute:
		return "just now"
	case delta < time.Hour:
		return fmt.Sprintf("%dm", int(delta.Minutes()))
	case delta < 24*time.Hour:
		return fmt.Sprintf("%dh", int(delta.Hours()))
	default:
		return fmt.Sprintf("%dd", int(delta.Hours()/24))
	}
}
