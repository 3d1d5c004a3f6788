// Package timeago renders elapsed durations as the coarse Korean relative
// labels the web client has always shown ("5분 전", "3주 전", ...).
//
// Every unit is derived from the previous one by rounding, and bucket
// selection checks the already-rounded value. That chain is intentional:
// clients rely on the exact strings, so the boundary behavior (59.6s becomes
// "1분 전", 3599s promotes to "1시간 전") must stay stable.
package timeago

import (
	"fmt"
	"math"
	"time"
)

// Format returns the relative label for past as seen from now.
func Format(past, now time.Time) string {
	seconds := round(now.Sub(past).Seconds())
	minutes := round(float64(seconds) / 60)
	hours := round(float64(minutes) / 60)
	days := round(float64(hours) / 24)
	weeks := round(float64(days) / 7)
	months := round(float64(days) / 30)
	years := round(float64(days) / 365)

	switch {
	case seconds < 60:
		return fmt.Sprintf("%d초 전", seconds)
	case minutes < 60:
		return fmt.Sprintf("%d분 전", minutes)
	case hours < 24:
		return fmt.Sprintf("%d시간 전", hours)
	case days < 7:
		return fmt.Sprintf("%d일 전", days)
	case weeks < 5:
		return fmt.Sprintf("%d주 전", weeks)
	case months < 12:
		return fmt.Sprintf("%d달 전", months)
	default:
		return fmt.Sprintf("%d년 전", years)
	}
}

// round matches JavaScript's Math.round (half rounds up).
func round(x float64) int64 {
	return int64(math.Floor(x + 0.5))
}
