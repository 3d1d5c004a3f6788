// Package stars holds the star-rating display and input rules shared by the
// review widget and its API responses.
package stars

import "math"

// Kind is one display slot of the five-star row.
type Kind int

const (
	Empty Kind = iota
	Half
	Full
)

const totalStars = 5

// Render splits a rating value into the five display slots: the integer part
// as full stars, a half star when the fraction reaches 0.5, empty for the
// rest. Render(3.5) → full, full, full, half, empty.
func Render(value float64) [totalStars]Kind {
	var out [totalStars]Kind

	intPart := int(value)
	frac := value - math.Trunc(value)

	if intPart > totalStars {
		intPart = totalStars
	}
	for i := 0; i < intPart; i++ {
		out[i] = Full
	}
	if frac >= 0.5 && intPart < totalStars {
		out[intPart] = Half
	}
	return out
}

// Select maps a pointer position on star index (1-based) to the selected
// rating: the left half of star k means k-0.5, the right half means k.
// fraction is the horizontal position within the star, in [0,1); touch input
// uses the same mapping.
func Select(index int, fraction float64) float64 {
	if index < 1 {
		index = 1
	}
	if index > totalStars {
		index = totalStars
	}
	if fraction < 0.5 {
		return float64(index) - 0.5
	}
	return float64(index)
}

// Valid reports whether v is a representable rating: within [0,5] and on a
// half-step boundary.
func Valid(v float64) bool {
	if v < 0 || v > totalStars {
		return false
	}
	scaled := v * 2
	return scaled == math.Trunc(scaled)
}
