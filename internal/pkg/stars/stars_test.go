package stars

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	assert.Equal(t, [5]Kind{Full, Full, Full, Half, Empty}, Render(3.5))
	assert.Equal(t, [5]Kind{Empty, Empty, Empty, Empty, Empty}, Render(0))
	assert.Equal(t, [5]Kind{Full, Full, Full, Full, Full}, Render(5))
	assert.Equal(t, [5]Kind{Full, Half, Empty, Empty, Empty}, Render(1.5))
	assert.Equal(t, [5]Kind{Full, Full, Empty, Empty, Empty}, Render(2))
	assert.Equal(t, [5]Kind{Half, Empty, Empty, Empty, Empty}, Render(0.5))
}

func TestSelect(t *testing.T) {
	// Clicking the left half of the 3rd star selects 2.5, the right half 3.
	assert.Equal(t, 2.5, Select(3, 0.2))
	assert.Equal(t, 3.0, Select(3, 0.8))
	assert.Equal(t, 0.5, Select(1, 0.0))
	assert.Equal(t, 5.0, Select(5, 0.5))

	// Out-of-range indexes clamp to the row.
	assert.Equal(t, 0.5, Select(0, 0.1))
	assert.Equal(t, 5.0, Select(9, 0.9))
}

func TestValid(t *testing.T) {
	for _, v := range []float64{0, 0.5, 1, 2.5, 4.5, 5} {
		assert.True(t, Valid(v), "expected %v to be valid", v)
	}
	for _, v := range []float64{-0.5, 5.5, 3.2, 0.25} {
		assert.False(t, Valid(v), "expected %v to be invalid", v)
	}
}
