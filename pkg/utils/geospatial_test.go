package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineDistance(t *testing.T) {
	// Accra to Kumasi is roughly 200 km as the crow flies
	d := HaversineDistance(5.6037, -0.1870, 6.6885, -1.6244)
	assert.InDelta(t, 200, d, 10)

	// Same point
	assert.Zero(t, HaversineDistance(5.6037, -0.1870, 5.6037, -0.1870))
}

func TestIsWithinRadius(t *testing.T) {
	// ~1.1 km per 0.01 degree of latitude
	assert.True(t, IsWithinRadius(5.60, -0.18, 5.61, -0.18, 2))
	assert.False(t, IsWithinRadius(5.60, -0.18, 5.61, -0.18, 1))
}

func TestValidCoordinate(t *testing.T) {
	assert.True(t, ValidCoordinate(0, 0))
	assert.True(t, ValidCoordinate(-90, 180))
	assert.False(t, ValidCoordinate(91, 0))
	assert.False(t, ValidCoordinate(0, -181))
}
