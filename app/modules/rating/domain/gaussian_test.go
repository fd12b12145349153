package ratingdomain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErfMatchesStdlib(t *testing.T) {
	for x := -4.0; x <= 4.0; x += 0.05 {
		assert.InDelta(t, math.Erf(x), erf(x), 2e-7, "x=%v", x)
	}
}

func TestNormCDF(t *testing.T) {
	assert.InDelta(t, 0.5, normCDF(0), 1e-7)
	assert.InDelta(t, 0.841344746, normCDF(1), 1e-6)
	assert.InDelta(t, 1.0, normCDF(-2)+normCDF(2), 1e-7)
}

func TestVWinUnderflowBranch(t *testing.T) {
	assert.Equal(t, 40.0, vWin(-40))
	assert.False(t, math.IsNaN(wWin(-40)))
	assert.GreaterOrEqual(t, wWin(-40), 0.0)
}

func TestWWinBounds(t *testing.T) {
	for tt := -3.0; tt <= 6.0; tt += 0.25 {
		w := wWin(tt)
		assert.GreaterOrEqual(t, w, 0.0, "t=%v", tt)
		assert.LessOrEqual(t, w, 1.0+1e-6, "t=%v", tt)
	}
}
