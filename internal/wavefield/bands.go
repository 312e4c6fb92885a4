package wavefield

import (
	"fmt"
	"math"

	"github.com/san-kum/wavesim/internal/grid"
	"github.com/san-kum/wavesim/internal/spectrum"
)

// Outer limits of the wave number range shared by the three cascades.
const (
	LowCutoff  = 0.0001
	HighCutoff = 9999
)

// Boundaries splits [LowCutoff, HighCutoff) at 2π/L·multiplier for the mid
// and near length scales.
func Boundaries(lengthScales [3]float64, multiplier float64) [3]spectrum.Band {
	b1 := 2 * math.Pi / lengthScales[1] * multiplier
	b2 := 2 * math.Pi / lengthScales[2] * multiplier
	return [3]spectrum.Band{
		{Low: LowCutoff, High: b1},
		{Low: b1, High: b2},
		{Low: b2, High: HighCutoff},
	}
}

// ValidateBands checks that the bands partition the wave number range
// without gaps or overlaps.
func ValidateBands(bands [3]spectrum.Band) error {
	for i, b := range bands {
		if !b.Valid() {
			return fmt.Errorf("%w: cascade %d band [%v, %v) is empty", grid.ErrBandOverlap, i, b.Low, b.High)
		}
	}
	for i := 0; i < len(bands)-1; i++ {
		if bands[i].High != bands[i+1].Low {
			return fmt.Errorf("%w: seam %d at %v vs %v", grid.ErrBandOverlap, i, bands[i].High, bands[i+1].Low)
		}
	}
	return nil
}

// Owner returns the cascade whose band contains k, or -1.
func Owner(bands [3]spectrum.Band, k float64) int {
	for i, b := range bands {
		if b.Contains(k) {
			return i
		}
	}
	return -1
}
