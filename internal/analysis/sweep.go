package analysis

import (
	"strings"

	"github.com/san-kum/wavesim/internal/scenario"
	"github.com/san-kum/wavesim/internal/spectrum"
)

// SweepPoint is one measurement of a parameter sweep.
type SweepPoint struct {
	Param float64
	Value float64
}

// Measure evaluates one quantity for a full settings value.
type Measure func(s spectrum.Settings) (float64, error)

// Sweep sets the named wave parameter to steps evenly spaced values in
// [lo, hi] on a copy of base and records measure for each. Parameter names
// are those accepted by scenario.SetParam.
func Sweep(base spectrum.Settings, param string, lo, hi float64, steps int, measure Measure) ([]SweepPoint, error) {
	if steps <= 1 {
		steps = 2
	}
	step := (hi - lo) / float64(steps-1)

	results := make([]SweepPoint, 0, steps)
	for i := 0; i < steps; i++ {
		s := base
		v := lo + float64(i)*step
		if err := scenario.SetParam(&s, param, v); err != nil {
			return nil, err
		}
		m, err := measure(s)
		if err != nil {
			return results, err
		}
		results = append(results, SweepPoint{Param: v, Value: m})
	}
	return results, nil
}

// SweepToASCII plots sweep results as a width×height dot chart.
func SweepToASCII(data []SweepPoint, width, height int) string {
	if len(data) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	minVal, maxVal := data[0].Value, data[0].Value
	for _, p := range data {
		minVal = min(minVal, p.Value)
		maxVal = max(maxVal, p.Value)
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for i, p := range data {
		col := i * width / len(data)
		row := height - 1 - int((p.Value-minVal)/(maxVal-minVal)*float64(height-1))
		if row >= 0 && row < height && col < width {
			canvas[row][col] = '•'
		}
	}

	var b strings.Builder
	for _, row := range canvas {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}
