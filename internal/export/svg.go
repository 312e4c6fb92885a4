package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/wavesim/internal/viz"
)

// CanvasToSVG draws every set dot of a Braille canvas as a circle.
func CanvasToSVG(canvas *viz.Canvas, scale float64, fill string) string {
	if canvas == nil {
		return ""
	}
	w, h := canvas.Dots()
	width := float64(w) * scale
	height := float64(h) * scale

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#001a33"/>
<g fill="%s">
`, width, height, width, height, fill)

	r := scale * 0.4
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if canvas.IsSet(x, y) {
				fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", (float64(x)+0.5)*scale, (float64(y)+0.5)*scale, r)
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// SeriesToSVG draws a buoy height series as a polyline over a zero line.
func SeriesToSVG(times, values []float64, width, height int, stroke string) string {
	if len(values) < 2 || len(times) != len(values) {
		return ""
	}

	t0, t1 := times[0], times[len(times)-1]
	peak := 0.0
	for _, v := range values {
		peak = max(peak, v, -v)
	}
	if peak == 0 {
		peak = 1
	}
	if t1 == t0 {
		t1 = t0 + 1
	}
	peak *= 1.1

	px := func(t float64) float64 { return (t - t0) / (t1 - t0) * float64(width) }
	py := func(v float64) float64 { return float64(height) / 2 * (1 - v/peak) }

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#001a33"/>
<line x1="0" y1="%.1f" x2="%d" y2="%.1f" stroke="#4488aa" stroke-dasharray="4"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, py(0), width, py(0), stroke)

	for i, v := range values {
		if i > 0 {
			sb.WriteString(" L")
		}
		fmt.Fprintf(&sb, "%.1f,%.1f", px(times[i]), py(v))
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
