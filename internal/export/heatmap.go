package export

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/san-kum/wavesim/internal/cascade"
)

// fieldGrid adapts one displacement channel to plotter.GridXYZ with
// coordinates in meters.
type fieldGrid struct {
	f       *cascade.Field
	channel int
	spacing float64
}

func (g fieldGrid) Dims() (c, r int) { return g.f.Size, g.f.Size }
func (g fieldGrid) X(c int) float64  { return float64(c) * g.spacing }
func (g fieldGrid) Y(r int) float64  { return float64(r) * g.spacing }

func (g fieldGrid) Z(c, r int) float64 {
	return float64(g.f.Displacement[(r*g.f.Size+c)*cascade.Channels+g.channel])
}

// HeatmapPlot builds a heat map of the height channel.
func HeatmapPlot(f *cascade.Field, lengthScale float64) *plot.Plot {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Height at t=%.2fs (L=%gm)", f.Time, lengthScale)
	p.X.Label.Text = "x (m)"
	p.Y.Label.Text = "z (m)"

	hm := plotter.NewHeatMap(fieldGrid{f: f, channel: cascade.ChanHeight, spacing: lengthScale / float64(f.Size)}, palette.Heat(64, 1))
	p.Add(hm)
	return p
}

// WriteHeatmapPNG renders the height channel of f to a PNG file.
func WriteHeatmapPNG(path string, f *cascade.Field, lengthScale float64) error {
	if err := HeatmapPlot(f, lengthScale).Save(8*vg.Inch, 8*vg.Inch, path); err != nil {
		return fmt.Errorf("export: heatmap: %w", err)
	}
	return nil
}
