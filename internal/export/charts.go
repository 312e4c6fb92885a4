package export

import (
	"fmt"
	"io"
	"math/cmplx"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/san-kum/wavesim/internal/grid"
	"github.com/san-kum/wavesim/internal/spectrum"
)

var viridis = []string{"#440154", "#482777", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"}

// WriteSpectrumChart renders |h0(k)|² of an initial spectrum as an HTML heat
// map with the zero wave number at the center.
func WriteSpectrumChart(w io.Writer, in *spectrum.Initial) error {
	if in == nil {
		return grid.ErrNotInitialized
	}
	n := in.Size
	labels := make([]int, n)
	for i := range labels {
		labels[i] = i - n/2
	}

	data := make([]opts.HeatMapData, 0, n*n)
	peak := 0.0
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			a := cmplx.Abs(in.H0.At(x, y))
			e := a * a
			peak = max(peak, e)
			// Shift so that column n/2 holds k=0.
			cx := (x + n/2) % n
			cy := (y + n/2) % n
			data = append(data, opts.HeatMapData{Value: [3]interface{}{cx, cy, e}})
		}
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Wave spectrum", Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: "Initial spectrum |h0|²", Subtitle: fmt.Sprintf("N=%d L=%gm band=[%g, %g)", n, in.LengthScale, in.Band.Low, in.Band.High)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Name: "kx index", Data: labels}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Name: "kz index", Data: labels}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(peak),
			InRange:    &opts.VisualMapInRange{Color: viridis},
		}),
	)
	hm.SetXAxis(labels).AddSeries("energy", data)
	return hm.Render(w)
}

// WriteSeriesChart renders buoy height series as an HTML line chart.
func WriteSeriesChart(w io.Writer, times []float64, names []string, series [][]float64) error {
	if len(names) != len(series) {
		return fmt.Errorf("export: %d names for %d series", len(names), len(series))
	}
	x := make([]string, len(times))
	for i, t := range times {
		x[i] = fmt.Sprintf("%.2f", t)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Buoy heights", Width: "1200px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{Title: "Buoy heights", Subtitle: fmt.Sprintf("%d samples", len(times))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "t (s)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "height (m)"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}),
	)
	line.SetXAxis(x)
	for i, name := range names {
		data := make([]opts.LineData, len(series[i]))
		for j, v := range series[i] {
			data[j] = opts.LineData{Value: v}
		}
		line.AddSeries(name, data)
	}
	return line.Render(w)
}
