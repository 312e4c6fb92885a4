package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/wavesim/internal/cascade"
	"github.com/san-kum/wavesim/internal/noise"
	"github.com/san-kum/wavesim/internal/spectrum"
	"github.com/san-kum/wavesim/internal/viz"
)

func testField(size int) *cascade.Field {
	f := cascade.NewField(size)
	f.Time = 1.5
	for i := 0; i < size*size; i++ {
		f.Displacement[i*cascade.Channels+cascade.ChanDx] = float32(i)
		f.Displacement[i*cascade.Channels+cascade.ChanHeight] = float32(i) * 0.5
		f.Displacement[i*cascade.Channels+cascade.ChanDz] = -float32(i)
		f.Displacement[i*cascade.Channels+cascade.ChanFoam] = 1
	}
	return f
}

func TestWriteNetCDFRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "field.nc")
	f := testField(8)
	require.NoError(t, WriteNetCDF(path, f, 100))

	height, err := ReadNetCDFVar(path, "height")
	require.NoError(t, err)
	require.Len(t, height, 64)
	assert.Equal(t, float32(31.5), height[63])

	dz, err := ReadNetCDFVar(path, "dz")
	require.NoError(t, err)
	assert.Equal(t, float32(-10), dz[10])

	_, err = ReadNetCDFVar(path, "missing")
	assert.Error(t, err)
}

func TestWriteHeatmapPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "height.png")
	require.NoError(t, WriteHeatmapPNG(path, testField(16), 50))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
}

func TestFieldGrid(t *testing.T) {
	g := fieldGrid{f: testField(4), channel: cascade.ChanHeight, spacing: 2.5}
	c, r := g.Dims()
	assert.Equal(t, 4, c)
	assert.Equal(t, 4, r)
	assert.Equal(t, 7.5, g.X(3))
	assert.Equal(t, float64(6)*0.5, g.Z(2, 1))
}

func TestWriteSpectrumChart(t *testing.T) {
	n, err := noise.Generate(16, 3)
	require.NoError(t, err)
	params := [2]spectrum.Parameters{spectrum.Derive(spectrum.DisplaySettings{
		Scale: 1, WindSpeed: 10, Fetch: 100000, SpreadBlend: 1, Swell: 0.2, PeakEnhancement: 3.3, ShortWavesFade: 0.01,
	}, 9.81)}
	in, err := spectrum.Generate(n, spectrum.Constants{G: 9.81, Depth: 1000}, params, spectrum.Band{Low: 0.0001, High: 9999}, 250)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteSpectrumChart(&buf, in))
	out := buf.String()
	assert.Contains(t, out, "echarts")
	assert.Contains(t, out, "Initial spectrum")

	assert.Error(t, WriteSpectrumChart(&buf, nil))
}

func TestWriteSeriesChart(t *testing.T) {
	var buf bytes.Buffer
	err := WriteSeriesChart(&buf, []float64{0, 1}, []string{"origin"}, [][]float64{{0.1, -0.2}})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "origin")

	assert.Error(t, WriteSeriesChart(&buf, nil, []string{"a", "b"}, [][]float64{{1}}))
}

func TestCanvasToSVG(t *testing.T) {
	c := viz.NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 2)
	svg := CanvasToSVG(c, 10, "#33aaff")
	assert.Equal(t, 2, strings.Count(svg, "<circle"))
	assert.Contains(t, svg, `cx="35.0" cy="25.0"`)
	assert.Empty(t, CanvasToSVG(nil, 1, ""))
}

func TestSeriesToSVG(t *testing.T) {
	svg := SeriesToSVG([]float64{0, 1, 2}, []float64{0, 1, -1}, 200, 100, "#fff")
	assert.Contains(t, svg, "M0.0,50.0 L100.0,")
	assert.Empty(t, SeriesToSVG([]float64{0}, []float64{1}, 10, 10, ""))
}
