package viz

import (
	"strings"

	"github.com/san-kum/wavesim/internal/cascade"
)

// Braille cell dot bits, indexed [row][col] over a 2x4 cell:
//
//	1 4
//	2 5
//	3 6
//	7 8
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const brailleBlank = 0x2800

// Canvas is a Braille dot canvas of Width x Height cells, which is
// 2*Width x 4*Height dots.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Dots returns the canvas size in dots.
func (c *Canvas) Dots() (w, h int) { return c.Width * 2, c.Height * 4 }

// Set turns on the dot at (x, y). Out of range dots are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// IsSet reports whether the dot at (x, y) is on.
func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

// PlotMode selects how PlotField marks the height channel.
type PlotMode int

const (
	// PlotCrests sets every dot whose height exceeds the level.
	PlotCrests PlotMode = iota
	// PlotContour sets only the dots on the iso-line at the level.
	PlotContour
	// PlotFoam sets dots whose foam value is below the level.
	PlotFoam
)

func (m PlotMode) String() string {
	switch m {
	case PlotCrests:
		return "crests"
	case PlotContour:
		return "contour"
	case PlotFoam:
		return "foam"
	}
	return "unknown"
}

// PlotField draws one tile of f over the whole canvas, sampling the nearest
// texel for each dot.
func (c *Canvas) PlotField(f *cascade.Field, mode PlotMode, level float64) {
	c.Clear()
	if f == nil {
		return
	}
	w, h := c.Dots()
	sample := func(x, y, channel int) float64 {
		tx := x * f.Size / w
		ty := y * f.Size / h
		return float64(f.Displacement[(ty*f.Size+tx)*cascade.Channels+channel])
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			switch mode {
			case PlotCrests:
				if sample(x, y, cascade.ChanHeight) > level {
					c.Set(x, y)
				}
			case PlotFoam:
				if sample(x, y, cascade.ChanFoam) < level {
					c.Set(x, y)
				}
			case PlotContour:
				above := sample(x, y, cascade.ChanHeight) > level
				if x+1 < w && (sample(x+1, y, cascade.ChanHeight) > level) != above {
					c.Set(x, y)
				}
				if y+1 < h && (sample(x, y+1, cascade.ChanHeight) > level) != above {
					c.Set(x, y)
				}
			}
		}
	}
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
