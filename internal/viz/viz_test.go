package viz

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/wavesim/internal/cascade"
	"github.com/san-kum/wavesim/internal/config"
	"github.com/san-kum/wavesim/internal/fft"
	"github.com/san-kum/wavesim/internal/noise"
	"github.com/san-kum/wavesim/internal/wavefield"
)

func TestCanvasSetAndString(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	c.Set(-1, 0)
	c.Set(4, 0)

	if !c.IsSet(0, 0) || !c.IsSet(3, 3) || c.IsSet(1, 0) {
		t.Error("unexpected dot state")
	}
	if got := c.String(); got != "⠁⢀\n" {
		t.Errorf("got %q", got)
	}
	c.Clear()
	if c.IsSet(0, 0) {
		t.Error("clear should remove dots")
	}
}

func TestCanvasDrawLine(t *testing.T) {
	c := NewCanvas(4, 1)
	c.DrawLine(0, 0, 7, 3)
	if !c.IsSet(0, 0) || !c.IsSet(7, 3) {
		t.Error("line endpoints should be set")
	}
}

func rampField(size int) *cascade.Field {
	f := cascade.NewField(size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			i := (y*size + x) * cascade.Channels
			f.Displacement[i+cascade.ChanHeight] = float32(x) / float32(size)
			f.Displacement[i+cascade.ChanFoam] = 1
		}
	}
	return f
}

func TestPlotFieldCrests(t *testing.T) {
	c := NewCanvas(4, 2)
	c.PlotField(rampField(8), PlotCrests, 0.5)

	w, h := c.Dots()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			want := float64(x*8/w)/8 > 0.5
			if c.IsSet(x, y) != want {
				t.Fatalf("dot (%d,%d) = %v, want %v", x, y, c.IsSet(x, y), want)
			}
		}
	}
}

func TestPlotFieldContourAndFoam(t *testing.T) {
	c := NewCanvas(4, 2)
	c.PlotField(rampField(8), PlotContour, 0.5)
	w, h := c.Dots()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if c.IsSet(x, y) != (x == 4) {
				t.Fatalf("contour dot (%d,%d) = %v", x, y, c.IsSet(x, y))
			}
		}
	}

	c.PlotField(rampField(8), PlotFoam, 0.5)
	if strings.Trim(c.String(), "⠀\n") != "" {
		t.Error("no foam below 0.5 should leave the canvas blank")
	}

	c.PlotField(nil, PlotCrests, 0)
	if c.IsSet(0, 0) {
		t.Error("nil field should clear the canvas")
	}
}

func TestProjectCenter(t *testing.T) {
	cam := NewCamera(100)
	m := cam.Matrix(1)
	x, y, depth, ok := Project(m, cam.Target, 100, 100)
	if !ok || depth <= 0 {
		t.Fatalf("target should be visible, got ok=%v depth=%f", ok, depth)
	}
	if absInt(x-50) > 1 || absInt(y-50) > 1 {
		t.Errorf("target should project to the center, got (%d,%d)", x, y)
	}

	behind := cam.Eye().Add(cam.Eye().Sub(cam.Target))
	if _, _, _, ok := Project(m, behind, 100, 100); ok {
		t.Error("point behind the camera should be invisible")
	}
}

func TestSurfaceWireframe(t *testing.T) {
	w := SurfaceWireframe(rampField(8), 80, 2, 1)
	// 4x4 grid: 2 * 4 * 3 edges.
	if len(w.Edges) != 24 {
		t.Errorf("expected 24 edges, got %d", len(w.Edges))
	}
	if got := w.Edges[0].Start; !got.ApproxEqual(mgl64.Vec3{-40, 0, -40}) {
		t.Errorf("first vertex %v", got)
	}

	c := NewCanvas(20, 10)
	Render3D(c, w, NewCamera(150))
	if strings.Trim(c.String(), "⠀\n") == "" {
		t.Error("wireframe should draw something")
	}
}

func TestSparklineAndBar(t *testing.T) {
	if got := []rune(Sparkline([]float64{0, 1, 2, 3, 4}, 3)); len(got) != 3 || got[2] != '█' {
		t.Errorf("unexpected sparkline %q", string(got))
	}
	if got := Bar(0.5, 4); got != "██░░" {
		t.Errorf("unexpected bar %q", got)
	}
	if got := Bar(2, 2); got != "██" {
		t.Errorf("bar should clamp, got %q", got)
	}
}

func TestThemes(t *testing.T) {
	defer SetTheme("ocean")
	SetTheme("abyss")
	NextTheme()
	if CurrentTheme.Name != "foam" {
		t.Errorf("expected foam after abyss, got %s", CurrentTheme.Name)
	}
	if GetTheme("nope").Name != "ocean" {
		t.Error("unknown theme should fall back to ocean")
	}
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	tr, err := fft.New("butterfly", 16)
	if err != nil {
		t.Fatal(err)
	}
	set, err := wavefield.New(context.Background(), noise.NewSource(1, nil), tr, *config.GetPreset("breeze"),
		wavefield.Config{LOD: wavefield.AltitudeLOD{Rate: 0.001, MinFactor: 0.1}, Cascade: cascade.Options{Choppiness: 1}})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(set.Close)
	return NewModel(set, nil, "breeze", mgl64.Vec3{})
}

func press(m Model, key string) Model {
	var msg tea.KeyMsg
	switch key {
	case " ":
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestModelTicksAndKeys(t *testing.T) {
	m := newTestModel(t)

	next, cmd := m.Update(TickMsg(time.Now()))
	m = next.(Model)
	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}
	if m.set.Steps() != 1 || m.t <= 0 {
		t.Errorf("tick should step the field, steps=%d t=%f", m.set.Steps(), m.t)
	}
	if m.err != nil {
		t.Fatalf("step failed: %v", m.err)
	}

	m = press(m, " ")
	if m.running {
		t.Error("space should pause")
	}
	next, _ = m.Update(TickMsg(time.Now()))
	if next.(Model).set.Steps() != 1 {
		t.Error("paused model should not step")
	}

	m = press(m, "up")
	if m.altTarget != altitudeStep {
		t.Errorf("expected altitude target %f, got %f", altitudeStep, m.altTarget)
	}

	wind := m.set.Settings().Local.WindSpeed
	m = press(m, "w")
	if m.set.Settings().Local.WindSpeed != wind+windStep {
		t.Error("w should raise the wind speed")
	}

	m = press(m, "c")
	if m.mode != PlotContour {
		t.Errorf("expected contour mode, got %s", m.mode)
	}

	if !strings.Contains(m.View(), "PAUSED") {
		t.Error("view should show the paused status")
	}

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should return tea.Quit")
	}
}

func TestModelAltitudeSpring(t *testing.T) {
	m := newTestModel(t)
	m = press(m, "up")
	for i := 0; i < 3*fps; i++ {
		next, _ := m.Update(TickMsg(time.Now()))
		m = next.(Model)
	}
	if m.altitude < 90 || m.altitude > 110 {
		t.Errorf("altitude should settle near 100 m, got %f", m.altitude)
	}
	if got := m.set.RenderParams().LengthScales[0]; got >= 250 {
		t.Errorf("raised viewer should shrink the far cascade, got %f", got)
	}
}
