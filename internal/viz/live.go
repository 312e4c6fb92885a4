package viz

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/wavesim/internal/metrics"
	"github.com/san-kum/wavesim/internal/monitoring"
	"github.com/san-kum/wavesim/internal/physics"
	"github.com/san-kum/wavesim/internal/wavefield"
)

const (
	width           = 64
	height          = 22
	fps             = 30
	historyCapacity = 300

	altitudeStep  = 100.0
	maxAltitude   = 2000.0
	windStep      = 1.0
	directionStep = 15.0
	levelStep     = 0.1
)

type TickMsg time.Time

// Model steps a wave field on every tick and draws the far cascade.
type Model struct {
	set      *wavefield.Set
	query    *physics.Query
	buoy     mgl64.Vec3
	preset   string
	t, dt    float64
	running  bool
	showHelp bool
	view3D   bool
	mode     PlotMode
	level    float64
	err      error

	// The viewer altitude follows altTarget through a critically damped
	// spring so cascade length scales change smoothly.
	spring    harmonica.Spring
	altitude  float64
	altVel    float64
	altTarget float64

	canvas  *Canvas
	camera  *Camera
	hs      *metrics.SignificantHeight
	foam    *metrics.FoamCoverage
	heights []float64
	hsHist  []float64
}

// NewModel creates a live view over set. The buoy is sampled through query
// every frame.
func NewModel(set *wavefield.Set, query *physics.Query, preset string, buoy mgl64.Vec3) Model {
	if query == nil {
		query = physics.NewQuery(set.Readback())
	}
	return Model{
		set:     set,
		query:   query,
		buoy:    buoy,
		preset:  preset,
		dt:      1.0 / fps,
		running: true,
		spring:  harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
		canvas:  NewCanvas(width, height),
		camera:  NewCamera(set.RenderParams().LengthScales[0]),
		hs:      metrics.NewSignificantHeight(),
		foam:    metrics.NewFoamCoverage(0.5),
		heights: make([]float64, 0, historyCapacity),
		hsHist:  make([]float64, 0, historyCapacity),
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/fps, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles input and advances the simulation on ticks.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "up", "k":
			m.altTarget = min(maxAltitude, m.altTarget+altitudeStep)
		case "down", "j":
			m.altTarget = max(0, m.altTarget-altitudeStep)
		case "w":
			m.adjustWind(windStep, 0)
		case "s":
			m.adjustWind(-windStep, 0)
		case "a":
			m.adjustWind(0, -directionStep)
		case "d":
			m.adjustWind(0, directionStep)
		case "[":
			m.level -= levelStep
		case "]":
			m.level += levelStep
		case "c":
			m.mode = (m.mode + 1) % 3
			if m.mode == PlotFoam {
				m.level = 0.5
			} else {
				m.level = 0
			}
		case "v":
			m.view3D = !m.view3D
		case "h":
			m.camera.Orbit(-0.1, 0)
		case "l":
			m.camera.Orbit(0.1, 0)
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		case "t":
			NextTheme()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		m.altitude, m.altVel = m.spring.Update(m.altitude, m.altVel, m.altTarget)
		if m.running {
			m.step()
		}
		m.draw()
		return m, tick()
	}
	return m, nil
}

// adjustWind changes the local wind speed and direction. Rejected settings
// leave the sea unchanged.
func (m *Model) adjustWind(dSpeed, dDirection float64) {
	s := m.set.Settings()
	s.Local.WindSpeed = max(0.5, s.Local.WindSpeed+dSpeed)
	s.Local.WindDirection += dDirection
	if err := m.set.SetSettings(s); err != nil {
		m.err = err
		return
	}
	m.hs.Reset()
	m.foam.Reset()
	m.hsHist = m.hsHist[:0]
}

// step advances the field by one frame.
func (m *Model) step() {
	viewer := mgl64.Vec3{0, m.altitude, 0}
	if err := m.set.Step(context.Background(), m.t, viewer); err != nil {
		m.err = err
		m.running = false
		monitoring.Logf("live: step %.2fs: %v", m.t, err)
		return
	}
	m.err = nil
	m.t += m.dt

	f := m.set.Cascade(0).Field()
	m.hs.Observe(f, m.t)
	m.foam.Observe(f, m.t)
	m.hsHist = appendCapped(m.hsHist, m.hs.Value())
	m.heights = appendCapped(m.heights, m.query.Height(m.buoy))
}

func appendCapped(s []float64, v float64) []float64 {
	s = append(s, v)
	if len(s) > historyCapacity {
		s = s[1:]
	}
	return s
}

func (m *Model) draw() {
	p := m.set.RenderParams()
	if m.view3D {
		m.canvas.Clear()
		m.camera.Target = mgl64.Vec3{}
		Render3D(m.canvas, SurfaceWireframe(p.Fields[0], p.LengthScales[0], max(1, m.set.Size()/32), 4), m.camera)
		return
	}
	m.canvas.PlotField(p.Fields[0], m.mode, m.level)
}

// View renders the canvas beside the statistics pane.
func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(surfaceStyle().Render(m.canvas.String()))

	p := m.set.RenderParams()
	settings := m.set.Settings()

	var s strings.Builder
	s.WriteString(GradientText("WAVESIM "+strings.ToUpper(m.preset), CurrentTheme.Primary, CurrentTheme.Accent) + "\n\n")
	switch {
	case m.err != nil:
		s.WriteString(StatusError.Render("ERROR") + " " + valueStyle.Render(m.err.Error()) + "\n\n")
	case m.running:
		s.WriteString(StatusRunning.Render("RUNNING") + "\n\n")
	default:
		s.WriteString(StatusPaused.Render("PAUSED") + "\n\n")
	}

	if len(m.heights) > 1 {
		chart := asciigraph.Plot(m.heights, asciigraph.Height(5), asciigraph.Width(36), asciigraph.Caption("buoy height (m)"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", m.t))
	row("Altitude", fmt.Sprintf("%.0fm → %.0fm", m.altitude, m.altTarget))
	row("Wind", fmt.Sprintf("%.1f m/s @ %.0f°", settings.Local.WindSpeed, settings.Local.WindDirection))
	row("Hs", fmt.Sprintf("%.2fm %s", m.hs.Value(), Sparkline(m.hsHist, 16)))
	row("Foam", fmt.Sprintf("%s %4.1f%%", Bar(m.foam.Value(), 16), 100*m.foam.Value()))
	row("View", m.viewName())

	s.WriteString("\n" + headerStyle().Render("CASCADES") + "\n")
	for i, l := range p.LengthScales {
		s.WriteString(fmt.Sprintf("%d  L=%7.1fm  k∈[%.3g, %.3g)\n", i, l, p.Bands[i].Low, p.Bands[i].High))
	}

	s.WriteString(helpStyle.Render("SP:Pause ↑↓:Altitude W/S:Wind A/D:Dir\nC:Mode [ ]:Level V:3D T:Theme ?:Help Q:Quit"))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.showHelp {
		return helpText + "\n" + mainView
	}
	return mainView
}

func (m Model) viewName() string {
	if m.view3D {
		return "3d wireframe"
	}
	return fmt.Sprintf("%s @ %.2f", m.mode, m.level)
}

const helpText = `
  Space    pause / resume
  ↑ / ↓    raise / lower the viewer (cascade LOD)
  W / S    wind speed ±1 m/s
  A / D    wind direction ±15°
  C        cycle crests / contour / foam
  [ / ]    plot level ±0.1
  V        toggle 3d wireframe (H/L orbit, +/- zoom)
  T        cycle themes
  Q        quit
`

// Run starts the live view on the alternate screen.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
