package viz

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/wavesim/internal/cascade"
)

// Camera orbits a target point and projects with a perspective matrix.
type Camera struct {
	Target     mgl64.Vec3
	Yaw, Pitch float64
	Distance   float64
	FOV        float64
	Near, Far  float64
}

func NewCamera(distance float64) *Camera {
	return &Camera{Pitch: 0.6, Distance: distance, FOV: math.Pi / 4, Near: 0.1, Far: 10 * distance}
}

func (c *Camera) Orbit(dYaw, dPitch float64) {
	c.Yaw += dYaw
	c.Pitch = mgl64.Clamp(c.Pitch+dPitch, 0.05, math.Pi/2-0.05)
}

func (c *Camera) ZoomIn()  { c.Distance = math.Max(1, c.Distance/1.2) }
func (c *Camera) ZoomOut() { c.Distance = math.Min(c.Far/2, c.Distance*1.2) }

// Eye returns the camera position in world space.
func (c *Camera) Eye() mgl64.Vec3 {
	cp := math.Cos(c.Pitch)
	dir := mgl64.Vec3{cp * math.Sin(c.Yaw), math.Sin(c.Pitch), cp * math.Cos(c.Yaw)}
	return c.Target.Add(dir.Mul(c.Distance))
}

// Matrix returns the combined projection and view matrix for an aspect ratio.
func (c *Camera) Matrix(aspect float64) mgl64.Mat4 {
	proj := mgl64.Perspective(c.FOV, aspect, c.Near, c.Far)
	view := mgl64.LookAtV(c.Eye(), c.Target, mgl64.Vec3{0, 1, 0})
	return proj.Mul4(view)
}

// Project maps a world point to screen coordinates in a sw x sh raster.
// depth is the clip-space w; ok is false behind the camera or off screen.
func Project(m mgl64.Mat4, p mgl64.Vec3, sw, sh int) (x, y int, depth float64, ok bool) {
	clip := m.Mul4x1(p.Vec4(1))
	if clip.W() <= 0 {
		return 0, 0, 0, false
	}
	ndc := clip.Vec3().Mul(1 / clip.W())
	x = int((ndc.X() + 1) / 2 * float64(sw))
	y = int((1 - ndc.Y()) / 2 * float64(sh))
	return x, y, clip.W(), x >= 0 && x < sw && y >= 0 && y < sh
}

type Edge struct {
	Start, End mgl64.Vec3
}

type Wireframe struct{ Edges []Edge }

func NewWireframe() *Wireframe               { return &Wireframe{Edges: make([]Edge, 0)} }
func (w *Wireframe) AddEdge(s, e mgl64.Vec3) { w.Edges = append(w.Edges, Edge{s, e}) }
func (w *Wireframe) Clear()                  { w.Edges = w.Edges[:0] }

// SurfaceWireframe meshes every stride-th texel of f as a displaced grid
// centered on the origin. Heights are multiplied by exaggeration.
func SurfaceWireframe(f *cascade.Field, lengthScale float64, stride int, exaggeration float64) *Wireframe {
	w := NewWireframe()
	if f == nil || stride < 1 {
		return w
	}
	n := f.Size / stride
	spacing := lengthScale / float64(n)
	point := func(i, j int) mgl64.Vec3 {
		t := f.Texel(i*stride, j*stride)
		return mgl64.Vec3{
			float64(i)*spacing - lengthScale/2 + float64(t[cascade.ChanDx]),
			float64(t[cascade.ChanHeight]) * exaggeration,
			float64(j)*spacing - lengthScale/2 + float64(t[cascade.ChanDz]),
		}
	}
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			p := point(i, j)
			if i+1 < n {
				w.AddEdge(p, point(i+1, j))
			}
			if j+1 < n {
				w.AddEdge(p, point(i, j+1))
			}
		}
	}
	return w
}

type projectedEdge struct {
	x1, y1, x2, y2 int
	depth          float64
}

// Render3D draws the wireframe to the canvas far to near.
func Render3D(c *Canvas, w *Wireframe, cam *Camera) {
	if c == nil || w == nil || cam == nil {
		return
	}
	sw, sh := c.Dots()
	// Braille dots are twice as tall as they are wide.
	m := cam.Matrix(float64(sw) / float64(sh) / 2)

	proj := make([]projectedEdge, 0, len(w.Edges))
	for _, e := range w.Edges {
		x1, y1, d1, v1 := Project(m, e.Start, sw, sh)
		x2, y2, d2, v2 := Project(m, e.End, sw, sh)
		if v1 && v2 {
			proj = append(proj, projectedEdge{x1, y1, x2, y2, (d1 + d2) / 2})
		}
	}
	sort.Slice(proj, func(i, j int) bool { return proj[i].depth > proj[j].depth })
	for _, e := range proj {
		c.DrawLine(e.x1, e.y1, e.x2, e.y2)
	}
}
