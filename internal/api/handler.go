package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/wavesim/internal/monitoring"
	"github.com/san-kum/wavesim/internal/physics"
	"github.com/san-kum/wavesim/internal/spectrum"
	"github.com/san-kum/wavesim/internal/wavefield"
)

// Handler answers HTTP queries against a running wave field.
type Handler struct {
	set   *wavefield.Set
	query *physics.Query
}

func NewHandler(set *wavefield.Set, query *physics.Query) *Handler {
	if query == nil {
		query = physics.NewQuery(set.Readback())
	}
	return &Handler{set: set, query: query}
}

type HeightResponse struct {
	X      float64 `json:"x"`
	Z      float64 `json:"z"`
	Height float64 `json:"height"`
	Seq    uint64  `json:"seq"`
	Ready  bool    `json:"ready"`
}

type DisplacementResponse struct {
	Position     [3]float64 `json:"position"`
	Displacement [3]float64 `json:"displacement"`
	Seq          uint64     `json:"seq"`
	Ready        bool       `json:"ready"`
}

type CascadeInfo struct {
	Index       int     `json:"index"`
	LengthScale float64 `json:"length_scale"`
	BandLow     float64 `json:"band_low"`
	BandHigh    float64 `json:"band_high"`
	State       string  `json:"state"`
	Generations int     `json:"generations"`
}

type CascadesResponse struct {
	Time       float64         `json:"time"`
	Size       int             `json:"size"`
	Steps      int             `json:"steps"`
	Choppiness float64         `json:"choppiness"`
	LOD        string          `json:"lod"`
	Cascades   []CascadeInfo   `json:"cascades"`
	Readback   physics.Stats   `json:"readback"`
	Snapshot   *SnapshotHeader `json:"snapshot,omitempty"`
}

type SnapshotHeader struct {
	Seq         uint64  `json:"seq"`
	Size        int     `json:"size"`
	LengthScale float64 `json:"length_scale"`
}

// floatQuery parses a required float query parameter.
func floatQuery(c *gin.Context, name string) (float64, bool) {
	s := c.Query(name)
	if s == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("%s parameter is required", name)})
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid %s: %v", name, err)})
		return 0, false
	}
	return v, true
}

func (h *Handler) snapshotSeq() (uint64, bool) {
	s := h.set.Readback().Latest()
	if s == nil {
		return 0, false
	}
	return s.Seq, true
}

// GetHeight handles GET /v1/height.
func (h *Handler) GetHeight(c *gin.Context) {
	x, ok := floatQuery(c, "x")
	if !ok {
		return
	}
	z, ok := floatQuery(c, "z")
	if !ok {
		return
	}
	seq, ready := h.snapshotSeq()
	c.JSON(http.StatusOK, HeightResponse{
		X:      x,
		Z:      z,
		Height: h.query.Height(mgl64.Vec3{x, 0, z}),
		Seq:    seq,
		Ready:  ready,
	})
}

// GetDisplacement handles GET /v1/displacement. y is optional.
func (h *Handler) GetDisplacement(c *gin.Context) {
	x, ok := floatQuery(c, "x")
	if !ok {
		return
	}
	z, ok := floatQuery(c, "z")
	if !ok {
		return
	}
	y := 0.0
	if c.Query("y") != "" {
		if y, ok = floatQuery(c, "y"); !ok {
			return
		}
	}
	pos := mgl64.Vec3{x, y, z}
	seq, ready := h.snapshotSeq()
	c.JSON(http.StatusOK, DisplacementResponse{
		Position:     pos,
		Displacement: h.query.Displacement(pos),
		Seq:          seq,
		Ready:        ready,
	})
}

// GetCascades handles GET /v1/cascades.
func (h *Handler) GetCascades(c *gin.Context) {
	p := h.set.RenderParams()
	resp := CascadesResponse{
		Time:       p.Time,
		Size:       h.set.Size(),
		Steps:      h.set.Steps(),
		Choppiness: p.Choppiness,
		LOD:        h.set.LOD().Name(),
		Readback:   h.set.Readback().Stats(),
	}
	for i, cas := range h.set.Cascades() {
		resp.Cascades = append(resp.Cascades, CascadeInfo{
			Index:       i,
			LengthScale: p.LengthScales[i],
			BandLow:     p.Bands[i].Low,
			BandHigh:    p.Bands[i].High,
			State:       cas.State().String(),
			Generations: cas.Generations(),
		})
	}
	if s := h.set.Readback().Latest(); s != nil {
		resp.Snapshot = &SnapshotHeader{Seq: s.Seq, Size: s.Size, LengthScale: s.LengthScale}
	}
	c.JSON(http.StatusOK, resp)
}

// GetSettings handles GET /v1/settings.
func (h *Handler) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, h.set.Settings())
}

// PutSettings handles PUT /v1/settings. The spectrum regenerates on the next step.
func (h *Handler) PutSettings(c *gin.Context) {
	var s spectrum.Settings
	if err := c.ShouldBindJSON(&s); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid settings: %v", err)})
		return
	}
	if err := h.set.SetSettings(s); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	monitoring.Logf("api: settings updated (local wind %.1f m/s)", s.Local.WindSpeed)
	c.JSON(http.StatusOK, h.set.Settings())
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(c *gin.Context) {
	_, ready := h.snapshotSeq()
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"ready":  ready,
		"steps":  h.set.Steps(),
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		monitoring.Logf("api: %s %s %d %s", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}
