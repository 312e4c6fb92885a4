package wavefield_test

import (
	"context"
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/wavesim/internal/cascade"
	"github.com/san-kum/wavesim/internal/fft"
	"github.com/san-kum/wavesim/internal/grid"
	"github.com/san-kum/wavesim/internal/noise"
	"github.com/san-kum/wavesim/internal/physics"
	"github.com/san-kum/wavesim/internal/spectrum"
	"github.com/san-kum/wavesim/internal/wavefield"
)

func settings() spectrum.Settings {
	return spectrum.Settings{
		Constants: spectrum.Constants{G: 9.81, Depth: 1000, Lambda: 0.2},
		Local: spectrum.DisplaySettings{
			Scale: 1, WindSpeed: 10, Fetch: 100000,
			SpreadBlend: 0.9, Swell: 0.2, PeakEnhancement: 3.3, ShortWavesFade: 0.01,
		},
		Swell: spectrum.DisplaySettings{
			Scale: 1, WindSpeed: 2, WindDirection: 40, Fetch: 300000,
			SpreadBlend: 1, Swell: 1, PeakEnhancement: 1, ShortWavesFade: 0.01,
		},
	}
}

func newSet(size int, cfg wavefield.Config) *wavefield.Set {
	tr, err := fft.New("butterfly", size)
	Expect(err).NotTo(HaveOccurred())
	set, err := wavefield.New(context.Background(), noise.NewSource(1, nil), tr, settings(), cfg)
	Expect(err).NotTo(HaveOccurred())
	return set
}

var _ = Describe("Boundaries", func() {
	It("partitions the wave number range at the mid and near seams", func() {
		bands := wavefield.Boundaries([3]float64{250, 17, 5}, 6)
		Expect(bands[0].Low).To(Equal(wavefield.LowCutoff))
		Expect(bands[0].High).To(BeNumerically("~", 2*math.Pi/17*6, 1e-12))
		Expect(bands[1].Low).To(Equal(bands[0].High))
		Expect(bands[1].High).To(BeNumerically("~", 2*math.Pi/5*6, 1e-12))
		Expect(bands[2].Low).To(Equal(bands[1].High))
		Expect(bands[2].High).To(Equal(float64(wavefield.HighCutoff)))
		Expect(wavefield.ValidateBands(bands)).To(Succeed())
	})

	It("assigns every wave number to exactly one cascade", func() {
		for _, scales := range [][3]float64{{250, 17, 5}, {100, 40, 2}, {1000, 300, 299}} {
			bands := wavefield.Boundaries(scales, 6)
			Expect(wavefield.ValidateBands(bands)).To(Succeed())
			for k := wavefield.LowCutoff; k < wavefield.HighCutoff; k *= 1.07 {
				owners := 0
				for _, b := range bands {
					if b.Contains(k) {
						owners++
					}
				}
				Expect(owners).To(Equal(1), "k=%f scales=%v", k, scales)
			}
			Expect(wavefield.Owner(bands, bands[1].Low)).To(Equal(1))
		}
	})

	It("rejects gaps and inverted bands", func() {
		bands := wavefield.Boundaries([3]float64{250, 17, 5}, 6)
		bands[1].Low += 0.01
		Expect(errors.Is(wavefield.ValidateBands(bands), grid.ErrBandOverlap)).To(BeTrue())

		inverted := wavefield.Boundaries([3]float64{250, 5, 17}, 6)
		Expect(wavefield.ValidateBands(inverted)).To(MatchError(grid.ErrBandOverlap))
	})
})

var _ = Describe("AltitudeLOD", func() {
	lod := wavefield.AltitudeLOD{Rate: 0.001, MinFactor: 0.1}

	It("follows 1 - altitude·rate above the surface", func() {
		Expect(lod.Scale(mgl64.Vec3{0, 0, 0}, 250)).To(Equal(250.0))
		Expect(lod.Scale(mgl64.Vec3{0, 200, 0}, 250)).To(BeNumerically("~", 200, 1e-9))
		Expect(lod.Scale(mgl64.Vec3{0, -50, 0}, 250)).To(Equal(250.0))
	})

	It("is monotonic and continuous in altitude", func() {
		prev := lod.Factor(0)
		for y := 0.5; y < 2000; y += 0.5 {
			f := lod.Factor(y)
			Expect(f).To(BeNumerically("<=", prev))
			Expect(prev - f).To(BeNumerically("<=", 0.5*lod.Rate+1e-12))
			prev = f
		}
		Expect(prev).To(Equal(lod.MinFactor))
	})

	It("is built by name", func() {
		l, err := wavefield.NewLOD("altitude", 0.001, 0.2)
		Expect(err).NotTo(HaveOccurred())
		Expect(l.Name()).To(Equal("altitude"))

		_, err = wavefield.NewLOD("altitude", 0.001, 0)
		Expect(err).To(HaveOccurred())
		_, err = wavefield.NewLOD("orbital", 0, 0)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Set", func() {
	var set *wavefield.Set

	AfterEach(func() {
		if set != nil {
			set.Close()
		}
	})

	It("rejects length scales out of order", func() {
		tr, _ := fft.New("butterfly", 16)
		_, err := wavefield.New(context.Background(), noise.NewSource(1, nil), tr, settings(),
			wavefield.Config{LengthScales: [3]float64{5, 17, 250}})
		Expect(err).To(MatchError(grid.ErrInvalidSettings))
	})

	It("steps all three cascades and publishes render params", func() {
		set = newSet(32, wavefield.Config{Cascade: cascade.Options{Choppiness: 1}})
		Expect(set.Step(context.Background(), 0.5, mgl64.Vec3{})).To(Succeed())

		p := set.RenderParams()
		Expect(p.Time).To(Equal(0.5))
		Expect(p.LengthScales).To(Equal(wavefield.DefaultLengthScales))
		Expect(wavefield.ValidateBands(p.Bands)).To(Succeed())
		for i, f := range p.Fields {
			Expect(f).NotTo(BeNil(), "cascade %d", i)
			Expect(f.Time).To(Equal(0.5))
			Expect(set.Cascade(i).State()).To(Equal(cascade.FieldReady))
		}
		Expect(set.Steps()).To(Equal(1))
	})

	It("reads back the far cascade for physics queries", func() {
		set = newSet(32, wavefield.Config{})
		q := physics.NewQuery(set.Readback())
		Expect(q.Height(mgl64.Vec3{1, 0, 1})).To(Equal(0.0))

		Expect(set.Step(context.Background(), 1, mgl64.Vec3{})).To(Succeed())
		set.Readback().Wait()

		snap := set.Readback().Latest()
		Expect(snap).NotTo(BeNil())
		Expect(snap.LengthScale).To(Equal(250.0))

		field := set.Cascade(0).Field()
		Expect(snap.Texels).To(Equal(field.Displacement))
		Expect(snap.Sample(0, 0).Y()).To(BeNumerically("~", float64(field.Texel(0, 0)[cascade.ChanHeight]), 1e-6))
	})

	It("regenerates spectra only when the LOD changes the length scale", func() {
		set = newSet(16, wavefield.Config{LOD: wavefield.AltitudeLOD{Rate: 0.001, MinFactor: 0.1}})
		ctx := context.Background()

		Expect(set.Step(ctx, 0, mgl64.Vec3{0, 10, 0})).To(Succeed())
		Expect(set.Step(ctx, 0.1, mgl64.Vec3{0, 10, 0})).To(Succeed())
		Expect(set.Cascade(0).Generations()).To(Equal(1))

		Expect(set.Step(ctx, 0.2, mgl64.Vec3{0, 300, 0})).To(Succeed())
		Expect(set.Cascade(0).Generations()).To(Equal(2))
		Expect(set.RenderParams().LengthScales[0]).To(BeNumerically("~", 250*0.7, 1e-9))
		Expect(wavefield.ValidateBands(set.RenderParams().Bands)).To(Succeed())
	})

	It("picks up new settings on the next step", func() {
		set = newSet(16, wavefield.Config{})
		ctx := context.Background()
		Expect(set.Step(ctx, 0, mgl64.Vec3{})).To(Succeed())

		s := settings()
		s.Local.WindSpeed = 20
		Expect(set.SetSettings(s)).To(Succeed())
		Expect(set.Step(ctx, 0.1, mgl64.Vec3{})).To(Succeed())
		Expect(set.Cascade(1).Generations()).To(Equal(2))

		s.Local.Fetch = 0
		Expect(set.SetSettings(s)).To(MatchError(grid.ErrInvalidSettings))
	})

	It("honors cancellation and refuses to step after Close", func() {
		set = newSet(16, wavefield.Config{})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		Expect(set.Step(ctx, 0, mgl64.Vec3{})).To(MatchError(context.Canceled))

		set.Close()
		Expect(set.Step(context.Background(), 0, mgl64.Vec3{})).To(MatchError(grid.ErrDisposed))
	})
})
