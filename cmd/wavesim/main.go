package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/wavesim/internal/analysis"
	"github.com/san-kum/wavesim/internal/api"
	"github.com/san-kum/wavesim/internal/config"
	"github.com/san-kum/wavesim/internal/export"
	"github.com/san-kum/wavesim/internal/fft"
	"github.com/san-kum/wavesim/internal/grid"
	"github.com/san-kum/wavesim/internal/metrics"
	"github.com/san-kum/wavesim/internal/monitoring"
	"github.com/san-kum/wavesim/internal/noise"
	"github.com/san-kum/wavesim/internal/physics"
	"github.com/san-kum/wavesim/internal/scenario"
	"github.com/san-kum/wavesim/internal/sim"
	"github.com/san-kum/wavesim/internal/spectrum"
	"github.com/san-kum/wavesim/internal/storage"
	"github.com/san-kum/wavesim/internal/viz"
	"github.com/san-kum/wavesim/internal/wavefield"
)

var (
	dataDir    string
	configFile string
	preset     string
	dt         float64
	duration   float64
	seed       int64
	size       int
	fftName    string
	choppiness float64
	lodPolicy  string
	altitude   float64
	climb      float64
	scenarioF  string
	// query / export
	atTime    float64
	cascadeIx int
	outPath   string
	format    string
	// analyze
	sweepLo    float64
	sweepHi    float64
	sweepSteps int
	buoyName   string
	// serve
	addr string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "wavesim",
		Short: "ocean wave spectrum synthesis",
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive(launcher(cmd))
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".wavesim", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "sea state preset")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", config.DefaultSeed, "noise seed")
	rootCmd.PersistentFlags().IntVar(&size, "size", config.DefaultSize, "cascade resolution (power of two)")
	rootCmd.PersistentFlags().StringVar(&fftName, "fft", fft.Default, "fft backend")
	rootCmd.PersistentFlags().Float64Var(&choppiness, "choppiness", config.DefaultChoppiness, "horizontal displacement scale")
	rootCmd.PersistentFlags().StringVar(&lodPolicy, "lod", "altitude", "lod policy (fixed, altitude)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run simulation and record buoys",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	runCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	runCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	runCmd.Flags().Float64Var(&altitude, "altitude", 0, "viewer altitude")
	runCmd.Flags().Float64Var(&climb, "climb", 0, "viewer climb rate (m/s)")
	runCmd.Flags().StringVar(&scenarioF, "scenario", "", "scenario file (yaml)")

	queryCmd := &cobra.Command{
		Use:   "query [x] [z]",
		Short: "surface height and displacement at a point",
		Args:  cobra.ExactArgs(2),
		RunE:  queryPoint,
	}
	queryCmd.Flags().Float64Var(&atTime, "at", 0, "simulation time")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "live terminal view",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve height queries over http",
		Args:  cobra.NoArgs,
		RunE:  serve,
	}
	serveCmd.Flags().StringVar(&addr, "addr", config.DefaultAddr, "listen address")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a run or a synthesized field",
		Long: "formats json and series need a run id; netcdf, png, svg and spectrum\n" +
			"synthesize the field of one cascade at --at seconds.",
		Args: cobra.MaximumNArgs(1),
		RunE: exportData,
	}
	exportCmd.Flags().StringVar(&format, "format", "json", "json, series, netcdf, png, svg, spectrum")
	exportCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (stdout for json, series, svg, spectrum)")
	exportCmd.Flags().Float64Var(&atTime, "at", 0, "simulation time")
	exportCmd.Flags().IntVar(&cascadeIx, "cascade", 0, "cascade index (0 is the largest)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "buoy frequency analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&buoyName, "buoy", "", "buoy name (default first)")

	sweepCmd := &cobra.Command{
		Use:   "sweep [param]",
		Short: "significant height across a parameter range",
		Args:  cobra.ExactArgs(1),
		RunE:  sweepParameter,
	}
	sweepCmd.Flags().Float64Var(&sweepLo, "from", 2, "range start")
	sweepCmd.Flags().Float64Var(&sweepHi, "to", 20, "range end")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 10, "number of samples")
	sweepCmd.Flags().Float64Var(&atTime, "at", 0, "simulation time")
	analyzeCmd.AddCommand(sweepCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot buoy series",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list sea state presets",
		RunE:  listPresets,
	}

	noiseCmd := &cobra.Command{
		Use:   "noise [db]",
		Short: "generate and list persisted noise fields",
		Args:  cobra.ExactArgs(1),
		RunE:  noiseFields,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark fft backends",
		RunE:  benchBackends,
	}

	rootCmd.AddCommand(runCmd, queryCmd, liveCmd, serveCmd, exportCmd, analyzeCmd,
		listCmd, plotCmd, presetsCmd, noiseCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig layers the config file, then the preset flag, then explicit flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if preset != "" {
		if err := cfg.ApplyPreset(preset); err != nil {
			return nil, err
		}
	}
	if flags.Changed("seed") {
		cfg.Noise.Seed = seed
	}
	if flags.Changed("size") {
		cfg.Cascades.Size = size
	}
	if flags.Changed("fft") {
		cfg.FFT = fftName
	}
	if flags.Changed("choppiness") {
		cfg.Cascades.Choppiness = choppiness
	}
	if flags.Changed("lod") {
		cfg.LOD.Policy = lodPolicy
	}
	if flags.Changed("dt") {
		cfg.Run.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Run.Duration = duration
	}
	if flags.Changed("altitude") {
		cfg.Run.Viewer[1] = altitude
	}
	if flags.Changed("climb") {
		cfg.Run.Climb = climb
	}
	if flags.Changed("scenario") {
		cfg.Run.Scenario = scenarioF
	}
	if flags.Changed("addr") {
		cfg.Server.Addr = addr
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	env, err := newEnvironment(ctx, cfg, cfg.Waves)
	if err != nil {
		return err
	}
	defer env.Close()

	simulator := sim.New(env.set, env.query)
	for _, m := range metrics.SeaState() {
		simulator.AddMetric(m)
	}

	runCfg, err := simConfig(cfg)
	if err != nil {
		return err
	}

	fmt.Printf("running %s sea state (%dx%d, %s fft)...\n", cfg.Preset, cfg.Cascades.Size, cfg.Cascades.Size, cfg.FFT)
	start := time.Now()

	result, err := simulator.Run(ctx, runCfg)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(storage.RunMetadata{
		Preset:   cfg.Preset,
		Seed:     cfg.Noise.Seed,
		Size:     cfg.Cascades.Size,
		FFT:      cfg.FFT,
		Dt:       cfg.Run.Dt,
		Duration: cfg.Run.Duration,
		Settings: env.set.Settings(),
	}, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.Steps)
	fmt.Printf("spectrum generations: %v\n", result.Generations)
	fmt.Printf("readbacks: %d requested, %d completed\n", result.Readback.Requested, result.Readback.Completed)
	if !result.IsValid() {
		fmt.Println("warning: buoy series contain non-finite samples")
	}
	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}

	return nil
}

func simConfig(cfg *config.Config) (sim.Config, error) {
	runCfg := sim.Config{
		Dt:           cfg.Run.Dt,
		Duration:     cfg.Run.Duration,
		Viewer:       cfg.ViewerPosition(),
		Climb:        cfg.Run.Climb,
		SyncReadback: cfg.Run.SyncReadback,
	}
	for _, b := range cfg.Run.Buoys {
		runCfg.Buoys = append(runCfg.Buoys, sim.Buoy{Name: b.Name, X: b.X, Z: b.Z})
	}
	if cfg.Run.Scenario != "" {
		sc, err := scenario.Load(cfg.Run.Scenario)
		if err != nil {
			return sim.Config{}, err
		}
		runCfg.Scenario = sc
		if d := sc.Duration(); d < runCfg.Duration {
			runCfg.Duration = d
		}
	}
	return runCfg, nil
}

func queryPoint(cmd *cobra.Command, args []string) error {
	x, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("x: %w", err)
	}
	z, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("z: %w", err)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx := context.Background()
	env, err := newEnvironment(ctx, cfg, cfg.Waves)
	if err != nil {
		return err
	}
	defer env.Close()

	if err := env.stepSync(ctx, atTime, cfg.ViewerPosition()); err != nil {
		return err
	}

	pos := mgl64.Vec3{x, 0, z}
	d := env.query.Displacement(pos)
	fmt.Printf("t=%.3fs position=(%.3f, %.3f)\n", atTime, x, z)
	fmt.Printf("height: %.6f m\n", d.Y())
	fmt.Printf("displacement: (%.6f, %.6f, %.6f)\n", d.X(), d.Y(), d.Z())
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	m, err := launcher(cmd)(preset, nil)
	if err != nil {
		return err
	}
	return viz.Run(m)
}

// launcher builds live models for the interactive menu. The environment is
// intentionally not closed: it lives until the process exits.
func launcher(cmd *cobra.Command) viz.Launcher {
	return func(name string, overrides map[string]float64) (viz.Model, error) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return viz.Model{}, err
		}
		if name != "" {
			if err := cfg.ApplyPreset(name); err != nil {
				return viz.Model{}, err
			}
		}
		settings := cfg.Waves
		for param, v := range overrides {
			if err := scenario.SetParam(&settings, param, v); err != nil {
				return viz.Model{}, err
			}
		}

		env, err := newEnvironment(context.Background(), cfg, settings)
		if err != nil {
			return viz.Model{}, err
		}
		buoy := mgl64.Vec3{}
		if len(cfg.Run.Buoys) > 0 {
			buoy = mgl64.Vec3{cfg.Run.Buoys[0].X, 0, cfg.Run.Buoys[0].Z}
		}
		return viz.NewModel(env.set, env.query, cfg.Preset, buoy), nil
	}
}

func serve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	env, err := newEnvironment(ctx, cfg, cfg.Waves)
	if err != nil {
		return err
	}
	defer env.Close()

	go func() {
		ticker := time.NewTicker(time.Duration(cfg.Run.Dt * float64(time.Second)))
		defer ticker.Stop()
		start := time.Now()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				if err := env.set.Step(ctx, now.Sub(start).Seconds(), cfg.ViewerPosition()); err != nil {
					monitoring.Logf("step failed: %v", err)
				}
			}
		}
	}()

	router := api.SetupRouter(api.NewHandler(env.set, env.query))
	srv := newServer(cfg.Server.Addr, router)

	errCh := make(chan error, 1)
	go func() {
		fmt.Printf("serving on %s\n", cfg.Server.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func exportData(cmd *cobra.Command, args []string) error {
	switch format {
	case "json", "series":
		if len(args) != 1 {
			return fmt.Errorf("format %s needs a run id", format)
		}
		return exportRun(args[0])
	case "netcdf", "png", "svg", "spectrum":
		return exportField(cmd)
	}
	return fmt.Errorf("unknown format %q", format)
}

func exportRun(runID string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}

	out, closeOut, err := output()
	if err != nil {
		return err
	}
	defer closeOut()

	if format == "series" {
		return export.WriteSeriesChart(out, series.Times, series.Names, series.Heights)
	}
	return storage.ExportJSON(out, meta, series)
}

func exportField(cmd *cobra.Command) error {
	if cascadeIx < 0 || cascadeIx > 2 {
		return fmt.Errorf("cascade index %d out of range [0, 2]", cascadeIx)
	}
	if (format == "netcdf" || format == "png") && outPath == "" {
		return fmt.Errorf("format %s needs --out", format)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx := context.Background()
	env, err := newEnvironment(ctx, cfg, cfg.Waves)
	if err != nil {
		return err
	}
	defer env.Close()

	if err := env.set.Step(ctx, atTime, cfg.ViewerPosition()); err != nil {
		return err
	}
	params := env.set.RenderParams()
	field := params.Fields[cascadeIx]
	lengthScale := params.LengthScales[cascadeIx]

	switch format {
	case "netcdf":
		if err := export.WriteNetCDF(outPath, field, lengthScale); err != nil {
			return err
		}
	case "png":
		if err := export.WriteHeatmapPNG(outPath, field, lengthScale); err != nil {
			return err
		}
	default:
		out, closeOut, err := output()
		if err != nil {
			return err
		}
		defer closeOut()
		if format == "spectrum" {
			return export.WriteSpectrumChart(out, env.set.Cascade(cascadeIx).Initial())
		}
		canvas := viz.NewCanvas(64, 32)
		canvas.PlotField(field, viz.PlotContour, 0)
		_, err = fmt.Fprint(out, export.CanvasToSVG(canvas, 4, "#1f9e89"))
		return err
	}
	fmt.Printf("wrote %s\n", outPath)
	return nil
}

func output() (*os.File, func(), error) {
	if outPath == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(outPath)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(series.Names) == 0 {
		return fmt.Errorf("run %s recorded no buoys", runID)
	}

	name := buoyName
	if name == "" {
		name = series.Names[0]
	}
	data, ok := series.Get(name)
	if !ok {
		return fmt.Errorf("run %s has no buoy %q", runID, name)
	}

	ps, err := analysis.PowerSpectrum(data)
	if err != nil {
		return err
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("buoy: %s\n\n", name)

	plotData := ps[:max(len(ps)/4, 2)]
	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum ("+name+")"),
	)
	fmt.Println(graph)
	fmt.Println()

	period, err := analysis.PeakPeriod(data, meta.Dt)
	if err != nil {
		return err
	}
	if math.IsInf(period, 1) {
		fmt.Println("dominant period: none (flat series)")
	} else {
		fmt.Printf("dominant period: %.3f s\n", period)
	}

	params := meta.Settings.Parameters()
	for i, label := range []string{"local", "swell"} {
		if params[i].PeakOmega > 0 && !math.IsInf(params[i].PeakOmega, 0) {
			fmt.Printf("%s peak period: %.3f s\n", label, 2*math.Pi/params[i].PeakOmega)
		}
	}
	return nil
}

func sweepParameter(cmd *cobra.Command, args []string) error {
	param := args[0]

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx := context.Background()

	measure := func(s spectrum.Settings) (float64, error) {
		env, err := newEnvironment(ctx, cfg, s)
		if err != nil {
			return 0, err
		}
		defer env.Close()
		if err := env.set.Step(ctx, atTime, cfg.ViewerPosition()); err != nil {
			return 0, err
		}
		hs := metrics.NewSignificantHeight()
		hs.Observe(env.set.Cascade(0).Field(), atTime)
		return hs.Value(), nil
	}

	points, err := analysis.Sweep(cfg.Waves, param, sweepLo, sweepHi, sweepSteps, measure)
	if err != nil {
		return err
	}

	fmt.Printf("significant height vs %s\n\n", param)
	fmt.Println(analysis.SweepToASCII(points, 60, 15))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tHS\n", param)
	for _, p := range points {
		fmt.Fprintf(w, "%.3f\t%.4f\n", p.Param, p.Value)
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tDURATION\tDT\tSIZE\tFFT\tSTEPS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%d\t%s\t%d\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Size,
			run.FFT,
			run.Steps,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(series.Times) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s\n", meta.Preset)
	fmt.Printf("samples: %d\n\n", len(series.Times))

	for i, name := range series.Names {
		graph := asciigraph.Plot(series.Heights[i],
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name+" height (m)"),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tWIND\tFETCH\tSWELL WIND\tDEPTH\tPEAK PERIOD")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		local := spectrum.Derive(p.Local, p.G)
		fmt.Fprintf(w, "%s\t%.1f m/s\t%.0f km\t%.1f m/s\t%.0f m\t%.2f s\n",
			name,
			p.Local.WindSpeed,
			p.Local.Fetch,
			p.Swell.WindSpeed,
			p.Depth,
			2*math.Pi/local.PeakOmega,
		)
	}
	return w.Flush()
}

func noiseFields(cmd *cobra.Command, args []string) error {
	store, err := noise.OpenSQLite(args[0])
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	src := noise.NewSource(seed, store)
	if cmd.Flags().Changed("size") {
		if _, err := src.Get(ctx, size); err != nil {
			return err
		}
	}

	entries, err := store.List(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("no noise fields stored")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSIZE\tSEED")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%d\t%d\n", e.Name, e.Size, e.Seed)
	}
	return w.Flush()
}

func benchBackends(cmd *cobra.Command, args []string) error {
	sizes := []int{64, 128, 256}
	const reps = 20

	fmt.Println("benchmarking fft backends")
	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BACKEND\tSIZE\tINVERSE2D\tSTEP")

	ctx := context.Background()
	for _, name := range fft.Names() {
		for _, n := range sizes {
			tr, err := fft.New(name, n)
			if err != nil {
				return err
			}
			field, err := noise.Generate(n, seed)
			if err != nil {
				return err
			}
			g := grid.NewComplex(n)

			start := time.Now()
			for r := 0; r < reps; r++ {
				for i, v := range field.Data {
					g.Data[i] = complex128(v)
				}
				if err := tr.Inverse2D(g); err != nil {
					return err
				}
			}
			inverse := time.Since(start) / reps

			cfg := config.DefaultConfig()
			cfg.Cascades.Size = n
			cfg.FFT = name
			cfg.Noise.Seed = seed
			env, err := newEnvironment(ctx, cfg, cfg.Waves)
			if err != nil {
				return err
			}
			start = time.Now()
			for r := 0; r < reps; r++ {
				if err := env.set.Step(ctx, float64(r)*cfg.Run.Dt, mgl64.Vec3{}); err != nil {
					env.Close()
					return err
				}
			}
			step := time.Since(start) / reps
			env.Close()

			fmt.Fprintf(w, "%s\t%d\t%v\t%v\n", name, n, inverse, step)
		}
	}
	return w.Flush()
}

// environment is a wavefield set with its query and noise store.
type environment struct {
	set   *wavefield.Set
	query *physics.Query
	store *noise.SQLiteStore
}

func (e *environment) Close() {
	e.set.Close()
	if e.store != nil {
		if err := e.store.Close(); err != nil {
			monitoring.Logf("noise store close: %v", err)
		}
	}
}

// stepSync steps to t and waits for the readback so queries see that step.
func (e *environment) stepSync(ctx context.Context, t float64, viewer mgl64.Vec3) error {
	if err := e.set.Step(ctx, t, viewer); err != nil {
		return err
	}
	e.set.Readback().Wait()
	return nil
}
