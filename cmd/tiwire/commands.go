package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/tiwire/internal/analysis"
	"github.com/san-kum/tiwire/internal/config"
	"github.com/san-kum/tiwire/internal/logging"
	"github.com/san-kum/tiwire/internal/metrics"
	"github.com/san-kum/tiwire/internal/storage"
	"github.com/san-kum/tiwire/internal/sweep"
	"github.com/san-kum/tiwire/internal/transport"
	"github.com/san-kum/tiwire/internal/viz"
)

func newLogger() logging.Logger {
	return logging.New(logging.Config{Level: logLevel, Format: logFormat})
}

// loadConfig resolves the device description: a preset, then a config file,
// then the built-in nanowire.
func loadConfig() (*config.Config, error) {
	switch {
	case preset != "":
		cfg := config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %q (see 'tiwire presets')", preset)
		}
		return cfg, nil
	case configFile != "":
		return config.Load(configFile)
	default:
		return config.DefaultConfig(), nil
	}
}

func loadDevice() (*config.Config, *transport.Device, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	dev, err := cfg.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", cfg.Name, err)
	}
	return cfg, dev, nil
}

func runConductance(cmd *cobra.Command, args []string) error {
	cfg, dev, err := loadDevice()
	if err != nil {
		return err
	}
	log := newLogger().With(logging.String("device", cfg.Name))

	start := time.Now()
	g, err := dev.Conductance(energy)
	if err != nil {
		return err
	}
	log.Debug(cmd.Context(), "conductance evaluated",
		logging.Float("energy", energy),
		logging.Int("slices", dev.SliceCount()),
		logging.Duration("elapsed", time.Since(start)))

	fmt.Println(viz.Profile(dev, 60, 6))
	fmt.Printf("device: %s\n", cfg.Name)
	fmt.Printf("energy: %g meV\n", energy)
	fmt.Printf("conductance: %.6f e²/h\n", g)

	for i, reg := range dev.Regions() {
		if _, ok := reg.(*transport.Wire); !ok {
			continue
		}
		n, err := dev.PropagatingModes(i, energy)
		if err != nil {
			return err
		}
		fmt.Printf("region %d propagating modes: %d\n", i, n)
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, dev, err := loadDevice()
	if err != nil {
		return err
	}
	log := newLogger().With(logging.String("device", cfg.Name))

	sc := cfg.Sweep
	if cmd.Flags().Changed("emin") {
		sc.EMin = eMin
	}
	if cmd.Flags().Changed("emax") {
		sc.EMax = eMax
	}
	if cmd.Flags().Changed("points") {
		sc.Points = points
	}
	if sc.Points < 1 {
		return fmt.Errorf("sweep needs at least one point, got %d", sc.Points)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	opts := []sweep.Option{
		sweep.WithWorkers(workers),
		sweep.WithLogger(log),
		sweep.WithMetrics(metrics.Defaults()...),
	}
	if metricsAddr != "" {
		col, shutdown, err := serveMetrics(ctx, log)
		if err != nil {
			return err
		}
		defer shutdown()
		opts = append(opts, sweep.WithRecorder(col))
	}

	log.Info(ctx, "sweep started",
		logging.Float("e_min", sc.EMin),
		logging.Float("e_max", sc.EMax),
		logging.Int("points", sc.Points),
		logging.Int("slices", dev.SliceCount()))

	res, err := sweep.New(dev, opts...).Conductance(ctx, sweep.Linspace(sc.EMin, sc.EMax, sc.Points))
	if err != nil {
		return err
	}
	log.Info(ctx, "sweep finished", logging.Duration("elapsed", res.Elapsed))

	fmt.Println(viz.Conductance(res.Energies, res.Conductance, viz.PlotOptions{Width: 80, Height: 15}))
	fmt.Println()
	for _, name := range []string{"peak_conductance", "mean_conductance", "quantization_error"} {
		fmt.Printf("%s: %.4f\n", name, res.Metrics[name])
	}

	if noSave {
		return nil
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.SaveSweep(cfg.Name, dev, res)
	if err != nil {
		return err
	}
	fmt.Printf("saved: %s\n", runID)
	return nil
}

// serveMetrics exposes a fresh registry on metricsAddr until shutdown is
// called.
func serveMetrics(ctx context.Context, log logging.Logger) (*metrics.Collector, func(), error) {
	reg := prometheus.NewRegistry()
	col, err := metrics.NewCollector(reg)
	if err != nil {
		return nil, nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", col.Handler())
	srv := &http.Server{Addr: metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "metrics server failed", logging.Err(err))
		}
	}()
	log.Info(ctx, "serving metrics", logging.String("addr", metricsAddr))

	shutdown := func() {
		sctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(sctx)
	}
	return col, shutdown, nil
}

func runBands(cmd *cobra.Command, args []string) error {
	cfg, dev, err := loadDevice()
	if err != nil {
		return err
	}
	log := newLogger().With(logging.String("device", cfg.Name))

	bc := cfg.Bands
	if cmd.Flags().Changed("region") {
		bc.Region = region
	}
	if cmd.Flags().Changed("kmin") {
		bc.KMin = kMin
	}
	if cmd.Flags().Changed("kmax") {
		bc.KMax = kMax
	}
	if cmd.Flags().Changed("points") {
		bc.Points = points
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	runner := sweep.New(dev, sweep.WithWorkers(workers), sweep.WithLogger(log))
	bs, err := runner.Bands(ctx, bc.Region, sweep.Linspace(bc.KMin, bc.KMax, bc.Points))
	if err != nil {
		return err
	}

	fmt.Println(viz.Bands(bs, viz.PlotOptions{Width: 80, Height: 20}))
	fmt.Println()
	half := len(bs.Bottom) / 2
	fmt.Printf("band bottoms (meV): %.3f\n", bs.Bottom[half:])

	if noSave {
		return nil
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.SaveBands(cfg.Name, dev, bc.Region, bs)
	if err != nil {
		return err
	}
	fmt.Printf("saved: %s\n", runID)
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, dev, err := loadDevice()
	if err != nil {
		return err
	}

	rep, err := dev.Diagnose(energy, tol)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "device\t%s\n", cfg.Name)
	fmt.Fprintf(w, "energy\t%g meV\n", rep.Energy)
	fmt.Fprintf(w, "slices\t%d\n", rep.Slices)
	fmt.Fprintf(w, "conductance\t%.8f\n", rep.Conductance)
	fmt.Fprintf(w, "reflection\t%.8f\n", rep.Reflection)
	fmt.Fprintf(w, "current conservation\t%s\n", status(rep.NonConserving == 0, fmt.Sprintf("%d slices violate", rep.NonConserving)))
	fmt.Fprintf(w, "unitarity\t%s\n", statusErr(rep.Unitarity))
	fmt.Fprintf(w, "completeness\t%s\n", statusErr(rep.Completeness))
	if err := w.Flush(); err != nil {
		return err
	}

	if !rep.OK() {
		return errors.New("checks failed")
	}
	return nil
}

func status(ok bool, msg string) string {
	if ok {
		return "ok"
	}
	return msg
}

func statusErr(err error) string {
	if err == nil {
		return "ok"
	}
	return err.Error()
}

func runExplore(cmd *cobra.Command, args []string) error {
	cfg, dev, err := loadDevice()
	if err != nil {
		return err
	}
	p := tea.NewProgram(viz.NewExplorer(cfg.Name, dev, energy, 1))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("explorer: %w", err)
	}
	return nil
}

func runFieldScan(cmd *cobra.Command, args []string) error {
	cfg, dev, err := loadDevice()
	if err != nil {
		return err
	}
	if scanPoints < 2 {
		return fmt.Errorf("field scan needs at least two points, got %d", scanPoints)
	}

	build := func(b float64) (*transport.Device, error) {
		c := *cfg
		switch field {
		case "par":
			c.BPar = b
		case "perp":
			c.BPerp = b
		default:
			return nil, fmt.Errorf("unknown field %q (par, perp)", field)
		}
		return c.Build()
	}

	fields := sweep.Linspace(fieldMin, fieldMax, scanPoints)
	scan, err := analysis.FieldScan(build, fields, energy)
	if err != nil {
		return err
	}

	g := make([]float64, len(scan))
	for i, p := range scan {
		g[i] = p.Conductance
	}
	caption := fmt.Sprintf("G (e²/h) for B%s = %g … %g T at E = %g meV", field, fieldMin, fieldMax, energy)
	fmt.Println(asciigraph.Plot(g,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	))
	fmt.Println()

	if period := analysis.OscillationPeriod(fields, g); period > 0 {
		fmt.Printf("dominant period: %.3f T\n", period)
	} else {
		fmt.Println("no oscillation found")
	}
	if field == "par" {
		if section := firstSection(dev); section != nil {
			fmt.Printf("flux quantum period: %.3f T\n", transport.FluxPeriod(section))
		}
	}
	return nil
}

func runGrid(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger().With(logging.String("device", cfg.Name))

	sign := 1.0
	if maximize {
		sign = -1
	}
	gs := analysis.NewGridSearch([]string{"b_par", "b_perp"}, [][]float64{gridBPar, gridBPerp})
	best, val, err := gs.Search(cmd.Context(), func(p map[string]float64) (float64, error) {
		c := *cfg
		c.BPar, c.BPerp = p["b_par"], p["b_perp"]
		dev, err := c.Build()
		if err != nil {
			return 0, err
		}
		g, err := dev.Conductance(energy)
		if err != nil {
			return 0, err
		}
		log.Debug(cmd.Context(), "grid point",
			logging.Float("b_par", c.BPar),
			logging.Float("b_perp", c.BPerp),
			logging.Float("conductance", g))
		return sign * g, nil
	})
	if err != nil {
		return err
	}

	fmt.Printf("energy: %g meV\n", energy)
	fmt.Printf("b_par: %g T\n", best["b_par"])
	fmt.Printf("b_perp: %g T\n", best["b_perp"])
	fmt.Printf("conductance: %.6f e²/h\n", sign*val)
	return nil
}

func firstSection(dev *transport.Device) transport.CrossSection {
	regions := dev.Regions()
	if len(regions) == 0 {
		return nil
	}
	switch r := regions[0].(type) {
	case *transport.Wire:
		return r.Section
	case *transport.Cone:
		return r.Start
	}
	return nil
}

// resolveRun returns the run named in args, or the latest run of kind.
func resolveRun(st *storage.Store, args []string, kind string) (*storage.RunMetadata, error) {
	if len(args) > 0 {
		return st.Load(args[0])
	}
	return st.Latest(kind)
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
	fmt.Fprintln(w, "ID\tKIND\tDEVICE\tTIME\tPOINTS\tSLICES\tELAPSED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%.2fs\n",
			run.ID,
			run.Kind,
			run.Device,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Points,
			run.Slices,
			run.Elapsed,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := resolveRun(st, args, "")
	if err != nil {
		return err
	}

	_, rows, err := st.LoadSeries(meta.ID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("device: %s\n", meta.Device)
	fmt.Printf("samples: %d\n\n", len(rows))

	opts := viz.PlotOptions{Width: 80, Height: 15}
	switch meta.Kind {
	case storage.KindSweep:
		energies, g := columns(rows, 0), columns(rows, 1)
		fmt.Println(viz.Conductance(energies, g, opts))
	case storage.KindBands:
		bs := &transport.BandStructure{K: columns(rows, 0)}
		for i := 1; i < len(rows[0]); i++ {
			bs.Energies = append(bs.Energies, columns(rows, i))
		}
		fmt.Println(viz.Bands(bs, opts))
	default:
		return fmt.Errorf("unknown run kind %q", meta.Kind)
	}
	return nil
}

func columns(rows [][]float64, col int) []float64 {
	out := make([]float64, len(rows))
	for i, row := range rows {
		if col < len(row) {
			out[i] = row[col]
		}
	}
	return out
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := resolveRun(st, args, storage.KindSweep)
	if err != nil {
		return err
	}
	if meta.Kind != storage.KindSweep {
		return fmt.Errorf("run %s is a %s run, plateaus need a sweep", meta.ID, meta.Kind)
	}

	_, rows, err := st.LoadSeries(meta.ID)
	if err != nil {
		return err
	}
	energies, g := columns(rows, 0), columns(rows, 1)

	fmt.Printf("plateau analysis: %s\n", meta.ID)
	fmt.Printf("device: %s\n\n", meta.Device)

	dg := analysis.Derivative(energies, g)
	fmt.Println(asciigraph.Plot(dg,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("dG/dE"),
	))
	fmt.Println()

	plateaus := analysis.FindPlateaus(energies, g, plateauTol, minRun)
	if len(plateaus) == 0 {
		fmt.Println("no plateaus found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LEVEL\tE_MIN\tE_MAX\tMEAN\tPOINTS")
	for _, p := range plateaus {
		fmt.Fprintf(w, "%d\t%.3f\t%.3f\t%.4f\t%d\n", p.Level, p.EMin, p.EMax, p.Mean, p.Points)
	}
	return w.Flush()
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := resolveRun(st, args, "")
	if err != nil {
		return err
	}
	return st.ExportCSV(os.Stdout, meta.ID)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := resolveRun(st, args, "")
	if err != nil {
		return err
	}
	return st.ExportJSON(os.Stdout, meta.ID)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := resolveRun(st, args, "")
	if err != nil {
		return err
	}
	_, rows, err := st.LoadSeries(meta.ID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no data to render")
	}

	var ys [][]float64
	for i := 1; i < len(rows[0]); i++ {
		ys = append(ys, columns(rows, i))
	}

	out := os.Stdout
	if svgOut != "" {
		f, err := os.Create(svgOut)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	title := fmt.Sprintf("%s %s (%s)", meta.Device, meta.Kind, meta.ID)
	return viz.SVG(out, columns(rows, 0), ys, viz.SVGOptions{Title: title})
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tREGIONS\tB_PERP\tB_PAR\tCUTOFF")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%d\t%g\t%g\t%d\n", name, len(p.Regions), p.BPerp, p.BPar, p.ModeCutoff)
	}
	return w.Flush()
}

func initConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if len(args) == 0 {
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		return enc.Close()
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", args[0])
	return nil
}
