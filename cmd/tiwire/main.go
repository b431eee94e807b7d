package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	logLevel   string
	logFormat  string

	energy  float64
	eMin    float64
	eMax    float64
	points  int
	workers int
	noSave  bool
	tol     float64

	metricsAddr string

	region int
	kMin   float64
	kMax   float64

	field      string
	fieldMin   float64
	fieldMax   float64
	scanPoints int
	plateauTol float64
	minRun     int
	svgOut     string

	gridBPar  []float64
	gridBPerp []float64
	maximize  bool
)

// main registers the tiwire commands and executes the root command, exiting
// with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:          "tiwire",
		Short:        "surface Dirac transport in topological insulator nanowires and cones",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".tiwire", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "device config file (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset device")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")

	conductanceCmd := &cobra.Command{
		Use:   "conductance",
		Short: "conductance at one energy",
		Args:  cobra.NoArgs,
		RunE:  runConductance,
	}
	conductanceCmd.Flags().Float64Var(&energy, "energy", 30, "fermi energy (meV)")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "conductance over an energy range",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	sweepCmd.Flags().Float64Var(&eMin, "emin", 0, "lowest energy (meV), overrides config")
	sweepCmd.Flags().Float64Var(&eMax, "emax", 0, "highest energy (meV), overrides config")
	sweepCmd.Flags().IntVar(&points, "points", 0, "number of energies, overrides config")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "parallel evaluations (0 = GOMAXPROCS)")
	sweepCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address during the sweep")
	sweepCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	bandsCmd := &cobra.Command{
		Use:   "bands",
		Short: "band structure of a wire region",
		Args:  cobra.NoArgs,
		RunE:  runBands,
	}
	bandsCmd.Flags().IntVar(&region, "region", -1, "wire region index, overrides config")
	bandsCmd.Flags().Float64Var(&kMin, "kmin", 0, "lowest momentum (1/nm), overrides config")
	bandsCmd.Flags().Float64Var(&kMax, "kmax", 0, "highest momentum (1/nm), overrides config")
	bandsCmd.Flags().IntVar(&points, "points", 0, "number of momenta, overrides config")
	bandsCmd.Flags().IntVar(&workers, "workers", 0, "parallel evaluations (0 = GOMAXPROCS)")
	bandsCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "check current conservation, unitarity and completeness",
		Args:  cobra.NoArgs,
		RunE:  runCheck,
	}
	checkCmd.Flags().Float64Var(&energy, "energy", 30, "fermi energy (meV)")
	checkCmd.Flags().Float64Var(&tol, "tol", 1e-8, "tolerance")

	exploreCmd := &cobra.Command{
		Use:   "explore",
		Short: "interactive conductance explorer",
		Args:  cobra.NoArgs,
		RunE:  runExplore,
	}
	exploreCmd.Flags().Float64Var(&energy, "energy", 30, "starting energy (meV)")

	fieldScanCmd := &cobra.Command{
		Use:   "field-scan",
		Short: "conductance against magnetic field at fixed energy",
		Args:  cobra.NoArgs,
		RunE:  runFieldScan,
	}
	fieldScanCmd.Flags().StringVar(&field, "field", "par", "field to scan (par, perp)")
	fieldScanCmd.Flags().Float64Var(&fieldMin, "bmin", 0, "lowest field (T)")
	fieldScanCmd.Flags().Float64Var(&fieldMax, "bmax", 20, "highest field (T)")
	fieldScanCmd.Flags().IntVar(&scanPoints, "points", 64, "number of field values")
	fieldScanCmd.Flags().Float64Var(&energy, "energy", 30, "fermi energy (meV)")

	gridCmd := &cobra.Command{
		Use:   "grid",
		Short: "search field combinations for the lowest (or highest) conductance",
		Args:  cobra.NoArgs,
		RunE:  runGrid,
	}
	gridCmd.Flags().Float64SliceVar(&gridBPar, "bpar", []float64{0}, "parallel fields to try (T)")
	gridCmd.Flags().Float64SliceVar(&gridBPerp, "bperp", []float64{0}, "perpendicular fields to try (T)")
	gridCmd.Flags().Float64Var(&energy, "energy", 30, "fermi energy (meV)")
	gridCmd.Flags().BoolVar(&maximize, "maximize", false, "search for the highest conductance")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run (latest when omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "find conductance plateaus of a stored sweep",
		Args:  cobra.MaximumNArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().Float64Var(&plateauTol, "tol", 0.05, "distance from an integer counted as quantized")
	analyzeCmd.Flags().IntVar(&minRun, "min-points", 3, "shortest plateau in samples")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run series as csv",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and series as json",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render a run as svg",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&svgOut, "out", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list preset devices",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	initConfigCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write the selected device config as yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE:  initConfig,
	}

	rootCmd.AddCommand(
		conductanceCmd,
		sweepCmd,
		bandsCmd,
		checkCmd,
		exploreCmd,
		fieldScanCmd,
		gridCmd,
		listCmd,
		plotCmd,
		analyzeCmd,
		exportCSVCmd,
		exportJSONCmd,
		exportSVGCmd,
		presetsCmd,
		initConfigCmd,
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
