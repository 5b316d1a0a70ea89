package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/sgp4check/internal/analysis"
	"github.com/san-kum/sgp4check/internal/batch"
	"github.com/san-kum/sgp4check/internal/config"
	"github.com/san-kum/sgp4check/internal/crosscheck"
	"github.com/san-kum/sgp4check/internal/export"
	"github.com/san-kum/sgp4check/internal/scenario"
	"github.com/san-kum/sgp4check/internal/schedule"
	"github.com/san-kum/sgp4check/internal/storage"
	"github.com/san-kum/sgp4check/internal/tui"
	"github.com/san-kum/sgp4check/internal/viz"
)

var (
	dataDir   string
	verbose   bool
	logFormat string

	opsMode      string
	runMode      string
	inputTime    string
	gravity      string
	outDir       string
	scenarioName string
	startArg     string
	stopArg      string
	stepArg      string
	configFile   string
	preset       string
	interactive  bool

	svgPath    string
	plotWidth  int
	plotHeight int

	ccGravity string
	ccStart   float64
	ccStop    float64
	ccStep    float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "sgp4check",
		Short:        "sgp4 verification against tle catalogs",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			interactive = true
			return runCatalog(cmd, args)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory for the run ledger")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")

	runCmd := &cobra.Command{
		Use:   "run [catalog]",
		Short: "propagate every record of a catalog",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runCatalog,
	}
	runCmd.Flags().StringVar(&opsMode, "ops", config.DefaultOps, "operations mode (a afspc, i improved)")
	runCmd.Flags().StringVar(&runMode, "mode", config.DefaultRun, "run mode (c catalog compare, v verification, m manual)")
	runCmd.Flags().StringVar(&inputTime, "input-time", config.DefaultInputTime, "manual input time (m minutes, e epoch, d day of year)")
	runCmd.Flags().StringVar(&gravity, "gravity", config.DefaultGravity, "gravity constants (721, 72, 84)")
	runCmd.Flags().StringVar(&outDir, "out", config.DefaultOutDir, "output directory")
	runCmd.Flags().StringVar(&scenarioName, "scenario", config.DefaultScenario, "scenario preset or yaml file run after the catalog (none to skip)")
	runCmd.Flags().StringVar(&startArg, "start", "", "manual start")
	runCmd.Flags().StringVar(&stopArg, "stop", "", "manual stop")
	runCmd.Flags().StringVar(&stepArg, "step", "", "manual step in minutes")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	runCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "prompt for the run settings")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show a run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [file.e]",
		Short: "plot geocentric radius from an ephemeris file",
		Args:  cobra.ExactArgs(1),
		RunE:  plotEphemeris,
	}
	plotCmd.Flags().StringVar(&svgPath, "svg", "", "also write the plot as svg")
	plotCmd.Flags().IntVar(&plotWidth, "width", 80, "plot width")
	plotCmd.Flags().IntVar(&plotHeight, "height", 15, "plot height")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [file.e]",
		Short: "estimate the orbital period from an ephemeris file",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeEphemeris,
	}

	crosscheckCmd := &cobra.Command{
		Use:   "crosscheck [catalog]",
		Short: "compare against go-satellite",
		Args:  cobra.ExactArgs(1),
		RunE:  crosscheckCatalog,
	}
	crosscheckCmd.Flags().StringVar(&ccGravity, "gravity", config.DefaultGravity, "gravity constants (721, 72, 84)")
	crosscheckCmd.Flags().Float64Var(&ccStart, "start", schedule.CatalogGrid.Start, "start (min)")
	crosscheckCmd.Flags().Float64Var(&ccStop, "stop", schedule.CatalogGrid.Stop, "stop (min)")
	crosscheckCmd.Flags().Float64Var(&ccStep, "step", schedule.CatalogGrid.Step, "step (min)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list run and scenario presets",
		RunE:  listPresets,
	}

	rootCmd.AddCommand(runCmd, listCmd, showCmd, plotCmd, analyzeCmd, crosscheckCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(logFormat, "json") {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// loadConfig layers preset, config file and changed flags, in that order.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("ops") {
		cfg.OpsMode = opsMode
	}
	if flags.Changed("mode") {
		cfg.RunMode = runMode
	}
	if flags.Changed("input-time") {
		cfg.InputTime = inputTime
	}
	if flags.Changed("gravity") {
		cfg.Gravity = gravity
	}
	if flags.Changed("out") {
		cfg.OutDir = outDir
	}
	if flags.Changed("scenario") {
		cfg.Scenario = scenarioName
	}
	if flags.Changed("start") {
		cfg.Manual.Start = startArg
	}
	if flags.Changed("stop") {
		cfg.Manual.Stop = stopArg
	}
	if flags.Changed("step") {
		cfg.Manual.Step = stepArg
	}
	if flags.Changed("data") {
		cfg.DataDir = dataDir
	}
	if len(args) > 0 {
		cfg.Catalog = args[0]
	}
	return cfg, nil
}

func runCatalog(cmd *cobra.Command, args []string) error {
	log := newLogger()

	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	if interactive {
		ans, err := tui.Ask(cfg)
		if err != nil {
			return err
		}
		cfg.OpsMode, cfg.RunMode = ans.Tokens.Ops, ans.Tokens.Run
		cfg.InputTime, cfg.Gravity = ans.Tokens.InputTime, ans.Tokens.Gravity
		cfg.Catalog = ans.Catalog
		cfg.Manual = ans.Manual
	}

	if cfg.Catalog == "" {
		return errors.New("no catalog given")
	}

	rc, _ := config.Resolve(cfg.Tokens(), log)

	var manual schedule.ManualInput
	if rc.Run == config.Manual {
		manual, _ = schedule.ResolveManual(rc.InputTime, cfg.Manual, log)
	}

	sc, err := scenario.Resolve(cfg.Scenario)
	if err != nil {
		return err
	}

	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	b := batch.New(batch.Config{
		Run:      rc,
		Catalog:  cfg.Catalog,
		OutDir:   cfg.OutDir,
		Manual:   manual,
		Scenario: sc,
		Ledger:   st,
		Log:      log,
	})

	summary, err := b.Run(ctx)
	if err != nil {
		return err
	}

	meta, err := st.Load(summary.RunID)
	if err != nil {
		return err
	}
	fmt.Print(viz.RenderRun(*meta))

	if res := summary.Scenario; res != nil {
		fmt.Printf("scenario %s: %d samples, %s\n", sc.Name, res.Samples(), res.Phase)
	}
	return nil
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

	fmt.Print(viz.RenderRuns(runs))
	return nil
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	fmt.Print(viz.RenderRun(*meta))
	return nil
}

func readEphemeris(path string) (*export.Ephemeris, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	eph, err := export.ReadEphemeris(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(eph.Points) == 0 {
		return nil, fmt.Errorf("%s: no data to plot", path)
	}
	return eph, nil
}

func plotEphemeris(cmd *cobra.Command, args []string) error {
	eph, err := readEphemeris(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("file: %s\n", args[0])
	fmt.Printf("epoch: %s\n", eph.Epoch.STK())
	fmt.Printf("samples: %d\n\n", len(eph.Points))
	fmt.Println(viz.RadiusPlot(eph, plotWidth, plotHeight))

	if svgPath != "" {
		svg := export.SeriesToSVG(export.RadiusSeries(eph), 800, 300, "#00ff88")
		if err := storage.WriteFile(svgPath, strings.NewReader(svg)); err != nil {
			return err
		}
		fmt.Printf("\nsvg written to %s\n", svgPath)
	}
	return nil
}

func analyzeEphemeris(cmd *cobra.Command, args []string) error {
	eph, err := readEphemeris(args[0])
	if err != nil {
		return err
	}

	// the epoch seed sample of a rewound grid is out of order; drop it
	points := eph.Points
	if len(points) > 2 && points[1].Seconds < points[0].Seconds {
		points = points[1:]
	}
	if len(points) < 2 {
		return errors.New("not enough samples")
	}

	dt := points[1].Seconds - points[0].Seconds
	radius := make([]float64, len(points))
	for i, p := range points {
		radius[i] = p.Radius()
	}

	fmt.Printf("frequency analysis: %s\n", filepath.Base(args[0]))
	fmt.Printf("epoch: %s\n\n", eph.Epoch.STK())

	period, err := analysis.DominantPeriod(radius, dt)
	if err != nil {
		return err
	}

	ps, err := analysis.PowerSpectrum(radius[:analysis.Pow2Floor(len(radius))])
	if err != nil {
		return err
	}
	fmt.Println(viz.SpectrumPlot(ps, "power spectrum (radius)"))
	fmt.Println()
	fmt.Printf("dominant period: %.2f min (%.4f rev/day)\n", period/60, 86400/period)
	return nil
}

func crosscheckCatalog(cmd *cobra.Command, args []string) error {
	log := newLogger()

	rc, _ := config.Resolve(config.Tokens{Gravity: ccGravity}, log)
	grid := schedule.Grid{Start: ccStart, Stop: ccStop, Step: ccStep}
	if err := grid.Validate(); err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	reports, err := crosscheck.New(rc.Gravity, grid, log).CheckCatalog(f)
	if err != nil {
		return err
	}

	fmt.Printf("crosscheck %s against go-satellite (%s, %s)\n\n", args[0], rc.Gravity, grid)
	fmt.Print(viz.RenderCrosscheck(reports))
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN PRESET\tOPS\tMODE\tINPUT\tGRAVITY")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", name, p.OpsMode, p.RunMode, p.InputTime, p.Gravity)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "SCENARIO\tSATNUM\tGRID\tDESCRIPTION")
	for _, name := range scenario.ListPresets() {
		sc := scenario.Presets[name]
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", name, sc.Elements.Satnum, sc.Grid, sc.Description)
	}
	return w.Flush()
}
