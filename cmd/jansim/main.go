package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/jansim/internal/analysis"
	"github.com/san-kum/jansim/internal/config"
	"github.com/san-kum/jansim/internal/dynamo"
	"github.com/san-kum/jansim/internal/export"
	"github.com/san-kum/jansim/internal/linkage"
	"github.com/san-kum/jansim/internal/metrics"
	"github.com/san-kum/jansim/internal/sim"
	"github.com/san-kum/jansim/internal/storage"
	"github.com/san-kum/jansim/internal/viz"
)

const modelName = "jansen"

var (
	dataDir    string
	configFile string
	presetName string
	verbose    bool

	steps      int
	sweepSteps int
	speed      float64
	duty       float64
	margin     float64
	outputPath string
	jsonPath   string
	workers    int
	noSave     bool

	speeds []float64

	plotField string
	svgPath   string
	pngPath   string

	fitJoint   int
	fitDegree  int
	fitSamples int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "jansim",
		Short: "Jansen linkage gait and crank torque simulator",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
			logrus.SetLevel(logrus.WarnLevel)
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".jansim", "data directory")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (yaml)")
	rootCmd.PersistentFlags().StringVarP(&presetName, "preset", "p", "", "use a preset configuration")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Simulate one gait cycle and write the step table",
		RunE:  runSimulation,
	}
	addGaitFlags(runCmd)
	runCmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "integration steps per cycle")
	runCmd.Flags().StringVarP(&outputPath, "output", "o", config.DefaultOutputPath, "step table path")
	runCmd.Flags().StringVar(&jsonPath, "json", "", "also write the run as JSON (- for stdout)")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not record the run in the data directory")

	contactCmd := &cobra.Command{
		Use:   "contact",
		Short: "Find the ground-contact interval of the foot",
		RunE:  showContact,
	}
	contactCmd.Flags().IntVar(&sweepSteps, "sweep-steps", config.DefaultSweepSteps, "contact sweep resolution")
	contactCmd.Flags().Float64Var(&margin, "margin", config.DefaultContactMargin, "contact margin above ground")
	contactCmd.Flags().IntVar(&workers, "workers", 0, "sweep workers (0 = all cores)")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "Compare crank torque across target speeds",
		RunE:  runSweep,
	}
	addGaitFlags(sweepCmd)
	sweepCmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "integration steps per cycle")
	sweepCmd.Flags().Float64SliceVar(&speeds, "speeds", []float64{0.15, 0.3, 0.5}, "target speeds in m/s")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "Plot a recorded run in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVarP(&plotField, "field", "f", "torque", "torque, omega, foot_x or foot_y")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "Harmonic content of the crank torque",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "Write the step table of a run to stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "Write run metadata as JSON to stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	renderCmd := &cobra.Command{
		Use:   "render [run_id]",
		Short: "Render the foot path as SVG and the torque curve as PNG",
		Args:  cobra.ExactArgs(1),
		RunE:  renderRun,
	}
	renderCmd.Flags().StringVar(&svgPath, "svg", "foot_path.svg", "foot path output")
	renderCmd.Flags().StringVar(&pngPath, "png", "torque.png", "torque plot output")

	viewCmd := &cobra.Command{
		Use:   "view [run_id]",
		Short: "Replay a recorded run in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  viewRun,
	}

	fitCmd := &cobra.Command{
		Use:   "fit",
		Short: "Refit one joint trajectory and report the residual",
		RunE:  fitJointCmd,
	}
	fitCmd.Flags().IntVar(&fitJoint, "joint", 5, "joint index 0-5")
	fitCmd.Flags().IntVar(&fitDegree, "degree", 9, "polynomial degree")
	fitCmd.Flags().IntVar(&fitSamples, "samples", 720, "samples over one rotation")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "List available presets",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("Available presets:")
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				fmt.Printf("  %-10s speed=%.2fm/s steps=%d torso=%.0fkg\n",
					name, cfg.Gait.TargetSpeed, cfg.Numerics.Steps, cfg.Material.TorsoMass)
			}
		},
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the active configuration as yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			path := "jansim.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			if err := config.Save(path, cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, contactCmd, sweepCmd, listCmd, plotCmd, analyzeCmd,
		exportCSVCmd, exportJSONCmd, renderCmd, viewCmd, fitCmd, presetsCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addGaitFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&speed, "speed", config.DefaultTargetSpeed, "target walking speed in m/s")
	cmd.Flags().Float64Var(&duty, "duty", config.DefaultDutyFactor, "fraction of the cycle on the ground")
	cmd.Flags().Float64Var(&margin, "margin", config.DefaultContactMargin, "contact margin above ground")
	cmd.Flags().IntVar(&sweepSteps, "sweep-steps", config.DefaultSweepSteps, "contact sweep resolution")
	cmd.Flags().IntVar(&workers, "workers", 0, "workers (0 = all cores)")
}

// loadConfig resolves preset, then config file, then defaults.
func loadConfig() (*config.Config, error) {
	if presetName != "" {
		cfg := config.GetPreset(presetName)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (try: %s)", presetName, strings.Join(config.ListPresets(), ", "))
		}
		return cfg, nil
	}
	if configFile != "" {
		return config.Load(configFile)
	}
	return config.DefaultConfig(), nil
}

// applyFlags lets explicitly set flags override the loaded configuration.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("speed") {
		cfg.Gait.TargetSpeed = speed
	}
	if flags.Changed("duty") {
		cfg.Gait.DutyFactor = duty
	}
	if flags.Changed("margin") {
		cfg.Gait.ContactMargin = margin
	}
	if flags.Changed("steps") {
		cfg.Numerics.Steps = steps
	}
	if flags.Changed("sweep-steps") {
		cfg.Numerics.SweepSteps = sweepSteps
	}
	if flags.Changed("workers") {
		cfg.Numerics.Workers = workers
	}
	if flags.Changed("output") {
		cfg.Output.Path = outputPath
	}
}

func setup(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	applyFlags(cmd, cfg)
	return cfg, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := setup(cmd)
	if err != nil {
		return err
	}

	s, err := sim.New(cfg)
	if err != nil {
		return err
	}
	for _, m := range metrics.Default() {
		s.AddMetric(m)
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("simulating %s: speed=%.3fm/s steps=%d sweep=%d\n",
		modelName, cfg.Gait.TargetSpeed, cfg.Numerics.Steps, cfg.Numerics.SweepSteps)

	start := time.Now()
	result, err := s.Run(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	if err := storage.ExportTable(cfg.Output.Path, result.Samples); err != nil {
		return fmt.Errorf("write step table: %w", err)
	}
	switch jsonPath {
	case "":
	case "-":
		if err := storage.WriteJSON(os.Stdout, modelName, result); err != nil {
			return fmt.Errorf("write json: %w", err)
		}
	default:
		if err := storage.ExportJSON(jsonPath, modelName, result); err != nil {
			return fmt.Errorf("write json: %w", err)
		}
	}

	fmt.Printf("completed in %v, table written to %s\n", elapsed, cfg.Output.Path)

	if !noSave {
		store := storage.New(dataDir)
		if err := store.Init(); err != nil {
			return err
		}
		runID, err := store.Save(modelName, cfg, result)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}

	fmt.Println(summaryTable(result))
	fmt.Println(viz.Chart(result.Torques(), 80, 10, "crank torque (N m) over one cycle"))
	return nil
}

func summaryTable(result *sim.Result) string {
	sum := metrics.Summarize(result.Samples)
	rows := [][2]string{
		{"contact angle", fmt.Sprintf("%.6f rad", result.Phase.Contact)},
		{"liftoff angle", fmt.Sprintf("%.6f rad", result.Phase.Liftoff)},
		{"stride", fmt.Sprintf("%.6f m", result.Phase.StrideLength)},
		{"cycle", fmt.Sprintf("%.5f s", result.Timing.Cycle)},
		{"ground velocity", fmt.Sprintf("%.4f rad/s", result.Timing.GroundVelocity)},
		{"flight velocity", fmt.Sprintf("%.4f rad/s", result.Timing.FlightVelocity)},
		{"step size", fmt.Sprintf("%.3e s", result.StepSize)},
		{"torque range", fmt.Sprintf("%.2f .. %.2f N m", sum.Torque.Min, sum.Torque.Max)},
		{"peak at step", fmt.Sprintf("%d", sum.PeakAt)},
	}
	names := lo.Keys(result.Metrics)
	slices.Sort(names)
	for _, name := range names {
		rows = append(rows, [2]string{name, fmt.Sprintf("%.6f", result.Metrics[name])})
	}
	return viz.Table(rows)
}

func showContact(cmd *cobra.Command, args []string) error {
	cfg, err := setup(cmd)
	if err != nil {
		return err
	}
	s, err := sim.New(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	phase, err := s.Detect(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("geometry: %s\n", s.Geometry())
	fmt.Printf("threshold: %.4f m\n", cfg.ContactThreshold())
	fmt.Printf("contact:   %.6f rad\n", phase.Contact)
	fmt.Printf("liftoff:   %.6f rad\n", phase.Liftoff)
	fmt.Printf("stride:    %.6f m\n", phase.StrideLength)
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := setup(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	points, err := sim.Sweep(ctx, cfg, speeds)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SPEED\tCYCLE\tGROUND\tFLIGHT\tPEAK\tRMS\tWORK")
	for _, p := range points {
		fmt.Fprintf(w, "%.3f\t%.4f\t%.3f\t%.3f\t%.2f\t%.2f\t%.3f\n",
			p.Speed, p.Cycle, p.GroundVelocity, p.FlightVelocity, p.PeakTorque, p.RMSTorque, p.CrankWork)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(points) > 1 {
		rms := lo.Map(points, func(p sim.SweepPoint, _ int) float64 { return p.RMSTorque })
		work := lo.Map(points, func(p sim.SweepPoint, _ int) float64 { return p.CrankWork })
		fmt.Printf("\nrms  %s\nwork %s\n", viz.Sparkline(rms, len(rms)), viz.Sparkline(work, len(work)))
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tTIME\tSPEED\tSTEPS\tPEAK")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.3f\t%d\t%.2f\n",
			run.ID, run.Model, run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Speed, run.Steps, run.Metrics["peak_torque"])
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	rows, err := storage.New(dataDir).LoadSeries(args[0])
	if err != nil {
		return err
	}

	var pick func(storage.Row) float64
	switch plotField {
	case "torque":
		pick = func(r storage.Row) float64 { return r.Torque }
	case "omega":
		pick = func(r storage.Row) float64 { return r.Omega }
	case "foot_x":
		pick = func(r storage.Row) float64 { return r.FootX }
	case "foot_y":
		pick = func(r storage.Row) float64 { return r.FootY }
	default:
		return fmt.Errorf("unknown field: %s", plotField)
	}

	data := lo.Map(rows, func(r storage.Row, _ int) float64 { return pick(r) })
	if len(data) < 2 {
		return fmt.Errorf("run %s has too few steps to plot", args[0])
	}

	graph := asciigraph.Plot(viz.Downsample(data, 200),
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("%s (%s)", args[0], plotField)))
	fmt.Println(graph)
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	meta, err := store.Load(args[0])
	if err != nil {
		return err
	}
	rows, err := store.LoadSeries(args[0])
	if err != nil {
		return err
	}

	torque := lo.Map(rows, func(r storage.Row, _ int) float64 { return r.Torque })
	harmonics := analysis.Spectrum(torque, meta.Timing.Cycle)
	if len(harmonics) == 0 {
		return fmt.Errorf("run %s has too few steps to analyze", args[0])
	}

	fmt.Printf("harmonics of crank torque (cycle %.4fs)\n", meta.Timing.Cycle)
	power := lo.Map(harmonics, func(h analysis.Harmonic, _ int) float64 { return h.Amplitude })
	if len(power) > 1 {
		fmt.Println(asciigraph.Plot(viz.Downsample(power[:min(len(power), 64)], 64),
			asciigraph.Height(10),
			asciigraph.Width(64),
			asciigraph.Caption("amplitude by harmonic")))
	}

	dom := analysis.Dominant(harmonics)
	fmt.Printf("dominant harmonic: %d (%.3f Hz, amplitude %.3f N m)\n", dom.Order, dom.Frequency, dom.Amplitude)
	fmt.Printf("mean torque: %.3f N m\n", meta.Summary.Torque.Mean)
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	samples, _, err := loadSamples(store, args[0])
	if err != nil {
		return err
	}
	return storage.WriteTable(os.Stdout, samples)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, err := storage.New(dataDir).Load(args[0])
	if err != nil {
		return err
	}
	return storage.WriteMetadata(os.Stdout, meta)
}

func renderRun(cmd *cobra.Command, args []string) error {
	samples, _, err := loadSamples(storage.New(dataDir), args[0])
	if err != nil {
		return err
	}

	if svgPath != "" {
		svg := export.FootPathSVG(samples, 600, 300, "#2a7ae2")
		if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("foot path written to %s\n", svgPath)
	}
	if pngPath != "" {
		if err := export.TorquePNG(samples, 8, 4, pngPath); err != nil {
			return err
		}
		fmt.Printf("torque plot written to %s\n", pngPath)
	}
	return nil
}

func viewRun(cmd *cobra.Command, args []string) error {
	samples, geo, err := loadSamples(storage.New(dataDir), args[0])
	if err != nil {
		return err
	}
	return viz.RunViewer(args[0], samples, geo.Pin)
}

// loadSamples rebuilds a recorded run with the geometry it was made with.
func loadSamples(store *storage.Store, runID string) ([]dynamo.Sample, *linkage.Geometry, error) {
	meta, err := store.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	rows, err := store.LoadSeries(runID)
	if err != nil {
		return nil, nil, err
	}

	cfg := meta.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	geo, err := linkage.NewGeometry(cfg)
	if err != nil {
		return nil, nil, err
	}
	model, err := linkage.NewDefaultModel(geo)
	if err != nil {
		return nil, nil, err
	}
	return storage.Rebuild(rows, model, cfg.ContactThreshold()), geo, nil
}

func fitJointCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	geo, err := linkage.NewGeometry(cfg)
	if err != nil {
		return err
	}
	model, err := linkage.NewDefaultModel(geo)
	if err != nil {
		return err
	}

	r, err := linkage.RefitJoint(model, fitJoint, fitSamples, fitDegree)
	if err != nil {
		return err
	}

	fmt.Printf("joint %d, degree %d, %d samples\n", r.Joint, fitDegree, fitSamples)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "K\tX\tY")
	for k := range r.Fit.X {
		fmt.Fprintf(w, "%d\t%.10e\t%.10e\n", k, r.Fit.X[k], r.Fit.Y[k])
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("max residual: %.3e m\n", r.Residual)
	return nil
}
