package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/fluidlab/internal/analysis"
	"github.com/san-kum/fluidlab/internal/automation"
	"github.com/san-kum/fluidlab/internal/compute"
	"github.com/san-kum/fluidlab/internal/config"
	"github.com/san-kum/fluidlab/internal/gui"
	"github.com/san-kum/fluidlab/internal/metrics"
	"github.com/san-kum/fluidlab/internal/solver"
	"github.com/san-kum/fluidlab/internal/storage"
	"github.com/san-kum/fluidlab/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	backend    string
	duration   float64
	frameDt    float64
	subSteps   int

	metricName string
	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fluidlab",
		Short: "real-time SPH fluid simulation lab",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default to the interactive GUI when no command given.
			s, err := buildSolver(cmd)
			if err != nil {
				return err
			}
			gui.Run(s, float32(frameDt))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".fluidlab", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "auto", "compute backend (auto|cpu|serial)")
	rootCmd.PersistentFlags().Float64Var(&frameDt, "dt", 1.0/60.0, "frame timestep")
	rootCmd.PersistentFlags().IntVar(&subSteps, "substeps", 0, "sub-steps per frame (0 = config value)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run headless simulation and record metrics",
		RunE:  runSimulation,
	}
	runCmd.Flags().Float64Var(&duration, "time", 10.0, "duration")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run simulation with live terminal visualization",
		RunE:  runLive,
	}

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "run simulation with 3D GUI",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := buildSolver(cmd)
			if err != nil {
				return err
			}
			gui.Run(s, float32(frameDt))
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot recorded metric series",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark solver throughput",
		RunE:  benchSolver,
	}
	benchCmd.Flags().Float64Var(&duration, "time", 3.0, "duration per case")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a recorded metric series",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&metricName, "metric", "kinetic_energy", "metric series to analyze")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep one parameter across a range of headless runs",
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&sweepParam, "param", "pressure_multiplier",
		fmt.Sprintf("parameter to sweep (one of %v)", config.ParamNames()))
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 100, "lowest parameter value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1000, "highest parameter value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of sweep points")
	sweepCmd.Flags().Float64Var(&duration, "time", 5.0, "duration per point")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file.yaml]",
		Short: "run a scripted scenario file",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, p := range config.ListPresets() {
				fmt.Println(p)
			}
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, guiCmd, listCmd, plotCmd, exportCmd, exportCSVCmd, benchCmd, analyzeCmd, sweepCmd, scenarioCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// buildSolver resolves preset, config file, and flag overrides into a
// live solver. Precedence: flags > config file > preset > defaults.
func buildSolver(cmd *cobra.Command) (*solver.Solver, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if subSteps > 0 {
		cfg.SubSteps = subSteps
	}

	be := selectBackend()
	compute.SetBackend(be)
	return solver.New(cfg, be)
}

func selectBackend() compute.Backend {
	switch backend {
	case "cpu":
		return compute.NewCPUBackend()
	case "serial":
		return compute.NewSerialBackend()
	default:
		return compute.AutoSelectBackend()
	}
}

func attachMetrics(r *solver.Runner) {
	cfg := r.Solver().Config()
	r.AddMetric(metrics.NewDensityDeviation(float64(cfg.TargetDensity)))
	r.AddMetric(metrics.NewKineticEnergy())
	r.AddMetric(metrics.NewMaxSpeed())
}

func runSimulation(cmd *cobra.Command, args []string) error {
	s, err := buildSolver(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	runner := solver.NewRunner(s)
	attachMetrics(runner)

	name := preset
	if name == "" {
		name = "default"
	}

	fmt.Printf("running %s: %d particles, %d sub-steps, backend %s\n",
		name, s.N(), s.Config().SubSteps, compute.GetBackend().Name())
	start := time.Now()

	result, err := runner.Run(context.Background(), float32(duration), float32(frameDt))
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(name, s.N(), frameDt, duration, compute.GetBackend().Name(), result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v (%.1f frames/sec)\n", elapsed, float64(result.FramesRun)/elapsed.Seconds())
	fmt.Printf("run id: %s\n", runID)
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	s, err := buildSolver(cmd)
	if err != nil {
		return err
	}
	return viz.Run(s, float32(frameDt))
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
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tPARTICLES\tDURATION\tDT\tBACKEND")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2fs\t%.4fs\t%s\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Particles,
			run.Duration,
			run.FrameDt,
			run.Backend,
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

	names, _, series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s\n", meta.Preset)
	fmt.Printf("particles: %d\n\n", meta.Particles)

	for _, name := range names {
		data := series[name]
		if len(data) == 0 {
			continue
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	return st.ExportJSON(args[0], os.Stdout)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	names, times, series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(times) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	header := append([]string{"time"}, names...)
	if err := w.Write(header); err != nil {
		return err
	}
	for i := range times {
		row := []string{strconv.FormatFloat(times[i], 'f', 6, 64)}
		for _, name := range names {
			row = append(row, strconv.FormatFloat(series[name][i], 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func benchSolver(cmd *cobra.Command, args []string) error {
	substepCases := []int{1, 2, 3, 4}
	backends := []compute.Backend{compute.NewSerialBackend(), compute.NewCPUBackend()}

	fmt.Println("benchmarking solver")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BACKEND\tSUBSTEPS\tPARTICLES\tFRAMES\tTIME\tFRAMES/SEC")

	for _, be := range backends {
		for _, ss := range substepCases {
			cfg := config.DefaultConfig()
			if preset != "" {
				if p := config.GetPreset(preset); p != nil {
					cfg = p
				}
			}
			cfg.SubSteps = ss

			s, err := solver.New(cfg, be)
			if err != nil {
				return err
			}
			runner := solver.NewRunner(s)

			start := time.Now()
			result, err := runner.Run(context.Background(), float32(duration), float32(frameDt))
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%v\t%.0f\n",
				be.Name(), ss, s.N(), result.FramesRun, elapsed.Round(time.Millisecond),
				float64(result.FramesRun)/elapsed.Seconds())
		}
	}
	return w.Flush()
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	_, _, series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}

	data := series[metricName]
	if len(data) == 0 {
		return fmt.Errorf("run has no %q series", metricName)
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("preset: %s, metric: %s\n\n", meta.Preset, metricName)

	ps := analysis.PowerSpectrum(data)
	plotData := ps[:len(ps)/4]

	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("power spectrum (%s)", metricName)),
	)
	fmt.Println(graph)
	fmt.Println()

	freq, power := analysis.DominantFrequency(data, meta.FrameDt)
	fmt.Printf("dominant frequency: %.3f hz (power %.3f)\n", freq, power)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}

	if settled := analysis.SettlingFrame(data, 0.05*power); settled >= 0 {
		fmt.Printf("settles after frame %d (t=%.2fs)\n", settled, float64(settled)*meta.FrameDt)
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	be := selectBackend()
	compute.SetBackend(be)

	sweep := &automation.ParameterSweep{
		Preset:    preset,
		ParamName: sweepParam,
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepSteps,
		Duration:  float32(duration),
		FrameDt:   float32(frameDt),
	}

	results, err := automation.RunSweep(context.Background(), sweep, be)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tDENSITY DEV\tMAX ENERGY\tMIN ENERGY\n", sweepParam)
	for _, r := range results {
		fmt.Fprintf(w, "%.4f\t%.6f\t%.3f\t%.3f\n",
			r.ParamValue, r.FinalMetrics["density_deviation"], r.MaxEnergy, r.MinEnergy)
	}
	return w.Flush()
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	be := selectBackend()
	compute.SetBackend(be)

	fmt.Printf("scenario: %s\n", scenario.Name)
	if scenario.Description != "" {
		fmt.Println(scenario.Description)
	}

	results, err := automation.RunScenario(context.Background(), scenario, be, st)
	if err != nil {
		return err
	}

	fmt.Printf("\n%d steps complete\n", len(results))
	for i, r := range results {
		fmt.Printf("step %d: %d frames, density deviation %.6f\n",
			i+1, r.FramesRun, r.Metrics["density_deviation"])
	}
	return nil
}
