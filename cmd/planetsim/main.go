package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/planetsim/internal/config"
	"github.com/san-kum/planetsim/internal/export"
	"github.com/san-kum/planetsim/internal/metrics"
	"github.com/san-kum/planetsim/internal/seed"
	"github.com/san-kum/planetsim/internal/sim"
	"github.com/san-kum/planetsim/internal/storage"
	"github.com/san-kum/planetsim/internal/viz"
	"github.com/san-kum/planetsim/internal/world"
	"github.com/spf13/cobra"
)

var (
	dataDir     string
	logLevel    string
	logFormat   string
	steps       int
	seedFlag    int64
	numBodies   int
	gConst      float64
	sampleEvery int
	star        bool
	numRuns     int
	configFile  string
	frameRate   int
	themeName   string
	preset      string
	svgSize     int
	svgSeries   string
	benchSteps  int
)

// main registers the planetsim commands. With no subcommand it opens the
// live view on the classic preset.
func main() {
	rootCmd := &cobra.Command{
		Use:          "planetsim",
		Short:        "gravitational n-body sandbox with merging planets",
		SilenceUsage: true,
		RunE:         runLive,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".planetsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and store it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addPopulationFlags(runCmd)
	runCmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of steps")
	runCmd.Flags().Float64Var(&gConst, "g", 0, "gravitational constant (default from preset)")
	runCmd.Flags().IntVar(&sampleEvery, "sample-every", config.DefaultSampleEvery, "steps between samples")
	runCmd.Flags().BoolVar(&star, "star", false, "add a central star")
	runCmd.Flags().IntVar(&numRuns, "runs", 1, "number of runs over consecutive seeds")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run simulation with live visualization",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addPopulationFlags(liveCmd)
	addPopulationFlags(rootCmd)
	for _, c := range []*cobra.Command{liveCmd, rootCmd} {
		c.Flags().IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate")
		c.Flags().StringVar(&themeName, "theme", "", "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run aggregates",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run samples to CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportCSV(cmd.OutOrStdout(), args[0])
		},
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportJSON(cmd.OutOrStdout(), args[0])
		},
	}

	svgCmd := &cobra.Command{
		Use:   "svg [run_id]",
		Short: "render a run's final population or a sample series as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  svgRun,
	}
	svgCmd.Flags().IntVar(&svgSize, "size", 800, "image width and height in pixels")
	svgCmd.Flags().StringVar(&svgSeries, "series", "", "plot a sample series instead (population, mass, kinetic, momentum, merges)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "measure step throughput for several population sizes",
		Args:  cobra.NoArgs,
		RunE:  benchSizes,
	}
	benchCmd.Flags().IntVar(&benchSteps, "steps", 200, "steps per size")
	benchCmd.Flags().Int64Var(&seedFlag, "seed", 1, "random seed")

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportCmd, exportCSVCmd, exportJSONCmd, svgCmd, presetsCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addPopulationFlags(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&seedFlag, "seed", 0, "random seed (0 picks one from the clock)")
	cmd.Flags().IntVar(&numBodies, "bodies", 0, "number of planets (default from preset)")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	opts := &slog.HandlerOptions{Level: lvl}
	switch format {
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q (want text or json)", format)
	}
}

// resolveConfig layers preset, config file and explicitly set flags, in
// that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seedFlag
	}
	if flags.Changed("bodies") {
		cfg.Population.Count = numBodies
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("g") {
		cfg.G = gConst
	}
	if flags.Changed("sample-every") {
		cfg.SampleEvery = sampleEvery
	}
	if flags.Changed("star") {
		cfg.Population.Star = star
	}
	if flags.Changed("fps") {
		cfg.Live.FPS = frameRate
	}
	if flags.Changed("theme") {
		cfg.Live.Theme = themeName
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if err := cfg.SeedConfig().Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newSimulator seeds a fresh world and wires the default metrics.
func newSimulator(cfg *config.Config, seedValue int64, logger *slog.Logger) (*sim.Simulator, error) {
	seeder, err := seed.New(rand.New(rand.NewSource(seedValue)), cfg.SeedConfig())
	if err != nil {
		return nil, err
	}
	w := world.New()
	seeder.Populate(w)

	s := sim.NewDefault(w, cfg.G)
	for _, m := range metrics.Defaults(cfg.G, config.DefaultContainment) {
		s.AddMetric(m)
	}
	s.SetLogger(logger)
	return s, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(cmd.ErrOrStderr(), logLevel, logFormat)
	if err != nil {
		return err
	}
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if numRuns < 1 {
		return fmt.Errorf("--runs must be at least 1, got %d", numRuns)
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	factory := func(s int64) (*sim.Simulator, error) {
		return newSimulator(cfg, s, logger.With("seed", s))
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "running %d bodies for %d steps...\n", cfg.Population.Count, cfg.Steps)
	start := time.Now()

	var results []*sim.Result
	var runErr error
	if numRuns == 1 {
		s, err := factory(cfg.Seed)
		if err != nil {
			return err
		}
		r, err := s.Run(ctx, cfg.RunConfig())
		if r != nil {
			results = append(results, r)
		}
		runErr = err
	} else {
		results, runErr = sim.NewEnsemble(factory, numRuns, cfg.Seed).Run(ctx, cfg.RunConfig())
	}
	elapsed := time.Since(start)

	stored, err := storeResults(st, out, logger, cfg, results)
	if err != nil {
		return err
	}
	if stored > 0 {
		fmt.Fprintf(out, "\ncompleted in %v\n", elapsed)
	}

	if runErr != nil && errors.Is(runErr, context.Canceled) {
		fmt.Fprintf(out, "interrupted: %d partial run(s) stored\n", stored)
		return nil
	}
	return runErr
}

// storeResults saves every non-nil result, partial ones included, and
// prints a summary of each. results[i] belongs to seed cfg.Seed+i.
func storeResults(st *storage.Store, out io.Writer, logger *slog.Logger, cfg *config.Config, results []*sim.Result) (int, error) {
	stored := 0
	for i, result := range results {
		if result == nil {
			continue
		}
		params := storage.RunParams{
			Preset: preset,
			Seed:   cfg.Seed + int64(i),
			Steps:  cfg.Steps,
			G:      cfg.G,
			Bodies: result.Samples[0].Population,
			Extent: cfg.Population.Extent,
		}
		runID, err := st.Save(params, result)
		if err != nil {
			return stored, err
		}
		stored++
		logger.Debug("run stored", "run_id", runID, "seed", params.Seed, "steps", result.StepsTaken)

		fmt.Fprintf(out, "\nrun id: %s\n", runID)
		fmt.Fprintf(out, "seed: %d\n", params.Seed)
		fmt.Fprintf(out, "steps: %d\n", result.StepsTaken)
		fmt.Fprintf(out, "bodies: %d -> %d (%d merges)\n", params.Bodies, len(result.Final), result.Merges)
		fmt.Fprintf(out, "mass drift: %.3e  momentum drift: %.3e\n", result.MassDrift, result.MomentumDrift)
		fmt.Fprintln(out, "metrics:")
		for _, name := range sortedKeys(result.Metrics) {
			fmt.Fprintf(out, "  %s: %.6f\n", name, result.Metrics[name])
		}
	}
	return stored, nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	// The terminal belongs to the TUI; logs go nowhere.
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := newSimulator(cfg, cfg.Seed, logger)
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(cfg.Seed + 1))
	reseed := func(w *world.World) error {
		seeder, err := seed.New(rng, cfg.SeedConfig())
		if err != nil {
			return err
		}
		seeder.Populate(w)
		return nil
	}

	title := "planetsim"
	if preset != "" {
		title += " · " + preset
	}
	m := viz.NewModel(s, reseed, viz.Options{
		Title:  title,
		FPS:    cfg.Live.FPS,
		Trails: cfg.Live.Trails,
		Span:   cfg.Population.Extent * 1.25,
		Theme:  cfg.Live.Theme,
	})
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tSEED\tSTEPS\tBODIES\tMERGES\tG")

	for _, run := range runs {
		p := run.Preset
		if p == "" {
			p = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d->%d\t%d\t%g\n",
			run.ID,
			p,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Seed,
			run.StepsTaken,
			run.InitialBodies,
			run.FinalBodies,
			run.Merges,
			run.G,
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
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}
	if len(samples) < 2 {
		return fmt.Errorf("not enough samples to plot")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run: %s\n", meta.ID)
	fmt.Fprintf(out, "seed: %d  steps: %d  g: %g\n\n", meta.Seed, meta.StepsTaken, meta.G)

	for _, series := range []struct {
		name    string
		caption string
	}{
		{"population", "bodies"},
		{"mass", "total mass"},
		{"kinetic", "kinetic energy"},
		{"momentum", "|momentum|"},
	} {
		data, err := seriesValues(samples, series.name)
		if err != nil {
			return err
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(70),
			asciigraph.Caption(series.caption),
		)
		fmt.Fprintln(out, graph)
		fmt.Fprintln(out)
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "id: %s\n", meta.ID)
	if meta.Preset != "" {
		fmt.Fprintf(out, "preset: %s\n", meta.Preset)
	}
	fmt.Fprintf(out, "timestamp: %s\n", meta.Timestamp.Format(time.RFC3339))
	fmt.Fprintf(out, "seed: %d\n", meta.Seed)
	fmt.Fprintf(out, "g: %g\n", meta.G)
	fmt.Fprintf(out, "steps: %d/%d\n", meta.StepsTaken, meta.Steps)
	fmt.Fprintf(out, "bodies: %d -> %d\n", meta.InitialBodies, meta.FinalBodies)
	fmt.Fprintf(out, "merges: %d\n", meta.Merges)
	fmt.Fprintf(out, "mass drift: %.6e\n", meta.MassDrift)
	fmt.Fprintf(out, "momentum drift: %.6e\n", meta.MomentumDrift)
	fmt.Fprintln(out, "metrics:")
	for _, name := range sortedKeys(meta.Metrics) {
		fmt.Fprintf(out, "  %s: %.6f\n", name, meta.Metrics[name])
	}
	return nil
}

func svgRun(cmd *cobra.Command, args []string) error {
	doc, err := renderSVG(storage.New(dataDir), args[0], svgSeries, svgSize)
	if err != nil {
		return err
	}
	_, err = io.WriteString(cmd.OutOrStdout(), doc+"\n")
	return err
}

// renderSVG draws the final population of a run, or with series set, one
// column of its samples.
func renderSVG(st *storage.Store, runID, series string, size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("--size must be positive, got %d", size)
	}
	meta, err := st.Load(runID)
	if err != nil {
		return "", err
	}

	if series != "" {
		samples, err := st.LoadSamples(runID)
		if err != nil {
			return "", err
		}
		values, err := seriesValues(samples, series)
		if err != nil {
			return "", err
		}
		if len(values) < 2 {
			return "", fmt.Errorf("not enough samples to plot")
		}
		return export.SeriesToSVG(values, size, size/2, "#00ffff"), nil
	}

	bodies, err := st.LoadBodies(runID)
	if err != nil {
		return "", err
	}
	return export.BodiesToSVG(bodies, viz.NewCamera(viewSpan(meta)), size, size), nil
}

// viewSpan frames a stored run's seeding cube with some margin. Runs saved
// without an extent use the default population's.
func viewSpan(meta *storage.RunMetadata) float64 {
	extent := meta.Extent
	if extent <= 0 {
		extent = config.DefaultConfig().Population.Extent
	}
	return extent * 1.25
}

var seriesNames = []string{"population", "mass", "kinetic", "momentum", "merges"}

func seriesValues(samples []sim.Sample, name string) ([]float64, error) {
	out := make([]float64, len(samples))
	for i, smp := range samples {
		switch name {
		case "population":
			out[i] = float64(smp.Population)
		case "mass":
			out[i] = smp.TotalMass
		case "kinetic":
			out[i] = smp.KineticEnergy
		case "momentum":
			out[i] = smp.Momentum.Length()
		case "merges":
			out[i] = float64(smp.Merges)
		default:
			return nil, fmt.Errorf("unknown series %q (available: %v)", name, seriesNames)
		}
	}
	return out, nil
}

var (
	tableHeader = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	tableName   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Width(10)
	tableCell   = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Width(10)
)

func listPresets(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, tableHeader.Render(fmt.Sprintf("%-10s%-10s%-10s%-10s%-10s%-10s", "PRESET", "BODIES", "MASS MAX", "SPEED", "EXTENT", "STAR")))
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name).Population
		starMass := "-"
		if p.Star {
			starMass = fmt.Sprintf("%g", p.StarMass)
		}
		fmt.Fprintln(out, lipgloss.JoinHorizontal(lipgloss.Top,
			tableName.Render(name),
			tableCell.Render(fmt.Sprintf("%d", p.Count)),
			tableCell.Render(fmt.Sprintf("%g", p.MassMax)),
			tableCell.Render(fmt.Sprintf("%g", p.Speed)),
			tableCell.Render(fmt.Sprintf("%g", p.Extent)),
			tableCell.Render(starMass),
		))
	}
	return nil
}

func benchSizes(cmd *cobra.Command, args []string) error {
	if benchSteps <= 0 {
		return fmt.Errorf("--steps must be positive, got %d", benchSteps)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODIES\tSTEPS/S\tNS/STEP\tMERGES\tFINAL")

	for _, n := range []int{10, 50, 150, 400, 1000} {
		cfg := config.DefaultConfig()
		cfg.Population.Count = n
		s, err := newSimulator(cfg, seedFlag, logger)
		if err != nil {
			return err
		}
		merges := 0
		start := time.Now()
		for i := 0; i < benchSteps; i++ {
			merges += len(s.Step().Merges)
		}
		elapsed := time.Since(start)
		perStep := elapsed / time.Duration(benchSteps)
		fmt.Fprintf(w, "%d\t%.1f\t%d\t%d\t%d\n",
			n,
			float64(benchSteps)/elapsed.Seconds(),
			perStep.Nanoseconds(),
			merges,
			s.World().Len(),
		)
	}
	return w.Flush()
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
