package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/san-kum/beamsim/internal/algorithms"
	"github.com/san-kum/beamsim/internal/config"
	"github.com/san-kum/beamsim/internal/experiment"
	"github.com/san-kum/beamsim/internal/telemetry"
)

var (
	dataDir     string
	logLevel    string
	metricsAddr string
	noColor     bool
	seed        int64
	ensemble    int
	noSave      bool
	column      string
	outFile     string
	nux         float64
	nuy         float64
	gridSteps   int
	spread      float64
	knobs       []string
)

var (
	logger   = slog.New(slog.DiscardHandler)
	recorder = telemetry.NewRecorder()
	registry = experiment.NewRegistry()
)

var server *http.Server

func main() {
	rootCmd := &cobra.Command{
		Use:                "beamsim",
		Short:              "beamline modeling and probe propagation",
		SilenceUsage:       true,
		PersistentPreRunE:  setup,
		PersistentPostRunE: teardown,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".beamsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	runCmd := &cobra.Command{
		Use:   "run [topology]",
		Short: "propagate a probe through a scenario",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScenario,
	}
	scenarioFlags(runCmd, "linac")
	runCmd.Flags().IntVar(&ensemble, "ensemble", 0, "run this many jittered particles instead of one probe")
	runCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "first ensemble seed")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	ringCmd := &cobra.Command{
		Use:   "ring",
		Short: "one-turn map and tunes of a ring",
		Args:  cobra.NoArgs,
		RunE:  ringMap,
	}
	scenarioFlags(ringCmd, "fodo")

	matchCmd := &cobra.Command{
		Use:   "match",
		Short: "grid search quadrupole gradients for target tunes",
		Args:  cobra.NoArgs,
		RunE:  matchTunes,
	}
	scenarioFlags(matchCmd, "fodo")
	matchCmd.Flags().Float64Var(&nux, "nux", 0.25, "target horizontal tune")
	matchCmd.Flags().Float64Var(&nuy, "nuy", 0.25, "target vertical tune")
	matchCmd.Flags().IntVar(&gridSteps, "steps", 11, "grid points per knob")
	matchCmd.Flags().Float64Var(&spread, "spread", 0.5, "relative gradient range around the current value")
	matchCmd.Flags().StringSliceVar(&knobs, "knob", []string{"QF*", "QD*"}, "element id patterns to scan")

	latticeCmd := &cobra.Command{
		Use:   "lattice [topology]",
		Short: "print the element tree of a scenario as yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE:  printLattice,
	}
	scenarioFlags(latticeCmd, "fodo")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a trajectory column along the beamline",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&column, "column", "", "column to plot (default x and y)")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a run and its trajectory as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets [topology]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	typesCmd := &cobra.Command{
		Use:   "types",
		Short: "list element types and algorithms",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("elements:   %s\n", strings.Join(registry.ListElements(), ", "))
			fmt.Printf("algorithms: %s\n", strings.Join(registry.ListAlgorithms(), ", "))
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, ringCmd, matchCmd, latticeCmd, listCmd, plotCmd, exportCmd, presetsCmd, typesCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// scenarioFlags adds --config and --preset. Each command keeps its own
// preset default, so the values are read back from the command's flags.
func scenarioFlags(cmd *cobra.Command, defaultPreset string) {
	cmd.Flags().String("config", "", "scenario file (yaml)")
	cmd.Flags().String("preset", defaultPreset, "use preset scenario")
}

func setup(cmd *cobra.Command, args []string) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if noColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	reg := prometheus.NewRegistry()
	if err := recorder.Register(reg); err != nil {
		return err
	}

	if metricsAddr == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	server = &http.Server{Addr: metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "addr", metricsAddr, "error", err)
		}
	}()
	logger.Info("serving metrics", "addr", metricsAddr)
	return nil
}

// teardown keeps the metrics endpoint up after a command finishes so that
// the final counters can be scraped.
func teardown(cmd *cobra.Command, args []string) error {
	if server == nil {
		return nil
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	fmt.Fprintf(os.Stderr, "metrics on %s/metrics, interrupt to exit\n", metricsAddr)
	<-ctx.Done()

	shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdown)
}

// sparkWidth fits a sparkline and its label on the terminal.
func sparkWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 20 {
		return 60
	}
	return min(width-12, 120)
}

func trackerOptions() []algorithms.Option {
	return []algorithms.Option{
		algorithms.WithLogger(logger),
		algorithms.WithRecorder(recorder),
	}
}

// loadScenario reads --config if given, otherwise the preset of topology.
func loadScenario(cmd *cobra.Command, topology string) (*config.Config, error) {
	configFile, _ := cmd.Flags().GetString("config")
	preset, _ := cmd.Flags().GetString("preset")

	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if topology != "" && cfg.Topology != topology {
			return nil, fmt.Errorf("%s is a %s scenario, not %s", configFile, cfg.Topology, topology)
		}
		return cfg, nil
	}

	cfg := config.GetPreset(topology, preset)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s (available for %s: %v)", preset, topology, config.ListPresets(topology))
	}
	return cfg, nil
}

func topologyArg(cmd *cobra.Command, args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	if cmd.Flags().Changed("config") {
		return ""
	}
	return config.TopologyLine
}
