package main

import (
	"fmt"
	"math"
	"os"
	"path"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/beamsim/internal/algorithms"
	"github.com/san-kum/beamsim/internal/config"
	"github.com/san-kum/beamsim/internal/experiment"
	"github.com/san-kum/beamsim/internal/lattice"
	"github.com/san-kum/beamsim/internal/optim"
	"github.com/san-kum/beamsim/internal/phase"
	"github.com/san-kum/beamsim/internal/report"
	"github.com/san-kum/beamsim/internal/storage"
	"github.com/san-kum/beamsim/internal/tracking"
)

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd, topologyArg(cmd, args))
	if err != nil {
		return err
	}
	if ensemble > 0 {
		return runEnsemble(cmd, cfg)
	}

	s, err := registry.Build(cfg, trackerOptions()...)
	if err != nil {
		return err
	}

	fmt.Printf("running %s (%s, %s)...\n", cfg.Name, cfg.Topology, cfg.Algorithm)
	result, err := s.WithRecorder(recorder).Run()
	if err != nil {
		return err
	}

	rows := storage.Rows(s.Probe.Kind(), s.Probe.Trajectory())
	fmt.Println(report.Summary(cfg.Name, []report.Field{
		{Label: "elements", Value: fmt.Sprint(cfg.Count())},
		{Label: "steps", Value: fmt.Sprint(result.Steps)},
		{Label: "position", Value: fmt.Sprintf("%.4f m", result.Final.Position)},
		{Label: "time", Value: fmt.Sprintf("%.4g s", result.Final.Time)},
		{Label: "energy", Value: fmt.Sprintf("%.6f MeV", result.Final.KineticEnergy/1e6)},
		{Label: "elapsed", Value: result.Elapsed.String()},
	}))
	printPayload(s.Probe.Kind(), result.Final, rows)

	if noSave {
		return nil
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(metadata(cfg, result), rows)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	fmt.Printf("run id: %s\n", runID)
	return nil
}

func printPayload(kind tracking.Kind, final tracking.State, rows []storage.Row) {
	switch kind {
	case tracking.KindTransferMap:
		fmt.Println(report.Matrix("transfer map", final.TransferMap))
	case tracking.KindParticle:
		z := final.Coordinates
		fmt.Printf("final coordinates: x=%.4g x'=%.4g y=%.4g y'=%.4g z=%.4g z'=%.4g\n",
			z[phase.X], z[phase.XP], z[phase.Y], z[phase.YP], z[phase.Z], z[phase.ZP])
	case tracking.KindEnvelope:
		rms := phase.RMS(final.Covariance)
		fmt.Printf("final rms: x=%.4g m y=%.4g m z=%.4g m\n", rms[phase.X], rms[phase.Y], rms[phase.Z])
	}

	if kind == tracking.KindTransferMap || len(rows) < 2 {
		return
	}
	xs := make([]float64, len(rows))
	for i, r := range rows {
		xs[i] = r.Values[phase.X]
	}
	fmt.Printf("x along s: %s\n", report.Sparkline(xs, sparkWidth()))
}

func metadata(cfg *config.Config, result *experiment.Result) storage.RunMetadata {
	return storage.RunMetadata{
		Scenario:      cfg.Name,
		Topology:      cfg.Topology,
		Algorithm:     cfg.Algorithm,
		Species:       cfg.Species,
		KineticEnergy: cfg.KineticEnergy,
		Current:       cfg.Beam.Current,
		Elements:      cfg.Count(),
		Steps:         result.Steps,
		Elapsed:       result.Elapsed,
		Summary: finite(map[string]float64{
			"final_position": result.Final.Position,
			"final_time":     result.Final.Time,
			"final_energy":   result.Final.KineticEnergy,
			"final_phase":    result.Final.Phase,
		}),
	}
}

// finite drops the entries json cannot encode.
func finite(m map[string]float64) map[string]float64 {
	for k, v := range m {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			delete(m, k)
		}
	}
	return m
}

func runEnsemble(cmd *cobra.Command, cfg *config.Config) error {
	if len(cfg.Initial.RMS) != phase.HOM {
		return fmt.Errorf("ensemble needs rms sizes in the scenario initial block")
	}

	fmt.Printf("running %d particles through %s...\n", ensemble, cfg.Name)
	start := time.Now()
	probes, err := experiment.NewEnsemble(registry, cfg, ensemble, seed).Run(cmd.Context(), trackerOptions()...)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	moments := experiment.Moments(experiment.FinalCoordinates(probes))
	rms := phase.RMS(moments)
	mean := phase.Mean(moments)

	fmt.Println(report.Summary(cfg.Name, []report.Field{
		{Label: "particles", Value: fmt.Sprint(len(probes))},
		{Label: "seed", Value: fmt.Sprint(seed)},
		{Label: "mean x", Value: fmt.Sprintf("%.4g m", mean[phase.X])},
		{Label: "mean y", Value: fmt.Sprintf("%.4g m", mean[phase.Y])},
		{Label: "rms x", Value: fmt.Sprintf("%.4g m", rms[phase.X])},
		{Label: "rms y", Value: fmt.Sprintf("%.4g m", rms[phase.Y])},
		{Label: "elapsed", Value: elapsed.String()},
	}))
	fmt.Println(report.Matrix("final moments", moments))
	return nil
}

func ringMap(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd, config.TopologyRing)
	if err != nil {
		return err
	}
	cfg.Algorithm = algorithms.NameTransferMap

	s, err := registry.Build(cfg, trackerOptions()...)
	if err != nil {
		return err
	}
	m, err := s.OneTurnMap()
	if err != nil {
		return err
	}

	fmt.Println(report.Matrix(fmt.Sprintf("one-turn map of %s (%.3f m)", cfg.Name, s.Root.Length()), m))
	fmt.Println(report.Tunes(m))
	for plane, name := range []string{"x", "y", "z"} {
		fmt.Printf("det %s block: %.12f\n", name, m.Det2(plane))
	}
	return nil
}

func matchTunes(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd, config.TopologyRing)
	if err != nil {
		return err
	}

	var grid []optim.Knob
	for _, pattern := range knobs {
		g, ok := firstGradient(cfg, pattern)
		if !ok {
			return fmt.Errorf("no quadrupole matches %s", pattern)
		}
		lo, hi := g*(1-spread), g*(1+spread)
		grid = append(grid, optim.Knob{Match: pattern, Param: "gradient", Values: optim.Linspace(lo, hi, gridSteps)})
	}

	fmt.Printf("scanning %d points for tunes (%.4f, %.4f)...\n", pow(gridSteps, len(grid)), nux, nuy)
	best, score, err := optim.NewGridSearch(grid...).Search(cmd.Context(), cfg, optim.TuneObjective(registry, nux, nuy))
	if err != nil {
		return err
	}

	fields := make([]report.Field, 0, len(grid)+1)
	for _, k := range grid {
		fields = append(fields, report.Field{Label: k.Name(), Value: fmt.Sprintf("%.5f T/m", best[k.Name()])})
	}
	fields = append(fields, report.Field{Label: "tune error", Value: fmt.Sprintf("%.3g", math.Sqrt(score))})
	fmt.Println(report.Summary("best gradients", fields))
	return nil
}

func firstGradient(cfg *config.Config, pattern string) (float64, bool) {
	var g float64
	found := false
	cfg.Walk(func(e *config.ElementConfig) {
		if found || e.Type != "quadrupole" {
			return
		}
		if ok, _ := path.Match(pattern, e.ID); ok {
			v, isFloat := toFloat(e.Params["gradient"])
			g, found = v, isFloat
		}
	})
	return g, found
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

func pow(base, exp int) int {
	out := 1
	for range exp {
		out *= base
	}
	return out
}

func printLattice(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd, topologyArg(cmd, args))
	if err != nil {
		return err
	}
	root, err := registry.BuildTree(cfg)
	if err != nil {
		return err
	}

	w := config.NewYAMLWriter()
	if err := lattice.Materialize(root, w); err != nil {
		return err
	}
	fmt.Printf("# %s: %d elements, %.3f m\n", cfg.Name, cfg.Count(), root.Length())
	_, err = w.WriteTo(os.Stdout)
	return err
}

func listPresets(cmd *cobra.Command, args []string) error {
	topologies := config.Topologies()
	if len(args) > 0 {
		topologies = []string{args[0]}
	}
	for _, topo := range topologies {
		presets := config.ListPresets(topo)
		if len(presets) == 0 {
			fmt.Printf("no presets for topology: %s\n", topo)
			continue
		}
		fmt.Printf("%s: %s\n", topo, strings.Join(presets, ", "))
	}
	return nil
}
