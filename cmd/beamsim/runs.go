package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/beamsim/internal/storage"
	"github.com/san-kum/beamsim/internal/tracking"
)

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
	fmt.Fprintln(w, "ID\tSCENARIO\tTOPOLOGY\tALGORITHM\tTIME\tSTEPS\tENERGY")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%.4f MeV\n",
			run.ID,
			run.Scenario,
			run.Topology,
			run.Algorithm,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Steps,
			run.Summary["final_energy"]/1e6,
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

	rows, err := st.LoadRows(runID)
	if err != nil {
		return err
	}

	if len(rows) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s (%s)\n", meta.Scenario, meta.Algorithm)
	fmt.Printf("snapshots: %d, s from %.3f to %.3f m\n\n", len(rows), rows[0].S, rows[len(rows)-1].S)

	columns := []string{"x", "y"}
	if column != "" {
		columns = []string{column}
	}

	for _, col := range columns {
		data := make([]float64, len(rows))
		for i, r := range rows {
			v, ok := r.Value(col)
			if !ok {
				return fmt.Errorf("unknown column: %s (available: %v)", col, storage.Columns[2:])
			}
			data[i] = v
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(caption(meta.Algorithm, col)),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func caption(algorithm, col string) string {
	switch algorithm {
	case tracking.KindEnvelope.String():
		return "rms " + col + " per element"
	case tracking.KindTransferMap.String():
		return "map diagonal " + col + " per element"
	default:
		return col + " per element"
	}
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	rows, err := st.LoadRows(runID)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	if err := storage.ExportJSON(w, *meta, rows); err != nil {
		return err
	}
	if outFile != "" {
		fmt.Fprintf(os.Stderr, "exported %s to %s\n", runID, outFile)
	}
	return nil
}
