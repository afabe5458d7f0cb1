package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/copperwood-systems/datascout/internal/correlate"
	"github.com/copperwood-systems/datascout/internal/dataset"
	"github.com/copperwood-systems/datascout/internal/report"
)

var (
	corLoad      loadFlags
	corOut       outFlags
	corThreshold float64
	corGraphPath string
)

var correlateCmd = &cobra.Command{
	Use:   "correlate <file>",
	Short: "Report Pearson correlations and near-duplicate columns",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lopt, err := corLoad.options(cmd)
		if err != nil {
			return err
		}
		ds, err := dataset.Load(args[0], lopt)
		if err != nil {
			return err
		}
		thr := pickFloat(cmd.Flags().Changed("corr-threshold"), corThreshold, cfg.CorrThreshold, 0.8)
		matrix := correlate.Numeric(ds)
		rep := report.Assemble(report.Parts{
			Source:      sourceParts(ds),
			Rows:        ds.Rows(),
			Correlation: matrix,
			Redundant:   correlate.Redundant(matrix, thr),
			Warnings:    ds.Warnings(),
		})

		if corGraphPath != "" {
			var buf bytes.Buffer
			if err := report.WriteDOT(&buf, rep); err != nil {
				return fmt.Errorf("write graph: %w", err)
			}
			if err := os.WriteFile(corGraphPath, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write graph: %w", err)
			}
			fmt.Printf("✓ Wrote redundancy graph to %s\n", corGraphPath)
		}
		return corOut.write(rep)
	},
}

func init() {
	rootCmd.AddCommand(correlateCmd)
	addLoadFlags(correlateCmd, &corLoad)
	addOutFlags(correlateCmd, &corOut)
	correlateCmd.Flags().Float64Var(&corThreshold, "corr-threshold", 0.8, "|r| above which a column pair is flagged redundant")
	correlateCmd.Flags().StringVar(&corGraphPath, "graph", "", "optional path to write the redundancy graph (Graphviz DOT)")
}
