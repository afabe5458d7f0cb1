package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/copperwood-systems/datascout/internal/dataset"
	"github.com/copperwood-systems/datascout/internal/report"
)

var (
	anaLoad       loadFlags
	anaOut        outFlags
	anaTarget     string
	anaSampleRows int
	anaTopValues  int
	anaFence      float64
	anaCorrThr    float64
	anaMaxGroups  int
	anaOutliers   bool
	anaCorr       bool
	anaGraphPath  string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze a data file and produce a full report",
	Long: `Analyze loads a CSV, TSV, XLSX, or SQLite source and reports per-column
statistics, IQR outliers, Pearson correlations with near-duplicate detection,
and, with --target, per-category summaries of a numeric column.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		lopt, err := anaLoad.options(cmd)
		if err != nil {
			return err
		}
		ds, err := dataset.Load(path, lopt)
		if err != nil {
			return err
		}
		log.Debug("dataset loaded",
			zap.String("source", ds.Source()),
			zap.String("format", ds.Format()),
			zap.Int("rows", ds.Rows()),
			zap.Int("columns", len(ds.Cols())))

		f := cmd.Flags()
		opt := report.DefaultOptions()
		opt.Target = anaTarget
		opt.SampleRows = pickInt(f.Changed("sample-rows"), anaSampleRows, cfg.SampleRows, 5)
		opt.Profile.TopValues = pickInt(f.Changed("top-values"), anaTopValues, cfg.TopValues, 8)
		opt.Outlier.Fence = pickFloat(f.Changed("fence"), anaFence, cfg.Fence, 1.5)
		opt.Correlate.Threshold = pickFloat(f.Changed("corr-threshold"), anaCorrThr, cfg.CorrThreshold, 0.8)
		opt.Correlate.MaxGroupKeys = pickInt(f.Changed("max-groups"), anaMaxGroups, cfg.MaxGroupKeys, 50)
		if f.Changed("outliers") {
			opt.WithOutliers = anaOutliers
		}
		if f.Changed("correlations") {
			opt.WithCorrelations = anaCorr
		}

		rep, err := report.Build(ds, opt)
		if err != nil {
			return err
		}

		if anaGraphPath != "" {
			var buf bytes.Buffer
			if err := report.WriteDOT(&buf, rep); err != nil {
				return fmt.Errorf("write graph: %w", err)
			}
			if err := os.WriteFile(anaGraphPath, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write graph: %w", err)
			}
			fmt.Printf("✓ Wrote redundancy graph to %s\n", anaGraphPath)
		}
		return anaOut.write(rep)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	addLoadFlags(analyzeCmd, &anaLoad)
	addOutFlags(analyzeCmd, &anaOut)
	analyzeCmd.Flags().StringVarP(&anaTarget, "target", "t", "", "numeric column to summarize per category")
	analyzeCmd.Flags().IntVar(&anaSampleRows, "sample-rows", 5, "number of sample rows to include")
	analyzeCmd.Flags().IntVar(&anaTopValues, "top-values", 8, "top categorical values to keep per column")
	analyzeCmd.Flags().Float64Var(&anaFence, "fence", 1.5, "IQR multiplier for outlier fences")
	analyzeCmd.Flags().Float64Var(&anaCorrThr, "corr-threshold", 0.8, "|r| above which a column pair is flagged redundant")
	analyzeCmd.Flags().IntVar(&anaMaxGroups, "max-groups", 50, "skip group summaries for columns with more distinct values")
	analyzeCmd.Flags().BoolVar(&anaOutliers, "outliers", true, "compute IQR outliers")
	analyzeCmd.Flags().BoolVar(&anaCorr, "correlations", true, "compute Pearson correlations among numeric columns")
	analyzeCmd.Flags().StringVar(&anaGraphPath, "graph", "", "optional path to write the redundancy graph (Graphviz DOT)")
}
